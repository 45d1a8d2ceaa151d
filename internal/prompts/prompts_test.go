package prompts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/terminassist/voice-call-service/internal/domain"
)

func TestBuildSystemPromptEmbedsBookingFields(t *testing.T) {
	booking := domain.BookingDetails{
		AppointmentType: "Zahnarzt",
		Date:            "20. Juni",
		Time:            "10:00",
		Duration:        "45 Minuten",
		Description:     "Routinekontrolle",
		PatientName:     "Frau Weber",
		Location:        "Praxis am Markt",
	}.WithDefaults()

	prompt := BuildSystemPrompt(booking)

	for _, want := range []string{"Zahnarzt", "20. Juni", "10:00", "45 Minuten", "Routinekontrolle", "Frau Weber", "Praxis am Markt"} {
		assert.Contains(t, prompt, want)
	}
}

func TestBuildSystemPromptNeverEmptyFields(t *testing.T) {
	prompt := BuildSystemPrompt(domain.BookingDetails{}.WithDefaults())

	assert.False(t, strings.Contains(prompt, "- Patient: \n"), "no field may render empty")
	assert.Contains(t, prompt, domain.DefaultAppointmentType)
	assert.Contains(t, prompt, domain.DefaultDate)
}
