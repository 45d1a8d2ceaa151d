package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithDefaultsFillsAbsentFields(t *testing.T) {
	b := BookingDetails{}.WithDefaults()

	assert.NotEmpty(t, b.RequestID)
	assert.Equal(t, DefaultAppointmentType, b.AppointmentType)
	assert.Equal(t, DefaultDate, b.Date)
	assert.Equal(t, DefaultTime, b.Time)
	assert.Equal(t, DefaultDuration, b.Duration)
	assert.Equal(t, DefaultDescription, b.Description)
	assert.Equal(t, DefaultPatientName, b.PatientName)
	assert.Equal(t, DefaultLocation, b.Location)
}

func TestWithDefaultsKeepsProvidedFields(t *testing.T) {
	b := BookingDetails{
		RequestID:       "req-1",
		AppointmentType: "Zahnarzt",
		Date:            "20. Juni",
		Time:            "10:00",
	}.WithDefaults()

	assert.Equal(t, "req-1", b.RequestID)
	assert.Equal(t, "Zahnarzt", b.AppointmentType)
	assert.Equal(t, "20. Juni", b.Date)
	assert.Equal(t, "10:00", b.Time)
	assert.Equal(t, DefaultDuration, b.Duration)
}

func TestBookingDetailsWireNames(t *testing.T) {
	payload := `{"requestId":"req-2","terminTyp":"Zahnarzt","datum":"20. Juni","uhrzeit":"10:00","dauer":"45 Minuten","beschreibung":"Kontrolle","patientName":"Frau Weber","ort":"Berlin"}`

	var b BookingDetails
	require.NoError(t, json.Unmarshal([]byte(payload), &b))

	assert.Equal(t, "Zahnarzt", b.AppointmentType)
	assert.Equal(t, "20. Juni", b.Date)
	assert.Equal(t, "10:00", b.Time)
	assert.Equal(t, "45 Minuten", b.Duration)
	assert.Equal(t, "Kontrolle", b.Description)
	assert.Equal(t, "Frau Weber", b.PatientName)
	assert.Equal(t, "Berlin", b.Location)
}
