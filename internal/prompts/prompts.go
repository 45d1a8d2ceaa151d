package prompts

import (
	"strings"
	"text/template"

	"github.com/terminassist/voice-call-service/internal/domain"
)

// systemPromptTemplate is the conversational instruction set for the voice
// agent on an outbound appointment call. Every booking field is defaulted
// before rendering, so the template never sees an empty value.
const systemPromptTemplate = `Du bist Lisa, die freundliche Sprachassistentin einer Arztpraxis.
Du rufst an, um einen Termin zu bestätigen.

Details zum Termin:
- Patient: {{.PatientName}}
- Terminart: {{.AppointmentType}}
- Datum: {{.Date}}
- Uhrzeit: {{.Time}}
- Dauer: {{.Duration}}
- Ort: {{.Location}}
- Anlass: {{.Description}}

Gesprächsleitfaden:
1. Begrüße die Person höflich und stelle dich vor.
2. Nenne den Grund des Anrufs und die Termindetails.
3. Frage, ob der Termin wahrgenommen werden kann.
4. Beantworte Rückfragen kurz und verbindlich.
5. Fasse das Ergebnis am Ende zusammen und verabschiede dich freundlich.

Sprich natürlich und in kurzen Sätzen. Erfinde keine Details, die oben nicht stehen.`

var systemPrompt = template.Must(template.New("system_prompt").Parse(systemPromptTemplate))

// BuildSystemPrompt renders the voice agent instructions for a booking.
func BuildSystemPrompt(booking domain.BookingDetails) string {
	var sb strings.Builder
	if err := systemPrompt.Execute(&sb, booking); err != nil {
		return systemPromptTemplate
	}
	return sb.String()
}
