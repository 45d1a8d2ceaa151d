package domain

import "github.com/google/uuid"

// BookingDetails carries the appointment context for an outbound reminder call.
// Field names on the wire follow the booking frontend's German vocabulary.
type BookingDetails struct {
	RequestID       string `json:"requestId,omitempty"`
	AppointmentType string `json:"terminTyp,omitempty"`
	Date            string `json:"datum,omitempty"`
	Time            string `json:"uhrzeit,omitempty"`
	Duration        string `json:"dauer,omitempty"`
	Description     string `json:"beschreibung,omitempty"`
	PatientName     string `json:"patientName,omitempty"`
	Location        string `json:"ort,omitempty"`
}

// Default fallbacks for absent booking fields. Downstream services always see
// every field populated.
const (
	DefaultAppointmentType = "Termin"
	DefaultDate            = "in Kürze"
	DefaultTime            = "zur vereinbarten Uhrzeit"
	DefaultDuration        = "30 Minuten"
	DefaultDescription     = "eine Terminbestätigung"
	DefaultPatientName     = "der Patient"
	DefaultLocation        = "unserer Praxis"
)

// WithDefaults returns a copy with every optional field populated.
func (b BookingDetails) WithDefaults() BookingDetails {
	if b.RequestID == "" {
		b.RequestID = uuid.New().String()
	}
	if b.AppointmentType == "" {
		b.AppointmentType = DefaultAppointmentType
	}
	if b.Date == "" {
		b.Date = DefaultDate
	}
	if b.Time == "" {
		b.Time = DefaultTime
	}
	if b.Duration == "" {
		b.Duration = DefaultDuration
	}
	if b.Description == "" {
		b.Description = DefaultDescription
	}
	if b.PatientName == "" {
		b.PatientName = DefaultPatientName
	}
	if b.Location == "" {
		b.Location = DefaultLocation
	}
	return b
}
