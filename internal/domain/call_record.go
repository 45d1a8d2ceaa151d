package domain

import "time"

// CallRecord is the durable trace of a finished outbound call.
type CallRecord struct {
	ID              string    `json:"id" gorm:"column:id;primaryKey"`
	CallSid         string    `json:"call_sid" gorm:"column:call_sid;unique"`
	VoiceSessionID  string    `json:"voice_session_id" gorm:"column:voice_session_id;index"`
	RequestID       string    `json:"request_id" gorm:"column:request_id"`
	PhoneNumber     string    `json:"phone_number" gorm:"column:phone_number"`
	PatientName     string    `json:"patient_name" gorm:"column:patient_name"`
	AppointmentType string    `json:"appointment_type" gorm:"column:appointment_type"`
	AppointmentDate string    `json:"appointment_date" gorm:"column:appointment_date"`
	AppointmentTime string    `json:"appointment_time" gorm:"column:appointment_time"`
	Location        string    `json:"location" gorm:"column:location"`
	Status          string    `json:"status" gorm:"column:status"`
	Outcome         string    `json:"outcome" gorm:"column:outcome;type:text"`
	EndedAt         time.Time `json:"ended_at" gorm:"column:ended_at"`
	CreatedAt       time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt       time.Time `json:"updated_at" gorm:"column:updated_at"`
}

func (CallRecord) TableName() string {
	return "call_records"
}
