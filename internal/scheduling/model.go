package scheduling

import (
	"strings"
	"time"
)

// Status is the scheduling lifecycle state of an appointment.
type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusPending   Status = "pending"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

// AttendanceStatus is the ground-truth presence state, distinct from
// the scheduling status.
type AttendanceStatus string

const (
	AttendancePending      AttendanceStatus = "pending"
	AttendanceUserDeclared AttendanceStatus = "user_declared"
	AttendanceVerified     AttendanceStatus = "verified"
	AttendanceNoShow       AttendanceStatus = "no_show"
	AttendanceLate         AttendanceStatus = "late"
)

// ValidationMethod records how a check-in was validated.
type ValidationMethod string

const (
	MethodQR        ValidationMethod = "qr"
	MethodManual    ValidationMethod = "manual"
	MethodReception ValidationMethod = "reception"
)

// ValidationLog is an immutable record of a physical check-in event.
type ValidationLog struct {
	ValidatedAt time.Time        `json:"validated_at"`
	Method      ValidationMethod `json:"method"`
	ValidatedBy string           `json:"validated_by"`
}

// Appointment identifies a scheduled visit.
type Appointment struct {
	ID                string           `json:"id"`
	PatientID         string           `json:"patient_id"`
	PatientName       string           `json:"patient_name"`
	Service           string           `json:"service"`
	Date              string           `json:"date"`
	Time              string           `json:"time"`
	Duration          int              `json:"duration,omitempty"`
	Status            Status           `json:"status"`
	AttendanceStatus  AttendanceStatus `json:"attendance_status,omitempty"`
	RiskScore         *int             `json:"risk_score,omitempty"`
	AIAnalysis        string           `json:"ai_analysis,omitempty"`
	LastCommunication string           `json:"last_communication,omitempty"`
	QRCodeHash        string           `json:"qr_code_hash,omitempty"`
	ValidationLog     *ValidationLog   `json:"validation_log,omitempty"`
}

// Verified reports whether an authoritative attendance signal exists.
func (a *Appointment) Verified() bool {
	return a.AttendanceStatus == AttendanceVerified || a.ValidationLog != nil
}

// Validate checks the fields required to schedule a visit.
func (a *Appointment) Validate() error {
	if strings.TrimSpace(a.PatientName) == "" {
		return ErrMissingPatient
	}
	if strings.TrimSpace(a.Time) == "" {
		return ErrMissingTime
	}
	switch a.Status {
	case "", StatusConfirmed, StatusPending, StatusCancelled, StatusCompleted:
	default:
		return ErrInvalidStatus
	}
	return nil
}

// DraftAppointment is an imported appointment awaiting review. Drafts
// are never persisted directly; the caller decides what to schedule.
type DraftAppointment struct {
	PatientName string `json:"patient_name"`
	Service     string `json:"service"`
	Time        string `json:"time"`
	Date        string `json:"date"`
	Status      Status `json:"status"`
}
