package scheduling

import "errors"

var (
	// ErrMissingPatient is returned when the patient name is missing
	ErrMissingPatient = errors.New("patient name is required")

	// ErrMissingTime is returned when the appointment time is missing
	ErrMissingTime = errors.New("appointment time is required")

	// ErrInvalidStatus is returned for an unknown lifecycle status
	ErrInvalidStatus = errors.New("invalid appointment status")

	// ErrAppointmentNotFound is returned when an appointment is not found
	ErrAppointmentNotFound = errors.New("appointment not found")

	// ErrAlreadyValidated is returned when a check-in was already recorded
	ErrAlreadyValidated = errors.New("appointment already validated")
)
