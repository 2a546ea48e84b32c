package patients

import "errors"

var (
	// ErrInvalidName is returned when the patient name is missing
	ErrInvalidName = errors.New("patient name is required")

	// ErrInvalidHistory is returned when no-shows exceed total appointments
	ErrInvalidHistory = errors.New("no-show count cannot exceed total appointments")

	// ErrPatientNotFound is returned when a patient is not found
	ErrPatientNotFound = errors.New("patient not found")
)
