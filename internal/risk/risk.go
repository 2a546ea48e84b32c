package risk

import "math"

// Assessment is the outcome of a no-show risk analysis.
type Assessment struct {
	Score     int    `json:"score"`
	Reasoning string `json:"reasoning"`
}

// Appointment is the view of an appointment the risk pipeline reads.
type Appointment struct {
	Service string
	Time    string

	// AttendanceVerified is true when attendance status is 'verified'.
	AttendanceVerified bool
	// Validated is true when a check-in validation log exists.
	Validated bool
}

// PatientHistory is the view of a patient the risk pipeline reads.
type PatientHistory struct {
	Name              string
	TotalAppointments int
	NoShows           int
}

// verifiedReasoning is the fixed justification attached when an
// authoritative presence signal overrides prediction.
const verifiedReasoning = "Presença validada por QR Code (Fonte Real)."

// ResolveAttendance applies the attendance precedence rule: a verified
// check-in resolves the uncertainty a risk score represents, so the
// score is definitionally zero, not merely low. Returns ok=false when
// no authoritative signal exists and prediction should proceed.
func ResolveAttendance(appt Appointment) (Assessment, bool) {
	if appt.AttendanceVerified || appt.Validated {
		return Assessment{Score: 0, Reasoning: verifiedReasoning}, true
	}
	return Assessment{}, false
}

// Tier is the coarse bucket derived from a numeric risk score.
type Tier string

const (
	TierHigh   Tier = "HIGH"
	TierMedium Tier = "MEDIUM"
	TierLow    Tier = "LOW"
)

// TierFromScore buckets a 0-100 score. Boundaries are strict: exactly
// 70 is MEDIUM and exactly 40 is LOW.
func TierFromScore(score int) Tier {
	switch {
	case score > 70:
		return TierHigh
	case score > 40:
		return TierMedium
	default:
		return TierLow
	}
}

// TrustScore derives a patient-level reliability metric from historical
// attendance. Patients with no history get a neutral 70 rather than a
// perfect or zero score.
func TrustScore(totalAppointments, noShows int) int {
	if totalAppointments == 0 {
		return 70
	}
	showRate := float64(totalAppointments-noShows) / float64(totalAppointments)
	return int(math.Round(showRate * 100))
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
