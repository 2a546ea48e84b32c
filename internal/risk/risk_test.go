package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveAttendanceVerified(t *testing.T) {
	a, ok := ResolveAttendance(Appointment{Service: "Limpeza", AttendanceVerified: true})
	assert.True(t, ok)
	assert.Equal(t, 0, a.Score)
	assert.NotEmpty(t, a.Reasoning)
}

func TestResolveAttendanceValidationLog(t *testing.T) {
	a, ok := ResolveAttendance(Appointment{Validated: true})
	assert.True(t, ok)
	assert.Equal(t, 0, a.Score)
}

func TestResolveAttendanceNoSignal(t *testing.T) {
	_, ok := ResolveAttendance(Appointment{Service: "Canal", Time: "14:00"})
	assert.False(t, ok)
}

func TestTierFromScoreBoundaries(t *testing.T) {
	tests := []struct {
		score int
		want  Tier
	}{
		{0, TierLow},
		{40, TierLow},
		{41, TierMedium},
		{70, TierMedium},
		{71, TierHigh},
		{100, TierHigh},
	}
	for _, tt := range tests {
		assert.Equalf(t, tt.want, TierFromScore(tt.score), "score %d", tt.score)
	}
}

func TestTrustScoreNewPatientNeutral(t *testing.T) {
	assert.Equal(t, 70, TrustScore(0, 0))
}

func TestTrustScoreFromHistory(t *testing.T) {
	// round(100 * 6/10)
	assert.Equal(t, 60, TrustScore(10, 4))
	assert.Equal(t, 100, TrustScore(5, 0))
	assert.Equal(t, 0, TrustScore(5, 5))
}

func TestTrustScoreMonotoneInNoShows(t *testing.T) {
	const total = 12
	prev := TrustScore(total, 0)
	for noShows := 1; noShows <= total; noShows++ {
		cur := TrustScore(total, noShows)
		assert.LessOrEqualf(t, cur, prev, "noShows %d", noShows)
		prev = cur
	}
}
