package risk

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/slimfitai/clinic-platform/internal/ai"
	"github.com/slimfitai/clinic-platform/pkg/logging"
)

// stubClient lets tests script the live path.
type stubClient struct {
	text    string
	textErr error
	jsonFn  func(out any) error
}

func (s *stubClient) GenerateText(context.Context, ai.TextRequest) (string, error) {
	return s.text, s.textErr
}

func (s *stubClient) GenerateJSON(_ context.Context, _ ai.JSONRequest, out any) error {
	if s.jsonFn == nil {
		return errors.New("stub: no json handler")
	}
	return s.jsonFn(out)
}

func fillAssessment(score int, reasoning string) func(out any) error {
	return func(out any) error {
		a := out.(*Assessment)
		a.Score = score
		a.Reasoning = reasoning
		return nil
	}
}

func TestAnalyzeVerifiedOverridesWorstHistory(t *testing.T) {
	// Verified presence wins even when every past appointment was a no-show.
	scorer := NewScorer(nil, rand.New(rand.NewSource(1)), logging.Default())
	a := scorer.Analyze(context.Background(),
		Appointment{Service: "Canal", AttendanceVerified: true},
		PatientHistory{Name: "Ana", TotalAppointments: 8, NoShows: 8},
	)
	assert.Equal(t, 0, a.Score)
}

func TestAnalyzeOfflineFallbackEnvelope(t *testing.T) {
	// base = floor(100*4/12) = 33 → score stays in [23, 43] after jitter.
	for seed := int64(0); seed < 50; seed++ {
		scorer := NewScorer(nil, rand.New(rand.NewSource(seed)), logging.Default())
		a := scorer.Analyze(context.Background(),
			Appointment{Service: "Avaliação", Time: "09:00"},
			PatientHistory{Name: "Bruno", TotalAppointments: 12, NoShows: 4},
		)
		assert.GreaterOrEqual(t, a.Score, 23, "seed %d", seed)
		assert.LessOrEqual(t, a.Score, 43, "seed %d", seed)
		assert.NotEmpty(t, a.Reasoning)
	}
}

func TestAnalyzeOfflineZeroHistory(t *testing.T) {
	scorer := NewScorer(nil, rand.New(rand.NewSource(7)), logging.Default())
	a := scorer.Analyze(context.Background(),
		Appointment{Service: "Consulta"},
		PatientHistory{Name: "Nova"},
	)
	assert.GreaterOrEqual(t, a.Score, 0)
	assert.LessOrEqual(t, a.Score, 10)
}

func TestAnalyzeOfflineClampsAtHundred(t *testing.T) {
	for seed := int64(0); seed < 50; seed++ {
		scorer := NewScorer(nil, rand.New(rand.NewSource(seed)), logging.Default())
		a := scorer.Analyze(context.Background(),
			Appointment{},
			PatientHistory{TotalAppointments: 6, NoShows: 6},
		)
		assert.LessOrEqual(t, a.Score, 100, "seed %d", seed)
		assert.GreaterOrEqual(t, a.Score, 90, "seed %d", seed)
	}
}

func TestAnalyzeOfflineDeterministicWithSeed(t *testing.T) {
	run := func() int {
		scorer := NewScorer(nil, rand.New(rand.NewSource(42)), logging.Default())
		return scorer.Analyze(context.Background(),
			Appointment{Service: "Limpeza", Time: "10:30"},
			PatientHistory{Name: "Julia", TotalAppointments: 10, NoShows: 3},
		).Score
	}
	assert.Equal(t, run(), run())
}

func TestAnalyzeLivePath(t *testing.T) {
	client := &stubClient{jsonFn: fillAssessment(82, "Histórico recente de faltas consecutivas.")}
	scorer := NewScorer(client, nil, logging.Default())
	a := scorer.Analyze(context.Background(),
		Appointment{Service: "Canal", Time: "14:00"},
		PatientHistory{Name: "Roberto", TotalAppointments: 9, NoShows: 6},
	)
	assert.Equal(t, 82, a.Score)
	assert.Equal(t, TierHigh, TierFromScore(a.Score))
}

func TestAnalyzeLiveFailureFailsOpenToNeutral(t *testing.T) {
	client := &stubClient{jsonFn: func(any) error { return errors.New("network down") }}
	scorer := NewScorer(client, nil, logging.Default())
	a := scorer.Analyze(context.Background(),
		Appointment{Service: "Limpeza"},
		PatientHistory{Name: "Carla", TotalAppointments: 4, NoShows: 0},
	)
	assert.Equal(t, 50, a.Score)
	assert.NotEmpty(t, a.Reasoning)
}

func TestAnalyzeLiveSchemaViolationFailsOpen(t *testing.T) {
	tests := []struct {
		name   string
		jsonFn func(out any) error
	}{
		{"score out of range", fillAssessment(140, "ok")},
		{"negative score", fillAssessment(-5, "ok")},
		{"empty reasoning", fillAssessment(30, "")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scorer := NewScorer(&stubClient{jsonFn: tt.jsonFn}, nil, logging.Default())
			a := scorer.Analyze(context.Background(), Appointment{}, PatientHistory{TotalAppointments: 2})
			assert.Equal(t, 50, a.Score)
		})
	}
}
