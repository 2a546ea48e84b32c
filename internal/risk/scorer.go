package risk

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/slimfitai/clinic-platform/internal/ai"
	"github.com/slimfitai/clinic-platform/pkg/logging"
)

// neutralAssessment is returned when a live analysis fails. The UI must
// never block on analysis failure, so the scorer fails open to neutral.
var neutralAssessment = Assessment{Score: 50, Reasoning: "Erro na análise neural."}

// assessor produces a risk assessment for an unverified appointment.
type assessor interface {
	assess(ctx context.Context, appt Appointment, hist PatientHistory) (Assessment, error)
}

// Scorer estimates no-show probability for pending appointments.
// The attendance precedence rule is applied before any prediction.
type Scorer struct {
	assessor assessor
	logger   *logging.Logger
}

// NewScorer builds a scorer. A nil client selects the deterministic
// offline mode; rng seeds the offline jitter and may be nil outside
// tests.
func NewScorer(client ai.Client, rng *rand.Rand, logger *logging.Logger) *Scorer {
	if logger == nil {
		logger = logging.Default()
	}
	var a assessor
	if client != nil {
		a = &geminiAssessor{client: client}
	} else {
		if rng == nil {
			rng = rand.New(rand.NewSource(time.Now().UnixNano()))
		}
		a = &offlineAssessor{rng: rng}
	}
	return &Scorer{assessor: a, logger: logger}
}

// Analyze returns a risk assessment for the appointment. It never
// returns an error: verified attendance short-circuits to zero, and a
// failed live analysis degrades to the neutral assessment.
func (s *Scorer) Analyze(ctx context.Context, appt Appointment, hist PatientHistory) Assessment {
	if a, ok := ResolveAttendance(appt); ok {
		return a
	}

	a, err := s.assessor.assess(ctx, appt, hist)
	if err != nil {
		s.logger.Warn("risk analysis failed, returning neutral score",
			"patient", hist.Name,
			"error", err,
		)
		return neutralAssessment
	}
	return a
}

// geminiAssessor delegates scoring to the AI collaborator with a strict
// {score, reasoning} response schema.
type geminiAssessor struct {
	client ai.Client
}

var riskSchema = &ai.Schema{
	Type: ai.TypeObject,
	Properties: map[string]*ai.Schema{
		"score":     {Type: ai.TypeInteger},
		"reasoning": {Type: ai.TypeString},
	},
	Required: []string{"score", "reasoning"},
}

func (g *geminiAssessor) assess(ctx context.Context, appt Appointment, hist PatientHistory) (Assessment, error) {
	req := ai.JSONRequest{
		System: []string{
			"Calcule um Score de Risco (0-100) para No-Show.",
			"Maior score significa maior probabilidade de faltar.",
			"Forneça uma justificativa curta (máx 15 palavras).",
		},
		Prompt: fmt.Sprintf("Paciente: %s, NoShows: %d/%d. Serviço: %s às %s.",
			hist.Name, hist.NoShows, hist.TotalAppointments, appt.Service, appt.Time),
		Schema: riskSchema,
	}

	var a Assessment
	if err := g.client.GenerateJSON(ctx, req, &a); err != nil {
		return Assessment{}, err
	}
	if a.Score < 0 || a.Score > 100 {
		return Assessment{}, fmt.Errorf("risk: score %d outside 0-100", a.Score)
	}
	if a.Reasoning == "" {
		return Assessment{}, fmt.Errorf("risk: empty reasoning in model reply")
	}
	return a, nil
}

// offlineAssessor reproduces the deterministic fallback formula: the
// historical no-show ratio plus a bounded jitter in [-10, +10].
type offlineAssessor struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func (o *offlineAssessor) assess(_ context.Context, _ Appointment, hist PatientHistory) (Assessment, error) {
	base := 0
	if hist.TotalAppointments > 0 {
		base = 100 * hist.NoShows / hist.TotalAppointments
	}

	o.mu.Lock()
	jitter := o.rng.Intn(21) - 10
	o.mu.Unlock()

	score := clampScore(base + jitter)
	reasoning := "Paciente assíduo."
	if score > 50 {
		reasoning = "Alto risco baseado no histórico recente."
	}
	return Assessment{Score: score, Reasoning: reasoning}, nil
}
