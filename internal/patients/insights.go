package patients

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/slimfitai/clinic-platform/internal/ai"
	"github.com/slimfitai/clinic-platform/pkg/logging"
)

// inferrer produces AI memories for a patient profile.
type inferrer interface {
	infer(ctx context.Context, p *Patient) ([]AIMemory, error)
}

// Insights infers typed, confidence-scored memories from a patient's
// history and tags. Failures degrade to an empty result, never an error.
type Insights struct {
	inferrer inferrer
	logger   *logging.Logger
}

// NewInsights builds the insight service. A nil client selects the
// deterministic offline mode.
func NewInsights(client ai.Client, logger *logging.Logger) *Insights {
	if logger == nil {
		logger = logging.Default()
	}
	var inf inferrer
	if client != nil {
		inf = &geminiInferrer{client: client}
	} else {
		inf = offlineInferrer{}
	}
	return &Insights{inferrer: inf, logger: logger}
}

// Infer returns inferred memories for the patient. On failure it
// returns an empty slice.
func (s *Insights) Infer(ctx context.Context, p *Patient) []AIMemory {
	memories, err := s.inferrer.infer(ctx, p)
	if err != nil {
		s.logger.Warn("patient insight inference failed",
			"patient_id", p.ID,
			"error", err,
		)
		return []AIMemory{}
	}
	return memories
}

type geminiInferrer struct {
	client ai.Client
}

var memorySchema = &ai.Schema{
	Type: ai.TypeArray,
	Items: &ai.Schema{
		Type: ai.TypeObject,
		Properties: map[string]*ai.Schema{
			"id":          {Type: ai.TypeString},
			"type":        {Type: ai.TypeString, Enum: []string{"preference", "behavior", "medical", "financial", "restriction"}},
			"content":     {Type: ai.TypeString},
			"confidence":  {Type: ai.TypeNumber},
			"source":      {Type: ai.TypeString},
			"detected_at": {Type: ai.TypeString},
		},
	},
}

func (g *geminiInferrer) infer(ctx context.Context, p *Patient) ([]AIMemory, error) {
	history, err := json.Marshal(p.History)
	if err != nil {
		return nil, fmt.Errorf("patients: marshal history: %w", err)
	}

	req := ai.JSONRequest{
		System: []string{
			`Analise o perfil do paciente e gere "Memórias IA" (insights inferidos).`,
			"Infira traços comportamentais baseados no número de No-Shows.",
			"Retorne Array JSON.",
		},
		Prompt: fmt.Sprintf("Histórico: %s. Tags: %s", history, strings.Join(p.Tags, ",")),
		Schema: memorySchema,
	}

	var memories []AIMemory
	if err := g.client.GenerateJSON(ctx, req, &memories); err != nil {
		return nil, err
	}
	for i := range memories {
		if memories[i].Source == "" {
			memories[i].Source = SourceHistory
		}
		if memories[i].DetectedAt == "" {
			memories[i].DetectedAt = time.Now().UTC().Format("2006-01-02")
		}
	}
	return memories, nil
}

// offlineInferrer returns a fixed set of memories so the demo remains
// useful without connectivity.
type offlineInferrer struct{}

func (offlineInferrer) infer(_ context.Context, _ *Patient) ([]AIMemory, error) {
	return []AIMemory{
		{ID: "m1", Type: MemoryPreference, Content: "Prefere atendimentos após as 18h", Confidence: 95, Source: SourceConversation, DetectedAt: "2023-10-15"},
		{ID: "m2", Type: MemoryFinancial, Content: "Costuma pagar via Pix", Confidence: 88, Source: SourceHistory, DetectedAt: "2023-09-20"},
		{ID: "m3", Type: MemoryBehavior, Content: "Sensível a atrasos, demonstrar pontualidade", Confidence: 75, Source: SourceConversation, DetectedAt: "2023-11-05"},
	}, nil
}
