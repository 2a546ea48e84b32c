package scheduling

import (
	"context"
	"strings"

	"github.com/slimfitai/clinic-platform/internal/ai"
	"github.com/slimfitai/clinic-platform/pkg/logging"
)

// extractor turns raw agenda text into appointment drafts.
type extractor interface {
	extract(ctx context.Context, rawText string) ([]DraftAppointment, error)
}

// Importer parses raw agenda text (pasted schedules, exports) into
// reviewable appointment drafts. Extraction failures degrade to an
// empty result, never an error.
type Importer struct {
	extractor extractor
	logger    *logging.Logger
}

// NewImporter builds the importer. A nil client selects the offline
// sample drafts.
func NewImporter(client ai.Client, logger *logging.Logger) *Importer {
	if logger == nil {
		logger = logging.Default()
	}
	var e extractor
	if client != nil {
		e = &geminiExtractor{client: client}
	} else {
		e = offlineExtractor{}
	}
	return &Importer{extractor: e, logger: logger}
}

// Parse returns drafts extracted from rawText. Entries missing a
// patient name or time are dropped; missing dates default to "Hoje"
// and missing services to "Consulta".
func (i *Importer) Parse(ctx context.Context, rawText string) []DraftAppointment {
	drafts, err := i.extractor.extract(ctx, rawText)
	if err != nil {
		i.logger.Warn("agenda extraction failed, returning no drafts", "error", err)
		return []DraftAppointment{}
	}

	out := make([]DraftAppointment, 0, len(drafts))
	for _, d := range drafts {
		if strings.TrimSpace(d.PatientName) == "" || strings.TrimSpace(d.Time) == "" {
			continue
		}
		if strings.TrimSpace(d.Date) == "" {
			d.Date = "Hoje"
		}
		if strings.TrimSpace(d.Service) == "" {
			d.Service = "Consulta"
		}
		if d.Status != StatusConfirmed {
			d.Status = StatusPending
		}
		out = append(out, d)
	}
	return out
}

type geminiExtractor struct {
	client ai.Client
}

var agendaSchema = &ai.Schema{
	Type: ai.TypeArray,
	Items: &ai.Schema{
		Type: ai.TypeObject,
		Properties: map[string]*ai.Schema{
			"patient_name": {Type: ai.TypeString},
			"service":      {Type: ai.TypeString},
			"time":         {Type: ai.TypeString},
			"date":         {Type: ai.TypeString},
			"status":       {Type: ai.TypeString, Enum: []string{"pending", "confirmed"}},
		},
		Required: []string{"patient_name", "time"},
	},
}

func (g *geminiExtractor) extract(ctx context.Context, rawText string) ([]DraftAppointment, error) {
	req := ai.JSONRequest{
		System: []string{
			"Você é um assistente administrativo de clínica médica.",
			"Extraia os dados de agendamento do texto bruto fornecido pelo usuário.",
			"Retorne APENAS um Array JSON puro. Não use blocos Markdown.",
			"Infira a data como 'Hoje' se não especificada.",
			"Se o serviço estiver faltando, use 'Consulta'.",
		},
		Prompt: rawText,
		Schema: agendaSchema,
	}

	var drafts []DraftAppointment
	if err := g.client.GenerateJSON(ctx, req, &drafts); err != nil {
		return nil, err
	}
	return drafts, nil
}

// offlineExtractor returns fixed sample drafts so the import flow is
// demonstrable without connectivity.
type offlineExtractor struct{}

func (offlineExtractor) extract(context.Context, string) ([]DraftAppointment, error) {
	return []DraftAppointment{
		{PatientName: "Novo Paciente Exemplo", Service: "Avaliação Geral", Time: "09:00", Date: "Hoje", Status: StatusPending},
		{PatientName: "Julia Martins", Service: "Limpeza", Time: "10:30", Date: "Hoje", Status: StatusPending},
		{PatientName: "Roberto Alves", Service: "Canal", Time: "14:00", Date: "Hoje", Status: StatusPending},
	}, nil
}
