package messaging

import (
	"context"
	"fmt"
	"strings"

	"github.com/slimfitai/clinic-platform/internal/ai"
	"github.com/slimfitai/clinic-platform/internal/risk"
	"github.com/slimfitai/clinic-platform/pkg/logging"
)

// Fixed fallbacks. Every path out of the generator produces a usable
// message; failure is invisible to the patient.
const (
	offlineRecoveryMessage = "Olá! Gostaríamos de confirmar seu agendamento na SlimFit para amanhã. Podemos confirmar?"
	failedRecoveryMessage  = "Olá, confirmamos seu horário?"
	offlineChatReply       = "Vou verificar essa informação para você."
	failedChatReply        = "Desculpe, não entendi. Pode repetir?"
)

// Appointment is the slice of an appointment the generator needs.
type Appointment struct {
	PatientName string
	Service     string
	Time        string
}

// composer drafts a recovery message for an at-risk appointment.
type composer interface {
	compose(ctx context.Context, appt Appointment, tier risk.Tier, cfg PersonalityConfig) (string, error)
}

// replier drafts the next assistant turn in a patient conversation.
type replier interface {
	reply(ctx context.Context, history []Message, patientName string, cfg PersonalityConfig) (string, error)
}

// Generator drafts recovery messages and chat replies. Drafts are
// returned to the caller, never sent.
type Generator struct {
	composer composer
	replier  replier
	config   *ConfigStore
	logger   *logging.Logger
}

// NewGenerator builds a generator. A nil client selects the offline
// canned-message mode.
func NewGenerator(client ai.Client, config *ConfigStore, logger *logging.Logger) *Generator {
	if config == nil {
		config = NewConfigStore()
	}
	if logger == nil {
		logger = logging.Default()
	}
	g := &Generator{config: config, logger: logger}
	if client != nil {
		g.composer = &geminiComposer{client: client}
		g.replier = &geminiReplier{client: client}
	} else {
		g.composer = offlineComposer{}
		g.replier = offlineReplier{}
	}
	return g
}

// RecoveryMessage drafts an SMS-length confirmation nudge for an
// appointment at risk of no-show. It never returns an error: a failed
// live call degrades to a fixed generic message.
func (g *Generator) RecoveryMessage(ctx context.Context, appt Appointment, tier risk.Tier) string {
	cfg := g.config.Get(ctx)
	msg, err := g.composer.compose(ctx, appt, tier, cfg)
	if err != nil {
		g.logger.Warn("recovery message generation failed, using fallback",
			"patient", appt.PatientName,
			"tier", tier,
			"error", err,
		)
		return failedRecoveryMessage
	}
	return msg
}

// ChatReply drafts the assistant's next turn given the conversation so
// far. It never returns an error.
func (g *Generator) ChatReply(ctx context.Context, history []Message, patientName string) string {
	cfg := g.config.Get(ctx)
	reply, err := g.replier.reply(ctx, history, patientName, cfg)
	if err != nil {
		g.logger.Warn("chat reply generation failed, using fallback",
			"patient", patientName,
			"error", err,
		)
		return failedChatReply
	}
	return reply
}

// toneInstruction maps the risk tier and personality sliders to a
// writing directive for the model.
func toneInstruction(tier risk.Tier, cfg PersonalityConfig) string {
	var b strings.Builder
	if tier == risk.TierHigh {
		b.WriteString("Tom assertivo mas educado. Peça dupla confirmação e mencione a escassez de horários.")
	} else {
		b.WriteString("Tom amigável e leve.")
	}
	if cfg.Formality > 60 {
		b.WriteString(" Trate o paciente formalmente.")
	} else {
		b.WriteString(" Pode usar linguagem informal.")
	}
	if cfg.Empathy > 60 {
		b.WriteString(" Demonstre empatia.")
	}
	if cfg.Length < 40 {
		b.WriteString(" Seja o mais breve possível.")
	}
	if cfg.EmojiUsage {
		b.WriteString(" Pode usar no máximo um emoji.")
	}
	return b.String()
}

// geminiComposer drafts recovery messages via the AI collaborator.
type geminiComposer struct {
	client ai.Client
}

func (g *geminiComposer) compose(ctx context.Context, appt Appointment, tier risk.Tier, cfg PersonalityConfig) (string, error) {
	req := ai.TextRequest{
		System: []string{
			"Você escreve mensagens de confirmação para a clínica SlimFit.",
			"Máximo de 160 caracteres. Responda apenas com a mensagem, sem aspas.",
			toneInstruction(tier, cfg),
		},
		Messages: []ai.ChatMessage{{
			Role: ai.ChatRoleUser,
			Content: fmt.Sprintf("Paciente: %s. Serviço: %s às %s. Escreva a mensagem de confirmação.",
				appt.PatientName, appt.Service, appt.Time),
		}},
		MaxTokens: 120,
	}

	msg, err := g.client.GenerateText(ctx, req)
	if err != nil {
		return "", err
	}
	if msg == "" {
		return "", ai.ErrNoContent
	}
	return msg, nil
}

// offlineComposer returns the canned confirmation regardless of tier.
type offlineComposer struct{}

func (offlineComposer) compose(context.Context, Appointment, risk.Tier, PersonalityConfig) (string, error) {
	return offlineRecoveryMessage, nil
}

// geminiReplier drafts chat replies in a receptionist persona, feeding
// the conversation history back as chat turns.
type geminiReplier struct {
	client ai.Client
}

func (g *geminiReplier) reply(ctx context.Context, history []Message, patientName string, cfg PersonalityConfig) (string, error) {
	msgs := make([]ai.ChatMessage, 0, len(history))
	for _, m := range history {
		role := ai.ChatRoleUser
		if m.Sender == SenderAI {
			role = ai.ChatRoleAssistant
		}
		msgs = append(msgs, ai.ChatMessage{Role: role, Content: m.Text})
	}

	req := ai.TextRequest{
		System: []string{
			"Você é a recepcionista virtual da clínica SlimFit.",
			fmt.Sprintf("Está conversando com o paciente %s.", patientName),
			"Responda em português, de forma curta e prestativa.",
			toneInstruction(risk.TierLow, cfg),
		},
		Messages:  msgs,
		MaxTokens: 200,
	}

	reply, err := g.client.GenerateText(ctx, req)
	if err != nil {
		return "", err
	}
	if reply == "" {
		return "", ai.ErrNoContent
	}
	return reply, nil
}

// offlineReplier always defers, matching the demo behavior.
type offlineReplier struct{}

func (offlineReplier) reply(context.Context, []Message, string, PersonalityConfig) (string, error) {
	return offlineChatReply, nil
}
