package scheduling

import (
	"context"
	"errors"
	"time"

	"github.com/slimfitai/clinic-platform/internal/observability/metrics"
	"github.com/slimfitai/clinic-platform/internal/patients"
	"github.com/slimfitai/clinic-platform/internal/risk"
	"github.com/slimfitai/clinic-platform/pkg/logging"
)

// AnalysisResult is the outcome of a risk analysis for an appointment.
type AnalysisResult struct {
	AppointmentID string    `json:"appointment_id"`
	Score         int       `json:"score"`
	Reasoning     string    `json:"reasoning"`
	Tier          risk.Tier `json:"tier"`
}

// CheckinResult reports the outcome of a QR check-in attempt.
// Rejections are outcomes, not errors.
type CheckinResult struct {
	Valid         bool   `json:"valid"`
	Message       string `json:"message"`
	AppointmentID string `json:"appointment_id,omitempty"`
}

// Service orchestrates the risk pipeline over stored appointments:
// precedence resolution, scoring, persistence of the assessment, and
// QR check-in validation.
type Service struct {
	appts      Repository
	patientSvc patients.Repository
	scorer     *risk.Scorer
	metrics    *metrics.PipelineMetrics
	logger     *logging.Logger
	llmTimeout time.Duration
}

// NewService creates the scheduling service.
func NewService(appts Repository, patientRepo patients.Repository, scorer *risk.Scorer, m *metrics.PipelineMetrics, logger *logging.Logger, llmTimeout time.Duration) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	if llmTimeout <= 0 {
		llmTimeout = 30 * time.Second
	}
	return &Service{
		appts:      appts,
		patientSvc: patientRepo,
		scorer:     scorer,
		metrics:    m,
		logger:     logger,
		llmTimeout: llmTimeout,
	}
}

// AnalyzeRisk scores an appointment and persists the assessment onto
// it. The attendance precedence rule runs first: verified presence
// yields a definitive zero regardless of history.
func (s *Service) AnalyzeRisk(ctx context.Context, appointmentID string) (*AnalysisResult, error) {
	appt, err := s.appts.GetByID(ctx, appointmentID)
	if err != nil {
		return nil, err
	}

	hist := risk.PatientHistory{Name: appt.PatientName}
	if appt.PatientID != "" && s.patientSvc != nil {
		p, err := s.patientSvc.GetByID(ctx, appt.PatientID)
		if err == nil {
			hist.Name = p.Name
			hist.TotalAppointments = p.History.TotalAppointments
			hist.NoShows = p.History.NoShows
		} else if !errors.Is(err, patients.ErrPatientNotFound) {
			return nil, err
		}
	}

	callCtx, cancel := context.WithTimeout(ctx, s.llmTimeout)
	defer cancel()

	start := time.Now()
	assessment := s.scorer.Analyze(callCtx, risk.Appointment{
		Service:            appt.Service,
		Time:               appt.Time,
		AttendanceVerified: appt.AttendanceStatus == AttendanceVerified,
		Validated:          appt.ValidationLog != nil,
	}, hist)
	s.metrics.ObserveLLMLatency("risk_classify", time.Since(start).Seconds())

	if _, err := s.appts.SaveAssessment(ctx, appointmentID, assessment.Score, assessment.Reasoning); err != nil {
		return nil, err
	}

	tier := risk.TierFromScore(assessment.Score)
	s.metrics.ObserveAnalysis(string(tier))
	s.logger.Info("appointment risk analyzed",
		"appointment_id", appointmentID,
		"score", assessment.Score,
		"tier", tier,
	)

	return &AnalysisResult{
		AppointmentID: appointmentID,
		Score:         assessment.Score,
		Reasoning:     assessment.Reasoning,
		Tier:          tier,
	}, nil
}

// ValidateQRCode resolves a scanned check-in code against stored
// appointments. A successful scan marks attendance verified, records
// the validation log, and from then on the appointment reads as zero
// risk.
func (s *Service) ValidateQRCode(ctx context.Context, hash, validatedBy string) CheckinResult {
	appt, err := s.appts.FindByQRHash(ctx, hash)
	if err != nil {
		s.metrics.ObserveCheckin("not_found")
		return CheckinResult{Valid: false, Message: "QR Code não encontrado no sistema."}
	}

	if validatedBy == "" {
		validatedBy = "recepção"
	}
	_, err = s.appts.RecordValidation(ctx, appt.ID, ValidationLog{
		Method:      MethodQR,
		ValidatedBy: validatedBy,
	})
	if errors.Is(err, ErrAlreadyValidated) {
		s.metrics.ObserveCheckin("duplicate")
		return CheckinResult{Valid: false, Message: "Este QR Code já foi utilizado. Entrada duplicada negada."}
	}
	if err != nil {
		s.metrics.ObserveCheckin("error")
		return CheckinResult{Valid: false, Message: "QR Code não encontrado no sistema."}
	}

	s.metrics.ObserveCheckin("valid")
	s.logger.Info("qr check-in validated", "appointment_id", appt.ID)
	return CheckinResult{
		Valid:         true,
		Message:       "Check-in realizado com sucesso.",
		AppointmentID: appt.ID,
	}
}
