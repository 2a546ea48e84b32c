package scheduling

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slimfitai/clinic-platform/internal/patients"
	"github.com/slimfitai/clinic-platform/internal/risk"
	"github.com/slimfitai/clinic-platform/pkg/logging"
)

func newTestService(t *testing.T) (*Service, Repository, patients.Repository) {
	t.Helper()
	appts := NewInMemoryRepository()
	patientRepo := patients.NewInMemoryRepository()
	scorer := risk.NewScorer(nil, rand.New(rand.NewSource(42)), logging.Default())
	svc := NewService(appts, patientRepo, scorer, nil, logging.Default(), time.Second)
	return svc, appts, patientRepo
}

func TestAnalyzeRiskPersistsAssessment(t *testing.T) {
	svc, appts, patientRepo := newTestService(t)

	p, err := patientRepo.Create(context.Background(), &patients.Patient{
		Name:    "Roberto Alves",
		History: patients.History{TotalAppointments: 12, NoShows: 4},
	})
	require.NoError(t, err)

	a, err := appts.Create(context.Background(), &Appointment{
		PatientID:   p.ID,
		PatientName: p.Name,
		Service:     "Canal",
		Time:        "14:00",
	})
	require.NoError(t, err)

	result, err := svc.AnalyzeRisk(context.Background(), a.ID)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, result.Score, 23)
	assert.LessOrEqual(t, result.Score, 43)
	assert.Equal(t, risk.TierFromScore(result.Score), result.Tier)

	stored, err := appts.GetByID(context.Background(), a.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.RiskScore)
	assert.Equal(t, result.Score, *stored.RiskScore)
	assert.Equal(t, result.Reasoning, stored.AIAnalysis)
}

func TestAnalyzeRiskVerifiedShortCircuits(t *testing.T) {
	svc, appts, patientRepo := newTestService(t)

	// Worst possible history: every appointment a no-show.
	p, err := patientRepo.Create(context.Background(), &patients.Patient{
		Name:    "Faltoso",
		History: patients.History{TotalAppointments: 7, NoShows: 7},
	})
	require.NoError(t, err)

	a, err := appts.Create(context.Background(), &Appointment{
		PatientID:   p.ID,
		PatientName: p.Name,
		Service:     "Avaliação",
		Time:        "09:00",
		QRCodeHash:  "qr-verified",
	})
	require.NoError(t, err)

	_, err = appts.RecordValidation(context.Background(), a.ID, ValidationLog{Method: MethodQR, ValidatedBy: "totem"})
	require.NoError(t, err)

	result, err := svc.AnalyzeRisk(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Score)
	assert.Equal(t, risk.TierLow, result.Tier)
}

func TestAnalyzeRiskUnknownPatientUsesEmptyHistory(t *testing.T) {
	svc, appts, _ := newTestService(t)

	a, err := appts.Create(context.Background(), &Appointment{
		PatientID:   "ghost",
		PatientName: "Sem Cadastro",
		Service:     "Consulta",
		Time:        "11:00",
	})
	require.NoError(t, err)

	result, err := svc.AnalyzeRisk(context.Background(), a.ID)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, result.Score, 0)
	assert.LessOrEqual(t, result.Score, 10)
}

func TestAnalyzeRiskNotFound(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.AnalyzeRisk(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestValidateQRCodeFlow(t *testing.T) {
	svc, appts, _ := newTestService(t)

	a, err := appts.Create(context.Background(), &Appointment{
		PatientName: "Julia",
		Time:        "10:30",
		QRCodeHash:  "qr-julia",
	})
	require.NoError(t, err)

	// Unknown code.
	res := svc.ValidateQRCode(context.Background(), "qr-nope", "")
	assert.False(t, res.Valid)
	assert.Contains(t, res.Message, "não encontrado")

	// First scan succeeds.
	res = svc.ValidateQRCode(context.Background(), "qr-julia", "recepção")
	assert.True(t, res.Valid)
	assert.Equal(t, a.ID, res.AppointmentID)

	// Second scan is a duplicate.
	res = svc.ValidateQRCode(context.Background(), "qr-julia", "recepção")
	assert.False(t, res.Valid)
	assert.Contains(t, res.Message, "duplicada")
}
