package router

import (
	"bytes"
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slimfitai/clinic-platform/internal/clinic"
	"github.com/slimfitai/clinic-platform/internal/messaging"
	"github.com/slimfitai/clinic-platform/internal/patients"
	"github.com/slimfitai/clinic-platform/internal/risk"
	"github.com/slimfitai/clinic-platform/internal/scheduling"
	"github.com/slimfitai/clinic-platform/internal/training"
	"github.com/slimfitai/clinic-platform/internal/waitlist"
	"github.com/slimfitai/clinic-platform/pkg/logging"
)

// newOfflineServer wires the full API in offline mode, the way main
// does when no API key is configured.
func newOfflineServer(t *testing.T) (*httptest.Server, scheduling.Repository, patients.Repository) {
	t.Helper()
	logger := logging.Default()

	patientRepo := patients.NewInMemoryRepository()
	apptRepo := scheduling.NewInMemoryRepository()
	waitlistRepo := waitlist.NewInMemoryRepository()
	sessions := messaging.NewSessionStore()
	personality := messaging.NewConfigStore()

	scorer := risk.NewScorer(nil, rand.New(rand.NewSource(42)), logger)
	importer := scheduling.NewImporter(nil, logger)
	insights := patients.NewInsights(nil, logger)
	generator := messaging.NewGenerator(nil, personality, logger)
	schedSvc := scheduling.NewService(apptRepo, patientRepo, scorer, nil, logger, time.Second)
	trainingSvc := training.NewService(rand.New(rand.NewSource(42)), logger)
	dashboard := clinic.NewDashboardService(apptRepo, waitlistRepo, sessions)

	h := New(&Config{
		Logger:            logger,
		SchedulingHandler: scheduling.NewHandler(apptRepo, schedSvc, importer, nil, logger),
		PatientsHandler:   patients.NewHandler(patientRepo, insights, logger),
		WaitlistHandler:   waitlist.NewHandler(waitlistRepo, logger),
		MessagingHandler:  messaging.NewHandler(generator, sessions, personality, apptRepo, nil, logger),
		TrainingHandler:   training.NewHandler(trainingSvc, logger),
		DashboardHandler:  clinic.NewHandler(dashboard, logger),
	})

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv, apptRepo, patientRepo
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(raw))
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func TestHealth(t *testing.T) {
	srv, _, _ := newOfflineServer(t)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	decodeBody(t, resp, &body)
	assert.Equal(t, "healthy", body["status"])
}

func TestAnalyzeFlowOverHTTP(t *testing.T) {
	srv, apptRepo, patientRepo := newOfflineServer(t)
	ctx := context.Background()

	p, err := patientRepo.Create(ctx, &patients.Patient{
		Name:    "Roberto Alves",
		History: patients.History{TotalAppointments: 12, NoShows: 4},
	})
	require.NoError(t, err)

	a, err := apptRepo.Create(ctx, &scheduling.Appointment{
		PatientID:   p.ID,
		PatientName: p.Name,
		Service:     "Canal",
		Time:        "14:00",
	})
	require.NoError(t, err)

	resp := postJSON(t, srv.URL+"/appointments/"+a.ID+"/analyze", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var result scheduling.AnalysisResult
	decodeBody(t, resp, &result)
	assert.GreaterOrEqual(t, result.Score, 23)
	assert.LessOrEqual(t, result.Score, 43)

	// The drafted recovery message follows the persisted tier.
	resp = postJSON(t, srv.URL+"/appointments/"+a.ID+"/recovery-message", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var msg messaging.RecoveryMessageResponse
	decodeBody(t, resp, &msg)
	assert.NotEmpty(t, msg.Message)
	assert.Equal(t, risk.TierFromScore(result.Score), msg.Tier)
}

func TestCheckinAndDashboardOverHTTP(t *testing.T) {
	srv, apptRepo, _ := newOfflineServer(t)

	_, err := apptRepo.Create(context.Background(), &scheduling.Appointment{
		PatientName: "Julia",
		Time:        "10:30",
		QRCodeHash:  "qr-julia",
	})
	require.NoError(t, err)

	resp := postJSON(t, srv.URL+"/checkin/qr", map[string]string{"hash": "qr-julia"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var checkin scheduling.CheckinResult
	decodeBody(t, resp, &checkin)
	assert.True(t, checkin.Valid)

	resp, err = http.Get(srv.URL + "/dashboard")
	require.NoError(t, err)
	var d clinic.Dashboard
	decodeBody(t, resp, &d)
	assert.Equal(t, 1, d.VerifiedCheckins)
}

func TestWaitlistMatchOverHTTP(t *testing.T) {
	srv, _, _ := newOfflineServer(t)

	for _, e := range []map[string]any{
		{"patient_name": "Ana", "priority_score": 40},
		{"patient_name": "Bruno", "priority_score": 90},
	} {
		resp := postJSON(t, srv.URL+"/waitlist", e)
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}

	resp := postJSON(t, srv.URL+"/waitlist/match", map[string]string{"slot_time": "15:00"})
	var match waitlist.MatchResponse
	decodeBody(t, resp, &match)
	require.True(t, match.Matched)
	assert.Equal(t, "Bruno", match.Match.PatientName)
}

func TestChatReplyOverHTTP(t *testing.T) {
	srv, _, _ := newOfflineServer(t)

	resp := postJSON(t, srv.URL+"/chats", map[string]string{"patient_name": "Julia"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var sess messaging.ChatSession
	decodeBody(t, resp, &sess)

	resp = postJSON(t, srv.URL+"/chats/"+sess.ID+"/reply", map[string]string{"text": "Qual o valor da consulta?"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var updated messaging.ChatSession
	decodeBody(t, resp, &updated)
	require.Len(t, updated.Messages, 2)
	assert.Equal(t, messaging.SenderAI, updated.Messages[1].Sender)
	assert.NotEmpty(t, updated.Messages[1].Text)
}

func TestPersonalityRoundTripOverHTTP(t *testing.T) {
	srv, _, _ := newOfflineServer(t)

	cfg := messaging.PersonalityConfig{Formality: 30, Empathy: 90, Length: 40, EmojiUsage: true}
	raw, err := json.Marshal(cfg)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPut, srv.URL+"/settings/personality", bytes.NewReader(raw))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp, err = http.Get(srv.URL + "/settings/personality")
	require.NoError(t, err)
	var got messaging.PersonalityConfig
	decodeBody(t, resp, &got)
	assert.Equal(t, cfg, got)
}

func TestTrainingEndpoints(t *testing.T) {
	srv, _, _ := newOfflineServer(t)

	resp, err := http.Get(srv.URL + "/training/queue")
	require.NoError(t, err)
	var queue []training.TrainingExample
	decodeBody(t, resp, &queue)
	assert.Len(t, queue, 3)

	resp = postJSON(t, srv.URL+"/training/corrections", map[string]string{"example_id": "t1", "label": "reschedule"})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = postJSON(t, srv.URL+"/training/files", map[string]string{"file_type": "csv"})
	var result training.ProcessResult
	decodeBody(t, resp, &result)
	assert.Equal(t, "completed", result.Status)
	assert.GreaterOrEqual(t, result.NewProfiles, 10)
}
