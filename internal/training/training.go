// Package training exposes the MLOps surface of the assistant: the
// human-labeling queue, correction feedback, model quality metrics and
// training-file ingestion. The model itself is external; everything
// here is the bookkeeping around it, simulated deterministically under
// an injected seed.
package training

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/slimfitai/clinic-platform/pkg/logging"
)

// Prediction labels the classifier assigns to patient messages.
const (
	PredictionConfirmed    = "confirmed"
	PredictionCancellation = "cancellation"
	PredictionLate         = "late"
	PredictionReschedule   = "reschedule"
	PredictionQuestion     = "question"
)

// TrainingExample is a classified patient message awaiting human review.
type TrainingExample struct {
	ID           string  `json:"id"`
	Input        string  `json:"input"`
	Context      string  `json:"context"`
	AIPrediction string  `json:"ai_prediction"`
	Confidence   float64 `json:"confidence"`
	ActualLabel  string  `json:"actual_label,omitempty"`
	Status       string  `json:"status"`
}

// Correction is a reviewer's relabeling of a queued example.
type Correction struct {
	ExampleID   string    `json:"example_id"`
	Label       string    `json:"label"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// AccuracyPoint is one step of the model's accuracy history.
type AccuracyPoint struct {
	Date     string  `json:"date"`
	Accuracy float64 `json:"accuracy"`
}

// ModelMetrics is a snapshot of classifier quality.
type ModelMetrics struct {
	Precision       float64         `json:"precision"`
	Recall          float64         `json:"recall"`
	F1Score         float64         `json:"f1_score"`
	Accuracy        float64         `json:"accuracy"`
	TrainingSetSize int             `json:"training_set_size"`
	LastTrainedAt   string          `json:"last_trained_at"`
	History         []AccuracyPoint `json:"history"`
}

// ProcessResult reports a simulated training-file ingestion.
type ProcessResult struct {
	Status      string `json:"status"`
	NewProfiles int    `json:"new_profiles"`
}

// Service implements the training operations over an in-memory review
// log.
type Service struct {
	mu          sync.Mutex
	rng         *rand.Rand
	corrections []Correction
	logger      *logging.Logger
}

// NewService builds a training service. rng drives the simulated
// file-processing outcome and may be nil outside tests.
func NewService(rng *rand.Rand, logger *logging.Logger) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{rng: rng, logger: logger}
}

// LabelingQueue returns the examples awaiting human review.
func (s *Service) LabelingQueue(ctx context.Context) []TrainingExample {
	return []TrainingExample{
		{ID: "t1", Input: "Talvez eu me atrase uns 10 minutos", Context: "Confirmação de Agenda", AIPrediction: PredictionLate, Confidence: 0.65, Status: "pending_review"},
		{ID: "t2", Input: "Não vou conseguir ir", Context: "Mensagem Espontânea", AIPrediction: PredictionCancellation, Confidence: 0.98, Status: "pending_review"},
		{ID: "t3", Input: "Aceitam cartão?", Context: "Dúvida", AIPrediction: PredictionQuestion, Confidence: 0.85, Status: "pending_review"},
	}
}

// SubmitCorrection records a reviewer's relabeling in the review log.
func (s *Service) SubmitCorrection(ctx context.Context, exampleID, label string) Correction {
	c := Correction{ExampleID: exampleID, Label: label, SubmittedAt: time.Now().UTC()}

	s.mu.Lock()
	s.corrections = append(s.corrections, c)
	s.mu.Unlock()

	s.logger.Info("training correction recorded", "example_id", exampleID, "label", label)
	return c
}

// Corrections returns the review log in submission order.
func (s *Service) Corrections(ctx context.Context) []Correction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Correction(nil), s.corrections...)
}

// Metrics returns the current model quality snapshot.
func (s *Service) Metrics(ctx context.Context) ModelMetrics {
	return ModelMetrics{
		Precision:       0.92,
		Recall:          0.88,
		F1Score:         0.90,
		Accuracy:        0.94,
		TrainingSetSize: 1250,
		LastTrainedAt:   time.Now().Format("02/01/2006"),
		History: []AccuracyPoint{
			{Date: "Sem 1", Accuracy: 0.65},
			{Date: "Sem 2", Accuracy: 0.78},
			{Date: "Sem 3", Accuracy: 0.85},
			{Date: "Sem 4", Accuracy: 0.94},
		},
	}
}

// ProcessFile simulates ingesting a training file, reporting between 10
// and 59 new behavioral profiles.
func (s *Service) ProcessFile(ctx context.Context, fileType string) ProcessResult {
	s.mu.Lock()
	newProfiles := s.rng.Intn(50) + 10
	s.mu.Unlock()

	s.logger.Info("training file processed", "file_type", fileType, "new_profiles", newProfiles)
	return ProcessResult{Status: "completed", NewProfiles: newProfiles}
}
