package training

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLabelingQueueIsFixed(t *testing.T) {
	svc := NewService(nil, nil)

	queue := svc.LabelingQueue(context.Background())
	require.Len(t, queue, 3)
	assert.Equal(t, "t1", queue[0].ID)
	assert.Equal(t, PredictionLate, queue[0].AIPrediction)
	assert.Equal(t, PredictionCancellation, queue[1].AIPrediction)
	assert.Equal(t, PredictionQuestion, queue[2].AIPrediction)
	for _, ex := range queue {
		assert.Equal(t, "pending_review", ex.Status)
	}
}

func TestSubmitCorrectionAppendsToLog(t *testing.T) {
	svc := NewService(nil, nil)

	c1 := svc.SubmitCorrection(context.Background(), "t1", PredictionReschedule)
	assert.Equal(t, "t1", c1.ExampleID)
	assert.False(t, c1.SubmittedAt.IsZero())

	svc.SubmitCorrection(context.Background(), "t2", PredictionConfirmed)

	log := svc.Corrections(context.Background())
	require.Len(t, log, 2)
	assert.Equal(t, "t1", log[0].ExampleID)
	assert.Equal(t, "t2", log[1].ExampleID)
}

func TestMetricsSnapshot(t *testing.T) {
	svc := NewService(nil, nil)

	m := svc.Metrics(context.Background())
	assert.Equal(t, 0.92, m.Precision)
	assert.Equal(t, 0.88, m.Recall)
	assert.Equal(t, 0.90, m.F1Score)
	assert.Equal(t, 0.94, m.Accuracy)
	assert.Equal(t, 1250, m.TrainingSetSize)
	require.Len(t, m.History, 4)
	assert.Equal(t, m.Accuracy, m.History[3].Accuracy)
}

func TestProcessFileBoundedAndSeeded(t *testing.T) {
	svc := NewService(rand.New(rand.NewSource(7)), nil)

	for i := 0; i < 50; i++ {
		res := svc.ProcessFile(context.Background(), "whatsapp_export")
		assert.Equal(t, "completed", res.Status)
		assert.GreaterOrEqual(t, res.NewProfiles, 10)
		assert.LessOrEqual(t, res.NewProfiles, 59)
	}

	// Same seed, same sequence.
	a := NewService(rand.New(rand.NewSource(99)), nil)
	b := NewService(rand.New(rand.NewSource(99)), nil)
	for i := 0; i < 5; i++ {
		assert.Equal(t,
			a.ProcessFile(context.Background(), "csv").NewProfiles,
			b.ProcessFile(context.Background(), "csv").NewProfiles,
		)
	}
}
