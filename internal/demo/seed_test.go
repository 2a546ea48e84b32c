package demo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slimfitai/clinic-platform/internal/messaging"
	"github.com/slimfitai/clinic-platform/internal/patients"
	"github.com/slimfitai/clinic-platform/internal/scheduling"
	"github.com/slimfitai/clinic-platform/internal/waitlist"
)

func TestSeedLoadsScenario(t *testing.T) {
	ctx := context.Background()
	patientRepo := patients.NewInMemoryRepository()
	apptRepo := scheduling.NewInMemoryRepository()
	waitlistRepo := waitlist.NewInMemoryRepository()
	sessions := messaging.NewSessionStore()

	require.NoError(t, Seed(ctx, patientRepo, apptRepo, waitlistRepo, sessions, nil))

	ps, err := patientRepo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, ps, 7)

	as, err := apptRepo.List(ctx)
	require.NoError(t, err)
	require.Len(t, as, 2)

	// The verified appointment reads back at risk zero regardless of the
	// seeded score.
	verified, err := apptRepo.GetByID(ctx, "2")
	require.NoError(t, err)
	require.NotNil(t, verified.RiskScore)
	assert.Equal(t, 0, *verified.RiskScore)

	ws, err := waitlistRepo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, ws, 3)

	cs, err := sessions.List(ctx)
	require.NoError(t, err)
	require.Len(t, cs, 2)
	for _, c := range cs {
		assert.Len(t, c.Messages, 2)
	}
}
