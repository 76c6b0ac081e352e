package jobcontext

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobBeginCarriesMetadata(t *testing.T) {
	id := uuid.New()
	ctx, cancel := JobBegin(context.Background(), id, "duplicate_scan", "user-1", time.Minute)
	defer cancel()

	meta := GetJobMetadata(ctx)
	assert.Equal(t, id, meta.JobID)
	assert.Equal(t, "duplicate_scan", meta.JobType)
	assert.Equal(t, "user-1", meta.ActorID)
	assert.False(t, meta.StartTime.IsZero())

	deadline, ok := ctx.Deadline()
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(time.Minute), deadline, 5*time.Second)
}

func TestJobEndRecoversPanic(t *testing.T) {
	err := JobEnd(context.Background(), func(context.Context) error { panic("boom") })
	assert.ErrorContains(t, err, "panic recovered: boom")
}

func TestJobEndRunsOnce(t *testing.T) {
	calls := 0
	want := errors.New("failed")
	err := JobEnd(context.Background(), func(context.Context) error {
		calls++
		return want
	})
	assert.ErrorIs(t, err, want)
	assert.Equal(t, 1, calls)
}

func TestJobEndSkipsCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := JobEnd(ctx, func(context.Context) error { t.Fatal("must not run"); return nil })
	assert.ErrorIs(t, err, context.Canceled)
}
