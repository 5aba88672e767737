package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bkyoung/diff-annotate/internal/adapter/store/sqlite"
	"github.com/bkyoung/diff-annotate/internal/store"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sampleRun(id string, ts time.Time) store.Run {
	return store.Run{
		RunID:           id,
		Timestamp:       ts,
		Repository:      "acme/app",
		PullNumber:      7,
		TotalFindings:   5,
		InDiff:          3,
		OutOfDiff:       2,
		CommentsAdded:   3,
		CommentsDeleted: 1,
	}
}

func TestSaveAndListRuns(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	ts := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	require.NoError(t, s.SaveRun(ctx, sampleRun("run-1", ts)))

	runs, err := s.ListRuns(ctx, "acme/app", 10)

	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "run-1", runs[0].RunID)
	assert.Equal(t, ts, runs[0].Timestamp)
	assert.Equal(t, 5, runs[0].TotalFindings)
	assert.Equal(t, 3, runs[0].CommentsAdded)
	assert.False(t, runs[0].Limited)
}

func TestListRuns_NewestFirstWithLimit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		run := sampleRun(store.GenerateRunID(base.Add(time.Duration(i)*time.Hour), "acme/app", 7), base.Add(time.Duration(i)*time.Hour))
		require.NoError(t, s.SaveRun(ctx, run))
	}

	runs, err := s.ListRuns(ctx, "acme/app", 2)

	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.True(t, runs[0].Timestamp.After(runs[1].Timestamp))
}

func TestListRuns_FiltersByRepository(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	run := sampleRun("run-1", time.Now())
	require.NoError(t, s.SaveRun(ctx, run))

	runs, err := s.ListRuns(ctx, "other/repo", 10)

	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestSaveRun_LimitedFlagRoundTrips(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	run := sampleRun("run-limited", time.Now())
	run.Limited = true
	require.NoError(t, s.SaveRun(ctx, run))

	runs, err := s.ListRuns(ctx, "acme/app", 1)

	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.True(t, runs[0].Limited)
}

func TestSaveRun_DuplicateIDFails(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	run := sampleRun("run-1", time.Now())
	require.NoError(t, s.SaveRun(ctx, run))
	assert.Error(t, s.SaveRun(ctx, run))
}
