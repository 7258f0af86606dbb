package sqlite

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/kwscout/pkg/kwscout/internalerr"
	"github.com/cognicore/kwscout/pkg/kwscout/source"
	"github.com/cognicore/kwscout/pkg/kwscout/store"
)

func openTemp(t *testing.T) store.SignalStore {
	t.Helper()
	st, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "signals.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func TestSQLiteTrendUpsert(t *testing.T) {
	ctx := context.Background()
	st := openTemp(t)

	observed := time.Date(2026, 9, 30, 12, 0, 0, 0, time.UTC)
	require.NoError(t, st.UpsertTrend(ctx, "Camping Stove", 20, observed))
	require.NoError(t, st.UpsertTrend(ctx, "camping   stove", 35, observed))

	got, ok, err := st.GetTrend(ctx, "camping stove")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, store.Trend{Phrase: "camping stove", Score: 35, ObservedAt: observed}, got)

	_, ok, err = st.GetTrend(ctx, "tent")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSQLiteMetricsUpsert(t *testing.T) {
	ctx := context.Background()
	st := openTemp(t)

	require.NoError(t, st.UpsertMetrics(ctx, "tent stakes", 1500, 0.25, time.Time{}))
	require.NoError(t, st.UpsertMetrics(ctx, "tent stakes", 1800, 0.3, time.Time{}))

	got, ok, err := st.GetMetrics(ctx, "TENT STAKES")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 1800, got.Volume)
	assert.InDelta(t, 0.3, got.Competition, 1e-12)
	assert.True(t, got.ObservedAt.IsZero())
}

func TestSQLitePhrases(t *testing.T) {
	ctx := context.Background()
	st := openTemp(t)

	require.NoError(t, st.UpsertTrend(ctx, "b phrase", 1, time.Time{}))
	require.NoError(t, st.UpsertMetrics(ctx, "a phrase", 1, 0.5, time.Time{}))
	require.NoError(t, st.UpsertMetrics(ctx, "b phrase", 1, 0.5, time.Time{}))
	require.NoError(t, st.UpsertTrend(ctx, "", 1, time.Time{}))

	phrases, err := st.Phrases(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a phrase", "b phrase"}, phrases)
}

func TestSQLiteReopenPersists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "signals.db")

	st, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	require.NoError(t, st.UpsertTrend(ctx, "best tent", 60, time.Time{}))
	require.NoError(t, st.Close())

	st, err = OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer st.Close()

	got := store.TrendSource{Store: st}.Trend(ctx, "best tent")
	assert.Equal(t, source.TrendAvailable(60), got)
}

func TestSQLiteConcurrentUpserts(t *testing.T) {
	ctx := context.Background()
	st := openTemp(t)

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs <- st.UpsertMetrics(ctx, fmt.Sprintf("phrase %d", i), i, 0.5, time.Time{})
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}

	phrases, err := st.Phrases(ctx)
	require.NoError(t, err)
	assert.Len(t, phrases, 20)
}

func TestSQLiteOpenMissingDir(t *testing.T) {
	_, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "missing", "signals.db"))
	require.ErrorIs(t, err, internalerr.ErrStoreUnavailable)
}
