package audit

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "activity.db")
	s, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestRecordAndRecent(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	s := openTestStore(t)

	base := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	first, err := s.Record(ctx, Entry{Action: "run_job", TargetID: 3, OK: true, Message: "Job executado com sucesso", At: base})
	require.NoError(t, err)
	require.NotEmpty(t, first.ID)

	_, err = s.Record(ctx, Entry{Action: "delete_process", TargetID: 11, OK: false, Message: "Erro ao excluir processo", At: base.Add(time.Minute)})
	require.NoError(t, err)

	got, err := s.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "delete_process", got[0].Action)
	require.False(t, got[0].OK)
	require.Equal(t, 11, got[0].TargetID)
	require.Equal(t, first.ID, got[1].ID)
	require.True(t, got[1].OK)
	require.True(t, base.Equal(got[1].At), "got %v", got[1].At)
}

func TestRecordFillsTimestamp(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	e, err := s.Record(context.Background(), Entry{Action: "toggle_job", TargetID: 1, OK: true, Message: "ok"})
	require.NoError(t, err)
	require.False(t, e.At.IsZero())
}

func TestRecentLimit(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := openTestStore(t)
	for i := 0; i < 5; i++ {
		_, err := s.Record(ctx, Entry{Action: "run_job", TargetID: i, OK: true, Message: "ok"})
		require.NoError(t, err)
	}
	got, err := s.Recent(ctx, 3)
	require.NoError(t, err)
	require.Len(t, got, 3)
}

func TestOpenTwiceIsIdempotent(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "activity.db")
	s1, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s1.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s2.Close())
}

func TestPruneDropsOlderEntries(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := openTestStore(t)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		_, err := s.Record(ctx, Entry{Action: "run_job", TargetID: i, OK: true, Message: "ok", At: base.Add(time.Duration(i) * 24 * time.Hour)})
		require.NoError(t, err)
	}

	n, err := s.Prune(ctx, base.Add(48*time.Hour))
	require.NoError(t, err)
	require.EqualValues(t, 2, n)

	got, err := s.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, 3, got[0].TargetID)

	n, err = s.Prune(ctx, base)
	require.NoError(t, err)
	require.Zero(t, n)
}
