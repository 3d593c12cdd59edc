package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/endoreels/reelplayer/internal/config"
)

func openTestManager(t *testing.T, cfg config.HistoryConfig) *Manager {
	t.Helper()
	if cfg.MaxRecent == 0 {
		cfg.MaxRecent = 20
	}
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = 500
	}
	m, err := OpenAt(filepath.Join(t.TempDir(), "history.db"), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })
	return m
}

func TestRecordAttempt_ReadyUpdatesRecents(t *testing.T) {
	m := openTestManager(t, config.HistoryConfig{})

	err := m.RecordAttempt(Attempt{
		Path:         "/cases/colonoscopy-0412.mp4",
		Outcome:      OutcomeReady,
		ClipDuration: 5 * time.Second,
		Elapsed:      120 * time.Millisecond,
	}, "colonoscopy-0412.mp4")
	require.NoError(t, err)

	clips, err := m.RecentClips(10)
	require.NoError(t, err)
	require.Len(t, clips, 1)
	require.Equal(t, "/cases/colonoscopy-0412.mp4", clips[0].Path)
	require.Equal(t, "colonoscopy-0412.mp4", clips[0].Title)
	require.Equal(t, 5*time.Second, clips[0].ClipDuration)
	require.Equal(t, 1, clips[0].PlayCount)
}

func TestRecordAttempt_FailureSkipsRecents(t *testing.T) {
	m := openTestManager(t, config.HistoryConfig{})

	err := m.RecordAttempt(Attempt{
		Path:    "/cases/missing.mp4",
		Outcome: "MissingResource",
		Message: "resource not found",
		Elapsed: 3 * time.Millisecond,
	}, "missing.mp4")
	require.NoError(t, err)

	clips, err := m.RecentClips(10)
	require.NoError(t, err)
	require.Empty(t, clips)

	attempts, err := m.Attempts(10)
	require.NoError(t, err)
	require.Len(t, attempts, 1)
	require.Equal(t, "MissingResource", attempts[0].Outcome)
	require.Equal(t, "resource not found", attempts[0].Message)
}

func TestRecordAttempt_RepeatPlayIncrementsCount(t *testing.T) {
	m := openTestManager(t, config.HistoryConfig{})
	a := Attempt{Path: "/cases/a.mp4", Outcome: OutcomeReady, ClipDuration: time.Second}

	require.NoError(t, m.RecordAttempt(a, "a.mp4"))
	require.NoError(t, m.RecordAttempt(a, "a.mp4"))

	clips, err := m.RecentClips(10)
	require.NoError(t, err)
	require.Len(t, clips, 1)
	require.Equal(t, 2, clips[0].PlayCount)
}

func TestRecordAttempt_PrunesJournal(t *testing.T) {
	m := openTestManager(t, config.HistoryConfig{MaxAttempts: 3})

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		err := m.RecordAttempt(Attempt{
			Path:    "/cases/a.mp4",
			Outcome: "Timeout",
			At:      base.Add(time.Duration(i) * time.Minute),
		}, "a.mp4")
		require.NoError(t, err)
	}

	attempts, err := m.Attempts(100)
	require.NoError(t, err)
	require.Len(t, attempts, 3)
}

func TestRecentClips_CapsAtConfiguredMax(t *testing.T) {
	m := openTestManager(t, config.HistoryConfig{MaxRecent: 2})

	base := time.Now().Add(-time.Hour)
	paths := []string{"/cases/a.mp4", "/cases/b.mp4", "/cases/c.mp4"}
	for i, p := range paths {
		err := m.RecordAttempt(Attempt{
			Path:    p,
			Outcome: OutcomeReady,
			At:      base.Add(time.Duration(i) * time.Minute),
		}, filepath.Base(p))
		require.NoError(t, err)
	}

	clips, err := m.RecentClips(10)
	require.NoError(t, err)
	require.Len(t, clips, 2)
	require.Equal(t, "/cases/c.mp4", clips[0].Path)
	require.Equal(t, "/cases/b.mp4", clips[1].Path)
}
