package history

import (
	"database/sql"
	"time"

	dbutil "github.com/endoreels/reelplayer/internal/db"
)

// OutcomeReady marks a successful load attempt; failed attempts record the
// failure kind instead.
const OutcomeReady = "ready"

// Attempt is one resolved Prepare call.
type Attempt struct {
	Path         string
	Outcome      string
	Message      string
	ClipDuration time.Duration
	Elapsed      time.Duration
	At           time.Time
}

// RecentClip is a clip that reached readiness at least once.
type RecentClip struct {
	Path         string
	Title        string
	ClipDuration time.Duration
	LastPlayedAt time.Time
	PlayCount    int
}

// RecordAttempt journals one resolved attempt and, when it was successful,
// refreshes the recent-clips entry. Old journal rows beyond the configured
// cap are pruned in the same transaction.
func (m *Manager) RecordAttempt(a Attempt, title string) error {
	at := a.At
	if at.IsZero() {
		at = time.Now()
	}

	return dbutil.WithTx(m.db, func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			INSERT INTO load_attempts (path, outcome, message, clip_duration_ms, elapsed_ms, attempted_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`, a.Path, a.Outcome, a.Message, a.ClipDuration.Milliseconds(), a.Elapsed.Milliseconds(), at.Unix())
		if err != nil {
			return err
		}

		_, err = tx.Exec(`
			DELETE FROM load_attempts WHERE id NOT IN (
				SELECT id FROM load_attempts ORDER BY attempted_at DESC, id DESC LIMIT ?
			)
		`, m.cfg.MaxAttempts)
		if err != nil {
			return err
		}

		if a.Outcome != OutcomeReady {
			return nil
		}

		_, err = tx.Exec(`
			INSERT INTO recent_clips (path, title, clip_duration_ms, last_played_at, play_count)
			VALUES (?, ?, ?, ?, 1)
			ON CONFLICT(path) DO UPDATE SET
				title = excluded.title,
				clip_duration_ms = excluded.clip_duration_ms,
				last_played_at = excluded.last_played_at,
				play_count = play_count + 1
		`, a.Path, title, a.ClipDuration.Milliseconds(), at.Unix())
		if err != nil {
			return err
		}

		_, err = tx.Exec(`
			DELETE FROM recent_clips WHERE path NOT IN (
				SELECT path FROM recent_clips ORDER BY last_played_at DESC LIMIT ?
			)
		`, m.cfg.MaxRecent)
		return err
	})
}

// RecentClips returns the most recently played clips, newest first.
func (m *Manager) RecentClips(limit int) ([]RecentClip, error) {
	if limit <= 0 || limit > m.cfg.MaxRecent {
		limit = m.cfg.MaxRecent
	}

	rows, err := m.db.Query(`
		SELECT path, title, clip_duration_ms, last_played_at, play_count
		FROM recent_clips ORDER BY last_played_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clips []RecentClip
	for rows.Next() {
		var c RecentClip
		var durationMS, playedAt int64
		if err := rows.Scan(&c.Path, &c.Title, &durationMS, &playedAt, &c.PlayCount); err != nil {
			return nil, err
		}
		c.ClipDuration = time.Duration(durationMS) * time.Millisecond
		c.LastPlayedAt = time.Unix(playedAt, 0)
		clips = append(clips, c)
	}
	return clips, rows.Err()
}

// Attempts returns the newest journal rows, newest first.
func (m *Manager) Attempts(limit int) ([]Attempt, error) {
	if limit <= 0 || limit > m.cfg.MaxAttempts {
		limit = m.cfg.MaxAttempts
	}

	rows, err := m.db.Query(`
		SELECT path, outcome, message, clip_duration_ms, elapsed_ms, attempted_at
		FROM load_attempts ORDER BY attempted_at DESC, id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attempts []Attempt
	for rows.Next() {
		var a Attempt
		var message sql.NullString
		var durationMS sql.NullInt64
		var elapsedMS, at int64
		if err := rows.Scan(&a.Path, &a.Outcome, &message, &durationMS, &elapsedMS, &at); err != nil {
			return nil, err
		}
		a.Message = dbutil.NullStringValue(message)
		a.ClipDuration = time.Duration(dbutil.NullInt64Value(durationMS)) * time.Millisecond
		a.Elapsed = time.Duration(elapsedMS) * time.Millisecond
		a.At = time.Unix(at, 0)
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}
