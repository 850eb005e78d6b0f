package state

import (
	"database/sql"
	"errors"
	"time"

	dbutil "github.com/llehouerou/reel/internal/db"
	"github.com/llehouerou/reel/internal/extractor"
)

// View is one entry of the watch history.
type View struct {
	ServiceID   int
	URL         string
	Title       string
	Uploader    string
	Duration    time.Duration
	AccessDate  time.Time
	RepeatCount int
}

// RecordView adds info to the watch history, bumping the repeat count of an
// existing entry.
func (m *Manager) RecordView(info *extractor.StreamInfo) error {
	return recordView(m.db, info, m.now())
}

// RecentViews returns the most recently accessed history entries.
func (m *Manager) RecentViews(limit int) ([]View, error) {
	return recentViews(m.db, limit)
}

// ClearHistory deletes the watch history and all resume positions.
func (m *Manager) ClearHistory() error {
	m.saveMu.Lock()
	m.pending.positions = nil
	m.saveMu.Unlock()

	return dbutil.WithTx(m.db, func(tx *sql.Tx) error {
		if _, err := tx.Exec(`DELETE FROM stream_history`); err != nil {
			return err
		}
		_, err := tx.Exec(`DELETE FROM stream_state`)
		return err
	})
}

// ResumePosition returns the saved playback position, 0 when none.
// A position noted but not yet written is returned as well.
func (m *Manager) ResumePosition(serviceID int, url string) (time.Duration, error) {
	if pos, ok := m.pendingPosition(serviceID, url); ok {
		return max(pos, 0), nil
	}
	return resumePosition(m.db, serviceID, url)
}

// SaveResumePosition stores the playback position right away, replacing a
// pending one. A non-positive position forgets it.
func (m *Manager) SaveResumePosition(serviceID int, url string, pos time.Duration) error {
	m.saveMu.Lock()
	delete(m.pending.positions, streamKey{serviceID, url})
	m.saveMu.Unlock()
	return saveResumePosition(m.db, serviceID, url, pos, m.now())
}

func recordView(db *sql.DB, info *extractor.StreamInfo, now time.Time) error {
	if info == nil || info.URL == "" {
		return errors.New("record view: missing stream url")
	}
	_, err := db.Exec(`
		INSERT INTO stream_history (service_id, url, title, uploader, duration_ms, access_date, repeat_count)
		VALUES (?, ?, ?, ?, ?, ?, 1)
		ON CONFLICT(service_id, url) DO UPDATE SET
			title = excluded.title,
			uploader = excluded.uploader,
			duration_ms = excluded.duration_ms,
			access_date = excluded.access_date,
			repeat_count = stream_history.repeat_count + 1
	`, info.ServiceID, info.URL, info.Name, info.Uploader, dbutil.Millis(info.Duration), now.UnixMilli())
	return err
}

func recentViews(db *sql.DB, limit int) ([]View, error) {
	if limit <= 0 {
		return nil, nil
	}
	rows, err := db.Query(`
		SELECT service_id, url, title, uploader, duration_ms, access_date, repeat_count
		FROM stream_history
		ORDER BY access_date DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var views []View
	for rows.Next() {
		var v View
		var uploader sql.NullString
		var durationMs, accessMs int64
		if err := rows.Scan(&v.ServiceID, &v.URL, &v.Title, &uploader, &durationMs, &accessMs, &v.RepeatCount); err != nil {
			return nil, err
		}
		v.Uploader = dbutil.NullStringValue(uploader)
		v.Duration = dbutil.FromMillis(durationMs)
		v.AccessDate = dbutil.Time(accessMs)
		views = append(views, v)
	}
	return views, rows.Err()
}

func resumePosition(db *sql.DB, serviceID int, url string) (time.Duration, error) {
	var ms int64
	err := db.QueryRow(`
		SELECT position_ms FROM stream_state WHERE service_id = ? AND url = ?
	`, serviceID, url).Scan(&ms)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return dbutil.FromMillis(ms), nil
}

func saveResumePosition(db execer, serviceID int, url string, pos time.Duration, now time.Time) error {
	if pos <= 0 {
		_, err := db.Exec(`DELETE FROM stream_state WHERE service_id = ? AND url = ?`, serviceID, url)
		return err
	}
	_, err := db.Exec(`
		INSERT INTO stream_state (service_id, url, position_ms, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(service_id, url) DO UPDATE SET
			position_ms = excluded.position_ms,
			updated_at = excluded.updated_at
	`, serviceID, url, dbutil.Millis(pos), now.UnixMilli())
	return err
}
