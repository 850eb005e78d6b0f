// Package state persists viewing history, resume positions and the detail
// screen state in a SQLite database.
package state

import (
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/adrg/xdg"
	_ "modernc.org/sqlite" // SQLite driver

	dbutil "github.com/llehouerou/reel/internal/db"
)

const (
	appName      = "reel"
	dbFileName   = "reel.db"
	saveDebounce = 500 * time.Millisecond
)

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

type streamKey struct {
	serviceID int
	url       string
}

// pendingWrites holds debounced writes not yet in the database.
type pendingWrites struct {
	tab       *string
	positions map[streamKey]time.Duration
}

func (p pendingWrites) empty() bool {
	return p.tab == nil && len(p.positions) == 0
}

type Manager struct {
	db  *sql.DB
	now func() time.Time

	saveMu    sync.Mutex
	saveTimer *time.Timer
	pending   pendingWrites
}

func Open() (*Manager, error) {
	dbPath, err := getDBPath()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, err
	}
	return OpenPath(dbPath)
}

// OpenPath opens the state database at path. ":memory:" is accepted.
func OpenPath(path string) (*Manager, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if path == ":memory:" {
		// Each connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	}

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Manager{db: db, now: time.Now}, nil
}

// Close writes pending state and closes the database.
func (m *Manager) Close() error {
	m.saveMu.Lock()
	if m.saveTimer != nil {
		m.saveTimer.Stop()
	}
	m.saveMu.Unlock()

	_ = m.flush()
	return m.db.Close()
}

func (m *Manager) DB() *sql.DB {
	return m.db
}

// SaveSelectedTab persists the selected detail tab after a short delay.
// Rapid successive calls only write the last value.
func (m *Manager) SaveSelectedTab(tab string) {
	m.schedule(func(p *pendingWrites) { p.tab = &tab })
}

// SelectedTab returns the saved tab, including one still pending a write.
func (m *Manager) SelectedTab() (string, error) {
	m.saveMu.Lock()
	pending := m.pending.tab
	m.saveMu.Unlock()
	if pending != nil {
		return *pending, nil
	}
	return getSelectedTab(m.db)
}

// NoteResumePosition records a playback position with the same delayed
// write as SaveSelectedTab. It is meant for frequent progress updates.
func (m *Manager) NoteResumePosition(serviceID int, url string, pos time.Duration) {
	m.schedule(func(p *pendingWrites) {
		if p.positions == nil {
			p.positions = make(map[streamKey]time.Duration)
		}
		p.positions[streamKey{serviceID, url}] = pos
	})
}

func (m *Manager) pendingPosition(serviceID int, url string) (time.Duration, bool) {
	m.saveMu.Lock()
	defer m.saveMu.Unlock()
	pos, ok := m.pending.positions[streamKey{serviceID, url}]
	return pos, ok
}

// schedule applies update to the pending writes and (re)arms the timer.
func (m *Manager) schedule(update func(*pendingWrites)) {
	m.saveMu.Lock()
	defer m.saveMu.Unlock()

	update(&m.pending)

	if m.saveTimer != nil {
		m.saveTimer.Stop()
	}
	m.saveTimer = time.AfterFunc(saveDebounce, func() { _ = m.flush() })
}

// flush writes all pending state in one transaction.
func (m *Manager) flush() error {
	m.saveMu.Lock()
	pending := m.pending
	m.pending = pendingWrites{}
	m.saveMu.Unlock()

	if pending.empty() {
		return nil
	}
	now := m.now()
	return dbutil.WithTx(m.db, func(tx *sql.Tx) error {
		if pending.tab != nil {
			if err := saveSelectedTab(tx, *pending.tab); err != nil {
				return err
			}
		}
		for k, pos := range pending.positions {
			if err := saveResumePosition(tx, k.serviceID, k.url, pos, now); err != nil {
				return err
			}
		}
		return nil
	})
}

func getDBPath() (string, error) {
	return xdg.DataFile(filepath.Join(appName, dbFileName))
}
