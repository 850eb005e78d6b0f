package state

import (
	"database/sql"
	"encoding/json"
	"errors"

	dbutil "github.com/llehouerou/reel/internal/db"
	"github.com/llehouerou/reel/internal/navstack"
)

// SaveStack persists the detail navigation stack (bottom to top).
func (m *Manager) SaveStack(entries []navstack.Entry) error {
	return saveStack(m.db, entries)
}

// LoadStack returns the persisted navigation stack, nil when none.
func (m *Manager) LoadStack() ([]navstack.Entry, error) {
	return loadStack(m.db)
}

func getSelectedTab(db *sql.DB) (string, error) {
	var tab sql.NullString
	err := db.QueryRow(`SELECT selected_tab FROM detail_state WHERE id = 1`).Scan(&tab)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return dbutil.NullStringValue(tab), nil
}

func saveSelectedTab(db execer, tab string) error {
	_, err := db.Exec(`
		INSERT INTO detail_state (id, selected_tab)
		VALUES (1, ?)
		ON CONFLICT(id) DO UPDATE SET
			selected_tab = excluded.selected_tab
	`, tab)
	return err
}

func loadStack(db *sql.DB) ([]navstack.Entry, error) {
	var raw sql.NullString
	err := db.QueryRow(`SELECT stack FROM detail_state WHERE id = 1`).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	data := dbutil.NullStringValue(raw)
	if data == "" {
		return nil, nil
	}

	var entries []navstack.Entry
	if err := json.Unmarshal([]byte(data), &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func saveStack(db *sql.DB, entries []navstack.Entry) error {
	var data any
	if len(entries) > 0 {
		b, err := json.Marshal(entries)
		if err != nil {
			return err
		}
		data = string(b)
	}
	_, err := db.Exec(`
		INSERT INTO detail_state (id, stack)
		VALUES (1, ?)
		ON CONFLICT(id) DO UPDATE SET
			stack = excluded.stack
	`, data)
	return err
}
