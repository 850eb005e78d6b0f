// Package db holds small database/sql helpers shared by the state store.
package db

import (
	"database/sql"
	"time"
)

// WithTx executes fn within a transaction.
// It handles Begin, Rollback on error, and Commit on success.
func WithTx(db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// NullStringValue returns the string value or empty string if not valid.
func NullStringValue(n sql.NullString) string {
	if !n.Valid {
		return ""
	}
	return n.String
}

// Millis converts a duration to the integer milliseconds stored in columns.
func Millis(d time.Duration) int64 {
	return d.Milliseconds()
}

// FromMillis converts stored milliseconds back to a duration.
func FromMillis(ms int64) time.Duration {
	return time.Duration(ms) * time.Millisecond
}

// Time converts stored unix milliseconds to a time. Zero maps to the zero time.
func Time(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms)
}
