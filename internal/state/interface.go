package state

import (
	"database/sql"
	"time"

	"github.com/llehouerou/reel/internal/extractor"
	"github.com/llehouerou/reel/internal/navstack"
)

// Interface defines the state manager contract for dependency injection and testing.
type Interface interface {
	DB() *sql.DB
	RecordView(info *extractor.StreamInfo) error
	RecentViews(limit int) ([]View, error)
	ClearHistory() error
	ResumePosition(serviceID int, url string) (time.Duration, error)
	SaveResumePosition(serviceID int, url string, pos time.Duration) error
	NoteResumePosition(serviceID int, url string, pos time.Duration)
	SaveSelectedTab(tab string)
	SelectedTab() (string, error)
	SaveStack(entries []navstack.Entry) error
	LoadStack() ([]navstack.Entry, error)
	Close() error
}

// Verify Manager implements Interface at compile time.
var _ Interface = (*Manager)(nil)
