package state

import (
	"database/sql"
	"strconv"
	"time"

	"github.com/llehouerou/reel/internal/extractor"
	"github.com/llehouerou/reel/internal/navstack"
)

// Mock is a test double for Manager.
type Mock struct {
	views       []View
	resume      map[string]time.Duration
	selectedTab string
	stack       []navstack.Entry
	recordErr   error
	closed      bool
}

// NewMock creates a new mock state manager for testing.
func NewMock() *Mock {
	return &Mock{resume: make(map[string]time.Duration)}
}

func (m *Mock) DB() *sql.DB { return nil }

func (m *Mock) RecordView(info *extractor.StreamInfo) error {
	if m.recordErr != nil {
		return m.recordErr
	}
	for i := range m.views {
		if m.views[i].ServiceID == info.ServiceID && m.views[i].URL == info.URL {
			m.views[i].RepeatCount++
			return nil
		}
	}
	m.views = append(m.views, View{
		ServiceID:   info.ServiceID,
		URL:         info.URL,
		Title:       info.Name,
		Uploader:    info.Uploader,
		Duration:    info.Duration,
		RepeatCount: 1,
	})
	return nil
}

func (m *Mock) RecentViews(limit int) ([]View, error) {
	var out []View
	for i := len(m.views) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.views[i])
	}
	return out, nil
}

func (m *Mock) ClearHistory() error {
	m.views = nil
	m.resume = make(map[string]time.Duration)
	return nil
}

func (m *Mock) ResumePosition(serviceID int, url string) (time.Duration, error) {
	return m.resume[mockKey(serviceID, url)], nil
}

func (m *Mock) SaveResumePosition(serviceID int, url string, pos time.Duration) error {
	if pos <= 0 {
		delete(m.resume, mockKey(serviceID, url))
		return nil
	}
	m.resume[mockKey(serviceID, url)] = pos
	return nil
}

func (m *Mock) NoteResumePosition(serviceID int, url string, pos time.Duration) {
	_ = m.SaveResumePosition(serviceID, url, pos)
}

func (m *Mock) SaveSelectedTab(tab string) { m.selectedTab = tab }

func (m *Mock) SelectedTab() (string, error) { return m.selectedTab, nil }

func (m *Mock) SaveStack(entries []navstack.Entry) error {
	m.stack = entries
	return nil
}

func (m *Mock) LoadStack() ([]navstack.Entry, error) { return m.stack, nil }

func (m *Mock) Close() error {
	m.closed = true
	return nil
}

func mockKey(serviceID int, url string) string {
	return strconv.Itoa(serviceID) + ":" + url
}

// Test helpers

func (m *Mock) Views() []View { return m.views }

func (m *Mock) SetRecordError(err error) { m.recordErr = err }

func (m *Mock) IsClosed() bool { return m.closed }

// Verify Mock implements Interface at compile time.
var _ Interface = (*Mock)(nil)
