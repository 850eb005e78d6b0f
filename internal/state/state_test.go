package state

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/llehouerou/reel/internal/extractor"
	"github.com/llehouerou/reel/internal/navstack"
	"github.com/llehouerou/reel/internal/playqueue"
)

// setupTestDB creates an in-memory SQLite database with the schema initialized.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		t.Fatalf("failed to set pragma: %v", err)
	}

	if err := initSchema(db); err != nil {
		db.Close()
		t.Fatalf("failed to init schema: %v", err)
	}

	return db
}

func newTestManager(t *testing.T, now time.Time) *Manager {
	t.Helper()
	db := setupTestDB(t)
	t.Cleanup(func() { db.Close() })
	clock := now
	return &Manager{db: db, now: func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}}
}

func streamInfo(url, name string) *extractor.StreamInfo {
	return &extractor.StreamInfo{URL: url, Name: name, Uploader: "Uploader", Duration: 90 * time.Second}
}

func TestInitSchema_Idempotent(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	if err := initSchema(db); err != nil {
		t.Fatalf("second initSchema failed: %v", err)
	}
}

func TestRecordView_InsertsAndBumps(t *testing.T) {
	m := newTestManager(t, time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))

	if err := m.RecordView(streamInfo("https://example.com/a", "A")); err != nil {
		t.Fatalf("RecordView failed: %v", err)
	}
	if err := m.RecordView(streamInfo("https://example.com/b", "B")); err != nil {
		t.Fatalf("RecordView failed: %v", err)
	}
	if err := m.RecordView(streamInfo("https://example.com/a", "A renamed")); err != nil {
		t.Fatalf("RecordView failed: %v", err)
	}

	views, err := m.RecentViews(10)
	if err != nil {
		t.Fatalf("RecentViews failed: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("got %d views, want 2", len(views))
	}

	// Most recent first
	if views[0].URL != "https://example.com/a" {
		t.Errorf("views[0].URL = %q, want a", views[0].URL)
	}
	if views[0].RepeatCount != 2 {
		t.Errorf("views[0].RepeatCount = %d, want 2", views[0].RepeatCount)
	}
	if views[0].Title != "A renamed" {
		t.Errorf("views[0].Title = %q, want %q", views[0].Title, "A renamed")
	}
	if views[0].Duration != 90*time.Second {
		t.Errorf("views[0].Duration = %v, want 90s", views[0].Duration)
	}
	if views[1].RepeatCount != 1 {
		t.Errorf("views[1].RepeatCount = %d, want 1", views[1].RepeatCount)
	}
}

func TestRecordView_RejectsMissingURL(t *testing.T) {
	m := newTestManager(t, time.Now())
	if err := m.RecordView(&extractor.StreamInfo{}); err == nil {
		t.Error("RecordView without url should fail")
	}
	if err := m.RecordView(nil); err == nil {
		t.Error("RecordView(nil) should fail")
	}
}

func TestRecentViews_Limit(t *testing.T) {
	m := newTestManager(t, time.Now())
	for _, u := range []string{"a", "b", "c"} {
		_ = m.RecordView(streamInfo("https://example.com/"+u, u))
	}

	views, _ := m.RecentViews(2)
	if len(views) != 2 {
		t.Fatalf("got %d views, want 2", len(views))
	}
	if views[0].Title != "c" || views[1].Title != "b" {
		t.Errorf("got %q, %q; want c, b", views[0].Title, views[1].Title)
	}

	none, _ := m.RecentViews(0)
	if none != nil {
		t.Errorf("RecentViews(0) = %v, want nil", none)
	}
}

func TestResumePosition(t *testing.T) {
	m := newTestManager(t, time.Now())

	pos, err := m.ResumePosition(0, "https://example.com/a")
	if err != nil {
		t.Fatalf("ResumePosition failed: %v", err)
	}
	if pos != 0 {
		t.Errorf("ResumePosition on empty db = %v, want 0", pos)
	}

	if err := m.SaveResumePosition(0, "https://example.com/a", 42*time.Second); err != nil {
		t.Fatalf("SaveResumePosition failed: %v", err)
	}
	if err := m.SaveResumePosition(0, "https://example.com/a", 50*time.Second); err != nil {
		t.Fatalf("SaveResumePosition (update) failed: %v", err)
	}

	pos, _ = m.ResumePosition(0, "https://example.com/a")
	if pos != 50*time.Second {
		t.Errorf("ResumePosition = %v, want 50s", pos)
	}

	// Same url on another service is independent
	pos, _ = m.ResumePosition(1, "https://example.com/a")
	if pos != 0 {
		t.Errorf("ResumePosition on other service = %v, want 0", pos)
	}

	// Zero forgets
	_ = m.SaveResumePosition(0, "https://example.com/a", 0)
	pos, _ = m.ResumePosition(0, "https://example.com/a")
	if pos != 0 {
		t.Errorf("ResumePosition after reset = %v, want 0", pos)
	}
}

func TestClearHistory(t *testing.T) {
	m := newTestManager(t, time.Now())
	_ = m.RecordView(streamInfo("https://example.com/a", "A"))
	_ = m.SaveResumePosition(0, "https://example.com/a", time.Minute)

	if err := m.ClearHistory(); err != nil {
		t.Fatalf("ClearHistory failed: %v", err)
	}

	views, _ := m.RecentViews(10)
	if len(views) != 0 {
		t.Errorf("got %d views after clear, want 0", len(views))
	}
	pos, _ := m.ResumePosition(0, "https://example.com/a")
	if pos != 0 {
		t.Errorf("resume position after clear = %v, want 0", pos)
	}
}

func TestSelectedTab(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	tab, err := getSelectedTab(db)
	if err != nil {
		t.Fatalf("getSelectedTab failed: %v", err)
	}
	if tab != "" {
		t.Errorf("expected empty tab on empty db, got %q", tab)
	}

	if err := saveSelectedTab(db, "description"); err != nil {
		t.Fatalf("saveSelectedTab failed: %v", err)
	}
	if err := saveSelectedTab(db, "related"); err != nil {
		t.Fatalf("saveSelectedTab (update) failed: %v", err)
	}

	tab, _ = getSelectedTab(db)
	if tab != "related" {
		t.Errorf("tab = %q, want %q", tab, "related")
	}
}

func TestManager_SaveSelectedTab_PendingVisible(t *testing.T) {
	m := newTestManager(t, time.Now())

	m.SaveSelectedTab("comments")
	m.SaveSelectedTab("description")

	tab, err := m.SelectedTab()
	if err != nil {
		t.Fatalf("SelectedTab failed: %v", err)
	}
	if tab != "description" {
		t.Errorf("SelectedTab = %q, want %q", tab, "description")
	}
}

func TestManager_CloseFlushesPendingTab(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/reel.db"

	m, err := OpenPath(path)
	if err != nil {
		t.Fatalf("OpenPath failed: %v", err)
	}
	m.SaveSelectedTab("related")
	if err := m.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	m, err = OpenPath(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer m.Close()

	tab, _ := m.SelectedTab()
	if tab != "related" {
		t.Errorf("SelectedTab after reopen = %q, want %q", tab, "related")
	}
}

func TestStack_SaveAndLoad(t *testing.T) {
	m := newTestManager(t, time.Now())

	entries, err := m.LoadStack()
	if err != nil {
		t.Fatalf("LoadStack failed: %v", err)
	}
	if entries != nil {
		t.Errorf("expected nil stack on empty db, got %+v", entries)
	}

	s := navstack.New()
	s.Push(navstack.NewItem(0, "https://example.com/a", "A", nil))
	s.Push(navstack.NewItem(0, "https://example.com/b", "B", playqueue.New([]playqueue.Item{
		{URL: "https://example.com/b", Title: "B"},
		{URL: "https://example.com/c", Title: "C", Duration: time.Minute},
	}, 1)))

	if err := m.SaveStack(s.Snapshot()); err != nil {
		t.Fatalf("SaveStack failed: %v", err)
	}

	entries, err = m.LoadStack()
	if err != nil {
		t.Fatalf("LoadStack failed: %v", err)
	}
	restored := navstack.New()
	restored.Restore(entries)

	if restored.Len() != 2 {
		t.Fatalf("restored stack size = %d, want 2", restored.Len())
	}
	top := restored.Peek()
	if top.URL() != "https://example.com/b" || top.Title() != "B" {
		t.Errorf("top = %q %q", top.URL(), top.Title())
	}
	if top.Queue() == nil || top.Queue().Index() != 1 || top.Queue().Item().Duration != time.Minute {
		t.Errorf("top queue not restored: %+v", top.Queue())
	}

	// An empty stack clears the saved one
	if err := m.SaveStack(nil); err != nil {
		t.Fatalf("SaveStack(nil) failed: %v", err)
	}
	entries, _ = m.LoadStack()
	if entries != nil {
		t.Errorf("expected nil stack after clearing, got %+v", entries)
	}
}

func TestManager_DB(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	m := &Manager{db: db}
	if m.DB() != db {
		t.Error("DB() should return the underlying database")
	}
}

func TestMock(t *testing.T) {
	m := NewMock()
	_ = m.RecordView(streamInfo("https://example.com/a", "A"))
	_ = m.RecordView(streamInfo("https://example.com/a", "A"))
	if len(m.Views()) != 1 || m.Views()[0].RepeatCount != 2 {
		t.Errorf("Views() = %+v", m.Views())
	}

	m.SetRecordError(errors.New("locked"))
	if err := m.RecordView(streamInfo("https://example.com/b", "B")); err == nil {
		t.Error("RecordView should return the configured error")
	}

	_ = m.SaveResumePosition(0, "u", time.Second)
	if pos, _ := m.ResumePosition(0, "u"); pos != time.Second {
		t.Errorf("ResumePosition = %v, want 1s", pos)
	}

	_ = m.Close()
	if !m.IsClosed() {
		t.Error("IsClosed() = false after Close")
	}
}

func TestManager_NoteResumePosition(t *testing.T) {
	m := newTestManager(t, time.Now())
	const url = "https://example.com/a"

	m.NoteResumePosition(0, url, 10*time.Second)
	m.NoteResumePosition(0, url, 12*time.Second)

	pos, err := m.ResumePosition(0, url)
	if err != nil {
		t.Fatalf("ResumePosition failed: %v", err)
	}
	if pos != 12*time.Second {
		t.Errorf("pending ResumePosition = %v, want 12s", pos)
	}
	if stored, _ := resumePosition(m.db, 0, url); stored != 0 {
		t.Errorf("position written before flush: %v", stored)
	}

	if err := m.flush(); err != nil {
		t.Fatalf("flush failed: %v", err)
	}
	if stored, _ := resumePosition(m.db, 0, url); stored != 12*time.Second {
		t.Errorf("stored position = %v, want 12s", stored)
	}
}

func TestManager_FlushWritesTabAndPositionsTogether(t *testing.T) {
	m := newTestManager(t, time.Now())

	m.SaveSelectedTab("comments")
	m.NoteResumePosition(0, "https://example.com/a", time.Minute)
	m.NoteResumePosition(1, "https://example.com/b", 2*time.Minute)

	if err := m.flush(); err != nil {
		t.Fatalf("flush failed: %v", err)
	}
	if tab, _ := getSelectedTab(m.db); tab != "comments" {
		t.Errorf("stored tab = %q, want comments", tab)
	}
	if pos, _ := resumePosition(m.db, 1, "https://example.com/b"); pos != 2*time.Minute {
		t.Errorf("stored position b = %v, want 2m", pos)
	}
	m.saveMu.Lock()
	left := !m.pending.empty()
	m.saveMu.Unlock()
	if left {
		t.Error("pending writes left after flush")
	}
}

func TestManager_SaveResumePositionReplacesPending(t *testing.T) {
	m := newTestManager(t, time.Now())
	const url = "https://example.com/a"

	m.NoteResumePosition(0, url, 30*time.Second)
	if err := m.SaveResumePosition(0, url, 45*time.Second); err != nil {
		t.Fatalf("SaveResumePosition failed: %v", err)
	}
	if err := m.flush(); err != nil {
		t.Fatalf("flush failed: %v", err)
	}

	if pos, _ := m.ResumePosition(0, url); pos != 45*time.Second {
		t.Errorf("ResumePosition = %v, want 45s", pos)
	}
}

func TestManager_ClearHistoryDropsPendingPositions(t *testing.T) {
	m := newTestManager(t, time.Now())
	const url = "https://example.com/a"

	m.NoteResumePosition(0, url, 30*time.Second)
	if err := m.ClearHistory(); err != nil {
		t.Fatalf("ClearHistory failed: %v", err)
	}
	if err := m.flush(); err != nil {
		t.Fatalf("flush failed: %v", err)
	}

	if pos, _ := m.ResumePosition(0, url); pos != 0 {
		t.Errorf("ResumePosition after clear = %v, want 0", pos)
	}
}

func TestManager_CloseFlushesPendingPosition(t *testing.T) {
	path := t.TempDir() + "/reel.db"

	m, err := OpenPath(path)
	if err != nil {
		t.Fatalf("OpenPath failed: %v", err)
	}
	m.NoteResumePosition(0, "https://example.com/a", 90*time.Second)
	if err := m.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	m, err = OpenPath(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer m.Close()

	if pos, _ := m.ResumePosition(0, "https://example.com/a"); pos != 90*time.Second {
		t.Errorf("ResumePosition after reopen = %v, want 90s", pos)
	}
}
