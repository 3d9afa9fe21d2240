package log

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/rs/zerolog"
)

// resetSession restores the package state once the test is over.
func resetSession(t *testing.T) {
	t.Helper()
	originalLoggingEnabled := loggingEnabled
	originalLogger := logger
	t.Cleanup(func() {
		loggingEnabled = originalLoggingEnabled
		logger = originalLogger
		currentSession = nil
	})
}

func TestLogSession(t *testing.T) {
	resetSession(t)
	loggingEnabled = true

	if err := StartSession("parse", []string{"a.txt", "b.txt"}); err != nil {
		t.Fatalf("StartSession() failed: %v", err)
	}
	if currentSession == nil {
		t.Fatal("StartSession() should have created a session")
	}

	want := []string{"parse", "a.txt", "b.txt"}
	if diff := cmp.Diff(want, currentSession.Metadata.CommandArgs); diff != "" {
		t.Errorf("CommandArgs mismatch (-want +got):\n%s", diff)
	}
	if currentSession.Metadata.SessionID == "" || currentSession.Metadata.WorkingDir == "" {
		t.Errorf("session metadata incomplete: %+v", currentSession.Metadata)
	}
}

func TestLogOperations(t *testing.T) {
	resetSession(t)
	loggingEnabled = true

	if err := StartSession("parse", nil); err != nil {
		t.Fatalf("StartSession() failed: %v", err)
	}

	LogParse("report.txt", "Movie.2014.1080p.BluRay.x264-GRP", nil)
	LogProbe("movie.mkv", "Movie.2014", nil)
	LogRender("report.txt", "Movie.2014", nil)
	LogForm("report.txt", "Movie.2014", nil)
	LogParse("broken.txt", "", errors.New("malformed metadata"))

	ops := currentSession.Operations
	if len(ops) != 5 {
		t.Fatalf("Expected 5 operations, got %d", len(ops))
	}

	expectedTypes := []OperationType{OpParse, OpProbe, OpRender, OpForm, OpParse}
	for i, op := range ops {
		if op.Type != expectedTypes[i] {
			t.Errorf("Operation %d: expected type %s, got %s", i, expectedTypes[i], op.Type)
		}
	}

	want := OperationLog{
		ID:      currentSession.Metadata.SessionID + "_4",
		Type:    OpParse,
		Source:  "broken.txt",
		Success: false,
		Error:   "malformed metadata",
	}
	if diff := cmp.Diff(want, ops[4], cmpopts.IgnoreFields(OperationLog{}, "Timestamp")); diff != "" {
		t.Errorf("failed operation mismatch (-want +got):\n%s", diff)
	}

	// Stats are normally computed by EndSession; run them directly so no
	// file is written
	updateStats()
	meta := currentSession.Metadata
	if meta.TotalOps != 5 || meta.SuccessfulOps != 4 || meta.FailedOps != 1 {
		t.Errorf("stats = %d/%d/%d, want 5/4/1", meta.TotalOps, meta.SuccessfulOps, meta.FailedOps)
	}
}

func TestSessionRoundTrip(t *testing.T) {
	resetSession(t)
	t.Setenv("HOME", t.TempDir())
	Initialize(true, 30, zerolog.Nop())

	if err := StartSession("form", []string{"report.txt"}); err != nil {
		t.Fatalf("StartSession() failed: %v", err)
	}
	LogForm("report.txt", "Show.S01E02", nil)
	if err := EndSession(); err != nil {
		t.Fatalf("EndSession() failed: %v", err)
	}
	if currentSession != nil {
		t.Error("EndSession() should clear the current session")
	}

	sessions, err := ReadSessions(0)
	if err != nil {
		t.Fatalf("ReadSessions() failed: %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("ReadSessions() returned %d sessions, want 1", len(sessions))
	}
	got := sessions[0]
	if got.Metadata.TotalOps != 1 || got.Metadata.SuccessfulOps != 1 {
		t.Errorf("stored stats = %+v", got.Metadata)
	}
	if len(got.Operations) != 1 || got.Operations[0].Release != "Show.S01E02" {
		t.Errorf("stored operations = %+v", got.Operations)
	}

	session, path, err := FindLatestSession()
	if err != nil {
		t.Fatalf("FindLatestSession() failed: %v", err)
	}
	if session.Metadata.SessionID != got.Metadata.SessionID || filepath.Ext(path) != ".json" {
		t.Errorf("FindLatestSession() = %s at %s", session.Metadata.SessionID, path)
	}
}

func TestEndSessionSkipsEmptySessions(t *testing.T) {
	resetSession(t)
	home := t.TempDir()
	t.Setenv("HOME", home)
	loggingEnabled = true

	if err := StartSession("parse", nil); err != nil {
		t.Fatalf("StartSession() failed: %v", err)
	}
	if err := EndSession(); err != nil {
		t.Fatalf("EndSession() failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(home, ".rlz-tidy", "logs")); !os.IsNotExist(err) {
		t.Errorf("an empty session should not create the log directory, stat err = %v", err)
	}
}

func TestLoggingDisabled(t *testing.T) {
	resetSession(t)
	Initialize(false, 30, zerolog.Nop())

	if loggingEnabled {
		t.Error("Logging should be disabled after Initialize(false, ...)")
	}
	if err := StartSession("parse", nil); err != nil {
		t.Fatalf("StartSession() failed: %v", err)
	}
	if currentSession != nil {
		t.Error("Session should not be created when logging is disabled")
	}

	// Operations should be no-ops
	LogParse("report.txt", "Movie", nil)
	if currentSession != nil {
		t.Error("Operations should not create session when logging disabled")
	}
	if err := EndSession(); err != nil {
		t.Errorf("EndSession() with logging disabled error = %v, want nil", err)
	}
}

func TestInitializeCleansOldSessions(t *testing.T) {
	resetSession(t)
	home := t.TempDir()
	t.Setenv("HOME", home)

	logDir := filepath.Join(home, ".rlz-tidy", "logs")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		t.Fatalf("Failed to create log dir: %v", err)
	}
	oldFile := filepath.Join(logDir, "2020-01-01_000000.000.json")
	newFile := filepath.Join(logDir, "2099-01-01_000000.000.json")
	for _, f := range []string{oldFile, newFile} {
		if err := os.WriteFile(f, []byte(`{}`), 0644); err != nil {
			t.Fatalf("Failed to write %s: %v", f, err)
		}
	}
	old := time.Now().AddDate(0, 0, -40)
	if err := os.Chtimes(oldFile, old, old); err != nil {
		t.Fatalf("Chtimes failed: %v", err)
	}

	Initialize(true, 30, zerolog.Nop())

	if _, err := os.Stat(oldFile); !os.IsNotExist(err) {
		t.Error("session older than the retention period should be removed")
	}
	if _, err := os.Stat(newFile); err != nil {
		t.Errorf("recent session should be kept: %v", err)
	}
}

func TestReadSessionsSkipsCorruptFiles(t *testing.T) {
	resetSession(t)
	home := t.TempDir()
	t.Setenv("HOME", home)

	logDir := filepath.Join(home, ".rlz-tidy", "logs")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		t.Fatalf("Failed to create log dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(logDir, "2024-01-01_000000.000.json"), []byte(`{"metadata":{"session_id":"ok"}}`), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(logDir, "2024-01-02_000000.000.json"), []byte(`{broken`), 0644); err != nil {
		t.Fatal(err)
	}

	sessions, err := ReadSessions(0)
	if err != nil {
		t.Fatalf("ReadSessions() failed: %v", err)
	}
	if len(sessions) != 1 || sessions[0].Metadata.SessionID != "ok" {
		t.Errorf("ReadSessions() = %+v, want the readable session only", sessions)
	}

	summaries, err := GetSessionSummaries()
	if err != nil {
		t.Fatalf("GetSessionSummaries() failed: %v", err)
	}
	if len(summaries) != 1 || summaries[0].Icon != "❓" {
		t.Errorf("GetSessionSummaries() = %+v", summaries)
	}
}

func TestNoSessions(t *testing.T) {
	resetSession(t)
	t.Setenv("HOME", t.TempDir())

	sessions, err := ReadSessions(5)
	if err != nil || len(sessions) != 0 {
		t.Errorf("ReadSessions() = %v, %v, want no sessions", sessions, err)
	}
	if _, _, err := FindLatestSession(); err == nil {
		t.Error("FindLatestSession() without sessions should fail")
	}
}

func TestFormatRelativeTime(t *testing.T) {
	now := time.Now()
	tests := []struct {
		at   time.Time
		want string
	}{
		{now, "just now"},
		{now.Add(-time.Minute - time.Second), "1 minute ago"},
		{now.Add(-5*time.Minute - time.Second), "5 minutes ago"},
		{now.Add(-2*time.Hour - time.Second), "2 hours ago"},
		{now.Add(-49 * time.Hour), "2 days ago"},
		{time.Date(2020, 3, 4, 0, 0, 0, 0, time.UTC), "Mar 4, 2020"},
	}
	for _, tc := range tests {
		if got := formatRelativeTime(tc.at); got != tc.want {
			t.Errorf("formatRelativeTime(%v) = %q, want %q", tc.at, got, tc.want)
		}
	}
}

func TestGetCommandIcon(t *testing.T) {
	tests := map[string]string{"parse": "📄", "form": "📋", "render": "📝", "name": "🏷️"}
	for command, want := range tests {
		if got := getCommandIcon([]string{command}); got != want {
			t.Errorf("getCommandIcon(%q) = %q, want %q", command, got, want)
		}
	}
	if got := getCommandIcon(nil); got != "❓" {
		t.Errorf("getCommandIcon(nil) = %q", got)
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	l, err := NewLogger(&buf, "WARN")
	if err != nil {
		t.Fatalf("NewLogger() error = %v", err)
	}
	l.Info().Msg("hidden")
	l.Warn().Str("release", "Movie.2014").Msg("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info message should be filtered at warn level: %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "Movie.2014") {
		t.Errorf("warn message missing from output: %q", out)
	}

	if l, err := NewLogger(&buf, ""); err != nil || l.GetLevel() != zerolog.InfoLevel {
		t.Errorf("NewLogger(\"\") = level %v, %v, want info", l.GetLevel(), err)
	}
	if _, err := NewLogger(&buf, "loud"); err == nil {
		t.Error("NewLogger() with an invalid level should fail")
	}
}
