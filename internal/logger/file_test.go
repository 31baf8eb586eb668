package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/harrison/pathfind/internal/models"
)

func newTestFileLogger(t *testing.T, dir string) (*FileLogger, string) {
	t.Helper()
	runID := uuid.NewString()
	fl, err := NewFileLogger(dir, "debug", runID, []string{"pathfind", "lanes", "-t", "study", "-i", "My Study"})
	if err != nil {
		t.Fatalf("NewFileLogger() error = %v", err)
	}
	return fl, runID
}

// TestFileLogger_CreatesRunLogAndSymlink verifies the run file and latest.log link
func TestFileLogger_CreatesRunLogAndSymlink(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	fl, _ := newTestFileLogger(t, dir)
	defer fl.Close()

	if !strings.HasPrefix(filepath.Base(fl.RunFile()), "run-") || filepath.Ext(fl.RunFile()) != ".log" {
		t.Errorf("unexpected run file name %s", fl.RunFile())
	}

	target, err := os.Readlink(filepath.Join(dir, "latest.log"))
	if err != nil {
		t.Fatalf("latest.log is not a symlink: %v", err)
	}
	if target != filepath.Base(fl.RunFile()) {
		t.Errorf("latest.log -> %s, want %s", target, filepath.Base(fl.RunFile()))
	}
}

// TestFileLogger_ReplacesLatestSymlink verifies a stale latest.log is replaced
func TestFileLogger_ReplacesLatestSymlink(t *testing.T) {
	dir := t.TempDir()
	if err := os.Symlink("run-19700101-000000.log", filepath.Join(dir, "latest.log")); err != nil {
		t.Fatal(err)
	}

	fl, _ := newTestFileLogger(t, dir)
	defer fl.Close()

	target, err := os.Readlink(filepath.Join(dir, "latest.log"))
	if err != nil {
		t.Fatal(err)
	}
	if target == "run-19700101-000000.log" {
		t.Error("latest.log still points at the old run")
	}
}

func TestFileLogger_Content(t *testing.T) {
	dir := t.TempDir()
	fl, runID := newTestFileLogger(t, dir)

	fl.LogSourceStart("pathogen_prok_track")
	fl.LogSourceResult("pathogen_prok_track", 2, 2)
	fl.LogWarn("lane lane2 skipped")
	fl.LogSummary(models.RunSummary{
		Search: models.SearchRequest{Type: models.SearchStudy, ID: "My Study"},
		Source: "pathogen_prok_track",
		Paths:  2,
	})
	if err := fl.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	data, err := os.ReadFile(fl.RunFile())
	if err != nil {
		t.Fatal(err)
	}
	content := string(data)

	for _, want := range []string{
		"=== pathfind run log ===",
		"Run ID:     " + runID,
		"Command:    pathfind lanes -t study -i My Study",
		"Searching pathogen_prok_track",
		"pathogen_prok_track: 2 lanes, 2 paths",
		"[WARN] lane lane2 skipped",
		"=== Run Summary ===",
		"Paths: 2",
		"Completed at:",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("run log missing %q:\n%s", want, content)
		}
	}
}

func TestFileLogger_CloseTwice(t *testing.T) {
	fl, _ := newTestFileLogger(t, t.TempDir())
	if err := fl.Close(); err != nil {
		t.Fatal(err)
	}
	if err := fl.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	fl.LogInfo("after close is dropped")
}
