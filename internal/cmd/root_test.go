package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/harrison/pathfind/internal/catalog"
	"github.com/harrison/pathfind/internal/models"
)

// executeCommand runs the root command with args and returns stdout, stderr
// and the error returned by Execute.
func executeCommand(args ...string) (string, string, error) {
	root := NewRootCommand()
	out := new(bytes.Buffer)
	errOut := new(bytes.Buffer)
	root.SetOut(out)
	root.SetErr(errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), errOut.String(), err
}

// workspace is a temporary pathfind installation: a config file, a catalog
// directory and a data root laid out as <root>/<database>/<projectssid>/<lane>.
type workspace struct {
	dir    string
	config string
	data   string
}

func newWorkspace(t *testing.T) *workspace {
	t.Helper()
	dir := t.TempDir()
	ws := &workspace{
		dir:    dir,
		config: filepath.Join(dir, "config.yaml"),
		data:   filepath.Join(dir, "data"),
	}

	content := fmt.Sprintf(`root: %s/{database}
catalog_dir: catalogs
databases: [prok, euk]
hierarchy_template: "projectssid:lane"
log_level: error
lock_timeout: 5s
`, ws.data)
	require.NoError(t, os.WriteFile(ws.config, []byte(content), 0644))
	return ws
}

// addLane records lane in the database's catalog and creates its directory
// with the given files (names ending in "/" are directories).
func (ws *workspace) addLane(t *testing.T, database string, lane *models.Lane, files ...string) string {
	t.Helper()
	store, err := catalog.NewDirOpener(filepath.Join(ws.dir, "catalogs")).Create(context.Background(), database)
	require.NoError(t, err)
	defer store.Close()
	_, err = store.AddLane(context.Background(), lane)
	require.NoError(t, err)

	laneDir := filepath.Join(ws.data, database, lane.ProjectSSID, lane.Name)
	require.NoError(t, os.MkdirAll(laneDir, 0755))
	for _, f := range files {
		p := filepath.Join(laneDir, f)
		if strings.HasSuffix(f, "/") {
			require.NoError(t, os.MkdirAll(p, 0755))
			continue
		}
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, []byte(">c1\nACGT\n"), 0644))
	}
	return laneDir
}

func (ws *workspace) args(args ...string) []string {
	return append([]string{"--config", ws.config}, args...)
}

func TestRootCommand(t *testing.T) {
	out, _, err := executeCommand("--help")
	if err != nil {
		t.Fatalf("help returned error: %v", err)
	}

	if !strings.Contains(out, "pathfind") {
		t.Errorf("Help text should mention pathfind, got: %s", out)
	}
	for _, sub := range []string{"lanes", "assemblies", "catalog"} {
		if !strings.Contains(out, sub) {
			t.Errorf("Help text should list the %s command, got: %s", sub, out)
		}
	}
}

func TestRootCommandHasSubcommands(t *testing.T) {
	cmd := NewRootCommand()
	if cmd.Use != "pathfind" {
		t.Errorf("Expected Use to be 'pathfind', got '%s'", cmd.Use)
	}

	found := make(map[string]bool)
	for _, sub := range cmd.Commands() {
		found[sub.Name()] = true
	}
	for _, name := range []string{"lanes", "assemblies", "catalog"} {
		if !found[name] {
			t.Errorf("missing subcommand %q", name)
		}
	}
}

func TestRootCommandPersistentFlags(t *testing.T) {
	cmd := NewRootCommand()
	for _, name := range []string{"config", "root", "catalog-dir", "databases", "log-level", "log-dir", "archive-format"} {
		if cmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("missing persistent flag --%s", name)
		}
	}
}

func TestUnknownFlagIsUsageError(t *testing.T) {
	out, _, err := executeCommand("lanes", "--no-such-flag")
	if err == nil {
		t.Fatal("expected an error for an unknown flag")
	}
	if got := ExitCode(err); got != ExitUsage {
		t.Errorf("ExitCode = %d, want %d", got, ExitUsage)
	}
	if !strings.Contains(out, "Usage:") {
		t.Errorf("expected usage output, got: %s", out)
	}
}

func TestInvalidConfiguration(t *testing.T) {
	ws := newWorkspace(t)
	_, _, err := executeCommand(ws.args("--log-level", "loud", "lanes", "-t", "study", "-i", "607")...)
	if err == nil || !strings.Contains(err.Error(), "invalid configuration") {
		t.Fatalf("expected invalid configuration error, got %v", err)
	}
	if got := ExitCode(err); got != ExitFailure {
		t.Errorf("ExitCode = %d, want %d", got, ExitFailure)
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitOK},
		{"plain error", errors.New("boom"), ExitFailure},
		{"invalid input", models.InvalidInputf("bad"), ExitUsage},
		{"missing file", models.NewFileDoesNotExist("ids.txt", os.ErrNotExist), ExitUsage},
		{"no matches", models.NewNoMatches(models.SearchRequest{Type: models.SearchStudy, ID: "x"}), ExitNoMatches},
		{"catalog", models.NewCatalogError("prok", "cannot open catalog", nil), ExitFailure},
		{"link", models.NewLinkError("a", os.ErrExist), ExitFailure},
		{"archive", models.NewArchiveError("a.tar.gz", os.ErrPermission), ExitFailure},
		{"wrapped", fmt.Errorf("run: %w", models.NewNoMatches(models.SearchRequest{})), ExitNoMatches},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
