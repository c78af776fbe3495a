package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/sdkorder/pkg/pipeline"
)

// isolate points the cache and config homes at temp directories and
// returns the cache home.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", home)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	return home
}

// runCLI executes the root command with args and returns what it wrote to
// stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	c := New(io.Discard, log.InfoLevel)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func stepIndex(rep pipeline.Report, file string) int {
	return slices.IndexFunc(rep.Steps, func(s pipeline.Step) bool { return s.File == file })
}

func TestOrderCommand_JSON(t *testing.T) {
	isolate(t)
	out, err := runCLI(t, "order", "testdata/sdk.yaml", "--no-cache", "--format", "json")
	require.NoError(t, err)

	var rep pipeline.Report
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.Len(t, rep.Steps, 8, "every package appears once per kind")
	assert.Equal(t, []pipeline.Collision{{Name: "Engine", Count: 2}}, rep.Collisions)

	core := stepIndex(rep, "Core_classes.hpp")
	engine := stepIndex(rep, "Engine_classes.hpp")
	require.NotEqual(t, -1, core)
	require.NotEqual(t, -1, engine)
	assert.Less(t, core, engine, "required classes come first")
	assert.Less(t, stepIndex(rep, "Core_structs.hpp"), engine)
}

func TestOrderCommand_Text(t *testing.T) {
	isolate(t)
	out, err := runCLI(t, "order", "testdata/sdk.yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "Engine_classes.hpp")
	assert.Contains(t, out, "Engine_1")
	assert.Contains(t, out, "8 steps")
	assert.Contains(t, out, "fresh")

	out, err = runCLI(t, "order", "testdata/sdk.yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "cached")

	out, err = runCLI(t, "order", "testdata/sdk.yaml", "--refresh")
	require.NoError(t, err)
	assert.Contains(t, out, "fresh")
}

func TestOrderCommand_Output(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "report.yaml")
	out, err := runCLI(t, "order", "testdata/sdk.yaml", "--no-cache", "-o", path)
	require.NoError(t, err)
	assert.Contains(t, out, path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "steps:")
	assert.Contains(t, string(data), "unique_name: Engine_1")
}

func TestOrderCommand_Errors(t *testing.T) {
	isolate(t)
	_, err := runCLI(t, "order", "testdata/missing.yaml", "--no-cache")
	assert.Error(t, err)

	_, err = runCLI(t, "order", "testdata/sdk.yaml", "--no-cache", "--format", "xml")
	assert.Error(t, err)

	_, err = runCLI(t, "order")
	assert.Error(t, err, "manifest argument is required")
}

func TestCyclesCommand(t *testing.T) {
	isolate(t)
	out, err := runCLI(t, "cycles", "testdata/cycle.yaml", "--no-cache")
	require.NoError(t, err)
	assert.Contains(t, out, "A -> B -> A (structs)")
	assert.Contains(t, out, "A -> B -> A (classes)")

	_, err = runCLI(t, "cycles", "testdata/cycle.yaml", "--no-cache", "--strict")
	var found errCyclesFound
	require.True(t, errors.As(err, &found))
	assert.Equal(t, errCyclesFound(2), found)

	_, err = runCLI(t, "cycles", "testdata/cycle.yaml", "--no-cache", "--strict", "--stop-at-first")
	require.True(t, errors.As(err, &found))
	assert.Equal(t, errCyclesFound(1), found)

	out, err = runCLI(t, "cycles", "testdata/sdk.yaml", "--no-cache", "--strict")
	require.NoError(t, err)
	assert.Contains(t, out, "No requirement cycles")
}

func TestNamesCommand(t *testing.T) {
	isolate(t)
	out, err := runCLI(t, "names", "testdata/sdk.yaml", "--no-cache")
	require.NoError(t, err)
	assert.Contains(t, out, "Game")
	assert.Contains(t, out, "Engine_1")
	assert.Contains(t, out, "Engine is shared by 2 packages")

	out, err = runCLI(t, "names", "testdata/sdk.yaml", "--no-cache", "--collisions")
	require.NoError(t, err)
	assert.NotContains(t, out, "Game")
	assert.Contains(t, out, "Engine_1")

	out, err = runCLI(t, "names", "testdata/cycle.yaml", "--no-cache", "--collisions")
	require.NoError(t, err)
	assert.Contains(t, out, "No name collisions")
}

func TestRenderCommand(t *testing.T) {
	isolate(t)
	out, err := runCLI(t, "render", "testdata/sdk.yaml", "--params")
	require.NoError(t, err)
	assert.Contains(t, out, "digraph G {")
	assert.Contains(t, out, `"p1" -> "p2" [color=firebrick, label="structs+classes"];`)
	assert.Contains(t, out, `"p0" -> "p2" [color=gray50, style=dotted, label="structs"];`)

	path := filepath.Join(t.TempDir(), "graph.svg")
	_, err = runCLI(t, "render", "testdata/sdk.yaml", "-o", path)
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<svg")

	_, err = runCLI(t, "render", "testdata/sdk.yaml", "--format", "pdf")
	assert.Error(t, err)
}

func TestResolveRenderFormat(t *testing.T) {
	tests := []struct {
		format, output string
		want           string
		wantErr        bool
	}{
		{"", "", formatDOT, false},
		{"", "graph.svg", formatSVG, false},
		{"", "graph.SVG", formatSVG, false},
		{"", "graph.gv", formatDOT, false},
		{"dot", "graph.svg", formatDOT, false},
		{"", "graph.png", "", true},
		{"pdf", "", "", true},
	}
	for _, tt := range tests {
		got, err := resolveRenderFormat(tt.format, tt.output)
		if tt.wantErr {
			assert.Error(t, err, "%q %q", tt.format, tt.output)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "%q %q", tt.format, tt.output)
	}
}

func TestCacheCommands(t *testing.T) {
	cacheHome := isolate(t)
	out, err := runCLI(t, "cache", "path")
	require.NoError(t, err)
	dir := filepath.Join(cacheHome, appName)
	assert.Equal(t, dir+"\n", out)

	out, err = runCLI(t, "cache", "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "Cache is empty")

	_, err = runCLI(t, "order", "testdata/sdk.yaml")
	require.NoError(t, err)
	_, err = runCLI(t, "order", "testdata/cycle.yaml")
	require.NoError(t, err)

	out, err = runCLI(t, "cache", "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "Cleared 2 cached reports")
}

func TestCompletionCommand(t *testing.T) {
	isolate(t)
	out, err := runCLI(t, "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, appName)

	_, err = runCLI(t, "completion", "tcsh")
	assert.Error(t, err)
}
