package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// inScriptDir switches into a fresh directory holding a datafile with the provided body.
// An empty body leaves the directory without a datafile.
func inScriptDir(t *testing.T, body string) string {
	t.Helper()

	dir := t.TempDir()
	if body != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, scriptName), []byte(body), 0o644))
	}

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		require.NoError(t, os.Chdir(wd))
	})

	return dir
}

func runCapture(args ...string) (string, string, int) {
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return stdout.String(), stderr.String(), code
}

func TestUsage(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "no arguments", args: []string{}},
		{name: "wrong file name", args: []string{"script.txt"}},
		{name: "too many arguments", args: []string{"datafile", "datafile"}},
		{name: "unknown flag", args: []string{"--frobnicate", "datafile"}},
		{name: "help", args: []string{"--help"}},
		{name: "short help with datafile", args: []string{"-h", "datafile"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inScriptDir(t, "alloc: 10\n")

			stdout, stderr, code := runCapture(tt.args...)
			require.Equal(t, 1, code)
			require.Empty(t, stdout)
			require.Equal(t, "Usage: fitsim datafile\n", stderr)
		})
	}
}

func TestRunScript(t *testing.T) {
	inScriptDir(t, "alloc: 10\nalloc: 40\ndealloc\nalloc: 20\n")

	stdout, stderr, code := runCapture("datafile")
	require.Equal(t, 0, code)
	require.Empty(t, stderr)
	require.Equal(t, "Allocated List:\n"+
		"Address: 0x10000020, Total Size: 32, Used Size: 20\n"+
		"Address: 0x10000000, Total Size: 32, Used Size: 10\n"+
		"\n"+
		"Free List:\n"+
		"\n", stdout)
}

func TestMissingDatafile(t *testing.T) {
	inScriptDir(t, "")

	stdout, stderr, code := runCapture("datafile")
	require.Equal(t, 0, code)
	require.Equal(t, "Could not open the file datafile\n", stderr)
	require.Equal(t, "Allocated List:\n\nFree List:\n\n", stdout)
}

func TestFatalDiagnostics(t *testing.T) {
	tests := []struct {
		name     string
		script   string
		args     []string
		wantLine string
	}{
		{
			name:     "oversize request",
			script:   "alloc: 10000\n",
			wantLine: "Chunk size exceeded maximum partition size\n",
		},
		{
			name:     "nothing to free",
			script:   "alloc: 10\ndealloc\ndealloc\n",
			wantLine: "No memory to deallocate\n",
		},
		{
			name:     "heap exhausted",
			script:   "alloc: 10\nalloc: 10\nalloc: 10\n",
			args:     []string{"--heap-limit", "64"},
			wantLine: "Failed to create new space\n",
		},
		{
			name:     "malformed line",
			script:   "alloc: many\n",
			wantLine: "Error: line 1: alloc: size \"many\" is not an integer: malformed command\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inScriptDir(t, tt.script)

			stdout, stderr, code := runCapture(append(tt.args, "datafile")...)
			require.Equal(t, 1, code)
			require.Empty(t, stdout)
			require.Equal(t, tt.wantLine, stderr)
		})
	}
}

func TestPartitionsFlag(t *testing.T) {
	inScriptDir(t, "alloc: 10\nalloc: 100\n")

	stdout, _, code := runCapture("--partitions", "16,128", "datafile")
	require.Equal(t, 0, code)
	require.Contains(t, stdout, "Address: 0x10000010, Total Size: 128, Used Size: 100\n")
	require.Contains(t, stdout, "Address: 0x10000000, Total Size: 16, Used Size: 10\n")

	_, stderr, code := runCapture("--partitions", "64,32", "datafile")
	require.Equal(t, 1, code)
	require.True(t, strings.HasPrefix(stderr, "Error: "))
}

func TestConfigFile(t *testing.T) {
	dir := inScriptDir(t, "alloc: 10\n")
	configPath := filepath.Join(dir, "fitsim.json")
	require.NoError(t, os.WriteFile(configPath, []byte(`{"partitions": [8, 24], "heap": {"base": 4096}}`), 0o644))

	stdout, _, code := runCapture("--config", configPath, "datafile")
	require.Equal(t, 0, code)
	require.Contains(t, stdout, "Address: 0x1000, Total Size: 24, Used Size: 10\n")

	// flags override the file
	stdout, _, code = runCapture("--config", configPath, "--partitions", "12", "datafile")
	require.Equal(t, 0, code)
	require.Contains(t, stdout, "Address: 0x1000, Total Size: 12, Used Size: 10\n")
}

func TestJSONAndStats(t *testing.T) {
	inScriptDir(t, "alloc: 10\nalloc: 40\ndealloc\n")

	stdout, _, code := runCapture("--json", "datafile")
	require.Equal(t, 0, code)

	var dump map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &dump))
	require.Equal(t, float64(1), dump["Allocations"])

	stdout, _, code = runCapture("--stats", "datafile")
	require.Equal(t, 0, code)
	require.True(t, strings.HasSuffix(stdout, "1 allocated (32 B, 10 B requested), 1 free (64 B), 96 B grown, 22 B lost to rounding\n"))
}

func TestVerboseLogsToStderr(t *testing.T) {
	inScriptDir(t, "alloc: 10\n")

	_, stderr, code := runCapture("-v", "datafile")
	require.Equal(t, 0, code)
	require.Contains(t, stderr, "Allocator::Allocate grew heap")
}
