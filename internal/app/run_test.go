package app

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/cellgridgo/internal/testutil"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// TestApp_Run_EndToEnd verifies a mixed cell file compiles, invokes every
// node in order, and routes diagnostics to the configured writer.
func TestApp_Run_EndToEnd(t *testing.T) {
	t.Parallel()

	// Arrange
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{
			"id": "cmpl-1",
			"choices": [{"index": 0, "message": {"content": "a short poem"}}]
		}`))
	}))
	defer server.Close()

	dir := t.TempDir()
	writeFile(t, dir, "grid.hcl", `
cell "code" "greeter" {
  language = "javascript"
  source   = "console.log('hello from the grid'); var greeted = true;"
}

cell "prompt" "poet" {
  template = "Write a poem about {{topic}}."
}

cell "code" "sandboxed" {
  language = "starlark"
  source   = "x = 1"
}
`)
	configPath := writeFile(t, dir, "engine.hcl", fmt.Sprintf(`
provider "openai" {
  base_url = %q
}
`, server.URL))

	out := &testutil.SafeBuffer{}
	appConfig, err := NewConfig(Config{CellsPath: dir, ConfigPath: configPath, LogLevel: "debug"})
	require.NoError(t, err)
	application, err := NewApp(out, appConfig)
	require.NoError(t, err)

	// Act
	err = application.Run(context.Background(), appConfig)

	// Assert
	require.NoError(t, err)
	assert.Contains(t, out.String(), "hello from the grid")
	assert.Contains(t, out.String(), "Run finished")
}

// TestApp_Run_BackendFailureDoesNotStopTheRun verifies a failing cell is
// reported while later cells still execute.
func TestApp_Run_BackendFailureDoesNotStopTheRun(t *testing.T) {
	t.Parallel()

	// Arrange
	dir := t.TempDir()
	writeFile(t, dir, "grid.hcl", `
cell "code" "crashes" {
  language = "javascript"
  source   = "notDefinedAnywhere();"
}

cell "code" "survivor" {
  language = "javascript"
  source   = "console.log('still running');"
}
`)
	out := &testutil.SafeBuffer{}
	appConfig, err := NewConfig(Config{CellsPath: dir})
	require.NoError(t, err)
	application, err := NewApp(out, appConfig)
	require.NoError(t, err)

	// Act
	err = application.Run(context.Background(), appConfig)

	// Assert
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Cell invocation failed")
	assert.Contains(t, out.String(), "still running")
}

// TestApp_Run_UnsatisfiableCellStopsTheRun verifies a compile-time contract
// violation aborts the whole run.
func TestApp_Run_UnsatisfiableCellStopsTheRun(t *testing.T) {
	t.Parallel()

	// Arrange
	dir := t.TempDir()
	writeFile(t, dir, "grid.hcl", `
cell "code_gen" "broken" {
  function_invocation = true
  body                = "Generate something."
}
`)
	out := &testutil.SafeBuffer{}
	appConfig, err := NewConfig(Config{CellsPath: dir})
	require.NoError(t, err)
	application, err := NewApp(out, appConfig)
	require.NoError(t, err)

	// Act
	err = application.Run(context.Background(), appConfig)

	// Assert
	require.Error(t, err)
	assert.Contains(t, err.Error(), "function")
}

// TestApp_Run_EmptyDirectoryIsANoOp verifies a path without cell files just
// warns.
func TestApp_Run_EmptyDirectoryIsANoOp(t *testing.T) {
	t.Parallel()

	// Arrange
	out := &testutil.SafeBuffer{}
	appConfig, err := NewConfig(Config{CellsPath: t.TempDir()})
	require.NoError(t, err)
	application, err := NewApp(out, appConfig)
	require.NoError(t, err)

	// Act
	err = application.Run(context.Background(), appConfig)

	// Assert
	require.NoError(t, err)
	assert.Contains(t, out.String(), "No cell files found")
}

// TestNewConfig_RequiresCellsPath verifies the application configuration
// contract.
func TestNewConfig_RequiresCellsPath(t *testing.T) {
	t.Parallel()

	// Act
	_, err := NewConfig(Config{})

	// Assert
	assert.Error(t, err)
}
