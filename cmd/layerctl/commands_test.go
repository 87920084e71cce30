package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dbSqlite "github.com/kailas-cloud/layersearch/internal/db/sqlite"
)

func setupWorkspace(t *testing.T) (configPath, dir string) {
	t.Helper()
	dir = t.TempDir()
	dbPath := filepath.Join(dir, "layers.db")

	s, err := dbSqlite.NewStore(dbSqlite.Config{Path: dbPath})
	require.NoError(t, err)
	ctx := context.Background()
	for _, stmt := range []string{
		`CREATE TABLE parks (name TEXT, area REAL, geometry TEXT)`,
		`INSERT INTO parks VALUES ('Oak Park', 12.5, NULL), ('Pine Hill', 150, NULL), ('Old Oak', 2, NULL)`,
	} {
		require.NoError(t, s.Exec(ctx, stmt))
	}
	require.NoError(t, s.Close())

	configPath = filepath.Join(dir, "test.yaml")
	yaml := "http:\n  port: 8080\ndatabase:\n  path: " + dbPath + "\n" +
		"catalog:\n  - region: 0\n    title: Green\n    layers:\n      - layer: 0\n        title: Parks\n        table: parks\n"
	require.NoError(t, os.WriteFile(configPath, []byte(yaml), 0o600))
	return configPath, dir
}

func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err = rootCmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestCommands(t *testing.T) {
	color.NoColor = true
	configPath, dir := setupWorkspace(t)

	out, _, err := execute(t, "layers", "--config", configPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Green [region:0]")
	assert.Contains(t, out, "  Parks [layer:0] table=parks")

	out, _, err = execute(t, "search", "--config", configPath, "--scope", "region:Green",
		"-w", "name contains oak", "--size", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "2 matches in 1 layers")
	assert.Contains(t, out, "Page 1/2 (2 visible)")
	assert.Contains(t, out, "[Parks] area=12.5 name=Oak Park")

	out, _, err = execute(t, "values", "--config", configPath, "-f", "name", "--cap", "2")
	require.NoError(t, err)
	assert.Equal(t, []string{"Oak Park", "Old Oak"}, strings.Split(strings.TrimSpace(out), "\n"))

	csvPath := filepath.Join(dir, "out.csv")
	_, errOut, err := execute(t, "export", "--config", configPath, "-w", "area greater 10",
		"--title", "Big parks", "-o", csvPath)
	require.NoError(t, err)
	assert.Contains(t, errOut, "wrote 2 records")
	data, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "\uFEFFTitle: Big parks\r\n"))
	assert.Contains(t, string(data), "Layer: Parks\r\n")
	assert.Contains(t, string(data), `"150","Pine Hill"`)

	out, _, err = execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "layerctl dev")
}

func TestCommands_Errors(t *testing.T) {
	color.NoColor = true
	configPath, _ := setupWorkspace(t)

	_, _, err := execute(t, "values", "--config", configPath, "--scope", "planet:Mars", "-f", "name")
	require.Error(t, err)

	_, _, err = execute(t, "layers", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
