package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	// Flag values outlive a single Execute.
	require.NoError(t, rootCmd.PersistentFlags().Set("config", ""))
	out := &bytes.Buffer{}
	rootCmd.SetOut(out)
	rootCmd.SetErr(out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "hornbill version "))
}

func TestValidateCommand(t *testing.T) {
	out, err := execute(t, "", "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "Catalog is valid: 26 destinations")

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("destinations:\n  - id: kohima\n  - id: kohima\n"), 0o600))
	_, err = execute(t, "", "validate", "--catalog", bad)
	assert.ErrorContains(t, err, "validation failed")
}

func TestPlanSessionGraph(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "hornbill.yaml")
	body := fmt.Sprintf("store:\n  driver: file\n  path: %s\nlog:\n  level: error\n", filepath.Join(dir, "sessions"))
	require.NoError(t, os.WriteFile(cfg, []byte(body), 0o600))

	out, err := execute(t, "dates quick 3\nnext\nquit\n", "plan", "--config", cfg, "--quiet", "--session", "t1")
	require.NoError(t, err)
	assert.Contains(t, out, "Session t1 started")
	assert.Contains(t, out, "Progress saved")

	out, err = execute(t, "", "session", "ls", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "- t1 (step 2 Select Places")

	out, err = execute(t, "", "graph", "--config", cfg, "--session", "t1")
	require.NoError(t, err)
	assert.Contains(t, out, "class dates visited;")
	assert.Contains(t, out, "class destinations current;")

	out, err = execute(t, "", "session", "rm", "--config", cfg, "t1")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed session 't1'")

	_, err = execute(t, "", "session", "inspect", "--config", cfg, "t1")
	assert.ErrorContains(t, err, "session not found")
}

func TestCatalogCommand(t *testing.T) {
	t.Setenv("HORNBILL_STORE_DRIVER", "memory")
	out, err := execute(t, "", "catalog", "--raw", "--category", "Nature")
	require.NoError(t, err)
	assert.Contains(t, out, "Dzükou Valley")
}
