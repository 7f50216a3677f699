package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePolicy = `
General {
    log_file "/var/log/policyd.log"
    verbose #true
}

FileClass id="hot" {
    definition {
        last_access op="<" "1h"
    }
}

Migration_Policy id="archive_hot" {
    target_fileclass {
        hot
    }
    condition {
        status op="==" "new"
    }
}
`

func writeSamplePolicy(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "policy.kdl")
	require.NoError(t, os.WriteFile(path, []byte(samplePolicy), 0o644))
	return path
}

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &out
	err := app.Run(append([]string{"policyd"}, args...))
	return out.String(), err
}

func TestValidateCommandAcceptsWellFormedPolicy(t *testing.T) {
	path := writeSamplePolicy(t)
	out, err := runApp(t, "--config", path, "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "configuration OK")
}

func TestValidateCommandRejectsMissingLogFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "policy.kdl")
	require.NoError(t, os.WriteFile(path, []byte("General {}"), 0o644))

	_, err := runApp(t, "--config", path, "validate")
	require.Error(t, err)
}

func TestTemplateCommandWritesEveryModuleSection(t *testing.T) {
	out, err := runApp(t, "template")
	require.NoError(t, err)
	assert.Contains(t, out, "configuration file template")
	assert.Contains(t, out, "# General configuration")
}

func TestDefaultsCommandWritesGeneralDefaults(t *testing.T) {
	out, err := runApp(t, "defaults")
	require.NoError(t, err)
	assert.Contains(t, out, "log_file")
}

func TestExplainCommandReportsFileClassAndRule(t *testing.T) {
	path := writeSamplePolicy(t)
	out, err := runApp(t, "--config", path, "explain")
	require.NoError(t, err)
	assert.Contains(t, out, "hot")
	assert.Contains(t, out, "archive_hot")
}
