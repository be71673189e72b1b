package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/ruteri/medusa-provisioning/cmd/flags"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeBackendScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "backend.sh")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755))
	return path
}

// lockedBuffer is shared by the logger and the backend's output copier.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func run(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr lockedBuffer
	err := newApp(&stdout, &stderr).RunContext(context.Background(), append([]string{"startup-with-key"}, args...))
	return flags.ExitCode(err), stdout.String(), stderr.String()
}

func setEnv(t *testing.T) {
	t.Helper()
	t.Setenv("BACKEND_PUBLIC_URL", "http://127.0.0.1:1")
	t.Setenv("MEDUSA_ADMIN_EMAIL", "admin@shop.example")
	t.Setenv("MEDUSA_ADMIN_PASSWORD", "s3cret")
	t.Setenv("VAULT_ADDR", "")
	t.Setenv("STATUS_ADDR", "")
	t.Setenv("PREFLIGHT", "")
}

func TestStartup_PropagatesBackendExitCode(t *testing.T) {
	setEnv(t)
	t.Setenv("BACKEND_COMMAND", writeBackendScript(t, "echo backend-started; exit 3"))

	code, stdout, _ := run(t)

	assert.Equal(t, 3, code)
	assert.Contains(t, stdout, "backend-started")
}

func TestStartup_BackendAndLoggerShareStderr(t *testing.T) {
	setEnv(t)
	t.Setenv("LOG_DEBUG", "true")
	t.Setenv("BACKEND_COMMAND", writeBackendScript(t, "for i in 1 2 3 4 5; do echo backend-log-$i >&2; done; exit 0"))

	code, _, stderr := run(t)

	assert.Equal(t, 0, code)
	assert.Contains(t, stderr, "backend-log-5")
	assert.Contains(t, stderr, "Backend process started")
}

func TestStartup_CleanBackendExit(t *testing.T) {
	setEnv(t)
	t.Setenv("BACKEND_COMMAND", writeBackendScript(t, "exit 0"))

	code, _, _ := run(t)
	assert.Equal(t, 0, code)
}

func TestStartup_MissingBackendURL(t *testing.T) {
	setEnv(t)
	t.Setenv("BACKEND_PUBLIC_URL", "")
	marker := filepath.Join(t.TempDir(), "started")
	t.Setenv("BACKEND_COMMAND", writeBackendScript(t, "touch "+marker))

	code, _, stderr := run(t)

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "BACKEND_PUBLIC_URL environment variable is required")
	assert.NoFileExists(t, marker)
}

func TestStartup_BackendCommandNotFound(t *testing.T) {
	setEnv(t)
	t.Setenv("BACKEND_COMMAND", filepath.Join(t.TempDir(), "missing"))

	code, _, stderr := run(t)

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "failed to start backend")
}
