package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/ruteri/medusa-provisioning/cmd/flags"
	"github.com/ruteri/medusa-provisioning/config"
	"github.com/ruteri/medusa-provisioning/preflight"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func run(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := newApp(&stdout, &stderr).RunContext(context.Background(), append([]string{"medusa-config"}, args...))
	return flags.ExitCode(err), stdout.String(), stderr.String()
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"DATABASE_URL", "REDIS_URL", "MEDUSA_BACKEND_URL", "MINIO_PLUGIN_ENABLED", "BACKEND_PUBLIC_URL"} {
		t.Setenv(key, "")
	}
}

func TestRender_DefaultJSON(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://medusa:pw@db:5432/medusa")
	t.Setenv("REDIS_URL", "redis://cache:6379")

	code, stdout, _ := run(t, "--env-dir", t.TempDir())
	require.Equal(t, 0, code)

	var cfg config.StartupConfig
	require.NoError(t, json.Unmarshal([]byte(stdout), &cfg))
	assert.Equal(t, "postgres://medusa:pw@db:5432/medusa", cfg.ProjectConfig.Database.URL)
	assert.Equal(t, "redis://cache:6379", cfg.ProjectConfig.RedisURL)
	assert.Equal(t, "disable", cfg.ProjectConfig.DatabaseDriverOptions.SSLMode)
	assert.Empty(t, cfg.Plugins)
}

func TestRender_YAMLFromEnvFile(t *testing.T) {
	clearEnv(t)
	os.Unsetenv("MEDUSA_BACKEND_URL")
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.staging"), []byte("MEDUSA_BACKEND_URL=https://staging.shop.example\n"), 0o644))

	code, stdout, _ := run(t, "--env-dir", dir, "--node-env", "staging", "render", "--format", "yaml")
	require.Equal(t, 0, code)

	var cfg config.StartupConfig
	require.NoError(t, yaml.Unmarshal([]byte(stdout), &cfg))
	assert.Equal(t, "https://staging.shop.example", cfg.Admin.BackendURL)
}

func TestRender_UnknownFormat(t *testing.T) {
	clearEnv(t)
	code, _, stderr := run(t, "--env-dir", t.TempDir(), "render", "--format", "toml")

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "toml")
}

func TestCheck_NothingConfigured(t *testing.T) {
	clearEnv(t)
	code, stdout, _ := run(t, "--env-dir", t.TempDir(), "check")
	require.Equal(t, 0, code)

	var report preflight.Report
	require.NoError(t, json.Unmarshal([]byte(stdout), &report))
	assert.True(t, report.OK)
	assert.Len(t, report.Results, 4)
}

func TestCheck_FailingProbe(t *testing.T) {
	clearEnv(t)
	t.Setenv("REDIS_URL", "redis://127.0.0.1:1")

	code, stdout, _ := run(t, "--env-dir", t.TempDir(), "check", "--timeout", "2s")
	require.Equal(t, 1, code)

	var report preflight.Report
	require.NoError(t, json.Unmarshal([]byte(stdout), &report))
	assert.False(t, report.OK)
	require.Len(t, report.Failed(), 1)
	assert.Equal(t, "cache", report.Failed()[0].Name)
}
