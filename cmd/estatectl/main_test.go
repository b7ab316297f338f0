package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/estatehub/estatehub-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T) string {
	t.Helper()
	t.Setenv("APP_ENV", "test")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("DB_PATH", "")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.test.yaml")
	content := "database:\n  driver: sqlite\n  path: " + filepath.Join(dir, "estatehub.db") + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCreateAdminIsIdempotent(t *testing.T) {
	cfg := writeConfig(t)

	out, err := run(t, "create-admin", "-c", cfg, "--email", "ops@example.com", "--password", "s3cure-pass")
	require.NoError(t, err)
	assert.Contains(t, out, "admin ops@example.com created")

	out, err = run(t, "create-admin", "-c", cfg, "--email", "ops@example.com", "--password", "other-pass")
	require.NoError(t, err)
	assert.Contains(t, out, "already exists")
}

func TestCreateAdminRejectsShortPassword(t *testing.T) {
	cfg := writeConfig(t)
	t.Setenv("ADMIN_PASSWORD", "")

	_, err := run(t, "create-admin", "-c", cfg, "--email", "ops@example.com", "--password", "short")
	assert.Error(t, err)
}

func TestCreateAdminRequiresEmail(t *testing.T) {
	cfg := writeConfig(t)

	_, err := run(t, "create-admin", "-c", cfg)
	assert.Error(t, err)
}

func TestMigrateThenStats(t *testing.T) {
	cfg := writeConfig(t)

	out, err := run(t, "migrate", "-c", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "schema up to date")

	_, err = run(t, "create-admin", "-c", cfg, "--email", "ops@example.com", "--password", "s3cure-pass")
	require.NoError(t, err)

	out, err = run(t, "stats", "-c", cfg)
	require.NoError(t, err)

	var stats domain.DashboardStats
	require.NoError(t, json.Unmarshal([]byte(out), &stats))
	assert.Equal(t, int64(1), stats.TotalUsers)
	assert.Zero(t, stats.TotalListings)
}
