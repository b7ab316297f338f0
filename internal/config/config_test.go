package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, 900, cfg.JWT.ExpiresIn)
	assert.Equal(t, int64(10<<20), cfg.Media.MaxImageSize)
	assert.Equal(t, 499.00, cfg.Payment.ListingFee)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoad_YAMLWithEnvExpansion(t *testing.T) {
	t.Setenv("TEST_DB_PASS", "s3cret")
	path := writeFile(t, t.TempDir(), "config.yaml", `
server:
  port: 9090
  env: production
database:
  driver: postgres
  host: db
  port: 5432
  user: app
  password: ${TEST_DB_PASS}
  dbname: estate
  sslmode: disable
jwt:
  secret: prod-secret
kafka:
  enabled: true
  brokers: ["k1:9092", "k2:9092"]
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, "s3cret", cfg.Database.Password)
	assert.Equal(t, "host=db port=5432 user=app password=s3cret dbname=estate sslmode=disable", cfg.Database.GetDSN())
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	// untouched sections keep defaults
	assert.Equal(t, []string{".mp4", ".webm"}, cfg.Media.VideoExtensions)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_PATH", "/tmp/x.db")
	t.Setenv("KAFKA_BROKERS", "a:1, b:2 ,")
	t.Setenv("RAZORPAY_KEY_ID", "rzp_test")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "/tmp/x.db", cfg.Database.GetDSN())
	assert.Equal(t, []string{"a:1", "b:2"}, cfg.Kafka.Brokers)
	assert.Equal(t, "rzp_test", cfg.Payment.KeyID)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Database.Driver = "oracle"
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Server.Env = "production"
	assert.Error(t, cfg.Validate(), "default secret outside development")

	cfg.JWT.Secret = "real"
	assert.NoError(t, cfg.Validate())
}

func TestLoadDotEnv_DoesNotOverrideProcessEnv(t *testing.T) {
	dir := t.TempDir()
	f := writeFile(t, dir, ".env", "ESTATEHUB_TEST_A=from-file\nESTATEHUB_TEST_B=from-file\n")
	t.Setenv("ESTATEHUB_TEST_A", "from-env")
	t.Cleanup(func() { os.Unsetenv("ESTATEHUB_TEST_B") })

	loaded := LoadDotEnv(f, filepath.Join(dir, ".env.missing"))
	assert.Equal(t, []string{f}, loaded)
	assert.Equal(t, "from-env", os.Getenv("ESTATEHUB_TEST_A"))
	assert.Equal(t, "from-file", os.Getenv("ESTATEHUB_TEST_B"))
}

func TestConfigPath(t *testing.T) {
	t.Setenv("APP_ENV", "")
	assert.Equal(t, "configs/config.local.yaml", ConfigPath())

	t.Setenv("APP_ENV", "prod")
	assert.Equal(t, "configs/config.prod.yaml", ConfigPath())
}

func TestMediaMaxRequestBodyFollowsCeilings(t *testing.T) {
	m := Default().Media
	assert.Equal(t, m.MaxVideoSize+multipartOverhead, m.MaxRequestBody())

	m.MaxVideoSize = 500 << 20
	assert.Equal(t, int64(500<<20)+multipartOverhead, m.MaxRequestBody())

	m.MaxImageSize, m.MaxVideoSize = 20<<20, 10<<20
	assert.Equal(t, int64(20<<20)+multipartOverhead, m.MaxRequestBody())
}
