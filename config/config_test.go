package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hupe1980/easystore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
default: s3
log_errors: true
throw_errors: false
log:
  level: debug
  format: json
disks:
  local:
    driver: local
    root: /var/lib/easystore
    url: https://files.example.com
  s3:
    driver: s3
    key: ${TEST_AWS_KEY}
    secret: ${TEST_AWS_SECRET}
    region: eu-central-1
    bucket: ${TEST_AWS_BUCKET}
  google:
    driver: gcs
    key: GOOG1E
    secret: hmac-secret
    bucket: assets
`

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "local", cfg.Default)
	assert.False(t, cfg.LogErrors)
	assert.False(t, cfg.ThrowErrors)
	assert.Equal(t, DiskConfig{Driver: DriverLocal, Root: "storage/app"}, cfg.Disks["local"])
	require.NoError(t, cfg.Validate())
}

func TestParse(t *testing.T) {
	t.Setenv("TEST_AWS_KEY", "AKIA123")
	t.Setenv("TEST_AWS_SECRET", "s3cr3t")
	t.Setenv("TEST_AWS_BUCKET", "uploads")

	cfg, err := Parse([]byte(sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, "s3", cfg.Default)
	assert.True(t, cfg.LogErrors)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, []string{"google", "local", "s3"}, cfg.DiskNames())

	s3 := cfg.Disks["s3"]
	assert.Equal(t, "AKIA123", s3.Key)
	assert.Equal(t, "s3cr3t", s3.Secret)
	assert.Equal(t, "uploads", s3.Bucket)

	// Sections the document omits keep their defaults.
	assert.Equal(t, ":8080", cfg.Server.Addr)
	require.NoError(t, cfg.Validate())
}

func TestParse_KeepsDefaultDisks(t *testing.T) {
	cfg, err := Parse([]byte("log_errors: true\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"local"}, cfg.DiskNames())
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("EASYSTORE_DEFAULT", "backup")
	t.Setenv("EASYSTORE_THROW_ERRORS", "true")
	t.Setenv("EASYSTORE_LOG_LEVEL", "warn")

	cfg := Default()
	cfg.LogErrors = true
	require.NoError(t, cfg.ApplyEnv())

	assert.Equal(t, "backup", cfg.Default)
	assert.True(t, cfg.ThrowErrors)
	assert.Equal(t, "warn", cfg.Log.Level)
	// Unset variables leave values alone.
	assert.True(t, cfg.LogErrors)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestApplyEnv_Invalid(t *testing.T) {
	t.Setenv("EASYSTORE_LOG_ERRORS", "maybe")
	assert.Error(t, Default().ApplyEnv())
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "easystore.yaml")
	require.NoError(t, os.WriteFile(path, []byte("default: archive\ndisks:\n  archive:\n    driver: local\n    root: /tmp/archive\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "archive", cfg.Default)
	assert.Equal(t, []string{"archive"}, cfg.DiskNames())

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		Default: "nope",
		Log:     LogConfig{Level: "loud", Format: "xml"},
		Disks: map[string]DiskConfig{
			"a": {Driver: "ftp"},
			"b": {Driver: DriverS3},
			"c": {Driver: DriverMinio, Bucket: "x"},
			"d": {Driver: DriverGCS, Bucket: "x"},
			"e": {Driver: DriverLocal},
		},
	}

	err := cfg.Validate()
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, `default disk "nope" is not configured`)
	assert.Contains(t, msg, "log level")
	assert.Contains(t, msg, `log format "xml"`)
	assert.Contains(t, msg, `disk "a": unknown driver "ftp"`)
	assert.Contains(t, msg, `disk "b": s3 driver requires bucket`)
	assert.Contains(t, msg, `disk "c": minio driver requires endpoint`)
	assert.Contains(t, msg, `disk "d": gcs driver requires key, secret`)
	assert.Contains(t, msg, `disk "e": local driver requires root`)
}

func TestOpen(t *testing.T) {
	root := t.TempDir()
	cfg := Default()
	cfg.Disks = map[string]DiskConfig{
		"local": {Driver: DriverLocal, Root: root},
		"media": {Driver: DriverMinio, Endpoint: "localhost:9000", Bucket: "media"},
		"gcs":   {Driver: DriverGCS, Bucket: "assets", Key: "GOOG1E", Secret: "s"},
	}

	reg, err := cfg.Open(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"gcs", "local", "media"}, reg.Names())

	store := easystore.New(reg, cfg.Options()...)
	assert.Equal(t, "local", store.DefaultDisk())

	ok, err := store.Put(context.Background(), "hello.txt", []byte("hi"))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.FileExists(t, filepath.Join(root, "hello.txt"))
}

func TestOpen_Invalid(t *testing.T) {
	cfg := Default()
	cfg.Default = "missing"
	_, err := cfg.Open(context.Background())
	assert.Error(t, err)
}

func TestOptions(t *testing.T) {
	cfg := Default()
	cfg.Default = "local"
	cfg.LogErrors = true
	cfg.ThrowErrors = true

	store := easystore.New(nil, cfg.Options()...)
	assert.True(t, store.LogOnError())
	assert.True(t, store.RaiseOnError())
}

func TestLoad_ExampleFile(t *testing.T) {
	t.Setenv("AWS_BUCKET", "assets")
	t.Setenv("AWS_DEFAULT_REGION", "eu-central-1")
	t.Setenv("GOOGLE_CLOUD_HMAC_KEY", "GOOG1E")
	t.Setenv("GOOGLE_CLOUD_HMAC_SECRET", "secret")
	t.Setenv("GOOGLE_CLOUD_STORAGE_BUCKET", "media")

	cfg, err := Load("../easystore.example.yaml")
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, []string{"gcs", "local", "minio", "s3"}, cfg.DiskNames())
	assert.Equal(t, "assets", cfg.Disks["s3"].Bucket)
	assert.Equal(t, "eu-central-1", cfg.Disks["s3"].Region)
	assert.True(t, cfg.LogErrors)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeoutDuration())
}
