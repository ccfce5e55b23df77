package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, ".tokenvault", "secrets.json"), cfg.Store.Path)
	assert.Equal(t, "pbkdf2-sha256", cfg.KDF.Algorithm)
	assert.Equal(t, 600_000, cfg.KDF.Iterations)
	assert.Equal(t, 10*time.Second, cfg.Lock.Timeout)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "TOKENVAULT_PASSPHRASE", cfg.Passphrase.Env)
}

func TestLoad_MissingFileFallsBack(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
store:
  path: ` + filepath.Join(dir, "vault.json") + `
kdf:
  algorithm: scrypt
lock:
  timeout: 250ms
log:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "vault.json"), cfg.Store.Path)
	assert.Equal(t, "scrypt", cfg.KDF.Algorithm)
	assert.Equal(t, 250*time.Millisecond, cfg.Lock.Timeout)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: debug\n"), 0o600))

	t.Setenv("TOKENVAULT_LOG_LEVEL", "error")
	t.Setenv("TOKENVAULT_STORE_PATH", filepath.Join(dir, "env.json"))
	t.Setenv("TOKENVAULT_KDF_ITERATIONS", "700000")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.Log.Level)
	assert.Equal(t, filepath.Join(dir, "env.json"), cfg.Store.Path)
	assert.Equal(t, 700_000, cfg.KDF.Iterations)
}

func TestLoad_Invalid(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"malformed yaml": "store: [unclosed\n",
		"bad algorithm":  "kdf:\n  algorithm: md5\n",
		"bad log level":  "log:\n  level: chatty\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name+".yaml")
			require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestExpandPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := ExpandPath("~/x/y.json")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "x", "y.json"), got)

	got, err = ExpandPath("/abs/path")
	require.NoError(t, err)
	assert.Equal(t, "/abs/path", got)

	got, err = ExpandPath("")
	require.NoError(t, err)
	assert.Empty(t, got)
}
