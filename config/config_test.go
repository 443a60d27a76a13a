package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "modload.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func clearEnv(t *testing.T) {
	for _, k := range []string{"BACKEND", "SEARCH_PATH", "PACKAGE", "DEBUG"} {
		t.Setenv(EnvPrefix+"_"+k, "")
		require.NoError(t, os.Unsetenv(EnvPrefix+"_"+k))
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Native, cfg.Backend)
	assert.Equal(t, "main", cfg.Package)
	assert.Empty(t, cfg.SearchPath)
	assert.False(t, cfg.Debug)
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	p := write(t, `
backend: object
search_path:
  - /usr/lib/yasm
  - ./modules
package: sample
debug: true
`)
	cfg, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, &Config{
		Backend:    Object,
		SearchPath: []string{"/usr/lib/yasm", "./modules"},
		Package:    "sample",
		Debug:      true,
	}, cfg)
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	p := write(t, "backend: object\nsearch_path: [/usr/lib/yasm]\n")
	t.Setenv("MODLOAD_BACKEND", "native")
	t.Setenv("MODLOAD_SEARCH_PATH", "/a,/b")
	cfg, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, Native, cfg.Backend)
	assert.Equal(t, []string{"/a", "/b"}, cfg.SearchPath)
}

func TestLoadErrors(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	assert.ErrorContains(t, err, "read config")

	_, err = Load(write(t, "backend: [\n"))
	assert.ErrorContains(t, err, "parse yaml")

	_, err = Load(write(t, "backend: wasm\n"))
	assert.ErrorContains(t, err, `unknown backend "wasm"`)
}
