package native

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/ZenLiuCN/modload"
	"github.com/stretchr/testify/assert"
)

func TestCandidates(t *testing.T) {
	t.Setenv(EnvPath, "")
	t.Setenv(EnvLtdlPath, "")
	l := New(nil, "/opt/yasm/modules", "")
	got := l.Candidates("objfmt_coff")
	var want []string
	for _, ext := range append([]string{""}, Extensions()...) {
		want = append(want, filepath.Join("/opt/yasm/modules", "objfmt_coff"+ext))
	}
	for _, ext := range append([]string{""}, Extensions()...) {
		want = append(want, "objfmt_coff"+ext)
	}
	assert.Equal(t, want, got)
	if runtime.GOOS == "linux" {
		assert.Equal(t, []string{
			"/opt/yasm/modules/objfmt_coff",
			"/opt/yasm/modules/objfmt_coff.so",
			"objfmt_coff",
			"objfmt_coff.so",
		}, got)
	}
}

func TestSearchPathFromEnv(t *testing.T) {
	a, b := t.TempDir(), t.TempDir()
	t.Setenv(EnvPath, a)
	t.Setenv(EnvLtdlPath, b)
	l := New(nil, "/first")
	assert.Equal(t, []string{"/first", a, b}, l.Dirs())
}

func TestExtensions(t *testing.T) {
	switch runtime.GOOS {
	case "darwin":
		assert.Equal(t, []string{".dylib", ".so"}, Extensions())
	case "linux":
		assert.Equal(t, []string{".so"}, Extensions())
	}
}

func TestOpenMissing(t *testing.T) {
	t.Setenv(EnvPath, "")
	t.Setenv(EnvLtdlPath, "")
	l := New(nil, t.TempDir())
	_, err := l.Open("objfmt_nonexistent-unit")
	assert.ErrorIs(t, err, modload.ErrNotFound)
}

func TestOpenInvalidFile(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("linux only")
	}
	t.Setenv(EnvPath, "")
	t.Setenv(EnvLtdlPath, "")
	dir := t.TempDir()
	assert.NoError(t, os.WriteFile(filepath.Join(dir, "objfmt_bogus.so"), []byte("not a library"), 0o644))
	l := New(nil, dir)
	_, err := l.Open("objfmt_bogus")
	assert.ErrorIs(t, err, modload.ErrNotFound)
}

func TestRegistryOverNative(t *testing.T) {
	t.Setenv(EnvPath, "")
	t.Setenv(EnvLtdlPath, "")
	r := modload.New(New(nil, t.TempDir()))
	var n int
	r.ListObjectFormats(func(string, string) { n++ })
	assert.Zero(t, n)
	assert.Zero(t, r.Len())
	assert.NoError(t, r.Close())
}
