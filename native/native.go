// Package native loads C shared library units with purego, without cgo.
//
// Unit names are resolved like libtool's lt_dlopenext: every search directory
// is tried with the bare name then each platform extension, and at last the
// bare name is handed to the system loader search.
package native

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/ZenLiuCN/modload"
	"github.com/hashicorp/go-hclog"
)

// Environment variables holding extra search directories, in list separator form.
const (
	EnvPath     = "MODLOAD_PATH"
	EnvLtdlPath = "LTDL_LIBRARY_PATH"
)

type Loader struct {
	dirs   []string
	logger hclog.Logger
}

// New create a Loader searching dirs first, then the directories of EnvPath and EnvLtdlPath.
func New(logger hclog.Logger, dirs ...string) *Loader {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	l := &Loader{logger: logger}
	l.dirs = append(l.dirs, dirs...)
	l.dirs = append(l.dirs, filepath.SplitList(os.Getenv(EnvPath))...)
	l.dirs = append(l.dirs, filepath.SplitList(os.Getenv(EnvLtdlPath))...)
	return l
}

// Dirs is the effective search path.
func (l *Loader) Dirs() []string {
	return append([]string(nil), l.dirs...)
}

// Extensions are the shared library suffixes tried after the bare name.
func Extensions() []string {
	switch runtime.GOOS {
	case "darwin", "ios":
		return []string{".dylib", ".so"}
	case "windows":
		return []string{".dll"}
	default:
		return []string{".so"}
	}
}

// Candidates lists paths tried for name: directory candidates first, then bare names for the system search.
func (l *Loader) Candidates(name string) (v []string) {
	exts := append([]string{""}, Extensions()...)
	for _, dir := range l.dirs {
		if dir == "" {
			continue
		}
		for _, ext := range exts {
			v = append(v, filepath.Join(dir, name+ext))
		}
	}
	for _, ext := range exts {
		v = append(v, name+ext)
	}
	return
}

func (l *Loader) Open(name string) (modload.Handle, error) {
	var last error
	for _, c := range l.Candidates(name) {
		if filepath.IsAbs(c) || filepath.Dir(c) != "." {
			if fi, err := os.Stat(c); err != nil || fi.IsDir() {
				continue
			}
		}
		h, err := dlopen(c)
		if err != nil {
			l.logger.Trace("dlopen failed", "path", c, "error", err)
			last = err
			continue
		}
		l.logger.Debug("opened shared library", "unit", name, "path", c)
		return &handle{path: c, h: h}, nil
	}
	if last != nil {
		return nil, fmt.Errorf("%w: %s: %w", modload.ErrNotFound, name, last)
	}
	return nil, fmt.Errorf("%w: %s", modload.ErrNotFound, name)
}

// Decode reads C component structs.
func (l *Loader) Decode(sym modload.Sym) (modload.Descriptor, bool) {
	return modload.CDescriptor(sym)
}

type handle struct {
	path   string
	h      uintptr
	closed bool
}

func (h *handle) Lookup(symbol string) (modload.Sym, bool) {
	if h.closed {
		return 0, false
	}
	p, err := dlsym(h.h, symbol)
	if err != nil || p == 0 {
		return 0, false
	}
	return modload.Sym(p), true
}

func (h *handle) Close() error {
	if h.closed {
		return fmt.Errorf("%w: %s", modload.ErrReleased, h.path)
	}
	h.closed = true
	return dlclose(h.h)
}
