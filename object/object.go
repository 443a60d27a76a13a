// Package object loads Go relocatable object units with [goloader].
//
// A unit is a type_keyword file with extension .o or .a (compiled with go tool compile)
// or .linkable (a serialized goloader.Linker). Units are linked against the symbols of
// the host executable, so the host must be built with the toolchain the units were
// compiled with.
//
// # Prepare the go sdk
//
// goloader compiles against a copy of the sdk internals, so this package (and any command
// importing it) only builds on a prepared sdk:
//
//   - 1. Prepare the go sdk via `go run github.com/ZenLiuCN/modload/gosdk prepare`,
//     which copies $GOROOT/src/cmd/internal to $GOROOT/src/cmd/objfile.
//   - 2. Build and test as usual.
//   - 3. Restore the go sdk via `go run github.com/ZenLiuCN/modload/gosdk clean`.
//
// [goloader]: https://github.com/pkujhd/goloader
package object

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ZenLiuCN/fn"
	"github.com/ZenLiuCN/modload"
	"github.com/hashicorp/go-hclog"
	"github.com/pkujhd/goloader"
)

const (
	// DefaultPackage is the package path units are compiled as.
	DefaultPackage = "main"
	// ExtLinkable is the extension of serialized linkers.
	ExtLinkable = ".linkable"
)

type (
	// Loader links object units into the running process. Every unit shares one symbol table seeded with the host symbols.
	Loader struct {
		dirs    []string
		pkg     string
		symbols map[string]uintptr
		logger  hclog.Logger
		sync.Mutex
	}
	handle struct {
		file   string
		pkg    string
		linker *goloader.Linker
		module *goloader.CodeModule
	}
)

// New create a Loader searching dirs for units compiled as package pkg (DefaultPackage when empty).
// types are registered for units which reference host types, e.g. &modload.Descriptor{}.
func New(logger hclog.Logger, pkg string, dirs []string, types ...any) (l *Loader, err error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	if pkg == "" {
		pkg = DefaultPackage
	}
	l = &Loader{dirs: dirs, pkg: pkg, logger: logger, symbols: make(map[string]uintptr)}
	if err = goloader.RegSymbol(l.symbols); err != nil {
		return nil, fmt.Errorf("register host symbols: %w", err)
	}
	if len(types) > 0 {
		goloader.RegTypes(l.symbols, types...)
	}
	return
}

// Extensions are the unit file suffixes in search order.
func Extensions() []string {
	return []string{".o", ".a", ExtLinkable}
}

// Dirs is the search path.
func (l *Loader) Dirs() []string {
	return append([]string(nil), l.dirs...)
}

// Symbols dump the names of resolvable symbols.
func (l *Loader) Symbols() []string {
	l.Lock()
	defer l.Unlock()
	return fn.MapKeys(l.symbols)
}

func (l *Loader) find(name string) (string, bool) {
	for _, dir := range l.dirs {
		for _, ext := range Extensions() {
			p := filepath.Join(dir, name+ext)
			if fi, err := os.Stat(p); err == nil && !fi.IsDir() {
				return p, true
			}
		}
	}
	return "", false
}

func (l *Loader) Open(name string) (modload.Handle, error) {
	file, ok := l.find(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", modload.ErrNotFound, name)
	}
	l.Lock()
	defer l.Unlock()
	h := &handle{file: file, pkg: l.pkg}
	var err error
	if strings.HasSuffix(file, ExtLinkable) {
		h.linker, err = readLinkable(file)
	} else {
		h.linker, err = goloader.ReadObj(file, l.pkg)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", file, err)
	}
	if h.module, err = goloader.Load(h.linker, l.symbols); err != nil {
		return nil, fmt.Errorf("link %s: %w", file, err)
	}
	l.logger.Debug("linked object unit", "unit", name, "file", file)
	return h, nil
}

func readLinkable(file string) (*goloader.Linker, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer fn.IgnoreClose(f)
	return goloader.UnSerialize(f)
}

// Decode reads descriptors laid out as modload.Descriptor.
func (l *Loader) Decode(sym modload.Sym) (modload.Descriptor, bool) {
	return modload.GoDescriptor(sym)
}

// Missing dump the symbols a unit file needs which the Loader can't resolve.
func (l *Loader) Missing(file string) ([]string, error) {
	linker, err := goloader.ReadObj(file, l.pkg)
	if err != nil {
		return nil, err
	}
	l.Lock()
	defer l.Unlock()
	return goloader.UnresolvedSymbols(linker, l.symbols), nil
}

// Inspect display symbols inside an object file
func Inspect(file, pkg string) ([]string, error) {
	if pkg == "" {
		pkg = DefaultPackage
	}
	return goloader.Parse(file, pkg)
}

// Serialize write the linker of an object file to out, the result loads as a .linkable unit.
func Serialize(file, pkg string, out io.Writer) error {
	if pkg == "" {
		pkg = DefaultPackage
	}
	linker, err := goloader.ReadObj(file, pkg)
	if err != nil {
		return err
	}
	return goloader.Serialize(linker, out)
}

func qualify(pkg, sym string) string {
	if strings.IndexByte(sym, '.') < 0 {
		return pkg + "." + sym
	}
	return sym
}

func (h *handle) Lookup(symbol string) (modload.Sym, bool) {
	if h.module == nil {
		return 0, false
	}
	p, ok := h.module.Syms[qualify(h.pkg, symbol)]
	if !ok || p == 0 {
		return 0, false
	}
	return modload.Sym(p), true
}

func (h *handle) Close() error {
	if h.module == nil {
		return fmt.Errorf("%w: %s", modload.ErrReleased, h.file)
	}
	_ = os.Stdout.Sync()
	h.module.Unload()
	h.module = nil
	h.linker = nil
	return nil
}
