// Package memory is a modload.Loader over units registered in process.
//
// It serves statically linked components and stands in for real units in tests.
package memory

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/ZenLiuCN/modload"
)

type (
	// Loader holds named units and counts how often each is opened and closed.
	Loader struct {
		units     map[string]map[string]unsafe.Pointer
		opens     map[string]int
		closes    map[string]int
		failClose map[string]error
		sync.Mutex
	}
	handle struct {
		l      *Loader
		name   string
		syms   map[string]unsafe.Pointer
		closed bool
	}
)

// New create an empty Loader.
func New() *Loader {
	return &Loader{
		units:     make(map[string]map[string]unsafe.Pointer),
		opens:     make(map[string]int),
		closes:    make(map[string]int),
		failClose: make(map[string]error),
	}
}

// Add registers a unit name with its exported symbols. Pointers are kept alive by the Loader.
func (l *Loader) Add(name string, syms map[string]unsafe.Pointer) {
	l.Lock()
	defer l.Unlock()
	u := make(map[string]unsafe.Pointer, len(syms))
	for s, p := range syms {
		u[s] = p
	}
	l.units[name] = u
}

// AddComponent registers the unit of a (typ, keyword) component exporting d as its descriptor.
func (l *Loader) AddComponent(typ string, d *modload.Descriptor) {
	l.Add(modload.UnitName(typ, d.Keyword), map[string]unsafe.Pointer{
		modload.SymbolName(d.Keyword, typ): unsafe.Pointer(d),
	})
}

// Remove drops a unit, opened handles keep working.
func (l *Loader) Remove(name string) {
	l.Lock()
	defer l.Unlock()
	delete(l.units, name)
}

// FailClose makes closing name return err.
func (l *Loader) FailClose(name string, err error) {
	l.Lock()
	defer l.Unlock()
	l.failClose[name] = err
}

// Opens is the count of successful opens of name.
func (l *Loader) Opens(name string) int {
	l.Lock()
	defer l.Unlock()
	return l.opens[name]
}

// Closes is the count of closes of name.
func (l *Loader) Closes(name string) int {
	l.Lock()
	defer l.Unlock()
	return l.closes[name]
}

func (l *Loader) Open(name string) (modload.Handle, error) {
	l.Lock()
	defer l.Unlock()
	u, ok := l.units[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", modload.ErrNotFound, name)
	}
	l.opens[name]++
	return &handle{l: l, name: name, syms: u}, nil
}

func (l *Loader) Decode(sym modload.Sym) (modload.Descriptor, bool) {
	return modload.GoDescriptor(sym)
}

func (h *handle) Lookup(symbol string) (modload.Sym, bool) {
	if h.closed {
		return 0, false
	}
	p, ok := h.syms[symbol]
	if !ok {
		return 0, false
	}
	return modload.Sym(p), true
}

func (h *handle) Close() error {
	h.l.Lock()
	defer h.l.Unlock()
	if h.closed {
		return fmt.Errorf("%w: %s", modload.ErrReleased, h.name)
	}
	h.closed = true
	h.l.closes[h.name]++
	return h.l.failClose[h.name]
}
