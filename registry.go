package modload

import (
	"fmt"
	"sync"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"
)

type (
	// Module is one loaded unit for a (type, keyword) pair. It owns its Handle.
	Module struct {
		typ      string
		keyword  string
		unit     string
		handle   Handle
		released bool
	}
	// Registry caches loaded modules, at most one per (type, keyword) pair compared case-insensitively.
	//
	// Use Steps:
	//
	//	1. New with a Loader backend.
	//	2. Load, SymbolData or the List functions on demand.
	//	3. Close (or UnloadAll) once before exit to release every handle.
	//
	// A Registry is reusable after UnloadAll. The first unit loaded for a pair wins until then.
	Registry struct {
		loader  Loader
		decoder Decoder
		logger  hclog.Logger
		modules []*Module
		sync.Mutex
	}
	// Option configures a Registry.
	Option func(*options)
	options struct {
		withLogger  hclog.Logger
		withDecoder Decoder
	}
)

// WithLogger sets the logger, the default discards everything.
func WithLogger(l hclog.Logger) Option {
	return func(o *options) {
		o.withLogger = l
	}
}

// WithDecoder overrides how descriptors are read from symbol data.
func WithDecoder(d Decoder) Option {
	return func(o *options) {
		o.withDecoder = d
	}
}

// New create an empty Registry on top of loader.
func New(loader Loader, opt ...Option) *Registry {
	if loader == nil {
		panic("modload: nil loader")
	}
	opts := options{}
	for _, o := range opt {
		o(&opts)
	}
	r := &Registry{loader: loader, logger: opts.withLogger, decoder: opts.withDecoder}
	if r.logger == nil {
		r.logger = hclog.NewNullLogger()
	}
	if r.decoder == nil {
		if d, ok := loader.(DescriptorDecoder); ok {
			r.decoder = d.Decode
		} else {
			r.decoder = GoDescriptor
		}
	}
	return r
}

func (m *Module) Type() string    { return m.typ }
func (m *Module) Keyword() string { return m.keyword }

// Unit is the unit name the module was opened under.
func (m *Module) Unit() string { return m.unit }

// Released reports whether the handle was already closed.
func (m *Module) Released() bool { return m.released }

// Lookup resolves an exact exported symbol name.
func (m *Module) Lookup(symbol string) (Sym, bool) {
	if m.released {
		return 0, false
	}
	return m.handle.Lookup(symbol)
}

func (m *Module) String() string {
	if m.released {
		return m.unit + "(released)"
	}
	return m.unit
}

func (m *Module) matches(typ, keyword string) bool {
	return equalFoldASCII(m.typ, typ) && equalFoldASCII(m.keyword, keyword)
}

// equalFoldASCII compares case-insensitively folding only A-Z, other bytes must be equal.
func equalFoldASCII(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		x, y := a[i], b[i]
		if 'A' <= x && x <= 'Z' {
			x += 'a' - 'A'
		}
		if 'A' <= y && y <= 'Z' {
			y += 'a' - 'A'
		}
		if x != y {
			return false
		}
	}
	return true
}

// release closes the handle on the first call only.
func (m *Module) release() error {
	if m.released {
		return nil
	}
	m.released = true
	if err := m.handle.Close(); err != nil {
		return fmt.Errorf("close %s: %w", m.unit, err)
	}
	return nil
}

// Load returns the module for (typ, keyword), opening its unit on first use.
// An absent unit is not cached, so a later call tries again.
func (r *Registry) Load(typ, keyword string) (m *Module, ok bool) {
	r.Lock()
	defer r.Unlock()
	return r.load(typ, keyword)
}

func (r *Registry) load(typ, keyword string) (*Module, bool) {
	for _, m := range r.modules {
		if m.matches(typ, keyword) {
			return m, true
		}
	}
	name := UnitName(typ, keyword)
	h, err := r.loader.Open(name)
	if err != nil {
		r.logger.Trace("unit unavailable", "unit", name, "error", err)
		return nil, false
	}
	m := &Module{typ: typ, keyword: keyword, unit: name, handle: h}
	r.modules = append([]*Module{m}, r.modules...)
	r.logger.Debug("loaded module", "type", typ, "keyword", keyword, "unit", name)
	return m, true
}

// SymbolData resolves symbol of the (typ, keyword) module, loading it if needed.
// A missing symbol leaves the module cached.
func (r *Registry) SymbolData(typ, keyword, symbol string) (Sym, bool) {
	r.Lock()
	defer r.Unlock()
	m, ok := r.load(typ, keyword)
	if !ok {
		return 0, false
	}
	name := SymbolName(keyword, symbol)
	p, ok := m.Lookup(name)
	if !ok {
		r.logger.Trace("symbol unavailable", "unit", m.unit, "symbol", name)
		return 0, false
	}
	return p, true
}

// MustSymbolData is SymbolData which panics with ErrMissingModule or ErrMissingSymbol.
func (r *Registry) MustSymbolData(typ, keyword, symbol string) Sym {
	if _, ok := r.Load(typ, keyword); !ok {
		panic(fmt.Errorf("%w: %s", ErrMissingModule, UnitName(typ, keyword)))
	}
	p, ok := r.SymbolData(typ, keyword, symbol)
	if !ok {
		panic(fmt.Errorf("%w: %s", ErrMissingSymbol, SymbolName(keyword, symbol)))
	}
	return p
}

// Data resolves a symbol and reads it as a T.
func Data[T any](r *Registry, typ, keyword, symbol string) (x T, ok bool) {
	var p Sym
	if p, ok = r.SymbolData(typ, keyword, symbol); !ok {
		return
	}
	return As[T](p), true
}

// Len is the count of loaded modules.
func (r *Registry) Len() int {
	r.Lock()
	defer r.Unlock()
	return len(r.modules)
}

// Modules dump loaded modules, most recently loaded first.
func (r *Registry) Modules() []*Module {
	r.Lock()
	defer r.Unlock()
	v := make([]*Module, len(r.modules))
	copy(v, r.modules)
	return v
}

// UnloadAll releases every module one at a time. Close failures are logged.
func (r *Registry) UnloadAll() {
	if err := r.Close(); err != nil {
		r.logger.Error("unload modules", "error", err)
	}
}

// Close releases every module like UnloadAll and reports all close failures.
// The registry is empty afterwards even on failure.
func (r *Registry) Close() error {
	r.Lock()
	defer r.Unlock()
	var errs *multierror.Error
	for len(r.modules) > 0 {
		m := r.modules[0]
		r.modules[0] = nil
		r.modules = r.modules[1:]
		if err := m.release(); err != nil {
			errs = multierror.Append(errs, err)
			continue
		}
		r.logger.Debug("unloaded module", "unit", m.unit)
	}
	r.modules = nil
	return errs.ErrorOrNil()
}
