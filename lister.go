package modload

import (
	"unsafe"
)

type (
	// Descriptor is the head of the data a unit exports to describe itself.
	Descriptor struct {
		Name    string
		Keyword string
	}
	// Probe loads the component for keyword and returns its descriptor.
	Probe func(keyword string) (Descriptor, bool)
	// Sink receives one listed component.
	Sink func(name, keyword string)
	// Decoder reads a Descriptor from symbol data.
	Decoder func(sym Sym) (Descriptor, bool)
	// cDescriptor is the leading fields of a C component struct.
	cDescriptor struct {
		name    uintptr
		keyword uintptr
	}
)

// GoDescriptor reads symbol data laid out as a Descriptor.
func GoDescriptor(sym Sym) (Descriptor, bool) {
	d := Ptr[Descriptor](sym)
	if d == nil {
		return Descriptor{}, false
	}
	return *d, true
}

// CDescriptor reads symbol data starting with two C strings: name and keyword.
func CDescriptor(sym Sym) (Descriptor, bool) {
	c := Ptr[cDescriptor](sym)
	if c == nil {
		return Descriptor{}, false
	}
	return Descriptor{Name: cString(c.name), Keyword: cString(c.keyword)}, true
}

func cString(p uintptr) string {
	if p == 0 {
		return ""
	}
	n := 0
	for *(*byte)(unsafe.Pointer(p + uintptr(n))) != 0 {
		n++
	}
	return string(unsafe.Slice((*byte)(unsafe.Pointer(p)), n))
}

// ListComponents probes every keyword of catalog in order and sends each found component to sink.
// Keywords whose probe fails are skipped. A nil catalog means the built-in Catalog of typ.
func ListComponents(typ string, catalog []string, probe Probe, sink Sink) {
	if catalog == nil {
		catalog = Catalog(typ)
	}
	for _, keyword := range catalog {
		if d, ok := probe(keyword); ok {
			sink(d.Name, d.Keyword)
		}
	}
}

// LoadComponent loads the (typ, keyword) unit and reads its descriptor,
// exported under the type name, e.g. yasm_coff_LTX_objfmt.
func (r *Registry) LoadComponent(typ, keyword string) (Descriptor, bool) {
	p, ok := r.SymbolData(typ, keyword, typ)
	if !ok {
		return Descriptor{}, false
	}
	d, ok := r.decoder(p)
	if !ok || d.Keyword == "" {
		r.logger.Trace("invalid descriptor", "unit", UnitName(typ, keyword))
		return Descriptor{}, false
	}
	return d, true
}

func (r *Registry) LoadObjectFormat(keyword string) (Descriptor, bool) {
	return r.LoadComponent(ObjectFormat, keyword)
}
func (r *Registry) LoadParser(keyword string) (Descriptor, bool) {
	return r.LoadComponent(Parser, keyword)
}
func (r *Registry) LoadPreprocessor(keyword string) (Descriptor, bool) {
	return r.LoadComponent(Preprocessor, keyword)
}
func (r *Registry) LoadDebugFormat(keyword string) (Descriptor, bool) {
	return r.LoadComponent(DebugFormat, keyword)
}

// List sends every available component of typ to sink in catalog order.
func (r *Registry) List(typ string, sink Sink) {
	ListComponents(typ, nil, func(keyword string) (Descriptor, bool) {
		return r.LoadComponent(typ, keyword)
	}, sink)
}

func (r *Registry) ListObjectFormats(sink Sink) { r.List(ObjectFormat, sink) }
func (r *Registry) ListParsers(sink Sink)       { r.List(Parser, sink) }
func (r *Registry) ListPreprocessors(sink Sink) { r.List(Preprocessor, sink) }
func (r *Registry) ListDebugFormats(sink Sink)  { r.List(DebugFormat, sink) }
