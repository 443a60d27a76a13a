package modload_test

import (
	"testing"

	"github.com/ZenLiuCN/modload"
	"github.com/ZenLiuCN/modload/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type listed struct{ name, keyword string }

func collect(v *[]listed) modload.Sink {
	return func(name, keyword string) {
		*v = append(*v, listed{name, keyword})
	}
}

func TestListComponentsSkipsAbsent(t *testing.T) {
	l := memory.New()
	l.AddComponent(modload.ObjectFormat, dbg)
	l.AddComponent(modload.ObjectFormat, bin)
	r := modload.New(l)
	var got []listed
	modload.ListComponents(modload.ObjectFormat, []string{"dbg", "bin", "coff"}, r.LoadObjectFormat, collect(&got))
	assert.Equal(t, []listed{{dbg.Name, "dbg"}, {bin.Name, "bin"}}, got)
	assert.Equal(t, 0, l.Opens("objfmt_coff"))
}

func TestListComponentsProbeOrder(t *testing.T) {
	var probed []string
	probe := func(keyword string) (modload.Descriptor, bool) {
		probed = append(probed, keyword)
		return modload.Descriptor{Name: keyword, Keyword: keyword}, keyword != "bin"
	}
	var got []listed
	modload.ListComponents(modload.ObjectFormat, nil, probe, collect(&got))
	assert.Equal(t, []string{"dbg", "bin", "coff"}, probed)
	assert.Equal(t, []listed{{"dbg", "dbg"}, {"coff", "coff"}}, got)
}

func TestListAllTypes(t *testing.T) {
	l := memory.New()
	l.AddComponent(modload.ObjectFormat, coff)
	l.AddComponent(modload.ObjectFormat, bin)
	l.AddComponent(modload.Parser, nasm)
	l.AddComponent(modload.Preprocessor, raw)
	l.AddComponent(modload.DebugFormat, null)
	r := modload.New(l)
	defer func() { require.NoError(t, r.Close()) }()

	var got []listed
	r.ListObjectFormats(collect(&got))
	assert.Equal(t, []listed{{bin.Name, "bin"}, {coff.Name, "coff"}}, got)

	got = nil
	r.ListParsers(collect(&got))
	assert.Equal(t, []listed{{nasm.Name, "nasm"}}, got)

	got = nil
	r.ListPreprocessors(collect(&got))
	assert.Equal(t, []listed{{raw.Name, "raw"}}, got)

	got = nil
	r.ListDebugFormats(collect(&got))
	assert.Equal(t, []listed{{null.Name, "null"}}, got)

	// listing twice serves from cache
	r.ListObjectFormats(func(string, string) {})
	assert.Equal(t, 1, l.Opens("objfmt_coff"))
	assert.Equal(t, 5, r.Len())
}

func TestLoadComponentRejectsBadDescriptor(t *testing.T) {
	l := memory.New()
	l.AddComponent(modload.ObjectFormat, coff)
	l.Add("objfmt_bin", nil)
	r := modload.New(l, modload.WithDecoder(func(sym modload.Sym) (modload.Descriptor, bool) {
		d, ok := modload.GoDescriptor(sym)
		d.Keyword = ""
		return d, ok
	}))
	_, ok := r.LoadObjectFormat("coff")
	assert.False(t, ok)
	_, ok = r.LoadObjectFormat("bin")
	assert.False(t, ok)
	assert.Equal(t, 2, r.Len(), "units stay cached")
}

func TestLoadComponentTyped(t *testing.T) {
	l := memory.New()
	l.AddComponent(modload.Parser, nasm)
	l.AddComponent(modload.Preprocessor, nasm)
	r := modload.New(l)
	d, ok := r.LoadParser("nasm")
	require.True(t, ok)
	assert.Equal(t, *nasm, d)
	_, ok = r.LoadPreprocessor("nasm")
	assert.True(t, ok)
	_, ok = r.LoadDebugFormat("nasm")
	assert.False(t, ok)
	assert.Equal(t, 2, r.Len())
}
