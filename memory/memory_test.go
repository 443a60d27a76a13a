package memory

import (
	"errors"
	"testing"
	"unsafe"

	"github.com/ZenLiuCN/fn"
	"github.com/ZenLiuCN/modload"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenLookupClose(t *testing.T) {
	l := New()
	d := &modload.Descriptor{Name: "COFF (DJGPP)", Keyword: "coff"}
	l.AddComponent(modload.ObjectFormat, d)

	h := fn.Panic1(l.Open("objfmt_coff"))
	p, ok := h.Lookup("yasm_coff_LTX_objfmt")
	require.True(t, ok)
	assert.Equal(t, unsafe.Pointer(d), unsafe.Pointer(p))
	got, ok := l.Decode(p)
	require.True(t, ok)
	assert.Equal(t, *d, got)

	_, ok = h.Lookup("yasm_coff_LTX_parser")
	assert.False(t, ok)

	require.NoError(t, h.Close())
	assert.ErrorIs(t, h.Close(), modload.ErrReleased)
	_, ok = h.Lookup("yasm_coff_LTX_objfmt")
	assert.False(t, ok)
	assert.Equal(t, 1, l.Opens("objfmt_coff"))
	assert.Equal(t, 1, l.Closes("objfmt_coff"))
}

func TestOpenMissing(t *testing.T) {
	l := New()
	_, err := l.Open("objfmt_coff")
	assert.ErrorIs(t, err, modload.ErrNotFound)
	assert.Equal(t, 0, l.Opens("objfmt_coff"))
}

func TestRemoveAndFailClose(t *testing.T) {
	l := New()
	v := 1
	l.Add("dbgfmt_null", map[string]unsafe.Pointer{"x": unsafe.Pointer(&v)})
	h := fn.Panic1(l.Open("dbgfmt_null"))
	l.Remove("dbgfmt_null")
	_, err := l.Open("dbgfmt_null")
	assert.Error(t, err)
	_, ok := h.Lookup("x")
	assert.True(t, ok, "opened handles survive removal")

	boom := errors.New("boom")
	l.FailClose("dbgfmt_null", boom)
	assert.ErrorIs(t, h.Close(), boom)
}
