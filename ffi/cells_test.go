package ffi

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScalarCell(t *testing.T) {
	c := NewInt()
	require.EqualValues(t, 0, c.Value())
	c.Set(42)
	require.EqualValues(t, 42, c.Value())
	require.NotZero(t, c.Ptr())

	d := NewDouble(2.5)
	require.Equal(t, 2.5, d.Value())
}

func TestCellsOwnDistinctMemory(t *testing.T) {
	a := NewInt(1)
	b := NewInt(2)
	require.NotEqual(t, a.Ptr(), b.Ptr())
	a.Set(9)
	require.EqualValues(t, 2, b.Value())
}

func TestArrayVariadicAndSlice(t *testing.T) {
	a := NewArray[float64](4, 1.0, 2.0)
	require.Equal(t, 4, a.Len())
	require.Equal(t, []float64{1, 2, 0, 0}, a.Slice())

	vals := []int32{7, 8, 9}
	b := NewArray[int32](3, vals...)
	require.Equal(t, []int32{7, 8, 9}, b.Slice())

	b.Set(1, 80)
	require.EqualValues(t, 80, b.At(1))
	require.NotZero(t, b.Ptr())
}

func TestArrayOverlongInitializerPanics(t *testing.T) {
	require.Panics(t, func() { NewArray[int32](2, 1, 2, 3) })
}

func TestBufferRoundTrip(t *testing.T) {
	b := NewBuffer(32)
	require.NoError(t, b.SetString("Net1"))
	require.Equal(t, "Net1", b.String())
	require.Equal(t, []byte("Net1"), b.Bytes())
	require.Equal(t, 32, b.Cap())
}

func TestBufferOverflowRejectedUnmodified(t *testing.T) {
	b := NewBuffer(8)
	require.NoError(t, b.SetString("abc"))

	// 9 bytes plus terminator cannot fit in 8.
	err := b.SetString("123456789")
	require.Error(t, err)

	var bufErr *BufferError
	require.ErrorAs(t, err, &bufErr)
	require.Equal(t, 8, bufErr.Capacity)
	require.Equal(t, 10, bufErr.Size)

	require.Equal(t, "abc", b.String())
}

func TestBufferExactFit(t *testing.T) {
	b := NewBuffer(5)
	require.NoError(t, b.SetString("abcd")) // 4 + NUL = 5
	require.Equal(t, "abcd", b.String())
	require.Error(t, b.SetString("abcde"))
}

func TestVoidPtrSlot(t *testing.T) {
	p := NewVoidPtr()
	require.Zero(t, p.Value())
	p.Set(0xdeadbeef)
	require.EqualValues(t, 0xdeadbeef, p.Value())

	seeded := NewVoidPtr(0x1000)
	require.EqualValues(t, 0x1000, seeded.Value())
	// The slot's own address differs from the stored address.
	require.NotEqual(t, seeded.Value(), seeded.Ptr())
}

func TestHandleAndProjectPtr(t *testing.T) {
	h := NewHandle()
	require.Zero(t, h.Value())
	h.Set(0x2000)
	require.EqualValues(t, 0x2000, h.Value())

	ph := NewProjectPtr()
	require.Zero(t, ph.Value())
	require.NotZero(t, ph.Ptr())
}

func TestByRef(t *testing.T) {
	c := NewInt()
	require.Equal(t, c.Ptr(), ByRef(c))

	b := NewBuffer(4)
	require.Equal(t, b.Ptr(), ByRef(b))

	// Raw handles pass through unchanged.
	require.Equal(t, uintptr(0x30), ByRef(uintptr(0x30)))
	require.Equal(t, 7, ByRef(7))
}

func TestCStringInterning(t *testing.T) {
	a := CString("EN_open")
	b := CString("EN_open")
	require.Equal(t, a.Ptr(), b.Ptr())
	require.Equal(t, 7, a.Len())

	raw := CStringRaw("EN_open")
	require.NotEqual(t, a.Ptr(), raw.Ptr())
}

func TestLRUBounded(t *testing.T) {
	c := newLRU[int, int](3)
	for i := 0; i < 5; i++ {
		c.Put(i, i*10)
	}
	require.Equal(t, 3, c.Len())

	// Oldest entries were evicted.
	_, ok := c.Get(0)
	require.False(t, ok)
	_, ok = c.Get(1)
	require.False(t, ok)

	v, ok := c.Get(4)
	require.True(t, ok)
	require.Equal(t, 40, v)
}

func TestLRURecencyOnGet(t *testing.T) {
	c := newLRU[string, int](2)
	c.Put("a", 1)
	c.Put("b", 2)
	_, _ = c.Get("a") // refresh a
	c.Put("c", 3)     // evicts b

	_, ok := c.Get("b")
	require.False(t, ok)
	_, ok = c.Get("a")
	require.True(t, ok)
}
