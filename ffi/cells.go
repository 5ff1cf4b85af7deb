package ffi

import (
	"fmt"
	"unsafe"
)

// PtrHolder is satisfied by every wrapper that owns native-visible memory and
// can hand out its raw address for an out-parameter.
type PtrHolder interface {
	Ptr() uintptr
}

// Scalar constrains cell element types to those the toolkit headers use.
type Scalar interface {
	~int8 | ~int16 | ~int32 | ~int64 | ~int |
		~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uint |
		~float32 | ~float64 | ~uintptr
}

// Cell owns a single native-typed value that a foreign call can write
// through. One cell, one allocation, no sharing.
type Cell[T Scalar] struct {
	v *T
}

// NewCell returns a zeroed cell, optionally seeded with one initial value.
func NewCell[T Scalar](init ...T) *Cell[T] {
	c := &Cell[T]{v: new(T)}
	if len(init) > 0 {
		*c.v = init[0]
	}
	return c
}

func (c *Cell[T]) Value() T     { return *c.v }
func (c *Cell[T]) Set(v T)      { *c.v = v }
func (c *Cell[T]) Ptr() uintptr { return uintptr(unsafe.Pointer(c.v)) }

// Toolkit-typed cell constructors.
func NewInt(init ...int32) *Cell[int32]        { return NewCell[int32](init...) }
func NewLong(init ...CLong) *Cell[CLong]       { return NewCell[CLong](init...) }
func NewFloat(init ...float32) *Cell[float32]  { return NewCell[float32](init...) }
func NewDouble(init ...float64) *Cell[float64] { return NewCell[float64](init...) }

// Array owns a fixed-length native array of identically typed cells.
type Array[T Scalar] struct {
	s []T
}

// NewArray returns an n-element array seeded from the given values, which may
// be passed variadically or as one spread slice. Over-long initializers
// panic; this mirrors a fixed-size native array initializer.
func NewArray[T Scalar](n int, init ...T) *Array[T] {
	if len(init) > n {
		panic(fmt.Sprintf("ffi: %d initializers for array of %d", len(init), n))
	}
	a := &Array[T]{s: make([]T, n)}
	copy(a.s, init)
	return a
}

func (a *Array[T]) Len() int       { return len(a.s) }
func (a *Array[T]) At(i int) T     { return a.s[i] }
func (a *Array[T]) Set(i int, v T) { a.s[i] = v }
func (a *Array[T]) Slice() []T     { return a.s }
func (a *Array[T]) Ptr() uintptr   { return uintptr(unsafe.Pointer(&a.s[0])) }

// VoidPtr is a one-element pointer slot. Its value is an untyped native
// pointer (or address literal); its own address can be passed as an
// out-parameter, covering the pointer-to-pointer pattern.
type VoidPtr struct {
	slot []uintptr
}

// NewVoidPtr returns a NULL-initialized slot, optionally seeded with an
// address.
func NewVoidPtr(init ...uintptr) *VoidPtr {
	p := &VoidPtr{slot: make([]uintptr, 1)}
	if len(init) > 0 {
		p.slot[0] = init[0]
	}
	return p
}

func (p *VoidPtr) Value() uintptr { return p.slot[0] }
func (p *VoidPtr) Set(v uintptr)  { p.slot[0] = v }
func (p *VoidPtr) Ptr() uintptr   { return uintptr(unsafe.Pointer(&p.slot[0])) }

// Handle is the dual-purpose void-pointer slot used for opaque identifiers
// returned through out-parameters (memory-pointer APIs, MSX file handles).
type Handle struct {
	VoidPtr
}

// NewHandle returns a NULL handle slot.
func NewHandle() *Handle {
	return &Handle{VoidPtr{slot: make([]uintptr, 1)}}
}

// ProjectPtr is the handle slot specialized to the opaque EN_Project type,
// passed to EN_createproject and friends.
type ProjectPtr struct {
	VoidPtr
}

// NewProjectPtr returns a NULL project-handle slot.
func NewProjectPtr() *ProjectPtr {
	return &ProjectPtr{VoidPtr{slot: make([]uintptr, 1)}}
}

// Buffer is a fixed-capacity NUL-terminated byte buffer for string
// out-parameters. Writes that would overflow are rejected before any byte is
// copied; reads stop at the first NUL.
type Buffer struct {
	b []byte
}

// NewBuffer returns a zeroed buffer of capacity n.
func NewBuffer(n int) *Buffer {
	return &Buffer{b: make([]byte, n)}
}

func (b *Buffer) Cap() int     { return len(b.b) }
func (b *Buffer) Ptr() uintptr { return uintptr(unsafe.Pointer(&b.b[0])) }

// Bytes returns the buffer content up to its first NUL.
func (b *Buffer) Bytes() []byte {
	for i, c := range b.b {
		if c == 0 {
			return b.b[:i]
		}
	}
	return b.b
}

func (b *Buffer) String() string { return string(b.Bytes()) }

// SetBytes copies v into the buffer and appends the terminator. The value
// plus terminator must fit; otherwise the buffer is left untouched.
func (b *Buffer) SetBytes(v []byte) error {
	if len(v)+1 > len(b.b) {
		return &BufferError{Capacity: len(b.b), Size: len(v) + 1}
	}
	copy(b.b, v)
	b.b[len(v)] = 0
	return nil
}

// SetString encodes v as UTF-8 and stores it via SetBytes.
func (b *Buffer) SetString(v string) error {
	return b.SetBytes([]byte(v))
}

// ByRef returns the raw memory handle of a wrapper for use as an
// out-parameter. Anything that is not a wrapper is returned unchanged,
// assumed to already be a raw handle.
func ByRef(v any) any {
	if h, ok := v.(PtrHolder); ok {
		return h.Ptr()
	}
	return v
}
