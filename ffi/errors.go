package ffi

import (
	"fmt"
	"strings"
)

// DeclError reports a declaration that the registry could not compile into a
// callable signature. It is a configuration error: the header corpus is
// static, so the same build would fail identically on retry.
type DeclError struct {
	Proto string
	Err   error
}

func (e *DeclError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("ffi: cannot compile declaration %q: %v", e.Proto, e.Err)
	}
	return fmt.Sprintf("ffi: cannot compile declaration %q", e.Proto)
}

func (e *DeclError) Unwrap() error { return e.Err }

// LoadError reports a shared-library path that did not resolve to a loadable
// object.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("ffi: cannot load library %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// SymbolError reports a symbol that resolved under neither the requested name
// nor any alternate-convention name. Tried lists every candidate in the order
// it was attempted.
type SymbolError struct {
	Name  string
	Path  string
	Tried []string
}

func (e *SymbolError) Error() string {
	return fmt.Sprintf("ffi: symbol %q not found in %s (tried %s)",
		e.Name, e.Path, strings.Join(e.Tried, ", "))
}

// BufferError reports a write that would overflow a fixed-capacity buffer.
// The write is rejected before any byte is copied.
type BufferError struct {
	Capacity int
	Size     int // bytes required, including the NUL terminator
}

func (e *BufferError) Error() string {
	return fmt.Sprintf("ffi: value of %d bytes (with terminator) exceeds buffer capacity %d",
		e.Size, e.Capacity)
}
