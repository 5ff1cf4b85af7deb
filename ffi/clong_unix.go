//go:build !windows

package ffi

// CLong is the Go carrier for C long: the platform word on LP64/ILP32 unix.
type CLong = int
