//go:build windows

package ffi

// CLong is the Go carrier for C long: 32 bits under LLP64.
type CLong = int32
