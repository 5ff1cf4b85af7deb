package ffi

import (
	"sync"
	"unsafe"
)

// CStr is an immutable NUL-terminated native text constant.
type CStr struct {
	b []byte
}

func (s *CStr) Ptr() uintptr { return uintptr(unsafe.Pointer(&s.b[0])) }

// Len returns the text length, excluding the terminator.
func (s *CStr) Len() int { return len(s.b) - 1 }

func newCStr(v string) *CStr {
	b := make([]byte, len(v)+1)
	copy(b, v)
	return &CStr{b: b}
}

// interned bounds the content cache so repeated literal lookups (symbol
// names, parameter IDs) never grow without limit.
const maxInterned = 4096

var cstrCache = newLRU[string, *CStr](maxInterned)

// CString returns an interned native copy of v. Identical text shares one
// allocation; callers must treat the memory as read-only.
func CString(v string) *CStr {
	if s, ok := cstrCache.Get(v); ok {
		return s
	}
	s := newCStr(v)
	cstrCache.Put(v, s)
	return s
}

// CStringRaw returns a fresh, uncached native copy of v for callees that may
// scribble on their input.
func CStringRaw(v string) *CStr { return newCStr(v) }

// NullPtr is the NULL address constant for optional pointer parameters.
const NullPtr uintptr = 0

// lru is a small thread-safe bounded cache; the least recently used entry is
// evicted at capacity.
type lru[K comparable, V any] struct {
	mu    sync.Mutex
	cap   int
	items map[K]*lruEntry[K, V]
	head  *lruEntry[K, V]
	tail  *lruEntry[K, V]
}

type lruEntry[K comparable, V any] struct {
	key        K
	value      V
	prev, next *lruEntry[K, V]
}

func newLRU[K comparable, V any](capacity int) *lru[K, V] {
	return &lru[K, V]{
		cap:   capacity,
		items: make(map[K]*lruEntry[K, V], capacity),
	}
}

func (c *lru[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.items[key]
	if !ok {
		var zero V
		return zero, false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *lru[K, V]) Put(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.items[key]; ok {
		e.value = value
		c.moveToFront(e)
		return
	}
	e := &lruEntry[K, V]{key: key, value: value}
	c.items[key] = e
	c.pushFront(e)
	if len(c.items) > c.cap {
		c.evictTail()
	}
}

func (c *lru[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func (c *lru[K, V]) pushFront(e *lruEntry[K, V]) {
	e.next = c.head
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *lru[K, V]) moveToFront(e *lruEntry[K, V]) {
	if e == c.head {
		return
	}
	// Unlink.
	if e.prev != nil {
		e.prev.next = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	}
	if e == c.tail {
		c.tail = e.prev
	}
	e.prev, e.next = nil, nil
	c.pushFront(e)
}

func (c *lru[K, V]) evictTail() {
	e := c.tail
	if e == nil {
		return
	}
	if e.prev != nil {
		e.prev.next = nil
	}
	c.tail = e.prev
	if c.head == e {
		c.head = nil
	}
	delete(c.items, e.key)
}
