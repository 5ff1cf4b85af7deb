package ffi

import (
	"fmt"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"
	"sync"

	"github.com/ebitengine/purego"
)

// Library is a symbol-resolving proxy over one loaded shared library.
// Resolution is lazy and cached; a name absent under the requested
// convention is retried under the alternate EN_/EN or MSX_/MSX convention,
// because the toolkits' two symbol families are not consistently present
// across platform builds.
type Library struct {
	path string
	reg  *Registry

	handle uintptr
	lookup func(name string) (uintptr, error)

	mu    sync.Mutex
	funcs map[string]*Func
}

var (
	libMu    sync.Mutex
	libCache = make(map[string]*Library)
)

// Open loads the shared library at path against the default declaration set.
// A given path is loaded at most once per process.
func Open(path string) (*Library, error) {
	return OpenWithRegistry(path, Default())
}

// OpenWithHeader loads the library against a declaration set built from a
// single caller-supplied header instead of the defaults.
func OpenWithHeader(path, header string) (*Library, error) {
	return OpenWithRegistry(path, NewRegistry(header))
}

// OpenWithRegistry loads the library against an explicit registry. The
// registry build completes before the load proceeds.
func OpenWithRegistry(path string, reg *Registry) (*Library, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	libMu.Lock()
	defer libMu.Unlock()
	if l, ok := libCache[abs]; ok {
		return l, nil
	}

	if err := reg.Ensure(); err != nil {
		return nil, err
	}

	handle, err := dlopen(abs)
	if err != nil {
		return nil, &LoadError{Path: abs, Err: err}
	}

	l := &Library{
		path:   abs,
		reg:    reg,
		handle: handle,
		funcs:  make(map[string]*Func),
	}
	l.lookup = func(name string) (uintptr, error) {
		return dlsym(handle, name)
	}
	libCache[abs] = l
	log.WithField("library", abs).Debug("library loaded")
	return l, nil
}

// Path returns the absolute path the library was loaded from.
func (l *Library) Path() string { return l.path }

// altNames generates the alternate-convention candidates for a requested
// symbol name.
func altNames(name string) []string {
	var alts []string
	if strings.HasPrefix(name, "EN_") {
		alts = append(alts, "EN"+name[3:])
	}
	if strings.HasPrefix(name, "EN") && len(name) > 2 && name[2] != '_' {
		alts = append(alts, "EN_"+name[2:])
	}
	if strings.HasPrefix(name, "MSX_") {
		alts = append(alts, "MSX"+name[4:])
	}
	if strings.HasPrefix(name, "MSX") && len(name) > 3 && name[3] != '_' {
		alts = append(alts, "MSX_"+name[3:])
	}
	return alts
}

// Resolve returns the callable for name, resolving it on first use. The
// first candidate whose declaration and symbol both exist wins and is cached
// under the originally requested name.
func (l *Library) Resolve(name string) (*Func, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if f, ok := l.funcs[name]; ok {
		return f, nil
	}

	candidates := append([]string{name}, altNames(name)...)
	for _, cand := range candidates {
		sig, ok := l.reg.Signature(cand)
		if !ok {
			continue
		}
		addr, err := l.lookup(cand)
		if err != nil || addr == 0 {
			continue
		}
		f, err := newFunc(sig, addr)
		if err != nil {
			return nil, err
		}
		if cand != name {
			log.WithField("requested", name).WithField("resolved", cand).
				Debug("symbol resolved under alternate convention")
		}
		l.funcs[name] = f
		return f, nil
	}
	return nil, &SymbolError{Name: name, Path: l.path, Tried: candidates}
}

// Func is a resolved, typed native callable.
type Func struct {
	Name string
	sig  Signature
	addr uintptr
	fn   reflect.Value
}

func newFunc(sig Signature, addr uintptr) (f *Func, err error) {
	defer func() {
		// RegisterFunc panics on signatures it cannot marshal; surface that
		// as the configuration error it is.
		if r := recover(); r != nil {
			err = &DeclError{Proto: sig.Proto, Err: fmt.Errorf("%v", r)}
		}
	}()
	fnPtr := reflect.New(sig.Type())
	purego.RegisterFunc(fnPtr.Interface(), addr)
	return &Func{Name: sig.Name, sig: sig, addr: addr, fn: fnPtr.Elem()}, nil
}

// Addr returns the resolved symbol address.
func (f *Func) Addr() uintptr { return f.addr }

// Signature returns the compiled declaration the callable dispatches with.
func (f *Func) Signature() Signature { return f.sig }

// Call invokes the native function. Wrapper cells pass as their raw memory
// handles, strings as interned native text, numerics with the declared
// width. The toolkit's universal int status code is returned; functions
// declared void return 0.
func (f *Func) Call(args ...any) (int32, error) {
	if len(args) != len(f.sig.args) {
		return 0, fmt.Errorf("ffi: %s takes %d arguments, got %d",
			f.Name, len(f.sig.args), len(args))
	}

	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		want := f.sig.args[i]
		v, err := marshalArg(arg, want)
		if err != nil {
			return 0, fmt.Errorf("ffi: %s argument %d: %w", f.Name, i, err)
		}
		in[i] = v
	}

	out := f.fn.Call(in)
	runtime.KeepAlive(args)

	if f.sig.ret == nil || len(out) == 0 {
		return 0, nil
	}
	r := out[0]
	switch r.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return int32(r.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32,
		reflect.Uint64, reflect.Uintptr:
		return int32(r.Uint()), nil
	default:
		return 0, nil
	}
}

func marshalArg(arg any, want reflect.Type) (reflect.Value, error) {
	if arg == nil {
		return reflect.Zero(want), nil
	}
	if want == uintptrType {
		switch a := arg.(type) {
		case PtrHolder:
			return reflect.ValueOf(a.Ptr()), nil
		case string:
			return reflect.ValueOf(CString(a).Ptr()), nil
		case []byte:
			return reflect.ValueOf(CString(string(a)).Ptr()), nil
		}
	}
	v := reflect.ValueOf(arg)
	if v.Type() == want {
		return v, nil
	}
	if v.Type().ConvertibleTo(want) {
		return v.Convert(want), nil
	}
	return reflect.Value{}, fmt.Errorf("cannot pass %T as %s", arg, want)
}
