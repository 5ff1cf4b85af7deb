package ffi

import (
	"fmt"
	"reflect"
	"runtime"
	"strings"
)

// Signature is a compiled function declaration: the native name plus the Go
// types used to marshal a call. It is the dynamic-dispatch analog of a cdef'd
// prototype.
type Signature struct {
	Name  string
	Proto string

	ret  reflect.Type // nil for void
	args []reflect.Type
	fn   reflect.Type
}

// Type returns the reflect function type a resolved symbol is registered as.
func (s Signature) Type() reflect.Type { return s.fn }

// NumArgs returns the declared parameter count.
func (s Signature) NumArgs() int { return len(s.args) }

// C type → Go marshaling type. long is the platform word outside Windows
// (LP64) and 32 bits on Windows (LLP64). All pointer-shaped parameters
// travel as uintptr.
func cLongType() reflect.Type {
	if runtime.GOOS == "windows" {
		return reflect.TypeOf(int32(0))
	}
	return reflect.TypeOf(int(0))
}

func cULongType() reflect.Type {
	if runtime.GOOS == "windows" {
		return reflect.TypeOf(uint32(0))
	}
	return reflect.TypeOf(uint(0))
}

var uintptrType = reflect.TypeOf(uintptr(0))

// baseTypes maps a canonical C type phrase to its Go type. nil means void.
func baseTypes() map[string]reflect.Type {
	return map[string]reflect.Type{
		"void":               nil,
		"char":               reflect.TypeOf(int8(0)),
		"unsigned char":      reflect.TypeOf(uint8(0)),
		"short":              reflect.TypeOf(int16(0)),
		"unsigned short":     reflect.TypeOf(uint16(0)),
		"int":                reflect.TypeOf(int32(0)),
		"unsigned":           reflect.TypeOf(uint32(0)),
		"unsigned int":       reflect.TypeOf(uint32(0)),
		"long":               cLongType(),
		"unsigned long":      cULongType(),
		"long long":          reflect.TypeOf(int64(0)),
		"unsigned long long": reflect.TypeOf(uint64(0)),
		"float":              reflect.TypeOf(float32(0)),
		"double":             reflect.TypeOf(float64(0)),
		"size_t":             uintptrType,
		"int64_t":            reflect.TypeOf(int64(0)),
		"uint64_t":           reflect.TypeOf(uint64(0)),
		// Opaque project handle, typedef'd to void* in the registry preamble.
		"EN_Project": uintptrType,
	}
}

// ParseSignature compiles one normalized prototype into a Signature.
// A prototype that cannot be compiled is a configuration error.
func ParseSignature(proto string) (Signature, error) {
	decl := strings.TrimSuffix(strings.TrimSpace(proto), ";")
	open := strings.Index(decl, "(")
	end := strings.LastIndex(decl, ")")
	if open < 0 || end < open {
		return Signature{}, &DeclError{Proto: proto, Err: fmt.Errorf("no argument list")}
	}

	head := strings.Fields(decl[:open])
	if len(head) < 2 {
		return Signature{}, &DeclError{Proto: proto, Err: fmt.Errorf("missing return type")}
	}
	name := head[len(head)-1]
	retTokens := dropQualifiers(head[:len(head)-1])
	if len(retTokens) == 0 {
		return Signature{}, &DeclError{Proto: proto, Err: fmt.Errorf("missing return type")}
	}

	var ret reflect.Type
	if strings.HasPrefix(name, "*") || strings.HasSuffix(retTokens[len(retTokens)-1], "*") {
		// Pointer return; the name may carry the star after normalization.
		name = strings.TrimLeft(name, "*")
		ret = uintptrType
	} else {
		var err error
		ret, err = resolveType(retTokens, false)
		if err != nil {
			return Signature{}, &DeclError{Proto: proto, Err: err}
		}
	}

	var args []reflect.Type
	for _, arg := range splitArgs(decl[open+1 : end]) {
		t, err := parseParam(arg)
		if err != nil {
			return Signature{}, &DeclError{Proto: proto, Err: err}
		}
		if t == nil { // bare void parameter list
			continue
		}
		args = append(args, t)
	}

	var rets []reflect.Type
	if ret != nil {
		rets = []reflect.Type{ret}
	}

	return Signature{
		Name:  name,
		Proto: proto,
		ret:   ret,
		args:  args,
		fn:    reflect.FuncOf(args, rets, false),
	}, nil
}

// splitArgs splits an argument list on top-level commas; commas nested in
// parentheses (function-pointer parameters) do not split.
func splitArgs(list string) []string {
	list = strings.TrimSpace(list)
	if list == "" {
		return nil
	}
	var (
		parts []string
		depth int
		start int
	)
	for i, r := range list {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, list[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, list[start:])
	return parts
}

// parseParam resolves one parameter's marshaling type. Returns nil for a
// bare void parameter list.
func parseParam(arg string) (reflect.Type, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return nil, fmt.Errorf("empty parameter")
	}
	// Pointers, arrays, and function pointers all travel as raw addresses.
	if strings.ContainsAny(arg, "*[(") {
		return uintptrType, nil
	}
	tokens := dropQualifiers(strings.Fields(arg))
	if len(tokens) == 0 {
		return nil, fmt.Errorf("unparseable parameter %q", arg)
	}
	if len(tokens) == 1 && tokens[0] == "void" {
		return nil, nil
	}
	return resolveType(tokens, true)
}

// resolveType matches the longest known C type phrase at the front of tokens.
// When named is true one trailing identifier (the parameter name) may remain.
func resolveType(tokens []string, named bool) (reflect.Type, error) {
	types := baseTypes()
	for n := len(tokens); n > 0; n-- {
		phrase := strings.Join(tokens[:n], " ")
		t, ok := types[phrase]
		if !ok {
			continue
		}
		rest := len(tokens) - n
		if rest == 0 || (named && rest == 1) {
			return t, nil
		}
	}
	return nil, fmt.Errorf("unknown C type %q", strings.Join(tokens, " "))
}

// dropQualifiers removes tokens that do not affect marshaling.
func dropQualifiers(tokens []string) []string {
	out := tokens[:0:0]
	for _, tok := range tokens {
		switch tok {
		case "const", "signed", "struct", "enum", "__stdcall", "volatile":
			continue
		}
		out = append(out, tok)
	}
	return out
}
