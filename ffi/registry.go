package ffi

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
)

// The opaque project-handle typedef every declaration set opens with.
const manualPreamble = "typedef void *EN_Project;\n"

// The shipped MSX binaries disagree with the header about MSXstep's second
// out-parameter: the Windows build writes a double, the others a long. The
// auto-extracted prototype is discarded and this one substituted.
func msxStepOverride() string {
	if runtime.GOOS == "windows" {
		return "int MSXstep(double *t, double *tleft);\n"
	}
	return "int MSXstep(double *t, long *tleft);\n"
}

// DefaultHeaders returns the header paths scanned when no header is supplied:
// the toolkit header, the 2.2 header, and the multi-species extension header,
// under each candidate libraries directory. Order matters only for the
// extractor's first-seen de-duplication.
func DefaultHeaders() []string {
	dirs := []string{"libraries", filepath.Join("..", "libraries")}
	if env := os.Getenv("EPANET_HEADER_DIR"); env != "" {
		dirs = []string{env}
	}
	var paths []string
	for _, dir := range dirs {
		for _, name := range []string{"epanet2.h", "epanet2_2.h", "epanetmsx.h"} {
			paths = append(paths, filepath.Join(dir, name))
		}
	}
	return paths
}

// Registry builds the process's foreign-function declaration set exactly once
// and compiles it into the signature table the library proxies dispatch with.
// The common already-built case costs one boolean check under the lock's fast
// path; a failed build is cached and reproduced, never retried.
type Registry struct {
	mu      sync.Mutex
	done    bool
	headers []string

	decls string
	sigs  map[string]Signature
	err   error
}

// NewRegistry returns a registry over the given headers, or DefaultHeaders
// when none are supplied.
func NewRegistry(headers ...string) *Registry {
	if len(headers) == 0 {
		headers = DefaultHeaders()
	}
	return &Registry{headers: headers}
}

var defaultRegistry = struct {
	once sync.Once
	reg  *Registry
}{}

// Default returns the process-wide registry over DefaultHeaders.
func Default() *Registry {
	defaultRegistry.once.Do(func() {
		defaultRegistry.reg = NewRegistry()
	})
	return defaultRegistry.reg
}

// Ensure builds the declaration set if it has not been built yet. Safe for
// concurrent first-use: one builder wins, everyone observes its result.
func (r *Registry) Ensure() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.done {
		return r.err
	}
	r.build()
	r.done = true
	return r.err
}

// build assembles preamble + MSXstep override + extracted prototypes, then
// compiles every prototype into the signature table.
func (r *Registry) build() {
	protos := ExtractPrototypes(r.headers)

	// Drop any auto-extracted MSXstep line before substituting the override.
	kept := protos[:0]
	for _, p := range protos {
		if strings.Contains(p, "MSXstep") {
			continue
		}
		kept = append(kept, p)
	}

	var b strings.Builder
	b.WriteString(manualPreamble)
	b.WriteString(msxStepOverride())
	for _, p := range kept {
		b.WriteString(p)
		b.WriteString("\n")
	}
	r.decls = b.String()

	sigs := make(map[string]Signature, len(kept)+1)
	for _, line := range strings.Split(r.decls, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "typedef") {
			continue
		}
		sig, err := ParseSignature(line)
		if err != nil {
			r.err = err
			return
		}
		if _, dup := sigs[sig.Name]; dup {
			// First declaration wins, matching the extractor's dedupe order.
			continue
		}
		sigs[sig.Name] = sig
	}
	r.sigs = sigs
	log.WithField("declarations", len(sigs)).Debug("declaration set compiled")
}

// Decls returns the assembled declaration text, building it first if needed.
func (r *Registry) Decls() (string, error) {
	if err := r.Ensure(); err != nil {
		return "", err
	}
	return r.decls, nil
}

// Signature looks up the compiled signature for a declared function name.
func (r *Registry) Signature(name string) (Signature, bool) {
	if err := r.Ensure(); err != nil {
		return Signature{}, false
	}
	sig, ok := r.sigs[name]
	return sig, ok
}
