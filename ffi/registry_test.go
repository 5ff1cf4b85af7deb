package ffi

import (
	"os"
	"runtime"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func platformMSXStep() string {
	if runtime.GOOS == "windows" {
		return "int MSXstep(double *t, double *tleft);"
	}
	return "int MSXstep(double *t, long *tleft);"
}

func TestRegistryComposition(t *testing.T) {
	h := writeHeader(t, "api.h",
		"int ENopen(char *f1, char *f2, char *f3);\n"+
			"int MSXopen(char *f);\n")

	reg := NewRegistry(h)
	decls, err := reg.Decls()
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(decls), "\n")
	require.Equal(t, "typedef void *EN_Project;", lines[0])
	require.Equal(t, platformMSXStep(), lines[1])
	require.Contains(t, lines, "int ENopen(char *f1, char *f2, char *f3);")
	require.Contains(t, lines, "int MSXopen(char *f);")
}

func TestRegistryMSXStepOverride(t *testing.T) {
	// Whatever the header declares for MSXstep must be discarded in favor of
	// the hand-fixed platform signature.
	h := writeHeader(t, "msx.h",
		"int MSXstep(float *bogus, int *alsobogus);\n"+
			"int MSXclose(void);\n")

	reg := NewRegistry(h)
	decls, err := reg.Decls()
	require.NoError(t, err)

	require.NotContains(t, decls, "bogus")
	require.Contains(t, decls, platformMSXStep())

	sig, ok := reg.Signature("MSXstep")
	require.True(t, ok)
	require.Equal(t, 2, sig.NumArgs())
}

func TestRegistryBuildsOnce(t *testing.T) {
	h := writeHeader(t, "api.h", "int ENclose(void);\n")
	reg := NewRegistry(h)

	first, err := reg.Decls()
	require.NoError(t, err)

	// Changing the input after the first build must not change the result.
	require.NoError(t, os.WriteFile(h, []byte("int ENopen(char *f1);\n"), 0o644))

	second, err := reg.Decls()
	require.NoError(t, err)
	require.Equal(t, first, second)

	_, ok := reg.Signature("ENopen")
	require.False(t, ok)
}

func TestRegistryConcurrentEnsure(t *testing.T) {
	h := writeHeader(t, "api.h", "int ENclose(void);\nint ENopen(char *f1);\n")
	reg := NewRegistry(h)

	const n = 16
	decls := make([]string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			d, err := reg.Decls()
			require.NoError(t, err)
			decls[i] = d
		}(i)
	}
	wg.Wait()

	for i := 1; i < n; i++ {
		require.Equal(t, decls[0], decls[i])
	}
}

func TestRegistryCompileErrorPropagatesAndSticks(t *testing.T) {
	h := writeHeader(t, "api.h", "int ENfoo(widget_t w);\n")
	reg := NewRegistry(h)

	err := reg.Ensure()
	require.Error(t, err)
	var declErr *DeclError
	require.ErrorAs(t, err, &declErr)

	// Inputs are static; the failure is cached, not retried.
	again := reg.Ensure()
	require.Equal(t, err, again)
}

func TestRegistryMissingHeadersYieldPreambleOnly(t *testing.T) {
	reg := NewRegistry("/nonexistent/epanet2.h")
	decls, err := reg.Decls()
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(decls), "\n")
	require.Len(t, lines, 2) // typedef + MSXstep override
}

func TestDefaultHeadersSet(t *testing.T) {
	t.Setenv("EPANET_HEADER_DIR", "/opt/epanet/include")
	paths := DefaultHeaders()
	require.Len(t, paths, 3)
	for _, want := range []string{"epanet2.h", "epanet2_2.h", "epanetmsx.h"} {
		found := false
		for _, p := range paths {
			if strings.HasSuffix(p, want) {
				found = true
			}
		}
		require.True(t, found, "missing %s", want)
	}
}
