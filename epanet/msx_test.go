package epanet

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/WaterFutures/epanet-go/ffi"
	"github.com/stretchr/testify/require"
)

func TestOpenMSXMissingLibrary(t *testing.T) {
	isolate(t)
	t.Setenv("EPANET_MSX_LIB", filepath.Join(t.TempDir(), "libepanetmsx.so"))

	_, err := OpenMSX("net2-cl2.msx", nil)
	require.Error(t, err)

	var loadErr *ffi.LoadError
	require.ErrorAs(t, err, &loadErr)
}

func TestMSXSpeciesRoundTrip(t *testing.T) {
	msxFile := os.Getenv("EPANET_TEST_MSX")
	if msxFile == "" {
		t.Skip("EPANET_TEST_MSX not set")
	}
	p := openTestProject(t, false)

	m, err := OpenMSX(msxFile, nil)
	require.NoError(t, err)
	t.Cleanup(func() { m.Close() })

	n, err := m.Count(MSXSpecies)
	require.NoError(t, err)
	require.Greater(t, n, 0)

	sp, err := m.GetSpecies(1)
	require.NoError(t, err)
	require.NotEmpty(t, sp.ID)

	idx, err := m.Index(MSXSpecies, sp.ID)
	require.NoError(t, err)
	require.Equal(t, 1, idx)

	_ = p
}

func TestMSXStepping(t *testing.T) {
	msxFile := os.Getenv("EPANET_TEST_MSX")
	if msxFile == "" {
		t.Skip("EPANET_TEST_MSX not set")
	}
	p := openTestProject(t, false)
	_ = p

	m, err := OpenMSX(msxFile, nil)
	require.NoError(t, err)
	t.Cleanup(func() { m.Close() })

	require.NoError(t, m.SolveH())
	require.NoError(t, m.Init(false))

	for {
		_, tleft, err := m.Step()
		require.NoError(t, err)
		if tleft <= 0 {
			break
		}
	}
}
