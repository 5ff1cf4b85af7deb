package epanet

import (
	"runtime"

	"github.com/WaterFutures/epanet-go/ffi"
)

// MSX is one open EPANET-MSX multi-species quality session. It layers on an
// already-opened EPANET project: the underlying toolkit reads the hydraulic
// state the EPANET library holds, so open the project first and keep it open
// for the session's lifetime.
type MSX struct {
	lib *ffi.Library
}

// MSXOptions configures how an MSX session is opened.
type MSXOptions struct {
	// LibraryPath overrides library discovery (see LocateMSX).
	LibraryPath string
	// HeaderPath builds the declaration set from a single header instead of
	// the defaults.
	HeaderPath string
}

// OpenMSX loads the MSX toolkit library and opens the given .msx input file.
func OpenMSX(msxFile string, o *MSXOptions) (*MSX, error) {
	if o == nil {
		o = &MSXOptions{}
	}
	path := o.LibraryPath
	if path == "" {
		var err error
		path, err = LocateMSX()
		if err != nil {
			return nil, err
		}
	}

	var (
		lib *ffi.Library
		err error
	)
	if o.HeaderPath != "" {
		lib, err = ffi.OpenWithHeader(path, o.HeaderPath)
	} else {
		lib, err = ffi.Open(path)
	}
	if err != nil {
		return nil, err
	}

	m := &MSX{lib: lib}
	if err := m.call("open", msxFile); err != nil {
		return nil, err
	}
	log.WithField("library", lib.Path()).WithField("input", msxFile).
		Debug("msx session opened")
	return m, nil
}

// Library returns the loaded MSX library backing this session.
func (m *MSX) Library() *ffi.Library { return m.lib }

func (m *MSX) call(base string, args ...any) error {
	f, err := m.lib.Resolve("MSX" + base)
	if err != nil {
		return err
	}
	code, err := f.Call(args...)
	if err != nil {
		return err
	}
	return checkMSX(m.lib, code)
}

// checkMSX maps an MSX status code to Go. MSX has no warning band; any
// nonzero code is an error.
func checkMSX(lib *ffi.Library, code int32) error {
	if code == 0 {
		return nil
	}
	return &Error{Code: code, Message: geterror(lib, "MSXgeterror", code)}
}

// Close ends the MSX session and frees the toolkit's data.
func (m *MSX) Close() error { return m.call("close") }

// SolveH runs a complete hydraulic simulation and saves results for the
// quality engine.
func (m *MSX) SolveH() error { return m.call("solveH") }

// UseHydFile directs the session to read hydraulics from a previously saved
// hydraulics file instead of running the solver.
func (m *MSX) UseHydFile(path string) error { return m.call("usehydfile", path) }

// SolveQ runs a complete multi-species quality simulation.
func (m *MSX) SolveQ() error { return m.call("solveQ") }

// Init initializes the quality engine prior to a stepped run. saveResults
// controls whether intermediate results are saved to the binary output file.
func (m *MSX) Init(saveResults bool) error {
	flag := int32(0)
	if saveResults {
		flag = 1
	}
	return m.call("init", flag)
}

// Step advances the quality simulation one step and returns the current
// simulation time and the time left, both in seconds. The time-left
// out-parameter is a C long on most platforms but a double on Windows
// builds of the library.
func (m *MSX) Step() (t, tleft float64, err error) {
	tc := ffi.NewDouble()
	if runtime.GOOS == "windows" {
		left := ffi.NewDouble()
		if err := m.call("step", tc, left); err != nil {
			return 0, 0, err
		}
		return tc.Value(), left.Value(), nil
	}
	left := ffi.NewLong()
	if err := m.call("step", tc, left); err != nil {
		return 0, 0, err
	}
	return tc.Value(), float64(left.Value()), nil
}

// Count returns the number of objects of the given MSX type.
func (m *MSX) Count(obj MSXObject) (int, error) {
	n := ffi.NewInt()
	if err := m.call("getcount", int32(obj), n); err != nil {
		return 0, err
	}
	return int(n.Value()), nil
}

// Index returns the 1-based index of a named MSX object.
func (m *MSX) Index(obj MSXObject, id string) (int, error) {
	idx := ffi.NewInt()
	if err := m.call("getindex", int32(obj), id, idx); err != nil {
		return 0, err
	}
	return int(idx.Value()), nil
}

// ID returns the ID name of an MSX object given its index.
func (m *MSX) ID(obj MSXObject, index int) (string, error) {
	buf := ffi.NewBuffer(MaxID)
	if err := m.call("getID", int32(obj), int32(index), buf, int32(MaxID-1)); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Species describes one chemical species in the loaded model.
type Species struct {
	Index int
	ID    string
	// Kind is MSXBulk or MSXWall.
	Kind int32
	// Units is the species mass unit code.
	Units string
	// ATol and RTol are the integrator tolerances.
	ATol, RTol float64
}

// GetSpecies retrieves the attributes of the species at the given index.
func (m *MSX) GetSpecies(index int) (Species, error) {
	id, err := m.ID(MSXSpecies, index)
	if err != nil {
		return Species{}, err
	}
	kind := ffi.NewInt()
	units := ffi.NewBuffer(MaxID)
	atol := ffi.NewDouble()
	rtol := ffi.NewDouble()
	if err := m.call("getspecies", int32(index), kind, units, atol, rtol); err != nil {
		return Species{}, err
	}
	return Species{
		Index: index,
		ID:    id,
		Kind:  kind.Value(),
		Units: units.String(),
		ATol:  atol.Value(),
		RTol:  rtol.Value(),
	}, nil
}

// Quality returns the concentration of a species at a node or link at the
// current point of a stepped simulation.
func (m *MSX) Quality(obj MSXObject, index, species int) (float64, error) {
	v := ffi.NewDouble()
	if err := m.call("getqual", int32(obj), int32(index), int32(species), v); err != nil {
		return 0, err
	}
	return v.Value(), nil
}

// SaveOutFile copies the binary results of a completed run to the given
// file.
func (m *MSX) SaveOutFile(path string) error { return m.call("saveoutfile", path) }

// Report writes quality results to the MSX report file.
func (m *MSX) Report() error { return m.call("report") }
