package epanet

import (
	"math"

	"github.com/WaterFutures/epanet-go/ffi"
)

// Options configures how a Project is opened.
type Options struct {
	// LibraryPath overrides library discovery (see Locate).
	LibraryPath string
	// HeaderPath builds the declaration set from a single header instead of
	// the defaults.
	HeaderPath string
	// UseProjectHandle selects the multi-instance EN_ symbol family backed
	// by an explicit project handle. The default is the legacy
	// single-global-instance family.
	UseProjectHandle bool
}

// Project is one open EPANET simulation session. It is not safe for
// concurrent use; the native toolkit serializes nothing on the caller's
// behalf.
type Project struct {
	lib *ffi.Library
	ph  *ffi.ProjectPtr // nil in legacy mode
}

// Open reads an EPANET input file using the legacy single-instance family
// and the discovered toolkit library.
func Open(inpFile, rptFile, outFile string) (*Project, error) {
	return OpenWithOptions(inpFile, rptFile, outFile, &Options{})
}

// OpenWithOptions reads an EPANET input file with explicit library and mode
// selection.
func OpenWithOptions(inpFile, rptFile, outFile string, o *Options) (*Project, error) {
	if o == nil {
		o = &Options{}
	}
	path := o.LibraryPath
	if path == "" {
		var err error
		path, err = Locate()
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

	p := &Project{lib: lib}
	if o.UseProjectHandle {
		p.ph = ffi.NewProjectPtr()
		create, err := lib.Resolve("EN_createproject")
		if err != nil {
			return nil, err
		}
		code, err := create.Call(p.ph)
		if err != nil {
			return nil, err
		}
		if err := checkCode(lib, "ENgeterror", code); err != nil {
			return nil, err
		}
	}
	if err := p.call("open", inpFile, rptFile, outFile); err != nil {
		if p.ph != nil {
			p.deleteProject()
		}
		return nil, err
	}
	log.WithField("library", lib.Path()).WithField("input", inpFile).
		Debug("project opened")
	return p, nil
}

// Library returns the loaded toolkit library backing this project.
func (p *Project) Library() *ffi.Library { return p.lib }

// fn maps an operation name to the symbol family the project was opened
// under. The proxy's alternate-convention fallback still applies when the
// preferred family is absent from this build of the library.
func (p *Project) fn(base string) string {
	if p.ph != nil {
		return "EN_" + base
	}
	return "EN" + base
}

// callCode invokes a toolkit function, prepending the project handle in
// handle mode, and returns the raw status code.
func (p *Project) callCode(base string, args ...any) (int32, error) {
	f, err := p.lib.Resolve(p.fn(base))
	if err != nil {
		return 0, err
	}
	if p.ph != nil {
		args = append([]any{p.ph.Value()}, args...)
	}
	return f.Call(args...)
}

// call invokes a toolkit function and translates its status code.
func (p *Project) call(base string, args ...any) error {
	code, err := p.callCode(base, args...)
	if err != nil {
		return err
	}
	return checkCode(p.lib, "ENgeterror", code)
}

// valueCell returns an out-parameter cell of the width the active symbol
// family writes: the handle family writes doubles, the legacy family floats.
func (p *Project) valueCell() interface {
	ffi.PtrHolder
	float64value() float64
} {
	if p.ph != nil {
		return doubleCell{ffi.NewDouble()}
	}
	return floatCell{ffi.NewFloat()}
}

type doubleCell struct{ *ffi.Cell[float64] }

func (c doubleCell) float64value() float64 { return c.Value() }

type floatCell struct{ *ffi.Cell[float32] }

func (c floatCell) float64value() float64 { return float64(c.Value()) }

// Close ends the session and, in handle mode, destroys the project handle.
func (p *Project) Close() error {
	err := p.call("close")
	if p.ph != nil {
		if derr := p.deleteProject(); err == nil {
			err = derr
		}
		p.ph = nil
	}
	return err
}

func (p *Project) deleteProject() error {
	f, err := p.lib.Resolve("EN_deleteproject")
	if err != nil {
		return err
	}
	code, err := f.Call(p.ph)
	if err != nil {
		return err
	}
	return checkCode(p.lib, "ENgeterror", code)
}

// Version returns the toolkit version number (e.g. 20200 for 2.2.0). The
// function takes no project handle in either family.
func (p *Project) Version() (int, error) {
	v := ffi.NewInt()
	f, err := p.lib.Resolve("ENgetversion")
	if err != nil {
		return 0, err
	}
	code, err := f.Call(v)
	if err != nil {
		return 0, err
	}
	if err := checkCode(p.lib, "ENgeterror", code); err != nil {
		return 0, err
	}
	return int(v.Value()), nil
}

// Count returns the number of objects of the given type.
func (p *Project) Count(t CountType) (int, error) {
	n := ffi.NewInt()
	if err := p.call("getcount", int32(t), n); err != nil {
		return 0, err
	}
	return int(n.Value()), nil
}

// FlowUnits returns the project's flow unit system.
func (p *Project) FlowUnits() (FlowUnits, error) {
	u := ffi.NewInt()
	if err := p.call("getflowunits", u); err != nil {
		return 0, err
	}
	return FlowUnits(u.Value()), nil
}

// NodeIndex returns a node's index (starting from 1) given its ID name.
func (p *Project) NodeIndex(id string) (int, error) {
	idx := ffi.NewInt()
	if err := p.call("getnodeindex", id, idx); err != nil {
		return 0, err
	}
	return int(idx.Value()), nil
}

// NodeID returns a node's ID name given its index.
func (p *Project) NodeID(index int) (string, error) {
	buf := ffi.NewBuffer(MaxID)
	if err := p.call("getnodeid", int32(index), buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// NodeType returns a node's type.
func (p *Project) NodeType(index int) (NodeType, error) {
	t := ffi.NewInt()
	if err := p.call("getnodetype", int32(index), t); err != nil {
		return 0, err
	}
	return NodeType(t.Value()), nil
}

// NodeValue retrieves a property value for a node. A property the toolkit
// reports as unset (code 240) yields NaN without error.
func (p *Project) NodeValue(index int, prop NodeProperty) (float64, error) {
	v := p.valueCell()
	code, err := p.callCode("getnodevalue", int32(index), int32(prop), v)
	if err != nil {
		return 0, err
	}
	if code == 240 {
		return math.NaN(), nil
	}
	if err := checkCode(p.lib, "ENgeterror", code); err != nil {
		return 0, err
	}
	return v.float64value(), nil
}

// SetNodeValue sets a property value for a node.
func (p *Project) SetNodeValue(index int, prop NodeProperty, value float64) error {
	if p.ph != nil {
		return p.call("setnodevalue", int32(index), int32(prop), value)
	}
	return p.call("setnodevalue", int32(index), int32(prop), float32(value))
}

// LinkIndex returns a link's index (starting from 1) given its ID name.
func (p *Project) LinkIndex(id string) (int, error) {
	idx := ffi.NewInt()
	if err := p.call("getlinkindex", id, idx); err != nil {
		return 0, err
	}
	return int(idx.Value()), nil
}

// LinkID returns a link's ID name given its index.
func (p *Project) LinkID(index int) (string, error) {
	buf := ffi.NewBuffer(MaxID)
	if err := p.call("getlinkid", int32(index), buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// LinkType returns a link's type.
func (p *Project) LinkType(index int) (LinkType, error) {
	t := ffi.NewInt()
	if err := p.call("getlinktype", int32(index), t); err != nil {
		return 0, err
	}
	return LinkType(t.Value()), nil
}

// LinkValue retrieves a property value for a link.
func (p *Project) LinkValue(index int, prop LinkProperty) (float64, error) {
	v := p.valueCell()
	if err := p.call("getlinkvalue", int32(index), int32(prop), v); err != nil {
		return 0, err
	}
	return v.float64value(), nil
}

// SetLinkValue sets a property value for a link.
func (p *Project) SetLinkValue(index int, prop LinkProperty, value float64) error {
	if p.ph != nil {
		return p.call("setlinkvalue", int32(index), int32(prop), value)
	}
	return p.call("setlinkvalue", int32(index), int32(prop), float32(value))
}

// TimeParameter retrieves a time parameter, in seconds.
func (p *Project) TimeParameter(param TimeParameter) (int64, error) {
	t := ffi.NewLong()
	if err := p.call("gettimeparam", int32(param), t); err != nil {
		return 0, err
	}
	return int64(t.Value()), nil
}

// SetTimeParameter sets a time parameter, in seconds.
func (p *Project) SetTimeParameter(param TimeParameter, seconds int64) error {
	return p.call("settimeparam", int32(param), ffi.CLong(seconds))
}

// AddPattern adds a new time pattern under the given ID name.
func (p *Project) AddPattern(id string) error {
	return p.call("addpattern", id)
}

// SetPattern replaces all factors of a time pattern.
func (p *Project) SetPattern(index int, factors []float64) error {
	if p.ph != nil {
		arr := ffi.NewArray[float64](len(factors), factors...)
		return p.call("setpattern", int32(index), arr, int32(len(factors)))
	}
	arr := ffi.NewArray[float32](len(factors))
	for i, f := range factors {
		arr.Set(i, float32(f))
	}
	return p.call("setpattern", int32(index), arr, int32(len(factors)))
}

// Hydraulic solver lifecycle.

// SolveH runs a complete hydraulic simulation.
func (p *Project) SolveH() error { return p.call("solveH") }

// OpenH opens the hydraulic solver for a stepped run.
func (p *Project) OpenH() error { return p.call("openH") }

// InitH initializes the network prior to a stepped hydraulic run.
func (p *Project) InitH(flag InitFlag) error {
	return p.call("initH", int32(flag))
}

// RunH computes a hydraulic solution at the current point in time and
// returns that time in seconds.
func (p *Project) RunH() (int64, error) {
	t := ffi.NewLong()
	if err := p.call("runH", t); err != nil {
		return 0, err
	}
	return int64(t.Value()), nil
}

// NextH advances to the next hydraulic event and returns the step length in
// seconds, or 0 at the end of the simulation duration.
func (p *Project) NextH() (int64, error) {
	tstep := ffi.NewLong()
	if err := p.call("nextH", tstep); err != nil {
		return 0, err
	}
	return int64(tstep.Value()), nil
}

// CloseH closes the hydraulic solver.
func (p *Project) CloseH() error { return p.call("closeH") }

// Water-quality solver lifecycle.

// SolveQ runs a complete water quality simulation.
func (p *Project) SolveQ() error { return p.call("solveQ") }

// OpenQ opens the water quality solver for a stepped run.
func (p *Project) OpenQ() error { return p.call("openQ") }

// InitQ initializes the network prior to a stepped quality run.
func (p *Project) InitQ(flag InitFlag) error {
	return p.call("initQ", int32(flag))
}

// RunQ makes quality results at the current time available and returns that
// time in seconds.
func (p *Project) RunQ() (int64, error) {
	t := ffi.NewLong()
	if err := p.call("runQ", t); err != nil {
		return 0, err
	}
	return int64(t.Value()), nil
}

// NextQ advances the quality simulation to the next hydraulic event and
// returns the step length in seconds, or 0 at the end.
func (p *Project) NextQ() (int64, error) {
	tstep := ffi.NewLong()
	if err := p.call("nextQ", tstep); err != nil {
		return 0, err
	}
	return int64(tstep.Value()), nil
}

// StepQ advances the quality simulation within the current hydraulic step
// and returns the time remaining in the overall simulation, in seconds.
func (p *Project) StepQ() (int64, error) {
	tleft := ffi.NewLong()
	if err := p.call("stepQ", tleft); err != nil {
		return 0, err
	}
	return int64(tleft.Value()), nil
}

// CloseQ closes the water quality solver.
func (p *Project) CloseQ() error { return p.call("closeQ") }

// Report writes simulation results in tabular form to the report file.
func (p *Project) Report() error { return p.call("report") }
