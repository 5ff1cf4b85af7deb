package epanet

import (
	"fmt"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/array"
	"github.com/apache/arrow/go/v18/arrow/memory"
)

// Series holds one property sampled for every node (or link) at each
// hydraulic event of a stepped run. Values[id][k] is the sample at
// Times[k].
type Series struct {
	Property string
	Times    []int64 // seconds from simulation start
	IDs      []string
	Values   map[string][]float64
}

// RunHydraulics executes a stepped hydraulic simulation and samples the
// given property at every node after each solution. The hydraulic solver is
// opened and closed around the run.
func (p *Project) RunHydraulics(prop NodeProperty) (*Series, error) {
	n, err := p.Count(NodeCount)
	if err != nil {
		return nil, err
	}
	s := &Series{
		Property: fmt.Sprintf("node property %d", prop),
		Values:   make(map[string][]float64, n),
	}
	for i := 1; i <= n; i++ {
		id, err := p.NodeID(i)
		if err != nil {
			return nil, err
		}
		s.IDs = append(s.IDs, id)
	}

	if err := p.OpenH(); err != nil {
		return nil, err
	}
	defer p.CloseH()
	if err := p.InitH(NoSave); err != nil {
		return nil, err
	}
	for {
		t, err := p.RunH()
		if err != nil {
			return nil, err
		}
		s.Times = append(s.Times, t)
		for i, id := range s.IDs {
			v, err := p.NodeValue(i+1, prop)
			if err != nil {
				return nil, err
			}
			s.Values[id] = append(s.Values[id], v)
		}
		tstep, err := p.NextH()
		if err != nil {
			return nil, err
		}
		if tstep == 0 {
			break
		}
	}
	return s, nil
}

// Len returns the number of sampled time steps.
func (s *Series) Len() int { return len(s.Times) }

// At returns the sample for one ID at time step k.
func (s *Series) At(id string, k int) float64 { return s.Values[id][k] }

// Record converts the series to an Arrow record with a time column followed
// by one float64 column per ID. The caller owns the returned record and must
// Release it.
func (s *Series) Record() (arrow.Record, error) {
	for _, id := range s.IDs {
		if len(s.Values[id]) != len(s.Times) {
			return nil, fmt.Errorf("epanet: series for %q has %d samples, want %d",
				id, len(s.Values[id]), len(s.Times))
		}
	}

	fields := make([]arrow.Field, 0, len(s.IDs)+1)
	fields = append(fields, arrow.Field{Name: "time", Type: arrow.PrimitiveTypes.Int64})
	for _, id := range s.IDs {
		fields = append(fields, arrow.Field{Name: id, Type: arrow.PrimitiveTypes.Float64})
	}
	schema := arrow.NewSchema(fields, nil)

	b := array.NewRecordBuilder(memory.NewGoAllocator(), schema)
	defer b.Release()

	b.Field(0).(*array.Int64Builder).AppendValues(s.Times, nil)
	for i, id := range s.IDs {
		b.Field(i + 1).(*array.Float64Builder).AppendValues(s.Values[id], nil)
	}
	return b.NewRecord(), nil
}
