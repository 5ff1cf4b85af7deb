package epanet

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/array"
	"github.com/stretchr/testify/require"
)

func sampleSeries() *Series {
	return &Series{
		Property: "pressure",
		Times:    []int64{0, 3600, 7200},
		IDs:      []string{"J1", "J2"},
		Values: map[string][]float64{
			"J1": {110.5, 112.1, 109.8},
			"J2": {98.0, 97.5, 96.9},
		},
	}
}

func TestSeriesRecord(t *testing.T) {
	s := sampleSeries()
	rec, err := s.Record()
	require.NoError(t, err)
	defer rec.Release()

	require.EqualValues(t, 3, rec.NumRows())
	require.EqualValues(t, 3, rec.NumCols())

	schema := rec.Schema()
	require.Equal(t, "time", schema.Field(0).Name)
	require.Equal(t, arrow.PrimitiveTypes.Int64, schema.Field(0).Type)
	require.Equal(t, "J1", schema.Field(1).Name)
	require.Equal(t, arrow.PrimitiveTypes.Float64, schema.Field(1).Type)
	require.Equal(t, "J2", schema.Field(2).Name)

	times := rec.Column(0).(*array.Int64)
	require.Equal(t, []int64{0, 3600, 7200}, times.Int64Values())

	j1 := rec.Column(1).(*array.Float64)
	require.Equal(t, []float64{110.5, 112.1, 109.8}, j1.Float64Values())
}

func TestSeriesRecordRaggedRejected(t *testing.T) {
	s := sampleSeries()
	s.Values["J2"] = s.Values["J2"][:2]

	_, err := s.Record()
	require.Error(t, err)
	require.Contains(t, err.Error(), "J2")
}

func TestSeriesAccessors(t *testing.T) {
	s := sampleSeries()
	require.Equal(t, 3, s.Len())
	require.Equal(t, 112.1, s.At("J1", 1))
}

func TestSeriesSavePlot(t *testing.T) {
	s := sampleSeries()
	out := filepath.Join(t.TempDir(), "pressure.png")
	require.NoError(t, s.SavePlot(out, "Node Pressure", "Pressure (m)"))

	fi, err := os.Stat(out)
	require.NoError(t, err)
	require.NotZero(t, fi.Size())
}
