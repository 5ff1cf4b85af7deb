package epanet

import (
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// SavePlot renders the series as one line per ID and writes it to path. The
// image format follows the file extension (.png, .svg, .pdf).
func (s *Series) SavePlot(path, title, yLabel string) error {
	pl := plot.New()
	pl.Title.Text = title
	pl.X.Label.Text = "Time (h)"
	pl.Y.Label.Text = yLabel

	args := make([]interface{}, 0, 2*len(s.IDs))
	for _, id := range s.IDs {
		vals := s.Values[id]
		pts := make(plotter.XYs, len(s.Times))
		for k, t := range s.Times {
			pts[k].X = float64(t) / 3600
			pts[k].Y = vals[k]
		}
		args = append(args, id, pts)
	}
	if err := plotutil.AddLines(pl, args...); err != nil {
		return err
	}
	return pl.Save(8*vg.Inch, 4*vg.Inch, path)
}
