// SPDX-License-Identifier: MIT

package history

import (
	"errors"
	"fmt"
	"io"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// ErrNoData indicates a chart request without any point.
var ErrNoData = errors.New("history: nothing to plot")

// ErrorFloor replaces non-positive errors on the logarithmic axis.
const ErrorFloor = 1e-17

// DPI of WritePNG.
const DPI = 96

// Series is one labelled error curve.
type Series struct {
	Name   string
	Points []Point
}

// Chart plots error against iteration, one line per non-empty series, on a
// logarithmic error axis.
//
// Errors: ErrNoData.
func Chart(title string, series ...Series) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "iteration"
	p.Y.Label.Text = "error"
	p.Y.Scale = plot.LogScale{}
	p.Y.Tick.Marker = plot.LogTicks{Prec: -1}
	p.Add(plotter.NewGrid())
	p.Legend.Top = true

	drawn := 0
	for i, s := range series {
		if len(s.Points) == 0 {
			continue
		}
		xys := make(plotter.XYs, len(s.Points))
		for k, pt := range s.Points {
			xys[k].X = float64(pt.Iter)
			xys[k].Y = math.Max(pt.Error, ErrorFloor)
		}
		line, err := plotter.NewLine(xys)
		if err != nil {
			return nil, fmt.Errorf("history.Chart: series %q: %w", s.Name, err)
		}
		line.LineStyle.Width = vg.Points(1.5)
		line.LineStyle.Color = plotutil.Color(i)
		p.Add(line)
		p.Legend.Add(s.Name, line)
		drawn++
	}
	if drawn == 0 {
		return nil, fmt.Errorf("history.Chart: %w", ErrNoData)
	}

	return p, nil
}

// WritePNG rasterizes p at the given size and writes it as PNG.
func WritePNG(w io.Writer, p *plot.Plot, width, height vg.Length) error {
	c := vgimg.NewWith(vgimg.UseWH(width, height), vgimg.UseDPI(DPI))
	p.Draw(draw.New(c))
	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(w); err != nil {
		return fmt.Errorf("history.WritePNG: %w", err)
	}

	return nil
}
