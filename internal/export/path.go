// Package export renders stored runs for viewing outside the terminal.
package export

import (
	"errors"
	"image/color"
	"io"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/san-kum/autodrive/internal/sim"
)

var ErrShortPath = errors.New("export: path needs at least two points")

var (
	pathColor   = color.RGBA{R: 0x00, G: 0x99, B: 0x33, A: 0xff}
	startColor  = color.RGBA{R: 0x33, G: 0x66, B: 0xcc, A: 0xff}
	endColor    = color.RGBA{R: 0xcc, G: 0x33, B: 0x33, A: 0xff}
	targetColor = color.RGBA{R: 0xdd, G: 0xaa, B: 0x00, A: 0xff}
)

type Point struct{ X, Y float64 }

// PathFromStates takes the field position out of each pose row.
func PathFromStates(states [][]float64) []Point {
	path := make([]Point, 0, len(states))
	for _, s := range states {
		if len(s) > sim.StateY {
			path = append(path, Point{s[sim.StateX], s[sim.StateY]})
		}
	}
	return path
}

type PathOptions struct {
	Title         string
	Width, Height vg.Length
	// Target, if set, is marked and kept in frame.
	Target *Point
}

func DefaultPathOptions() PathOptions {
	return PathOptions{Width: 6 * vg.Inch, Height: 8 * vg.Inch}
}

// Frame returns axis limits around the path and target, padded by a tenth
// and widened on one axis so x and y share a scale at the given aspect
// (width over height).
func Frame(path []Point, target *Point, aspect float64) (minX, maxX, minY, maxY float64) {
	minX, maxX = math.Inf(1), math.Inf(-1)
	minY, maxY = math.Inf(1), math.Inf(-1)
	grow := func(p Point) {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	for _, p := range path {
		grow(p)
	}
	if target != nil {
		grow(*target)
	}

	rx := math.Max(maxX-minX, 1) * 1.2
	ry := math.Max(maxY-minY, 1) * 1.2
	if rx/ry < aspect {
		rx = ry * aspect
	} else {
		ry = rx / aspect
	}
	cx, cy := (minX+maxX)/2, (minY+maxY)/2
	return cx - rx/2, cx + rx/2, cy - ry/2, cy + ry/2
}

func xys(pts ...Point) plotter.XYs {
	out := make(plotter.XYs, len(pts))
	for i, p := range pts {
		out[i] = plotter.XY{X: p.X, Y: p.Y}
	}
	return out
}

func marker(p Point, c color.Color, shape draw.GlyphDrawer) (*plotter.Scatter, error) {
	s, err := plotter.NewScatter(xys(p))
	if err != nil {
		return nil, err
	}
	s.GlyphStyle.Color = c
	s.GlyphStyle.Radius = vg.Points(4)
	s.GlyphStyle.Shape = shape
	return s, nil
}

// PathPlot draws a robot's path across the field in inches, +y away from
// the start line.
func PathPlot(path []Point, opts PathOptions) (*plot.Plot, error) {
	if len(path) < 2 {
		return nil, ErrShortPath
	}

	p := plot.New()
	p.Title.Text = opts.Title
	p.X.Label.Text = "x (in)"
	p.Y.Label.Text = "y (in)"
	p.X.Min, p.X.Max, p.Y.Min, p.Y.Max = Frame(path, opts.Target, float64(opts.Width/opts.Height))
	p.Add(plotter.NewGrid())

	line, err := plotter.NewLine(xys(path...))
	if err != nil {
		return nil, err
	}
	line.Color = pathColor
	line.Width = vg.Points(1.5)
	p.Add(line)

	start, err := marker(path[0], startColor, draw.CircleGlyph{})
	if err != nil {
		return nil, err
	}
	end, err := marker(path[len(path)-1], endColor, draw.CircleGlyph{})
	if err != nil {
		return nil, err
	}
	p.Add(start, end)
	p.Legend.Add("path", line)
	p.Legend.Add("start", start)
	p.Legend.Add("end", end)

	if opts.Target != nil {
		t, err := marker(*opts.Target, targetColor, draw.BoxGlyph{})
		if err != nil {
			return nil, err
		}
		p.Add(t)
		p.Legend.Add("target", t)
	}
	return p, nil
}

// WritePath renders the path plot as svg, png or pdf.
func WritePath(w io.Writer, path []Point, opts PathOptions, format string) error {
	p, err := PathPlot(path, opts)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(opts.Width, opts.Height, format)
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}
