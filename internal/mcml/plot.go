package mcml

import (
	"errors"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// Figure size of fluence plots.
const (
	plotWidth  = 6 * vg.Inch
	plotHeight = 4 * vg.Inch
)

// FluenceSeries is one labelled curve of a fluence plot.
type FluenceSeries struct {
	Label  string
	Result *Result
}

// fluenceXY returns the positive fluence samples of r against depth. The
// deepest grid line also collects the splat of the first out-of-range row
// and is left out.
func fluenceXY(r *Result) plotter.XYs {
	f := r.Fluence()
	z := r.Depths()
	xy := make(plotter.XYs, 0, len(f))
	for i := 0; i < len(f)-1; i++ {
		if f[i] > 0 {
			xy = append(xy, plotter.XY{X: z[i], Y: f[i]})
		}
	}
	return xy
}

// PlotFluence draws fluence against depth on a log axis for each series
// and saves the figure to path; the format follows the extension.
func PlotFluence(path, title string, series []FluenceSeries) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "z [cm]"
	p.Y.Label.Text = "fluence [-]"
	p.Y.Scale = plot.LogScale{}
	p.Y.Tick.Marker = plot.LogTicks{Prec: -1}
	p.Add(plotter.NewGrid())

	var lines []interface{}
	for _, s := range series {
		xy := fluenceXY(s.Result)
		if len(xy) == 0 {
			Log.Warnf("Series %q has no positive fluence, skipping", s.Label)
			continue
		}
		lines = append(lines, s.Label, xy)
	}
	if len(lines) == 0 {
		return errors.New("mcml: nothing to plot")
	}
	if err := plotutil.AddLines(p, lines...); err != nil {
		return err
	}
	return p.Save(plotWidth, plotHeight, path)
}
