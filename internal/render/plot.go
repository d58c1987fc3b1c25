package render

import (
	"bufio"
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// Series is one labeled curve of a time-series plot.
type Series struct {
	Label  string
	Values []float64
}

// limitedTicker caps the number of axis labels so dense plots stay legible.
func limitedTicker(maxLabels int, labelFmt string) plot.Ticker {
	if maxLabels < 2 {
		maxLabels = 2
	}
	return plot.TickerFunc(func(min, max float64) []plot.Tick {
		if math.IsNaN(min) || math.IsNaN(max) || math.IsInf(min, 0) || math.IsInf(max, 0) {
			return nil
		}
		if min == max {
			return []plot.Tick{{Value: min, Label: fmt.Sprintf(labelFmt, min)}}
		}
		step := (max - min) / float64(maxLabels-1)
		ticks := make([]plot.Tick, 0, maxLabels)
		for i := 0; i < maxLabels; i++ {
			v := min + float64(i)*step
			ticks = append(ticks, plot.Tick{Value: v, Label: fmt.Sprintf(labelFmt, v)})
		}
		return ticks
	})
}

func stylePlot(p *plot.Plot) {
	p.Title.TextStyle.Font.Size = vg.Points(16)
	p.Title.Padding = vg.Points(8)

	p.X.Label.TextStyle.Font.Size = vg.Points(12)
	p.Y.Label.TextStyle.Font.Size = vg.Points(12)
	p.X.Label.Padding = vg.Points(6)
	p.Y.Label.Padding = vg.Points(6)

	p.X.Tick.Label.Font.Size = vg.Points(10)
	p.Y.Tick.Label.Font.Size = vg.Points(10)

	p.X.Tick.Marker = limitedTicker(10, "%.1f")
	p.Y.Tick.Marker = limitedTicker(10, "%.2f")

	p.Legend.Top = true
}

func savePlotPNG(p *plot.Plot, widthIn, heightIn float64, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory for %s: %w", path, err)
		}
	}

	c := vgimg.NewWith(
		vgimg.UseWH(vg.Length(widthIn)*vg.Inch, vg.Length(heightIn)*vg.Inch),
		vgimg.UseDPI(150),
	)
	p.Draw(draw.New(c))

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	defer bw.Flush()

	pngc := vgimg.PngCanvas{Canvas: c}
	if _, err := pngc.WriteTo(bw); err != nil {
		return fmt.Errorf("write png %s: %w", path, err)
	}
	return nil
}

// TimeSeriesPlot writes a PNG with one line per series against times.
func TimeSeriesPlot(path, title, ylabel string, times []float64, series ...Series) error {
	if len(times) == 0 || len(series) == 0 {
		return fmt.Errorf("plot data empty")
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "time (s)"
	p.Y.Label.Text = ylabel
	stylePlot(p)

	for i, s := range series {
		if len(s.Values) != len(times) {
			return fmt.Errorf("series %q: %d values for %d times", s.Label, len(s.Values), len(times))
		}
		pts := make(plotter.XYs, len(times))
		for j := range times {
			pts[j].X = times[j]
			pts[j].Y = s.Values[j]
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return err
		}
		line.LineStyle.Width = vg.Points(1.5)
		line.Color = linePalette[i%len(linePalette)]
		p.Add(line)
		p.Legend.Add(s.Label, line)
	}

	return savePlotPNG(p, 8.0, 5.0, path)
}

// PhasePlot writes a PNG of ys against xs (a phase portrait).
func PhasePlot(path, title, xlabel, ylabel string, xs, ys []float64) error {
	if len(xs) == 0 || len(xs) != len(ys) {
		return fmt.Errorf("phase plot data invalid: %d vs %d points", len(xs), len(ys))
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xlabel
	p.Y.Label.Text = ylabel
	stylePlot(p)

	pts := make(plotter.XYs, len(xs))
	for i := range xs {
		pts[i].X = xs[i]
		pts[i].Y = ys[i]
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	line.LineStyle.Width = vg.Points(0.8)
	p.Add(line)

	return savePlotPNG(p, 6.0, 6.0, path)
}

// LogSeparationPlot writes the twin-trajectory separation on a log scale.
// Zero separations are floored to keep the log axis finite.
func LogSeparationPlot(path, title string, times, separation []float64) error {
	if len(times) == 0 || len(times) != len(separation) {
		return fmt.Errorf("separation data invalid")
	}

	logSep := make([]float64, len(separation))
	for i, s := range separation {
		if s < 1e-16 {
			s = 1e-16
		}
		logSep[i] = math.Log10(s)
	}

	return TimeSeriesPlot(path, title, "log10 separation", times, Series{Label: "|dx|", Values: logSep})
}

var linePalette = []color.RGBA{
	{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff},
	{R: 0xff, G: 0x7f, B: 0x0e, A: 0xff},
	{R: 0x2c, G: 0xa0, B: 0x2c, A: 0xff},
	{R: 0xd6, G: 0x27, B: 0x28, A: 0xff},
}
