package export

import (
	"fmt"
	"image/color"
	"io"
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/san-kum/trajprox/internal/proximity"
)

// PNG plots every series against time and saves the image at path.
func PNG(path string, series *proximity.Series, dt float64, title string) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Time (s)"
	p.Y.Label.Text = "Distance (m)"

	if series.Len() > 0 {
		labels := series.Labels()
		colors := palette(len(labels))
		for i, label := range labels {
			values, _ := series.Get(label)
			pts := make(plotter.XYs, len(values))
			for j, v := range values {
				pts[j] = plotter.XY{X: float64(j) * dt, Y: v}
			}
			line, err := plotter.NewLine(pts)
			if err != nil {
				return fmt.Errorf("series %s: %w", label, err)
			}
			line.Color = colors[i]
			line.Width = vg.Points(1)
			p.Add(line)
			p.Legend.Add(label, line)
		}
	}

	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10

	return p.Save(10*vg.Inch, 5*vg.Inch, path)
}

// HTML renders an interactive line chart of every series.
func HTML(w io.Writer, series *proximity.Series, dt float64, title string) error {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "1100px", Height: "600px"}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: fmt.Sprintf("%d series, dt=%gs", series.Len(), dt)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "bottom"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "t (s)", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: "distance (m)", NameLocation: "middle", NameGap: 40}),
	)

	times := make([]string, series.NodeCount())
	for i := range times {
		times[i] = fmt.Sprintf("%.3f", float64(i)*dt)
	}
	line.SetXAxis(times)

	if series.Len() > 0 {
		for _, label := range series.Labels() {
			values, _ := series.Get(label)
			data := make([]opts.LineData, len(values))
			for i, v := range values {
				data[i] = opts.LineData{Value: v}
			}
			line.AddSeries(label, data, charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}))
		}
	}

	return line.Render(w)
}

// palette spreads n colours evenly around the hue circle.
func palette(n int) []color.Color {
	colors := make([]color.Color, n)
	for i := range colors {
		r, g, b := hueToRGB(float64(i) / float64(n))
		colors[i] = color.RGBA{R: r, G: g, B: b, A: 255}
	}
	return colors
}

// hueToRGB converts a hue in [0, 1) at 70% saturation and 50% lightness.
func hueToRGB(h float64) (r, g, b uint8) {
	const s, l = 0.7, 0.5
	c := (1 - math.Abs(2*l-1)) * s
	x := c * (1 - math.Abs(math.Mod(h*6, 2)-1))
	m := l - c/2

	var rf, gf, bf float64
	switch int(h * 6) {
	case 0:
		rf, gf = c, x
	case 1:
		rf, gf = x, c
	case 2:
		gf, bf = c, x
	case 3:
		gf, bf = x, c
	case 4:
		rf, bf = x, c
	default:
		rf, bf = c, x
	}
	return uint8((rf + m) * 255), uint8((gf + m) * 255), uint8((bf + m) * 255)
}
