package presenter

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Format is an output image encoding.
type Format int

const (
	FormatPNG Format = iota
	FormatSVG
)

// FormatFor picks the encoding from a file extension; anything but .svg is PNG.
func FormatFor(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".svg") {
		return FormatSVG
	}
	return FormatPNG
}

var roleColors = map[Role]drawing.Color{
	RolePortfolio:     chart.ColorRed,
	RoleBenchmark:     chart.ColorAlternateGray,
	RoleProfitAndLoss: chart.ColorBlue,
}

func yAxisType(a Axis) chart.YAxisType {
	if a == AxisSecondary {
		return chart.YAxisSecondary
	}
	return chart.YAxisPrimary
}

// plotValues indexes values by position. go-chart needs two points per
// series, so a single value is stretched into a flat segment over [0, 1].
func plotValues(values []float64) (xs, ys []float64) {
	if len(values) == 1 {
		return []float64{0, 1}, []float64{values[0], values[0]}
	}
	xs = make([]float64, len(values))
	for i := range xs {
		xs[i] = float64(i)
	}
	return xs, values
}

// Chart converts fig into a go-chart definition.
func Chart(fig Figure) chart.Chart {
	span := fig.Span()
	xMax := float64(span - 1)
	if xMax < 1 {
		xMax = 1
	}

	var ticks []chart.Tick
	for _, i := range fig.Ticks() {
		ticks = append(ticks, chart.Tick{Value: float64(i), Label: fig.Labels[i]})
	}
	// go-chart takes the x range from the ticks when any are set.
	if n := len(ticks); n == 0 || ticks[n-1].Value < xMax {
		ticks = append(ticks, chart.Tick{Value: xMax})
	}

	var series []chart.Series
	for _, l := range fig.Lines {
		color := roleColors[l.Role]
		xs, ys := plotValues(l.Values)
		style := chart.Style{StrokeColor: color, StrokeWidth: 2}
		if l.Filled {
			style.FillColor = color.WithAlpha(50)
		}
		series = append(series, chart.ContinuousSeries{
			Name:    l.Name,
			Style:   style,
			YAxis:   yAxisType(l.Axis),
			XValues: xs,
			YValues: ys,
		})
		if l.EndLabel != "" && len(l.Values) > 0 {
			last := len(l.Values) - 1
			series = append(series, chart.AnnotationSeries{
				Style: chart.Style{StrokeColor: color, FontColor: color, FontSize: 10},
				YAxis: yAxisType(l.Axis),
				Annotations: []chart.Value2{
					{XValue: float64(last), YValue: l.Values[last], Label: l.EndLabel},
				},
			})
		}
	}

	ch := chart.Chart{
		Title:      fig.Title,
		Width:      fig.Width,
		Height:     fig.Height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20}},
		XAxis: chart.XAxis{
			Name:  fig.XName,
			Ticks: ticks,
			Range: &chart.ContinuousRange{Min: 0, Max: xMax},
		},
		YAxis: chart.YAxis{
			Name:           fig.PrimaryName,
			Style:          chart.Style{FontColor: roleColors[RolePortfolio]},
			Range:          &chart.ContinuousRange{Min: fig.PrimaryRange[0], Max: fig.PrimaryRange[1]},
			GridMajorStyle: chart.Style{StrokeColor: chart.ColorLightGray, StrokeWidth: 1},
		},
		Series: series,
	}
	if fig.SecondaryName != "" {
		ch.YAxisSecondary = chart.YAxis{
			Name:  fig.SecondaryName,
			Style: chart.Style{FontColor: roleColors[RoleProfitAndLoss]},
			Range: &chart.ContinuousRange{Min: fig.SecondaryRange[0], Max: fig.SecondaryRange[1]},
		}
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	return ch
}

// Render draws fig to w.
func Render(w io.Writer, fig Figure, format Format) error {
	ch := Chart(fig)
	provider := chart.PNG
	if format == FormatSVG {
		provider = chart.SVG
	}
	if err := ch.Render(provider, w); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}

// RenderFile draws fig to path, creating parent directories as needed.
func RenderFile(path string, fig Figure) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(f)
	if err := Render(bw, fig, FormatFor(path)); err != nil {
		f.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
