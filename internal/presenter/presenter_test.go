package presenter

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wcharczuk/go-chart/v2"

	"PortfolioBench/internal/alignment"
	"PortfolioBench/internal/collector"
	"PortfolioBench/internal/model"
)

func comparison(t *testing.T, ticker model.Ticker, months int) *model.Comparison {
	t.Helper()
	snaps, obs := collector.GenerateMockSeries(time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC), months)
	var (
		s   *model.AlignedSeries
		err error
	)
	if ticker.Mode() == model.ModePPL {
		s, err = alignment.AlignPortfolio(snaps)
	} else {
		s, err = alignment.Align(snaps, obs)
	}
	require.NoError(t, err)
	return &model.Comparison{Ticker: ticker, Series: s}
}

func TestBuildBenchmarkMode(t *testing.T) {
	fig, err := Build(comparison(t, model.DefaultTicker, 24), Options{BenchmarkName: "^GSPC"})
	require.NoError(t, err)

	assert.Equal(t, Title, fig.Title)
	assert.Empty(t, fig.SecondaryName)
	assert.Equal(t, 2, fig.TickStep)
	require.Len(t, fig.Lines, 2)

	assert.Equal(t, "Portfolio % Change", fig.Lines[0].Name)
	assert.Equal(t, "^GSPC % Change", fig.Lines[1].Name)
	assert.True(t, fig.Lines[1].Filled)
	assert.Equal(t, AxisPrimary, fig.Lines[1].Axis)
	assert.Equal(t, 0.0, fig.Lines[1].Values[0])
	assert.Equal(t, "23.00%", fig.Lines[0].EndLabel)
	assert.Equal(t, "46.00%", fig.Lines[1].EndLabel)
	assert.Less(t, fig.PrimaryRange[0], 0.0)
	assert.Greater(t, fig.PrimaryRange[1], 46.0)
}

func TestBuildPPLMode(t *testing.T) {
	fig, err := Build(comparison(t, model.ParseTicker("ppl"), 5), Options{})
	require.NoError(t, err)

	require.Len(t, fig.Lines, 2)
	assert.Equal(t, "PPL", fig.SecondaryName)
	assert.Equal(t, AxisSecondary, fig.Lines[1].Axis)
	assert.Equal(t, RoleProfitAndLoss, fig.Lines[1].Role)
	assert.False(t, fig.Lines[1].Filled)
	assert.Equal(t, "200.00", fig.Lines[1].EndLabel)
	assert.Equal(t, 1, fig.TickStep)
}

func TestBuildRejectsEmpty(t *testing.T) {
	_, err := Build(nil, Options{})
	assert.Error(t, err)
	_, err = Build(&model.Comparison{Series: &model.AlignedSeries{}}, Options{})
	assert.Error(t, err)
}

func TestTicksAndSpan(t *testing.T) {
	fig := Figure{Labels: []string{"a", "b", "c", "d", "e"}, TickStep: 2}
	assert.Equal(t, []int{0, 2, 4}, fig.Ticks())

	fig.Labels = append(fig.Labels, "current")
	assert.Equal(t, []int{0, 2, 4, 5}, fig.Ticks())

	fig.Lines = []Line{{Values: make([]float64, 8)}}
	assert.Equal(t, 8, fig.Span())
}

func TestChartUsesSecondaryAxisOnlyForPPL(t *testing.T) {
	fig, err := Build(comparison(t, model.ParseTicker("ppl"), 3), Options{})
	require.NoError(t, err)
	ch := Chart(fig)
	assert.Equal(t, "PPL", ch.YAxisSecondary.Name)

	var secondary int
	for _, s := range ch.Series {
		if s.GetYAxis() == chart.YAxisSecondary {
			secondary++
		}
	}
	assert.Equal(t, 2, secondary)
}

func TestRenderPNGAndSVG(t *testing.T) {
	fig, err := Build(comparison(t, model.DefaultTicker, 14), Options{Width: 640, Height: 360})
	require.NoError(t, err)

	var png bytes.Buffer
	require.NoError(t, Render(&png, fig, FormatPNG))
	assert.True(t, bytes.HasPrefix(png.Bytes(), []byte("\x89PNG")))

	var svg bytes.Buffer
	require.NoError(t, Render(&svg, fig, FormatSVG))
	assert.Contains(t, svg.String(), "<svg")
}

func TestRenderSinglePoint(t *testing.T) {
	fig, err := Build(comparison(t, model.DefaultTicker, 1), Options{Width: 320, Height: 240})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, fig, FormatPNG))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")))

	ch := Chart(fig)
	require.Len(t, ch.XAxis.Ticks, 2)
	assert.Equal(t, model.CurrentLabel, ch.XAxis.Ticks[0].Label)
	assert.Equal(t, 1.0, ch.XAxis.Ticks[1].Value)

	line, ok := ch.Series[0].(chart.ContinuousSeries)
	require.True(t, ok)
	assert.Equal(t, []float64{0, 1}, line.XValues)
	assert.Equal(t, line.YValues[0], line.YValues[1])

	end, ok := ch.Series[1].(chart.AnnotationSeries)
	require.True(t, ok)
	assert.Equal(t, 0.0, end.Annotations[0].XValue)
}

func TestChartTicksCoverLongerBenchmark(t *testing.T) {
	fig := Figure{
		Labels:   []string{"01-2024", model.CurrentLabel},
		TickStep: 1,
		Lines: []Line{
			{Values: []float64{0, 1}},
			{Values: []float64{0, 2, 3}},
		},
		PrimaryRange: [2]float64{-1, 4},
		Width:        320,
		Height:       240,
	}
	ch := Chart(fig)
	last := ch.XAxis.Ticks[len(ch.XAxis.Ticks)-1]
	assert.Equal(t, 2.0, last.Value)
	assert.Empty(t, last.Label)

	var buf bytes.Buffer
	assert.NoError(t, Render(&buf, fig, FormatSVG))
}

func TestRenderFile(t *testing.T) {
	fig, err := Build(comparison(t, model.DefaultTicker, 6), Options{Width: 320, Height: 240})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out", "chart.svg")
	require.NoError(t, RenderFile(path, fig))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<svg")
	assert.Equal(t, FormatPNG, FormatFor("chart.png"))
}
