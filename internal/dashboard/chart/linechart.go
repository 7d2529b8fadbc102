// Package chart renders the historical score series as a PNG line chart
// with the dashboard's fixed 0-10 vertical scale.
package chart

import (
	"bytes"
	"fmt"
	"os"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"greenpulse/internal/dashboard"
	"greenpulse/internal/modules/emissions/types"
)

var (
	lineColor  = drawing.Color{R: 47, G: 158, B: 95, A: 255}
	fillColor  = drawing.Color{R: 47, G: 158, B: 95, A: 70}
	pointColor = drawing.Color{R: 29, G: 59, B: 42, A: 255}
)

// LinePNG renders the score series to PNG bytes. An empty series renders
// an axes-only chart rather than failing: the library needs two points per
// series, so we anchor it with an invisible baseline.
func LinePNG(points []types.HistoricalPoint, width, height int) ([]byte, error) {
	xs := make([]float64, 0, len(points))
	ys := make([]float64, 0, len(points))
	for i, p := range points {
		xs = append(xs, float64(i))
		ys = append(ys, p.Score)
	}

	// A single reading draws as a flat segment at its score.
	if len(points) == 1 {
		xs = []float64{0, 1}
		ys = []float64{points[0].Score, points[0].Score}
	}

	series := []chart.Series{}
	if len(points) >= 1 {
		series = append(series, chart.ContinuousSeries{
			Name:    "Emission Score",
			XValues: xs,
			YValues: ys,
			Style: chart.Style{
				StrokeColor: lineColor,
				StrokeWidth: 2.0,
				FillColor:   fillColor,
				DotColor:    pointColor,
				DotWidth:    2.0,
			},
		})
	} else {
		series = append(series, chart.ContinuousSeries{
			XValues: []float64{0, 1},
			YValues: []float64{0, 0},
			Style: chart.Style{
				StrokeColor: drawing.ColorTransparent,
				StrokeWidth: 0.01,
			},
		})
	}

	ch := chart.Chart{
		Width:      width,
		Height:     height,
		Background: chart.Style{Padding: chart.Box{Top: 14, Left: 16, Right: 12, Bottom: 28}},
		XAxis: chart.XAxis{
			Ticks:     labelTicks(points),
			TickStyle: chart.Style{TextRotationDegrees: 45.0},
		},
		YAxis: chart.YAxis{
			Name:           "Score",
			Range: &chart.ContinuousRange{Min: 0, Max: 10},
			ValueFormatter: func(v any) string {
				return chart.FloatValueFormatterWithFormat(v, "%.0f")
			},
		},
		Series: series,
	}

	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}
	return buf.Bytes(), nil
}

// labelTicks spaces the time labels so a 24-point day stays readable.
func labelTicks(points []types.HistoricalPoint) []chart.Tick {
	if len(points) == 0 {
		return []chart.Tick{{Value: 0, Label: ""}, {Value: 1, Label: ""}}
	}
	if len(points) == 1 {
		return []chart.Tick{{Value: 0, Label: points[0].Time}, {Value: 1, Label: ""}}
	}
	step := len(points) / 8
	if step < 1 {
		step = 1
	}
	var ticks []chart.Tick
	for i := 0; i < len(points); i += step {
		ticks = append(ticks, chart.Tick{Value: float64(i), Label: points[i].Time})
	}
	last := len(points) - 1
	if ticks[len(ticks)-1].Value != float64(last) {
		ticks = append(ticks, chart.Tick{Value: float64(last), Label: points[last].Time})
	}
	return ticks
}

// Handle is one rendered chart. Dispose releases the pixel data; a
// disposed handle keeps no reference to it.
type Handle struct {
	png []byte
}

func (h *Handle) Dispose() { h.png = nil }

// Bytes returns the rendered PNG, or nil after Dispose.
func (h *Handle) Bytes() []byte { return h.png }

// Renderer implements the dashboard's Chart interface. If Path is set,
// every render also writes the PNG there, replacing the previous frame.
type Renderer struct {
	Width  int
	Height int
	Path   string
}

func NewRenderer(path string) *Renderer {
	return &Renderer{Width: 900, Height: 300, Path: path}
}

func (r *Renderer) Render(points []types.HistoricalPoint) (dashboard.Handle, error) {
	png, err := LinePNG(points, r.Width, r.Height)
	if err != nil {
		return nil, err
	}
	if r.Path != "" {
		if err := os.WriteFile(r.Path, png, 0o644); err != nil {
			return nil, fmt.Errorf("write chart file: %w", err)
		}
	}
	return &Handle{png: png}, nil
}
