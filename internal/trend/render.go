package trend

import (
	"fmt"
	"io"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// RenderPNG draws the series as a PNG line chart. go-chart refuses to plot a
// single point, so one-point series are padded with a duplicate.
func RenderPNG(w io.Writer, s *Series) error {
	if len(s.Values) == 0 {
		return fmt.Errorf("trend: empty series")
	}

	times := s.Times()
	values := s.Floats()
	if len(times) == 1 {
		times = append(times, times[0].AddDate(0, 0, 1))
		values = append(values, values[0])
	}

	lineColor := drawing.Color{R: 46, G: 139, B: 87, A: 255}
	graph := chart.Chart{
		Title:  s.Title(),
		Width:  1024,
		Height: 512,
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeDateValueFormatter,
		},
		YAxis: chart.YAxis{
			Name: "Price (KES)",
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    s.Commodity,
				XValues: times,
				YValues: values,
				Style: chart.Style{
					StrokeColor: lineColor,
					StrokeWidth: 2,
					FillColor:   lineColor.WithAlpha(40),
				},
			},
		},
	}

	return graph.Render(chart.PNG, w)
}
