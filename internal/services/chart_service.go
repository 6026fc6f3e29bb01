package services

import (
	"bytes"
	"fmt"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/bartoszk747-code/trend/internal/models"
)

// ChartService renders trend reports as chart images.
type ChartService struct{}

func NewChartService() *ChartService {
	return &ChartService{}
}

// RenderTrendPNG draws the report's price points as a line chart PNG. The
// main series carries the velocity line; comparison points are drawn as a
// second, fainter series when present.
func (s *ChartService) RenderTrendPNG(report models.TrendReport) ([]byte, error) {
	var mainX, compX []time.Time
	var mainY, compY []float64

	for _, p := range report.Points {
		if p.IsMain {
			mainX = append(mainX, p.Date)
			mainY = append(mainY, p.Price)
		} else {
			compX = append(compX, p.Date)
			compY = append(compY, p.Price)
		}
	}

	// A line needs two points. Fall back to the full point set when the
	// main series alone is too thin.
	if len(mainX) < 2 {
		mainX, mainY = nil, nil
		for _, p := range report.Points {
			mainX = append(mainX, p.Date)
			mainY = append(mainY, p.Price)
		}
		compX, compY = nil, nil
	}
	if len(mainX) < 2 {
		return nil, fmt.Errorf("not enough data points to generate a chart")
	}

	series := []chart.Series{
		chart.TimeSeries{
			Name:    "Main series",
			XValues: mainX,
			YValues: mainY,
			Style: chart.Style{
				StrokeColor: drawing.ColorFromHex("2ecc71"),
				StrokeWidth: 3.0,
			},
		},
	}
	if len(compX) >= 2 {
		series = append(series, chart.TimeSeries{
			Name:    "Comparison",
			XValues: compX,
			YValues: compY,
			Style: chart.Style{
				StrokeColor:     drawing.ColorFromHex("95a5a6"),
				StrokeWidth:     1.5,
				StrokeDashArray: []float64{4.0, 4.0},
			},
		})
	}

	graph := chart.Chart{
		Title: report.Query + " - Price Trend",
		TitleStyle: chart.Style{
			FontSize: 16,
		},
		XAxis: chart.XAxis{
			Name:           "Listed",
			ValueFormatter: chart.TimeValueFormatterWithFormat("2006-01-02"),
		},
		YAxis: chart.YAxis{
			Name: "Price",
			ValueFormatter: func(v interface{}) string {
				if typed, ok := v.(float64); ok {
					if typed >= 1000 {
						return fmt.Sprintf("$%.1fK", typed/1000)
					}
					return fmt.Sprintf("$%.0f", typed)
				}
				return ""
			},
		},
		Series: series,
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, err
	}

	return buffer.Bytes(), nil
}
