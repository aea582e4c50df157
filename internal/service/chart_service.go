package service

import (
	"image/color"
	"math"
	"os"
	"path/filepath"

	"studentmanager/internal/logger"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

const (
	ChartTitle  = "Grafic Note Studenți"
	ChartXLabel = "Studenți"
	ChartYLabel = "Note"
)

var barColor = color.RGBA{R: 128, G: 0, B: 128, A: 255}

// ChartService renders the grade bar chart to an image file.
type ChartService struct {
	path string
	log  logger.Logger
}

func NewChartService(path string, log logger.Logger) *ChartService {
	return &ChartService{path: path, log: log}
}

// Build lays out the bar chart without writing it anywhere.
func (s *ChartService) Build(points []GradePoint) (*plot.Plot, error) {
	if len(points) == 0 {
		return nil, ErrNoData
	}

	names := make([]string, len(points))
	grades := make(plotter.Values, len(points))
	for i, p := range points {
		names[i] = p.Name
		grades[i] = p.Grade
	}

	p := plot.New()
	p.Title.Text = ChartTitle
	p.X.Label.Text = ChartXLabel
	p.Y.Label.Text = ChartYLabel

	bars, err := plotter.NewBarChart(grades, vg.Points(20))
	if err != nil {
		return nil, err
	}
	bars.Color = barColor
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)

	p.NominalX(names...)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter
	p.Y.Min = 0
	p.Y.Max = 10
	return p, nil
}

// Render draws the chart as a PNG at the configured path and returns it.
func (s *ChartService) Render(points []GradePoint) (string, error) {
	p, err := s.Build(points)
	if err != nil {
		return "", err
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			s.log.Error("chart", err, map[string]interface{}{"path": s.path})
			return "", err
		}
	}
	if err := p.Save(10*vg.Inch, 6*vg.Inch, s.path); err != nil {
		s.log.Error("chart", err, map[string]interface{}{"path": s.path})
		return "", err
	}

	s.log.Info("chart", "chart rendered", map[string]interface{}{
		"path": s.path,
		"bars": len(points),
	})
	return s.path, nil
}
