package chart

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"loadctl/internal/model"
)

// palette cycles across endpoints.
var palette = []color.RGBA{
	{54, 162, 235, 255},  // blue
	{255, 99, 132, 255},  // pinkish-red
	{75, 192, 192, 255},  // teal
	{255, 159, 64, 255},  // orange
	{153, 102, 255, 255}, // purple
	{255, 206, 86, 255},  // yellow
}

// Latency draws one line per endpoint across the latency profile.
func Latency(summaries []model.Summary, path string) error {
	if len(summaries) == 0 {
		return fmt.Errorf("no summaries to chart")
	}

	p := plot.New()
	p.Title.Text = "Response Time Profile"
	p.X.Label.Text = "Statistic"
	p.Y.Label.Text = "Time (ms)"

	for i, s := range summaries {
		vals := []float64{s.MinMs, s.MedianMs, s.AvgMs, s.P90Ms, s.P95Ms, s.P99Ms, s.MaxMs}
		pts := make(plotter.XYs, len(vals))
		for j, v := range vals {
			pts[j].X = float64(j + 1)
			pts[j].Y = v
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return err
		}
		line.Color = palette[i%len(palette)]
		line.Width = vg.Points(2)
		p.Add(line)
		p.Legend.Add(s.Endpoint, line)
	}

	p.Legend.Top = true
	p.X.Tick.Marker = plot.ConstantTicks([]plot.Tick{
		{Value: 1, Label: "min"},
		{Value: 2, Label: "med"},
		{Value: 3, Label: "avg"},
		{Value: 4, Label: "p90"},
		{Value: 5, Label: "p95"},
		{Value: 6, Label: "p99"},
		{Value: 7, Label: "max"},
	})
	p.X.Min = 0.5
	p.X.Max = 7.5

	return p.Save(10*vg.Inch, 4*vg.Inch, path)
}

// SuccessRate draws one bar per endpoint with the y-axis pinned to
// 0-105 so a fully passing endpoint is still visibly a bar.
func SuccessRate(summaries []model.Summary, path string) error {
	if len(summaries) == 0 {
		return fmt.Errorf("no summaries to chart")
	}

	p := plot.New()
	p.Title.Text = "Check Success Rate"
	p.Y.Label.Text = "Success (%)"

	values := make(plotter.Values, len(summaries))
	ticks := make([]plot.Tick, len(summaries))
	for i, s := range summaries {
		values[i] = s.SuccessRatePct
		ticks[i] = plot.Tick{Value: float64(i), Label: s.Endpoint}
	}

	bar, err := plotter.NewBarChart(values, vg.Points(40))
	if err != nil {
		return err
	}
	bar.Color = palette[0]
	p.Add(bar)

	p.Y.Min = 0
	p.Y.Max = 105
	p.X.Min = -0.5
	p.X.Max = float64(len(values)) - 0.5
	p.X.Tick.Marker = plot.ConstantTicks(ticks)

	return p.Save(6*vg.Inch, 4*vg.Inch, path)
}

// Throughput draws average and peak requests/sec side by side per
// endpoint.
func Throughput(summaries []model.Summary, path string) error {
	if len(summaries) == 0 {
		return fmt.Errorf("no summaries to chart")
	}

	p := plot.New()
	p.Title.Text = "Request Throughput"
	p.Y.Label.Text = "Requests/sec"

	avg := make(plotter.Values, len(summaries))
	peak := make(plotter.Values, len(summaries))
	ticks := make([]plot.Tick, len(summaries))
	for i, s := range summaries {
		avg[i] = s.RequestsPerSec
		peak[i] = float64(s.PeakRPS)
		ticks[i] = plot.Tick{Value: float64(i), Label: s.Endpoint}
	}

	avgBar, err := plotter.NewBarChart(avg, vg.Points(20))
	if err != nil {
		return err
	}
	avgBar.Color = palette[0]
	avgBar.Offset = -vg.Points(11)

	peakBar, err := plotter.NewBarChart(peak, vg.Points(20))
	if err != nil {
		return err
	}
	peakBar.Color = palette[3]
	peakBar.Offset = vg.Points(11)

	p.Add(avgBar, peakBar)
	p.Legend.Add("avg", avgBar)
	p.Legend.Add("peak", peakBar)
	p.Legend.Top = true

	p.X.Min = -0.5
	p.X.Max = float64(len(summaries)) - 0.5
	p.X.Tick.Marker = plot.ConstantTicks(ticks)

	return p.Save(6*vg.Inch, 4*vg.Inch, path)
}

// DataVolume draws received and sent KB side by side per endpoint.
func DataVolume(summaries []model.Summary, path string) error {
	if len(summaries) == 0 {
		return fmt.Errorf("no summaries to chart")
	}

	p := plot.New()
	p.Title.Text = "Data Volume"
	p.Y.Label.Text = "KB"

	received := make(plotter.Values, len(summaries))
	sent := make(plotter.Values, len(summaries))
	ticks := make([]plot.Tick, len(summaries))
	for i, s := range summaries {
		received[i] = s.BytesReceived / 1024
		sent[i] = s.BytesSent / 1024
		ticks[i] = plot.Tick{Value: float64(i), Label: s.Endpoint}
	}

	recvBar, err := plotter.NewBarChart(received, vg.Points(20))
	if err != nil {
		return err
	}
	recvBar.Color = palette[2]
	recvBar.Offset = -vg.Points(11)

	sentBar, err := plotter.NewBarChart(sent, vg.Points(20))
	if err != nil {
		return err
	}
	sentBar.Color = palette[4]
	sentBar.Offset = vg.Points(11)

	p.Add(recvBar, sentBar)
	p.Legend.Add("received", recvBar)
	p.Legend.Add("sent", sentBar)
	p.Legend.Top = true

	p.X.Min = -0.5
	p.X.Max = float64(len(summaries)) - 0.5
	p.X.Tick.Marker = plot.ConstantTicks(ticks)

	return p.Save(6*vg.Inch, 4*vg.Inch, path)
}

// WriteAll renders every chart into dir using prefix for file names and
// returns the written paths.
func WriteAll(dir, prefix string, summaries []model.Summary) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	charts := []struct {
		suffix string
		render func([]model.Summary, string) error
	}{
		{"latency", Latency},
		{"success", SuccessRate},
		{"throughput", Throughput},
		{"volume", DataVolume},
	}

	paths := make([]string, 0, len(charts))
	for _, c := range charts {
		path := filepath.Join(dir, fmt.Sprintf("%s_%s.png", prefix, c.suffix))
		if err := c.render(summaries, path); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}
