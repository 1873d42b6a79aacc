package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"pcapinspect/internal/config"
	"pcapinspect/internal/model"
)

// SeriesWriter dumps the time-indexed data series of a report as CSV
// files for the external plotting collaborator: one window-size series
// and one rate series per device.
type SeriesWriter struct {
	outputDir string
}

// NewSeriesWriter creates a new CSV series writer.
func NewSeriesWriter(cfg config.SeriesWriterConfig) model.Writer {
	dir := cfg.OutputDir
	if dir == "" {
		dir = "."
	}
	return &SeriesWriter{outputDir: dir}
}

func (w *SeriesWriter) Write(report *model.Report) error {
	if err := os.MkdirAll(w.outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create series directory: %w", err)
	}

	for _, dev := range report.Devices {
		if dev.Window != nil {
			rows := make([][]string, 0, len(dev.Window.Series)+1)
			rows = append(rows, []string{"time", "window_size"})
			for _, p := range dev.Window.Series {
				rows = append(rows, []string{
					formatFloat(p.Time),
					strconv.Itoa(int(p.Value)),
				})
			}
			if err := w.writeFile(dev.Device+"_winsize.csv", rows); err != nil {
				return err
			}
		}

		if dev.Rate != nil {
			rows := make([][]string, 0, len(dev.Rate.Slots)+1)
			rows = append(rows, []string{"end_time", "frames_per_sec", "tcp_bytes_per_sec", "updates_per_sec"})
			for _, s := range dev.Rate.Slots {
				rows = append(rows, []string{
					formatFloat(s.EndTime),
					formatFloat(s.FramesPerSec),
					formatFloat(s.TCPBytesPerSec),
					formatFloat(s.UpdatesPerSec),
				})
			}
			if err := w.writeFile(dev.Device+"_rates.csv", rows); err != nil {
				return err
			}
		}
	}

	if conv := report.Conversation; conv != nil {
		if err := w.writeRemaining(conv.PeerA, conv.SideA); err != nil {
			return err
		}
		if err := w.writeRemaining(conv.PeerB, conv.SideB); err != nil {
			return err
		}
	}
	return nil
}

func (w *SeriesWriter) writeRemaining(peer string, samples []model.RemainingSample) error {
	rows := make([][]string, 0, len(samples)+1)
	rows = append(rows, []string{"frame", "remaining", "negative_since_frame"})
	for _, s := range samples {
		rows = append(rows, []string{
			strconv.Itoa(s.Frame),
			strconv.Itoa(s.Remaining),
			strconv.Itoa(s.NegativeSinceFrame),
		})
	}
	return w.writeFile(peer+"_remaining.csv", rows)
}

func (w *SeriesWriter) writeFile(name string, rows [][]string) error {
	filePath := filepath.Join(w.outputDir, name)
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create series file '%s': %w", filePath, err)
	}
	defer file.Close()

	cw := csv.NewWriter(file)
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write series file '%s': %w", filePath, err)
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
