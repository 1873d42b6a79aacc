package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"pcapinspect/internal/config"
	"pcapinspect/internal/model"
)

// TextWriter renders the analysis report as a plain-text summary, either
// to stdout or to a file under the configured output directory.
type TextWriter struct {
	outputDir string
}

// NewTextWriter creates a new text report writer. An empty output
// directory writes to stdout.
func NewTextWriter(cfg config.TextWriterConfig) model.Writer {
	return &TextWriter{outputDir: cfg.OutputDir}
}

func (w *TextWriter) Write(report *model.Report) error {
	if w.outputDir == "" {
		return Render(os.Stdout, report)
	}
	if err := os.MkdirAll(w.outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}
	base := strings.TrimSuffix(filepath.Base(report.Capture), filepath.Ext(report.Capture))
	filePath := filepath.Join(w.outputDir, base+"_report.txt")
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create report file '%s': %w", filePath, err)
	}
	defer file.Close()
	return Render(file, report)
}

// Render writes the text summary of a report.
func Render(w io.Writer, report *model.Report) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Capture %s: %d frames\n", report.Capture, report.FrameCount)

	b.WriteString("\nUnique source MAC addresses and their associated IP addresses:\n")
	for _, m := range report.MACs {
		fmt.Fprintf(&b, "  %s (%s): %s\n", m.MAC, m.Vendor, strings.Join(m.IPs, ", "))
	}

	b.WriteString("\nUnique source IP addresses and their associated MAC addresses:\n")
	for _, ip := range report.IPs {
		fmt.Fprintf(&b, "  %s: %s\n", ip.IP, strings.Join(ip.MACs, ", "))
	}

	for _, dev := range report.Devices {
		fmt.Fprintf(&b, "\n%s", dev.Device)
		if dev.SourceIP != "" {
			fmt.Fprintf(&b, " (%s)", dev.SourceIP)
		}
		b.WriteString("\n")

		if dev.EOR != nil {
			fmt.Fprintf(&b, "%s EOR is in frame %d at %.6f\n", dev.Device, dev.EOR.Frame, dev.EOR.Time)
		}

		fmt.Fprintf(&b, "%s frame time deltas\n", dev.Device)
		for _, group := range dev.Deltas {
			renderGroup(&b, group)
		}

		if dev.Window != nil {
			fmt.Fprintf(&b, "\nAll %s TCP Window Size:\n", dev.Device)
			fmt.Fprintf(&b, "  Minimum window size %d at %.6f (frame %d)\n",
				dev.Window.Min.Size, dev.Window.Min.Time, dev.Window.Min.Frame)
			fmt.Fprintf(&b, "  Maximum window size %d at %.6f (frame %d)\n",
				dev.Window.Max.Size, dev.Window.Max.Time, dev.Window.Max.Frame)
		}
	}

	if report.Conversation != nil {
		renderConversation(&b, report.Conversation)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func renderConversation(b *strings.Builder, conv *model.ConversationReport) {
	fmt.Fprintf(b, "\nRemaining rx window between %s and %s:\n", conv.PeerA, conv.PeerB)
	renderRemaining(b, conv.PeerA, conv.SideA)
	renderRemaining(b, conv.PeerB, conv.SideB)
}

func renderRemaining(b *strings.Builder, peer string, samples []model.RemainingSample) {
	for _, s := range samples {
		if s.NegativeSinceFrame > 0 {
			fmt.Fprintf(b, "  %s rx window went negative (%d) at frame %d, window set in frame %d\n",
				peer, s.Remaining, s.Frame, s.NegativeSinceFrame)
			return
		}
	}
	fmt.Fprintf(b, "  %s rx window never went negative\n", peer)
}

func renderGroup(b *strings.Builder, group model.GroupResult) {
	fmt.Fprintf(b, "  %s:\n", group.Tag)
	if group.Err != nil {
		fmt.Fprintf(b, "    Error: %v\n", group.Err)
		return
	}
	stats := group.Stats
	if !stats.HasDeltas() {
		fmt.Fprintf(b, "    Insufficient data (%d frames)\n", stats.FrameCount)
		return
	}
	fmt.Fprintf(b, "    Average frame time delta: %.6f (%d frames)\n", stats.Average, stats.FrameCount)
	fmt.Fprintf(b, "    Minimum delta %.6f at %.6f (frame %d)\n",
		stats.Min.Value, stats.Min.Time, stats.Min.Frame)
	fmt.Fprintf(b, "    Maximum delta %.6f at %.6f (frame %d)\n",
		stats.Max.Value, stats.Max.Time, stats.Max.Frame)
}
