// Package manager orchestrates the per-device analyses over a decoded
// capture and dispatches the resulting report to the configured writers.
package manager

import (
	"log"
	"net"
	"sync"
	"time"

	"pcapinspect/internal/config"
	"pcapinspect/internal/engine/delta"
	"pcapinspect/internal/engine/inventory"
	"pcapinspect/internal/engine/rate"
	"pcapinspect/internal/engine/window"
	"pcapinspect/internal/model"
)

// Manager runs the full analysis pipeline for one capture.
type Manager struct {
	cfg     *config.Config
	devices *config.DeviceMap
	writers []model.Writer
}

// NewManager creates a new Manager.
func NewManager(cfg *config.Config, devices *config.DeviceMap, writers []model.Writer) *Manager {
	return &Manager{cfg: cfg, devices: devices, writers: writers}
}

// Analyze computes the address inventory and the per-device analyses over
// the decoded frames. Devices are independent of each other, as are the
// protocol groups within one device, so each device is analyzed on its
// own goroutine.
func (m *Manager) Analyze(capture string, frames []*model.FrameRecord) *model.Report {
	report := &model.Report{
		Capture:     capture,
		GeneratedAt: time.Now(),
		FrameCount:  len(frames),
		MACs:        inventory.SourceMACs(frames),
		IPs:         inventory.SourceIPs(frames),
	}

	labels := m.devices.Labels()
	report.Devices = make([]*model.DeviceReport, len(labels))

	var wg sync.WaitGroup
	wg.Add(len(labels))
	for i, label := range labels {
		go func(i int, label string) {
			defer wg.Done()
			report.Devices[i] = m.analyzeDevice(label, frames)
		}(i, label)
	}
	wg.Wait()

	if conv := m.cfg.Analysis.Conversation; conv != nil {
		report.Conversation = analyzeConversation(conv, frames)
	}

	return report
}

// analyzeConversation tracks the remaining receive windows of the
// configured two-peer conversation. Returns nil when a peer address does
// not parse or the conversation has no frames in the capture.
func analyzeConversation(conv *config.ConversationConfig, frames []*model.FrameRecord) *model.ConversationReport {
	ipA := net.ParseIP(conv.PeerA)
	ipB := net.ParseIP(conv.PeerB)
	if ipA == nil || ipB == nil {
		log.Printf("Skipping conversation analysis: invalid peer address '%s' or '%s'", conv.PeerA, conv.PeerB)
		return nil
	}
	var scaleA, scaleB int
	if len(conv.WindowScales) > 0 {
		scaleA = conv.WindowScales[0]
	}
	if len(conv.WindowScales) > 1 {
		scaleB = conv.WindowScales[1]
	}
	sideA, sideB := window.RemainingRx(frames, ipA, ipB, scaleA, scaleB)
	if len(sideA) == 0 && len(sideB) == 0 {
		return nil
	}
	return &model.ConversationReport{
		PeerA: conv.PeerA,
		PeerB: conv.PeerB,
		SideA: sideA,
		SideB: sideB,
	}
}

// analyzeDevice runs every analysis over the frames sourced by one device.
func (m *Manager) analyzeDevice(label string, frames []*model.FrameRecord) *model.DeviceReport {
	var deviceFrames []*model.FrameRecord
	for _, f := range frames {
		if f.Device == label {
			deviceFrames = append(deviceFrames, f)
		}
	}

	dr := &model.DeviceReport{Device: label}
	if len(deviceFrames) > 0 && deviceFrames[0].SrcIP != nil {
		dr.SourceIP = deviceFrames[0].SrcIP.String()
	}
	for _, f := range deviceFrames {
		if f.HasEOR {
			dr.EOR = &model.EORInfo{Frame: f.Index, Time: f.TimeRelative}
			break
		}
	}

	dr.Deltas = delta.Aggregate(deviceFrames, m.cfg.Analysis.Protocols)
	dr.Window = window.Analyze(deviceFrames, m.cfg.Analysis.StopAnalysisTime)
	dr.Rate = rate.Analyze(deviceFrames, m.cfg.Analysis.NumTimeSlots, m.cfg.Analysis.StopAnalysisTime)
	return dr
}

// Run analyzes the capture and hands the report to every configured
// writer. Writer failures are logged but do not fail the run; the report
// is still returned.
func (m *Manager) Run(capture string, frames []*model.FrameRecord) *model.Report {
	report := m.Analyze(capture, frames)
	for _, w := range m.writers {
		if err := w.Write(report); err != nil {
			log.Printf("Error writing report for capture '%s': %v", capture, err)
		}
	}
	return report
}
