package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"pcapinspect/internal/config"
	"pcapinspect/internal/engine/manager"
	"pcapinspect/internal/engine/protocol"
	"pcapinspect/internal/factory"
	"pcapinspect/internal/publish"
	"pcapinspect/internal/report"
	"pcapinspect/pkg/pcap"
)

// srcIPList collects repeatable --src-ip flags of the form IP or
// IP/LABEL. Without a label the address doubles as the label.
type srcIPList []config.DeviceDef

func (l *srcIPList) String() string {
	parts := make([]string, len(*l))
	for i, d := range *l {
		parts[i] = d.Address + "/" + d.Label
	}
	return strings.Join(parts, ",")
}

func (l *srcIPList) Set(value string) error {
	parts := strings.Split(value, "/")
	switch len(parts) {
	case 1:
		*l = append(*l, config.DeviceDef{Address: parts[0], Label: parts[0]})
	case 2:
		*l = append(*l, config.DeviceDef{Address: parts[0], Label: parts[1]})
	default:
		return fmt.Errorf("source IP must be an IP address, optionally followed by /LABEL")
	}
	return nil
}

func main() {
	var srcIPs srcIPList
	configPath := flag.String("config", "configs/config.yaml", "Path to the YAML configuration file")
	numTimeSlots := flag.Int("n", 0, "Number of time slots for the rate analysis (overrides config)")
	flag.Var(&srcIPs, "src-ip", "Source IP of a device to analyze, optionally as IP/LABEL. Repeatable.")
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: pcapinspect [flags] <path_to_pcap_file>")
		flag.PrintDefaults()
		os.Exit(1)
	}
	pcapFilePath := flag.Arg(0)

	cfg := loadConfig(*configPath)
	cfg.Devices = append(cfg.Devices, srcIPs...)
	if *numTimeSlots > 0 {
		cfg.Analysis.NumTimeSlots = *numTimeSlots
	}
	if len(cfg.Analysis.Protocols) == 0 {
		cfg.Analysis.Protocols = []string{protocol.TagBGP, protocol.TagBGPUpdate, protocol.TagTCP}
	}

	devices, err := config.BuildDeviceMap(cfg.Devices)
	if err != nil {
		log.Fatalf("Invalid device configuration: %v", err)
	}
	if len(devices.Labels()) == 0 {
		log.Fatalf("No devices to analyze: supply --src-ip or a devices section in the config.")
	}

	writers := factory.CreateWriters(cfg)
	if len(writers) == 0 {
		// No sinks configured: fall back to the text summary on stdout.
		writers = append(writers, report.NewTextWriter(config.TextWriterConfig{}))
	}

	reader, err := pcap.NewReader(pcapFilePath)
	if err != nil {
		log.Fatalf("Failed to open pcap file: %v", err)
	}
	defer reader.Close()
	log.Printf("Reading frames from '%s'...", pcapFilePath)

	frames, err := reader.ReadFrames(devices)
	if err != nil {
		log.Fatalf("Failed to decode capture: %v", err)
	}
	log.Printf("Decoded %d frames.", len(frames))

	mgr := manager.NewManager(cfg, devices, writers)
	analysisReport := mgr.Run(pcapFilePath, frames)

	if cfg.Publisher.Enabled {
		publisher, err := publish.NewPublisher(cfg.Publisher)
		if err != nil {
			log.Fatalf("Failed to connect publisher: %v", err)
		}
		defer publisher.Close()
		if err := publisher.Publish(analysisReport); err != nil {
			log.Fatalf("Failed to publish report: %v", err)
		}
		log.Printf("Published report to subject '%s'.", cfg.Publisher.Subject)
	}
}

// loadConfig reads the config file when present; a missing file at the
// default path simply yields the built-in defaults so the tool works with
// --src-ip alone.
func loadConfig(path string) *config.Config {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		log.Printf("Config file '%s' not found, using defaults.", path)
		return &config.Config{Analysis: config.AnalysisConfig{NumTimeSlots: 80}}
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Println("Configuration loaded successfully.")
	return cfg
}
