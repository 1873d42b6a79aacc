package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DeviceDef maps a source address to a human-readable device label. The
// address may be a plain IP or a CIDR prefix.
type DeviceDef struct {
	Address string `yaml:"address"`
	Label   string `yaml:"label"`
}

// ConversationConfig selects the two-peer TCP conversation whose
// remaining receive windows are tracked. WindowScales holds the RFC 1323
// scale exponents for peer_a and peer_b, for captures that miss the
// handshake where the factors were exchanged.
type ConversationConfig struct {
	PeerA        string `yaml:"peer_a"`
	PeerB        string `yaml:"peer_b"`
	WindowScales []int  `yaml:"window_scales"`
}

// AnalysisConfig holds the knobs of the per-device analyses.
type AnalysisConfig struct {
	// Protocols lists the protocol tags of interest for the delta
	// analysis. The "All" group is always computed and need not be
	// listed.
	Protocols []string `yaml:"protocols"`
	// NumTimeSlots is the number of buckets used by the rate analysis.
	NumTimeSlots int `yaml:"num_time_slots"`
	// StopAnalysisTime cuts the window and rate analyses off after this
	// many seconds of capture time. Zero means no cutoff.
	StopAnalysisTime float64 `yaml:"stop_analysis_time"`
	// Conversation enables remaining-receive-window tracking for one
	// two-peer TCP conversation. Nil disables the analysis.
	Conversation *ConversationConfig `yaml:"conversation"`
}

// ClickHouseConfig holds the connection details for ClickHouse-backed
// writers and queriers.
type ClickHouseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Database string `yaml:"database"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// TextWriterConfig configures the text report writer.
type TextWriterConfig struct {
	OutputDir string `yaml:"output_dir"`
}

// SeriesWriterConfig configures the CSV data-series writer.
type SeriesWriterConfig struct {
	OutputDir string `yaml:"output_dir"`
}

// WriterDef defines a single report writer from the config file.
type WriterDef struct {
	Type       string             `yaml:"type"`
	Enabled    bool               `yaml:"enabled"`
	Text       TextWriterConfig   `yaml:"text"`
	Series     SeriesWriterConfig `yaml:"series"`
	ClickHouse ClickHouseConfig   `yaml:"clickhouse"`
}

// PublisherConfig configures the NATS report publisher.
type PublisherConfig struct {
	Enabled bool   `yaml:"enabled"`
	NATSURL string `yaml:"nats_url"`
	Subject string `yaml:"subject"`
}

// APIConfig configures the HTTP query API.
type APIConfig struct {
	ListenAddr string `yaml:"listen_addr"`
}

// Config is the top-level configuration struct for the entire application.
type Config struct {
	Devices   []DeviceDef     `yaml:"devices"`
	Analysis  AnalysisConfig  `yaml:"analysis"`
	Writers   []WriterDef     `yaml:"writers"`
	Publisher PublisherConfig `yaml:"publisher"`
	API       APIConfig       `yaml:"api"`
}

// LoadConfig reads the configuration from a YAML file and returns a Config struct.
func LoadConfig(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal config YAML: %w", err)
	}

	if cfg.Analysis.NumTimeSlots <= 0 {
		cfg.Analysis.NumTimeSlots = 80
	}

	return &cfg, nil
}
