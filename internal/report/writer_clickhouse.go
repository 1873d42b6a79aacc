package report

import (
	"context"
	"fmt"
	"log"

	"pcapinspect/internal/config"
	"pcapinspect/internal/model"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

const createTableStatement = `
CREATE TABLE IF NOT EXISTS frame_delta_stats (
    Timestamp   DateTime,
    Capture     String,
    Device      String,
    GroupTag    String,
    FrameCount  UInt64,
    DeltaCount  UInt64,
    AvgDelta    Nullable(Float64),
    MinDelta    Nullable(Float64),
    MinTime     Nullable(Float64),
    MinFrame    Nullable(UInt64),
    MaxDelta    Nullable(Float64),
    MaxTime     Nullable(Float64),
    MaxFrame    Nullable(UInt64)
) ENGINE = MergeTree()
PARTITION BY toYYYYMM(Timestamp)
ORDER BY (Capture, Device, GroupTag, Timestamp);
`

// ClickHouseWriter implements the model.Writer interface for ClickHouse,
// persisting the per-group delta statistics of each device.
type ClickHouseWriter struct {
	conn driver.Conn
}

// NewClickHouseWriter creates a new ClickHouse writer.
func NewClickHouseWriter(cfg config.ClickHouseConfig) (model.Writer, error) {
	conn, err := Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to clickhouse: %w", err)
	}

	if err := conn.Exec(context.Background(), createTableStatement); err != nil {
		return nil, fmt.Errorf("failed to create table: %w", err)
	}
	log.Println("Successfully connected to ClickHouse and ensured table exists.")

	return &ClickHouseWriter{conn: conn}, nil
}

// Connect opens a ClickHouse connection and verifies it with a ping.
func Connect(cfg config.ClickHouseConfig) (driver.Conn, error) {
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{addr},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.Username,
			Password: cfg.Password,
		},
		Debug: false,
		Compression: &clickhouse.Compression{
			Method: clickhouse.CompressionLZ4,
		},
	})

	if err != nil {
		return nil, err
	}

	if err := conn.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to ping clickhouse: %w", err)
	}

	return conn, nil
}

// Write inserts one row per device and protocol group into the
// frame_delta_stats table. Groups that carried an error are skipped:
// partial statistics are never persisted for them.
func (w *ClickHouseWriter) Write(report *model.Report) error {
	batch, err := w.conn.PrepareBatch(context.Background(), "INSERT INTO frame_delta_stats")
	if err != nil {
		return fmt.Errorf("failed to prepare batch: %w", err)
	}

	rowCount := 0
	for _, dev := range report.Devices {
		for _, group := range dev.Deltas {
			if group.Err != nil {
				continue
			}
			stats := group.Stats
			var avg, minV, minT, maxV, maxT interface{}
			var minF, maxF interface{}
			if stats.HasDeltas() {
				avg = stats.Average
				minV, minT, minF = stats.Min.Value, stats.Min.Time, uint64(stats.Min.Frame)
				maxV, maxT, maxF = stats.Max.Value, stats.Max.Time, uint64(stats.Max.Frame)
			}
			err = batch.Append(
				report.GeneratedAt,
				report.Capture,
				dev.Device,
				group.Tag,
				uint64(stats.FrameCount),
				uint64(stats.DeltaCount),
				avg,
				minV, minT, minF,
				maxV, maxT, maxF,
			)
			if err != nil {
				return fmt.Errorf("failed to append group to batch: %w", err)
			}
			rowCount++
		}
	}

	if rowCount == 0 {
		return nil // Nothing to write
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("failed to send batch: %w", err)
	}

	log.Printf("Wrote %d delta stat rows to ClickHouse for capture '%s'", rowCount, report.Capture)
	return nil
}
