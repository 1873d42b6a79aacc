// Package query serves stored delta statistics back out of ClickHouse.
package query

import (
	"context"
	"fmt"
	"time"

	"pcapinspect/internal/config"

	"github.com/ClickHouse/clickhouse-go/v2"
)

// GroupDeltaRow is one stored per-group delta statistic row. The
// aggregate columns are pointers because groups with fewer than two
// frames store no average or extremes.
type GroupDeltaRow struct {
	Timestamp  time.Time `json:"timestamp"`
	Capture    string    `json:"capture"`
	Device     string    `json:"device"`
	GroupTag   string    `json:"group"`
	FrameCount uint64    `json:"frame_count"`
	DeltaCount uint64    `json:"delta_count"`
	AvgDelta   *float64  `json:"avg_delta,omitempty"`
	MinDelta   *float64  `json:"min_delta,omitempty"`
	MinTime    *float64  `json:"min_time,omitempty"`
	MinFrame   *uint64   `json:"min_frame,omitempty"`
	MaxDelta   *float64  `json:"max_delta,omitempty"`
	MaxTime    *float64  `json:"max_time,omitempty"`
	MaxFrame   *uint64   `json:"max_frame,omitempty"`
}

// Querier defines the interface for querying stored delta statistics.
type Querier interface {
	DeltaStats(ctx context.Context, capture, device string) ([]GroupDeltaRow, error)
	Captures(ctx context.Context) ([]string, error)
}

// clickhouseQuerier implements the Querier interface for ClickHouse.
type clickhouseQuerier struct {
	conn clickhouse.Conn
}

// NewClickHouseQuerier creates a new querier for ClickHouse.
func NewClickHouseQuerier(cfg config.ClickHouseConfig) (Querier, error) {
	conn, err := connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to clickhouse: %w", err)
	}
	return &clickhouseQuerier{conn: conn}, nil
}

func connect(cfg config.ClickHouseConfig) (clickhouse.Conn, error) {
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{addr},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.Username,
			Password: cfg.Password,
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

// DeltaStats returns the stored per-group statistics for a capture,
// optionally narrowed to one device.
func (q *clickhouseQuerier) DeltaStats(ctx context.Context, capture, device string) ([]GroupDeltaRow, error) {
	query := `
		SELECT Timestamp, Capture, Device, GroupTag, FrameCount, DeltaCount,
		       AvgDelta, MinDelta, MinTime, MinFrame, MaxDelta, MaxTime, MaxFrame
		FROM frame_delta_stats
		WHERE Capture = ?`
	args := []interface{}{capture}
	if device != "" {
		query += " AND Device = ?"
		args = append(args, device)
	}
	query += " ORDER BY Timestamp DESC, Device, GroupTag"

	rows, err := q.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query delta stats: %w", err)
	}
	defer rows.Close()

	var results []GroupDeltaRow
	for rows.Next() {
		var row GroupDeltaRow
		if err := rows.Scan(
			&row.Timestamp, &row.Capture, &row.Device, &row.GroupTag,
			&row.FrameCount, &row.DeltaCount,
			&row.AvgDelta, &row.MinDelta, &row.MinTime, &row.MinFrame,
			&row.MaxDelta, &row.MaxTime, &row.MaxFrame,
		); err != nil {
			return nil, fmt.Errorf("failed to scan delta stats row: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// Captures lists the captures that have stored statistics.
func (q *clickhouseQuerier) Captures(ctx context.Context) ([]string, error) {
	rows, err := q.conn.Query(ctx, "SELECT DISTINCT Capture FROM frame_delta_stats ORDER BY Capture")
	if err != nil {
		return nil, fmt.Errorf("failed to query captures: %w", err)
	}
	defer rows.Close()

	var captures []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("failed to scan capture row: %w", err)
		}
		captures = append(captures, c)
	}
	return captures, rows.Err()
}
