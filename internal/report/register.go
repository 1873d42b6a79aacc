package report

import (
	"pcapinspect/internal/config"
	"pcapinspect/internal/factory"
	"pcapinspect/internal/model"
)

func init() {
	factory.RegisterWriter("text", func(def config.WriterDef) (model.Writer, error) {
		return NewTextWriter(def.Text), nil
	})
	factory.RegisterWriter("series", func(def config.WriterDef) (model.Writer, error) {
		return NewSeriesWriter(def.Series), nil
	})
	factory.RegisterWriter("clickhouse", func(def config.WriterDef) (model.Writer, error) {
		return NewClickHouseWriter(def.ClickHouse)
	})
}
