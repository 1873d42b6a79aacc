package model

// Writer defines a generic interface for persisting an analysis report.
// The implementation is expected to know which parts of the report it
// cares about.
type Writer interface {
	Write(report *Report) error
}
