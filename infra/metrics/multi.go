package metrics

import (
	"errors"

	coremetrics "github.com/kilianp07/motorsim/core/metrics"
)

// MultiSink fans records out to several sinks.
type MultiSink struct {
	sinks []coremetrics.StepSink
}

// NewMultiSink creates a MultiSink.
func NewMultiSink(sinks ...coremetrics.StepSink) *MultiSink {
	return &MultiSink{sinks: sinks}
}

// RecordSteps forwards to every sink and joins the errors.
func (m *MultiSink) RecordSteps(results []coremetrics.StepResult) error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.RecordSteps(results); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
