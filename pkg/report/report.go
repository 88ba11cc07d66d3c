package report

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
)

// lineFormat is the wire format of one reading. Receivers match on this exact
// prefix, so it must not change between firmware and host builds.
const lineFormat = "Canique ULV Board battery voltage: %d mv\n"

// Reporter consumes one millivolt reading per measurement cycle. The sentinel
// value 0 means "no valid samples this cycle", not a 0 V battery.
type Reporter interface {
	Report(millivolts uint16) error
}

// WriterReporter writes the reading line to an io.Writer.
type WriterReporter struct {
	w io.Writer
}

// NewWriter creates a reporter that writes to w.
func NewWriter(w io.Writer) *WriterReporter {
	return &WriterReporter{w: w}
}

// Report writes the reading line.
func (r *WriterReporter) Report(millivolts uint16) error {
	if _, err := fmt.Fprintf(r.w, lineFormat, millivolts); err != nil {
		return fmt.Errorf("failed to write reading: %w", err)
	}
	return nil
}

// LogReporter emits readings through a structured logger. A sentinel reading
// is logged as a warning since the cycle produced no valid samples.
type LogReporter struct {
	log logrus.FieldLogger
}

// NewLog creates a reporter that logs readings.
func NewLog(log logrus.FieldLogger) *LogReporter {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &LogReporter{log: log}
}

// Report logs the reading.
func (r *LogReporter) Report(millivolts uint16) error {
	if millivolts == 0 {
		r.log.Warn("measurement cycle produced no valid samples")
		return nil
	}
	r.log.WithField("millivolts", millivolts).Info("battery voltage")
	return nil
}

// MultiReporter fans a reading out to several sinks. All sinks see the
// reading; the first error is returned.
type MultiReporter []Reporter

// Report delivers the reading to every sink.
func (m MultiReporter) Report(millivolts uint16) error {
	var firstErr error
	for _, r := range m {
		if err := r.Report(millivolts); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
