package report

import (
	"fmt"

	"go.bug.st/serial"
)

// DefaultBaudRate is the standard baud rate of the ULV board's UART.
const DefaultBaudRate = 115200

// SerialReporter writes the reading line to a serial port, mirroring what the
// board firmware prints on its own UART.
type SerialReporter struct {
	name string
	port serial.Port
}

// OpenSerial opens the named serial port for reporting.
func OpenSerial(name string, baudRate int) (*SerialReporter, error) {
	if baudRate == 0 {
		baudRate = DefaultBaudRate
	}

	port, err := serial.Open(name, &serial.Mode{
		BaudRate: baudRate,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", name, err)
	}

	return &SerialReporter{name: name, port: port}, nil
}

// Report writes the reading line to the port.
func (r *SerialReporter) Report(millivolts uint16) error {
	if _, err := fmt.Fprintf(r.port, lineFormat, millivolts); err != nil {
		return fmt.Errorf("failed to write reading to %s: %w", r.name, err)
	}
	return nil
}

// Close closes the serial port.
func (r *SerialReporter) Close() error {
	if r.port == nil {
		return nil
	}
	if err := r.port.Close(); err != nil {
		return fmt.Errorf("failed to close serial port %s: %w", r.name, err)
	}
	r.port = nil
	return nil
}

// Ports returns the names of the available serial ports.
func Ports() ([]string, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("failed to list serial ports: %w", err)
	}
	return ports, nil
}
