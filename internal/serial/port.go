// Package serial provides the serial connection to the base station
// transceiver.
package serial

import (
	"fmt"
	"io"

	"github.com/tarm/serial"
)

// DefaultBaud is the standard IEC 61162-1 baud rate.
const DefaultBaud = 38400

// Port is an open connection to the transceiver. Sentences are written
// verbatim; the CRLF terminator is part of the rendered sentence.
type Port interface {
	io.WriteCloser
}

// nativePort wraps the tarm/serial implementation.
type nativePort struct {
	port *serial.Port
}

// Open opens the serial device at the given baud rate.
func Open(device string, baud int) (Port, error) {
	if device == "" {
		return nil, fmt.Errorf("serial device cannot be empty")
	}
	if baud <= 0 {
		baud = DefaultBaud
	}

	port, err := serial.OpenPort(&serial.Config{
		Name: device,
		Baud: baud,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", device, err)
	}

	return &nativePort{port: port}, nil
}

// Write writes data to the serial port.
func (p *nativePort) Write(b []byte) (int, error) {
	return p.port.Write(b)
}

// Close closes the serial port.
func (p *nativePort) Close() error {
	if p.port != nil {
		return p.port.Close()
	}
	return nil
}
