// Package device reads card records from a serial card reader.
package device

import (
	"fmt"
	"io"
	"time"

	"go.bug.st/serial"
)

// Port is an open device channel. Read returns (0, nil) when the read timeout
// elapses without data, matching go.bug.st/serial semantics.
type Port interface {
	io.ReadCloser
	SetReadTimeout(t time.Duration) error
}

// Opener opens the device channel for the duration of one capture.
type Opener interface {
	Open() (Port, error)
}

// SerialOpener opens a serial port in 8N1 mode.
type SerialOpener struct {
	Name     string
	BaudRate int
}

// NewSerialOpener returns an Opener for the serial device at name.
func NewSerialOpener(name string, baudRate int) *SerialOpener {
	return &SerialOpener{Name: name, BaudRate: baudRate}
}

// Open opens the port and discards any bytes buffered before the capture started.
func (o *SerialOpener) Open() (Port, error) {
	port, err := serial.Open(o.Name, &serial.Mode{
		BaudRate: o.BaudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port: %w", err)
	}

	if err := port.ResetInputBuffer(); err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("failed to reset serial input buffer: %w", err)
	}
	return port, nil
}
