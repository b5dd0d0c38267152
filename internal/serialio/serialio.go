// Package serialio wraps go.bug.st/serial for the hub's one owned serial
// handle: 8-N-1 framing, 9600 baud by default, and a Reopen that preserves
// settings across the hub's ResetPort control frame.
package serialio

import (
	"fmt"
	"time"

	"go.bug.st/serial"
	"go.bug.st/serial/enumerator"
)

// DefaultBaud is the receiver link's default rate.
const DefaultBaud = 9600

// Config describes the fixed 8-N-1 link parameters plus the read timeout
// used to bound each Read call so the hub loop's select can keep rotating.
type Config struct {
	Port        string
	BaudRate    int
	ReadTimeout time.Duration
}

// DefaultConfig returns 8-N-1 at DefaultBaud with a 200ms read timeout.
func DefaultConfig(port string) Config {
	return Config{Port: port, BaudRate: DefaultBaud, ReadTimeout: 200 * time.Millisecond}
}

// Port is the hub's one owned serial handle.
type Port struct {
	cfg  Config
	port serial.Port
}

// Open opens cfg.Port at cfg.BaudRate, 8-N-1.
func Open(cfg Config) (*Port, error) {
	mode := &serial.Mode{
		BaudRate: cfg.BaudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	p, err := serial.Open(cfg.Port, mode)
	if err != nil {
		return nil, fmt.Errorf("serialio: opening %s: %w", cfg.Port, err)
	}
	if err := p.SetReadTimeout(cfg.ReadTimeout); err != nil {
		p.Close()
		return nil, fmt.Errorf("serialio: setting read timeout on %s: %w", cfg.Port, err)
	}
	return &Port{cfg: cfg, port: p}, nil
}

// Read reads into buffer, returning (0, nil) on a read-timeout tick so the
// hub loop can re-poll its other sources.
func (p *Port) Read(buffer []byte) (int, error) {
	return p.port.Read(buffer)
}

// Write writes data to the serial port.
func (p *Port) Write(data []byte) (int, error) {
	return p.port.Write(data)
}

// Close closes the underlying handle.
func (p *Port) Close() error {
	return p.port.Close()
}

// Reopen closes the handle, sleeps delay, then reopens with the same
// settings.
func (p *Port) Reopen(delay time.Duration) error {
	if err := p.port.Close(); err != nil {
		return fmt.Errorf("serialio: closing %s for reopen: %w", p.cfg.Port, err)
	}
	if delay > 0 {
		time.Sleep(delay)
	}
	np, err := Open(p.cfg)
	if err != nil {
		return err
	}
	p.port = np.port
	return nil
}

// ListPorts reports the names of detected serial ports.
func ListPorts() ([]string, error) {
	details, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return nil, fmt.Errorf("serialio: listing ports: %w", err)
	}
	names := make([]string, 0, len(details))
	for _, d := range details {
		names = append(names, d.Name)
	}
	return names, nil
}
