// Package radar provides the reading sources consumed by the segmentation
// engine: the OPS243 serial driver and a synthetic generator for running
// without hardware. Both sit behind the same Source contract so the engine
// can be tested deterministically.
package radar

import (
	"errors"

	"github.com/banshee-data/openlaunch/internal/shot"
)

// ErrNotConnected is returned by operations that require an open device.
var ErrNotConnected = errors.New("radar: not connected")

// Source is the reading-source contract. ReadSpeed must never block: it
// returns (nil, nil) when no sample is available right now. Read errors are
// transient; callers are expected to log and continue polling.
type Source interface {
	// Connect opens the device.
	Connect() error

	// Disconnect releases the device. Safe to call when not connected.
	Disconnect()

	// Info queries device identification as a key/value mapping.
	Info() (map[string]string, error)

	// ConfigureForGolf applies the sampling and output configuration for
	// golf shot capture.
	ConfigureForGolf() error

	// ReadSpeed attempts one non-blocking read.
	ReadSpeed() (*shot.SpeedReading, error)
}
