// Package sim delivers completed shots to an OpenGolfSim-compatible
// simulator over a persistent TCP connection. Delivery is best-effort and
// fully isolated from the segmentation engine: failures are logged and the
// next delivery reconnects.
package sim

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/banshee-data/openlaunch/internal/monitoring"
	"github.com/banshee-data/openlaunch/internal/shot"
)

// ErrNotConnected is returned when a write is attempted with no open
// connection and reconnecting failed.
var ErrNotConnected = errors.New("sim: not connected")

// Device status values understood by the simulator.
const (
	StatusReady = "ready"
	StatusBusy  = "busy"
)

const dialTimeout = 3 * time.Second

// shotMessage is the newline-delimited JSON payload the simulator expects
// for a shot event. Units are imperial (mph).
type shotMessage struct {
	Type string   `json:"type"`
	Unit string   `json:"unit"`
	Shot shotBody `json:"shot"`
}

type shotBody struct {
	BallSpeed             float64  `json:"ballSpeed"`
	VerticalLaunchAngle   *float64 `json:"verticalLaunchAngle,omitempty"`
	HorizontalLaunchAngle *float64 `json:"horizontalLaunchAngle,omitempty"`
}

type deviceMessage struct {
	Type   string `json:"type"`
	Status string `json:"status"`
}

// Client maintains the persistent simulator connection. The connection
// handle is mutex-protected because deliveries from the dispatch worker
// and status messages from shutdown paths can overlap.
type Client struct {
	addr string

	mu   sync.Mutex
	conn net.Conn
}

// NewClient creates a client for the simulator at host:port.
func NewClient(host string, port int) *Client {
	return &Client{addr: net.JoinHostPort(host, fmt.Sprint(port))}
}

// Connect dials the simulator and announces the device as ready. Already
// being connected is not an error.
func (c *Client) Connect() error {
	c.mu.Lock()
	if c.conn != nil {
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()

	conn, err := net.DialTimeout("tcp", c.addr, dialTimeout)
	if err != nil {
		return fmt.Errorf("sim: failed to connect to %s: %w", c.addr, err)
	}
	if tcp, ok := conn.(*net.TCPConn); ok {
		// Shot payloads are tiny and latency matters to the simulator.
		if err := tcp.SetNoDelay(true); err != nil {
			monitoring.Logf("sim: failed to set TCP_NODELAY: %v", err)
		}
	}

	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()
	monitoring.Logf("sim: connected to %s", c.addr)

	if err := c.SendDeviceStatus(StatusReady); err != nil {
		monitoring.Logf("sim: failed to send ready status: %v", err)
	}
	return nil
}

// Disconnect announces busy and closes the connection.
func (c *Client) Disconnect() {
	if err := c.SendDeviceStatus(StatusBusy); err != nil {
		monitoring.Debugf("sim: failed to send busy status: %v", err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
		monitoring.Logf("sim: disconnected")
	}
}

// SendShot delivers one shot, reconnecting first if needed.
func (c *Client) SendShot(s *shot.Shot) error {
	if err := c.ensureConnected(); err != nil {
		return err
	}
	msg := shotMessage{
		Type: "shot",
		Unit: "imperial",
		Shot: shotBody{
			BallSpeed:             s.BallSpeedMPH,
			VerticalLaunchAngle:   s.LaunchAngleVertical,
			HorizontalLaunchAngle: s.LaunchAngleHorizontal,
		},
	}
	return c.writeJSON(msg)
}

// SendDeviceStatus sends a ready/busy device event on the existing
// connection.
func (c *Client) SendDeviceStatus(status string) error {
	return c.writeJSON(deviceMessage{Type: "device", Status: status})
}

func (c *Client) ensureConnected() error {
	c.mu.Lock()
	connected := c.conn != nil
	c.mu.Unlock()
	if connected {
		return nil
	}
	return c.Connect()
}

// writeJSON sends one newline-delimited JSON message. A write failure
// clears the connection so the next delivery reconnects; the lock is held
// only for the write itself.
func (c *Client) writeJSON(v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("sim: failed to serialize payload: %w", err)
	}
	payload = append(payload, '\n')

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return ErrNotConnected
	}
	if _, err := c.conn.Write(payload); err != nil {
		c.conn.Close()
		c.conn = nil
		return fmt.Errorf("sim: write failed, connection dropped: %w", err)
	}
	return nil
}
