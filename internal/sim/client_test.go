package sim

import (
	"bufio"
	"context"
	"encoding/json"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/openlaunch/internal/shot"
)

// fakeSim is a minimal simulator endpoint: it accepts one connection and
// exposes the newline-delimited messages it receives.
type fakeSim struct {
	ln    net.Listener
	lines chan string
}

func newFakeSim(t *testing.T) *fakeSim {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	f := &fakeSim{ln: ln, lines: make(chan string, 16)}
	go f.serve()
	t.Cleanup(func() { ln.Close() })
	return f
}

func (f *fakeSim) serve() {
	for {
		conn, err := f.ln.Accept()
		if err != nil {
			return
		}
		go func() {
			scanner := bufio.NewScanner(conn)
			for scanner.Scan() {
				f.lines <- scanner.Text()
			}
			conn.Close()
		}()
	}
}

func (f *fakeSim) hostPort(t *testing.T) (string, int) {
	t.Helper()
	addr := f.ln.Addr().(*net.TCPAddr)
	return addr.IP.String(), addr.Port
}

func (f *fakeSim) next(t *testing.T) string {
	t.Helper()
	select {
	case line := <-f.lines:
		return line
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a simulator message")
		return ""
	}
}

func TestClientConnectAnnouncesReady(t *testing.T) {
	sim := newFakeSim(t)
	host, port := sim.hostPort(t)

	c := NewClient(host, port)
	require.NoError(t, c.Connect())
	defer c.Disconnect()

	var msg map[string]string
	require.NoError(t, json.Unmarshal([]byte(sim.next(t)), &msg))
	assert.Equal(t, "device", msg["type"])
	assert.Equal(t, StatusReady, msg["status"])
}

func TestClientSendShotPayload(t *testing.T) {
	sim := newFakeSim(t)
	host, port := sim.hostPort(t)

	c := NewClient(host, port)
	require.NoError(t, c.Connect())
	defer c.Disconnect()
	sim.next(t) // ready announcement

	vla := 12.5
	require.NoError(t, c.SendShot(&shot.Shot{
		BallSpeedMPH:        150.2,
		LaunchAngleVertical: &vla,
	}))

	var msg struct {
		Type string `json:"type"`
		Unit string `json:"unit"`
		Shot struct {
			BallSpeed             float64  `json:"ballSpeed"`
			VerticalLaunchAngle   *float64 `json:"verticalLaunchAngle"`
			HorizontalLaunchAngle *float64 `json:"horizontalLaunchAngle"`
		} `json:"shot"`
	}
	line := sim.next(t)
	require.NoError(t, json.Unmarshal([]byte(line), &msg))
	assert.Equal(t, "shot", msg.Type)
	assert.Equal(t, "imperial", msg.Unit)
	assert.Equal(t, 150.2, msg.Shot.BallSpeed)
	require.NotNil(t, msg.Shot.VerticalLaunchAngle)
	assert.Equal(t, 12.5, *msg.Shot.VerticalLaunchAngle)
	assert.Nil(t, msg.Shot.HorizontalLaunchAngle)
	assert.NotContains(t, line, "horizontalLaunchAngle")
}

func TestClientSendShotReconnects(t *testing.T) {
	sim := newFakeSim(t)
	host, port := sim.hostPort(t)

	// No explicit Connect: the first delivery must dial on its own.
	c := NewClient(host, port)
	defer c.Disconnect()

	require.NoError(t, c.SendShot(&shot.Shot{BallSpeedMPH: 120}))

	var first map[string]any
	require.NoError(t, json.Unmarshal([]byte(sim.next(t)), &first))
	assert.Equal(t, "device", first["type"])

	var second map[string]any
	require.NoError(t, json.Unmarshal([]byte(sim.next(t)), &second))
	assert.Equal(t, "shot", second["type"])
}

func TestClientWithoutSimulator(t *testing.T) {
	c := NewClient("127.0.0.1", 1) // nothing listens here
	err := c.SendShot(&shot.Shot{BallSpeedMPH: 120})
	require.Error(t, err)
}

func TestClientStatusWithoutConnection(t *testing.T) {
	c := NewClient("127.0.0.1", 1)
	assert.ErrorIs(t, c.SendDeviceStatus(StatusBusy), ErrNotConnected)
}

func TestDispatcherDeliversAsync(t *testing.T) {
	sim := newFakeSim(t)
	host, port := sim.hostPort(t)

	c := NewClient(host, port)
	require.NoError(t, c.Connect())
	defer c.Disconnect()
	sim.next(t) // ready announcement

	d := NewDispatcher(c, 4)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go d.Run(ctx)

	d.Enqueue(&shot.Shot{BallSpeedMPH: 141})

	var msg map[string]any
	require.NoError(t, json.Unmarshal([]byte(sim.next(t)), &msg))
	assert.Equal(t, "shot", msg["type"])
}

func TestDispatcherQueueOverflowDrops(t *testing.T) {
	c := NewClient("127.0.0.1", 1)
	d := NewDispatcher(c, 1)

	// No worker running: the second enqueue overflows and must not block.
	done := make(chan struct{})
	go func() {
		d.Enqueue(&shot.Shot{BallSpeedMPH: 100})
		d.Enqueue(&shot.Shot{BallSpeedMPH: 101})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Enqueue blocked on a full queue")
	}
}
