package radar

import (
	"bufio"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.bug.st/serial"

	"github.com/banshee-data/openlaunch/internal/monitoring"
	"github.com/banshee-data/openlaunch/internal/shot"
	"github.com/banshee-data/openlaunch/internal/timeutil"
)

const (
	ops243BaudRate = 57600

	// ops243LineBuffer bounds the channel between the scanner goroutine
	// and ReadSpeed. At the sensor's fastest update rate this holds well
	// over a second of readings.
	ops243LineBuffer = 256

	// commandSettle gives the sensor time to process a command before the
	// response window opens.
	commandSettle = 100 * time.Millisecond

	// responseWindow bounds how long command responses are collected.
	responseWindow = 500 * time.Millisecond
)

// golfCommands is the OPS243-A configuration sequence for golf capture:
// mph units, 50kHz sampling (max detectable speed ~347 mph), small sample
// buffer for a fast update rate, magnitude reporting, no direction filter,
// a 10 mph floor, max transmit power, JSON output with multi-object
// reporting, and peak averaging off. OJ is repeated because O4 resets the
// output format.
var golfCommands = []string{
	"US", "SL", "S<", "OM", "R|", "R>10", "P0", "OJ", "O4", "K-", "OJ",
}

// OPS243 drives an OmniPreSense OPS243-A Doppler radar over a serial port.
//
// A background goroutine scans lines off the port into a buffered channel;
// ReadSpeed drains it without blocking, which keeps the engine's poll loop
// independent of serial timing.
type OPS243 struct {
	portName string
	port     serial.Port
	clock    timeutil.Clock

	lines chan string
	done  chan struct{}
}

// NewOPS243 creates a driver for the named port. An empty name means
// auto-detect the first available serial port at connect time.
func NewOPS243(portName string) *OPS243 {
	return &OPS243{
		portName: portName,
		clock:    timeutil.RealClock{},
	}
}

// Connect opens the serial port and starts the line scanner.
func (o *OPS243) Connect() error {
	name := o.portName
	if name == "" {
		detected, err := detectPort()
		if err != nil {
			return err
		}
		name = detected
	}

	mode := &serial.Mode{
		BaudRate: ops243BaudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	port, err := serial.Open(name, mode)
	if err != nil {
		return fmt.Errorf("failed to open radar port %s: %w", name, err)
	}

	// Give the sensor time to settle, then drop any startup chatter.
	o.clock.Sleep(500 * time.Millisecond)
	if err := port.ResetInputBuffer(); err != nil {
		port.Close()
		return fmt.Errorf("failed to flush radar port %s: %w", name, err)
	}

	o.port = port
	o.portName = name
	o.lines = make(chan string, ops243LineBuffer)
	o.done = make(chan struct{})
	go o.scanLines()

	return nil
}

// detectPort returns the first serial port the OS reports. The OPS243
// enumerates as a USB CDC device, which on a sensor host is normally the
// only port present.
func detectPort() (string, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return "", fmt.Errorf("failed to enumerate serial ports: %w", err)
	}
	for _, p := range ports {
		if strings.Contains(p, "ttyACM") || strings.Contains(p, "usbmodem") {
			return p, nil
		}
	}
	if len(ports) > 0 {
		return ports[0], nil
	}
	return "", fmt.Errorf("no OPS243 radar found; check the USB connection")
}

// scanLines pumps lines from the port into the buffered channel. When the
// channel is full the oldest pending line is dropped rather than stalling
// the serial read.
func (o *OPS243) scanLines() {
	scan := bufio.NewScanner(o.port)
	for scan.Scan() {
		select {
		case <-o.done:
			return
		default:
		}
		line := scan.Text()
		select {
		case o.lines <- line:
		default:
			select {
			case <-o.lines:
			default:
			}
			select {
			case o.lines <- line:
			default:
			}
		}
	}
	if err := scan.Err(); err != nil {
		select {
		case <-o.done:
		default:
			monitoring.Logf("radar: serial scan stopped: %v", err)
		}
	}
}

// Disconnect stops the scanner and closes the port.
func (o *OPS243) Disconnect() {
	if o.port == nil {
		return
	}
	close(o.done)
	o.port.Close()
	o.port = nil
}

// sendCommand writes a command and returns whatever the sensor says back
// within the response window.
func (o *OPS243) sendCommand(cmd string) (string, error) {
	if o.port == nil {
		return "", ErrNotConnected
	}

	payload := cmd
	// Parameterised commands need a carriage return terminator.
	if strings.ContainsAny(cmd, "=<>") {
		payload += "\r"
	}
	if _, err := o.port.Write([]byte(payload)); err != nil {
		return "", fmt.Errorf("failed to write command %q: %w", cmd, err)
	}

	o.clock.Sleep(commandSettle)

	var response strings.Builder
	deadline := o.clock.Now().Add(responseWindow)
	for o.clock.Now().Before(deadline) {
		select {
		case line := <-o.lines:
			response.WriteString(line)
			response.WriteString("\n")
		default:
			o.clock.Sleep(50 * time.Millisecond)
		}
	}
	return strings.TrimSpace(response.String()), nil
}

// Info queries the sensor with ?? and flattens the JSON response lines
// into a key/value map.
func (o *OPS243) Info() (map[string]string, error) {
	response, err := o.sendCommand("??")
	if err != nil {
		return nil, err
	}

	info := make(map[string]string)
	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "{") || !strings.HasSuffix(line, "}") {
			continue
		}
		var fields map[string]any
		if err := json.Unmarshal([]byte(line), &fields); err != nil {
			continue
		}
		for k, v := range fields {
			info[k] = strings.Trim(fmt.Sprint(v), `"`)
		}
	}
	return info, nil
}

// ConfigureForGolf applies the golf capture command sequence.
func (o *OPS243) ConfigureForGolf() error {
	for _, cmd := range golfCommands {
		if _, err := o.sendCommand(cmd); err != nil {
			return fmt.Errorf("failed to configure radar (command %q): %w", cmd, err)
		}
	}
	return nil
}

// ReadSpeed drains one line from the scanner if available and parses it.
// Returns (nil, nil) when there is nothing to read or the line was not a
// speed report.
func (o *OPS243) ReadSpeed() (*shot.SpeedReading, error) {
	if o.port == nil {
		return nil, ErrNotConnected
	}
	select {
	case line := <-o.lines:
		now := float64(o.clock.Now().UnixNano()) / float64(time.Second)
		return ParseLine(line, now)
	default:
		return nil, nil
	}
}
