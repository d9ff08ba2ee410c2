package radar

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/banshee-data/openlaunch/internal/shot"
)

// ParseLine decodes one line of OPS243 output into a SpeedReading stamped
// with the given event time (unix seconds).
//
// In JSON output mode the sensor emits objects with "speed" and optional
// "magnitude" fields; with multi-object reporting enabled those fields are
// arrays ordered strongest-first. Outside JSON mode lines are bare signed
// numbers. The sign encodes direction: negative is outbound (away from the
// sensor, i.e. ball flight), positive is inbound (backswing).
//
// Lines that are neither JSON readings nor numbers (command echoes, status
// chatter) return (nil, nil) so the poll loop skips them quietly.
func ParseLine(line string, timestamp float64) (*shot.SpeedReading, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil, nil
	}

	if strings.HasPrefix(line, "{") {
		return parseJSONReading(line, timestamp)
	}

	speed, err := strconv.ParseFloat(line, 64)
	if err != nil {
		// Non-numeric chatter between readings, not a fault.
		return nil, nil
	}
	return newReading(speed, 0, timestamp), nil
}

// jsonReading covers both scalar and multi-object report shapes.
type jsonReading struct {
	Speed     json.RawMessage `json:"speed"`
	Magnitude json.RawMessage `json:"magnitude"`
}

func parseJSONReading(line string, timestamp float64) (*shot.SpeedReading, error) {
	var raw jsonReading
	if err := json.Unmarshal([]byte(line), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse reading %q: %w", line, err)
	}
	if raw.Speed == nil {
		// JSON without a speed field is configuration echo, not a reading.
		return nil, nil
	}

	speed, ok, err := firstNumber(raw.Speed)
	if err != nil {
		return nil, fmt.Errorf("bad speed in reading %q: %w", line, err)
	}
	if !ok {
		return nil, nil
	}

	magnitude := 0.0
	if raw.Magnitude != nil {
		if m, ok, err := firstNumber(raw.Magnitude); err == nil && ok {
			magnitude = m
		}
	}

	return newReading(speed, magnitude, timestamp), nil
}

// firstNumber accepts either a JSON number or an array of numbers and
// returns the first (strongest) value.
func firstNumber(raw json.RawMessage) (float64, bool, error) {
	var v float64
	if err := json.Unmarshal(raw, &v); err == nil {
		return v, true, nil
	}
	var arr []float64
	if err := json.Unmarshal(raw, &arr); err != nil {
		return 0, false, err
	}
	if len(arr) == 0 {
		return 0, false, nil
	}
	return arr[0], true, nil
}

func newReading(signedSpeed, magnitude, timestamp float64) *shot.SpeedReading {
	direction := shot.DirectionOutbound
	if signedSpeed > 0 {
		direction = shot.DirectionInbound
	}
	r := &shot.SpeedReading{
		Speed:     signedSpeed,
		Direction: direction,
		Magnitude: magnitude,
		Timestamp: timestamp,
	}
	if r.Speed < 0 {
		r.Speed = -r.Speed
	}
	return r
}
