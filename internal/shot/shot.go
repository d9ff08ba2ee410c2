// Package shot holds the data model for radar speed readings and finished
// shots, plus the pure metric computations over them.
package shot

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/banshee-data/openlaunch/internal/units"
)

// Direction is the coarse motion classification of a radar reading relative
// to the sensor. Only outbound readings (ball flight, forward swing) are
// shot-relevant; inbound readings are backswing or approach reflections.
type Direction int

const (
	DirectionUnknown Direction = iota
	DirectionInbound
	DirectionOutbound
)

func (d Direction) String() string {
	switch d {
	case DirectionInbound:
		return "inbound"
	case DirectionOutbound:
		return "outbound"
	default:
		return "unknown"
	}
}

// MarshalJSON encodes the direction as its string name.
func (d Direction) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON decodes a direction from its string name.
func (d *Direction) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	switch s {
	case "inbound":
		*d = DirectionInbound
	case "outbound":
		*d = DirectionOutbound
	case "unknown":
		*d = DirectionUnknown
	default:
		return fmt.Errorf("unknown direction %q", s)
	}
	return nil
}

// SpeedReading is a single radar sample. Readings are immutable once
// produced.
type SpeedReading struct {
	// Speed is the non-negative velocity magnitude in mph.
	Speed float64 `json:"speed"`

	// Direction classifies the motion relative to the sensor.
	Direction Direction `json:"direction"`

	// Magnitude is the signal strength when the sensor reports it; zero
	// means not reported. Larger implies a larger radar cross-section.
	Magnitude float64 `json:"magnitude,omitempty"`

	// Timestamp is the sensor event time in unix seconds. It orders
	// readings within a shot; arrival time is tracked separately by the
	// engine.
	Timestamp float64 `json:"timestamp"`
}

// HasMagnitude reports whether the sensor supplied a signal strength.
func (r SpeedReading) HasMagnitude() bool {
	return r.Magnitude > 0
}

// Shot is a finished, immutable segmentation result.
type Shot struct {
	ID uuid.UUID `json:"id"`

	BallSpeedMPH float64 `json:"ball_speed_mph"`

	// ClubSpeedMPH is set only when the club head was detected with
	// sufficient confidence.
	ClubSpeedMPH *float64 `json:"club_speed_mph,omitempty"`

	// PeakMagnitude is the maximum reported signal strength across the
	// shot's readings, absent when no reading carried one.
	PeakMagnitude *float64 `json:"peak_magnitude,omitempty"`

	// Club is the configured club identity. It is external context, never
	// inferred from the radar data.
	Club Club `json:"club"`

	// Readings is the full accepted reading sequence behind this shot,
	// retained for downstream consumers and diagnostics.
	Readings []SpeedReading `json:"readings"`

	// Launch angles are optionally supplied by an external vision system;
	// the radar alone cannot measure them.
	LaunchAngleVertical   *float64 `json:"launch_angle_vertical,omitempty"`
	LaunchAngleHorizontal *float64 `json:"launch_angle_horizontal,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// BallSpeedMPS returns the ball speed in meters per second.
func (s *Shot) BallSpeedMPS() float64 {
	return units.MPHToMPS(s.BallSpeedMPH)
}

// ClubSpeedMPS returns the club speed in meters per second, if present.
func (s *Shot) ClubSpeedMPS() (float64, bool) {
	if s.ClubSpeedMPH == nil {
		return 0, false
	}
	return units.MPHToMPS(*s.ClubSpeedMPH), true
}

// SmashFactor returns ball speed over club speed. The second return is
// false when no club speed is present or it is not positive.
func (s *Shot) SmashFactor() (float64, bool) {
	if s.ClubSpeedMPH == nil || *s.ClubSpeedMPH <= 0 {
		return 0, false
	}
	return s.BallSpeedMPH / *s.ClubSpeedMPH, true
}

// EstimatedCarryYards estimates carry distance from ball speed and club.
func (s *Shot) EstimatedCarryYards() float64 {
	return EstimateCarryDistance(s.BallSpeedMPH, s.Club)
}

// EstimatedCarryRange returns the carry estimate with a ±10% band,
// reflecting the uncertainty of not having launch angle or spin data.
func (s *Shot) EstimatedCarryRange() (low, high float64) {
	base := s.EstimatedCarryYards()
	return base * 0.90, base * 1.10
}
