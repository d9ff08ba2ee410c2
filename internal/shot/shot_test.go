package shot

import (
	"encoding/json"
	"math"
	"testing"
)

func floatPtr(v float64) *float64 { return &v }

func TestSmashFactor(t *testing.T) {
	tests := []struct {
		name      string
		ballSpeed float64
		clubSpeed *float64
		want      float64
		wantOK    bool
	}{
		{"typical driver strike", 150.0, floatPtr(100.0), 1.5, true},
		{"no club speed", 150.0, nil, 0, false},
		{"zero club speed", 150.0, floatPtr(0), 0, false},
		{"negative club speed", 150.0, floatPtr(-5), 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Shot{BallSpeedMPH: tt.ballSpeed, ClubSpeedMPH: tt.clubSpeed}
			got, ok := s.SmashFactor()
			if ok != tt.wantOK {
				t.Fatalf("SmashFactor() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("SmashFactor() = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestBallSpeedMPS(t *testing.T) {
	s := &Shot{BallSpeedMPH: 100}
	if got := s.BallSpeedMPS(); math.Abs(got-44.704) > 1e-9 {
		t.Errorf("BallSpeedMPS() = %f, want 44.704", got)
	}
}

func TestClubSpeedMPS(t *testing.T) {
	s := &Shot{BallSpeedMPH: 150}
	if _, ok := s.ClubSpeedMPS(); ok {
		t.Error("ClubSpeedMPS() should be absent without a club speed")
	}
	s.ClubSpeedMPH = floatPtr(100)
	got, ok := s.ClubSpeedMPS()
	if !ok || math.Abs(got-44.704) > 1e-9 {
		t.Errorf("ClubSpeedMPS() = %f, %v, want 44.704, true", got, ok)
	}
}

// Carry for 150 mph with a driver must land strictly between the midpoints
// of the bracketing calibration rows, and the range is exactly ±10%.
func TestEstimatedCarryRangeDriver150(t *testing.T) {
	s := &Shot{BallSpeedMPH: 150, Club: ClubDriver}

	carry := s.EstimatedCarryYards()
	mid140 := (231.0 + 249.0) / 2
	mid160 := (276.0 + 301.0) / 2
	if carry <= mid140 || carry >= mid160 {
		t.Errorf("carry %f not strictly between bracketing midpoints %f and %f", carry, mid140, mid160)
	}

	low, high := s.EstimatedCarryRange()
	if math.Abs(low-carry*0.9) > 1e-9 || math.Abs(high-carry*1.1) > 1e-9 {
		t.Errorf("carry range = [%f, %f], want [%f, %f]", low, high, carry*0.9, carry*1.1)
	}
}

func TestDirectionJSONRoundTrip(t *testing.T) {
	for _, d := range []Direction{DirectionUnknown, DirectionInbound, DirectionOutbound} {
		b, err := json.Marshal(d)
		if err != nil {
			t.Fatalf("marshal %v: %v", d, err)
		}
		var got Direction
		if err := json.Unmarshal(b, &got); err != nil {
			t.Fatalf("unmarshal %s: %v", b, err)
		}
		if got != d {
			t.Errorf("round trip %v -> %s -> %v", d, b, got)
		}
	}

	var d Direction
	if err := json.Unmarshal([]byte(`"sideways"`), &d); err == nil {
		t.Error("expected error for unknown direction name")
	}
}

func TestHasMagnitude(t *testing.T) {
	if (SpeedReading{Magnitude: 0}).HasMagnitude() {
		t.Error("zero magnitude should read as not reported")
	}
	if !(SpeedReading{Magnitude: 42}).HasMagnitude() {
		t.Error("positive magnitude should read as reported")
	}
}

func TestShotJSONOmitsAbsentFields(t *testing.T) {
	s := &Shot{BallSpeedMPH: 120, Club: ClubDriver}
	b, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, absent := range []string{"club_speed_mph", "peak_magnitude", "launch_angle_vertical"} {
		if _, ok := m[absent]; ok {
			t.Errorf("field %s should be omitted when absent", absent)
		}
	}
	if m["club"] != "driver" {
		t.Errorf("club = %v, want driver", m["club"])
	}
}
