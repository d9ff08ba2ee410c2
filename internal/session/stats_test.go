package session

import (
	"math"
	"testing"

	"github.com/banshee-data/openlaunch/internal/shot"
)

func driverShot(ball float64, club *float64) *shot.Shot {
	return &shot.Shot{BallSpeedMPH: ball, ClubSpeedMPH: club, Club: shot.ClubDriver}
}

func TestTrackerSummary(t *testing.T) {
	tr := NewTracker()

	club := 100.0
	tr.Record(driverShot(150, &club))
	tr.Record(driverShot(140, nil))
	tr.Record(driverShot(160, nil))

	s := tr.Summary()
	if s.Shots != 3 {
		t.Errorf("Shots = %d, want 3", s.Shots)
	}
	if s.ClubsDetected != 1 {
		t.Errorf("ClubsDetected = %d, want 1", s.ClubsDetected)
	}
	if s.MeanBallSpeedMPH != 150 {
		t.Errorf("MeanBallSpeedMPH = %f, want 150", s.MeanBallSpeedMPH)
	}
	if s.MaxBallSpeedMPH != 160 {
		t.Errorf("MaxBallSpeedMPH = %f, want 160", s.MaxBallSpeedMPH)
	}
	// Sample standard deviation of {140, 150, 160} is 10.
	if math.Abs(s.StdBallSpeedMPH-10) > 1e-9 {
		t.Errorf("StdBallSpeedMPH = %f, want 10", s.StdBallSpeedMPH)
	}
	if math.Abs(s.MeanSmashFactor-1.5) > 1e-9 {
		t.Errorf("MeanSmashFactor = %f, want 1.5", s.MeanSmashFactor)
	}
	// The longest carry belongs to the fastest ball.
	if s.LongestCarryYds != (&shot.Shot{BallSpeedMPH: 160, Club: shot.ClubDriver}).EstimatedCarryYards() {
		t.Errorf("LongestCarryYds = %f does not match the fastest shot", s.LongestCarryYds)
	}
	if s.StartedAt.IsZero() {
		t.Error("StartedAt not set")
	}
}

func TestTrackerEmpty(t *testing.T) {
	s := NewTracker().Summary()
	if s.Shots != 0 || s.MeanBallSpeedMPH != 0 || s.StdBallSpeedMPH != 0 {
		t.Errorf("empty summary not zeroed: %+v", s)
	}
}

func TestTrackerSingleShotNoStdDev(t *testing.T) {
	tr := NewTracker()
	tr.Record(driverShot(150, nil))
	if s := tr.Summary(); s.StdBallSpeedMPH != 0 {
		t.Errorf("StdBallSpeedMPH = %f for a single shot, want 0", s.StdBallSpeedMPH)
	}
}

func TestTrackerReset(t *testing.T) {
	tr := NewTracker()
	tr.Record(driverShot(150, nil))
	before := tr.Summary().StartedAt
	tr.Reset()

	s := tr.Summary()
	if s.Shots != 0 || s.MaxBallSpeedMPH != 0 {
		t.Errorf("summary after reset not empty: %+v", s)
	}
	if s.StartedAt.Before(before) {
		t.Error("Reset did not restart the session clock")
	}
}
