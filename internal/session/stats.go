// Package session accumulates per-session shot statistics in memory. Shot
// history itself is deliberately not persisted; the tracker keeps only the
// scalar series needed for the summary.
package session

import (
	"sync"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/banshee-data/openlaunch/internal/shot"
)

// Summary is a point-in-time view of the session.
type Summary struct {
	Shots            int       `json:"shots"`
	ClubsDetected    int       `json:"clubs_detected"`
	MeanBallSpeedMPH float64   `json:"mean_ball_speed_mph"`
	StdBallSpeedMPH  float64   `json:"std_ball_speed_mph"`
	MaxBallSpeedMPH  float64   `json:"max_ball_speed_mph"`
	MeanSmashFactor  float64   `json:"mean_smash_factor,omitempty"`
	LongestCarryYds  float64   `json:"longest_carry_yds"`
	StartedAt        time.Time `json:"started_at"`
}

// Tracker records emitted shots and computes summary statistics.
type Tracker struct {
	mu         sync.Mutex
	ballSpeeds []float64
	smashes    []float64
	carries    []float64
	startedAt  time.Time
}

// NewTracker creates an empty session starting now.
func NewTracker() *Tracker {
	return &Tracker{startedAt: time.Now()}
}

// Record adds one completed shot to the session.
func (t *Tracker) Record(s *shot.Shot) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.ballSpeeds = append(t.ballSpeeds, s.BallSpeedMPH)
	if smash, ok := s.SmashFactor(); ok {
		t.smashes = append(t.smashes, smash)
	}
	t.carries = append(t.carries, s.EstimatedCarryYards())
}

// Reset clears the session and restarts its clock.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.ballSpeeds = nil
	t.smashes = nil
	t.carries = nil
	t.startedAt = time.Now()
}

// Summary computes the current session statistics.
func (t *Tracker) Summary() Summary {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := Summary{
		Shots:         len(t.ballSpeeds),
		ClubsDetected: len(t.smashes),
		StartedAt:     t.startedAt,
	}
	if len(t.ballSpeeds) == 0 {
		return s
	}

	s.MeanBallSpeedMPH = stat.Mean(t.ballSpeeds, nil)
	if len(t.ballSpeeds) > 1 {
		s.StdBallSpeedMPH = stat.StdDev(t.ballSpeeds, nil)
	}
	for _, v := range t.ballSpeeds {
		if v > s.MaxBallSpeedMPH {
			s.MaxBallSpeedMPH = v
		}
	}
	if len(t.smashes) > 0 {
		s.MeanSmashFactor = stat.Mean(t.smashes, nil)
	}
	for _, v := range t.carries {
		if v > s.LongestCarryYds {
			s.LongestCarryYds = v
		}
	}
	return s
}
