package radar

import (
	"math/rand"
	"time"

	"github.com/banshee-data/openlaunch/internal/monitoring"
	"github.com/banshee-data/openlaunch/internal/shot"
)

// Mock is a synthetic radar that fabricates realistic shot bursts for
// running the pipeline without hardware: a short club-head ramp, a gap at
// impact, then a decaying ball-flight tail, with club magnitudes well above
// ball magnitudes. It satisfies the same Source contract as the OPS243
// driver.
type Mock struct {
	interval time.Duration
	rng      *rand.Rand

	readings chan *shot.SpeedReading
	trigger  chan struct{}
	done     chan struct{}
	auto     bool
}

// NewMock creates a synthetic radar. When auto is true a shot is generated
// every interval; otherwise shots are produced on TriggerShot. The seed
// fixes the generated speeds so tests can assert on them.
func NewMock(interval time.Duration, auto bool, seed int64) *Mock {
	return &Mock{
		interval: interval,
		rng:      rand.New(rand.NewSource(seed)),
		readings: make(chan *shot.SpeedReading, 64),
		trigger:  make(chan struct{}, 1),
		auto:     auto,
	}
}

// Connect starts the generator goroutine.
func (m *Mock) Connect() error {
	m.done = make(chan struct{})
	go m.generate()
	return nil
}

// Disconnect stops the generator.
func (m *Mock) Disconnect() {
	if m.done != nil {
		close(m.done)
		m.done = nil
	}
}

// Info reports the synthetic device identity.
func (m *Mock) Info() (map[string]string, error) {
	return map[string]string{
		"Product": "OPS243-MOCK",
		"Version": "1.0.0-MOCK",
		"Mode":    "Simulation",
	}, nil
}

// ConfigureForGolf is a no-op for the synthetic radar.
func (m *Mock) ConfigureForGolf() error { return nil }

// ReadSpeed returns the next pending synthetic reading, or (nil, nil).
func (m *Mock) ReadSpeed() (*shot.SpeedReading, error) {
	select {
	case r := <-m.readings:
		return r, nil
	default:
		return nil, nil
	}
}

// TriggerShot requests a shot burst in manual mode.
func (m *Mock) TriggerShot() {
	select {
	case m.trigger <- struct{}{}:
	default:
	}
}

func (m *Mock) generate() {
	shotNumber := 0
	for {
		if m.auto {
			select {
			case <-time.After(m.interval):
			case <-m.done:
				return
			}
		} else {
			select {
			case <-m.trigger:
			case <-m.done:
				return
			}
		}

		shotNumber++
		monitoring.Debugf("mock radar: simulating shot #%d", shotNumber)
		for _, r := range m.buildBurst(shotNumber) {
			select {
			case m.readings <- r:
			case <-m.done:
				return
			}
		}
	}
}

// buildBurst fabricates one shot's reading sequence. All readings are
// emitted at once; the timestamps carry the simulated intra-shot timing
// while the following quiet interval provides the silence gap that lets
// the engine close the shot.
func (m *Mock) buildBurst(shotNumber int) []*shot.SpeedReading {
	// Ball speed distribution: every 5th shot is a big hit, every 3rd is a
	// mishit, the rest are stock swings.
	var ballSpeed float64
	switch {
	case shotNumber%5 == 0:
		ballSpeed = m.randRange(150, 180)
	case shotNumber%3 == 0:
		ballSpeed = m.randRange(80, 110)
	default:
		ballSpeed = m.randRange(110, 150)
	}
	smash := m.randRange(1.35, 1.55)
	clubSpeed := ballSpeed / smash

	base := float64(time.Now().UnixNano()) / float64(time.Second)
	var burst []*shot.SpeedReading

	// Club-head ramp: a few readings 20ms apart approaching impact speed,
	// with the large radar cross-section of a club head.
	clubDurationMS := 30 + m.rng.Intn(21)
	for elapsed := 0; elapsed < clubDurationMS; elapsed += 20 {
		t := float64(elapsed) / float64(clubDurationMS)
		speed := clubSpeed*(0.7+0.3*t) + m.randRange(-2, 2)
		burst = append(burst, &shot.SpeedReading{
			Speed:     max(speed, 15),
			Direction: shot.DirectionOutbound,
			Magnitude: m.randRange(800, 1500),
			Timestamp: base + float64(elapsed)/1000.0,
		})
	}

	// Ball flight after a 10ms impact gap: higher speed with slight drag
	// decay and a smaller cross-section.
	const impactGapMS = 10
	ballDurationMS := 100 + m.rng.Intn(141)
	ballCount := 4 + m.rng.Intn(3)
	for i := 0; i < ballCount; i++ {
		elapsed := i * 20
		if elapsed >= ballDurationMS {
			break
		}
		t := float64(elapsed) / float64(ballDurationMS)
		speed := ballSpeed*(1.0-0.05*t) + m.randRange(-3, 3)
		burst = append(burst, &shot.SpeedReading{
			Speed:     max(speed, 15),
			Direction: shot.DirectionOutbound,
			Magnitude: m.randRange(200, 600),
			Timestamp: base + float64(clubDurationMS+impactGapMS+elapsed)/1000.0,
		})
	}

	return burst
}

func (m *Mock) randRange(lo, hi float64) float64 {
	return lo + m.rng.Float64()*(hi-lo)
}
