// Package monitor implements the shot segmentation engine: it polls the
// radar source, filters readings, buffers the burst belonging to the
// in-progress shot, decides shot boundaries from silence gaps, and emits
// finished shots to registered handlers.
package monitor

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/banshee-data/openlaunch/internal/config"
	"github.com/banshee-data/openlaunch/internal/metrics"
	"github.com/banshee-data/openlaunch/internal/monitoring"
	"github.com/banshee-data/openlaunch/internal/radar"
	"github.com/banshee-data/openlaunch/internal/shot"
	"github.com/banshee-data/openlaunch/internal/timeutil"
)

// ShotHandler receives each completed shot. Handlers run on the engine
// goroutine and must not block; anything slow (network delivery) belongs
// behind a queue.
type ShotHandler func(*shot.Shot)

// ReadingHandler receives every reading before filtering, for live display
// and debug streaming.
type ReadingHandler func(shot.SpeedReading)

// Monitor is the segmentation engine. The buffer and timing state are
// owned exclusively by the Run loop; only the club selection is shared
// with other goroutines (the operator API) and mutex-protected.
type Monitor struct {
	src   radar.Source
	cfg   *config.Config
	clock timeutil.Clock

	clubMu sync.Mutex
	club   shot.Club

	detectClubSpeed bool

	// In-progress shot state. lastReadingAt and bufferStartedAt are
	// arrival (wall-clock) times; the readings carry sensor event times.
	readings        []shot.SpeedReading
	lastReadingAt   time.Time
	bufferStartedAt time.Time

	shotHandlers    []ShotHandler
	readingHandlers []ReadingHandler

	// newID is swappable so tests get reproducible shot identities.
	newID func() uuid.UUID
}

// New creates a Monitor over the given source. The clock is injectable for
// deterministic tests; pass timeutil.RealClock{} in production.
func New(src radar.Source, cfg *config.Config, clock timeutil.Clock) *Monitor {
	club, err := shot.ParseClub(cfg.Club)
	if err != nil {
		monitoring.Logf("monitor: %v, defaulting to driver", err)
		club = shot.ClubDriver
	}
	return &Monitor{
		src:             src,
		cfg:             cfg,
		clock:           clock,
		club:            club,
		detectClubSpeed: cfg.DetectClubSpeed,
		newID:           uuid.New,
	}
}

// OnShot registers a completion handler. Not safe to call once Run has
// started.
func (m *Monitor) OnShot(h ShotHandler) {
	m.shotHandlers = append(m.shotHandlers, h)
}

// OnReading registers a raw reading handler. Not safe to call once Run has
// started.
func (m *Monitor) OnReading(h ReadingHandler) {
	m.readingHandlers = append(m.readingHandlers, h)
}

// Club returns the currently configured club.
func (m *Monitor) Club() shot.Club {
	m.clubMu.Lock()
	defer m.clubMu.Unlock()
	return m.club
}

// SetClub changes the configured club for subsequent shots.
func (m *Monitor) SetClub(c shot.Club) {
	m.clubMu.Lock()
	m.club = c
	m.clubMu.Unlock()
	monitoring.Logf("monitor: club set to %s", c)
}

// Run polls the source until ctx is cancelled. Each iteration attempts one
// non-blocking read; an available reading goes through the filter/buffer
// pipeline, otherwise the silence-gap timeout is checked so an idle sensor
// still flushes its final shot. On cancellation any non-empty buffer gets
// a last-chance flush before returning.
func (m *Monitor) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			if len(m.readings) > 0 {
				m.flush()
			}
			monitoring.Logf("monitor: stopped")
			return nil
		default:
		}

		reading, err := m.src.ReadSpeed()
		switch {
		case err != nil:
			// Transient source failure; keep polling.
			monitoring.Logf("monitor: error reading from radar: %v", err)
			metrics.RecordSourceReadError()
		case reading != nil:
			m.onReading(*reading)
		default:
			m.checkShotTimeout()
		}

		m.clock.Sleep(m.cfg.PollInterval())
	}
}

// onReading runs one reading through the acceptance filter and, if it
// passes, the boundary check and buffer.
func (m *Monitor) onReading(r shot.SpeedReading) {
	now := m.clock.Now()

	for _, h := range m.readingHandlers {
		h(r)
	}

	if !m.accept(r) {
		return
	}

	metrics.RecordReadingAccepted()
	monitoring.Debugf("monitor: accepted %.1f mph outbound (buffered: %d)", r.Speed, len(m.readings))

	// A silence gap before this reading means the buffer holds a complete
	// earlier shot; flush it before starting fresh.
	if !m.lastReadingAt.IsZero() && now.Sub(m.lastReadingAt) > m.cfg.ShotTimeout() {
		m.flush()
	}

	if len(m.readings) == 0 {
		m.bufferStartedAt = now
	}
	m.readings = append(m.readings, r)
	m.lastReadingAt = now
	metrics.SetBufferSize(len(m.readings))
}

// accept applies the per-reading filter checks in order; the first failing
// check drops the reading. Drops are routine and only observable through
// diagnostics.
func (m *Monitor) accept(r shot.SpeedReading) bool {
	// In club detection mode the floor must admit club-head speeds, which
	// are lower than ball speeds. The ceiling is always the ball maximum.
	minSpeed := m.cfg.MinBallSpeedMPH
	if m.detectClubSpeed {
		minSpeed = m.cfg.MinClubSpeedMPH
	}
	if r.Speed < minSpeed || r.Speed > m.cfg.MaxBallSpeedMPH {
		monitoring.Debugf("monitor: dropped reading, speed %.1f outside %.0f-%.0f", r.Speed, minSpeed, m.cfg.MaxBallSpeedMPH)
		metrics.RecordReadingDropped(metrics.DropSpeed)
		return false
	}

	if r.Direction != shot.DirectionOutbound {
		monitoring.Debugf("monitor: dropped reading, direction %s", r.Direction)
		metrics.RecordReadingDropped(metrics.DropDirection)
		return false
	}

	if r.HasMagnitude() && (r.Magnitude < m.cfg.MinMagnitude || r.Magnitude > m.cfg.MaxMagnitude) {
		monitoring.Debugf("monitor: dropped reading, magnitude %.1f outside %.0f-%.0f", r.Magnitude, m.cfg.MinMagnitude, m.cfg.MaxMagnitude)
		metrics.RecordReadingDropped(metrics.DropMagnitude)
		return false
	}

	return true
}

// checkShotTimeout flushes the buffer when the sensor has gone quiet for
// longer than the silence gap. Called from the empty-poll path so the last
// shot before idle is not stranded.
func (m *Monitor) checkShotTimeout() {
	if m.lastReadingAt.IsZero() || len(m.readings) == 0 {
		return
	}
	if m.clock.Since(m.lastReadingAt) > m.cfg.ShotTimeout() {
		m.flush()
	}
}

// flush completes the in-progress shot: validate the buffer, locate the
// ball reading, optionally detect club speed, emit, and clear all state.
// Flushing an empty buffer is a no-op.
func (m *Monitor) flush() {
	readings := m.readings
	m.readings = nil
	m.lastReadingAt = time.Time{}
	m.bufferStartedAt = time.Time{}
	metrics.SetBufferSize(0)

	if len(readings) == 0 {
		return
	}
	if len(readings) < m.cfg.MinReadingsForShot {
		monitoring.Debugf("monitor: discarded burst, only %d readings (need %d)", len(readings), m.cfg.MinReadingsForShot)
		metrics.RecordShotDiscarded(metrics.DiscardTooFewReadings)
		return
	}

	// Sensor timestamps can arrive slightly out of order relative to
	// processing; analysis works over event-time order. The stable sort
	// keeps insertion order among equal timestamps.
	sorted := make([]shot.SpeedReading, len(readings))
	copy(sorted, readings)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp < sorted[j].Timestamp
	})

	span := sorted[len(sorted)-1].Timestamp - sorted[0].Timestamp
	if span > m.cfg.MaxShotDurationSec {
		// A generous silence gap can merge two unrelated bursts; the
		// event-time span catches that.
		monitoring.Debugf("monitor: discarded burst, span %.3fs exceeds max %.3fs", span, m.cfg.MaxShotDurationSec)
		metrics.RecordShotDiscarded(metrics.DiscardDuration)
		return
	}

	// The ball is the fastest reading; a strict comparison keeps the
	// earliest of simultaneous peaks, which is a documented policy rather
	// than an accident of sort order.
	ball := sorted[0]
	for _, r := range sorted[1:] {
		if r.Speed > ball.Speed {
			ball = r
		}
	}

	var peakMagnitude *float64
	for _, r := range sorted {
		if r.HasMagnitude() && (peakMagnitude == nil || r.Magnitude > *peakMagnitude) {
			mag := r.Magnitude
			peakMagnitude = &mag
		}
	}

	var clubSpeed *float64
	if m.detectClubSpeed {
		clubSpeed = m.findClubSpeed(sorted, ball.Speed, ball.Timestamp)
	}

	s := &shot.Shot{
		ID:            m.newID(),
		BallSpeedMPH:  ball.Speed,
		ClubSpeedMPH:  clubSpeed,
		PeakMagnitude: peakMagnitude,
		Club:          m.Club(),
		Readings:      readings,
		CreatedAt:     m.clock.Now(),
	}

	metrics.RecordShotEmitted(s.BallSpeedMPH)
	if clubSpeed != nil {
		metrics.RecordClubDetected()
	}
	m.logShot(s)

	for _, h := range m.shotHandlers {
		h(s)
	}
}

// findClubSpeed locates the club-head reading shortly before impact. The
// result is deterministic for identical inputs: candidates are scanned in
// event-time order with strict comparisons on the tie-break keys.
func (m *Monitor) findClubSpeed(sorted []shot.SpeedReading, ballSpeed, ballTime float64) *float64 {
	if len(sorted) < 2 {
		return nil
	}

	// Club-head speed is physically 50-85% of the resulting ball speed,
	// clamped to the configured absolute limits.
	bandMin := m.cfg.MinClubSpeedMPH
	if v := ballSpeed * m.cfg.ClubSpeedMinRatio; v > bandMin {
		bandMin = v
	}
	bandMax := m.cfg.MaxClubSpeedMPH
	if v := ballSpeed * m.cfg.ClubSpeedMaxRatio; v < bandMax {
		bandMax = v
	}

	var candidates []shot.SpeedReading
	for _, r := range sorted {
		if r.Timestamp >= ballTime {
			continue
		}
		// The club appears shortly before impact, not arbitrarily early.
		if ballTime-r.Timestamp > m.cfg.ClubBallWindowSec {
			continue
		}
		if r.Speed < bandMin || r.Speed > bandMax {
			continue
		}
		if r.Speed >= ballSpeed {
			continue
		}
		candidates = append(candidates, r)
	}
	if len(candidates) == 0 {
		return nil
	}

	// Prefer the highest magnitude: the club head's radar cross-section
	// dwarfs the ball's. Without magnitude data, take the candidate
	// closest in time to impact.
	var chosen *shot.SpeedReading
	for i := range candidates {
		c := &candidates[i]
		if !c.HasMagnitude() {
			continue
		}
		if chosen == nil || c.Magnitude > chosen.Magnitude {
			chosen = c
		}
	}
	if chosen == nil {
		for i := range candidates {
			c := &candidates[i]
			if chosen == nil || c.Timestamp > chosen.Timestamp {
				chosen = c
			}
		}
	}

	// An implausible smash factor means the "club" reading was noise or a
	// partial ball reflection; report no club speed at all.
	smash := ballSpeed / chosen.Speed
	if smash < m.cfg.SmashFactorMin || smash > m.cfg.SmashFactorMax {
		monitoring.Debugf("monitor: club candidate rejected, smash factor %.2f outside %.2f-%.2f", smash, m.cfg.SmashFactorMin, m.cfg.SmashFactorMax)
		return nil
	}

	monitoring.Debugf("monitor: club detected at %.1f mph (smash %.2f)", chosen.Speed, smash)
	speed := chosen.Speed
	return &speed
}

// logShot prints the per-shot operator summary.
func (m *Monitor) logShot(s *shot.Shot) {
	if s.ClubSpeedMPH != nil {
		monitoring.Logf("shot %s: club %.1f mph", s.ID, *s.ClubSpeedMPH)
	}
	monitoring.Logf("shot %s: ball %.1f mph (%d readings)", s.ID, s.BallSpeedMPH, len(s.Readings))
	if smash, ok := s.SmashFactor(); ok {
		monitoring.Logf("shot %s: smash factor %.2f", s.ID, smash)
	}
	low, high := s.EstimatedCarryRange()
	monitoring.Logf("shot %s: est. carry %.0f yds (range %.0f-%.0f)", s.ID, s.EstimatedCarryYards(), low, high)
	if s.PeakMagnitude != nil {
		monitoring.Logf("shot %s: peak signal %.0f", s.ID, *s.PeakMagnitude)
	}
}
