// Package config defines the launch monitor configuration and loading.
//
// All segmentation thresholds live here so tests can tighten or widen them
// without touching the engine. Defaults are calibrated for an OPS243-A
// pointed down the target line.
package config

import (
	"fmt"
	"time"
)

// Config holds every tunable of the process. Durations that mirror sensor
// physics are kept as seconds to match the event timestamps on readings.
type Config struct {
	// SerialPort is the radar serial device. Empty means auto-detect.
	SerialPort string `koanf:"serial_port"`

	// Addr is the HTTP listen address for the operator surface.
	Addr string `koanf:"addr"`

	// Club is the currently configured club identity (driver, 7i, pw, ...).
	Club string `koanf:"club"`

	// DetectClubSpeed enables the club-head detection sub-algorithm.
	DetectClubSpeed bool `koanf:"detect_club_speed"`

	// Speed acceptance bounds, mph. The club minimum applies when club
	// detection is on (club heads are slower than balls); the ball maximum
	// is the shared ceiling in either mode.
	MinClubSpeedMPH float64 `koanf:"min_club_speed_mph"`
	MaxClubSpeedMPH float64 `koanf:"max_club_speed_mph"`
	MinBallSpeedMPH float64 `koanf:"min_ball_speed_mph"`
	MaxBallSpeedMPH float64 `koanf:"max_ball_speed_mph"`

	// ShotTimeoutSec is the silence gap that ends a shot.
	ShotTimeoutSec float64 `koanf:"shot_timeout_sec"`

	// MinReadingsForShot rejects noise bursts shorter than this.
	MinReadingsForShot int `koanf:"min_readings_for_shot"`

	// ClubBallWindowSec bounds how far before impact a club candidate may be.
	ClubBallWindowSec float64 `koanf:"club_ball_window_sec"`

	// Club speed as a fraction of ball speed for a plausible strike.
	ClubSpeedMinRatio float64 `koanf:"club_speed_min_ratio"`
	ClubSpeedMaxRatio float64 `koanf:"club_speed_max_ratio"`

	// Signal magnitude plausibility band. Real and simulated sensors report
	// very different magnitudes, so this must be set per deployment.
	MinMagnitude float64 `koanf:"min_magnitude"`
	MaxMagnitude float64 `koanf:"max_magnitude"`

	// MaxShotDurationSec rejects buffers spanning longer than a real shot.
	MaxShotDurationSec float64 `koanf:"max_shot_duration_sec"`

	// Smash factor plausibility band used to validate club candidates.
	SmashFactorMin float64 `koanf:"smash_factor_min"`
	SmashFactorMax float64 `koanf:"smash_factor_max"`

	// PollIntervalMS is the engine poll loop yield interval.
	PollIntervalMS int `koanf:"poll_interval_ms"`

	// Simulator sink settings.
	SimEnabled bool   `koanf:"sim_enabled"`
	SimHost    string `koanf:"sim_host"`
	SimPort    int    `koanf:"sim_port"`

	// SimQueueSize bounds the pending-delivery queue to the simulator.
	SimQueueSize int `koanf:"sim_queue_size"`

	// Debug enables diagnostic-level logging of filter drops and rejects.
	Debug bool `koanf:"debug"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		SerialPort:         "",
		Addr:               ":8089",
		Club:               "driver",
		DetectClubSpeed:    true,
		MinClubSpeedMPH:    30.0,
		MaxClubSpeedMPH:    140.0,
		MinBallSpeedMPH:    30.0,
		MaxBallSpeedMPH:    220.0,
		ShotTimeoutSec:     0.5,
		MinReadingsForShot: 3,
		ClubBallWindowSec:  0.3,
		ClubSpeedMinRatio:  0.50,
		ClubSpeedMaxRatio:  0.85,
		MinMagnitude:       20.0,
		MaxMagnitude:       10000.0,
		MaxShotDurationSec: 0.3,
		SmashFactorMin:     1.1,
		SmashFactorMax:     1.7,
		PollIntervalMS:     10,
		SimEnabled:         false,
		SimHost:            "localhost",
		SimPort:            3111,
		SimQueueSize:       16,
		Debug:              false,
	}
}

// ShotTimeout returns the silence gap as a time.Duration.
func (c *Config) ShotTimeout() time.Duration {
	return time.Duration(c.ShotTimeoutSec * float64(time.Second))
}

// PollInterval returns the poll loop yield interval.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMS) * time.Millisecond
}

// Validate checks that the configuration values are coherent.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("addr must not be empty")
	}
	if c.MinClubSpeedMPH >= c.MaxClubSpeedMPH {
		return fmt.Errorf("min_club_speed_mph %.1f must be below max_club_speed_mph %.1f", c.MinClubSpeedMPH, c.MaxClubSpeedMPH)
	}
	if c.MinBallSpeedMPH >= c.MaxBallSpeedMPH {
		return fmt.Errorf("min_ball_speed_mph %.1f must be below max_ball_speed_mph %.1f", c.MinBallSpeedMPH, c.MaxBallSpeedMPH)
	}
	if c.ShotTimeoutSec <= 0 {
		return fmt.Errorf("shot_timeout_sec must be positive, got %f", c.ShotTimeoutSec)
	}
	if c.MinReadingsForShot < 1 {
		return fmt.Errorf("min_readings_for_shot must be at least 1, got %d", c.MinReadingsForShot)
	}
	if c.ClubBallWindowSec <= 0 {
		return fmt.Errorf("club_ball_window_sec must be positive, got %f", c.ClubBallWindowSec)
	}
	if c.ClubSpeedMinRatio <= 0 || c.ClubSpeedMinRatio >= c.ClubSpeedMaxRatio || c.ClubSpeedMaxRatio > 1 {
		return fmt.Errorf("club speed ratio band [%f, %f] must satisfy 0 < min < max <= 1", c.ClubSpeedMinRatio, c.ClubSpeedMaxRatio)
	}
	if c.MinMagnitude < 0 || c.MinMagnitude >= c.MaxMagnitude {
		return fmt.Errorf("magnitude band [%f, %f] must satisfy 0 <= min < max", c.MinMagnitude, c.MaxMagnitude)
	}
	if c.MaxShotDurationSec <= 0 {
		return fmt.Errorf("max_shot_duration_sec must be positive, got %f", c.MaxShotDurationSec)
	}
	if c.SmashFactorMin <= 0 || c.SmashFactorMin >= c.SmashFactorMax {
		return fmt.Errorf("smash factor band [%f, %f] must satisfy 0 < min < max", c.SmashFactorMin, c.SmashFactorMax)
	}
	if c.PollIntervalMS <= 0 {
		return fmt.Errorf("poll_interval_ms must be positive, got %d", c.PollIntervalMS)
	}
	if c.SimQueueSize < 1 {
		return fmt.Errorf("sim_queue_size must be at least 1, got %d", c.SimQueueSize)
	}
	return nil
}
