// Package units provides shared constants and conversion helpers for
// speeds and distances.
package units

// Unit name constants as they appear in payloads and config.
const (
	MPS = "mps"
	MPH = "mph"
)

const (
	// metersPerSecondPerMPH is the exact factor between mph and m/s.
	metersPerSecondPerMPH = 0.44704

	// yardsPerMeter converts meters to yards.
	yardsPerMeter = 1.0936132983377
)

// MPHToMPS converts miles per hour to meters per second.
func MPHToMPS(mph float64) float64 {
	return mph * metersPerSecondPerMPH
}

// MPSToMPH converts meters per second to miles per hour.
func MPSToMPH(mps float64) float64 {
	return mps / metersPerSecondPerMPH
}

// MetersToYards converts meters to yards.
func MetersToYards(m float64) float64 {
	return m * yardsPerMeter
}

// YardsToMeters converts yards to meters.
func YardsToMeters(y float64) float64 {
	return y / yardsPerMeter
}
