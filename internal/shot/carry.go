package shot

// carryEntry maps a driver ball speed to the carry range observed under
// optimal launch conditions (10-14 degree launch, speed-appropriate spin).
type carryEntry struct {
	ballSpeedMPH float64
	carryLowYds  float64
	carryHighYds float64
}

// driverCarryTable is calibrated from TrackMan driver data. Table values
// are range midpoints; entries must stay sorted by ball speed.
var driverCarryTable = []carryEntry{
	{100.0, 130.0, 142.0},
	{110.0, 157.0, 170.0},
	{120.0, 183.0, 197.0},
	{130.0, 207.0, 223.0},
	{140.0, 231.0, 249.0},
	{150.0, 254.0, 275.0},
	{160.0, 276.0, 301.0},
	{167.0, 275.0, 285.0}, // PGA Tour average
	{170.0, 298.0, 325.0},
	{180.0, 320.0, 349.0},
	{190.0, 342.0, 372.0},
	{200.0, 360.0, 389.0},
	{210.0, 383.0, 408.0},
}

const (
	// aboveTableYardsPerMPH extrapolates conservatively past the table.
	aboveTableYardsPerMPH = 1.8

	// fallbackYardsPerMPH is used only if no table segment matches, which
	// cannot happen while the table stays monotonic.
	fallbackYardsPerMPH = 1.65
)

func (e carryEntry) midpoint() float64 {
	return (e.carryLowYds + e.carryHighYds) / 2.0
}

// EstimateCarryDistance estimates carry in yards from ball speed via
// piecewise-linear interpolation over the driver table, scaled by the
// per-club factor.
func EstimateCarryDistance(ballSpeedMPH float64, club Club) float64 {
	first := driverCarryTable[0]
	last := driverCarryTable[len(driverCarryTable)-1]

	var carry float64
	switch {
	case ballSpeedMPH <= first.ballSpeedMPH:
		// Below the table, extrapolate linearly from the origin through
		// the first entry.
		carry = first.midpoint() * (ballSpeedMPH / first.ballSpeedMPH)

	case ballSpeedMPH >= last.ballSpeedMPH:
		carry = last.midpoint() + (ballSpeedMPH-last.ballSpeedMPH)*aboveTableYardsPerMPH

	default:
		for i := 0; i < len(driverCarryTable)-1; i++ {
			lo, hi := driverCarryTable[i], driverCarryTable[i+1]
			if lo.ballSpeedMPH <= ballSpeedMPH && ballSpeedMPH < hi.ballSpeedMPH {
				t := (ballSpeedMPH - lo.ballSpeedMPH) / (hi.ballSpeedMPH - lo.ballSpeedMPH)
				carry = lo.midpoint() + t*(hi.midpoint()-lo.midpoint())
				break
			}
		}
		if carry == 0 {
			carry = ballSpeedMPH * fallbackYardsPerMPH
		}
	}

	return carry * club.carryFactor()
}
