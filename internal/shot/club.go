package shot

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Club identifies the club the player has configured for the session.
type Club int

const (
	ClubDriver Club = iota
	ClubWood3
	ClubWood5
	ClubHybrid
	ClubIron3
	ClubIron4
	ClubIron5
	ClubIron6
	ClubIron7
	ClubIron8
	ClubIron9
	ClubPitchingWedge
	ClubUnknown
)

var clubNames = map[Club]string{
	ClubDriver:        "driver",
	ClubWood3:         "3w",
	ClubWood5:         "5w",
	ClubHybrid:        "hybrid",
	ClubIron3:         "3i",
	ClubIron4:         "4i",
	ClubIron5:         "5i",
	ClubIron6:         "6i",
	ClubIron7:         "7i",
	ClubIron8:         "8i",
	ClubIron9:         "9i",
	ClubPitchingWedge: "pw",
	ClubUnknown:       "unknown",
}

func (c Club) String() string {
	if name, ok := clubNames[c]; ok {
		return name
	}
	return "unknown"
}

// ParseClub maps a club name to its Club value. Matching is
// case-insensitive.
func ParseClub(s string) (Club, error) {
	needle := strings.ToLower(strings.TrimSpace(s))
	for c, name := range clubNames {
		if name == needle {
			return c, nil
		}
	}
	return ClubUnknown, fmt.Errorf("unknown club %q", s)
}

// MarshalJSON encodes the club as its string name.
func (c Club) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// UnmarshalJSON decodes a club from its string name.
func (c *Club) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseClub(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// carryFactor scales the driver carry table for shorter clubs. Shorter
// clubs launch higher and spin more, costing carry at the same ball speed.
func (c Club) carryFactor() float64 {
	switch c {
	case ClubWood3:
		return 0.96
	case ClubWood5:
		return 0.93
	case ClubHybrid:
		return 0.90
	case ClubIron3:
		return 0.87
	case ClubIron4:
		return 0.85
	case ClubIron5:
		return 0.82
	case ClubIron6:
		return 0.79
	case ClubIron7:
		return 0.76
	case ClubIron8:
		return 0.73
	case ClubIron9:
		return 0.70
	case ClubPitchingWedge:
		return 0.67
	default:
		// Driver and unknown both use the table as-is.
		return 1.0
	}
}
