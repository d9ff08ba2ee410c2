package radar

import (
	"testing"

	"github.com/banshee-data/openlaunch/internal/shot"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want *shot.SpeedReading
	}{
		{
			name: "json scalar outbound",
			line: `{"speed":-142.5,"magnitude":512.0}`,
			want: &shot.SpeedReading{Speed: 142.5, Direction: shot.DirectionOutbound, Magnitude: 512, Timestamp: 10},
		},
		{
			name: "json scalar inbound",
			line: `{"speed":85.0,"magnitude":90.0}`,
			want: &shot.SpeedReading{Speed: 85, Direction: shot.DirectionInbound, Magnitude: 90, Timestamp: 10},
		},
		{
			name: "json without magnitude",
			line: `{"speed":-60.2}`,
			want: &shot.SpeedReading{Speed: 60.2, Direction: shot.DirectionOutbound, Timestamp: 10},
		},
		{
			name: "multi-object arrays take strongest",
			line: `{"speed":[-140.0,-72.5],"magnitude":[480.0,1100.0]}`,
			want: &shot.SpeedReading{Speed: 140, Direction: shot.DirectionOutbound, Magnitude: 480, Timestamp: 10},
		},
		{
			name: "bare negative number",
			line: "-98.4",
			want: &shot.SpeedReading{Speed: 98.4, Direction: shot.DirectionOutbound, Timestamp: 10},
		},
		{
			name: "bare positive number",
			line: "42.0",
			want: &shot.SpeedReading{Speed: 42, Direction: shot.DirectionInbound, Timestamp: 10},
		},
		{
			name: "zero speed is outbound",
			line: "0",
			want: &shot.SpeedReading{Speed: 0, Direction: shot.DirectionOutbound, Timestamp: 10},
		},
		{name: "empty line", line: ""},
		{name: "command echo chatter", line: "US"},
		{name: "json config echo without speed", line: `{"OutputFeature":"J"}`},
		{name: "empty speed array", line: `{"speed":[]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLine(tt.line, 10)
			if err != nil {
				t.Fatalf("ParseLine(%q) error: %v", tt.line, err)
			}
			if tt.want == nil {
				if got != nil {
					t.Fatalf("ParseLine(%q) = %+v, want nil", tt.line, got)
				}
				return
			}
			if got == nil {
				t.Fatalf("ParseLine(%q) = nil, want %+v", tt.line, tt.want)
			}
			if *got != *tt.want {
				t.Errorf("ParseLine(%q) = %+v, want %+v", tt.line, got, tt.want)
			}
		})
	}
}

func TestParseLineMalformed(t *testing.T) {
	for _, line := range []string{
		`{"speed":`,
		`{"speed":"fast"}`,
	} {
		if _, err := ParseLine(line, 10); err == nil {
			t.Errorf("ParseLine(%q) = nil error, want parse failure", line)
		}
	}
}
