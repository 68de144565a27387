package services

import (
	"math"
	"testing"
)

func TestRoadFromAddress(t *testing.T) {
	tests := []struct {
		address string
		want    string
	}{
		{"123 Oak Street, Springfield, IL", "oak st"},
		{"123 oak st.", "oak st"},
		{"12-14 Maple Avenue", "maple ave"},
		{"7 5th Ave", "5th ave"},
		{"55 Elm Rd Apt 4", "elm rd"},
		{"55 Elm Rd #4", "elm rd"},
		{"   9   Country   Club   Drive ", "country club dr"},
		{"1200", ""},
		{"", ""},
	}

	for _, tc := range tests {
		if got := RoadFromAddress(tc.address); got != tc.want {
			t.Errorf("RoadFromAddress(%q) = %q, want %q", tc.address, got, tc.want)
		}
	}
}

func TestDisplayRoad(t *testing.T) {
	if got := DisplayRoad("country club dr"); got != "Country Club Dr" {
		t.Fatalf("DisplayRoad = %q", got)
	}
}

func TestRoadSimilarity(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"oak st", "oak st", 1},
		{"oak st", "", 0},
		{"", "", 0},
		{"oak st", "elm st", 1.0 / 3},
		{"oak st", "oak ave", 1.0 / 3},
		{"maple ave", "elm st", 0},
	}

	for _, tc := range tests {
		got := roadSimilarity(tc.a, tc.b)
		if math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("roadSimilarity(%q, %q) = %v, want %v", tc.a, tc.b, got, tc.want)
		}
	}
}
