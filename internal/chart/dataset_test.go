package chart

import (
	"errors"
	"testing"
	"time"
)

func TestParsePayloadRejects(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"not json", `["a", [`},
		{"object", `{"not":"an array"}`},
		{"one element", `["a"]`},
		{"three elements", `["a", [], 3]`},
		{"label not a string", `[7, []]`},
		{"points not an array", `["a", {"y": 1}]`},
		{"points null", `["a", null]`},
		{"point not an object", `["a", [1, 2, 3]]`},
		{"null point", `["a", [{"y": 1}, null]]`},
		{"bad date", `["a", [{"x": "yesterday", "y": 1}]]`},
		{"negative day", `["a", [{"dayNumber": -1, "y": 1}]]`},
		{"too many mature", `["a", [{"y": 1, "matureCount": 6, "totalNumberOfCards": 5}]]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ParsePayload(tt.payload)
			if !errors.Is(err, ErrMalformedInput) {
				t.Errorf("ParsePayload(%s) error = %v, want ErrMalformedInput", tt.payload, err)
			}
		})
	}
}

func TestParsePayloadFullPoints(t *testing.T) {
	label, pts, err := ParsePayload(`["Run", [{"dayNumber":0,"y":10,"accumulate":10,"average":10,"matureCount":2,"totalNumberOfCards":5}]]`)
	if err != nil {
		t.Fatalf("ParsePayload() error = %v", err)
	}
	if label != "Run" || len(pts) != 1 {
		t.Fatalf("label %q, %d points", label, len(pts))
	}
	want := DayPoint{DayNumber: 0, Value: 10, Accumulate: 10, Average: 10, MatureCount: 2, TotalNumberOfCards: 5}
	if pts[0] != want {
		t.Errorf("point = %+v, want %+v", pts[0], want)
	}
}

func TestParsePayloadDerivesRunningStats(t *testing.T) {
	// what the simulator emits when it only counts reviews per day
	_, pts, err := ParsePayload(`["raw", [{"x":"2020-05-01","y":4},{"x":"2020-05-02","y":8},{"x":"2020-05-03T00:00:00","y":0}]]`)
	if err != nil {
		t.Fatalf("ParsePayload() error = %v", err)
	}

	wantacc := []float64{4, 12, 12}
	wantavg := []float64{4, 6, 4}
	wantx := []string{"2020-05-01", "2020-05-02", "2020-05-03"}
	for i, p := range pts {
		if p.DayNumber != i {
			t.Errorf("point %d dayNumber = %d", i, p.DayNumber)
		}
		if p.Accumulate != wantacc[i] || p.Average != wantavg[i] {
			t.Errorf("point %d accumulate/average = %v/%v, want %v/%v", i, p.Accumulate, p.Average, wantacc[i], wantavg[i])
		}
		if p.X != wantx[i] {
			t.Errorf("point %d x = %q, want %q", i, p.X, wantx[i])
		}
	}
}

func TestParsePayloadEmptyPoints(t *testing.T) {
	label, pts, err := ParsePayload(` ["nothing yet", []] `)
	if err != nil || label != "nothing yet" || len(pts) != 0 {
		t.Errorf("ParsePayload() = %q, %v, %v", label, pts, err)
	}
}

func TestDayPointDate(t *testing.T) {
	origin := time.Date(2020, 12, 30, 0, 0, 0, 0, time.UTC)
	if got := (DayPoint{DayNumber: 3}).Date(origin); got != "2021-01-02" {
		t.Errorf("Date() = %q", got)
	}
	if got := (DayPoint{X: "2019-01-01", DayNumber: 3}).Date(origin); got != "2019-01-01" {
		t.Errorf("Date() with x = %q", got)
	}
}
