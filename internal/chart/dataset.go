//    SimGraphServer
//    Copyright: E Gunderson 2022-24
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package chart

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/e-gun/SimGraphServer/internal/vv"
	"gonum.org/v1/gonum/floats"
)

// DayPoint - one simulated day of one run
type DayPoint struct {
	X                  string  `json:"x,omitempty"`
	DayNumber          int     `json:"dayNumber"`
	Value              float64 `json:"y"`
	Accumulate         float64 `json:"accumulate"`
	Average            float64 `json:"average"`
	MatureCount        int     `json:"matureCount"`
	TotalNumberOfCards int     `json:"totalNumberOfCards"`
}

// Dataset - one labeled line; one simulation run
type Dataset struct {
	Label       string     `json:"label"`
	Color       string     `json:"color"`
	Points      []DayPoint `json:"points"`
	Fill        bool       `json:"fill"`
	PointRadius int        `json:"pointRadius"`
	HoverRadius int        `json:"pointHoverRadius"`
}

// newdataset - lone points get a visible dot; real series are drawn line-only
func newdataset(label string, pts []DayPoint, idx int) Dataset {
	r := vv.SERIESPTRADIUS
	if len(pts) <= 1 {
		r = vv.LONEPTRADIUS
	}
	return Dataset{
		Label:       label,
		Color:       PaletteColor(idx),
		Points:      pts,
		Fill:        vv.FILLBENEATH,
		PointRadius: r,
		HoverRadius: vv.HOVERRADIUS,
	}
}

// Date - where the point sits on the time axis
func (p DayPoint) Date(origin time.Time) string {
	if p.X != "" {
		return p.X
	}
	return origin.AddDate(0, 0, p.DayNumber).Format(vv.ISODATE)
}

// wirepoint - what the simulator sends; anything it leaves out gets derived
type wirepoint struct {
	X          *string  `json:"x"`
	DayNumber  *int     `json:"dayNumber"`
	Y          *float64 `json:"y"`
	Accumulate *float64 `json:"accumulate"`
	Average    *float64 `json:"average"`
	Mature     *int     `json:"matureCount"`
	Total      *int     `json:"totalNumberOfCards"`
}

// ParsePayload - decode '[label, points]' or fail with a MalformedInputError
func ParsePayload(payload string) (string, []DayPoint, error) {
	const (
		NOTJSON  = "not valid json"
		NOTARR   = "not a json array"
		NOTPAIR  = "expected a 2-element array, found %d elements"
		NOLABEL  = "the label is not a string"
		NOPOINTS = "the points are not an array of objects"
		NULLPT   = "point %d is null"
	)

	b := bytes.TrimSpace([]byte(payload))
	if !json.Valid(b) {
		return "", nil, malformed(NOTJSON, nil)
	}

	var parts []json.RawMessage
	if err := json.Unmarshal(b, &parts); err != nil {
		return "", nil, malformed(NOTARR, err)
	}

	if len(parts) != 2 {
		return "", nil, malformed(fmt.Sprintf(NOTPAIR, len(parts)), nil)
	}

	var label string
	if err := json.Unmarshal(parts[0], &label); err != nil {
		return "", nil, malformed(NOLABEL, err)
	}

	var wire []*wirepoint
	if err := json.Unmarshal(parts[1], &wire); err != nil || bytes.Equal(bytes.TrimSpace(parts[1]), []byte("null")) {
		return "", nil, malformed(NOPOINTS, err)
	}

	for i := range wire {
		if wire[i] == nil {
			return "", nil, malformed(fmt.Sprintf(NULLPT, i), nil)
		}
	}

	pts, err := derivepoints(wire)
	if err != nil {
		return "", nil, err
	}
	return label, pts, nil
}

// derivepoints - validate and fill in the running statistics the simulator did not send
func derivepoints(wire []*wirepoint) ([]DayPoint, error) {
	const (
		BADDATE = "point %d: unreadable date '%s'"
		NEGDAY  = "point %d: negative day number %d"
		NEGCT   = "point %d: negative card count"
		TOOMANY = "point %d: %d mature cards out of %d"
	)

	ys := make([]float64, len(wire))
	for i, w := range wire {
		if w.Y != nil {
			ys[i] = *w.Y
		}
	}

	running := make([]float64, len(ys))
	floats.CumSum(running, ys)

	pts := make([]DayPoint, len(wire))
	for i, w := range wire {
		p := DayPoint{
			DayNumber:  i,
			Value:      ys[i],
			Accumulate: running[i],
			Average:    running[i] / float64(i+1),
		}

		if w.X != nil && *w.X != "" {
			d, ok := isodate(*w.X)
			if !ok {
				return nil, malformed(fmt.Sprintf(BADDATE, i, *w.X), nil)
			}
			p.X = d
		}
		if w.DayNumber != nil {
			p.DayNumber = *w.DayNumber
		}
		if w.Accumulate != nil {
			p.Accumulate = *w.Accumulate
		}
		if w.Average != nil {
			p.Average = *w.Average
		}
		if w.Mature != nil {
			p.MatureCount = *w.Mature
		}
		if w.Total != nil {
			p.TotalNumberOfCards = *w.Total
		}

		if p.DayNumber < 0 {
			return nil, malformed(fmt.Sprintf(NEGDAY, i, p.DayNumber), nil)
		}
		if p.MatureCount < 0 || p.TotalNumberOfCards < 0 {
			return nil, malformed(fmt.Sprintf(NEGCT, i), nil)
		}
		if p.MatureCount > p.TotalNumberOfCards {
			return nil, malformed(fmt.Sprintf(TOOMANY, i, p.MatureCount, p.TotalNumberOfCards), nil)
		}
		pts[i] = p
	}
	return pts, nil
}

// isodate - accept what python's isoformat() produces for a date or a naive datetime
func isodate(s string) (string, bool) {
	layouts := []string{vv.ISODATE, "2006-01-02T15:04:05", "2006-01-02T15:04:05.999999", time.RFC3339}
	for _, l := range layouts {
		if t, err := time.Parse(l, s); err == nil {
			return t.Format(vv.ISODATE), true
		}
	}
	return "", false
}
