//    SimGraphServer
//    Copyright: E Gunderson 2022-24
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package chart

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/e-gun/SimGraphServer/internal/vv"
)

// Tooltip - the day-level aggregates shown when hovering over a point
func Tooltip(p DayPoint) string {
	const (
		DAY = "Day: %d"
		ACC = "Total repetitions until this day: %s"
		AVG = "Average number of repetitions until this day: %s"
		MAT = "Amount of cards mature (interval higher than %d days): %s"
	)

	return strings.Join([]string{
		fmt.Sprintf(DAY, p.DayNumber),
		fmt.Sprintf(ACC, jsnumber(p.Accumulate)),
		fmt.Sprintf(AVG, jsnumber(halfup(p.Average))),
		fmt.Sprintf(MAT, vv.MATUREIVL, MatureRatio(p.MatureCount, p.TotalNumberOfCards)),
	}, "\n")
}

// MatureRatio - "2/5 (40%)"; a deck with no cards yields "0/0 (N/A)"
func MatureRatio(mature int, total int) string {
	if total == 0 {
		return fmt.Sprintf("%d/%d (%s)", mature, total, vv.NOTAVAILABLE)
	}
	pct := halfup(100 * float64(mature) / float64(total))
	return fmt.Sprintf("%d/%d (%s%%)", mature, total, jsnumber(pct))
}

// halfup - .5 always rounds toward +Inf; floor(x+0.5) would round 0.49999999999999994 up
func halfup(x float64) float64 {
	f := math.Floor(x)
	if x-f >= 0.5 {
		return f + 1
	}
	return f
}

// jsnumber - shortest representation: 10 not 10.000000
func jsnumber(x float64) string {
	if x == 0 {
		// no "-0"
		return "0"
	}
	return strconv.FormatFloat(x, 'f', -1, 64)
}
