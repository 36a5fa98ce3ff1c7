//    SimGraphServer
//    Copyright: E Gunderson 2022-24
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package chart

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gonum.org/v1/gonum/stat"
)

// SeriesSummary - what one simulation run amounts to
type SeriesSummary struct {
	Label      string  `json:"label"`
	Color      string  `json:"color"`
	Days       int     `json:"days"`
	Reviews    float64 `json:"reviews"`
	MeanPerDay float64 `json:"meanperday"`
	PeakDay    int     `json:"peakday"`
	PeakValue  float64 `json:"peakvalue"`
	Mature     string  `json:"mature"`
	Text       string  `json:"text"`
}

// Summarize - one SeriesSummary per dataset, in insertion order
func Summarize(v View) []SeriesSummary {
	const (
		TXT = "%s: %d reviews over %d days (%.1f per day; peak of %d on day %d)"
	)

	p := message.NewPrinter(language.English)

	ss := make([]SeriesSummary, len(v.Datasets))
	for i, ds := range v.Datasets {
		s := SeriesSummary{
			Label: ds.Label,
			Color: ds.Color,
			Days:  len(ds.Points),
		}

		if len(ds.Points) > 0 {
			ys := make([]float64, len(ds.Points))
			for j, pt := range ds.Points {
				ys[j] = pt.Value
				if j == 0 || pt.Value > s.PeakValue {
					s.PeakValue = pt.Value
					s.PeakDay = pt.DayNumber
				}
			}
			last := ds.Points[len(ds.Points)-1]
			s.Reviews = last.Accumulate
			s.MeanPerDay = stat.Mean(ys, nil)
			s.Mature = MatureRatio(last.MatureCount, last.TotalNumberOfCards)
		}

		s.Text = p.Sprintf(TXT, s.Label, int(s.Reviews), s.Days, s.MeanPerDay, int(s.PeakValue), s.PeakDay)
		ss[i] = s
	}
	return ss
}
