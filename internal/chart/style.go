//    SimGraphServer
//    Copyright: E Gunderson 2022-24
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package chart

import "github.com/e-gun/SimGraphServer/internal/vv"

// StyleProfile - everything about the look of a chart that depends on the theme; handed around by value
type StyleProfile struct {
	Name              string
	HighContrast      bool
	FontColor         string
	GridColor         string
	ZeroLineColor     string
	TooltipBackground string
	TooltipText       string
	Background        string
	TickFontSize      int
	AxisNameFontSize  int
	AxisNamePadding   int
	MaxXTicks         int
}

var (
	defaultstyle = StyleProfile{
		Name:              "default",
		FontColor:         "#666",
		GridColor:         "rgba(0, 0, 0, 0.1)",
		ZeroLineColor:     "rgba(0, 0, 0, 0.25)",
		TooltipBackground: "rgba(0, 0, 0, 0.8)",
		TooltipText:       "#fff",
		Background:        "",
		TickFontSize:      vv.TICKFONTSIZE,
		AxisNameFontSize:  vv.YAXISFONTSIZE,
		AxisNamePadding:   vv.YAXISPADDING,
		MaxXTicks:         vv.MAXXTICKS,
	}

	// night mode in the host application
	highcontraststyle = StyleProfile{
		Name:              "highcontrast",
		HighContrast:      true,
		FontColor:         "white",
		GridColor:         "rgba(255, 255, 255, 0.2)",
		ZeroLineColor:     "rgba(255, 255, 255, 0.25)",
		TooltipBackground: "rgba(255, 255, 255, 0.9)",
		TooltipText:       "rgba(0, 0, 0, 1)",
		Background:        "black",
		TickFontSize:      vv.TICKFONTSIZE,
		AxisNameFontSize:  vv.YAXISFONTSIZE,
		AxisNamePadding:   vv.YAXISPADDING,
		MaxXTicks:         vv.MAXXTICKS,
	}
)

// StyleFor - pick the profile for the theme flag
func StyleFor(highcontrast bool) StyleProfile {
	if highcontrast {
		return highcontraststyle
	}
	return defaultstyle
}

// PaletteColor - the color for the dataset at insertion index i
func PaletteColor(i int) string {
	return vv.PALETTE[i%len(vv.PALETTE)]
}
