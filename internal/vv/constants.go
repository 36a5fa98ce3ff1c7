//    SimGraphServer
//    Copyright: E Gunderson 2022-24
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package vv

import "time"

const (
	MYNAME    = "Simulation Graph Server"
	SHORTNAME = "SGS"
	VERSION   = "1.0.3"

	ASSETSHOST         = "https://go-echarts.github.io/go-echarts-assets/assets/"
	BLACKANDWHITE      = false
	CONFIGALTAPTH      = "%s/.config/" // %s = os.UserHomeDir()
	CONFIGBASIC        = "sgs-conf.json"
	DEFAULTCHRTHEIGHT  = "600px"
	DEFAULTCHRTWIDTH   = "100%"
	DEFAULTECHOLOGLVL  = 0
	DEFAULTGOLOGLEVEL  = 0
	DEFAULTSURFACE     = "chart"
	HIGHCONTRAST       = false
	JSONINDENT         = "  "
	MAXBODYSIZE        = "4M" // a year of simulated days is c. 60k of json
	MAXECHOREQPERSECIP = 60
	MAXSESSIONS        = 256
	POLICEREQUESTS     = false
	SERVEDFROMHOST     = "127.0.0.1"
	SERVEDFROMPORT     = 8100
	SESSIONCOOKIE      = "ID"
	TIMEOUTRD          = 15 * time.Second
	TIMEOUTWR          = 60 * time.Second
	USEGZIP            = false
	WRITEPERMS         = 0644

	// WSQUEUE is the buffer for pending pushes: a redraw should never block a route
	WSQUEUE       = 64
	WSIDWAIT      = 1 * time.Second
	WSWRITEWAIT   = 5 * time.Second
	SELFTESTPAUSE = 250 * time.Millisecond
)

//
// CHART
//

const (
	CHARTTYPE      = "line"
	DAYMILLIS      = 24 * 60 * 60 * 1000
	FILLBENEATH    = false
	HOVERRADIUS    = 4
	ISODATE        = "2006-01-02"
	LONEPTRADIUS   = 4
	MATUREIVL      = 21
	MAXXTICKS      = 12
	NOTAVAILABLE   = "N/A"
	SERIESPTRADIUS = 0
	TICKFONTSIZE   = 14
	YAXISFONTSIZE  = 16
	YAXISPADDING   = 12
	YAXISLABEL     = "Number of repetitions"
	NEXTLABEL      = "Simulation %d"
	HOVERMODE      = "nearest"
)

// PALETTE - the dataset colors, handed out by insertion index modulo len(PALETTE)
var PALETTE = [...]string{
	"rgb(255, 99, 132)",
	"rgb(255, 159, 64)",
	"rgb(255, 205, 86)",
	"rgb(75, 192, 192)",
	"rgb(54, 162, 235)",
	"rgb(153, 102, 255)",
	"rgb(201, 203, 207)",
}

var LaunchTime = time.Now()
