//    SimGraphServer
//    Copyright: E Gunderson 2022-24
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package str

type CurrentConfiguration struct {
	AssetsHost    string // where the web view fetches echarts.min.js from
	BlackAndWhite bool
	ChartHeight   string
	ChartWidth    string
	EchoLog       int // 0: "none", 1: "terse", 2: "prolix", 3: "prolix+remoteip"
	Gzip          bool
	HighContrast  bool // default theme for sessions created by "/"
	HostIP        string
	HostPort      int
	LogLevel      int
	MaxBody       string
	MaxSessions   int
	Police        bool // count response codes and blacklist scanners; for servers exposed beyond localhost
	ProfileCPU    bool
	ProfileMEM    bool
	QuietStart    bool
	SelfTest      int
	Surface       string // the element id the chart is drawn into
}
