//    SimGraphServer
//    Copyright: E Gunderson 2022-24
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package web

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/e-gun/SimGraphServer/internal/lnch"
	"github.com/e-gun/SimGraphServer/internal/vlt"
	"github.com/e-gun/SimGraphServer/internal/vv"
	"github.com/labstack/echo/v4"
)

// JSStatus - what "/status" reports
type JSStatus struct {
	Version  string                 `json:"version"`
	Uptime   string                 `json:"uptime"`
	Heap     string                 `json:"heap"`
	Sessions int                    `json:"sessions"`
	Viewers  int                    `json:"viewers"`
	Policed  bool                   `json:"policed"`
	Stats    *vlt.EchoResponseStats `json:"responses,omitempty"`
}

//
// ROUTING
//

// RtResetSession - drop the chart that belongs to this browser; "/" will build a fresh one
func RtResetSession(c echo.Context) error {
	user := ReadUUIDCookie(c)
	vlt.AllCharts.Delete(user)
	msg.FYI(fmt.Sprintf("RtResetSession(): chart for %s discarded", user))
	return c.Redirect(http.StatusFound, "/")
}

// RtStatus - uptime, memory and session counts
func RtStatus(c echo.Context) error {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	st := JSStatus{
		Version:  vv.VERSION + lnch.VersSuppl,
		Uptime:   time.Since(vv.LaunchTime).Truncate(time.Second).String(),
		Heap:     fmt.Sprintf("%dM", mem.HeapAlloc/1024/1024),
		Sessions: vlt.AllCharts.Len(),
		Viewers:  vlt.WebsocketPool.Clients(),
		Policed:  lnch.Config.Police,
	}

	if lnch.Config.Police {
		rs := vlt.Police.Stats()
		st.Stats = &rs
	}
	return c.JSONPretty(http.StatusOK, st, vv.JSONINDENT)
}
