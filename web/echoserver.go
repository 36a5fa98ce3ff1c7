//    SimGraphServer
//    Copyright: E Gunderson 2022-24
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package web

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/e-gun/SimGraphServer/internal/debug"
	"github.com/e-gun/SimGraphServer/internal/lnch"
	"github.com/e-gun/SimGraphServer/internal/mm"
	"github.com/e-gun/SimGraphServer/internal/vlt"
	"github.com/e-gun/SimGraphServer/internal/vv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

var (
	msg = lnch.NewMessageMakerWithDefaults()
)

// StartEchoServer - start serving; this blocks and does not return while the program remains alive
func StartEchoServer() {
	const (
		WSREPORT = 30 * time.Second
	)

	lnch.UpdateMessageMakerWithConfig(msg)
	e := NewEchoServer(context.Background())

	// next will do nothing if Config is not requesting it
	go runselftests()

	if lnch.Config.LogLevel >= mm.MSGTMI {
		go debug.WSClientReport(context.Background(), msg, WSREPORT)
	}

	e.HideBanner = true
	e.HidePort = false
	e.Debug = false
	e.DisableHTTP2 = true
	e.Logger.Fatal(e.Start(fmt.Sprintf("%s:%d", lnch.Config.HostIP, lnch.Config.HostPort)))
}

// NewEchoServer - middleware and routes; the websocket pool starts listening here
func NewEchoServer(ctx context.Context) *echo.Echo {
	const (
		LLOGFMT = "r: ${status}\tt: ${latency_human}\tu: ${method} ${uri}\n"
		RLOGFMT = "${remote_ip}\t${custom}\t${status}\t${bytes_out}\t${method} ${uri}\n"
	)

	// ctf - a CustomTagFunc return a short user agent
	ctf := func(c echo.Context, buf *bytes.Buffer) (int, error) {
		ua := strings.Split(c.Request().UserAgent(), " ")
		if len(ua) == 0 {
			return 0, nil
		}
		return buf.Write([]byte(ua[len(ua)-1]))
	}

	//
	// SETUP
	//

	e := echo.New()

	vlt.AllCharts.SetLimit(lnch.Config.MaxSessions)
	vlt.WebsocketPool.Listen()

	if lnch.Config.Police {
		// assume that anyone who wants policing is serving beyond localhost and so set timeouts
		e.Server.ReadTimeout = vv.TIMEOUTRD
		e.Server.WriteTimeout = vv.TIMEOUTWR

		// see "policerequestandresponse.go" for these functions
		vlt.Police.Start(ctx)
		e.Use(vlt.Police.PoliceRequestAndResponse)
	}

	switch lnch.Config.EchoLog {
	case 3:
		e.Use(middleware.Logger())
	case 2:
		e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{Format: RLOGFMT, CustomTagFunc: ctf}))
	case 1:
		e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{Format: LLOGFMT}))
	default:
		// do nothing
	}

	e.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(vv.MAXECHOREQPERSECIP)))

	e.Use(middleware.Recover())

	e.Use(middleware.BodyLimit(lnch.Config.MaxBody))

	if lnch.Config.Gzip {
		e.Use(middleware.GzipWithConfig(middleware.GzipConfig{Level: 5}))
	}

	//
	// SGS ROUTES
	//

	//
	// [a] the chart sessions ("rt-chart.go")
	//

	e.POST("/chart/new", RtChartNew)                     // '/chart/new?surface=chart'
	e.POST("/chart/:id/init", RtChartInit)               // '/chart/1f8f1d22-.../init?hc=yes'
	e.POST("/chart/:id/dataset", RtChartAddDataset)      // body: '["Simulation 1", [{...}, ...]]'
	e.DELETE("/chart/:id/dataset", RtChartRemoveDataset) //
	e.GET("/chart/:id/render", RtChartRender)            // the html+js fragment
	e.GET("/chart/:id/json", RtChartJSON)                //
	e.GET("/chart/:id/summary", RtChartSummary)          //
	e.GET("/chart/:id/hover/:ds/:pt", RtChartHover)      // '/chart/1f8f1d22-.../hover/0/12'
	e.GET("/chart/:id/nextlabel", RtChartNextLabel)      //
	e.DELETE("/chart/:id", RtChartDelete)                //

	//
	// [b] css and js ("rt-embedding.go")
	//

	e.GET("/emb/css/sgs.css", RtEmbCSS)
	e.GET("/emb/js/:file", RtEmbJS)

	//
	// [c] frontpage and viewers ("rt-frontpage.go")
	//

	e.GET("/", RtFrontpage)
	e.GET("/view/:id", RtViewer)

	//
	// [d] resets and status ("rt-session.go")
	//

	e.GET("/reset/session", RtResetSession)
	e.GET("/status", RtStatus)

	//
	// [e] websocket ("rt-websocket.go")
	//

	e.GET("/ws", RtWebsocket)

	return e
}
