//    SimGraphServer
//    Copyright: E Gunderson 2022-24
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package web

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"

	"github.com/e-gun/SimGraphServer/internal/chart"
	"github.com/e-gun/SimGraphServer/internal/lnch"
	"github.com/e-gun/SimGraphServer/internal/vlt"
	"github.com/e-gun/SimGraphServer/internal/vv"
	"github.com/labstack/echo/v4"
)

//
// ROUTING
//

// RtFrontpage - the viewer for the chart that belongs to this browser's cookie
func RtFrontpage(c echo.Context) error {
	// will set if missing
	user := ReadUUIDCookie(c)

	s, err := vlt.AllCharts.InsertSess(user, lnch.Config.Surface)
	if err != nil {
		return chartfailure(c, err)
	}

	if !s.Ready() {
		if err = s.Initialize(lnch.Config.HighContrast); err != nil {
			return chartfailure(c, err)
		}
	}
	return viewerpage(c, s)
}

// RtViewer - the display surface for a session created via "/chart/new"
func RtViewer(c echo.Context) error {
	s, err := chartsession(c)
	if err != nil {
		return chartfailure(c, err)
	}
	return viewerpage(c, s)
}

// viewerpage - fill out emb/viewer.html; an initialized chart is drawn right away, later changes arrive over "/ws"
func viewerpage(c echo.Context, s *chart.Session) error {
	const (
		VIEWER = "emb/viewer.html"
		FAIL   = "viewerpage() could not build %s: %s"
	)

	v := s.View()

	// chart.Render escapes what the datasets carry; the rest of the page is escaped by the template
	var frag template.HTML
	if v.Ready {
		htm, err := chart.Render(v, vlt.CurrentRenderConfig())
		if err != nil {
			return chartfailure(c, err)
		}
		frag = template.HTML(htm)
	}

	gc := lnch.GitCommit
	if gc == "" {
		gc = "UNKNOWN"
	}

	subs := map[string]interface{}{
		"title":    vv.MYNAME,
		"version":  fmt.Sprintf("%s [git: %s]", vv.VERSION+lnch.VersSuppl, gc),
		"id":       v.ID,
		"surface":  v.Surface,
		"drawn":    v.Version,
		"assets":   lnch.Config.AssetsHost,
		"fragment": frag,
	}

	f, err := efs.ReadFile(VIEWER)
	if err != nil {
		msg.WARN(fmt.Sprintf(FAIL, VIEWER, err.Error()))
		return c.String(http.StatusInternalServerError, "")
	}

	tmpl, err := template.New("vw").Parse(string(f))
	if err != nil {
		msg.WARN(fmt.Sprintf(FAIL, VIEWER, err.Error()))
		return c.String(http.StatusInternalServerError, "")
	}

	var b bytes.Buffer
	if err = tmpl.Execute(&b, subs); err != nil {
		msg.WARN(fmt.Sprintf(FAIL, VIEWER, err.Error()))
		return c.String(http.StatusInternalServerError, "")
	}
	return c.HTML(http.StatusOK, b.String())
}
