//    SimGraphServer
//    Copyright: E Gunderson 2022-24
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package web

import (
	"bytes"
	"embed"
	"fmt"
	"net/http"
	"strings"
	"text/template"

	"github.com/e-gun/SimGraphServer/internal/chart"
	"github.com/e-gun/SimGraphServer/internal/lnch"
	"github.com/labstack/echo/v4"
)

//go:embed emb
var efs embed.FS

//
// ROUTES
//

func RtEmbJS(c echo.Context) error {
	d := "emb/js/"
	return pathembedder(c, d)
}

// RtEmbCSS - send "sgs.css" after building it as per the configured style
func RtEmbCSS(c echo.Context) error {
	const (
		ECSS = "emb/css/sgs.css"
	)

	st := chart.StyleFor(lnch.Config.HighContrast)
	bg := st.Background
	if bg == "" {
		bg = "white"
	}

	j, e := efs.ReadFile(ECSS)
	if e != nil {
		msg.WARN(fmt.Sprintf("RtEmbCSS() can't find %s", ECSS))
		return c.String(http.StatusNotFound, "")
	}

	subs := map[string]interface{}{
		"background": bg,
		"fontcolor":  st.FontColor,
		"gridcolor":  st.GridColor,
		"height":     lnch.Config.ChartHeight,
	}

	tmpl, e := template.New("css").Parse(string(j))
	if e != nil {
		msg.WARN(e.Error())
		return c.String(http.StatusInternalServerError, "")
	}

	var b bytes.Buffer
	if e = tmpl.Execute(&b, subs); e != nil {
		msg.WARN(e.Error())
		return c.String(http.StatusInternalServerError, "")
	}

	c.Response().Header().Add("Content-Type", "text/css")
	return c.String(http.StatusOK, b.String())
}

//
// HELPERS
//

// pathembedder - send a file from a directory in the embedded FS
func pathembedder(c echo.Context, d string) error {
	f := c.Param("file")
	j, e := efs.ReadFile(d + f)
	if e != nil {
		msg.FYI(fmt.Sprintf("can't find %s", d+f))
		return c.String(http.StatusNotFound, "")
	}

	add := addresponsehead(f)
	if len(add) != 0 {
		c.Response().Header().Add("Content-Type", add)
	}

	return c.String(http.StatusOK, string(j))
}

// addresponsehead - set the response header for various file types
func addresponsehead(f string) string {
	add := ""

	switch {
	case strings.HasSuffix(f, ".css"):
		add = "text/css"
	case strings.HasSuffix(f, ".js"):
		add = "text/javascript"
	case strings.HasSuffix(f, ".html"):
		add = "text/html"
	}
	return add
}
