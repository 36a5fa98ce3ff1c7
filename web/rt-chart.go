//    SimGraphServer
//    Copyright: E Gunderson 2022-24
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package web

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/e-gun/SimGraphServer/internal/chart"
	"github.com/e-gun/SimGraphServer/internal/lnch"
	"github.com/e-gun/SimGraphServer/internal/vlt"
	"github.com/e-gun/SimGraphServer/internal/vv"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

var errNoSuchSession = errors.New("no such chart session")

// JSFailure - what every failed chart route sends back
type JSFailure struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// JSHandle - the reply to "/chart/new"
type JSHandle struct {
	ID      string `json:"id"`
	Surface string `json:"surface"`
	View    string `json:"view"`
}

// JSRemoved - the reply to "DELETE /chart/:id/dataset"
type JSRemoved struct {
	Removed   bool           `json:"removed"`
	Dataset   *chart.Dataset `json:"dataset,omitempty"`
	Remaining int            `json:"remaining"`
}

//
// ROUTING
//

// RtChartNew - register a new chart session and hand back its id
func RtChartNew(c echo.Context) error {
	surface := lnch.Config.Surface
	if c.QueryParams().Has("surface") {
		// an empty value is allowed in and will fail at init
		surface = c.QueryParam("surface")
	}

	id := uuid.New().String()
	if _, err := vlt.AllCharts.InsertSess(id, surface); err != nil {
		return chartfailure(c, err)
	}

	h := JSHandle{ID: id, Surface: surface, View: "/view/" + id}
	return c.JSONPretty(http.StatusCreated, h, vv.JSONINDENT)
}

// RtChartInit - (re)build the chart; "?hc=yes" for the high contrast style
func RtChartInit(c echo.Context) error {
	s, err := chartsession(c)
	if err != nil {
		return chartfailure(c, err)
	}

	if err = s.Initialize(yesno(c.QueryParam("hc"), lnch.Config.HighContrast)); err != nil {
		return chartfailure(c, err)
	}
	return c.JSONPretty(http.StatusOK, s.View(), vv.JSONINDENT)
}

// RtChartAddDataset - the request body is the '[label, points]' payload from the simulator
func RtChartAddDataset(c echo.Context) error {
	const (
		FAIL = "RtChartAddDataset() could not read the request body: %s"
	)

	s, err := chartsession(c)
	if err != nil {
		return chartfailure(c, err)
	}

	b, err := io.ReadAll(c.Request().Body)
	if err != nil {
		msg.WARN(fmt.Sprintf(FAIL, err.Error()))
		return c.JSONPretty(http.StatusBadRequest, JSFailure{Error: err.Error(), Kind: "body"}, vv.JSONINDENT)
	}

	ds, err := s.AddDataset(string(b))
	if err != nil {
		return chartfailure(c, err)
	}
	return c.JSONPretty(http.StatusCreated, ds, vv.JSONINDENT)
}

// RtChartRemoveDataset - pop the newest dataset; an empty chart is not an error
func RtChartRemoveDataset(c echo.Context) error {
	s, err := chartsession(c)
	if err != nil {
		return chartfailure(c, err)
	}

	ds, ok, err := s.RemoveLastDataset()
	if err != nil {
		return chartfailure(c, err)
	}

	r := JSRemoved{Removed: ok, Remaining: s.Len()}
	if ok {
		r.Dataset = &ds
	}
	return c.JSONPretty(http.StatusOK, r, vv.JSONINDENT)
}

// RtChartRender - the html+js that draws the chart into its surface
func RtChartRender(c echo.Context) error {
	s, err := chartsession(c)
	if err != nil {
		return chartfailure(c, err)
	}

	v := s.View()
	if !v.Ready {
		return chartfailure(c, &chart.PreconditionViolation{Op: "Render", Err: chart.ErrNotInitialized})
	}

	htm, err := chart.Render(v, vlt.CurrentRenderConfig())
	if err != nil {
		return chartfailure(c, err)
	}
	return c.HTML(http.StatusOK, htm)
}

// RtChartJSON - the session as it stands
func RtChartJSON(c echo.Context) error {
	s, err := chartsession(c)
	if err != nil {
		return chartfailure(c, err)
	}
	return c.JSONPretty(http.StatusOK, s.View(), vv.JSONINDENT)
}

// RtChartSummary - one line of totals per simulation run
func RtChartSummary(c echo.Context) error {
	s, err := chartsession(c)
	if err != nil {
		return chartfailure(c, err)
	}
	return c.JSONPretty(http.StatusOK, chart.Summarize(s.View()), vv.JSONINDENT)
}

// RtChartHover - the tooltip text for one point
func RtChartHover(c echo.Context) error {
	const (
		FAIL = "'%s' is not an index"
	)

	s, err := chartsession(c)
	if err != nil {
		return chartfailure(c, err)
	}

	idx := make([]int, 2)
	for i, p := range []string{"ds", "pt"} {
		n, e := strconv.Atoi(c.Param(p))
		if e != nil {
			return c.JSONPretty(http.StatusBadRequest, JSFailure{Error: fmt.Sprintf(FAIL, c.Param(p)), Kind: "index"}, vv.JSONINDENT)
		}
		idx[i] = n
	}

	tt, err := s.Hover(idx[0], idx[1])
	if err != nil {
		return chartfailure(c, err)
	}
	return c.String(http.StatusOK, tt)
}

// RtChartNextLabel - what the host should call the next simulation run
func RtChartNextLabel(c echo.Context) error {
	s, err := chartsession(c)
	if err != nil {
		return chartfailure(c, err)
	}
	return c.JSONPretty(http.StatusOK, map[string]string{"label": s.NextLabel()}, vv.JSONINDENT)
}

// RtChartDelete - forget the session entirely
func RtChartDelete(c echo.Context) error {
	if !vlt.AllCharts.Delete(c.Param("id")) {
		return chartfailure(c, errNoSuchSession)
	}
	return c.NoContent(http.StatusNoContent)
}

//
// HELPERS
//

func chartsession(c echo.Context) (*chart.Session, error) {
	s, ok := vlt.AllCharts.GetSess(c.Param("id"))
	if !ok {
		return nil, fmt.Errorf("%w: '%s'", errNoSuchSession, c.Param("id"))
	}
	return s, nil
}

// chartfailure - map the chart errors onto status codes
func chartfailure(c echo.Context, err error) error {
	const (
		FAIL = "%s: %s"
	)

	var mie *chart.MalformedInputError
	var pv *chart.PreconditionViolation

	code := http.StatusInternalServerError
	kind := "internal"
	switch {
	case errors.As(err, &mie):
		code, kind = http.StatusBadRequest, "malformed"
	case errors.As(err, &pv):
		code, kind = http.StatusConflict, "precondition"
	case errors.Is(err, errNoSuchSession), errors.Is(err, chart.ErrNoSuchPoint):
		code, kind = http.StatusNotFound, "notfound"
	case errors.Is(err, vlt.ErrVaultFull):
		code, kind = http.StatusServiceUnavailable, "full"
	}

	msg.PEEK(fmt.Sprintf(FAIL, c.Request().URL.Path, err.Error()))
	return c.JSONPretty(code, JSFailure{Error: err.Error(), Kind: kind}, vv.JSONINDENT)
}

// yesno - "yes" and "no" as the front end sends them; anything else is def
func yesno(v string, def bool) bool {
	switch v {
	case "yes":
		return true
	case "no":
		return false
	default:
		return def
	}
}
