//    SimGraphServer
//    Copyright: E Gunderson 2022-24
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package web

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/e-gun/SimGraphServer/internal/lnch"
	"github.com/e-gun/SimGraphServer/internal/mm"
	"github.com/e-gun/SimGraphServer/internal/vv"
)

// SelfTest - one request against the running server
type SelfTest struct {
	id     string
	method string
	path   string // %s = the session id
	body   string
	want   int
	m      string
}

func (t *SelfTest) Url(base string, sid string) string {
	p := t.path
	if strings.Contains(p, "%s") {
		p = fmt.Sprintf(p, sid)
	}
	return base + p
}

// runselftests - loop selftestsuite()
func runselftests() {
	const (
		RUN  = "Running Selftest %d of %d"
		FAIL = "Selftest %d failed: %s"
	)

	if lnch.Config.SelfTest == 0 {
		return
	}

	base := fmt.Sprintf("http://%s:%d", lnch.Config.HostIP, lnch.Config.HostPort)

	// give echo a moment to start listening
	time.Sleep(vv.SELFTESTPAUSE)

	for i := 0; i < lnch.Config.SelfTest; i++ {
		msg.NOTE(fmt.Sprintf(RUN, i+1, lnch.Config.SelfTest))
		if err := selftestsuite(http.DefaultClient, base); err != nil {
			msg.WARN(fmt.Sprintf(FAIL, i+1, err.Error()))
		}
	}
}

// selftestsuite - drive one chart session through every route; stop at the first surprise
func selftestsuite(cl *http.Client, base string) error {
	const (
		FAIL1 = "[%s] %s %s: %w"
		FAIL2 = "[%s] %s %s: got %d, wanted %d"
		FAIL3 = "could not read the new session id: %w"
		DONE  = "%s (%d)"
	)

	tm := lnch.NewMessageMakerConfigured()
	tm.SNm = vv.SHORTNAME + "-SELFTEST"
	tm.LLvl = mm.MSGFYI

	rq := func(method string, url string, body string) (int, []byte, error) {
		var rd io.Reader
		if body != "" {
			rd = strings.NewReader(body)
		}
		req, err := http.NewRequest(method, url, rd)
		if err != nil {
			return 0, nil, err
		}
		resp, err := cl.Do(req)
		if err != nil {
			return 0, nil, err
		}
		defer resp.Body.Close()
		b, err := io.ReadAll(resp.Body)
		return resp.StatusCode, b, err
	}

	start := time.Now()
	previous := time.Now()

	code, b, err := rq(http.MethodPost, base+"/chart/new", "")
	if err != nil {
		return fmt.Errorf(FAIL1, "A0", http.MethodPost, "/chart/new", err)
	}
	if code != http.StatusCreated {
		return fmt.Errorf(FAIL2, "A0", http.MethodPost, "/chart/new", code, http.StatusCreated)
	}
	var h JSHandle
	if err = json.Unmarshal(b, &h); err != nil {
		return fmt.Errorf(FAIL3, err)
	}
	tm.Timer("A0", "new chart session", start, previous)

	for _, t := range selftests() {
		previous = time.Now()
		u := t.Url(base, h.ID)
		code, _, err = rq(t.method, u, t.body)
		if err != nil {
			return fmt.Errorf(FAIL1, t.id, t.method, u, err)
		}
		if code != t.want {
			return fmt.Errorf(FAIL2, t.id, t.method, u, code, t.want)
		}
		tm.Timer(t.id, fmt.Sprintf(DONE, t.m, code), start, previous)
	}
	return nil
}

// selftests - the order matters: each step assumes the ones before it
func selftests() []SelfTest {
	run := func(label string, days int, scale int) string {
		pts := make([]string, days)
		acc := 0
		for i := 0; i < days; i++ {
			y := scale * (days - i)
			acc += y
			pts[i] = fmt.Sprintf(`{"dayNumber":%d,"y":%d,"accumulate":%d,"average":%d,"matureCount":%d,"totalNumberOfCards":%d}`,
				i, y, acc, acc/(i+1), i, days)
		}
		return fmt.Sprintf(`[%q, [%s]]`, label, strings.Join(pts, ","))
	}

	return []SelfTest{
		{"A1", http.MethodPost, "/chart/%s/dataset", run("early", 3, 1), http.StatusConflict, "dataset before init is refused"},
		{"A2", http.MethodPost, "/chart/%s/init?hc=yes", "", http.StatusOK, "initialize in high contrast"},
		{"B1", http.MethodPost, "/chart/%s/dataset", run("Simulation 1", 365, 10), http.StatusCreated, "add a year of reviews"},
		{"B2", http.MethodPost, "/chart/%s/dataset", run("", 30, 5), http.StatusCreated, "add a month with a default label"},
		{"B3", http.MethodPost, "/chart/%s/dataset", `{"not":"an array"}`, http.StatusBadRequest, "malformed payload is refused"},
		{"B4", http.MethodPost, "/chart/%s/dataset", run("lone", 1, 3), http.StatusCreated, "add a single day"},
		{"C1", http.MethodGet, "/chart/%s/hover/0/0", "", http.StatusOK, "tooltip"},
		{"C2", http.MethodGet, "/chart/%s/hover/9/0", "", http.StatusNotFound, "tooltip for a missing dataset"},
		{"C3", http.MethodGet, "/chart/%s/render", "", http.StatusOK, "render"},
		{"C4", http.MethodGet, "/chart/%s/summary", "", http.StatusOK, "summary"},
		{"C5", http.MethodGet, "/chart/%s/nextlabel", "", http.StatusOK, "next label"},
		{"D1", http.MethodDelete, "/chart/%s/dataset", "", http.StatusOK, "remove the newest dataset"},
		{"D2", http.MethodDelete, "/chart/%s/dataset", "", http.StatusOK, "remove again"},
		{"D3", http.MethodDelete, "/chart/%s/dataset", "", http.StatusOK, "remove again"},
		{"D4", http.MethodDelete, "/chart/%s/dataset", "", http.StatusOK, "remove from an empty chart"},
		{"E1", http.MethodGet, "/chart/%s/json", "", http.StatusOK, "snapshot"},
		{"E2", http.MethodDelete, "/chart/%s", "", http.StatusNoContent, "drop the session"},
		{"E3", http.MethodGet, "/chart/%s/json", "", http.StatusNotFound, "the session is gone"},
	}
}
