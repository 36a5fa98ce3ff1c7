package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/e-gun/SimGraphServer/internal/chart"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

const (
	tworuns = `["Run A", [{"dayNumber":0,"y":10,"accumulate":10,"average":10,"matureCount":2,"totalNumberOfCards":5},{"dayNumber":1,"y":4,"accumulate":14,"average":7,"matureCount":3,"totalNumberOfCards":5}]]`
	loneday = `["Run B", [{"x":"2020-05-01","y":3}]]`
)

func testserver(t *testing.T) *echo.Echo {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return NewEchoServer(ctx)
}

func do(e *echo.Echo, method string, path string, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func newchart(t *testing.T, e *echo.Echo, query string) JSHandle {
	t.Helper()
	rec := do(e, http.MethodPost, "/chart/new"+query, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST /chart/new = %d: %s", rec.Code, rec.Body.String())
	}
	var h JSHandle
	if err := json.Unmarshal(rec.Body.Bytes(), &h); err != nil {
		t.Fatal(err)
	}
	return h
}

func TestChartLifecycle(t *testing.T) {
	e := testserver(t)
	h := newchart(t, e, "")
	base := "/chart/" + h.ID

	if rec := do(e, http.MethodPost, base+"/init?hc=yes", ""); rec.Code != http.StatusOK {
		t.Fatalf("init = %d", rec.Code)
	}

	for _, p := range []string{tworuns, loneday} {
		if rec := do(e, http.MethodPost, base+"/dataset", p); rec.Code != http.StatusCreated {
			t.Fatalf("add = %d: %s", rec.Code, rec.Body.String())
		}
	}

	rec := do(e, http.MethodGet, base+"/json", "")
	var v chart.View
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatal(err)
	}
	if len(v.Datasets) != 2 || !v.Removable || !v.Style.HighContrast {
		t.Fatalf("snapshot = %+v", v)
	}
	if v.Datasets[1].PointRadius != 4 || v.Datasets[0].PointRadius != 0 {
		t.Errorf("radii = %d, %d", v.Datasets[0].PointRadius, v.Datasets[1].PointRadius)
	}

	rec = do(e, http.MethodGet, base+"/hover/0/0", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "2/5 (40%)") {
		t.Errorf("hover = %d %q", rec.Code, rec.Body.String())
	}

	rec = do(e, http.MethodGet, base+"/render", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Run B") {
		t.Errorf("render = %d", rec.Code)
	}

	rec = do(e, http.MethodGet, base+"/nextlabel", "")
	if !strings.Contains(rec.Body.String(), "Simulation 3") {
		t.Errorf("nextlabel = %s", rec.Body.String())
	}

	rec = do(e, http.MethodDelete, base+"/dataset", "")
	var r JSRemoved
	if err := json.Unmarshal(rec.Body.Bytes(), &r); err != nil {
		t.Fatal(err)
	}
	if !r.Removed || r.Dataset == nil || r.Dataset.Label != "Run B" || r.Remaining != 1 {
		t.Errorf("remove = %+v", r)
	}

	rec = do(e, http.MethodGet, base+"/summary", "")
	var ss []chart.SeriesSummary
	if err := json.Unmarshal(rec.Body.Bytes(), &ss); err != nil {
		t.Fatal(err)
	}
	if len(ss) != 1 || ss[0].Reviews != 14 {
		t.Errorf("summary = %+v", ss)
	}

	if rec = do(e, http.MethodDelete, base, ""); rec.Code != http.StatusNoContent {
		t.Errorf("delete = %d", rec.Code)
	}
	if rec = do(e, http.MethodGet, base+"/json", ""); rec.Code != http.StatusNotFound {
		t.Errorf("json after delete = %d", rec.Code)
	}
}

func TestChartFailures(t *testing.T) {
	e := testserver(t)
	h := newchart(t, e, "")
	base := "/chart/" + h.ID

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
		kind   string
	}{
		{"add before init", http.MethodPost, base + "/dataset", tworuns, http.StatusConflict, "precondition"},
		{"remove before init", http.MethodDelete, base + "/dataset", "", http.StatusConflict, "precondition"},
		{"render before init", http.MethodGet, base + "/render", "", http.StatusConflict, "precondition"},
		{"unknown session", http.MethodPost, "/chart/nobody/init", "", http.StatusNotFound, "notfound"},
		{"init", http.MethodPost, base + "/init", "", http.StatusOK, ""},
		{"object payload", http.MethodPost, base + "/dataset", `{"not":"an array"}`, http.StatusBadRequest, "malformed"},
		{"not json", http.MethodPost, base + "/dataset", `["a", [`, http.StatusBadRequest, "malformed"},
		{"remove from empty", http.MethodDelete, base + "/dataset", "", http.StatusOK, ""},
		{"hover past the end", http.MethodGet, base + "/hover/0/0", "", http.StatusNotFound, "notfound"},
		{"hover with words", http.MethodGet, base + "/hover/first/last", "", http.StatusBadRequest, "index"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(e, tt.method, tt.path, tt.body)
			if rec.Code != tt.want {
				t.Fatalf("%s %s = %d, want %d: %s", tt.method, tt.path, rec.Code, tt.want, rec.Body.String())
			}
			if tt.kind == "" {
				return
			}
			var f JSFailure
			if err := json.Unmarshal(rec.Body.Bytes(), &f); err != nil {
				t.Fatal(err)
			}
			if f.Kind != tt.kind {
				t.Errorf("kind = %q, want %q", f.Kind, tt.kind)
			}
		})
	}

	rec := do(e, http.MethodGet, base+"/json", "")
	if !strings.Contains(rec.Body.String(), `"datasets": []`) {
		t.Errorf("failed adds changed the session: %s", rec.Body.String())
	}
}

func TestChartWithoutSurface(t *testing.T) {
	e := testserver(t)
	h := newchart(t, e, "?surface=")
	if rec := do(e, http.MethodPost, "/chart/"+h.ID+"/init", ""); rec.Code != http.StatusConflict {
		t.Errorf("init without a surface = %d", rec.Code)
	}
}

func TestFrontpage(t *testing.T) {
	e := testserver(t)
	rec := do(e, http.MethodGet, "/", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET / = %d", rec.Code)
	}
	if !strings.Contains(rec.Header().Get("Set-Cookie"), "ID=") {
		t.Errorf("no session cookie set")
	}
	body := rec.Body.String()
	for _, want := range []string{`data-session="`, "goecharts_chart", "/emb/js/sgs.js"} {
		if !strings.Contains(body, want) {
			t.Errorf("frontpage missing %q", want)
		}
	}

	h := newchart(t, e, "")
	rec = do(e, http.MethodGet, h.View, "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "waiting for the chart") {
		t.Errorf("viewer for an uninitialized chart = %d", rec.Code)
	}
	if rec = do(e, http.MethodGet, "/view/nobody", ""); rec.Code != http.StatusNotFound {
		t.Errorf("viewer for an unknown session = %d", rec.Code)
	}
}

func TestViewerEscapesUserText(t *testing.T) {
	e := testserver(t)
	h := newchart(t, e, "?surface="+url.QueryEscape(`sgs-chart"><img src=q onerror=alert(1)>`))
	if rec := do(e, http.MethodPost, "/chart/"+h.ID+"/init", ""); rec.Code != http.StatusOK {
		t.Fatalf("init = %d", rec.Code)
	}
	if rec := do(e, http.MethodPost, "/chart/"+h.ID+"/dataset", `["</script><b>x", [{"y":1},{"y":2}]]`); rec.Code != http.StatusCreated {
		t.Fatalf("add = %d", rec.Code)
	}

	rec := do(e, http.MethodGet, h.View, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET %s = %d", h.View, rec.Code)
	}
	body := rec.Body.String()
	for _, bad := range []string{"<img", "<b>x"} {
		if strings.Contains(body, bad) {
			t.Errorf("viewer page carries raw %q", bad)
		}
	}
	// two script tags in the head, the chart fragment and the attach call; the label adds none
	if n := strings.Count(body, "</script>"); n != 4 {
		t.Errorf("found %d closing script tags, want 4", n)
	}
	if !strings.Contains(body, "let goecharts_sgs_chart__") {
		t.Errorf("viewer page missing the chart variable")
	}
}

func TestEmbeddedAssets(t *testing.T) {
	e := testserver(t)

	rec := do(e, http.MethodGet, "/emb/js/sgs.js", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Header().Get("Content-Type"), "javascript") {
		t.Errorf("sgs.js = %d %s", rec.Code, rec.Header().Get("Content-Type"))
	}
	if !strings.Contains(rec.Body.String(), "function sgsattach") {
		t.Errorf("sgs.js has the wrong contents")
	}

	rec = do(e, http.MethodGet, "/emb/css/sgs.css", "")
	if rec.Code != http.StatusOK || strings.Contains(rec.Body.String(), "{{") {
		t.Errorf("sgs.css = %d: %s", rec.Code, rec.Body.String())
	}

	if rec = do(e, http.MethodGet, "/emb/js/missing.js", ""); rec.Code != http.StatusNotFound {
		t.Errorf("missing file = %d", rec.Code)
	}
}

func TestStatus(t *testing.T) {
	e := testserver(t)
	newchart(t, e, "")
	rec := do(e, http.MethodGet, "/status", "")
	var st JSStatus
	if err := json.Unmarshal(rec.Body.Bytes(), &st); err != nil {
		t.Fatal(err)
	}
	if st.Sessions < 1 || st.Version == "" {
		t.Errorf("status = %+v", st)
	}
}

func TestWebsocketPushesRedraws(t *testing.T) {
	e := testserver(t)
	srv := httptest.NewServer(e)
	defer srv.Close()

	h := newchart(t, e, "")
	base := "/chart/" + h.ID
	if rec := do(e, http.MethodPost, base+"/init", ""); rec.Code != http.StatusOK {
		t.Fatalf("init = %d", rec.Code)
	}

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.Close()
	if err = conn.WriteMessage(websocket.TextMessage, []byte(`"`+h.ID+`"`)); err != nil {
		t.Fatal(err)
	}

	next := func() string {
		_ = conn.SetReadDeadline(time.Now().Add(3 * time.Second))
		_, m, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("ReadMessage() error = %v", err)
		}
		var jso struct {
			V  string `json:"value"`
			ID string `json:"ID"`
		}
		if err = json.Unmarshal(m, &jso); err != nil {
			t.Fatal(err)
		}
		if jso.ID != h.ID {
			t.Fatalf("received a redraw for %s", jso.ID)
		}
		return jso.V
	}

	// the catch-up redraw
	if v := next(); !strings.Contains(v, "goecharts_chart") {
		t.Fatalf("first push = %q", v)
	}

	if rec := do(e, http.MethodPost, base+"/dataset", loneday); rec.Code != http.StatusCreated {
		t.Fatalf("add = %d", rec.Code)
	}
	// an earlier redraw may still be in flight; the one after the add has to show up
	for i := 0; ; i++ {
		if strings.Contains(next(), "Run B") {
			break
		}
		if i == 3 {
			t.Fatalf("no push carried the new dataset")
		}
	}
}

func TestSelfTestSuite(t *testing.T) {
	e := testserver(t)
	srv := httptest.NewServer(e)
	defer srv.Close()

	if err := selftestsuite(srv.Client(), srv.URL); err != nil {
		t.Errorf("selftestsuite() error = %v", err)
	}
}
