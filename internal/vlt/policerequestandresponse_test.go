package vlt

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func policedecho(rp *RequestPolice) *echo.Echo {
	e := echo.New()
	e.Use(rp.PoliceRequestAndResponse)
	e.GET("/ok", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	e.GET("/bad", func(c echo.Context) error { return c.String(http.StatusBadRequest, "bad") })
	return e
}

func hit(e *echo.Echo, path string, ip string) int {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set(echo.HeaderXRealIP, ip)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec.Code
}

func TestPoliceBlacklistsRepeatOffenders(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rp := NewRequestPolice()
	rp.SlowDown = 0
	rp.Start(ctx)
	e := policedecho(rp)

	const scanner = "203.0.113.9"
	for i := 0; i < rp.Strikes; i++ {
		if code := hit(e, "/wp-admin", scanner); code != http.StatusNotFound {
			t.Fatalf("probe %d got %d", i, code)
		}
	}
	// Stats() waits for the keeper to finish with the last strike
	st := rp.Stats()
	if st.FourOhFour != uint64(rp.Strikes) {
		t.Errorf("404 count = %d", st.FourOhFour)
	}

	if code := hit(e, "/ok", scanner); code != http.StatusForbidden {
		t.Errorf("blacklisted address got %d", code)
	}
	if code := hit(e, "/ok", "198.51.100.7"); code != http.StatusOK {
		t.Errorf("innocent address got %d", code)
	}
}

func TestPoliceSparesLoopbackAndBadRequests(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rp := NewRequestPolice()
	rp.SlowDown = 0
	rp.Start(ctx)
	e := policedecho(rp)

	for i := 0; i < 2*rp.Strikes; i++ {
		hit(e, "/missing", "127.0.0.1")
		hit(e, "/bad", "192.0.2.1")
	}
	_ = rp.Stats()

	if code := hit(e, "/ok", "127.0.0.1"); code != http.StatusOK {
		t.Errorf("loopback got %d", code)
	}
	if code := hit(e, "/ok", "192.0.2.1"); code != http.StatusOK {
		t.Errorf("client with malformed payloads got %d", code)
	}
	if st := rp.Stats(); st.FourHundred != uint64(2*rp.Strikes) || st.TwoHundred != 2 {
		t.Errorf("stats = %+v", st)
	}
}
