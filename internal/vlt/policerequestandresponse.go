//    SimGraphServer
//    Copyright: E Gunderson 2022-24
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package vlt

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
)

//
// RESPONSEPOLICING is only active if Config.Police is "true"
//

type EchoResponseStats struct {
	TwoHundred  uint64 `json:"200"`
	FourHundred uint64 `json:"400"`
	FourOhThree uint64 `json:"403"`
	FourOhFour  uint64 `json:"404"`
	FourOhFive  uint64 `json:"405"`
	FourOhNine  uint64 `json:"409"`
	FiveHundred uint64 `json:"500"`
}

type BlackListRD struct {
	ip   string
	resp chan bool
}

type BlackListWR struct {
	ip   string
	resp chan bool
}

type StatListWR struct {
	code int
	ip   string
	uri  string
}

// RequestPolice - the keepers own the maps and the counts; everyone else talks to them over the channels
type RequestPolice struct {
	BListWR  chan BlackListWR
	BListRD  chan BlackListRD
	SListWR  chan StatListWR
	StatsRD  chan chan EchoResponseStats
	Strikes  int
	SlowDown time.Duration
	once     sync.Once
}

func NewRequestPolice() *RequestPolice {
	return &RequestPolice{
		BListWR:  make(chan BlackListWR),
		BListRD:  make(chan BlackListRD),
		SListWR:  make(chan StatListWR),
		StatsRD:  make(chan chan EchoResponseStats),
		Strikes:  3,
		SlowDown: 3 * time.Second,
	}
}

// Start - launch the keepers; only the first call does anything
func (rp *RequestPolice) Start(ctx context.Context) {
	rp.once.Do(func() {
		go rp.IPBlacklistKeeper(ctx)
		go rp.ResponseStatsKeeper(ctx)
	})
}

// Stats - a copy of the current counts
func (rp *RequestPolice) Stats() EchoResponseStats {
	rsp := make(chan EchoResponseStats)
	rp.StatsRD <- rsp
	return <-rsp
}

// PoliceRequestAndResponse - track Response code counts + block repeat 404 offenders; this is custom middleware for an *echo.Echo
func (rp *RequestPolice) PoliceRequestAndResponse(nextechohandler echo.HandlerFunc) echo.HandlerFunc {
	const (
		BLACK0 = `IP address %s was blacklisted: too many previous Response code errors`
		BLACK1 = `IP address %s received a strike: invalid request prefix in URI "%s"`
	)

	return func(c echo.Context) error {
		// presumed guilty: 403
		registerresult := StatListWR{
			code: http.StatusForbidden,
			ip:   c.RealIP(),
			uri:  c.Request().RequestURI,
		}

		// already known to be bad?
		checkblacklist := BlackListRD{ip: c.RealIP(), resp: make(chan bool)}
		rp.BListRD <- checkblacklist
		ok := <-checkblacklist.resp

		// is something like 'http://journalseek.net/' in the request?
		rq := c.Request().RequestURI
		if strings.HasPrefix(rq, "http:") || strings.HasPrefix(rq, "https:") {
			ok = false
			addtoblacklist := BlackListWR{ip: c.RealIP(), resp: make(chan bool)}
			rp.BListWR <- addtoblacklist
			if !<-addtoblacklist.resp {
				Msg.WARN(fmt.Sprintf(BLACK1, c.RealIP(), rq))
			}
		}

		if !ok {
			rp.SListWR <- registerresult
			time.Sleep(rp.SlowDown)
			return echo.NewHTTPError(http.StatusForbidden, fmt.Sprintf(BLACK0, c.RealIP()))
		}

		// do this before reading c.Response().Status or you will always get "200"
		if err := nextechohandler(c); err != nil {
			c.Error(err)
		}
		registerresult.code = c.Response().Status
		rp.SListWR <- registerresult
		return nil
	}
}

// IPBlacklistKeeper - blacklist read/write; the host application on this machine is never blacklisted
func (rp *RequestPolice) IPBlacklistKeeper(ctx context.Context) {
	const (
		BLACK0 = `IP address %s was blacklisted: too many previous Response code errors; %d address(es) on the blacklist`
	)

	strikecount := make(map[string]int)
	blacklist := make(map[string]struct{})

	for {
		select {
		case <-ctx.Done():
			return
		case rd := <-rp.BListRD:
			_, black := blacklist[rd.ip]
			rd.resp <- !black
		case wr := <-rp.BListWR:
			// 'true' means you just landed on the blacklist
			ret := false
			if isloopback(wr.ip) {
				wr.resp <- ret
				continue
			}
			strikecount[wr.ip]++
			if strikecount[wr.ip] >= rp.Strikes {
				if _, already := blacklist[wr.ip]; !already {
					blacklist[wr.ip] = struct{}{}
					Msg.NOTE(fmt.Sprintf(BLACK0, wr.ip, len(blacklist)))
				}
				ret = true
			}
			wr.resp <- ret
		}
	}
}

// ResponseStatsKeeper - log echo responses; has exclusive r/w access to the counts
func (rp *RequestPolice) ResponseStatsKeeper(ctx context.Context) {
	const (
		BLACK1 = `IP address %s received a strike: %s for URI "%s"`
		FYI200 = `StatusOK count is %d`
		FRQ200 = 1000
		FYI400 = `StatusBadRequest count is %d`
		FRQ400 = 100
		FYI403 = `[%s] StatusForbidden count is %d. Last blocked was %s requesting "%s"`
		FRQ403 = 100
		FYI404 = `StatusNotFound count is %d`
		FRQ404 = 100
		FYI405 = `MethodNotAllowed count is %d`
		FRQ405 = 5
		FYI500 = `StatusInternalServerError count is %d.`
		FRQ500 = 1
	)

	var stats EchoResponseStats

	warn := func(v uint64, frq uint64, fyi string) {
		if v%frq == 0 {
			Msg.NOTE(fmt.Sprintf(fyi, v))
		}
	}

	strike := func(status StatListWR) {
		wr := BlackListWR{ip: status.ip, resp: make(chan bool)}
		rp.BListWR <- wr
		if <-wr.resp {
			Msg.WARN(fmt.Sprintf(BLACK1, status.ip, http.StatusText(status.code), status.uri))
		}
	}

	for {
		var status StatListWR
		select {
		case <-ctx.Done():
			return
		case rsp := <-rp.StatsRD:
			rsp <- stats
			continue
		case status = <-rp.SListWR:
		}

		switch status.code {
		case http.StatusOK:
			stats.TwoHundred++
			warn(stats.TwoHundred, FRQ200, FYI200)
		case http.StatusBadRequest:
			// malformed payloads are the host's problem, not an attack
			stats.FourHundred++
			warn(stats.FourHundred, FRQ400, FYI400)
		case http.StatusForbidden:
			stats.FourOhThree++
			if stats.FourOhThree%FRQ403 == 0 {
				Msg.NOTE(fmt.Sprintf(FYI403, time.Now().Format(time.RFC822), stats.FourOhThree, status.ip, status.uri))
			}
		case http.StatusNotFound:
			stats.FourOhFour++
			warn(stats.FourOhFour, FRQ404, FYI404)
			strike(status)
		case http.StatusMethodNotAllowed:
			stats.FourOhFive++
			warn(stats.FourOhFive, FRQ405, FYI405)
			strike(status)
		case http.StatusConflict:
			stats.FourOhNine++
		case http.StatusInternalServerError:
			stats.FiveHundred++
			warn(stats.FiveHundred, FRQ500, FYI500)
			strike(status)
		default:
			// 101 from "/ws", 204 from the deletes
		}
	}
}

func isloopback(ip string) bool {
	p := net.ParseIP(ip)
	return p != nil && p.IsLoopback()
}
