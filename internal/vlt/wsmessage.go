//    SimGraphServer
//    Copyright: E Gunderson 2022-24
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package vlt

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/e-gun/SimGraphServer/internal/chart"
	"github.com/e-gun/SimGraphServer/internal/lnch"
	"github.com/e-gun/SimGraphServer/internal/vv"
	"github.com/gorilla/websocket"
)

//
// WEBSOCKET INFRASTRUCTURE: see https://tutorialedge.net/projects/chat-system-in-go-and-react/part-4-handling-multiple-clients/
//

// WSClient - one web view displaying the chart for session ID
type WSClient struct {
	ID   string
	Conn *websocket.Conn
	Pool *WSPool
}

// WSPool - only the listening goroutine touches ClientMap or writes to a Conn
type WSPool struct {
	Add       chan *WSClient
	Remove    chan *WSClient
	ClientMap map[*WSClient]bool
	JSO       chan *WSJSOut
	ReadID    chan string
	RosterRD  chan chan []string
	once      sync.Once
}

// WSJSOut - what the web view receives: V is the html+js fragment for the chart
type WSJSOut struct {
	V       string `json:"value"`
	ID      string `json:"ID"`
	Close   string `json:"close"`
	Version uint64 `json:"version"` // the viewer keeps the newest it has drawn; redraws can reach the queue out of order
}

// ReceiveID - get the session id from the client; record it; then exit
func (c *WSClient) ReceiveID() bool {
	const (
		FAIL1 = `WSClient.ReceiveID() failed`
		FAIL2 = `WSClient.ReceiveID() never received the session id`
	)

	quit := time.Now().Add(vv.WSIDWAIT)
	_ = c.Conn.SetReadDeadline(quit)
	defer func() { _ = c.Conn.SetReadDeadline(time.Time{}) }()

	for {
		_, m, err := c.Conn.ReadMessage()
		if err != nil {
			Msg.FYI(FAIL1)
			return false
		}

		if len(m) != 0 {
			c.ID = strings.Replace(string(m), `"`, "", -1)
			c.Pool.ReadID <- c.ID
			return true
		}

		if time.Now().After(quit) {
			Msg.FYI(FAIL2)
			return false
		}
	}
}

// WSMessageLoop - block until the web view goes away; the pool does the writing
func (c *WSClient) WSMessageLoop() {
	const (
		GONE = `WSClient.WSMessageLoop(): web view for %s closed`
	)
	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			Msg.TMI(fmt.Sprintf(GONE, c.ID))
			break
		}
	}
	c.Pool.Remove <- c
}

// WSPoolStartListening - the WSPool will listen for activity on its various channels (only called once at launch)
func (pool *WSPool) WSPoolStartListening() {
	const (
		MSG1 = "Pushing redraws for %s"
		MSG2 = "WSPool client failed on WriteMessage()"
	)

	writemsg := func(jso *WSJSOut) {
		js, y := json.Marshal(jso)
		if y != nil {
			Msg.WARN(y.Error())
			return
		}
		for cl := range pool.ClientMap {
			if cl.ID == jso.ID {
				_ = cl.Conn.SetWriteDeadline(time.Now().Add(vv.WSWRITEWAIT))
				e := cl.Conn.WriteMessage(websocket.TextMessage, js)
				if e != nil {
					Msg.WARN(MSG2)
					delete(pool.ClientMap, cl)
				}
			}
		}
	}

	for {
		select {
		case cl := <-pool.Add:
			pool.ClientMap[cl] = true
		case cl := <-pool.Remove:
			delete(pool.ClientMap, cl)
		case id := <-pool.ReadID:
			Msg.PEEK(fmt.Sprintf(MSG1, id))
		case wrt := <-pool.JSO:
			writemsg(wrt)
		case rsp := <-pool.RosterRD:
			ids := make([]string, 0, len(pool.ClientMap))
			for cl := range pool.ClientMap {
				ids = append(ids, cl.ID)
			}
			rsp <- ids
		}
	}
}

// Listen - start the listening goroutine if nobody has yet
func (pool *WSPool) Listen() {
	pool.once.Do(func() { go pool.WSPoolStartListening() })
}

// Push - queue a message without waiting; a full queue drops it
func (pool *WSPool) Push(jso *WSJSOut) bool {
	const (
		DROP = "WSPool.Push(): queue full; dropped redraw for %s"
	)
	select {
	case pool.JSO <- jso:
		return true
	default:
		Msg.NOTE(fmt.Sprintf(DROP, jso.ID))
		return false
	}
}

// Roster - the session ids of the attached web views; requires a listening pool
func (pool *WSPool) Roster() []string {
	rsp := make(chan []string)
	pool.RosterRD <- rsp
	return <-rsp
}

// Clients - how many web views are attached
func (pool *WSPool) Clients() int {
	return len(pool.Roster())
}

// WSFillNewPool - build a new WSPool (one and only one built at app startup)
func WSFillNewPool() *WSPool {
	return &WSPool{
		Add:       make(chan *WSClient),
		Remove:    make(chan *WSClient),
		ClientMap: make(map[*WSClient]bool),
		JSO:       make(chan *WSJSOut, vv.WSQUEUE),
		ReadID:    make(chan string),
		RosterRD:  make(chan chan []string),
	}
}

//
// REDRAW
//

// CurrentRenderConfig - the drawing settings from the launch configuration
func CurrentRenderConfig() chart.RenderConfig {
	return chart.RenderConfig{
		AssetsHost: lnch.Config.AssetsHost,
		Width:      lnch.Config.ChartWidth,
		Height:     lnch.Config.ChartHeight,
	}
}

// PushRedraw - the redraw hook for every vault session: render and queue the fragment for the web view
func PushRedraw(s *chart.Session) {
	const (
		FAIL = "PushRedraw() could not render %s: %s"
	)

	v := s.View()
	htm, err := chart.Render(v, CurrentRenderConfig())
	if err != nil {
		Msg.WARN(fmt.Sprintf(FAIL, s.ID, err.Error()))
		return
	}
	WebsocketPool.Push(&WSJSOut{V: htm, ID: s.ID, Close: "open", Version: v.Version})
}
