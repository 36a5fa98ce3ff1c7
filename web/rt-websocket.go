//    SimGraphServer
//    Copyright: E Gunderson 2022-24
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package web

import (
	"github.com/e-gun/SimGraphServer/internal/vlt"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

var (
	Upgrader = websocket.Upgrader{}
)

//
// THE ROUTE
//

// RtWebsocket - chart redraws for a viewer (multiple viewers at a time)
func RtWebsocket(c echo.Context) error {
	const (
		FAILCON = "RtWebsocket(): ws connection failed"
	)

	ws, err := Upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		msg.NOTE(FAILCON)
		return nil
	}
	defer ws.Close()

	viewer := &vlt.WSClient{
		Conn: ws,
		Pool: vlt.WebsocketPool,
	}

	if !viewer.ReceiveID() {
		return nil
	}

	vlt.WebsocketPool.Add <- viewer

	// catch the viewer up with whatever happened before it connected
	if s, ok := vlt.AllCharts.GetSess(viewer.ID); ok && s.Ready() {
		vlt.PushRedraw(s)
	}

	viewer.WSMessageLoop()
	return nil
}
