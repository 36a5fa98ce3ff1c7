//    SimGraphServer
//    Copyright: E Gunderson 2022-24
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package vlt

import (
	"github.com/e-gun/SimGraphServer/internal/lnch"
	"github.com/e-gun/SimGraphServer/internal/vv"
)

var (
	Msg           = lnch.NewMessageMakerWithDefaults()
	AllCharts     = MakeChartVault(vv.MAXSESSIONS, PushRedraw)
	WebsocketPool = WSFillNewPool()
	Police        = NewRequestPolice()
)
