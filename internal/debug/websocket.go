//    SimGraphServer
//    Copyright: E Gunderson 2022-24
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package debug

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/e-gun/SimGraphServer/internal/mm"
	"github.com/e-gun/SimGraphServer/internal/vlt"
)

//
// FOR DEBUGGING ONLY
//

// WSClientReport - report the # and ids of the attached web views and the open sessions every d
func WSClientReport(ctx context.Context, m *mm.MessageMaker, d time.Duration) {
	const (
		RPT = "%d WebsocketPool clients: [%s]; %d chart sessions"
	)

	tick := time.NewTicker(d)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-tick.C:
			cc := vlt.WebsocketPool.Roster()
			m.TMI(fmt.Sprintf(RPT, len(cc), strings.Join(cc, ", "), vlt.AllCharts.Len()))
		}
	}
}
