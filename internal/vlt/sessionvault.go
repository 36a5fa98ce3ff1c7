//    SimGraphServer
//    Copyright: E Gunderson 2022-24
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package vlt

import (
	"errors"
	"fmt"
	"sync"

	"github.com/e-gun/SimGraphServer/internal/chart"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

//
// THREAD SAFE INFRASTRUCTURE: MUTEX
//

var ErrVaultFull = errors.New("no room for another chart session")

// ChartVault - there should be only one of these; and it contains all the chart sessions
type ChartVault struct {
	SessionMap map[string]*chart.Session
	limit      int
	redraw     func(*chart.Session)
	mutex      sync.RWMutex
}

// MakeChartVault - called only once by the server; yields the AllCharts vault
func MakeChartVault(limit int, redraw func(*chart.Session)) *ChartVault {
	return &ChartVault{
		SessionMap: make(map[string]*chart.Session),
		limit:      limit,
		redraw:     redraw,
	}
}

// SetLimit - the configuration is read after the vault is built
func (cv *ChartVault) SetLimit(n int) {
	cv.mutex.Lock()
	defer cv.mutex.Unlock()
	cv.limit = n
}

// InsertSess - register a session for id drawing on surface; an existing session is returned as is
func (cv *ChartVault) InsertSess(id string, surface string) (*chart.Session, error) {
	const (
		FULL = "%w: %d sessions already open"
		NEW  = "InsertSess(): new chart session %s"
	)

	cv.mutex.Lock()
	defer cv.mutex.Unlock()

	if s, ok := cv.SessionMap[id]; ok {
		return s, nil
	}

	if cv.limit > 0 && len(cv.SessionMap) >= cv.limit {
		return nil, fmt.Errorf(FULL, ErrVaultFull, len(cv.SessionMap))
	}

	var opts []chart.Option
	if cv.redraw != nil {
		opts = append(opts, chart.WithRedraw(cv.redraw))
	}
	s := chart.NewSession(id, surface, opts...)
	cv.SessionMap[id] = s
	Msg.TMI(fmt.Sprintf(NEW, id))
	return s, nil
}

func (cv *ChartVault) GetSess(id string) (*chart.Session, bool) {
	cv.mutex.RLock()
	defer cv.mutex.RUnlock()
	s, ok := cv.SessionMap[id]
	return s, ok
}

func (cv *ChartVault) IsInVault(id string) bool {
	_, ok := cv.GetSess(id)
	return ok
}

func (cv *ChartVault) Delete(id string) bool {
	cv.mutex.Lock()
	defer cv.mutex.Unlock()
	_, ok := cv.SessionMap[id]
	delete(cv.SessionMap, id)
	return ok
}

func (cv *ChartVault) Len() int {
	cv.mutex.RLock()
	defer cv.mutex.RUnlock()
	return len(cv.SessionMap)
}

// IDs - every session handle, sorted
func (cv *ChartVault) IDs() []string {
	cv.mutex.RLock()
	k := maps.Keys(cv.SessionMap)
	cv.mutex.RUnlock()
	slices.Sort(k)
	return k
}
