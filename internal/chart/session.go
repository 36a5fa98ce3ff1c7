//    SimGraphServer
//    Copyright: E Gunderson 2022-24
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package chart

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/e-gun/SimGraphServer/internal/vv"
	"golang.org/x/exp/slices"
)

// Session - one chart on one display surface
type Session struct {
	ID      string
	surface string
	style   StyleProfile
	origin  time.Time
	sets    []Dataset
	ready   bool
	version uint64
	clock   func() time.Time
	redraw  func(*Session)
	mtx     sync.Mutex
}

// versions are drawn from one counter: a session re-created under an old id never repeats a number a viewer has seen
var versionstamp atomic.Uint64

type Option func(*Session)

// WithClock - where "today" comes from; used for points that arrive without a date
func WithClock(f func() time.Time) Option {
	return func(s *Session) { s.clock = f }
}

// WithRedraw - called after every change, outside the session lock
func WithRedraw(f func(*Session)) Option {
	return func(s *Session) { s.redraw = f }
}

// NewSession - a session for the chart that lives in the element named by surface
func NewSession(id string, surface string, opts ...Option) *Session {
	s := &Session{
		ID:      id,
		surface: surface,
		style:   StyleFor(false),
		clock:   time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Initialize - build a new chart on the surface; any datasets on the old one are gone
func (s *Session) Initialize(highcontrast bool) error {
	s.mtx.Lock()
	if s.surface == "" {
		s.mtx.Unlock()
		return &PreconditionViolation{Op: "Initialize", Err: ErrNoSurface}
	}

	now := s.clock()
	s.style = StyleFor(highcontrast)
	s.origin = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	s.sets = nil
	s.ready = true
	s.version = versionstamp.Add(1)
	s.mtx.Unlock()

	s.notify()
	return nil
}

// AddDataset - parse '[label, points]' and append it as the newest line
func (s *Session) AddDataset(payload string) (Dataset, error) {
	if err := s.precondition("AddDataset"); err != nil {
		return Dataset{}, err
	}

	label, pts, err := ParsePayload(payload)
	if err != nil {
		return Dataset{}, err
	}

	s.mtx.Lock()
	if label == "" {
		label = fmt.Sprintf(vv.NEXTLABEL, len(s.sets)+1)
	}
	ds := newdataset(label, pts, len(s.sets))
	s.sets = append(s.sets, ds)
	s.version = versionstamp.Add(1)
	s.mtx.Unlock()

	s.notify()
	return ds, nil
}

// RemoveLastDataset - drop the newest line; an empty chart is left alone
func (s *Session) RemoveLastDataset() (Dataset, bool, error) {
	if err := s.precondition("RemoveLastDataset"); err != nil {
		return Dataset{}, false, err
	}

	s.mtx.Lock()
	if len(s.sets) == 0 {
		s.mtx.Unlock()
		return Dataset{}, false, nil
	}
	last := s.sets[len(s.sets)-1]
	s.sets = s.sets[:len(s.sets)-1]
	s.version = versionstamp.Add(1)
	s.mtx.Unlock()

	s.notify()
	return last, true, nil
}

// Hover - the tooltip for point pt of dataset ds
func (s *Session) Hover(ds int, pt int) (string, error) {
	const (
		FAIL = "%w: dataset %d, point %d"
	)
	if err := s.precondition("Hover"); err != nil {
		return "", err
	}

	s.mtx.Lock()
	defer s.mtx.Unlock()
	if ds < 0 || ds >= len(s.sets) || pt < 0 || pt >= len(s.sets[ds].Points) {
		return "", fmt.Errorf(FAIL, ErrNoSuchPoint, ds, pt)
	}
	return Tooltip(s.sets[ds].Points[pt]), nil
}

// NextLabel - the default title for the next simulation run
func (s *Session) NextLabel() string {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return fmt.Sprintf(vv.NEXTLABEL, len(s.sets)+1)
}

func (s *Session) Len() int {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return len(s.sets)
}

func (s *Session) Ready() bool {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return s.ready
}

// View - an immutable snapshot of the session for rendering and reporting
type View struct {
	ID        string       `json:"id"`
	Surface   string       `json:"surface"`
	Ready     bool         `json:"initialized"`
	Removable bool         `json:"removable"`
	Style     StyleProfile `json:"style"`
	Origin    time.Time    `json:"origin"`
	Version   uint64       `json:"version"`
	Datasets  []Dataset    `json:"datasets"`
}

func (s *Session) View() View {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	sets := make([]Dataset, len(s.sets))
	for i, d := range s.sets {
		d.Points = slices.Clone(d.Points)
		sets[i] = d
	}

	return View{
		ID:        s.ID,
		Surface:   s.surface,
		Ready:     s.ready,
		Removable: len(s.sets) > 0,
		Style:     s.style,
		Origin:    s.origin,
		Version:   s.version,
		Datasets:  sets,
	}
}

func (s *Session) precondition(op string) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	if s.surface == "" {
		return &PreconditionViolation{Op: op, Err: ErrNoSurface}
	}
	if !s.ready {
		return &PreconditionViolation{Op: op, Err: ErrNotInitialized}
	}
	return nil
}

func (s *Session) notify() {
	if s.redraw != nil {
		s.redraw(s)
	}
}
