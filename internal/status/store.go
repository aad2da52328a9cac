// Package status — снимок состояния часов для HTTP, websocket и mDNS. Читается из своих
// горутин и на цикл часов не влияет.
package status

import (
	"encoding/json"
	"sort"
	"sync/atomic"
	"time"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/shiwa/tc-clock/internal/display"
	"github.com/shiwa/tc-clock/internal/logger"
	"github.com/shiwa/tc-clock/pkg/clockdisplay"
)

// Snapshot — ответ GET /api/status.
type Snapshot struct {
	Name    string               `json:"name"`
	Started time.Time            `json:"started"`
	Last    *clockdisplay.Report `json:"last,omitempty"`
	Frames  []display.Frame      `json:"frames"`
}

// Event — сообщение websocket.
type Event struct {
	Type string      `json:"type"` // snapshot, frame, report
	Data interface{} `json:"data"`
}

// Store хранит последний кадр каждой зоны и последний Report. Реализует display.Mirror
// и clockdisplay.Reporter.
type Store struct {
	name    string
	started time.Time
	frames  *xsync.MapOf[string, display.Frame]
	last    atomic.Pointer[clockdisplay.Report]
	hub     *Hub
}

// NewStore создаёт пустой снимок с именем экземпляра.
func NewStore(name string) *Store {
	return &Store{
		name:    name,
		started: time.Now(),
		frames:  xsync.NewMapOf[string, display.Frame](),
		hub:     NewHub(),
	}
}

// Hub возвращает websocket рассылку этого снимка.
func (s *Store) Hub() *Hub {
	return s.hub
}

// Publish сохраняет кадр и рассылает его подписчикам.
func (s *Store) Publish(f display.Frame) {
	s.frames.Store(f.Zone, f)
	s.broadcast(Event{Type: "frame", Data: f})
}

// Report сохраняет итог цикла.
func (s *Store) Report(r clockdisplay.Report) {
	s.last.Store(&r)
	s.broadcast(Event{Type: "report", Data: r})
}

// Snapshot возвращает копию состояния; кадры отсортированы по зоне.
func (s *Store) Snapshot() Snapshot {
	snap := Snapshot{Name: s.name, Started: s.started, Last: s.last.Load(), Frames: []display.Frame{}}
	s.frames.Range(func(_ string, f display.Frame) bool {
		snap.Frames = append(snap.Frames, f)
		return true
	})
	sort.Slice(snap.Frames, func(i, j int) bool { return snap.Frames[i].Zone < snap.Frames[j].Zone })
	return snap
}

func (s *Store) broadcast(ev Event) {
	if s.hub.Len() == 0 {
		return
	}
	data, err := json.Marshal(ev)
	if err != nil {
		logger.Debug("status: marshal %s: %v", ev.Type, err)
		return
	}
	s.hub.Broadcast(data)
}
