package ecs

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/milk9111/lumen/ecs/component"
)

var (
	ErrEntityNotFound = errors.New("ecs: entity not found")
	ErrDuplicateID    = errors.New("ecs: duplicate entity id")
)

// Settings are the scalar runtime toggles.
type Settings struct {
	Gravity  float64
	Ambience string
	Paused   bool
	Grid     bool
	Bloom    bool
}

// World owns the entity arena and the rest of the runtime state: selection,
// the user-facing log, the pending dialog and the per-tick frame.
type World struct {
	handles  handleStore
	entities SparseSet[component.Entity]
	byID     map[string]Handle

	Settings Settings
	Global   map[string]any

	selected   string
	logs       LogRing
	dialog     *component.Dialog
	nowPlaying string
	events     EventQueue
	frame      Frame

	newID func() string
	now   func() time.Time
}

type Option func(*World)

// WithIDGenerator replaces uuid ids, mostly for tests.
func WithIDGenerator(fn func() string) Option {
	return func(w *World) {
		if fn != nil {
			w.newID = fn
		}
	}
}

// WithTimeSource stamps log entries with fn instead of time.Now.
func WithTimeSource(fn func() time.Time) Option {
	return func(w *World) {
		if fn != nil {
			w.now = fn
		}
	}
}

// NewWorld creates an empty world.
func NewWorld(opts ...Option) *World {
	w := &World{
		byID:   map[string]Handle{},
		Global: map[string]any{},
		newID:  uuid.NewString,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Add appends an entity and returns its id. An empty id is filled in.
func (w *World) Add(e component.Entity) (string, error) {
	if e.ID == "" {
		e.ID = w.newID()
	}
	if _, exists := w.byID[e.ID]; exists {
		return "", fmt.Errorf("%w: %s", ErrDuplicateID, e.ID)
	}
	e.Transform.SetScale(e.Transform.ScaleX, e.Transform.ScaleY)
	if e.State == nil {
		e.State = map[string]any{}
	}

	h := w.handles.create()
	w.entities.Set(h.slot(), e)
	w.byID[e.ID] = h
	w.events.Push(Event{Type: EventEntitySpawned, Data: e.ID})
	return e.ID, nil
}

// Remove deletes an entity. Selection pointing at it is cleared.
func (w *World) Remove(id string) error {
	h, ok := w.byID[id]
	if !ok || !w.handles.isAlive(h) {
		return fmt.Errorf("%w: %s", ErrEntityNotFound, id)
	}
	w.entities.Remove(h.slot())
	w.handles.destroy(h)
	delete(w.byID, id)
	if w.selected == id {
		w.selected = ""
	}
	w.events.Push(Event{Type: EventEntityDeleted, Data: id})
	return nil
}

// Entity returns a pointer into the arena. It is only valid until the next
// Add or Remove.
func (w *World) Entity(id string) (*component.Entity, bool) {
	h, ok := w.byID[id]
	if !ok || !w.handles.isAlive(h) {
		return nil, false
	}
	e := w.entities.Get(h.slot())
	return e, e != nil
}

func (w *World) Has(id string) bool {
	_, ok := w.Entity(id)
	return ok
}

func (w *World) Len() int {
	return w.entities.Len()
}

// Each visits entities in insertion order.
func (w *World) Each(fn func(e *component.Entity)) {
	values := w.entities.Values()
	for i := range values {
		fn(&values[i])
	}
}

// Snapshot deep-copies every entity in insertion order.
func (w *World) Snapshot() []component.Entity {
	values := w.entities.Values()
	out := make([]component.Entity, len(values))
	for i := range values {
		out[i] = values[i].Clone()
	}
	return out
}

// Clear drops every entity and all transient state.
func (w *World) Clear() {
	w.entities.Clear()
	w.handles.reset()
	w.byID = map[string]Handle{}
	w.Global = map[string]any{}
	w.selected = ""
	w.logs.Reset()
	w.dialog = nil
	w.nowPlaying = ""
	w.events.flush()
	w.frame = Frame{}
}

// Select marks id as selected. An empty or unknown id clears the selection.
func (w *World) Select(id string) bool {
	if id == "" || !w.Has(id) {
		w.selected = ""
		return false
	}
	w.selected = id
	return true
}

func (w *World) SelectedID() string {
	return w.selected
}

func (w *World) Selected() (component.Entity, bool) {
	e, ok := w.Entity(w.selected)
	if !ok {
		return component.Entity{}, false
	}
	return e.Clone(), true
}

// Log prepends a user-facing log entry.
func (w *World) Log(text string, kind LogKind) {
	w.logs.Add(LogEntry{ID: w.newID(), Text: text, Kind: kind, Time: w.now()})
}

func (w *World) Logs() []LogEntry {
	return w.logs.Entries()
}

// RequestDialog stores d unless a dialog is already pending.
func (w *World) RequestDialog(d component.Dialog) bool {
	if w.dialog != nil {
		return false
	}
	w.dialog = &d
	w.events.Push(Event{Type: EventDialogRequested, Data: d})
	return true
}

func (w *World) Dialog() (component.Dialog, bool) {
	if w.dialog == nil {
		return component.Dialog{}, false
	}
	return *w.dialog, true
}

func (w *World) DialogPending() bool {
	return w.dialog != nil
}

func (w *World) DismissDialog() {
	w.dialog = nil
}

// SetNowPlaying records the active scene and reports whether it changed.
func (w *World) SetNowPlaying(scene string) bool {
	if scene == w.nowPlaying {
		return false
	}
	w.nowPlaying = scene
	w.events.Push(Event{Type: EventScenePlaying, Data: scene})
	return true
}

func (w *World) NowPlaying() string {
	return w.nowPlaying
}

// Events returns the world event queue.
func (w *World) Events() *EventQueue {
	if w == nil {
		return nil
	}
	return &w.events
}

// Frame is the read-only context of the running tick.
type Frame struct {
	Tick     uint64
	DT       float64
	Now      time.Time
	Settings Settings
	// Snapshot is the committed state at tick start. Lookups during the tick
	// go through it so results do not depend on processing order.
	Snapshot []component.Entity
}

// BeginFrame snapshots the world for a new tick.
func (w *World) BeginFrame(dt float64, now time.Time) *Frame {
	w.frame = Frame{
		Tick:     w.frame.Tick + 1,
		DT:       dt,
		Now:      now,
		Settings: w.Settings,
		Snapshot: w.Snapshot(),
	}
	return &w.frame
}

func (w *World) Frame() *Frame {
	return &w.frame
}

// Find returns the snapshot entity with id.
func (f *Frame) Find(id string) (component.Entity, bool) {
	for _, e := range f.Snapshot {
		if e.ID == id {
			return e, true
		}
	}
	return component.Entity{}, false
}

// FirstNamed returns the first snapshot entity whose name contains sub,
// ignoring case.
func (f *Frame) FirstNamed(sub string) (component.Entity, bool) {
	needle := strings.ToLower(sub)
	for _, e := range f.Snapshot {
		if strings.Contains(strings.ToLower(e.Name), needle) {
			return e, true
		}
	}
	return component.Entity{}, false
}
