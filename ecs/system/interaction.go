package system

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/lumen/ecs"
	"github.com/milk9111/lumen/ecs/component"
)

const (
	pressSparkColor = "#fff"
	pressSparkCount = 5
)

type PointerKind int

const (
	PointerPress PointerKind = iota + 1
	PointerMove
	PointerRelease
)

func (k PointerKind) String() string {
	switch k {
	case PointerPress:
		return "press"
	case PointerMove:
		return "move"
	case PointerRelease:
		return "release"
	}
	return "unknown"
}

// PointerEvent is a pointer sample in screen coordinates.
type PointerEvent struct {
	Kind PointerKind
	X    float64
	Y    float64
}

// Viewport maps a screen of ScreenW x ScreenH pixels onto the world.
type Viewport struct {
	ScreenW float64
	ScreenH float64
	WorldW  float64
	WorldH  float64
}

// ToWorld converts a screen point. A degenerate viewport is the identity.
func (v Viewport) ToWorld(x, y float64) cp.Vector {
	p := cp.Vector{X: x, Y: y}
	if v.ScreenW > 0 && v.WorldW > 0 {
		p.X = x * v.WorldW / v.ScreenW
	}
	if v.ScreenH > 0 && v.WorldH > 0 {
		p.Y = y * v.WorldH / v.ScreenH
	}
	return p
}

type dragState struct {
	id     string
	offset cp.Vector
	last   cp.Vector
}

// InteractionSystem turns pointer events into selection and drags. Dragging
// places the entity under the pointer and sets its velocity to the pointer
// delta since the previous sample, so a released body is thrown with the
// last motion.
type InteractionSystem struct {
	viewport Viewport
	sparks   Spawner
	drag     *dragState
}

func NewInteractionSystem(viewport Viewport, sparks Spawner) *InteractionSystem {
	return &InteractionSystem{viewport: viewport, sparks: sparks}
}

func (is *InteractionSystem) SetViewport(v Viewport) {
	if is == nil {
		return
	}
	is.viewport = v
}

func (is *InteractionSystem) Viewport() Viewport {
	if is == nil {
		return Viewport{}
	}
	return is.viewport
}

// Dragging returns the id of the entity being dragged.
func (is *InteractionSystem) Dragging() (string, bool) {
	if is == nil || is.drag == nil {
		return "", false
	}
	return is.drag.id, true
}

func (is *InteractionSystem) Reset() {
	if is == nil {
		return
	}
	is.drag = nil
}

// Apply handles one pointer event against the live world.
func (is *InteractionSystem) Apply(w *ecs.World, ev PointerEvent) {
	if is == nil || w == nil {
		return
	}

	p := is.viewport.ToWorld(ev.X, ev.Y)
	switch ev.Kind {
	case PointerPress:
		is.press(w, p)
	case PointerMove:
		is.move(w, p)
	case PointerRelease:
		is.drag = nil
	}
}

func (is *InteractionSystem) press(w *ecs.World, p cp.Vector) {
	hit, ok := HitTest(w, p.X, p.Y)
	if !ok {
		w.Select("")
		is.drag = nil
		return
	}

	w.Select(hit.ID)
	is.drag = &dragState{
		id:     hit.ID,
		offset: p.Sub(hit.Position()),
		last:   p,
	}
	if is.sparks != nil {
		is.sparks.Spawn(p.X, p.Y, pressSparkColor, pressSparkCount)
	}
}

func (is *InteractionSystem) move(w *ecs.World, p cp.Vector) {
	if is.drag == nil {
		return
	}
	e, ok := w.Entity(is.drag.id)
	if !ok {
		is.drag = nil
		return
	}

	delta := p.Sub(is.drag.last)
	pos := p.Sub(is.drag.offset)
	e.Transform.X, e.Transform.Y = pos.X, pos.Y
	e.Physics.VX, e.Physics.VY = delta.X, delta.Y
	is.drag.last = p
}

// HitTest returns the topmost entity whose bounds contain (x, y). Higher
// ZIndex wins; on a tie the later entity wins, matching paint order.
func HitTest(w *ecs.World, x, y float64) (component.Entity, bool) {
	var (
		best  *component.Entity
		found bool
	)
	w.Each(func(e *component.Entity) {
		if !e.Contains(x, y) {
			return
		}
		if !found || e.ZIndex >= best.ZIndex {
			best = e
			found = true
		}
	})
	if !found {
		return component.Entity{}, false
	}
	return best.Clone(), true
}
