package system

import (
	"math"

	"github.com/milk9111/lumen/ecs"
	"github.com/milk9111/lumen/ecs/component"
)

// restingSpeed is the bounce speed below which a body settles on the floor.
const restingSpeed = 0.5

// PhysicsSystem integrates gravity and velocity once per tick and resolves
// contact with a single horizontal floor. Steps are per tick, not scaled by
// dt. Bodies never collide with each other.
type PhysicsSystem struct {
	floorY float64
}

func NewPhysicsSystem(floorY float64) *PhysicsSystem {
	return &PhysicsSystem{floorY: floorY}
}

func (ps *PhysicsSystem) FloorY() float64 {
	if ps == nil {
		return 0
	}
	return ps.floorY
}

func (ps *PhysicsSystem) Update(w *ecs.World) {
	if ps == nil || w == nil {
		return
	}

	gravity := w.Frame().Settings.Gravity
	w.Each(func(e *component.Entity) {
		if !e.Physics.Dynamic() {
			return
		}
		ps.step(e, gravity)
	})
}

func (ps *PhysicsSystem) step(e *component.Entity, gravity float64) {
	t := &e.Transform
	p := &e.Physics

	p.VY += gravity
	t.X += p.VX
	t.Y += p.VY

	if t.Y+t.ScaleY > ps.floorY {
		t.Y = ps.floorY - t.ScaleY
		p.VY = -p.VY * p.Restitution
		p.VX *= p.Friction
		if math.Abs(p.VY) < restingSpeed {
			p.VY = 0
		}
	}
}
