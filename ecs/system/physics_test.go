package system

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPhysicsFreeFall(t *testing.T) {
	e := body("box", 0, 700, 20, 80)
	e.Physics.Enabled = true
	w := newTestWorld(t, e)
	ps := NewPhysicsSystem(10000)

	tick(w, 0.016, ps)
	got := mustEntity(t, w, "box")
	assert.InDelta(t, 0.5, got.Physics.VY, 1e-9)
	assert.InDelta(t, 700.5, got.Transform.Y, 1e-9)

	tick(w, 0.016, ps)
	got = mustEntity(t, w, "box")
	assert.InDelta(t, 1.0, got.Physics.VY, 1e-9)
	assert.InDelta(t, 701.5, got.Transform.Y, 1e-9)
}

func TestPhysicsFloorContact(t *testing.T) {
	e := body("box", 0, 700, 20, 80)
	e.Physics = physicsOf(0, 0, 0.1, 0.5)
	w := newTestWorld(t, e)
	ps := NewPhysicsSystem(720)

	// 700.5 + 80 is past the floor: clamp to 640 and flip vy to -0.05,
	// which is below the resting speed and settles to zero.
	tick(w, 0.016, ps)
	got := mustEntity(t, w, "box")
	assert.Equal(t, 640.0, got.Transform.Y)
	assert.Equal(t, 0.0, got.Physics.VY)
}

func TestPhysicsBounce(t *testing.T) {
	e := body("box", 0, 635, 20, 80)
	e.Physics = physicsOf(2, 9.5, 0.1, 0.5)
	w := newTestWorld(t, e)
	ps := NewPhysicsSystem(720)

	tick(w, 0.016, ps)
	got := mustEntity(t, w, "box")
	assert.Equal(t, 640.0, got.Transform.Y)
	assert.InDelta(t, -1.0, got.Physics.VY, 1e-9, "vy flips and keeps the restitution share")
	assert.InDelta(t, 1.0, got.Physics.VX, 1e-9, "friction damps vx on contact")
	assert.InDelta(t, 2.0, got.Transform.X, 1e-9)
}

func TestPhysicsSkipsStaticAndDisabled(t *testing.T) {
	static := body("static", 10, 10, 5, 5)
	static.Physics = physicsOf(3, 3, 1, 1)
	static.Physics.Static = true
	disabled := body("disabled", 20, 20, 5, 5)
	disabled.Physics.VX = 4

	w := newTestWorld(t, static, disabled)
	ps := NewPhysicsSystem(720)
	for i := 0; i < 100; i++ {
		tick(w, 0.016, ps)
	}

	for _, want := range []struct {
		id   string
		x, y float64
	}{{"static", 10, 10}, {"disabled", 20, 20}} {
		got := mustEntity(t, w, want.id)
		require.Equal(t, want.x, got.Transform.X, want.id)
		require.Equal(t, want.y, got.Transform.Y, want.id)
	}
}

func TestPhysicsSettlesOnFloor(t *testing.T) {
	e := body("ball", 0, 0, 10, 10)
	e.Physics = physicsOf(0, 0, 0.6, 0.9)
	w := newTestWorld(t, e)
	ps := NewPhysicsSystem(720)

	for i := 0; i < 2000; i++ {
		tick(w, 0.016, ps)
	}
	got := mustEntity(t, w, "ball")
	assert.Equal(t, 710.0, got.Transform.Y)
	assert.Equal(t, 0.0, got.Physics.VY)
}
