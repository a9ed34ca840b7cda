package system

import (
	"testing"

	"github.com/milk9111/lumen/ecs/component"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func layered(id string, x, y, size float64, z int) component.Entity {
	e := body(id, x, y, size, size)
	e.ZIndex = z
	return e
}

func TestViewportToWorld(t *testing.T) {
	v := Viewport{ScreenW: 600, ScreenH: 400, WorldW: 1200, WorldH: 800}
	p := v.ToWorld(5, 10)
	assert.Equal(t, 10.0, p.X)
	assert.Equal(t, 20.0, p.Y)

	p = Viewport{}.ToWorld(3, 4)
	assert.Equal(t, 3.0, p.X)
	assert.Equal(t, 4.0, p.Y)
}

func TestHitTestOrdering(t *testing.T) {
	w := newTestWorld(t,
		layered("low", 0, 0, 100, 0),
		layered("high", 10, 10, 50, 5),
		layered("tie-first", 200, 0, 50, 1),
		layered("tie-second", 210, 0, 50, 1),
	)

	tests := []struct {
		x, y float64
		want string
	}{
		{x: 20, y: 20, want: "high"},
		{x: 5, y: 5, want: "low"},
		{x: 100, y: 100, want: "low"},
		{x: 230, y: 10, want: "tie-second"},
		{x: 205, y: 10, want: "tie-first"},
	}
	for _, tt := range tests {
		got, ok := HitTest(w, tt.x, tt.y)
		require.True(t, ok, "(%v,%v)", tt.x, tt.y)
		assert.Equal(t, tt.want, got.ID, "(%v,%v)", tt.x, tt.y)
	}

	_, ok := HitTest(w, 500, 500)
	assert.False(t, ok)
}

func TestPressSelectsAndSparks(t *testing.T) {
	sparks := &recordingSpawner{}
	w := newTestWorld(t, layered("box", 0, 0, 50, 0))
	is := NewInteractionSystem(Viewport{}, sparks)

	is.Apply(w, PointerEvent{Kind: PointerPress, X: 10, Y: 12})
	assert.Equal(t, "box", w.SelectedID())
	require.Len(t, sparks.bursts, 1)
	assert.Equal(t, burst{10, 12, "#fff", 5}, sparks.bursts[0])

	is.Apply(w, PointerEvent{Kind: PointerRelease})
	is.Apply(w, PointerEvent{Kind: PointerPress, X: 300, Y: 300})
	assert.Equal(t, "", w.SelectedID(), "pressing empty space clears the selection")
	assert.Len(t, sparks.bursts, 1)
	_, dragging := is.Dragging()
	assert.False(t, dragging)
}

func TestDragSetsPositionAndVelocity(t *testing.T) {
	box := layered("box", 0, 0, 50, 0)
	box.Physics.Enabled = true
	w := newTestWorld(t, box)
	is := NewInteractionSystem(Viewport{}, nil)

	is.Apply(w, PointerEvent{Kind: PointerPress, X: 10, Y: 10})
	for i := 1; i <= 3; i++ {
		is.Apply(w, PointerEvent{Kind: PointerMove, X: 10 + float64(3*i), Y: 10 + float64(4*i)})
		got := mustEntity(t, w, "box")
		assert.Equal(t, float64(3*i), got.Transform.X)
		assert.Equal(t, float64(4*i), got.Transform.Y)
		assert.Equal(t, 3.0, got.Physics.VX)
		assert.Equal(t, 4.0, got.Physics.VY)
	}

	is.Apply(w, PointerEvent{Kind: PointerRelease})
	_, dragging := is.Dragging()
	assert.False(t, dragging)

	got := mustEntity(t, w, "box")
	assert.Equal(t, 3.0, got.Physics.VX, "release keeps the last delta")
	assert.Equal(t, 4.0, got.Physics.VY)

	is.Apply(w, PointerEvent{Kind: PointerMove, X: 500, Y: 500})
	assert.Equal(t, 9.0, mustEntity(t, w, "box").Transform.X, "moves without a drag are ignored")
}

func TestDragOfRemovedEntityEnds(t *testing.T) {
	w := newTestWorld(t, layered("box", 0, 0, 50, 0))
	is := NewInteractionSystem(Viewport{}, nil)

	is.Apply(w, PointerEvent{Kind: PointerPress, X: 1, Y: 1})
	require.NoError(t, w.Remove("box"))
	is.Apply(w, PointerEvent{Kind: PointerMove, X: 2, Y: 2})

	_, dragging := is.Dragging()
	assert.False(t, dragging)
}
