package system

import (
	"fmt"
	"testing"
	"time"

	"github.com/milk9111/lumen/ecs"
	"github.com/milk9111/lumen/ecs/component"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func newTestWorld(t *testing.T, entities ...component.Entity) *ecs.World {
	t.Helper()
	n := 0
	w := ecs.NewWorld(
		ecs.WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		}),
		ecs.WithTimeSource(func() time.Time { return epoch }),
	)
	w.Settings.Gravity = 0.5
	for _, e := range entities {
		_, err := w.Add(e)
		require.NoError(t, err)
	}
	return w
}

// tick runs systems against one frame of dt seconds.
func tick(w *ecs.World, dt float64, systems ...ecs.System) {
	f := w.Frame()
	w.BeginFrame(dt, epoch.Add(time.Duration(f.Tick+1)*16*time.Millisecond))
	for _, s := range systems {
		s.Update(w)
	}
}

func body(id string, x, y, w, h float64) component.Entity {
	return component.Entity{
		ID:   id,
		Name: id,
		Type: component.EntityRect,
		Transform: component.Transform{
			X: x, Y: y, ScaleX: w, ScaleY: h,
		},
	}
}

func mustEntity(t *testing.T, w *ecs.World, id string) component.Entity {
	t.Helper()
	e, ok := w.Entity(id)
	require.True(t, ok, "entity %s missing", id)
	return e.Clone()
}

type recordingSpawner struct {
	bursts []burst
}

type burst struct {
	x, y  float64
	color string
	count int
}

func (r *recordingSpawner) Spawn(x, y float64, color string, count int) {
	r.bursts = append(r.bursts, burst{x, y, color, count})
}

func physicsOf(vx, vy, restitution, friction float64) component.Physics {
	return component.Physics{
		Enabled:     true,
		VX:          vx,
		VY:          vy,
		Mass:        1,
		Restitution: restitution,
		Friction:    friction,
	}
}
