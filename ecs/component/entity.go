package component

import (
	"maps"
	"slices"
	"strings"

	"github.com/jakecoffman/cp"
)

type EntityType string

const (
	EntitySprite EntityType = "sprite"
	EntityRect   EntityType = "rect"
	EntityCircle EntityType = "circle"
	EntityVideo  EntityType = "video"
)

// ParseEntityType maps a free-form name onto an EntityType.
func ParseEntityType(s string) (EntityType, bool) {
	switch EntityType(strings.ToLower(strings.TrimSpace(s))) {
	case EntitySprite:
		return EntitySprite, true
	case EntityRect:
		return EntityRect, true
	case EntityCircle:
		return EntityCircle, true
	case EntityVideo:
		return EntityVideo, true
	}
	return "", false
}

// Entity is the simulated object. It is a plain value: copies made with Clone
// share nothing with the original.
type Entity struct {
	ID        string
	Name      string
	Type      EntityType
	Transform Transform
	Physics   Physics
	Light     *Light
	Color     string
	// Asset holds encoded image bytes or a data URI for sprite entities.
	Asset         []byte
	ZIndex        int
	Script        string
	LinkedLogicID string
	State         map[string]any
}

// Clone returns a deep copy.
func (e Entity) Clone() Entity {
	out := e
	if e.Light != nil {
		light := *e.Light
		out.Light = &light
	}
	if e.Asset != nil {
		out.Asset = slices.Clone(e.Asset)
	}
	out.State = cloneState(e.State)
	return out
}

// Bounds is the axis-aligned box covered by the entity.
func (e Entity) Bounds() cp.BB {
	t := e.Transform
	return cp.BB{L: t.X, B: t.Y, R: t.X + t.ScaleX, T: t.Y + t.ScaleY}
}

// Position is the entity origin as a vector.
func (e Entity) Position() cp.Vector {
	return cp.Vector{X: e.Transform.X, Y: e.Transform.Y}
}

func (e Entity) Center() cp.Vector {
	return e.Bounds().Center()
}

// Contains reports whether a world-space point lies in the bounds, edges included.
func (e Entity) Contains(x, y float64) bool {
	return e.Bounds().ContainsVect(cp.Vector{X: x, Y: y})
}

func cloneState(in map[string]any) map[string]any {
	if in == nil {
		return nil
	}
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneState(t)
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = cloneValue(item)
		}
		return out
	case map[string]string:
		return maps.Clone(t)
	default:
		return v
	}
}
