package engine

import (
	"fmt"

	"github.com/milk9111/lumen/ecs/component"
	"gopkg.in/yaml.v3"
)

// Patch is an externally generated behavior update for one entity. Only the
// fields present are applied. The keys follow the assistant's JSON output,
// so a response body can be decoded directly.
type Patch struct {
	Script    string          `yaml:"onUpdate"`
	Physics   *PhysicsPatch   `yaml:"physics"`
	Transform *TransformPatch `yaml:"transform"`
}

type PhysicsPatch struct {
	Enabled     *bool    `yaml:"enabled"`
	Static      *bool    `yaml:"isStatic"`
	VX          *float64 `yaml:"vx"`
	VY          *float64 `yaml:"vy"`
	Mass        *float64 `yaml:"mass"`
	Friction    *float64 `yaml:"friction"`
	Restitution *float64 `yaml:"restitution"`
}

type TransformPatch struct {
	X        *float64 `yaml:"x"`
	Y        *float64 `yaml:"y"`
	Rotation *float64 `yaml:"rotation"`
	ScaleX   *float64 `yaml:"scaleX"`
	ScaleY   *float64 `yaml:"scaleY"`
}

// ParsePatch decodes a JSON or YAML patch document.
func ParsePatch(data []byte) (Patch, error) {
	var p Patch
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Patch{}, fmt.Errorf("engine: parse patch: %w", err)
	}
	return p, nil
}

func (p Patch) Empty() bool {
	return p.Script == "" && p.Physics == nil && p.Transform == nil
}

func (p Patch) apply(e *component.Entity) {
	if p.Script != "" {
		e.Script = p.Script
	}
	if ph := p.Physics; ph != nil {
		setBool(&e.Physics.Enabled, ph.Enabled)
		setBool(&e.Physics.Static, ph.Static)
		setFloat(&e.Physics.VX, ph.VX)
		setFloat(&e.Physics.VY, ph.VY)
		setFloat(&e.Physics.Mass, ph.Mass)
		setFloat(&e.Physics.Friction, ph.Friction)
		setFloat(&e.Physics.Restitution, ph.Restitution)
	}
	if t := p.Transform; t != nil {
		setFloat(&e.Transform.X, t.X)
		setFloat(&e.Transform.Y, t.Y)
		setFloat(&e.Transform.Rotation, t.Rotation)
		sx, sy := e.Transform.ScaleX, e.Transform.ScaleY
		setFloat(&sx, t.ScaleX)
		setFloat(&sy, t.ScaleY)
		e.Transform.SetScale(sx, sy)
	}
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}
