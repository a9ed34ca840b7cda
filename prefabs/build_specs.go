package prefabs

import (
	"fmt"
	"os"
	"strings"

	"github.com/milk9111/lumen/ecs/component"
)

// Seed is the decoded result of a scene prefab.
type Seed struct {
	Entities []component.Entity
	// ScriptFiles maps a script file to the ids of entities that run it, so
	// a file change can be pushed to them.
	ScriptFiles map[string][]string
}

// LoadScene reads a scene prefab and builds its entities.
func LoadScene(name string) (Seed, error) {
	spec, err := LoadSpec[SceneSpec](name)
	if err != nil {
		return Seed{}, err
	}
	return BuildScene(spec)
}

func BuildScene(spec SceneSpec) (Seed, error) {
	seed := Seed{ScriptFiles: map[string][]string{}}
	for i, es := range spec.Entities {
		e, err := BuildEntity(es)
		if err != nil {
			return Seed{}, fmt.Errorf("prefabs: entity %d (%s): %w", i, es.Name, err)
		}
		if es.ScriptFile != "" {
			if e.ID == "" {
				return Seed{}, fmt.Errorf("prefabs: entity %d (%s): script_file needs an explicit id", i, es.Name)
			}
			seed.ScriptFiles[es.ScriptFile] = append(seed.ScriptFiles[es.ScriptFile], e.ID)
		}
		seed.Entities = append(seed.Entities, e)
	}
	return seed, nil
}

// BuildEntity converts a spec into an entity value.
func BuildEntity(spec EntitySpec) (component.Entity, error) {
	typ := component.EntityRect
	if strings.TrimSpace(spec.Type) != "" {
		parsed, ok := component.ParseEntityType(spec.Type)
		if !ok {
			return component.Entity{}, fmt.Errorf("unknown entity type %q", spec.Type)
		}
		typ = parsed
	}

	e := component.Entity{
		ID:   spec.ID,
		Name: spec.Name,
		Type: typ,
		Transform: component.Transform{
			X:        spec.Transform.X,
			Y:        spec.Transform.Y,
			Rotation: spec.Transform.Rotation,
		},
		Physics: component.Physics{
			Enabled:     spec.Physics.Enabled,
			Static:      spec.Physics.Static,
			VX:          spec.Physics.VX,
			VY:          spec.Physics.VY,
			Mass:        spec.Physics.Mass,
			Friction:    spec.Physics.Friction,
			Restitution: spec.Physics.Restitution,
		},
		Color:         spec.Color.String(),
		ZIndex:        spec.ZIndex,
		Script:        spec.Script,
		LinkedLogicID: spec.Logic,
		State:         spec.State,
	}
	e.Transform.SetScale(spec.Transform.ScaleX, spec.Transform.ScaleY)

	if spec.Light != nil {
		e.Light = &component.Light{
			Enabled:     spec.Light.Enabled,
			Color:       spec.Light.Color.String(),
			Radius:      spec.Light.Radius,
			Intensity:   spec.Light.Intensity,
			Flicker:     spec.Light.Flicker,
			CastShadows: spec.Light.CastShadows,
		}
	}

	if spec.ScriptFile != "" {
		src, err := LoadScript(spec.ScriptFile)
		if err != nil {
			return component.Entity{}, fmt.Errorf("load script %s: %w", spec.ScriptFile, err)
		}
		e.Script = string(src)
	}

	if spec.Asset != "" {
		data, err := loadAsset(spec.Asset)
		if err != nil {
			return component.Entity{}, fmt.Errorf("load asset: %w", err)
		}
		e.Asset = data
	}

	return e, nil
}

// loadAsset keeps data URIs inline and reads anything else from disk.
func loadAsset(ref string) ([]byte, error) {
	if strings.HasPrefix(ref, "data:") {
		return []byte(ref), nil
	}
	return os.ReadFile(ref)
}
