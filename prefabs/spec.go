package prefabs

import (
	"fmt"

	"github.com/milk9111/lumen/common"
	"gopkg.in/yaml.v3"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// SceneSpec seeds the store with entities. It is read once at start-up and
// never written back.
type SceneSpec struct {
	Name     string       `yaml:"name"`
	Entities []EntitySpec `yaml:"entities"`
}

type EntitySpec struct {
	ID         string         `yaml:"id"`
	Name       string         `yaml:"name"`
	Type       string         `yaml:"type"`
	Transform  TransformSpec  `yaml:"transform"`
	Physics    PhysicsSpec    `yaml:"physics"`
	Light      *LightSpec     `yaml:"light"`
	Color      *YAMLColor     `yaml:"color"`
	Asset      string         `yaml:"asset"`
	ZIndex     int            `yaml:"z_index"`
	Script     string         `yaml:"script"`
	ScriptFile string         `yaml:"script_file"`
	Logic      string         `yaml:"linked_logic_id"`
	State      map[string]any `yaml:"state"`
}

type TransformSpec struct {
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	ScaleX   float64 `yaml:"scale_x"`
	ScaleY   float64 `yaml:"scale_y"`
	Rotation float64 `yaml:"rotation"`
}

type PhysicsSpec struct {
	Enabled     bool    `yaml:"enabled"`
	Static      bool    `yaml:"static"`
	VX          float64 `yaml:"vx"`
	VY          float64 `yaml:"vy"`
	Mass        float64 `yaml:"mass"`
	Friction    float64 `yaml:"friction"`
	Restitution float64 `yaml:"restitution"`
}

type LightSpec struct {
	Enabled     bool       `yaml:"enabled"`
	Color       *YAMLColor `yaml:"color"`
	Radius      float64    `yaml:"radius"`
	Intensity   float64    `yaml:"intensity"`
	Flicker     bool       `yaml:"flicker"`
	CastShadows bool       `yaml:"cast_shadows"`
}

// YAMLColor accepts "#rrggbb", "#rrggbbaa" or an SVG color name and keeps
// the source text.
type YAMLColor struct {
	Hex string
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}
	if _, err := common.ParseHexColor(value.Value); err != nil {
		return err
	}
	c.Hex = value.Value
	return nil
}

func (c *YAMLColor) String() string {
	if c == nil {
		return ""
	}
	return c.Hex
}
