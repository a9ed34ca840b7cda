package engine

import (
	"fmt"
	"time"

	"github.com/milk9111/lumen/ecs/component"
	"gopkg.in/yaml.v3"
)

// Inspection is a read-only dump of the engine state. It is written for
// people and tools; nothing reads it back as live state.
type Inspection struct {
	Tick       uint64            `yaml:"tick"`
	Paused     bool              `yaml:"paused"`
	Gravity    float64           `yaml:"gravity"`
	NowPlaying string            `yaml:"now_playing,omitempty"`
	Dialog     *DialogDump       `yaml:"dialog,omitempty"`
	Selected   string            `yaml:"selected,omitempty"`
	Global     map[string]any    `yaml:"global,omitempty"`
	Particles  int               `yaml:"particles"`
	Entities   []EntityDump      `yaml:"entities"`
	Assets     map[string]string `yaml:"assets,omitempty"`
	Logs       []LogDump         `yaml:"logs,omitempty"`
}

type DialogDump struct {
	Speaker string `yaml:"speaker"`
	Text    string `yaml:"text"`
}

type EntityDump struct {
	ID       string         `yaml:"id"`
	Name     string         `yaml:"name"`
	Type     string         `yaml:"type"`
	X        float64        `yaml:"x"`
	Y        float64        `yaml:"y"`
	Rotation float64        `yaml:"rotation,omitempty"`
	ScaleX   float64        `yaml:"scale_x"`
	ScaleY   float64        `yaml:"scale_y"`
	VX       float64        `yaml:"vx,omitempty"`
	VY       float64        `yaml:"vy,omitempty"`
	Static   bool           `yaml:"static,omitempty"`
	Z        int            `yaml:"z"`
	Color    string         `yaml:"color,omitempty"`
	Logic    string         `yaml:"linked_logic_id,omitempty"`
	Script   string         `yaml:"script,omitempty"`
	State    map[string]any `yaml:"state,omitempty"`
}

type LogDump struct {
	Time string `yaml:"time"`
	Kind string `yaml:"kind"`
	Text string `yaml:"text"`
}

func DumpEntity(e component.Entity) EntityDump {
	d := EntityDump{
		ID:       e.ID,
		Name:     e.Name,
		Type:     string(e.Type),
		X:        e.Transform.X,
		Y:        e.Transform.Y,
		Rotation: e.Transform.Rotation,
		ScaleX:   e.Transform.ScaleX,
		ScaleY:   e.Transform.ScaleY,
		Z:        e.ZIndex,
		Color:    e.Color,
		Logic:    e.LinkedLogicID,
		Script:   e.Script,
		State:    e.State,
	}
	if e.Physics.Enabled {
		d.VX, d.VY = e.Physics.VX, e.Physics.VY
		d.Static = e.Physics.Static
	}
	return d
}

// Inspect captures the current state.
func (e *Engine) Inspect() Inspection {
	in := Inspection{
		Tick:       e.Ticks(),
		Paused:     e.Paused(),
		Gravity:    e.world.Settings.Gravity,
		NowPlaying: e.NowPlaying(),
		Selected:   e.world.SelectedID(),
		Global:     e.Global(),
		Particles:  len(e.particles.Particles()),
	}
	if d, ok := e.Dialog(); ok {
		in.Dialog = &DialogDump{Speaker: d.Speaker, Text: d.Text}
	}
	for _, ent := range e.Snapshot() {
		in.Entities = append(in.Entities, DumpEntity(ent))
	}
	for _, l := range e.Logs() {
		in.Logs = append(in.Logs, LogDump{
			Time: l.Time.Format(time.TimeOnly),
			Kind: string(l.Kind),
			Text: l.Text,
		})
	}
	return in
}

// MarshalYAML renders v as a YAML document.
func MarshalYAML(v any) ([]byte, error) {
	out, err := yaml.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("engine: marshal: %w", err)
	}
	return out, nil
}
