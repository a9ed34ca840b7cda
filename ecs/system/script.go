package system

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/lumen/config"
	"github.com/milk9111/lumen/ecs"
	"github.com/milk9111/lumen/ecs/component"
	"go.uber.org/zap"
)

// scriptModules are the tengo stdlib modules a behavior script may import.
// Nothing here touches the host filesystem or process.
var scriptModules = []string{"math", "text", "times", "rand", "fmt", "json", "enum", "base64", "hex"}

const (
	maxSparksPerCall    = 64
	maxEffectsPerRun    = 256
	scriptContextGlobal = "ctx"
)

var errEffectLimit = errors.New("script: too many effects in one run")

type compiledScript struct {
	compiled *tengo.Compiled
	err      error
}

type scriptEffect struct {
	spark *sparkBurst
	log   *ecs.LogEntry
}

type sparkBurst struct {
	x, y  float64
	color string
	count int
}

// ScriptSystem runs each entity's behavior script once per tick in a tengo VM.
// Scripts see a single global, ctx, holding a mutable view of their entity
// and a read-only view of the tick-start world. Entity edits are written back
// only when the run succeeds; any failure leaves the entity untouched for
// that tick.
type ScriptSystem struct {
	logger    *zap.Logger
	budget    time.Duration
	maxAllocs int64
	sparks    Spawner
	width     float64
	height    float64

	cache map[uint64]*compiledScript

	worldTick uint64
	worldView *tengo.ImmutableMap
}

func NewScriptSystem(cfg config.ScriptConfig, world config.WorldConfig, sparks Spawner, logger *zap.Logger) *ScriptSystem {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScriptSystem{
		logger:    logger.Named("script"),
		budget:    cfg.Budget,
		maxAllocs: cfg.MaxAllocs,
		sparks:    sparks,
		width:     world.Width,
		height:    world.Height,
		cache:     map[uint64]*compiledScript{},
	}
}

func (s *ScriptSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}

	frame := w.Frame()
	w.Each(func(e *component.Entity) {
		if strings.TrimSpace(e.Script) == "" {
			return
		}
		if err := s.run(w, frame, e); err != nil {
			s.logger.Debug("script failed", zap.String("entity", e.ID), zap.Error(err))
		}
	})
}

// CacheLen reports how many distinct script bodies have been compiled.
func (s *ScriptSystem) CacheLen() int {
	if s == nil {
		return 0
	}
	return len(s.cache)
}

// Invalidate drops every compiled script.
func (s *ScriptSystem) Invalidate() {
	if s == nil {
		return
	}
	s.cache = map[uint64]*compiledScript{}
	s.worldView = nil
}

func (s *ScriptSystem) compile(src string) (*tengo.Compiled, error) {
	key := xxhash.Sum64String(src)
	if c, ok := s.cache[key]; ok {
		return c.compiled, c.err
	}

	script := tengo.NewScript([]byte(src))
	if err := script.Add(scriptContextGlobal, &tengo.ImmutableMap{Value: map[string]tengo.Object{}}); err != nil {
		err = fmt.Errorf("script: compile: %w", err)
		s.cache[key] = &compiledScript{err: err}
		return nil, err
	}
	script.SetImports(stdlib.GetModuleMap(scriptModules...))
	if s.maxAllocs > 0 {
		script.SetMaxAllocs(s.maxAllocs)
	}

	compiled, err := script.Compile()
	if err != nil {
		err = fmt.Errorf("script: compile: %w", err)
	}
	s.cache[key] = &compiledScript{compiled: compiled, err: err}
	return compiled, err
}

func (s *ScriptSystem) run(w *ecs.World, frame *ecs.Frame, e *component.Entity) error {
	compiled, err := s.compile(e.Script)
	if err != nil {
		return err
	}

	entity, err := entityToObject(*e)
	if err != nil {
		return err
	}

	var effects []scriptEffect
	ctxMap := &tengo.ImmutableMap{Value: map[string]tengo.Object{
		"entity":          entity,
		"world":           s.world(frame, w),
		"dt":              &tengo.Float{Value: frame.DT},
		"time":            &tengo.Int{Value: frame.Now.UnixMilli()},
		"spawn_particles": s.spawnFunc(&effects),
		"log":             s.logFunc(&effects, frame.Now),
	}}
	if err := compiled.Set(scriptContextGlobal, ctxMap); err != nil {
		return err
	}

	runCtx := context.Background()
	if s.budget > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(runCtx, s.budget)
		defer cancel()
	}
	runErr := compiled.RunContext(runCtx)

	// Effects already raised stay raised, even when the run fails later.
	s.apply(w, effects)

	if runErr != nil {
		return fmt.Errorf("script: run: %w", runErr)
	}
	applyEntityObject(e, entity)
	return nil
}

func (s *ScriptSystem) apply(w *ecs.World, effects []scriptEffect) {
	for _, fx := range effects {
		switch {
		case fx.spark != nil:
			if s.sparks != nil {
				s.sparks.Spawn(fx.spark.x, fx.spark.y, fx.spark.color, fx.spark.count)
			}
		case fx.log != nil:
			w.Log(fx.log.Text, fx.log.Kind)
		}
	}
}

func (s *ScriptSystem) spawnFunc(effects *[]scriptEffect) *tengo.UserFunction {
	return &tengo.UserFunction{Name: "spawn_particles", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 2 {
			return nil, tengo.ErrWrongNumArguments
		}
		x, ok := tengo.ToFloat64(args[0])
		if !ok {
			return nil, tengo.ErrInvalidArgumentType{Name: "x", Expected: "float", Found: args[0].TypeName()}
		}
		y, ok := tengo.ToFloat64(args[1])
		if !ok {
			return nil, tengo.ErrInvalidArgumentType{Name: "y", Expected: "float", Found: args[1].TypeName()}
		}
		burst := &sparkBurst{x: x, y: y, color: DefaultSparkColor, count: DefaultSparkCount}
		if len(args) > 2 {
			if c := strings.TrimSpace(objectAsString(args[2])); c != "" {
				burst.color = c
			}
		}
		if len(args) > 3 {
			if n, ok := tengo.ToInt(args[3]); ok {
				burst.count = min(max(n, 0), maxSparksPerCall)
			}
		}
		if len(*effects) >= maxEffectsPerRun {
			return nil, errEffectLimit
		}
		*effects = append(*effects, scriptEffect{spark: burst})
		return tengo.UndefinedValue, nil
	}}
}

func (s *ScriptSystem) logFunc(effects *[]scriptEffect, now time.Time) *tengo.UserFunction {
	return &tengo.UserFunction{Name: "log", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return nil, tengo.ErrWrongNumArguments
		}
		entry := &ecs.LogEntry{Text: objectAsString(args[0]), Kind: ecs.LogInfo, Time: now}
		if len(args) > 1 {
			entry.Kind = ecs.ParseLogKind(objectAsString(args[1]))
		}
		if len(*effects) >= maxEffectsPerRun {
			return nil, errEffectLimit
		}
		*effects = append(*effects, scriptEffect{log: entry})
		return tengo.UndefinedValue, nil
	}}
}

// world builds the read-only world view once per tick.
func (s *ScriptSystem) world(frame *ecs.Frame, w *ecs.World) *tengo.ImmutableMap {
	if s.worldView != nil && s.worldTick == frame.Tick {
		return s.worldView
	}

	entities := make([]tengo.Object, 0, len(frame.Snapshot))
	for _, e := range frame.Snapshot {
		entities = append(entities, entityView(e))
	}

	global := map[string]tengo.Object{}
	for k, v := range w.Global {
		obj, err := tengo.FromInterface(v)
		if err != nil {
			continue
		}
		global[k] = obj
	}

	s.worldView = &tengo.ImmutableMap{Value: map[string]tengo.Object{
		"gravity":  &tengo.Float{Value: frame.Settings.Gravity},
		"paused":   boolObject(frame.Settings.Paused),
		"width":    &tengo.Float{Value: s.width},
		"height":   &tengo.Float{Value: s.height},
		"tick":     &tengo.Int{Value: int64(frame.Tick)},
		"entities": &tengo.ImmutableArray{Value: entities},
		"global":   &tengo.ImmutableMap{Value: global},
	}}
	s.worldTick = frame.Tick
	return s.worldView
}

func entityFields(e component.Entity) map[string]tengo.Object {
	return map[string]tengo.Object{
		"id":       &tengo.String{Value: e.ID},
		"name":     &tengo.String{Value: e.Name},
		"type":     &tengo.String{Value: string(e.Type)},
		"x":        &tengo.Float{Value: e.Transform.X},
		"y":        &tengo.Float{Value: e.Transform.Y},
		"rotation": &tengo.Float{Value: e.Transform.Rotation},
		"scale_x":  &tengo.Float{Value: e.Transform.ScaleX},
		"scale_y":  &tengo.Float{Value: e.Transform.ScaleY},
		"vx":       &tengo.Float{Value: e.Physics.VX},
		"vy":       &tengo.Float{Value: e.Physics.VY},
		"z":        &tengo.Int{Value: int64(e.ZIndex)},
		"color":    &tengo.String{Value: e.Color},
	}
}

func entityView(e component.Entity) *tengo.ImmutableMap {
	return &tengo.ImmutableMap{Value: entityFields(e)}
}

func entityToObject(e component.Entity) (*tengo.Map, error) {
	fields := entityFields(e)
	state, err := tengo.FromInterface(map[string]any(e.State))
	if err != nil {
		return nil, fmt.Errorf("script: state of %s: %w", e.ID, err)
	}
	fields["state"] = state
	return &tengo.Map{Value: fields}, nil
}

// applyEntityObject copies the writable fields of the script's entity map
// back onto e. Fields of the wrong type are ignored.
func applyEntityObject(e *component.Entity, obj *tengo.Map) {
	float := func(key string, dst *float64) {
		if v, ok := obj.Value[key]; ok {
			if f, ok := tengo.ToFloat64(v); ok {
				*dst = f
			}
		}
	}

	float("x", &e.Transform.X)
	float("y", &e.Transform.Y)
	float("rotation", &e.Transform.Rotation)
	sx, sy := e.Transform.ScaleX, e.Transform.ScaleY
	float("scale_x", &sx)
	float("scale_y", &sy)
	e.Transform.SetScale(sx, sy)
	float("vx", &e.Physics.VX)
	float("vy", &e.Physics.VY)

	if v, ok := obj.Value["z"]; ok {
		if z, ok := tengo.ToInt(v); ok {
			e.ZIndex = z
		}
	}
	if v, ok := obj.Value["color"].(*tengo.String); ok {
		e.Color = v.Value
	}
	if v, ok := objectToAny(obj.Value["state"]).(map[string]any); ok {
		e.State = v
	}
}

func boolObject(b bool) tengo.Object {
	if b {
		return tengo.TrueValue
	}
	return tengo.FalseValue
}

func objectAsString(obj tengo.Object) string {
	if obj == nil {
		return ""
	}
	switch v := obj.(type) {
	case *tengo.String:
		return v.Value
	default:
		return strings.Trim(v.String(), "\"")
	}
}

func objectToAny(obj tengo.Object) any {
	if obj == nil {
		return nil
	}

	switch v := obj.(type) {
	case *tengo.String:
		return v.Value
	case *tengo.Int:
		return int(v.Value)
	case *tengo.Float:
		return v.Value
	case *tengo.Bool:
		return !v.IsFalsy()
	case *tengo.Array:
		out := make([]any, 0, len(v.Value))
		for _, item := range v.Value {
			out = append(out, objectToAny(item))
		}
		return out
	case *tengo.ImmutableArray:
		out := make([]any, 0, len(v.Value))
		for _, item := range v.Value {
			out = append(out, objectToAny(item))
		}
		return out
	case *tengo.Map:
		out := make(map[string]any, len(v.Value))
		for k, item := range v.Value {
			out[k] = objectToAny(item)
		}
		return out
	case *tengo.ImmutableMap:
		out := make(map[string]any, len(v.Value))
		for k, item := range v.Value {
			out[k] = objectToAny(item)
		}
		return out
	case *tengo.Undefined:
		return nil
	default:
		return v.String()
	}
}
