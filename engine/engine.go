package engine

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/milk9111/lumen/config"
	"github.com/milk9111/lumen/ecs"
	"github.com/milk9111/lumen/ecs/component"
	"github.com/milk9111/lumen/ecs/system"
	"github.com/milk9111/lumen/prefabs"
	"go.uber.org/zap"
)

// ErrClosed is returned when a closed engine is asked to watch files.
var ErrClosed = errors.New("engine: closed")

const (
	GroundID     = "ground"
	groundHeight = 80.0
	// stepDT is the delta used when stepping a paused engine by hand.
	stepDT = 1.0 / 60.0

	pointerBuffer = 256
)

// Engine owns one simulation. Every method except PushPointer must be called
// from the goroutine that calls Tick; PushPointer is safe from anywhere.
type Engine struct {
	cfg    config.Config
	logger *zap.Logger
	clock  *Clock
	world  *ecs.World

	scheduler   *ecs.Scheduler
	logic       *system.LogicSystem
	scripts     *system.ScriptSystem
	physics     *system.PhysicsSystem
	particles   *system.ParticleSystem
	interaction *system.InteractionSystem
	render      *system.RenderSystem

	seed    prefabs.Seed
	graph   *prefabs.Graph
	pointer chan system.PointerEvent

	watcher   *prefabs.Watcher
	graphPath string
	scriptIDs map[string][]string

	onEvent func(ecs.Event)
	idGen   func() string
	closed  bool
}

type Option func(*Engine)

// WithTimeProvider drives the clock from src, typically a FakeClock.
func WithTimeProvider(src TimeProvider) Option {
	return func(e *Engine) {
		e.clock = NewClock(src, e.cfg.Clock.MaxDT)
	}
}

// WithSeed replaces the prefab file named in the config.
func WithSeed(seed prefabs.Seed) Option {
	return func(e *Engine) {
		e.seed = seed
	}
}

// WithGraph replaces the graph file named in the config.
func WithGraph(g *prefabs.Graph) Option {
	return func(e *Engine) {
		e.graph = g
	}
}

// WithIDGenerator replaces uuid entity ids.
func WithIDGenerator(fn func() string) Option {
	return func(e *Engine) {
		e.idGen = fn
	}
}

// WithEventHandler receives world events after every tick.
func WithEventHandler(fn func(ecs.Event)) Option {
	return func(e *Engine) {
		e.onEvent = fn
	}
}

// New builds an engine from cfg. The prefab and graph files named in cfg are
// loaded unless WithSeed or WithGraph supplied them.
func New(cfg config.Config, logger *zap.Logger, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	e := &Engine{
		cfg:       cfg,
		logger:    logger.Named("engine"),
		pointer:   make(chan system.PointerEvent, pointerBuffer),
		scriptIDs: map[string][]string{},
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.clock == nil {
		e.clock = NewClock(SystemTime, cfg.Clock.MaxDT)
	}

	if e.seed.Entities == nil && cfg.Prefab != "" {
		seed, err := prefabs.LoadScene(cfg.Prefab)
		if err != nil {
			return nil, fmt.Errorf("engine: %w", err)
		}
		e.seed = seed
	}
	if e.graph == nil {
		e.graph = prefabs.EmptyGraph()
		if cfg.Graph != "" {
			g, err := prefabs.LoadGraph(cfg.Graph)
			if err != nil {
				return nil, fmt.Errorf("engine: %w", err)
			}
			e.graph = g
		}
	}

	worldOpts := []ecs.Option{ecs.WithTimeSource(e.clock.Now)}
	if e.idGen != nil {
		worldOpts = append(worldOpts, ecs.WithIDGenerator(e.idGen))
	}
	e.world = ecs.NewWorld(worldOpts...)

	e.particles = system.NewParticleSystem(cfg.Particles.Max, cfg.Particles.Seed)
	e.logic = system.NewLogicSystem(e.graph, cfg.Logic, logger)
	e.scripts = system.NewScriptSystem(cfg.Script, cfg.World, e.particles, logger)
	e.physics = system.NewPhysicsSystem(cfg.World.FloorY)
	e.scheduler = ecs.NewScheduler(
		ecs.Stage{Name: "logic", System: e.logic},
		ecs.Stage{Name: "script", System: e.scripts},
		ecs.Stage{Name: "physics", System: e.physics},
	)
	e.interaction = system.NewInteractionSystem(system.Viewport{
		ScreenW: float64(cfg.Window.Width),
		ScreenH: float64(cfg.Window.Height),
		WorldW:  cfg.World.Width,
		WorldH:  cfg.World.Height,
	}, e.particles)
	e.render = system.NewRenderSystem(cfg.World.Width, cfg.World.Height)

	if err := e.populate(); err != nil {
		return nil, err
	}

	if cfg.Watch {
		if err := e.startWatcher(); err != nil {
			// Hot reload is a convenience; the engine runs without it.
			e.logger.Warn("file watcher disabled", zap.Error(err))
		}
	}

	e.logger.Info("engine ready",
		zap.Int("entities", e.world.Len()),
		zap.Int("graph_nodes", len(e.graph.Nodes())),
		zap.Strings("stages", e.scheduler.Names()),
		zap.Bool("watch", e.watcher != nil))
	return e, nil
}

// populate seeds a cleared world with the prefab entities, the ground, the
// global map and the boot log.
func (e *Engine) populate() error {
	e.world.Settings = ecs.Settings{
		Gravity:  e.cfg.World.Gravity,
		Ambience: e.cfg.World.Ambience,
		Grid:     e.cfg.World.Grid,
		Bloom:    e.cfg.World.Bloom,
	}
	e.world.Global["score"] = 0

	for _, ent := range e.seed.Entities {
		if _, err := e.world.Add(ent.Clone()); err != nil {
			return fmt.Errorf("engine: seed %s: %w", ent.Name, err)
		}
	}
	if _, err := e.world.Add(groundEntity(e.cfg.World)); err != nil {
		return fmt.Errorf("engine: seed ground: %w", err)
	}
	e.world.Events().Drain()

	e.world.Log("Kinetic physics kernel online.", ecs.LogAI)
	e.world.Log("Kernel loaded.", ecs.LogInfo)
	return nil
}

func groundEntity(w config.WorldConfig) component.Entity {
	g := component.Entity{
		ID:   GroundID,
		Name: "Floor",
		Type: component.EntityRect,
		Transform: component.Transform{
			X: 0,
			Y: w.FloorY,
		},
		Physics: component.Physics{
			Enabled:     true,
			Static:      true,
			Mass:        10,
			Friction:    0.5,
			Restitution: 0.1,
		},
		Color:  "#080808",
		ZIndex: 0,
	}
	g.Transform.SetScale(w.Width, groundHeight)
	return g
}

// Tick advances the simulation by one frame.
func (e *Engine) Tick() {
	dt, now := e.clock.Step()
	e.advance(dt, now, !e.world.Settings.Paused)
}

// Step runs one simulation pass with a fixed delta even while paused.
func (e *Engine) Step() {
	e.clock.Restart()
	e.advance(stepDT, e.clock.Now(), true)
}

func (e *Engine) advance(dt float64, now time.Time, simulate bool) {
	e.drainReloads()

	e.world.BeginFrame(dt, now)
	if simulate {
		e.scheduler.Update(e.world)
	}
	e.particles.Update(e.world)
	e.drainPointer()
	e.render.Update(e.world)
	e.dispatchEvents()
}

func (e *Engine) drainPointer() {
	for {
		select {
		case ev := <-e.pointer:
			e.interaction.Apply(e.world, ev)
		default:
			return
		}
	}
}

func (e *Engine) dispatchEvents() {
	for _, ev := range e.world.Events().Drain() {
		e.logger.Debug("event", zap.String("type", string(ev.Type)), zap.Any("data", ev.Data))
		if e.onEvent != nil {
			e.onEvent(ev)
		}
	}
}

// PushPointer queues a pointer sample in screen coordinates for the next
// tick. It reports false when the queue is full and the sample was dropped.
func (e *Engine) PushPointer(ev system.PointerEvent) bool {
	select {
	case e.pointer <- ev:
		return true
	default:
		return false
	}
}

// SetViewport updates the screen-to-world mapping for pointer samples.
func (e *Engine) SetViewport(v system.Viewport) {
	e.interaction.SetViewport(v)
}

// Frame builds the draw list from the committed snapshot taken at the start
// of the last tick. Before the first tick the current entities are drawn.
func (e *Engine) Frame() system.DrawList {
	frame := e.world.Frame()
	entities := frame.Snapshot
	if frame.Tick == 0 {
		entities = e.world.Snapshot()
	}
	return e.render.Build(system.RenderInput{
		Tick:      frame.Tick,
		Entities:  entities,
		Settings:  e.world.Settings,
		Selected:  e.world.SelectedID(),
		Particles: e.particles.Particles(),
	})
}

// Snapshot returns deep copies of every entity in insertion order.
func (e *Engine) Snapshot() []component.Entity {
	return e.world.Snapshot()
}

func (e *Engine) Entity(id string) (component.Entity, bool) {
	ent, ok := e.world.Entity(id)
	if !ok {
		return component.Entity{}, false
	}
	return ent.Clone(), true
}

// Ticks is the number of ticks run so far.
func (e *Engine) Ticks() uint64 {
	return e.world.Frame().Tick
}

// Spawn adds an entity and returns its id.
func (e *Engine) Spawn(ent component.Entity) (string, error) {
	id, err := e.world.Add(ent.Clone())
	if err != nil {
		return "", fmt.Errorf("engine: spawn: %w", err)
	}
	return id, nil
}

// Delete removes an entity and logs the purge.
func (e *Engine) Delete(id string) error {
	if err := e.world.Remove(id); err != nil {
		return fmt.Errorf("engine: delete: %w", err)
	}
	e.world.Log(fmt.Sprintf("Purged entity: %s", id), ecs.LogWarn)
	return nil
}

func (e *Engine) Select(id string) bool {
	return e.world.Select(id)
}

func (e *Engine) Selected() (component.Entity, bool) {
	return e.world.Selected()
}

func (e *Engine) SetPaused(paused bool) {
	if e.world.Settings.Paused == paused {
		return
	}
	e.world.Settings.Paused = paused
	if !paused {
		// Do not count the paused stretch as one long frame.
		e.clock.Restart()
	}
}

func (e *Engine) TogglePause() bool {
	e.SetPaused(!e.world.Settings.Paused)
	return e.world.Settings.Paused
}

func (e *Engine) Paused() bool {
	return e.world.Settings.Paused
}

func (e *Engine) SetGrid(on bool) {
	e.world.Settings.Grid = on
}

func (e *Engine) SetBloom(on bool) {
	e.world.Settings.Bloom = on
}

func (e *Engine) SetGravity(g float64) {
	e.world.Settings.Gravity = g
}

func (e *Engine) Settings() ecs.Settings {
	return e.world.Settings
}

// SetGraph replaces the logic graph from the next tick on.
func (e *Engine) SetGraph(g *prefabs.Graph) {
	if g == nil {
		g = prefabs.EmptyGraph()
	}
	e.graph = g
	e.logic.SetGraph(g)
}

func (e *Engine) Graph() *prefabs.Graph {
	return e.graph
}

// SetScript replaces an entity's behavior script. An empty source removes it.
func (e *Engine) SetScript(id, src string) error {
	ent, ok := e.world.Entity(id)
	if !ok {
		return fmt.Errorf("engine: set script: %w: %s", ecs.ErrEntityNotFound, id)
	}
	ent.Script = src
	return nil
}

// SetAsset attaches encoded image bytes to an entity and makes it a sprite.
func (e *Engine) SetAsset(id string, data []byte) error {
	ent, ok := e.world.Entity(id)
	if !ok {
		return fmt.Errorf("engine: set asset: %w: %s", ecs.ErrEntityNotFound, id)
	}
	ent.Asset = append([]byte(nil), data...)
	ent.Type = component.EntitySprite
	e.world.Log("Asset applied.", ecs.LogInfo)
	return nil
}

// ApplyPatch merges an externally generated patch into an entity.
func (e *Engine) ApplyPatch(id string, p Patch) error {
	ent, ok := e.world.Entity(id)
	if !ok {
		return fmt.Errorf("engine: apply patch: %w: %s", ecs.ErrEntityNotFound, id)
	}
	if p.Empty() {
		return nil
	}
	p.apply(ent)
	e.world.Log("Logic successfully applied.", ecs.LogInfo)
	return nil
}

func (e *Engine) Dialog() (component.Dialog, bool) {
	return e.world.Dialog()
}

func (e *Engine) DismissDialog() {
	e.world.DismissDialog()
}

func (e *Engine) NowPlaying() string {
	return e.world.NowPlaying()
}

// Logs returns the user-facing log, newest first.
func (e *Engine) Logs() []ecs.LogEntry {
	return e.world.Logs()
}

func (e *Engine) AddLog(text string, kind ecs.LogKind) {
	e.world.Log(text, kind)
}

func (e *Engine) Global() map[string]any {
	out := make(map[string]any, len(e.world.Global))
	for k, v := range e.world.Global {
		out[k] = v
	}
	return out
}

func (e *Engine) SetGlobal(key string, value any) {
	e.world.Global[key] = value
}

// SpawnParticles adds a spark burst. Empty color and non-positive count use
// the defaults.
func (e *Engine) SpawnParticles(x, y float64, color string, count int) {
	if count <= 0 {
		count = system.DefaultSparkCount
	}
	e.particles.Spawn(x, y, color, count)
}

func (e *Engine) Particles() []component.Particle {
	return e.particles.Particles()
}

// Reset restores the seeded state.
func (e *Engine) Reset() error {
	e.world.Clear()
	e.particles.Reset()
	e.interaction.Reset()
	e.render.Reset()
	e.scripts.Invalidate()
	e.drainQueuedPointer()
	e.clock.Restart()
	return e.populate()
}

func (e *Engine) drainQueuedPointer() {
	for {
		select {
		case <-e.pointer:
		default:
			return
		}
	}
}

// Config returns the configuration the engine was built with.
func (e *Engine) Config() config.Config {
	return e.cfg
}

// Close stops the file watcher.
func (e *Engine) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true
	if e.watcher != nil {
		return e.watcher.Close()
	}
	return nil
}

func (e *Engine) startWatcher() error {
	if e.closed {
		return ErrClosed
	}

	var files []string
	if e.cfg.Graph != "" {
		if p, ok := prefabs.PrefabDiskPath(e.cfg.Graph); ok {
			e.graphPath = absPath(p)
			files = append(files, p)
		}
	}
	for name, ids := range e.seed.ScriptFiles {
		p, ok := prefabs.ScriptDiskPath(name)
		if !ok {
			continue
		}
		abs := absPath(p)
		e.scriptIDs[abs] = append(e.scriptIDs[abs], ids...)
		files = append(files, p)
	}
	if len(files) == 0 {
		return nil
	}

	w, err := prefabs.NewWatcher(files...)
	if err != nil {
		return err
	}
	e.watcher = w
	return nil
}

func (e *Engine) drainReloads() {
	if e.watcher == nil || e.closed {
		return
	}
	for {
		select {
		case change, ok := <-e.watcher.Events:
			if !ok {
				e.watcher = nil
				return
			}
			e.reload(change)
		case err, ok := <-e.watcher.Errors:
			if ok {
				e.logger.Warn("watcher error", zap.Error(err))
			}
		default:
			return
		}
	}
}

func (e *Engine) reload(change prefabs.Change) {
	switch change.Kind {
	case prefabs.ChangeGraph:
		if change.Path != e.graphPath {
			return
		}
		g, err := prefabs.LoadGraph(change.Path)
		if err != nil {
			e.logger.Warn("graph reload failed", zap.String("path", change.Path), zap.Error(err))
			e.world.Log(fmt.Sprintf("Graph reload failed: %v", err), ecs.LogError)
			return
		}
		e.SetGraph(g)
		e.world.Log(fmt.Sprintf("Graph reloaded (%d nodes).", len(g.Nodes())), ecs.LogInfo)

	case prefabs.ChangeScript:
		ids := e.scriptIDs[change.Path]
		if len(ids) == 0 {
			return
		}
		src, err := prefabs.LoadScript(change.Path)
		if err != nil {
			e.logger.Warn("script reload failed", zap.String("path", change.Path), zap.Error(err))
			return
		}
		for _, id := range ids {
			if err := e.SetScript(id, string(src)); err != nil {
				e.logger.Debug("script reload skipped", zap.String("entity", id), zap.Error(err))
			}
		}
		e.world.Log(fmt.Sprintf("Script reloaded: %s", filepath.Base(change.Path)), ecs.LogInfo)
	}
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

// WorldSize is the simulated area in world units.
func (e *Engine) WorldSize() (float64, float64) {
	return e.cfg.World.Width, e.cfg.World.Height
}
