package system

import (
	"testing"
	"time"

	"github.com/milk9111/lumen/config"
	"github.com/milk9111/lumen/ecs"
	"github.com/milk9111/lumen/ecs/component"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func scripted(id, src string) component.Entity {
	e := body(id, 10, 20, 30, 40)
	e.Script = src
	return e
}

func newScriptSystem(spawner Spawner) *ScriptSystem {
	cfg := config.Default()
	return NewScriptSystem(cfg.Script, cfg.World, spawner, zap.NewNop())
}

func TestScriptWritesBackEntityEdits(t *testing.T) {
	w := newTestWorld(t, scripted("a", `
ctx.entity.x = ctx.entity.x + 5
ctx.entity.vy = 2
ctx.entity.rotation = 0.5
ctx.entity.color = "#123456"
ctx.entity.scale_x = -1
ctx.entity.state.count = 1
`))
	ss := newScriptSystem(nil)

	tick(w, 0.016, ss)

	got := mustEntity(t, w, "a")
	assert.Equal(t, 15.0, got.Transform.X)
	assert.Equal(t, 2.0, got.Physics.VY)
	assert.Equal(t, 0.5, got.Transform.Rotation)
	assert.Equal(t, "#123456", got.Color)
	assert.Equal(t, 0.0, got.Transform.ScaleX, "negative scale clamps to zero")
	assert.Equal(t, 1, got.State["count"])
}

func TestScriptStatePersistsAcrossTicks(t *testing.T) {
	w := newTestWorld(t, scripted("a", `
n := ctx.entity.state.n
if n == undefined { n = 0 }
ctx.entity.state.n = n + 1
`))
	ss := newScriptSystem(nil)
	for i := 0; i < 3; i++ {
		tick(w, 0.016, ss)
	}
	assert.Equal(t, 3, mustEntity(t, w, "a").State["n"])
}

func TestScriptFailuresLeaveEntityUntouched(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{name: "compile error", src: `ctx.entity.x = (`},
		{name: "runtime error", src: "ctx.entity.x = 99\nz := 0\ny := 1 / z"},
		{name: "forbidden import", src: "os := import(\"os\")\nctx.entity.x = 99"},
		{name: "read-only world", src: "ctx.entity.x = 99\nctx.world.gravity = 5"},
		{name: "budget exceeded", src: "ctx.entity.x = 99\nfor {}"},
		{name: "bad host call", src: "ctx.entity.x = 99\nctx.spawn_particles()"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newTestWorld(t, scripted("a", tt.src), body("b", 0, 0, 1, 1))
			ss := newScriptSystem(nil)

			start := time.Now()
			tick(w, 0.016, ss)
			require.Less(t, time.Since(start), 2*time.Second)

			got := mustEntity(t, w, "a")
			assert.Equal(t, 10.0, got.Transform.X)
			assert.Equal(t, 0.5, w.Settings.Gravity)
		})
	}
}

func TestScriptCompileCacheByContent(t *testing.T) {
	src := `ctx.entity.x = ctx.entity.x + 1`
	w := newTestWorld(t, scripted("a", src), scripted("b", src), scripted("c", "bad ("))
	ss := newScriptSystem(nil)

	tick(w, 0.016, ss)
	tick(w, 0.016, ss)

	assert.Equal(t, 2, ss.CacheLen(), "one entry per distinct body, failures included")
	assert.Equal(t, 12.0, mustEntity(t, w, "a").Transform.X)
	assert.Equal(t, 12.0, mustEntity(t, w, "b").Transform.X)

	ss.Invalidate()
	assert.Equal(t, 0, ss.CacheLen())
}

func TestScriptCompileErrorsAreWrappedAndCached(t *testing.T) {
	ss := newScriptSystem(nil)

	compiled, err := ss.compile("bad (")
	require.Error(t, err)
	assert.Nil(t, compiled)
	assert.Contains(t, err.Error(), "script: compile:")

	_, again := ss.compile("bad (")
	assert.Same(t, err, again, "failures are served from the cache")
	assert.Equal(t, 1, ss.CacheLen())

	compiled, err = ss.compile(`ctx.entity.x = 1.0`)
	require.NoError(t, err)
	assert.NotNil(t, compiled)
}

func TestScriptHostFunctions(t *testing.T) {
	spawner := &recordingSpawner{}
	w := newTestWorld(t, scripted("a", `
ctx.spawn_particles(1, 2)
ctx.spawn_particles(3, 4, "#f00", 1000)
ctx.log("hello " + ctx.entity.name, "warn")
ctx.log("plain")
`))
	ss := newScriptSystem(spawner)

	tick(w, 0.016, ss)

	require.Len(t, spawner.bursts, 2)
	assert.Equal(t, burst{1, 2, DefaultSparkColor, DefaultSparkCount}, spawner.bursts[0])
	assert.Equal(t, burst{3, 4, "#f00", maxSparksPerCall}, spawner.bursts[1])

	logs := w.Logs()
	require.Len(t, logs, 2)
	assert.Equal(t, "plain", logs[0].Text)
	assert.Equal(t, ecs.LogInfo, logs[0].Kind)
	assert.Equal(t, "hello a", logs[1].Text)
	assert.Equal(t, ecs.LogWarn, logs[1].Kind)
}

func TestScriptWorldView(t *testing.T) {
	other := body("other", 0, 0, 1, 1)
	w := newTestWorld(t, other, scripted("a", `
ctx.entity.state.count = len(ctx.world.entities)
ctx.entity.state.first = ctx.world.entities[0].id
ctx.entity.state.score = ctx.world.global.score
ctx.entity.state.width = ctx.world.width
ctx.entity.state.gravity = ctx.world.gravity
ctx.entity.state.dt = ctx.dt
`))
	w.Global["score"] = 7
	ss := newScriptSystem(nil)

	tick(w, 0.25, ss)

	state := mustEntity(t, w, "a").State
	assert.Equal(t, 2, state["count"])
	assert.Equal(t, "other", state["first"])
	assert.Equal(t, 7, state["score"])
	assert.Equal(t, 1200.0, state["width"])
	assert.Equal(t, 0.5, state["gravity"])
	assert.Equal(t, 0.25, state["dt"])
}

func TestScriptStdlibImports(t *testing.T) {
	w := newTestWorld(t, scripted("a", `
math := import("math")
text := import("text")
ctx.entity.x = math.floor(2.7)
ctx.entity.state.up = text.to_upper(ctx.entity.name)
`))
	tick(w, 0.016, newScriptSystem(nil))

	got := mustEntity(t, w, "a")
	assert.Equal(t, 2.0, got.Transform.X)
	assert.Equal(t, "A", got.State["up"])
}
