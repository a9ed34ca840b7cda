package system

import (
	"testing"

	"github.com/milk9111/lumen/config"
	"github.com/milk9111/lumen/ecs/component"
	"github.com/milk9111/lumen/prefabs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testGraph(t *testing.T, nodes []prefabs.GraphNode, wires ...prefabs.Wire) *prefabs.Graph {
	t.Helper()
	g, err := prefabs.NewGraph(nodes, wires)
	require.NoError(t, err)
	return g
}

func execWire(id, from, to string) prefabs.Wire {
	return prefabs.Wire{ID: id, FromNode: from, FromPin: "exec_out", ToNode: to, ToPin: "exec_in"}
}

func linked(e component.Entity, node string) component.Entity {
	e.LinkedLogicID = node
	return e
}

func TestLogicMoveActions(t *testing.T) {
	g := testGraph(t,
		[]prefabs.GraphNode{
			{ID: "evt", Type: prefabs.NodeEvent},
			{ID: "right", Type: prefabs.NodeAction, Label: "Move Right"},
			{ID: "down", Type: prefabs.NodeAction, Label: "Move Down"},
			{ID: "data", Type: prefabs.NodeAction, Label: "Move Left"},
		},
		execWire("w1", "evt", "right"),
		execWire("w2", "evt", "down"),
		prefabs.Wire{ID: "w3", FromNode: "evt", FromPin: "value", ToNode: "data"},
	)
	w := newTestWorld(t, linked(body("mover", 0, 0, 10, 10), "evt"))
	ls := NewLogicSystem(g, config.Default().Logic, zap.NewNop())

	tick(w, 0.5, ls)

	got := mustEntity(t, w, "mover")
	assert.InDelta(t, 200, got.Transform.X, 1e-9)
	assert.InDelta(t, 200, got.Transform.Y, 1e-9)
}

func TestLogicIgnoresMissingAndNonEventEntries(t *testing.T) {
	g := testGraph(t,
		[]prefabs.GraphNode{
			{ID: "act", Type: prefabs.NodeAction, Label: "Move Right"},
			{ID: "next", Type: prefabs.NodeAction, Label: "Move Right"},
		},
		execWire("w1", "act", "next"),
	)
	w := newTestWorld(t,
		linked(body("a", 0, 0, 10, 10), "act"),
		linked(body("b", 0, 0, 10, 10), "nope"),
	)
	ls := NewLogicSystem(g, config.Default().Logic, nil)

	tick(w, 0.1, ls)

	assert.Equal(t, 0.0, mustEntity(t, w, "a").Transform.X)
	assert.Equal(t, 0.0, mustEntity(t, w, "b").Transform.X)
}

func TestLogicDialogIsExclusive(t *testing.T) {
	g := testGraph(t,
		[]prefabs.GraphNode{
			{ID: "e1", Type: prefabs.NodeEvent},
			{ID: "e2", Type: prefabs.NodeEvent},
			{ID: "d1", Type: prefabs.NodeNarrative, Label: "Show Dialog", Data: map[string]any{"text": "first", "actor": "A"}},
			{ID: "d2", Type: prefabs.NodeConductor, Label: "Show Dialog"},
		},
		execWire("w1", "e1", "d1"),
		execWire("w2", "e2", "d2"),
	)
	w := newTestWorld(t,
		linked(body("one", 0, 0, 1, 1), "e1"),
		linked(body("two", 0, 0, 1, 1), "e2"),
	)
	ls := NewLogicSystem(g, config.Default().Logic, nil)

	tick(w, 0.016, ls)
	d, ok := w.Dialog()
	require.True(t, ok)
	assert.Equal(t, "first", d.Text)
	assert.Equal(t, "A", d.Speaker)

	tick(w, 0.016, ls)
	d, _ = w.Dialog()
	assert.Equal(t, "first", d.Text, "a pending dialog is never replaced")

	// Level-triggered: once dismissed, the first linked entity asks again.
	w.DismissDialog()
	tick(w, 0.016, ls)
	d, ok = w.Dialog()
	require.True(t, ok)
	assert.Equal(t, "d1", d.Source)
}

func TestLogicDialogDefaults(t *testing.T) {
	g := testGraph(t,
		[]prefabs.GraphNode{
			{ID: "e", Type: prefabs.NodeEvent},
			{ID: "d", Type: prefabs.NodeConductor, Label: "Show Dialog"},
		},
		execWire("w", "e", "d"),
	)
	w := newTestWorld(t, linked(body("x", 0, 0, 1, 1), "e"))
	tick(w, 0.016, NewLogicSystem(g, config.Default().Logic, nil))

	d, ok := w.Dialog()
	require.True(t, ok)
	assert.Equal(t, defaultDialogText, d.Text)
	assert.Equal(t, defaultDialogSpeaker, d.Speaker)
}

func TestLogicPlayScene(t *testing.T) {
	g := testGraph(t,
		[]prefabs.GraphNode{
			{ID: "e", Type: prefabs.NodeEvent},
			{ID: "con_ab12", Type: prefabs.NodeConductor, Label: "Play Scene"},
		},
		execWire("w", "e", "con_ab12"),
	)
	w := newTestWorld(t, linked(body("x", 0, 0, 1, 1), "e"))
	tick(w, 0.016, NewLogicSystem(g, config.Default().Logic, nil))

	assert.Equal(t, "SCENE_ab12", w.NowPlaying())
	assert.Equal(t, "SCENE_ab", sceneName("ab"))
}

func TestLogicChaseApproachesPlayer(t *testing.T) {
	g := testGraph(t,
		[]prefabs.GraphNode{
			{ID: "e", Type: prefabs.NodeEvent},
			{ID: "chase", Type: prefabs.NodeSynapse, Label: "Chase Player"},
		},
		execWire("w", "e", "chase"),
	)
	player := body("p", 0, 0, 10, 10)
	player.Name = "The PLAYER"
	hunter := linked(body("h", 90, 120, 10, 10), "e")
	w := newTestWorld(t, player, hunter)
	ls := NewLogicSystem(g, config.Default().Logic, nil)

	distance := func() float64 {
		h := mustEntity(t, w, "h")
		p := mustEntity(t, w, "p")
		return h.Position().Distance(p.Position())
	}

	prev := distance()
	for i := 0; i < 200; i++ {
		tick(w, 0.016, ls)
		d := distance()
		if prev > 5 {
			require.LessOrEqual(t, d, prev, "tick %d", i)
		} else {
			require.Equal(t, prev, d, "tick %d: no movement within the minimum distance", i)
		}
		prev = d
	}
	assert.LessOrEqual(t, prev, 5.0)
}

func TestLogicChaseNeverOvershootsOnLongFrames(t *testing.T) {
	g := testGraph(t,
		[]prefabs.GraphNode{
			{ID: "e", Type: prefabs.NodeEvent},
			{ID: "chase", Type: prefabs.NodeSynapse, Label: "Chase Player"},
		},
		execWire("w", "e", "chase"),
	)
	player := body("p", 0, 0, 10, 10)
	player.Name = "player"
	w := newTestWorld(t, player, linked(body("h", 6, 0, 10, 10), "e"))
	ls := NewLogicSystem(g, config.Default().Logic, nil)

	prev := 6.0
	for i := 0; i < 4; i++ {
		tick(w, 0.1, ls)
		d := mustEntity(t, w, "h").Position().Distance(mustEntity(t, w, "p").Position())
		if prev > 5 {
			require.LessOrEqual(t, d, prev, "tick %d", i)
		} else {
			require.Equal(t, prev, d, "tick %d", i)
		}
		prev = d
	}

	h := mustEntity(t, w, "h")
	assert.Equal(t, 0.0, h.Transform.X, "a 20 unit step stops on the target")
	assert.Equal(t, 0.0, h.Transform.Y)
}

func TestLogicChaseStopsWithinMinDistance(t *testing.T) {
	g := testGraph(t,
		[]prefabs.GraphNode{
			{ID: "e", Type: prefabs.NodeEvent},
			{ID: "chase", Type: prefabs.NodeSynapse, Label: "Chase Player"},
		},
		execWire("w", "e", "chase"),
	)
	player := body("p", 0, 0, 10, 10)
	player.Name = "player"
	w := newTestWorld(t, player, linked(body("h", 3, 4, 10, 10), "e"))
	tick(w, 0.1, NewLogicSystem(g, config.Default().Logic, nil))

	h := mustEntity(t, w, "h")
	assert.Equal(t, 3.0, h.Transform.X)
	assert.Equal(t, 4.0, h.Transform.Y)
}

func TestLogicSetGraph(t *testing.T) {
	w := newTestWorld(t, linked(body("x", 0, 0, 1, 1), "e"))
	ls := NewLogicSystem(nil, config.Default().Logic, nil)
	tick(w, 1, ls)
	assert.Equal(t, 0.0, mustEntity(t, w, "x").Transform.X)

	ls.SetGraph(testGraph(t,
		[]prefabs.GraphNode{
			{ID: "e", Type: prefabs.NodeEvent},
			{ID: "l", Type: prefabs.NodeAction, Label: "Move Left"},
		},
		execWire("w", "e", "l"),
	))
	tick(w, 1, ls)
	assert.Equal(t, -400.0, mustEntity(t, w, "x").Transform.X)
}
