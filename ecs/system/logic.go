package system

import (
	"fmt"
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/lumen/config"
	"github.com/milk9111/lumen/ecs"
	"github.com/milk9111/lumen/ecs/component"
	"github.com/milk9111/lumen/prefabs"
	"go.uber.org/zap"
)

const (
	defaultDialogText    = "Neural connection established."
	defaultDialogSpeaker = "NEXUS"
	chaseTargetName      = "player"
)

// LogicSystem evaluates the logic graph for every entity linked to an Event
// node. Evaluation is a single hop from the event along its exec wires and is
// repeated every tick while the link exists. Lookups of other entities go
// through the frame snapshot.
type LogicSystem struct {
	graph  *prefabs.Graph
	cfg    config.LogicConfig
	logger *zap.Logger
}

func NewLogicSystem(graph *prefabs.Graph, cfg config.LogicConfig, logger *zap.Logger) *LogicSystem {
	if graph == nil {
		graph = prefabs.EmptyGraph()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogicSystem{graph: graph, cfg: cfg, logger: logger.Named("logic")}
}

// SetGraph swaps the graph used from the next tick on.
func (ls *LogicSystem) SetGraph(g *prefabs.Graph) {
	if ls == nil {
		return
	}
	if g == nil {
		g = prefabs.EmptyGraph()
	}
	ls.graph = g
}

func (ls *LogicSystem) Graph() *prefabs.Graph {
	if ls == nil {
		return nil
	}
	return ls.graph
}

func (ls *LogicSystem) Update(w *ecs.World) {
	if ls == nil || w == nil {
		return
	}

	frame := w.Frame()
	w.Each(func(e *component.Entity) {
		if e.LinkedLogicID == "" {
			return
		}
		entry, ok := ls.graph.Node(e.LinkedLogicID)
		if !ok || entry.Type != prefabs.NodeEvent {
			return
		}
		before, ok := frame.Find(e.ID)
		if !ok {
			before = *e
		}
		for _, node := range ls.graph.ExecTargets(entry.ID) {
			ls.dispatch(w, frame, e, before, node)
		}
	})
}

func (ls *LogicSystem) dispatch(w *ecs.World, frame *ecs.Frame, e *component.Entity, before component.Entity, node prefabs.GraphNode) {
	dt := frame.DT

	switch node.Type {
	case prefabs.NodeAction:
		step := ls.cfg.MoveSpeed * dt
		switch node.Label {
		case "Move Right":
			e.Transform.X += step
		case "Move Left":
			e.Transform.X -= step
		case "Move Up":
			e.Transform.Y -= step
		case "Move Down":
			e.Transform.Y += step
		}

	case prefabs.NodeNarrative, prefabs.NodeConductor:
		switch node.Label {
		case "Show Dialog":
			d := component.Dialog{
				Text:    node.DataString("text", defaultDialogText),
				Speaker: node.DataString("actor", defaultDialogSpeaker),
				Source:  node.ID,
			}
			if w.RequestDialog(d) {
				ls.logger.Debug("dialog requested", zap.String("entity", e.ID), zap.String("node", node.ID))
			}
		case "Play Scene":
			if node.Type != prefabs.NodeConductor {
				return
			}
			if w.SetNowPlaying(sceneName(node.ID)) {
				ls.logger.Debug("scene playing", zap.String("scene", sceneName(node.ID)))
			}
		}

	case prefabs.NodeSynapse:
		if node.Label != "Chase Player" {
			return
		}
		target, ok := frame.FirstNamed(chaseTargetName)
		if !ok {
			return
		}
		e.Transform.X, e.Transform.Y = ls.chase(before, target, dt, e.Transform.X, e.Transform.Y)
	}
}

// chase moves (x, y) toward target by ChaseSpeed*dt along the direction
// measured from the entity's tick-start position. The step is capped at the
// remaining distance. Nothing moves within ChaseMinDistance.
func (ls *LogicSystem) chase(self, target component.Entity, dt, x, y float64) (float64, float64) {
	from := self.Position()
	delta := target.Position().Sub(from)
	dist := delta.Length()
	if dist <= ls.cfg.ChaseMinDistance || dist == 0 {
		return x, y
	}
	step := delta.Mult(math.Min(ls.cfg.ChaseSpeed*dt, dist) / dist)
	next := cp.Vector{X: x, Y: y}.Add(step)
	return next.X, next.Y
}

func sceneName(nodeID string) string {
	suffix := nodeID
	if len(suffix) > 4 {
		suffix = suffix[len(suffix)-4:]
	}
	return fmt.Sprintf("SCENE_%s", suffix)
}
