package system

import (
	"image/color"
	"math"
	"slices"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/lumen/asset"
	"github.com/milk9111/lumen/common"
	"github.com/milk9111/lumen/ecs"
	"github.com/milk9111/lumen/ecs/component"
)

type DrawKind int

const (
	DrawClear DrawKind = iota + 1
	DrawLine
	DrawRect
	DrawCircle
	DrawSprite
	DrawLight
	DrawParticle
)

// DrawCmd is one paint operation in world units. Rects and sprites use X/Y
// as the top-left corner and rotate about their center; circles, lights and
// particles use X/Y as the center. Lines run from (X, Y) to (X2, Y2).
type DrawCmd struct {
	Kind     DrawKind
	ID       string
	X        float64
	Y        float64
	X2       float64
	Y2       float64
	W        float64
	H        float64
	Radius   float64
	Rotation float64
	Color    color.NRGBA
	Alpha    float64
	// Stroke is the outline width; zero fills the shape.
	Stroke float64
	// Glow is the bloom blur radius; zero disables it.
	Glow      float64
	Asset     []byte
	AssetHash uint64
}

// DrawList is everything needed to paint one frame.
type DrawList struct {
	Width    float64
	Height   float64
	Commands []DrawCmd
}

// RenderInput is the committed state a frame is built from.
type RenderInput struct {
	Tick      uint64
	Entities  []component.Entity
	Settings  ecs.Settings
	Selected  string
	Particles []component.Particle
}

const (
	gridSpacing   = common.GridSpacing
	bloomBlur     = 15.0
	selectPadding = 4.0
	selectWidth   = 2.0
)

var (
	gridDash      = []float64{5, 5}
	selectionDash = []float64{2, 4}

	gridColor      = color.NRGBA{R: 0, G: 242, B: 255, A: 13}
	selectionColor = color.NRGBA{R: 0, G: 242, B: 255, A: 255}
	defaultFill    = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	defaultAmbient = color.NRGBA{R: 3, G: 3, B: 3, A: 255}
)

// RenderSystem builds draw lists. It owns the animated grid dash offset,
// which advances one unit per unpaused tick and wraps at the grid spacing.
type RenderSystem struct {
	width      float64
	height     float64
	dashOffset float64
}

func NewRenderSystem(width, height float64) *RenderSystem {
	return &RenderSystem{width: width, height: height}
}

// Update advances the grid animation.
func (r *RenderSystem) Update(w *ecs.World) {
	if r == nil || w == nil {
		return
	}
	if w.Settings.Paused {
		return
	}
	r.dashOffset = math.Mod(r.dashOffset+1, gridSpacing)
}

func (r *RenderSystem) DashOffset() float64 {
	if r == nil {
		return 0
	}
	return r.dashOffset
}

func (r *RenderSystem) Reset() {
	if r == nil {
		return
	}
	r.dashOffset = 0
}

func (r *RenderSystem) Build(in RenderInput) DrawList {
	list := DrawList{Width: r.width, Height: r.height}

	list.Commands = append(list.Commands, DrawCmd{
		Kind:  DrawClear,
		Color: common.ColorOr(in.Settings.Ambience, defaultAmbient),
		Alpha: 1,
	})

	if in.Settings.Grid {
		list.Commands = r.appendGrid(list.Commands)
	}

	ordered := slices.Clone(in.Entities)
	slices.SortStableFunc(ordered, func(a, b component.Entity) int {
		return a.ZIndex - b.ZIndex
	})

	for _, e := range ordered {
		list.Commands = appendEntity(list.Commands, e, in.Settings.Bloom, in.Tick)
		if e.ID != "" && e.ID == in.Selected {
			list.Commands = appendSelection(list.Commands, e)
		}
	}

	for _, p := range in.Particles {
		list.Commands = append(list.Commands, DrawCmd{
			Kind:   DrawParticle,
			X:      p.X,
			Y:      p.Y,
			Radius: p.Size,
			Color:  common.ColorOr(p.Color, defaultFill),
			Alpha:  common.Clamp(p.Life, 0, 1),
		})
	}

	return list
}

func (r *RenderSystem) appendGrid(cmds []DrawCmd) []DrawCmd {
	line := func(a, b cp.Vector) {
		for _, seg := range DashSegments(a, b, gridDash, -r.dashOffset) {
			cmds = append(cmds, DrawCmd{
				Kind:   DrawLine,
				X:      seg[0].X,
				Y:      seg[0].Y,
				X2:     seg[1].X,
				Y2:     seg[1].Y,
				Color:  gridColor,
				Alpha:  1,
				Stroke: 1,
			})
		}
	}
	for x := 0.0; x < r.width; x += gridSpacing {
		line(cp.Vector{X: x, Y: 0}, cp.Vector{X: x, Y: r.height})
	}
	for y := 0.0; y < r.height; y += gridSpacing {
		line(cp.Vector{X: 0, Y: y}, cp.Vector{X: r.width, Y: y})
	}
	return cmds
}

func appendEntity(cmds []DrawCmd, e component.Entity, bloom bool, tick uint64) []DrawCmd {
	t := e.Transform
	fill := common.ColorOr(e.Color, defaultFill)
	glow := 0.0
	if bloom {
		glow = bloomBlur
	}

	switch e.Type {
	case component.EntityRect:
		cmds = append(cmds, DrawCmd{
			Kind: DrawRect, ID: e.ID,
			X: t.X, Y: t.Y, W: t.ScaleX, H: t.ScaleY, Rotation: t.Rotation,
			Color: fill, Alpha: 1, Glow: glow,
		})
	case component.EntityCircle:
		c := e.Center()
		cmds = append(cmds, DrawCmd{
			Kind: DrawCircle, ID: e.ID,
			X: c.X, Y: c.Y, Radius: math.Min(t.ScaleX, t.ScaleY) / 2,
			Color: fill, Alpha: 1, Glow: glow,
		})
	case component.EntitySprite:
		if len(e.Asset) == 0 {
			break
		}
		cmds = append(cmds, DrawCmd{
			Kind: DrawSprite, ID: e.ID,
			X: t.X, Y: t.Y, W: t.ScaleX, H: t.ScaleY, Rotation: t.Rotation,
			Alpha: 1, Asset: e.Asset, AssetHash: asset.Hash(e.Asset),
		})
	case component.EntityVideo:
		cmds = append(cmds, DrawCmd{
			Kind: DrawRect, ID: e.ID,
			X: t.X, Y: t.Y, W: t.ScaleX, H: t.ScaleY, Rotation: t.Rotation,
			Color: fill, Alpha: 1, Stroke: 1,
		})
	}

	if l := e.Light; l != nil && l.Enabled && l.Radius > 0 {
		c := e.Center()
		alpha := common.Clamp(l.Intensity, 0, 1)
		if l.Flicker {
			alpha *= 0.85 + 0.15*math.Sin(float64(tick)*0.7+float64(len(e.ID)))
		}
		cmds = append(cmds, DrawCmd{
			Kind: DrawLight, ID: e.ID,
			X: c.X, Y: c.Y, Radius: l.Radius,
			Color: common.ColorOr(l.Color, fill), Alpha: alpha,
		})
	}
	return cmds
}

func appendSelection(cmds []DrawCmd, e component.Entity) []DrawCmd {
	t := e.Transform
	l, top := t.X-selectPadding, t.Y-selectPadding
	r, b := t.X+t.ScaleX+selectPadding, t.Y+t.ScaleY+selectPadding
	corners := []cp.Vector{{X: l, Y: top}, {X: r, Y: top}, {X: r, Y: b}, {X: l, Y: b}}

	// One continuous path, so the dash pattern carries across corners.
	travelled := 0.0
	for i := range corners {
		a, z := corners[i], corners[(i+1)%len(corners)]
		for _, seg := range DashSegments(a, z, selectionDash, travelled) {
			cmds = append(cmds, DrawCmd{
				Kind: DrawLine, ID: e.ID,
				X: seg[0].X, Y: seg[0].Y, X2: seg[1].X, Y2: seg[1].Y,
				Color: selectionColor, Alpha: 1, Stroke: selectWidth,
			})
		}
		travelled += a.Distance(z)
	}
	return cmds
}

// DashSegments splits the line a→b into the "on" pieces of a dash pattern.
// The pattern is read as alternating on/off lengths and is repeated once
// when odd. offset shifts where on the pattern the line starts, as a
// canvas lineDashOffset does. An empty or zero pattern yields the whole line.
func DashSegments(a, b cp.Vector, pattern []float64, offset float64) [][2]cp.Vector {
	length := a.Distance(b)
	if length == 0 {
		return nil
	}

	if len(pattern)%2 == 1 {
		pattern = append(slices.Clone(pattern), pattern...)
	}
	period := 0.0
	for _, p := range pattern {
		period += math.Max(p, 0)
	}
	if period == 0 {
		return [][2]cp.Vector{{a, b}}
	}

	dir := b.Sub(a).Mult(1 / length)
	at := func(s float64) cp.Vector { return a.Add(dir.Mult(s)) }

	phase := math.Mod(offset, period)
	if phase < 0 {
		phase += period
	}
	idx := 0
	for phase >= math.Max(pattern[idx], 0) {
		phase -= math.Max(pattern[idx], 0)
		idx = (idx + 1) % len(pattern)
	}
	remaining := math.Max(pattern[idx], 0) - phase

	var out [][2]cp.Vector
	for s := 0.0; s < length; {
		step := math.Min(remaining, length-s)
		if idx%2 == 0 && step > 0 {
			out = append(out, [2]cp.Vector{at(s), at(s + step)})
		}
		s += step
		idx = (idx + 1) % len(pattern)
		remaining = math.Max(pattern[idx], 0)
	}
	return out
}
