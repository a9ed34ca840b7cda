package main

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/lumen/ecs"
)

const (
	overlayLogLines = 6
	lineHeight      = 16
)

var (
	accent     = color.NRGBA{R: 0x00, G: 0xf2, B: 0xff, A: 0xff}
	dialogFill = color.NRGBA{R: 0x03, G: 0x03, B: 0x03, A: 0xe6}
	textColor  = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

	logColors = map[ecs.LogKind]color.NRGBA{
		ecs.LogInfo:  {R: 0x94, G: 0xa3, B: 0xb8, A: 0xff},
		ecs.LogWarn:  {R: 0xf5, G: 0x9e, B: 0x0b, A: 0xff},
		ecs.LogError: {R: 0xf4, G: 0x3f, B: 0x5e, A: 0xff},
		ecs.LogAI:    {R: 0xa7, G: 0x8b, B: 0xfa, A: 0xff},
	}
)

type rect struct {
	x, y, w, h float64
}

func (r rect) contains(x, y float64) bool {
	return x >= r.x && x < r.x+r.w && y >= r.y && y < r.y+r.h
}

// dialogRect is the box the pending dialog is drawn in, centered near the
// bottom of the world.
func dialogRect(width, height float64) rect {
	w := width * 0.6
	h := 96.0
	return rect{x: (width - w) / 2, y: height - h - 120, w: w, h: h}
}

func (g *Game) drawOverlay(screen *ebiten.Image) {
	if d, ok := g.engine.Dialog(); ok {
		r := dialogRect(g.width, g.height)
		vector.FillRect(screen, float32(r.x), float32(r.y), float32(r.w), float32(r.h), dialogFill, false)
		vector.StrokeRect(screen, float32(r.x), float32(r.y), float32(r.w), float32(r.h), 1, accent, false)
		g.drawText(screen, d.Speaker, r.x+16, r.y+14, accent)
		g.drawText(screen, d.Text, r.x+16, r.y+40, textColor)
		g.drawText(screen, "[enter]", r.x+r.w-72, r.y+r.h-24, accent)
	}

	if scene := g.engine.NowPlaying(); scene != "" {
		g.drawText(screen, "NOW PLAYING "+scene, g.width-220, 12, accent)
	}

	logs := g.engine.Logs()
	if len(logs) > overlayLogLines {
		logs = logs[:overlayLogLines]
	}
	for i, entry := range logs {
		y := g.height - float64(i+1)*lineHeight - 8
		g.drawText(screen, fmt.Sprintf("%s  %s", entry.Time.Format("15:04:05"), entry.Text), 12, y, logColors[entry.Kind])
	}

	if !g.hud {
		return
	}
	settings := g.engine.Settings()
	sel := "-"
	if e, ok := g.engine.Selected(); ok {
		sel = e.Name
	}
	ebitenutil.DebugPrint(screen, fmt.Sprintf(
		"TPS: %.1f  FPS: %.1f  tick: %d  entities: %d  particles: %d\nselected: %s  gravity: %.2f  grid: %t  bloom: %t",
		ebiten.ActualTPS(), ebiten.ActualFPS(), g.engine.Ticks(),
		len(g.engine.Snapshot()), len(g.engine.Particles()),
		sel, settings.Gravity, settings.Grid, settings.Bloom,
	))
}

func (g *Game) drawText(screen *ebiten.Image, s string, x, y float64, clr color.Color) {
	op := &ebtext.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	ebtext.Draw(screen, s, g.face, op)
}
