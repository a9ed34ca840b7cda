package main

import (
	"context"
	"errors"

	"github.com/hajimehoshi/ebiten/v2"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/milk9111/lumen/asset"
	"github.com/milk9111/lumen/ecs"
	"github.com/milk9111/lumen/ecs/render"
	"github.com/milk9111/lumen/ecs/system"
	"github.com/milk9111/lumen/engine"
	"go.uber.org/zap"
	"golang.org/x/image/font/basicfont"
)

// Game hosts an engine in an ebiten window. The layout is the world size, so
// cursor positions arrive in world units.
type Game struct {
	ctx     context.Context
	engine  *engine.Engine
	painter *render.Painter
	input   *Input
	pause   *pauseMenu
	clip    *Clipboard
	logger  *zap.Logger
	face    ebtext.Face

	width  float64
	height float64
	hud    bool
	quit   bool
}

func NewGame(ctx context.Context, eng *engine.Engine, decoder *asset.Decoder, logger *zap.Logger) *Game {
	w, h := eng.WorldSize()
	eng.SetViewport(system.Viewport{ScreenW: w, ScreenH: h, WorldW: w, WorldH: h})

	g := &Game{
		ctx:     ctx,
		engine:  eng,
		painter: render.NewPainter(render.NewSpriteCache(decoder, logger)),
		input:   NewInput(),
		clip:    NewClipboard(logger),
		logger:  logger.Named("host"),
		face:    ebtext.NewGoXFace(basicfont.Face7x13),
		width:   w,
		height:  h,
		hud:     true,
	}
	g.pause = newPauseMenu(g, g.face, w, h)
	return g
}

func (g *Game) Update() error {
	if g.quit || g.ctx.Err() != nil {
		return ebiten.Termination
	}

	g.input.Update()
	g.handleKeys()
	if g.engine.Paused() {
		g.pause.ui.Update()
	}
	g.forwardPointer()

	g.engine.Tick()
	return nil
}

func (g *Game) handleKeys() {
	in := g.input
	switch {
	case in.QuitPressed:
		g.quit = true
	case in.PausePressed:
		g.engine.TogglePause()
	case in.StepPressed && g.engine.Paused():
		g.engine.Step()
	case in.GridPressed:
		g.engine.SetGrid(!g.engine.Settings().Grid)
	case in.BloomPressed:
		g.engine.SetBloom(!g.engine.Settings().Bloom)
	case in.ResetPressed:
		g.reset()
	case in.HUDPressed:
		g.hud = !g.hud
	case in.DismissPressed:
		g.engine.DismissDialog()
	case in.DeletePressed:
		g.deleteSelected()
	case in.CopyPressed:
		g.copySelected()
	case in.PastePressed:
		g.pasteOnSelected()
	}
}

// forwardPointer hands pointer samples to the engine unless they land on an
// overlay.
func (g *Game) forwardPointer() {
	for _, ev := range g.input.Pointer {
		if ev.Kind == system.PointerPress {
			if _, ok := g.engine.Dialog(); ok && dialogRect(g.width, g.height).contains(ev.X, ev.Y) {
				g.engine.DismissDialog()
				continue
			}
			if g.engine.Paused() && g.pause.Contains(ev.X, ev.Y) {
				continue
			}
		}
		if !g.engine.PushPointer(ev) {
			g.logger.Debug("pointer sample dropped", zap.Stringer("kind", ev.Kind))
		}
	}
}

func (g *Game) reset() {
	if err := g.engine.Reset(); err != nil {
		g.logger.Error("reset failed", zap.Error(err))
		g.quit = true
	}
}

func (g *Game) deleteSelected() {
	sel, ok := g.engine.Selected()
	if !ok || sel.ID == engine.GroundID {
		return
	}
	if err := g.engine.Delete(sel.ID); err != nil {
		g.logger.Warn("delete failed", zap.Error(err))
	}
}

func (g *Game) copySelected() {
	sel, ok := g.engine.Selected()
	if !ok {
		return
	}
	out, err := engine.MarshalYAML(engine.DumpEntity(sel))
	if err != nil {
		g.logger.Warn("copy failed", zap.Error(err))
		return
	}
	g.clip.CopyText(out)
	g.engine.AddLog("Entity copied to clipboard.", ecs.LogInfo)
}

// pasteOnSelected applies the clipboard to the selected entity: an image
// becomes its sprite, a patch document is merged, and any other text
// replaces its script.
func (g *Game) pasteOnSelected() {
	sel, ok := g.engine.Selected()
	if !ok {
		return
	}
	if img := g.clip.Image(); len(img) > 0 {
		if err := g.engine.SetAsset(sel.ID, img); err != nil {
			g.logger.Warn("paste image failed", zap.Error(err))
		}
		return
	}

	text := g.clip.Text()
	if len(text) == 0 {
		return
	}
	p, err := engine.ParsePatch(text)
	if err == nil && !p.Empty() {
		err = g.engine.ApplyPatch(sel.ID, p)
	} else {
		err = g.engine.SetScript(sel.ID, string(text))
		if err == nil {
			g.engine.AddLog("Script replaced from clipboard.", ecs.LogInfo)
		}
	}
	if err != nil && !errors.Is(err, ecs.ErrEntityNotFound) {
		g.logger.Warn("paste failed", zap.Error(err))
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.painter.Draw(screen, g.engine.Frame())
	g.drawOverlay(screen)
	if g.engine.Paused() {
		g.pause.ui.Draw(screen)
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return g.width, g.height
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
