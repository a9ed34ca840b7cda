package render

import (
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/lumen/ecs/system"
)

const (
	haloSize   = 128
	glowLayers = 3
)

// Painter draws a DrawList onto an ebiten image, scaling world units to the
// target size.
type Painter struct {
	sprites *SpriteCache
	pixel   *ebiten.Image
	halo    *ebiten.Image
}

func NewPainter(sprites *SpriteCache) *Painter {
	pixel := ebiten.NewImage(1, 1)
	pixel.Fill(color.White)
	return &Painter{
		sprites: sprites,
		pixel:   pixel,
		halo:    ebiten.NewImageFromImage(haloImage(haloSize)),
	}
}

func (p *Painter) Draw(screen *ebiten.Image, list system.DrawList) {
	if p == nil || screen == nil {
		return
	}

	p.sprites.Sync()

	sx, sy := 1.0, 1.0
	if list.Width > 0 && list.Height > 0 {
		b := screen.Bounds()
		sx = float64(b.Dx()) / list.Width
		sy = float64(b.Dy()) / list.Height
	}

	live := map[string]struct{}{}
	for _, cmd := range list.Commands {
		switch cmd.Kind {
		case system.DrawClear:
			screen.Fill(cmd.Color)
		case system.DrawLine:
			vector.StrokeLine(screen,
				float32(cmd.X*sx), float32(cmd.Y*sy), float32(cmd.X2*sx), float32(cmd.Y2*sy),
				float32(cmd.Stroke*sx), withAlpha(cmd.Color, cmd.Alpha), true)
		case system.DrawRect:
			p.drawRect(screen, cmd, sx, sy)
		case system.DrawCircle:
			if cmd.Glow > 0 {
				for i := glowLayers; i >= 1; i-- {
					grow := cmd.Glow * float64(i) / glowLayers
					vector.FillCircle(screen, float32(cmd.X*sx), float32(cmd.Y*sy), float32((cmd.Radius+grow)*sx),
						withAlpha(cmd.Color, cmd.Alpha*0.12), true)
				}
			}
			vector.FillCircle(screen, float32(cmd.X*sx), float32(cmd.Y*sy), float32(cmd.Radius*sx),
				withAlpha(cmd.Color, cmd.Alpha), true)
		case system.DrawSprite:
			live[cmd.ID] = struct{}{}
			img := p.sprites.Image(cmd.ID, cmd.Asset, cmd.AssetHash)
			if img == nil {
				continue
			}
			p.drawQuad(screen, img, cmd.X, cmd.Y, cmd.W, cmd.H, cmd.Rotation, sx, sy, color.White, cmd.Alpha, ebiten.Blend{})
		case system.DrawLight:
			d := cmd.Radius * 2
			p.drawQuad(screen, p.halo, cmd.X-cmd.Radius, cmd.Y-cmd.Radius, d, d, 0, sx, sy, cmd.Color, cmd.Alpha, ebiten.BlendLighter)
		case system.DrawParticle:
			vector.FillCircle(screen, float32(cmd.X*sx), float32(cmd.Y*sy), float32(cmd.Radius*sx),
				withAlpha(cmd.Color, cmd.Alpha), true)
		}
	}
	p.sprites.Retain(live)
}

func (p *Painter) drawRect(screen *ebiten.Image, cmd system.DrawCmd, sx, sy float64) {
	if cmd.Stroke > 0 {
		vector.StrokeRect(screen, float32(cmd.X*sx), float32(cmd.Y*sy), float32(cmd.W*sx), float32(cmd.H*sy),
			float32(cmd.Stroke*sx), withAlpha(cmd.Color, cmd.Alpha), true)
		return
	}
	if cmd.Glow > 0 {
		for i := glowLayers; i >= 1; i-- {
			grow := cmd.Glow * float64(i) / glowLayers
			p.drawQuad(screen, p.pixel, cmd.X-grow, cmd.Y-grow, cmd.W+2*grow, cmd.H+2*grow, cmd.Rotation,
				sx, sy, cmd.Color, cmd.Alpha*0.12, ebiten.Blend{})
		}
	}
	p.drawQuad(screen, p.pixel, cmd.X, cmd.Y, cmd.W, cmd.H, cmd.Rotation, sx, sy, cmd.Color, cmd.Alpha, ebiten.Blend{})
}

// drawQuad stretches img over the box at (x, y) with size (w, h), rotated
// about the box center.
func (p *Painter) drawQuad(screen, img *ebiten.Image, x, y, w, h, rot, sx, sy float64, clr color.Color, alpha float64, blend ebiten.Blend) {
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 || w <= 0 || h <= 0 {
		return
	}
	op := &ebiten.DrawImageOptions{Blend: blend}
	op.GeoM.Scale(w/float64(b.Dx()), h/float64(b.Dy()))
	op.GeoM.Translate(-w/2, -h/2)
	op.GeoM.Rotate(rot)
	op.GeoM.Translate(x+w/2, y+h/2)
	op.GeoM.Scale(sx, sy)
	op.ColorScale.ScaleWithColor(clr)
	op.ColorScale.ScaleAlpha(float32(alpha))
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(img, op)
}

func withAlpha(c color.NRGBA, alpha float64) color.NRGBA {
	a := float64(c.A) * math.Max(0, math.Min(1, alpha))
	c.A = uint8(math.Round(a))
	return c
}

// haloImage is a white radial falloff used for light halos.
func haloImage(size int) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	r := float64(size) / 2
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx := float64(x) + 0.5 - r
			dy := float64(y) + 0.5 - r
			d := math.Sqrt(dx*dx+dy*dy) / r
			if d >= 1 {
				continue
			}
			f := (1 - d) * (1 - d)
			img.SetNRGBA(x, y, color.NRGBA{R: 255, G: 255, B: 255, A: uint8(255 * f)})
		}
	}
	return img
}
