package main

import (
	"image/color"

	"github.com/ebitenui/ebitenui"
	imageui "github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
)

// pauseMenu is the centered overlay shown while the simulation is paused.
type pauseMenu struct {
	ui    *ebitenui.UI
	panel *widget.Container
}

// newPauseMenu builds the menu from colored nine-slices and the basic font,
// so no theme assets are needed.
func newPauseMenu(g *Game, face ebtext.Face, width, height float64) *pauseMenu {
	panelImg := imageui.NewNineSliceColor(color.NRGBA{R: 0x03, G: 0x03, B: 0x03, A: 220})
	btnIdle := imageui.NewNineSliceColor(color.NRGBA{R: 0x1a, G: 0x1a, B: 0x1a, A: 255})
	btnHover := imageui.NewNineSliceColor(color.NRGBA{R: 0x00, G: 0x4b, B: 0x50, A: 255})
	btnImage := &widget.ButtonImage{Idle: btnIdle, Hover: btnHover, Pressed: btnHover}
	btnTextColor := &widget.ButtonTextColor{Idle: color.NRGBA{R: 0x00, G: 0xf2, B: 0xff, A: 0xff}}

	title := widget.NewText(
		widget.TextOpts.Text("Simulation paused", &face, color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}),
		widget.TextOpts.WidgetOpts(widget.WidgetOpts.LayoutData(widget.RowLayoutData{Position: widget.RowLayoutPositionCenter})),
	)

	button := func(label string, onClick func()) *widget.Button {
		return widget.NewButton(
			widget.ButtonOpts.Image(btnImage),
			widget.ButtonOpts.Text(label, &face, btnTextColor),
			widget.ButtonOpts.WidgetOpts(widget.WidgetOpts.LayoutData(widget.RowLayoutData{
				Position: widget.RowLayoutPositionCenter,
				Stretch:  true,
			})),
			widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
				onClick()
			}),
		)
	}

	panel := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(panelImg),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Spacing(10),
			widget.RowLayoutOpts.Padding(&widget.Insets{Top: 20, Bottom: 20, Left: 30, Right: 30}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(int(width/4), int(height/4)),
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{
				HorizontalPosition: widget.AnchorLayoutPositionCenter,
				VerticalPosition:   widget.AnchorLayoutPositionCenter,
			}),
		),
	)
	panel.AddChild(title)
	panel.AddChild(button("Resume", func() { g.engine.SetPaused(false) }))
	panel.AddChild(button("Step", func() { g.engine.Step() }))
	panel.AddChild(button("Reset", g.reset))
	panel.AddChild(button("Quit", func() { g.quit = true }))

	root := widget.NewContainer(widget.ContainerOpts.Layout(widget.NewAnchorLayout()))
	root.AddChild(panel)

	return &pauseMenu{
		ui:    &ebitenui.UI{Container: root},
		panel: panel,
	}
}

// Contains reports whether a layout-space point is over the panel.
func (m *pauseMenu) Contains(x, y float64) bool {
	r := m.panel.GetWidget().Rect
	return float64(r.Min.X) <= x && x < float64(r.Max.X) &&
		float64(r.Min.Y) <= y && y < float64(r.Max.Y)
}
