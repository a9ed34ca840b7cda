package main

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/lumen/ecs/system"
)

// Input holds the actions polled for the current frame.
type Input struct {
	PausePressed   bool
	StepPressed    bool
	GridPressed    bool
	BloomPressed   bool
	DeletePressed  bool
	ResetPressed   bool
	DismissPressed bool
	HUDPressed     bool
	CopyPressed    bool
	PastePressed   bool
	QuitPressed    bool

	// CursorX/Y are in layout coordinates, which equal world units.
	CursorX float64
	CursorY float64
	// Pointer lists the press, move and release samples seen this frame.
	Pointer []system.PointerEvent

	held     bool
	touch    ebiten.TouchID
	touching bool
	lastX    int
	lastY    int
	touchBuf []ebiten.TouchID
}

func NewInput() *Input {
	return &Input{}
}

// Update polls keyboard, mouse and the first touch.
func (i *Input) Update() {
	ctrl := ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyMeta)

	i.PausePressed = inpututil.IsKeyJustPressed(ebiten.KeyP) || inpututil.IsKeyJustPressed(ebiten.KeySpace)
	i.StepPressed = inpututil.IsKeyJustPressed(ebiten.KeyPeriod)
	i.GridPressed = inpututil.IsKeyJustPressed(ebiten.KeyG)
	i.BloomPressed = inpututil.IsKeyJustPressed(ebiten.KeyB)
	i.DeletePressed = inpututil.IsKeyJustPressed(ebiten.KeyDelete) || inpututil.IsKeyJustPressed(ebiten.KeyBackspace)
	i.ResetPressed = inpututil.IsKeyJustPressed(ebiten.KeyR) && !ctrl
	i.DismissPressed = inpututil.IsKeyJustPressed(ebiten.KeyEnter) || inpututil.IsKeyJustPressed(ebiten.KeyEscape)
	i.HUDPressed = inpututil.IsKeyJustPressed(ebiten.KeyF1)
	i.CopyPressed = ctrl && inpututil.IsKeyJustPressed(ebiten.KeyC)
	i.PastePressed = ctrl && inpututil.IsKeyJustPressed(ebiten.KeyV)
	i.QuitPressed = inpututil.IsKeyJustPressed(ebiten.KeyF12)

	i.Pointer = i.Pointer[:0]
	mx, my := ebiten.CursorPosition()
	i.CursorX, i.CursorY = float64(mx), float64(my)

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		i.held = true
		i.push(system.PointerPress, mx, my)
	} else if i.held && (mx != i.lastX || my != i.lastY) {
		i.push(system.PointerMove, mx, my)
	}
	if i.held && inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		i.held = false
		i.push(system.PointerRelease, mx, my)
	}
	i.lastX, i.lastY = mx, my

	i.pollTouch()
}

func (i *Input) pollTouch() {
	if !i.touching {
		i.touchBuf = inpututil.AppendJustPressedTouchIDs(i.touchBuf[:0])
		if len(i.touchBuf) == 0 {
			return
		}
		i.touch = i.touchBuf[0]
		i.touching = true
		x, y := ebiten.TouchPosition(i.touch)
		i.CursorX, i.CursorY = float64(x), float64(y)
		i.push(system.PointerPress, x, y)
		return
	}

	if inpututil.IsTouchJustReleased(i.touch) {
		i.touching = false
		x, y := inpututil.TouchPositionInPreviousTick(i.touch)
		i.push(system.PointerRelease, x, y)
		return
	}
	x, y := ebiten.TouchPosition(i.touch)
	px, py := inpututil.TouchPositionInPreviousTick(i.touch)
	if x != px || y != py {
		i.CursorX, i.CursorY = float64(x), float64(y)
		i.push(system.PointerMove, x, y)
	}
}

func (i *Input) push(kind system.PointerKind, x, y int) {
	i.Pointer = append(i.Pointer, system.PointerEvent{Kind: kind, X: float64(x), Y: float64(y)})
}
