package component

import "github.com/milk9111/lumen/common"

// Transform places an entity in world space. X/Y is the top-left corner and
// ScaleX/ScaleY is the size in world units.
type Transform struct {
	X        float64
	Y        float64
	Rotation float64
	ScaleX   float64
	ScaleY   float64
}

// SetScale assigns the size, clamping negative values to zero.
func (t *Transform) SetScale(sx, sy float64) {
	t.ScaleX = common.NonNegative(sx)
	t.ScaleY = common.NonNegative(sy)
}
