package common

const (
	BaseWidth  = 1200
	BaseHeight = 800

	// FloorY is the ground plane of the reference world.
	FloorY = 720.0

	GridSpacing = 48
)
