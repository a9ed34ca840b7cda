package component

// Particle is an ephemeral spark. Life runs from 1 down to 0 and doubles as
// the render alpha.
type Particle struct {
	X     float64
	Y     float64
	VX    float64
	VY    float64
	Life  float64
	Color string
	Size  float64
}
