package component

// Physics holds the integrator inputs of an entity. Friction damps VX on
// ground contact and Restitution is the share of VY kept after a bounce.
type Physics struct {
	Enabled     bool
	Static      bool
	VX          float64
	VY          float64
	Mass        float64
	Friction    float64
	Restitution float64
}

// Dynamic reports whether the integrator advances this body.
func (p Physics) Dynamic() bool {
	return p.Enabled && !p.Static
}
