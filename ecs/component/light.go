package component

type Light struct {
	Enabled     bool
	Color       string
	Radius      float64
	Intensity   float64
	Flicker     bool
	CastShadows bool
}
