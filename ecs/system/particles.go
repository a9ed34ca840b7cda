package system

import (
	"math/rand/v2"

	"github.com/milk9111/lumen/ecs"
	"github.com/milk9111/lumen/ecs/component"
)

const (
	DefaultSparkColor = "#00f2ff"
	DefaultSparkCount = 10

	particleDecay    = 0.02
	particleMaxSpeed = 4.0
)

// Spawner accepts particle bursts.
type Spawner interface {
	Spawn(x, y float64, color string, count int)
}

// ParticleSystem owns the spark buffer. Particles move by their velocity and
// fade by a fixed amount every tick, paused or not, and are dropped as soon as
// their life reaches zero. When the buffer is full the oldest sparks go first.
type ParticleSystem struct {
	rng       *rand.Rand
	max       int
	particles []component.Particle
}

func NewParticleSystem(max int, seed uint64) *ParticleSystem {
	if max <= 0 {
		max = 2048
	}
	return &ParticleSystem{
		rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		max: max,
	}
}

// Spawn adds count sparks at (x, y). An empty color uses DefaultSparkColor.
func (s *ParticleSystem) Spawn(x, y float64, color string, count int) {
	if s == nil || count <= 0 {
		return
	}
	if color == "" {
		color = DefaultSparkColor
	}
	for i := 0; i < count; i++ {
		s.particles = append(s.particles, component.Particle{
			X:     x,
			Y:     y,
			VX:    (s.rng.Float64() - 0.5) * 2 * particleMaxSpeed,
			VY:    (s.rng.Float64() - 0.5) * 2 * particleMaxSpeed,
			Life:  1,
			Color: color,
			Size:  1 + s.rng.Float64()*2,
		})
	}
	if over := len(s.particles) - s.max; over > 0 {
		n := copy(s.particles, s.particles[over:])
		s.particles = s.particles[:n]
	}
}

func (s *ParticleSystem) Update(_ *ecs.World) {
	if s == nil {
		return
	}
	live := s.particles[:0]
	for _, p := range s.particles {
		p.X += p.VX
		p.Y += p.VY
		p.Life -= particleDecay
		if p.Life <= 0 {
			continue
		}
		live = append(live, p)
	}
	clear(s.particles[len(live):])
	s.particles = live
}

// Particles returns a copy of the live buffer.
func (s *ParticleSystem) Particles() []component.Particle {
	if s == nil {
		return nil
	}
	return append([]component.Particle(nil), s.particles...)
}

func (s *ParticleSystem) Len() int {
	if s == nil {
		return 0
	}
	return len(s.particles)
}

func (s *ParticleSystem) Reset() {
	if s == nil {
		return
	}
	s.particles = nil
}
