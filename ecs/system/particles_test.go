package system

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParticleSpawnRanges(t *testing.T) {
	ps := NewParticleSystem(4096, 42)
	ps.Spawn(100, 200, "", 500)

	require.Equal(t, 500, ps.Len())
	for _, p := range ps.Particles() {
		assert.Equal(t, 100.0, p.X)
		assert.Equal(t, 200.0, p.Y)
		assert.Equal(t, 1.0, p.Life)
		assert.Equal(t, DefaultSparkColor, p.Color)
		assert.GreaterOrEqual(t, p.VX, -4.0)
		assert.Less(t, p.VX, 4.0)
		assert.GreaterOrEqual(t, p.VY, -4.0)
		assert.Less(t, p.VY, 4.0)
		assert.GreaterOrEqual(t, p.Size, 1.0)
		assert.Less(t, p.Size, 3.0)
	}
}

func TestParticleLifeDecay(t *testing.T) {
	ps := NewParticleSystem(100, 1)
	ps.Spawn(0, 0, "#fff", 3)
	before := ps.Particles()

	ps.Update(nil)
	after := ps.Particles()
	require.Len(t, after, 3)
	for i := range after {
		assert.InDelta(t, 0.98, after[i].Life, 1e-12)
		assert.Equal(t, before[i].X+before[i].VX, after[i].X)
		assert.Equal(t, before[i].Y+before[i].VY, after[i].Y)
	}
}

func TestParticleRemovedOnFirstNonPositiveLife(t *testing.T) {
	ps := NewParticleSystem(100, 1)
	ps.Spawn(0, 0, "", 4)

	life := 1.0
	for i := 0; i < 100; i++ {
		ps.Update(nil)
		life -= particleDecay
		if life <= 0 {
			require.Equal(t, 0, ps.Len(), "tick %d: life %.3f", i+1, life)
			return
		}
		require.Equal(t, 4, ps.Len(), "tick %d", i+1)
		for _, p := range ps.Particles() {
			require.Greater(t, p.Life, 0.0)
		}
	}
	t.Fatal("particles never expired")
}

func TestParticleBufferDropsOldest(t *testing.T) {
	ps := NewParticleSystem(10, 1)
	ps.Spawn(0, 0, "#old", 5)
	ps.Spawn(0, 0, "#new", 10)

	require.Equal(t, 10, ps.Len())
	for _, p := range ps.Particles() {
		assert.Equal(t, "#new", p.Color)
	}

	ps.Reset()
	assert.Equal(t, 0, ps.Len())
}

func TestParticleSeedIsDeterministic(t *testing.T) {
	a := NewParticleSystem(100, 9)
	b := NewParticleSystem(100, 9)
	a.Spawn(1, 1, "", 20)
	b.Spawn(1, 1, "", 20)
	assert.Equal(t, a.Particles(), b.Particles())

	a.Spawn(0, 0, "", 0)
	a.Spawn(0, 0, "", -3)
	assert.Equal(t, 20, a.Len())
}
