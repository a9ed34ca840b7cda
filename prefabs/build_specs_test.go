package prefabs

import (
	"testing"

	"github.com/milk9111/lumen/ecs/component"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestLoadEmbeddedScene(t *testing.T) {
	seed, err := LoadScene("scene.yaml")
	require.NoError(t, err)
	require.NotEmpty(t, seed.Entities)

	byID := map[string]component.Entity{}
	for _, e := range seed.Entities {
		byID[e.ID] = e
	}

	beacon := byID["beacon"]
	assert.Equal(t, component.EntitySprite, beacon.Type)
	assert.NotEmpty(t, beacon.Asset)
	assert.Contains(t, beacon.Script, "math.sin")
	assert.Equal(t, []string{"beacon"}, seed.ScriptFiles["scripts/bob.tengo"])

	hunter := byID["hunter"]
	require.NotNil(t, hunter.Light)
	assert.Equal(t, "evt_hunter", hunter.LinkedLogicID)
}

func TestBuildEntity(t *testing.T) {
	var spec EntitySpec
	require.NoError(t, yaml.Unmarshal([]byte(`
name: Box
type: RECT
transform: {x: 1, y: 2, scale_x: -3, scale_y: 4}
physics: {enabled: true, restitution: 0.1}
color: "#ff0000"
`), &spec))

	e, err := BuildEntity(spec)
	require.NoError(t, err)
	assert.Equal(t, component.EntityRect, e.Type)
	assert.Equal(t, 0.0, e.Transform.ScaleX, "negative scale clamps to zero")
	assert.Equal(t, "#ff0000", e.Color)
	assert.True(t, e.Physics.Dynamic())
}

func TestBuildEntityErrors(t *testing.T) {
	_, err := BuildEntity(EntitySpec{Name: "x", Type: "hexagon"})
	require.Error(t, err)

	_, err = BuildScene(SceneSpec{Entities: []EntitySpec{{Name: "anon", ScriptFile: "scripts/bob.tengo"}}})
	require.Error(t, err, "script_file without an id cannot be hot reloaded")

	var spec EntitySpec
	err = yaml.Unmarshal([]byte(`color: "#12"`), &spec)
	require.Error(t, err)
}
