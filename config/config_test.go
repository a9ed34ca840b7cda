package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lumen.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 720.0, cfg.World.FloorY)
	assert.Equal(t, 0.5, cfg.World.Gravity)
	assert.Equal(t, 0.1, cfg.Clock.MaxDT)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
world:
  gravity: 0.25
  grid: false
script:
  budget: 10ms
graph: logic.yaml
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0.25, cfg.World.Gravity)
	assert.False(t, cfg.World.Grid)
	assert.Equal(t, 10*time.Millisecond, cfg.Script.Budget)
	assert.Equal(t, "logic.yaml", cfg.Graph)
	assert.Equal(t, 720.0, cfg.World.FloorY, "unset fields keep defaults")
}

func TestLoadRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"bad_ambience": "world:\n  ambience: \"#12\"\n",
		"zero_dt":      "clock:\n  max_dt: 0\n",
		"bad_level":    "log:\n  level: chatty\n",
		"no_particles": "particles:\n  max: 0\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body))
			require.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
