package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kasuganosora/swarmai/resource"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 50, cfg.Arena.TickMs)
	assert.Equal(t, 25.0, cfg.AI.ViewRange)
	assert.Equal(t, 120.0, cfg.AI.FOVDegrees)
	assert.NotEmpty(t, cfg.Spawn)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
arena:
  tick_ms: 100
  debug: true
ai:
  view_range: 40
spawn:
  - archetype: bomber
    count: 6
    center: [5, -5]
    radius: 12
    respawn_sec: 8
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 100, cfg.Arena.TickMs)
	assert.True(t, cfg.Arena.Debug)
	assert.Equal(t, 40.0, cfg.AI.ViewRange)
	// Untouched knobs keep their defaults.
	assert.Equal(t, 120.0, cfg.AI.FOVDegrees)

	require.Len(t, cfg.Spawn, 1)
	assert.Equal(t, resource.ArchetypeBomber, cfg.Spawn[0].Archetype)
	assert.Equal(t, 6, cfg.Spawn[0].Count)
}

func TestLoadRejectsNonPositiveTick(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("arena:\n  tick_ms: 0\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(":\n\t- nope"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
