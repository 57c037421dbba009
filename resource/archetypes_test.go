package resource

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLookupBuiltinRows(t *testing.T) {
	tbl := NewTable(zap.NewNop())

	walker := tbl.Lookup(ArchetypeWalker)
	assert.Equal(t, ArchetypeWalker, walker.Tag)
	assert.Positive(t, walker.MaxHP)

	runner := tbl.Lookup(ArchetypeRunner)
	assert.True(t, runner.CanFlee)
	assert.Greater(t, runner.Speed, walker.Speed)
}

func TestLookupUnknownTagFallsBackToBaseline(t *testing.T) {
	tbl := NewTable(zap.NewNop())
	baseline := tbl.Lookup(ArchetypeWalker)

	got := tbl.Lookup(Archetype("screamer"))

	assert.Equal(t, baseline.MaxHP, got.MaxHP)
	assert.Equal(t, baseline.Speed, got.Speed)
}

func TestLoadTableOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "archetypes.json")
	data := `[
		{"tag": "walker", "max_hp": 90, "speed": 2.0, "damage": 5, "score": 10, "radius": 0.5, "hearing": 0.6},
		{"tag": "crawler", "max_hp": 20, "speed": 6.0, "damage": 4, "score": 30, "radius": 0.3, "hearing": 0.9}
	]`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	tbl, err := LoadTable(path, zap.NewNop())
	require.NoError(t, err)

	// Overlay replaces the builtin walker row.
	assert.Equal(t, 90.0, tbl.Lookup(ArchetypeWalker).MaxHP)
	// New tags become first-class rows.
	assert.Equal(t, 20.0, tbl.Lookup(Archetype("crawler")).MaxHP)
	// Untouched builtins survive.
	assert.Equal(t, ArchetypeBrute, tbl.Lookup(ArchetypeBrute).Tag)
}

func TestLoadTableMissingFile(t *testing.T) {
	_, err := LoadTable(filepath.Join(t.TempDir(), "nope.json"), zap.NewNop())
	assert.Error(t, err)
}

func TestLoadTableBadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := LoadTable(path, zap.NewNop())
	assert.Error(t, err)
}
