package resource

import (
	"encoding/json"
	"fmt"
	"os"

	"go.uber.org/zap"
)

// Archetype is the agent-type tag. It selects a stat row and an ability
// row; it is never a subtype.
type Archetype string

const (
	ArchetypeWalker Archetype = "walker" // baseline
	ArchetypeRunner Archetype = "runner" // faster baseline
	ArchetypeBrute  Archetype = "brute"  // armored, smash attack
	ArchetypeBomber Archetype = "bomber" // self-destructing
)

// ArchetypeStats is one row of the archetype stat table.
type ArchetypeStats struct {
	Tag     Archetype `json:"tag"`
	MaxHP   float64   `json:"max_hp"`
	Speed   float64   `json:"speed"`
	Damage  float64   `json:"damage"`
	Score   int       `json:"score"`
	Scale   float64   `json:"scale"`
	Radius  float64   `json:"radius"`
	Hearing float64   `json:"hearing"` // hearing sensitivity 0..1
	CanFlee bool      `json:"can_flee"`
}

// builtinRows is the fallback table compiled into the binary. An external
// JSON file can override it; bad or missing content degrades to these.
var builtinRows = []*ArchetypeStats{
	{Tag: ArchetypeWalker, MaxHP: 60, Speed: 3.2, Damage: 8, Score: 50, Scale: 1.0, Radius: 0.5, Hearing: 0.6, CanFlee: false},
	{Tag: ArchetypeRunner, MaxHP: 45, Speed: 5.5, Damage: 6, Score: 75, Scale: 0.9, Radius: 0.45, Hearing: 0.7, CanFlee: true},
	{Tag: ArchetypeBrute, MaxHP: 140, Speed: 2.4, Damage: 18, Score: 150, Scale: 1.3, Radius: 0.7, Hearing: 0.5, CanFlee: false},
	{Tag: ArchetypeBomber, MaxHP: 35, Speed: 4.2, Damage: 30, Score: 100, Scale: 0.95, Radius: 0.45, Hearing: 0.8, CanFlee: false},
}

// Table holds the loaded archetype stat rows.
type Table struct {
	rows   map[Archetype]*ArchetypeStats
	logger *zap.Logger
}

// NewTable builds a Table from the built-in rows.
func NewTable(logger *zap.Logger) *Table {
	t := &Table{rows: make(map[Archetype]*ArchetypeStats), logger: logger}
	for _, r := range builtinRows {
		t.rows[r.Tag] = r
	}
	return t
}

// LoadTable reads archetype rows from a JSON file, overlaying the built-in
// table. Rows with an empty tag are skipped with a warning.
func LoadTable(path string, logger *zap.Logger) (*Table, error) {
	t := NewTable(logger)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read archetype table: %w", err)
	}
	var rows []*ArchetypeStats
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("parse archetype table %s: %w", path, err)
	}
	for _, r := range rows {
		if r == nil || r.Tag == "" {
			logger.Warn("archetype row without tag skipped", zap.String("path", path))
			continue
		}
		t.rows[r.Tag] = r
	}
	return t, nil
}

// Lookup returns the stat row for tag. An unrecognized tag falls back to
// the baseline row so that bad content degrades visibly instead of
// crashing the loop.
func (t *Table) Lookup(tag Archetype) *ArchetypeStats {
	if r, ok := t.rows[tag]; ok {
		return r
	}
	t.logger.Warn("unknown archetype tag, using baseline stats", zap.String("tag", string(tag)))
	return t.rows[ArchetypeWalker]
}

// Tags returns every known archetype tag.
func (t *Table) Tags() []Archetype {
	out := make([]Archetype, 0, len(t.rows))
	for tag := range t.rows {
		out = append(out, tag)
	}
	return out
}
