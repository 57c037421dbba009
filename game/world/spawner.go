package world

import (
	"math"
	"math/rand"

	"go.uber.org/zap"

	"github.com/kasuganosora/swarmai/game/ai"
	"github.com/kasuganosora/swarmai/game/geom"
	"github.com/kasuganosora/swarmai/resource"
)

// SpawnConfig describes one spawn group: an archetype, a target population
// and the area new agents appear in.
type SpawnConfig struct {
	Archetype  resource.Archetype `mapstructure:"archetype"`
	Count      int                `mapstructure:"count"`
	Center     []float64          `mapstructure:"center"` // [x, z]
	Radius     float64            `mapstructure:"radius"`
	Boss       bool               `mapstructure:"boss"`
	RespawnSec float64            `mapstructure:"respawn_sec"`
}

func (c SpawnConfig) center() geom.Vec3 {
	if len(c.Center) >= 2 {
		return geom.V(c.Center[0], 0, c.Center[1])
	}
	return geom.Vec3{}
}

// Spawner keeps every spawn group at its configured population. Runs on
// the arena's tick goroutine.
type Spawner struct {
	arena   *Arena
	table   *resource.Table
	configs []SpawnConfig
	// nextRespawnTick gates refills per group so a wiped group does not
	// reappear instantly.
	nextRespawnTick []int64
	logger          *zap.Logger
}

func NewSpawner(arena *Arena, table *resource.Table, configs []SpawnConfig, logger *zap.Logger) *Spawner {
	return &Spawner{
		arena:           arena,
		table:           table,
		configs:         configs,
		nextRespawnTick: make([]int64, len(configs)),
		logger:          logger,
	}
}

// SpawnAll fills every group to its configured count. Called once at
// arena start.
func (sp *Spawner) SpawnAll() {
	for i := range sp.configs {
		sp.fillGroup(i)
	}
}

// CheckRespawns refills groups whose respawn delay has elapsed. Called
// periodically from the scheduler via Arena.Do.
func (sp *Spawner) CheckRespawns() {
	tick := sp.arena.Tick()
	for i, cfg := range sp.configs {
		if tick < sp.nextRespawnTick[i] {
			continue
		}
		if sp.fillGroup(i) > 0 {
			sp.nextRespawnTick[i] = tick + int64(cfg.RespawnSec*20)
		}
	}
}

func (sp *Spawner) fillGroup(group int) int {
	cfg := sp.configs[group]
	alive := 0
	for _, a := range sp.arena.agents {
		if a.SpawnGroup == group && a.Alive() {
			alive++
		}
	}
	spawned := 0
	for n := alive; n < cfg.Count; n++ {
		stats := sp.table.Lookup(cfg.Archetype)
		pos := randomPointInDisc(sp.arena.rng, cfg.center(), cfg.Radius)
		a := ai.NewAgent(stats, pos, cfg.Boss, sp.arena.tuning)
		a.SpawnGroup = group
		sp.arena.AddAgent(a)
		spawned++
	}
	if spawned > 0 {
		sp.logger.Info("spawned agents",
			zap.Int("group", group),
			zap.String("archetype", string(cfg.Archetype)),
			zap.Int("count", spawned),
			zap.Bool("boss", cfg.Boss),
		)
	}
	return spawned
}

func randomPointInDisc(rng *rand.Rand, center geom.Vec3, radius float64) geom.Vec3 {
	// Uniform over the disc needs the sqrt on the radial draw.
	ang := rng.Float64() * 2 * math.Pi
	r := radius * math.Sqrt(rng.Float64())
	return center.Add(geom.V(math.Cos(ang)*r, 0, math.Sin(ang)*r))
}
