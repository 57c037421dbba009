package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/viper"

	"github.com/kasuganosora/swarmai/game/ai"
	"github.com/kasuganosora/swarmai/game/world"
)

type Config struct {
	Arena ArenaConfig         `mapstructure:"arena"`
	AI    ai.Tuning           `mapstructure:"ai"`
	Spawn []world.SpawnConfig `mapstructure:"spawn"`
}

type ArenaConfig struct {
	TickMs        int     `mapstructure:"tick_ms"`
	ArchetypePath string  `mapstructure:"archetype_path"` // optional JSON stat overlay
	EffectsPerSec float64 `mapstructure:"effects_per_sec"`
	Seed          int64   `mapstructure:"seed"` // 0 means time-seeded
	Debug         bool    `mapstructure:"debug"`
}

// Load reads config from a YAML file. A missing file is not an error; the
// defaults describe a playable arena on their own.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.Arena.TickMs <= 0 {
		return nil, fmt.Errorf("arena.tick_ms must be positive, got %d", cfg.Arena.TickMs)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("arena.tick_ms", 50)
	v.SetDefault("arena.effects_per_sec", 30)
	v.SetDefault("arena.seed", 0)
	v.SetDefault("arena.debug", false)

	t := ai.DefaultTuning()
	v.SetDefault("ai.view_range", t.ViewRange)
	v.SetDefault("ai.fov_degrees", t.FOVDegrees)
	v.SetDefault("ai.chase_grace_ticks", t.ChaseGraceTicks)
	v.SetDefault("ai.fresh_sight_ticks", t.FreshSightTicks)
	v.SetDefault("ai.idle_min_ticks", t.IdleMinTicks)
	v.SetDefault("ai.idle_max_ticks", t.IdleMaxTicks)
	v.SetDefault("ai.wander_radius", t.WanderRadius)
	v.SetDefault("ai.arrive_dist", t.ArriveDist)
	v.SetDefault("ai.search_ticks", t.SearchTicks)
	v.SetDefault("ai.move_step", t.MoveStep)
	v.SetDefault("ai.burn_ticks", t.BurnTicks)
	v.SetDefault("ai.burn_damage_tick", t.BurnDamageTick)
	v.SetDefault("ai.afterburn_ticks", t.AfterburnTicks)
	v.SetDefault("ai.afterburn_damage", t.AfterburnDamage)
	v.SetDefault("ai.slow_factor", t.SlowFactor)
	v.SetDefault("ai.flee_hp_frac", t.FleeHPFrac)
	v.SetDefault("ai.explosion_flash_mod", t.ExplosionFlashMod)
	v.SetDefault("ai.ash_ticks", t.AshTicks)
	v.SetDefault("ai.fall_ticks", t.FallTicks)
	v.SetDefault("ai.cleanup_grace_ticks", t.CleanupGraceTicks)
	v.SetDefault("ai.boss_hp_mult", t.BossHPMult)
	v.SetDefault("ai.boss_damage_mult", t.BossDamageMult)
	v.SetDefault("ai.boss_perception_mult", t.BossPerceptionMult)
	v.SetDefault("ai.boss_ability_mult", t.BossAbilityMult)

	v.SetDefault("spawn", []map[string]interface{}{
		{"archetype": "walker", "count": 8, "center": []float64{0, 0}, "radius": 30, "respawn_sec": 15},
		{"archetype": "runner", "count": 4, "center": []float64{20, 20}, "radius": 25, "respawn_sec": 20},
		{"archetype": "brute", "count": 2, "center": []float64{-25, 10}, "radius": 20, "respawn_sec": 45},
		{"archetype": "bomber", "count": 3, "center": []float64{10, -25}, "radius": 25, "respawn_sec": 30},
		{"archetype": "brute", "count": 1, "center": []float64{0, 40}, "radius": 10, "boss": true, "respawn_sec": 120},
	})
}
