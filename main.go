package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kasuganosora/swarmai/config"
	"github.com/kasuganosora/swarmai/game/ai"
	"github.com/kasuganosora/swarmai/game/events"
	"github.com/kasuganosora/swarmai/game/geom"
	"github.com/kasuganosora/swarmai/game/world"
	"github.com/kasuganosora/swarmai/resource"
	"github.com/kasuganosora/swarmai/scheduler"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	var logger *zap.Logger
	if cfg.Arena.Debug {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	seed := cfg.Arena.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	var table *resource.Table
	if cfg.Arena.ArchetypePath != "" {
		table, err = resource.LoadTable(cfg.Arena.ArchetypePath, logger)
		if err != nil {
			logger.Fatal("load archetype table", zap.Error(err))
		}
	} else {
		table = resource.NewTable(logger)
	}

	bus := events.NewBus(cfg.Arena.EffectsPerSec, logger)
	bus.Subscribe("damage", 0, "log", func(ctx context.Context, ev events.Event) error {
		d := ev.(events.DamageEvent)
		logger.Info("player hit",
			zap.Float64("amount", d.Amount),
			zap.String("source", d.Source),
		)
		return nil
	})
	bus.Subscribe("death", 0, "log", func(ctx context.Context, ev events.Event) error {
		d := ev.(events.DeathEvent)
		logger.Info("kill scored",
			zap.String("loot_id", d.ID.String()),
			zap.String("archetype", d.Archetype),
			zap.Int("score", d.Score),
			zap.Bool("boss", d.Boss),
		)
		return nil
	})
	bus.Subscribe("boss_defeated", 0, "log", func(ctx context.Context, ev events.Event) error {
		b := ev.(events.BossDefeatedEvent)
		logger.Info("boss defeated", zap.String("archetype", b.Archetype))
		return nil
	})

	arena := world.NewArena(demoObstacles(), &cfg.AI, bus, rng, logger)
	spawner := world.NewSpawner(arena, table, cfg.Spawn, logger)
	spawner.SpawnAll()

	sched := scheduler.New(logger)
	defer sched.Stop()
	sched.Every("respawn", 5*time.Second, func() {
		arena.Do(spawner.CheckRespawns)
	})
	sched.Every("status", 10*time.Second, func() {
		arena.Do(func() {
			logger.Info("arena status",
				zap.Int64("tick", arena.Tick()),
				zap.Int("alive", arena.AliveCount()),
				zap.Int("score", arena.Score()),
			)
		})
	})
	// Scripted player: circles the arena and fires a noisy shot now and
	// then, to exercise perception without a real client.
	sched.Every("player", 50*time.Millisecond, func() {
		arena.Do(func() {
			t := float64(arena.Tick()) / 20
			pos := geom.V(math.Cos(t/7)*18, 0, math.Sin(t/7)*18)
			arena.SetPlayer(ai.PlayerInfo{Pos: pos, HP: 100})
			if arena.Tick()%160 == 0 {
				arena.PlayerNoise(pos, 30, events.LoudnessLoud)
			}
		})
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("starting arena",
		zap.Int64("seed", seed),
		zap.Int("tick_ms", cfg.Arena.TickMs),
		zap.Int("spawn_groups", len(cfg.Spawn)),
	)
	arena.Run(ctx, time.Duration(cfg.Arena.TickMs)*time.Millisecond)
}

// demoObstacles is a small fixed layout of pillars and rocks for the
// standalone demo. A real deployment feeds level geometry in instead.
func demoObstacles() []ai.Obstacle {
	return []ai.Obstacle{
		{Center: geom.V(6, 0, 3), Radius: 1.6},
		{Center: geom.V(-8, 0, 11), Radius: 2.4},
		{Center: geom.V(14, 0, -9), Radius: 1.2},
		{Center: geom.V(-15, 0, -14), Radius: 3.0},
		{Center: geom.V(0, 0, 22), Radius: 2.0},
		{Center: geom.V(-22, 0, 2), Radius: 1.8},
	}
}
