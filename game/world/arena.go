package world

import (
	"context"
	"math/rand"
	"runtime/debug"
	"time"

	"go.uber.org/zap"

	"github.com/kasuganosora/swarmai/game/ai"
	"github.com/kasuganosora/swarmai/game/events"
	"github.com/kasuganosora/swarmai/game/geom"
)

// Arena owns every live agent and drives the fixed-rate tick loop. All
// agent state is touched only from the tick goroutine; external callers
// go through Do, which queues a closure for the next tick.
type Arena struct {
	logger *zap.Logger
	tuning *ai.Tuning
	bus    *events.Bus
	rng    *rand.Rand

	agents []*ai.Agent // registry order, stable across ticks
	byID   map[int64]*ai.Agent
	index  *spatialIndex
	noises noiseBus

	player    *ai.PlayerInfo
	impulses  map[int64]geom.Vec3
	ops       chan func()
	tick      int64
	score     int
	tickHooks []func(tick int64)
}

// NewArena builds an arena over a static obstacle set.
func NewArena(obstacles []ai.Obstacle, tuning *ai.Tuning, bus *events.Bus, rng *rand.Rand, logger *zap.Logger) *Arena {
	return &Arena{
		logger:   logger,
		tuning:   tuning,
		bus:      bus,
		rng:      rng,
		byID:     make(map[int64]*ai.Agent),
		index:    newSpatialIndex(obstacles),
		impulses: make(map[int64]geom.Vec3),
		ops:      make(chan func(), 256),
	}
}

// Do queues fn to run on the tick goroutine before the next tick. This is
// the only safe way to touch arena state from outside the tick loop.
func (w *Arena) Do(fn func()) {
	w.ops <- fn
}

// Run drives the tick loop at the given interval until the context is
// canceled.
func (w *Arena) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	w.logger.Info("arena loop started", zap.Duration("interval", interval))
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("arena loop stopped", zap.Int64("tick", w.tick))
			return
		case fn := <-w.ops:
			fn()
		case <-ticker.C:
			w.drainOps()
			w.Step()
		}
	}
}

func (w *Arena) drainOps() {
	for {
		select {
		case fn := <-w.ops:
			fn()
		default:
			return
		}
	}
}

// Step advances the whole arena one tick: queued impulses first, then the
// noise rotation, then every agent in registry order, then cleanup.
func (w *Arena) Step() {
	w.tick++

	for id, imp := range w.impulses {
		if a, ok := w.byID[id]; ok && a.Alive() {
			a.Pos = a.Pos.Add(imp.Scale(w.tuning.MoveStep))
		}
		delete(w.impulses, id)
	}

	tctx := &ai.TickContext{
		Tick:   w.tick,
		World:  w,
		Noises: w.noises.rotate(),
		Events: w,
		RNG:    w.rng,
		Tuning: w.tuning,
		Logger: w.logger,
	}
	w.index.rebuildAgents(w.agents)

	for _, a := range w.agents {
		w.stepAgent(tctx, a)
	}

	w.removeExpired()
	for _, hook := range w.tickHooks {
		hook(w.tick)
	}
}

// stepAgent isolates a panicking agent so one bad brain cannot take the
// arena down with it.
func (w *Arena) stepAgent(tctx *ai.TickContext, a *ai.Agent) {
	defer func() {
		if r := recover(); r != nil {
			w.logger.Error("agent step panicked",
				zap.Int64("inst_id", a.InstID),
				zap.Any("panic", r),
				zap.ByteString("stack", debug.Stack()),
			)
		}
	}()
	ai.Step(tctx, a)
}

func (w *Arena) removeExpired() {
	kept := w.agents[:0]
	for _, a := range w.agents {
		if a.DeathPhase == ai.PhaseDead &&
			w.tick-a.DeadAtTick > int64(w.tuning.CleanupGraceTicks) {
			delete(w.byID, a.InstID)
			continue
		}
		kept = append(kept, a)
	}
	w.agents = kept
}

// AddAgent registers an agent at the end of the registry.
func (w *Arena) AddAgent(a *ai.Agent) {
	w.agents = append(w.agents, a)
	w.byID[a.InstID] = a
	w.bus.Publish(context.Background(), events.SpawnEvent{
		InstID:    a.InstID,
		Pos:       a.Pos,
		Archetype: string(a.Template.Tag),
		Boss:      a.Boss,
	})
}

// AgentByID returns a registered agent, nil if unknown or cleaned up.
func (w *Arena) AgentByID(id int64) *ai.Agent { return w.byID[id] }

// AliveCount returns the number of agents not yet in the death sequence.
func (w *Arena) AliveCount() int {
	n := 0
	for _, a := range w.agents {
		if a.Alive() {
			n++
		}
	}
	return n
}

// Tick returns the current tick number.
func (w *Arena) Tick() int64 { return w.tick }

// Score returns the accumulated kill score.
func (w *Arena) Score() int { return w.score }

// OnTick registers a hook invoked at the end of every tick. Must be called
// before Run.
func (w *Arena) OnTick(fn func(tick int64)) {
	w.tickHooks = append(w.tickHooks, fn)
}

// SetPlayer publishes the player's position and health for this tick.
func (w *Arena) SetPlayer(p ai.PlayerInfo) { w.player = &p }

// ClearPlayer removes the player from the arena, as on death or logout.
func (w *Arena) ClearPlayer() { w.player = nil }

// PlayerNoise publishes a player-originated sound, readable next tick.
func (w *Arena) PlayerNoise(origin geom.Vec3, radius float64, loudness events.Loudness) {
	w.noises.publish(origin, radius, loudness, w.tick)
}

// DamageAgent applies external damage with an optional knockback impulse
// that selects the falling death variant when it kills.
func (w *Arena) DamageAgent(id int64, amount float64, impulse geom.Vec3) bool {
	a := w.byID[id]
	if a == nil || !a.Alive() {
		return false
	}
	a.TakeDamage(amount, impulse, w.tuning)
	return true
}

// StunAgent applies a stun, refusing agents mid-detonation or dead.
func (w *Arena) StunAgent(id int64, ticks int) bool {
	a := w.byID[id]
	if a == nil {
		return false
	}
	return a.ApplyStun(ticks)
}

// IgniteAgent starts or refreshes burning on an agent.
func (w *Arena) IgniteAgent(id int64, ticks int) bool {
	a := w.byID[id]
	if a == nil || !a.Alive() {
		return false
	}
	a.Ignite(ticks)
	return true
}

// Surroundings implementation.

func (w *Arena) Player() (ai.PlayerInfo, bool) {
	if w.player == nil {
		return ai.PlayerInfo{}, false
	}
	return *w.player, true
}

func (w *Arena) NearbyObstacles(pos geom.Vec3, r float64) []ai.Obstacle {
	return w.index.nearbyObstacles(pos, r)
}

func (w *Arena) NearbyAgents(pos geom.Vec3, r float64) []ai.AgentInfo {
	return w.index.nearbyAgents(pos, r)
}

func (w *Arena) LineOfSight(from, to geom.Vec3) bool {
	return w.index.lineOfSight(from, to)
}

func (w *Arena) ResolveCollision(pos geom.Vec3, radius float64, ob ai.Obstacle) (geom.Vec3, bool) {
	return resolveCircleOverlap(pos, radius, ob)
}

func (w *Arena) QueueImpulse(instID int64, impulse geom.Vec3) {
	w.impulses[instID] = w.impulses[instID].Add(impulse)
}

// Notifier implementation. Events go out on the bus; noise goes to the
// tick-scoped noise buffer.

func (w *Arena) EmitDamage(ev events.DamageEvent) {
	w.bus.Publish(context.Background(), ev)
}

func (w *Arena) EmitEffect(ev events.EffectRequest) {
	w.bus.Publish(context.Background(), ev)
}

func (w *Arena) EmitDeath(ev events.DeathEvent) {
	w.score += ev.Score
	w.bus.Publish(context.Background(), ev)
}

func (w *Arena) EmitBossDefeated(ev events.BossDefeatedEvent) {
	w.bus.Publish(context.Background(), ev)
}

func (w *Arena) EmitNoise(origin geom.Vec3, radius float64, loudness events.Loudness) {
	w.noises.publish(origin, radius, loudness, w.tick)
}

// Snapshot is the per-agent render state exposed to clients.
type Snapshot struct {
	InstID     int64
	Archetype  string
	Boss       bool
	Pos        geom.Vec3
	Facing     geom.Vec3
	HP         float64
	MaxHP      float64
	State      string
	DeathPhase string
}

// Snapshots returns the render state of every registered agent in registry
// order.
func (w *Arena) Snapshots() []Snapshot {
	out := make([]Snapshot, 0, len(w.agents))
	for _, a := range w.agents {
		out = append(out, Snapshot{
			InstID:     a.InstID,
			Archetype:  string(a.Template.Tag),
			Boss:       a.Boss,
			Pos:        a.Pos,
			Facing:     a.Facing,
			HP:         a.HP,
			MaxHP:      a.MaxHP,
			State:      a.State.String(),
			DeathPhase: a.DeathPhase.String(),
		})
	}
	return out
}
