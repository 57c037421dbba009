package world

import (
	"github.com/kasuganosora/swarmai/game/ai"
	"github.com/kasuganosora/swarmai/game/events"
	"github.com/kasuganosora/swarmai/game/geom"
)

// noiseBus buffers broadcast sounds with publish-before-read ordering. A
// noise published during tick N becomes readable at tick N+1, so every
// agent observes the same noise set regardless of registry position.
type noiseBus struct {
	pending []ai.NoiseEvent
	current []ai.NoiseEvent
}

func (b *noiseBus) publish(origin geom.Vec3, radius float64, loudness events.Loudness, tick int64) {
	b.pending = append(b.pending, ai.NoiseEvent{
		Origin:   origin,
		Radius:   radius,
		Loudness: loudness,
		Tick:     tick,
	})
}

// rotate promotes pending noises into the readable set and clears the
// previous tick's set. Called once at the start of every tick.
func (b *noiseBus) rotate() []ai.NoiseEvent {
	b.current = b.pending
	b.pending = nil
	return b.current
}
