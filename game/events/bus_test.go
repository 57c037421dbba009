package events

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kasuganosora/swarmai/game/geom"
)

func TestSubscribersRunInPriorityOrder(t *testing.T) {
	bus := NewBus(0, zap.NewNop())
	var order []string
	bus.Subscribe("death", 10, "late", func(ctx context.Context, ev Event) error {
		order = append(order, "late")
		return nil
	})
	bus.Subscribe("death", 1, "early", func(ctx context.Context, ev Event) error {
		order = append(order, "early")
		return nil
	})

	bus.Publish(context.Background(), DeathEvent{})

	assert.Equal(t, []string{"early", "late"}, order)
}

func TestInterruptStopsDelivery(t *testing.T) {
	bus := NewBus(0, zap.NewNop())
	called := false
	bus.Subscribe("damage", 1, "gate", func(ctx context.Context, ev Event) error {
		return ErrInterrupt
	})
	bus.Subscribe("damage", 2, "after", func(ctx context.Context, ev Event) error {
		called = true
		return nil
	})

	bus.Publish(context.Background(), DamageEvent{Amount: 5})

	assert.False(t, called)
}

func TestHandlerErrorDoesNotStopDelivery(t *testing.T) {
	bus := NewBus(0, zap.NewNop())
	called := false
	bus.Subscribe("damage", 1, "bad", func(ctx context.Context, ev Event) error {
		return assert.AnError
	})
	bus.Subscribe("damage", 2, "good", func(ctx context.Context, ev Event) error {
		called = true
		return nil
	})

	bus.Publish(context.Background(), DamageEvent{})

	assert.True(t, called)
}

func TestEffectRequestsAreRateLimited(t *testing.T) {
	bus := NewBus(1, zap.NewNop())
	delivered := 0
	bus.Subscribe("effect", 0, "count", func(ctx context.Context, ev Event) error {
		delivered++
		return nil
	})

	for i := 0; i < 20; i++ {
		bus.Publish(context.Background(), EffectRequest{Kind: "spark", Origin: geom.V(0, 0, 0)})
	}

	require.Positive(t, delivered)
	assert.Less(t, delivered, 20)
}

func TestUnsubscribe(t *testing.T) {
	bus := NewBus(0, zap.NewNop())
	called := false
	bus.Subscribe("spawn", 0, "once", func(ctx context.Context, ev Event) error {
		called = true
		return nil
	})
	bus.Unsubscribe("spawn", "once")

	bus.Publish(context.Background(), SpawnEvent{})

	assert.False(t, called)
}
