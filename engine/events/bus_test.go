package events

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBusDeliversToAllSubscribers(t *testing.T) {
	bus := NewBus()

	var delivered int32
	for i := 0; i < 3; i++ {
		bus.Subscribe(WalletChanged{}.EventName(), func(_ context.Context, _ Event) error {
			atomic.AddInt32(&delivered, 1)
			return nil
		})
	}

	bus.Publish(WalletChanged{UserID: "user-1", Balance: 100})
	bus.Wait()
	require.EqualValues(t, 3, atomic.LoadInt32(&delivered))
}

func TestBusIgnoresUnsubscribedEvents(t *testing.T) {
	bus := NewBus()

	var delivered int32
	bus.Subscribe(WalletChanged{}.EventName(), func(_ context.Context, _ Event) error {
		atomic.AddInt32(&delivered, 1)
		return nil
	})

	bus.Publish(MonsterLeveled{UserID: "user-1", NewLevel: 2})
	bus.Wait()
	require.EqualValues(t, 0, atomic.LoadInt32(&delivered))
}

func TestBusRetriesFailedHandler(t *testing.T) {
	bus := NewBus()
	bus.retryBackoff = 0

	var attempts int32
	bus.Subscribe(BackgroundUnlocked{}.EventName(), func(_ context.Context, _ Event) error {
		if atomic.AddInt32(&attempts, 1) < 3 {
			return errors.New("transient")
		}
		return nil
	})

	bus.Publish(BackgroundUnlocked{UserID: "user-1"})
	bus.Wait()
	require.EqualValues(t, 3, atomic.LoadInt32(&attempts))
}

func TestBusDropsAfterMaxAttempts(t *testing.T) {
	bus := NewBus()
	bus.retryBackoff = 0

	var attempts int32
	bus.Subscribe(BackgroundUnlocked{}.EventName(), func(_ context.Context, _ Event) error {
		atomic.AddInt32(&attempts, 1)
		return errors.New("permanent")
	})

	bus.Publish(BackgroundUnlocked{UserID: "user-1"})
	bus.Wait()
	require.EqualValues(t, int32(defaultMaxAttempts), atomic.LoadInt32(&attempts))
}

func TestBusRecoversFromPanickingHandler(t *testing.T) {
	bus := NewBus()

	var mu sync.Mutex
	var delivered []string
	bus.Subscribe(MonsterLeveled{}.EventName(), func(_ context.Context, _ Event) error {
		panic("handler bug")
	})
	bus.Subscribe(MonsterLeveled{}.EventName(), func(_ context.Context, evt Event) error {
		mu.Lock()
		defer mu.Unlock()
		delivered = append(delivered, evt.EventName())
		return nil
	})

	require.NotPanics(t, func() {
		bus.Publish(MonsterLeveled{UserID: "user-1", NewLevel: 2})
		bus.Wait()
	})
	mu.Lock()
	defer mu.Unlock()
	require.Len(t, delivered, 1)
}
