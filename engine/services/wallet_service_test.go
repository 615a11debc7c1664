package services

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/monstergarden/monstergarden/engine/database/repositories"
	"github.com/monstergarden/monstergarden/engine/events"
)

func TestWalletStartingGrant(t *testing.T) {
	ws := NewWalletService(newFakeWalletRepo(100), events.NewBus())

	wallet, err := ws.GetWallet(context.Background(), "user-1")
	require.NoError(t, err)
	require.EqualValues(t, 100, wallet.Balance)
	require.EqualValues(t, 100, wallet.TotalEarned)
}

func TestWalletCreditPublishesChange(t *testing.T) {
	bus := events.NewBus()
	ws := NewWalletService(newFakeWalletRepo(100), bus)

	var mu sync.Mutex
	var observed []events.WalletChanged
	bus.Subscribe(events.WalletChanged{}.EventName(), func(_ context.Context, evt events.Event) error {
		mu.Lock()
		defer mu.Unlock()
		observed = append(observed, evt.(events.WalletChanged))
		return nil
	})

	wallet, err := ws.Credit(context.Background(), "user-1", 50, "test")
	require.NoError(t, err)
	require.EqualValues(t, 150, wallet.Balance)
	require.EqualValues(t, 150, wallet.TotalEarned)

	bus.Wait()
	mu.Lock()
	defer mu.Unlock()
	require.Len(t, observed, 1)
	require.EqualValues(t, 150, observed[0].Balance)
}

func TestWalletDebitInsufficientFundsLeavesStateUntouched(t *testing.T) {
	ws := NewWalletService(newFakeWalletRepo(100), events.NewBus())
	ctx := context.Background()

	_, err := ws.Debit(ctx, "user-1", 250, "test")
	var ife *repositories.InsufficientFundsError
	require.ErrorAs(t, err, &ife)
	require.EqualValues(t, 100, ife.Balance)

	wallet, err := ws.GetWallet(ctx, "user-1")
	require.NoError(t, err)
	require.EqualValues(t, 100, wallet.Balance)
	require.EqualValues(t, 100, wallet.TotalEarned)
}

func TestWalletDebitDoesNotGrowTotalEarned(t *testing.T) {
	ws := NewWalletService(newFakeWalletRepo(100), events.NewBus())
	ctx := context.Background()

	wallet, err := ws.Debit(ctx, "user-1", 30, "test")
	require.NoError(t, err)
	require.EqualValues(t, 70, wallet.Balance)
	require.EqualValues(t, 100, wallet.TotalEarned)
}

func TestWalletDebitFromFreshWalletUsesStartingGrant(t *testing.T) {
	ws := NewWalletService(newFakeWalletRepo(100), events.NewBus())
	ctx := context.Background()

	// A user never seen before gets the wallet created with the starting
	// grant and the debit applied against it in the same call, without
	// looping beyond the single re-run.
	wallet, err := ws.Debit(ctx, "user-fresh", 40, "test")
	require.NoError(t, err)
	require.EqualValues(t, 60, wallet.Balance)
	require.EqualValues(t, 100, wallet.TotalEarned)
}

func TestWalletRejectsNegativeAmounts(t *testing.T) {
	ws := NewWalletService(newFakeWalletRepo(100), events.NewBus())
	ctx := context.Background()

	var ire *repositories.InvalidRangeError
	_, err := ws.Credit(ctx, "user-1", -5, "test")
	require.ErrorAs(t, err, &ire)
	_, err = ws.Debit(ctx, "user-1", -5, "test")
	require.ErrorAs(t, err, &ire)
}
