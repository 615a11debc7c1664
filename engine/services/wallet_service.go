package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/monstergarden/monstergarden/engine/database/models"
	"github.com/monstergarden/monstergarden/engine/database/repositories"
	"github.com/monstergarden/monstergarden/engine/events"
	"github.com/monstergarden/monstergarden/engine/metrics"
)

// WalletService is the single entry point for balance mutations. Every credit
// publishes a WalletChanged event so coin-based quest objectives observe the
// new balance without the caller knowing about quests.
type WalletService struct {
	walletRepo repositories.WalletRepository
	bus        *events.Bus
}

func NewWalletService(walletRepo repositories.WalletRepository, bus *events.Bus) *WalletService {
	return &WalletService{
		walletRepo: walletRepo,
		bus:        bus,
	}
}

func (ws *WalletService) GetWallet(ctx context.Context, userID string) (*models.Wallet, error) {
	return ws.walletRepo.GetOrCreate(ctx, userID)
}

// Credit adds amount to the user's balance and lifetime earnings. A zero
// amount is a read in disguise and publishes nothing.
func (ws *WalletService) Credit(ctx context.Context, userID string, amount int64, reason string) (*models.Wallet, error) {
	if amount < 0 {
		return nil, &repositories.InvalidRangeError{Field: "amount", Value: amount}
	}
	if amount == 0 {
		return ws.walletRepo.GetOrCreate(ctx, userID)
	}

	wallet, err := ws.walletRepo.Credit(ctx, userID, amount)
	if err != nil {
		return nil, fmt.Errorf("failed to credit wallet: %w", err)
	}

	slog.Info("Wallet credited",
		slog.String("user_id", userID),
		slog.Int64("amount", amount),
		slog.Int64("balance", wallet.Balance),
		slog.String("reason", reason))

	ws.bus.Publish(events.WalletChanged{
		UserID:      userID,
		Balance:     wallet.Balance,
		TotalEarned: wallet.TotalEarned,
	})

	return wallet, nil
}

// Debit removes amount from the user's balance. The balance can never go
// negative: an overdraft returns InsufficientFundsError and leaves the wallet
// untouched.
func (ws *WalletService) Debit(ctx context.Context, userID string, amount int64, reason string) (*models.Wallet, error) {
	if amount < 0 {
		return nil, &repositories.InvalidRangeError{Field: "amount", Value: amount}
	}
	if amount == 0 {
		return ws.walletRepo.GetOrCreate(ctx, userID)
	}

	wallet, err := ws.walletRepo.Debit(ctx, userID, amount)
	if err != nil {
		var ife *repositories.InsufficientFundsError
		if errors.As(err, &ife) {
			metrics.DebitsRejected.Inc()
			slog.Info("Wallet debit rejected",
				slog.String("user_id", userID),
				slog.Int64("amount", amount),
				slog.Int64("balance", ife.Balance),
				slog.String("reason", reason))
		}
		return nil, err
	}

	slog.Info("Wallet debited",
		slog.String("user_id", userID),
		slog.Int64("amount", amount),
		slog.Int64("balance", wallet.Balance),
		slog.String("reason", reason))

	ws.bus.Publish(events.WalletChanged{
		UserID:      userID,
		Balance:     wallet.Balance,
		TotalEarned: wallet.TotalEarned,
	})

	return wallet, nil
}
