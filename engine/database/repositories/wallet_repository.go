package repositories

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/monstergarden/monstergarden/engine/database/models"
	"github.com/uptrace/bun"
)

type WalletRepository interface {
	// GetOrCreate returns the wallet, inserting it with the starting grant if
	// absent. Safe under concurrent first access.
	GetOrCreate(ctx context.Context, ownerID string) (*models.Wallet, error)
	// Credit atomically adds amount to balance and total_earned, creating the
	// wallet first if needed, and returns the updated snapshot.
	Credit(ctx context.Context, ownerID string, amount int64) (*models.Wallet, error)
	// Debit atomically subtracts amount from balance. The balance check and the
	// write are a single conditional update; a debit that would go negative
	// returns InsufficientFundsError and leaves the row untouched.
	Debit(ctx context.Context, ownerID string, amount int64) (*models.Wallet, error)
	Delete(ctx context.Context, ownerID string) error
}

type walletRepository struct {
	db            *bun.DB
	startingGrant int64
}

func NewWalletRepository(db *bun.DB, startingGrant int64) WalletRepository {
	return &walletRepository{db: db, startingGrant: startingGrant}
}

func (r *walletRepository) GetOrCreate(ctx context.Context, ownerID string) (*models.Wallet, error) {
	wallet := new(models.Wallet)
	err := r.db.NewSelect().
		Model(wallet).
		Where("owner_id = ?", ownerID).
		Scan(ctx)
	if err == nil {
		return wallet, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, &RepositoryError{Operation: "GetOrCreate", Entity: "wallet", Err: err}
	}

	if err := r.ensure(ctx, ownerID); err != nil {
		return nil, err
	}

	wallet = new(models.Wallet)
	if err := r.db.NewSelect().
		Model(wallet).
		Where("owner_id = ?", ownerID).
		Scan(ctx); err != nil {
		return nil, &RepositoryError{Operation: "GetOrCreate", Entity: "wallet", Err: err}
	}
	return wallet, nil
}

// ensure inserts the wallet with the starting grant if it does not exist yet.
// The unique index on owner_id makes the insert race-safe; a concurrent insert
// is treated as success.
func (r *walletRepository) ensure(ctx context.Context, ownerID string) error {
	now := time.Now()
	wallet := &models.Wallet{
		OwnerID:     ownerID,
		Balance:     r.startingGrant,
		TotalEarned: r.startingGrant,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	_, err := r.db.NewInsert().
		Model(wallet).
		On("CONFLICT (owner_id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return &RepositoryError{Operation: "ensure", Entity: "wallet", Err: err}
	}
	return nil
}

func (r *walletRepository) Credit(ctx context.Context, ownerID string, amount int64) (*models.Wallet, error) {
	if amount <= 0 {
		return nil, &InvalidRangeError{Field: "amount", Value: amount}
	}

	wallet, err := r.applyCredit(ctx, ownerID, amount)
	if err != nil {
		return nil, err
	}
	if wallet != nil {
		return wallet, nil
	}

	// No row yet: create with the starting grant, then apply the credit. The
	// second update cannot miss because wallets are never deleted mid-flight.
	if err := r.ensure(ctx, ownerID); err != nil {
		return nil, err
	}
	wallet, err = r.applyCredit(ctx, ownerID, amount)
	if err != nil {
		return nil, err
	}
	if wallet == nil {
		return nil, &StorageConflictError{Operation: "credit", Attempts: 2}
	}
	return wallet, nil
}

func (r *walletRepository) applyCredit(ctx context.Context, ownerID string, amount int64) (*models.Wallet, error) {
	wallet := new(models.Wallet)
	res, err := r.db.NewUpdate().
		Model(wallet).
		Set("balance = balance + ?", amount).
		Set("total_earned = total_earned + ?", amount).
		Set("updated_at = ?", time.Now()).
		Where("owner_id = ?", ownerID).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, &RepositoryError{Operation: "Credit", Entity: "wallet", Err: err}
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, &RepositoryError{Operation: "Credit", Entity: "wallet", Err: err}
	}
	if affected == 0 {
		return nil, nil
	}
	return wallet, nil
}

func (r *walletRepository) Debit(ctx context.Context, ownerID string, amount int64) (*models.Wallet, error) {
	if amount <= 0 {
		return nil, &InvalidRangeError{Field: "amount", Value: amount}
	}

	// At most two passes: the first miss may just mean the wallet does not
	// exist yet, so it is created with the starting grant and the conditional
	// update re-run once. A miss on a wallet that does hold enough after that
	// is a genuine conflict, not grounds for another pass.
	for attempt := 1; attempt <= 2; attempt++ {
		wallet, err := r.applyDebit(ctx, ownerID, amount)
		if err != nil {
			return nil, err
		}
		if wallet != nil {
			return wallet, nil
		}

		current, err := r.GetOrCreate(ctx, ownerID)
		if err != nil {
			return nil, err
		}
		if current.Balance < amount {
			return nil, &InsufficientFundsError{
				OwnerID:   ownerID,
				Balance:   current.Balance,
				Requested: amount,
			}
		}
		slog.Debug("Debit retry after lazy wallet creation",
			slog.String("type", "db"),
			slog.String("owner_id", ownerID),
			slog.Int64("amount", amount))
	}
	return nil, &StorageConflictError{Operation: "debit", Attempts: 2}
}

func (r *walletRepository) applyDebit(ctx context.Context, ownerID string, amount int64) (*models.Wallet, error) {
	wallet := new(models.Wallet)
	res, err := r.db.NewUpdate().
		Model(wallet).
		Set("balance = balance - ?", amount).
		Set("updated_at = ?", time.Now()).
		Where("owner_id = ? AND balance >= ?", ownerID, amount).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, &RepositoryError{Operation: "Debit", Entity: "wallet", Err: err}
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, &RepositoryError{Operation: "Debit", Entity: "wallet", Err: err}
	}
	if affected == 0 {
		return nil, nil
	}
	return wallet, nil
}

func (r *walletRepository) Delete(ctx context.Context, ownerID string) error {
	res, err := r.db.NewDelete().
		Model((*models.Wallet)(nil)).
		Where("owner_id = ?", ownerID).
		Exec(ctx)
	if err != nil {
		return &RepositoryError{Operation: "Delete", Entity: "wallet", Err: err}
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return &NotFoundError{Entity: "wallet", ID: ownerID}
	}
	return nil
}
