package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Wallet is the per-user coin ledger. Balance never goes negative; TotalEarned
// only ever grows.
type Wallet struct {
	bun.BaseModel `bun:"table:wallets,alias:w"`

	ID          int64     `bun:"id,pk,autoincrement"`
	OwnerID     string    `bun:"owner_id,notnull,unique"`
	Balance     int64     `bun:"balance,notnull,default:0"`
	TotalEarned int64     `bun:"total_earned,notnull,default:0"`
	CreatedAt   time.Time `bun:"created_at,notnull"`
	UpdatedAt   time.Time `bun:"updated_at,notnull"`
}
