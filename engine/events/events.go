package events

// Event is a fact published after its originating write has committed.
// Handlers must be idempotent: delivery is asynchronous and at-least-once.
type Event interface {
	EventName() string
}

// WalletChanged fires after every successful credit or debit.
type WalletChanged struct {
	UserID      string
	Balance     int64
	TotalEarned int64
}

func (WalletChanged) EventName() string { return "wallet_changed" }

// BackgroundUnlocked fires after a cosmetic background unlock is persisted.
type BackgroundUnlocked struct {
	UserID string
}

func (BackgroundUnlocked) EventName() string { return "background_unlocked" }

// MonsterOwnershipChanged fires after the set of monsters a user owns changes.
// Count is the observed total at the time of the change.
type MonsterOwnershipChanged struct {
	UserID string
	Count  int
}

func (MonsterOwnershipChanged) EventName() string { return "monster_ownership_changed" }

// MonsterLeveled fires when a monster crosses a level threshold.
type MonsterLeveled struct {
	UserID   string
	NewLevel int
}

func (MonsterLeveled) EventName() string { return "monster_leveled" }
