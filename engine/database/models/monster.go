package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Monster state constants. A care action that matches the monster's current
// state pays a doubled coin reward and settles the monster back to content.
const (
	StateContent = "content"
	StateHungry  = "hungry"
	StateLonely  = "lonely"
	StateSad     = "sad"
	StateAnxious = "anxious"
	StateSleepy  = "sleepy"
)

// Care action constants
const (
	ActionFeed    = "feed"
	ActionPlay    = "play"
	ActionComfort = "comfort"
	ActionCalm    = "calm"
	ActionLullaby = "lullaby"
)

// ActionTargetState maps each care action to the emotional state it relieves.
var ActionTargetState = map[string]string{
	ActionFeed:    StateHungry,
	ActionPlay:    StateLonely,
	ActionComfort: StateSad,
	ActionCalm:    StateAnxious,
	ActionLullaby: StateSleepy,
}

// Monster holds the progression-relevant fields of a user's monster. Visual
// generation and rendering live outside this service.
type Monster struct {
	bun.BaseModel `bun:"table:monsters,alias:m"`

	ID        string    `bun:"id,pk"`
	OwnerID   string    `bun:"owner_id,notnull"`
	Name      string    `bun:"name,notnull"`
	State     string    `bun:"state,notnull,default:'content'"`
	Level     int       `bun:"level,notnull,default:1"`
	XP        int64     `bun:"xp,notnull,default:0"`
	MaxXP     int64     `bun:"max_xp,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}
