package models

import (
	"time"

	"github.com/uptrace/bun"
)

// QuestProgress is one user's progress on one quest. Rows are created lazily on
// first access; (user_id, quest_id) is unique. CompletedAt and ClaimedAt are
// each set exactly once; a claim is only valid on a completed quest.
type QuestProgress struct {
	bun.BaseModel `bun:"table:quest_progress,alias:qp"`

	ID          int64                  `bun:"id,pk,autoincrement"`
	UserID      string                 `bun:"user_id,notnull"`
	QuestID     string                 `bun:"quest_id,notnull"`
	Progress    int                    `bun:"progress,notnull,default:0"`
	Metadata    map[string]interface{} `bun:"metadata,type:jsonb"`
	CompletedAt *time.Time             `bun:"completed_at"`
	ClaimedAt   *time.Time             `bun:"claimed_at"`
	LastResetAt *time.Time             `bun:"last_reset_at"`
	CreatedAt   time.Time              `bun:"created_at,notnull"`
	UpdatedAt   time.Time              `bun:"updated_at,notnull"`
}

func (p *QuestProgress) Completed() bool {
	return p.CompletedAt != nil
}

func (p *QuestProgress) Claimed() bool {
	return p.ClaimedAt != nil
}
