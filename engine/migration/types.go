package migration

import (
	"sync"
	"time"
)

// LegacyUser is a user document from the original MongoDB deployment. Only
// wallet-relevant fields are migrated; profile data stays behind.
type LegacyUser struct {
	UserID      string    `bson:"user_id"`
	Coins       float64   `bson:"coins"`
	TotalEarned float64   `bson:"total_earned"`
	CreatedAt   time.Time `bson:"created_at"`
}

// LegacyPet is a pet document from the original deployment.
type LegacyPet struct {
	PetID     string    `bson:"pet_id"`
	UserID    string    `bson:"user_id"`
	Name      string    `bson:"name"`
	Mood      string    `bson:"mood"`
	Level     float64   `bson:"level"`
	Exp       float64   `bson:"exp"`
	CreatedAt time.Time `bson:"created_at"`
}

// LegacyQuestState is a per-user quest document from the original deployment.
type LegacyQuestState struct {
	UserID      string     `bson:"user_id"`
	QuestID     string     `bson:"quest_id"`
	Progress    float64    `bson:"progress"`
	CompletedAt *time.Time `bson:"completed_at"`
	ClaimedAt   *time.Time `bson:"claimed_at"`
}

// TableStats tracks per-table migration counters.
type TableStats struct {
	Read     int64
	Inserted int64
	Skipped  int64
}

// MigrationStats aggregates counters across the run.
type MigrationStats struct {
	mu        sync.Mutex
	Tables    map[string]*TableStats
	StartTime time.Time
}

func newMigrationStats() *MigrationStats {
	return &MigrationStats{
		Tables:    make(map[string]*TableStats),
		StartTime: time.Now(),
	}
}

func (s *MigrationStats) table(name string) *TableStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	ts, ok := s.Tables[name]
	if !ok {
		ts = &TableStats{}
		s.Tables[name] = ts
	}
	return ts
}

func (s *MigrationStats) Duration() time.Duration {
	return time.Since(s.StartTime)
}
