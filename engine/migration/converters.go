package migration

import (
	"time"

	"github.com/google/uuid"

	"github.com/monstergarden/monstergarden/engine/database/models"
	"github.com/monstergarden/monstergarden/engine/leveling"
)

// legacyMoodState maps the original mood strings onto monster states. Unknown
// moods land on content.
var legacyMoodState = map[string]string{
	"happy":   models.StateContent,
	"content": models.StateContent,
	"hungry":  models.StateHungry,
	"lonely":  models.StateLonely,
	"sad":     models.StateSad,
	"anxious": models.StateAnxious,
	"scared":  models.StateAnxious,
	"sleepy":  models.StateSleepy,
	"tired":   models.StateSleepy,
}

func convertUser(legacy LegacyUser, now time.Time) *models.Wallet {
	createdAt := legacy.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}

	balance := int64(legacy.Coins)
	if balance < 0 {
		balance = 0
	}
	totalEarned := int64(legacy.TotalEarned)
	if totalEarned < balance {
		// The original tracked lifetime earnings loosely; the balance is a
		// floor on what was ever earned.
		totalEarned = balance
	}

	return &models.Wallet{
		OwnerID:     legacy.UserID,
		Balance:     balance,
		TotalEarned: totalEarned,
		CreatedAt:   createdAt,
		UpdatedAt:   now,
	}
}

func convertPet(legacy LegacyPet, calc *leveling.Calculator, now time.Time) *models.Monster {
	id := legacy.PetID
	if id == "" {
		id = uuid.NewString()
	}

	level := int(legacy.Level)
	if level < 1 {
		level = 1
	}

	maxXP := calc.MaxXP(level)
	xp := int64(legacy.Exp)
	if xp < 0 {
		xp = 0
	}
	if xp >= maxXP {
		xp = maxXP - 1
	}

	state, ok := legacyMoodState[legacy.Mood]
	if !ok {
		state = models.StateContent
	}

	name := legacy.Name
	if name == "" {
		name = "Monster"
	}

	createdAt := legacy.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}

	return &models.Monster{
		ID:        id,
		OwnerID:   legacy.UserID,
		Name:      name,
		State:     state,
		Level:     level,
		XP:        xp,
		MaxXP:     maxXP,
		CreatedAt: createdAt,
		UpdatedAt: now,
	}
}

// convertQuestState keeps only quest ids that still exist in the catalog; the
// caller filters. Progress rows keep their stamps so already-claimed rewards
// are not paid twice.
func convertQuestState(legacy LegacyQuestState, target int, now time.Time) *models.QuestProgress {
	progress := int(legacy.Progress)
	if progress < 0 {
		progress = 0
	}
	if progress > target {
		progress = target
	}

	return &models.QuestProgress{
		UserID:      legacy.UserID,
		QuestID:     legacy.QuestID,
		Progress:    progress,
		CompletedAt: legacy.CompletedAt,
		ClaimedAt:   legacy.ClaimedAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
