package migration

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/monstergarden/monstergarden/engine/database/models"
	"github.com/monstergarden/monstergarden/engine/leveling"
)

func TestConvertUserClampsAndFloors(t *testing.T) {
	now := time.Now()

	w := convertUser(LegacyUser{UserID: "u1", Coins: 250.7, TotalEarned: 100}, now)
	require.EqualValues(t, 250, w.Balance)
	// Lifetime earnings can never be below the surviving balance.
	require.EqualValues(t, 250, w.TotalEarned)

	w = convertUser(LegacyUser{UserID: "u2", Coins: -40, TotalEarned: 500}, now)
	require.EqualValues(t, 0, w.Balance)
	require.EqualValues(t, 500, w.TotalEarned)
}

func TestConvertPetNormalizesProgression(t *testing.T) {
	calc := leveling.NewCalculator(leveling.NewDefaultConfig())
	now := time.Now()

	m := convertPet(LegacyPet{
		PetID:  "p1",
		UserID: "u1",
		Name:   "Fuzzle",
		Mood:   "scared",
		Level:  3,
		Exp:    9999,
	}, calc, now)
	require.Equal(t, models.StateAnxious, m.State)
	require.Equal(t, 3, m.Level)
	require.EqualValues(t, calc.MaxXP(3), m.MaxXP)
	// XP sits below the threshold so the first action can still level up.
	require.Less(t, m.XP, m.MaxXP)

	m = convertPet(LegacyPet{UserID: "u1", Mood: "confused", Level: 0}, calc, now)
	require.NotEmpty(t, m.ID)
	require.Equal(t, "Monster", m.Name)
	require.Equal(t, models.StateContent, m.State)
	require.Equal(t, 1, m.Level)
}

func TestConvertQuestStateClampsProgress(t *testing.T) {
	now := time.Now()
	completed := now.Add(-time.Hour)

	p := convertQuestState(LegacyQuestState{
		UserID:      "u1",
		QuestID:     "daily_feeder",
		Progress:    40,
		CompletedAt: &completed,
	}, 3, now)
	require.Equal(t, 3, p.Progress)
	require.Equal(t, &completed, p.CompletedAt)
	require.Nil(t, p.ClaimedAt)
}
