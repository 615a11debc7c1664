package catalog

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultCatalogIsValid(t *testing.T) {
	require.NotPanics(t, func() { NewDefault() })

	cat := NewDefault()
	require.NotEmpty(t, cat.List())
	require.NotEmpty(t, cat.IDsByType(QuestTypeDaily))
	require.NotEmpty(t, cat.IDsByType(QuestTypeAchievement))

	for _, def := range cat.List() {
		require.NotEmpty(t, def.ID)
		require.NotEmpty(t, def.Name)
		require.Positive(t, def.Target, "quest %s", def.ID)
		require.Positive(t, def.Reward, "quest %s", def.ID)
	}
}

func TestNewRejectsInvalidDefinitions(t *testing.T) {
	valid := QuestDefinition{
		ID:        "q1",
		Name:      "Quest",
		Type:      QuestTypeDaily,
		Objective: ObjectiveFeedMonsters,
		Target:    3,
		Reward:    10,
	}

	tests := []struct {
		name   string
		mutate func(d QuestDefinition) QuestDefinition
	}{
		{"empty id", func(d QuestDefinition) QuestDefinition { d.ID = ""; return d }},
		{"zero target", func(d QuestDefinition) QuestDefinition { d.Target = 0; return d }},
		{"zero reward", func(d QuestDefinition) QuestDefinition { d.Reward = 0; return d }},
		{"unknown type", func(d QuestDefinition) QuestDefinition { d.Type = "weekly"; return d }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New([]QuestDefinition{tt.mutate(valid)})
			require.Error(t, err)
		})
	}

	t.Run("duplicate id", func(t *testing.T) {
		_, err := New([]QuestDefinition{valid, valid})
		require.Error(t, err)
	})
}

func TestLookups(t *testing.T) {
	cat := NewDefault()

	def, ok := cat.Get("daily_feeder")
	require.True(t, ok)
	require.Equal(t, ObjectiveFeedMonsters, def.Objective)

	_, ok = cat.Get("no_such_quest")
	require.False(t, ok)

	for _, def := range cat.ByObjective(ObjectiveTotalActions) {
		require.Equal(t, ObjectiveTotalActions, def.Objective)
	}
	require.NotEmpty(t, cat.ByObjective(ObjectiveTotalActions))
}

func TestSearchMatchesNames(t *testing.T) {
	cat := NewDefault()

	results := cat.Search("Breakfast")
	require.NotEmpty(t, results)
	require.Equal(t, "daily_feeder", results[0].ID)

	require.Empty(t, cat.Search("zzzzzz"))
}
