package catalog

import (
	"fmt"

	"github.com/sahilm/fuzzy"
)

// Quest type constants
const (
	QuestTypeDaily       = "daily"
	QuestTypeAchievement = "achievement"
)

// Objective constants. Incremental objectives count discrete user actions;
// absolute objectives mirror a value observed on another entity.
const (
	ObjectiveFeedMonsters      = "feed_monsters"
	ObjectivePlayMonsters      = "play_monsters"
	ObjectiveComfortMonsters   = "comfort_monsters"
	ObjectiveCalmMonsters      = "calm_monsters"
	ObjectiveLullabyMonsters   = "lullaby_monsters"
	ObjectiveTotalActions      = "total_actions"
	ObjectiveCareDistinct      = "care_distinct_monsters"
	ObjectiveUnlockBackgrounds = "unlock_backgrounds"
	ObjectiveOwnMonsters       = "own_monsters"
	ObjectiveReachCoins        = "reach_coins"
	ObjectiveLevelUpMonster    = "level_up_monster"
)

// QuestDefinition describes one entry of the static quest catalog. The engine
// reads definitions but never writes them.
type QuestDefinition struct {
	ID          string
	Name        string
	Description string
	Type        string
	Objective   string
	Target      int
	Reward      int64
}

// Catalog is the immutable quest definition set, indexed by id and objective.
type Catalog struct {
	defs        []QuestDefinition
	byID        map[string]QuestDefinition
	byObjective map[string][]QuestDefinition
	byType      map[string][]QuestDefinition
	names       []string
}

// New builds a catalog from the given definitions, validating basic shape.
func New(defs []QuestDefinition) (*Catalog, error) {
	c := &Catalog{
		defs:        make([]QuestDefinition, 0, len(defs)),
		byID:        make(map[string]QuestDefinition, len(defs)),
		byObjective: make(map[string][]QuestDefinition),
		byType:      make(map[string][]QuestDefinition),
	}

	for _, def := range defs {
		if def.ID == "" {
			return nil, fmt.Errorf("quest definition with empty id")
		}
		if _, exists := c.byID[def.ID]; exists {
			return nil, fmt.Errorf("duplicate quest definition: %s", def.ID)
		}
		if def.Target <= 0 {
			return nil, fmt.Errorf("quest %s: target must be positive, got %d", def.ID, def.Target)
		}
		if def.Reward <= 0 {
			return nil, fmt.Errorf("quest %s: reward must be positive, got %d", def.ID, def.Reward)
		}
		if def.Type != QuestTypeDaily && def.Type != QuestTypeAchievement {
			return nil, fmt.Errorf("quest %s: unknown type %q", def.ID, def.Type)
		}

		c.defs = append(c.defs, def)
		c.byID[def.ID] = def
		c.byObjective[def.Objective] = append(c.byObjective[def.Objective], def)
		c.byType[def.Type] = append(c.byType[def.Type], def)
		c.names = append(c.names, def.Name)
	}

	return c, nil
}

// NewDefault builds the catalog from the built-in definition set.
func NewDefault() *Catalog {
	c, err := New(defaultDefinitions)
	if err != nil {
		// The built-in set is validated by tests; a failure here is a
		// programming error in data.go.
		panic(err)
	}
	return c
}

// List returns all quest definitions.
func (c *Catalog) List() []QuestDefinition {
	out := make([]QuestDefinition, len(c.defs))
	copy(out, c.defs)
	return out
}

// Get returns the definition for the given quest id.
func (c *Catalog) Get(questID string) (QuestDefinition, bool) {
	def, ok := c.byID[questID]
	return def, ok
}

// ByObjective returns all definitions tracking the given objective.
func (c *Catalog) ByObjective(objective string) []QuestDefinition {
	return c.byObjective[objective]
}

// ByType returns all definitions of the given quest type.
func (c *Catalog) ByType(questType string) []QuestDefinition {
	return c.byType[questType]
}

// IDsByType returns the quest ids of the given type, in catalog order.
func (c *Catalog) IDsByType(questType string) []string {
	defs := c.byType[questType]
	ids := make([]string, 0, len(defs))
	for _, def := range defs {
		ids = append(ids, def.ID)
	}
	return ids
}

// Search fuzzy-matches quest names and returns matching definitions ranked by
// score. Used by the ops surface, not by the progression paths.
func (c *Catalog) Search(query string) []QuestDefinition {
	matches := fuzzy.Find(query, c.names)
	out := make([]QuestDefinition, 0, len(matches))
	for _, m := range matches {
		out = append(out, c.defs[m.Index])
	}
	return out
}
