package catalog

// defaultDefinitions is the built-in quest catalog. Daily quests reset every
// night; achievements are permanent.
var defaultDefinitions = []QuestDefinition{
	// Daily quests
	{
		ID:          "daily_feeder",
		Name:        "Breakfast Time",
		Description: "Feed your monsters 3 times",
		Type:        QuestTypeDaily,
		Objective:   ObjectiveFeedMonsters,
		Target:      3,
		Reward:      15,
	},
	{
		ID:          "daily_playtime",
		Name:        "Playtime",
		Description: "Play with your monsters 3 times",
		Type:        QuestTypeDaily,
		Objective:   ObjectivePlayMonsters,
		Target:      3,
		Reward:      15,
	},
	{
		ID:          "daily_comforter",
		Name:        "There, There",
		Description: "Comfort a sad monster 2 times",
		Type:        QuestTypeDaily,
		Objective:   ObjectiveComfortMonsters,
		Target:      2,
		Reward:      10,
	},
	{
		ID:          "daily_zen",
		Name:        "Deep Breaths",
		Description: "Calm an anxious monster 2 times",
		Type:        QuestTypeDaily,
		Objective:   ObjectiveCalmMonsters,
		Target:      2,
		Reward:      10,
	},
	{
		ID:          "daily_sandman",
		Name:        "Sweet Dreams",
		Description: "Sing a lullaby 2 times",
		Type:        QuestTypeDaily,
		Objective:   ObjectiveLullabyMonsters,
		Target:      2,
		Reward:      10,
	},
	{
		ID:          "daily_caretaker",
		Name:        "Busy Caretaker",
		Description: "Perform 10 care actions",
		Type:        QuestTypeDaily,
		Objective:   ObjectiveTotalActions,
		Target:      10,
		Reward:      25,
	},
	{
		ID:          "daily_rounds",
		Name:        "Making the Rounds",
		Description: "Care for 3 different monsters",
		Type:        QuestTypeDaily,
		Objective:   ObjectiveCareDistinct,
		Target:      3,
		Reward:      20,
	},

	// Achievements
	{
		ID:          "achievement_first_monster",
		Name:        "A New Friend",
		Description: "Adopt your first monster",
		Type:        QuestTypeAchievement,
		Objective:   ObjectiveOwnMonsters,
		Target:      1,
		Reward:      50,
	},
	{
		ID:          "achievement_full_house",
		Name:        "Full House",
		Description: "Own 5 monsters at once",
		Type:        QuestTypeAchievement,
		Objective:   ObjectiveOwnMonsters,
		Target:      5,
		Reward:      200,
	},
	{
		ID:          "achievement_saver",
		Name:        "Piggy Bank",
		Description: "Earn 500 coins in total",
		Type:        QuestTypeAchievement,
		Objective:   ObjectiveReachCoins,
		Target:      500,
		Reward:      100,
	},
	{
		ID:          "achievement_tycoon",
		Name:        "Monster Tycoon",
		Description: "Earn 5000 coins in total",
		Type:        QuestTypeAchievement,
		Objective:   ObjectiveReachCoins,
		Target:      5000,
		Reward:      500,
	},
	{
		ID:          "achievement_decorator",
		Name:        "Home Decorator",
		Description: "Unlock 3 backgrounds",
		Type:        QuestTypeAchievement,
		Objective:   ObjectiveUnlockBackgrounds,
		Target:      3,
		Reward:      150,
	},
	{
		ID:          "achievement_trainer",
		Name:        "Rising Star",
		Description: "Raise a monster to level 5",
		Type:        QuestTypeAchievement,
		Objective:   ObjectiveLevelUpMonster,
		Target:      5,
		Reward:      250,
	},
	{
		ID:          "achievement_master_trainer",
		Name:        "Monster Master",
		Description: "Raise a monster to level 10",
		Type:        QuestTypeAchievement,
		Objective:   ObjectiveLevelUpMonster,
		Target:      10,
		Reward:      1000,
	},
	{
		ID:          "achievement_devoted",
		Name:        "Devoted Keeper",
		Description: "Perform 100 care actions",
		Type:        QuestTypeAchievement,
		Objective:   ObjectiveTotalActions,
		Target:      100,
		Reward:      300,
	},
}
