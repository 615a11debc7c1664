package engine

import (
	"context"

	"github.com/monstergarden/monstergarden/engine/catalog"
	"github.com/monstergarden/monstergarden/engine/database"
	"github.com/monstergarden/monstergarden/engine/database/repositories"
	"github.com/monstergarden/monstergarden/engine/events"
	"github.com/monstergarden/monstergarden/engine/leveling"
	"github.com/monstergarden/monstergarden/engine/services"
)

func New(cfg Config, version string, commit string) *Engine {
	return &Engine{
		Cfg:     cfg,
		Version: version,
		Commit:  commit,
	}
}

// Engine aggregates the progression services and their shared dependencies.
// SetupServices wires everything against an open database.
type Engine struct {
	Cfg     Config
	Version string
	Commit  string

	DB      *database.DB
	Catalog *catalog.Catalog
	Bus     *events.Bus

	WalletRepository        repositories.WalletRepository
	QuestProgressRepository repositories.QuestProgressRepository
	MonsterRepository       repositories.MonsterRepository

	WalletService  *services.WalletService
	QuestService   *services.QuestService
	MonsterService *services.MonsterService
	ResetService   *services.DailyResetService
}

// SetupServices opens the database, initializes the schema and wires the
// repositories, services and quest triggers.
func (e *Engine) SetupServices(ctx context.Context) error {
	db, err := database.New(ctx, e.Cfg.DB)
	if err != nil {
		return err
	}
	if err := db.InitializeSchema(ctx); err != nil {
		db.Close()
		return err
	}
	e.DB = db

	e.Catalog = catalog.NewDefault()
	e.Bus = events.NewBus()

	bunDB := db.BunDB()
	e.WalletRepository = repositories.NewWalletRepository(bunDB, e.Cfg.Game.StartingBalance)
	e.QuestProgressRepository = repositories.NewQuestProgressRepository(bunDB)
	e.MonsterRepository = repositories.NewMonsterRepository(bunDB)

	levelingCfg := leveling.NewDefaultConfig()
	levelingCfg.BaseXP = e.Cfg.Game.BaseXP
	levelingCfg.BaseCost = e.Cfg.Game.BaseCost
	levelingCfg.ActionCoinReward = e.Cfg.Game.ActionCoinReward
	levelingCfg.MatchedStateBonus = e.Cfg.Game.MatchedStateBonus
	levelingCfg.ActionXPReward = e.Cfg.Game.ActionXPReward
	levelingCfg.ActionCooldown = e.Cfg.Game.ActionCooldown
	levelingCfg.DailyActionLimit = e.Cfg.Game.DailyActionLimit
	levelingService := leveling.NewService(levelingCfg, e.MonsterRepository)

	e.WalletService = services.NewWalletService(e.WalletRepository, e.Bus)
	e.QuestService = services.NewQuestService(e.Catalog, e.QuestProgressRepository, e.WalletService)
	e.QuestService.RegisterTriggers(e.Bus)

	tracker := services.NewQuestTracker(e.QuestService)
	e.MonsterService = services.NewMonsterService(e.MonsterRepository, e.WalletService, levelingService, tracker, e.Bus)
	e.ResetService = services.NewDailyResetService(e.Catalog, e.QuestProgressRepository)

	return nil
}

// Close drains in-flight event deliveries and closes the database.
func (e *Engine) Close() {
	if e.Bus != nil {
		e.Bus.Wait()
	}
	if e.DB != nil {
		e.DB.Close()
	}
}
