package http

import (
	"context"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/monstergarden/monstergarden/engine/events"
	"github.com/monstergarden/monstergarden/engine/services"
)

// Server is the HTTP surface of the progression engine. Authentication is
// delegated to an upstream proxy that injects identity headers; the server
// only maps them onto the request context.
type Server struct {
	app        *fiber.App
	walletSvc  *services.WalletService
	questSvc   *services.QuestService
	monsterSvc *services.MonsterService
	resetSvc   *services.DailyResetService
	bus        *events.Bus
}

func NewServer(
	walletSvc *services.WalletService,
	questSvc *services.QuestService,
	monsterSvc *services.MonsterService,
	resetSvc *services.DailyResetService,
	bus *events.Bus,
) *Server {
	s := &Server{
		walletSvc:  walletSvc,
		questSvc:   questSvc,
		monsterSvc: monsterSvc,
		resetSvc:   resetSvc,
		bus:        bus,
	}

	s.app = fiber.New(fiber.Config{
		AppName:      "MonsterGarden Engine",
		ServerHeader: "MonsterGarden",
		ErrorHandler: errorHandler,
	})
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.app.Use(recover.New())

	s.app.Get("/healthz", s.handleHealth)
	s.app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := s.app.Group("/api", SessionMiddleware())
	api.Get("/wallet", s.handleGetWallet)
	api.Get("/quests", s.handleListQuests)
	api.Post("/quests/:id/claim", s.handleClaimQuest)
	api.Get("/monsters", s.handleListMonsters)
	api.Post("/monsters", s.handleCreateMonster)
	api.Post("/monsters/:id/actions", s.handlePerformAction)
	api.Post("/unlocks/backgrounds", s.handleUnlockBackground)

	admin := api.Group("/admin", AdminRequired())
	admin.Post("/quests/reset-daily", s.handleResetDaily)
}

// App exposes the fiber app for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) Listen(address string) error {
	return s.app.Listen(address)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}
