package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/monstergarden/monstergarden/engine/auth"
	"github.com/monstergarden/monstergarden/engine/database/models"
	"github.com/monstergarden/monstergarden/engine/events"
)

type walletResponse struct {
	OwnerID     string `json:"owner_id"`
	Balance     int64  `json:"balance"`
	TotalEarned int64  `json:"total_earned"`
}

type monsterResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	State     string    `json:"state"`
	Level     int       `json:"level"`
	XP        int64     `json:"xp"`
	MaxXP     int64     `json:"max_xp"`
	CreatedAt time.Time `json:"created_at"`
}

type actionResponse struct {
	Action      string `json:"action"`
	CoinsEarned int64  `json:"coins_earned"`
	Matched     bool   `json:"matched"`
	XPGained    int64  `json:"xp_gained"`
	LeveledUp   bool   `json:"leveled_up"`
	Level       int    `json:"level"`
	XP          int64  `json:"xp"`
	MaxXP       int64  `json:"max_xp"`
}

type createMonsterRequest struct {
	Name  string `json:"name"`
	State string `json:"state"`
}

type performActionRequest struct {
	Action string `json:"action"`
}

type resetDailyRequest struct {
	UserID string `json:"user_id"`
}

func newMonsterResponse(m *models.Monster) monsterResponse {
	return monsterResponse{
		ID:        m.ID,
		Name:      m.Name,
		State:     m.State,
		Level:     m.Level,
		XP:        m.XP,
		MaxXP:     m.MaxXP,
		CreatedAt: m.CreatedAt,
	}
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (s *Server) handleGetWallet(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID, err := auth.RequireUserID(ctx)
	if err != nil {
		return err
	}

	wallet, err := s.walletSvc.GetWallet(ctx, userID)
	if err != nil {
		return err
	}
	return c.JSON(walletResponse{
		OwnerID:     wallet.OwnerID,
		Balance:     wallet.Balance,
		TotalEarned: wallet.TotalEarned,
	})
}

func (s *Server) handleListQuests(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID, err := auth.RequireUserID(ctx)
	if err != nil {
		return err
	}

	board, err := s.questSvc.ListQuests(ctx, userID)
	if err != nil {
		return err
	}
	return c.JSON(board)
}

func (s *Server) handleClaimQuest(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID, err := auth.RequireUserID(ctx)
	if err != nil {
		return err
	}

	result, err := s.questSvc.ClaimReward(ctx, userID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(result)
}

func (s *Server) handleListMonsters(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID, err := auth.RequireUserID(ctx)
	if err != nil {
		return err
	}

	monsters, err := s.monsterSvc.ListMonsters(ctx, userID)
	if err != nil {
		return err
	}

	resp := make([]monsterResponse, 0, len(monsters))
	for _, m := range monsters {
		resp = append(resp, newMonsterResponse(m))
	}
	return c.JSON(resp)
}

func (s *Server) handleCreateMonster(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID, err := auth.RequireUserID(ctx)
	if err != nil {
		return err
	}

	var req createMonsterRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	monster, err := s.monsterSvc.CreateMonster(ctx, userID, req.Name, req.State)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(newMonsterResponse(monster))
}

func (s *Server) handlePerformAction(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID, err := auth.RequireUserID(ctx)
	if err != nil {
		return err
	}

	var req performActionRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Action == "" {
		return fiber.NewError(fiber.StatusBadRequest, "action is required")
	}

	result, err := s.monsterSvc.PerformAction(ctx, userID, c.Params("id"), req.Action)
	if err != nil {
		return err
	}
	return c.JSON(actionResponse{
		Action:      req.Action,
		CoinsEarned: result.CoinsEarned,
		Matched:     result.Matched,
		XPGained:    result.XPGained,
		LeveledUp:   result.LeveledUp,
		Level:       result.NewLevel,
		XP:          result.NewXP,
		MaxXP:       result.NewMaxXP,
	})
}

// handleUnlockBackground records a background unlock coming from the visual
// system. The unlock itself lives elsewhere; here it only feeds the quest
// objectives that count unlocks.
func (s *Server) handleUnlockBackground(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID, err := auth.RequireUserID(ctx)
	if err != nil {
		return err
	}

	s.bus.Publish(events.BackgroundUnlocked{UserID: userID})
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"status": "accepted"})
}

func (s *Server) handleResetDaily(c *fiber.Ctx) error {
	var req resetDailyRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
	}

	ctx := c.UserContext()
	var rows int64
	var err error
	if req.UserID != "" {
		rows, err = s.resetSvc.ResetUser(ctx, req.UserID)
	} else {
		rows, err = s.resetSvc.ResetAll(ctx)
	}
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"rows_reset": rows})
}
