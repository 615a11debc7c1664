package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/monstergarden/monstergarden/engine/catalog"
	"github.com/monstergarden/monstergarden/engine/database/repositories"
	"github.com/monstergarden/monstergarden/engine/metrics"
)

// DailyResetService zeroes daily quest progress. Rows are reset in place
// rather than deleted: progress and both stamps are cleared and last_reset_at
// recorded, so the (user, quest) row identity survives the reset.
type DailyResetService struct {
	catalog      *catalog.Catalog
	progressRepo repositories.QuestProgressRepository
}

func NewDailyResetService(cat *catalog.Catalog, progressRepo repositories.QuestProgressRepository) *DailyResetService {
	return &DailyResetService{
		catalog:      cat,
		progressRepo: progressRepo,
	}
}

// ResetAll resets daily quest progress for every user in one batched
// statement. Achievements are never touched.
func (rs *DailyResetService) ResetAll(ctx context.Context) (int64, error) {
	return rs.reset(ctx, "")
}

// ResetUser resets daily quest progress for a single user.
func (rs *DailyResetService) ResetUser(ctx context.Context, userID string) (int64, error) {
	if userID == "" {
		return 0, &repositories.InvalidRangeError{Field: "user_id", Value: userID}
	}
	return rs.reset(ctx, userID)
}

func (rs *DailyResetService) reset(ctx context.Context, userID string) (int64, error) {
	questIDs := rs.catalog.IDsByType(catalog.QuestTypeDaily)
	if len(questIDs) == 0 {
		return 0, nil
	}

	rows, err := rs.progressRepo.ResetDaily(ctx, userID, questIDs)
	if err != nil {
		return 0, fmt.Errorf("failed to reset daily quests: %w", err)
	}

	metrics.DailyResets.Add(float64(rows))
	slog.Info("Daily quests reset",
		slog.String("user_id", userID),
		slog.Int64("rows", rows))
	return rows, nil
}

// Start runs the reset scheduler until ctx is cancelled, firing at the next
// local midnight and every 24 hours after.
func (rs *DailyResetService) Start(ctx context.Context) {
	go func() {
		for {
			wait := time.Until(nextMidnight(time.Now()))
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}

			runCtx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			if _, err := rs.ResetAll(runCtx); err != nil {
				slog.Error("Scheduled daily reset failed",
					slog.String("type", "error"),
					slog.Any("error", err))
			}
			cancel()
		}
	}()
}

func nextMidnight(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, now.Location())
}
