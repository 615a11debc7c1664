package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/monstergarden/monstergarden/engine/catalog"
	"github.com/monstergarden/monstergarden/engine/database/repositories"
	"github.com/monstergarden/monstergarden/engine/events"
)

func newTestResetService(t *testing.T) (*DailyResetService, *QuestService, *fakeQuestProgressRepo) {
	t.Helper()
	questRepo := newFakeQuestProgressRepo()
	walletSvc := NewWalletService(newFakeWalletRepo(100), events.NewBus())
	cat := testCatalog(t)
	qs := NewQuestService(cat, questRepo, walletSvc)
	return NewDailyResetService(cat, questRepo), qs, questRepo
}

func TestResetDailyRoundTrip(t *testing.T) {
	rs, qs, questRepo := newTestResetService(t)
	ctx := context.Background()

	// Complete and claim a daily, then reset: the quest is earnable again.
	require.NoError(t, qs.IncrementProgress(ctx, "user-1", catalog.ObjectiveFeedMonsters, 3))
	_, err := qs.ClaimReward(ctx, "user-1", "test_feed")
	require.NoError(t, err)

	rows, err := rs.ResetAll(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, rows)

	row, err := questRepo.Get(ctx, "user-1", "test_feed")
	require.NoError(t, err)
	require.Equal(t, 0, row.Progress)
	require.False(t, row.Completed())
	require.False(t, row.Claimed())
	require.NotNil(t, row.LastResetAt)

	require.NoError(t, qs.IncrementProgress(ctx, "user-1", catalog.ObjectiveFeedMonsters, 3))
	result, err := qs.ClaimReward(ctx, "user-1", "test_feed")
	require.NoError(t, err)
	require.EqualValues(t, 15, result.Reward)
}

func TestResetDailyLeavesAchievementsAlone(t *testing.T) {
	rs, qs, questRepo := newTestResetService(t)
	ctx := context.Background()

	require.NoError(t, qs.ObserveAbsolute(ctx, "user-1", catalog.ObjectiveLevelUpMonster, 9))

	_, err := rs.ResetAll(ctx)
	require.NoError(t, err)

	row, err := questRepo.Get(ctx, "user-1", "test_level")
	require.NoError(t, err)
	require.Equal(t, 9, row.Progress)
	require.True(t, row.Completed())
}

func TestResetUserIsScoped(t *testing.T) {
	rs, qs, questRepo := newTestResetService(t)
	ctx := context.Background()

	require.NoError(t, qs.IncrementProgress(ctx, "user-1", catalog.ObjectiveFeedMonsters, 2))
	require.NoError(t, qs.IncrementProgress(ctx, "user-2", catalog.ObjectiveFeedMonsters, 2))

	rows, err := rs.ResetUser(ctx, "user-1")
	require.NoError(t, err)
	require.EqualValues(t, 1, rows)

	row, err := questRepo.Get(ctx, "user-1", "test_feed")
	require.NoError(t, err)
	require.Equal(t, 0, row.Progress)

	row, err = questRepo.Get(ctx, "user-2", "test_feed")
	require.NoError(t, err)
	require.Equal(t, 2, row.Progress)
}

func TestResetUserRequiresUserID(t *testing.T) {
	rs, _, _ := newTestResetService(t)

	var ire *repositories.InvalidRangeError
	_, err := rs.ResetUser(context.Background(), "")
	require.ErrorAs(t, err, &ire)
}

func TestNextMidnight(t *testing.T) {
	now := time.Date(2026, time.March, 14, 15, 9, 26, 0, time.UTC)
	next := nextMidnight(now)
	require.Equal(t, time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC), next)
	require.True(t, next.After(now))
}
