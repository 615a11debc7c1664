package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/monstergarden/monstergarden/engine/database/models"
	"github.com/uptrace/bun"
)

type QuestProgressRepository interface {
	// GetOrCreate returns the progress row for (userID, questID), inserting a
	// zeroed one if absent. Concurrent first access from the same user must not
	// produce duplicate rows; a duplicate insert is treated as "someone else
	// created it" and the row is re-read.
	GetOrCreate(ctx context.Context, userID, questID string) (*models.QuestProgress, error)
	Get(ctx context.Context, userID, questID string) (*models.QuestProgress, error)
	ListByUser(ctx context.Context, userID string) ([]*models.QuestProgress, error)

	// AddProgress applies the incremental policy: progress = min(progress +
	// delta, target), a no-op once completed. Completion is stamped
	// idempotently; the first timestamp wins.
	AddProgress(ctx context.Context, userID, questID string, delta, target int) (*models.QuestProgress, error)
	// RaiseProgress applies the absolute policy: progress = max(progress,
	// observed). Duplicate or out-of-order delivery can never regress the row.
	RaiseProgress(ctx context.Context, userID, questID string, observed, target int) (*models.QuestProgress, error)
	// AddDistinctMember folds member into the quest's distinct set and recounts
	// progress, all in one statement. Concurrent calls for different members
	// both land; repeating a member is a no-op, as is any call after
	// completion. Completion is stamped idempotently afterwards.
	AddDistinctMember(ctx context.Context, userID, questID, member string, target int) (*models.QuestProgress, error)

	// MarkClaimed sets claimed_at exactly once. It fails with NotCompletedError
	// before completion and AlreadyClaimedError on a second claim; under two
	// concurrent claims exactly one call succeeds.
	MarkClaimed(ctx context.Context, userID, questID string) (*models.QuestProgress, error)
	// UnmarkClaimed reverts a claim whose reward credit failed.
	UnmarkClaimed(ctx context.Context, userID, questID string) error

	// ResetDaily zeroes progress and clears completion/claim stamps for the
	// given quest ids in one batched statement. An empty userID targets every
	// user. Returns the number of rows reset.
	ResetDaily(ctx context.Context, userID string, questIDs []string) (int64, error)
}

type questProgressRepository struct {
	db *bun.DB
}

func NewQuestProgressRepository(db *bun.DB) QuestProgressRepository {
	return &questProgressRepository{db: db}
}

func (r *questProgressRepository) GetOrCreate(ctx context.Context, userID, questID string) (*models.QuestProgress, error) {
	progress, err := r.Get(ctx, userID, questID)
	if err == nil {
		return progress, nil
	}
	var nfe *NotFoundError
	if !errors.As(err, &nfe) {
		return nil, err
	}

	if err := r.ensure(ctx, userID, questID); err != nil {
		return nil, err
	}
	return r.Get(ctx, userID, questID)
}

func (r *questProgressRepository) ensure(ctx context.Context, userID, questID string) error {
	now := time.Now()
	progress := &models.QuestProgress{
		UserID:    userID,
		QuestID:   questID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	_, err := r.db.NewInsert().
		Model(progress).
		On("CONFLICT (user_id, quest_id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return &RepositoryError{Operation: "ensure", Entity: "quest_progress", Err: err}
	}
	return nil
}

func (r *questProgressRepository) Get(ctx context.Context, userID, questID string) (*models.QuestProgress, error) {
	progress := new(models.QuestProgress)
	err := r.db.NewSelect().
		Model(progress).
		Where("user_id = ? AND quest_id = ?", userID, questID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &NotFoundError{Entity: "quest_progress", ID: userID + "/" + questID}
		}
		return nil, &RepositoryError{Operation: "Get", Entity: "quest_progress", Err: err}
	}
	return progress, nil
}

func (r *questProgressRepository) ListByUser(ctx context.Context, userID string) ([]*models.QuestProgress, error) {
	var progress []*models.QuestProgress
	err := r.db.NewSelect().
		Model(&progress).
		Where("user_id = ?", userID).
		Order("quest_id ASC").
		Scan(ctx)
	if err != nil {
		return nil, &RepositoryError{Operation: "ListByUser", Entity: "quest_progress", Err: err}
	}
	return progress, nil
}

func (r *questProgressRepository) AddProgress(ctx context.Context, userID, questID string, delta, target int) (*models.QuestProgress, error) {
	if delta < 0 {
		return nil, &InvalidRangeError{Field: "delta", Value: delta}
	}
	if err := r.ensure(ctx, userID, questID); err != nil {
		return nil, err
	}

	// The completed_at guard makes increments after completion no-ops.
	_, err := r.db.NewUpdate().
		Model((*models.QuestProgress)(nil)).
		Set("progress = LEAST(progress + ?, ?)", delta, target).
		Set("updated_at = ?", time.Now()).
		Where("user_id = ? AND quest_id = ?", userID, questID).
		Where("completed_at IS NULL").
		Exec(ctx)
	if err != nil {
		return nil, &RepositoryError{Operation: "AddProgress", Entity: "quest_progress", Err: err}
	}

	if err := r.stampCompleted(ctx, userID, questID, target); err != nil {
		return nil, err
	}
	return r.Get(ctx, userID, questID)
}

func (r *questProgressRepository) RaiseProgress(ctx context.Context, userID, questID string, observed, target int) (*models.QuestProgress, error) {
	if observed < 0 {
		return nil, &InvalidRangeError{Field: "observed", Value: observed}
	}
	if err := r.ensure(ctx, userID, questID); err != nil {
		return nil, err
	}

	_, err := r.db.NewUpdate().
		Model((*models.QuestProgress)(nil)).
		Set("progress = GREATEST(progress, ?)", observed).
		Set("updated_at = ?", time.Now()).
		Where("user_id = ? AND quest_id = ?", userID, questID).
		Exec(ctx)
	if err != nil {
		return nil, &RepositoryError{Operation: "RaiseProgress", Entity: "quest_progress", Err: err}
	}

	if err := r.stampCompleted(ctx, userID, questID, target); err != nil {
		return nil, err
	}
	return r.Get(ctx, userID, questID)
}

func (r *questProgressRepository) AddDistinctMember(ctx context.Context, userID, questID, member string, target int) (*models.QuestProgress, error) {
	if err := r.ensure(ctx, userID, questID); err != nil {
		return nil, err
	}

	// The set union and the recount both run against the row's current
	// metadata inside one UPDATE, so two trackers racing on different members
	// cannot overwrite each other's entries.
	_, err := r.db.NewUpdate().
		Model((*models.QuestProgress)(nil)).
		Set("metadata = jsonb_set(COALESCE(metadata, '{}'::jsonb), ARRAY['members', ?::text], 'true'::jsonb, true)", member).
		Set("progress = LEAST((SELECT count(*)::int FROM jsonb_object_keys(jsonb_set(COALESCE(metadata, '{}'::jsonb), ARRAY['members', ?::text], 'true'::jsonb, true) -> 'members') AS k), ?)", member, target).
		Set("updated_at = ?", time.Now()).
		Where("user_id = ? AND quest_id = ?", userID, questID).
		Where("completed_at IS NULL").
		Exec(ctx)
	if err != nil {
		return nil, &RepositoryError{Operation: "AddDistinctMember", Entity: "quest_progress", Err: err}
	}

	if err := r.stampCompleted(ctx, userID, questID, target); err != nil {
		return nil, err
	}
	return r.Get(ctx, userID, questID)
}

// stampCompleted sets completed_at the first time progress reaches the target.
// An already-set timestamp is never overwritten.
func (r *questProgressRepository) stampCompleted(ctx context.Context, userID, questID string, target int) error {
	_, err := r.db.NewUpdate().
		Model((*models.QuestProgress)(nil)).
		Set("completed_at = ?", time.Now()).
		Where("user_id = ? AND quest_id = ?", userID, questID).
		Where("completed_at IS NULL").
		Where("progress >= ?", target).
		Exec(ctx)
	if err != nil {
		return &RepositoryError{Operation: "stampCompleted", Entity: "quest_progress", Err: err}
	}
	return nil
}

func (r *questProgressRepository) MarkClaimed(ctx context.Context, userID, questID string) (*models.QuestProgress, error) {
	progress := new(models.QuestProgress)
	res, err := r.db.NewUpdate().
		Model(progress).
		Set("claimed_at = ?", time.Now()).
		Set("updated_at = ?", time.Now()).
		Where("user_id = ? AND quest_id = ?", userID, questID).
		Where("completed_at IS NOT NULL").
		Where("claimed_at IS NULL").
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, &RepositoryError{Operation: "MarkClaimed", Entity: "quest_progress", Err: err}
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, &RepositoryError{Operation: "MarkClaimed", Entity: "quest_progress", Err: err}
	}
	if affected > 0 {
		return progress, nil
	}

	// The guarded update matched nothing; re-read to report why.
	current, err := r.Get(ctx, userID, questID)
	if err != nil {
		return nil, err
	}
	if current.Claimed() {
		return nil, &AlreadyClaimedError{UserID: userID, QuestID: questID}
	}
	return nil, &NotCompletedError{UserID: userID, QuestID: questID}
}

func (r *questProgressRepository) UnmarkClaimed(ctx context.Context, userID, questID string) error {
	_, err := r.db.NewUpdate().
		Model((*models.QuestProgress)(nil)).
		Set("claimed_at = NULL").
		Set("updated_at = ?", time.Now()).
		Where("user_id = ? AND quest_id = ?", userID, questID).
		Where("claimed_at IS NOT NULL").
		Exec(ctx)
	if err != nil {
		return &RepositoryError{Operation: "UnmarkClaimed", Entity: "quest_progress", Err: err}
	}
	return nil
}

func (r *questProgressRepository) ResetDaily(ctx context.Context, userID string, questIDs []string) (int64, error) {
	if len(questIDs) == 0 {
		return 0, nil
	}

	q := r.db.NewUpdate().
		Model((*models.QuestProgress)(nil)).
		Set("progress = 0").
		Set("metadata = NULL").
		Set("completed_at = NULL").
		Set("claimed_at = NULL").
		Set("last_reset_at = ?", time.Now()).
		Set("updated_at = ?", time.Now()).
		Where("quest_id IN (?)", bun.In(questIDs))
	if userID != "" {
		q = q.Where("user_id = ?", userID)
	}

	res, err := q.Exec(ctx)
	if err != nil {
		return 0, &RepositoryError{Operation: "ResetDaily", Entity: "quest_progress", Err: err}
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, &RepositoryError{Operation: "ResetDaily", Entity: "quest_progress", Err: err}
	}
	return affected, nil
}
