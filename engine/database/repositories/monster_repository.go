package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/monstergarden/monstergarden/engine/database/models"
	"github.com/uptrace/bun"
)

type MonsterRepository interface {
	Create(ctx context.Context, monster *models.Monster) error
	// GetOwned returns the monster only if it belongs to ownerID. A monster
	// owned by someone else reports NotFoundError rather than leaking
	// existence.
	GetOwned(ctx context.Context, ownerID, monsterID string) (*models.Monster, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*models.Monster, error)
	CountByOwner(ctx context.Context, ownerID string) (int, error)
	// UpdateProgression persists state, level, xp and max_xp after a care
	// action, but only if the row still holds the level and xp the caller
	// computed from. A snapshot the store has moved past matches nothing and
	// reports StaleWriteError so the caller can re-read and recompute.
	UpdateProgression(ctx context.Context, monster *models.Monster, prevLevel int, prevXP int64) error
}

type monsterRepository struct {
	db *bun.DB
}

func NewMonsterRepository(db *bun.DB) MonsterRepository {
	return &monsterRepository{db: db}
}

func (r *monsterRepository) Create(ctx context.Context, monster *models.Monster) error {
	monster.CreatedAt = time.Now()
	monster.UpdatedAt = time.Now()
	_, err := r.db.NewInsert().Model(monster).Exec(ctx)
	if err != nil {
		return &RepositoryError{Operation: "Create", Entity: "monster", Err: err}
	}
	return nil
}

func (r *monsterRepository) GetOwned(ctx context.Context, ownerID, monsterID string) (*models.Monster, error) {
	monster := new(models.Monster)
	err := r.db.NewSelect().
		Model(monster).
		Where("id = ? AND owner_id = ?", monsterID, ownerID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &NotFoundError{Entity: "monster", ID: monsterID}
		}
		return nil, &RepositoryError{Operation: "GetOwned", Entity: "monster", Err: err}
	}
	return monster, nil
}

func (r *monsterRepository) ListByOwner(ctx context.Context, ownerID string) ([]*models.Monster, error) {
	var monsters []*models.Monster
	err := r.db.NewSelect().
		Model(&monsters).
		Where("owner_id = ?", ownerID).
		Order("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, &RepositoryError{Operation: "ListByOwner", Entity: "monster", Err: err}
	}
	return monsters, nil
}

func (r *monsterRepository) CountByOwner(ctx context.Context, ownerID string) (int, error) {
	count, err := r.db.NewSelect().
		Model((*models.Monster)(nil)).
		Where("owner_id = ?", ownerID).
		Count(ctx)
	if err != nil {
		return 0, &RepositoryError{Operation: "CountByOwner", Entity: "monster", Err: err}
	}
	return count, nil
}

func (r *monsterRepository) UpdateProgression(ctx context.Context, monster *models.Monster, prevLevel int, prevXP int64) error {
	monster.UpdatedAt = time.Now()
	res, err := r.db.NewUpdate().
		Model(monster).
		Column("state", "level", "xp", "max_xp", "updated_at").
		WherePK().
		Where("level = ? AND xp = ?", prevLevel, prevXP).
		Exec(ctx)
	if err != nil {
		return &RepositoryError{Operation: "UpdateProgression", Entity: "monster", Err: err}
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		// Either the row moved past the snapshot or it is gone; the caller's
		// re-read distinguishes the two.
		return &StaleWriteError{Entity: "monster", ID: monster.ID}
	}
	return nil
}
