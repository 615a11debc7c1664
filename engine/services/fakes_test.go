package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/monstergarden/monstergarden/engine/database/models"
	"github.com/monstergarden/monstergarden/engine/database/repositories"
)

// In-memory repository fakes mirroring the SQL guard semantics: conditional
// debit, clamp/monotone progress updates and the exactly-once claim stamp.

type fakeWalletRepo struct {
	mu            sync.Mutex
	startingGrant int64
	wallets       map[string]*models.Wallet
	failCredit    error
}

func newFakeWalletRepo(startingGrant int64) *fakeWalletRepo {
	return &fakeWalletRepo{
		startingGrant: startingGrant,
		wallets:       make(map[string]*models.Wallet),
	}
}

func (r *fakeWalletRepo) get(ownerID string) *models.Wallet {
	w, ok := r.wallets[ownerID]
	if !ok {
		now := time.Now()
		w = &models.Wallet{
			OwnerID:     ownerID,
			Balance:     r.startingGrant,
			TotalEarned: r.startingGrant,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		r.wallets[ownerID] = w
	}
	return w
}

func (r *fakeWalletRepo) snapshot(w *models.Wallet) *models.Wallet {
	copied := *w
	return &copied
}

func (r *fakeWalletRepo) GetOrCreate(_ context.Context, ownerID string) (*models.Wallet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshot(r.get(ownerID)), nil
}

func (r *fakeWalletRepo) Credit(_ context.Context, ownerID string, amount int64) (*models.Wallet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failCredit != nil {
		return nil, r.failCredit
	}
	w := r.get(ownerID)
	w.Balance += amount
	w.TotalEarned += amount
	w.UpdatedAt = time.Now()
	return r.snapshot(w), nil
}

func (r *fakeWalletRepo) Debit(_ context.Context, ownerID string, amount int64) (*models.Wallet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w := r.get(ownerID)
	if w.Balance < amount {
		return nil, &repositories.InsufficientFundsError{
			OwnerID:   ownerID,
			Balance:   w.Balance,
			Requested: amount,
		}
	}
	w.Balance -= amount
	w.UpdatedAt = time.Now()
	return r.snapshot(w), nil
}

func (r *fakeWalletRepo) Delete(_ context.Context, ownerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.wallets, ownerID)
	return nil
}

type fakeQuestProgressRepo struct {
	mu   sync.Mutex
	rows map[string]*models.QuestProgress
}

func newFakeQuestProgressRepo() *fakeQuestProgressRepo {
	return &fakeQuestProgressRepo{rows: make(map[string]*models.QuestProgress)}
}

func questKey(userID, questID string) string {
	return userID + "/" + questID
}

func (r *fakeQuestProgressRepo) ensure(userID, questID string) *models.QuestProgress {
	key := questKey(userID, questID)
	row, ok := r.rows[key]
	if !ok {
		now := time.Now()
		row = &models.QuestProgress{
			UserID:    userID,
			QuestID:   questID,
			CreatedAt: now,
			UpdatedAt: now,
		}
		r.rows[key] = row
	}
	return row
}

func (r *fakeQuestProgressRepo) snapshot(row *models.QuestProgress) *models.QuestProgress {
	copied := *row
	if row.Metadata != nil {
		copied.Metadata = make(map[string]interface{}, len(row.Metadata))
		for k, v := range row.Metadata {
			copied.Metadata[k] = v
		}
	}
	return &copied
}

func (r *fakeQuestProgressRepo) stamp(row *models.QuestProgress, target int) {
	if row.CompletedAt == nil && row.Progress >= target {
		now := time.Now()
		row.CompletedAt = &now
	}
}

func (r *fakeQuestProgressRepo) GetOrCreate(_ context.Context, userID, questID string) (*models.QuestProgress, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshot(r.ensure(userID, questID)), nil
}

func (r *fakeQuestProgressRepo) Get(_ context.Context, userID, questID string) (*models.QuestProgress, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[questKey(userID, questID)]
	if !ok {
		return nil, &repositories.NotFoundError{Entity: "quest_progress", ID: questKey(userID, questID)}
	}
	return r.snapshot(row), nil
}

func (r *fakeQuestProgressRepo) ListByUser(_ context.Context, userID string) ([]*models.QuestProgress, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.QuestProgress
	for _, row := range r.rows {
		if row.UserID == userID {
			out = append(out, r.snapshot(row))
		}
	}
	return out, nil
}

func (r *fakeQuestProgressRepo) AddProgress(_ context.Context, userID, questID string, delta, target int) (*models.QuestProgress, error) {
	if delta < 0 {
		return nil, &repositories.InvalidRangeError{Field: "delta", Value: delta}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	row := r.ensure(userID, questID)
	if row.CompletedAt == nil {
		row.Progress += delta
		if row.Progress > target {
			row.Progress = target
		}
		row.UpdatedAt = time.Now()
	}
	r.stamp(row, target)
	return r.snapshot(row), nil
}

func (r *fakeQuestProgressRepo) RaiseProgress(_ context.Context, userID, questID string, observed, target int) (*models.QuestProgress, error) {
	if observed < 0 {
		return nil, &repositories.InvalidRangeError{Field: "observed", Value: observed}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	row := r.ensure(userID, questID)
	if observed > row.Progress {
		row.Progress = observed
		row.UpdatedAt = time.Now()
	}
	r.stamp(row, target)
	return r.snapshot(row), nil
}

func (r *fakeQuestProgressRepo) AddDistinctMember(_ context.Context, userID, questID, member string, target int) (*models.QuestProgress, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row := r.ensure(userID, questID)
	if row.CompletedAt == nil {
		if row.Metadata == nil {
			row.Metadata = make(map[string]interface{})
		}
		members, _ := row.Metadata["members"].(map[string]interface{})
		if members == nil {
			members = make(map[string]interface{})
			row.Metadata["members"] = members
		}
		members[member] = true
		row.Progress = len(members)
		if row.Progress > target {
			row.Progress = target
		}
		row.UpdatedAt = time.Now()
	}
	r.stamp(row, target)
	return r.snapshot(row), nil
}

func (r *fakeQuestProgressRepo) MarkClaimed(_ context.Context, userID, questID string) (*models.QuestProgress, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[questKey(userID, questID)]
	if !ok {
		return nil, &repositories.NotFoundError{Entity: "quest_progress", ID: questKey(userID, questID)}
	}
	if row.CompletedAt == nil {
		return nil, &repositories.NotCompletedError{UserID: userID, QuestID: questID}
	}
	if row.ClaimedAt != nil {
		return nil, &repositories.AlreadyClaimedError{UserID: userID, QuestID: questID}
	}
	now := time.Now()
	row.ClaimedAt = &now
	return r.snapshot(row), nil
}

func (r *fakeQuestProgressRepo) UnmarkClaimed(_ context.Context, userID, questID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if row, ok := r.rows[questKey(userID, questID)]; ok {
		row.ClaimedAt = nil
	}
	return nil
}

func (r *fakeQuestProgressRepo) ResetDaily(_ context.Context, userID string, questIDs []string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	daily := make(map[string]bool, len(questIDs))
	for _, id := range questIDs {
		daily[id] = true
	}
	var count int64
	now := time.Now()
	for _, row := range r.rows {
		if !daily[row.QuestID] {
			continue
		}
		if userID != "" && row.UserID != userID {
			continue
		}
		row.Progress = 0
		row.Metadata = nil
		row.CompletedAt = nil
		row.ClaimedAt = nil
		row.LastResetAt = &now
		row.UpdatedAt = now
		count++
	}
	return count, nil
}

type fakeMonsterRepo struct {
	mu       sync.Mutex
	monsters map[string]*models.Monster
	failNext error
}

func newFakeMonsterRepo() *fakeMonsterRepo {
	return &fakeMonsterRepo{monsters: make(map[string]*models.Monster)}
}

func (r *fakeMonsterRepo) Create(_ context.Context, monster *models.Monster) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failNext != nil {
		err := r.failNext
		r.failNext = nil
		return err
	}
	if _, ok := r.monsters[monster.ID]; ok {
		return &repositories.ConflictError{Entity: "monster", Field: "id", Value: monster.ID}
	}
	copied := *monster
	r.monsters[monster.ID] = &copied
	return nil
}

func (r *fakeMonsterRepo) GetOwned(_ context.Context, ownerID, monsterID string) (*models.Monster, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.monsters[monsterID]
	if !ok || m.OwnerID != ownerID {
		return nil, &repositories.NotFoundError{Entity: "monster", ID: monsterID}
	}
	copied := *m
	return &copied, nil
}

func (r *fakeMonsterRepo) ListByOwner(_ context.Context, ownerID string) ([]*models.Monster, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Monster
	for _, m := range r.monsters {
		if m.OwnerID == ownerID {
			copied := *m
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeMonsterRepo) CountByOwner(_ context.Context, ownerID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, m := range r.monsters {
		if m.OwnerID == ownerID {
			count++
		}
	}
	return count, nil
}

func (r *fakeMonsterRepo) UpdateProgression(_ context.Context, monster *models.Monster, prevLevel int, prevXP int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.monsters[monster.ID]
	if !ok {
		return &repositories.NotFoundError{Entity: "monster", ID: monster.ID}
	}
	if m.Level != prevLevel || m.XP != prevXP {
		return &repositories.StaleWriteError{Entity: "monster", ID: monster.ID}
	}
	m.State = monster.State
	m.Level = monster.Level
	m.XP = monster.XP
	m.MaxXP = monster.MaxXP
	m.UpdatedAt = time.Now()
	return nil
}

var errCreditUnavailable = errors.New("wallet store unavailable")
