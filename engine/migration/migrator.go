package migration

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	pgx "github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/uptrace/bun"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/sync/errgroup"

	"github.com/monstergarden/monstergarden/engine/catalog"
	"github.com/monstergarden/monstergarden/engine/database/models"
	"github.com/monstergarden/monstergarden/engine/leveling"
)

// Migrator imports the original MongoDB deployment into postgres. Inserts are
// conflict-tolerant so a rerun after a partial failure only fills the gaps.
type Migrator struct {
	pgDB    *bun.DB
	mongoDB *mongo.Database
	catalog *catalog.Catalog
	calc    *leveling.Calculator

	batchSize int
	useCopy   bool
	pool      *pgxpool.Pool

	collNames map[string]string
	stats     *MigrationStats
}

func NewMigrator(pgDB *bun.DB, mongoDB *mongo.Database, cat *catalog.Catalog) *Migrator {
	return &Migrator{
		pgDB:      pgDB,
		mongoDB:   mongoDB,
		catalog:   cat,
		calc:      leveling.NewCalculator(leveling.NewDefaultConfig()),
		batchSize: 1000,
		collNames: map[string]string{
			"users":  "users",
			"pets":   "pets",
			"quests": "userquests",
		},
		stats: newMigrationStats(),
	}
}

// SetBatchSize overrides the default insert batch size.
func (m *Migrator) SetBatchSize(size int) {
	if size > 0 {
		m.batchSize = size
	}
}

// SetUseCopy enables pgx COPY for wallet inserts. Only safe on an empty
// wallets table: COPY has no conflict handling.
func (m *Migrator) SetUseCopy(v bool) { m.useCopy = v }

// UsePool sets the pgx pool used for COPY operations.
func (m *Migrator) UsePool(pool *pgxpool.Pool) { m.pool = pool }

func (m *Migrator) Stats() *MigrationStats { return m.stats }

// Migrate runs all three imports. Users, pets and quest progress are
// independent tables, so they run concurrently.
func (m *Migrator) Migrate(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return m.migrateUsers(ctx) })
	g.Go(func() error { return m.migratePets(ctx) })
	g.Go(func() error { return m.migrateQuestStates(ctx) })
	if err := g.Wait(); err != nil {
		return err
	}

	for name, ts := range m.stats.Tables {
		slog.Info("Migration table finished",
			slog.String("table", name),
			slog.Int64("read", ts.Read),
			slog.Int64("inserted", ts.Inserted),
			slog.Int64("skipped", ts.Skipped))
	}
	slog.Info("Migration complete",
		slog.Duration("duration", m.stats.Duration()))
	return nil
}

func (m *Migrator) migrateUsers(ctx context.Context) error {
	ts := m.stats.table("wallets")
	now := time.Now()

	var batch []*models.Wallet
	err := m.forEach(ctx, m.collNames["users"], func(raw bson.Raw) error {
		var legacy LegacyUser
		if err := bson.Unmarshal(raw, &legacy); err != nil {
			return fmt.Errorf("failed to decode user: %w", err)
		}
		ts.Read++
		if legacy.UserID == "" {
			ts.Skipped++
			return nil
		}

		batch = append(batch, convertUser(legacy, now))
		if len(batch) >= m.batchSize {
			if err := m.flushWallets(ctx, batch, ts); err != nil {
				return err
			}
			batch = batch[:0]
		}
		return nil
	})
	if err != nil {
		return err
	}
	if len(batch) > 0 {
		return m.flushWallets(ctx, batch, ts)
	}
	return nil
}

func (m *Migrator) flushWallets(ctx context.Context, batch []*models.Wallet, ts *TableStats) error {
	if m.useCopy && m.pool != nil {
		rows := make([][]interface{}, 0, len(batch))
		for _, w := range batch {
			rows = append(rows, []interface{}{w.OwnerID, w.Balance, w.TotalEarned, w.CreatedAt, w.UpdatedAt})
		}
		n, err := m.pool.CopyFrom(ctx,
			pgx.Identifier{"wallets"},
			[]string{"owner_id", "balance", "total_earned", "created_at", "updated_at"},
			pgx.CopyFromRows(rows))
		if err != nil {
			return fmt.Errorf("failed to copy wallets: %w", err)
		}
		ts.Inserted += n
		return nil
	}

	res, err := m.pgDB.NewInsert().
		Model(&batch).
		On("CONFLICT (owner_id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to insert wallets: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil {
		ts.Inserted += n
		ts.Skipped += int64(len(batch)) - n
	}
	return nil
}

func (m *Migrator) migratePets(ctx context.Context) error {
	ts := m.stats.table("monsters")
	now := time.Now()

	var batch []*models.Monster
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		res, err := m.pgDB.NewInsert().
			Model(&batch).
			On("CONFLICT (id) DO NOTHING").
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to insert monsters: %w", err)
		}
		if n, err := res.RowsAffected(); err == nil {
			ts.Inserted += n
			ts.Skipped += int64(len(batch)) - n
		}
		batch = batch[:0]
		return nil
	}

	err := m.forEach(ctx, m.collNames["pets"], func(raw bson.Raw) error {
		var legacy LegacyPet
		if err := bson.Unmarshal(raw, &legacy); err != nil {
			return fmt.Errorf("failed to decode pet: %w", err)
		}
		ts.Read++
		if legacy.UserID == "" {
			ts.Skipped++
			return nil
		}

		batch = append(batch, convertPet(legacy, m.calc, now))
		if len(batch) >= m.batchSize {
			return flush()
		}
		return nil
	})
	if err != nil {
		return err
	}
	return flush()
}

func (m *Migrator) migrateQuestStates(ctx context.Context) error {
	ts := m.stats.table("quest_progress")
	now := time.Now()

	var batch []*models.QuestProgress
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		res, err := m.pgDB.NewInsert().
			Model(&batch).
			On("CONFLICT (user_id, quest_id) DO NOTHING").
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to insert quest progress: %w", err)
		}
		if n, err := res.RowsAffected(); err == nil {
			ts.Inserted += n
			ts.Skipped += int64(len(batch)) - n
		}
		batch = batch[:0]
		return nil
	}

	err := m.forEach(ctx, m.collNames["quests"], func(raw bson.Raw) error {
		var legacy LegacyQuestState
		if err := bson.Unmarshal(raw, &legacy); err != nil {
			return fmt.Errorf("failed to decode quest state: %w", err)
		}
		ts.Read++

		// Quests retired from the catalog are dropped.
		def, ok := m.catalog.Get(legacy.QuestID)
		if !ok || legacy.UserID == "" {
			ts.Skipped++
			return nil
		}

		batch = append(batch, convertQuestState(legacy, def.Target, now))
		if len(batch) >= m.batchSize {
			return flush()
		}
		return nil
	})
	if err != nil {
		return err
	}
	return flush()
}

func (m *Migrator) forEach(ctx context.Context, collection string, fn func(raw bson.Raw) error) error {
	cursor, err := m.mongoDB.Collection(collection).Find(ctx, bson.D{})
	if err != nil {
		return fmt.Errorf("failed to open cursor on %s: %w", collection, err)
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		if err := fn(cursor.Current); err != nil {
			return err
		}
	}
	return cursor.Err()
}
