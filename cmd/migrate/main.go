package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/monstergarden/monstergarden/engine"
	"github.com/monstergarden/monstergarden/engine/catalog"
	"github.com/monstergarden/monstergarden/engine/database"
	"github.com/monstergarden/monstergarden/engine/logger"
	"github.com/monstergarden/monstergarden/engine/migration"
)

func main() {
	slog.SetDefault(slog.New(logger.NewHandler("Migrate")))

	configPath := flag.String("config", "config.toml", "path to config")
	mongoURI := flag.String("mongo-uri", "mongodb://localhost:27017", "MongoDB connection URI")
	mongoName := flag.String("mongo-db", "virtualpets", "MongoDB database name")
	batchSize := flag.Int("batch-size", 1000, "insert batch size")
	useCopy := flag.Bool("use-copy", false, "use COPY for wallet inserts (empty table only)")
	flag.Parse()

	cfg, err := engine.LoadConfig(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	db, err := database.New(ctx, cfg.DB)
	if err != nil {
		slog.Error("Failed to connect to postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	if err := db.InitializeSchema(ctx); err != nil {
		slog.Error("Failed to initialize schema", slog.Any("error", err))
		os.Exit(1)
	}

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(*mongoURI))
	if err != nil {
		slog.Error("Failed to connect to mongo", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			slog.Error("Failed to disconnect mongo", slog.Any("error", err))
		}
	}()

	migrator := migration.NewMigrator(db.BunDB(), mongoClient.Database(*mongoName), catalog.NewDefault())
	migrator.SetBatchSize(*batchSize)
	if *useCopy {
		migrator.SetUseCopy(true)
		migrator.UsePool(db.GetPool())
	}

	slog.Info("Starting legacy data migration",
		slog.String("mongo_db", *mongoName),
		slog.Int("batch_size", *batchSize))

	if err := migrator.Migrate(ctx); err != nil {
		slog.Error("Migration failed", slog.Any("error", err))
		os.Exit(1)
	}
}
