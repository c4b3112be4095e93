package main

import (
	"context"
	"flag"

	"github.com/dset/Cloud-Market/pkg/logger"
	migration "github.com/dset/Cloud-Market/pkg/migration-pg"
	"github.com/dset/Cloud-Market/pkg/postgresql"
	"github.com/dset/Cloud-Market/services/venue/pkg/config"
)

func main() {
	var (
		direction = flag.String("direction", "up", "Migration direction: up or down")
		steps     = flag.Int("steps", 0, "Number of steps to migrate (0 = all)")
	)
	flag.Parse()

	cfg := &config.MigrateConfig{}
	config.MustLoad(cfg)

	log, err := logger.NewLogger(logger.WithLoggingLevel(logger.ParseLevel(cfg.App.LogLevel)))
	if err != nil {
		panic(err)
	}
	defer func() {
		_ = log.Sync()
	}()

	ctx := context.Background()

	pgClient, err := postgresql.NewClient(ctx, cfg.Postgres)
	if err != nil {
		log.GetZap().Fatal("Failed to initialize PostgreSQL client: " + err.Error())
	}
	defer pgClient.Close()

	runner := migration.NewRunner(pgClient, log, cfg.Migration)

	if err := runner.EnsureMigrationTable(ctx); err != nil {
		log.GetZap().Fatal("Failed to create migration table: " + err.Error())
	}

	switch *direction {
	case "up":
		err = runner.MigrateUp(ctx, *steps)
	case "down":
		err = runner.MigrateDown(ctx, *steps)
	default:
		log.GetZap().Fatal("Invalid direction " + *direction + ", use up or down")
	}
	if err != nil {
		log.Error(err, logger.Field{Key: "action", Value: "migrate_" + *direction})
		log.GetZap().Fatal("Migration failed")
	}

	log.Info("Migration completed", logger.Field{Key: "direction", Value: *direction})
}
