package migrationpg

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dset/Cloud-Market/pkg/logger"
	"github.com/dset/Cloud-Market/pkg/postgresql"
)

// Migration is a pair of up/down scripts sharing a version prefix,
// e.g. 000001_create_orders.up.sql and 000001_create_orders.down.sql.
type Migration struct {
	ID      string
	Name    string
	UpSQL   string
	DownSQL string
}

// Runner handles PostgreSQL migration execution
type Runner struct {
	client       postgresql.PostgreSQLClient
	logger       logger.Interface
	migrationDir string
	schema       string
	tableName    string
}

// Config for migration runner
type Config struct {
	MigrationDir string `env:"DIR" envDefault:"services/venue/migrations"`
	Schema       string `env:"SCHEMA" envDefault:"public"`
	TableName    string `env:"TABLE_NAME" envDefault:"schema_migrations"`
}

// NewRunner creates a new migration runner for PostgreSQL
func NewRunner(client postgresql.PostgreSQLClient, log logger.Interface, config Config) *Runner {
	if config.Schema == "" {
		config.Schema = "public"
	}
	if config.TableName == "" {
		config.TableName = "schema_migrations"
	}

	return &Runner{
		client:       client,
		logger:       log,
		migrationDir: config.MigrationDir,
		schema:       config.Schema,
		tableName:    config.TableName,
	}
}

func (r *Runner) table() string {
	return fmt.Sprintf("%s.%s", r.schema, r.tableName)
}

// EnsureMigrationTable creates the bookkeeping table if it doesn't exist
func (r *Runner) EnsureMigrationTable(ctx context.Context) error {
	_, err := r.client.Exec(ctx, fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id VARCHAR(255) PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			applied_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
		)`, r.table()))
	return err
}

// AppliedMigrations returns the set of applied migration IDs
func (r *Runner) AppliedMigrations(ctx context.Context) (map[string]bool, error) {
	rows, err := r.client.Query(ctx, fmt.Sprintf("SELECT id FROM %s", r.table()))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		applied[id] = true
	}

	return applied, rows.Err()
}

// LoadMigrations reads every *.up.sql file, and its optional .down.sql
// sibling, from the migration directory in file name order.
func LoadMigrations(dir string) ([]Migration, error) {
	upFiles, err := filepath.Glob(filepath.Join(dir, "*.up.sql"))
	if err != nil {
		return nil, err
	}
	sort.Strings(upFiles)

	migrations := make([]Migration, 0, len(upFiles))
	for _, upFile := range upFiles {
		upContent, err := os.ReadFile(upFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read migration %s: %w", upFile, err)
		}

		id := strings.TrimSuffix(filepath.Base(upFile), ".up.sql")
		name := id
		if parts := strings.SplitN(id, "_", 2); len(parts) == 2 {
			name = parts[1]
		}

		var downSQL string
		if downContent, err := os.ReadFile(strings.TrimSuffix(upFile, ".up.sql") + ".down.sql"); err == nil {
			downSQL = strings.TrimSpace(string(downContent))
		}

		migrations = append(migrations, Migration{
			ID:      id,
			Name:    name,
			UpSQL:   strings.TrimSpace(string(upContent)),
			DownSQL: downSQL,
		})
	}

	return migrations, nil
}

func (r *Runner) exec(ctx context.Context, script string) error {
	for _, stmt := range postgresql.SplitSQLStatements(script) {
		if _, err := r.client.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// MigrateUp applies up to steps pending migrations; steps <= 0 applies all.
func (r *Runner) MigrateUp(ctx context.Context, steps int) error {
	if err := r.EnsureMigrationTable(ctx); err != nil {
		return fmt.Errorf("failed to create migration table: %w", err)
	}

	migrations, err := LoadMigrations(r.migrationDir)
	if err != nil {
		return err
	}

	applied, err := r.AppliedMigrations(ctx)
	if err != nil {
		return err
	}

	var toApply []Migration
	for _, migration := range migrations {
		if !applied[migration.ID] {
			toApply = append(toApply, migration)
		}
	}

	if steps > 0 && len(toApply) > steps {
		toApply = toApply[:steps]
	}

	for _, migration := range toApply {
		if migration.UpSQL == "" {
			r.logger.Warn("Skipping empty migration", logger.NewField("migration", migration.ID))
			continue
		}

		err := postgresql.WithTx(ctx, r.client, func(txCtx context.Context) error {
			if err := r.exec(txCtx, migration.UpSQL); err != nil {
				return err
			}

			_, err := r.client.Exec(txCtx,
				fmt.Sprintf("INSERT INTO %s (id, name) VALUES ($1, $2)", r.table()),
				migration.ID, migration.Name,
			)
			return err
		})
		if err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", migration.ID, err)
		}

		r.logger.Info("Applied migration", logger.NewField("migration", migration.ID))
	}

	return nil
}

// MigrateDown reverts the last steps applied migrations.
func (r *Runner) MigrateDown(ctx context.Context, steps int) error {
	if steps <= 0 {
		return fmt.Errorf("steps must be greater than 0 for down migrations")
	}

	if err := r.EnsureMigrationTable(ctx); err != nil {
		return fmt.Errorf("failed to create migration table: %w", err)
	}

	migrations, err := LoadMigrations(r.migrationDir)
	if err != nil {
		return err
	}

	applied, err := r.AppliedMigrations(ctx)
	if err != nil {
		return err
	}

	var toRevert []Migration
	for i := len(migrations) - 1; i >= 0 && len(toRevert) < steps; i-- {
		if applied[migrations[i].ID] {
			toRevert = append(toRevert, migrations[i])
		}
	}

	for _, migration := range toRevert {
		if migration.DownSQL == "" {
			return fmt.Errorf("no DOWN SQL found for migration %s - cannot revert", migration.ID)
		}

		err := postgresql.WithTx(ctx, r.client, func(txCtx context.Context) error {
			if err := r.exec(txCtx, migration.DownSQL); err != nil {
				return err
			}

			_, err := r.client.Exec(txCtx, fmt.Sprintf("DELETE FROM %s WHERE id = $1", r.table()), migration.ID)
			return err
		})
		if err != nil {
			return fmt.Errorf("failed to revert migration %s: %w", migration.ID, err)
		}

		r.logger.Info("Reverted migration", logger.NewField("migration", migration.ID))
	}

	return nil
}
