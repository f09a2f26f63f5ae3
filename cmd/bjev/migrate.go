package main

import (
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fadedpez/blackjackev/internal/types"
	"github.com/fadedpez/blackjackev/pkg/db/migrations"
	_ "github.com/mattn/go-sqlite3"
)

// MigrateCmd applies or creates schema migrations
type MigrateCmd struct {
	Up     MigrateUpCmd     `cmd:"" default:"1" help:"Apply pending migrations to DB_PATH"`
	Create MigrateCreateCmd `cmd:"" help:"Create a new numbered migration file"`
}

type MigrateUpCmd struct {
	Dir string `help:"Read migrations from this directory instead of the built-in set" type:"existingdir"`
}

func (c *MigrateUpCmd) Run(app *App) error {
	dbPath := app.Config.DBPath
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on")
	if err != nil {
		return types.WrapError(types.ErrDatabaseError, "failed to open database", err)
	}
	defer db.Close()

	var source fs.FS = migrations.Embedded()
	if c.Dir != "" {
		source = os.DirFS(c.Dir)
	}

	applied, err := migrations.NewMigrator(db, source, app.Logger).MigrateUp()
	if err != nil {
		return types.WrapError(types.ErrDatabaseError, "migration failed", err)
	}

	fmt.Fprintf(app.Out, "Applied %d migrations to %s\n", applied, dbPath)
	return nil
}

type MigrateCreateCmd struct {
	Description string `arg:"" help:"What the migration does, e.g. \"add chart notes\""`
	Dir         string `default:"pkg/db/migrations/sql" help:"Directory to write the migration to"`
}

func (c *MigrateCreateCmd) Run(app *App) error {
	path, err := migrations.CreateMigration(c.Dir, c.Description, time.Now())
	if err != nil {
		return err
	}
	fmt.Fprintf(app.Out, "Created %s\n", path)
	return nil
}
