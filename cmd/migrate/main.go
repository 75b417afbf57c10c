// Command migrate manages the recipebox schema.
//
//	migrate up              apply pending SQL migrations
//	migrate auto            derive tables from the models (development only)
//	migrate status          applied/pending migrations and row counts per table
//	migrate down [-steps N] revert the newest N migrations (default 1)
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"recipebox/internal/config"
	"recipebox/internal/database"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

func run(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: migrate <up|auto|status|down> [-steps N]")
	}
	cmd, rest := args[0], args[1:]

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	db, err := database.Open(cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	ctx := context.Background()

	switch cmd {
	case "up":
		n, err := database.Migrate(ctx, db)
		if err != nil {
			return err
		}
		log.Printf("applied %d migration(s)", n)

	case "auto":
		cfg.DBSchemaMode = database.SchemaModeAuto
		if err := database.ApplySchema(ctx, db, cfg); err != nil {
			return err
		}
		log.Println("tables derived from models")

	case "status":
		status, err := database.GetSchemaStatus(ctx, db, cfg)
		if err != nil {
			return err
		}
		log.Printf("mode=%s applied=%v pending=%d", status.Mode, status.Applied, len(status.Pending))
		for _, m := range status.Pending {
			log.Printf("pending %s", m.String())
		}
		for _, t := range status.Tables {
			if !t.Exists {
				log.Printf("%-14s missing", t.Table)
				continue
			}
			log.Printf("%-14s %d rows", t.Table, t.Rows)
		}

	case "down":
		fs := flag.NewFlagSet("down", flag.ContinueOnError)
		steps := fs.Int("steps", 1, "number of migrations to revert")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		reverted, err := database.Rollback(ctx, db, *steps)
		for _, m := range reverted {
			log.Printf("reverted %s", m.String())
		}
		if err != nil {
			return err
		}
		if len(reverted) == 0 {
			log.Println("nothing to revert")
		}

	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
	return nil
}
