// migrate aplica, revierte o muestra las migraciones SQL embebidas (goose).
//
// Uso: go run ./cmd/migrate [up|down|status]
// Sin argumentos ejecuta "up".
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jhoicas/backoffice-api/internal/infrastructure/postgres"
	"github.com/jhoicas/backoffice-api/pkg/config"
	"github.com/jhoicas/backoffice-api/pkg/logger"
)

func main() {
	cmd := "up"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level})

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	provider, db, err := postgres.NewMigrator(pool)
	if err != nil {
		log.Fatal().Err(err).Msg("migrador")
	}
	defer db.Close()

	switch cmd {
	case "up":
		res, err := provider.Up(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("goose up")
		}
		for _, r := range res {
			log.Info().Int64("version", r.Source.Version).Dur("duracion", r.Duration).Msg("migración aplicada")
		}
		log.Info().Int("aplicadas", len(res)).Msg("migraciones al día")
	case "down":
		r, err := provider.Down(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("goose down")
		}
		log.Info().Int64("version", r.Source.Version).Msg("migración revertida")
	case "status":
		statuses, err := provider.Status(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("goose status")
		}
		for _, s := range statuses {
			fmt.Printf("%-6d %-10s %s\n", s.Source.Version, s.State, s.Source.Path)
		}
	default:
		fmt.Fprintf(os.Stderr, "comando desconocido %q (up|down|status)\n", cmd)
		os.Exit(2)
	}
}
