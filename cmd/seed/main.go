// seed carga datos de demostración: usuarios admin/operador/leitor y un cliente,
// una categoría y un producto de ejemplo. Los datos de catálogo pasan por la
// unidad de trabajo, así que quedan auditados.
//
// Uso: go run ./cmd/seed
// Contraseña de los usuarios: SEED_PASSWORD (por defecto "backoffice123").
package main

import (
	"context"
	"errors"
	"os"

	"github.com/jhoicas/backoffice-api/internal/application/audit"
	"github.com/jhoicas/backoffice-api/internal/application/auth"
	"github.com/jhoicas/backoffice-api/internal/application/catalog"
	"github.com/jhoicas/backoffice-api/internal/application/dto"
	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/domain/uow"
	"github.com/jhoicas/backoffice-api/internal/infrastructure/postgres"
	"github.com/jhoicas/backoffice-api/pkg/config"
	"github.com/jhoicas/backoffice-api/pkg/logger"
	"github.com/shopspring/decimal"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level})

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()
	if _, err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	password := os.Getenv("SEED_PASSWORD")
	if password == "" {
		password = "backoffice123"
	}
	authUC := auth.NewAuthUseCase(postgres.NewUserRepository(pool), auth.JWTConfig{Secret: cfg.JWT.Secret})
	for _, role := range []string{entity.RoleAdmin, entity.RoleOperador, entity.RoleLeitor} {
		u, err := authUC.RegisterUser(ctx, auth.RegisterInput{Email: role + "@backoffice.local", Password: password, Role: role})
		switch {
		case errors.Is(err, domain.ErrDuplicate):
			log.Info().Str("role", role).Msg("usuario ya existe")
		case err != nil:
			log.Fatal().Err(err).Str("role", role).Msg("crear usuario")
		default:
			log.Info().Int64("id", u.ID).Str("email", u.Email).Msg("usuario creado")
		}
	}

	store := postgres.NewStore(pool, uow.Pipeline{Hooks: []uow.Hook{audit.NewRecorder()}})
	cat := catalog.NewUseCase(store, log.Named("catalog"))

	existing, err := cat.ListClients(ctx, dto.PageRequest{Limit: 1})
	if err != nil {
		log.Fatal().Err(err).Msg("listar clientes")
	}
	if len(existing.Items) > 0 {
		log.Info().Msg("catálogo ya sembrado")
		return
	}

	email := "cliente@example.com"
	client, err := cat.CreateClient(ctx, dto.ClientRequest{Name: "Cliente Demo", Email: &email})
	if err != nil {
		log.Fatal().Err(err).Msg("crear cliente")
	}
	category, err := cat.CreateCategory(ctx, dto.CategoryRequest{Name: "General"})
	if err != nil {
		log.Fatal().Err(err).Msg("crear categoría")
	}
	product, err := cat.CreateProduct(ctx, dto.CreateProductRequest{
		Name:       "Producto Demo",
		Price:      decimal.RequireFromString("19.99"),
		Stock:      100,
		CategoryID: &category.ID,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("crear producto")
	}
	log.Info().
		Int64("client_id", client.ID).
		Int64("category_id", category.ID).
		Int64("product_id", product.ID).
		Msg("catálogo de demostración creado")
}
