package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jhoicas/backoffice-api/internal/application/audit"
	"github.com/jhoicas/backoffice-api/internal/application/auth"
	"github.com/jhoicas/backoffice-api/internal/application/catalog"
	"github.com/jhoicas/backoffice-api/internal/application/guard"
	"github.com/jhoicas/backoffice-api/internal/application/orders"
	"github.com/jhoicas/backoffice-api/internal/application/receipt"
	"github.com/jhoicas/backoffice-api/internal/domain/repository"
	"github.com/jhoicas/backoffice-api/internal/domain/uow"
	infrakafka "github.com/jhoicas/backoffice-api/internal/infrastructure/kafka"
	"github.com/jhoicas/backoffice-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/backoffice-api/internal/infrastructure/pdf"
	"github.com/jhoicas/backoffice-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/backoffice-api/internal/interfaces/http"
	"github.com/jhoicas/backoffice-api/pkg/config"
	"github.com/jhoicas/backoffice-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.App.StoreDriver).
		Msg("iniciando aplicación")

	// Auditoría: el recorder genera los registros antes del commit; Kafka los publica después.
	pipeline := uow.Pipeline{Hooks: []uow.Hook{audit.NewRecorder()}}
	if cfg.Kafka.Enabled() {
		publisher := infrakafka.NewAuditPublisher(cfg.Kafka.Brokers, cfg.Kafka.AuditTopic, log.Named("kafka"))
		defer publisher.Close()
		pipeline.Observers = append(pipeline.Observers, publisher)
		log.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.AuditTopic).Msg("publicación de auditoría activa")
	}

	ctx := context.Background()
	var (
		store     uow.Store
		auditRepo repository.AuditLogRepository
		userRepo  repository.UserRepository
	)
	switch cfg.App.StoreDriver {
	case "memory":
		mem := memory.NewStore(pipeline)
		store, auditRepo, userRepo = mem, mem, memory.NewUserRepository()
		log.Warn().Msg("almacén en memoria: los datos se pierden al reiniciar")
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if cfg.DB.AutoMigrate {
			n, err := postgres.Migrate(ctx, pool)
			if err != nil {
				log.Fatal().Err(err).Msg("migraciones")
			}
			log.Info().Int("aplicadas", n).Msg("migraciones al día")
		}
		store = postgres.NewStore(pool, pipeline)
		auditRepo = postgres.NewAuditLogRepository(pool)
		userRepo = postgres.NewUserRepository(pool)
	}

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Named("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Back-office API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "store": cfg.App.StoreDriver})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:     authUC,
		CatalogUC:  catalog.NewUseCase(store, log.Named("catalog")),
		DeleteUC:   guard.NewDeleteUseCase(store, guard.New(), log.Named("guard")),
		PlaceOrder: orders.NewPlaceOrderUseCase(store, log.Named("orders")),
		OrderQuery: orders.NewQueryUseCase(store),
		ReceiptUC:  receipt.NewUseCase(store, infrapdf.NewReceiptGenerator(cfg.App.Name)),
		AuditUC:    audit.NewUseCase(auditRepo),
		JWTSecret:  cfg.JWT.Secret,

		WritesRequireToken: cfg.HTTP.WritesRequireToken,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
