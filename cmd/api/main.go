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

	applisting "github.com/jhoicas/Publicador-api/internal/application/listing"
	apptemplate "github.com/jhoicas/Publicador-api/internal/application/template"
	"github.com/jhoicas/Publicador-api/internal/domain/entity"
	infraai "github.com/jhoicas/Publicador-api/internal/infrastructure/ai"
	infraexcel "github.com/jhoicas/Publicador-api/internal/infrastructure/excel"
	"github.com/jhoicas/Publicador-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Publicador-api/internal/interfaces/http"
	"github.com/jhoicas/Publicador-api/pkg/config"
	"github.com/jhoicas/Publicador-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	// Configuración declarativa del mapeo: reglas por campo y constantes por categoría.
	rules, err := entity.LoadRuleSet(cfg.Listing.MappingPath)
	if err != nil {
		log.Fatal().Err(err).Msg("cargar reglas de mapeo")
	}
	categoryMap, err := entity.LoadCategoryConfig(cfg.Listing.CategoryMapPath)
	if err != nil {
		log.Fatal().Err(err).Msg("cargar constantes por categoría")
	}

	llmSvc, err := infraai.NewLLMService(cfg.LLM, log)
	if err != nil {
		log.Fatal().Err(err).Msg("configurar servicio de generación")
	}

	itemRepo := postgres.NewCatalogItemRepository(pool)
	templateRepo := postgres.NewTemplateRepository(pool)
	logRepo := postgres.NewListingLogRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	engine := applisting.NewMappingEngine(rules, categoryMap, llmSvc, log)
	resolver := applisting.NewThemeResolver(llmSvc, cfg.LLM.CallTimeout, log)
	assembler := applisting.NewAssembler(engine, resolver, itemRepo, log)
	writer := infraexcel.NewWorkbookWriter(cfg.Listing, log)

	generateUC := applisting.NewGenerateListingsUseCase(
		itemRepo, templateRepo, assembler, writer, txRunner,
		cfg.Listing.WorkerCount, log,
	)
	logQueryUC := applisting.NewLogQueryUseCase(logRepo)

	templateParser := infraexcel.NewTemplateFileParser(log)
	reportParser := infraexcel.NewReportFileParser(log)
	importUC := apptemplate.NewImportTemplateUseCase(templateParser, templateRepo, log)
	correctUC := apptemplate.NewCorrectRulesUseCase(reportParser, templateRepo, log)
	queryUC := apptemplate.NewTemplateQueryUseCase(templateRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Minute * 10, // la generación de un lote puede tardar
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Publicador API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		GenerateListings: generateUC,
		LogQuery:         logQueryUC,
		ImportTemplate:   importUC,
		CorrectRules:     correctUC,
		TemplateQuery:    queryUC,
		JWTSecret:        cfg.JWT.Secret,
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
