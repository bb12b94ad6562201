package config

import (
	"os"
	"time"

	"foodgram/internal/api/handlers"
	"foodgram/internal/api/presenters"
	"foodgram/internal/api/routes"
	"foodgram/internal/metrics"
	"foodgram/internal/middleware"
	"foodgram/internal/utils"
	"foodgram/internal/utils/cache"
	"foodgram/internal/utils/document"
	applog "foodgram/internal/utils/logger"
	"foodgram/internal/utils/mailing"
	"foodgram/internal/utils/storage"
	"foodgram/pkg/catalog"
	"foodgram/pkg/jwt"
	"foodgram/pkg/ledger"
	"foodgram/pkg/recipe"
	"foodgram/pkg/shoppinglist"
	"foodgram/pkg/user"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"gorm.io/gorm"
)

func NewApp(db *gorm.DB, log *applog.Logger) (*fiber.App, error) {
	utils.InitValidator()
	presenters.SetLogger(log)
	app := fiber.New(fiber.Config{
		AppName:      "foodgram",
		BodyLimit:    16 * 1024 * 1024,
		ErrorHandler: presenters.FiberErrorHandler,
	})
	middlewares := middleware.NewMiddleware()

	app.Use(recover.New())

	// setting up logging and limiter
	if err := os.MkdirAll("./logs", os.ModePerm); err != nil {
		return nil, err
	}
	file, err := os.OpenFile(
		"./logs/app.log",
		os.O_RDWR|os.O_CREATE|os.O_APPEND,
		0666,
	)
	if err != nil {
		return nil, err
	}
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "UTC",
		Output:     file,
	}))

	limiterConfig := limiter.Config{
		Max:        utils.GetConfigInt("RATE_LIMIT_MAX", 20),
		Expiration: 1 * time.Second,
	}
	if addr := utils.GetConfig("REDIS_ADDR"); addr != "" {
		store, err := cache.NewRedisStorage(addr, utils.GetConfig("REDIS_PASSWORD"))
		if err != nil {
			log.Warn("redis unavailable, rate limiter falls back to memory", "addr", addr, "error", err)
		} else {
			limiterConfig.Storage = store
		}
	}
	app.Use(limiter.New(limiterConfig))

	// metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewCollector(registry)

	// utils
	s3, err := storage.NewAwsS3()
	if err != nil {
		return nil, err
	}
	media := storage.NewMediaStore(s3)
	mailer := mailing.NewMailer()
	renderer := document.NewShoppingListPDF(true)

	// Repository
	userRepository := user.NewUserRepository(db)
	catalogRepository := catalog.NewCatalogRepository(db)
	ledgerRepository := ledger.NewLedgerRepository(db)
	recipeRepository := recipe.NewRecipeRepository(db)
	shoppingListRepository := shoppinglist.NewShoppingListRepository(db)

	// Service
	jwtService := jwt.NewJWTService()
	catalogService := catalog.NewCatalogService(catalogRepository)
	ledgerService := ledger.NewLedgerService(ledgerRepository, collector)
	userService := user.NewUserService(userRepository, ledgerService, jwtService, media, mailer, log)
	recipeService := recipe.NewRecipeService(recipeRepository, catalogRepository, ledgerService, media, collector, log)
	shoppingListService := shoppinglist.NewShoppingListService(shoppingListRepository, renderer, collector)

	// Handler
	userHandler := handlers.NewUserHandler(userService, ledgerService)
	catalogHandler := handlers.NewCatalogHandler(catalogService)
	recipeHandler := handlers.NewRecipeHandler(recipeService, ledgerService, shoppingListService)

	// routes
	routesConfig := routes.Config{
		App:            app,
		UserHandler:    userHandler,
		RecipeHandler:  recipeHandler,
		CatalogHandler: catalogHandler,
		Middleware:     middlewares,
		JWTService:     jwtService,
		Metrics:        collector,
		Gatherer:       registry,
	}
	routesConfig.Setup()
	return app, nil
}
