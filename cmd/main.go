package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"foodgram/cmd/config"
	migration "foodgram/cmd/database/migrate"
	"foodgram/internal/utils"
	"foodgram/internal/utils/logger"
	"foodgram/pkg/catalog"

	"gorm.io/gorm"
)

func main() {
	migrate := flag.Bool("migrate", false, "migrate the database schema and exit")
	importCSV := flag.String("import", "", "import ingredients from a name,measurement_unit CSV file and exit")
	seedTags := flag.Bool("seed-tags", false, "create the default tags and exit")
	flag.Parse()

	utils.LoadConfig()
	log, err := logger.New(utils.GetConfig("LOG_MODE"))
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	db, err := config.ConnectDB()
	if err != nil {
		log.Fatal("database connection failed", "error", err)
	}

	if *migrate || *importCSV != "" || *seedTags {
		if err := runCommands(db, log, *migrate, *importCSV, *seedTags); err != nil {
			log.Fatal("command failed", "error", err)
		}
		return
	}

	app, err := config.NewApp(db, log)
	if err != nil {
		log.Fatal("failed to build app", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		addr := ":" + utils.GetConfig("APP_PORT")
		log.Info("server listening", "addr", addr)
		if err := app.Listen(addr); err != nil {
			log.Error("server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error("shutdown failed", "error", err)
	}
}

func runCommands(db *gorm.DB, log *logger.Logger, migrate bool, importCSV string, seedTags bool) error {
	ctx := context.Background()

	if migrate {
		if err := migration.Migrate(db); err != nil {
			return err
		}
		log.Info("database migration complete")
	}

	catalogService := catalog.NewCatalogService(catalog.NewCatalogRepository(db))

	if importCSV != "" {
		file, err := os.Open(importCSV)
		if err != nil {
			return err
		}
		defer file.Close()

		res, err := catalogService.ImportIngredientsCSV(ctx, file)
		if err != nil {
			return err
		}
		log.Info("ingredients imported", "file", importCSV, "read", res.Read, "inserted", res.Inserted)
	}

	if seedTags {
		res, err := catalogService.SeedTags(ctx)
		if err != nil {
			return err
		}
		log.Info("tags seeded", "read", res.Read, "inserted", res.Inserted)
	}
	return nil
}
