// Command rosterctl loads a student roster spreadsheet into the students table.
//
//	rosterctl -file roster.xlsx [-config config/config.yaml] [-dry-run]
//
// The first sheet must have a roll column; name and branch are optional.
// Existing rolls are updated in place.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/Anirudha-Sai/Event-Attendance/config"
	"github.com/Anirudha-Sai/Event-Attendance/internal/repository"
	"github.com/Anirudha-Sai/Event-Attendance/internal/service"
	"github.com/Anirudha-Sai/Event-Attendance/pkg/database"
	applogger "github.com/Anirudha-Sai/Event-Attendance/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	file := flag.String("file", "", "roster .xlsx to import")
	dryRun := flag.Bool("dry-run", false, "parse and report without writing")
	flag.Parse()

	if *file == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger, *file, *dryRun); err != nil {
		logger.Fatal("roster import failed", zap.String("file", *file), zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger, path string, dryRun bool) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var repo *repository.Repository
	if !dryRun {
		db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		defer sqlDB.Close()
		if err := database.RunMigrations(sqlDB, logger); err != nil {
			return err
		}
		repo = repository.NewRepository(db)
	} else {
		repo = &repository.Repository{}
	}

	roster := service.NewRosterService(repo, logger)
	students, err := roster.ParseImportFile(f)
	if err != nil {
		return err
	}
	if dryRun {
		logger.Info("dry run, nothing written", zap.Int("rows", len(students)))
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	n, err := roster.Import(ctx, students)
	if err != nil {
		return err
	}
	fmt.Printf("imported %d students from %s\n", n, path)
	return nil
}
