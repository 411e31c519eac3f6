package main

import (
	"database/sql"
	"embed"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/PSUNAND/Medassist/app/config"
	"github.com/PSUNAND/Medassist/app/utils/logger"
	"github.com/PSUNAND/Medassist/app/utils/migration"
)

//go:embed migrations
var migrationsFS embed.FS

func main() {
	var (
		command = flag.String("command", "up", "Migration command (up, down, status)")
		verbose = flag.Bool("verbose", false, "Enable verbose logging")
	)
	flag.Parse()

	// Load environment variables
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("Could not load .env file", "error", err)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logLevel := cfg.LogLevel
	if *verbose {
		logLevel = "debug"
	}

	appLogger, err := logger.New(logLevel)
	if err != nil {
		slog.Error("Failed to initialize logger", "error", err)
		os.Exit(1)
	}

	db, err := sql.Open("postgres", dsn(cfg))
	if err != nil {
		appLogger.Error("Failed to open database connection", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		appLogger.Error("Failed to ping database", "error", err)
		os.Exit(1)
	}

	sub, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		appLogger.Error("Failed to open embedded migrations", "error", err)
		os.Exit(1)
	}

	migrator := migration.NewMigrator(db, appLogger, sub)

	switch *command {
	case "up":
		err = migrator.Up()
	case "down":
		err = migrator.Down()
	case "status":
		err = printStatus(migrator)
	default:
		appLogger.Error("Unknown command", "command", *command)
		os.Exit(1)
	}

	if err != nil {
		appLogger.Error("Migration failed", "command", *command, "error", err)
		os.Exit(1)
	}

	appLogger.Info("Migration completed", "command", *command)
}

func printStatus(migrator *migration.Migrator) error {
	applied, err := migrator.AppliedMigrations()
	if err != nil {
		return err
	}

	if len(applied) == 0 {
		fmt.Println("no migrations applied")
		return nil
	}

	for _, m := range applied {
		fmt.Printf("%03d %-30s %s\n", m.Version, m.Name, m.AppliedAt.Format("2006-01-02 15:04:05"))
	}
	return nil
}

func dsn(cfg *config.Config) string {
	if cfg.DatabaseURL != "" {
		return cfg.DatabaseURL
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		cfg.DatabaseUser,
		cfg.DatabasePassword,
		cfg.DatabaseHost,
		cfg.DatabasePort,
		cfg.DatabaseName,
		cfg.DatabaseSSLMode,
	)
}
