package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/text/language"

	"sosflow/auth"
	"sosflow/db"
	"sosflow/httpapi"
	"sosflow/media"
	"sosflow/report"
	"sosflow/settings"
)

func main() {
	// Missing .env is fine; the environment may be set by the deployment.
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("bootstrap logger: %v", err)
	}
	defer logger.Sync()

	if err := run(context.Background(), logger); err != nil {
		logger.Fatal("exit", zap.Error(err))
	}
}

func run(ctx context.Context, logger *zap.Logger) error {
	pool, err := db.NewPool(ctx, os.Getenv("DATABASE_URL"))
	if err != nil {
		return fmt.Errorf("bootstrap database pool: %w", err)
	}
	defer pool.Close()

	migrationsDir := envOr("MIGRATIONS_DIR", "migrations")
	if err := db.ApplyMigrations(ctx, pool, migrationsDir); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	uploadsDir := envOr("UPLOAD_DIR", "uploads")
	maxEdge, _ := strconv.Atoi(os.Getenv("PHOTO_MAX_EDGE"))
	photos := media.NewDiskStore(uploadsDir, maxEdge, logger)

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	authService := auth.NewService(auth.NewRepository(pool), jwtSecret)

	reportService := report.NewService(report.NewRepository(pool), photos, logger)

	prefs := settings.New(language.Greek)

	if len(os.Args) > 1 && os.Args[1] == "create-admin" {
		return createAdmin(ctx, authService, os.Args[2:])
	}

	_, app := httpapi.New(httpapi.Config{
		Reports:      reportService,
		Auth:         authService,
		Media:        photos,
		Settings:     prefs,
		Log:          logger,
		UploadsDir:   uploadsDir,
		AllowOrigins: os.Getenv("CORS_ORIGINS"),
	})

	addr := ":" + envOr("PORT", "5001")
	logger.Info("listening", zap.String("addr", addr))
	return app.Listen(addr)
}

// createAdmin provisions a moderation account from the command line:
//
//	api create-admin <username> <password>
func createAdmin(ctx context.Context, svc *auth.Service, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: create-admin <username> <password>")
	}
	admin, err := svc.CreateAdmin(ctx, args[0], args[1])
	if err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	fmt.Printf("created admin %s (%s)\n", admin.Username, admin.ID)
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
