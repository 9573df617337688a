package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/campus-aura/backend/internal/app"
	"github.com/campus-aura/backend/internal/config"
	"github.com/campus-aura/backend/internal/domain"
	"github.com/campus-aura/backend/internal/observability"
	"github.com/campus-aura/backend/internal/repository"
	"github.com/campus-aura/backend/internal/service"
)

func main() {
	email := flag.String("email", "", "administrator login email")
	password := flag.String("password", os.Getenv("ADMIN_PASSWORD"), "administrator password (defaults to $ADMIN_PASSWORD)")
	name := flag.String("name", "Administrator", "display name")
	subject := flag.String("subject", "", "subject id carried in tokens (random when empty)")
	flag.Parse()

	if *email == "" || *password == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if cfg.Store.Backend == config.StoreBackendMemory {
		log.Fatalf("STORE_BACKEND=%s keeps nothing; point it at postgres or mongo", cfg.Store.Backend)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	opened, err := app.OpenStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to open document store", zap.Error(err))
	}
	defer opened.Close()

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		CredentialRepo: repository.NewCredentialRepository(opened.Store),
		Logger:         logger,
	})

	subjectID := *subject
	if subjectID == "" {
		subjectID = uuid.NewString()
	}
	cred, err := authService.ProvisionCredential(ctx, service.CredentialInput{
		SubjectID:   subjectID,
		Email:       *email,
		DisplayName: *name,
		Password:    *password,
		Role:        domain.RoleAdmin,
	})
	if err != nil {
		logger.Fatal("failed to provision admin credential", zap.Error(err))
	}

	logger.Info("admin credential created", zap.String("email", cred.Email), zap.String("subject_id", cred.SubjectID))
}
