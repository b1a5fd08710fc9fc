package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"video-api/cmd/config"
	"video-api/pkg/auth"
	"video-api/pkg/database"
	"video-api/pkg/handlers"
	"video-api/pkg/logging"
	"video-api/pkg/s3"
)

func main() {
	configDir := flag.String("config", "cmd/config/", "directory holding config.yaml")
	flag.Parse()

	cfg, err := config.Load(*configDir)
	if err != nil {
		fallback := logging.New(logging.Config{})
		fallback.Fatal().Err(err).Msg("failed to load config")
	}

	logger := logging.New(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if err := run(cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}

func run(cfg *config.Config, logger zerolog.Logger) error {
	db, err := database.Open(cfg.Database.Dialect, cfg.Database.DSN, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	secret := cfg.Auth.Secret
	if secret == "" {
		secret, err = randomSecret()
		if err != nil {
			return err
		}
		logger.Warn().Msg("auth.secret is empty; using a random secret, tokens will not survive a restart")
	}
	if !cfg.Auth.HashPasswords {
		logger.Warn().Msg("auth.hash_passwords is off; passwords are stored in plaintext")
	}

	opts := handlers.Options{
		HashPasswords:       cfg.Auth.HashPasswords,
		RequireExistingUser: cfg.Auth.RequireExistingUser,
		DB:                  db,
	}
	if cfg.AWS.ArchiveEnabled() {
		archiver, err := s3.NewArchiver(cfg.AWS.Region, cfg.AWS.S3Bucket, cfg.AWS.S3Prefix)
		if err != nil {
			return err
		}
		opts.Archiver = archiver
	}

	gin.SetMode(cfg.Server.Mode)
	h := handlers.New(
		database.NewVideoStore(db),
		database.NewUserStore(db),
		auth.NewManager(secret, cfg.Auth.TokenTTL),
		logger,
		opts,
	)

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      handlers.NewRouter(h, cfg.Server.RequestTimeout),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", cfg.Server.Addr).Msg("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func randomSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
