package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/estatehub/estate-hub-api/internal/auth"
	"github.com/estatehub/estate-hub-api/internal/config"
	"github.com/estatehub/estate-hub-api/internal/handler"
	"github.com/estatehub/estate-hub-api/internal/mailer"
	"github.com/estatehub/estate-hub-api/internal/middleware"
	"github.com/estatehub/estate-hub-api/internal/repository"
	"github.com/estatehub/estate-hub-api/internal/storage"
	"github.com/estatehub/estate-hub-api/internal/usecase"
)

func main() {
	logger := zerolog.New(os.Stderr).With().Timestamp().Str("service", "estate-hub-api").Logger()

	cfg := config.Load(&logger)
	if cfg.DevMode {
		logger = logger.Level(zerolog.DebugLevel)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			logger.Error().Err(err).Msg("failed to disconnect from MongoDB")
		}
	}()

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		logger.Fatal().Err(err).Msg("failed to ping MongoDB")
	}

	db := client.Database(cfg.MongoDBName)

	userRepo := repository.NewUserMongoRepository(ctx, &logger, db)
	propertyRepo := repository.NewPropertyMongoRepository(ctx, &logger, db)
	inquiryRepo := repository.NewInquiryMongoRepository(db)

	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.TokenExpiresIn)
	mail := mailer.NewMailer(&logger)

	images, err := storage.NewDiskImageStore(cfg.UploadDir)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize image store")
	}

	authUsecase := usecase.NewAuthUsecase(userRepo, tokens, cfg)
	resetUsecase := usecase.NewPasswordResetUsecase(userRepo, mail, cfg, &logger)
	propertyUsecase := usecase.NewPropertyUsecase(propertyRepo, userRepo, inquiryRepo)
	favoriteUsecase := usecase.NewFavoriteUsecase(userRepo, propertyRepo)
	inquiryUsecase := usecase.NewInquiryUsecase(inquiryRepo, propertyRepo, userRepo, mail, &logger)

	authHandler := handler.NewAuthHandler(authUsecase, resetUsecase, favoriteUsecase, &logger, cfg.DevMode)
	propertyHandler := handler.NewPropertyHandler(propertyUsecase, inquiryUsecase, images, &logger, cfg.DevMode)

	router := handler.NewRouter(
		authHandler,
		propertyHandler,
		middleware.Auth(tokens, userRepo),
		&logger,
		cfg.UploadDir,
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info().Int("port", cfg.HTTPPort).Msg("starting HTTP server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	<-shutdownCtx.Done()
	logger.Info().Msg("shutting down")

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer stopCancel()

	if err := server.Shutdown(stopCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
}
