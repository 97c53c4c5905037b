package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-auth-dashboard/internal/config"
	"github.com/go-auth-dashboard/internal/infrastructure/dynamo"
	jwtinfra "github.com/go-auth-dashboard/internal/infrastructure/jwt"
	"github.com/go-auth-dashboard/internal/infrastructure/smtp"
	transport "github.com/go-auth-dashboard/internal/transport/http"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment")
	}
	cfg := config.Load()

	client := dynamo.NewClient(cfg)
	dynamo.Bootstrap(context.Background(), client, cfg.DynamoTables)

	jwtProvider, err := jwtinfra.NewProvider(cfg)
	if err != nil {
		log.Fatalf("jwt provider: %v", err)
	}

	router := transport.NewRouter(transport.Deps{
		Config:        cfg,
		UserRepo:      dynamo.NewUserRepo(client, cfg.DynamoTables.Users),
		RateLimitRepo: dynamo.NewRateLimitRepo(client, cfg.DynamoTables.RateLimits),
		Mailer:        smtp.NewMailer(cfg),
		JWTProvider:   jwtProvider,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.AppPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("listening on :%s (%s)", cfg.AppPort, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("shutdown: %v", err)
	}
}
