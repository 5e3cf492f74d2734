package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/fikertekiflu/hospital/internal/querycache"
	"github.com/fikertekiflu/hospital/internal/session"
	"github.com/fikertekiflu/hospital/internal/upstream"
	"github.com/fikertekiflu/hospital/internal/views"
	"github.com/fikertekiflu/hospital/pkg/config"
	"github.com/fikertekiflu/hospital/pkg/logger"
	"github.com/fikertekiflu/hospital/pkg/monitoring"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logg := logger.New(cfg.LogLevel)

	notifications := &session.Recorder{}

	// The session store is the token source for every upstream call; the
	// store itself needs the auth client, so the core reads the token
	// through an indirection set just below
	var store *session.Store
	core := upstream.NewClient(
		cfg.Upstream.BaseURL,
		time.Duration(cfg.Upstream.RequestTimeout)*time.Second,
		upstream.TokenSourceFunc(func() string {
			if store == nil {
				return ""
			}
			return store.Token()
		}),
		logg,
	)

	auth := upstream.NewAuthClient(core)
	store = session.NewStore(auth, notifications, logg)

	cache := querycache.New(logg)
	clients := views.NewClients(core)
	portal := views.New(clients, cache, store, notifications, cfg, logg)

	router := portal.Router()

	if cfg.Monitoring.Enabled {
		health := monitoring.NewHealthManager("hms-portal")
		health.Register("upstream-api", monitoring.UpstreamCheck(cfg.Upstream.BaseURL, nil))
		router.Handle(cfg.Monitoring.HealthPath, health.Handler()).Methods("GET")
		router.Handle(cfg.Monitoring.MetricsPath, monitoring.Handler()).Methods("GET")
	}

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	portal.StartPolling()

	go func() {
		logg.WithFields(map[string]interface{}{
			"addr":     server.Addr,
			"upstream": cfg.Upstream.BaseURL,
		}).Info("Starting HMS portal")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logg.WithError(err).Error("Server failed")
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logg.Info("Shutting down HMS portal")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logg.WithError(err).Error("Failed to shutdown server gracefully")
	}

	portal.Stop()
	store.Close()

	logg.Info("HMS portal stopped")
}
