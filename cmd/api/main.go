package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	amqpad "cinema_catalog/internal/adapters/amqp"
	server "cinema_catalog/internal/adapters/http_server"
	"cinema_catalog/internal/adapters/observability"
	redisad "cinema_catalog/internal/adapters/redis"
	"cinema_catalog/internal/app"
	"cinema_catalog/internal/domain"
	"cinema_catalog/internal/shared"
	mysqlrepo "cinema_catalog/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	// db
	db, err := mysqlrepo.Open(cfg.MySQLDSN, mysqlrepo.Pool{
		MaxOpen:     cfg.DBMaxOpen,
		MaxIdle:     cfg.DBMaxIdle,
		MaxLifetime: cfg.DBMaxLifetime,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	defer db.Close()
	log.Info().Msg("database connection ok")

	// deps
	gw := mysqlrepo.New(db)
	pub := publisher(cfg)
	defer pub.Close()
	catalog := app.NewCatalogService(gw, pub)

	// http
	srv := server.New(cfg.HTTPTimeout)
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{
		Catalog:      catalog,
		Routes:       app.Catalog(),
		Ready:        gw.Ping,
		MirrorStatus: cfg.MirrorStatus,
	})

	httpSrv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Mux(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Bool("mirror_status", cfg.MirrorStatus).Msg("API listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("API stopped")
}

// publisher picks the change-event sink. A sink that cannot be reached at
// startup is logged and replaced by the no-op publisher.
func publisher(cfg shared.Config) domain.Publisher {
	switch cfg.EventsSink {
	case "redis":
		log.Info().Str("addr", cfg.RedisAddr).Str("stream", cfg.EventsStream).Msg("change events: redis")
		return redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB, cfg.EventsStream)
	case "amqp":
		p, err := amqpad.Dial(cfg.AMQPURL, cfg.EventsQueue)
		if err != nil {
			log.Error().Err(err).Msg("amqp dial failed, change events disabled")
			return domain.NopPublisher{}
		}
		log.Info().Str("queue", cfg.EventsQueue).Msg("change events: amqp")
		return p
	}
	return domain.NopPublisher{}
}
