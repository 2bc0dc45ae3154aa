package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "task_manager/docs"
	"task_manager/internal/config"
	"task_manager/internal/events"
	"task_manager/internal/handlers"
	"task_manager/internal/logger"
	"task_manager/internal/repository"
	"task_manager/internal/repository/db"
	"task_manager/internal/server"
	"task_manager/internal/service"

	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 10 * time.Second

// @title                       Task Manager API
// @version                     1.0
// @description                 Users, tasks and per-user dashboards.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	cfg, err := config.Load("configs")
	if err != nil {
		logger.Get(logger.InfoLevel).Fatalw("error reading config", "err", err)
	}

	// init logger
	log := logger.Get(cfg.LogLevel)
	defer func() { _ = log.Sync() }()

	if cfg.LogLevel != logger.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}

	// open store
	repos, closeStore, err := openStore(cfg, log)
	if err != nil {
		log.Fatalw("failed to open store", "driver", cfg.DB.Driver, "err", err)
	}
	defer closeStore()

	if st := cfg.EnvStatus(); !st.AllPresent {
		log.Warnw("missing environment variables", "missing", st.MissingVars)
	}

	// wire dependencies
	publisher := events.New(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	defer func() {
		if err := publisher.Close(); err != nil {
			log.Errorw("failed to close event publisher", "err", err)
		}
	}()
	auth := service.NewAuthService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	services := service.NewService(repos, auth, publisher, log)
	apiHandler := handlers.NewHandler(services, cfg, log)

	// start HTTP server
	srv := server.New(cfg.Port, apiHandler.InitRoutes())
	runHTTPServer(srv, log)

	// graceful shutdown
	waitForShutdown(srv, log)
}

// openStore connects the configured backend and returns its repositories
// with a function releasing the connection.
func openStore(cfg *config.Config, log *logger.Logger) (*repository.Repository, func(), error) {
	switch cfg.DB.Driver {
	case config.DriverSQLite:
		conn, err := db.InitSQLite(cfg.DB.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		log.Infow("sqlite ready", "path", cfg.DB.SQLitePath)
		return repository.NewSQLiteRepository(conn), func() {
			if err := conn.Close(); err != nil {
				log.Errorw("failed to close sqlite", "err", err)
			}
		}, nil
	default:
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		client, database, err := db.ConnectMongo(ctx, cfg.DB.MongoURI, cfg.DB.MongoDatabase)
		if err != nil {
			return nil, nil, err
		}
		log.Infow("mongodb connected", "database", cfg.DB.MongoDatabase)
		return repository.NewMongoRepository(database), func() {
			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := client.Disconnect(ctx); err != nil {
				log.Errorw("failed to disconnect mongodb", "err", err)
			}
		}, nil
	}
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, log *logger.Logger) {
	go func() {
		log.Infow("server listening", "addr", srv.Addr())
		if err := srv.Run(); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// allow in-flight requests to complete
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
}
