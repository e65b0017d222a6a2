package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"todo-backend/internal/config"
	apphttp "todo-backend/internal/http"
	"todo-backend/internal/repository"
	"todo-backend/internal/repository/memory"
	"todo-backend/internal/repository/sqlite"
	"todo-backend/internal/service"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}
	configureLogger(logger, cfg)

	if strings.TrimSpace(cfg.Auth.JWTSecret) == "" {
		logger.Fatalf("auth jwt secret is required")
	}
	ttl, err := cfg.TokenLifetime()
	if err != nil {
		logger.Fatalf("auth token ttl: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	users, todos, closeStore, err := buildStore(ctx, cfg)
	if err != nil {
		logger.Fatalf("setup store: %v", err)
	}
	defer closeStore()

	hasher, err := service.NewPasswordHasher(service.PasswordScheme(cfg.Auth.PasswordScheme))
	if err != nil {
		logger.Fatalf("setup password hasher: %v", err)
	}
	if service.PasswordScheme(cfg.Auth.PasswordScheme) != service.SchemeBcrypt {
		logger.Warn("passwords use an unsalted sha256 digest; set TODO_AUTH_PASSWORDSCHEME=bcrypt for production")
	}

	tokens := service.NewTokenService(cfg.Auth.JWTSecret, ttl)
	userService := service.NewUserService(users, hasher, tokens)
	todoService := service.NewTodoService(todos)

	if cfg.App.SeedDemo {
		created, err := service.SeedDemo(ctx, users, todos, hasher)
		if err != nil {
			logger.Warnf("seed demo data: %v", err)
		} else if created {
			logger.Infof("seeded demo user %s", service.DemoEmail)
		}
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	handler := apphttp.NewHandler(userService, todoService, logger, cfg.App.Env, cfg.CORS.Origin)
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: router,
	}

	go func() {
		logger.Infof("listening on %s (env %s, store %s)", cfg.Server.Addr, cfg.App.Env, cfg.Database.Driver)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("http shutdown: %v", err)
	}

	logger.Info("bye")
}

func configureLogger(logger *logrus.Logger, cfg config.Config) {
	if strings.EqualFold(cfg.Log.Format, "json") {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		logger.Warnf("unknown log level %q, using info", cfg.Log.Level)
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
}

func buildStore(ctx context.Context, cfg config.Config) (repository.UserRepository, repository.TodoRepository, func(), error) {
	switch cfg.Database.Driver {
	case "", "memory":
		store := memory.NewStore()
		return store.Users(), store.Todos(), func() {}, nil
	case "sqlite":
		db, err := sqlite.Open(cfg.Database.Path)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("open database: %w", err)
		}
		users := sqlite.NewUserRepository(db)
		todos := sqlite.NewTodoRepository(db)
		if err := users.Init(ctx); err != nil {
			db.Close()
			return nil, nil, nil, fmt.Errorf("init user repository: %w", err)
		}
		if err := todos.Init(ctx); err != nil {
			db.Close()
			return nil, nil, nil, fmt.Errorf("init todo repository: %w", err)
		}
		return users, todos, func() { db.Close() }, nil
	default:
		return nil, nil, nil, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}
}
