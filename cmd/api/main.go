package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/farm-operations-api/internal/auth"
	"github.com/farm-operations-api/internal/config"
	"github.com/farm-operations-api/internal/database"
	"github.com/farm-operations-api/internal/handler"
	"github.com/farm-operations-api/internal/repository"
	"github.com/farm-operations-api/internal/service"
	"github.com/joho/godotenv"
)

func main() {
	// Инициализация логгера
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// .env необязателен, переменные окружения имеют приоритет
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warn("failed to load .env file", slog.Any("error", err))
	}

	// Загрузка конфигурации
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", slog.Any("error", err))
		os.Exit(1)
	}

	// Подключение к БД
	db, err := database.Open(cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Error("failed to get sql.DB", slog.Any("error", err))
		os.Exit(1)
	}
	defer sqlDB.Close()

	ctx := context.Background()

	// Запуск миграций
	if err := database.Migrate(ctx, db); err != nil {
		logger.Error("failed to run migrations", slog.Any("error", err))
		os.Exit(1)
	}

	hasher := auth.NewPasswordHasher(cfg.Auth.BcryptCost)
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	if cfg.Seed.Enabled {
		if err := database.Seed(ctx, db, cfg.Seed, hasher.Hash); err != nil {
			logger.Error("failed to seed defaults", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("default data seeded", slog.String("owner", cfg.Seed.OwnerUsername))
	}

	// Инициализация репозиториев
	deptRepo := repository.NewDepartmentRepository(db)
	userRepo := repository.NewUserRepository(db)
	empRepo := repository.NewEmployeeRepository(db)
	toolRepo := repository.NewToolRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	assignRepo := repository.NewAssignmentRepository(db)
	dashRepo := repository.NewDashboardRepository(db)

	// Инициализация сервисов
	authService := service.NewAuthService(userRepo, deptRepo, hasher, tokens, logger)
	deptService := service.NewDepartmentService(deptRepo)
	empService := service.NewEmployeeService(empRepo, deptRepo)
	toolService := service.NewToolService(toolRepo, deptRepo)
	taskService := service.NewTaskService(taskRepo, deptRepo)
	assignService := service.NewAssignmentService(assignRepo)
	dashService := service.NewDashboardService(dashRepo)

	// Инициализация хендлеров
	handlers := handler.Handlers{
		Auth:        handler.NewAuthHandler(authService, logger),
		Departments: handler.NewDepartmentHandler(deptService, dashService, logger),
		Employees:   handler.NewEmployeeHandler(empService, logger),
		Tools:       handler.NewToolHandler(toolService, logger),
		Tasks:       handler.NewTaskHandler(taskService, logger),
		Assignments: handler.NewAssignmentHandler(assignService, logger),
		Dashboard:   handler.NewDashboardHandler(dashService, logger),
		Health: handler.NewHealthHandler(func(ctx context.Context) error {
			return database.Ping(ctx, db)
		}, logger),
	}

	// Настройка роутера
	router := handler.NewRouter(handlers, tokens, handler.Options{
		RequestTimeout: cfg.Server.RequestTimeout,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	}, logger)
	httpHandler := router.Setup()

	// Настройка HTTP сервера
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      httpHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.Server.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	done := make(chan bool)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		logger.Info("server is shutting down...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Error("could not gracefully shutdown the server", slog.Any("error", err))
		}
		close(done)
	}()

	logger.Info("server is starting",
		slog.String("port", cfg.Server.Port),
		slog.String("db_driver", cfg.Database.Driver),
	)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("could not listen on port", slog.String("port", cfg.Server.Port), slog.Any("error", err))
		os.Exit(1)
	}

	<-done
	logger.Info("server stopped")
}
