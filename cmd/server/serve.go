package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/yukikurage/crew-scheduling-api/internal/constants"
	"github.com/yukikurage/crew-scheduling-api/internal/coordinator"
	"github.com/yukikurage/crew-scheduling-api/internal/database"
	"github.com/yukikurage/crew-scheduling-api/internal/handlers"
	"github.com/yukikurage/crew-scheduling-api/internal/middleware"
	"github.com/yukikurage/crew-scheduling-api/internal/repository"
	"github.com/yukikurage/crew-scheduling-api/internal/services"
	"github.com/yukikurage/crew-scheduling-api/internal/storeclient"
)

const shutdownPeriod = 10 * time.Second

func serve(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gin.SetMode(cfg.GinMode)

	if err := database.Connect(cfg, log); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	db := database.GetDB()
	if err := database.Migrate(db, log); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Sessions hold conflicted create batches until they are resolved.
	store, err := redisStore.NewStore(
		10,    // Redis pool size
		"tcp", // network type
		cfg.RedisAddr(),
		"", // username (empty for default user)
		"", // password (empty = no password)
		[]byte(cfg.SessionSecret),
	)
	if err != nil {
		return fmt.Errorf("failed to create Redis store: %w", err)
	}
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400, // 1 day
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})

	taskRepo := repository.NewCrewTaskRepository(db)
	driverRepo := repository.NewDriverRepository(db)
	vehicleRepo := repository.NewVehicleRepository(db)

	taskService := services.NewCrewTaskService(taskRepo, log.Named("tasks"))
	driverService := services.NewDriverService(driverRepo, taskRepo, log.Named("drivers"))
	scheduleService := services.NewScheduleService(taskRepo, driverRepo, log.Named("schedule"))
	vehicleService := services.NewVehicleService(vehicleRepo, log.Named("vehicles"))

	taskStore, err := newTaskStore(taskService)
	if err != nil {
		return err
	}
	coord := coordinator.New(taskStore, driverService, coordinator.Config{
		StoreTimeout: cfg.StoreTimeout,
		Logger:       log.Named("coordinator"),
	})

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(log.Named("http")), middleware.Recovery(log))
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	handlers.RegisterRoutes(r, handlers.Handlers{
		Tasks:       handlers.NewTaskHandler(taskService, log),
		Schedule:    handlers.NewScheduleHandler(scheduleService, log),
		Assignments: handlers.NewAssignmentHandler(coord, log),
		Drivers:     handlers.NewDriverHandler(driverService, log),
		Vehicles:    handlers.NewVehicleHandler(vehicleService, log),
		TaskFinder:  taskService,
	})

	srv := &http.Server{
		Addr: cfg.HTTPAddr,
		Handler: cors.New(cors.Options{
			AllowedOrigins: cfg.AllowedOrigins,
			AllowedMethods: []string{
				http.MethodGet, http.MethodPost, http.MethodPut,
				http.MethodPatch, http.MethodDelete, http.MethodOptions,
			},
			AllowedHeaders:   []string{"Content-Type", constants.HeaderRequestID},
			ExposedHeaders:   []string{constants.HeaderRequestID},
			AllowCredentials: true,
		}).Handler(r),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", zap.String("addr", cfg.HTTPAddr), zap.String("gin_mode", cfg.GinMode))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down, waiting for in-flight requests")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownPeriod)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	log.Info("graceful shutdown complete")
	return nil
}

// newTaskStore picks the remote task store when STORE_BASE_URL is set and
// the in-process one otherwise.
func newTaskStore(tasks *services.CrewTaskService) (coordinator.TaskStore, error) {
	if cfg.StoreBaseURL == "" {
		return services.NewLocalTaskStore(tasks), nil
	}

	client, err := storeclient.New(cfg.StoreBaseURL, storeclient.WithLogger(log.Named("storeclient")))
	if err != nil {
		return nil, fmt.Errorf("invalid STORE_BASE_URL: %w", err)
	}
	log.Info("using remote task store", zap.String("base_url", cfg.StoreBaseURL))
	return client, nil
}
