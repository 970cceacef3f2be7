package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"barber-booking-server/internal/config"
	"barber-booking-server/internal/middleware"
	"barber-booking-server/internal/models"
	"barber-booking-server/internal/repository"
	"barber-booking-server/internal/routes"
	"barber-booking-server/internal/schedule"
	"barber-booking-server/internal/utils"
)

func main() {
	// A missing .env is fine; the environment may already be set.
	envErr := godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	logger, err := utils.NewLogger(cfg.IsProduction())
	if err != nil {
		log.Fatalf("Error initializing logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()
	if envErr != nil && !errors.Is(envErr, os.ErrNotExist) {
		logger.Warn("could not read .env file", zap.Error(envErr))
	}

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func openStore(cfg *config.Config, logger *zap.Logger) (repository.Store, error) {
	if cfg.StoreDriver == config.StoreMemory {
		logger.Warn("using in-memory store; records are lost on restart")
		return repository.NewMemoryStore(), nil
	}
	db, err := models.InitDB(models.DatabaseConfig{DSN: cfg.Database.DSN, Verbose: cfg.Database.Verbose})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	return repository.NewGormStore(db), nil
}

func run(cfg *config.Config, logger *zap.Logger) error {
	store, err := openStore(cfg, logger)
	if err != nil {
		return err
	}

	ctx := context.Background()
	if cfg.Admin.Email != "" {
		if _, err := repository.SeedAdmin(ctx, store, cfg.Admin.Email, cfg.Admin.Password); err != nil {
			return fmt.Errorf("seed admin: %w", err)
		}
	} else {
		logger.Warn("ADMIN_EMAIL not set; admin login is disabled until an account exists")
	}

	sc := cfg.Schedule
	grid, err := sc.Grid()
	if err != nil {
		return fmt.Errorf("time grid: %w", err)
	}
	engine := schedule.NewEngine(store, schedule.Options{
		Grid:     grid,
		Location: sc.Location,
		Defaults: schedule.StaticWindows{
			Weekday: schedule.Window{Start: sc.WeekdayOpen, End: sc.WeekdayClose},
			Weekend: schedule.Window{Start: sc.WeekendOpen, End: sc.WeekendClose},
		},
		ReserveDuration: sc.ReserveDuration,
	}, logger)

	for name, w := range map[string]schedule.Window{
		"weekday": {Start: sc.WeekdayOpen, End: sc.WeekdayClose},
		"weekend": {Start: sc.WeekendOpen, End: sc.WeekendClose},
	} {
		if err := engine.Policy.ValidateWindow(w); err != nil {
			logger.Error("default window does not fit the grid; that day class will show no slots",
				zap.String("class", name), zap.Error(err))
		}
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(middleware.RequestLogger(logger.Named("http")), middleware.Recovery(logger))

	// Configure CORS
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Origin}
	corsConfig.AllowCredentials = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	router.Use(cors.New(corsConfig))

	routes.SetupRoutes(router, store, engine, cfg, logger)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening",
			zap.String("port", cfg.Port),
			zap.String("store", cfg.StoreDriver),
			zap.String("timezone", sc.Location.String()),
			zap.Int("grid_slots", grid.Len()))
		errCh <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case sig := <-stop:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
