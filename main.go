package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"guilt-meter/tracker-service/config"
	"guilt-meter/tracker-service/handlers"
	"guilt-meter/tracker-service/logging"
	"guilt-meter/tracker-service/presentation"
	"guilt-meter/tracker-service/reminders"
	"guilt-meter/tracker-service/repositories"
	"guilt-meter/tracker-service/routes"
	"guilt-meter/tracker-service/services"
)

func main() {
	if err := config.LoadEnvFile(".env"); err != nil {
		logging.Logger.Fatalf("Event ID: ENV_LOAD_ERROR, Description: Error loading .env file: %v", err)
	}
	cfg, err := config.Load()
	if err != nil {
		logging.Logger.Fatalf("Event ID: CONFIG_ERROR, Description: %v", err)
	}

	logging.InitLogger(cfg.LogFile, cfg.LogLevel)
	logging.Logger.Info("Event ID: SERVICE_START, Description: Starting Tracker Service...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	store, err := repositories.Open(ctx, cfg)
	cancel()
	if err != nil {
		logging.Logger.Fatalf("Event ID: DB_CONNECTION_FAILED, Description: Opening %s store failed: %v", cfg.StoreDriver, err)
	}
	logging.Logger.Infof("Event ID: DB_CONNECTED, Description: Using %s store", cfg.StoreDriver)

	breaker := services.NewStoreBreaker(cfg.BreakerMaxFailures, cfg.BreakerTimeout)
	mapper := presentation.NewMapper(nil)
	secret := []byte(cfg.JWTSecret)

	authService := services.NewAuthService(store, breaker, secret, cfg.JWTTTL)
	projectService := services.NewProjectService(store, breaker, mapper)
	taskService := services.NewTaskService(store, store, breaker)

	handler := routes.NewHandler(routes.Handlers{
		Auth:     handlers.NewAuthHandler(authService),
		Projects: handlers.NewProjectHandler(projectService),
		Tasks:    handlers.NewTaskHandler(taskService),
	}, secret, cfg.CORSOrigins)

	var reminder *reminders.DeadlineReminder
	if cfg.ReminderSchedule != "" {
		reminder = reminders.NewDeadlineReminder(store, mapper, cfg.ReminderWindow)
		if err := reminder.Start(cfg.ReminderSchedule); err != nil {
			logging.Logger.Fatalf("Event ID: REMINDER_SCHEDULE_ERROR, Description: %v", err)
		}
	}

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logging.Logger.Infof("Event ID: SERVER_START_INFO, Description: Server running on http://localhost%s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Logger.Fatalf("Event ID: SERVER_FATAL_ERROR, Description: Server failed to start: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	logging.Logger.Info("Event ID: SERVER_SHUTDOWN, Description: Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logging.Logger.Errorf("Event ID: SERVER_SHUTDOWN_ERROR, Description: %v", err)
	}
	if reminder != nil {
		reminder.Stop()
	}
	if err := store.Close(shutdownCtx); err != nil {
		logging.Logger.Errorf("Event ID: DB_CLOSE_ERROR, Description: %v", err)
	}
	logging.Logger.Info("Event ID: SERVICE_STOPPED, Description: Tracker Service stopped")
}
