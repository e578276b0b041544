package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/fitlog-api/internal/config"
	"github.com/phrazzld/fitlog-api/internal/platform/mail"
	"github.com/phrazzld/fitlog-api/internal/platform/metrics"
	"github.com/phrazzld/fitlog-api/internal/platform/postgres"
	"github.com/phrazzld/fitlog-api/internal/service"
	"github.com/phrazzld/fitlog-api/internal/service/auth"
	"github.com/phrazzld/fitlog-api/internal/store"
	"github.com/phrazzld/fitlog-api/internal/task"
)

// application holds the shared dependencies of the server so they can be
// wired once and released together on shutdown.
type application struct {
	config *config.Config

	logger  *slog.Logger
	db      *sql.DB
	metrics *metrics.Metrics

	userStore     store.UserStore
	exerciseStore store.ExerciseStore
	workoutStore  store.WorkoutStore
	taskStore     task.TaskStore

	jwtService auth.JWTService

	authService     service.AuthService
	exerciseService service.ExerciseService
	workoutService  service.WorkoutService

	taskRunner *task.TaskRunner
}

// newApplication wires every component from cfg. The database connection is
// established by the caller and owned by the returned application.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config:  cfg,
		logger:  logger,
		db:      db,
		metrics: metrics.New(),
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		slog.Int("token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes),
		slog.Int("confirmation_lifetime_minutes", cfg.Auth.ConfirmationLifetimeMinutes))

	app.userStore = postgres.NewPostgresUserStore(db, logger)
	app.exerciseStore = postgres.NewPostgresExerciseStore(db, logger)
	app.workoutStore = postgres.NewPostgresWorkoutStore(db, logger)
	app.taskStore = postgres.NewPostgresTaskStore(db, logger)

	confirmationDeps := &task.ConfirmationEmailDeps{
		Sender:        mail.NewSender(cfg.Mail, logger),
		FrontendURL:   cfg.Mail.FrontendURL,
		TokenLifetime: cfg.Auth.ConfirmationLifetime(),
	}

	app.taskRunner, err = setupTaskRunner(ctx, app, confirmationDeps)
	if err != nil {
		return nil, fmt.Errorf("failed to setup task runner: %w", err)
	}

	app.authService, err = service.NewAuthService(service.AuthServiceDeps{
		DB:            db,
		Users:         app.userStore,
		Tokens:        app.jwtService,
		Hasher:        auth.NewArgon2idHasher(cfg.Auth.Argon2),
		Mailer:        task.NewConfirmationMailer(app.taskRunner, confirmationDeps),
		Metrics:       app.metrics,
		Logger:        logger,
		TokenLifetime: cfg.Auth.TokenLifetime(),
	})
	if err != nil {
		app.taskRunner.Stop()
		return nil, fmt.Errorf("failed to create auth service: %w", err)
	}

	app.exerciseService, err = service.NewExerciseService(db, app.exerciseStore, logger)
	if err != nil {
		app.taskRunner.Stop()
		return nil, fmt.Errorf("failed to create exercise service: %w", err)
	}

	app.workoutService, err = service.NewWorkoutService(db, app.workoutStore, app.exerciseStore, logger)
	if err != nil {
		app.taskRunner.Stop()
		return nil, fmt.Errorf("failed to create workout service: %w", err)
	}

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run serves HTTP until ctx is cancelled and then releases all resources.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// setupTaskRunner registers the task types and starts the workers. Start
// requeues tasks left over from a previous run.
func setupTaskRunner(ctx context.Context, app *application, deps *task.ConfirmationEmailDeps) (*task.TaskRunner, error) {
	registry := task.NewRegistry()
	registry.Register(task.TaskTypeConfirmationEmail, deps.Factory())

	runner := task.NewTaskRunner(app.taskStore, registry, task.TaskRunnerConfig{
		QueueSize:    app.config.Task.QueueSize,
		WorkerCount:  app.config.Task.WorkerCount,
		StuckTaskAge: app.config.Task.StuckTaskAge(),
	}, app.logger)

	if err := runner.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start task runner: %w", err)
	}

	return runner, nil
}

// cleanup stops background work and closes the database.
func (app *application) cleanup() {
	if app.taskRunner != nil {
		app.taskRunner.Stop()
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", slog.String("error", err.Error()))
		}
	}

	app.logger.Info("Application shutdown completed")
}
