package app

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/tutorhub/lessonbook/internal/config"
	"github.com/tutorhub/lessonbook/internal/events"
	"github.com/tutorhub/lessonbook/internal/metrics"
	"github.com/tutorhub/lessonbook/internal/repository"
	"github.com/tutorhub/lessonbook/internal/service"
)

// App is the composition root: the wired booking core an embedding
// transport mounts its endpoints on.
type App struct {
	Pool         *pgxpool.Pool
	Bookings     *service.BookingService
	Availability *service.AvailabilityService
	Logger       *zap.Logger
}

// New connects to the database, applies migrations and wires the services.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	migrator, err := NewMigrator(pool, cfg.MigrationsPath)
	if err != nil {
		pool.Close()
		return nil, err
	}
	if err := migrator.Up(ctx); err != nil {
		migrator.Close()
		pool.Close()
		return nil, err
	}
	migrator.Close()

	bookingRepo := repository.NewBookingRepository(pool)
	availabilityRepo := repository.NewAvailabilityRepository(pool)
	packageRepo := repository.NewPackageRepository(pool)
	teacherRepo := repository.NewTeacherRepository(pool)
	offeringRepo := repository.NewOfferingRepository(pool)

	validator := service.NewBookingValidator(teacherRepo, bookingRepo, availabilityRepo, packageRepo)
	dispatcher := events.NewLogDispatcher(logger)

	metrics.Register()

	return &App{
		Pool: pool,
		Bookings: service.NewBookingService(
			pool, bookingRepo, packageRepo, teacherRepo, offeringRepo,
			validator, dispatcher, logger,
		),
		Availability: service.NewAvailabilityService(teacherRepo, availabilityRepo, logger),
		Logger:       logger,
	}, nil
}

// Close releases the database pool.
func (a *App) Close() {
	a.Pool.Close()
}
