package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tutorhub/lessonbook/internal/model"
	"github.com/tutorhub/lessonbook/internal/repository/base"
)

type PackageRepository struct {
	pool *pgxpool.Pool
}

func NewPackageRepository(pool *pgxpool.Pool) *PackageRepository {
	return &PackageRepository{pool: pool}
}

// GetByID returns the package or (nil, nil) when absent.
func (r *PackageRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.LessonPackage, error) {
	query := `
		SELECT id, student_id, offering_id, lessons_total, lessons_remaining,
		       expires_at, status, purchased_at, updated_at
		FROM lesson_packages
		WHERE id = $1
	`

	var pkg model.LessonPackage
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&pkg.ID,
		&pkg.StudentID,
		&pkg.OfferingID,
		&pkg.LessonsTotal,
		&pkg.LessonsRemaining,
		&pkg.ExpiresAt,
		&pkg.Status,
		&pkg.PurchasedAt,
		&pkg.UpdatedAt,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get package by id: %w", err)
	}

	return &pkg, nil
}

// ConsumeLesson decrements lessons_remaining inside the booking transaction.
// The guard keeps the counter non-negative and only touches usable packages;
// a false return means the package could not pay for the lesson.
func (r *PackageRepository) ConsumeLesson(ctx context.Context, q base.Queryer, id uuid.UUID) (bool, error) {
	query := `
		UPDATE lesson_packages
		SET lessons_remaining = lessons_remaining - 1,
		    status = CASE WHEN lessons_remaining = 1 THEN 'exhausted' ELSE status END,
		    updated_at = now()
		WHERE id = $1
		  AND status = 'active'
		  AND lessons_remaining > 0
		  AND expires_at > now()
	`

	tag, err := q.Exec(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("consume package lesson: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// RestoreLesson gives a lesson back after a cancellation the policy engine
// ruled refundable. Runs in the cancelling transaction. An exhausted package
// becomes active again; an expired one keeps its balance but stays expired.
func (r *PackageRepository) RestoreLesson(ctx context.Context, q base.Queryer, id uuid.UUID) error {
	query := `
		UPDATE lesson_packages
		SET lessons_remaining = lessons_remaining + 1,
		    status = CASE WHEN status = 'exhausted' THEN 'active' ELSE status END,
		    updated_at = now()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("restore package lesson: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return model.NewNotFound("package")
	}

	return nil
}
