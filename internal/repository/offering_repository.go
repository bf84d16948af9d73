package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tutorhub/lessonbook/internal/model"
	"github.com/tutorhub/lessonbook/internal/repository/base"
)

type OfferingRepository struct {
	pool *pgxpool.Pool
}

func NewOfferingRepository(pool *pgxpool.Pool) *OfferingRepository {
	return &OfferingRepository{pool: pool}
}

// GetByID returns the offering or (nil, nil) when absent.
func (r *OfferingRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.SubjectOffering, error) {
	query := `
		SELECT id, teacher_id, name, description, price_per_hour, duration_minutes, is_active, created_at
		FROM subject_offerings
		WHERE id = $1
	`

	var offering model.SubjectOffering
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&offering.ID,
		&offering.TeacherID,
		&offering.Name,
		&offering.Description,
		&offering.PricePerHour,
		&offering.DurationMinutes,
		&offering.IsActive,
		&offering.CreatedAt,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get offering by id: %w", err)
	}

	return &offering, nil
}

// GetActiveByTeacherID returns the teacher's bookable offerings.
func (r *OfferingRepository) GetActiveByTeacherID(ctx context.Context, teacherID uuid.UUID) ([]*model.SubjectOffering, error) {
	query := `
		SELECT id, teacher_id, name, description, price_per_hour, duration_minutes, is_active, created_at
		FROM subject_offerings
		WHERE teacher_id = $1 AND is_active
		ORDER BY name
	`

	rows, err := r.pool.Query(ctx, query, teacherID)
	if err != nil {
		return nil, fmt.Errorf("get offerings by teacher: %w", err)
	}
	defer rows.Close()

	var offerings []*model.SubjectOffering
	for rows.Next() {
		var offering model.SubjectOffering
		err := rows.Scan(
			&offering.ID,
			&offering.TeacherID,
			&offering.Name,
			&offering.Description,
			&offering.PricePerHour,
			&offering.DurationMinutes,
			&offering.IsActive,
			&offering.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan offering: %w", err)
		}
		offerings = append(offerings, &offering)
	}

	return offerings, rows.Err()
}
