package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tutorhub/lessonbook/internal/model"
	"github.com/tutorhub/lessonbook/internal/repository/base"
)

type TeacherRepository struct {
	pool *pgxpool.Pool
}

func NewTeacherRepository(pool *pgxpool.Pool) *TeacherRepository {
	return &TeacherRepository{pool: pool}
}

// GetByID returns the teacher profile or (nil, nil) when absent.
func (r *TeacherRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.TeacherProfile, error) {
	query := `
		SELECT id, display_name, verified, min_notice_hours, max_advance_days,
		       cancellation_policy, timezone, lessons_completed, created_at, updated_at
		FROM teacher_profiles
		WHERE id = $1
	`

	var teacher model.TeacherProfile
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&teacher.ID,
		&teacher.DisplayName,
		&teacher.Verified,
		&teacher.MinNoticeHours,
		&teacher.MaxAdvanceDays,
		&teacher.CancellationPolicy,
		&teacher.Timezone,
		&teacher.LessonsCompleted,
		&teacher.CreatedAt,
		&teacher.UpdatedAt,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get teacher by id: %w", err)
	}

	return &teacher, nil
}

// CreditCompletedLesson bumps the lifetime counter. Runs in the same
// transaction as the booking's completed transition, never outside it.
func (r *TeacherRepository) CreditCompletedLesson(ctx context.Context, q base.Queryer, id uuid.UUID) error {
	query := `
		UPDATE teacher_profiles
		SET lessons_completed = lessons_completed + 1, updated_at = now()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("credit completed lesson: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return model.NewNotFound("teacher")
	}

	return nil
}
