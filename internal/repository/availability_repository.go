package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tutorhub/lessonbook/internal/model"
)

type AvailabilityRepository struct {
	pool *pgxpool.Pool
}

func NewAvailabilityRepository(pool *pgxpool.Pool) *AvailabilityRepository {
	return &AvailabilityRepository{pool: pool}
}

// Create stores a new availability rule.
func (r *AvailabilityRepository) Create(ctx context.Context, rule *model.AvailabilityRule) error {
	query := `
		INSERT INTO availability_rules (teacher_id, kind, weekday, date, start_minute, end_minute, open)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	var weekday *int
	if rule.Weekday != nil {
		w := int(*rule.Weekday)
		weekday = &w
	}

	err := r.pool.QueryRow(
		ctx, query,
		rule.TeacherID,
		rule.Kind,
		weekday,
		rule.Date,
		rule.StartMinute,
		rule.EndMinute,
		rule.Open,
	).Scan(&rule.ID, &rule.CreatedAt, &rule.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create availability rule: %w", err)
	}

	return nil
}

// GetByTeacherID returns every rule of the teacher. The resolver filters;
// the rule set per teacher is small enough to load whole.
func (r *AvailabilityRepository) GetByTeacherID(ctx context.Context, teacherID uuid.UUID) ([]model.AvailabilityRule, error) {
	query := `
		SELECT id, teacher_id, kind, weekday, date, start_minute, end_minute, open, created_at, updated_at
		FROM availability_rules
		WHERE teacher_id = $1
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query, teacherID)
	if err != nil {
		return nil, fmt.Errorf("get availability rules: %w", err)
	}
	defer rows.Close()

	var rules []model.AvailabilityRule
	for rows.Next() {
		var rule model.AvailabilityRule
		var weekday *int
		var date *time.Time

		err := rows.Scan(
			&rule.ID,
			&rule.TeacherID,
			&rule.Kind,
			&weekday,
			&date,
			&rule.StartMinute,
			&rule.EndMinute,
			&rule.Open,
			&rule.CreatedAt,
			&rule.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan availability rule: %w", err)
		}

		if weekday != nil {
			w := time.Weekday(*weekday)
			rule.Weekday = &w
		}
		rule.Date = date

		rules = append(rules, rule)
	}

	return rules, rows.Err()
}

// Delete removes a rule owned by the teacher.
func (r *AvailabilityRepository) Delete(ctx context.Context, teacherID uuid.UUID, ruleID int64) error {
	query := `DELETE FROM availability_rules WHERE id = $1 AND teacher_id = $2`

	tag, err := r.pool.Exec(ctx, query, ruleID, teacherID)
	if err != nil {
		return fmt.Errorf("delete availability rule: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return model.NewNotFound("availability rule")
	}

	return nil
}

// SetOpen flips a rule between open and closed without recreating it.
func (r *AvailabilityRepository) SetOpen(ctx context.Context, teacherID uuid.UUID, ruleID int64, open bool) error {
	query := `
		UPDATE availability_rules
		SET open = $1, updated_at = now()
		WHERE id = $2 AND teacher_id = $3
	`

	tag, err := r.pool.Exec(ctx, query, open, ruleID, teacherID)
	if err != nil {
		return fmt.Errorf("set availability rule open: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return model.NewNotFound("availability rule")
	}

	return nil
}
