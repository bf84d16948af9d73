package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tutorhub/lessonbook/internal/model"
	"github.com/tutorhub/lessonbook/internal/repository"
	"github.com/tutorhub/lessonbook/internal/schedule"
)

// AvailabilityService manages a teacher's availability rules and answers
// whether a candidate interval is open.
type AvailabilityService struct {
	teachers *repository.TeacherRepository
	rules    *repository.AvailabilityRepository
	logger   *zap.Logger
}

func NewAvailabilityService(teachers *repository.TeacherRepository, rules *repository.AvailabilityRepository, logger *zap.Logger) *AvailabilityService {
	return &AvailabilityService{teachers: teachers, rules: rules, logger: logger}
}

// AddRule stores a new rule for the teacher after shape checks: a recurring
// rule needs a weekday, a one-off rule a date, and the window must be a
// proper same-day minute span.
func (s *AvailabilityService) AddRule(ctx context.Context, rule *model.AvailabilityRule) error {
	if err := validateRule(rule); err != nil {
		return err
	}

	teacher, err := s.teachers.GetByID(ctx, rule.TeacherID)
	if err != nil {
		return model.NewInternal(err)
	}
	if teacher == nil {
		return model.NewNotFound("teacher")
	}

	if err := s.rules.Create(ctx, rule); err != nil {
		return model.NewInternal(err)
	}

	s.logger.Info("Availability rule added",
		zap.Int64("rule_id", rule.ID),
		zap.String("teacher_id", rule.TeacherID.String()),
		zap.String("kind", string(rule.Kind)),
		zap.Bool("open", rule.Open),
	)

	return nil
}

// RemoveRule deletes a rule owned by the teacher.
func (s *AvailabilityService) RemoveRule(ctx context.Context, teacherID uuid.UUID, ruleID int64) error {
	return s.rules.Delete(ctx, teacherID, ruleID)
}

// SetRuleOpen flips a rule between open and closed.
func (s *AvailabilityService) SetRuleOpen(ctx context.Context, teacherID uuid.UUID, ruleID int64, open bool) error {
	return s.rules.SetOpen(ctx, teacherID, ruleID, open)
}

// GetRules returns every rule of the teacher.
func (s *AvailabilityService) GetRules(ctx context.Context, teacherID uuid.UUID) ([]model.AvailabilityRule, error) {
	return s.rules.GetByTeacherID(ctx, teacherID)
}

// IsAvailable resolves a candidate interval against the teacher's rules in
// the teacher's timezone. One-off and recurring rules are alternatives.
func (s *AvailabilityService) IsAvailable(ctx context.Context, teacherID uuid.UUID, start, end time.Time) (bool, error) {
	teacher, err := s.teachers.GetByID(ctx, teacherID)
	if err != nil {
		return false, model.NewInternal(err)
	}
	if teacher == nil {
		return false, model.NewNotFound("teacher")
	}

	rules, err := s.rules.GetByTeacherID(ctx, teacherID)
	if err != nil {
		return false, model.NewInternal(err)
	}

	return schedule.Resolve(rules, start, end, teacher.Location()), nil
}

func validateRule(rule *model.AvailabilityRule) error {
	const minutesPerDay = 24 * 60

	if rule.StartMinute < 0 || rule.EndMinute > minutesPerDay || rule.StartMinute >= rule.EndMinute {
		return model.NewError(model.KindInvalidArgument, model.CodeInvalidArgument,
			"rule window must be a proper same-day minute span")
	}

	switch rule.Kind {
	case model.RuleKindRecurring:
		if rule.Weekday == nil {
			return model.NewError(model.KindInvalidArgument, model.CodeInvalidArgument,
				"recurring rule requires a weekday")
		}
	case model.RuleKindOneOff:
		if rule.Date == nil {
			return model.NewError(model.KindInvalidArgument, model.CodeInvalidArgument,
				"one-off rule requires a date")
		}
	default:
		return model.NewError(model.KindInvalidArgument, model.CodeInvalidArgument,
			"unknown rule kind")
	}

	return nil
}
