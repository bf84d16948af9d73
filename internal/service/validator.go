package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/tutorhub/lessonbook/internal/model"
	"github.com/tutorhub/lessonbook/internal/schedule"
)

// Narrow read interfaces over the repositories, so validation is testable
// without a database.
type teacherReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.TeacherProfile, error)
}

type overlapChecker interface {
	HasActiveOverlap(ctx context.Context, teacherID uuid.UUID, start, end time.Time, excludeID uuid.UUID) (bool, error)
}

type ruleSource interface {
	GetByTeacherID(ctx context.Context, teacherID uuid.UUID) ([]model.AvailabilityRule, error)
}

type packageReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.LessonPackage, error)
}

// CreateBookingRequest is the shape-validated input for a new booking.
type CreateBookingRequest struct {
	StudentID       uuid.UUID
	TeacherID       uuid.UUID
	OfferingID      uuid.UUID
	PackageID       *uuid.UUID
	Start           time.Time
	End             time.Time
	StudentTimezone string
	Type            model.BookingType
}

// BookingValidator runs every pre-mutation check for a proposed interval, in
// a fixed order: teacher verification, minimum notice, maximum advance,
// conflict, availability, then package checks. Nothing here mutates.
type BookingValidator struct {
	teachers teacherReader
	bookings overlapChecker
	rules    ruleSource
	packages packageReader
	now      func() time.Time
}

func NewBookingValidator(teachers teacherReader, bookings overlapChecker, rules ruleSource, packages packageReader) *BookingValidator {
	return &BookingValidator{
		teachers: teachers,
		bookings: bookings,
		rules:    rules,
		packages: packages,
		now:      time.Now,
	}
}

// ValidateCreate checks the full request and returns the teacher profile so
// the caller does not have to fetch it again.
func (v *BookingValidator) ValidateCreate(ctx context.Context, req CreateBookingRequest) (*model.TeacherProfile, error) {
	if !req.Type.Valid() {
		return nil, model.NewError(model.KindInvalidArgument, model.CodeInvalidArgument, "unknown booking type")
	}
	if !schedule.ValidInterval(req.Start, req.End) {
		return nil, model.NewError(model.KindInvalidArgument, model.CodeInvalidArgument, "end must be after start")
	}
	if !schedule.MinuteAligned(req.Start) || !schedule.MinuteAligned(req.End) {
		return nil, model.NewError(model.KindInvalidArgument, model.CodeInvalidArgument, "booking times must be minute-aligned")
	}

	teacher, err := v.teachers.GetByID(ctx, req.TeacherID)
	if err != nil {
		return nil, model.NewInternal(err)
	}
	if teacher == nil {
		return nil, model.NewNotFound("teacher")
	}
	if !teacher.Verified {
		return nil, model.NewError(model.KindTeacherNotVerified, model.CodeTeacherNotVerified,
			"teacher is not verified for bookings")
	}

	if err := v.checkNotice(teacher, req.Start); err != nil {
		return nil, err
	}
	if err := v.checkAdvance(teacher, req.Start); err != nil {
		return nil, err
	}
	if err := v.checkConflict(ctx, req.TeacherID, req.Start, req.End, uuid.Nil); err != nil {
		return nil, err
	}
	if err := v.checkAvailability(ctx, teacher, req.Start, req.End); err != nil {
		return nil, err
	}

	if req.Type == model.BookingTypePackage {
		if err := v.checkPackage(ctx, req.PackageID, req.StudentID); err != nil {
			return nil, err
		}
	}

	return teacher, nil
}

// ValidateReschedule re-runs the checks a moved interval needs: minimum
// notice and the conflict scan, with the booking itself excluded. The
// teacher's availability rules are not re-consulted.
func (v *BookingValidator) ValidateReschedule(ctx context.Context, booking *model.Booking, newStart, newEnd time.Time) error {
	if !schedule.ValidInterval(newStart, newEnd) {
		return model.NewError(model.KindInvalidArgument, model.CodeInvalidArgument, "end must be after start")
	}
	if !schedule.MinuteAligned(newStart) || !schedule.MinuteAligned(newEnd) {
		return model.NewError(model.KindInvalidArgument, model.CodeInvalidArgument, "booking times must be minute-aligned")
	}

	teacher, err := v.teachers.GetByID(ctx, booking.TeacherID)
	if err != nil {
		return model.NewInternal(err)
	}
	if teacher == nil {
		return model.NewNotFound("teacher")
	}

	if err := v.checkNotice(teacher, newStart); err != nil {
		return err
	}
	return v.checkConflict(ctx, booking.TeacherID, newStart, newEnd, booking.ID)
}

func (v *BookingValidator) checkNotice(teacher *model.TeacherProfile, start time.Time) error {
	earliest := v.now().Add(time.Duration(teacher.MinNoticeHours) * time.Hour)
	if start.Before(earliest) {
		return model.NewError(model.KindPolicyViolation, model.CodeInsufficientNotice,
			"lesson must start at least the teacher's notice window from now")
	}
	return nil
}

func (v *BookingValidator) checkAdvance(teacher *model.TeacherProfile, start time.Time) error {
	latest := v.now().Add(time.Duration(teacher.MaxAdvanceDays) * 24 * time.Hour)
	if start.After(latest) {
		return model.NewError(model.KindPolicyViolation, model.CodeBookingTooFarAhead,
			"lesson starts beyond the teacher's advance window")
	}
	return nil
}

func (v *BookingValidator) checkConflict(ctx context.Context, teacherID uuid.UUID, start, end time.Time, excludeID uuid.UUID) error {
	conflict, err := v.bookings.HasActiveOverlap(ctx, teacherID, start, end, excludeID)
	if err != nil {
		return model.NewInternal(err)
	}
	if conflict {
		return model.NewError(model.KindSchedulingConflict, model.CodeSlotNotAvailable,
			"the teacher already has a booking in this interval")
	}
	return nil
}

func (v *BookingValidator) checkAvailability(ctx context.Context, teacher *model.TeacherProfile, start, end time.Time) error {
	rules, err := v.rules.GetByTeacherID(ctx, teacher.ID)
	if err != nil {
		return model.NewInternal(err)
	}
	if !schedule.Resolve(rules, start, end, teacher.Location()) {
		return model.NewError(model.KindSchedulingConflict, model.CodeTeacherNotAvailable,
			"no availability rule covers the requested interval")
	}
	return nil
}

func (v *BookingValidator) checkPackage(ctx context.Context, packageID *uuid.UUID, studentID uuid.UUID) error {
	if packageID == nil {
		return model.NewError(model.KindPackageError, model.CodeInvalidPackage,
			"package booking requires a package")
	}

	pkg, err := v.packages.GetByID(ctx, *packageID)
	if err != nil {
		return model.NewInternal(err)
	}

	if pkg == nil || pkg.StudentID != studentID {
		return model.NewError(model.KindPackageError, model.CodeInvalidPackage,
			"package does not exist or does not belong to the student")
	}
	if pkg.Usable(v.now()) {
		return nil
	}

	// name the first failed condition of Usable
	switch {
	case pkg.Status != model.PackageStatusActive:
		return model.NewError(model.KindPackageError, model.CodeInvalidPackage,
			"package is not active")
	case pkg.LessonsRemaining <= 0:
		return model.NewError(model.KindPackageError, model.CodePackageExhausted,
			"package has no lessons remaining")
	default:
		return model.NewError(model.KindPackageError, model.CodePackageExpired,
			"package has expired")
	}
}
