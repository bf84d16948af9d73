package schedule

import (
	"time"

	"github.com/tutorhub/lessonbook/internal/model"
)

// Candidate is a booking interval projected into the teacher's timezone:
// the calendar facts availability rules are evaluated against.
type Candidate struct {
	Weekday     time.Weekday
	Date        time.Time // midnight in the teacher's location
	StartMinute int
	EndMinute   int // exclusive; 1440 for an interval ending exactly at midnight
}

// NewCandidate projects [start, end) into loc. The second return is false
// when an endpoint is not minute-aligned or the interval crosses midnight in
// loc: rule windows are minute-granular and never cross midnight, so such a
// candidate cannot match any rule.
func NewCandidate(start, end time.Time, loc *time.Location) (Candidate, bool) {
	ls := start.In(loc)
	le := end.In(loc)

	if !MinuteAligned(ls) || !MinuteAligned(le) {
		return Candidate{}, false
	}

	day := time.Date(ls.Year(), ls.Month(), ls.Day(), 0, 0, 0, 0, loc)
	nextDay := day.AddDate(0, 0, 1)

	endMinute := le.Hour()*60 + le.Minute()
	switch {
	case le.Equal(nextDay):
		// ends exactly at the following midnight
		endMinute = 24 * 60
	case le.Year() != ls.Year() || le.YearDay() != ls.YearDay():
		return Candidate{}, false
	}

	return Candidate{
		Weekday:     ls.Weekday(),
		Date:        day,
		StartMinute: ls.Hour()*60 + ls.Minute(),
		EndMinute:   endMinute,
	}, true
}

// RuleCovers reports whether an open rule matches the candidate: a recurring
// rule on the same weekday, or a one-off rule on the same date, whose window
// covers the candidate's minute-of-day span. Closed rules never match.
func RuleCovers(rule model.AvailabilityRule, c Candidate) bool {
	if !rule.Open {
		return false
	}
	if rule.StartMinute > c.StartMinute || c.EndMinute > rule.EndMinute {
		return false
	}
	switch rule.Kind {
	case model.RuleKindRecurring:
		return rule.Weekday != nil && *rule.Weekday == c.Weekday
	case model.RuleKindOneOff:
		return rule.Date != nil && sameDate(*rule.Date, c.Date)
	}
	return false
}

// Resolve decides availability for [start, end) against the teacher's rules,
// evaluated in loc. One-off and recurring rules are alternatives: available
// iff at least one open rule matches. There is no override precedence
// between the two kinds for the same date.
func Resolve(rules []model.AvailabilityRule, start, end time.Time, loc *time.Location) bool {
	c, ok := NewCandidate(start, end, loc)
	if !ok {
		return false
	}
	for _, rule := range rules {
		if RuleCovers(rule, c) {
			return true
		}
	}
	return false
}

func sameDate(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}
