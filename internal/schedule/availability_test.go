package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutorhub/lessonbook/internal/model"
)

func weekdayPtr(w time.Weekday) *time.Weekday { return &w }

func datePtr(year int, month time.Month, d int) *time.Time {
	t := time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func recurring(w time.Weekday, startMin, endMin int, open bool) model.AvailabilityRule {
	return model.AvailabilityRule{
		Kind:        model.RuleKindRecurring,
		Weekday:     weekdayPtr(w),
		StartMinute: startMin,
		EndMinute:   endMin,
		Open:        open,
	}
}

func oneOff(year int, month time.Month, d, startMin, endMin int, open bool) model.AvailabilityRule {
	return model.AvailabilityRule{
		Kind:        model.RuleKindOneOff,
		Date:        datePtr(year, month, d),
		StartMinute: startMin,
		EndMinute:   endMin,
		Open:        open,
	}
}

func TestNewCandidate(t *testing.T) {
	// 2026-03-02 is a Monday
	start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 2, 11, 30, 0, 0, time.UTC)

	c, ok := NewCandidate(start, end, time.UTC)
	require.True(t, ok)
	assert.Equal(t, time.Monday, c.Weekday)
	assert.Equal(t, 10*60, c.StartMinute)
	assert.Equal(t, 11*60+30, c.EndMinute)
}

func TestNewCandidate_EndsAtMidnight(t *testing.T) {
	start := time.Date(2026, 3, 2, 22, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)

	c, ok := NewCandidate(start, end, time.UTC)
	require.True(t, ok)
	assert.Equal(t, 24*60, c.EndMinute)
}

func TestNewCandidate_SubMinuteEndpoints(t *testing.T) {
	start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 2, 10, 30, 30, 0, time.UTC)

	_, ok := NewCandidate(start, end, time.UTC)
	assert.False(t, ok)
}

func TestNewCandidate_CrossesMidnight(t *testing.T) {
	start := time.Date(2026, 3, 2, 23, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 3, 1, 0, 0, 0, time.UTC)

	_, ok := NewCandidate(start, end, time.UTC)
	assert.False(t, ok)
}

func TestNewCandidate_TimezoneProjection(t *testing.T) {
	// 18:00 UTC on Monday is 03:00 Tuesday in Tokyo
	loc, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	start := time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 2, 19, 0, 0, 0, time.UTC)

	c, ok := NewCandidate(start, end, loc)
	require.True(t, ok)
	assert.Equal(t, time.Tuesday, c.Weekday)
	assert.Equal(t, 3*60, c.StartMinute)
}

func TestResolve(t *testing.T) {
	// 2026-03-02 is a Monday
	start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 2, 11, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		rules     []model.AvailabilityRule
		available bool
	}{
		{
			name:      "no rules",
			rules:     nil,
			available: false,
		},
		{
			name: "recurring rule covers candidate",
			rules: []model.AvailabilityRule{
				recurring(time.Monday, 9*60, 17*60, true),
			},
			available: true,
		},
		{
			name: "recurring rule on wrong weekday",
			rules: []model.AvailabilityRule{
				recurring(time.Tuesday, 9*60, 17*60, true),
			},
			available: false,
		},
		{
			name: "recurring window too short",
			rules: []model.AvailabilityRule{
				recurring(time.Monday, 10*60+30, 17*60, true),
			},
			available: false,
		},
		{
			name: "window matching exactly",
			rules: []model.AvailabilityRule{
				recurring(time.Monday, 10*60, 11*60, true),
			},
			available: true,
		},
		{
			name: "closed recurring rule never matches",
			rules: []model.AvailabilityRule{
				recurring(time.Monday, 9*60, 17*60, false),
			},
			available: false,
		},
		{
			name: "one-off rule covers candidate date",
			rules: []model.AvailabilityRule{
				oneOff(2026, 3, 2, 9*60, 12*60, true),
			},
			available: true,
		},
		{
			name: "one-off rule on another date",
			rules: []model.AvailabilityRule{
				oneOff(2026, 3, 3, 9*60, 12*60, true),
			},
			available: false,
		},
		{
			name: "rules are alternatives: closed one-off does not suppress recurring",
			rules: []model.AvailabilityRule{
				oneOff(2026, 3, 2, 0, 24*60, false),
				recurring(time.Monday, 9*60, 17*60, true),
			},
			available: true,
		},
		{
			name: "one-off opens a date the recurring rules miss",
			rules: []model.AvailabilityRule{
				recurring(time.Friday, 9*60, 17*60, true),
				oneOff(2026, 3, 2, 10*60, 11*60, true),
			},
			available: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.available, Resolve(tt.rules, start, end, time.UTC))
		})
	}
}

func TestResolve_SubMinuteEndNeverFitsWindow(t *testing.T) {
	rules := []model.AvailabilityRule{
		recurring(time.Monday, 10*60, 10*60+30, true),
	}

	// ends 30 seconds past the window's closing minute
	start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 2, 10, 30, 30, 0, time.UTC)

	assert.False(t, Resolve(rules, start, end, time.UTC))
}

func TestResolve_MidnightCandidateNeverMatches(t *testing.T) {
	rules := []model.AvailabilityRule{
		recurring(time.Monday, 0, 24*60, true),
		recurring(time.Tuesday, 0, 24*60, true),
	}

	start := time.Date(2026, 3, 2, 23, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 3, 1, 0, 0, 0, time.UTC)

	assert.False(t, Resolve(rules, start, end, time.UTC))
}
