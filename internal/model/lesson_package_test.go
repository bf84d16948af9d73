package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLessonPackage_Usable(t *testing.T) {
	now := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	future := now.Add(30 * 24 * time.Hour)

	tests := []struct {
		name   string
		pkg    LessonPackage
		usable bool
	}{
		{
			name:   "active with balance",
			pkg:    LessonPackage{Status: PackageStatusActive, LessonsRemaining: 3, ExpiresAt: future},
			usable: true,
		},
		{
			name:   "no lessons remaining",
			pkg:    LessonPackage{Status: PackageStatusActive, LessonsRemaining: 0, ExpiresAt: future},
			usable: false,
		},
		{
			name:   "expired",
			pkg:    LessonPackage{Status: PackageStatusActive, LessonsRemaining: 3, ExpiresAt: now.Add(-time.Hour)},
			usable: false,
		},
		{
			name:   "expires exactly now",
			pkg:    LessonPackage{Status: PackageStatusActive, LessonsRemaining: 3, ExpiresAt: now},
			usable: false,
		},
		{
			name:   "exhausted status",
			pkg:    LessonPackage{Status: PackageStatusExhausted, LessonsRemaining: 1, ExpiresAt: future},
			usable: false,
		},
		{
			name:   "cancelled status",
			pkg:    LessonPackage{Status: PackageStatusCancelled, LessonsRemaining: 3, ExpiresAt: future},
			usable: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.usable, tt.pkg.Usable(now))
		})
	}
}
