package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func at(hour, min int) time.Time {
	return time.Date(2026, 3, 2, hour, min, 0, 0, time.UTC)
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name    string
		aStart  time.Time
		aEnd    time.Time
		bStart  time.Time
		bEnd    time.Time
		overlap bool
	}{
		{
			name:   "partial overlap",
			aStart: at(10, 0), aEnd: at(11, 0),
			bStart: at(10, 30), bEnd: at(11, 30),
			overlap: true,
		},
		{
			name:   "full containment",
			aStart: at(9, 0), aEnd: at(12, 0),
			bStart: at(10, 0), bEnd: at(11, 0),
			overlap: true,
		},
		{
			name:   "identical intervals",
			aStart: at(10, 0), aEnd: at(11, 0),
			bStart: at(10, 0), bEnd: at(11, 0),
			overlap: true,
		},
		{
			name:   "touching boundaries do not overlap",
			aStart: at(10, 0), aEnd: at(11, 0),
			bStart: at(11, 0), bEnd: at(12, 0),
			overlap: false,
		},
		{
			name:   "disjoint",
			aStart: at(8, 0), aEnd: at(9, 0),
			bStart: at(11, 0), bEnd: at(12, 0),
			overlap: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.overlap, Overlaps(tt.aStart, tt.aEnd, tt.bStart, tt.bEnd))
			// overlap is symmetric
			assert.Equal(t, tt.overlap, Overlaps(tt.bStart, tt.bEnd, tt.aStart, tt.aEnd))
		})
	}
}

func TestValidInterval(t *testing.T) {
	assert.True(t, ValidInterval(at(10, 0), at(11, 0)))
	assert.False(t, ValidInterval(at(11, 0), at(10, 0)))
	assert.False(t, ValidInterval(at(10, 0), at(10, 0)))
}
