package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func TestDateDiffDays(t *testing.T) {
	tests := []struct {
		name string
		a, b time.Time
		want int
	}{
		{"same day", date(2024, 3, 15), date(2024, 3, 15), 0},
		{"two days later", date(2024, 3, 17), date(2024, 3, 15), 2},
		{"two days earlier", date(2024, 3, 13), date(2024, 3, 15), 2},
		{"across month boundary", date(2024, 4, 2), date(2024, 3, 28), 5},
		{"across year boundary", date(2025, 1, 2), date(2024, 12, 30), 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DateDiffDays(tt.a, tt.b))
		})
	}
}
