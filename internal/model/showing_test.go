package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestShowingEnd(t *testing.T) {
	start := time.Date(2026, 3, 14, 20, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		durationMin uint32
		want        time.Time
	}{
		{"feature length", 137, start.Add(137 * time.Minute)},
		{"crosses midnight", 300, time.Date(2026, 3, 15, 1, 0, 0, 0, time.UTC)},
		{"zero duration", 0, start},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ShowingEnd(start, tt.durationMin))
		})
	}
}
