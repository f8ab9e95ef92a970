package main

import (
	"testing"
	"time"
)

func TestSweepInterval(t *testing.T) {
	tests := []struct {
		minutes int
		want    time.Duration
	}{
		{30, 30 * time.Minute},
		{1, time.Minute},
		{0, 30 * time.Minute},
		{-5, 30 * time.Minute},
	}

	for _, tt := range tests {
		if got := sweepInterval(tt.minutes); got != tt.want {
			t.Errorf("sweepInterval(%d) = %s, want %s", tt.minutes, got, tt.want)
		}
	}
}
