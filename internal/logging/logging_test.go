package logging

import (
	"testing"

	"github.com/rs/zerolog"
)

func TestSetupLevels(t *testing.T) {
	tests := []struct {
		level string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"INFO", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"bogus", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		Setup(tt.level, "json")
		if got := zerolog.GlobalLevel(); got != tt.want {
			t.Errorf("Setup(%q): global level = %s, want %s", tt.level, got, tt.want)
		}
	}
}
