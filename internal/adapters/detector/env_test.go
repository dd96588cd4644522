package detector_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/testforge/internal/adapters/detector"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name  string
		isTTY bool
		ci    string
		want  detector.LogFormat
	}{
		{"terminal", true, "", detector.FormatPretty},
		{"pipe outside CI", false, "", detector.FormatPretty},
		{"CI pipe", false, "true", detector.FormatJSON},
		{"CI pipe numeric", false, "1", detector.FormatJSON},
		{"CI with terminal", true, "true", detector.FormatPretty},
		{"CI false", false, "false", detector.FormatPretty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, detector.Detect(tt.isTTY, tt.ci))
		})
	}
}

func TestResolveFormat(t *testing.T) {
	tests := []struct {
		auto detector.LogFormat
		flag string
		want detector.LogFormat
	}{
		{detector.FormatPretty, "json", detector.FormatJSON},
		{detector.FormatJSON, "pretty", detector.FormatPretty},
		{detector.FormatJSON, "text", detector.FormatPretty},
		{detector.FormatJSON, "auto", detector.FormatJSON},
		{detector.FormatPretty, "", detector.FormatPretty},
		{detector.FormatPretty, "bogus", detector.FormatPretty},
	}

	for _, tt := range tests {
		t.Run(tt.flag, func(t *testing.T) {
			assert.Equal(t, tt.want, detector.ResolveFormat(tt.auto, tt.flag))
		})
	}
}
