package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDurationEnv(t *testing.T) {
	cases := map[string]time.Duration{
		"10":    10 * time.Second,
		"10s":   10 * time.Second,
		"5m":    5 * time.Minute,
		`"15s"`: 15 * time.Second,
		"'2m'":  2 * time.Minute,
		" 30 ":  30 * time.Second,
		"1h30m": 90 * time.Minute,
		"250ms": 250 * time.Millisecond,
	}
	for in, want := range cases {
		got, err := ParseDurationEnv(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestParseDurationEnvRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", `""`, "ten", "10 parsecs"} {
		_, err := ParseDurationEnv(in)
		assert.Error(t, err, in)
	}
}
