package logger

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"igharvest/pkg/config"
)

func TestNewWithValidLevels(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "warning", "error", "fatal", "disabled"} {
		t.Run(level, func(t *testing.T) {
			log, err := New(&config.LoggingConfig{Level: level})
			require.NoError(t, err)
			assert.NotNil(t, log)
		})
	}
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New(&config.LoggingConfig{Level: "shouting"})
	assert.Error(t, err)
}

func TestParseLogLevel(t *testing.T) {
	level, err := parseLogLevel("warn")
	require.NoError(t, err)
	assert.Equal(t, zerolog.WarnLevel, level)

	level, err = parseLogLevel("WARNING")
	require.NoError(t, err)
	assert.Equal(t, zerolog.WarnLevel, level)
}

func TestWithFieldsReturnsNewLogger(t *testing.T) {
	log, err := New(&config.LoggingConfig{Level: "info"})
	require.NoError(t, err)

	derived := log.WithField("username", "alice")
	assert.NotSame(t, log, derived)

	derived2 := derived.WithFields(map[string]interface{}{"post_id": "123"})
	assert.NotSame(t, derived, derived2)
}

func TestWithErrorNilReturnsSameLogger(t *testing.T) {
	log, err := New(&config.LoggingConfig{Level: "info"})
	require.NoError(t, err)
	assert.Same(t, log, log.WithError(nil))
}

func TestTestLoggerCapturesMessages(t *testing.T) {
	tl := NewTestLogger()
	tl.Info("harvest started")
	tl.WithField("post_id", "p1").Warn("comment fetch failed")
	tl.ErrorWithFields("profile fetch failed", map[string]interface{}{"user_id": "42"})

	assert.Len(t, tl.Messages(), 3)
	assert.True(t, tl.HasMessage("comment fetch failed"))
	assert.Equal(t, 1, tl.CountLevel("ERROR"))
	assert.Equal(t, "p1", tl.Messages()[1].Fields["post_id"])
}

func TestGetLoggerReturnsDefault(t *testing.T) {
	assert.NotNil(t, GetLogger())
}
