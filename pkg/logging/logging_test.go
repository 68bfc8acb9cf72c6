package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	for _, format := range []string{"json", "console", ""} {
		log, lvl, err := New("warn", format)
		require.NoError(t, err, format)
		assert.False(t, log.Core().Enabled(zapcore.InfoLevel))
		assert.True(t, log.Core().Enabled(zapcore.WarnLevel))

		lvl.SetLevel(zapcore.DebugLevel)
		assert.True(t, log.Core().Enabled(zapcore.DebugLevel), "level changes apply to a live logger")
	}
}

func TestNewRejectsBadInput(t *testing.T) {
	_, _, err := New("loud", "json")
	assert.Error(t, err)
	_, _, err = New("info", "xml")
	assert.Error(t, err)
}
