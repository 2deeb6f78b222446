package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/aliskhannn/mushaf-bot/internal/config"
)

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		env       string
		wantDebug bool
	}{
		{env: "production", wantDebug: false},
		{env: "local", wantDebug: true},
		{env: "", wantDebug: true},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			t.Parallel()

			log, err := New(&config.Config{Env: tt.env})
			require.NoError(t, err)
			assert.Equal(t, tt.wantDebug, log.Core().Enabled(zapcore.DebugLevel))
		})
	}
}
