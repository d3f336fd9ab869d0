package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		level    string
		encoding string
		wantErr  bool
	}{
		{name: "console", level: "debug", encoding: "console"},
		{name: "json", level: "warn", encoding: "json"},
		{name: "default level", level: "", encoding: "console"},
		{name: "invalid level", level: "loud", encoding: "console", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(tt.level, tt.encoding)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, l)
		})
	}
}

func TestLogger_FromContext(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	base := &Logger{zap.New(core)}

	ctx := NewContext(context.Background(), base.With(StringField("command", "list")))
	base.InfoContext(ctx, "Position listed", FloatField("price", 101.5))
	base.Info("Without context")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, map[string]interface{}{"command": "list", "price": 101.5}, entries[0].ContextMap())
	assert.Empty(t, entries[1].ContextMap())

	assert.Same(t, base, base.FromContext(context.Background()))
}
