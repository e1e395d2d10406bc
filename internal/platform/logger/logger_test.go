package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewZapLogger(t *testing.T) {
	tests := []struct {
		name    string
		cfg     ZapLoggerConfig
		wantErr bool
	}{
		{name: "defaults", cfg: ZapLoggerConfig{}},
		{name: "json debug", cfg: ZapLoggerConfig{Level: "DEBUG", Encoding: "json"}},
		{name: "console with layout", cfg: ZapLoggerConfig{Level: "warn", Encoding: "console", TimeFormat: "15:04:05"}},
		{name: "bad level", cfg: ZapLoggerConfig{Level: "loud"}, wantErr: true},
		{name: "bad encoding", cfg: ZapLoggerConfig{Encoding: "xml"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, err := NewZapLogger(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, log)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, log)
			assert.NotNil(t, log.With("component", "test"))
		})
	}
}
