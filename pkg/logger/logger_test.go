package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/cressendo-erp/pkg/logger"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{" WARN ", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"", zerolog.InfoLevel},
		{"verbose", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, logger.ParseLevel(tt.in))
		})
	}
}

func TestNew_JSONConCampos(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New(logger.Config{Env: "production", Level: "info", Service: "cressendo-erp", Out: &buf})

	ledger := l.Component("ledger")
	ledger.Info().Str("product_id", "p1").Msg("movimiento registrado")
	l.Debug().Msg("no debe aparecer")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)
	var ev map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &ev))
	assert.Equal(t, "cressendo-erp", ev["service"])
	assert.Equal(t, "ledger", ev["component"])
	assert.Equal(t, "p1", ev["product_id"])
	assert.Equal(t, "movimiento registrado", ev["message"])
}
