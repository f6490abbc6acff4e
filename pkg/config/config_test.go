package config_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/cressendo-erp/pkg/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.Store.Driver)
	assert.True(t, cfg.Tax.VATRate.Equal(decimal.RequireFromString("0.18")))
	assert.True(t, cfg.Tax.IncomeTaxRate.Equal(decimal.RequireFromString("0.01")))
	assert.True(t, cfg.Import.PerceptionFrequent.Equal(decimal.RequireFromString("0.035")))
	assert.True(t, cfg.Payroll.PensionRates["ONP"].Equal(decimal.RequireFromString("0.13")))
	assert.Len(t, cfg.Payroll.PensionRates, 5)
	assert.False(t, cfg.Inventory.AllowOversell)
	assert.False(t, cfg.Redis.Enabled())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("VAT_RATE", "0.16")
	t.Setenv("INVENTORY_ALLOW_OVERSELL", "true")
	t.Setenv("PAYROLL_PENSION_AFP_PRIMA", "0.12")
	t.Setenv("REDIS_ADDR", "localhost:6379")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.True(t, cfg.Tax.VATRate.Equal(decimal.RequireFromString("0.16")))
	assert.True(t, cfg.Inventory.AllowOversell)
	assert.True(t, cfg.Payroll.PensionRates["AFP_PRIMA"].Equal(decimal.RequireFromString("0.12")))
	assert.True(t, cfg.Redis.Enabled())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"driver desconocido", "STORE_DRIVER", "sqlite"},
		{"tasa no numérica", "VAT_RATE", "abc"},
		{"tasa negativa", "INCOME_TAX_RATE", "-0.01"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("STORE_DRIVER", "memory")
			t.Setenv(tt.key, tt.val)
			_, err := config.Load()
			assert.Error(t, err)
		})
	}
}

func TestDBConfig_DSN(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "u", Password: "p@ss", DBName: "x", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p%40ss@db:5432/x?sslmode=disable", c.ConnectionString())
	c.DatabaseURL = "postgres://other"
	assert.Equal(t, "postgres://other", c.ConnectionString())
}
