package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/cressendo-erp/internal/domain/tax"
	"github.com/jhoicas/cressendo-erp/internal/infrastructure/cache"
)

func newCache(t *testing.T) (*cache.PeriodTotals, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return cache.NewPeriodTotals(client, 5*time.Minute, zerolog.Nop()), mr
}

func TestPeriodTotals_SetGet(t *testing.T) {
	ctx := context.Background()
	c, mr := newCache(t)

	var miss tax.PeriodTotals
	ok, err := c.Get(ctx, "ple:2026-01", &miss)
	require.NoError(t, err)
	assert.False(t, ok)

	in := tax.PeriodTotals{
		CashFlowTotal: decimal.RequireFromString("404"),
		TaxableBase:   decimal.RequireFromString("300"),
		VAT:           decimal.RequireFromString("54"),
		Documents:     3,
	}
	require.NoError(t, c.Set(ctx, "ple:2026-01", in))
	assert.Equal(t, 5*time.Minute, mr.TTL("ple:2026-01"))

	var out tax.PeriodTotals
	ok, err = c.Get(ctx, "ple:2026-01", &out)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, out.CashFlowTotal.Equal(in.CashFlowTotal))
	assert.True(t, out.VAT.Equal(in.VAT))
	assert.Equal(t, 3, out.Documents)
}

func TestPeriodTotals_InvalidateSoloPrefijo(t *testing.T) {
	ctx := context.Background()
	c, mr := newCache(t)

	require.NoError(t, c.Set(ctx, "ple:a", 1))
	require.NoError(t, c.Set(ctx, "ple:b", 2))
	require.NoError(t, mr.Set("otro:c", "x"))

	require.NoError(t, c.Invalidate(ctx))
	assert.False(t, mr.Exists("ple:a"))
	assert.False(t, mr.Exists("ple:b"))
	assert.True(t, mr.Exists("otro:c"))

	require.NoError(t, c.Invalidate(ctx))
	gen, err := c.Generation(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), gen)
}

func TestPeriodTotals_GeneracionSobreviveInvalidate(t *testing.T) {
	ctx := context.Background()
	c, mr := newCache(t)

	gen, err := c.Generation(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), gen)

	require.NoError(t, c.Invalidate(ctx))
	assert.True(t, mr.Exists(cache.GenerationKey))

	tests := []struct {
		name string
		ops  int
		want int64
	}{
		{"sin invalidaciones", 0, 1},
		{"una más", 1, 2},
		{"tres más", 3, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i := 0; i < tt.ops; i++ {
				require.NoError(t, c.Invalidate(ctx))
			}
			got, err := c.Generation(ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPeriodTotals_ErrorDeConexion(t *testing.T) {
	ctx := context.Background()
	c, mr := newCache(t)
	mr.Close()

	var out tax.PeriodTotals
	_, err := c.Get(ctx, "ple:x", &out)
	assert.Error(t, err)
	assert.Error(t, c.Set(ctx, "ple:x", out))
	_, err = c.Generation(ctx)
	assert.Error(t, err)
	assert.Error(t, c.Invalidate(ctx))
}
