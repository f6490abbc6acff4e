// Package cache guarda en Redis los totales por periodo del registro de ventas.
// Son derivables del kardex de ventas: perder el caché solo cuesta recalcular.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/jhoicas/cressendo-erp/internal/application/ports"
)

var _ ports.PeriodTotalsCache = (*PeriodTotals)(nil)

// KeyPrefix prefijo de todas las llaves que este caché escribe; Invalidate borra solo esas.
const KeyPrefix = "ple:"

// GenerationKey contador de generación. Queda fuera de KeyPrefix para que Invalidate no lo borre.
const GenerationKey = "ple_gen"

// PeriodTotals caché JSON sobre Redis.
type PeriodTotals struct {
	client *redis.Client
	ttl    time.Duration
	log    zerolog.Logger
}

// NewPeriodTotals construye el caché. ttl <= 0 guarda sin expiración.
func NewPeriodTotals(client *redis.Client, ttl time.Duration, log zerolog.Logger) *PeriodTotals {
	return &PeriodTotals{
		client: client,
		ttl:    ttl,
		log:    log.With().Str("component", "period_totals_cache").Logger(),
	}
}

// Get llena dest con el valor guardado. Un miss devuelve (false, nil).
func (c *PeriodTotals) Get(ctx context.Context, key string, dest any) (bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			c.log.Debug().Str("key", key).Msg("cache miss")
			return false, nil
		}
		return false, fmt.Errorf("redis get: %w", err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("unmarshal %s: %w", key, err)
	}
	c.log.Debug().Str("key", key).Msg("cache hit")
	return true, nil
}

// Set guarda value serializado en JSON.
func (c *PeriodTotals) Set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Generation generación vigente; 0 si nunca se invalidó.
func (c *PeriodTotals) Generation(ctx context.Context) (int64, error) {
	gen, err := c.client.Get(ctx, GenerationKey).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("redis get %s: %w", GenerationKey, err)
	}
	return gen, nil
}

// Invalidate sube la generación y borra los periodos cacheados. Se llama al confirmar una venta.
// El borrado solo libera memoria: tras el INCR ninguna clave vieja vuelve a leerse.
func (c *PeriodTotals) Invalidate(ctx context.Context) error {
	if err := c.client.Incr(ctx, GenerationKey).Err(); err != nil {
		return fmt.Errorf("redis incr: %w", err)
	}
	iter := c.client.Scan(ctx, 0, KeyPrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis scan: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	c.log.Debug().Int("keys", len(keys)).Msg("periodos invalidados")
	return nil
}

// NewClient abre un cliente Redis y verifica la conexión.
func NewClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}
