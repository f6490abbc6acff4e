package ports

//go:generate mockgen -source=cache.go -destination=mocks/cache_mock.go -package=mocks

import "context"

// PeriodTotalsCache caché de agregados re-derivables del periodo (registro de ventas).
// Un fallo del caché nunca debe impedir responder: el llamador recalcula.
type PeriodTotalsCache interface {
	// Get deserializa en dest; false si la clave no existe.
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any) error
	// Generation contador que Invalidate incrementa; el llamador lo incluye en la clave.
	Generation(ctx context.Context) (int64, error)
	// Invalidate descarta todos los agregados (tras confirmar una venta) y sube la generación.
	Invalidate(ctx context.Context) error
}
