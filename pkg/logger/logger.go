package logger

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config opciones para el logger.
type Config struct {
	Env     string    // development -> consola legible; otro -> JSON
	Level   string    // trace, debug, info, warn, error
	Service string    // se agrega como campo "service" en cada evento
	Out     io.Writer // por defecto os.Stdout
}

// Logger wrapper sobre zerolog para inyección y consistencia.
type Logger struct {
	zl zerolog.Logger
}

// New crea un logger estructurado. En development usa salida legible; en el resto JSON.
func New(cfg Config) *Logger {
	w := cfg.Out
	if w == nil {
		w = os.Stdout
	}
	if cfg.Env == "development" {
		w = zerolog.ConsoleWriter{Out: w}
	}

	ctx := zerolog.New(w).Level(ParseLevel(cfg.Level)).With().Timestamp()
	if cfg.Service != "" {
		ctx = ctx.Str("service", cfg.Service)
	}
	zl := ctx.Logger()

	// Redirigir el logger global de zerolog para librerías que lo usen
	log.Logger = zl

	return &Logger{zl: zl}
}

// ParseLevel nivel de zerolog por nombre; desconocido o vacío es info.
func ParseLevel(s string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// Trace, Debug, Info, Warn, Error delegados a zerolog.
func (l *Logger) Trace() *zerolog.Event { return l.zl.Trace() }
func (l *Logger) Debug() *zerolog.Event { return l.zl.Debug() }
func (l *Logger) Info() *zerolog.Event  { return l.zl.Info() }
func (l *Logger) Warn() *zerolog.Event  { return l.zl.Warn() }
func (l *Logger) Error() *zerolog.Event { return l.zl.Error() }
func (l *Logger) Fatal() *zerolog.Event { return l.zl.Fatal() }

// Component sublogger para un módulo (ledger, sales, imports, ...).
func (l *Logger) Component(name string) zerolog.Logger {
	return l.zl.With().Str("component", name).Logger()
}

// Zerolog devuelve el logger interno; los casos de uso reciben zerolog.Logger por valor.
func (l *Logger) Zerolog() zerolog.Logger {
	return l.zl
}
