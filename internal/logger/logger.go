// Package logger wraps zerolog with the process-wide defaults used by the
// semflu command and its batch and store layers. The algorithm packages never
// log.
package logger

import (
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
)

// Logger is the project-wide logging type.
type Logger = zerolog.Logger

// Options configures a logger.
type Options struct {
	Level      string    // trace, debug, info, warn, error; unknown → info
	Format     string    // "console" or "json"
	Service    string    // static service field, omitted when empty
	Writer     io.Writer // defaults to os.Stderr
	WithCaller bool
}

// FromEnv reads LOG_LEVEL, LOG_FORMAT, LOG_SERVICE and LOG_CALLER.
func FromEnv() Options {
	return Options{
		Level:      strings.ToLower(env("LOG_LEVEL", "info")),
		Format:     strings.ToLower(env("LOG_FORMAT", "console")),
		Service:    env("LOG_SERVICE", "semflu"),
		WithCaller: envBool("LOG_CALLER", false),
	}
}

var (
	once   sync.Once
	root   atomic.Pointer[Logger]
	inited atomic.Bool
)

// New builds a standalone logger from opt without touching the root logger.
func New(opt Options) Logger {
	var w io.Writer = os.Stderr
	if opt.Writer != nil {
		w = opt.Writer
	}
	if opt.Format != "json" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339, NoColor: opt.Writer != nil}
	}

	ctx := zerolog.New(w).Level(parseLevel(opt.Level)).With().Timestamp()
	if opt.Service != "" {
		ctx = ctx.Str("service", opt.Service)
	}
	log := ctx.Logger()
	if opt.WithCaller {
		log = log.With().Caller().Logger()
	}

	return log
}

// Init configures zerolog globals and installs the root logger. Only the
// first call has an effect.
func Init(opt Options) {
	once.Do(func() {
		zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
		zerolog.TimeFieldFormat = time.RFC3339Nano

		log := New(opt)
		root.Store(&log)
		inited.Store(true)
	})
}

// Get returns the root logger, initializing it from the environment on first
// use.
func Get() *Logger {
	if !inited.Load() {
		Init(FromEnv())
	}

	return root.Load()
}

// Named returns a child of the root logger with a component field.
func Named(component string) *Logger {
	if component == "" {
		return Get()
	}
	l := Get().With().Str("component", component).Logger()

	return &l
}

// Nop returns a disabled logger, handy as a default for optional fields.
func Nop() *Logger {
	l := zerolog.Nop()

	return &l
}

func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

func env(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}

	return def
}

func envBool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return def
	}

	return b
}
