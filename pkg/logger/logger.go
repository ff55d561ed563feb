// Package logger builds the process-wide slog.Logger from configuration
// and provides attribute helpers shared across packages.
package logger

import (
	"io"
	"log/slog"
	"os"
)

// Format selects the handler output encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// Config is the env-sourced logger configuration.
type Config struct {
	Level  slog.Level `env:"LOG_LEVEL" envDefault:"info"`
	Format Format     `env:"LOG_FORMAT" envDefault:"json"`
}

type options struct {
	output io.Writer
	attrs  []slog.Attr
}

// Option tweaks logger construction.
type Option func(*options)

// WithOutput redirects log output; nil writers are ignored.
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		if w != nil {
			o.output = w
		}
	}
}

// WithAttr attaches static attributes to every record.
func WithAttr(attrs ...slog.Attr) Option {
	return func(o *options) {
		o.attrs = append(o.attrs, attrs...)
	}
}

// New builds a slog.Logger from cfg. Unknown formats fall back to JSON so a
// typo in LOG_FORMAT degrades output, not availability.
func New(cfg Config, opts ...Option) *slog.Logger {
	o := options{output: os.Stdout}
	for _, opt := range opts {
		opt(&o)
	}

	handlerOpts := &slog.HandlerOptions{Level: cfg.Level}

	var handler slog.Handler
	switch cfg.Format {
	case FormatText:
		handler = slog.NewTextHandler(o.output, handlerOpts)
	default:
		handler = slog.NewJSONHandler(o.output, handlerOpts)
	}

	if len(o.attrs) > 0 {
		handler = handler.WithAttrs(o.attrs)
	}
	return slog.New(handler)
}

// Discard returns a logger that drops everything. Services use it as the
// default so logging stays opt-in.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
