package applog

import (
	"context"
	"log/slog"
)

// Redacted replaces private values in rendered output.
const Redacted = "<private>"

type privateValue struct{ v any }

func (privateValue) LogValue() slog.Value { return slog.StringValue(Redacted) }

// Private marks a value as personal data. It renders as Redacted on any
// handler unless the facility was built with RevealPrivate.
func Private(key string, v any) slog.Attr {
	return slog.Any(key, privateValue{v})
}

// Public is an ordinary attribute, spelled out for symmetry with Private.
func Public(key string, v any) slog.Attr {
	return slog.Any(key, v)
}

// revealHandler unwraps private values before the next handler resolves them.
type revealHandler struct {
	next slog.Handler
}

func (h *revealHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *revealHandler) Handle(ctx context.Context, r slog.Record) error {
	nr := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		nr.AddAttrs(reveal(a))
		return true
	})
	return h.next.Handle(ctx, nr)
}

func (h *revealHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	revealed := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		revealed[i] = reveal(a)
	}
	return &revealHandler{next: h.next.WithAttrs(revealed)}
}

func (h *revealHandler) WithGroup(name string) slog.Handler {
	return &revealHandler{next: h.next.WithGroup(name)}
}

func reveal(a slog.Attr) slog.Attr {
	switch a.Value.Kind() {
	case slog.KindLogValuer:
		if p, ok := a.Value.Any().(privateValue); ok {
			return slog.Any(a.Key, p.v)
		}
	case slog.KindGroup:
		group := a.Value.Group()
		out := make([]slog.Attr, len(group))
		for i, ga := range group {
			out[i] = reveal(ga)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(out...)}
	}
	return a
}
