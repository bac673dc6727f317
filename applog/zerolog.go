package applog

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/rs/zerolog"
)

// zerologHandler is a slog.Handler that encodes records with zerolog.
// Groups are flattened into dotted keys.
type zerologHandler struct {
	z      zerolog.Logger
	level  slog.Leveler
	bound  []boundAttr
	prefix string
}

type boundAttr struct {
	prefix string
	attr   slog.Attr
}

func newZerologHandler(w io.Writer, level slog.Leveler) *zerologHandler {
	return &zerologHandler{
		z:     zerolog.New(zerolog.SyncWriter(w)),
		level: level,
	}
}

func (h *zerologHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *zerologHandler) Handle(_ context.Context, r slog.Record) error {
	ev := h.z.Log()
	if !r.Time.IsZero() {
		ev.Time(zerolog.TimestampFieldName, r.Time)
	}
	ev.Str(zerolog.LevelFieldName, strings.ToLower(LevelName(r.Level)))

	for _, b := range h.bound {
		appendZerolog(ev, b.prefix, b.attr)
	}
	r.Attrs(func(a slog.Attr) bool {
		appendZerolog(ev, h.prefix, a)
		return true
	})

	ev.Msg(r.Message)
	return nil
}

func (h *zerologHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	h2 := *h
	h2.bound = make([]boundAttr, 0, len(h.bound)+len(attrs))
	h2.bound = append(h2.bound, h.bound...)
	for _, a := range attrs {
		h2.bound = append(h2.bound, boundAttr{prefix: h.prefix, attr: a})
	}
	return &h2
}

func (h *zerologHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	h2 := *h
	h2.prefix = h.prefix + name + "."
	return &h2
}

func appendZerolog(ev *zerolog.Event, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	key := prefix + a.Key

	switch a.Value.Kind() {
	case slog.KindString:
		ev.Str(key, a.Value.String())
	case slog.KindInt64:
		ev.Int64(key, a.Value.Int64())
	case slog.KindUint64:
		ev.Uint64(key, a.Value.Uint64())
	case slog.KindFloat64:
		ev.Float64(key, a.Value.Float64())
	case slog.KindBool:
		ev.Bool(key, a.Value.Bool())
	case slog.KindDuration:
		ev.Dur(key, a.Value.Duration())
	case slog.KindTime:
		ev.Time(key, a.Value.Time())
	case slog.KindGroup:
		p := key + "."
		if a.Key == "" {
			p = prefix
		}
		for _, ga := range a.Value.Group() {
			appendZerolog(ev, p, ga)
		}
	default:
		if err, ok := a.Value.Any().(error); ok {
			ev.AnErr(key, err)
			return
		}
		ev.Interface(key, a.Value.Any())
	}
}
