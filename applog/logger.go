// Package applog is a structured, privacy-aware logging facility built on
// log/slog. Loggers are grouped by category under one subsystem, carry five
// severities from Debug to Fault, and redact values marked Private.
package applog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"
)

const (
	CategoryApp       = "app"
	CategoryNetwork   = "network"
	CategoryUI        = "ui"
	CategoryDataModel = "datamodel"
)

const (
	FormatAuto = "auto"
	FormatJSON = "json"
	FormatText = "text"

	BackendSlog    = "slog"
	BackendZerolog = "zerolog"
)

type Options struct {
	Subsystem     string
	Level         slog.Level
	Format        string // auto, json or text; ignored by the zerolog backend
	Backend       string // slog or zerolog
	RevealPrivate bool
}

// Logger is one category of the facility.
type Logger struct {
	l *slog.Logger
}

func (l *Logger) Debug(msg string, args ...any)  { l.log(LevelDebug, msg, args...) }
func (l *Logger) Info(msg string, args ...any)   { l.log(LevelInfo, msg, args...) }
func (l *Logger) Notice(msg string, args ...any) { l.log(LevelNotice, msg, args...) }
func (l *Logger) Error(msg string, args ...any)  { l.log(LevelError, msg, args...) }
func (l *Logger) Fault(msg string, args ...any)  { l.log(LevelFault, msg, args...) }

func (l *Logger) Log(level slog.Level, msg string, args ...any) { l.log(level, msg, args...) }

func (l *Logger) log(level slog.Level, msg string, args ...any) {
	l.l.Log(context.Background(), level, msg, args...)
}

func (l *Logger) With(args ...any) *Logger { return &Logger{l: l.l.With(args...)} }

// Slog exposes the underlying *slog.Logger.
func (l *Logger) Slog() *slog.Logger { return l.l }

// Facility holds the category loggers of one subsystem. All of them share a
// single handler, which is safe for concurrent use.
type Facility struct {
	App       *Logger
	Network   *Logger
	UI        *Logger
	DataModel *Logger

	root *slog.Logger
}

func New(w io.Writer, opts Options) (*Facility, error) {
	h, err := NewHandler(w, opts)
	if err != nil {
		return nil, err
	}

	subsystem := opts.Subsystem
	if subsystem == "" {
		subsystem = "logbench"
	}
	root := slog.New(h).With("subsystem", subsystem)

	f := &Facility{root: root}
	f.App = f.Category(CategoryApp)
	f.Network = f.Category(CategoryNetwork)
	f.UI = f.Category(CategoryUI)
	f.DataModel = f.Category(CategoryDataModel)
	return f, nil
}

func (f *Facility) Category(name string) *Logger {
	return &Logger{l: f.root.With("category", name)}
}

// NewHandler builds the handler chain for opts writing to w.
func NewHandler(w io.Writer, opts Options) (slog.Handler, error) {
	var h slog.Handler
	switch opts.Backend {
	case BackendSlog, "":
		hopts := &slog.HandlerOptions{Level: opts.Level, ReplaceAttr: replaceLevel}
		switch resolveFormat(w, opts.Format) {
		case FormatJSON:
			h = slog.NewJSONHandler(w, hopts)
		case FormatText:
			h = slog.NewTextHandler(w, hopts)
		default:
			return nil, fmt.Errorf("unknown log format %q", opts.Format)
		}
	case BackendZerolog:
		h = newZerologHandler(w, opts.Level)
	default:
		return nil, fmt.Errorf("unknown log backend %q", opts.Backend)
	}

	if opts.RevealPrivate {
		h = &revealHandler{next: h}
	}
	return h, nil
}

// resolveFormat picks text for terminals and json otherwise when the format
// is auto.
func resolveFormat(w io.Writer, format string) string {
	if format != FormatAuto && format != "" {
		return format
	}
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return FormatText
	}
	return FormatJSON
}

// SetDefault installs the facility's root logger as the slog default so
// package-level slog calls share its handler.
func (f *Facility) SetDefault() {
	slog.SetDefault(f.root)
}
