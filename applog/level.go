package applog

import (
	"fmt"
	"log/slog"
	"strings"
)

// Five severities on the slog scale. Notice sits between Info and Warn,
// Fault above Error.
const (
	LevelDebug  = slog.LevelDebug
	LevelInfo   = slog.LevelInfo
	LevelNotice = slog.Level(2)
	LevelError  = slog.LevelError
	LevelFault  = slog.Level(12)
)

var levelNames = map[slog.Level]string{
	LevelDebug:  "DEBUG",
	LevelInfo:   "INFO",
	LevelNotice: "NOTICE",
	LevelError:  "ERROR",
	LevelFault:  "FAULT",
}

// Levels lists every severity in ascending order.
var Levels = []slog.Level{LevelDebug, LevelInfo, LevelNotice, LevelError, LevelFault}

func LevelName(l slog.Level) string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return l.String()
}

func ParseLevel(s string) (slog.Level, error) {
	want := strings.ToUpper(strings.TrimSpace(s))
	for l, name := range levelNames {
		if name == want {
			return l, nil
		}
	}
	return 0, fmt.Errorf("unknown log level %q", s)
}

// replaceLevel renders custom level names in the slog built-in handlers.
func replaceLevel(groups []string, a slog.Attr) slog.Attr {
	if a.Key == slog.LevelKey && len(groups) == 0 {
		if l, ok := a.Value.Any().(slog.Level); ok {
			a.Value = slog.StringValue(LevelName(l))
		}
	}
	return a
}
