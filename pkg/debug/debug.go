// Package debug provides category-based debug logging for restapp.
//
// Categories pick the subsystems to trace (logging.debug, RESTAPP_DEBUG)
// and the slog level picks the detail (logging.level, RESTAPP_LOG_LEVEL):
//
//	debug.Log(debug.Routing, "route registered", "method", "GET", "path", "/")
//	if debug.Enabled(debug.Binding) { /* expensive formatting */ }
//
// Levels are ERROR, WARN, INFO, DEBUG and TRACE.
package debug

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"slices"
	"strings"
	"sync/atomic"
)

// Known categories. "all" enables every category.
const (
	Routing    = "routing"
	Binding    = "binding"
	Middleware = "middleware"
	Transport  = "transport"
	Auth       = "auth"
	Storage    = "storage"
	Config     = "config"
	All        = "all"
)

// LevelTrace sits below slog.LevelDebug. Raw request bodies are only
// written at this level.
const LevelTrace = slog.LevelDebug - 4

type categorySet map[string]bool

func (s categorySet) has(category string) bool {
	return s[All] || s[category]
}

var (
	active atomic.Pointer[categorySet]

	// output receives Raw text and the handler installed by Init.
	output io.Writer = os.Stderr
)

func init() {
	setCategories(os.Getenv("RESTAPP_DEBUG"))
}

func setCategories(spec string) {
	s := parseCategories(spec)
	active.Store(&s)
}

// Init enables the given categories and installs a text handler at the
// given level as the slog default. The arguments are expected to carry
// any environment overrides already.
func Init(categories, level string) {
	setCategories(categories)
	slog.SetDefault(slog.New(slog.NewTextHandler(output, &slog.HandlerOptions{
		Level: ParseLevel(level),
	})))
}

// Enabled reports whether debug output is active for the category.
func Enabled(category string) bool {
	return (*active.Load()).has(category)
}

// Log emits a DEBUG record tagged with the category.
func Log(category, msg string, args ...any) {
	emit(slog.LevelDebug, category, msg, args)
}

// Trace emits a TRACE record tagged with the category.
func Trace(category, msg string, args ...any) {
	emit(LevelTrace, category, msg, args)
}

func emit(level slog.Level, category, msg string, args []any) {
	if !Enabled(category) {
		return
	}
	slog.Log(context.Background(), level, msg, append([]any{"debug", category}, args...)...)
}

// TraceIsEnabled reports whether the category is enabled and the default
// logger accepts TRACE records.
func TraceIsEnabled(category string) bool {
	return Enabled(category) && slog.Default().Enabled(context.Background(), LevelTrace)
}

// Raw writes text unformatted, but only when TraceIsEnabled(category).
func Raw(category, text string) {
	if TraceIsEnabled(category) {
		fmt.Fprintln(output, text)
	}
}

// ParseLevel maps a level name to a slog.Level. Unknown names give INFO.
func ParseLevel(s string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TRACE":
		return LevelTrace
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// Categories returns the enabled categories, sorted.
func Categories() []string {
	return slices.Sorted(maps.Keys(*active.Load()))
}

// Truncate shortens s to at most maxLen bytes, marking the cut with "...".
func Truncate(s string, maxLen int) string {
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	return s
}

func parseCategories(spec string) categorySet {
	s := categorySet{}
	for _, field := range strings.Split(spec, ",") {
		if field = strings.ToLower(strings.TrimSpace(field)); field != "" {
			s[field] = true
		}
	}
	return s
}
