// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package logging

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// ComponentKey is the attribute key sub-packages attach with Logger().With so
// that a Filter can apply per-component levels.
const ComponentKey = "component"

// ErrInvalidFilter is returned by ParseFilter for malformed filter strings.
var ErrInvalidFilter = errors.New("logging: invalid filter")

// Filter holds a default level plus per-component overrides, parsed from
// strings like "info,engine=debug,surface=warn".
type Filter struct {
	Default    slog.Level
	Components map[string]slog.Level
}

// ParseFilter parses a comma separated filter. A bare level sets the default;
// name=level entries override it for one component. An empty string yields
// the info level.
func ParseFilter(s string) (Filter, error) {
	f := Filter{Default: slog.LevelInfo, Components: map[string]slog.Level{}}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, lvl, hasName := strings.Cut(part, "=")
		if !hasName {
			lvl, name = name, ""
		}
		var level slog.Level
		if err := level.UnmarshalText([]byte(strings.TrimSpace(lvl))); err != nil {
			return Filter{}, fmt.Errorf("%w: %q: %v", ErrInvalidFilter, part, err)
		}
		if name == "" {
			f.Default = level
			continue
		}
		f.Components[strings.TrimSpace(name)] = level
	}
	return f, nil
}

// Level returns the minimum level for a component.
func (f Filter) Level(component string) slog.Level {
	if l, ok := f.Components[component]; ok {
		return l
	}
	return f.Default
}

// Handler wraps next so records below the filter level of their component
// are dropped.
func (f Filter) Handler(next slog.Handler) slog.Handler {
	return &filterHandler{filter: f, next: next, level: f.Default}
}

type filterHandler struct {
	filter Filter
	next   slog.Handler
	level  slog.Level
}

func (h *filterHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= h.level && h.next.Enabled(ctx, level)
}

func (h *filterHandler) Handle(ctx context.Context, r slog.Record) error {
	return h.next.Handle(ctx, r)
}

func (h *filterHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	level := h.level
	for _, a := range attrs {
		if a.Key == ComponentKey {
			level = h.filter.Level(a.Value.String())
		}
	}
	return &filterHandler{filter: h.filter, next: h.next.WithAttrs(attrs), level: level}
}

func (h *filterHandler) WithGroup(name string) slog.Handler {
	return &filterHandler{filter: h.filter, next: h.next.WithGroup(name), level: h.level}
}

// For returns the shared logger tagged with a component name.
func For(component string) *slog.Logger {
	return Logger().With(ComponentKey, component)
}

// MinLevel returns the lowest level any component may log at. Platform
// handlers are built with it so the filter alone decides what is dropped.
func (f Filter) MinLevel() slog.Level {
	m := f.Default
	for _, l := range f.Components {
		m = min(m, l)
	}
	return m
}
