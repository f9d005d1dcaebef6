// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package logging provides a slog handler that also persists WARN and ERROR
// records of batch runs into the events table, so skipped and failed records
// can be audited after the terminal output is gone.
package logging

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/olegiv/recipe-l10n/internal/model"
	"github.com/olegiv/recipe-l10n/internal/store"
)

// CategoryKey is the attribute that selects the event category.
const CategoryKey = "category"

// EventLogHandler is a slog.Handler that wraps another handler and also writes
// WARN and ERROR level logs to the events table.
type EventLogHandler struct {
	inner   slog.Handler
	queries *store.Queries
	level   slog.Level // Minimum level to forward to the events table (default: WARN)
	attrs   []slog.Attr
}

// NewEventLogHandler creates a new EventLogHandler that wraps the given handler.
func NewEventLogHandler(inner slog.Handler, db *sql.DB) *EventLogHandler {
	return NewEventLogHandlerWithLevel(inner, db, slog.LevelWarn)
}

// NewEventLogHandlerWithLevel creates a new EventLogHandler with a custom minimum level.
func NewEventLogHandlerWithLevel(inner slog.Handler, db *sql.DB, level slog.Level) *EventLogHandler {
	return &EventLogHandler{
		inner:   inner,
		queries: store.New(db),
		level:   level,
	}
}

// Enabled implements slog.Handler.
func (h *EventLogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level) || level >= h.level
}

// Handle implements slog.Handler.
func (h *EventLogHandler) Handle(ctx context.Context, r slog.Record) error {
	if h.inner.Enabled(ctx, r.Level) {
		if err := h.inner.Handle(ctx, r); err != nil {
			return err
		}
	}

	if r.Level >= h.level {
		h.writeEvent(r)
	}

	return nil
}

// WithAttrs implements slog.Handler.
func (h *EventLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &EventLogHandler{
		inner:   h.inner.WithAttrs(attrs),
		queries: h.queries,
		level:   h.level,
		attrs:   merged,
	}
}

// WithGroup implements slog.Handler.
func (h *EventLogHandler) WithGroup(name string) slog.Handler {
	return &EventLogHandler{
		inner:   h.inner.WithGroup(name),
		queries: h.queries,
		level:   h.level,
		attrs:   h.attrs,
	}
}

// writeEvent stores r. Failures are dropped: logging must never fail a batch.
func (h *EventLogHandler) writeEvent(r slog.Record) {
	attrs := h.collectAttrs(r)

	createdAt := r.Time
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	// Background context so the event is kept even when the run is cancelled
	_, _ = h.queries.CreateEvent(context.Background(), store.CreateEventParams{
		Level:     levelToEventLevel(r.Level),
		Category:  category(r.Message, attrs),
		Message:   r.Message,
		Metadata:  metadata(attrs),
		CreatedAt: createdAt,
	})
}

func (h *EventLogHandler) collectAttrs(r slog.Record) []slog.Attr {
	attrs := make([]slog.Attr, 0, len(h.attrs)+r.NumAttrs())
	attrs = append(attrs, h.attrs...)
	r.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, a)
		return true
	})
	return attrs
}

func levelToEventLevel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return model.EventLevelError
	case level >= slog.LevelWarn:
		return model.EventLevelWarning
	default:
		return model.EventLevelInfo
	}
}

// category returns the explicit category attribute (the last one wins) or
// infers one from the message.
func category(msg string, attrs []slog.Attr) string {
	var explicit string
	for _, a := range attrs {
		if a.Key == CategoryKey {
			explicit = a.Value.String()
		}
	}
	if explicit != "" {
		return explicit
	}

	msg = strings.ToLower(msg)
	switch {
	case strings.Contains(msg, "offset") || strings.Contains(msg, "reconcil"):
		return model.EventCategoryReconcile
	case strings.Contains(msg, "import") || strings.Contains(msg, "match") || strings.Contains(msg, "upsert"):
		return model.EventCategoryImport
	case strings.Contains(msg, "enhance") || strings.Contains(msg, "substitut"):
		return model.EventCategoryEnhance
	case strings.Contains(msg, "coverage"):
		return model.EventCategoryCoverage
	case strings.Contains(msg, "config") || strings.Contains(msg, "setting"):
		return model.EventCategoryConfig
	default:
		return model.EventCategorySystem
	}
}

// metadata renders every attribute except the category as a flat JSON object.
func metadata(attrs []slog.Attr) string {
	if len(attrs) == 0 {
		return "{}"
	}

	m := make(map[string]string, len(attrs))
	for _, a := range attrs {
		if a.Key == CategoryKey {
			continue
		}
		m[a.Key] = a.Value.Resolve().String()
	}

	b, err := json.Marshal(m)
	if err != nil {
		return "{}"
	}
	return string(b)
}
