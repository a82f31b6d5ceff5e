package logging

import (
	"context"
	"log/slog"
)

// ContextProvider returns attributes describing the live board at log time.
type ContextProvider func() []slog.Attr

// ContextHandler appends provider attributes to every record, optionally
// under a group, e.g. board.mode=draw.
type ContextHandler struct {
	inner    slog.Handler
	group    string
	provider ContextProvider
}

// NewContextHandler wraps inner. An empty group adds the attributes at top level.
func NewContextHandler(inner slog.Handler, group string, provider ContextProvider) *ContextHandler {
	return &ContextHandler{inner: inner, group: group, provider: provider}
}

func (h *ContextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if h.provider == nil {
		return h.inner.Handle(ctx, r)
	}
	attrs := h.provider()
	switch {
	case len(attrs) == 0:
	case h.group == "":
		r.AddAttrs(attrs...)
	default:
		args := make([]any, len(attrs))
		for i, a := range attrs {
			args[i] = a
		}
		r.AddAttrs(slog.Group(h.group, args...))
	}
	return h.inner.Handle(ctx, r)
}

func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ContextHandler{inner: h.inner.WithAttrs(attrs), group: h.group, provider: h.provider}
}

func (h *ContextHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return &ContextHandler{inner: h.inner.WithGroup(name), group: h.group, provider: h.provider}
}
