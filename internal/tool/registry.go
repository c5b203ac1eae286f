package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"newsletter-press/internal/observability/metrics"
	"newsletter-press/internal/observability/tracing"

	"go.opentelemetry.io/otel/attribute"
)

// Registry holds the registered tools and dispatches invocations.
type Registry struct {
	tools map[string]Tool
	names []string
}

// NewRegistry builds a registry from the given tools. Duplicate names are a
// wiring bug and rejected outright.
func NewRegistry(tools ...Tool) (*Registry, error) {
	r := &Registry{tools: make(map[string]Tool, len(tools))}
	for _, t := range tools {
		if t.Name == "" {
			return nil, fmt.Errorf("tool with empty name")
		}
		if _, dup := r.tools[t.Name]; dup {
			return nil, fmt.Errorf("duplicate tool name %q", t.Name)
		}
		r.tools[t.Name] = t
		r.names = append(r.names, t.Name)
	}
	sort.Strings(r.names)
	return r, nil
}

// List returns descriptors for every tool, sorted by name so repeated calls
// produce identical listings.
func (r *Registry) List() []Descriptor {
	out := make([]Descriptor, 0, len(r.names))
	for _, name := range r.names {
		t := r.tools[name]
		out = append(out, Descriptor{Name: t.Name, Description: t.Description, Schema: t.Schema})
	}
	return out
}

// Get looks up a tool by name.
func (r *Registry) Get(name string) (Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// Dispatch invokes the named tool with the given argument record. Unknown
// names are a BadRequestError. Every invocation is traced and counted.
func (r *Registry) Dispatch(ctx context.Context, name string, args json.RawMessage) (any, error) {
	t, ok := r.tools[name]
	if !ok {
		return nil, BadRequest("unknown tool %q", name)
	}

	ctx, span := tracing.GetTracer().Start(ctx, "tool."+name)
	defer span.End()

	start := time.Now()
	result, err := t.Handler(ctx, args)
	duration := time.Since(start)

	status := "ok"
	if err != nil {
		status = "error"
		span.SetAttributes(attribute.Bool("error", true))
		slog.Warn("tool invocation failed",
			slog.String("tool", name),
			slog.Duration("duration", duration),
			slog.Any("error", err))
	} else {
		slog.Info("tool invocation completed",
			slog.String("tool", name),
			slog.Duration("duration", duration))
	}
	metrics.RecordToolInvocation(name, status, duration)

	return result, err
}
