package httpapi

import (
	"context"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var handlerTracer = otel.Tracer("github.com/riskibarqy/tournament-votes/internal/interfaces/httpapi")

// startHandlerSpan opens "httpapi.Handler.<name>" under the otelhttp server
// span. Untraced requests (health checks) get the context's no-op span.
func startHandlerSpan(r *http.Request, name string) (context.Context, trace.Span) {
	ctx := r.Context()
	if !trace.SpanContextFromContext(ctx).IsValid() {
		return ctx, trace.SpanFromContext(ctx)
	}
	return handlerTracer.Start(ctx, "httpapi.Handler."+name, trace.WithAttributes(handlerAttributes(r)...))
}

func handlerAttributes(r *http.Request) []attribute.KeyValue {
	attrs := []attribute.KeyValue{attribute.String("http.route", routeOf(r))}
	if awardType := r.URL.Query().Get("awardType"); awardType != "" {
		attrs = append(attrs, attribute.String("tournament.award_type", awardType))
	}
	if principal := optionalPrincipal(r.Context()); principal != nil {
		attrs = append(attrs, attribute.Bool("tournament.voter_admin", principal.IsAdmin))
	}
	return attrs
}

// routeOf is the ServeMux pattern without its method prefix.
func routeOf(r *http.Request) string {
	pattern := r.Pattern
	if pattern == "" {
		return r.URL.Path
	}
	if _, path, ok := strings.Cut(pattern, " "); ok {
		return path
	}
	return pattern
}
