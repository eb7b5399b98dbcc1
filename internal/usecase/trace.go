package usecase

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("github.com/riskibarqy/tournament-votes/internal/usecase")

// startSpan opens "usecase.<op>" below the caller's span. Calls without a
// parent span (startup reloads, unit tests) are not traced.
func startSpan(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if !trace.SpanContextFromContext(ctx).IsValid() {
		return ctx, trace.SpanFromContext(ctx)
	}
	return tracer.Start(ctx, "usecase."+op, trace.WithAttributes(attrs...))
}

func awardAttr(awardType string) attribute.KeyValue {
	return attribute.String("tournament.award_type", awardType)
}

func voterAttr(voterID string) attribute.KeyValue {
	return attribute.String("tournament.voter_id", voterID)
}
