// Package usecase implements the marketplace operations on top of the record
// store. Not-found is reported as a nil result with a nil error.
package usecase

import (
	"context"
	"time"

	"github.com/mujahidkhanofficial/medixra-sub000/internal/domain"
	"github.com/mujahidkhanofficial/medixra-sub000/internal/platform/logger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("medixra/usecase")

// Clock returns the current time. Tests replace it to get stable timestamps.
type Clock func() time.Time

func systemClock() time.Time { return time.Now().UTC() }

// publishEvent sends an event and only logs a failure; the operation that
// produced the event has already been persisted.
func publishEvent(ctx context.Context, pub domain.EventPublisher, log *logger.Logger, subject string, data interface{}, fields ...zap.Field) {
	if err := pub.Publish(ctx, subject, data); err != nil {
		log.Warn("Failed to publish event", append(fields, zap.String("subject", subject), zap.Error(err))...)
	}
}

func recordError(span oteltrace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}

func orPublisher(p domain.EventPublisher) domain.EventPublisher {
	if p == nil {
		return domain.NopPublisher{}
	}
	return p
}
