package janitor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

type ExpiredTokens interface {
	DeleteExpired(ctx context.Context) (int64, error)
}

type DeliveredOutbox interface {
	DeleteDelivered(ctx context.Context, retention time.Duration) (int64, error)
}

type Usecase struct {
	Tokens    ExpiredTokens
	Outbox    DeliveredOutbox
	Retention time.Duration
}

type SweepResult struct {
	Tokens int64
	Outbox int64
}

// Sweep removes expired refresh tokens and delivered outbox rows. Both steps
// run even if the first fails.
func (u *Usecase) Sweep(ctx context.Context) (SweepResult, error) {
	tr := otel.Tracer("janitor.uc")
	ctx, span := tr.Start(ctx, "janitor.sweep")
	defer span.End()

	var res SweepResult
	var errs []error

	if u.Tokens != nil {
		n, err := u.Tokens.DeleteExpired(ctx)
		if err != nil {
			errs = append(errs, fmt.Errorf("refresh tokens: %w", err))
		}
		res.Tokens = n
	}
	if u.Outbox != nil && u.Retention > 0 {
		n, err := u.Outbox.DeleteDelivered(ctx, u.Retention)
		if err != nil {
			errs = append(errs, fmt.Errorf("outbox: %w", err))
		}
		res.Outbox = n
	}

	span.SetAttributes(
		attribute.Int64("sweep.tokens", res.Tokens),
		attribute.Int64("sweep.outbox", res.Outbox),
	)
	err := errors.Join(errs...)
	if err != nil {
		span.RecordError(err)
	}
	return res, err
}
