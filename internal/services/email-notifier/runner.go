package notifier

import (
	"context"
	"errors"

	"github.com/NordCoder/Noteboard/internal/domain/events"
	kafkax "github.com/NordCoder/Noteboard/internal/repository/kafka"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

var (
	mConsumed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "email_notifier_messages_consumed_total",
		Help: "User events consumed.",
	})
	mSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "email_notifier_emails_sent_total",
		Help: "Emails sent.",
	})
	mSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "email_notifier_skipped_total",
		Help: "Events dropped as malformed or stale.",
	})
	mErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "email_notifier_errors_total",
		Help: "Errors.",
	})
)

type Subscriber interface {
	Consume(ctx context.Context, h kafkax.Handler) error
}

type Runner struct {
	log *zap.Logger
	sub Subscriber
	uc  *Handler
}

func NewRunner(log *zap.Logger, sub Subscriber, uc *Handler) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	if uc.Log == nil {
		uc.Log = log
	}
	return &Runner{log: log, sub: sub, uc: uc}
}

// Handler decodes one user event and hands it to the use case.
func (r *Runner) Handler() kafkax.Handler {
	return kafkax.UserRegisteredHandler(
		func(ctx context.Context, ev events.UserRegistered) error {
			mConsumed.Inc()
			return r.uc.HandleUserRegistered(ctx, ev)
		},
		func(err error) {
			mConsumed.Inc()
			mSkipped.Inc()
			r.log.Warn("skip user event", zap.Error(err))
		},
	)
}

func (r *Runner) Run(ctx context.Context) error {
	if err := r.sub.Consume(ctx, r.Handler()); err != nil && !errors.Is(err, context.Canceled) {
		mErrors.Inc()
		r.log.Warn("kafka consume", zap.Error(err))
		return err
	}
	return nil
}
