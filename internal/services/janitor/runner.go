package janitor

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

var (
	mDeleted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "janitor_rows_deleted_total", Help: "Rows removed by the sweeper.",
	}, []string{"table"})
	mErr = promauto.NewCounter(prometheus.CounterOpts{
		Name: "janitor_errors_total", Help: "Failed sweeps.",
	})
	mLoopDur = promauto.NewHistogram(prometheus.HistogramOpts{
		Name: "janitor_sweep_duration_seconds", Help: "Sweep duration.",
		Buckets: prometheus.DefBuckets,
	})
)

type Runner struct {
	log  *zap.Logger
	uc   *Usecase
	tick time.Duration
}

func New(log *zap.Logger, uc *Usecase, tick time.Duration) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{log: log, uc: uc, tick: tick}
}

func (r *Runner) sweep(ctx context.Context) {
	start := time.Now()
	res, err := r.uc.Sweep(ctx)
	if err != nil {
		mErr.Inc()
		r.log.Warn("sweep error", zap.Error(err))
	}
	mDeleted.WithLabelValues("refresh_tokens").Add(float64(res.Tokens))
	mDeleted.WithLabelValues("outbox").Add(float64(res.Outbox))
	if res.Tokens > 0 || res.Outbox > 0 {
		r.log.Info("sweep done", zap.Int64("refresh_tokens", res.Tokens), zap.Int64("outbox", res.Outbox))
	}
	mLoopDur.Observe(time.Since(start).Seconds())
}

// Run sweeps once immediately and then on every tick until ctx is done.
func (r *Runner) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.tick)
	defer ticker.Stop()

	r.sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			r.sweep(ctx)
		}
	}
}
