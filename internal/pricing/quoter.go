package pricing

import (
	"context"
	"time"

	"github.com/spigell/powerus/internal/metrics"
	"github.com/spigell/powerus/internal/problem"
	"github.com/spigell/powerus/internal/roster"
	"go.uber.org/zap"
)

const DefaultEstimateTimeout = 15 * time.Second

// Quoter prices a job, consulting the Estimator when one is configured.
type Quoter struct {
	engine    *Engine
	estimator *Estimator
	timeout   time.Duration
	logger    *zap.Logger
}

// NewQuoter builds a Quoter. A nil estimator always yields fallback quotes.
func NewQuoter(engine *Engine, estimator *Estimator, timeout time.Duration, logger *zap.Logger) *Quoter {
	if timeout <= 0 {
		timeout = DefaultEstimateTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if engine == nil {
		engine = NewEngine(logger)
	}

	return &Quoter{
		engine:    engine,
		estimator: estimator,
		timeout:   timeout,
		logger:    logger,
	}
}

// Quote prices the job. Estimator failures are logged and the fallback quote is returned.
func (q *Quoter) Quote(ctx context.Context, worker roster.Worker, p problem.Problem, hours float64) (*Result, error) {
	if q.estimator == nil {
		return q.engine.Price(worker, p, hours, nil)
	}

	reference, err := q.engine.FallbackTotal(worker, p, hours)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, q.timeout)
	defer cancel()

	estimate, err := q.estimator.Estimate(ctx, worker, p, hours, reference)
	if err != nil {
		q.logger.Warn("price estimate failed, using fallback pricing",
			zap.String("worker_id", worker.ID),
			zap.Error(err),
		)
		metrics.RecordEstimate(metrics.EstimateFailed)
		return q.engine.Price(worker, p, hours, nil)
	}

	return q.engine.Price(worker, p, hours, estimate)
}
