package twin

import (
	"context"
	"time"

	"go.uber.org/zap"
	"github.com/G-P-x/IoT-project/pkg/common"
	"github.com/G-P-x/IoT-project/pkg/models"
)

type evalEvent struct {
	twinID  string
	reading models.SensorReading
}

// evalQueue decouples anomaly evaluation and notification from the
// ingestion write path. Bounded; overflow drops the oldest pending event.
type evalQueue struct {
	ch chan evalEvent
}

func newEvalQueue(capacity int) *evalQueue {
	if capacity < 1 {
		capacity = 1
	}
	return &evalQueue{ch: make(chan evalEvent, capacity)}
}

func (q *evalQueue) enqueue(ev evalEvent) {
	logger := common.GetLoggerWith(
		common.LoggerNameTwinCore,
		zap.String(common.LoggerFieldTwinCategory, common.LoggerCategoryAnomaly),
	)

	for {
		select {
		case q.ch <- ev:
			return
		default:
		}
		select {
		case dropped := <-q.ch:
			logger.Warn("Evaluation queue full, dropped oldest reading",
				zap.String("twin_id", dropped.twinID),
				zap.String("sensor_id", dropped.reading.SensorID))
		default:
		}
	}
}

// PipelineOpts sets the cadence of the background loops. Sweeps are
// idempotent, so a delayed or skipped tick never corrupts state.
type PipelineOpts struct {
	QueueCapacity      int
	LivenessSweepEvery time.Duration
	CommandSweepEvery  time.Duration
}

// StartPipeline runs the anomaly evaluation worker and the liveness and
// command timeout sweeps until ctx is cancelled.
func (e *Engine) StartPipeline(ctx context.Context, opts PipelineOpts) {
	logger := common.GetLoggerWith(
		common.LoggerNameTwinCore,
		zap.String(common.LoggerFieldTwinCategory, common.LoggerCategoryAnomaly),
	)

	e.queue = newEvalQueue(opts.QueueCapacity)

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case ev := <-e.queue.ch:
				if err := e.Anomaly.Evaluate(ev.twinID, &ev.reading); err != nil {
					logger.Warn("Anomaly evaluation failed",
						zap.String("twin_id", ev.twinID), zap.Error(err))
				}
			}
		}
	}()

	if opts.LivenessSweepEvery > 0 {
		go e.runSweep(ctx, opts.LivenessSweepEvery, func(now time.Time) error {
			return e.Health.SweepLiveness(now)
		})
	}

	if opts.CommandSweepEvery > 0 {
		go e.runSweep(ctx, opts.CommandSweepEvery, func(now time.Time) error {
			return e.Command.SweepTimeouts(now)
		})
	}
}

func (e *Engine) runSweep(ctx context.Context, every time.Duration, sweep func(time.Time) error) {
	logger := common.GetLoggerWith(common.LoggerNameTwinCore)

	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if err := sweep(now); err != nil {
				logger.Warn("Sweep failed", zap.Error(err))
			}
		}
	}
}

func (e *Engine) enqueueEvaluation(twinID string, reading *models.SensorReading) {
	if e.queue == nil {
		// pipeline not started, evaluate inline (tests, tooling)
		if e.Anomaly != nil {
			_ = e.Anomaly.Evaluate(twinID, reading)
		}
		return
	}
	e.queue.enqueue(evalEvent{twinID: twinID, reading: *reading})
}
