// Package worker defines worker contracts for asynchronous outbound delivery.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/okian/matchdesk/internal/adapters/gateway"
	"github.com/okian/matchdesk/internal/adapters/mq/queue"
	"github.com/okian/matchdesk/internal/domain/model"
	"github.com/okian/matchdesk/pkg/logger"
	"github.com/okian/matchdesk/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultWorkerMultiplier = 2 // multiplier for runtime.NumCPU()
	depthUpdateInterval     = 5 * time.Second
)

// Sender abstracts what workers need of the gateway.
type Sender interface {
	Send(ctx context.Context, channel model.Ref, msg gateway.Message) (string, error)
}

// Outbox defines how workers receive deliveries.
type Outbox interface {
	Dequeue(ctx context.Context) <-chan queue.Delivery
	Len(ctx context.Context) int
}

// Worker drains deliveries and pushes them to the platform.
type Worker interface {
	// Run starts the worker loop until ctx is canceled.
	Run(ctx context.Context)

	// Shutdown gracefully stops the worker.
	Shutdown(ctx context.Context) error
}

// DeliveryWorker implements Worker for outbound deliveries. Delivery is
// best effort: a failed send is logged and counted, never retried and
// never surfaced to the command that produced it.
type DeliveryWorker struct {
	outbox Outbox
	sender Sender
	name   string

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewDeliveryWorker creates a new worker with configuration options.
func NewDeliveryWorker(outbox Outbox, sender Sender, opts ...Option) *DeliveryWorker {
	w := &DeliveryWorker{
		outbox:   outbox,
		sender:   sender,
		name:     "delivery",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Get().Named("delivery"),
	}

	for _, opt := range opts {
		opt(w)
	}

	if w.name != "delivery" {
		w.logger = w.logger.Named(w.name)
	}

	return w
}

// Run starts the worker loop.
func (w *DeliveryWorker) Run(ctx context.Context) {
	defer close(w.done)

	deliveries := w.outbox.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case d, ok := <-deliveries:
			if !ok {
				return
			}
			w.deliver(ctx, d)
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *DeliveryWorker) Shutdown(ctx context.Context) error {
	close(w.shutdown)

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// deliver pushes a single delivery to the platform.
func (w *DeliveryWorker) deliver(ctx context.Context, d queue.Delivery) {
	start := time.Now()

	_, err := w.sender.Send(ctx, d.Channel, d.Message)
	metrics.RecordDeliveryLatency(float64(time.Since(start).Milliseconds()))

	if err != nil {
		metrics.RecordDelivery(d.Kind, "error")
		metrics.RecordErrorByComponent("delivery", "send_error")
		if d.Kind == queue.KindAudit {
			metrics.RecordAuditDropped()
		}
		w.logger.Error(ctx, "delivery failed",
			logger.String("kind", d.Kind),
			logger.Uint64("channel", uint64(d.Channel)),
			logger.Error(err),
		)
		return
	}

	metrics.RecordDelivery(d.Kind, "ok")
}

// Pool manages multiple delivery workers.
type Pool struct {
	workers []*DeliveryWorker
	outbox  Outbox

	logger logger.Logger
}

// NewPool creates a new worker pool. A non-positive count derives the pool
// size from the number of CPUs.
func NewPool(workerCount int, outbox Outbox, sender Sender) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU() * defaultWorkerMultiplier
	}

	pool := &Pool{
		workers: make([]*DeliveryWorker, workerCount),
		outbox:  outbox,
		logger:  logger.Get().Named("delivery-pool"),
	}

	for i := 0; i < workerCount; i++ {
		pool.workers[i] = NewDeliveryWorker(
			outbox,
			sender,
			WithName("delivery-"+strconv.Itoa(i)),
		)
	}

	metrics.UpdateDeliveryWorkers(workerCount)

	return pool
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}

	go p.startDepthUpdater(ctx)
}

// Shutdown gracefully stops all workers in the pool.
func (p *Pool) Shutdown(ctx context.Context) error {
	var firstErr error
	for _, w := range p.workers {
		if err := w.Shutdown(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	metrics.UpdateDeliveryWorkers(0)

	if firstErr != nil {
		return fmt.Errorf("pool shutdown: %w", firstErr)
	}
	return nil
}

// Size returns the number of workers in the pool.
func (p *Pool) Size() int {
	return len(p.workers)
}

// startDepthUpdater periodically refreshes the outbox depth gauge.
func (p *Pool) startDepthUpdater(ctx context.Context) {
	ticker := time.NewTicker(depthUpdateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			metrics.UpdateOutboxDepth(p.outbox.Len(ctx))
		}
	}
}
