// Package queue provides the asynchronous mail dispatcher. Password-reset
// email is best-effort: the reset token is already durable when the job is
// queued, so delivery failure is logged and dropped, never propagated.
package queue

import (
	"context"
	"fmt"
	"hash/fnv"

	"github.com/rs/zerolog"

	"github.com/storefront/commerce-api/internal/api/metrics"
	"github.com/storefront/commerce-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 128
)

// MailDispatcher routes mail jobs to a fixed set of workers using
// consistent hashing on the recipient, keeping per-recipient ordering.
type MailDispatcher struct {
	workers []chan ports.MailJob
	mailer  ports.Mailer
	log     zerolog.Logger
}

// NewMailDispatcher creates a dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewMailDispatcher(numWorkers int, mailer ports.Mailer, log zerolog.Logger) *MailDispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &MailDispatcher{
		workers: make([]chan ports.MailJob, numWorkers),
		mailer:  mailer,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.MailJob, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *MailDispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue sends a job to the worker responsible for its recipient.
// Non-blocking up to channelBuffer capacity.
func (d *MailDispatcher) Enqueue(job ports.MailJob) {
	idx := d.shardIndex(job.To)
	d.workers[idx] <- job
	metrics.MailQueueDepth.WithLabelValues(workerLabel(idx)).Set(float64(len(d.workers[idx])))
}

// shardIndex maps a recipient deterministically to a worker index.
func (d *MailDispatcher) shardIndex(to string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(to))
	return int(h.Sum32()) % len(d.workers)
}

func (d *MailDispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.MailJob) {
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-ch:
			if !ok {
				return
			}
			metrics.MailQueueDepth.WithLabelValues(workerLabel(id)).Set(float64(len(ch)))
			if err := d.mailer.Send(ctx, job); err != nil {
				metrics.MailSendFailuresTotal.Inc()
				d.log.Error().Err(err).
					Str("to", job.To).
					Int("worker_id", id).
					Msg("mail delivery failed")
			}
		}
	}
}

func workerLabel(id int) string {
	return fmt.Sprintf("%d", id)
}
