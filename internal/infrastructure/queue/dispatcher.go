package queue

import (
	"context"
	"hash/fnv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/payments-portal/portal/internal/api/metrics"
	"github.com/payments-portal/portal/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 64
)

// Dispatcher routes uploaded CSV files to a fixed set of import workers using
// consistent hashing on the filename, so re-uploads of one file are imported
// in the order they arrived.
type Dispatcher struct {
	workers   []chan ports.ImportJob
	processor ports.BatchProcessor
	log       zerolog.Logger
	wg        sync.WaitGroup
}

var _ ports.ImportQueue = (*Dispatcher)(nil)

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, processor ports.BatchProcessor, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers:   make([]chan ports.ImportJob, numWorkers),
		processor: processor,
		log:       log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.ImportJob, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Wait blocks until every worker has returned.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Enqueue sends a job to the worker responsible for its filename.
// The call is non-blocking up to channelBuffer capacity.
func (d *Dispatcher) Enqueue(job ports.ImportJob) {
	d.workers[d.shardIndex(job.Filename)] <- job
}

// shardIndex maps a filename deterministically to a worker index.
func (d *Dispatcher) shardIndex(filename string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(filename))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.ImportJob) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-ch:
			if !ok {
				return
			}
			if err := d.processor.Process(ctx, job); err != nil {
				metrics.ImportJobsTotal.WithLabelValues("failed").Inc()
				d.log.Error().Err(err).
					Int64("batch_id", job.BatchID).
					Str("filename", job.Filename).
					Int("worker_id", id).
					Msg("batch import failed")
				continue
			}
			metrics.ImportJobsTotal.WithLabelValues("ok").Inc()
		}
	}
}
