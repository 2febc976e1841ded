package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/rentalhub/rental-api/internal/api/metrics"
	"github.com/rentalhub/rental-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	writeTimeout   = 5 * time.Second
)

// Dispatcher applies durable storage writes in the background. Writes are
// sharded by session id so every session's writes land in the order they
// were enqueued. Failures are logged and counted; nothing is retried.
type Dispatcher struct {
	workers []chan ports.StorageOp
	storage ports.LocalStorage
	log     zerolog.Logger
	wg      sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, storage ports.LocalStorage, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.StorageOp, numWorkers),
		storage: storage,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.StorageOp, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. When ctx is cancelled each worker
// applies whatever is already buffered and exits.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue hands op to the worker that owns its session. It blocks only when
// that worker's buffer is full.
func (d *Dispatcher) Enqueue(op ports.StorageOp) {
	idx := d.shardIndex(op.SessionID)
	d.workers[idx] <- op
	metrics.StorageQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
}

// Close stops accepting writes and waits for pending ones to finish.
func (d *Dispatcher) Close() {
	for _, ch := range d.workers {
		close(ch)
	}
	d.wg.Wait()
}

// shardIndex maps a session id deterministically to a worker index.
func (d *Dispatcher) shardIndex(sessionID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(sessionID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.StorageOp) {
	defer d.wg.Done()
	depth := metrics.StorageQueueDepth.WithLabelValues(strconv.Itoa(id))
	for {
		select {
		case <-ctx.Done():
			d.drain(ch)
			return
		case op, ok := <-ch:
			if !ok {
				return
			}
			d.apply(op)
			depth.Set(float64(len(ch)))
		}
	}
}

func (d *Dispatcher) drain(ch <-chan ports.StorageOp) {
	for {
		select {
		case op, ok := <-ch:
			if !ok {
				return
			}
			d.apply(op)
		default:
			return
		}
	}
}

// apply runs a single write with its own timeout so shutdown does not cut
// it short.
func (d *Dispatcher) apply(op ports.StorageOp) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	kind := "set"
	var err error
	if op.Delete {
		kind = "remove"
		err = d.storage.Remove(ctx, op.SessionID, op.Key)
	} else {
		err = d.storage.Set(ctx, op.SessionID, op.Key, op.Value)
	}

	if err != nil {
		metrics.StorageWritesTotal.WithLabelValues(kind, "error").Inc()
		d.log.Warn().Err(err).
			Str("session_id", op.SessionID).
			Str("key", op.Key).
			Str("op", kind).
			Msg("durable write failed")
		return
	}
	metrics.StorageWritesTotal.WithLabelValues(kind, "ok").Inc()
}
