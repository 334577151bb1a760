package queue

import (
	"context"
	"hash/fnv"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/omsomani/account-system/internal/api/metrics"
	"github.com/omsomani/account-system/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher fans audit events out to a fixed set of workers using consistent
// hashing on the account, so events for one account are recorded in order.
// Recording is asynchronous and never blocks the request path; when a worker
// channel is full the event is dropped with a warning.
type Dispatcher struct {
	workers []chan ports.AuditEvent
	log     zerolog.Logger
}

var _ ports.AuditSink = (*Dispatcher)(nil)

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.AuditEvent, numWorkers),
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.AuditEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Record implements ports.AuditSink.
func (d *Dispatcher) Record(event ports.AuditEvent) {
	select {
	case d.workers[d.shardIndex(event)] <- event:
	default:
		d.log.Warn().Str("type", event.Type).Msg("audit queue full, event dropped")
	}
}

// shardIndex maps an event deterministically to a worker index. Events
// without an account ID shard on the subject instead.
func (d *Dispatcher) shardIndex(event ports.AuditEvent) int {
	h := fnv.New32a()
	if event.AccountID != 0 {
		_, _ = h.Write([]byte(strconv.FormatUint(event.AccountID, 10)))
	} else {
		_, _ = h.Write([]byte(event.Subject))
	}
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.AuditEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			metrics.AuthEventsTotal.WithLabelValues(event.Type).Inc()
			d.log.Info().
				Str("type", event.Type).
				Uint64("account_id", event.AccountID).
				Str("subject", event.Subject).
				Time("at", event.Timestamp).
				Int("worker_id", id).
				Msg("audit event")
		}
	}
}
