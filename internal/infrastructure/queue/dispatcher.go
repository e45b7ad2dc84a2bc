package queue

import (
	"context"
	"hash/fnv"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/ecostation/monitoring-console/internal/api/metrics"
	"github.com/ecostation/monitoring-console/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher routes station readings to a fixed set of workers using
// consistent hashing on the station id, guaranteeing per-station ordering.
type Dispatcher struct {
	workers []chan ports.ReadingInput
	service ports.IngestService
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service ports.IngestService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.ReadingInput, numWorkers),
		service: service,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.ReadingInput, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue sends a reading to the worker responsible for its station.
// The call is non-blocking up to channelBuffer capacity.
func (d *Dispatcher) Enqueue(reading ports.ReadingInput) {
	i := d.shardIndex(reading.StationID)
	d.workers[i] <- reading
	metrics.IngestQueueDepth.WithLabelValues(strconv.Itoa(i)).Set(float64(len(d.workers[i])))
}

// EnqueueBatch enqueues multiple readings preserving per-station ordering.
func (d *Dispatcher) EnqueueBatch(readings []ports.ReadingInput) {
	for _, r := range readings {
		d.Enqueue(r)
	}
}

// shardIndex maps a station id deterministically to a worker index.
func (d *Dispatcher) shardIndex(stationID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(stationID))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.ReadingInput) {
	worker := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case reading, ok := <-ch:
			if !ok {
				return
			}
			metrics.IngestQueueDepth.WithLabelValues(worker).Set(float64(len(ch)))
			if err := d.service.Process(ctx, reading); err != nil {
				d.log.Error().Err(err).
					Str("station_id", reading.StationID).
					Int("worker_id", id).
					Msg("reading processing failed")
			}
		}
	}
}
