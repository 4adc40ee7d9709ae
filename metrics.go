package main

import (
	"log"
	"sync"
	"time"
)

// Counter keys persisted through the Store
const (
	MetricConnections = "connections_total"
	MetricUpdates     = "updates_total"
	MetricRPSMatches  = "rps_matches_total"
	KeyGamesPlayed    = "games_played"
)

const (
	metricsBufSize    = 1024
	metricsBatchLimit = 50
	metricsFlushEvery = 5 * time.Second
)

// Metrics batches counter increments and writes them to the store in the
// background, so the game loop and message handlers never block on SQLite.
type Metrics struct {
	store Store
	incs  chan string
	stop  chan struct{}
	wg    sync.WaitGroup
}

// NewMetrics creates and starts the metrics background writer
func NewMetrics(store Store) *Metrics {
	m := &Metrics{
		store: store,
		incs:  make(chan string, metricsBufSize),
		stop:  make(chan struct{}),
	}
	m.wg.Add(1)
	go m.writer()
	return m
}

// Track enqueues one increment for async persistence (non-blocking)
func (m *Metrics) Track(key string) {
	select {
	case m.incs <- key:
	default:
		// Channel full — drop rather than blocking callers
	}
}

// Count reads the persisted value of a counter
func (m *Metrics) Count(key string) int64 {
	return CounterValue(m.store, key)
}

// Stop flushes pending increments and shuts the writer down
func (m *Metrics) Stop() {
	close(m.stop)
	m.wg.Wait()
}

// writer is the background goroutine that batches and flushes increments
func (m *Metrics) writer() {
	defer m.wg.Done()

	batch := make(map[string]int64)
	pending := 0
	ticker := time.NewTicker(metricsFlushEvery)
	defer ticker.Stop()

	flush := func() {
		for key, delta := range batch {
			if _, err := m.store.Increment(key, delta); err != nil {
				log.Printf("metrics flush error for %s: %v", key, err)
			}
		}
		batch = make(map[string]int64)
		pending = 0
	}

	for {
		select {
		case key := <-m.incs:
			batch[key]++
			pending++
			if pending >= metricsBatchLimit {
				flush()
			}
		case <-ticker.C:
			if pending > 0 {
				flush()
			}
		case <-m.stop:
			// Drain whatever is still queued before exiting
			for {
				select {
				case key := <-m.incs:
					batch[key]++
					pending++
				default:
					if pending > 0 {
						flush()
					}
					return
				}
			}
		}
	}
}
