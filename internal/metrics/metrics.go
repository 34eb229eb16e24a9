package metrics

import (
	"sync/atomic"
	"time"
)

// MetricID identifies a specific counter or histogram slot.
type MetricID uint16

const (
	MetricLoginSuccess MetricID = iota
	MetricLoginFailure
	MetricRegisterSuccess
	MetricRegisterDuplicate
	MetricRegisterFailure
	MetricLogout
	MetricRefreshSuccess
	MetricRefreshFailure
	MetricRefreshDenied
	MetricRefreshRevoked
	MetricAccessTokenRotated
	MetricRefreshTokenRotated
	MetricSessionCreated
	MetricSessionConflict
	MetricSessionInvalidated
	MetricValidateSuccess
	MetricValidateFailure
	MetricValidateLatency
	MetricIDCount
)

const (
	histBucketCount = 8
	cacheLineSize   = 64
)

// histBoundsNanos are the upper bounds of the first seven latency buckets;
// the eighth bucket is +Inf.
var histBoundsNanos = [histBucketCount - 1]int64{
	int64(5 * time.Millisecond),
	int64(10 * time.Millisecond),
	int64(25 * time.Millisecond),
	int64(50 * time.Millisecond),
	int64(100 * time.Millisecond),
	int64(250 * time.Millisecond),
	int64(500 * time.Millisecond),
}

type paddedCounter struct {
	value uint64
	_     [cacheLineSize - 8]byte
}

type histogram struct {
	buckets [histBucketCount]uint64
}

// Config controls whether metrics are recorded at all and whether latency
// histograms are maintained.
type Config struct {
	Enabled       bool
	EnableLatency bool
}

// Metrics holds atomic counters and optional latency histograms. All
// methods are safe for concurrent use; a nil or disabled Metrics is a no-op.
type Metrics struct {
	cfg        Config
	counters   [MetricIDCount]paddedCounter
	histograms [MetricIDCount]histogram
}

// Snapshot is a point-in-time deep copy of all metrics.
type Snapshot struct {
	Counters   map[MetricID]uint64
	Histograms map[MetricID][]uint64
}

// New creates a Metrics instance. When cfg.Enabled is false, all operations
// are no-ops and Snapshot returns empty maps.
func New(cfg Config) *Metrics {
	return &Metrics{cfg: cfg}
}

// Inc atomically increments the counter for id.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || !m.cfg.Enabled || id >= MetricIDCount {
		return
	}
	atomic.AddUint64(&m.counters[id].value, 1)
}

// Observe records a latency sample into the histogram for id.
func (m *Metrics) Observe(id MetricID, d time.Duration) {
	if m == nil || !m.cfg.Enabled || !m.cfg.EnableLatency || id >= MetricIDCount {
		return
	}
	atomic.AddUint64(&m.histograms[id].buckets[bucketIndex(d)], 1)
}

// Snapshot returns a deep copy of all non-zero counters and histograms.
func (m *Metrics) Snapshot() Snapshot {
	snap := Snapshot{
		Counters:   map[MetricID]uint64{},
		Histograms: map[MetricID][]uint64{},
	}
	if m == nil || !m.cfg.Enabled {
		return snap
	}

	for id := MetricID(0); id < MetricIDCount; id++ {
		if v := atomic.LoadUint64(&m.counters[id].value); v > 0 {
			snap.Counters[id] = v
		}

		var buckets []uint64
		for b := 0; b < histBucketCount; b++ {
			if v := atomic.LoadUint64(&m.histograms[id].buckets[b]); v > 0 {
				if buckets == nil {
					buckets = make([]uint64, histBucketCount)
				}
				buckets[b] = v
			}
		}
		if buckets != nil {
			snap.Histograms[id] = buckets
		}
	}

	return snap
}

func bucketIndex(d time.Duration) int {
	nanos := int64(d)
	for i, bound := range histBoundsNanos {
		if nanos <= bound {
			return i
		}
	}
	return histBucketCount - 1
}
