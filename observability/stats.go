package observability

import (
	"runtime"
	"sync/atomic"
	"time"
)

// Snapshot aggregates the moderation counters for the debug inspector
// and the /status command.
type Snapshot struct {
	Observed        uint64 `json:"observed"`
	Stored          uint64 `json:"stored"`
	Updated         uint64 `json:"updated"`
	Deleted         uint64 `json:"deleted"`
	Notified        uint64 `json:"notified"`
	Purged          uint64 `json:"purged"`
	StoreErrors     uint64 `json:"store_errors"`
	TransportErrors uint64 `json:"transport_errors"`
	AllocMemMb      uint64 `json:"alloc_mem_mb"`
	NumGC           uint32 `json:"num_gc"`
}

// Stats collects process-wide moderation counters. All increments are
// atomic; readers get a consistent-enough snapshot without locking the
// event path.
type Stats struct {
	startedAt time.Time

	observed        uint64
	stored          uint64
	updated         uint64
	deleted         uint64
	notified        uint64
	purged          uint64
	storeErrors     uint64
	transportErrors uint64
}

func NewStats() *Stats {
	return &Stats{startedAt: time.Now().UTC()}
}

// StartedAt is the process start instant used by the uptime command.
func (s *Stats) StartedAt() time.Time {
	return s.startedAt
}

func (s *Stats) IncrObserved()        { atomic.AddUint64(&s.observed, 1) }
func (s *Stats) IncrStored()          { atomic.AddUint64(&s.stored, 1) }
func (s *Stats) IncrUpdated()         { atomic.AddUint64(&s.updated, 1) }
func (s *Stats) IncrDeleted()         { atomic.AddUint64(&s.deleted, 1) }
func (s *Stats) IncrNotified()        { atomic.AddUint64(&s.notified, 1) }
func (s *Stats) AddPurged(n int)      { atomic.AddUint64(&s.purged, uint64(n)) }
func (s *Stats) IncrStoreErrors()     { atomic.AddUint64(&s.storeErrors, 1) }
func (s *Stats) IncrTransportErrors() { atomic.AddUint64(&s.transportErrors, 1) }

func (s *Stats) Snapshot() Snapshot {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return Snapshot{
		Observed:        atomic.LoadUint64(&s.observed),
		Stored:          atomic.LoadUint64(&s.stored),
		Updated:         atomic.LoadUint64(&s.updated),
		Deleted:         atomic.LoadUint64(&s.deleted),
		Notified:        atomic.LoadUint64(&s.notified),
		Purged:          atomic.LoadUint64(&s.purged),
		StoreErrors:     atomic.LoadUint64(&s.storeErrors),
		TransportErrors: atomic.LoadUint64(&s.transportErrors),
		AllocMemMb:      m.Alloc / 1024 / 1024,
		NumGC:           m.NumGC,
	}
}
