package speedtest

import "sync/atomic"

// barrier is an N-party rendezvous: every party calls wait() exactly once
// and all N calls return together, once all N have arrived. Unlike
// sync.WaitGroup, which has no "release everyone together" semantic, this
// gives a worker that failed to connect a way to still call wait() so the
// controller, also a party, is released instead of deadlocking on a dead
// worker.
type barrier struct {
	n        int32
	arrived  int32
	released chan struct{}
}

func newBarrier(parties int) *barrier {
	return &barrier{n: int32(parties), released: make(chan struct{})}
}

func (b *barrier) wait() {
	if atomic.AddInt32(&b.arrived, 1) == b.n {
		close(b.released)
		return
	}
	<-b.released
}

// LoadCounter is the per-phase coordination object shared by one controller
// and N workers. counter and endFlag are lock-free atomics: many writers
// and one reader for counter, one writer and many readers for endFlag.
// samples is appended only by the controller (Count reads counter
// atomically) and read by Speed/Status only after End has been called and
// all workers joined, so it never needs a lock.
type LoadCounter struct {
	start *barrier

	counter atomic.Uint64
	endFlag atomic.Bool

	samples []sample
}

type sample struct {
	bytes  uint64
	micros int64
}

// NewLoadCounter creates the N+1-party start barrier (N workers + the
// controller) and a zero-length, capacity-preallocated sample series.
func NewLoadCounter(workers int) *LoadCounter {
	return &LoadCounter{
		start:   newBarrier(workers + 1),
		samples: make([]sample, 0, totalSamples),
	}
}

// Wait rendezvouses at the start barrier. Both workers (after connecting,
// or immediately on connect failure) and the controller call this exactly
// once per phase.
func (c *LoadCounter) Wait() { c.start.wait() }

// Increase atomically adds n bytes to the shared counter. Safe for
// concurrent use by any number of workers.
func (c *LoadCounter) Increase(n uint64) { c.counter.Add(n) }

// IsEnd reports whether the controller has called End. Workers check this
// before each I/O chunk; observing a stale false for up to one chunk is
// intentional and harmless.
func (c *LoadCounter) IsEnd() bool { return c.endFlag.Load() }

// End sets the termination flag. Monotonic false→true; idempotent.
func (c *LoadCounter) End() { c.endFlag.Store(true) }

// Count appends a (bytes-so-far, elapsed-microseconds) sample. Called only
// by the controller, once per 500ms tick, never concurrently with a reader.
func (c *LoadCounter) Count(elapsedMicros int64) {
	c.samples = append(c.samples, sample{bytes: c.counter.Load(), micros: elapsedMicros})
}

// Speed computes bits-per-microsecond (== Mbit/s) across the steady-state
// window [windowStart, windowEnd]. Using the window's endpoint byte totals
// rather than averaging per-sample speeds makes this equivalent to
// bytes-over-time across the window, robust to per-tick scheduling jitter.
func (c *LoadCounter) Speed() float64 {
	if len(c.samples) < totalSamples {
		return 0
	}
	lo, hi := c.samples[windowStart], c.samples[windowEnd]
	dt := hi.micros - lo.micros
	if dt <= 0 {
		return 0
	}
	return float64((hi.bytes-lo.bytes)*8) / float64(dt)
}

// Status scans all 28 samples for adjacent pairs sharing the same byte
// total. Six or more flat pairs means the flow made no forward progress
// for at least 3 of the window's 14 seconds, classified 断流 (stalled).
// Otherwise 正常 (steady).
func (c *LoadCounter) Status() string {
	if len(c.samples) < totalSamples {
		return StatusStalled
	}
	flat := 0
	for i := 1; i < len(c.samples); i++ {
		if c.samples[i].bytes == c.samples[i-1].bytes {
			flat++
		}
	}
	if flat >= 6 {
		return StatusStalled
	}
	return StatusSteady
}
