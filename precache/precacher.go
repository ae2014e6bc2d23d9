/*
NAME
  precacher.go

AUTHORS
  Ella Pietraroia <ella@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package precache runs a bounded frame-ahead pipeline in front of a slow or
// blocking frame source, so an engine consuming frames sequentially does not
// stall on every fetch. One goroutine (the producer) keeps a ring buffer of
// upcoming frames topped up; callers of Get (the consumer) are expected to
// request frames from a single goroutine in roughly increasing index order,
// mirroring a single playback cursor moving through a dataset.
package precache

import (
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/ausocean/segm/segm"
	"github.com/ausocean/utils/logging"
)

// topupInterval is how often the producer wakes on its own, with no pending
// request, to keep the ring buffer full.
const topupInterval = 10 * time.Millisecond

const (
	// defaultBufferBytes is the ring buffer's capacity when Options.BufferBytes
	// is left unset.
	defaultBufferBytes = 6 << 30 // 6 GiB
	// maxBufferBytes is the platform cap on ring buffer capacity. A caller
	// asking for more than this gets ErrPrecacheOverflow rather than an
	// allocation that could exhaust the host.
	maxBufferBytes = 64 << 30 // 64 GiB
)

// FetchFunc retrieves the frame at index idx from the underlying source.
// Implementations are called from the producer goroutine while the
// precacher runs, and directly from Get once it has stopped; they need not
// be safe for concurrent use.
type FetchFunc func(idx int) (segm.Image, error)

var (
	// ErrAlreadyRunning is returned by Start when the precacher is already
	// started.
	ErrAlreadyRunning = errors.New("precache: already running")
	// ErrIndexRange is returned by Get when idx falls outside [0, total).
	ErrIndexRange = errors.New("precache: index out of range")
	// ErrPrecacheOverflow is returned by Start when the requested buffer
	// capacity exceeds maxBufferBytes.
	ErrPrecacheOverflow = errors.New("precache: requested buffer exceeds platform cap")
)

// Options configures a Precacher.
type Options struct {
	// BufferBytes is the ring buffer's capacity, in bytes. Defaults to 6 GiB
	// if <= 0; Start rejects a value above maxBufferBytes with
	// ErrPrecacheOverflow.
	BufferBytes int64
	// Logger receives diagnostic messages about cache misses and resyncs.
	// May be left nil.
	Logger logging.Logger
}

// Precacher runs FetchFunc ahead of a single consumer, caching frames up to
// a fixed byte budget. It must be started with Start and stopped with Stop;
// a zero Precacher is not usable.
type Precacher struct {
	fetch      FetchFunc
	bufBytes   int64
	frameBytes int // discovered from the first successfully fetched frame; 0 until then.
	log        logging.Logger

	mu      sync.Mutex
	total   int
	reqCh   chan int
	replyCh chan fetchResult
	stopCh  chan struct{}
	done    chan struct{}
	running bool
}

type fetchResult struct {
	frame segm.Image
	err   error
}

// New returns a Precacher that calls fetch to produce frames.
func New(fetch FetchFunc, opts Options) *Precacher {
	bufBytes := opts.BufferBytes
	if bufBytes <= 0 {
		bufBytes = defaultBufferBytes
	}
	return &Precacher{fetch: fetch, bufBytes: bufBytes, log: opts.Logger}
}

// Start begins precaching indices [0, total) in a background goroutine,
// bounding the cache to the byte budget configured via Options.BufferBytes.
// Returns ErrAlreadyRunning if already started, or ErrPrecacheOverflow if
// that budget exceeds maxBufferBytes.
func (p *Precacher) Start(total int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running {
		return ErrAlreadyRunning
	}
	if total <= 0 {
		return errors.Errorf("precache: total must be positive, got %d", total)
	}
	if p.bufBytes > maxBufferBytes {
		return ErrPrecacheOverflow
	}
	p.total = total
	p.reqCh = make(chan int)
	p.replyCh = make(chan fetchResult)
	p.stopCh = make(chan struct{})
	p.done = make(chan struct{})
	p.running = true
	go p.run()
	return nil
}

// Stop halts precaching and waits for the producer goroutine to exit. Get
// falls back to fetching directly (with no caching) after Stop returns.
func (p *Precacher) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	done := p.done
	close(p.stopCh)
	p.mu.Unlock()
	<-done
}

// Get returns the frame at idx, blocking until it is available. Requests
// should arrive in roughly increasing index order; an out-of-order request
// discards the current cache window and resynchronizes from idx, mirroring
// a dataset seek.
func (p *Precacher) Get(idx int) (segm.Image, error) {
	p.mu.Lock()
	running, total := p.running, p.total
	p.mu.Unlock()
	if !running {
		return p.fetch(idx)
	}
	if idx < 0 || idx >= total {
		return segm.Image{}, errors.Wrapf(ErrIndexRange, "%d not in [0,%d)", idx, total)
	}
	select {
	case p.reqCh <- idx:
	case <-p.done:
		return p.fetch(idx)
	}
	select {
	case r := <-p.replyCh:
		return r.frame, r.err
	case <-p.done:
		return p.fetch(idx)
	}
}

type cacheEntry struct {
	idx   int
	frame segm.Image
	err   error
}

// run is the producer loop. It maintains a contiguous ring of cached frames
// covering [nextExpected, nextPrecache), services requests as they arrive,
// and otherwise wakes every topupInterval to keep the ring full.
func (p *Precacher) run() {
	defer close(p.done)

	var cache []cacheEntry
	nextExpected, nextPrecache := 0, 0

	fillOne := func() bool {
		if nextPrecache >= p.total {
			return false
		}
		// p.frameBytes is 0 until the first frame is fetched, so the budget
		// check only applies from the second frame onward; that is fine,
		// a single frame never exceeds a byte budget worth caching at all.
		if p.frameBytes > 0 && int64(len(cache))*int64(p.frameBytes) >= p.bufBytes {
			return false
		}
		frame, err := p.fetch(nextPrecache)
		if err == nil && p.frameBytes == 0 {
			if n := len(frame.Pix); n > 0 {
				p.frameBytes = n
			} else {
				p.frameBytes = 1
			}
		}
		cache = append(cache, cacheEntry{idx: nextPrecache, frame: frame, err: err})
		nextPrecache++
		return true
	}
	for fillOne() {
	}

	ticker := time.NewTicker(topupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-p.stopCh:
			return

		case idx := <-p.reqCh:
			var result fetchResult
			if len(cache) > 0 && idx >= nextExpected && idx < nextPrecache {
				// In-order (or within the current cache window): pop cached
				// entries up to and including idx.
				for len(cache) > 0 && cache[0].idx <= idx {
					result = fetchResult{frame: cache[0].frame, err: cache[0].err}
					cache = cache[1:]
					nextExpected++
				}
			} else {
				// Out-of-order request: the cache is no longer useful,
				// fetch directly and resynchronize around idx.
				if p.log != nil {
					p.log.Debug("precache: out-of-order request, resyncing", "idx", idx, "nextExpected", nextExpected)
				}
				frame, err := p.fetch(idx)
				result = fetchResult{frame: frame, err: err}
				cache = cache[:0]
				nextExpected, nextPrecache = idx+1, idx+1
			}
			select {
			case p.replyCh <- result:
			case <-p.stopCh:
				return
			}
			for fillOne() {
			}

		case <-ticker.C:
			for fillOne() {
			}
		}
	}
}
