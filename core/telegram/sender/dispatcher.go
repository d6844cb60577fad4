// Package sender queues outbound Bot API calls and retries transient failures.
package sender

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

var (
	// ErrQueueClosed is returned by Enqueue once Close has been called.
	ErrQueueClosed = errors.New("telegram sender: queue closed")
	// ErrQueueFull is returned when the buffer has no room for another call.
	ErrQueueFull = errors.New("telegram sender: queue full")

	errNilCall = errors.New("telegram sender: nil run function")
)

const (
	defaultQueueSize    = 256
	defaultRetryBackoff = 2 * time.Second
	defaultMaxDuration  = 12 * time.Second
)

// Options controls the behaviour of the outbound dispatcher.
type Options struct {
	QueueSize int
	// Workers defaults to 1, which keeps replies to one chat in the order they were queued.
	Workers      int
	MaxRetries   int
	RetryBackoff time.Duration
	// MaxDuration bounds the time spent on a single call including retries.
	MaxDuration time.Duration
}

func (o Options) withDefaults() Options {
	if o.QueueSize <= 0 {
		o.QueueSize = defaultQueueSize
	}
	o.Workers = max(o.Workers, 1)
	o.MaxRetries = max(o.MaxRetries, 0)
	if o.RetryBackoff <= 0 {
		o.RetryBackoff = defaultRetryBackoff
	}
	if o.MaxDuration <= 0 {
		o.MaxDuration = defaultMaxDuration
	}
	return o
}

// call is one queued Bot API request.
type call struct {
	ctx      context.Context
	action   string
	endpoint string
	run      func() error
}

// Dispatcher executes outbound Telegram calls on a fixed worker pool.
type Dispatcher struct {
	opts  Options
	queue chan call

	mu     sync.RWMutex
	closed bool
	once   sync.Once
	wg     sync.WaitGroup
	failed atomic.Uint64
}

// NewDispatcher starts the workers; zero options fall back to defaults.
func NewDispatcher(opts Options) *Dispatcher {
	opts = opts.withDefaults()
	d := &Dispatcher{
		opts:  opts,
		queue: make(chan call, opts.QueueSize),
	}
	d.wg.Add(opts.Workers)
	for range opts.Workers {
		go func() {
			defer d.wg.Done()
			for c := range d.queue {
				d.deliver(c)
			}
		}()
	}
	return d
}

// Enqueue schedules run without blocking. run may be invoked more than once.
func (d *Dispatcher) Enqueue(ctx context.Context, action, endpoint string, run func() error) error {
	if run == nil {
		return errNilCall
	}
	if ctx == nil {
		ctx = context.Background()
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return ErrQueueClosed
	}
	select {
	case d.queue <- call{ctx: ctx, action: action, endpoint: endpoint, run: run}:
		return nil
	default:
		return ErrQueueFull
	}
}

// ErrorCount returns the number of calls that failed after all attempts.
func (d *Dispatcher) ErrorCount() uint64 {
	return d.failed.Load()
}

// Close rejects new calls and waits until queued ones are delivered.
func (d *Dispatcher) Close() {
	d.once.Do(func() {
		d.mu.Lock()
		d.closed = true
		close(d.queue)
		d.mu.Unlock()
		d.wg.Wait()
	})
}
