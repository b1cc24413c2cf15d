// Package dispatch serializes commands and fires them at the robot endpoint.
package dispatch

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/frudas24/stuartlink/internal/geometry"
)

// ErrQueueFull reports a command dropped because the queue was saturated.
var ErrQueueFull = errors.New("dispatch queue full")

// ErrClosed reports a command rejected after shutdown began.
var ErrClosed = errors.New("dispatcher closed")

const (
	defaultTimeout   = 2 * time.Second
	defaultQueueSize = 64
)

// Endpoint is the remote control endpoint commands are delivered to.
type Endpoint interface {
	Move(ctx context.Context, cmd geometry.Polar) error
	Action(ctx context.Context, name, value string) error
}

// Pending is the asynchronous outcome of one dispatched command. Callers that
// care about the result wait on Done; callers on the input path just drop it.
type Pending struct {
	mu   sync.Mutex
	done chan struct{}
	err  error
}

// Done returns a channel that closes once the command settled.
func (p *Pending) Done() <-chan struct{} {
	return p.done
}

// Err returns the transport error, if any, once Done is closed.
func (p *Pending) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

// settle records the outcome and releases waiters.
func (p *Pending) settle(err error) {
	p.mu.Lock()
	p.err = err
	p.mu.Unlock()
	close(p.done)
}

// Settled returns an already-completed Pending. Fakes use it to satisfy the
// dispatcher-shaped interfaces without a worker.
func Settled(err error) *Pending {
	p := &Pending{done: make(chan struct{})}
	p.settle(err)
	return p
}

type job struct {
	label   string
	run     func(context.Context) error
	pending *Pending
}

// Dispatcher forwards commands to an endpoint in emission order without
// blocking the caller. Transport failures go to the logger and onto the
// Pending handle; they never reach the caller's control flow and are never
// retried, so delivery is at-most-once per emitted command.
type Dispatcher struct {
	endpoint Endpoint
	logger   *log.Logger
	timeout  time.Duration

	mu     sync.Mutex
	closed bool
	queue  chan job
	wg     sync.WaitGroup
}

// New creates a dispatcher with a single worker preserving emission order.
func New(endpoint Endpoint, logger *log.Logger, timeout time.Duration, queueSize int) *Dispatcher {
	if logger == nil {
		logger = log.Default()
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	d := &Dispatcher{
		endpoint: endpoint,
		logger:   logger,
		timeout:  timeout,
		queue:    make(chan job, queueSize),
	}
	d.wg.Add(1)
	go d.loop()
	return d
}

// DispatchMove queues a continuous movement command.
func (d *Dispatcher) DispatchMove(cmd geometry.Polar) *Pending {
	return d.enqueue("move", func(ctx context.Context) error {
		return d.endpoint.Move(ctx, cmd)
	})
}

// DispatchAction queues a discrete one-shot command.
func (d *Dispatcher) DispatchAction(name, value string) *Pending {
	return d.enqueue("action "+name, func(ctx context.Context) error {
		return d.endpoint.Action(ctx, name, value)
	})
}

// Close stops the worker after draining already-queued commands.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()
	d.wg.Wait()
}

// enqueue hands a command to the worker. A saturated queue drops the command
// with a log line instead of blocking the event path.
func (d *Dispatcher) enqueue(label string, run func(context.Context) error) *Pending {
	p := &Pending{done: make(chan struct{})}

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		p.settle(ErrClosed)
		return p
	}
	select {
	case d.queue <- job{label: label, run: run, pending: p}:
		d.mu.Unlock()
	default:
		d.mu.Unlock()
		d.logger.Printf("dispatch: queue full, dropping %s", label)
		p.settle(ErrQueueFull)
	}
	return p
}

// loop runs queued commands one at a time so per-source order is preserved.
func (d *Dispatcher) loop() {
	defer d.wg.Done()
	for j := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		err := j.run(ctx)
		cancel()
		if err != nil {
			d.logger.Printf("dispatch: %s failed: %v", j.label, err)
		}
		j.pending.settle(err)
	}
}
