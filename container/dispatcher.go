package container

import (
	"context"
	"sync"

	"github.com/shaban/instpatch/errs"
)

// Op is a single structural mutation to run on the dispatcher's
// goroutine. Grounded on engine/queue.Op: quick, non-blocking, returns
// an error only for unrecoverable failures.
type Op func(ctx context.Context) error

// request pairs an Op with the channel its result is delivered on: a
// request/response split so Enqueue can block for a result while the
// worker goroutine processes one op at a time, keeping Container's
// "iterators are not thread-safe" contract true even when multiple
// goroutines mutate the same container.
type request struct {
	op       Op
	response chan error
}

// Dispatcher runs enqueued Ops one at a time on a single goroutine.
type Dispatcher struct {
	mu        sync.Mutex
	running   bool
	requests  chan request
	stop      chan struct{}
	ctx       context.Context
	cancel    context.CancelFunc
}

func NewDispatcher(buffer int) *Dispatcher {
	if buffer <= 0 {
		buffer = 64
	}
	return &Dispatcher{requests: make(chan request, buffer)}
}

// Start begins the worker goroutine. Safe to call multiple times.
func (d *Dispatcher) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.running {
		return
	}
	d.ctx, d.cancel = context.WithCancel(context.Background())
	d.stop = make(chan struct{})
	d.running = true
	go d.loop()
}

// Stop halts the dispatcher. Pending Enqueue calls fail with errs.Busy.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.running {
		return
	}
	d.cancel()
	d.running = false
}

func (d *Dispatcher) loop() {
	for {
		select {
		case <-d.ctx.Done():
			return
		case req := <-d.requests:
			req.response <- req.op(d.ctx)
		}
	}
}

// Enqueue runs op on the dispatcher goroutine and blocks for its
// result.
func (d *Dispatcher) Enqueue(op Op) error {
	d.mu.Lock()
	running := d.running
	d.mu.Unlock()
	if !running {
		return errs.New(errs.Busy, "container.Dispatcher", nil)
	}
	resp := make(chan error, 1)
	select {
	case d.requests <- request{op: op, response: resp}:
	case <-d.ctx.Done():
		return errs.New(errs.Busy, "container.Dispatcher", nil)
	}
	select {
	case err := <-resp:
		return err
	case <-d.ctx.Done():
		return errs.New(errs.Busy, "container.Dispatcher", nil)
	}
}
