package cart

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/jscartlabs/cart-service/internal/catalog"
	"github.com/jscartlabs/cart-service/internal/model"
)

// Change describes one committed cart mutation. The summary inside it
// is the exact state the mutation produced, so subscribers always see
// count and price move together.
type Change struct {
	Sequence  uint64
	Action    string
	ProductID string
	Summary   model.Summary
}

type actionKind int

const (
	actionAdd actionKind = iota
	actionClear
)

type action struct {
	kind      actionKind
	productID string
	reply     chan result
}

type result struct {
	summary model.Summary
	err     error
}

// Controller is the only mutator of the cart store. A single goroutine
// consumes actions one at a time, so every mutation commits and
// notifies subscribers before the next action starts.
type Controller struct {
	cat     *catalog.Catalog
	store   *Store
	actions chan action
	subs    []func(Change)

	seq       Sequencer
	closed    atomic.Bool
	processed atomic.Uint64
	rejected  atomic.Uint64

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// NewController constructs a Controller over the given catalog and store.
func NewController(cat *catalog.Catalog, st *Store, buffer int) *Controller {
	if buffer <= 0 {
		buffer = 64
	}
	return &Controller{
		cat:     cat,
		store:   st,
		actions: make(chan action, buffer),
		done:    make(chan struct{}),
	}
}

// Subscribe registers a change listener. Must be called before Start;
// listeners run on the action loop goroutine.
func (c *Controller) Subscribe(fn func(Change)) {
	c.subs = append(c.subs, fn)
}

// Start launches the action loop.
func (c *Controller) Start(parent context.Context) {
	c.ctx, c.cancel = context.WithCancel(parent)
	go c.loop()
}

// Stop cancels the action loop and waits for it to exit.
func (c *Controller) Stop() {
	if c.cancel == nil {
		return
	}
	c.cancel()
	<-c.done
}

func (c *Controller) loop() {
	defer close(c.done)
	for {
		select {
		case <-c.ctx.Done():
			return
		case a := <-c.actions:
			a.reply <- c.apply(a)
		}
	}
}

// apply runs one action to completion. Nothing else mutates the store,
// so the summary computed here is the state every subscriber observes.
func (c *Controller) apply(a action) result {
	switch a.kind {
	case actionAdd:
		if err := c.store.Increment(a.productID); err != nil {
			c.rejected.Add(1)
			return result{summary: c.Summary(), err: err}
		}
	case actionClear:
		c.store.Clear()
	}
	c.processed.Add(1)
	sum := c.Summary()
	ch := Change{Sequence: c.seq.Next(), ProductID: a.productID, Summary: sum}
	if a.kind == actionClear {
		ch.Action = "clear"
	} else {
		ch.Action = "add"
	}
	for _, fn := range c.subs {
		fn(ch)
	}
	return result{summary: sum}
}

// Add applies one "add to cart" click for the given product and
// returns the committed totals.
func (c *Controller) Add(ctx context.Context, productID string) (model.Summary, error) {
	return c.submit(ctx, action{kind: actionAdd, productID: productID, reply: make(chan result, 1)})
}

// Clear empties the cart and returns the zeroed totals.
func (c *Controller) Clear(ctx context.Context) (model.Summary, error) {
	return c.submit(ctx, action{kind: actionClear, reply: make(chan result, 1)})
}

func (c *Controller) submit(ctx context.Context, a action) (model.Summary, error) {
	if c.closed.Load() {
		return model.Summary{}, ErrShuttingDown
	}
	var loopDone <-chan struct{}
	if c.ctx != nil {
		loopDone = c.ctx.Done()
	}
	select {
	case c.actions <- a:
	case <-ctx.Done():
		return model.Summary{}, ctx.Err()
	case <-loopDone:
		return model.Summary{}, ErrShuttingDown
	}
	select {
	case r := <-a.reply:
		return r.summary, r.err
	case <-ctx.Done():
		return model.Summary{}, ctx.Err()
	}
}

// Summary computes the current totals from a fresh line snapshot.
func (c *Controller) Summary() model.Summary {
	return Summarize(c.cat, c.store.Lines())
}

// CloseIntake disallows future actions.
func (c *Controller) CloseIntake() { c.closed.Store(true) }

// IsShuttingDown reports whether intake has been closed.
func (c *Controller) IsShuttingDown() bool { return c.closed.Load() }

// Metrics returns action counters, the change sequence, and the
// pending action count for observability.
func (c *Controller) Metrics() (processed, rejected, changes uint64, pending int) {
	return c.processed.Load(), c.rejected.Load(), c.seq.Current(), len(c.actions)
}

// DrainUntil blocks until no actions remain pending or ctx is done.
func (c *Controller) DrainUntil(ctx context.Context) bool {
	for {
		if len(c.actions) == 0 {
			return true
		}
		select {
		case <-ctx.Done():
			return false
		case <-time.After(50 * time.Millisecond):
		}
	}
}
