package deck

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/mdjubayerd1/vivi-music/internal/ports"
	"github.com/mdjubayerd1/vivi-music/internal/types"
)

// lowWaterMark is the stack depth below which a replenishment fetch is
// dispatched. Five keeps about one screen of lookahead buffered while a
// network-bound page fetch completes.
const lowWaterMark = 5

// DeckState is the observable snapshot handed to collaborators. Loading and
// Exhausted let a renderer tell "still filling" apart from "feed ran dry".
type DeckState struct {
	Tracks    []types.Track `json:"tracks"`
	Loading   bool          `json:"loading"`
	Exhausted bool          `json:"exhausted"`
}

// Observer receives the state that resulted from a mutation. Observers run
// outside the controller lock, in registration order, and must return quickly.
type Observer func(DeckState)

// Controller owns one discovery session: a consumable stack of upcoming
// tracks, the source's continuation cursor and the single-flight fetch guard.
// All state is mutated under one mutex; fetches and feedback run on their own
// goroutines and re-enter through it. A fetch started before Close or
// ForceSet resolves against a bumped generation and its page is dropped, so
// the stack never mutates after teardown and never absorbs stale pages.
type Controller struct {
	src  ports.Source
	seed types.Seed

	ctx    context.Context
	cancel context.CancelFunc
	logger *log.Entry

	mu          sync.Mutex
	stack       []types.Track
	cursor      types.Cursor
	loading     bool
	initialized bool
	closed      bool
	gen         uint64
	observers   []Observer
}

func New(src ports.Source, seed types.Seed) *Controller {
	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		src:    src,
		seed:   seed,
		ctx:    ctx,
		cancel: cancel,
		logger: log.WithField("seed", seed.Key()),
	}
}

// OnChange registers fn to be called with the state resulting from every
// mutation. Register before Initialize to observe the seed page landing.
func (c *Controller) OnChange(fn Observer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observers = append(c.observers, fn)
}

// Initialize dispatches the seeding fetch and returns immediately. Effective
// once; repeated calls are ignored. When the seed fetch fails the deck stays
// empty with no cursor and no retry is scheduled; collaborators see the
// exhausted state and decide what to surface.
func (c *Controller) Initialize() {
	c.mu.Lock()
	if c.closed || c.initialized {
		c.mu.Unlock()
		return
	}
	c.initialized = true
	c.loading = true
	gen := c.gen
	c.mu.Unlock()

	go func() {
		page, err := c.src.FetchPage(c.ctx, c.seed, "")
		c.settleFetch(gen, page, err, true)
	}()
}

// Positive consumes the head with a positive verdict for item.
func (c *Controller) Positive(item types.Track) {
	c.consume(item, types.PolarityPositive)
}

// Negative consumes the head with a negative verdict for item.
func (c *Controller) Negative(item types.Track) {
	c.consume(item, types.PolarityNegative)
}

// consume dispatches the fire-and-forget feedback call for item, then pops
// the stack's actual head. The two are independent: a failed or slow feedback
// call never stalls or rolls back consumption. The item is not cross-checked
// against the head; callers pass the track they rendered, and the head is
// what leaves the stack either way. On an empty stack consume is a complete
// no-op, there is no rendered card a verdict could belong to.
func (c *Controller) consume(item types.Track, polarity types.Polarity) {
	c.mu.Lock()
	if c.closed || len(c.stack) == 0 {
		c.mu.Unlock()
		return
	}
	go c.submitFeedback(item.ID, polarity)
	c.stack = c.stack[1:]
	if len(c.stack) < lowWaterMark && !c.loading && c.cursor != "" {
		c.dispatchFetch(c.cursor)
	}
	st := c.lockedState()
	obs := append([]Observer(nil), c.observers...)
	c.mu.Unlock()

	c.notify(obs, st)
}

func (c *Controller) submitFeedback(trackID string, polarity types.Polarity) {
	if err := c.src.SubmitFeedback(c.ctx, trackID, polarity); err != nil {
		c.logger.WithError(err).WithFields(log.Fields{
			"track":   trackID,
			"verdict": types.PolarityTextMap[polarity],
		}).Error("feedback submit failed")
	}
}

// dispatchFetch launches the replenishment fetch for cursor. The caller holds
// the lock and has already checked the guard; while this fetch is in flight
// every further trigger is a no-op, so the stack may transiently sit below
// the low-water mark.
func (c *Controller) dispatchFetch(cursor types.Cursor) {
	c.loading = true
	gen := c.gen
	go func() {
		page, err := c.src.FetchPage(c.ctx, c.seed, cursor)
		c.settleFetch(gen, page, err, false)
	}()
}

// settleFetch applies a finished fetch. A generation mismatch means Close or
// ForceSet won the race; the page is dropped and only the guard is released.
// On failure the stack and cursor stay untouched, so the next trigger retries
// with the same cursor.
func (c *Controller) settleFetch(gen uint64, page types.Page, err error, seeding bool) {
	c.mu.Lock()
	c.loading = false
	if c.closed {
		c.mu.Unlock()
		return
	}
	if gen != c.gen {
		st := c.lockedState()
		obs := append([]Observer(nil), c.observers...)
		c.mu.Unlock()
		c.notify(obs, st)
		return
	}
	if err != nil {
		st := c.lockedState()
		obs := append([]Observer(nil), c.observers...)
		c.mu.Unlock()
		if seeding {
			c.logger.WithError(err).Error("seed fetch failed")
		} else {
			c.logger.WithError(err).Error("replenish fetch failed")
		}
		c.notify(obs, st)
		return
	}
	c.stack = append(c.stack, page.Tracks...)
	c.cursor = page.Continuation
	st := c.lockedState()
	obs := append([]Observer(nil), c.observers...)
	c.mu.Unlock()

	c.logger.WithFields(log.Fields{
		"got":   len(page.Tracks),
		"depth": len(st.Tracks),
		"more":  page.Continuation != "",
	}).Debug("page landed")
	c.notify(obs, st)
}

// ForceSet replaces the stack and cursor directly, bypassing any fetch. It
// exists for isolated verification of consumption and replenishment logic; a
// fetch already in flight is invalidated and its page dropped.
func (c *Controller) ForceSet(tracks []types.Track, cursor types.Cursor) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.gen++
	c.initialized = true
	c.stack = append([]types.Track(nil), tracks...)
	c.cursor = cursor
	st := c.lockedState()
	obs := append([]Observer(nil), c.observers...)
	c.mu.Unlock()

	c.notify(obs, st)
}

// Close tears the session down. In-flight source calls are cancelled and any
// late result is discarded; the stack never mutates after Close. Safe to call
// more than once.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.gen++
	c.mu.Unlock()
	c.cancel()
}

// Snapshot returns a copy of the stack, head first.
func (c *Controller) Snapshot() []types.Track {
	c.mu.Lock()
	defer c.mu.Unlock()
	return copyTracks(c.stack)
}

// State returns the full observable state.
func (c *Controller) State() DeckState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lockedState()
}

func (c *Controller) lockedState() DeckState {
	return DeckState{
		Tracks:    copyTracks(c.stack),
		Loading:   c.loading,
		Exhausted: c.initialized && !c.loading && len(c.stack) == 0 && c.cursor == "",
	}
}

func (c *Controller) notify(obs []Observer, st DeckState) {
	for _, fn := range obs {
		fn(st)
	}
}

// copyTracks always returns a non-nil slice so the JSON form is [] and not
// null when the deck is empty.
func copyTracks(ts []types.Track) []types.Track {
	out := make([]types.Track, len(ts))
	copy(out, ts)
	return out
}
