package braid

import (
	"sync"
	"time"

	"github.com/codewillclick/braid/braid/emit"
)

// rootKey is the synthetic spawn key a top-level Chain is wrapped under, so
// Run always has a Branch to iterate.
const rootKey = "[:root:]"

// Braid is the executor: a matcher registry, a result table, and the
// configuration that governs throttling, waiting, and observability. The
// zero value is not usable; construct with New.
type Braid struct {
	mu       sync.RWMutex
	matchers matcherRegistry
	table    *resultTable
	cfg      config
}

// New constructs a Braid with the built-in handlers registered in priority
// order (lowest first): ignore, literal, object, list, wait, run, foreach.
// Handlers registered later via Register take dispatch priority over all of
// these.
func New(opts ...Option) *Braid {
	b := &Braid{
		table: newResultTable(),
		cfg:   newConfig(opts),
	}
	b.registerBuiltins()
	return b
}

func (b *Braid) registerBuiltins() {
	b.Register(matchIgnore, handleIgnore)
	b.Register(matchLiteral, handleLiteral)
	b.Register(matchBranch, handleObject)
	b.Register(matchChain, handleList)
	b.Register(matchWait, handleWait)
	b.Register(matchRun, handleRun)
	b.Register(matchForeach, handleForeach)
}

// Register adds a (predicate, handler) pair to the dispatch registry.
// Registration order is priority: a matcher registered after another wins
// ties, and every externally registered matcher outranks the built-ins
// registered by New.
func (b *Braid) Register(match Matcher, h Handler) *Braid {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.matchers.register(match, h)
	return b
}

// Run spawns one worker per non-directive key of node against the current
// table and a fresh top frame of the name stack, seeded with kw if given.
// It never blocks on its children; call Wait to observe completion.
//
// A bare Chain at the root is wrapped as {"[:root:]": node} so there is
// always a Branch of spawn keys to iterate.
func (b *Braid) Run(node Value, kw ...map[string]any) *Braid {
	var seed map[string]any
	if len(kw) > 0 {
		seed = kw[0]
	}
	return b.runOn(node, NewTableStack(seed))
}

// runOn is Run's implementation against a caller-supplied name stack. The
// object handler uses it directly (rather than going through Run) so that a
// sub-braid's children write their $result into the exact frame the parent
// handler reads back afterward, instead of a disconnected copy.
func (b *Braid) runOn(node Value, ts *TableStack) *Braid {
	br, ok := node.(Branch)
	if !ok {
		br = Branch{rootKey: node}
	}

	throttle := b.cfg.throttle
	if raw, has := br[DirectiveThrottle]; has {
		if n, ok := raw.(int); ok {
			throttle = n
		}
	}
	sem := make(chan struct{}, throttle)

	// Insert every entry before starting any worker, so a KeyOverrideAttempt
	// anywhere in this node fails the whole Run call before a single
	// goroutine runs. Go has no exceptions, so this surfaces as a panic: a
	// programmer error (reusing a live key), not a recoverable runtime one.
	type spawned struct {
		key   string
		node  Value
		entry *Entry
	}
	pending := make([]spawned, 0, len(br))
	for k, v := range br {
		if isDirectiveKey(k) {
			continue
		}
		entry, err := b.table.insert(k)
		if err != nil {
			panic(err)
		}
		pending = append(pending, spawned{key: k, node: v, entry: entry})
	}
	b.cfg.metrics.SetTableSize(b.table.size())

	for _, s := range pending {
		b.spawn(s.key, s.node, s.entry, ts, sem)
	}
	return b
}

// spawn starts key's worker goroutine against its already-inserted entry.
func (b *Braid) spawn(key string, node Value, entry *Entry, ts *TableStack, sem chan struct{}) {
	go func() {
		b.cfg.metrics.QueueWaitStarted()
		sem <- struct{}{}
		b.cfg.metrics.QueueWaitFinished()
		defer func() { <-sem }()

		b.cfg.metrics.WorkerStarted()
		defer b.cfg.metrics.WorkerFinished()

		b.cfg.emitter.Emit(emit.Event{Time: time.Now(), Kind: "node_start", Key: key})

		value, err := evaluateStep(b, node, ts, key)
		if err != nil {
			entry.fail(err)
			b.cfg.emitter.Emit(emit.Event{
				Time: time.Now(), Kind: "node_error", Key: key,
				Meta: map[string]any{"error": err.Error()},
			})
			return
		}
		entry.complete(value)
		b.cfg.emitter.Emit(emit.Event{Time: time.Now(), Kind: "node_done", Key: key})
	}()
}

// Wait blocks until every listed key (or, with no arguments, every key
// currently in the table) reaches a terminal state, or returns *WaitError
// once the configured timeout elapses. Keys inserted after Wait begins
// polling its key list are not retroactively added to that wait: the key
// list is snapshotted once, at call time.
func (b *Braid) Wait(keys ...string) error {
	if len(keys) == 0 {
		keys = b.table.keys()
	}

	entries := make([]*Entry, 0, len(keys))
	for _, k := range keys {
		e, ok := b.table.get(k)
		if !ok {
			continue
		}
		entries = append(entries, e)
	}

	start := time.Now()
	deadline := time.After(b.cfg.timeout)
	for _, e := range entries {
		select {
		case <-e.Done():
		case <-deadline:
			b.cfg.metrics.ObserveWait(time.Since(start), true)
			return &WaitError{Keys: keys, Timeout: b.cfg.timeout}
		}
	}
	b.cfg.metrics.ObserveWait(time.Since(start), false)
	return nil
}

// Reset discards the result table, starting a Braid fresh for a new Run.
// In-flight workers from before Reset keep running to completion, but their
// writes land on the discarded table and are no longer externally
// observable.
func (b *Braid) Reset() *Braid {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.table = newResultTable()
	return b
}

// Get returns the terminal value for key, or ErrUnfinishedThread if the
// entry exists but hasn't reached a terminal state, or an error recording
// why it failed. Get does not block; use Wait first if you need blocking
// semantics.
func (b *Braid) Get(key string) (any, error) {
	e, ok := b.table.get(key)
	if !ok {
		return nil, ErrUnfinishedThread
	}
	switch e.State() {
	case Done:
		return e.Value(), nil
	case Error:
		return nil, e.Err()
	default:
		return nil, ErrUnfinishedThread
	}
}

// Contains reports whether key has an entry in the result table, regardless
// of its state.
func (b *Braid) Contains(key string) bool {
	_, ok := b.table.get(key)
	return ok
}

// Keys returns every key currently present in the result table, in no
// particular order.
func (b *Braid) Keys() []string {
	return b.table.keys()
}

// Annotate stashes collaborator-defined metadata (token usage, model name,
// request id, …) on key's result-table entry without widening Entry itself.
// It is a no-op if key has no entry.
func (b *Braid) Annotate(key string, meta any) {
	if e, ok := b.table.get(key); ok {
		e.SetMeta(meta)
	}
}

// Meta returns the metadata a collaborator previously stashed via Annotate,
// or nil if key has no entry or nothing was stashed.
func (b *Braid) Meta(key string) any {
	if e, ok := b.table.get(key); ok {
		return e.Meta()
	}
	return nil
}
