// Package repository aggregates the item trees served by one or more
// storage providers into a single published snapshot, per spec.md §4.2.
// It owns the dedup-by-id / level-zero-order / load-filter pipeline and
// the coalesced change bus that providers and runtime-preference changes
// signal through.
package repository

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"

	"github.com/fma-project/fma-go/internal/model"
	"github.com/fma-project/fma-go/internal/provider"
)

// List order modes for the "List order mode" runtime preference.
const (
	OrderManual          = "manual"
	OrderAscendingLabel  = "ascending-label"
	OrderDescendingLabel = "descending-label"

	// DefaultBurstWindow is spec.md §4.2's 100ms coalescing window.
	DefaultBurstWindow = 100 * time.Millisecond
)

// Options configures a Repository's aggregation behavior. Zero values pick
// spec.md's stated defaults.
type Options struct {
	// LevelZeroOrder is the persisted list of root ids: roots named here
	// are placed first, in this order; the rest follow in load order.
	LevelZeroOrder []string
	// ListOrderMode selects how roots are ultimately ordered. OrderManual
	// (the default) honors LevelZeroOrder; the label modes ignore it and
	// sort by label instead.
	ListOrderMode string
	// LoadDisabled, if true, keeps disabled items in the snapshot instead
	// of dropping them.
	LoadDisabled bool
	// LoadInvalid, if true, keeps structurally invalid items in the
	// snapshot instead of dropping them.
	LoadInvalid bool
	// BurstWindow is the change-bus coalescing window; defaults to
	// DefaultBurstWindow.
	BurstWindow time.Duration
	Logger      *log.Logger
}

func (o Options) normalized() Options {
	if o.ListOrderMode == "" {
		o.ListOrderMode = OrderManual
	}
	if o.BurstWindow <= 0 {
		o.BurstWindow = DefaultBurstWindow
	}
	if o.Logger == nil {
		o.Logger = log.Default()
	}
	return o
}

// Snapshot is an immutable published view of the aggregated item tree.
type Snapshot struct {
	Roots    []*model.Item
	LoadedAt time.Time
}

// Repository aggregates providers in registration order: earlier
// providers shadow later ones on an id collision, so callers register
// user-scoped providers before system-scoped ones (spec.md §4.2).
type Repository struct {
	providers []provider.Provider
	opts      Options

	reloadMu sync.Mutex
	snapshot atomic.Pointer[Snapshot]

	changedMu sync.Mutex
	onChanged []func()

	bus *changeBus
}

// New builds a Repository over providers, in the precedence order given.
// The returned repository starts with an empty snapshot; call Reload (or
// Watch, which reloads once up front) before serving requests.
func New(providers []provider.Provider, opts Options) *Repository {
	opts = opts.normalized()
	r := &Repository{providers: providers, opts: opts}
	r.bus = newChangeBus(opts.BurstWindow, func(ctx context.Context) {
		if err := r.Reload(ctx); err != nil {
			opts.Logger.Printf("repository: coalesced reload failed: %v", err)
		}
	})
	r.snapshot.Store(&Snapshot{})
	return r
}

// Current returns the most recently published snapshot. Safe to call
// concurrently with Reload; during coalescing this returns the pre-burst
// snapshot per spec.md §4.2's contract.
func (r *Repository) Current() *Snapshot {
	return r.snapshot.Load()
}

// OnChanged registers fn to be called after each successful Reload
// (spec.md's items_changed emission). fn must not block.
func (r *Repository) OnChanged(fn func()) {
	r.changedMu.Lock()
	defer r.changedMu.Unlock()
	r.onChanged = append(r.onChanged, fn)
}

// SignalItemChanged is the entry point providers and runtime-preference
// watchers call to request a reload; calls within the burst window
// collapse into one (spec.md §4.2 "Coalesced change bus").
func (r *Repository) SignalItemChanged() {
	r.bus.Signal()
}

// Close stops the change bus. It does not touch provider watch loops
// started via Watch; cancel their context instead.
func (r *Repository) Close() {
	r.bus.Stop()
}

// Reload runs the read path (spec.md §4.2 steps 1-5) synchronously: fan
// out read_items() across providers, dedup/order/filter, then publish.
// Concurrent Reload calls are serialized; a reload already in flight when
// this is called still observes providers as of its own start.
func (r *Repository) Reload(ctx context.Context) error {
	r.reloadMu.Lock()
	defer r.reloadMu.Unlock()

	start := time.Now()
	perProvider := make([][]*model.Item, len(r.providers))

	g, gctx := errgroup.WithContext(ctx)
	for i, p := range r.providers {
		i, p := i, p
		g.Go(func() error {
			items, messages, err := p.ReadItems(gctx)
			if err != nil {
				return fmt.Errorf("provider %s: %w", p.ID(), err)
			}
			for _, m := range messages {
				r.opts.Logger.Printf("repository: provider %s: %s", p.ID(), m)
			}
			perProvider[i] = items
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	roots := dedupeByID(perProvider)
	roots = filterLoadable(roots, r.opts.LoadDisabled, r.opts.LoadInvalid)
	roots = orderRoots(roots, r.opts)

	r.snapshot.Store(&Snapshot{Roots: roots, LoadedAt: time.Now()})

	r.opts.Logger.Printf("repository: reloaded %s root(s) from %d provider(s) in %s",
		humanize.Comma(int64(len(roots))), len(r.providers), time.Since(start))

	r.notifyChanged()
	return nil
}

func (r *Repository) notifyChanged() {
	r.changedMu.Lock()
	hooks := append([]func(){}, r.onChanged...)
	r.changedMu.Unlock()
	for _, fn := range hooks {
		fn()
	}
}
