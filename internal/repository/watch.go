package repository

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Watch reloads once, then runs every provider's Watch loop concurrently,
// routing each notification through the coalesced change bus. It returns
// the initial Reload's error if that fails; otherwise it returns nil once
// ctx is done and every provider's Watch loop has returned.
func (r *Repository) Watch(ctx context.Context) error {
	if err := r.Reload(ctx); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, p := range r.providers {
		p := p
		g.Go(func() error {
			p.Watch(gctx, r.SignalItemChanged)
			return nil
		})
	}
	err := g.Wait()
	r.Close()
	return err
}
