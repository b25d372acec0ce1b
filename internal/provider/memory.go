package provider

import (
	"context"
	"fmt"
	"sync"

	"github.com/fma-project/fma-go/internal/model"
)

// MemoryProvider is an in-memory backend for tests and for "fma resolve"
// fixtures, grounded on the teacher's MockRepository (a directly
// settable in-memory store rather than a fake wrapping the real backend).
type MemoryProvider struct {
	id          string
	displayName string
	writable    bool

	mu       sync.Mutex
	items    map[string]*model.Item
	order    []string
	changeCh chan struct{}
}

// NewMemoryProvider builds an empty in-memory provider. Use Put to seed it.
func NewMemoryProvider(id, displayName string, writable bool) *MemoryProvider {
	return &MemoryProvider{
		id: id, displayName: displayName, writable: writable,
		items:    make(map[string]*model.Item),
		changeCh: make(chan struct{}, 1),
	}
}

// Put inserts or replaces a root item directly, bypassing WriteItem's
// read-only check — test setup only.
func (p *MemoryProvider) Put(item *model.Item) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, exists := p.items[item.ID]; !exists {
		p.order = append(p.order, item.ID)
	}
	item.Provider = p.id
	p.items[item.ID] = item
}

// TriggerChange simulates an external store mutation, waking any Watch
// loop registered against this provider.
func (p *MemoryProvider) TriggerChange() {
	select {
	case p.changeCh <- struct{}{}:
	default:
	}
}

func (p *MemoryProvider) ID() string             { return p.id }
func (p *MemoryProvider) DisplayName() string    { return p.displayName }
func (p *MemoryProvider) IsWillingToWrite() bool { return p.writable }
func (p *MemoryProvider) IsAbleToWrite() bool    { return p.writable }
func (p *MemoryProvider) SupportsExport() bool   { return false }
func (p *MemoryProvider) SupportsImport() bool   { return false }

func (p *MemoryProvider) ReadItems(ctx context.Context) ([]*model.Item, []string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	items := make([]*model.Item, 0, len(p.order))
	for _, id := range p.order {
		items = append(items, p.items[id])
	}
	return items, nil, nil
}

func (p *MemoryProvider) WriteItem(ctx context.Context, item *model.Item) (StatusCode, []string) {
	if !p.writable {
		return StatusReadOnly, []string{fmt.Sprintf("provider %s is not willing to write", p.id)}
	}
	p.Put(item)
	return StatusOK, nil
}

func (p *MemoryProvider) DeleteItem(ctx context.Context, item *model.Item) (StatusCode, []string) {
	if !p.writable {
		return StatusReadOnly, []string{fmt.Sprintf("provider %s is not willing to write", p.id)}
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.items[item.ID]; !ok {
		return StatusNotFound, nil
	}
	delete(p.items, item.ID)
	for i, id := range p.order {
		if id == item.ID {
			p.order = append(p.order[:i], p.order[i+1:]...)
			break
		}
	}
	return StatusOK, nil
}

func (p *MemoryProvider) DuplicateProviderData(ctx context.Context, src, dst *model.Item) []string {
	return nil
}

func (p *MemoryProvider) Watch(ctx context.Context, notify func()) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-p.changeCh:
			notify()
		}
	}
}
