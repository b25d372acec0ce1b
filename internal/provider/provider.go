// Package provider implements the storage-provider interface (spec.md
// §4.2): each backend owns a subset of the item tree and knows how to read,
// write, delete and duplicate its own items. The repository (package
// repository) aggregates a list of registered providers; this package only
// knows about one backend at a time.
package provider

import (
	"context"

	"github.com/fma-project/fma-go/internal/model"
)

// StatusCode is the well-known outcome of a write/delete operation,
// returned as a value rather than an error per spec.md §7 ("Write/delete
// failure — returned as a status code from the provider operation").
type StatusCode int

const (
	StatusOK StatusCode = iota
	StatusNotFound
	StatusReadOnly
	StatusIOError
	StatusInvalid
)

func (s StatusCode) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusNotFound:
		return "not-found"
	case StatusReadOnly:
		return "read-only"
	case StatusIOError:
		return "io-error"
	case StatusInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// Provider is the capability set of spec.md §4.2's storage-provider table.
// Not every backend implements writes meaningfully: IsWillingToWrite is a
// declarative "the author wrote this code"; IsAbleToWrite is the runtime
// probe ("is the target directory writable right now").
type Provider interface {
	// ID returns the stable ASCII identifier for this provider.
	ID() string
	// DisplayName returns the localized, human-facing name.
	DisplayName() string

	IsWillingToWrite() bool
	IsAbleToWrite() bool

	// SupportsExport/SupportsImport report capability bits for a format
	// this backend doesn't implement (spec.md §9 supplemented feature);
	// both are always false in the bundled backends.
	SupportsExport() bool
	SupportsImport() bool

	// ReadItems returns every root item this provider owns, children and
	// profiles already attached. Per-item parse failures are reported in
	// the message list and the item is skipped, not treated as fatal;
	// the returned error is reserved for failures that prevent reading
	// the backend at all (e.g. the backing directory is unreadable).
	ReadItems(ctx context.Context) ([]*model.Item, []string, error)

	// WriteItem deletes then rewrites item's persisted form. Idempotent.
	WriteItem(ctx context.Context, item *model.Item) (StatusCode, []string)

	// DeleteItem removes item's persisted form. Must succeed before any
	// subsequent WriteItem for the same id is attempted.
	DeleteItem(ctx context.Context, item *model.Item) (StatusCode, []string)

	// DuplicateProviderData carries backend-private state from src to dst
	// after a model.Duplicate call produced dst from src.
	DuplicateProviderData(ctx context.Context, src, dst *model.Item) []string

	// Watch runs until ctx is done, calling notify whenever this
	// provider's backing store changes. A backend with no native change
	// notification may implement this as a no-op that merely blocks on
	// ctx.Done().
	Watch(ctx context.Context, notify func())
}
