package pipeline

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/fma-project/fma-go/internal/expand"
	"github.com/fma-project/fma-go/internal/model"
)

// ErrUnknownHandle is returned by Activate when the handle does not
// correspond to any menu item produced by this Pipeline (it expired with
// an earlier menu-request, or was never minted by this process).
var ErrUnknownHandle = errors.New("pipeline: unknown activation handle")

// activation captures the (profile, tokens) pair spec.md §4.6 calls out:
// "emit a menu item whose activation callback captures the
// (profile-duplicate, tokens) pair". A uuid handle indirects the actual
// Go values behind an opaque string, so a host binding across a stable
// ABI boundary (the file manager's menu-item user-data slot) never needs
// to carry a live Go pointer — only this token, looked up again when the
// user actually activates the item.
type activation struct {
	profile *model.Item
	tokens  *expand.Tokens
}

type activationTable struct {
	mu   sync.Mutex
	byID map[string]activation
}

func newActivationTable() *activationTable {
	return &activationTable{byID: make(map[string]activation)}
}

func (t *activationTable) register(profile *model.Item, tokens *expand.Tokens) string {
	handle := uuid.NewString()
	t.mu.Lock()
	t.byID[handle] = activation{profile: profile, tokens: tokens}
	t.mu.Unlock()
	return handle
}

// Activate reconstructs the command line(s) for handle, per spec.md
// §4.6's "Activation" contract: expand working_dir/path/parameters in
// execution mode, applying the singular-dispatch rule, and return one
// Rendered invocation per dispatched entry (or a single one for plural
// dispatch / no reference at all).
func (p *Pipeline) Activate(handle string) ([]expand.Rendered, error) {
	p.acts.mu.Lock()
	act, ok := p.acts.byID[handle]
	p.acts.mu.Unlock()
	if !ok {
		return nil, ErrUnknownHandle
	}
	prof := act.profile.Profile
	return expand.RenderCommand(prof.WorkingDir, prof.Path, prof.Parameters, act.tokens), nil
}

// Forget drops handle's captured activation once a host is done with the
// menu it belongs to, bounding activationTable's lifetime to one
// menu-request's worth of handles rather than the process's.
func (p *Pipeline) Forget(handle string) {
	p.acts.mu.Lock()
	delete(p.acts.byID, handle)
	p.acts.mu.Unlock()
}
