package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/fma-project/fma-go/internal/evaluate"
	"github.com/fma-project/fma-go/internal/model"
	"github.com/fma-project/fma-go/internal/provider"
	"github.com/fma-project/fma-go/internal/repository"
	"github.com/fma-project/fma-go/internal/selection"
)

// TestPipelineEndToEndWithYAMLProviderAndLiveReload exercises the whole
// stack named in DESIGN.md's dependency order (selection -> model ->
// expand -> evaluate -> provider -> repository -> pipeline) against a
// real file-backed provider, including a repository reload triggered by
// the provider's own change notification.
func TestPipelineEndToEndWithYAMLProviderAndLiveReload(t *testing.T) {
	dir := t.TempDir()
	yp := provider.NewYAMLProvider("user", "User", dir, true, nil)

	menu := buildToolsMenu(t)
	if st, msgs := yp.WriteItem(context.Background(), menu); st != provider.StatusOK {
		t.Fatalf("seed write failed: %v (%v)", st, msgs)
	}

	repo := repository.New([]provider.Provider{yp}, repository.Options{BurstWindow: 20 * time.Millisecond})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go repo.Watch(ctx)

	deadline := time.Now().Add(time.Second)
	for len(repo.Current().Roots) == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("expected initial reload to publish the seeded menu")
		}
		time.Sleep(time.Millisecond)
	}

	p := New(repo, evaluate.New(nil, 500*time.Millisecond), selection.NewAdapter(), Config{}, nil)

	raws := []selection.Raw{{URI: "file:///home/user/notes.txt"}}
	items, _, err := p.GetFileItems(ctx, raws)
	if err != nil {
		t.Fatalf("GetFileItems: %v", err)
	}
	if len(items) != 1 || items[0].Label != "Tools" {
		t.Fatalf("expected Tools menu from the yaml-backed provider, got %+v", items)
	}

	handle := items[0].Children[0].Handle
	rendered, err := p.Activate(handle)
	if err != nil {
		t.Fatalf("Activate: %v", err)
	}
	if len(rendered) != 1 || rendered[0].Parameters != "'/home/user/notes.txt'" {
		t.Fatalf("unexpected rendered command: %+v", rendered)
	}

	// Disable the action on disk; the provider's polling Watch should pick
	// it up, the repository should reload, and the next menu request
	// should no longer offer it.
	menu.Menu.Children[0].Enabled = false
	if st, msgs := yp.WriteItem(context.Background(), menu); st != provider.StatusOK {
		t.Fatalf("rewrite failed: %v (%v)", st, msgs)
	}

	deadline = time.Now().Add(5 * time.Second)
	for {
		items, _, err = p.GetFileItems(ctx, raws)
		if err != nil {
			t.Fatalf("GetFileItems after update: %v", err)
		}
		if len(items) == 0 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("expected the disabled action to eventually disappear from menu requests")
		}
		time.Sleep(50 * time.Millisecond)
	}
}

func unconstrainedAction(t *testing.T, id string) *model.Item {
	t.Helper()
	a := model.NewAction(id)
	a.Label = id
	a.Enabled = true
	a.Action.Targets[model.TargetSelection] = true
	a.Action.Context.IsFile = true
	a.Action.Context.AcceptMultiple = true
	prof := model.NewProfile("profile-1")
	prof.Profile.Path = "/usr/bin/true"
	prof.Profile.Context.IsFile = true
	prof.Profile.Context.AcceptMultiple = true
	if err := model.AttachProfile(a, prof); err != nil {
		t.Fatalf("attach profile: %v", err)
	}
	return a
}

func TestPipelineDedupAcrossUserAndSystemProviders(t *testing.T) {
	user := provider.NewMemoryProvider("user", "User", true)
	sys := provider.NewMemoryProvider("sys", "System", false)

	shared := model.NewMenu("shared-menu")
	shared.Label = "User Shared"
	shared.Enabled = true
	if err := model.AttachChild(shared, unconstrainedAction(t, "user-action")); err != nil {
		t.Fatalf("attach: %v", err)
	}
	user.Put(shared)

	sysCopy := model.NewMenu("shared-menu")
	sysCopy.Label = "System Shared"
	sysCopy.Enabled = true
	if err := model.AttachChild(sysCopy, unconstrainedAction(t, "sys-action")); err != nil {
		t.Fatalf("attach: %v", err)
	}
	sys.Put(sysCopy)

	repo := repository.New([]provider.Provider{user, sys}, repository.Options{})
	if err := repo.Reload(context.Background()); err != nil {
		t.Fatalf("reload: %v", err)
	}

	p := New(repo, evaluate.New(nil, 0), selection.NewAdapter(), Config{}, nil)
	items, _, err := p.GetFileItems(context.Background(), nil)
	if err != nil {
		t.Fatalf("GetFileItems: %v", err)
	}
	if len(items) != 1 || items[0].Label != "User Shared" {
		t.Fatalf("expected the user-scoped copy to shadow the system one, got %+v", items)
	}
}
