package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fma-project/fma-go/internal/evaluate"
	"github.com/fma-project/fma-go/internal/model"
	"github.com/fma-project/fma-go/internal/provider"
	"github.com/fma-project/fma-go/internal/repository"
	"github.com/fma-project/fma-go/internal/selection"
)

func buildToolsMenu(t *testing.T) *model.Item {
	t.Helper()
	menu := model.NewMenu("tools-menu")
	menu.Label = "Tools"
	menu.Enabled = true

	action := model.NewAction("open-with")
	action.Label = "Open With"
	action.Enabled = true
	action.Action.Targets[model.TargetSelection] = true
	action.Action.Context.IsFile = true
	action.Action.Context.AcceptMultiple = true
	action.Action.Context.Basenames = []string{"*.txt"}

	profile := model.NewProfile("profile-1")
	profile.Profile.Path = "/usr/bin/xdg-open"
	profile.Profile.Parameters = "%f"
	profile.Profile.Context.IsFile = true
	profile.Profile.Context.AcceptMultiple = true

	if err := model.AttachProfile(action, profile); err != nil {
		t.Fatalf("attach profile: %v", err)
	}
	if err := model.AttachChild(menu, action); err != nil {
		t.Fatalf("attach child: %v", err)
	}
	return menu
}

func newTestPipeline(t *testing.T, roots ...*model.Item) *Pipeline {
	t.Helper()
	mem := provider.NewMemoryProvider("mem", "Memory", true)
	for _, r := range roots {
		mem.Put(r)
	}
	repo := repository.New([]provider.Provider{mem}, repository.Options{})
	if err := repo.Reload(context.Background()); err != nil {
		t.Fatalf("reload: %v", err)
	}
	ev := evaluate.New(nil, 0)
	return New(repo, ev, selection.NewAdapter(), Config{}, nil)
}

func TestGetFileItemsMatchingSelectionProducesMenuWithAction(t *testing.T) {
	p := newTestPipeline(t, buildToolsMenu(t))

	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("notes"), 0o644); err != nil {
		t.Fatalf("write selection file: %v", err)
	}
	raws := []selection.Raw{{URI: "file://" + path}}
	items, messages, err := p.GetFileItems(context.Background(), raws)
	if err != nil {
		t.Fatalf("GetFileItems: %v", err)
	}
	if len(messages) != 0 {
		t.Fatalf("unexpected messages: %v", messages)
	}
	if len(items) != 1 || !items[0].IsMenu || items[0].Label != "Tools" {
		t.Fatalf("expected single Tools menu, got %+v", items)
	}
	if len(items[0].Children) != 1 || items[0].Children[0].Label != "Open With" {
		t.Fatalf("expected Open With action child, got %+v", items[0].Children)
	}
	if items[0].Children[0].Handle == "" {
		t.Fatalf("expected a non-empty activation handle")
	}
}

func TestGetFileItemsNonMatchingSelectionDropsWholeMenu(t *testing.T) {
	p := newTestPipeline(t, buildToolsMenu(t))

	raws := []selection.Raw{{URI: "file:///home/user/photo.png"}}
	items, _, err := p.GetFileItems(context.Background(), raws)
	if err != nil {
		t.Fatalf("GetFileItems: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected menu to be dropped (no surviving children), got %+v", items)
	}
}

func TestActivateRendersSingularDispatchPerEntry(t *testing.T) {
	p := newTestPipeline(t, buildToolsMenu(t))

	raws := []selection.Raw{
		{URI: "file:///home/user/a.txt"},
		{URI: "file:///home/user/b.txt"},
	}
	items, _, err := p.GetFileItems(context.Background(), raws)
	if err != nil {
		t.Fatalf("GetFileItems: %v", err)
	}
	if len(items) != 1 || len(items[0].Children) != 1 {
		t.Fatalf("expected one Tools menu with one action, got %+v", items)
	}

	handle := items[0].Children[0].Handle
	rendered, err := p.Activate(handle)
	if err != nil {
		t.Fatalf("Activate: %v", err)
	}
	// %f is a singular specifier, so the action dispatches once per entry.
	if len(rendered) != 2 {
		t.Fatalf("expected 2 rendered invocations (singular dispatch), got %d", len(rendered))
	}
	if rendered[0].Parameters != "'/home/user/a.txt'" || rendered[1].Parameters != "'/home/user/b.txt'" {
		t.Fatalf("unexpected rendered parameters: %+v", rendered)
	}
}

func TestActivateUnknownHandleReturnsError(t *testing.T) {
	p := newTestPipeline(t, buildToolsMenu(t))
	if _, err := p.Activate("no-such-handle"); err != ErrUnknownHandle {
		t.Fatalf("expected ErrUnknownHandle, got %v", err)
	}
}

func TestCreateRootMenuWrapsResultAndAddsAboutItem(t *testing.T) {
	mem := provider.NewMemoryProvider("mem", "Memory", true)
	mem.Put(buildToolsMenu(t))
	repo := repository.New([]provider.Provider{mem}, repository.Options{})
	if err := repo.Reload(context.Background()); err != nil {
		t.Fatalf("reload: %v", err)
	}
	p := New(repo, evaluate.New(nil, 0), selection.NewAdapter(), Config{CreateRootMenu: true, AddAboutItem: true}, nil)

	raws := []selection.Raw{{URI: "file:///home/user/notes.txt"}}
	items, _, err := p.GetFileItems(context.Background(), raws)
	if err != nil {
		t.Fatalf("GetFileItems: %v", err)
	}
	if len(items) != 1 || !items[0].IsMenu || items[0].Label != AutoRootMenuLabel {
		t.Fatalf("expected single synthetic root menu, got %+v", items)
	}
	last := items[0].Children[len(items[0].Children)-1]
	if !last.About || last.Label != AboutLabel {
		t.Fatalf("expected trailing About item, got %+v", last)
	}
}

func TestToolbarTargetFlattensNestedMenus(t *testing.T) {
	outer := model.NewMenu("outer")
	outer.Label = "Outer"
	outer.Enabled = true

	action := model.NewAction("toolbar-action")
	action.Label = "Run"
	action.Enabled = true
	action.Action.Targets[model.TargetToolbar] = true
	action.Action.ToolbarLabel = "Run"
	action.Action.Context.IsFile = true
	action.Action.Context.AcceptMultiple = true
	prof := model.NewProfile("profile-1")
	prof.Profile.Path = "/usr/bin/run"
	prof.Profile.Context.IsFile = true
	prof.Profile.Context.AcceptMultiple = true
	if err := model.AttachProfile(action, prof); err != nil {
		t.Fatalf("attach profile: %v", err)
	}

	innerMenu := model.NewMenu("inner-menu")
	innerMenu.Label = "Inner"
	innerMenu.Enabled = true
	if err := model.AttachChild(innerMenu, action); err != nil {
		t.Fatalf("attach action: %v", err)
	}
	if err := model.AttachChild(outer, innerMenu); err != nil {
		t.Fatalf("attach inner menu: %v", err)
	}

	p := newTestPipeline(t, outer)
	items, _, err := p.GetToolbarItems(context.Background(), nil)
	if err != nil {
		t.Fatalf("GetToolbarItems: %v", err)
	}
	// Outer and inner menus both flatten away; only the leaf action survives.
	if len(items) != 1 || items[0].IsMenu || items[0].Label != "Run" {
		t.Fatalf("expected flattened single action, got %+v", items)
	}
}

func TestToolbarTargetIgnoresCreateRootMenu(t *testing.T) {
	action := model.NewAction("toolbar-action")
	action.Label = "Run"
	action.Enabled = true
	action.Action.Targets[model.TargetToolbar] = true
	action.Action.ToolbarLabel = "Run"
	action.Action.Context.IsFile = true
	action.Action.Context.AcceptMultiple = true
	prof := model.NewProfile("profile-1")
	prof.Profile.Path = "/usr/bin/run"
	prof.Profile.Context.IsFile = true
	prof.Profile.Context.AcceptMultiple = true
	if err := model.AttachProfile(action, prof); err != nil {
		t.Fatalf("attach profile: %v", err)
	}

	mem := provider.NewMemoryProvider("mem", "Memory", true)
	mem.Put(action)
	repo := repository.New([]provider.Provider{mem}, repository.Options{})
	if err := repo.Reload(context.Background()); err != nil {
		t.Fatalf("reload: %v", err)
	}
	p := New(repo, evaluate.New(nil, 0), selection.NewAdapter(), Config{CreateRootMenu: true, AddAboutItem: true}, nil)

	raws := []selection.Raw{{URI: "file:///home/user/notes.txt"}}
	items, _, err := p.GetToolbarItems(context.Background(), raws)
	if err != nil {
		t.Fatalf("GetToolbarItems: %v", err)
	}
	if len(items) != 1 || items[0].IsMenu || items[0].Label != "Run" {
		t.Fatalf("expected flat list of actions, got %+v", items)
	}
	for _, item := range items {
		if item.About {
			t.Fatalf("toolbar items must not include a synthetic About entry, got %+v", item)
		}
	}
}
