// Package pipeline implements the menu-request pipeline (spec.md §4.6):
// given a target and a raw selection, it resolves the current repository
// snapshot into the ordered menu-item tree a file manager renders, and
// captures the per-activation (profile, tokens) pair a later callback
// needs to reconstruct and spawn the actual command.
package pipeline

import (
	"context"
	"log"

	"github.com/fma-project/fma-go/internal/evaluate"
	"github.com/fma-project/fma-go/internal/expand"
	"github.com/fma-project/fma-go/internal/model"
	"github.com/fma-project/fma-go/internal/repository"
	"github.com/fma-project/fma-go/internal/selection"
)

// AutoRootMenuLabel is the synthetic top-level menu title used when
// "create an auto root menu" is enabled, per spec.md §4.6 step 6.
const AutoRootMenuLabel = "FileManager-Actions actions"

// AboutLabel is the label of the synthetic About entry appended when
// "Add About item" is enabled, per spec.md §4.6 step 7 and the About
// dialog original_source/src/nact/nact-iabout-tab.c describes.
const AboutLabel = "About FileManager-Actions actions"

// Config toggles the two menu-shape preferences spec.md §4.2 lists among
// the runtime preferences the repository's change bus monitors: they
// affect menu-request output, not the tree itself, so they live here
// rather than on the repository.
type Config struct {
	CreateRootMenu bool
	AddAboutItem   bool
}

// MenuItem is one rendered node of a menu-request's result tree. Exactly
// one of Children (a menu) or Handle (a leaf action) is meaningful;
// About is a special leaf with neither, left for the host to render and
// handle locally.
type MenuItem struct {
	ID      string
	Label   string
	Tooltip string
	Icon    string

	IsMenu   bool
	Children []*MenuItem

	// Handle is the opaque activation token a host passes back to
	// Pipeline.Activate to reconstruct and run this action's command.
	// Empty for menus and for the About entry.
	Handle string

	// About marks the synthetic About entry (spec.md §4.6 step 7); hosts
	// render it specially rather than invoking Activate on it.
	About bool
}

// Pipeline resolves menu requests against a repository snapshot.
type Pipeline struct {
	repo      *repository.Repository
	evaluator *evaluate.Evaluator
	adapter   *selection.Adapter
	cfg       Config
	log       *log.Logger

	acts *activationTable
}

// New builds a Pipeline. adapter resolves raw selection records;
// evaluator decides candidacy; repo supplies the item-tree snapshot.
func New(repo *repository.Repository, evaluator *evaluate.Evaluator, adapter *selection.Adapter, cfg Config, logger *log.Logger) *Pipeline {
	if logger == nil {
		logger = log.Default()
	}
	return &Pipeline{repo: repo, evaluator: evaluator, adapter: adapter, cfg: cfg, log: logger, acts: newActivationTable()}
}

// GetFileItems answers a selection-menu request: one or more selected
// filesystem entries, target = selection.
func (p *Pipeline) GetFileItems(ctx context.Context, raws []selection.Raw) ([]*MenuItem, []string, error) {
	return p.buildMenu(ctx, model.TargetSelection, raws)
}

// GetBackgroundItems answers a location/background-menu request: the
// selection is typically the containing folder itself (or empty).
func (p *Pipeline) GetBackgroundItems(ctx context.Context, raws []selection.Raw) ([]*MenuItem, []string, error) {
	return p.buildMenu(ctx, model.TargetLocation, raws)
}

// GetToolbarItems answers a toolbar request: like GetFileItems, but
// menus are flattened inline rather than nested (spec.md §4.6 step 5).
func (p *Pipeline) GetToolbarItems(ctx context.Context, raws []selection.Raw) ([]*MenuItem, []string, error) {
	return p.buildMenu(ctx, model.TargetToolbar, raws)
}

func (p *Pipeline) buildMenu(ctx context.Context, target model.Target, raws []selection.Raw) ([]*MenuItem, []string, error) {
	infos, messages := p.adapter.Resolve(raws)
	tokens := expand.NewTokens(infos)
	snap := p.repo.Current()

	// A fresh Evaluator per request keeps its probe cache request-scoped.
	req := *p
	req.evaluator = evaluate.New(p.evaluator.Prober, p.evaluator.ProbeTimeout)

	var out []*MenuItem
	for _, root := range snap.Roots {
		dup := model.Duplicate(root, model.DuplicateWholeTree)
		expandDisplayStrings(dup, tokens)
		mi := req.walk(ctx, dup, target, infos, tokens)
		if mi == nil {
			continue
		}
		if target == model.TargetToolbar && mi.IsMenu {
			out = append(out, mi.Children...)
			continue
		}
		out = append(out, mi)
	}

	if p.cfg.CreateRootMenu && target != model.TargetToolbar {
		root := &MenuItem{ID: "auto-root-menu", Label: AutoRootMenuLabel, IsMenu: true, Children: out}
		if p.cfg.AddAboutItem {
			root.Children = append(root.Children, &MenuItem{ID: "about", Label: AboutLabel, About: true})
		}
		return []*MenuItem{root}, messages, nil
	}
	return out, messages, nil
}
