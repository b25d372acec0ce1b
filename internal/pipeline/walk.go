package pipeline

import (
	"context"

	"github.com/fma-project/fma-go/internal/expand"
	"github.com/fma-project/fma-go/internal/model"
	"github.com/fma-project/fma-go/internal/selection"
)

// expandDisplayStrings rewrites every label/tooltip/icon/toolbar-label
// field of item and its descendants in place via display-mode expansion
// (spec.md §4.4, §4.6 step 4). It runs once per duplicated root before
// the recursive validity/candidacy walk, since expansion can empty out a
// label that was non-empty in the stored tree.
func expandDisplayStrings(item *model.Item, tokens *expand.Tokens) {
	item.Label = expand.ExpandDisplay(item.Label, tokens)
	item.Tooltip = expand.ExpandDisplay(item.Tooltip, tokens)
	item.Icon = expand.ExpandDisplay(item.Icon, tokens)

	switch item.Kind {
	case model.KindMenu:
		for _, child := range item.Menu.Children {
			expandDisplayStrings(child, tokens)
		}
	case model.KindAction:
		item.Action.ToolbarLabel = expand.ExpandDisplay(item.Action.ToolbarLabel, tokens)
		for _, prof := range item.Action.Profiles {
			expandDisplayStrings(prof, tokens)
		}
	}
}

// walk implements spec.md §4.6 step 5 for one duplicated, display-
// expanded item: re-check validity, evaluate candidacy, then recurse
// (menus) or select a profile and register an activation (actions).
// Returns nil if item has no place in the result tree.
func (p *Pipeline) walk(ctx context.Context, item *model.Item, target model.Target, sel []selection.Info, tokens *expand.Tokens) *MenuItem {
	// spec.md §3.1: "enabled flag; disabled items never appear." The
	// repository's load filter only reaches roots (spec.md §4.2 step 4);
	// descendants are never re-checked there, so the pipeline enforces
	// the rule unconditionally here instead.
	if !item.Enabled {
		return nil
	}
	if !model.IsValid(item) {
		return nil
	}
	if !p.evaluator.Evaluate(ctx, item, target, sel, tokens) {
		return nil
	}

	switch item.Kind {
	case model.KindMenu:
		return p.walkMenu(ctx, item, target, sel, tokens)
	case model.KindAction:
		return p.walkAction(ctx, item, target, sel, tokens)
	default:
		// Profiles never appear directly in a result tree; they are only
		// reached via walkAction's profile-selection step.
		return nil
	}
}

func (p *Pipeline) walkMenu(ctx context.Context, item *model.Item, target model.Target, sel []selection.Info, tokens *expand.Tokens) *MenuItem {
	var children []*MenuItem
	for _, child := range item.Menu.Children {
		mi := p.walk(ctx, child, target, sel, tokens)
		if mi == nil {
			continue
		}
		if target == model.TargetToolbar && mi.IsMenu {
			// Toolbar flattening (spec.md §4.6 step 5): a nested menu's
			// own children are spliced in directly, not the menu itself.
			children = append(children, mi.Children...)
			continue
		}
		children = append(children, mi)
	}
	if len(children) == 0 {
		return nil
	}
	return &MenuItem{ID: item.ID, Label: item.Label, Tooltip: item.Tooltip, Icon: item.Icon, IsMenu: true, Children: children}
}

func (p *Pipeline) walkAction(ctx context.Context, item *model.Item, target model.Target, sel []selection.Info, tokens *expand.Tokens) *MenuItem {
	profile := p.firstMatchingProfile(ctx, item, target, sel, tokens)
	if profile == nil {
		return nil
	}

	label := item.Label
	if target == model.TargetToolbar && !item.Action.ToolbarSameLabel && item.Action.ToolbarLabel != "" {
		label = item.Action.ToolbarLabel
	}

	return &MenuItem{
		ID:      item.ID,
		Label:   label,
		Tooltip: item.Tooltip,
		Icon:    item.Icon,
		Handle:  p.acts.register(profile, tokens),
	}
}

// firstMatchingProfile returns the first profile of action whose own
// context accepts (target, sel), per spec.md §4.6 step 5 ("find first
// matching profile"). The action's own context was already checked by
// the caller's Evaluate call on item itself.
func (p *Pipeline) firstMatchingProfile(ctx context.Context, action *model.Item, target model.Target, sel []selection.Info, tokens *expand.Tokens) *model.Item {
	for _, prof := range action.Action.Profiles {
		// Profiles have no independent enabled flag in the persisted
		// document format (profileDoc carries none); only validity and
		// candidacy gate profile selection.
		if !model.IsValid(prof) {
			continue
		}
		if p.evaluator.Evaluate(ctx, prof, target, sel, tokens) {
			return prof
		}
	}
	return nil
}
