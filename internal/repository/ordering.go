package repository

import (
	"strings"

	"golang.org/x/exp/slices"

	"github.com/fma-project/fma-go/internal/model"
)

// dedupeByID concatenates perProvider in provider-registration order and
// keeps only the first occurrence of each root id (spec.md §4.2 step 2):
// "user-scoped providers are registered before system-scoped providers so
// user items shadow system items."
func dedupeByID(perProvider [][]*model.Item) []*model.Item {
	seen := make(map[string]bool)
	roots := make([]*model.Item, 0)
	for _, items := range perProvider {
		for _, item := range items {
			if seen[item.ID] {
				continue
			}
			seen[item.ID] = true
			roots = append(roots, item)
		}
	}
	return roots
}

// filterLoadable drops disabled and/or invalid roots per the configurable
// load filter (spec.md §4.2 step 4). Validity is checked recursively via
// model.IsValid, which already implements "valid if any child/profile is
// valid" for menus and actions.
func filterLoadable(roots []*model.Item, loadDisabled, loadInvalid bool) []*model.Item {
	out := roots[:0:0]
	for _, item := range roots {
		if !loadDisabled && !item.Enabled {
			continue
		}
		if !loadInvalid && !model.IsValid(item) {
			continue
		}
		out = append(out, item)
	}
	return out
}

// orderRoots applies the level-zero order or a label sort, per
// spec.md §4.2 step 3 and the "List order mode" runtime preference.
func orderRoots(roots []*model.Item, opts Options) []*model.Item {
	switch opts.ListOrderMode {
	case OrderAscendingLabel:
		sorted := append([]*model.Item{}, roots...)
		slices.SortFunc(sorted, func(a, b *model.Item) int {
			return strings.Compare(strings.ToLower(a.Label), strings.ToLower(b.Label))
		})
		return sorted
	case OrderDescendingLabel:
		sorted := append([]*model.Item{}, roots...)
		slices.SortFunc(sorted, func(a, b *model.Item) int {
			return strings.Compare(strings.ToLower(b.Label), strings.ToLower(a.Label))
		})
		return sorted
	default:
		return applyLevelZeroOrder(roots, opts.LevelZeroOrder)
	}
}

// applyLevelZeroOrder places roots named in order first, in that order;
// any root not named is appended afterward in its original (load) order.
func applyLevelZeroOrder(roots []*model.Item, order []string) []*model.Item {
	if len(order) == 0 {
		return roots
	}
	byID := make(map[string]*model.Item, len(roots))
	for _, item := range roots {
		byID[item.ID] = item
	}

	out := make([]*model.Item, 0, len(roots))
	placed := make(map[string]bool, len(order))
	for _, id := range order {
		if item, ok := byID[id]; ok {
			out = append(out, item)
			placed[id] = true
		}
	}
	for _, item := range roots {
		if !placed[item.ID] {
			out = append(out, item)
		}
	}
	return out
}
