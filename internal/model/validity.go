package model

import (
	"os"
	"strings"
)

// IsValid recursively evaluates item's validity, per spec.md §3.3. The
// result is cached on the item and reused until a mutation anywhere from
// the item up to the root invalidates it (see invalidate in tree.go).
// Evaluation itself has no side effects beyond populating that cache.
func IsValid(item *Item) bool {
	if item.valid != nil {
		return *item.valid
	}
	v := computeValid(item)
	item.valid = &v
	return v
}

func computeValid(item *Item) bool {
	if item.ID == "" {
		return false
	}
	if !iconValid(item.Icon) {
		return false
	}
	switch item.Kind {
	case KindMenu:
		return menuValid(item)
	case KindAction:
		return actionValid(item)
	case KindProfile:
		return profileValid(item)
	default:
		return false
	}
}

func iconValid(icon string) bool {
	if icon == "" || !strings.HasPrefix(icon, "/") {
		return true // icon name, not a path: always acceptable
	}
	_, err := os.Stat(icon)
	return err == nil
}

func menuValid(item *Item) bool {
	if item.Label == "" {
		return false
	}
	if len(item.Menu.Children) == 0 {
		return item.Menu.AllowEmpty
	}
	for _, child := range item.Menu.Children {
		if IsValid(child) {
			return true
		}
	}
	return false
}

func actionValid(item *Item) bool {
	a := item.Action
	if (a.Targets[TargetSelection] || a.Targets[TargetLocation]) && item.Label == "" {
		return false
	}
	if a.Targets[TargetToolbar] && a.ToolbarLabel == "" {
		return false
	}
	for _, p := range a.Profiles {
		if IsValid(p) {
			return true
		}
	}
	return false
}

func profileValid(item *Item) bool {
	if item.Profile.Path == "" {
		return false
	}
	return item.Parent != nil
}
