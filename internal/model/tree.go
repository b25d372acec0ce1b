package model

import (
	"strconv"
	"strings"
)

// AttachChild appends child to parent's child list. Fails if parent is not
// a menu, child already has a parent, or child's id collides (case
// insensitively) with an existing sibling.
func AttachChild(parent, child *Item) error {
	if parent.Kind != KindMenu {
		return ErrWrongKind
	}
	if child.Parent != nil {
		return ErrAlreadyParented
	}
	for _, sibling := range parent.Menu.Children {
		if strings.EqualFold(sibling.ID, child.ID) {
			return ErrDuplicateSibling
		}
	}
	child.Parent = parent
	parent.Menu.Children = append(parent.Menu.Children, child)
	invalidate(parent)
	return nil
}

// AttachProfile appends profile to action's profile list. Fails if action
// is not an action, profile already has a parent, or the id collides
// (case insensitively) with an existing profile of the same action.
func AttachProfile(action, profile *Item) error {
	if action.Kind != KindAction {
		return ErrWrongKind
	}
	if profile.Kind != KindProfile {
		return ErrWrongKind
	}
	if profile.Parent != nil {
		return ErrAlreadyParented
	}
	for _, sibling := range action.Action.Profiles {
		if strings.EqualFold(sibling.ID, profile.ID) {
			return ErrDuplicateSibling
		}
	}
	profile.Parent = action
	action.Action.Profiles = append(action.Action.Profiles, profile)
	invalidate(profile)
	return nil
}

// SetParent reassigns item's parent pointer in O(1), without touching any
// child/profile list. Callers that need list consistency should use
// AttachChild/AttachProfile instead; SetParent rewires a parent pointer
// without re-running uniqueness checks. (Duplicate assigns the copied
// subtree's Parent fields directly and does not call it.)
func SetParent(item, parent *Item) {
	item.Parent = parent
	invalidate(item)
}

// FindChild looks up a direct child of parent by case-insensitive id.
func FindChild(parent *Item, id string) (*Item, error) {
	if parent.Kind != KindMenu {
		return nil, ErrWrongKind
	}
	for _, child := range parent.Menu.Children {
		if strings.EqualFold(child.ID, id) {
			return child, nil
		}
	}
	return nil, ErrNotFound
}

// FindProfile looks up a profile of action by case-insensitive id.
func FindProfile(action *Item, id string) (*Item, error) {
	if action.Kind != KindAction {
		return nil, ErrWrongKind
	}
	for _, p := range action.Action.Profiles {
		if strings.EqualFold(p.ID, id) {
			return p, nil
		}
	}
	return nil, ErrNotFound
}

// MintProfileID allocates the next unused "profile-<n>" identifier for
// action, starting the scan at its last-allocated counter + 1, and
// persists the counter so the next call continues from there. Per
// spec.md §4.1, the counter is reset to 0 on save — callers performing a
// save should call ResetProfileCounter afterward.
func MintProfileID(action *Item) (string, error) {
	if action.Kind != KindAction {
		return "", ErrWrongKind
	}
	c := action.Action.lastAllocatedProfileCounter
	for {
		c++
		candidate := profileIDFor(c)
		if _, err := FindProfile(action, candidate); err == ErrNotFound {
			action.Action.lastAllocatedProfileCounter = c
			return candidate, nil
		}
	}
}

func profileIDFor(n int) string {
	return "profile-" + strconv.Itoa(n)
}

// ResetProfileCounter resets action's profile-id counter to 0, per
// spec.md §4.1 ("Counter is reset to 0 on save").
func ResetProfileCounter(action *Item) {
	if action.Kind == KindAction {
		action.Action.lastAllocatedProfileCounter = 0
	}
}

// invalidate clears the cached validity flag of item and every ancestor,
// per spec.md §4.1 ("caches a last-computed flag that is invalidated on
// any mutation up the ancestor chain").
func invalidate(item *Item) {
	for n := item; n != nil; n = n.Parent {
		n.valid = nil
	}
}
