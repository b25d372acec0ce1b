package model

// AreEqual compares all semantic fields of a and b — not Parent, not
// provider bookkeeping (Provider/ProviderData/ReadOnly). Per spec.md
// §4.1, for actions the comparison additionally descends into profiles:
// for every profile of a with id X, b must have an unmodified profile X.
// Menus are NOT deeply compared beyond their own header/context fields —
// the equality check descends into profiles, not into arbitrary children.
func AreEqual(a, b *Item) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind {
		return false
	}
	if !headerEqual(a, b) {
		return false
	}

	switch a.Kind {
	case KindMenu:
		return contextEqual(a.Menu.Context, b.Menu.Context) && a.Menu.AllowEmpty == b.Menu.AllowEmpty
	case KindAction:
		return actionEqual(a, b)
	case KindProfile:
		return profileEqual(a, b)
	default:
		return false
	}
}

func headerEqual(a, b *Item) bool {
	return a.ID == b.ID &&
		a.Label == b.Label &&
		a.Tooltip == b.Tooltip &&
		a.Icon == b.Icon &&
		a.Enabled == b.Enabled &&
		a.SchemaVersion == b.SchemaVersion
}

func actionEqual(a, b *Item) bool {
	if len(a.Action.Targets) != len(b.Action.Targets) {
		return false
	}
	for t, v := range a.Action.Targets {
		if b.Action.Targets[t] != v {
			return false
		}
	}
	if a.Action.ToolbarLabel != b.Action.ToolbarLabel || a.Action.ToolbarSameLabel != b.Action.ToolbarSameLabel {
		return false
	}
	if !contextValueEqual(a.Action.Context, b.Action.Context) {
		return false
	}
	if len(a.Action.Profiles) != len(b.Action.Profiles) {
		return false
	}
	for _, pa := range a.Action.Profiles {
		pb, err := FindProfile(b, pa.ID)
		if err != nil {
			return false
		}
		if !AreEqual(pa, pb) {
			return false
		}
	}
	return true
}

func profileEqual(a, b *Item) bool {
	return a.Profile.Path == b.Profile.Path &&
		a.Profile.Parameters == b.Profile.Parameters &&
		a.Profile.WorkingDir == b.Profile.WorkingDir &&
		contextValueEqual(a.Profile.Context, b.Profile.Context)
}

func contextEqual(a, b *Context) bool {
	if a == nil || b == nil {
		return a == b
	}
	return contextValueEqual(*a, *b)
}

func contextValueEqual(a, b Context) bool {
	return stringSliceEqual(a.Basenames, b.Basenames) &&
		a.MatchCase == b.MatchCase &&
		stringSliceEqual(a.Mimetypes, b.Mimetypes) &&
		stringSliceEqual(a.Schemes, b.Schemes) &&
		stringSliceEqual(a.Folders, b.Folders) &&
		a.AcceptMultiple == b.AcceptMultiple &&
		a.IsFile == b.IsFile &&
		a.IsDir == b.IsDir &&
		a.SelectionCount == b.SelectionCount &&
		stringSliceEqual(a.Capabilities, b.Capabilities) &&
		a.TryExec == b.TryExec &&
		a.ShowIfRegistered == b.ShowIfRegistered &&
		a.ShowIfTrue == b.ShowIfTrue &&
		a.ShowIfRunning == b.ShowIfRunning
}

func stringSliceEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
