// Package testutil provides ready-to-use domain values for tests across
// the module: sample items, selections and provider configs, following
// the teacher's testutil package of small Fixture* builder functions.
package testutil

import (
	"path"

	"github.com/fma-project/fma-go/internal/config"
	"github.com/fma-project/fma-go/internal/model"
	"github.com/fma-project/fma-go/internal/selection"
)

// FixtureProfile returns an enabled, file-context profile invoking execPath
// with parameters, matching any single file selection.
func FixtureProfile(id, execPath, parameters string) *model.Item {
	p := model.NewProfile(id)
	p.Label = id
	p.Enabled = true
	p.Profile.Path = execPath
	p.Profile.Parameters = parameters
	p.Profile.Context.IsFile = true
	return p
}

// FixtureAction returns an enabled action targeting the selection menu,
// pre-attached to one FixtureProfile, matching any single file selection.
func FixtureAction(id, label string) *model.Item {
	a := model.NewAction(id)
	a.Label = label
	a.Enabled = true
	a.Action.Targets[model.TargetSelection] = true
	a.Action.Context.IsFile = true

	profile := FixtureProfile(id+"-profile-1", "/usr/bin/true", "%f")
	if err := model.AttachProfile(a, profile); err != nil {
		panic(err) // fixture construction only; a bug here is a test bug
	}
	return a
}

// FixtureMenu returns an enabled menu with no children; callers attach
// whatever FixtureAction/FixtureMenu subtree their test needs.
func FixtureMenu(id, label string) *model.Item {
	m := model.NewMenu(id)
	m.Label = label
	m.Enabled = true
	return m
}

// FixtureSelectionInfo returns a local regular-file SelectedInfo for p,
// with read/write permission bits set so candidacy checks that consult
// them pass by default.
func FixtureSelectionInfo(p string) selection.Info {
	return selection.Info{
		URI:      "file://" + p,
		Basename: path.Base(p),
		Dirname:  path.Dir(p),
		Path:     p,
		Scheme:   "file",
		FileType: selection.FileTypeRegular,
		CanRead:  true,
		CanWrite: true,
	}
}

// FixtureProviderConfig returns a provider configuration entry for the
// cli/config wiring tests: an enabled, writable yaml-backed provider.
func FixtureProviderConfig(id, dir string) config.ProviderConfig {
	return config.ProviderConfig{
		ID:       id,
		Kind:     "yaml",
		Path:     dir,
		Enabled:  true,
		Writable: true,
	}
}
