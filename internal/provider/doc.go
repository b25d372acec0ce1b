package provider

import (
	"fmt"
	"strings"

	"github.com/fma-project/fma-go/internal/model"
)

// itemDoc is the on-disk shape shared by the yaml and sqlite backends: one
// document per root item, nested documents for menu children and action
// profiles. A dedicated DTO keeps the wire format stable independent of
// model.Item's internal tagged-union representation.
type itemDoc struct {
	ID            string   `yaml:"id"`
	Kind          string   `yaml:"kind"`
	Label         string   `yaml:"label,omitempty"`
	Tooltip       string   `yaml:"tooltip,omitempty"`
	Icon          string   `yaml:"icon,omitempty"`
	Enabled       bool     `yaml:"enabled"`
	ReadOnly      bool     `yaml:"read_only,omitempty"`
	SchemaVersion int      `yaml:"schema_version"`
	Context       *ctxDoc  `yaml:"context,omitempty"`
	AllowEmpty    bool     `yaml:"allow_empty,omitempty"`
	Children      []*itemDoc `yaml:"children,omitempty"`

	Targets          []string      `yaml:"targets,omitempty"`
	ToolbarLabel     string        `yaml:"toolbar_label,omitempty"`
	ToolbarSameLabel bool          `yaml:"toolbar_same_label,omitempty"`
	Profiles         []*profileDoc `yaml:"profiles,omitempty"`

	// Legacy pre-v2 single-profile action fields. Present only on
	// documents written before the profiles list existed.
	Path       string `yaml:"path,omitempty"`
	Parameters string `yaml:"parameters,omitempty"`
	WorkingDir string `yaml:"working_dir,omitempty"`
}

type profileDoc struct {
	ID         string  `yaml:"id"`
	Label      string  `yaml:"label,omitempty"`
	Path       string  `yaml:"path"`
	Parameters string  `yaml:"parameters,omitempty"`
	WorkingDir string  `yaml:"working_dir,omitempty"`
	Context    *ctxDoc `yaml:"context,omitempty"`
}

type ctxDoc struct {
	Basenames        []string `yaml:"basenames,omitempty"`
	MatchCase        bool     `yaml:"match_case,omitempty"`
	Mimetypes        []string `yaml:"mimetypes,omitempty"`
	Schemes          []string `yaml:"schemes,omitempty"`
	Folders          []string `yaml:"folders,omitempty"`
	AcceptMultiple   bool     `yaml:"accept_multiple,omitempty"`
	IsFile           bool     `yaml:"isfile,omitempty"`
	IsDir            bool     `yaml:"isdir,omitempty"`
	SelectionCount   string   `yaml:"selection_count,omitempty"`
	Capabilities     []string `yaml:"capabilities,omitempty"`
	TryExec          string   `yaml:"try_exec,omitempty"`
	ShowIfRegistered string   `yaml:"show_if_registered,omitempty"`
	ShowIfTrue       string   `yaml:"show_if_true,omitempty"`
	ShowIfRunning    string   `yaml:"show_if_running,omitempty"`
}

func ctxFromDoc(d *ctxDoc) model.Context {
	if d == nil {
		return model.Context{}
	}
	return model.Context{
		Basenames:        d.Basenames,
		MatchCase:        d.MatchCase,
		Mimetypes:        d.Mimetypes,
		Schemes:          d.Schemes,
		Folders:          d.Folders,
		AcceptMultiple:   d.AcceptMultiple,
		IsFile:           d.IsFile,
		IsDir:            d.IsDir,
		SelectionCount:   d.SelectionCount,
		Capabilities:     d.Capabilities,
		TryExec:          d.TryExec,
		ShowIfRegistered: d.ShowIfRegistered,
		ShowIfTrue:       d.ShowIfTrue,
		ShowIfRunning:    d.ShowIfRunning,
	}
}

func ctxToDoc(c model.Context) *ctxDoc {
	return &ctxDoc{
		Basenames:        c.Basenames,
		MatchCase:        c.MatchCase,
		Mimetypes:        c.Mimetypes,
		Schemes:          c.Schemes,
		Folders:          c.Folders,
		AcceptMultiple:   c.AcceptMultiple,
		IsFile:           c.IsFile,
		IsDir:            c.IsDir,
		SelectionCount:   c.SelectionCount,
		Capabilities:     c.Capabilities,
		TryExec:          c.TryExec,
		ShowIfRegistered: c.ShowIfRegistered,
		ShowIfTrue:       c.ShowIfTrue,
		ShowIfRunning:    c.ShowIfRunning,
	}
}

// targetsFromNames parses the action's "targets" list ("selection",
// "location", "toolbar") into the map model.ActionData expects.
func targetsFromNames(names []string) map[model.Target]bool {
	out := make(map[model.Target]bool, len(names))
	for _, n := range names {
		switch strings.ToLower(n) {
		case "selection":
			out[model.TargetSelection] = true
		case "location":
			out[model.TargetLocation] = true
		case "toolbar":
			out[model.TargetToolbar] = true
		}
	}
	return out
}

func targetsToNames(targets map[model.Target]bool) []string {
	var out []string
	if targets[model.TargetSelection] {
		out = append(out, "selection")
	}
	if targets[model.TargetLocation] {
		out = append(out, "location")
	}
	if targets[model.TargetToolbar] {
		out = append(out, "toolbar")
	}
	return out
}

// migrateLegacyAction synthesizes a single profile named "profile-pre-v2"
// from a pre-v2 action document's flat path/parameters/working_dir fields,
// per spec.md §9's resolved Open Question: "a provider reading v1 data
// must synthesize a single profile named profile-pre-v2 and lift
// action-level command fields into it."
func migrateLegacyAction(d *itemDoc) []*profileDoc {
	if len(d.Profiles) > 0 || d.Path == "" {
		return d.Profiles
	}
	return []*profileDoc{{
		ID:         "profile-pre-v2",
		Label:      "profile-pre-v2",
		Path:       d.Path,
		Parameters: d.Parameters,
		WorkingDir: d.WorkingDir,
	}}
}

// docToItem converts a document into a live model.Item tree, tagging every
// node with providerID. Per-node conversion failures are appended to
// messages and that node is skipped rather than aborting the whole read,
// matching spec.md §7's "parse/load" error kind.
func docToItem(d *itemDoc, providerID string, messages *[]string) *model.Item {
	switch strings.ToLower(d.Kind) {
	case "menu":
		return menuFromDoc(d, providerID, messages)
	case "action":
		return actionFromDoc(d, providerID, messages)
	default:
		*messages = append(*messages, fmt.Sprintf("provider %s: item %q has unknown kind %q, skipped", providerID, d.ID, d.Kind))
		return nil
	}
}

func menuFromDoc(d *itemDoc, providerID string, messages *[]string) *model.Item {
	m := model.NewMenu(d.ID)
	m.Label = d.Label
	m.Tooltip = d.Tooltip
	m.Icon = d.Icon
	m.Enabled = d.Enabled
	m.ReadOnly = d.ReadOnly
	m.SchemaVersion = d.SchemaVersion
	m.Provider = providerID
	m.Menu.AllowEmpty = d.AllowEmpty
	if d.Context != nil {
		c := ctxFromDoc(d.Context)
		m.Menu.Context = &c
	}
	for _, childDoc := range d.Children {
		child := docToItem(childDoc, providerID, messages)
		if child == nil {
			continue
		}
		if err := model.AttachChild(m, child); err != nil {
			*messages = append(*messages, fmt.Sprintf("provider %s: menu %q: %v", providerID, d.ID, err))
		}
	}
	return m
}

func actionFromDoc(d *itemDoc, providerID string, messages *[]string) *model.Item {
	a := model.NewAction(d.ID)
	a.Label = d.Label
	a.Tooltip = d.Tooltip
	a.Icon = d.Icon
	a.Enabled = d.Enabled
	a.ReadOnly = d.ReadOnly
	a.SchemaVersion = d.SchemaVersion
	a.Provider = providerID
	a.Action.Targets = targetsFromNames(d.Targets)
	a.Action.ToolbarLabel = d.ToolbarLabel
	a.Action.ToolbarSameLabel = d.ToolbarSameLabel
	if d.ToolbarSameLabel {
		a.Action.ToolbarLabel = d.Label
	}
	if d.Context != nil {
		a.Action.Context = ctxFromDoc(d.Context)
	}

	profiles := migrateLegacyAction(d)
	if len(profiles) == 0 && d.Path != "" {
		*messages = append(*messages, fmt.Sprintf("provider %s: action %q: legacy layout produced no profile", providerID, d.ID))
	}
	for _, pd := range profiles {
		p := model.NewProfile(pd.ID)
		p.Label = pd.Label
		p.Profile.Path = pd.Path
		p.Profile.Parameters = pd.Parameters
		p.Profile.WorkingDir = pd.WorkingDir
		if pd.Context != nil {
			p.Profile.Context = ctxFromDoc(pd.Context)
		}
		if err := model.AttachProfile(a, p); err != nil {
			*messages = append(*messages, fmt.Sprintf("provider %s: action %q: %v", providerID, d.ID, err))
		}
	}
	return a
}

// itemToDoc converts a live item back into its document form for writing.
func itemToDoc(item *model.Item) *itemDoc {
	switch item.Kind {
	case model.KindMenu:
		d := &itemDoc{
			ID: item.ID, Kind: "menu", Label: item.Label, Tooltip: item.Tooltip,
			Icon: item.Icon, Enabled: item.Enabled, ReadOnly: item.ReadOnly,
			SchemaVersion: item.SchemaVersion, AllowEmpty: item.Menu.AllowEmpty,
		}
		if item.Menu.Context != nil {
			d.Context = ctxToDoc(*item.Menu.Context)
		}
		for _, child := range item.Menu.Children {
			d.Children = append(d.Children, itemToDoc(child))
		}
		return d
	case model.KindAction:
		d := &itemDoc{
			ID: item.ID, Kind: "action", Label: item.Label, Tooltip: item.Tooltip,
			Icon: item.Icon, Enabled: item.Enabled, ReadOnly: item.ReadOnly,
			SchemaVersion:    item.SchemaVersion,
			Targets:          targetsToNames(item.Action.Targets),
			ToolbarLabel:     item.Action.ToolbarLabel,
			ToolbarSameLabel: item.Action.ToolbarSameLabel,
			Context:          ctxToDoc(item.Action.Context),
		}
		for _, p := range item.Action.Profiles {
			d.Profiles = append(d.Profiles, &profileDoc{
				ID: p.ID, Label: p.Label, Path: p.Profile.Path,
				Parameters: p.Profile.Parameters, WorkingDir: p.Profile.WorkingDir,
				Context: ctxToDoc(p.Profile.Context),
			})
		}
		return d
	default:
		return nil
	}
}
