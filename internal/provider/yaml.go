package provider

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/fma-project/fma-go/internal/model"
)

// YAMLProvider stores each root item as one "<id>.yaml" file in a
// directory. Grounded on the teacher's file-per-entity layout idiom
// (internal/config reading a single YAML file; here generalized to one
// file per root item so items can be added/removed without rewriting a
// shared file).
type YAMLProvider struct {
	id          string
	displayName string
	dir         string
	writable    bool
	log         *log.Logger
}

// NewYAMLProvider builds a provider rooted at dir. writable declares
// whether this backend's author has implemented writes at all
// (IsWillingToWrite); runtime writability is probed separately.
func NewYAMLProvider(id, displayName, dir string, writable bool, logger *log.Logger) *YAMLProvider {
	if logger == nil {
		logger = log.Default()
	}
	return &YAMLProvider{id: id, displayName: displayName, dir: dir, writable: writable, log: logger}
}

func (p *YAMLProvider) ID() string             { return p.id }
func (p *YAMLProvider) DisplayName() string    { return p.displayName }
func (p *YAMLProvider) IsWillingToWrite() bool { return p.writable }
func (p *YAMLProvider) SupportsExport() bool   { return false }
func (p *YAMLProvider) SupportsImport() bool   { return false }

func (p *YAMLProvider) IsAbleToWrite() bool {
	if !p.writable {
		return false
	}
	return dirWritable(p.dir)
}

func (p *YAMLProvider) ReadItems(ctx context.Context) ([]*model.Item, []string, error) {
	entries, err := os.ReadDir(p.dir)
	if os.IsNotExist(err) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("provider %s: read directory %s: %w", p.id, p.dir, err)
	}

	var items []*model.Item
	var messages []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(p.dir, entry.Name())
		raw, err := os.ReadFile(path)
		if err != nil {
			messages = append(messages, fmt.Sprintf("provider %s: read %s: %v", p.id, path, err))
			continue
		}
		var d itemDoc
		if err := yaml.Unmarshal(raw, &d); err != nil {
			messages = append(messages, fmt.Sprintf("provider %s: parse %s: %v", p.id, path, err))
			continue
		}
		item := docToItem(&d, p.id, &messages)
		if item == nil {
			continue
		}
		if d.SchemaVersion > currentSchemaVersion {
			messages = append(messages, fmt.Sprintf("provider %s: item %q declares schema_version %d, newer than understood (%d); loaded best-effort", p.id, d.ID, d.SchemaVersion, currentSchemaVersion))
		}
		items = append(items, item)
	}
	return items, messages, nil
}

// currentSchemaVersion is the highest schema_version this module
// understands natively; newer documents are still loaded (spec.md §9
// "tolerant forward-compat" supplemented feature) but flagged.
const currentSchemaVersion = 2

func (p *YAMLProvider) WriteItem(ctx context.Context, item *model.Item) (StatusCode, []string) {
	if !p.writable {
		return StatusReadOnly, []string{fmt.Sprintf("provider %s is not willing to write", p.id)}
	}
	if st, msgs := p.DeleteItem(ctx, item); st != StatusOK && st != StatusNotFound {
		return st, msgs
	}

	d := itemToDoc(item)
	out, err := yaml.Marshal(d)
	if err != nil {
		return StatusIOError, []string{fmt.Sprintf("provider %s: marshal %q: %v", p.id, item.ID, err)}
	}
	if err := os.MkdirAll(p.dir, 0o755); err != nil {
		return StatusIOError, []string{fmt.Sprintf("provider %s: create directory: %v", p.id, err)}
	}
	path := filepath.Join(p.dir, item.ID+".yaml")
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return StatusIOError, []string{fmt.Sprintf("provider %s: write %s: %v", p.id, path, err)}
	}
	return StatusOK, nil
}

func (p *YAMLProvider) DeleteItem(ctx context.Context, item *model.Item) (StatusCode, []string) {
	if !p.writable {
		return StatusReadOnly, []string{fmt.Sprintf("provider %s is not willing to write", p.id)}
	}
	path := filepath.Join(p.dir, item.ID+".yaml")
	err := os.Remove(path)
	if os.IsNotExist(err) {
		return StatusNotFound, nil
	}
	if err != nil {
		return StatusIOError, []string{fmt.Sprintf("provider %s: delete %s: %v", p.id, path, err)}
	}
	return StatusOK, nil
}

func (p *YAMLProvider) DuplicateProviderData(ctx context.Context, src, dst *model.Item) []string {
	return nil
}

// Watch polls the directory's modification time every pollInterval and
// calls notify on change. No fsnotify-style dependency is wired (see
// DESIGN.md); a cheap stat poll is the idiomatic stdlib fallback.
func (p *YAMLProvider) Watch(ctx context.Context, notify func()) {
	const pollInterval = 2 * time.Second
	var lastMod time.Time
	if info, err := os.Stat(p.dir); err == nil {
		lastMod = info.ModTime()
	}

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			info, err := os.Stat(p.dir)
			if err != nil {
				continue
			}
			if info.ModTime().After(lastMod) {
				lastMod = info.ModTime()
				notify()
			}
		}
	}
}
