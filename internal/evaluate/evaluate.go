// Package evaluate implements the candidacy evaluator (spec.md §4.3): given
// an item's context and a resolved selection, it decides whether that item
// may appear for a given target, short-circuiting on the first predicate
// that fails.
package evaluate

import (
	"context"
	"strings"
	"time"

	"github.com/gobwas/glob"

	"github.com/fma-project/fma-go/internal/expand"
	"github.com/fma-project/fma-go/internal/model"
	"github.com/fma-project/fma-go/internal/selection"
)

// Evaluator holds the resources a single menu-request shares across every
// predicate evaluation it performs: the runtime prober, a timeout bounding
// each probe, and a cache so an identical template (e.g. the same try_exec
// path reused by several actions) is only probed once per request.
type Evaluator struct {
	Prober       Prober
	ProbeTimeout time.Duration
	cache        *probeCache
}

// New builds an Evaluator scoped to one menu-request. probeTimeout bounds
// each runtime probe (§5 suggests 500ms); a zero value disables the bound.
func New(prober Prober, probeTimeout time.Duration) *Evaluator {
	return &Evaluator{Prober: prober, ProbeTimeout: probeTimeout, cache: newProbeCache(0)}
}

// Evaluate decides whether item may appear for target against sel, per the
// ten-step order of spec.md §4.3. tokens must be built from the same sel
// (the caller owns the single Tokens value per request, §4.4).
func (ev *Evaluator) Evaluate(ctx context.Context, item *model.Item, target model.Target, sel []selection.Info, tokens *expand.Tokens) bool {
	if !targetMatches(item, target) {
		return false
	}

	itemCtx := item.EffectiveContext()
	if itemCtx == nil {
		return true
	}

	if !itemCtx.AcceptMultiple && len(sel) != 1 {
		return false
	}

	if itemCtx.SelectionCount != "" {
		parsed, err := model.ParseSelectionCount(itemCtx.SelectionCount)
		if err != nil || !parsed.Matches(uint64(len(sel))) {
			return false
		}
	}

	if !fileTypeMatches(itemCtx, sel) {
		return false
	}
	if !schemesMatch(itemCtx, sel) {
		return false
	}
	if !foldersMatch(itemCtx, sel) {
		return false
	}
	if !basenamesMatch(itemCtx, sel) {
		return false
	}
	if !mimetypesMatch(itemCtx, sel) {
		return false
	}
	if !capabilitiesMatch(itemCtx, sel) {
		return false
	}

	return ev.probesMatch(ctx, itemCtx, tokens)
}

// targetMatches implements step 1. Menus are always acceptable; actions
// consult their own targets; profiles inherit their parent action's targets
// (a profile has no targets field of its own to override with).
func targetMatches(item *model.Item, target model.Target) bool {
	switch item.Kind {
	case model.KindMenu:
		return true
	case model.KindAction:
		return item.Action.Targets[target]
	case model.KindProfile:
		if item.Parent == nil || item.Parent.Kind != model.KindAction {
			return false
		}
		return item.Parent.Action.Targets[target]
	default:
		return false
	}
}

func fileTypeMatches(ctx *model.Context, sel []selection.Info) bool {
	if !ctx.IsFile && !ctx.IsDir {
		return false
	}
	for i := range sel {
		e := &sel[i]
		if !((e.FileType.IsDir() && ctx.IsDir) || (e.FileType.IsFile() && ctx.IsFile)) {
			return false
		}
	}
	return true
}

func schemesMatch(ctx *model.Context, sel []selection.Info) bool {
	if len(ctx.Schemes) == 0 {
		return true
	}
	for i := range sel {
		e := &sel[i]
		matched := false
		for _, pattern := range ctx.Schemes {
			if len(e.Scheme) >= len(pattern) && strings.EqualFold(e.Scheme[:len(pattern)], pattern) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

func foldersMatch(ctx *model.Context, sel []selection.Info) bool {
	if len(ctx.Folders) == 0 {
		return true
	}
	for i := range sel {
		e := &sel[i]
		matched := false
		for _, pattern := range ctx.Folders {
			g, err := glob.Compile(pattern, '/')
			if err != nil {
				continue
			}
			if g.Match(e.Dirname) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

func basenamesMatch(ctx *model.Context, sel []selection.Info) bool {
	if len(ctx.Basenames) == 0 {
		return true
	}
	if len(ctx.Basenames) == 1 && ctx.Basenames[0] == "*" {
		return true
	}

	var positive, negative []string
	for _, raw := range ctx.Basenames {
		pattern, negated := model.SplitBasename(raw)
		if !ctx.MatchCase {
			pattern = strings.ToLower(pattern)
		}
		if negated {
			negative = append(negative, pattern)
		} else {
			positive = append(positive, pattern)
		}
	}

	for i := range sel {
		name := sel[i].Basename
		if !ctx.MatchCase {
			name = strings.ToLower(name)
		}
		if len(positive) > 0 && !anyGlobMatches(positive, name) {
			return false
		}
		if anyGlobMatches(negative, name) {
			return false
		}
	}
	return true
}

func mimetypesMatch(ctx *model.Context, sel []selection.Info) bool {
	if len(ctx.Mimetypes) == 0 {
		return true
	}
	for _, pattern := range ctx.Mimetypes {
		if pattern == "*" || pattern == "*/*" {
			return true
		}
	}
	for i := range sel {
		mt := strings.ToLower(sel[i].MimeType)
		if !anyGlobMatches(lowerAll(ctx.Mimetypes), mt) {
			return false
		}
	}
	return true
}

func capabilitiesMatch(ctx *model.Context, sel []selection.Info) bool {
	for _, raw := range ctx.Capabilities {
		name, negated := model.SplitCapability(raw)
		for i := range sel {
			has := hasCapability(&sel[i], name)
			if negated && has {
				return false
			}
			if !negated && !has {
				return false
			}
		}
	}
	return true
}

func (ev *Evaluator) probesMatch(ctx context.Context, itemCtx *model.Context, tokens *expand.Tokens) bool {
	if itemCtx.TryExec != "" {
		path := expand.ExpandOnce(itemCtx.TryExec, tokens, 0)
		if !ev.probe("try_exec:"+path, ctx, func(c context.Context) bool { return ev.Prober.TryExec(c, path) }) {
			return false
		}
	}
	if itemCtx.ShowIfRegistered != "" {
		name := expand.ExpandOnce(itemCtx.ShowIfRegistered, tokens, 0)
		if !ev.probe("show_if_registered:"+name, ctx, func(c context.Context) bool { return ev.Prober.ShowIfRegistered(c, name) }) {
			return false
		}
	}
	if itemCtx.ShowIfTrue != "" {
		cmd := expand.ExpandOnce(itemCtx.ShowIfTrue, tokens, 0)
		if !ev.probe("show_if_true:"+cmd, ctx, func(c context.Context) bool { return ev.Prober.ShowIfTrue(c, cmd) }) {
			return false
		}
	}
	if itemCtx.ShowIfRunning != "" {
		name := expand.ExpandOnce(itemCtx.ShowIfRunning, tokens, 0)
		if !ev.probe("show_if_running:"+name, ctx, func(c context.Context) bool { return ev.Prober.ShowIfRunning(c, name) }) {
			return false
		}
	}
	return true
}

func (ev *Evaluator) probe(key string, ctx context.Context, fn func(context.Context) bool) bool {
	if cached, ok := ev.cache.get(key); ok {
		return cached
	}
	result := withTimeout(ctx, ev.ProbeTimeout, fn)
	ev.cache.set(key, result)
	return result
}

func anyGlobMatches(patterns []string, s string) bool {
	for _, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			continue
		}
		if g.Match(s) {
			return true
		}
	}
	return false
}

func lowerAll(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = strings.ToLower(s)
	}
	return out
}
