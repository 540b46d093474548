// Package engine runs registered rules over a document model and merges
// their findings into one document-ordered report.
package engine

import (
	"log/slog"
	"sort"

	"github.com/jjn00189/DocuRuleFix/internal/docio"
	"github.com/jjn00189/DocuRuleFix/internal/rules"
)

// Engine owns an ordered set of rules keyed by identifier. Registration is
// expected to happen once at startup; it is not safe to register rules
// while Apply is running.
type Engine struct {
	order []string
	byID  map[string]rules.Rule
	log   *slog.Logger
}

func New(log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}
	return &Engine{byID: make(map[string]rules.Rule), log: log}
}

// Register adds a rule. Registering an identifier that already exists
// replaces the previous rule while keeping its position in the
// application order.
func (e *Engine) Register(r rules.Rule) {
	id := r.ID()
	if _, exists := e.byID[id]; !exists {
		e.order = append(e.order, id)
	} else {
		e.log.Info("replacing rule", "id", id)
	}
	e.byID[id] = r
}

// Unregister removes a rule by identifier.
func (e *Engine) Unregister(id string) bool {
	if _, ok := e.byID[id]; !ok {
		return false
	}
	delete(e.byID, id)
	for i, v := range e.order {
		if v == id {
			e.order = append(e.order[:i], e.order[i+1:]...)
			break
		}
	}
	return true
}

// Rules returns the registered rules in application order.
func (e *Engine) Rules() []rules.Rule {
	out := make([]rules.Rule, 0, len(e.order))
	for _, id := range e.order {
		out = append(out, e.byID[id])
	}
	return out
}

// Len returns the number of registered rules.
func (e *Engine) Len() int { return len(e.order) }

// Apply runs every registered rule against the model in registration order.
// With fix set, each rule applies its fixable findings in place. The merged
// violations are stably sorted by (group, line) so the report reads in
// document order.
func (e *Engine) Apply(m *docio.DocumentModel, fix bool) []rules.Violation {
	var all []rules.Violation
	for _, id := range e.order {
		r := e.byID[id]
		var vs []rules.Violation
		if fix {
			vs = r.Fix(m)
		} else {
			vs = r.Validate(m)
		}
		e.log.Debug("rule applied", "id", id, "violations", len(vs), "fix", fix)
		all = append(all, vs...)
	}
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].Group != all[j].Group {
			return all[i].Group < all[j].Group
		}
		return all[i].Line < all[j].Line
	})
	return all
}
