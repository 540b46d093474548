package engine

import (
	"testing"

	"github.com/jjn00189/DocuRuleFix/internal/docio"
	"github.com/jjn00189/DocuRuleFix/internal/rules"
)

// stubRule emits a fixed set of violations, tagging each with its own name
// so tests can tell which registration produced it.
type stubRule struct {
	id   string
	name string
	out  []rules.Violation
	fix  []rules.Violation
}

func (r *stubRule) ID() string   { return r.id }
func (r *stubRule) Name() string { return r.name }

func (r *stubRule) Validate(*docio.DocumentModel) []rules.Violation { return r.out }

func (r *stubRule) Fix(*docio.DocumentModel) []rules.Violation {
	if r.fix != nil {
		return r.fix
	}
	return r.out
}

func v(group, line int, rule string) rules.Violation {
	return rules.Violation{Group: group, Line: line, Rule: rule, Kind: "stub", Severity: rules.SeverityError}
}

func TestRegister_PreservesOrder(t *testing.T) {
	e := New(nil)
	e.Register(&stubRule{id: "a"})
	e.Register(&stubRule{id: "b"})
	e.Register(&stubRule{id: "c"})

	got := e.Rules()
	if len(got) != 3 {
		t.Fatalf("expected 3 rules, got %d", len(got))
	}
	for i, want := range []string{"a", "b", "c"} {
		if got[i].ID() != want {
			t.Errorf("rule %d: expected %s, got %s", i, want, got[i].ID())
		}
	}
}

func TestRegister_DuplicateReplacesInPlace(t *testing.T) {
	e := New(nil)
	e.Register(&stubRule{id: "a", name: "first"})
	e.Register(&stubRule{id: "b", name: "second"})
	e.Register(&stubRule{id: "a", name: "replacement"})

	if e.Len() != 2 {
		t.Fatalf("expected 2 rules after replacement, got %d", e.Len())
	}
	got := e.Rules()
	if got[0].ID() != "a" || got[0].Name() != "replacement" {
		t.Errorf("expected replacement to keep position 0, got %s/%s", got[0].ID(), got[0].Name())
	}
	if got[1].ID() != "b" {
		t.Errorf("expected b at position 1, got %s", got[1].ID())
	}
}

func TestUnregister(t *testing.T) {
	e := New(nil)
	e.Register(&stubRule{id: "a"})
	e.Register(&stubRule{id: "b"})

	if !e.Unregister("a") {
		t.Fatal("expected Unregister to report removal")
	}
	if e.Unregister("a") {
		t.Error("second Unregister of same id should report false")
	}
	if e.Len() != 1 || e.Rules()[0].ID() != "b" {
		t.Errorf("expected only b to remain, got %d rules", e.Len())
	}
}

func TestApply_MergesAndSortsByGroupThenLine(t *testing.T) {
	e := New(nil)
	e.Register(&stubRule{id: "late", out: []rules.Violation{
		v(1, 4, "late"),
		v(0, 2, "late"),
	}})
	e.Register(&stubRule{id: "early", out: []rules.Violation{
		v(0, 0, "early"),
		v(1, 3, "early"),
	}})

	m := docio.NewModel("x.docx", nil)
	got := e.Apply(m, false)

	want := []struct {
		group, line int
		rule        string
	}{
		{0, 0, "early"},
		{0, 2, "late"},
		{1, 3, "early"},
		{1, 4, "late"},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d violations, got %d", len(want), len(got))
	}
	for i, w := range want {
		if got[i].Group != w.group || got[i].Line != w.line || got[i].Rule != w.rule {
			t.Errorf("violation %d: expected (%d,%d,%s), got (%d,%d,%s)",
				i, w.group, w.line, w.rule, got[i].Group, got[i].Line, got[i].Rule)
		}
	}
}

func TestApply_StableForEqualPositions(t *testing.T) {
	// Two rules reporting the same (group, line) keep registration order.
	e := New(nil)
	e.Register(&stubRule{id: "one", out: []rules.Violation{v(0, 1, "one")}})
	e.Register(&stubRule{id: "two", out: []rules.Violation{v(0, 1, "two")}})

	got := e.Apply(docio.NewModel("x.docx", nil), false)
	if len(got) != 2 {
		t.Fatalf("expected 2 violations, got %d", len(got))
	}
	if got[0].Rule != "one" || got[1].Rule != "two" {
		t.Errorf("expected stable order [one two], got [%s %s]", got[0].Rule, got[1].Rule)
	}
}

func TestApply_FixCallsFixPath(t *testing.T) {
	fixed := v(0, 0, "r")
	fixed.Fixed = true
	e := New(nil)
	e.Register(&stubRule{
		id:  "r",
		out: []rules.Violation{v(0, 0, "r")},
		fix: []rules.Violation{fixed},
	})

	m := docio.NewModel("x.docx", nil)
	if got := e.Apply(m, false); got[0].Fixed {
		t.Error("validate path must not report fixed violations")
	}
	if got := e.Apply(m, true); !got[0].Fixed {
		t.Error("fix path should report the fixed violation")
	}
}
