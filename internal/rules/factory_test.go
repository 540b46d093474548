package rules

import "testing"

func TestBuild(t *testing.T) {
	out, err := Build([]Config{
		{Type: "structure", Enabled: true, TitleMode: ModeSimple},
		{Type: "structure", Enabled: false, TitleMode: ModeStrict},
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected 1 rule (disabled entry skipped), got %d", len(out))
	}
	r, ok := out[0].(*StructuralGroupRule)
	if !ok {
		t.Fatalf("expected *StructuralGroupRule, got %T", out[0])
	}
	if r.Mode() != ModeSimple {
		t.Errorf("expected simple mode, got %s", r.Mode())
	}
}

func TestBuild_UnknownType(t *testing.T) {
	if _, err := Build([]Config{{Type: "mystery", Enabled: true}}); err == nil {
		t.Error("expected error for unknown rule type")
	}
}

func TestBuild_BadMode(t *testing.T) {
	if _, err := Build([]Config{{Type: "structure", Enabled: true, TitleMode: "loose"}}); err == nil {
		t.Error("expected error for invalid title mode")
	}
}
