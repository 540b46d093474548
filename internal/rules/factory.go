package rules

import "fmt"

// Config describes one rule to build.
type Config struct {
	Type      string
	Enabled   bool
	TitleMode TitleMode
}

// Build constructs the configured rule set in order, skipping disabled
// entries. Unknown rule types are an error.
func Build(cfgs []Config) ([]Rule, error) {
	var out []Rule
	for _, c := range cfgs {
		if !c.Enabled {
			continue
		}
		switch c.Type {
		case "structure":
			r, err := NewStructuralGroupRule(c.TitleMode)
			if err != nil {
				return nil, fmt.Errorf("build %s rule: %w", c.Type, err)
			}
			out = append(out, r)
		default:
			return nil, fmt.Errorf("unknown rule type %q", c.Type)
		}
	}
	return out, nil
}
