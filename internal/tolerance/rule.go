// Package tolerance holds per-field comparison policies: vendor presets,
// call-time overrides, and pass/fail evaluation for value pairs.
package tolerance

import (
	"sort"

	"github.com/rotisserie/eris"
)

// Mode selects how a rule's threshold is applied.
type Mode string

const (
	// Absolute compares the raw difference against the threshold.
	Absolute Mode = "absolute"
	// RelativePercent compares (oa-po)/po*100 against the threshold.
	RelativePercent Mode = "percent"
)

// Rule is the comparison policy for one field. Rules are stateless and
// reusable across all line pairs.
type Rule struct {
	Field     string  `yaml:"field" json:"field"`
	Mode      Mode    `yaml:"mode" json:"mode"`
	Threshold float64 `yaml:"threshold" json:"threshold"`
}

// Validate checks mode and threshold.
func (r Rule) Validate() error {
	switch r.Mode {
	case Absolute, RelativePercent:
	default:
		return eris.Errorf("tolerance: unknown mode %q for field %q", r.Mode, r.Field)
	}
	if r.Field == "" {
		return eris.New("tolerance: rule has empty field name")
	}
	if r.Threshold < 0 {
		return eris.Errorf("tolerance: negative threshold %v for field %q", r.Threshold, r.Field)
	}
	return nil
}

// Profile is a named, immutable set of rules for one vendor. Overrides are
// applied with WithOverrides, never by mutating a profile in place.
type Profile struct {
	Vendor string `yaml:"vendor" json:"vendor"`
	Rules  []Rule `yaml:"rules" json:"rules"`
}

// Rule returns the rule configured for a field, if any.
func (p Profile) Rule(field string) (Rule, bool) {
	for _, r := range p.Rules {
		if r.Field == field {
			return r, true
		}
	}
	return Rule{}, false
}

// WithOverrides returns a copy of the profile with per-field thresholds
// replaced. Fields with no existing rule gain an Absolute rule, appended
// after the preset rules. The receiver is left untouched.
func (p Profile) WithOverrides(thresholds map[string]float64) Profile {
	out := Profile{Vendor: p.Vendor, Rules: make([]Rule, len(p.Rules))}
	copy(out.Rules, p.Rules)

	// Existing rules keep their position; new fields append sorted by name
	// so the rule order stays deterministic across runs.
	seen := make(map[string]bool, len(out.Rules))
	for i := range out.Rules {
		f := out.Rules[i].Field
		seen[f] = true
		if thr, ok := thresholds[f]; ok {
			out.Rules[i].Threshold = thr
		}
	}
	for _, f := range sortedKeys(thresholds) {
		if !seen[f] {
			out.Rules = append(out.Rules, Rule{Field: f, Mode: Absolute, Threshold: thresholds[f]})
		}
	}
	return out
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
