package tolerance

import (
	"os"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// builtins are the vendor presets shipped with the tool. Thickness is an
// absolute bound in inches; Quantity is a percentage.
var builtins = map[string]Profile{
	"yuengchang": {
		Vendor: "Yuengchang",
		Rules: []Rule{
			{Field: "Thickness", Mode: Absolute, Threshold: 0.001},
			{Field: "Quantity", Mode: RelativePercent, Threshold: 2.0},
		},
	},
	"posco": {
		Vendor: "Posco",
		Rules: []Rule{
			{Field: "Thickness", Mode: Absolute, Threshold: 0.0008},
			{Field: "Quantity", Mode: RelativePercent, Threshold: 1.5},
		},
	},
	"custom": {
		Vendor: "Custom",
		Rules: []Rule{
			{Field: "Thickness", Mode: Absolute, Threshold: 0.001},
			{Field: "Quantity", Mode: RelativePercent, Threshold: 2.0},
		},
	},
}

// Builtin returns a shipped vendor preset by case-insensitive name.
func Builtin(vendor string) (Profile, bool) {
	p, ok := builtins[strings.ToLower(vendor)]
	if !ok {
		return Profile{}, false
	}
	// Hand out a copy so callers cannot reach the shared preset slice.
	cp := Profile{Vendor: p.Vendor, Rules: make([]Rule, len(p.Rules))}
	copy(cp.Rules, p.Rules)
	return cp, true
}

// BuiltinVendors lists the shipped preset display names, sorted.
func BuiltinVendors() []string {
	names := make([]string, 0, len(builtins))
	for _, p := range builtins {
		names = append(names, p.Vendor)
	}
	sort.Strings(names)
	return names
}

// profilesFile is the on-disk YAML layout:
//
//	vendors:
//	  posco:
//	    rules:
//	      - field: Thickness
//	        mode: absolute
//	        threshold: 0.0008
type profilesFile struct {
	Vendors map[string]Profile `yaml:"vendors"`
}

// LoadProfiles reads vendor profiles from a YAML file and validates every
// rule. Vendor keys are lower-cased for lookup; the display name defaults
// to the key when the file does not set one.
func LoadProfiles(path string) (map[string]Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "tolerance: read profiles %s", path)
	}

	var f profilesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, eris.Wrap(err, "tolerance: parse profiles")
	}

	out := make(map[string]Profile, len(f.Vendors))
	for key, p := range f.Vendors {
		if p.Vendor == "" {
			p.Vendor = key
		}
		for _, r := range p.Rules {
			if err := r.Validate(); err != nil {
				return nil, eris.Wrapf(err, "tolerance: profile %q", key)
			}
		}
		out[strings.ToLower(key)] = p
	}
	return out, nil
}

// Resolve picks a profile for the given vendor: profiles from path (when
// set) take precedence over shipped presets. An empty vendor resolves to
// the Custom preset.
func Resolve(vendor, path string) (Profile, error) {
	if vendor == "" {
		vendor = "custom"
	}
	if path != "" {
		profiles, err := LoadProfiles(path)
		if err != nil {
			return Profile{}, err
		}
		if p, ok := profiles[strings.ToLower(vendor)]; ok {
			return p, nil
		}
	}
	if p, ok := Builtin(vendor); ok {
		return p, nil
	}
	return Profile{}, eris.Errorf("tolerance: unknown vendor %q", vendor)
}
