package capabilities

import (
	_ "embed"
	"fmt"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

// DefaultProfileKey is the profile used when a printer does not name one.
// It carries the common codepages and assumes full feature support, the
// right behaviour for unidentified hardware.
const DefaultProfileKey = "default"

// Feature names used by profile feature maps.
const (
	FeatureQRCode   = "qrCode"
	FeatureBarcodeB = "barcodeB"
	FeaturePartCut  = "paperPartCut"
	FeatureFullCut  = "paperFullCut"
	FeatureGraphics = "graphics"
	FeatureBuzzer   = "buzzer"
)

// Profile describes one printer model's capabilities.
type Profile struct {
	Key        string          `yaml:"-"`
	Vendor     string          `yaml:"vendor"`
	Name       string          `yaml:"name"`
	CodePages  map[string]byte `yaml:"code_pages"`
	LineWidths []int           `yaml:"line_widths"`
	Features   map[string]bool `yaml:"features"`
}

//go:embed profiles.yaml
var profilesYAML []byte

var (
	loadOnce sync.Once
	registry map[string]*Profile
	loadErr  error
)

func load() {
	loadOnce.Do(func() {
		parsed := make(map[string]*Profile)
		if err := yaml.Unmarshal(profilesYAML, &parsed); err != nil {
			loadErr = fmt.Errorf("parsing embedded profiles: %w", err)
			return
		}
		for key, p := range parsed {
			p.Key = key
			sort.Ints(p.LineWidths)
		}
		if _, ok := parsed[DefaultProfileKey]; !ok {
			loadErr = fmt.Errorf("embedded profiles missing %q entry", DefaultProfileKey)
			return
		}
		registry = parsed
	})
}

// Lookup returns the profile for key, or false if no such profile exists.
func Lookup(key string) (*Profile, bool) {
	load()
	if loadErr != nil {
		return nil, false
	}
	p, ok := registry[key]
	return p, ok
}

// Get returns the profile for key, falling back to the default profile
// for an empty or unknown key. Unknown hardware gets permissive
// capability answers rather than an error.
func Get(key string) *Profile {
	if p, ok := Lookup(key); ok {
		return p
	}
	return Default()
}

// Default returns the generic fallback profile.
func Default() *Profile {
	load()
	if loadErr != nil {
		// Embedded data is part of the build; a parse failure is a
		// programming error surfaced on first use.
		panic(loadErr)
	}
	return registry[DefaultProfileKey]
}

// Keys returns all profile keys, sorted, with the default first.
func Keys() []string {
	load()
	if loadErr != nil {
		return []string{DefaultProfileKey}
	}
	var rest []string
	for key := range registry {
		if key != DefaultProfileKey {
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)
	return append([]string{DefaultProfileKey}, rest...)
}

// DisplayName returns "Vendor Name" for the profile, omitting a Generic vendor.
func (p *Profile) DisplayName() string {
	if p.Vendor != "" && p.Vendor != "Generic" {
		return p.Vendor + " " + p.Name
	}
	return p.Name
}

// CharcodeTable returns the ESC t table number for a codepage name.
func (p *Profile) CharcodeTable(codepage string) (byte, bool) {
	n, ok := p.CodePages[codepage]
	return n, ok
}

// SupportsCodepage reports whether the profile lists the codepage.
func (p *Profile) SupportsCodepage(codepage string) bool {
	_, ok := p.CodePages[codepage]
	return ok
}

// Codepages returns the profile's codepage names, sorted.
func (p *Profile) Codepages() []string {
	names := make([]string, 0, len(p.CodePages))
	for name := range p.CodePages {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SupportsFeature reports whether the profile supports a feature.
// The default profile answers true for any feature name.
func (p *Profile) SupportsFeature(feature string) bool {
	if p.Key == DefaultProfileKey {
		return true
	}
	return p.Features[feature]
}

// CutModes returns the cut mode names the profile supports.
// "none" is always available.
func (p *Profile) CutModes() []string {
	modes := []string{"none"}
	if p.SupportsFeature(FeaturePartCut) {
		modes = append(modes, "partial")
	}
	if p.SupportsFeature(FeatureFullCut) {
		modes = append(modes, "full")
	}
	return modes
}

// SupportsLineWidth reports whether the profile's fonts provide the
// given column count.
func (p *Profile) SupportsLineWidth(width int) bool {
	for _, w := range p.LineWidths {
		if w == width {
			return true
		}
	}
	return false
}
