package schema

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ============================================================================
// OVERLAY — per-deployment alias extensions
// ============================================================================
// Hosts meet exports with spellings the defaults never saw. An overlay
// file adjusts the alias table without recompiling:
//
//	groups:
//	  price: [price, Price, prezzo, precio]
//	  cabins: [cabins, cabine]
//
// A listed role replaces that role's spellings wholesale; unknown roles
// append as new groups in file order. The merged table is validated
// before use.
// ============================================================================

type overlayDoc struct {
	Groups yaml.Node `yaml:"groups"`
}

// LoadOverlay reads an overlay file and merges it over base.
func LoadOverlay(path string, base Config) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read alias overlay: %w", err)
	}
	return MergeOverlay(data, base)
}

// MergeOverlay applies overlay YAML bytes over base.
func MergeOverlay(data []byte, base Config) (Config, error) {
	var doc overlayDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Config{}, fmt.Errorf("failed to parse alias overlay: %w", err)
	}
	if doc.Groups.Kind == 0 {
		return base, nil // no groups key — nothing to merge
	}
	if doc.Groups.Kind != yaml.MappingNode {
		return Config{}, fmt.Errorf("alias overlay: groups must be a mapping of role → spellings")
	}

	merged := Config{Groups: append([]AliasGroup(nil), base.Groups...)}

	// yaml.Node keeps mapping order — new roles append deterministically
	for i := 0; i+1 < len(doc.Groups.Content); i += 2 {
		role := Role(doc.Groups.Content[i].Value)
		var spellings []string
		if err := doc.Groups.Content[i+1].Decode(&spellings); err != nil {
			return Config{}, fmt.Errorf("alias overlay: role %q: %w", role, err)
		}

		replaced := false
		for j := range merged.Groups {
			if merged.Groups[j].Role == role {
				merged.Groups[j].Spellings = spellings
				replaced = true
				break
			}
		}
		if !replaced {
			merged.Groups = append(merged.Groups, AliasGroup{Role: role, Spellings: spellings})
		}
	}

	if err := merged.Validate(); err != nil {
		return Config{}, fmt.Errorf("alias overlay produced an invalid table: %w", err)
	}
	return merged, nil
}
