/*
Copyright © 2025 UnluckyForSome
*/

// Package completeness classifies every inventory name against the required
// art categories and surfaces data-hygiene findings: placeholder-only
// entries, duplicates across variant directories, orphaned icon files, and
// non-ideal image dimensions.
package completeness

import (
	"sort"

	"github.com/UnluckyForSome/artdex/internal/inventory"
	"github.com/UnluckyForSome/artdex/internal/nameset"
)

// Duplicate records a name present in more than one variant directory of
// the same category.
type Duplicate struct {
	Name     string              `json:"name" yaml:"name"`
	Variants []inventory.Variant `json:"variants" yaml:"variants"`
}

// Checker runs the per-name completeness and hygiene checks.
type Checker struct {
	inv *inventory.Inventory
}

// NewChecker creates a checker over the given inventory.
func NewChecker(inv *inventory.Inventory) *Checker {
	return &Checker{inv: inv}
}

// Check classifies every name against every required category. A name
// missing a category entirely lands in missing; a name whose only file for
// a category is the blank placeholder lands in placeholderOnly. A name can
// appear in both maps for different categories.
func (c *Checker) Check(names nameset.Set) (missing, placeholderOnly map[string][]string) {
	missing = map[string][]string{}
	placeholderOnly = map[string][]string{}

	layout := c.inv.Layout()
	for name := range names {
		for _, cat := range layout.Categories {
			if !cat.Required {
				continue
			}
			found, variant := c.inv.Locate(name, cat.Name)
			switch {
			case !found:
				missing[name] = append(missing[name], cat.Name)
			case variant == inventory.VariantPlaceholder:
				placeholderOnly[name] = append(placeholderOnly[name], cat.Name)
			}
		}
	}
	return missing, placeholderOnly
}

// FindDuplicates flags every (name, category) pair with files in more than
// one variant directory simultaneously. The finding is surfaced, never
// auto-corrected.
func (c *Checker) FindDuplicates(names nameset.Set) map[string][]Duplicate {
	duplicates := map[string][]Duplicate{}

	layout := c.inv.Layout()
	for _, cat := range layout.Categories {
		for name := range names {
			variants := c.inv.VariantsFor(name, cat.Name)
			if len(variants) > 1 {
				duplicates[cat.Name] = append(duplicates[cat.Name], Duplicate{
					Name:     name,
					Variants: variants,
				})
			}
		}
		sort.Slice(duplicates[cat.Name], func(i, j int) bool {
			return duplicates[cat.Name][i].Name < duplicates[cat.Name][j].Name
		})
	}
	return duplicates
}

// FindOrphans returns the paths of files in orphan-checked categories whose
// stem matches no inventory name. Inventory membership is defined by the
// other categories, so a stem that exists only as an icon is an orphan.
// Alternate renditions carry their " alt" suffix into the comparison, so
// every alt icon is flagged alongside its primary.
func (c *Checker) FindOrphans(names nameset.Set) []string {
	var orphans []string
	for _, cat := range c.inv.Layout().Categories {
		if !cat.OrphanCheck {
			continue
		}
		for _, ref := range c.inv.CategoryFiles(cat.Name) {
			if !names.Has(ref.Name) {
				orphans = append(orphans, ref.Path)
			}
		}
	}
	sort.Strings(orphans)
	return orphans
}
