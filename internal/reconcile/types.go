/*
Copyright © 2025 UnluckyForSome
*/

// Package reconcile composes the catalog, inventory, completeness, and
// removal components into a single reconciliation report, and plans the
// follow-up filesystem actions the findings call for.
package reconcile

import (
	"time"

	"github.com/UnluckyForSome/artdex/internal/completeness"
	"github.com/UnluckyForSome/artdex/internal/removal"
)

// Metadata identifies one reconciliation run.
type Metadata struct {
	RunID       string    `json:"run_id" yaml:"run_id"`
	GeneratedAt time.Time `json:"generated_at" yaml:"generated_at"`
	Target      string    `json:"target" yaml:"target"`
	CatalogPath string    `json:"catalog_path,omitempty" yaml:"catalog_path,omitempty"`
	ReportPath  string    `json:"report_path,omitempty" yaml:"report_path,omitempty"`
	Version     string    `json:"version" yaml:"version"`
}

// CategoryProgress is the high-quality completion figure for one category:
// full-quality files held versus catalog size.
type CategoryProgress struct {
	Category    string  `json:"category" yaml:"category"`
	FullQuality int     `json:"full_quality" yaml:"full_quality"`
	CatalogSize int     `json:"catalog_size" yaml:"catalog_size"`
	Percent     float64 `json:"percent" yaml:"percent"`
}

// Summary carries the headline set counts and per-category progress.
type Summary struct {
	CatalogTotal   int                `json:"catalog_total" yaml:"catalog_total"`
	InventoryTotal int                `json:"inventory_total" yaml:"inventory_total"`
	InBoth         int                `json:"in_both" yaml:"in_both"`
	CatalogOnly    int                `json:"catalog_only" yaml:"catalog_only"`
	InventoryOnly  int                `json:"inventory_only" yaml:"inventory_only"`
	Progress       []CategoryProgress `json:"progress,omitempty" yaml:"progress,omitempty"`
}

// AnnotatedName is an inventory-only name, annotated with its removal
// record when the filter report explains it. Removal is nil when no known
// reason exists.
type AnnotatedName struct {
	Name    string          `json:"name" yaml:"name"`
	Removal *removal.Record `json:"removal,omitempty" yaml:"removal,omitempty"`
}

// StaleRevision flags an inventory name whose encoded revision trails the
// catalog's latest for the same base title. LatestName is always a
// published catalog entry.
type StaleRevision struct {
	InventoryName string `json:"inventory_name" yaml:"inventory_name"`
	LatestName    string `json:"latest_name" yaml:"latest_name"`
	InventoryRev  int    `json:"inventory_rev" yaml:"inventory_rev"`
	CatalogRev    int    `json:"catalog_rev" yaml:"catalog_rev"`
}

// Report is the full reconciliation aggregate, produced once per run and
// handed to a formatter.
type Report struct {
	Metadata        Metadata                            `json:"metadata" yaml:"metadata"`
	Summary         Summary                             `json:"summary" yaml:"summary"`
	CatalogOnly     []string                            `json:"catalog_only,omitempty" yaml:"catalog_only,omitempty"`
	InventoryOnly   []AnnotatedName                     `json:"inventory_only,omitempty" yaml:"inventory_only,omitempty"`
	StaleRevisions  []StaleRevision                     `json:"stale_revisions,omitempty" yaml:"stale_revisions,omitempty"`
	Missing         map[string][]string                 `json:"missing,omitempty" yaml:"missing,omitempty"`
	PlaceholderOnly map[string][]string                 `json:"placeholder_only,omitempty" yaml:"placeholder_only,omitempty"`
	Duplicates      map[string][]completeness.Duplicate `json:"duplicates,omitempty" yaml:"duplicates,omitempty"`
	Orphans         []string                            `json:"orphans,omitempty" yaml:"orphans,omitempty"`
	Dimensions      completeness.DimensionAnalysis      `json:"dimensions" yaml:"dimensions"`
}

// HasFindings reports whether anything in the report needs attention.
func (r *Report) HasFindings() bool {
	return len(r.CatalogOnly) > 0 ||
		len(r.InventoryOnly) > 0 ||
		len(r.StaleRevisions) > 0 ||
		len(r.Missing) > 0 ||
		len(r.PlaceholderOnly) > 0 ||
		len(r.Duplicates) > 0 ||
		len(r.Orphans) > 0
}

// Unexplained returns the inventory-only names with no removal record.
func (r *Report) Unexplained() []AnnotatedName {
	var out []AnnotatedName
	for _, n := range r.InventoryOnly {
		if n.Removal == nil {
			out = append(out, n)
		}
	}
	return out
}
