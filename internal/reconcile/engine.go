/*
Copyright © 2025 UnluckyForSome
*/
package reconcile

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/UnluckyForSome/artdex/internal/catalog"
	"github.com/UnluckyForSome/artdex/internal/completeness"
	"github.com/UnluckyForSome/artdex/internal/inventory"
	"github.com/UnluckyForSome/artdex/internal/nameset"
	"github.com/UnluckyForSome/artdex/internal/removal"
	"github.com/UnluckyForSome/artdex/pkg/logger"
)

// Options configures one reconciliation run.
type Options struct {
	Target      string
	CatalogPath string
	ReportPath  string
	Version     string

	// DimensionReader measures image files. nil disables dimension
	// analysis; the report's dimension section then reads "unavailable".
	DimensionReader completeness.DimensionReader
}

// Engine drives a reconciliation run. It owns no state beyond its options;
// every run is a fresh pass over the inputs.
type Engine struct {
	opts Options
}

// NewEngine creates an engine with the given options.
func NewEngine(opts Options) *Engine {
	return &Engine{opts: opts}
}

// Reconcile compares the catalog against the collection and assembles the
// full report. An empty catalog or empty inventory is fatal; every
// per-item issue becomes a report entry instead of an error.
func (e *Engine) Reconcile(catalogNames nameset.Set, inv *inventory.Inventory, removals map[string]removal.Record) (*Report, error) {
	if catalogNames.Len() == 0 {
		return nil, catalog.ErrEmptyCatalog
	}
	inventoryNames := inv.Scan()
	if inventoryNames.Len() == 0 {
		return nil, inventory.ErrEmptyInventory
	}

	logger.Info("reconciling collection against catalog",
		logger.Int("catalog", catalogNames.Len()),
		logger.Int("inventory", inventoryNames.Len()))

	catalogOnly := catalogNames.Diff(inventoryNames)
	inventoryOnly := inventoryNames.Diff(catalogNames)
	both := catalogNames.Intersect(inventoryNames)

	checker := completeness.NewChecker(inv)
	missing, placeholderOnly := checker.Check(inventoryNames)

	report := &Report{
		Metadata: Metadata{
			RunID:       uuid.NewString(),
			GeneratedAt: time.Now().UTC(),
			Target:      e.opts.Target,
			CatalogPath: e.opts.CatalogPath,
			ReportPath:  e.opts.ReportPath,
			Version:     e.opts.Version,
		},
		Summary: Summary{
			CatalogTotal:   catalogNames.Len(),
			InventoryTotal: inventoryNames.Len(),
			InBoth:         both.Len(),
			CatalogOnly:    catalogOnly.Len(),
			InventoryOnly:  inventoryOnly.Len(),
			Progress:       e.progress(catalogNames, inventoryNames, inv),
		},
		CatalogOnly:     catalogOnly.Sorted(),
		InventoryOnly:   annotate(inventoryOnly, removals),
		StaleRevisions:  staleRevisions(catalogNames, inventoryNames),
		Missing:         missing,
		PlaceholderOnly: placeholderOnly,
		Duplicates:      pruneEmpty(checker.FindDuplicates(inventoryNames)),
		Orphans:         checker.FindOrphans(inventoryNames),
		Dimensions:      completeness.NewAnalyzer(inv, e.opts.DimensionReader).Analyze(),
	}

	logger.Info("reconciliation complete",
		logger.Int("catalog_only", len(report.CatalogOnly)),
		logger.Int("inventory_only", len(report.InventoryOnly)),
		logger.Int("stale", len(report.StaleRevisions)))
	return report, nil
}

// staleRevisions flags inventory names whose revision trails the catalog's
// maximum for the same base title. Bases the catalog cannot name an exact
// latest entry for are skipped; an upgrade cannot safely be suggested.
func staleRevisions(catalogNames, inventoryNames nameset.Set) []StaleRevision {
	idx := catalog.BuildIndex(catalogNames)

	var stale []StaleRevision
	for name := range inventoryNames {
		base, rev := catalog.ExtractRevision(name)
		maxRev, known := idx[base]
		if !known || rev >= maxRev {
			continue
		}
		latest, published := catalog.LatestName(base, maxRev, catalogNames)
		if !published {
			continue
		}
		stale = append(stale, StaleRevision{
			InventoryName: name,
			LatestName:    latest,
			InventoryRev:  rev,
			CatalogRev:    maxRev,
		})
	}
	sort.Slice(stale, func(i, j int) bool {
		return stale[i].InventoryName < stale[j].InventoryName
	})
	return stale
}

func annotate(inventoryOnly nameset.Set, removals map[string]removal.Record) []AnnotatedName {
	var out []AnnotatedName
	for _, name := range inventoryOnly.Sorted() {
		entry := AnnotatedName{Name: name}
		if rec, ok := removals[name]; ok {
			r := rec
			entry.Removal = &r
		}
		out = append(out, entry)
	}
	return out
}

func (e *Engine) progress(catalogNames, inventoryNames nameset.Set, inv *inventory.Inventory) []CategoryProgress {
	counts := inv.CountFullQuality(inventoryNames)

	var progress []CategoryProgress
	for _, cat := range inv.Layout().Categories {
		n, ok := counts[cat.Name]
		if !ok {
			continue
		}
		progress = append(progress, CategoryProgress{
			Category:    cat.Name,
			FullQuality: n,
			CatalogSize: catalogNames.Len(),
			Percent:     float64(n) / float64(catalogNames.Len()) * 100,
		})
	}
	return progress
}

func pruneEmpty(duplicates map[string][]completeness.Duplicate) map[string][]completeness.Duplicate {
	for cat, list := range duplicates {
		if len(list) == 0 {
			delete(duplicates, cat)
		}
	}
	if len(duplicates) == 0 {
		return nil
	}
	return duplicates
}
