/*
Copyright © 2025 UnluckyForSome
*/
package completeness

import (
	"image"
	"io"
	"sort"
	"strings"

	_ "image/jpeg"
	_ "image/png"

	"github.com/UnluckyForSome/artdex/internal/inventory"
)

// DimensionReader extracts pixel dimensions from an image stream. A nil
// reader models an environment without image decoding support; analysis
// then degrades to an "unavailable" result instead of failing the run.
type DimensionReader interface {
	ReadDimensions(r io.Reader) (width, height int, err error)
}

// StdReader decodes dimensions from image headers using the standard
// decoders (PNG, JPEG).
type StdReader struct{}

// ReadDimensions implements DimensionReader.
func (StdReader) ReadDimensions(r io.Reader) (int, int, error) {
	cfg, _, err := image.DecodeConfig(r)
	if err != nil {
		return 0, 0, err
	}
	return cfg.Width, cfg.Height, nil
}

// DimensionClass buckets an image measurement for its category.
type DimensionClass string

const (
	// DimensionIdeal matches one of the category's target dimensions exactly.
	DimensionIdeal DimensionClass = "ideal"
	// DimensionSquare is square but not a target dimension.
	DimensionSquare DimensionClass = "square"
	// DimensionOther is neither ideal nor square.
	DimensionOther DimensionClass = "other"
)

// ClassifyDimension buckets one measurement against a category's targets.
func ClassifyDimension(cat inventory.CategoryLayout, width, height int) DimensionClass {
	for _, d := range cat.IdealDimensions {
		if d.Width == width && d.Height == height {
			return DimensionIdeal
		}
	}
	if width == height {
		return DimensionSquare
	}
	return DimensionOther
}

// nonLandscapeThresholdPercent is how much taller than wide an image must
// be before the landscape check flags it.
const nonLandscapeThresholdPercent = 3.0

func isNonLandscape(width, height int) bool {
	if height <= width || width == 0 {
		return false
	}
	return float64(height-width)/float64(width)*100 > nonLandscapeThresholdPercent
}

// DimensionCount aggregates how many images in a variant share one
// measurement.
type DimensionCount struct {
	Width  int            `json:"width" yaml:"width"`
	Height int            `json:"height" yaml:"height"`
	Count  int            `json:"count" yaml:"count"`
	Class  DimensionClass `json:"class" yaml:"class"`
}

// NonLandscapeImage is a front box image taller than wide beyond the
// threshold; a data-quality warning, not a failure.
type NonLandscapeImage struct {
	Name   string `json:"name" yaml:"name"`
	Width  int    `json:"width" yaml:"width"`
	Height int    `json:"height" yaml:"height"`
}

// VariantDimensions holds the measurements for one variant directory.
type VariantDimensions struct {
	Variant      inventory.Variant   `json:"variant" yaml:"variant"`
	Total        int                 `json:"total" yaml:"total"`
	Counts       []DimensionCount    `json:"counts,omitempty" yaml:"counts,omitempty"`
	NonLandscape []NonLandscapeImage `json:"non_landscape,omitempty" yaml:"non_landscape,omitempty"`
	Unreadable   []string            `json:"unreadable,omitempty" yaml:"unreadable,omitempty"`
}

// DimensionAnalysis is the dimension section of the report. Available is
// false when no reader was supplied; all other sections of the report are
// unaffected by that.
type DimensionAnalysis struct {
	Available  bool                           `json:"available" yaml:"available"`
	Categories map[string][]VariantDimensions `json:"categories,omitempty" yaml:"categories,omitempty"`
}

// Analyzer measures every asset image in the collection.
type Analyzer struct {
	inv    *inventory.Inventory
	reader DimensionReader
}

// NewAnalyzer creates an analyzer. reader may be nil when image decoding is
// unavailable in the environment.
func NewAnalyzer(inv *inventory.Inventory, reader DimensionReader) *Analyzer {
	return &Analyzer{inv: inv, reader: reader}
}

// Analyze measures every non-alternate file per category and variant.
// Files that cannot be read or decoded become per-item findings rather
// than errors.
func (a *Analyzer) Analyze() DimensionAnalysis {
	if a.reader == nil {
		return DimensionAnalysis{Available: false}
	}

	analysis := DimensionAnalysis{
		Available:  true,
		Categories: map[string][]VariantDimensions{},
	}
	layout := a.inv.Layout()
	for _, cat := range layout.Categories {
		byVariant := map[inventory.Variant][]inventory.FileRef{}
		for _, ref := range a.inv.CategoryFiles(cat.Name) {
			if strings.Contains(ref.Name, " alt") {
				continue
			}
			byVariant[ref.Variant] = append(byVariant[ref.Variant], ref)
		}

		var variants []VariantDimensions
		for _, vd := range cat.Variants {
			variants = append(variants, a.analyzeVariant(cat, vd.Kind, byVariant[vd.Kind]))
		}
		analysis.Categories[cat.Name] = variants
	}
	return analysis
}

func (a *Analyzer) analyzeVariant(cat inventory.CategoryLayout, kind inventory.Variant, refs []inventory.FileRef) VariantDimensions {
	out := VariantDimensions{Variant: kind}

	type key struct{ w, h int }
	counts := map[key]int{}
	for _, ref := range refs {
		width, height, err := a.measure(ref.Path)
		if err != nil {
			out.Unreadable = append(out.Unreadable, ref.Path)
			continue
		}
		counts[key{width, height}]++
		out.Total++

		if cat.LandscapeCheck && isNonLandscape(width, height) {
			out.NonLandscape = append(out.NonLandscape, NonLandscapeImage{
				Name:   ref.Name,
				Width:  width,
				Height: height,
			})
		}
	}

	for k, n := range counts {
		out.Counts = append(out.Counts, DimensionCount{
			Width:  k.w,
			Height: k.h,
			Count:  n,
			Class:  ClassifyDimension(cat, k.w, k.h),
		})
	}
	sort.Slice(out.Counts, func(i, j int) bool {
		if out.Counts[i].Count != out.Counts[j].Count {
			return out.Counts[i].Count > out.Counts[j].Count
		}
		if out.Counts[i].Width != out.Counts[j].Width {
			return out.Counts[i].Width < out.Counts[j].Width
		}
		return out.Counts[i].Height < out.Counts[j].Height
	})
	sort.Slice(out.NonLandscape, func(i, j int) bool {
		return out.NonLandscape[i].Name < out.NonLandscape[j].Name
	})
	sort.Strings(out.Unreadable)
	return out
}

func (a *Analyzer) measure(path string) (int, int, error) {
	f, err := a.inv.Filesystem().Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer func() {
		_ = f.Close()
	}()
	return a.reader.ReadDimensions(f)
}
