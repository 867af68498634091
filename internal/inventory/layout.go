/*
Copyright © 2025 UnluckyForSome
*/

// Package inventory scans the collection's category directories and derives
// the set of asset names present on disk.
package inventory

import (
	"fmt"
	"strings"
)

// Variant identifies one sibling directory of a category.
type Variant string

const (
	// VariantFull is the primary directory holding full-quality art.
	VariantFull Variant = "full"
	// VariantLow is the "-lq" sibling holding low-quality stand-ins.
	VariantLow Variant = "lq"
	// VariantPlaceholder is the "-missing" sibling holding blank
	// acknowledgement files for art known to be unavailable.
	VariantPlaceholder Variant = "missing"
	// VariantGenerated and VariantBespoke are the icon category's pair of
	// machine-generated and hand-authored directories.
	VariantGenerated Variant = "generated"
	VariantBespoke   Variant = "bespoke"
)

// Dimension is a target width and height for one art category.
type Dimension struct {
	Width  int `json:"width" yaml:"width" mapstructure:"width"`
	Height int `json:"height" yaml:"height" mapstructure:"height"`
}

// VariantDir binds a variant kind to its directory, relative to the
// collection root. Listing order is lookup priority order.
type VariantDir struct {
	Kind Variant `json:"kind" yaml:"kind" mapstructure:"kind"`
	Dir  string  `json:"dir" yaml:"dir" mapstructure:"dir"`
}

// CategoryLayout describes where one art category lives on disk and which
// quality checks apply to it.
type CategoryLayout struct {
	Name            string       `json:"name" yaml:"name" mapstructure:"name"`
	Required        bool         `json:"required" yaml:"required" mapstructure:"required"`
	Variants        []VariantDir `json:"variants" yaml:"variants" mapstructure:"variants"`
	IdealDimensions []Dimension  `json:"ideal_dimensions,omitempty" yaml:"ideal_dimensions,omitempty" mapstructure:"ideal_dimensions"`
	// LandscapeCheck flags images noticeably taller than wide; it applies to
	// the front box art only.
	LandscapeCheck bool `json:"landscape_check,omitempty" yaml:"landscape_check,omitempty" mapstructure:"landscape_check"`
	// OrphanCheck reports files in this category whose stem matches no
	// inventory name at all.
	OrphanCheck bool `json:"orphan_check,omitempty" yaml:"orphan_check,omitempty" mapstructure:"orphan_check"`
}

// Layout is the immutable description of the whole collection tree. It is
// constructed once and passed into the inventory and completeness
// components, never mutated.
type Layout struct {
	Pattern    string           `json:"pattern" yaml:"pattern" mapstructure:"pattern"`
	Categories []CategoryLayout `json:"categories" yaml:"categories" mapstructure:"categories"`
}

// DefaultLayout returns the built-in collection layout.
func DefaultLayout() Layout {
	return Layout{
		Pattern: "*.png",
		Categories: []CategoryLayout{
			{
				Name:     "2dbox",
				Required: true,
				Variants: []VariantDir{
					{Kind: VariantFull, Dir: "library/2dbox"},
					{Kind: VariantLow, Dir: "library/2dbox-lq"},
					{Kind: VariantPlaceholder, Dir: "library/2dbox-missing"},
				},
				IdealDimensions: []Dimension{{Width: 1200, Height: 1200}},
				LandscapeCheck:  true,
			},
			{
				Name:     "3dbox",
				Required: true,
				Variants: []VariantDir{
					{Kind: VariantFull, Dir: "library/3dbox"},
					{Kind: VariantLow, Dir: "library/3dbox-lq"},
					{Kind: VariantPlaceholder, Dir: "library/3dbox-missing"},
				},
				IdealDimensions: []Dimension{
					{Width: 1325, Height: 1200},
					{Width: 1227, Height: 1200},
					{Width: 1273, Height: 1200},
				},
			},
			{
				Name:     "disc",
				Required: true,
				Variants: []VariantDir{
					{Kind: VariantFull, Dir: "library/disc"},
					{Kind: VariantLow, Dir: "library/disc-lq"},
					{Kind: VariantPlaceholder, Dir: "library/disc-missing"},
				},
				IdealDimensions: []Dimension{{Width: 696, Height: 694}},
			},
			{
				Name:     "psp-icon0",
				Required: true,
				Variants: []VariantDir{
					{Kind: VariantGenerated, Dir: "composites/psp-icon0/psp-icon0-generated"},
					{Kind: VariantBespoke, Dir: "composites/psp-icon0/psp-icon0-bespoke"},
				},
				OrphanCheck: true,
			},
		},
	}
}

// Category returns the layout entry with the given name.
func (l Layout) Category(name string) (CategoryLayout, bool) {
	for _, cat := range l.Categories {
		if cat.Name == name {
			return cat, true
		}
	}
	return CategoryLayout{}, false
}

// CategoryNames returns the category names in layout order.
func (l Layout) CategoryNames() []string {
	names := make([]string, 0, len(l.Categories))
	for _, cat := range l.Categories {
		names = append(names, cat.Name)
	}
	return names
}

// Extension derives the asset file extension from the layout pattern.
func (l Layout) Extension() string {
	if strings.HasPrefix(l.Pattern, "*.") {
		return l.Pattern[1:]
	}
	return ".png"
}

// Validate performs structural checks beyond what the config schema covers.
func (l Layout) Validate() error {
	if len(l.Categories) == 0 {
		return fmt.Errorf("layout has no categories")
	}
	seen := map[string]bool{}
	for _, cat := range l.Categories {
		if cat.Name == "" {
			return fmt.Errorf("layout category with empty name")
		}
		if seen[cat.Name] {
			return fmt.Errorf("duplicate layout category %q", cat.Name)
		}
		seen[cat.Name] = true
		if len(cat.Variants) == 0 {
			return fmt.Errorf("category %q has no variant directories", cat.Name)
		}
		dirs := map[string]bool{}
		for _, v := range cat.Variants {
			if v.Dir == "" {
				return fmt.Errorf("category %q has a variant with an empty directory", cat.Name)
			}
			if dirs[v.Dir] {
				return fmt.Errorf("category %q lists directory %q twice", cat.Name, v.Dir)
			}
			dirs[v.Dir] = true
		}
	}
	return nil
}
