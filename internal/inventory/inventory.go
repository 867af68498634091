/*
Copyright © 2025 UnluckyForSome
*/
package inventory

import (
	"errors"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-git/go-billy/v5"

	"github.com/UnluckyForSome/artdex/internal/nameset"
	"github.com/UnluckyForSome/artdex/pkg/logger"
)

// altMarker tags a file as an alternate rendition of an existing asset
// rather than a distinct entity; such stems never join the inventory.
const altMarker = " alt"

// ErrEmptyInventory indicates the scan found no asset names at all. No
// meaningful comparison is possible against an empty inventory, so callers
// treat this as fatal.
var ErrEmptyInventory = errors.New("inventory contains no asset names")

// FileRef locates one asset file inside the collection tree.
type FileRef struct {
	Name     string  `json:"name" yaml:"name"`
	Category string  `json:"category" yaml:"category"`
	Variant  Variant `json:"variant" yaml:"variant"`
	Path     string  `json:"path" yaml:"path"`
}

// Inventory provides read-only views over the collection tree described by
// a Layout. All traversal happens through the supplied filesystem, so tests
// run against an in-memory tree.
type Inventory struct {
	fs     billy.Filesystem
	layout Layout
}

// New creates an inventory over fsys rooted at the collection tree.
func New(fsys billy.Filesystem, layout Layout) *Inventory {
	return &Inventory{fs: fsys, layout: layout}
}

// Layout returns the layout the inventory was built with.
func (inv *Inventory) Layout() Layout {
	return inv.layout
}

// Filesystem returns the underlying filesystem.
func (inv *Inventory) Filesystem() billy.Filesystem {
	return inv.fs
}

// Scan returns the canonical set of asset names present in the collection.
// Stems carrying the alternate marker are excluded, as are orphan-checked
// categories: those are derived from the rest of the collection and do not
// define membership themselves. Category roots that do not exist contribute
// nothing; they are not an error.
func (inv *Inventory) Scan() nameset.Set {
	names := nameset.Set{}
	for _, cat := range inv.layout.Categories {
		if cat.OrphanCheck {
			continue
		}
		for _, v := range cat.Variants {
			for _, file := range inv.listMatches(v.Dir) {
				stem := inv.stem(file)
				if strings.Contains(stem, altMarker) {
					continue
				}
				names.Add(stem)
			}
		}
	}
	logger.Debug("inventory scan complete", logger.Int("names", names.Len()))
	return names
}

// Locate reports whether name has a file in the given category, and in
// which variant. Variants are checked in the layout's priority order and
// the first hit wins.
func (inv *Inventory) Locate(name, category string) (bool, Variant) {
	cat, ok := inv.layout.Category(category)
	if !ok {
		return false, ""
	}
	for _, v := range cat.Variants {
		if inv.exists(v.Dir, name) {
			return true, v.Kind
		}
	}
	return false, ""
}

// VariantsFor returns every variant of the category that holds a file for
// name, in layout order. More than one entry is a data-hygiene violation
// surfaced by the duplicate check.
func (inv *Inventory) VariantsFor(name, category string) []Variant {
	cat, ok := inv.layout.Category(category)
	if !ok {
		return nil
	}
	var found []Variant
	for _, v := range cat.Variants {
		if inv.exists(v.Dir, name) {
			found = append(found, v.Kind)
		}
	}
	return found
}

// CategoryFiles returns every pattern-matching file under every variant of
// the category, including alternate renditions. Callers that care about
// inventory membership filter the stems themselves.
func (inv *Inventory) CategoryFiles(category string) []FileRef {
	cat, ok := inv.layout.Category(category)
	if !ok {
		return nil
	}
	var refs []FileRef
	for _, v := range cat.Variants {
		for _, file := range inv.listMatches(v.Dir) {
			refs = append(refs, FileRef{
				Name:     inv.stem(file),
				Category: cat.Name,
				Variant:  v.Kind,
				Path:     inv.fs.Join(v.Dir, file),
			})
		}
	}
	return refs
}

// FilesFor returns every file across all categories and variants whose stem
// is exactly name. Used when planning renames that must touch every copy.
func (inv *Inventory) FilesFor(name string) []FileRef {
	var refs []FileRef
	for _, cat := range inv.layout.Categories {
		for _, v := range cat.Variants {
			if inv.exists(v.Dir, name) {
				refs = append(refs, FileRef{
					Name:     name,
					Category: cat.Name,
					Variant:  v.Kind,
					Path:     inv.fs.Join(v.Dir, name+inv.layout.Extension()),
				})
			}
		}
	}
	return refs
}

// CountFullQuality returns, per category, how many of the given names have
// a file in that category's full-quality directory.
func (inv *Inventory) CountFullQuality(names nameset.Set) map[string]int {
	counts := map[string]int{}
	for _, cat := range inv.layout.Categories {
		var fullDir string
		for _, v := range cat.Variants {
			if v.Kind == VariantFull {
				fullDir = v.Dir
				break
			}
		}
		if fullDir == "" {
			continue
		}
		n := 0
		for name := range names {
			if inv.exists(fullDir, name) {
				n++
			}
		}
		counts[cat.Name] = n
	}
	return counts
}

func (inv *Inventory) listMatches(dir string) []string {
	entries, err := inv.fs.ReadDir(dir)
	if err != nil {
		// A configured directory that is absent contributes zero entries.
		logger.Debug("skipping unreadable directory", logger.String("dir", dir), logger.Err(err))
		return nil
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if ok, err := doublestar.Match(inv.layout.Pattern, entry.Name()); err != nil || !ok {
			continue
		}
		files = append(files, entry.Name())
	}
	return files
}

func (inv *Inventory) exists(dir, name string) bool {
	_, err := inv.fs.Stat(inv.fs.Join(dir, name+inv.layout.Extension()))
	return err == nil
}

func (inv *Inventory) stem(file string) string {
	return strings.TrimSuffix(file, inv.layout.Extension())
}
