/*
Copyright © 2025 UnluckyForSome
*/
package catalog

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/UnluckyForSome/artdex/internal/nameset"
)

// revMarker matches the trailing "(Rev N)" revision marker. The leading
// whitespace is stripped along with the marker when deriving the base title.
var revMarker = regexp.MustCompile(`(?i)\s*\(Rev (\d+)\)`)

// ExtractRevision decomposes a name into its base title and revision number.
// A name without a revision marker is the original release, revision 0.
func ExtractRevision(name string) (string, int) {
	m := revMarker.FindStringSubmatch(name)
	if m == nil {
		return strings.TrimSpace(name), 0
	}
	rev, err := strconv.Atoi(m[1])
	if err != nil {
		// Digits too large for int; treat the marker as opaque text.
		return strings.TrimSpace(name), 0
	}
	base := strings.TrimSpace(revMarker.ReplaceAllString(name, ""))
	return base, rev
}

// Index maps each base title to the highest revision the catalog publishes
// for it. Titles that only ever appear unrevised map to 0.
type Index map[string]int

// BuildIndex derives the revision index from a set of catalog names.
func BuildIndex(names nameset.Set) Index {
	idx := Index{}
	for name := range names {
		base, rev := ExtractRevision(name)
		if current, ok := idx[base]; !ok || rev > current {
			idx[base] = rev
		}
	}
	return idx
}

// LatestName returns the catalog's exact published name for the newest
// revision of base. The constructed name is verified against the catalog set:
// an inferred base/revision combination that was never actually published
// (e.g. only "Base (Rev 5) (Alt)" exists) reports ok=false, meaning no
// upgrade can safely be suggested.
func LatestName(base string, maxRev int, names nameset.Set) (string, bool) {
	if maxRev == 0 {
		if names.Has(base) {
			return base, true
		}
		return "", false
	}
	candidate := fmt.Sprintf("%s (Rev %d)", base, maxRev)
	if names.Has(candidate) {
		return candidate, true
	}
	return "", false
}
