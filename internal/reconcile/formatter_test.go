package reconcile

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/UnluckyForSome/artdex/internal/completeness"
	"github.com/UnluckyForSome/artdex/internal/inventory"
	"github.com/UnluckyForSome/artdex/internal/removal"
)

func sampleReport() *Report {
	return &Report{
		Metadata: Metadata{
			RunID:       "run-1",
			GeneratedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
			Target:      "collection",
			Version:     "test",
		},
		Summary: Summary{
			CatalogTotal:   3,
			InventoryTotal: 3,
			InBoth:         2,
			CatalogOnly:    1,
			InventoryOnly:  1,
			Progress: []CategoryProgress{
				{Category: "2dbox", FullQuality: 2, CatalogSize: 3, Percent: 66.66666},
			},
		},
		CatalogOnly: []string{"Catalog Only Game"},
		InventoryOnly: []AnnotatedName{
			{Name: "Removed Game", Removal: &removal.Record{
				Reason: removal.ReasonSuperseded, SupersededBy: "Parent Game",
			}},
		},
		StaleRevisions: []StaleRevision{
			{InventoryName: "Game (Rev 1)", LatestName: "Game (Rev 2)", InventoryRev: 1, CatalogRev: 2},
		},
		Missing:         map[string][]string{"Game (Rev 1)": {"disc"}},
		PlaceholderOnly: map[string][]string{"Other Game": {"2dbox"}},
		Duplicates: map[string][]completeness.Duplicate{
			"2dbox": {{Name: "Twice Game", Variants: []inventory.Variant{
				inventory.VariantFull, inventory.VariantLow,
			}}},
		},
		Orphans: []string{"icons/generated/Stray.png"},
		Dimensions: completeness.DimensionAnalysis{
			Available: true,
			Categories: map[string][]completeness.VariantDimensions{
				"2dbox": {{
					Variant: inventory.VariantFull,
					Total:   2,
					Counts: []completeness.DimensionCount{
						{Width: 1200, Height: 1200, Count: 2, Class: completeness.DimensionIdeal},
					},
				}},
			},
		},
	}
}

func TestParseFormat(t *testing.T) {
	for _, s := range []string{"markdown", "JSON", " yaml ", "concise"} {
		if _, err := ParseFormat(s); err != nil {
			t.Errorf("ParseFormat(%q): %v", s, err)
		}
	}
	if _, err := ParseFormat("html"); err == nil {
		t.Error("ParseFormat should reject unknown formats")
	}
}

func TestFormatMarkdown(t *testing.T) {
	out, err := NewFormatter(FormatMarkdown).Format(sampleReport())
	require.NoError(t, err)

	assert.Contains(t, out, "# Collection Verification Report")
	assert.Contains(t, out, "| Catalog entries | 3 |")
	assert.Contains(t, out, "| 2dbox | 2 | 3 | 66.7% |")
	assert.Contains(t, out, "- Catalog Only Game")
	assert.Contains(t, out, "- Removed Game (superseded by Parent Game)")
	assert.Contains(t, out, "- Game (Rev 1) is rev 1; catalog has Game (Rev 2) (rev 2)")
	assert.Contains(t, out, "- Game (Rev 1): disc")
	assert.Contains(t, out, "- Other Game: 2dbox")
	assert.Contains(t, out, "- 2dbox: Twice Game (full, lq)")
	assert.Contains(t, out, "- icons/generated/Stray.png")
	assert.Contains(t, out, "- 1200x1200: 2 (ideal)")
	assert.NotContains(t, out, "unavailable")
}

func TestFormatMarkdownDegradedDimensions(t *testing.T) {
	report := sampleReport()
	report.Dimensions = completeness.DimensionAnalysis{}

	out, err := NewFormatter(FormatMarkdown).Format(report)
	require.NoError(t, err)
	assert.Contains(t, out, "Dimension analysis is unavailable")
}

func TestFormatJSONRoundTrip(t *testing.T) {
	out, err := NewFormatter(FormatJSON).Format(sampleReport())
	require.NoError(t, err)

	var decoded Report
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "run-1", decoded.Metadata.RunID)
	assert.Equal(t, sampleReport().StaleRevisions, decoded.StaleRevisions)
}

func TestFormatYAML(t *testing.T) {
	out, err := NewFormatter(FormatYAML).Format(sampleReport())
	require.NoError(t, err)
	assert.Contains(t, out, "run_id: run-1")
	assert.Contains(t, out, "superseded_by: Parent Game")
}

func TestFormatConcise(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	out, err := NewFormatter(FormatConcise).Format(sampleReport())
	require.NoError(t, err)

	assert.Contains(t, out, "catalog=3 inventory=3 both=2")
	assert.Contains(t, out, "collection extras: 1 (1 explained)")
	assert.Contains(t, out, "stale revisions: 1")
	assert.Contains(t, out, "Findings detected")
	assert.NotContains(t, out, "\x1b[")
}

func TestFormatConciseCleanRun(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	report := &Report{
		Summary:    Summary{CatalogTotal: 1, InventoryTotal: 1, InBoth: 1},
		Dimensions: completeness.DimensionAnalysis{},
	}
	out, err := NewFormatter(FormatConcise).Format(report)
	require.NoError(t, err)
	assert.Contains(t, out, "Collection matches the catalog")
	assert.Contains(t, out, "dimension analysis unavailable")
}

func TestWriteReport(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, NewFormatter(FormatJSON).WriteReport(&sb, sampleReport()))
	assert.True(t, strings.HasPrefix(sb.String(), "{"))
}
