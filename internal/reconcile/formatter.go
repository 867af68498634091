/*
Copyright © 2025 UnluckyForSome
*/
package reconcile

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/aymerick/raymond"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/UnluckyForSome/artdex/internal/completeness"
	"github.com/UnluckyForSome/artdex/internal/removal"
)

//go:embed templates/report.md.hbs
var markdownTemplate string

// OutputFormat selects how a report is rendered.
type OutputFormat string

const (
	FormatMarkdown OutputFormat = "markdown"
	FormatJSON     OutputFormat = "json"
	FormatYAML     OutputFormat = "yaml"
	// FormatConcise is a short, colorized summary for terminal runs.
	FormatConcise OutputFormat = "concise"
)

// ParseFormat validates a format name from the CLI.
func ParseFormat(s string) (OutputFormat, error) {
	switch OutputFormat(strings.ToLower(strings.TrimSpace(s))) {
	case FormatMarkdown:
		return FormatMarkdown, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML:
		return FormatYAML, nil
	case FormatConcise:
		return FormatConcise, nil
	default:
		return "", fmt.Errorf("unsupported format: %s", s)
	}
}

// Formatter renders reconciliation reports.
type Formatter struct {
	format OutputFormat
}

// NewFormatter creates a formatter for the given output format.
func NewFormatter(format OutputFormat) *Formatter {
	return &Formatter{format: format}
}

// Format renders the report according to the configured format.
func (f *Formatter) Format(report *Report) (string, error) {
	switch f.format {
	case FormatConcise:
		return f.formatConcise(report), nil
	case FormatMarkdown:
		return f.formatMarkdown(report)
	case FormatJSON:
		out, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to marshal report: %w", err)
		}
		return string(out), nil
	case FormatYAML:
		out, err := yaml.Marshal(report)
		if err != nil {
			return "", fmt.Errorf("failed to marshal report: %w", err)
		}
		return string(out), nil
	default:
		return "", fmt.Errorf("unsupported format: %s", f.format)
	}
}

// WriteReport renders the report and writes it to w.
func (f *Formatter) WriteReport(w io.Writer, report *Report) error {
	out, err := f.Format(report)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}

// sortHuman orders names the way a person browsing the report expects,
// rather than by raw byte value.
func sortHuman(names []string) []string {
	out := make([]string, len(names))
	copy(out, names)
	collate.New(language.English, collate.IgnoreCase).SortStrings(out)
	return out
}

func reasonLabel(rec *removal.Record) string {
	if rec == nil {
		return ""
	}
	if rec.Reason == removal.ReasonSuperseded {
		if rec.SupersededBy == "" {
			return "superseded"
		}
		return fmt.Sprintf("superseded by %s", rec.SupersededBy)
	}
	return string(rec.Reason)
}

func (f *Formatter) formatMarkdown(report *Report) (string, error) {
	var extras []map[string]interface{}
	for _, entry := range report.InventoryOnly {
		extras = append(extras, map[string]interface{}{
			"name":   entry.Name,
			"reason": reasonLabel(entry.Removal),
		})
	}

	var stale []map[string]interface{}
	for _, s := range report.StaleRevisions {
		stale = append(stale, map[string]interface{}{
			"inventoryName": s.InventoryName,
			"latestName":    s.LatestName,
			"inventoryRev":  s.InventoryRev,
			"catalogRev":    s.CatalogRev,
		})
	}

	var progress []map[string]interface{}
	for _, p := range report.Summary.Progress {
		progress = append(progress, map[string]interface{}{
			"category":    p.Category,
			"fullQuality": p.FullQuality,
			"catalogSize": p.CatalogSize,
			"percent":     fmt.Sprintf("%.1f", p.Percent),
		})
	}

	var duplicates []map[string]interface{}
	for _, cat := range sortedKeys(report.Duplicates) {
		for _, d := range report.Duplicates[cat] {
			var variants []string
			for _, v := range d.Variants {
				variants = append(variants, string(v))
			}
			duplicates = append(duplicates, map[string]interface{}{
				"category": cat,
				"name":     d.Name,
				"variants": strings.Join(variants, ", "),
			})
		}
	}

	var dimensions []map[string]interface{}
	if report.Dimensions.Available {
		for _, cat := range sortedKeys(report.Dimensions.Categories) {
			for _, vd := range report.Dimensions.Categories[cat] {
				if vd.Total == 0 && len(vd.Unreadable) == 0 {
					continue
				}
				var counts []map[string]interface{}
				for _, c := range vd.Counts {
					counts = append(counts, map[string]interface{}{
						"width": c.Width, "height": c.Height,
						"count": c.Count, "class": string(c.Class),
					})
				}
				var nonLandscape []map[string]interface{}
				for _, n := range vd.NonLandscape {
					nonLandscape = append(nonLandscape, map[string]interface{}{
						"name": n.Name, "width": n.Width, "height": n.Height,
					})
				}
				dimensions = append(dimensions, map[string]interface{}{
					"category":     cat,
					"variant":      string(vd.Variant),
					"counts":       counts,
					"nonLandscape": nonLandscape,
					"unreadable":   vd.Unreadable,
				})
			}
		}
	}

	data := map[string]interface{}{
		"generatedAt":         report.Metadata.GeneratedAt.Format(time.RFC3339),
		"version":             report.Metadata.Version,
		"target":              report.Metadata.Target,
		"runID":               report.Metadata.RunID,
		"catalogTotal":        report.Summary.CatalogTotal,
		"inventoryTotal":      report.Summary.InventoryTotal,
		"inBoth":              report.Summary.InBoth,
		"catalogOnlyCount":    len(report.CatalogOnly),
		"inventoryOnlyCount":  len(report.InventoryOnly),
		"staleCount":          len(report.StaleRevisions),
		"orphanCount":         len(report.Orphans),
		"progress":            progress,
		"catalogOnly":         sortHuman(report.CatalogOnly),
		"inventoryOnly":       extras,
		"stale":               stale,
		"missing":             nameCategoryList(report.Missing),
		"placeholderOnly":     nameCategoryList(report.PlaceholderOnly),
		"duplicates":          duplicates,
		"orphans":             report.Orphans,
		"dimensionsAvailable": report.Dimensions.Available,
		"dimensions":          dimensions,
	}

	out, err := raymond.Render(markdownTemplate, data)
	if err != nil {
		return "", fmt.Errorf("failed to render report template: %w", err)
	}
	return out, nil
}

func nameCategoryList(m map[string][]string) []map[string]interface{} {
	var out []map[string]interface{}
	for _, name := range sortedKeys(m) {
		out = append(out, map[string]interface{}{
			"name":       name,
			"categories": strings.Join(m[name], ", "),
		})
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (f *Formatter) formatConcise(report *Report) string {
	color := func(code string, s string) string {
		if os.Getenv("NO_COLOR") != "" {
			return s
		}
		return "\x1b[" + code + "m" + s + "\x1b[0m"
	}
	bold := func(s string) string { return color("1", s) }
	green := func(s string) string { return color("32", s) }
	yellow := func(s string) string { return color("33", s) }

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s catalog=%d inventory=%d both=%d\n",
		bold("Verification"),
		report.Summary.CatalogTotal, report.Summary.InventoryTotal, report.Summary.InBoth)

	line := func(label string, n int) {
		if n == 0 {
			fmt.Fprintf(&sb, " - %s: %s\n", label, green("none"))
			return
		}
		fmt.Fprintf(&sb, " - %s: %s\n", label, yellow(fmt.Sprintf("%d", n)))
	}
	line("catalog entries without art", len(report.CatalogOnly))
	explained := len(report.InventoryOnly) - len(report.Unexplained())
	if n := len(report.InventoryOnly); n > 0 {
		fmt.Fprintf(&sb, " - collection extras: %s (%d explained)\n",
			yellow(fmt.Sprintf("%d", n)), explained)
	} else {
		fmt.Fprintf(&sb, " - collection extras: %s\n", green("none"))
	}
	line("stale revisions", len(report.StaleRevisions))
	line("names missing art", len(report.Missing))
	line("placeholder only", len(report.PlaceholderOnly))
	line("duplicates", duplicateCount(report.Duplicates))
	line("orphaned files", len(report.Orphans))

	if len(report.Summary.Progress) > 0 {
		sb.WriteString("\n" + progressTable(report.Summary.Progress) + "\n")
	}
	if report.Dimensions.Available {
		if tbl := dimensionTable(report.Dimensions); tbl != "" {
			sb.WriteString("\n" + tbl + "\n")
		}
	} else {
		sb.WriteString("\n - dimension analysis unavailable\n")
	}

	if report.HasFindings() {
		sb.WriteString("\n" + yellow("Findings detected, see the full report for details") + "\n")
	} else {
		sb.WriteString("\n" + green("Collection matches the catalog") + "\n")
	}
	return sb.String()
}

func duplicateCount(m map[string][]completeness.Duplicate) int {
	n := 0
	for _, list := range m {
		n += len(list)
	}
	return n
}

func progressTable(progress []CategoryProgress) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Category", "Full quality", "Catalog", "Percent"})
	for _, p := range progress {
		tw.AppendRow(table.Row{
			p.Category, p.FullQuality, p.CatalogSize, fmt.Sprintf("%.1f%%", p.Percent),
		})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
	})
	return tw.Render()
}

func dimensionTable(analysis completeness.DimensionAnalysis) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Category", "Variant", "Total", "Ideal", "Square", "Other", "Unreadable"})

	rows := 0
	for _, cat := range sortedKeys(analysis.Categories) {
		for _, vd := range analysis.Categories[cat] {
			if vd.Total == 0 && len(vd.Unreadable) == 0 {
				continue
			}
			var ideal, square, other int
			for _, c := range vd.Counts {
				switch c.Class {
				case completeness.DimensionIdeal:
					ideal += c.Count
				case completeness.DimensionSquare:
					square += c.Count
				default:
					other += c.Count
				}
			}
			tw.AppendRow(table.Row{
				cat, string(vd.Variant), vd.Total, ideal, square, other, len(vd.Unreadable),
			})
			rows++
		}
	}
	if rows == 0 {
		return ""
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
		{Number: 7, Align: text.AlignRight},
	})
	return tw.Render()
}
