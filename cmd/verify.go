/*
Copyright © 2025 UnluckyForSome
*/
package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/cobra"

	"github.com/UnluckyForSome/artdex/internal/catalog"
	"github.com/UnluckyForSome/artdex/internal/completeness"
	"github.com/UnluckyForSome/artdex/internal/inventory"
	"github.com/UnluckyForSome/artdex/internal/nameset"
	"github.com/UnluckyForSome/artdex/internal/reconcile"
	"github.com/UnluckyForSome/artdex/internal/removal"
	"github.com/UnluckyForSome/artdex/pkg/buildinfo"
	"github.com/UnluckyForSome/artdex/pkg/exitcode"
	"github.com/UnluckyForSome/artdex/pkg/logger"
)

// layoutConfigName is the collection layout config looked up in the target
// directory.
const layoutConfigName = "artdex.yaml"

// errFindings signals a verification run that completed but found problems
// the caller asked to fail on.
var errFindings = errors.New("verification found missing entries")

func newVerifyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify [target]",
		Short: "Reconcile the collection against the catalog",
		Long: `Verify parses the catalog DAT and the filter report, scans the collection
tree, and produces a reconciliation report covering completeness, stale
revisions, duplicates, orphans, image dimensions, and removal reasons.

The newest *.dat and *.txt files in the target directory are used when
--dat and --report are not given. Paths passed via --dat, --report, and
--output resolve against the working directory, not the target.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runVerify,
	}

	cmd.Flags().String("dat", "", "Catalog DAT file, relative to the working directory (default: newest *.dat in target)")
	cmd.Flags().String("report", "", "Filter report file, relative to the working directory (default: newest *.txt in target)")
	cmd.Flags().String("format", "concise", "Output format: markdown|json|yaml|concise")
	cmd.Flags().StringP("output", "o", "", "Write the rendered report to a file")
	cmd.Flags().Bool("fail-on-missing", false, "Exit non-zero when catalog entries lack art")
	cmd.Flags().Bool("apply", false, "Plan and apply renames, alt moves, and deletes")
	cmd.Flags().BoolP("yes", "y", false, "Apply planned actions without prompting")

	return cmd
}

func runVerify(cmd *cobra.Command, args []string) error {
	target := "."
	if len(args) == 1 {
		target = args[0]
	}
	fsys := osfs.New(target)

	formatStr, _ := cmd.Flags().GetString("format")
	format, err := reconcile.ParseFormat(formatStr)
	if err != nil {
		return err
	}

	layout, err := loadLayout(fsys)
	if err != nil {
		return err
	}

	// User-supplied paths resolve against the working directory; discovered
	// files live inside the target tree.
	datPath, _ := cmd.Flags().GetString("dat")
	var catalogNames nameset.Set
	if datPath != "" {
		catalogNames, err = parseCatalogAt(datPath)
	} else {
		datPath, err = newestFile(fsys, ".dat")
		if err != nil {
			return fmt.Errorf("no catalog DAT found in %s: %w", target, err)
		}
		logger.Info("using newest catalog file", logger.String("path", datPath))
		catalogNames, err = catalog.ParseFile(fsys, datPath)
	}
	if err != nil {
		return err
	}

	reportPath, _ := cmd.Flags().GetString("report")
	removals := map[string]removal.Record{}
	switch {
	case reportPath != "":
		removals, err = parseRemovalsAt(reportPath)
		if err != nil {
			return err
		}
	default:
		if found, ferr := newestFile(fsys, ".txt"); ferr == nil {
			logger.Info("using newest filter report", logger.String("path", found))
			removals, err = removal.ParseFile(fsys, found)
			if err != nil {
				return err
			}
			reportPath = found
		} else {
			logger.Warn("no filter report found, collection extras will be unexplained")
		}
	}

	inv := inventory.New(fsys, layout)
	engine := reconcile.NewEngine(reconcile.Options{
		Target:          target,
		CatalogPath:     datPath,
		ReportPath:      reportPath,
		Version:         buildinfo.BinaryVersion,
		DimensionReader: completeness.StdReader{},
	})
	report, err := engine.Reconcile(catalogNames, inv, removals)
	if err != nil {
		return err
	}

	formatter := reconcile.NewFormatter(format)
	output, _ := cmd.Flags().GetString("output")
	if output != "" {
		rendered, err := formatter.Format(report)
		if err != nil {
			return err
		}
		if err := os.WriteFile(output, []byte(rendered), 0o644); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		logger.Info("report written", logger.String("path", output))
	} else {
		if err := formatter.WriteReport(cmd.OutOrStdout(), report); err != nil {
			return err
		}
	}

	if apply, _ := cmd.Flags().GetBool("apply"); apply {
		if err := applyActions(cmd, fsys, inv, report); err != nil {
			return err
		}
	}

	if failOn, _ := cmd.Flags().GetBool("fail-on-missing"); failOn {
		if len(report.CatalogOnly) > 0 || len(report.Missing) > 0 {
			return errFindings
		}
	}
	return nil
}

func applyActions(cmd *cobra.Command, fsys billy.Filesystem, inv *inventory.Inventory, report *reconcile.Report) error {
	actions := reconcile.PlanStaleRenames(inv, report.StaleRevisions)
	actions = append(actions, reconcile.PlanCleanup(inv, report.InventoryOnly, inv.Scan())...)
	if len(actions) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No actions to apply.")
		return nil
	}

	if dryRun, _ := cmd.Flags().GetBool("dry-run"); dryRun {
		for _, a := range actions {
			logger.Info("planned action",
				logger.String("op", string(a.Op)),
				logger.String("path", a.Path),
				logger.String("new_path", a.NewPath),
				logger.String("reason", a.Reason))
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Planned %d action(s), none applied.\n", len(actions))
		return nil
	}

	decide := reconcile.Decision(reconcile.ApplyAll)
	if yes, _ := cmd.Flags().GetBool("yes"); !yes {
		decide = promptDecision(cmd.InOrStdin(), cmd.OutOrStdout())
	}
	res, err := reconcile.Execute(fsys, actions, decide)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Applied %d action(s), skipped %d.\n", res.Applied, res.Skipped)
	return nil
}

// promptDecision confirms each action on the terminal. Answers: y apply,
// n skip, a apply this and everything remaining, q skip everything
// remaining.
func promptDecision(in io.Reader, out io.Writer) reconcile.Decision {
	reader := bufio.NewReader(in)
	applyRest := false
	return func(a reconcile.Action) reconcile.Choice {
		if applyRest {
			return reconcile.Apply
		}
		switch a.Op {
		case reconcile.OpDelete:
			fmt.Fprintf(out, "%s %s (%s) [y/n/a/q] ", a.Op, a.Path, a.Reason)
		default:
			fmt.Fprintf(out, "%s %s -> %s (%s) [y/n/a/q] ", a.Op, a.Path, a.NewPath, a.Reason)
		}
		line, err := reader.ReadString('\n')
		if err != nil {
			return reconcile.SkipAll
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return reconcile.Apply
		case "a", "all":
			applyRest = true
			return reconcile.Apply
		case "q", "quit":
			return reconcile.SkipAll
		default:
			return reconcile.Skip
		}
	}
}

// loadLayout reads artdex.yaml from the target when present, falling back
// to the built-in layout.
func loadLayout(fsys billy.Filesystem) (inventory.Layout, error) {
	f, err := fsys.Open(layoutConfigName)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return inventory.DefaultLayout(), nil
		}
		return inventory.Layout{}, fmt.Errorf("failed to open %s: %w", layoutConfigName, err)
	}
	defer func() {
		_ = f.Close()
	}()

	raw, err := io.ReadAll(f)
	if err != nil {
		return inventory.Layout{}, fmt.Errorf("failed to read %s: %w", layoutConfigName, err)
	}
	layout, err := inventory.LoadLayout(raw)
	if err != nil {
		return inventory.Layout{}, err
	}
	logger.Debug("collection layout loaded",
		logger.String("categories", strings.Join(layout.CategoryNames(), ", ")))
	return layout, nil
}

// parseCatalogAt opens a user-supplied DAT path against the working
// directory rather than the target root.
func parseCatalogAt(path string) (nameset.Set, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return catalog.Parse(f)
}

// parseRemovalsAt opens a user-supplied filter report path against the
// working directory.
func parseRemovalsAt(path string) (map[string]removal.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return removal.Parse(f)
}

// newestFile returns the most recently modified file in the target root
// with the given extension.
func newestFile(fsys billy.Filesystem, ext string) (string, error) {
	entries, err := fsys.ReadDir(".")
	if err != nil {
		return "", err
	}
	candidates := make([]os.FileInfo, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(ext, extOf(e.Name())) {
			candidates = append(candidates, e)
		}
	}
	if len(candidates) == 0 {
		return "", os.ErrNotExist
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].ModTime().After(candidates[j].ModTime())
	})
	return candidates[0].Name(), nil
}

func extOf(name string) string {
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[i:]
	}
	return ""
}

func exitCodeFor(err error) int {
	var parseErr *catalog.ParseError
	switch {
	case errors.As(err, &parseErr),
		errors.Is(err, catalog.ErrEmptyCatalog),
		errors.Is(err, inventory.ErrEmptyInventory),
		errors.Is(err, errFindings):
		return exitcode.ValidationError
	case errors.Is(err, os.ErrNotExist):
		return exitcode.FileSystemError
	default:
		return exitcode.GeneralError
	}
}
