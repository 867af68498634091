/*
Copyright © 2025 UnluckyForSome
*/
package reconcile

import (
	"fmt"
	"path/filepath"

	"github.com/go-git/go-billy/v5"

	"github.com/UnluckyForSome/artdex/internal/inventory"
	"github.com/UnluckyForSome/artdex/internal/nameset"
	"github.com/UnluckyForSome/artdex/internal/removal"
	"github.com/UnluckyForSome/artdex/pkg/logger"
)

// Op is a planned filesystem operation.
type Op string

const (
	// OpRename renames a file to carry a different asset name.
	OpRename Op = "rename"
	// OpMoveToAlt demotes a file to an alternate rendition in place.
	OpMoveToAlt Op = "move-to-alt"
	// OpDelete removes a file whose entry was dropped from the catalog.
	OpDelete Op = "delete"
)

// Action is one planned mutation. Planning only computes what should
// change; nothing touches the filesystem until Execute.
type Action struct {
	Op      Op     `json:"op" yaml:"op"`
	Path    string `json:"path" yaml:"path"`
	NewPath string `json:"new_path,omitempty" yaml:"new_path,omitempty"`
	Reason  string `json:"reason" yaml:"reason"`
}

// Choice is a caller's verdict on one planned action.
type Choice int

const (
	// Apply performs the action.
	Apply Choice = iota
	// Skip leaves this action undone and moves on.
	Skip
	// SkipAll abandons this and every remaining action.
	SkipAll
)

// Decision resolves one action to a choice. The reconciliation core stays
// free of prompting; interactive confirmation lives in the caller.
type Decision func(Action) Choice

// ApplyAll approves every action unconditionally.
func ApplyAll(Action) Choice { return Apply }

// PlanStaleRenames plans a rename of every file carrying a stale name to
// the catalog's latest name, across all categories and variants holding it.
func PlanStaleRenames(inv *inventory.Inventory, stale []StaleRevision) []Action {
	ext := inv.Layout().Extension()

	var actions []Action
	for _, s := range stale {
		for _, ref := range inv.FilesFor(s.InventoryName) {
			actions = append(actions, Action{
				Op:      OpRename,
				Path:    ref.Path,
				NewPath: filepath.Join(filepath.Dir(ref.Path), s.LatestName+ext),
				Reason:  fmt.Sprintf("revision %d superseded by %q", s.InventoryRev, s.LatestName),
			})
		}
	}
	return actions
}

// PlanCleanup plans the follow-up for inventory-only names the filter
// report explains. A name superseded by a title already in the inventory
// becomes an alternate rendition of it; a name superseded by a title not
// yet held is renamed to that title; names removed for any other stated
// reason are deleted. Names with no removal record get no action.
func PlanCleanup(inv *inventory.Inventory, inventoryOnly []AnnotatedName, inventoryNames nameset.Set) []Action {
	ext := inv.Layout().Extension()

	var actions []Action
	for _, entry := range inventoryOnly {
		if entry.Removal == nil {
			continue
		}
		rec := *entry.Removal
		for _, ref := range inv.FilesFor(entry.Name) {
			switch {
			case rec.Reason == removal.ReasonUnspecified,
				rec.Reason == removal.ReasonSuperseded && rec.SupersededBy == "":
				// No recorded parent or no section context; nothing safe
				// can be planned.
			case rec.Reason == removal.ReasonSuperseded && inventoryNames.Has(rec.SupersededBy):
				actions = append(actions, Action{
					Op:      OpMoveToAlt,
					Path:    ref.Path,
					NewPath: filepath.Join(filepath.Dir(ref.Path), entry.Name+" alt"+ext),
					Reason:  fmt.Sprintf("superseded by %q, already in collection", rec.SupersededBy),
				})
			case rec.Reason == removal.ReasonSuperseded:
				actions = append(actions, Action{
					Op:      OpRename,
					Path:    ref.Path,
					NewPath: filepath.Join(filepath.Dir(ref.Path), rec.SupersededBy+ext),
					Reason:  fmt.Sprintf("superseded by %q, not yet in collection", rec.SupersededBy),
				})
			default:
				actions = append(actions, Action{
					Op:     OpDelete,
					Path:   ref.Path,
					Reason: fmt.Sprintf("removed from catalog: %s", rec.Reason),
				})
			}
		}
	}
	return actions
}

// ExecResult summarizes an Execute pass.
type ExecResult struct {
	Applied int
	Skipped int
}

// Execute runs the planned actions through the decision callback, mutating
// via fsys. SkipAll abandons everything remaining. The first filesystem
// error aborts with the partial result.
func Execute(fsys billy.Filesystem, actions []Action, decide Decision) (ExecResult, error) {
	var res ExecResult
	for i, a := range actions {
		switch decide(a) {
		case Skip:
			res.Skipped++
			continue
		case SkipAll:
			res.Skipped += len(actions) - i
			return res, nil
		}

		var err error
		switch a.Op {
		case OpDelete:
			err = fsys.Remove(a.Path)
		default:
			err = fsys.Rename(a.Path, a.NewPath)
		}
		if err != nil {
			return res, fmt.Errorf("%s %s: %w", a.Op, a.Path, err)
		}
		res.Applied++
		logger.Info("applied action",
			logger.String("op", string(a.Op)),
			logger.String("path", a.Path),
			logger.String("new_path", a.NewPath))
	}
	return res, nil
}
