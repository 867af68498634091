package cmd

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/UnluckyForSome/artdex/internal/catalog"
	"github.com/UnluckyForSome/artdex/internal/inventory"
	"github.com/UnluckyForSome/artdex/internal/reconcile"
	"github.com/UnluckyForSome/artdex/pkg/exitcode"
)

func newTestRoot() (*cobra.Command, *bytes.Buffer) {
	root := newRootCommand()
	registerSubcommands(root)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	return root, &out
}

func TestVersionCommand(t *testing.T) {
	root, out := newTestRoot()
	root.SetArgs([]string{"version"})
	if err := root.Execute(); err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.HasPrefix(out.String(), "artdex ") {
		t.Errorf("output = %q", out.String())
	}
}

func TestVersionCommandJSON(t *testing.T) {
	root, out := newTestRoot()
	root.SetArgs([]string{"version", "--json"})
	if err := root.Execute(); err != nil {
		t.Fatalf("version --json: %v", err)
	}
	if !strings.Contains(out.String(), `"goVersion"`) {
		t.Errorf("output = %q", out.String())
	}
}

func TestExitCodeFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{catalog.ErrEmptyCatalog, exitcode.ValidationError},
		{inventory.ErrEmptyInventory, exitcode.ValidationError},
		{&catalog.ParseError{Err: errors.New("bad xml")}, exitcode.ValidationError},
		{errFindings, exitcode.ValidationError},
		{os.ErrNotExist, exitcode.FileSystemError},
		{errors.New("anything else"), exitcode.GeneralError},
	}
	for _, tt := range tests {
		if got := exitCodeFor(tt.err); got != tt.want {
			t.Errorf("exitCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestPromptDecision(t *testing.T) {
	in := strings.NewReader("y\nn\nmaybe\nq\n")
	var out bytes.Buffer
	decide := promptDecision(in, &out)

	action := reconcile.Action{Op: reconcile.OpDelete, Path: "x.png", Reason: "test"}
	if got := decide(action); got != reconcile.Apply {
		t.Errorf("y = %v", got)
	}
	if got := decide(action); got != reconcile.Skip {
		t.Errorf("n = %v", got)
	}
	if got := decide(action); got != reconcile.Skip {
		t.Errorf("unrecognized answer = %v", got)
	}
	if got := decide(action); got != reconcile.SkipAll {
		t.Errorf("q = %v", got)
	}
	// Exhausted input skips everything remaining.
	if got := decide(action); got != reconcile.SkipAll {
		t.Errorf("eof = %v", got)
	}
}

func TestPromptDecisionApplyAll(t *testing.T) {
	in := strings.NewReader("a\n")
	var out bytes.Buffer
	decide := promptDecision(in, &out)

	action := reconcile.Action{Op: reconcile.OpRename, Path: "a.png", NewPath: "b.png"}
	if got := decide(action); got != reconcile.Apply {
		t.Errorf("a = %v", got)
	}
	// No further reads happen once the caller chose apply-all.
	if got := decide(action); got != reconcile.Apply {
		t.Errorf("after a = %v", got)
	}
}
