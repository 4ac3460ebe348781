package ui

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/kaltura/kal-metadata-utils/pkg/kmeta"
)

// ForcedApprover approves every upsert without asking (--yes). When verbose,
// the pending document is printed first.
type ForcedApprover struct {
	verbose bool
	output  io.Writer
}

// NewForcedApprover creates a new ForcedApprover writing to stderr.
func NewForcedApprover(verbose bool) kmeta.Approver {
	return &ForcedApprover{verbose: verbose, output: os.Stderr}
}

func (a *ForcedApprover) RequestApproval(ctx context.Context, entryID, rendered string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if a.verbose {
		fmt.Fprintln(a.output, RenderDocument(fmt.Sprintf("Pending metadata for entry %s", entryID), rendered))
	}
	fmt.Fprintln(a.output, MutedStyle.Render(fmt.Sprintf("Upsert of entry %s approved by --yes", entryID)))
	return true, nil
}

var _ kmeta.Approver = (*ForcedApprover)(nil)
