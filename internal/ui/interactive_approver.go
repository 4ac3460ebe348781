package ui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/kaltura/kal-metadata-utils/pkg/kmeta"
)

// InteractiveApprover shows the pending document and asks the user to type
// the entry ID to confirm the upsert.
type InteractiveApprover struct {
	input  io.Reader
	output io.Writer
}

// NewInteractiveApprover creates an approver reading stdin and writing stderr.
func NewInteractiveApprover() kmeta.Approver {
	return &InteractiveApprover{input: os.Stdin, output: os.Stderr}
}

// RequestApproval prompts the user to type entryID to confirm.
func (a *InteractiveApprover) RequestApproval(ctx context.Context, entryID, rendered string) (bool, error) {
	fmt.Fprintln(a.output)
	fmt.Fprintln(a.output, RenderDocument(fmt.Sprintf("Pending metadata for entry %s", entryID), rendered))
	fmt.Fprintln(a.output, WarningStyle.Render("This replaces the entry's stored metadata."))
	fmt.Fprintf(a.output, "To confirm, type the entry ID '%s' and press Enter: ", entryID)

	inputChan := make(chan string, 1)
	errChan := make(chan error, 1)

	go func() {
		reader := bufio.NewReader(a.input)
		line, err := reader.ReadString('\n')
		if err != nil && !(err == io.EOF && line != "") {
			errChan <- err
			return
		}
		inputChan <- strings.TrimSpace(line)
	}()

	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case err := <-errChan:
		return false, fmt.Errorf("failed to read input: %w", err)
	case input := <-inputChan:
		if input == entryID {
			fmt.Fprintln(a.output, SuccessStyle.Render("✓ Confirmed."))
			return true, nil
		}
		fmt.Fprintln(a.output, ErrorStyle.Render(fmt.Sprintf("✗ Input '%s' does not match entry ID '%s'. Upsert cancelled.", input, entryID)))
		return false, nil
	}
}

var _ kmeta.Approver = (*InteractiveApprover)(nil)
