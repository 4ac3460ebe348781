package kmeta

import "context"

// Approver confirms an upsert before it is sent to the store.
//
// Implementations:
//   - ForcedApprover: approves without asking (--yes)
//   - InteractiveApprover: prompts the user to type the entry ID
type Approver interface {
	// RequestApproval shows the pending document and asks for confirmation.
	//
	// Returns:
	//   - bool: true if approved, false if denied
	//   - error: Any error that occurred during the approval process
	RequestApproval(ctx context.Context, entryID, rendered string) (bool, error)
}
