package workplan

import "fmt"

// Action is a lifecycle action applied to a work plan.
type Action string

const (
	// ActionSubmit sends a plan for approval. Legal from every state:
	// owner submission from draft, resubmission after rejection, and
	// reviewer reopen-to-pending of a decided plan all land here.
	ActionSubmit Action = "submit"

	// ActionApprove and ActionReject decide a pending plan. Re-applying
	// the same outcome to an already-decided plan is a no-op.
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"

	// ActionReopen returns a plan to draft so its owner can edit it.
	ActionReopen Action = "reopen"
)

var transitions = map[Status]map[Action]Status{
	StatusDraft: {
		ActionSubmit: StatusPending,
	},
	StatusPending: {
		ActionSubmit:  StatusPending,
		ActionApprove: StatusApproved,
		ActionReject:  StatusRejected,
		ActionReopen:  StatusDraft,
	},
	StatusApproved: {
		ActionSubmit:  StatusPending,
		ActionApprove: StatusApproved, // idempotent
		ActionReopen:  StatusDraft,
	},
	StatusRejected: {
		ActionSubmit: StatusPending,
		ActionReject: StatusRejected, // idempotent
		ActionReopen: StatusDraft,
	},
}

// Transition resolves (state, action) against the transition table and
// returns the next state, or ErrIllegalTransition.
func Transition(from Status, action Action) (Status, error) {
	row, ok := transitions[from]
	if !ok {
		return "", fmt.Errorf("%w: unknown state %q", ErrIllegalTransition, from)
	}
	next, ok := row[action]
	if !ok {
		return "", fmt.Errorf("%w: %s is not allowed from %s", ErrIllegalTransition, action, from)
	}
	return next, nil
}

// ActionForTarget maps a requested target state onto a lifecycle action.
// The external surface accepts a target status; the table decides legality.
func ActionForTarget(target Status) (Action, error) {
	switch target {
	case StatusPending:
		return ActionSubmit, nil
	case StatusApproved:
		return ActionApprove, nil
	case StatusRejected:
		return ActionReject, nil
	case StatusDraft:
		return ActionReopen, nil
	}
	return "", fmt.Errorf("%w: unknown target status %q", ErrIllegalTransition, target)
}
