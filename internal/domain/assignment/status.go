package assignment

type Status string

const (
	StatusUnassigned Status = "Unassigned"
	StatusAssigned   Status = "Assigned"
	StatusInProgress Status = "InProgress"
	StatusSubmitted  Status = "Submitted"
	StatusInReview   Status = "InReview"
	StatusApproved   Status = "Approved"
	StatusRejected   Status = "Rejected"
)

var Statuses = []Status{
	StatusUnassigned,
	StatusAssigned,
	StatusInProgress,
	StatusSubmitted,
	StatusInReview,
	StatusApproved,
	StatusRejected,
}

func (s Status) Valid() bool {
	for _, v := range Statuses {
		if v == s {
			return true
		}
	}
	return false
}

// Terminal statuses admit no further mutation.
func (s Status) Terminal() bool { return s == StatusApproved }

// TerminalStatuses is used to build "non-terminal" filters in queries.
var TerminalStatuses = []Status{StatusApproved}

type Action string

const (
	ActionAssign         Action = "assign"
	ActionStart          Action = "start"
	ActionSubmit         Action = "submit"
	ActionAssignReviewer Action = "assign_reviewer"
	ActionApprove        Action = "approve"
	ActionReject         Action = "reject"
	ActionReassign       Action = "reassign"
	ActionWiden          Action = "widen_subtasks"
	ActionCreate         Action = "create"
)
