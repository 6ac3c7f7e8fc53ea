package coordinator

// Phase is where a task stands in an assignment flow.
//
//	Unassigned -> PendingCreate -> Created | Conflicted
//	Assigned   -> PendingMove   -> Moved   | Rejected
//	Assigned   -> PendingDelete -> Deleted
type Phase string

const (
	PhaseUnassigned    Phase = "unassigned"
	PhasePendingCreate Phase = "pending_create"
	PhaseCreated       Phase = "created"
	PhaseConflicted    Phase = "conflicted"
	PhaseAssigned      Phase = "assigned"
	PhasePendingMove   Phase = "pending_move"
	PhaseMoved         Phase = "moved"
	PhaseRejected      Phase = "rejected"
	PhasePendingDelete Phase = "pending_delete"
	PhaseDeleted       Phase = "deleted"
)

// Terminal reports whether no further transition follows without a new
// intent.
func (p Phase) Terminal() bool {
	switch p {
	case PhaseCreated, PhaseConflicted, PhaseMoved, PhaseRejected, PhaseDeleted:
		return true
	}
	return false
}

var transitions = map[Phase][]Phase{
	PhaseUnassigned:    {PhasePendingCreate},
	PhasePendingCreate: {PhaseCreated, PhaseConflicted},
	PhaseConflicted:    {PhasePendingCreate},
	PhaseCreated:       {PhaseAssigned},
	PhaseAssigned:      {PhasePendingMove, PhasePendingDelete},
	PhasePendingMove:   {PhaseMoved, PhaseRejected},
	PhasePendingDelete: {PhaseDeleted},
}

// CanTransition reports whether to is reachable from p in one step.
func (p Phase) CanTransition(to Phase) bool {
	for _, next := range transitions[p] {
		if next == to {
			return true
		}
	}
	return false
}
