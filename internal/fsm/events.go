package fsm

// EventKind classifies an inbound chat event before routing.
type EventKind int

const (
	EventText EventKind = iota
	EventContact
	EventChoice
)

// Allows reports whether an event kind is legal in a state. Events failing
// this check are answered with a neutral re-prompt, never acted on.
func Allows(state string, kind EventKind) bool {
	switch kind {
	case EventText:
		switch state {
		case StateRegName, StateRegMemberID, StateRegJoinDate,
			StateEditName, StateEditMemberID, StateEditJoinDate,
			StateTutorialConfirm, StateTutorial,
			StateLeads, StateMeetingNotes, StatePresentations,
			StateFollowUpQuestion:
			return true
		}
		return false
	case EventContact:
		return state == StateRegPhone || state == StateEditPhone
	case EventChoice:
		switch state {
		case StateRegName, StateRegLevel, StateEditLevel, StateRegConfirm,
			StateMaterialsMenu, StateTutorialConfirm, StateTutorial,
			StateFollowUps:
			return true
		}
		return false
	}
	return false
}
