package fsm

const (
	StateRegName     = "reg_name"
	StateRegMemberID = "reg_member_id"
	StateRegJoinDate = "reg_join_date"
	StateRegPhone    = "reg_phone"
	StateRegLevel    = "reg_level"
	StateRegConfirm  = "reg_confirm"

	StateEditName     = "edit_name"
	StateEditMemberID = "edit_member_id"
	StateEditJoinDate = "edit_join_date"
	StateEditPhone    = "edit_phone"
	StateEditLevel    = "edit_level"

	StateMaterialsMenu   = "materials_menu"
	StateTutorialConfirm = "tutorial_confirm"
	StateTutorial        = "tutorial"

	StateLeads         = "leads"
	StateMeetingNotes  = "meeting_notes"
	StatePresentations = "presentations"

	StateFollowUps        = "follow_ups"
	StateFollowUpQuestion = "follow_up_question"

	StateCompleted = "completed"
)

// PipelineOrder lists the checkpoint states in funnel order. Edit states are
// omitted: they are short detours that always return to reg_confirm.
func PipelineOrder() []string {
	return []string{
		StateRegName,
		StateRegMemberID,
		StateRegJoinDate,
		StateRegPhone,
		StateRegLevel,
		StateRegConfirm,
		StateMaterialsMenu,
		StateTutorialConfirm,
		StateTutorial,
		StateLeads,
		StateMeetingNotes,
		StatePresentations,
		StateFollowUps,
		StateFollowUpQuestion,
		StateCompleted,
	}
}

func ValidState(state string) bool {
	switch state {
	case StateRegName, StateRegMemberID, StateRegJoinDate, StateRegPhone,
		StateRegLevel, StateRegConfirm,
		StateEditName, StateEditMemberID, StateEditJoinDate, StateEditPhone, StateEditLevel,
		StateMaterialsMenu, StateTutorialConfirm, StateTutorial,
		StateLeads, StateMeetingNotes, StatePresentations,
		StateFollowUps, StateFollowUpQuestion, StateCompleted:
		return true
	}
	return false
}
