package models

// MaterialKey names one of the gated materials. The set is fixed: keys are
// matched against this enum and never built from incoming callback strings.
type MaterialKey string

const (
	MaterialText  MaterialKey = "text"
	MaterialAudio MaterialKey = "audio"
	MaterialVideo MaterialKey = "video"
	MaterialLinks MaterialKey = "links"
)

func ValidMaterialKey(k MaterialKey) bool {
	switch k {
	case MaterialText, MaterialAudio, MaterialVideo, MaterialLinks:
		return true
	}
	return false
}

type CounterName string

const (
	CounterLead         CounterName = "lead_index"
	CounterMeetingNote  CounterName = "meeting_note_index"
	CounterPresentation CounterName = "presentation_index"
	CounterFollowUp     CounterName = "follow_up_index"
)

type CollectionStage string

const (
	CollectionLeads         CollectionStage = "leads"
	CollectionMeetingNotes  CollectionStage = "meeting_notes"
	CollectionPresentations CollectionStage = "presentations"
)

type FollowUpStatus string

const (
	FollowUpPending  FollowUpStatus = "pending"
	FollowUpAnswered FollowUpStatus = "answered"
)
