package entity

// TutorRequest is one call to the conversation tutor.
type TutorRequest struct {
	// Language is the display name of the target language.
	Language string
	// Scenario is the roleplay context of the active story mode, if any.
	Scenario string
	History  []Message
}

// TutorReply is the tutor's structured answer.
type TutorReply struct {
	Text        string          `json:"text"`
	Translation string          `json:"translation"`
	Words       []WordInContext `json:"words"`
}
