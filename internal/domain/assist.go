package domain

// InferredTask is a follow-up task suggested by triage assist, with the
// default assignment group the assist source mapped it to.
type InferredTask struct {
	TaskType        string `json:"taskType"`
	AssignmentGroup string `json:"assignmentGroup"`
}

// AssistSuggestion is the advisory bundle returned by the triage-assist
// service for an in-progress edit. It is ephemeral: it is rendered next to
// the edit form and never written back to the incident record.
//
// Available is false when the assist call failed or returned something
// unusable; all other fields are then zero and the consumer renders a
// neutral "no suggestion" state.
type AssistSuggestion struct {
	Available           bool           `json:"available"`
	SuggestedCI         string         `json:"suggestedCI,omitempty"`
	KBKeywords          []string       `json:"kbKeywords,omitempty"`
	FaultAnalysis       string         `json:"faultAnalysis,omitempty"`
	SuggestedNextAction string         `json:"suggestedNextAction,omitempty"`
	InferredTasks       []InferredTask `json:"inferredTasks,omitempty"`
	ServiceType         string         `json:"serviceType,omitempty"`
}
