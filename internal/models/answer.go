package models

// Tagged answer payloads. Multiple-choice and short-answer are variants
// with a shared scoring contract (correct/incorrect is decided upstream
// and recorded on the event).

type AnswerKind string

const (
	AnswerKindChoice AnswerKind = "choice"
	AnswerKindShort  AnswerKind = "short_answer"
)

type ChoiceAnswer struct {
	SelectedOption string `json:"selected_option"`
	TimeSpent      int    `json:"time_spent"`
}

type ShortAnswer struct {
	Text      string `json:"text"`
	TimeSpent int    `json:"time_spent"`
}

// AnswerPayload is the serialized form stored on AnswerEvent.Answer.
// Exactly one variant field is set, selected by Kind.
type AnswerPayload struct {
	Kind   AnswerKind    `json:"kind"`
	Choice *ChoiceAnswer `json:"choice,omitempty"`
	Short  *ShortAnswer  `json:"short,omitempty"`
}
