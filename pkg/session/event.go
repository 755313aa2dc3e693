package session

import "github.com/aretw0/blend/pkg/domain"

// EventType names a UI event forwarded to a session.
type EventType string

const (
	EventTextChanged       EventType = "text_changed"
	EventCaretMoved        EventType = "caret_moved"
	EventKeyPressed        EventType = "key_pressed"
	EventSuggestionClicked EventType = "suggestion_clicked"
	EventFocusLost         EventType = "focus_lost"
	EventFocusGained       EventType = "focus_gained"
)

// Key is a key relevant to autocomplete. Other keys are passed through.
type Key string

const (
	KeyDown   Key = "down"
	KeyUp     Key = "up"
	KeyEnter  Key = "enter"
	KeyTab    Key = "tab"
	KeyEscape Key = "escape"
)

// Event is one UI event. Only the fields relevant to Type are read.
type Event struct {
	Type  EventType `json:"type"`
	Text  string    `json:"text,omitempty"`
	Caret int       `json:"caret,omitempty"`
	Key   Key       `json:"key,omitempty"`
	Index int       `json:"index,omitempty"`
}

// TextChange reports new widget contents and caret.
func TextChange(text string, caret int) Event {
	return Event{Type: EventTextChanged, Text: text, Caret: caret}
}

// CaretMove reports a caret move without a text change.
func CaretMove(caret int) Event {
	return Event{Type: EventCaretMoved, Caret: caret}
}

// KeyPress reports a key press.
func KeyPress(key Key) Event {
	return Event{Type: EventKeyPressed, Key: key}
}

// Click reports a click on the suggestion at index.
func Click(index int) Event {
	return Event{Type: EventSuggestionClicked, Index: index}
}

// Blur reports that the text widget lost focus.
func Blur() Event {
	return Event{Type: EventFocusLost}
}

// Focus reports that the text widget regained focus.
func Focus() Event {
	return Event{Type: EventFocusGained}
}

// View is what the host should render after an event.
type View struct {
	CombinationID string              `json:"combination_id"`
	Mode          domain.EditMode     `json:"mode"`
	Buffer        string              `json:"buffer"`
	Caret         int                 `json:"caret"`
	Mention       domain.Mention      `json:"mention"`
	Suggestions   []domain.Identifier `json:"suggestions"`
	Selected      int                 `json:"selected"`

	// Handled is true when the key was consumed by autocomplete and the host
	// must suppress its default action.
	Handled bool `json:"handled"`

	// PendingExit is true while a focus loss waits for its grace period.
	PendingExit bool `json:"pending_exit"`
}

// ExitResult describes how leaving direct entry affected the combination.
type ExitResult struct {
	CombinationID string        `json:"combination_id"`
	Applied       bool          `json:"applied"`
	Outcome       string        `json:"outcome"`
	Terms         []domain.Term `json:"terms"`
	Unresolved    []string      `json:"unresolved,omitempty"`
}
