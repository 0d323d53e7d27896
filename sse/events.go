// Package sse decodes the voice gateway's server-sent event stream into typed
// events.
package sse

type Kind string

const (
	KindUser      Kind = "user"
	KindAssistant Kind = "openclaw"
	KindSystem    Kind = "system"
)

// Event is one of *UserEvent, *AssistantEvent or *SystemEvent. The set is
// closed; switch on the concrete type.
type Event interface {
	Kind() Kind
	// Stamp is the ISO-8601 timestamp as sent.
	Stamp() string
	isEvent()
}

// UserEvent is a transcription of what the user said.
type UserEvent struct {
	Text       string
	Confidence float64
	Timestamp  string
}

// AssistantEvent carries assistant response text. Done marks the final
// message of a turn.
type AssistantEvent struct {
	Text      string
	Done      bool
	Timestamp string
}

type SystemEvent struct {
	Status    string
	Message   *string
	Timestamp string
}

func (*UserEvent) Kind() Kind      { return KindUser }
func (*AssistantEvent) Kind() Kind { return KindAssistant }
func (*SystemEvent) Kind() Kind    { return KindSystem }

func (e *UserEvent) Stamp() string      { return e.Timestamp }
func (e *AssistantEvent) Stamp() string { return e.Timestamp }
func (e *SystemEvent) Stamp() string    { return e.Timestamp }

func (*UserEvent) isEvent()      {}
func (*AssistantEvent) isEvent() {}
func (*SystemEvent) isEvent()    {}

// MessageOr returns the message or fallback when none was sent.
func (e *SystemEvent) MessageOr(fallback string) string {
	if e.Message == nil {
		return fallback
	}
	return *e.Message
}
