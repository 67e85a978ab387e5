package core

// EventKind is a notification the core emits to clients.
type EventKind int

const (
	// EventConnected greets a freshly registered connection with its own id.
	EventConnected EventKind = iota
	// EventExistingParticipants tells a joining connection who is already in the room.
	EventExistingParticipants
	// EventSignal carries a relayed negotiation payload to one target.
	EventSignal
	// EventCodeUpdate carries editor text to every member except the author.
	EventCodeUpdate
	// EventEditorStateChanged carries editor panel visibility to every member.
	EventEditorStateChanged
	// EventCodeResult carries a code execution result to every member.
	EventCodeResult
	// EventUserLeft notifies remaining members that a connection left.
	EventUserLeft
	// EventError notifies a client about a domain error.
	EventError
)

var eventNames = [...]string{
	EventConnected:            "connected",
	EventExistingParticipants: "existing_participants",
	EventSignal:               "signal",
	EventCodeUpdate:           "code_update",
	EventEditorStateChanged:   "editor_state_changed",
	EventCodeResult:           "code_result",
	EventUserLeft:             "user_left",
	EventError:                "error",
}

func (k EventKind) String() string {
	if int(k) < len(eventNames) {
		return eventNames[k]
	}
	return "unknown"
}

// Event is sent to clients to describe what happened in the system.
// Events may be shared between recipients and must not be mutated after delivery.
type Event struct {
	Kind   EventKind
	Room   string
	ConnID string // subject connection: self, signal sender, or departed member
	UserID string
	Name   string

	Participants []string // EventExistingParticipants
	Role         Role
	Host         string

	Payload []byte // EventSignal, opaque
	Code    string
	Visible bool
	Output  string

	Error *CoreError
}
