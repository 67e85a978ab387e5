package proto

import "encoding/json"

// Inbound is the envelope for messages coming from the client.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

const (
	ProtocolVersion = 1

	InboundTypeJoin         = "join"
	InboundTypeSignal       = "signal"
	InboundTypeCodeChanged  = "code_changed"
	InboundTypeToggleEditor = "toggle_editor_visibility"
	InboundTypeCodeResult   = "code_result"

	OutboundTypeEvent = "event"
	OutboundTypeError = "error"

	EventConnected            = "connected"
	EventExistingParticipants = "existing_participants"
	EventSignal               = "signal"
	EventCodeUpdate           = "code_update"
	EventEditorStateChanged   = "editor_state_changed"
	EventCodeResult           = "code_result"
	EventUserLeft             = "user_left"
)

// JoinData requests to join a specific room.
type JoinData struct {
	RoomID string `json:"room_id"`
}

// SignalData is a negotiation message for one peer. SignalData is opaque to the server.
type SignalData struct {
	TargetSID  string          `json:"target_sid"`
	SignalData json.RawMessage `json:"signal_data"`
}

// CodeChangedData carries the author's full editor text.
type CodeChangedData struct {
	RoomID string `json:"room_id"`
	Code   string `json:"code"`
}

// ToggleEditorData shows or hides the shared editor.
type ToggleEditorData struct {
	RoomID    string `json:"room_id"`
	IsVisible bool   `json:"is_visible"`
}

// CodeResultData shares the output of a code run.
type CodeResultData struct {
	RoomID string `json:"room_id"`
	Output string `json:"output"`
}

// Outbound is the envelope for messages sent to the client.
type Outbound struct {
	Type  string `json:"type"`
	Event string `json:"event,omitempty"`
	Data  any    `json:"data,omitempty"`
	Error *Error `json:"error,omitempty"`
}

// EventConnectedData tells a client its own connection id.
type EventConnectedData struct {
	SID      string `json:"sid"`
	UserID   string `json:"user_id"`
	Name     string `json:"name"`
	Protocol int    `json:"protocol"`
}

// EventExistingParticipantsData lists the peers present when the client joined.
type EventExistingParticipantsData struct {
	RoomID string   `json:"room_id"`
	SIDs   []string `json:"sids"`
	Role   string   `json:"role"`
	Host   string   `json:"host"`
}

// EventSignalData is a relayed negotiation message. SenderSID is set by the server.
type EventSignalData struct {
	SenderSID  string          `json:"sender_sid"`
	SignalData json.RawMessage `json:"signal_data"`
}

// EventCodeUpdateData carries another member's editor text.
type EventCodeUpdateData struct {
	Code string `json:"code"`
}

// EventEditorStateData carries the shared editor visibility.
type EventEditorStateData struct {
	Visible bool `json:"visible"`
}

// EventCodeResultData carries a shared code run output.
type EventCodeResultData struct {
	Output string `json:"output"`
}

// EventUserLeftData names the connection that left the room.
type EventUserLeftData struct {
	SID string `json:"sid"`
}

// Error describes a protocol-level error response.
type Error struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}
