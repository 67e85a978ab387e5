package core

// Command is an action requested by a client. The set of implementations is
// closed; anything else is rejected by the transport before it reaches the hub.
type Command interface {
	command()
}

// JoinRoom asks to enter a room, creating it if needed.
type JoinRoom struct {
	Room string
}

// SendSignal relays an opaque negotiation payload to another member.
type SendSignal struct {
	Target  string
	Payload []byte
}

// ChangeCode shares new editor text with the rest of the room.
type ChangeCode struct {
	Room string
	Code string
}

// ToggleEditor shows or hides the shared editor panel for the whole room.
type ToggleEditor struct {
	Room    string
	Visible bool
}

// ShareResult shares the output of an external code run with the whole room.
type ShareResult struct {
	Room   string
	Output string
}

func (JoinRoom) command() {}
func (SendSignal) command() {}
func (ChangeCode) command() {}
func (ToggleEditor) command() {}
func (ShareResult) command() {}
