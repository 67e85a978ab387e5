package core

// BroadcastExclusive delivers ev to every member of roomID except senderID.
// It returns the number of members the event was queued for.
func (h *Hub) BroadcastExclusive(roomID, senderID string, ev *Event) int {
	return h.broadcast(roomID, senderID, ev)
}

// BroadcastInclusive delivers ev to every member of roomID, the originator
// included, so all clients apply the same state through the same path.
func (h *Hub) BroadcastInclusive(roomID string, ev *Event) int {
	return h.broadcast(roomID, "", ev)
}

func (h *Hub) broadcast(roomID, exclude string, ev *Event) int {
	members, err := h.rooms.MembersOf(roomID, exclude)
	if err != nil {
		return 0
	}
	sent := h.deliverAll(members, ev)
	h.observer.Broadcast(ev.Kind, sent)
	return sent
}

func (h *Hub) changeCode(senderID string, cmd ChangeCode) error {
	roomID, err := h.roomOf(senderID, cmd.Room)
	if err != nil {
		return err
	}
	h.BroadcastExclusive(roomID, senderID, &Event{
		Kind:   EventCodeUpdate,
		Room:   roomID,
		ConnID: senderID,
		Code:   cmd.Code,
	})
	return nil
}

func (h *Hub) toggleEditor(senderID string, cmd ToggleEditor) error {
	roomID, err := h.roomOf(senderID, cmd.Room)
	if err != nil {
		return err
	}
	h.BroadcastInclusive(roomID, &Event{
		Kind:    EventEditorStateChanged,
		Room:    roomID,
		ConnID:  senderID,
		Visible: cmd.Visible,
	})
	return nil
}

func (h *Hub) shareResult(senderID string, cmd ShareResult) error {
	roomID, err := h.roomOf(senderID, cmd.Room)
	if err != nil {
		return err
	}
	h.BroadcastInclusive(roomID, &Event{
		Kind:   EventCodeResult,
		Room:   roomID,
		ConnID: senderID,
		Output: cmd.Output,
	})
	return nil
}
