package core

import "fmt"

// Relay forwards an opaque negotiation payload from sender to target inside
// roomID. Both must currently be members; otherwise nothing is delivered and
// ErrStaleTarget is returned. The sender id on the delivered event is always
// senderID, whatever the payload claims.
//
// Signals from one sender to one target arrive in send order; there is no
// ordering across senders, no retry and no buffering beyond the target's queue.
func (h *Hub) Relay(roomID, senderID, targetID string, payload []byte) error {
	if !h.rooms.IsMember(roomID, senderID) || !h.rooms.IsMember(roomID, targetID) {
		h.observer.SignalDropped()
		return fmt.Errorf("relay %s -> %s in %s: %w", senderID, targetID, roomID, ErrStaleTarget)
	}
	target, ok := h.conns.client(targetID)
	if !ok {
		h.observer.SignalDropped()
		return fmt.Errorf("relay %s -> %s in %s: %w", senderID, targetID, roomID, ErrStaleTarget)
	}

	h.send(target, &Event{
		Kind:    EventSignal,
		Room:    roomID,
		ConnID:  senderID,
		Payload: payload,
	})
	h.observer.SignalRelayed()
	return nil
}

// signal relays within the sender's current room. Stale targets are logged
// and swallowed: the peer has most likely just left.
func (h *Hub) signal(senderID string, cmd SendSignal) error {
	conn, err := h.conns.Lookup(senderID)
	if err != nil {
		return err
	}
	if err := h.Relay(conn.RoomID, senderID, cmd.Target, cmd.Payload); err != nil {
		h.log.Debug().
			Err(err).
			Str("room", conn.RoomID).
			Str("from", senderID).
			Str("to", cmd.Target).
			Msg("signal dropped")
	}
	return nil
}
