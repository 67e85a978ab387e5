package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// Hub coordinates connections, rooms and hosts. It drives the connection
// lifecycle (register, join, disconnect) and owns signal relay and room
// broadcast. All methods are safe for concurrent use.
type Hub struct {
	conns    *Connections
	rooms    *RoomRegistry
	observer Observer
	log      zerolog.Logger
}

// NewHub creates a hub with empty registries. A nil observer or logger is
// replaced with a no-op.
func NewHub(logger *zerolog.Logger, observer Observer) *Hub {
	if observer == nil {
		observer = nopObserver{}
	}
	l := zerolog.Nop()
	if logger != nil {
		l = logger.With().Str("component", "hub").Logger()
	}
	return &Hub{
		conns:    NewConnections(),
		rooms:    NewRoomRegistry(),
		observer: observer,
		log:      l,
	}
}

// Run blocks until ctx is cancelled, then closes every live client so their
// transports wind down and disconnect.
func (h *Hub) Run(ctx context.Context) {
	<-ctx.Done()

	clients := h.conns.all()
	for _, c := range clients {
		c.Close()
	}
	h.log.Info().Int("clients", len(clients)).Msg("hub stopped")
}

// RegisterClient records a new connection and greets it with its id.
func (h *Hub) RegisterClient(c *Client) error {
	if err := h.conns.Register(c); err != nil {
		return err
	}
	h.observer.ConnectionOpened()
	h.log.Debug().Str("conn_id", c.ID).Str("user_id", c.UserID).Msg("client registered")

	h.send(c, &Event{Kind: EventConnected, ConnID: c.ID, UserID: c.UserID, Name: c.Name})
	return nil
}

// UnregisterClient runs the disconnect transition for c.
func (h *Hub) UnregisterClient(c *Client) {
	h.Disconnect(c.ID)
}

// Handle executes one client command. Domain errors are reported back to the
// client as EventError; dropped signals are not reported.
func (h *Hub) Handle(c *Client, cmd Command) {
	var err error
	switch cmd := cmd.(type) {
	case JoinRoom:
		_, err = h.Join(c.ID, cmd.Room)
	case SendSignal:
		err = h.signal(c.ID, cmd)
	case ChangeCode:
		err = h.changeCode(c.ID, cmd)
	case ToggleEditor:
		err = h.toggleEditor(c.ID, cmd)
	case ShareResult:
		err = h.shareResult(c.ID, cmd)
	default:
		err = coreError(ErrCodeInvalidMessage, fmt.Sprintf("unsupported command %T", cmd))
	}
	if err != nil {
		h.reportError(c, err)
	}
}

// JoinResult is what a joining connection is told.
type JoinResult struct {
	Room         string
	Participants []string
	Role         Role
	Host         string
	Created      bool
}

// Join places connID in roomID. The first joiner of a fresh room becomes its
// host. The joiner alone receives the list of members already present;
// existing members are not notified.
func (h *Hub) Join(connID, roomID string) (JoinResult, error) {
	conn, err := h.conns.Lookup(connID)
	if err != nil {
		return JoinResult{}, err
	}
	if err := h.conns.claimRoom(connID, roomID); err != nil {
		return JoinResult{}, err
	}

	created, err := h.rooms.Join(roomID, connID, conn.UserID)
	if err != nil {
		if errors.Is(err, ErrCorrupted) {
			h.log.Panic().Err(err).Str("room", roomID).Msg("room registry corrupted")
		}
		return JoinResult{}, err
	}
	if created {
		h.observer.RoomOpened()
		h.log.Info().Str("room", roomID).Str("host", conn.UserID).Msg("room created")
	}

	// A disconnect that raced this join has already run; undo the membership.
	if _, err := h.conns.Lookup(connID); err != nil {
		h.leave(roomID, connID)
		return JoinResult{}, err
	}

	peers, err := h.rooms.MembersOf(roomID, connID)
	if err != nil {
		return JoinResult{}, err
	}
	host, _ := h.rooms.HostOf(roomID)
	res := JoinResult{
		Room:         roomID,
		Participants: peers,
		Role:         roleFor(host, conn.UserID),
		Host:         host,
		Created:      created,
	}

	h.log.Debug().
		Str("room", roomID).
		Str("conn_id", connID).
		Str("role", string(res.Role)).
		Int("peers", len(peers)).
		Msg("client joined")

	if c, ok := h.conns.client(connID); ok {
		h.send(c, &Event{
			Kind:         EventExistingParticipants,
			Room:         roomID,
			ConnID:       connID,
			Participants: peers,
			Role:         res.Role,
			Host:         host,
		})
	}
	return res, nil
}

// Disconnect removes connID from the registries and tells the rest of its
// room. Only the first call for a connection has any effect.
func (h *Hub) Disconnect(connID string) {
	c, roomID, ok := h.conns.Remove(connID)
	if !ok {
		return
	}
	c.Close()
	h.observer.ConnectionClosed()
	h.log.Debug().Str("conn_id", connID).Str("room", roomID).Msg("client unregistered")

	if roomID == "" {
		return
	}
	remaining := h.leave(roomID, connID)
	if len(remaining) == 0 {
		return
	}
	h.deliverAll(remaining, &Event{Kind: EventUserLeft, Room: roomID, ConnID: connID})
}

// Role returns the role userID holds in roomID.
func (h *Hub) Role(roomID, userID string) Role {
	if h.rooms.IsHost(roomID, userID) {
		return RoleTeacher
	}
	return RoleStudent
}

// Rooms returns snapshots of every live room.
func (h *Hub) Rooms() []RoomInfo {
	return h.rooms.Rooms()
}

// Room returns a snapshot of roomID.
func (h *Hub) Room(roomID string) (RoomInfo, error) {
	return h.rooms.Room(roomID)
}

// Connection looks up a live connection.
func (h *Hub) Connection(connID string) (Connection, error) {
	return h.conns.Lookup(connID)
}

// Stats reports the number of live connections and rooms.
func (h *Hub) Stats() (connections, rooms int) {
	return h.conns.Len(), h.rooms.Len()
}

func (h *Hub) leave(roomID, connID string) []string {
	remaining, empty := h.rooms.Leave(roomID, connID)
	if empty {
		h.observer.RoomClosed()
		h.log.Info().Str("room", roomID).Msg("room closed")
	}
	return remaining
}

// roomOf returns the room connID is in, requiring it to match the room the
// client addressed.
func (h *Hub) roomOf(connID, addressed string) (string, error) {
	conn, err := h.conns.Lookup(connID)
	if err != nil {
		return "", err
	}
	if conn.RoomID == "" || conn.RoomID != addressed {
		return "", fmt.Errorf("%s addressed %q: %w", connID, addressed, ErrNotInRoom)
	}
	return conn.RoomID, nil
}

func (h *Hub) send(c *Client, ev *Event) {
	if !c.deliver(ev) {
		h.observer.DeliveryDropped(ev.Kind)
		h.log.Debug().Str("conn_id", c.ID).Stringer("event", ev.Kind).Msg("event dropped")
	}
}

func (h *Hub) deliverAll(ids []string, ev *Event) int {
	sent := 0
	for _, c := range h.conns.clients(ids) {
		if c.deliver(ev) {
			sent++
			continue
		}
		h.observer.DeliveryDropped(ev.Kind)
		h.log.Debug().Str("conn_id", c.ID).Stringer("event", ev.Kind).Msg("event dropped")
	}
	return sent
}

func (h *Hub) reportError(c *Client, err error) {
	var ce *CoreError
	switch {
	case errors.As(err, &ce):
	case errors.Is(err, ErrAlreadyInRoom):
		ce = coreError(ErrCodeAlreadyJoined, "already joined another room")
	case errors.Is(err, ErrNotInRoom), errors.Is(err, ErrUnknownRoom):
		ce = coreError(ErrCodeNotInRoom, "not in room")
	case errors.Is(err, ErrUnknownConnection):
		// The connection is already gone; nobody to tell.
		return
	default:
		ce = coreError(ErrCodeBadRequest, err.Error())
	}
	h.log.Debug().Err(err).Str("conn_id", c.ID).Str("code", ce.Code).Msg("command rejected")
	h.send(c, &Event{Kind: EventError, Error: ce})
}
