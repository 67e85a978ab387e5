package core

import (
	"fmt"
	"sync"
)

// Connection is a point-in-time view of a registered client.
type Connection struct {
	ID     string
	UserID string
	Name   string
	RoomID string // empty until joined
}

type connEntry struct {
	client *Client
	room   string
}

// Connections maps every live connection to its client and current room.
// It is the reverse index used on disconnect.
type Connections struct {
	mu   sync.RWMutex
	byID map[string]*connEntry
}

// NewConnections creates an empty connection registry.
func NewConnections() *Connections {
	return &Connections{byID: make(map[string]*connEntry)}
}

// Register records a new connection.
func (cs *Connections) Register(c *Client) error {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	if _, exists := cs.byID[c.ID]; exists {
		return fmt.Errorf("register %s: %w", c.ID, ErrDuplicateConnection)
	}
	cs.byID[c.ID] = &connEntry{client: c}
	return nil
}

// Lookup returns the user, display name and room of a connection.
func (cs *Connections) Lookup(id string) (Connection, error) {
	cs.mu.RLock()
	defer cs.mu.RUnlock()

	e, ok := cs.byID[id]
	if !ok {
		return Connection{}, fmt.Errorf("lookup %s: %w", id, ErrUnknownConnection)
	}
	return Connection{ID: id, UserID: e.client.UserID, Name: e.client.Name, RoomID: e.room}, nil
}

// Remove drops the connection and returns the room it was last in.
// ok is false when the connection was already gone, which makes the caller's
// disconnect path run at most once per connection.
func (cs *Connections) Remove(id string) (client *Client, roomID string, ok bool) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	e, exists := cs.byID[id]
	if !exists {
		return nil, "", false
	}
	delete(cs.byID, id)
	return e.client, e.room, true
}

// Len reports the number of live connections.
func (cs *Connections) Len() int {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return len(cs.byID)
}

// claimRoom binds a connection to roomID. Binding to the room it is already
// in succeeds; binding to a different one fails with ErrAlreadyInRoom.
func (cs *Connections) claimRoom(id, roomID string) error {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	e, ok := cs.byID[id]
	if !ok {
		return fmt.Errorf("claim room %s for %s: %w", roomID, id, ErrUnknownConnection)
	}
	switch e.room {
	case "", roomID:
		e.room = roomID
		return nil
	default:
		return fmt.Errorf("claim room %s for %s (in %s): %w", roomID, id, e.room, ErrAlreadyInRoom)
	}
}

func (cs *Connections) client(id string) (*Client, bool) {
	cs.mu.RLock()
	defer cs.mu.RUnlock()

	e, ok := cs.byID[id]
	if !ok {
		return nil, false
	}
	return e.client, true
}

func (cs *Connections) clients(ids []string) []*Client {
	cs.mu.RLock()
	defer cs.mu.RUnlock()

	out := make([]*Client, 0, len(ids))
	for _, id := range ids {
		if e, ok := cs.byID[id]; ok {
			out = append(out, e.client)
		}
	}
	return out
}

func (cs *Connections) all() []*Client {
	cs.mu.RLock()
	defer cs.mu.RUnlock()

	out := make([]*Client, 0, len(cs.byID))
	for _, e := range cs.byID {
		out = append(out, e.client)
	}
	return out
}
