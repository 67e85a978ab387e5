package core

import (
	"fmt"
	"sort"
	"sync"
)

// room is the ordered member set of one live room instance.
// Once closed it is never reopened; a later join creates a new instance.
type room struct {
	mu      sync.Mutex
	id      string
	members []string // join order
	closed  bool
}

func newRoom(id, first string) *room {
	return &room{id: id, members: []string{first}}
}

func (r *room) index(connID string) int {
	for i, id := range r.members {
		if id == connID {
			return i
		}
	}
	return -1
}

// add inserts connID. Returns true if newly added.
func (r *room) add(connID string) bool {
	if r.index(connID) >= 0 {
		return false
	}
	r.members = append(r.members, connID)
	return true
}

// remove deletes connID. Returns true if removed.
func (r *room) remove(connID string) bool {
	i := r.index(connID)
	if i < 0 {
		return false
	}
	r.members = append(r.members[:i], r.members[i+1:]...)
	return true
}

func (r *room) snapshot(exclude string) []string {
	out := make([]string, 0, len(r.members))
	for _, id := range r.members {
		if id != exclude {
			out = append(out, id)
		}
	}
	return out
}

// RoomInfo is a read-only view of a live room.
type RoomInfo struct {
	ID      string
	Members []string
	Host    string
}

// RoomRegistry maps room ids to their member sets and owns host election.
//
// mu guards the rooms map and the host assignments; each room has its own
// lock for membership changes. A room and its host are created under mu in
// one step and deleted under mu in one step, so no reader sees one without
// the other. mu is never held while acquiring a room lock.
type RoomRegistry struct {
	mu    sync.RWMutex
	rooms map[string]*room
	hosts HostElection
}

// NewRoomRegistry creates an empty registry.
func NewRoomRegistry() *RoomRegistry {
	return &RoomRegistry{
		rooms: make(map[string]*room),
		hosts: newHostElection(),
	}
}

// Join adds connID to roomID, creating the room if absent. When the room is
// created, userID becomes its host. Joining a room twice is a no-op.
func (rr *RoomRegistry) Join(roomID, connID, userID string) (created bool, err error) {
	for {
		rr.mu.Lock()
		r, ok := rr.rooms[roomID]
		if !ok {
			if !rr.hosts.assign(roomID, userID) {
				rr.mu.Unlock()
				return false, fmt.Errorf("join %s: host assigned to absent room: %w", roomID, ErrCorrupted)
			}
			rr.rooms[roomID] = newRoom(roomID, connID)
			rr.mu.Unlock()
			return true, nil
		}
		rr.mu.Unlock()

		r.mu.Lock()
		if r.closed {
			// Emptied between lookup and lock; retry against the new instance.
			r.mu.Unlock()
			continue
		}
		r.add(connID)
		r.mu.Unlock()
		return false, nil
	}
}

// Leave removes connID from roomID and returns the remaining members.
// If the room becomes empty it is deleted, together with its host, inside
// this call. Leaving an absent room, or a room the connection is not in, is a
// no-op and returns no members, so nobody is told about a departure that
// never happened.
func (rr *RoomRegistry) Leave(roomID, connID string) (remaining []string, empty bool) {
	rr.mu.RLock()
	r, ok := rr.rooms[roomID]
	rr.mu.RUnlock()
	if !ok {
		return nil, false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, false
	}
	if !r.remove(connID) {
		return nil, false
	}
	if len(r.members) > 0 {
		return r.snapshot(""), false
	}

	r.closed = true
	rr.mu.Lock()
	delete(rr.rooms, roomID)
	rr.hosts.clear(roomID)
	rr.mu.Unlock()
	return nil, true
}

// MembersOf returns the members of roomID in join order, without exclude
// (pass "" to include everyone).
func (rr *RoomRegistry) MembersOf(roomID, exclude string) ([]string, error) {
	r, err := rr.lookup(roomID)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, fmt.Errorf("members of %s: %w", roomID, ErrUnknownRoom)
	}
	return r.snapshot(exclude), nil
}

// IsMember reports whether connID is currently in roomID.
func (rr *RoomRegistry) IsMember(roomID, connID string) bool {
	r, err := rr.lookup(roomID)
	if err != nil {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return !r.closed && r.index(connID) >= 0
}

// HostOf returns the user id owning roomID.
func (rr *RoomRegistry) HostOf(roomID string) (string, bool) {
	rr.mu.RLock()
	defer rr.mu.RUnlock()
	return rr.hosts.hostOf(roomID)
}

// IsHost reports whether userID owns roomID. It matches by user, not by
// connection, so a reconnecting owner is recognised again.
func (rr *RoomRegistry) IsHost(roomID, userID string) bool {
	rr.mu.RLock()
	defer rr.mu.RUnlock()
	return rr.hosts.isHost(roomID, userID)
}

// Room returns a snapshot of one room.
func (rr *RoomRegistry) Room(roomID string) (RoomInfo, error) {
	rr.mu.RLock()
	r, ok := rr.rooms[roomID]
	host, _ := rr.hosts.hostOf(roomID)
	rr.mu.RUnlock()
	if !ok {
		return RoomInfo{}, fmt.Errorf("room %s: %w", roomID, ErrUnknownRoom)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return RoomInfo{}, fmt.Errorf("room %s: %w", roomID, ErrUnknownRoom)
	}
	return RoomInfo{ID: roomID, Members: r.snapshot(""), Host: host}, nil
}

// Rooms returns snapshots of all live rooms ordered by id.
func (rr *RoomRegistry) Rooms() []RoomInfo {
	rr.mu.RLock()
	ids := make([]string, 0, len(rr.rooms))
	for id := range rr.rooms {
		ids = append(ids, id)
	}
	rr.mu.RUnlock()
	sort.Strings(ids)

	out := make([]RoomInfo, 0, len(ids))
	for _, id := range ids {
		info, err := rr.Room(id)
		if err != nil {
			continue // closed since listing
		}
		out = append(out, info)
	}
	return out
}

// Len reports the number of live rooms.
func (rr *RoomRegistry) Len() int {
	rr.mu.RLock()
	defer rr.mu.RUnlock()
	return len(rr.rooms)
}

func (rr *RoomRegistry) lookup(roomID string) (*room, error) {
	rr.mu.RLock()
	defer rr.mu.RUnlock()

	r, ok := rr.rooms[roomID]
	if !ok {
		return nil, fmt.Errorf("room %s: %w", roomID, ErrUnknownRoom)
	}
	return r, nil
}
