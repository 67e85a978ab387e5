package core

// Role is the part a user plays in a room.
type Role string

const (
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
)

// HostElection records the owner of each live room: the user id of whoever
// created it. An assignment is never changed while the room lives.
// It is not synchronized on its own; RoomRegistry.mu guards it.
type HostElection struct {
	hosts map[string]string
}

func newHostElection() HostElection {
	return HostElection{hosts: make(map[string]string)}
}

// assign sets the host of roomID unless one is already set.
func (h *HostElection) assign(roomID, userID string) bool {
	if _, exists := h.hosts[roomID]; exists {
		return false
	}
	h.hosts[roomID] = userID
	return true
}

func (h *HostElection) hostOf(roomID string) (string, bool) {
	userID, ok := h.hosts[roomID]
	return userID, ok
}

func (h *HostElection) isHost(roomID, userID string) bool {
	host, ok := h.hosts[roomID]
	return ok && host == userID
}

func (h *HostElection) clear(roomID string) {
	delete(h.hosts, roomID)
}

func roleFor(host, userID string) Role {
	if host != "" && host == userID {
		return RoleTeacher
	}
	return RoleStudent
}
