package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/classroom-server/internal/core"
)

// RoomHandlers serves the read-only view of live rooms.
type RoomHandlers struct {
	hub Hub
	log *zerolog.Logger
}

// NewRoomHandlers creates a new room handlers instance.
func NewRoomHandlers(hub Hub, logger *zerolog.Logger) *RoomHandlers {
	return &RoomHandlers{
		hub: hub,
		log: logger,
	}
}

// RoomSummary is one entry of the room list.
type RoomSummary struct {
	RoomID  string `json:"room_id"`
	Members int    `json:"members"`
	Host    string `json:"host"`
}

// ListRoomsResponse represents the list rooms response.
type ListRoomsResponse struct {
	Rooms []RoomSummary `json:"rooms"`
}

// MemberResponse describes one connection in a room.
type MemberResponse struct {
	SID    string `json:"sid"`
	UserID string `json:"user_id"`
	Name   string `json:"name"`
}

// RoomResponse represents a room in API responses.
type RoomResponse struct {
	RoomID  string           `json:"room_id"`
	Host    string           `json:"host"`
	Members []MemberResponse `json:"members"`
}

// RoleResponse tells the caller its role in a room.
type RoleResponse struct {
	RoomID string `json:"room_id"`
	Role   string `json:"role"`
}

// MeetingResponse carries a freshly minted room id.
type MeetingResponse struct {
	RoomID string `json:"room_id"`
}

// ListRooms handles listing live rooms.
// GET /api/rooms
func (h *RoomHandlers) ListRooms(c *gin.Context) {
	rooms := h.hub.Rooms()
	resp := ListRoomsResponse{Rooms: make([]RoomSummary, 0, len(rooms))}
	for _, r := range rooms {
		resp.Rooms = append(resp.Rooms, RoomSummary{RoomID: r.ID, Members: len(r.Members), Host: r.Host})
	}
	c.JSON(http.StatusOK, resp)
}

// GetRoom handles fetching one room with its members.
// GET /api/rooms/:id
func (h *RoomHandlers) GetRoom(c *gin.Context) {
	roomID := c.Param("id")
	info, err := h.hub.Room(roomID)
	if err != nil {
		if errors.Is(err, core.ErrUnknownRoom) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "room not found"})
			return
		}
		h.log.Error().Err(err).Str("room_id", roomID).Msg("failed to get room")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	resp := RoomResponse{RoomID: info.ID, Host: info.Host, Members: make([]MemberResponse, 0, len(info.Members))}
	for _, sid := range info.Members {
		conn, err := h.hub.Connection(sid)
		if err != nil {
			// Disconnected between the snapshot and now.
			continue
		}
		resp.Members = append(resp.Members, MemberResponse{SID: conn.ID, UserID: conn.UserID, Name: conn.Name})
	}
	c.JSON(http.StatusOK, resp)
}

// GetRole handles resolving the caller's role in a room.
// GET /api/rooms/:id/role
func (h *RoomHandlers) GetRole(c *gin.Context) {
	userID := c.GetString(ContextKeyUserID)
	if userID == "" {
		h.log.Error().Msg("user_id not found in context")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	roomID := c.Param("id")
	c.JSON(http.StatusOK, RoleResponse{RoomID: roomID, Role: string(h.hub.Role(roomID, userID))})
}

// CreateMeeting hands out a new room id. The room itself exists only once
// someone joins it.
// POST /api/meetings
func (h *RoomHandlers) CreateMeeting(c *gin.Context) {
	roomID := uuid.NewString()
	h.log.Debug().Str("room_id", roomID).Str("user_id", c.GetString(ContextKeyUserID)).Msg("meeting id issued")
	c.JSON(http.StatusCreated, MeetingResponse{RoomID: roomID})
}
