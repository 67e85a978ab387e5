package http

import (
	stdhttp "net/http"
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/classroom-server/internal/config"
	"github.com/vovakirdan/classroom-server/internal/core"
)

// Hub is the part of the coordination core the transport needs.
type Hub interface {
	RegisterClient(c *core.Client) error
	UnregisterClient(c *core.Client)
	Handle(c *core.Client, cmd core.Command)
	Rooms() []core.RoomInfo
	Room(roomID string) (core.RoomInfo, error)
	Role(roomID, userID string) core.Role
	Connection(connID string) (core.Connection, error)
	Stats() (connections, rooms int)
}

// NewServer builds the HTTP server: health, metrics, the signaling
// websocket and the read-only room API.
func NewServer(hub Hub, cfg *config.Config, logger *zerolog.Logger, metrics stdhttp.Handler) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)
	httpLog := logger.With().Str("component", "http").Logger()

	identity := newIdentityResolver(cfg)

	router := gin.New()
	router.Use(gin.Recovery(), LoggerMiddleware(&httpLog))

	router.GET("/health", healthHandler(hub))
	if metrics != nil {
		router.GET("/metrics", gin.WrapH(metrics))
	}

	rooms := NewRoomHandlers(hub, &httpLog)
	api := router.Group("/api")
	api.Use(AuthMiddleware(identity, &httpLog))
	api.GET("/rooms", rooms.ListRooms)
	api.GET("/rooms/:id", rooms.GetRoom)
	api.GET("/rooms/:id/role", rooms.GetRole)
	api.POST("/meetings", rooms.CreateMeeting)

	// The websocket endpoint stays off the gin engine: gin's writer refuses the
	// hijack the upgrade needs. Origins for /ws are checked on accept.
	mux := stdhttp.NewServeMux()
	mux.Handle("/ws", NewWSHandler(hub, identity, cfg, logger))
	mux.Handle("/", cors.New(corsOptions(cfg.CORSOrigins)).Handler(router))

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

// corsOptions allows credentialed requests only from an explicit origin list;
// a wildcard would otherwise reflect any origin together with credentials.
func corsOptions(origins []string) cors.Options {
	return cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{stdhttp.MethodGet, stdhttp.MethodPost, stdhttp.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: len(origins) > 0 && !slices.Contains(origins, "*"),
	}
}

// HealthResponse reports liveness plus current load.
type HealthResponse struct {
	Status      string `json:"status"`
	Connections int    `json:"connections"`
	Rooms       int    `json:"rooms"`
}

func healthHandler(hub Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		conns, rooms := hub.Stats()
		c.JSON(stdhttp.StatusOK, HealthResponse{Status: "ok", Connections: conns, Rooms: rooms})
	}
}
