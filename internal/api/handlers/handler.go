package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/kle310/EV-ChargeMate/internal/repository"
	"github.com/kle310/EV-ChargeMate/internal/service"
	"github.com/kle310/EV-ChargeMate/pkg/ws"
)

// Handler HTTP handler
type Handler struct {
	logger         *zap.Logger
	stationRepo    *repository.StationRepository
	stationService *service.StationService
	wsHub          *ws.Hub
	upgrader       websocket.Upgrader
}

// NewHandler creates the handler.
func NewHandler(
	logger *zap.Logger,
	stationRepo *repository.StationRepository,
	stationService *service.StationService,
	wsHub *ws.Hub,
) *Handler {
	return &Handler{
		logger:         logger,
		stationRepo:    stationRepo,
		stationService: stationService,
		wsHub:          wsHub,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // dev: allow all origins
			},
		},
	}
}

// RegisterRoutes registers all routes.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api")
	{
		// stations
		api.GET("/stations", h.ListStations)
		api.GET("/stations/:id", h.GetStation)

		// derived status views
		api.GET("/stations/:id/status", h.GetStationStatus)
		api.GET("/stations/:id/history", h.GetStationHistory)
		api.GET("/stations/:id/availability", h.GetStationAvailability)
		api.GET("/stations/:id/insights", h.GetStationInsights)

		// city-wide snapshot
		api.GET("/status", h.GetCityStatus)
	}

	// WebSocket
	r.GET("/ws", h.HandleWebSocket)

	// health check
	r.GET("/health", h.HealthCheck)
}

// HandleWebSocket upgrades the connection and hands it to the hub.
func (h *Handler) HandleWebSocket(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("Failed to upgrade websocket", zap.Error(err))
		return
	}

	client := ws.NewClient(h.wsHub, conn)
	client.Register()

	go client.ReadPump()
	go client.WritePump()
}

// HealthCheck health check
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":     "ok",
		"ws_clients": h.wsHub.ClientCount(),
	})
}
