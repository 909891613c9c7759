package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/usr-annotation-backend/internal/domain/user"
	"github.com/yungbote/usr-annotation-backend/internal/pkg/logger"
	"github.com/yungbote/usr-annotation-backend/internal/realtime"
)

type RealtimeHandler struct {
	log *logger.Logger
	hub *realtime.Hub
}

func NewRealtimeHandler(log *logger.Logger, hub *realtime.Hub) *RealtimeHandler {
	return &RealtimeHandler{log: log.With("handler", "RealtimeHandler"), hub: hub}
}

// GET /events/stream?token=...
// Every caller hears its own channel; admins also hear the admin feed.
func (h *RealtimeHandler) Stream(c *gin.Context) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}
	client := h.hub.NewClient(actor.UserID)
	h.hub.AddChannel(client, realtime.UserChannel(actor.UserID))
	if actor.Role == user.RoleAdmin {
		h.hub.AddChannel(client, realtime.AdminChannel)
	}
	h.log.Info("SSE stream open", "user_id", actor.UserID, "client_id", client.ID)

	h.hub.ServeHTTP(c.Writer, c.Request, client)

	h.hub.CloseClient(client)
	h.log.Info("SSE stream closed", "user_id", actor.UserID, "client_id", client.ID)
}
