package http

import (
	"github.com/gin-gonic/gin"

	"nxt-watch/infrastructure/realtime"
	"nxt-watch/infrastructure/utils"
	"nxt-watch/interfaces/middleware"
	"nxt-watch/usecase"
)

type IEventHandler interface {
	Stream(ctx *gin.Context)
}

type EventHandler struct {
	hub *realtime.Hub
}

func NewEventHandler(hub *realtime.Hub) IEventHandler {
	return &EventHandler{hub: hub}
}

// Stream handles GET /api/events, a server-sent event stream of the session's screen transitions
func (h *EventHandler) Stream(ctx *gin.Context) {
	session, _ := middleware.Session(ctx)
	h.hub.Serve(ctx, utils.SessionKey(session.Token))
}

// ScreenPublisher forwards screen transitions to the hub
func ScreenPublisher(hub *realtime.Hub) usecase.Publisher {
	return func(token string, state usecase.ScreenState) {
		hub.Broadcast(utils.SessionKey(token), realtime.ScreenEvent{
			Screen: state.Name,
			Status: state.Status.String(),
			View:   string(state.View),
			Params: state.Params,
			Seq:    state.Seq,
		})
	}
}
