package handler

import (
	"net/http"

	"github.com/fieldworks/fleet-tracking/internal/domain/models"
	"github.com/fieldworks/fleet-tracking/pkg/logger"
	wrap "github.com/fieldworks/fleet-tracking/pkg/logger/wrapper"
	"github.com/fieldworks/fleet-tracking/pkg/metrics"
	"github.com/fieldworks/fleet-tracking/pkg/wshub"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// DispatchWS upgrades dispatcher consoles to WebSocket and registers them on
// the live-location hub. Messages are pushed by the location consumer; the
// read loop only keeps the connection alive and detects disconnects.
type DispatchWS struct {
	hub *wshub.Hub
	l   logger.Logger
}

func NewDispatchWS(hub *wshub.Hub, l logger.Logger) *DispatchWS {
	return &DispatchWS{
		hub: hub,
		l:   l,
	}
}

// LiveFeed godoc
// @Summary      Live location feed
// @Description  WebSocket stream of newly ingested GPS fixes
// @Tags         Dispatch
// @Security     BearerAuth
// @Router       /ws/dispatch [get]
func (h *DispatchWS) LiveFeed(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "dispatch_live_feed")
	user := models.UserFromContext(ctx)

	wsConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to upgrade websocket", err)
		return
	}

	conn := wshub.NewConn(ctx, user.ID, wsConn)
	if err := h.hub.Add(conn); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to register websocket connection", err)
		_ = conn.Close()
		return
	}

	metrics.WebSocketConnectionsGauge.WithLabelValues("fleet-tracking").Inc()
	h.l.Info(ctx, "dispatch console connected", "client_id", user.ID)

	defer func() {
		_ = h.hub.Remove(conn)
		metrics.WebSocketConnectionsGauge.WithLabelValues("fleet-tracking").Dec()
		h.l.Info(ctx, "dispatch console disconnected", "client_id", user.ID)
	}()

	// Inbound messages are ignored; the loop exits when the peer goes away.
	_ = conn.Listen(func(msg map[string]any) error { return nil })
}
