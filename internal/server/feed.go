package server

import (
	"net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog/log"

	"github.com/watzon/tock/internal/events"
	"github.com/watzon/tock/internal/metrics"
)

// FeedHandler streams run lifecycle events over a websocket.
type FeedHandler struct {
	bus *events.Bus
}

func NewFeedHandler(bus *events.Bus) *FeedHandler {
	return &FeedHandler{bus: bus}
}

// HandleWebSocket upgrades the connection and forwards bus events until the
// client disconnects.
func (h *FeedHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to accept WebSocket connection")
		return
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	ch, unsub := h.bus.Subscribe()
	defer unsub()

	metrics.SetFeedSubscribers(h.bus.Subscribers())
	defer func() { metrics.SetFeedSubscribers(h.bus.Subscribers() - 1) }()

	// The client sends nothing; CloseRead surfaces disconnects as context
	// cancellation.
	ctx := conn.CloseRead(r.Context())

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			if err := wsjson.Write(ctx, conn, event); err != nil {
				return
			}
		}
	}
}
