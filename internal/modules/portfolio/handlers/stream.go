package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/aristath/riskparity/internal/modules/portfolio"
)

const streamWriteTimeout = 10 * time.Second

// StreamHandler serves the WebSocket recompute stream. Each inbound message
// is one input tuple (the current slider state); each outbound message is the
// corresponding metrics record. No state is kept between messages.
type StreamHandler struct {
	service *portfolio.Service
	log     zerolog.Logger
}

// streamReply is the per-message response envelope. Exactly one of Data and
// Error is set.
type streamReply struct {
	Data  *portfolio.Metrics `json:"data,omitempty"`
	Error string             `json:"error,omitempty"`
}

// NewStreamHandler creates a new stream handler
func NewStreamHandler(service *portfolio.Service, log zerolog.Logger) *StreamHandler {
	return &StreamHandler{
		service: service,
		log:     log.With().Str("handler", "stream").Logger(),
	}
}

// ServeHTTP handles GET /api/portfolio/stream
func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		// The API is already CORS-open; the portal may be served from a dev
		// origin during local frontend work.
		InsecureSkipVerify: true,
	})
	if err != nil {
		h.log.Warn().Err(err).Msg("WebSocket accept failed")
		return
	}

	connID := uuid.New().String()
	log := h.log.With().Str("conn_id", connID).Logger()
	log.Debug().Msg("Stream connected")

	defer conn.Close(websocket.StatusInternalError, "internal error")

	ctx := r.Context()
	for {
		var in portfolio.Inputs
		if err := wsjson.Read(ctx, conn, &in); err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
				log.Debug().Msg("Stream closed by client")
			} else if ctx.Err() == nil {
				log.Debug().Err(err).Msg("Stream read failed")
			}
			conn.Close(websocket.StatusNormalClosure, "")
			return
		}

		reply := streamReply{}
		if metrics, err := h.service.Metrics(in); err != nil {
			reply.Error = err.Error()
		} else {
			reply.Data = &metrics
		}

		writeCtx, cancel := context.WithTimeout(ctx, streamWriteTimeout)
		err := wsjson.Write(writeCtx, conn, reply)
		cancel()
		if err != nil {
			log.Debug().Err(err).Msg("Stream write failed")
			conn.Close(websocket.StatusNormalClosure, "")
			return
		}
	}
}
