package notify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/matzehuels/astviz/pkg/errors"
	"github.com/matzehuels/astviz/pkg/observability"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	sendBuffer = 32
)

// Hub serves the live projection endpoint. Each connection is a session with
// its own id; sessions share nothing but the Projector.
type Hub struct {
	Projector Projector
	Logger    *log.Logger

	upgrader websocket.Upgrader
}

// NewHub creates a hub. A nil logger discards output.
func NewHub(p Projector, logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Hub{
		Projector: p,
		Logger:    logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// ServeHTTP upgrades the request and runs the session until the client
// disconnects or the request context ends.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		h.Logger.Debug("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	sessionID := uuid.NewString()
	logger := h.Logger.With("session", sessionID)
	logger.Debug("live session opened")
	defer logger.Debug("live session closed")

	if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	out := make(chan Frame, sendBuffer)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		defer cancel()
		writeLoop(ctx, conn, out)
	}()

	push(ctx, out, Frame{Type: FrameSubscribed, SessionID: sessionID})

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Debug("read failed", "error", err)
			}
			cancel()
			<-writerDone
			return
		}
		observability.Server().OnLiveMessage(ctx, sessionID, "change")
		var change DocumentChange
		if err := json.Unmarshal(msg, &change); err != nil {
			push(ctx, out, Frame{Type: FrameError, Code: string(errors.ErrCodeInvalidInput), Message: "malformed change: " + err.Error()})
			continue
		}
		push(ctx, out, h.answer(ctx, logger, change))
	}
}

func (h *Hub) answer(ctx context.Context, logger *log.Logger, change DocumentChange) Frame {
	if change.Content == "" {
		return Frame{Type: FrameError, URI: change.URI, Code: string(errors.ErrCodeInvalidInput), Message: "content is required"}
	}
	p, err := h.Projector.Project(ctx, change)
	if err != nil {
		logger.Warn("projection failed", "uri", change.URI, "error", err)
		code := errors.GetCode(err)
		if code == "" {
			code = errors.ErrCodeInternal
		}
		return Frame{
			Type:        FrameError,
			URI:         change.URI,
			Diagnostics: change.Diagnostics,
			Code:        string(code),
			Message:     errors.UserMessage(err),
		}
	}
	return Frame{
		Type:        FrameProjection,
		URI:         change.URI,
		Graph:       p.Graph,
		Treemap:     p.Treemap,
		Diagnostics: change.Diagnostics,
	}
}

func push(ctx context.Context, out chan<- Frame, f Frame) {
	select {
	case out <- f:
	case <-ctx.Done():
	}
}

func writeLoop(ctx context.Context, conn *websocket.Conn, in <-chan Frame) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
			return
		case f := <-in:
			if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := conn.WriteJSON(f); err != nil {
				return
			}
		case <-ticker.C:
			if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
