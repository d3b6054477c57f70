package notify

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/matzehuels/astviz/pkg/cache"
	"github.com/matzehuels/astviz/pkg/errors"
)

// HandlerFunc receives each decoded change. A returned error is logged and
// the subscription continues.
type HandlerFunc func(ctx context.Context, change DocumentChange) error

// DefaultReconnect is the backoff used to (re)establish a connection.
var DefaultReconnect = cache.Backoff{Attempts: 5, Delay: 500 * time.Millisecond, MaxDelay: 10 * time.Second}

// Subscriber listens to a language service's document-change stream.
type Subscriber struct {
	URL     string
	Handler HandlerFunc
	Logger  *log.Logger

	// Reconnect bounds each connection attempt; zero uses DefaultReconnect.
	Reconnect cache.Backoff
	// Dialer defaults to websocket.DefaultDialer.
	Dialer *websocket.Dialer
}

// Run connects and delivers changes until ctx is cancelled, reconnecting
// whenever the connection drops. It returns nil on cancellation and an
// ErrCodeNetwork error once a reconnect gives up.
func (s *Subscriber) Run(ctx context.Context) error {
	if s.Handler == nil {
		return errors.New(errors.ErrCodeInvalidInput, "subscriber has no handler")
	}
	if err := errors.ValidateURL(s.URL); err != nil {
		return err
	}
	logger := s.logger()

	for {
		conn, err := s.connect(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		logger.Info("connected to language service", "url", s.URL)

		err = s.consume(ctx, conn)
		conn.Close()
		if ctx.Err() != nil {
			return nil
		}
		logger.Warn("connection lost, reconnecting", "url", s.URL, "error", err)
	}
}

func (s *Subscriber) connect(ctx context.Context) (*websocket.Conn, error) {
	dialer := s.Dialer
	if dialer == nil {
		dialer = websocket.DefaultDialer
	}
	backoff := s.Reconnect
	if backoff.Attempts == 0 {
		backoff = DefaultReconnect
	}

	var conn *websocket.Conn
	err := cache.RetryWithBackoffConfig(ctx, backoff, func() error {
		c, _, err := dialer.DialContext(ctx, s.URL, nil)
		if err != nil {
			s.logger().Debug("dial failed", "url", s.URL, "error", err)
			return cache.Retryable(err)
		}
		conn = c
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "connect to %s", s.URL)
	}
	return conn, nil
}

// consume reads until the connection fails or ctx ends.
func (s *Subscriber) consume(ctx context.Context, conn *websocket.Conn) error {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
			conn.Close()
		case <-done:
		}
	}()

	logger := s.logger()
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		var change DocumentChange
		if err := json.Unmarshal(msg, &change); err != nil {
			logger.Warn("ignoring malformed change", "error", err)
			continue
		}
		logger.Debug("document changed", "uri", change.URI, "bytes", len(change.Content),
			"diagnostics", len(change.Diagnostics))
		if err := s.Handler(ctx, change); err != nil {
			logger.Error("handle change", "uri", change.URI, "error", err)
		}
	}
}

func (s *Subscriber) logger() *log.Logger {
	if s.Logger == nil {
		return log.New(io.Discard)
	}
	return s.Logger
}
