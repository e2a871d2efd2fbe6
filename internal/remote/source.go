// Package remote receives raw button events from the remote control over
// WebSocket and feeds them to the gesture classifier.
package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/gorilla/websocket"

	"loxremote/internal/gesture"
)

const reconnectDelay = 2 * time.Second

// frame is the wire format the remote publishes for each physical signal.
type frame struct {
	Button string `json:"button"`
	Event  string `json:"event"`
}

// Source maintains a WebSocket connection to the remote and delivers
// decoded button events. Events for the same button arrive in order.
type Source struct {
	url    string
	logger *slog.Logger
	dialer websocket.Dialer
}

func NewSource(wsURL string, logger *slog.Logger) (*Source, error) {
	if _, err := url.Parse(wsURL); err != nil {
		return nil, fmt.Errorf("invalid remote websocket URL: %w", err)
	}
	return &Source{
		url:    wsURL,
		logger: logger,
		dialer: websocket.Dialer{HandshakeTimeout: 5 * time.Second},
	}, nil
}

// Run connects to the remote and pushes events into the channel until ctx
// is cancelled. Lost connections are re-established after a short delay;
// malformed frames are logged and skipped.
func (s *Source) Run(ctx context.Context, events chan<- gesture.Event) error {
	for {
		conn, _, err := s.dialer.DialContext(ctx, s.url, nil)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			s.logger.Warn("remote connection failed; retrying", "url", s.url, "error", err)
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(reconnectDelay):
			}
			continue
		}

		s.logger.Info("connected to remote", "url", s.url)
		s.readLoop(ctx, conn, events)

		if ctx.Err() != nil {
			return nil
		}
		s.logger.Warn("remote connection lost; reconnecting", "url", s.url)
	}
}

func (s *Source) readLoop(ctx context.Context, conn *websocket.Conn, events chan<- gesture.Event) {
	defer conn.Close()

	// Unblock ReadMessage when the context is cancelled.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}

		ev, err := decodeFrame(data)
		if err != nil {
			s.logger.Debug("skipping malformed frame", "error", err)
			continue
		}

		select {
		case <-ctx.Done():
			return
		case events <- ev:
		}
	}
}

func decodeFrame(data []byte) (gesture.Event, error) {
	var f frame
	if err := json.Unmarshal(data, &f); err != nil {
		return gesture.Event{}, fmt.Errorf("decoding frame: %w", err)
	}
	if f.Button == "" {
		return gesture.Event{}, fmt.Errorf("frame has no button")
	}

	var kind gesture.EventKind
	switch f.Event {
	case "down":
		kind = gesture.Down
	case "up":
		kind = gesture.Up
	default:
		return gesture.Event{}, fmt.Errorf("unknown frame event %q", f.Event)
	}

	return gesture.Event{Button: f.Button, Kind: kind, Time: time.Now()}, nil
}
