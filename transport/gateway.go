// Package transport connects the moderation core to the chat gateway.
// The gateway speaks JSON frames over a single websocket: inbound
// message/command events, and outbound requests acknowledged by frames
// carrying the request's correlation id.
package transport

import (
	"chat-guard/contract"
	"chat-guard/domain"
	"chat-guard/domain/event"
	apperrors "chat-guard/errors"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Frame is the wire envelope. Replies reference the request through
// ReplyTo; Error is set instead of Payload when the gateway refuses a
// request.
type Frame struct {
	ID      uuid.UUID       `json:"id"`
	ReplyTo *uuid.UUID      `json:"reply_to,omitempty"`
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
	Error   string          `json:"error,omitempty"`
}

const (
	frameMessage       = "message"
	frameEditedMessage = "edited_message"
	frameCommand       = "command"
	frameAck           = "ack"
	frameError         = "error"

	frameDeleteMessage = "delete_message"
	frameSendMessage   = "send_message"
	frameResolveUser   = "resolve_user"
)

type messagePayload struct {
	ChatID    string `json:"chat_id"`
	ChatType  string `json:"chat_type"`
	UserID    int64  `json:"user_id"`
	MessageID int64  `json:"message_id"`
	Text      string `json:"text,omitempty"`
	Caption   string `json:"caption,omitempty"`
	Date      int64  `json:"date"`
	EditDate  int64  `json:"edit_date,omitempty"`
}

func (p messagePayload) isGroup() bool {
	return p.ChatType == "group" || p.ChatType == "supergroup"
}

type deletePayload struct {
	ChatID    string `json:"chat_id"`
	MessageID int64  `json:"message_id"`
}

type sendPayload struct {
	ChatID string `json:"chat_id"`
	Text   string `json:"text"`
}

type resolvePayload struct {
	UserID int64 `json:"user_id"`
}

type userPayload struct {
	Name    string `json:"name"`
	Mention string `json:"mention"`
}

// Ensure the Gateway satisfies both roles it plays.
var (
	_ contract.Transport = (*Gateway)(nil)
	_ contract.Worker    = (*Gateway)(nil)
)

// Gateway is the websocket client. Run owns the read side and feeds the
// event channels; outbound calls share the connection behind a write
// lock and wait on a per-request reply channel. There is no reconnect
// logic here: Run returns on a dropped connection and the supervisor
// restarts it.
type Gateway struct {
	log         *slog.Logger
	url         string
	token       string
	callTimeout time.Duration

	events   chan event.Message
	commands chan event.Command

	mu   sync.Mutex // guards conn and serializes writes
	conn *websocket.Conn

	pmu     sync.Mutex
	pending map[uuid.UUID]chan Frame
}

func NewGateway(log *slog.Logger, url, token string, callTimeout time.Duration, bufferSize int) *Gateway {
	return &Gateway{
		log:         log,
		url:         url,
		token:       token,
		callTimeout: callTimeout,
		events:      make(chan event.Message, bufferSize),
		commands:    make(chan event.Command, bufferSize),
		pending:     make(map[uuid.UUID]chan Frame),
	}
}

func (g *Gateway) Events() <-chan event.Message {
	return g.events
}

func (g *Gateway) Commands() <-chan event.Command {
	return g.commands
}

// Run dials the gateway and pumps inbound frames until the connection
// drops or the context is canceled.
func (g *Gateway) Run(ctx context.Context) error {
	header := http.Header{}
	header.Set("Authorization", "Bearer "+g.token)

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, g.url, header)
	if err != nil {
		return fmt.Errorf("gateway dial %s: %w", g.url, err)
	}
	g.setConn(conn)
	defer g.dropConn()

	// Unblock ReadJSON when the context goes away.
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	g.log.Info("Gateway connected", "url", g.url)
	for {
		var frame Frame
		if err = conn.ReadJSON(&frame); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("gateway read: %w", err)
		}
		g.route(frame)
	}
}

func (g *Gateway) route(frame Frame) {
	switch frame.Type {
	case frameMessage, frameEditedMessage:
		payload, ok := g.decodeMessage(frame)
		if !ok || !payload.isGroup() {
			return
		}
		evt := event.Message{
			EventID: frame.ID,
			Chat:    domain.ChatID(payload.ChatID),
			User:    domain.UserID(payload.UserID),
			Message: domain.MessageID(payload.MessageID),
			Text:    payload.Text,
			Caption: payload.Caption,
			At:      time.Unix(payload.Date, 0).UTC(),
		}
		if frame.Type == frameEditedMessage {
			evt.Edited = true
			evt.EditedAt = time.Unix(payload.EditDate, 0).UTC()
		}
		// Never block the read pump: call acks arrive on the same
		// socket, and a wedged pump would time out every in-flight
		// call. A full buffer drops the event instead.
		select {
		case g.events <- evt:
		default:
			g.log.Warn("Event buffer full, message dropped",
				"chat", evt.Chat, "user", evt.User, "message", evt.Message)
		}
	case frameCommand:
		payload, ok := g.decodeMessage(frame)
		if !ok {
			return
		}
		cmd := event.Command{
			EventID: frame.ID,
			Chat:    domain.ChatID(payload.ChatID),
			User:    domain.UserID(payload.UserID),
			Message: domain.MessageID(payload.MessageID),
			Text:    payload.Text,
			At:      time.Unix(payload.Date, 0).UTC(),
		}
		select {
		case g.commands <- cmd:
		default:
			g.log.Warn("Command buffer full, command dropped",
				"chat", cmd.Chat, "user", cmd.User)
		}
	case frameAck, frameError:
		g.deliver(frame)
	default:
		g.log.Debug("Unknown frame type ignored", "type", frame.Type)
	}
}

func (g *Gateway) decodeMessage(frame Frame) (messagePayload, bool) {
	var payload messagePayload
	if err := json.Unmarshal(frame.Payload, &payload); err != nil {
		g.log.Warn("Unreadable frame payload", "type", frame.Type, "error", err)
		return messagePayload{}, false
	}
	return payload, true
}

func (g *Gateway) deliver(frame Frame) {
	if frame.ReplyTo == nil {
		g.log.Warn("Reply frame without correlation id")
		return
	}
	g.pmu.Lock()
	ch, ok := g.pending[*frame.ReplyTo]
	delete(g.pending, *frame.ReplyTo)
	g.pmu.Unlock()
	if !ok {
		g.log.Debug("Reply for unknown call", "reply_to", *frame.ReplyTo)
		return
	}
	ch <- frame
}

// call sends a request frame and waits for its ack within the call
// timeout. One round-trip, no retries.
func (g *Gateway) call(ctx context.Context, frameType string, payload any) (Frame, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Frame{}, err
	}
	frame := Frame{ID: uuid.New(), Type: frameType, Payload: data}

	reply := make(chan Frame, 1)
	g.pmu.Lock()
	g.pending[frame.ID] = reply
	g.pmu.Unlock()
	defer func() {
		g.pmu.Lock()
		delete(g.pending, frame.ID)
		g.pmu.Unlock()
	}()

	g.mu.Lock()
	conn := g.conn
	if conn == nil {
		g.mu.Unlock()
		return Frame{}, apperrors.ErrGatewayDown
	}
	err = conn.WriteJSON(frame)
	g.mu.Unlock()
	if err != nil {
		return Frame{}, fmt.Errorf("gateway write %s: %w", frameType, err)
	}

	timer := time.NewTimer(g.callTimeout)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return Frame{}, ctx.Err()
	case <-timer.C:
		return Frame{}, fmt.Errorf("gateway call %s: timeout after %s", frameType, g.callTimeout)
	case response := <-reply:
		if response.Error != "" {
			return Frame{}, fmt.Errorf("gateway call %s: %s", frameType, response.Error)
		}
		return response, nil
	}
}

func (g *Gateway) DeleteMessage(ctx context.Context, chat domain.ChatID, message domain.MessageID) error {
	_, err := g.call(ctx, frameDeleteMessage, deletePayload{ChatID: string(chat), MessageID: int64(message)})
	return err
}

func (g *Gateway) SendMessage(ctx context.Context, chat domain.ChatID, text string) error {
	_, err := g.call(ctx, frameSendMessage, sendPayload{ChatID: string(chat), Text: text})
	return err
}

func (g *Gateway) ResolveUser(ctx context.Context, user domain.UserID) (contract.UserDisplay, error) {
	response, err := g.call(ctx, frameResolveUser, resolvePayload{UserID: int64(user)})
	if err != nil {
		return contract.UserDisplay{}, err
	}
	var payload userPayload
	if err = json.Unmarshal(response.Payload, &payload); err != nil {
		return contract.UserDisplay{}, fmt.Errorf("resolve user reply: %w", err)
	}
	return contract.UserDisplay{Name: payload.Name, Mention: payload.Mention}, nil
}

func (g *Gateway) setConn(conn *websocket.Conn) {
	g.mu.Lock()
	g.conn = conn
	g.mu.Unlock()
}

func (g *Gateway) dropConn() {
	g.mu.Lock()
	if g.conn != nil {
		_ = g.conn.Close()
		g.conn = nil
	}
	g.mu.Unlock()
}
