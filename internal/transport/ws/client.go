package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/mcoot/bullscows/internal/api/apierr"
	"github.com/mcoot/bullscows/internal/broadcast"
	"github.com/mcoot/bullscows/internal/model"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBufferSize = 256

	// requestTimeout bounds store calls made for a single message
	requestTimeout = 10 * time.Second
)

// eventProtocolError reports a message the gateway could not route
const eventProtocolError model.EventType = "error"

type subscription struct {
	hub *broadcast.Hub
	sub *broadcast.Subscriber
}

// client is a single WebSocket connection. Only writePump writes to the
// connection; everything else goes through send.
type client struct {
	id      string
	gateway *Gateway
	conn    *websocket.Conn
	ctx     context.Context
	send    chan broadcast.Event
	done    chan struct{}
	logger  *slog.Logger

	closeOnce sync.Once
	wg        sync.WaitGroup

	mu   sync.Mutex
	subs map[model.RoomID]*subscription
}

func newClient(ctx context.Context, g *Gateway, conn *websocket.Conn, seq uint64) *client {
	id := "ws-" + strconv.FormatUint(seq, 10)
	return &client{
		id:      id,
		gateway: g,
		conn:    conn,
		ctx:     ctx,
		send:    make(chan broadcast.Event, sendBufferSize),
		done:    make(chan struct{}),
		logger:  g.logger.With(slog.String("client_id", id)),
		subs:    make(map[model.RoomID]*subscription),
	}
}

// follow subscribes the client to a hub. The empty room id is the global hub.
func (c *client) follow(hub *broadcast.Hub, roomID model.RoomID) {
	c.mu.Lock()
	if _, ok := c.subs[roomID]; ok {
		c.mu.Unlock()
		return
	}
	sub := hub.Subscribe(c.id)
	c.subs[roomID] = &subscription{hub: hub, sub: sub}
	c.mu.Unlock()

	c.wg.Add(1)
	go c.forward(roomID, sub)
}

func (c *client) unfollow(roomID model.RoomID) {
	c.mu.Lock()
	s, ok := c.subs[roomID]
	delete(c.subs, roomID)
	c.mu.Unlock()

	if ok {
		s.hub.Unsubscribe(s.sub)
	}
}

func (c *client) isFollowing(roomID model.RoomID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.subs[roomID]
	return ok
}

// forward copies hub events into the send queue until the hub or client stops
func (c *client) forward(roomID model.RoomID, sub *broadcast.Subscriber) {
	defer c.wg.Done()
	for {
		select {
		case event, ok := <-sub.Events():
			if !ok {
				c.mu.Lock()
				if s, ok := c.subs[roomID]; ok && s.sub == sub {
					delete(c.subs, roomID)
				}
				c.mu.Unlock()
				return
			}
			select {
			case c.send <- event:
			case <-c.done:
				return
			}
		case <-c.done:
			return
		}
	}
}

func (c *client) close() {
	c.closeOnce.Do(func() {
		close(c.done)

		c.mu.Lock()
		subs := c.subs
		c.subs = make(map[model.RoomID]*subscription)
		c.mu.Unlock()

		for _, s := range subs {
			s.hub.Unsubscribe(s.sub)
		}
		c.wg.Wait()
		_ = c.conn.Close()
	})
}

func (c *client) readPump() {
	defer c.close()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn("websocket read error", slog.String("error", err.Error()))
			}
			return
		}

		var env Envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			c.reply(eventProtocolError, "", model.ErrorPayload{
				Code:    apierr.CodeInvalidRequest,
				Message: "message must be a JSON envelope",
			})
			continue
		}
		c.handle(env)
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case event := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(event); err != nil {
				c.logger.Warn("websocket write error", slog.String("error", err.Error()))
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.done:
			_ = c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait))
			return
		}
	}
}

// reply queues a requester-directed event
func (c *client) reply(eventType model.EventType, roomID model.RoomID, payload any) {
	event := broadcast.Event{
		Type:      eventType,
		RoomID:    roomID,
		Payload:   payload,
		Timestamp: c.gateway.clock.Now(),
	}
	select {
	case c.send <- event:
	case <-c.done:
	}
}

func (c *client) replyError(msgType string, err error) {
	var status int
	var apiErr apierr.APIError
	if matchTypes[msgType] {
		status, apiErr = apierr.ResolveMatch(err)
	} else {
		status, apiErr = apierr.Resolve(err)
	}

	if status >= http.StatusInternalServerError {
		c.logger.Error("message failed",
			slog.String("type", msgType),
			slog.String("error", err.Error()))
	}

	c.reply(errorReplies[msgType], "", model.ErrorPayload{Code: apiErr.Code, Message: apiErr.Message})
}

func (c *client) handle(env Envelope) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("panic handling message",
				slog.String("type", env.Type),
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())))
			c.replyError(env.Type, apierr.NewInternalError())
		}
	}()

	var handler func(context.Context, json.RawMessage) error
	switch env.Type {
	case TypeCreateRoom:
		handler = c.createRoom
	case TypeJoinRoom:
		handler = c.joinRoom
	case TypeMakeGuess:
		handler = c.makeGuess
	case TypeRecordAttempt:
		handler = c.recordAttempt
	case TypeGameCompleted:
		handler = c.gameCompleted
	case TypeUpdateScore:
		handler = c.updateScore
	case TypeSubscribe:
		handler = c.subscribe
	default:
		c.reply(eventProtocolError, "", model.ErrorPayload{
			Code:    apierr.CodeInvalidRequest,
			Message: fmt.Sprintf("unknown message type %q", env.Type),
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.ctx, requestTimeout)
	defer cancel()

	if err := handler(ctx, env.Payload); err != nil {
		c.replyError(env.Type, err)
	}
}

func decode[T any](raw json.RawMessage) (T, error) {
	var v T
	if len(raw) == 0 {
		return v, apierr.NewInvalidRequestError("payload is required")
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, apierr.NewInvalidRequestError("invalid payload: " + err.Error())
	}
	return v, nil
}

// ensureFollowing subscribes to a live room's events
func (c *client) ensureFollowing(ctx context.Context, roomID model.RoomID) error {
	if roomID == "" {
		return apierr.NewInvalidRequestError("roomId is required")
	}
	if c.isFollowing(roomID) {
		return nil
	}
	hub, err := c.gateway.hubs.GetLiveHub(ctx, roomID, func(ctx context.Context, id model.RoomID) error {
		_, err := c.gateway.rooms.GetRoom(ctx, id)
		return err
	})
	if err != nil {
		return err
	}
	c.follow(hub, roomID)
	return nil
}

func (c *client) createRoom(ctx context.Context, raw json.RawMessage) error {
	p, err := decode[CreateRoomPayload](raw)
	if err != nil {
		return err
	}

	room, err := c.gateway.rooms.CreateRoom(ctx, p.PlayerName, p.ExpectedPlayers, p.Username)
	if err != nil {
		return err
	}

	c.follow(c.gateway.hubs.GetOrCreateHub(room.ID), room.ID)
	c.reply(model.EventRoomCreated, room.ID, model.RoomCreatedPayload{RoomID: room.ID})
	return nil
}

func (c *client) joinRoom(ctx context.Context, raw json.RawMessage) error {
	p, err := decode[JoinRoomPayload](raw)
	if err != nil {
		return err
	}

	// Follow first so the joiner sees its own playerJoined and startMatch
	wasFollowing := c.isFollowing(p.RoomID)
	if err := c.ensureFollowing(ctx, p.RoomID); err != nil {
		return err
	}

	room, err := c.gateway.rooms.JoinRoom(ctx, p.RoomID, p.PlayerName, p.Username)
	if err != nil {
		if !wasFollowing {
			c.unfollow(p.RoomID)
		}
		return err
	}

	c.reply(model.EventJoinedRoom, room.ID, model.JoinedRoomPayload{RoomID: room.ID, Players: room.Players})
	return nil
}

func (c *client) makeGuess(ctx context.Context, raw json.RawMessage) error {
	p, err := decode[MakeGuessPayload](raw)
	if err != nil {
		return err
	}
	if err := c.ensureFollowing(ctx, p.RoomID); err != nil {
		return err
	}
	_, err = c.gateway.matches.SubmitGuess(ctx, p.RoomID, p.PlayerName, p.Guess)
	return err
}

func (c *client) recordAttempt(ctx context.Context, raw json.RawMessage) error {
	p, err := decode[RecordAttemptPayload](raw)
	if err != nil {
		return err
	}
	if err := c.ensureFollowing(ctx, p.RoomID); err != nil {
		return err
	}
	return c.gateway.matches.RecordAttempt(ctx, p.RoomID, p.PlayerName)
}

func (c *client) gameCompleted(ctx context.Context, raw json.RawMessage) error {
	p, err := decode[GameCompletedPayload](raw)
	if err != nil {
		return err
	}
	if err := c.ensureFollowing(ctx, p.RoomID); err != nil {
		return err
	}
	return c.gateway.matches.CompleteGame(ctx, p.RoomID, p.PlayerName, p.TimeTaken)
}

func (c *client) updateScore(ctx context.Context, raw json.RawMessage) error {
	p, err := decode[UpdateScorePayload](raw)
	if err != nil {
		return err
	}
	if err := c.ensureFollowing(ctx, p.RoomID); err != nil {
		return err
	}
	return c.gateway.matches.UpdateScore(ctx, p.RoomID, p.PlayerName, p.Score)
}

func (c *client) subscribe(ctx context.Context, raw json.RawMessage) error {
	p, err := decode[SubscribePayload](raw)
	if err != nil {
		return err
	}
	if err := c.ensureFollowing(ctx, p.RoomID); err != nil {
		return err
	}
	c.reply(model.EventSubscribed, p.RoomID, SubscribedPayload{RoomID: p.RoomID})
	return nil
}
