package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"minesweeper/internal/game"
	"minesweeper/internal/logger"
	"minesweeper/internal/service"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 30 * time.Second
	pingPeriod     = 25 * time.Second
	maxMessageSize = 4096
	commandTimeout = 5 * time.Second
)

type Client struct {
	PlayerID int64
	Conn     *websocket.Conn
	Send     chan []byte
	Hub      *Hub
	Done     chan struct{}

	log *slog.Logger
}

func NewClient(playerID int64, conn *websocket.Conn, hub *Hub) *Client {
	return &Client{
		PlayerID: playerID,
		Conn:     conn,
		Send:     make(chan []byte, 1024),
		Hub:      hub,
		Done:     make(chan struct{}),
		log:      logger.With("component", "ws_client", "player_id", playerID),
	}
}

// Run blocks until the connection is closed.
func (c *Client) Run() {
	c.Hub.Register(c)
	go c.writePump()

	c.reply(MsgReady, nil)

	// если есть активная или сохранённая игра - сразу отдаём состояние
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	if v, err := c.Hub.Sessions.State(ctx, c.PlayerID); err == nil {
		c.reply(MsgState, v)
	}
	cancel()

	c.readPump()
	<-c.Done
}

//read
func (c *Client) readPump() {
	defer func() {
		c.Hub.Unregister(c)
		_ = c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, msg, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Warn("read error", "error", err)
			}
			return
		}
		c.handle(msg)
	}
}

//write
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.Conn.Close()
		close(c.Done)
	}()

	for {
		select {
		case msg, ok := <-c.Send:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				c.log.Debug("write error", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handle runs one client command. Board changes reach the client through
// the hub; only errors and explicit state requests are answered directly.
func (c *Client) handle(raw []byte) {
	var m Message
	if err := json.Unmarshal(raw, &m); err != nil {
		c.replyError("malformed message")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()
	sessions := c.Hub.Sessions

	var err error
	switch m.Type {
	case MsgPing:
		c.reply(MsgPong, nil)
		return
	case MsgState:
		var v game.View
		if v, err = sessions.State(ctx, c.PlayerID); err == nil {
			c.reply(MsgState, v)
		}
	case MsgStart:
		var p StartPayload
		if err = decodePayload(m.Payload, &p); err != nil {
			break
		}
		d := game.Difficulty(p.Difficulty)
		var params *game.Params
		if d == game.Custom {
			params = &game.Params{Rows: p.Rows, Cols: p.Cols, Mines: p.Mines}
		}
		_, err = sessions.Start(ctx, c.PlayerID, d, params)
	case MsgClick, MsgFlag:
		var p CellPayload
		if err = decodePayload(m.Payload, &p); err != nil {
			break
		}
		if m.Type == MsgClick {
			_, err = sessions.Click(ctx, c.PlayerID, p.Row, p.Col)
		} else {
			_, err = sessions.ToggleFlag(ctx, c.PlayerID, p.Row, p.Col)
		}
	case MsgPause:
		_, err = sessions.Pause(ctx, c.PlayerID)
	case MsgResume:
		_, err = sessions.Resume(ctx, c.PlayerID)
	case MsgReset:
		_, err = sessions.Reset(ctx, c.PlayerID)
	default:
		c.replyError("unknown message type: " + m.Type)
		return
	}

	if err != nil {
		c.replyError(errorMessage(err))
	}
}

var errBadPayload = errors.New("invalid payload")

func decodePayload(raw json.RawMessage, dst interface{}) error {
	if len(raw) == 0 {
		return errBadPayload
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return errBadPayload
	}
	return nil
}

func errorMessage(err error) string {
	switch {
	case errors.Is(err, service.ErrNoSession),
		errors.Is(err, service.ErrInvalidCell),
		errors.Is(err, game.ErrInvalidDifficulty),
		errors.Is(err, game.ErrInvalidParams),
		errors.Is(err, errBadPayload):
		return err.Error()
	default:
		return "internal error"
	}
}

// reply queues a message for this connection only. It is called from the
// read loop, before Unregister closes Send.
func (c *Client) reply(msgType string, payload interface{}) {
	msg, err := encode(msgType, payload)
	if err != nil {
		c.log.Error("encode reply failed", "type", msgType, "error", err)
		return
	}
	select {
	case c.Send <- msg:
	default:
		c.log.Warn("send buffer full, dropping reply", "type", msgType)
	}
}

func (c *Client) replyError(message string) {
	c.reply(MsgError, ErrorPayload{Message: message})
}
