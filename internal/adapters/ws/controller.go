// Package ws is the websocket transport: it upgrades connections, runs
// the read/write pumps and turns wire frames into session router calls.
package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/relaychat/relay/internal/app"
	"github.com/relaychat/relay/internal/config"
	"github.com/relaychat/relay/internal/domain"
)

// Inbound event names; anything else is dropped.
const (
	evtJoin    = "join"
	evtMessage = "chat:message"
	evtTyping  = "user:typing"
)

const writeWait = 5 * time.Second

// envelope is the inbound wire frame.
type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type Controller struct {
	Router *app.SessionRouter
	cfg    *config.Config
}

func NewController(router *app.SessionRouter, cfg *config.Config) *Controller {
	return &Controller{Router: router, cfg: cfg}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handle upgrades the request and runs the connection until it drops.
func (ctl *Controller) Handle(ctx context.Context, c *gin.Context) {
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "ws").Msg("upgrade failed")
		return
	}
	ws.SetReadLimit(ctl.cfg.ReadLimit)

	id := domain.ConnID(uuid.NewString())
	conn := newConn(ws)
	log.Info().Str("module", "ws").Str("conn", string(id)).Msg("connection open")

	ctx, cancel := context.WithCancel(ctx)
	ctl.Router.Connect(id, conn)

	go ctl.writePump(ctx, conn)
	go ctl.readPump(ctx, cancel, id, conn)
}

func (ctl *Controller) writePump(ctx context.Context, c *Conn) {
	ticker := time.NewTicker(ctl.cfg.PingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case data, ok := <-c.send:
			if !ok {
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				log.Error().Err(err).Str("module", "ws").Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "ws").Msg("writePump write error")
				return
			}
		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// pongWait gives a peer two ping intervals to answer before the read
// deadline reaps it.
func (ctl *Controller) pongWait() time.Duration {
	return 2 * ctl.cfg.PingPeriod
}

func (ctl *Controller) readPump(ctx context.Context, cancel context.CancelFunc, id domain.ConnID, c *Conn) {
	defer func() {
		// Route the disconnect exactly once, from the read side.
		ctl.Router.Disconnect(id)
		cancel()
		c.Close()
		log.Info().Str("module", "ws").Str("conn", string(id)).Msg("connection closed")
	}()

	if err := c.conn.SetReadDeadline(time.Now().Add(ctl.pongWait())); err != nil {
		log.Error().Err(err).Str("module", "ws").Msg("readPump set deadline")
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(ctl.pongWait()))
	})

	for {
		select {
		case <-ctx.Done():
			return
		default:
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					log.Warn().Err(err).Str("module", "ws").Str("conn", string(id)).Msg("readPump read error")
				}
				return
			}
			ctl.dispatch(ctx, id, data)
		}
	}
}

// dispatch parses one inbound frame. Malformed frames are dropped, not
// answered; the session router applies its own joined-state guards.
func (ctl *Controller) dispatch(ctx context.Context, id domain.ConnID, data []byte) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		log.Debug().Err(err).Str("module", "ws").Str("conn", string(id)).Msg("bad frame")
		return
	}

	switch env.Event {
	case evtJoin:
		var p struct {
			Username string `json:"username"`
		}
		if err := json.Unmarshal(env.Data, &p); err != nil {
			log.Debug().Err(err).Str("module", "ws").Msg("bad join payload")
			return
		}
		ctl.Router.Join(ctx, id, p.Username)
	case evtMessage:
		var p struct {
			Text *string `json:"text"`
		}
		// Absent or non-string text is dropped silently.
		if err := json.Unmarshal(env.Data, &p); err != nil || p.Text == nil {
			return
		}
		ctl.Router.Message(ctx, id, *p.Text)
	case evtTyping:
		var p struct {
			IsTyping *bool `json:"isTyping"`
		}
		if err := json.Unmarshal(env.Data, &p); err != nil || p.IsTyping == nil {
			return
		}
		ctl.Router.Typing(id, *p.IsTyping)
	default:
		log.Debug().Str("module", "ws").Str("event", env.Event).Msg("unknown event")
	}
}
