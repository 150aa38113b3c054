package v1

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/VictorG0234/EventosQRFerromex-sub002/internal/api/handler/v1/response"
	"github.com/VictorG0234/EventosQRFerromex-sub002/internal/domain"
	"github.com/VictorG0234/EventosQRFerromex-sub002/internal/pkg/eventbus"
)

const (
	liveWriteWait  = 10 * time.Second
	livePongWait   = 60 * time.Second
	livePingPeriod = (livePongWait * 9) / 10
	liveSendBuffer = 64
)

var liveTopics = map[string]struct{}{
	domain.TopicWinnerDrawn:        {},
	domain.TopicDrawCancelled:      {},
	domain.TopicRaffleReset:        {},
	domain.TopicAttendanceRecorded: {},
	domain.TopicAuditRecorded:      {},
}

type EventLookup interface {
	GetEvent(ctx context.Context, id uint) (domain.Event, error)
}

type liveClient struct {
	conn    *websocket.Conn
	send    chan []byte
	eventID uint
}

// LiveHub fans bus messages out to the websocket clients watching the same event.
type LiveHub struct {
	uSvc       UserService
	events     EventLookup
	upgrader   websocket.Upgrader
	clients    map[*liveClient]struct{}
	broadcast  chan domain.LiveMessage
	register   chan *liveClient
	unregister chan *liveClient
	done       chan struct{}
}

func NewLiveHub(uSvc UserService, events EventLookup, allowedOrigins []string) *LiveHub {
	return &LiveHub{
		uSvc:   uSvc,
		events: events,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		clients:    make(map[*liveClient]struct{}),
		broadcast:  make(chan domain.LiveMessage, 256),
		register:   make(chan *liveClient),
		unregister: make(chan *liveClient),
		done:       make(chan struct{}),
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	if len(allowed) == 0 {
		return func(*http.Request) bool { return true }
	}

	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		set[o] = struct{}{}
	}

	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := set[origin]
		return ok
	}
}

// Run owns the client set until ctx is cancelled.
func (h *LiveHub) Run(ctx context.Context) {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = struct{}{}
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
		case msg := <-h.broadcast:
			data, err := json.Marshal(msg)
			if err != nil {
				zap.L().Error("live message marshal failed", zap.String("type", msg.Type), zap.Error(err))
				continue
			}
			for client := range h.clients {
				if client.eventID != msg.EventID {
					continue
				}
				select {
				case client.send <- data:
				default:
					delete(h.clients, client)
					close(client.send)
				}
			}
		case <-ctx.Done():
			close(h.done)
			for client := range h.clients {
				delete(h.clients, client)
				close(client.send)
			}
			return
		}
	}
}

// Forward is the bus handler feeding the hub.
func (h *LiveHub) Forward(ctx context.Context, msg eventbus.Message) {
	if _, ok := liveTopics[msg.Topic]; !ok {
		return
	}

	payload := msg.Payload
	// Dashboards see who acted, not from where.
	if rec, ok := payload.(domain.ChangeRecord); ok {
		rec.Actor.IPAddress = ""
		rec.Actor.UserAgent = ""
		payload = rec
	}

	live := domain.LiveMessage{
		Type:      msg.Topic,
		EventID:   msg.EventID,
		Payload:   payload,
		Timestamp: msg.Timestamp,
	}

	select {
	case h.broadcast <- live:
	case <-h.done:
	case <-ctx.Done():
	}
}

// HandleLive godoc
// @Summary      Live feed of an event
// @Description  Streams winners, cancelled draws, attendances and audit records of the event as JSON messages.
// @Description  Browsers may pass the JWT in the token query parameter.
// @Tags         live
// @Param        eventID   path      int     true   "event ID"
// @Param        token     query     string  false  "JWT when the Authorization header cannot be set"
// @Success      101      {string}   string  "Switching Protocols"
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Router       /events/{eventID}/live [get]
// @Security     BearerAuth
func (h *LiveHub) HandleLive(ctx *gin.Context) {
	if _, respErr := getUserFromContext(ctx, h.uSvc); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	eventID, ok := paramID(ctx, "eventID")
	if !ok {
		return
	}
	if _, err := h.events.GetEvent(ctx.Request.Context(), eventID); err != nil {
		renderServiceErr(ctx, "v1.HandleLive -> h.events.GetEvent", err)
		return
	}

	conn, err := h.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		zap.L().Warn("websocket upgrade failed", zap.Uint("event_id", eventID), zap.Error(err))
		return
	}

	client := &liveClient{
		conn:    conn,
		send:    make(chan []byte, liveSendBuffer),
		eventID: eventID,
	}
	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump(h)
}

func (c *liveClient) writePump() {
	ticker := time.NewTicker(livePingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(liveWriteWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(liveWriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump only watches for the peer going away; clients never send data.
func (c *liveClient) readPump(h *LiveHub) {
	defer func() {
		select {
		case h.unregister <- c:
		case <-h.done:
		}
		c.conn.Close()
	}()

	_ = c.conn.SetReadDeadline(time.Now().Add(livePongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(livePongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				zap.L().Info("live client closed", zap.Uint("event_id", c.eventID), zap.Error(err))
			}
			return
		}
	}
}
