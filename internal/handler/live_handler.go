package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/campusroll/attendance-backend/internal/config"
	"github.com/campusroll/attendance-backend/internal/middleware"
	"github.com/campusroll/attendance-backend/internal/model"
	"github.com/campusroll/attendance-backend/internal/response"
	ws "github.com/campusroll/attendance-backend/internal/websocket"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// allowedOrigins comes from config.Config.AllowedOrigins.
// An empty slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// LiveHandler streams attendance marks to faculty and admins as they happen.
type LiveHandler struct {
	rdb      *redis.Client
	log      zerolog.Logger
	upgrader websocket.Upgrader
}

// NewLiveHandler creates a new LiveHandler.
func NewLiveHandler(rdb *redis.Client, log zerolog.Logger, allowedOrigins []string) *LiveHandler {
	return &LiveHandler{
		rdb:      rdb,
		log:      log.With().Str("component", "live_handler").Logger(),
		upgrader: buildUpgrader(allowedOrigins),
	}
}

// liveChannel picks the class channel, or the all-classes channel for classID 0.
func liveChannel(classID int) string {
	if classID > 0 {
		return config.CacheKey.AttendanceChannel(classID)
	}
	return config.CacheKey.AttendanceAllChannel()
}

// AttendanceFeed godoc
// WS /ws/v1/attendance?token=...&class_id=
// Forwards attendance events from Redis pub/sub. Clients may send
// {"action":"subscribe","class_id":N} to switch class, or {"action":"ping"}.
func (h *LiveHandler) AttendanceFeed(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	classID := 0
	if raw := c.Query("class_id"); raw != "" && raw != "all" {
		id, err := strconv.Atoi(raw)
		if err != nil || id <= 0 {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
			return
		}
		classID = id
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	wsLog := h.log.With().Str("role", string(claims.Role)).Str("code", claims.Code).Logger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	channel := liveChannel(classID)
	sub := h.rdb.Subscribe(ctx, channel)
	defer sub.Close()
	if _, err := sub.Receive(ctx); err != nil {
		wsLog.Error().Err(err).Str("channel", channel).Msg("subscribe failed")
		ws.WriteError(conn, "live feed unavailable")
		return
	}
	if err := ws.WriteTyped(conn, ws.SubscribedResponse{Event: ws.EventSubscribed, ClassID: classID}); err != nil {
		return
	}
	wsLog.Info().Str("channel", channel).Msg("live feed connected")

	requests := make(chan ws.RequestEnvelope)
	go h.readLoop(ctx, cancel, conn, requests, wsLog)

	messages := sub.Channel()
	ping := time.NewTicker(ws.PingPeriod)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			wsLog.Debug().Msg("live feed closed")
			return

		case msg, ok := <-messages:
			if !ok {
				return
			}
			var ev model.AttendanceEvent
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				wsLog.Warn().Err(err).Msg("dropping malformed attendance event")
				continue
			}
			if err := ws.WriteTyped(conn, ws.AttendanceResponse{Event: ws.EventAttendance, Data: ev}); err != nil {
				return
			}

		case req := <-requests:
			switch req.Action {
			case ws.ActionPing:
				if err := ws.WriteTyped(conn, ws.PongResponse{Event: ws.EventPong}); err != nil {
					return
				}
			case ws.ActionSubscribe:
				if req.ClassID < 0 {
					ws.WriteError(conn, "class_id must not be negative")
					continue
				}
				next := liveChannel(req.ClassID)
				if next != channel {
					if err := sub.Unsubscribe(ctx, channel); err != nil {
						wsLog.Warn().Err(err).Str("channel", channel).Msg("unsubscribe failed")
					}
					if err := sub.Subscribe(ctx, next); err != nil {
						wsLog.Error().Err(err).Str("channel", next).Msg("subscribe failed")
						ws.WriteError(conn, "live feed unavailable")
						return
					}
					channel = next
				}
				if err := ws.WriteTyped(conn, ws.SubscribedResponse{Event: ws.EventSubscribed, ClassID: req.ClassID}); err != nil {
					return
				}
			default:
				ws.WriteError(conn, "unknown action: "+string(req.Action))
			}

		case <-ping.C:
			if err := ws.WritePing(conn); err != nil {
				return
			}
		}
	}
}

// readLoop decodes client messages until the connection drops. Only the
// feed loop writes to conn.
func (h *LiveHandler) readLoop(ctx context.Context, cancel context.CancelFunc, conn *websocket.Conn, out chan<- ws.RequestEnvelope, wsLog zerolog.Logger) {
	defer cancel()
	ws.KeepAlive(conn)
	for {
		var req ws.RequestEnvelope
		if err := ws.ReadJSON(conn, &req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				wsLog.Warn().Err(err).Msg("Unexpected close")
			}
			return
		}
		select {
		case out <- req:
		case <-ctx.Done():
			return
		}
	}
}
