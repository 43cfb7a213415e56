package websocket

import "github.com/campusroll/attendance-backend/internal/model"

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionPing      Action = "ping"
	ActionSubscribe Action = "subscribe"
)

// RequestEnvelope is every message a live feed client may send.
// ClassID is only read for subscribe; zero means every class.
type RequestEnvelope struct {
	Action  Action `json:"action"`
	ClassID int    `json:"class_id"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventError      Event = "error"
	EventSubscribed Event = "subscribed"
	EventAttendance Event = "attendance"
	EventPong       Event = "pong"
)

// SubscribedResponse confirms which class the connection now follows.
type SubscribedResponse struct {
	Event   Event `json:"event"`
	ClassID int   `json:"class_id"`
}

// AttendanceResponse forwards one published mark.
type AttendanceResponse struct {
	Event Event                 `json:"event"`
	Data  model.AttendanceEvent `json:"data"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
