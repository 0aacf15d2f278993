// Package protocol defines the frames exchanged between the browser client
// and a live page: joins, user events, replies, slot diffs and the pushes
// the server sends on its own (theme, reload, announcements).
package protocol

import (
	"time"
)

// MessageType classifies a frame by its event name.
type MessageType uint8

const (
	MsgEvent MessageType = iota
	MsgJoin
	MsgLeave
	MsgReply
	MsgDiff
	MsgError
	MsgHeartbeat
	MsgPush
)

// Event names with protocol meaning. Anything else is a page event.
const (
	EventJoin      = "phx_join"
	EventLeave     = "phx_leave"
	EventReply     = "phx_reply"
	EventError     = "phx_error"
	EventHeartbeat = "heartbeat"
	EventDiff      = "diff"
)

// Reply statuses.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// HeartbeatTopic is the topic heartbeats travel on.
const HeartbeatTopic = "phoenix"

var typeNames = [...]string{
	MsgEvent:     "event",
	MsgJoin:      "join",
	MsgLeave:     "leave",
	MsgReply:     "reply",
	MsgDiff:      "diff",
	MsgError:     "error",
	MsgHeartbeat: "heartbeat",
	MsgPush:      "push",
}

func (mt MessageType) String() string {
	if int(mt) < len(typeNames) {
		return typeNames[mt]
	}
	return "unknown"
}

// eventTypes maps the reserved event names. Server pushes are listed so
// tooling reading a transcript can tell them from page events.
var eventTypes = map[string]MessageType{
	EventJoin:       MsgJoin,
	EventLeave:      MsgLeave,
	EventReply:      MsgReply,
	EventError:      MsgError,
	EventHeartbeat:  MsgHeartbeat,
	"phx_heartbeat": MsgHeartbeat,
	EventDiff:       MsgDiff,
	"set_theme":     MsgPush,
	"reload":        MsgPush,
	"announce":      MsgPush,
}

func eventToType(event string) MessageType {
	if t, ok := eventTypes[event]; ok {
		return t
	}
	return MsgEvent
}

// Message is one frame. Type is derived from Event on decode and never
// travels on the wire.
type Message struct {
	Type MessageType `json:"-" msgpack:"-"`

	JoinRef string         `json:"join_ref,omitempty" msgpack:"join_ref,omitempty"`
	Ref     string         `json:"ref,omitempty" msgpack:"ref,omitempty"`
	Topic   string         `json:"topic" msgpack:"topic"`
	Event   string         `json:"event,omitempty" msgpack:"event,omitempty"`
	Payload map[string]any `json:"payload,omitempty" msgpack:"payload,omitempty"`

	// Timestamp is Unix milliseconds at creation.
	Timestamp int64 `json:"ts,omitempty" msgpack:"ts,omitempty"`
}

// NewMessage returns a frame on topic with an empty payload.
func NewMessage(topic, event string) *Message {
	return &Message{
		Type:      eventToType(event),
		Topic:     topic,
		Event:     event,
		Payload:   map[string]any{},
		Timestamp: time.Now().UnixMilli(),
	}
}

// WithRef sets the correlation ref the reply will echo.
func (m *Message) WithRef(ref string) *Message {
	m.Ref = ref
	return m
}

func (m *Message) WithPayload(payload map[string]any) *Message {
	m.Payload = payload
	return m
}

// GetPayloadString returns payload[key] if it is a string.
func (m *Message) GetPayloadString(key string) string {
	s, _ := m.Payload[key].(string)
	return s
}

// JoinMessage asks to attach to the page behind topic.
func JoinMessage(topic string, params map[string]any) *Message {
	return NewMessage(topic, EventJoin).WithPayload(params)
}

// EventMessage carries a page event such as "select_category" or "copy".
func EventMessage(topic, event string, payload map[string]any) *Message {
	return NewMessage(topic, event).WithPayload(payload)
}

// ReplyMessage answers the frame with the given ref.
func ReplyMessage(ref, topic, status string, response map[string]any) *Message {
	return NewMessage(topic, EventReply).WithRef(ref).WithPayload(map[string]any{
		"status":   status,
		"response": response,
	})
}

func OkReply(ref, topic string, response map[string]any) *Message {
	return ReplyMessage(ref, topic, StatusOK, response)
}

func ErrorReply(ref, topic, reason string) *Message {
	return ReplyMessage(ref, topic, StatusError, map[string]any{"reason": reason})
}

func HeartbeatMessage(ref string) *Message {
	return NewMessage(HeartbeatTopic, EventHeartbeat).WithRef(ref)
}
