package protocol

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

var (
	ErrInvalidMessage = errors.New("invalid message format")
	ErrUnknownCodec   = errors.New("unknown codec type")
)

// Codec turns frames into bytes and back. The browser client speaks JSON;
// msgpack and the Phoenix tuple form serve tooling that dials a page.
type Codec interface {
	// Name is the value clients pass as ?vsn= to select the codec.
	Name() string
	// Binary reports whether frames go out as binary websocket messages.
	Binary() bool
	Encode(msg *Message) ([]byte, error)
	Decode(data []byte) (*Message, error)
}

// ObjectCodec encodes a Message as a keyed object with a pluggable
// marshaller.
type ObjectCodec struct {
	name      string
	binary    bool
	marshal   func(any) ([]byte, error)
	unmarshal func([]byte, any) error
}

// NewJSONCodec returns the codec the browser client uses.
func NewJSONCodec() *ObjectCodec {
	return &ObjectCodec{name: "json", marshal: json.Marshal, unmarshal: json.Unmarshal}
}

// NewMsgPackCodec returns a binary codec.
func NewMsgPackCodec() *ObjectCodec {
	return &ObjectCodec{name: "msgpack", binary: true, marshal: msgpack.Marshal, unmarshal: msgpack.Unmarshal}
}

func (c *ObjectCodec) Name() string { return c.name }
func (c *ObjectCodec) Binary() bool { return c.binary }

func (c *ObjectCodec) Encode(msg *Message) ([]byte, error) {
	return c.marshal(msg)
}

// Decode rejects frames that carry neither a topic nor an event.
func (c *ObjectCodec) Decode(data []byte) (*Message, error) {
	var msg Message
	if err := c.unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("%s: %w", c.name, err)
	}
	if msg.Topic == "" && msg.Event == "" {
		return nil, ErrInvalidMessage
	}
	msg.Type = eventToType(msg.Event)
	return &msg, nil
}

// PhoenixCodec encodes frames as [join_ref, ref, topic, event, payload]
// with null for missing refs.
type PhoenixCodec struct{}

func NewPhoenixCodec() *PhoenixCodec { return &PhoenixCodec{} }

func (*PhoenixCodec) Name() string { return "phoenix" }
func (*PhoenixCodec) Binary() bool { return false }

func (*PhoenixCodec) Encode(msg *Message) ([]byte, error) {
	return json.Marshal([5]any{orNull(msg.JoinRef), orNull(msg.Ref), msg.Topic, msg.Event, msg.Payload})
}

func orNull(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// Decode requires exactly five elements with string topic and event. A
// payload that is not an object decodes as empty.
func (*PhoenixCodec) Decode(data []byte) (*Message, error) {
	var tuple []json.RawMessage
	if err := json.Unmarshal(data, &tuple); err != nil {
		return nil, fmt.Errorf("phoenix: %w", err)
	}
	if len(tuple) != 5 {
		return nil, ErrInvalidMessage
	}

	msg := Message{JoinRef: optString(tuple[0]), Ref: optString(tuple[1])}
	if err := json.Unmarshal(tuple[2], &msg.Topic); err != nil {
		return nil, fmt.Errorf("phoenix topic: %w", err)
	}
	if err := json.Unmarshal(tuple[3], &msg.Event); err != nil {
		return nil, fmt.Errorf("phoenix event: %w", err)
	}
	if err := json.Unmarshal(tuple[4], &msg.Payload); err != nil || msg.Payload == nil {
		msg.Payload = map[string]any{}
	}
	msg.Type = eventToType(msg.Event)
	return &msg, nil
}

// optString reads a ref that may be null or of the wrong type; both read
// as absent.
func optString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// CodecRegistry resolves ?vsn= values. It is filled before the router
// serves and only read afterwards.
type CodecRegistry struct {
	codecs   map[string]Codec
	fallback string
}

// NewCodecRegistry registers json, msgpack and phoenix with json as the
// default.
func NewCodecRegistry() *CodecRegistry {
	r := &CodecRegistry{codecs: map[string]Codec{}, fallback: "json"}
	for _, c := range []Codec{NewJSONCodec(), NewMsgPackCodec(), NewPhoenixCodec()} {
		r.Register(c)
	}
	return r
}

// Register adds or replaces the codec under its name.
func (r *CodecRegistry) Register(c Codec) {
	r.codecs[c.Name()] = c
}

func (r *CodecRegistry) Get(name string) (Codec, bool) {
	c, ok := r.codecs[name]
	return c, ok
}

// Negotiate returns the codec a client asked for. An empty name selects
// the default.
func (r *CodecRegistry) Negotiate(name string) (Codec, error) {
	if name == "" {
		name = r.fallback
	}
	if c, ok := r.codecs[name]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
}

func (r *CodecRegistry) Default() Codec {
	return r.codecs[r.fallback]
}

// SetDefault makes name the codec used when clients send no ?vsn=.
func (r *CodecRegistry) SetDefault(name string) error {
	if _, ok := r.codecs[name]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownCodec, name)
	}
	r.fallback = name
	return nil
}
