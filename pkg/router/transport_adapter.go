package router

import (
	"github.com/onekit-js/onekit-site/pkg/core"
	"github.com/onekit-js/onekit-site/pkg/protocol"
	"github.com/onekit-js/onekit-site/pkg/transport"
)

// TransportAdapter lets a core.Socket send through a transport.Transport.
type TransportAdapter struct {
	t transport.Transport
}

// NewTransportAdapter wraps t.
func NewTransportAdapter(t transport.Transport) *TransportAdapter {
	return &TransportAdapter{t: t}
}

// Send converts msg to a protocol push and queues it.
func (a *TransportAdapter) Send(msg core.Message) error {
	out := protocol.NewMessage(msg.Topic, msg.Event).
		WithRef(msg.Ref).
		WithPayload(msg.Payload)
	return a.t.Send(out)
}

// Close closes the underlying transport.
func (a *TransportAdapter) Close() error {
	return a.t.Close()
}

// IsConnected reports whether the underlying transport is connected.
func (a *TransportAdapter) IsConnected() bool {
	return a.t.IsConnected()
}

// Transport returns the wrapped transport.
func (a *TransportAdapter) Transport() transport.Transport {
	return a.t
}
