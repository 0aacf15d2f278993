package livetest

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/onekit-js/onekit-site/pkg/core"
)

// InfoTimeout bounds NextInfo.
var InfoTimeout = 2 * time.Second

// LiveTest is a mounted component with a socket attached.
type LiveTest struct {
	t         testing.TB
	component core.Component
	socket    *core.Socket
	transport *Transport
}

// MountOption configures Mount.
type MountOption func(*mountConfig)

type mountConfig struct {
	params  core.Params
	session core.Session
}

// WithParams sets the mount parameters.
func WithParams(p core.Params) MountOption {
	return func(c *mountConfig) { c.params = p }
}

// WithSession sets the mount session.
func WithSession(s core.Session) MountOption {
	return func(c *mountConfig) { c.session = s }
}

type socketSetter interface {
	SetSocket(*core.Socket)
}

// Mount mounts c and attaches a socket backed by a Transport. The component
// is terminated and the socket closed when the test ends.
func Mount(t testing.TB, c core.Component, opts ...MountOption) *LiveTest {
	t.Helper()
	cfg := mountConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	if err := c.Mount(context.Background(), cfg.params, cfg.session); err != nil {
		t.Fatalf("mount %s: %v", c.Name(), err)
	}

	tr := NewTransport()
	sock := core.NewSocket("sock-"+c.Name(), tr)
	if s, ok := c.(socketSetter); ok {
		s.SetSocket(sock)
	}
	t.Cleanup(func() {
		_ = c.Terminate(context.Background(), core.TerminateNormal)
		_ = sock.Close()
	})

	return &LiveTest{t: t, component: c, socket: sock, transport: tr}
}

// Socket returns the attached socket.
func (lt *LiveTest) Socket() *core.Socket { return lt.socket }

// Transport returns the recording transport.
func (lt *LiveTest) Transport() *Transport { return lt.transport }

// Event delivers a client event to the component.
func (lt *LiveTest) Event(name string, payload map[string]any) error {
	return lt.component.HandleEvent(context.Background(), name, payload)
}

// Render renders the component body.
func (lt *LiveTest) Render() string {
	lt.t.Helper()
	return Render(lt.t, lt.component)
}

// HTML renders the component and returns assertions over the output.
func (lt *LiveTest) HTML() *HTMLAssert {
	lt.t.Helper()
	return AssertHTML(lt.t, lt.Render())
}

// NextInfo waits for the next mailbox message.
func (lt *LiveTest) NextInfo() any {
	lt.t.Helper()
	return NextInfo(lt.t, lt.socket)
}

// Render renders c's body without a layout.
func Render(t testing.TB, c core.Component) string {
	t.Helper()
	var buf bytes.Buffer
	ctx := context.Background()
	if err := c.Render(ctx).Render(ctx, &buf); err != nil {
		t.Fatalf("render %s: %v", c.Name(), err)
	}
	return buf.String()
}

// NextInfo waits up to InfoTimeout for sock's next mailbox message.
func NextInfo(t testing.TB, sock *core.Socket) any {
	t.Helper()
	select {
	case msg := <-sock.Info():
		return msg
	case <-time.After(InfoTimeout):
		t.Fatal("no mailbox message")
		return nil
	}
}
