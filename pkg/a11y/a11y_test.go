package a11y

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onekit-js/onekit-site/pkg/core"
)

type sink struct {
	mu   sync.Mutex
	msgs []core.Message
}

func (s *sink) Send(msg core.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.msgs = append(s.msgs, msg)
	return nil
}

func (s *sink) Close() error      { return nil }
func (s *sink) IsConnected() bool { return true }

func TestLiveRegion_RenderHTML(t *testing.T) {
	assert.Equal(t,
		`<div id="announcer" role="status" aria-live="polite" aria-relevant="additions text" class="sr-only"></div>`,
		NewLiveRegion("announcer").RenderHTML())

	assert.Equal(t,
		`<div id="alerts" role="status" aria-live="assertive" aria-relevant="all" aria-atomic="true" class="sr-only"></div>`,
		NewLiveRegion("alerts", WithPoliteness(Assertive), WithRelevant("all"), Atomic()).RenderHTML())
}

func TestLiveRegion_Announce(t *testing.T) {
	tr := &sink{}
	sock := core.NewSocket("s1", tr)
	defer sock.Close()

	lr := NewLiveRegion("announcer")
	require.NoError(t, lr.Announce(sock, "Copied to clipboard"))
	require.NoError(t, lr.Announce(sock, ""))
	require.NoError(t, lr.Announce(nil, "nobody listens"))

	require.Len(t, tr.msgs, 1)
	assert.Equal(t, AnnounceEvent, tr.msgs[0].Event)
	assert.Equal(t, "Copied to clipboard", tr.msgs[0].Payload["message"])
	assert.Equal(t, Polite, tr.msgs[0].Payload["politeness"])
}

func TestLiveRegion_AnnounceClosedSocket(t *testing.T) {
	sock := core.NewSocket("s2", &sink{})
	require.NoError(t, sock.Close())
	assert.NoError(t, NewLiveRegion("announcer").Announce(sock, "late"))
}

func TestAttributes(t *testing.T) {
	assert.Equal(t, `<a href="#main-content" class="skip-link">Skip to main content</a>`, SkipLink("main-content", "Skip to main content"))
	assert.Equal(t, `aria-label="Say &#34;hi&#34;"`, AriaLabel(`Say "hi"`))
	assert.Equal(t, `aria-expanded="false"`, AriaExpanded(false))
	assert.Equal(t, `aria-controls="nav-links"`, AriaControls("nav-links"))
}
