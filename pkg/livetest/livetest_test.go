package livetest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onekit-js/onekit-site/pkg/core"
)

type counter struct {
	core.BaseComponent
	count int
}

func (c *counter) Name() string { return "counter" }

func (c *counter) Mount(ctx context.Context, params core.Params, session core.Session) error {
	c.count = params.Int("start", 0)
	return nil
}

func (c *counter) HandleEvent(ctx context.Context, event string, payload map[string]any) error {
	switch event {
	case "inc":
		c.count++
		return c.Socket().Push("changed", map[string]any{"count": c.count})
	case "later":
		return c.Socket().SendInfo("tick")
	}
	return errors.New("unknown event")
}

func (c *counter) Render(ctx context.Context) core.Renderer {
	return core.RendererFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<div id="counter" class="box big"><span>%d</span><button lv-click="inc">+</button></div>`, c.count)
		return err
	})
}

func TestMount(t *testing.T) {
	lt := Mount(t, &counter{}, WithParams(core.Params{"start": "4"}))

	assert.Equal(t, `<div id="counter" class="box big"><span>4</span><button lv-click="inc">+</button></div>`, lt.Render())

	require.NoError(t, lt.Event("inc", nil))
	lt.HTML().HasText("<span>5</span>").HasID("counter").HasClass("big").HasElement("button", `lv-click="inc"`)

	assert.True(t, lt.Transport().Sent("changed"))
	assert.Equal(t, []string{"changed"}, lt.Transport().Events())
}

func TestNextInfo(t *testing.T) {
	lt := Mount(t, &counter{})
	require.NoError(t, lt.Event("later", nil))
	assert.Equal(t, "tick", lt.NextInfo())
}

func TestTransport(t *testing.T) {
	tr := NewTransport()
	_, ok := tr.Last()
	assert.False(t, ok)

	require.NoError(t, tr.Send(core.Message{Event: "a"}))
	last, ok := tr.Last()
	require.True(t, ok)
	assert.Equal(t, "a", last.Event)

	boom := errors.New("boom")
	tr.SetError(boom)
	assert.ErrorIs(t, tr.Send(core.Message{Event: "b"}), boom)

	require.NoError(t, tr.Close())
	assert.False(t, tr.IsConnected())
	tr.SetError(nil)
	assert.ErrorIs(t, tr.Send(core.Message{Event: "c"}), core.ErrSocketClosed)

	tr.Reset()
	assert.True(t, tr.IsConnected())
	assert.Empty(t, tr.Messages())
}

func TestHTMLAssert_Failures(t *testing.T) {
	rec := &recorder{TB: t}
	AssertHTML(rec, `<p class="lead">hi</p>`).
		HasElement("div").
		HasClass("le").
		HasID("x").
		NoText("hi").
		HasText("hi")
	assert.Equal(t, 4, rec.errors)
}

type recorder struct {
	testing.TB
	errors int
}

func (r *recorder) Helper() {}

func (r *recorder) Errorf(format string, args ...any) { r.errors++ }
