package content

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/onekit-js/onekit-site/pkg/logging"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// embeddedMap copies the embedded files so tests can corrupt them.
func embeddedMap(t *testing.T) fstest.MapFS {
	t.Helper()
	m := fstest.MapFS{}
	err := fs.WalkDir(Embedded(), ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := fs.ReadFile(Embedded(), path)
		if err != nil {
			return err
		}
		m[path] = &fstest.MapFile{Data: data}
		return nil
	})
	require.NoError(t, err)
	return m
}

func TestLoad_Embedded(t *testing.T) {
	c, err := Load(Embedded())
	require.NoError(t, err)

	assert.Equal(t, "OneKit JS", c.Site.Name)

	var ids []string
	for _, cat := range c.Usage.Categories {
		ids = append(ids, cat.ID)
	}
	want := []string{"getting-started", "state-management", "animations", "real-world"}
	if diff := cmp.Diff(want, ids); diff != "" {
		t.Errorf("usage categories (-want +got):\n%s", diff)
	}

	var methods []string
	for _, m := range c.Installation.Methods {
		methods = append(methods, m.ID)
	}
	assert.Equal(t, []string{"npm", "yarn", "pnpm", "cdn", "esm"}, methods)

	ex, ok := c.Playground.Example("reactive")
	require.True(t, ok)
	assert.NotEmpty(t, ex.Template)
	assert.NotEmpty(t, ex.Expected)
	assert.Len(t, c.Playground.Examples, 5)

	assert.Len(t, c.Components.Categories, 6)

	for _, cat := range c.Showcase.Categories {
		for _, item := range cat.Items {
			assert.NotEmpty(t, item.Title, "showcase item %s", item.ID)
		}
	}
	assert.Equal(t, "Button Variants", c.Showcase.Categories[0].Items[0].Title)
}

func TestDifficulty_Valid(t *testing.T) {
	for _, d := range []Difficulty{DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced} {
		assert.True(t, d.Valid(), d)
	}
	assert.False(t, Difficulty("Expert").Valid())
	assert.False(t, Difficulty("beginner").Valid())
}

func TestLookups(t *testing.T) {
	c, err := Load(Embedded())
	require.NoError(t, err)

	_, ok := c.Usage.Category("nope")
	assert.False(t, ok)

	tu, lvl, ok := c.Tutorials.Tutorial("todo-app")
	require.True(t, ok)
	assert.Equal(t, "intermediate", lvl.ID)
	assert.NotEmpty(t, tu.Steps)

	fw, ok := c.Frameworks.Framework("vue")
	require.True(t, ok)
	_, ok = fw.Guide("setup")
	assert.True(t, ok)
}

func TestLoad_MissingFile(t *testing.T) {
	m := embeddedMap(t)
	delete(m, "tutorials.yaml")

	_, err := Load(m)
	assert.ErrorIs(t, err, ErrMissingFile)
}

func TestLoad_UnknownField(t *testing.T) {
	m := embeddedMap(t)
	m["examples.yaml"].Data = append(m["examples.yaml"].Data, []byte("\nbogus: true\n")...)

	_, err := Load(m)
	assert.ErrorIs(t, err, ErrInvalidContent)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Content)
		want   string
	}{
		{
			name: "duplicate category id",
			mutate: func(c *Content) {
				c.Usage.Categories[1].ID = c.Usage.Categories[0].ID
			},
			want: "duplicate id",
		},
		{
			name: "empty example id",
			mutate: func(c *Content) {
				c.Usage.Categories[0].Examples[0].ID = ""
			},
			want: "empty id",
		},
		{
			name: "bad difficulty",
			mutate: func(c *Content) {
				c.Usage.Categories[0].Examples[0].Difficulty = "Expert"
			},
			want: "unknown difficulty",
		},
		{
			name: "playground without expected output",
			mutate: func(c *Content) {
				c.Playground.Examples[0].Expected = ""
			},
			want: "expected output is empty",
		},
		{
			name: "tutorial without steps",
			mutate: func(c *Content) {
				c.Tutorials.Levels[0].Tutorials[0].Steps = nil
			},
			want: "no steps",
		},
		{
			name: "dangling next tutorial",
			mutate: func(c *Content) {
				c.Tutorials.Levels[0].Tutorials[0].Next = "missing"
			},
			want: "does not exist",
		},
		{
			name: "bad status",
			mutate: func(c *Content) {
				c.Components.Categories[0].Components[0].Status = "available"
			},
			want: "unknown status",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Load(Embedded())
			require.NoError(t, err)
			tt.mutate(c)
			err = c.Validate()
			require.ErrorIs(t, err, ErrInvalidContent)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestEntries(t *testing.T) {
	c, err := Load(Embedded())
	require.NoError(t, err)

	entries := c.Entries()
	kinds := map[string]int{}
	for _, e := range entries {
		kinds[e.Kind]++
		assert.True(t, strings.HasPrefix(e.URL, "/"), e.URL)
	}
	assert.Equal(t, 10, kinds["example"])
	assert.Equal(t, 36, kinds["component"])
	assert.Positive(t, kinds["api"])
	assert.Equal(t, "fade_in", Anchor("fade_in"))
	assert.Equal(t, "localstorage-set", Anchor("localStorage.set"))
}

func TestStore_ReloadKeepsOldOnError(t *testing.T) {
	m := embeddedMap(t)
	s, err := NewStore(m, logging.NopLogger{})
	require.NoError(t, err)
	before := s.Current()

	m["site.yaml"] = &fstest.MapFile{Data: []byte("name: ''\nnav: []\n")}
	err = s.Reload(t.Context())
	require.ErrorIs(t, err, ErrInvalidContent)
	assert.Same(t, before, s.Current())
}

func TestStore_ReloadNotifies(t *testing.T) {
	m := embeddedMap(t)
	s, err := NewStore(m, logging.NopLogger{})
	require.NoError(t, err)

	ch := make(chan *Content, 1)
	s.Subscribe(ch)

	data := strings.Replace(string(m["site.yaml"].Data), "version: 3.0.0", "version: 3.1.0", 1)
	m["site.yaml"] = &fstest.MapFile{Data: []byte(data)}
	require.NoError(t, s.Reload(t.Context()))

	select {
	case c := <-ch:
		assert.Equal(t, "3.1.0", c.Site.Version)
		assert.Same(t, c, s.Current())
	default:
		t.Fatal("no reload notification")
	}
}

type reloadRecorder struct{ errs []error }

func (r *reloadRecorder) ContentReloaded(err error) { r.errs = append(r.errs, err) }

func TestStore_Observe(t *testing.T) {
	m := embeddedMap(t)
	s, err := NewStore(m, logging.NopLogger{})
	require.NoError(t, err)

	rec := &reloadRecorder{}
	s.Observe(rec)

	require.NoError(t, s.Reload(t.Context()))
	m["site.yaml"] = &fstest.MapFile{Data: []byte("name: ''\nnav: []\n")}
	require.Error(t, s.Reload(t.Context()))

	require.Len(t, rec.errs, 2)
	assert.NoError(t, rec.errs[0])
	assert.ErrorIs(t, rec.errs[1], ErrInvalidContent)
}

func TestStore_Watch(t *testing.T) {
	dir := t.TempDir()
	for name, f := range embeddedMap(t) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), f.Data, 0o600))
	}

	s, err := NewStore(os.DirFS(dir), logging.NopLogger{})
	require.NoError(t, err)
	ch := make(chan *Content, 1)
	s.Subscribe(ch)

	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan error, 1)
	go func() { done <- s.Watch(ctx, dir, 20*time.Millisecond) }()

	path := filepath.Join(dir, "site.yaml")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	updated := strings.Replace(string(data), "version: 3.0.0", "version: 9.9.9", 1)

	// The watcher may not be registered yet; keep touching the file.
	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()
loop:
	for {
		select {
		case c := <-ch:
			assert.Equal(t, "9.9.9", c.Site.Version)
			break loop
		case <-tick.C:
			require.NoError(t, os.WriteFile(path, []byte(updated), 0o600))
		case <-deadline:
			t.Fatal("watcher did not reload")
		}
	}

	cancel()
	require.NoError(t, <-done)
}
