package search

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

type doc struct {
	Name, Desc string
	Tags       []string
}

func (d doc) SearchFields() (string, string, []string) { return d.Name, d.Desc, d.Tags }

var docs = []doc{
	{Name: "Basic Setup", Desc: "Install and initialize OneKit JS", Tags: []string{"setup", "cdn"}},
	{Name: "First Reactive App", Desc: "Create your first reactive application", Tags: []string{"reactive", "state"}},
	{Name: "DOM Manipulation", Desc: "Learn DOM operations", Tags: []string{"dom", "Events"}},
	{Name: "Straße", Desc: "Unicode folding", Tags: nil},
}

func names(ds []doc) []string {
	out := make([]string, 0, len(ds))
	for _, d := range ds {
		out = append(out, d.Name)
	}
	return out
}

func TestFilter(t *testing.T) {
	tests := []struct {
		query string
		want  []string
	}{
		{"", []string{"Basic Setup", "First Reactive App", "DOM Manipulation", "Straße"}},
		{"   ", []string{"Basic Setup", "First Reactive App", "DOM Manipulation", "Straße"}},
		{"REACTIVE", []string{"First Reactive App"}},
		{"  dom ", []string{"DOM Manipulation"}},
		{"events", []string{"DOM Manipulation"}},
		{"in", []string{"Basic Setup", "Straße"}},
		{"strasse", []string{"Straße"}},
		{"zzz", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got := names(Filter(docs, tt.query))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Filter(%q) (-want +got):\n%s", tt.query, diff)
			}
		})
	}
}

func TestFilter_PreservesOrderAndInput(t *testing.T) {
	in := append([]doc(nil), docs...)
	_ = Filter(in, "a")
	assert.Equal(t, docs, in)
}

func TestMatch(t *testing.T) {
	assert.True(t, Match(docs[0], ""))
	assert.True(t, Match(docs[0], "CDN"))
	assert.False(t, Match(docs[0], "vue"))
}

func TestHighlight(t *testing.T) {
	tests := []struct {
		text, query, want string
	}{
		{"Reactive state", "", "Reactive state"},
		{"Reactive state", "STATE", "Reactive <mark>state</mark>"},
		{"a<b>a", "a", "<mark>a</mark>&lt;b&gt;<mark>a</mark>"},
		{"Straße", "SS", "Stra<mark>ß</mark>e"},
		{"nope", "x", "nope"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Highlight(tt.text, tt.query), "Highlight(%q, %q)", tt.text, tt.query)
	}
}
