// Package content holds the typed, YAML-backed documentation content of the
// site. Content is immutable once loaded; reloads swap whole snapshots.
package content

import "strings"

// Content is one complete, validated snapshot of every page's data.
type Content struct {
	Site         Site
	Home         Home
	Installation Installation
	Usage        Usage
	API          API
	Components   Components
	Showcase     Showcase
	Playground   Playground
	Tutorials    Tutorials
	Examples     Examples
	Frameworks   Frameworks
	Advanced     Advanced
}

// Site is the shared metadata used by the layout shell.
type Site struct {
	Name              string   `yaml:"name"`
	Title             string   `yaml:"title"`
	Description       string   `yaml:"description"`
	SocialDescription string   `yaml:"social_description"`
	Version           string   `yaml:"version"`
	Author            string   `yaml:"author"`
	License           string   `yaml:"license"`
	Keywords          []string `yaml:"keywords"`
	Repository        string   `yaml:"repository"`
	Nav               []Link   `yaml:"nav"`
	Footer            Footer   `yaml:"footer"`
}

// Footer groups the footer links.
type Footer struct {
	Tagline   string      `yaml:"tagline"`
	Groups    []LinkGroup `yaml:"groups"`
	Social    []Link      `yaml:"social"`
	Legal     []Link      `yaml:"legal"`
	Copyright string      `yaml:"copyright"`
}

// Link is a navigation link.
type Link struct {
	Label    string `yaml:"label"`
	Href     string `yaml:"href"`
	External bool   `yaml:"external"`
}

// LinkGroup is a titled list of links.
type LinkGroup struct {
	Title string `yaml:"title"`
	Links []Link `yaml:"links"`
}

// Hero is the heading block every page starts with.
type Hero struct {
	Badge string `yaml:"badge"`
	Title string `yaml:"title"`
	Intro string `yaml:"intro"`
}

// Snippet is a titled, copyable piece of code.
type Snippet struct {
	ID          string `yaml:"id"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Language    string `yaml:"language"`
	Code        string `yaml:"code"`
}

// Feature is a titled selling point, optionally with a short code sample.
type Feature struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Code        string `yaml:"code"`
}

// Stat is a headline number.
type Stat struct {
	Value string `yaml:"value"`
	Label string `yaml:"label"`
}

// Step is one entry of an ordered list.
type Step struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

// Tab is a selectable block of snippets.
type Tab struct {
	ID          string    `yaml:"id"`
	Label       string    `yaml:"label"`
	Description string    `yaml:"description"`
	Snippets    []Snippet `yaml:"snippets"`
}

// CTA is a call to action.
type CTA struct {
	Title     string `yaml:"title"`
	Text      string `yaml:"text"`
	Primary   Link   `yaml:"primary"`
	Secondary Link   `yaml:"secondary"`
}

// Home is the landing page.
type Home struct {
	Hero          Hero      `yaml:"hero"`
	Install       string    `yaml:"install"`
	Stats         []Stat    `yaml:"stats"`
	FeaturesTitle string    `yaml:"features_title"`
	FeaturesIntro string    `yaml:"features_intro"`
	Features      []Feature `yaml:"features"`
	QuickStart    []Tab     `yaml:"quick_start"`
	CoreFeatures  []Feature `yaml:"core_features"`
	Overview      Snippet   `yaml:"overview"`
	CTA           CTA       `yaml:"cta"`
}

// Installation is the installation guide.
type Installation struct {
	Hero    Hero      `yaml:"hero"`
	Methods []Snippet `yaml:"methods"`
	Steps   []Step    `yaml:"steps"`
	Guides  []Tab     `yaml:"guides"`
}

// Method returns the installation method with id.
func (i Installation) Method(id string) (Snippet, bool) {
	return find(i.Methods, func(s Snippet) bool { return s.ID == id })
}

// Difficulty grades examples and tutorials.
type Difficulty string

// Difficulties.
const (
	DifficultyBeginner     Difficulty = "Beginner"
	DifficultyIntermediate Difficulty = "Intermediate"
	DifficultyAdvanced     Difficulty = "Advanced"
)

// Valid reports whether d is a known difficulty.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced:
		return true
	}
	return false
}

// Usage is the usage examples page.
type Usage struct {
	Hero              Hero            `yaml:"hero"`
	SearchPlaceholder string          `yaml:"search_placeholder"`
	Categories        []UsageCategory `yaml:"categories"`
	LearningPath      []Step          `yaml:"learning_path"`
}

// UsageCategory groups examples.
type UsageCategory struct {
	ID          string    `yaml:"id"`
	Title       string    `yaml:"title"`
	Description string    `yaml:"description"`
	Examples    []Example `yaml:"examples"`
}

// Example is a searchable usage example.
type Example struct {
	ID          string     `yaml:"id"`
	Name        string     `yaml:"name"`
	Description string     `yaml:"description"`
	Difficulty  Difficulty `yaml:"difficulty"`
	Tags        []string   `yaml:"tags"`
	Language    string     `yaml:"language"`
	Code        string     `yaml:"code"`
}

// SearchFields exposes the fields the search filter matches.
func (e Example) SearchFields() (name, description string, tags []string) {
	return e.Name, e.Description, e.Tags
}

// Category returns the usage category with id.
func (u Usage) Category(id string) (UsageCategory, bool) {
	return find(u.Categories, func(c UsageCategory) bool { return c.ID == id })
}

// API is the API reference.
type API struct {
	Hero     Hero         `yaml:"hero"`
	Sections []APISection `yaml:"sections"`
}

// APISection documents one module.
type APISection struct {
	ID          string      `yaml:"id"`
	Name        string      `yaml:"name"`
	Summary     string      `yaml:"summary"`
	Description string      `yaml:"description"`
	Notes       string      `yaml:"notes"` // Markdown
	Methods     []APIMethod `yaml:"methods"`
}

// APIMethod documents one function.
type APIMethod struct {
	Name        string     `yaml:"name"`
	Signature   string     `yaml:"signature"`
	Description string     `yaml:"description"`
	Params      []APIParam `yaml:"params"`
	Returns     string     `yaml:"returns"`
	Example     string     `yaml:"example"`
}

// APIParam documents one parameter.
type APIParam struct {
	Name        string `yaml:"name"`
	Type        string `yaml:"type"`
	Description string `yaml:"description"`
}

// Section returns the API section with id.
func (a API) Section(id string) (APISection, bool) {
	return find(a.Sections, func(s APISection) bool { return s.ID == id })
}

// Status marks a component's maturity.
type Status string

// Statuses.
const (
	StatusStable Status = "stable"
	StatusBeta   Status = "beta"
	StatusNew    Status = "new"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusStable, StatusBeta, StatusNew:
		return true
	}
	return false
}

// Components is the component library overview.
type Components struct {
	Hero       Hero                `yaml:"hero"`
	Categories []ComponentCategory `yaml:"categories"`
	Examples   []Snippet           `yaml:"examples"`
}

// ComponentCategory groups components.
type ComponentCategory struct {
	ID          string          `yaml:"id"`
	Name        string          `yaml:"name"`
	Description string          `yaml:"description"`
	Components  []ComponentInfo `yaml:"components"`
}

// ComponentInfo describes one UI component.
type ComponentInfo struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Status      Status `yaml:"status"`
}

// Category returns the component category with id.
func (c Components) Category(id string) (ComponentCategory, bool) {
	return find(c.Categories, func(cc ComponentCategory) bool { return cc.ID == id })
}

// Showcase is the showcase page.
type Showcase struct {
	Hero       Hero               `yaml:"hero"`
	Categories []ShowcaseCategory `yaml:"categories"`
}

// ShowcaseCategory groups showcase items.
type ShowcaseCategory struct {
	ID          string    `yaml:"id"`
	Title       string    `yaml:"title"`
	Description string    `yaml:"description"`
	Items       []Snippet `yaml:"items"`
}

// Category returns the showcase category with id.
func (s Showcase) Category(id string) (ShowcaseCategory, bool) {
	return find(s.Categories, func(c ShowcaseCategory) bool { return c.ID == id })
}

// Playground is the playground page.
type Playground struct {
	Hero     Hero                `yaml:"hero"`
	Examples []PlaygroundExample `yaml:"examples"`
	Tips     []Tip               `yaml:"tips"`
}

// PlaygroundExample is a template with its canned output.
type PlaygroundExample struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Template    string `yaml:"template"`
	Expected    string `yaml:"expected"`
}

// Tip is a short hint.
type Tip struct {
	Title string `yaml:"title"`
	Text  string `yaml:"text"`
}

// Example returns the playground example with id.
func (p Playground) Example(id string) (PlaygroundExample, bool) {
	return find(p.Examples, func(e PlaygroundExample) bool { return e.ID == id })
}

// Tutorials is the tutorials page.
type Tutorials struct {
	Hero   Hero    `yaml:"hero"`
	Levels []Level `yaml:"levels"`
}

// Level groups tutorials by difficulty.
type Level struct {
	ID          string     `yaml:"id"`
	Title       string     `yaml:"title"`
	Description string     `yaml:"description"`
	Duration    string     `yaml:"duration"`
	Tutorials   []Tutorial `yaml:"tutorials"`
}

// Tutorial is an ordered sequence of steps.
type Tutorial struct {
	ID          string         `yaml:"id"`
	Title       string         `yaml:"title"`
	Description string         `yaml:"description"`
	Duration    string         `yaml:"duration"`
	Difficulty  Difficulty     `yaml:"difficulty"`
	Topics      []string       `yaml:"topics"`
	Steps       []TutorialStep `yaml:"steps"`
	Next        string         `yaml:"next"`
}

// TutorialStep is one step of a tutorial.
type TutorialStep struct {
	Title       string `yaml:"title"`
	Explanation string `yaml:"explanation"` // Markdown
	Code        string `yaml:"code"`
}

// Level returns the level with id.
func (t Tutorials) Level(id string) (Level, bool) {
	return find(t.Levels, func(l Level) bool { return l.ID == id })
}

// Tutorial finds a tutorial in any level.
func (t Tutorials) Tutorial(id string) (Tutorial, Level, bool) {
	for _, l := range t.Levels {
		for _, tu := range l.Tutorials {
			if tu.ID == id {
				return tu, l, true
			}
		}
	}
	return Tutorial{}, Level{}, false
}

// Examples is the interactive examples page.
type Examples struct {
	Hero Hero      `yaml:"hero"`
	Tabs []Snippet `yaml:"tabs"`
	Demo Demo      `yaml:"demo"`
}

// Demo seeds the live demo state.
type Demo struct {
	Text  string   `yaml:"text"`
	Items []string `yaml:"items"`
}

// Tab returns the examples tab with id.
func (e Examples) Tab(id string) (Snippet, bool) {
	return find(e.Tabs, func(s Snippet) bool { return s.ID == id })
}

// Frameworks is the framework integration page.
type Frameworks struct {
	Hero       Hero        `yaml:"hero"`
	Frameworks []Framework `yaml:"frameworks"`
}

// Framework holds the guides for one framework.
type Framework struct {
	ID          string    `yaml:"id"`
	Name        string    `yaml:"name"`
	Description string    `yaml:"description"`
	Guides      []Snippet `yaml:"guides"`
}

// Framework returns the framework with id.
func (f Frameworks) Framework(id string) (Framework, bool) {
	return find(f.Frameworks, func(fw Framework) bool { return fw.ID == id })
}

// Guide returns the guide with id.
func (f Framework) Guide(id string) (Snippet, bool) {
	return find(f.Guides, func(s Snippet) bool { return s.ID == id })
}

// Advanced is the advanced topics page.
type Advanced struct {
	Hero   Hero    `yaml:"hero"`
	Topics []Topic `yaml:"topics"`
}

// Topic is one advanced feature area.
type Topic struct {
	ID          string    `yaml:"id"`
	Name        string    `yaml:"name"`
	Description string    `yaml:"description"`
	Snippets    []Snippet `yaml:"snippets"`
}

// Topic returns the topic with id.
func (a Advanced) Topic(id string) (Topic, bool) {
	return find(a.Topics, func(t Topic) bool { return t.ID == id })
}

// Entry is a cross-page search result.
type Entry struct {
	Kind        string   `json:"kind"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Tags        []string `json:"tags,omitempty"`
	URL         string   `json:"url"`
}

// SearchFields exposes the fields the search filter matches.
func (e Entry) SearchFields() (name, description string, tags []string) {
	return e.Name, e.Description, e.Tags
}

// Entries lists usage examples, components and API methods for site-wide
// search, in page order.
func (c *Content) Entries() []Entry {
	var out []Entry
	for _, cat := range c.Usage.Categories {
		for _, ex := range cat.Examples {
			out = append(out, Entry{
				Kind:        "example",
				Name:        ex.Name,
				Description: ex.Description,
				Tags:        append([]string{string(ex.Difficulty)}, ex.Tags...),
				URL:         "/usage?category=" + cat.ID + "#" + ex.ID,
			})
		}
	}
	for _, cat := range c.Components.Categories {
		for _, comp := range cat.Components {
			out = append(out, Entry{
				Kind:        "component",
				Name:        comp.Name,
				Description: comp.Description,
				Tags:        []string{cat.Name, string(comp.Status)},
				URL:         "/components?category=" + cat.ID,
			})
		}
	}
	for _, sec := range c.API.Sections {
		for _, m := range sec.Methods {
			out = append(out, Entry{
				Kind:        "api",
				Name:        m.Name,
				Description: m.Description,
				Tags:        []string{sec.Name},
				URL:         "/docs?section=" + sec.ID + "#" + Anchor(m.Name),
			})
		}
	}
	return out
}

// Anchor returns the fragment id used for an API method heading.
func Anchor(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		case r >= 'A' && r <= 'Z':
			return r + 'a' - 'A'
		default:
			return '-'
		}
	}, name)
}

func find[T any](items []T, match func(T) bool) (T, bool) {
	for _, it := range items {
		if match(it) {
			return it, true
		}
	}
	var zero T
	return zero, false
}
