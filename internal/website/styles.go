package website

import (
	"fmt"
	"sort"
	"strings"

	"github.com/onekit-js/onekit-site/internal/website/markup"
)

// Colors is the dark palette (WCAG 2.1 AA, 4.5:1 minimum contrast).
var Colors = map[string]string{
	// Backgrounds
	"bg":      "#0F172A",
	"bgAlt":   "#1E293B",
	"bgHover": "#334155",
	"bgCode":  "#0D1117",

	// Text
	"text":      "#F8FAFC",
	"textMuted": "#CBD5E1",
	"textDim":   "#94A3B8",

	// Brand
	"primary":   "#A78BFA",
	"secondary": "#22D3EE",
	"accent":    "#67E8F9",

	// Status
	"success": "#34D399",
	"warning": "#FBBF24",
	"danger":  "#F87171",
	"info":    "#60A5FA",

	// Borders
	"border":      "#334155",
	"borderLight": "#475569",
}

// LightColors overrides Colors when the light theme is active.
var LightColors = map[string]string{
	"bg":          "#FFFFFF",
	"bgAlt":       "#F1F5F9",
	"bgHover":     "#E2E8F0",
	"bgCode":      "#F6F8FA",
	"text":        "#0F172A",
	"textMuted":   "#334155",
	"textDim":     "#475569",
	"primary":     "#6D28D9",
	"secondary":   "#0E7490",
	"accent":      "#0891B2",
	"success":     "#047857",
	"warning":     "#B45309",
	"danger":      "#B91C1C",
	"info":        "#1D4ED8",
	"border":      "#CBD5E1",
	"borderLight": "#94A3B8",
}

// Typography uses the system font stack.
var FontFamily = `system-ui, -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif`
var FontMono = `'SF Mono', SFMono-Regular, ui-monospace, 'DejaVu Sans Mono', Menlo, Consolas, monospace`

// StyleOption customizes the generated CSS.
type StyleOption func(*styleConfig)

type styleConfig struct {
	customColors      map[string]string
	includeReset      bool
	includeAnimations bool
}

// WithCustomColors overrides dark palette entries.
func WithCustomColors(colors map[string]string) StyleOption {
	return func(cfg *styleConfig) {
		for k, v := range colors {
			cfg.customColors[k] = v
		}
	}
}

// WithReset includes a CSS reset
func WithReset(include bool) StyleOption {
	return func(cfg *styleConfig) {
		cfg.includeReset = include
	}
}

// WithAnimations includes animation definitions
func WithAnimations(include bool) StyleOption {
	return func(cfg *styleConfig) {
		cfg.includeAnimations = include
	}
}

// RenderStyles generates the site CSS. The output is deterministic.
func RenderStyles(opts ...StyleOption) string {
	cfg := &styleConfig{
		customColors:      make(map[string]string),
		includeReset:      true,
		includeAnimations: true,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	colors := make(map[string]string, len(Colors))
	for k, v := range Colors {
		colors[k] = v
	}
	for k, v := range cfg.customColors {
		colors[k] = v
	}

	var sb strings.Builder

	if cfg.includeReset {
		sb.WriteString(cssReset())
	}
	sb.WriteString(cssVariables(":root", colors))
	sb.WriteString(cssVariables(markup.LightScope, LightColors))
	sb.WriteString(cssBase())
	sb.WriteString(cssTypography())
	sb.WriteString(cssLayout())
	sb.WriteString(cssHeader())
	sb.WriteString(cssButtons())
	sb.WriteString(cssCards())
	sb.WriteString(cssTabs())
	sb.WriteString(cssBadges())
	sb.WriteString(cssCode())
	sb.WriteString(cssFeedback())
	sb.WriteString(cssPages())
	sb.WriteString(cssFooter())
	if cfg.includeAnimations {
		sb.WriteString(cssAnimations())
	}
	sb.WriteString(cssAccessibility())
	sb.WriteString(cssResponsive())

	return sb.String()
}

// Stylesheet returns the site CSS followed by the highlighter themes.
func Stylesheet(opts ...StyleOption) (string, error) {
	code, err := markup.Default().CSS()
	if err != nil {
		return "", fmt.Errorf("highlighter css: %w", err)
	}
	return RenderStyles(opts...) + "\n" + code, nil
}

func cssReset() string {
	return `
*,*::before,*::after{box-sizing:border-box;margin:0;padding:0}
html{-webkit-text-size-adjust:100%;-moz-tab-size:4;tab-size:4;scroll-behavior:smooth}
body{line-height:1.6;-webkit-font-smoothing:antialiased;-moz-osx-font-smoothing:grayscale}
img,picture,video,canvas,svg{display:block;max-width:100%}
input,button,textarea,select{font:inherit}
p,h1,h2,h3,h4,h5,h6{overflow-wrap:break-word}
a{color:inherit;text-decoration:none}
ul,ol{list-style:none}
`
}

func cssVariables(selector string, colors map[string]string) string {
	names := make([]string, 0, len(colors))
	for name := range colors {
		names = append(names, name)
	}
	sort.Strings(names)

	vars := make([]string, 0, len(names))
	for _, name := range names {
		vars = append(vars, fmt.Sprintf("--color-%s:%s", name, colors[name]))
	}
	if selector == ":root" {
		return fmt.Sprintf("%s{%s;--font-sans:%s;--font-mono:%s}\n", selector, strings.Join(vars, ";"), FontFamily, FontMono)
	}
	return fmt.Sprintf("%s{%s}\n", selector, strings.Join(vars, ";"))
}

func cssBase() string {
	return `
body{font-family:var(--font-sans);background:var(--color-bg);color:var(--color-text);min-height:100vh;display:flex;flex-direction:column}
main{flex:1}
::selection{background:var(--color-primary);color:white}
mark{background:var(--color-warning);color:var(--color-bg);border-radius:0.2rem;padding:0 0.1rem}
`
}

func cssTypography() string {
	return `
h1{font-size:clamp(2rem,5vw,3.5rem);font-weight:800;letter-spacing:-0.02em;line-height:1.1}
h2{font-size:clamp(1.5rem,3vw,2rem);font-weight:700;letter-spacing:-0.01em;line-height:1.2;margin-bottom:1rem}
h3{font-size:1.125rem;font-weight:600;line-height:1.3}
h4{font-size:1rem;font-weight:600}
p{color:var(--color-textMuted)}
.text-gradient{background:linear-gradient(135deg,var(--color-primary),var(--color-secondary));-webkit-background-clip:text;-webkit-text-fill-color:transparent;background-clip:text}
code{font-family:var(--font-mono);font-size:0.9em}
.prose p{margin-bottom:0.75rem}
.prose ul{list-style:disc;padding-left:1.25rem;margin-bottom:0.75rem;color:var(--color-textMuted)}
.prose code{background:var(--color-bgCode);padding:0.1rem 0.3rem;border-radius:0.25rem}
.prose a{color:var(--color-primary);text-decoration:underline}
`
}

func cssLayout() string {
	return `
.container{width:100%;max-width:1200px;margin:0 auto;padding:0 1rem}
.section{padding:2rem 0}
.flex{display:flex}.flex-col{flex-direction:column}.items-center{align-items:center}.justify-between{justify-content:space-between}.flex-wrap{flex-wrap:wrap}
.gap-sm{gap:0.5rem}.gap-md{gap:1rem}.gap-lg{gap:1.5rem}
.text-center{text-align:center}
.grid{display:grid;gap:1rem}
.grid-2,.grid-3{grid-template-columns:1fr}
.page-hero{padding:6rem 0 2rem;text-align:center}
.hero-badge{display:inline-block;margin-bottom:1rem;padding:0.35rem 0.9rem;border-radius:9999px;border:1px solid var(--color-border);color:var(--color-primary);font-size:0.85rem;font-weight:600}
.hero-title{margin-bottom:1rem}
.hero-intro{font-size:1.1rem;max-width:680px;margin:0 auto 1.5rem}
.hero-actions{display:flex;gap:0.75rem;justify-content:center;flex-wrap:wrap}
.install-line{display:inline-flex;align-items:center;gap:0.75rem;margin-top:1rem}
`
}

func cssHeader() string {
	return `
.site-header{position:fixed;top:0;left:0;right:0;z-index:100;padding:0.5rem 0;background:var(--color-bg);border-bottom:1px solid var(--color-border)}
.nav-inner{display:flex;align-items:center;justify-content:space-between;gap:0.5rem}
.logo{font-size:1.1rem;font-weight:800;letter-spacing:-0.02em}
.logo-version{font-size:0.7rem;color:var(--color-textDim);margin-left:0.35rem}
.nav-links{display:none;flex-direction:column;position:absolute;top:100%;left:0;right:0;background:var(--color-bg);border-bottom:1px solid var(--color-border);padding:0.5rem 1rem}
.nav-links.open{display:flex}
.nav-link{padding:0.5rem 0.75rem;border-radius:0.5rem;color:var(--color-textMuted)}
.nav-link:hover{color:var(--color-text);background:var(--color-bgAlt)}
.nav-link.active{color:var(--color-primary);font-weight:600}
.nav-actions{display:flex;align-items:center;gap:0.25rem}
`
}

func cssButtons() string {
	// 44px minimum tap target
	return `
.btn{display:inline-flex;align-items:center;justify-content:center;gap:0.5rem;padding:0.75rem 1.25rem;font-size:1rem;font-weight:600;border-radius:0.5rem;border:none;cursor:pointer;transition:all 0.2s ease;min-height:2.75rem}
.btn:focus-visible{outline:2px solid var(--color-primary);outline-offset:2px}
.btn:disabled{opacity:0.6;cursor:not-allowed}
.btn-primary{background:#6D28D9;color:#FFFFFF}
.btn-primary:hover{background:#5B21B6}
.btn-secondary{background:transparent;color:var(--color-text);border:1px solid var(--color-border)}
.btn-secondary:hover{background:var(--color-bgAlt)}
.btn-ghost{background:transparent;color:var(--color-textMuted)}
.btn-ghost:hover{color:var(--color-text)}
.btn-sm{padding:0.4rem 0.8rem;font-size:0.875rem;min-height:2.25rem}
.btn-icon{width:2.75rem;height:2.75rem;padding:0}
`
}

func cssCards() string {
	return `
.card{background:var(--color-bgAlt);border-radius:1rem;border:1px solid var(--color-border);overflow:hidden;transition:border-color 0.2s ease}
.card:hover{border-color:var(--color-borderLight)}
.card-header{padding:1.25rem 1.25rem 0}
.card-title{display:flex;align-items:center;gap:0.5rem;flex-wrap:wrap}
.card-description{margin-top:0.35rem;font-size:0.95rem}
.card-body{padding:1.25rem}
.card-footer{padding:0 1.25rem 1.25rem;display:flex;gap:0.35rem;flex-wrap:wrap}
`
}

func cssTabs() string {
	return `
.tabs{margin:1rem 0}
.tab-list{display:flex;gap:0.25rem;flex-wrap:wrap;border-bottom:1px solid var(--color-border);margin-bottom:1rem}
.tab{background:transparent;border:none;border-bottom:2px solid transparent;color:var(--color-textMuted);padding:0.6rem 1rem;cursor:pointer;font-weight:600}
.tab:hover{color:var(--color-text)}
.tab.active{color:var(--color-primary);border-bottom-color:var(--color-primary)}
.tab-panel{display:block}
`
}

func cssBadges() string {
	return `
.badge{display:inline-flex;align-items:center;padding:0.15rem 0.6rem;border-radius:9999px;font-size:0.75rem;font-weight:600;border:1px solid var(--color-border);color:var(--color-textMuted)}
.badge-beginner,.badge-stable{color:var(--color-success);border-color:var(--color-success)}
.badge-intermediate,.badge-beta{color:var(--color-warning);border-color:var(--color-warning)}
.badge-advanced{color:var(--color-danger);border-color:var(--color-danger)}
.badge-new{color:var(--color-info);border-color:var(--color-info)}
.badge-tag{color:var(--color-textDim)}
`
}

func cssCode() string {
	return `
.code-block{background:var(--color-bgCode);border-radius:0.75rem;border:1px solid var(--color-border);overflow:hidden;margin:0.75rem 0}
.code-header{display:flex;align-items:center;justify-content:space-between;gap:0.5rem;padding:0.4rem 0.75rem;border-bottom:1px solid var(--color-border)}
.code-lang{font-size:0.75rem;font-weight:600;color:var(--color-textDim);text-transform:uppercase;letter-spacing:0.05em}
.code-title{font-size:0.85rem;color:var(--color-textMuted)}
.copy-btn{background:transparent;border:1px solid var(--color-border);color:var(--color-textMuted);border-radius:0.4rem;padding:0.2rem 0.6rem;font-size:0.8rem;cursor:pointer}
.copy-btn.copied{color:var(--color-success);border-color:var(--color-success)}
.code-block pre{padding:1rem;overflow-x:auto;font-family:var(--font-mono);font-size:0.875rem;line-height:1.7}
`
}

func cssFeedback() string {
	return `
.loading{display:inline-flex;align-items:center;gap:0.5rem;color:var(--color-textMuted)}
.spinner{border:2px solid var(--color-border);border-top-color:var(--color-primary);border-radius:50%;animation:spin 0.8s linear infinite}
.loading-sm .spinner{width:1rem;height:1rem}
.loading-md .spinner{width:1.5rem;height:1.5rem}
.loading-lg .spinner{width:2.5rem;height:2.5rem;border-width:3px}
.toast{position:fixed;right:1rem;bottom:1rem;z-index:200;display:flex;align-items:center;gap:0.75rem;padding:0.75rem 1rem;border-radius:0.75rem;background:var(--color-bgAlt);border:1px solid var(--color-danger);color:var(--color-text)}
.toast-close{background:transparent;border:none;color:var(--color-textMuted);cursor:pointer;font-size:1.1rem}
.search-box{display:flex;margin:1rem 0}
.search-input{width:100%;padding:0.75rem 1rem;border-radius:0.75rem;border:1px solid var(--color-border);background:var(--color-bgAlt);color:var(--color-text)}
.search-input:focus{outline:2px solid var(--color-primary)}
.empty-state{text-align:center;padding:3rem 1rem}
.empty-state h3{margin-bottom:0.5rem}
.steps{display:grid;gap:1rem;counter-reset:step}
.step{display:flex;gap:1rem;align-items:flex-start}
.step-number{flex:none;display:inline-flex;align-items:center;justify-content:center;width:2rem;height:2rem;border-radius:50%;background:var(--color-primary);color:var(--color-bg);font-weight:700}
.step.current .step-number{background:var(--color-secondary)}
.stats{display:grid;grid-template-columns:repeat(2,1fr);gap:1rem;margin:2rem 0}
.stat{text-align:center}
.stat-value{font-size:2rem;font-weight:800;color:var(--color-primary)}
.stat-label{font-size:0.875rem;color:var(--color-textDim)}
.progress{display:flex;align-items:center;gap:0.75rem;margin:1rem 0}
.progress progress{flex:1;height:0.5rem;accent-color:var(--color-primary)}
.progress-label{font-size:0.85rem;color:var(--color-textDim)}
`
}

func cssPages() string {
	return `
.docs-layout{display:grid;gap:1.5rem}
.docs-sidebar{display:flex;flex-wrap:wrap;gap:0.25rem}
.sidebar-link{background:transparent;border:none;text-align:left;padding:0.5rem 0.75rem;border-radius:0.5rem;color:var(--color-textMuted);cursor:pointer}
.sidebar-link.active{background:var(--color-bgAlt);color:var(--color-primary);font-weight:600}
.api-method{padding:1.25rem 0;border-bottom:1px solid var(--color-border)}
.api-signature{font-family:var(--font-mono);color:var(--color-secondary);margin:0.5rem 0}
.api-params{width:100%;border-collapse:collapse;margin:0.75rem 0;font-size:0.9rem}
.api-params th,.api-params td{text-align:left;padding:0.4rem 0.5rem;border-bottom:1px solid var(--color-border)}
.api-returns{font-size:0.9rem}
.playground{display:grid;gap:1rem}
.editor{width:100%;min-height:18rem;padding:1rem;font-family:var(--font-mono);font-size:0.875rem;background:var(--color-bgCode);color:var(--color-text);border:1px solid var(--color-border);border-radius:0.75rem;resize:vertical}
.output{min-height:8rem;padding:1rem;font-family:var(--font-mono);font-size:0.875rem;background:var(--color-bgCode);border:1px solid var(--color-border);border-radius:0.75rem;white-space:pre-wrap}
.playground-actions{display:flex;gap:0.5rem;flex-wrap:wrap}
.tutorial-step{margin-top:1rem}
.stepper-actions{display:flex;justify-content:space-between;gap:0.5rem;margin-top:1rem}
.step-dots{display:flex;gap:0.35rem;flex-wrap:wrap}
.step-dot{width:2rem;height:2rem;border-radius:50%;border:1px solid var(--color-border);background:transparent;color:var(--color-textMuted);cursor:pointer}
.step-dot.active{background:var(--color-primary);color:var(--color-bg)}
.topic-list{display:flex;gap:0.35rem;flex-wrap:wrap;margin:0.5rem 0}
.demo{display:grid;gap:1rem}
.demo-value{font-size:1.5rem;font-weight:700}
.demo-list li{display:flex;justify-content:space-between;align-items:center;padding:0.35rem 0;border-bottom:1px solid var(--color-border)}
.cta{text-align:center;padding:3rem 1rem;border-radius:1rem;background:var(--color-bgAlt);margin:2rem 0}
`
}

func cssFooter() string {
	return `
.site-footer{border-top:1px solid var(--color-border);padding:2.5rem 0 1.5rem;margin-top:3rem}
.footer-grid{display:grid;gap:1.5rem}
.footer-group h4{margin-bottom:0.5rem}
.footer-group a,.footer-legal a{color:var(--color-textMuted);display:block;padding:0.2rem 0}
.footer-group a:hover,.footer-legal a:hover{color:var(--color-text)}
.footer-social{display:flex;gap:0.75rem;margin-top:0.75rem}
.footer-bottom{display:flex;flex-direction:column;gap:0.5rem;margin-top:2rem;padding-top:1rem;border-top:1px solid var(--color-border);font-size:0.85rem;color:var(--color-textDim)}
.footer-legal{display:flex;gap:1rem}
`
}

func cssAnimations() string {
	return `
@keyframes spin{to{transform:rotate(360deg)}}
@keyframes fadeIn{from{opacity:0}to{opacity:1}}
.toast{animation:fadeIn 0.2s ease}
`
}

func cssAccessibility() string {
	return `
.skip-link{position:absolute;top:-40px;left:0;background:var(--color-primary);color:white;padding:8px 16px;z-index:1000;transition:top 0.2s}
.skip-link:focus{top:0}
.sr-only{position:absolute;width:1px;height:1px;padding:0;margin:-1px;overflow:hidden;clip:rect(0,0,0,0);white-space:nowrap;border:0}
[hidden]{display:none!important}
@media (prefers-reduced-motion:reduce){*,*::before,*::after{animation-duration:0.01ms!important;transition-duration:0.01ms!important;scroll-behavior:auto!important}}
`
}

func cssResponsive() string {
	// Mobile-first: widen layouts at larger breakpoints.
	return `
@media (min-width:768px){
.container{padding:0 1.5rem}
.grid-2{grid-template-columns:repeat(2,1fr)}
.grid-3{grid-template-columns:repeat(2,1fr)}
.stats{grid-template-columns:repeat(4,1fr)}
.footer-grid{grid-template-columns:repeat(4,1fr)}
.footer-bottom{flex-direction:row;justify-content:space-between}
.playground{grid-template-columns:1fr 1fr}
}
@media (min-width:1024px){
.grid-3{grid-template-columns:repeat(3,1fr)}
.nav-links{display:flex;flex-direction:row;position:static;border:none;padding:0;background:transparent}
.menu-toggle{display:none}
.docs-layout{grid-template-columns:220px 1fr}
.docs-sidebar{flex-direction:column;position:sticky;top:5rem;align-self:start}
}
`
}
