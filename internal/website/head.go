package website

import (
	"encoding/json"
	"fmt"
	"html"
	"strings"
)

// RenderHead generates a complete <head> section with SEO, Open Graph, and JSON-LD.
// Styles and scripts are linked, never inlined.
func RenderHead(cfg PageConfig) string {
	var sb strings.Builder

	themeColor := cfg.ThemeColor
	if themeColor == "" {
		themeColor = Colors["bg"]
	}
	stylesheet := cfg.Stylesheet
	if stylesheet == "" {
		stylesheet = StylesheetPath
	}
	script := cfg.Script
	if script == "" {
		script = ScriptPath
	}

	sb.WriteString("<head>\n")

	// Essential meta tags
	sb.WriteString(`<meta charset="UTF-8">` + "\n")
	sb.WriteString(`<meta name="viewport" content="width=device-width, initial-scale=1.0">` + "\n")

	sb.WriteString(fmt.Sprintf("<title>%s</title>\n", html.EscapeString(cfg.Title)))

	if cfg.Description != "" {
		sb.WriteString(fmt.Sprintf(`<meta name="description" content="%s">`+"\n", html.EscapeString(cfg.Description)))
	}
	if len(cfg.Keywords) > 0 {
		sb.WriteString(fmt.Sprintf(`<meta name="keywords" content="%s">`+"\n", html.EscapeString(strings.Join(cfg.Keywords, ", "))))
	}
	if cfg.Author != "" {
		sb.WriteString(fmt.Sprintf(`<meta name="author" content="%s">`+"\n", html.EscapeString(cfg.Author)))
	}
	if cfg.URL != "" {
		sb.WriteString(fmt.Sprintf(`<link rel="canonical" href="%s">`+"\n", html.EscapeString(cfg.URL)))
	}

	sb.WriteString(fmt.Sprintf(`<meta name="theme-color" content="%s">`+"\n", html.EscapeString(themeColor)))
	sb.WriteString(`<meta name="robots" content="index, follow">` + "\n")

	sb.WriteString(renderOpenGraph(cfg))
	sb.WriteString(renderTwitterCard(cfg))
	sb.WriteString(renderJSONLD(cfg))

	if cfg.Favicon != "" {
		sb.WriteString(fmt.Sprintf(`<link rel="icon" href="%s">`+"\n", html.EscapeString(cfg.Favicon)))
	} else {
		sb.WriteString(`<link rel="icon" href="data:image/svg+xml,<svg xmlns='http://www.w3.org/2000/svg' viewBox='0 0 100 100'><text y='.9em' font-size='90'>⚡</text></svg>">` + "\n")
	}

	sb.WriteString(fmt.Sprintf(`<link rel="stylesheet" href="%s">`+"\n", html.EscapeString(stylesheet)))
	sb.WriteString(fmt.Sprintf(`<script src="%s" defer></script>`+"\n", html.EscapeString(script)))

	sb.WriteString("</head>\n")

	return sb.String()
}

func renderOpenGraph(cfg PageConfig) string {
	var sb strings.Builder

	sb.WriteString(`<meta property="og:type" content="website">` + "\n")

	if cfg.SiteName != "" {
		sb.WriteString(fmt.Sprintf(`<meta property="og:site_name" content="%s">`+"\n", html.EscapeString(cfg.SiteName)))
	}
	if cfg.Title != "" {
		sb.WriteString(fmt.Sprintf(`<meta property="og:title" content="%s">`+"\n", html.EscapeString(cfg.Title)))
	}
	if cfg.Description != "" {
		sb.WriteString(fmt.Sprintf(`<meta property="og:description" content="%s">`+"\n", html.EscapeString(cfg.Description)))
	}
	if cfg.URL != "" {
		sb.WriteString(fmt.Sprintf(`<meta property="og:url" content="%s">`+"\n", html.EscapeString(cfg.URL)))
	}
	if cfg.OGImage != "" {
		sb.WriteString(fmt.Sprintf(`<meta property="og:image" content="%s">`+"\n", html.EscapeString(cfg.OGImage)))
	}
	sb.WriteString(fmt.Sprintf(`<meta property="og:locale" content="%s">`+"\n", html.EscapeString(language(cfg))))

	return sb.String()
}

func renderTwitterCard(cfg PageConfig) string {
	var sb strings.Builder

	sb.WriteString(`<meta name="twitter:card" content="summary_large_image">` + "\n")

	if cfg.Title != "" {
		sb.WriteString(fmt.Sprintf(`<meta name="twitter:title" content="%s">`+"\n", html.EscapeString(cfg.Title)))
	}
	if cfg.Description != "" {
		sb.WriteString(fmt.Sprintf(`<meta name="twitter:description" content="%s">`+"\n", html.EscapeString(cfg.Description)))
	}
	if cfg.OGImage != "" {
		sb.WriteString(fmt.Sprintf(`<meta name="twitter:image" content="%s">`+"\n", html.EscapeString(cfg.OGImage)))
	}

	return sb.String()
}

// renderJSONLD describes the library as a SoftwareSourceCode. The block is
// data, not script, so the CSP does not apply to it.
func renderJSONLD(cfg PageConfig) string {
	doc := map[string]any{
		"@context":            "https://schema.org",
		"@type":               "SoftwareSourceCode",
		"name":                cfg.SiteName,
		"description":         cfg.Description,
		"url":                 cfg.URL,
		"programmingLanguage": "JavaScript",
		"runtimePlatform":     "Browser",
	}
	if cfg.Version != "" {
		doc["version"] = cfg.Version
	}
	if cfg.License != "" {
		doc["license"] = cfg.License
	}
	if cfg.Repository != "" {
		doc["codeRepository"] = cfg.Repository
	}
	if cfg.Author != "" {
		doc["author"] = map[string]string{"@type": "Person", "name": cfg.Author}
	}

	// json.Marshal escapes <, > and &, so the payload cannot close the tag.
	data, err := json.Marshal(doc)
	if err != nil {
		return ""
	}
	return fmt.Sprintf(`<script type="application/ld+json">%s</script>`+"\n", data)
}

// RenderDocument wraps body in a complete HTML document.
func RenderDocument(cfg PageConfig, bodyContent string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="%s" data-theme="%s">
%s<body>
%s
</body>
</html>`, html.EscapeString(language(cfg)), NormalizeTheme(cfg.Theme), RenderHead(cfg), bodyContent)
}

func language(cfg PageConfig) string {
	if cfg.Language == "" {
		return "en"
	}
	return cfg.Language
}
