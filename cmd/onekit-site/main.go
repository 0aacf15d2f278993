// Command onekit-site serves the OneKit JS documentation site, exports it
// as static files, and renders single pages to the terminal.
//
// Usage:
//
//	onekit-site serve [--addr :8080]
//	onekit-site export --out ./public [--markdown]
//	onekit-site show docs
//
// See --help for all available options.
package main

func main() {
	Execute()
}
