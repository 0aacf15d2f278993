package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/onekit-js/onekit-site/internal/content"
	"github.com/onekit-js/onekit-site/internal/export"
	"github.com/onekit-js/onekit-site/internal/website/pages"
	"github.com/onekit-js/onekit-site/pkg/logging"
)

type showOptions struct {
	style    string
	width    int
	markdown bool
}

// NewShowCmd creates the show command.
func NewShowCmd(root *rootOptions) *cobra.Command {
	opts := &showOptions{}

	cmd := &cobra.Command{
		Use:   "show PAGE",
		Short: "Print a page in the terminal",
		Long: `Print a page as styled Markdown. PAGE is a site path such as /docs or
docs; "home" and "/" name the landing page.`,
		Example: `  onekit-site show docs
  onekit-site show tutorials --style light --width 100
  onekit-site show installation --raw > installation.md`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: pageNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.load()
			if err != nil {
				return err
			}
			store, err := content.Open(cfg.Content.Dir, logging.NopLogger{})
			if err != nil {
				return err
			}

			path := pagePath(args[0])
			if _, err := pages.Find(path); err != nil {
				return fmt.Errorf("%w (known pages: %s)", err, strings.Join(pageNames(), ", "))
			}

			var out string
			if opts.markdown {
				out, err = export.Page(store.Current(), path)
			} else {
				out, err = export.Terminal(store.Current(), path, export.TerminalOptions{
					Style: opts.style,
					Width: opts.width,
				})
			}
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), out)
			return err
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.style, "style", "", "glamour style: dark, light, notty (default detects the terminal)")
	f.IntVarP(&opts.width, "width", "w", 80, "wrap width")
	f.BoolVar(&opts.markdown, "raw", false, "print the Markdown source without styling")

	return cmd
}

// pagePath maps a user argument onto a site path.
func pagePath(arg string) string {
	arg = strings.Trim(strings.TrimSpace(arg), "/")
	if arg == "" || arg == "home" {
		return "/"
	}
	return "/" + arg
}

func pageNames() []string {
	var names []string
	for _, p := range pages.All() {
		if p.Path == "/" {
			names = append(names, "home")
			continue
		}
		names = append(names, strings.TrimPrefix(p.Path, "/"))
	}
	return names
}
