package content

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"

	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var embedded embed.FS

// Embedded returns the content compiled into the binary.
func Embedded() fs.FS {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		panic(err) // the embed pattern guarantees the directory
	}
	return sub
}

// Content errors.
var (
	ErrInvalidContent = errors.New("invalid content")
	ErrMissingFile    = errors.New("content file missing")
)

// Load parses every content file in fsys and validates the result.
func Load(fsys fs.FS) (*Content, error) {
	c := &Content{}
	files := []struct {
		name string
		dst  any
	}{
		{"site.yaml", &c.Site},
		{"home.yaml", &c.Home},
		{"installation.yaml", &c.Installation},
		{"usage.yaml", &c.Usage},
		{"api.yaml", &c.API},
		{"components.yaml", &c.Components},
		{"showcase.yaml", &c.Showcase},
		{"playground.yaml", &c.Playground},
		{"tutorials.yaml", &c.Tutorials},
		{"examples.yaml", &c.Examples},
		{"frameworks.yaml", &c.Frameworks},
		{"advanced.yaml", &c.Advanced},
	}

	for _, f := range files {
		data, err := fs.ReadFile(fsys, f.name)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("%w: %s", ErrMissingFile, f.name)
			}
			return nil, fmt.Errorf("read %s: %w", f.name, err)
		}
		if err := decodeStrict(data, f.dst); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidContent, f.name, err)
		}
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func decodeStrict(data []byte, dst any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
