package assets

import (
	"embed"
	"fmt"
)

// DefaultConfigYAML contains the embedded default configuration.
//
//go:embed defaults/config.yaml
var DefaultConfigYAML []byte

//go:embed docs/*.md
var docs embed.FS

// Doc returns an embedded markdown page by name ("guide", "about", "disclaimer").
func Doc(name string) ([]byte, error) {
	raw, err := docs.ReadFile("docs/" + name + ".md")
	if err != nil {
		return nil, fmt.Errorf("doc %s: %w", name, err)
	}
	return raw, nil
}
