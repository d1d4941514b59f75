package web

import (
	"html/template"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"github.com/doeshing/heartrisk-go/assets"
)

var docNames = []string{"guide", "about", "disclaimer"}

// renderDocs converts the embedded markdown pages to HTML once at startup.
func renderDocs() (map[string]template.HTML, error) {
	out := make(map[string]template.HTML, len(docNames))
	for _, name := range docNames {
		raw, err := assets.Doc(name)
		if err != nil {
			return nil, err
		}
		out[name] = template.HTML(renderMarkdown(raw))
	}
	return out, nil
}

func renderMarkdown(md []byte) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.HrefTargetBlank})
	return markdown.ToHTML(md, p, renderer)
}
