package view

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"golang.org/x/net/html"

	"github.com/iyunix/go-chatview/internal/fragment"
)

// Raw HTML in message text is left out by goldmark's default renderer
// (it emits an "omitted" comment instead), so message text cannot inject
// markup into the transcript.
var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
)

// renderMarkdown converts message text into detached nodes. It falls back to
// a plain text node when rendering fails.
func renderMarkdown(text string) []*html.Node {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(text), &buf); err != nil {
		return []*html.Node{{Type: html.TextNode, Data: text}}
	}
	nodes, err := fragment.ParseNodes(buf.String())
	if err != nil {
		return []*html.Node{{Type: html.TextNode, Data: text}}
	}
	return nodes
}
