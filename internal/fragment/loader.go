// Package fragment loads HTML template fragments from the storage service and
// turns them into components with named slots.
package fragment

import (
	"context"
	"errors"
	"strings"

	"github.com/go-resty/resty/v2"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Template identifiers served under /templates/.
const (
	ConversationCard = "conversation_card"
	MessageBubble    = "message_bubble"
	Page             = "page"
)

// Loader fetches fragments over HTTP. Every call is a fresh fetch.
type Loader struct {
	httpClient *resty.Client
}

// NewLoader builds a loader on top of an existing resty client. The client's
// base URL must point at the storage service.
func NewLoader(httpClient *resty.Client) *Loader {
	return &Loader{httpClient: httpClient}
}

// Fetch returns the raw markup of a template.
func (l *Loader) Fetch(ctx context.Context, templateID string) (string, error) {
	resp, err := l.httpClient.R().
		SetContext(ctx).
		SetHeader("Accept", "text/html").
		SetPathParam("name", templateID+".html").
		Get("/templates/{name}")
	if err != nil {
		return "", unavailable(templateID, 0, err)
	}
	if !resp.IsSuccess() {
		return "", unavailable(templateID, resp.StatusCode(), nil)
	}
	return resp.String(), nil
}

// Load fetches a template and parses it into a detached component.
func (l *Loader) Load(ctx context.Context, templateID string) (*Component, error) {
	markup, err := l.Fetch(ctx, templateID)
	if err != nil {
		return nil, err
	}
	return Parse(templateID, markup)
}

var errEmptyFragment = errors.New("fragment has no elements")

// Parse builds a component from markup. A fragment with more than one
// top-level element is wrapped in a div.
func Parse(templateID, markup string) (*Component, error) {
	nodes, err := ParseNodes(markup)
	if err != nil {
		return nil, unavailable(templateID, 0, err)
	}

	var elements []*html.Node
	for _, n := range nodes {
		if n.Type == html.ElementNode {
			elements = append(elements, n)
		}
	}
	if len(elements) == 0 {
		return nil, unavailable(templateID, 0, errEmptyFragment)
	}

	root := elements[0]
	if len(elements) > 1 {
		root = &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
		for _, n := range nodes {
			root.AppendChild(n)
		}
	}
	return newComponent(templateID, root), nil
}

// ParseNodes parses markup as children of a body element. The returned nodes
// have no parent.
func ParseNodes(markup string) ([]*html.Node, error) {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	return html.ParseFragment(strings.NewReader(markup), body)
}
