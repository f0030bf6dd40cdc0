package view

import (
	"sort"
	"strings"

	"github.com/iyunix/go-chatview/internal/fragment"
	"golang.org/x/net/html"
)

// Container ids in the page shell.
const (
	ConversationListID = "conversation-list"
	TranscriptID       = "transcript"
	RenameDialogID     = "rename-dialog"
	DeleteDialogID     = "delete-dialog"
	StatusID           = "status"
)

// Document is the parsed page shell that views render into.
type Document struct {
	root       *html.Node
	containers map[string]*Container
}

// ParseDocument parses a full HTML page.
func ParseDocument(markup string) (*Document, error) {
	root, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return nil, err
	}
	return &Document{root: root, containers: make(map[string]*Container)}, nil
}

// Element returns the element with the given id.
func (d *Document) Element(id string) (*html.Node, error) {
	if n := findByID(d.root, id); n != nil {
		return n, nil
	}
	return nil, ErrNoActiveView
}

// Container returns the container bound to the element with the given id.
// The same Container is returned for as long as the element stays in place.
func (d *Document) Container(id string) (*Container, error) {
	n, err := d.Element(id)
	if err != nil {
		delete(d.containers, id)
		return nil, err
	}
	if c, ok := d.containers[id]; ok && c.node == n {
		return c, nil
	}
	c := &Container{node: n}
	d.containers[id] = c
	return c, nil
}

// Remove detaches the element with the given id. Views bound to it become
// no-ops until it is restored.
func (d *Document) Remove(id string) {
	n := findByID(d.root, id)
	if n == nil || n.Parent == nil {
		return
	}
	if c, ok := d.containers[id]; ok {
		c.Clear()
		delete(d.containers, id)
	}
	n.Parent.RemoveChild(n)
}

func (d *Document) HTML() string {
	var sb strings.Builder
	_ = html.Render(&sb, d.root)
	return sb.String()
}

type mounted struct {
	order     int
	component *fragment.Component
}

// Container owns the components mounted into one element.
type Container struct {
	node  *html.Node
	items []mounted
}

// Clear releases every mounted component and empties the element.
func (c *Container) Clear() {
	for _, item := range c.items {
		item.component.Release()
	}
	c.items = nil
	for c.node.FirstChild != nil {
		c.node.RemoveChild(c.node.FirstChild)
	}
}

// Insert mounts comp at the position given by order, after every component
// with an order less than or equal to it.
func (c *Container) Insert(order int, comp *fragment.Component) {
	i := sort.Search(len(c.items), func(i int) bool { return c.items[i].order > order })

	root := comp.Root()
	if root.Parent != nil {
		root.Parent.RemoveChild(root)
	}
	if i < len(c.items) {
		c.node.InsertBefore(root, c.items[i].component.Root())
	} else {
		c.node.AppendChild(root)
	}

	c.items = append(c.items, mounted{})
	copy(c.items[i+1:], c.items[i:])
	c.items[i] = mounted{order: order, component: comp}
}

// Components returns the mounted components in document order.
func (c *Container) Components() []*fragment.Component {
	out := make([]*fragment.Component, len(c.items))
	for i, item := range c.items {
		out[i] = item.component
	}
	return out
}

func (c *Container) Len() int { return len(c.items) }

func (c *Container) HTML() string {
	var sb strings.Builder
	for n := c.node.FirstChild; n != nil; n = n.NextSibling {
		_ = html.Render(&sb, n)
	}
	return sb.String()
}

func findByID(n *html.Node, id string) *html.Node {
	if n.Type == html.ElementNode {
		for _, a := range n.Attr {
			if a.Key == "id" && a.Val == id {
				return n
			}
		}
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if found := findByID(child, id); found != nil {
			return found
		}
	}
	return nil
}

func attrValue(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func removeAttr(n *html.Node, key string) {
	kept := n.Attr[:0]
	for _, a := range n.Attr {
		if a.Key != key {
			kept = append(kept, a)
		}
	}
	n.Attr = kept
}

func findSlot(n *html.Node, name string) *html.Node {
	if v, ok := attrValue(n, fragment.SlotAttr); ok && v == name {
		return n
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if found := findSlot(child, name); found != nil {
			return found
		}
	}
	return nil
}

func setText(n *html.Node, text string) {
	for n.FirstChild != nil {
		n.RemoveChild(n.FirstChild)
	}
	if text != "" {
		n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	}
}
