package fragment

import (
	"strings"

	"golang.org/x/net/html"
)

// SlotAttr marks an element inside a fragment as a named slot.
const SlotAttr = "data-slot"

// Component is a parsed fragment with its named slots resolved once at parse
// time. Listeners belong to the component and are dropped by Release.
type Component struct {
	templateID string
	root       *html.Node
	slots      map[string]*html.Node
	listeners  map[string]func()
	released   bool
}

func newComponent(templateID string, root *html.Node) *Component {
	c := &Component{
		templateID: templateID,
		root:       root,
		slots:      make(map[string]*html.Node),
		listeners:  make(map[string]func()),
	}
	walk(root, func(n *html.Node) {
		if name := attr(n, SlotAttr); name != "" {
			if _, dup := c.slots[name]; !dup {
				c.slots[name] = n
			}
		}
	})
	return c
}

func (c *Component) TemplateID() string { return c.templateID }

// Root returns the component's top-level node.
func (c *Component) Root() *html.Node { return c.root }

func (c *Component) HasSlot(name string) bool {
	_, ok := c.slots[name]
	return ok
}

// slot resolves a slot name; the empty name addresses the root.
func (c *Component) slot(name string) (*html.Node, error) {
	if name == "" {
		return c.root, nil
	}
	n, ok := c.slots[name]
	if !ok {
		return nil, &Error{Type: ErrTypeMissingSlot, TemplateID: c.templateID, Slot: name}
	}
	return n, nil
}

// SetText replaces the slot's children with a single text node.
func (c *Component) SetText(slot, text string) error {
	n, err := c.slot(slot)
	if err != nil {
		return err
	}
	removeChildren(n)
	n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	return nil
}

// SetChildren replaces the slot's children with detached nodes.
func (c *Component) SetChildren(slot string, nodes []*html.Node) error {
	n, err := c.slot(slot)
	if err != nil {
		return err
	}
	removeChildren(n)
	for _, child := range nodes {
		if child.Parent != nil {
			child.Parent.RemoveChild(child)
		}
		n.AppendChild(child)
	}
	return nil
}

// SetValue sets the value attribute, used for hidden inputs.
func (c *Component) SetValue(slot, value string) error {
	n, err := c.slot(slot)
	if err != nil {
		return err
	}
	setAttr(n, "value", value)
	return nil
}

func (c *Component) AddClass(slot, class string) error {
	n, err := c.slot(slot)
	if err != nil {
		return err
	}
	classes := strings.Fields(attr(n, "class"))
	for _, existing := range classes {
		if existing == class {
			return nil
		}
	}
	setAttr(n, "class", strings.Join(append(classes, class), " "))
	return nil
}

func (c *Component) HasClass(slot, class string) bool {
	n, err := c.slot(slot)
	if err != nil {
		return false
	}
	for _, existing := range strings.Fields(attr(n, "class")) {
		if existing == class {
			return true
		}
	}
	return false
}

// Text returns the concatenated text content of a slot.
func (c *Component) Text(slot string) string {
	n, err := c.slot(slot)
	if err != nil {
		return ""
	}
	return TextContent(n)
}

func (c *Component) Value(slot string) string {
	n, err := c.slot(slot)
	if err != nil {
		return ""
	}
	return attr(n, "value")
}

// On registers the handler for a slot, replacing any previous one.
func (c *Component) On(slot string, fn func()) error {
	if _, err := c.slot(slot); err != nil {
		return err
	}
	if c.released {
		return nil
	}
	c.listeners[slot] = fn
	return nil
}

// Dispatch invokes the slot's handler and reports whether one ran.
func (c *Component) Dispatch(slot string) bool {
	fn, ok := c.listeners[slot]
	if !ok || c.released {
		return false
	}
	fn()
	return true
}

func (c *Component) ListenerCount() int {
	return len(c.listeners)
}

// Release drops every listener and detaches the root from its parent.
func (c *Component) Release() {
	if c.released {
		return
	}
	c.released = true
	c.listeners = make(map[string]func())
	if c.root.Parent != nil {
		c.root.Parent.RemoveChild(c.root)
	}
}

func (c *Component) Released() bool { return c.released }

// HTML renders the component's markup.
func (c *Component) HTML() string {
	var sb strings.Builder
	_ = html.Render(&sb, c.root)
	return sb.String()
}

// TextContent returns the text under n with runs of whitespace collapsed.
func TextContent(n *html.Node) string {
	var sb strings.Builder
	walk(n, func(child *html.Node) {
		if child.Type == html.TextNode {
			sb.WriteString(child.Data)
		}
	})
	return strings.Join(strings.Fields(sb.String()), " ")
}

func walk(n *html.Node, fn func(*html.Node)) {
	fn(n)
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		walk(child, fn)
	}
}

func removeChildren(n *html.Node) {
	for n.FirstChild != nil {
		n.RemoveChild(n.FirstChild)
	}
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
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
