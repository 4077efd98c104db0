package emulator

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Element creates a detached element node.
func Element(tag string) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}
}

// NewMount creates a detached container usable as a mount point.
func NewMount(id string) *html.Node {
	mount := Element("div")
	if id != "" {
		SetAttr(mount, "id", id)
	}
	return mount
}

// SetText replaces node's children with a single text node.
func SetText(node *html.Node, text string) {
	Clear(node)
	if text == "" {
		return
	}
	node.AppendChild(&html.Node{Type: html.TextNode, Data: text})
}

// SetAttr sets or replaces an attribute. Empty values remove it.
func SetAttr(node *html.Node, key, value string) {
	for idx, attr := range node.Attr {
		if attr.Key != key {
			continue
		}
		if value == "" {
			node.Attr = append(node.Attr[:idx], node.Attr[idx+1:]...)
			return
		}
		node.Attr[idx].Val = value
		return
	}
	if value == "" {
		return
	}
	node.Attr = append(node.Attr, html.Attribute{Key: key, Val: value})
}

// Attr returns an attribute value.
func Attr(node *html.Node, key string) string {
	if node == nil {
		return ""
	}
	for _, attr := range node.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

// Clear detaches every child of node.
func Clear(node *html.Node) {
	for child := node.FirstChild; child != nil; {
		next := child.NextSibling
		node.RemoveChild(child)
		child = next
	}
}

// Replace swaps node's children for the provided elements.
func Replace(node *html.Node, children []*html.Node) {
	Clear(node)
	for _, child := range children {
		node.AppendChild(child)
	}
}

// Children returns the element children of node in document order.
func Children(node *html.Node) []*html.Node {
	var out []*html.Node
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == html.ElementNode {
			out = append(out, child)
		}
	}
	return out
}

// TextContent concatenates the text nodes below node.
func TextContent(node *html.Node) string {
	var builder strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			builder.WriteString(n.Data)
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(node)
	return builder.String()
}

// InnerHTML renders the children of node.
func InnerHTML(node *html.Node) (string, error) {
	var buf bytes.Buffer
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if err := html.Render(&buf, child); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}
