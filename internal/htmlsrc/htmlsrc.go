// Package htmlsrc parses a declarative root's authored subtree (and a
// component's `:Template` body) into a lightweight tree the renderer can
// walk repeatedly, once per render pass. This is the runtime replacement
// for the teacher's build-time parse: vcrobe-nojs-lab/compiler/discovery.go
// and friends call golang.org/x/net/html.Parse once, at compile time, to
// generate Go source; here the same library backs a parse that happens
// at render setup and is walked over and over by package render — see
// SPEC_FULL.md's REDESIGN FLAGS ("compile-time codegen → runtime
// interpretation").
package htmlsrc

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// Kind distinguishes the two node shapes the renderer cares about.
type Kind int

const (
	ElementNode Kind = iota
	TextNode
)

// Node is one authored-template node. Element attribute and tag names
// are lower-cased by golang.org/x/net/html per HTML5 parsing rules — the
// teacher's validator.go calls this out explicitly for component names —
// so every tag/attribute comparison downstream in package render is
// case-insensitive by construction, not by convention.
type Node struct {
	Kind      Kind
	Tag       string
	Attrs     map[string]string
	AttrOrder []string
	Text      string
	Children  []*Node
}

// Attr looks up an attribute by its (already lower-cased) name.
func (n *Node) Attr(name string) (string, bool) {
	v, ok := n.Attrs[strings.ToLower(name)]
	return v, ok
}

// HasAttr reports whether name is present at all, regardless of value.
func (n *Node) HasAttr(name string) bool {
	_, ok := n.Attrs[strings.ToLower(name)]
	return ok
}

// IsElement reports whether n is an element node.
func (n *Node) IsElement() bool { return n.Kind == ElementNode }

// IsText reports whether n is a text node.
func (n *Node) IsText() bool { return n.Kind == TextNode }

// ParseFragment parses src as an HTML fragment and returns its top-level
// nodes. src is wrapped in a full document skeleton and the body's
// children are lifted out, the same "wrap and find body" technique the
// teacher uses for full-page parsing (gnituy18-tmplx/main.go's
// ParsePage) and helpers.go's findBody, adapted here because a bare
// element/text fragment is not itself a valid HTML document.
func ParseFragment(src string) ([]*Node, error) {
	wrapped := "<html><head></head><body>" + src + "</body></html>"
	doc, err := html.Parse(strings.NewReader(wrapped))
	if err != nil {
		return nil, fmt.Errorf("htmlsrc: parse failed: %w", err)
	}
	body := findBody(doc)
	if body == nil {
		return nil, fmt.Errorf("htmlsrc: parser produced no body element")
	}
	return convertChildren(body), nil
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}

func convertChildren(n *html.Node) []*Node {
	var out []*Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if node := convert(c); node != nil {
			out = append(out, node)
		}
	}
	return out
}

func convert(n *html.Node) *Node {
	switch n.Type {
	case html.TextNode:
		return &Node{Kind: TextNode, Text: n.Data}
	case html.ElementNode:
		attrs := make(map[string]string, len(n.Attr))
		order := make([]string, 0, len(n.Attr))
		for _, a := range n.Attr {
			attrs[a.Key] = a.Val
			order = append(order, a.Key)
		}
		node := &Node{Kind: ElementNode, Tag: n.Data, Attrs: attrs, AttrOrder: order}
		node.Children = convertChildren(n)
		return node
	default:
		// Comments, doctypes, and the document node itself carry no
		// rendering meaning for an authored subtree.
		return nil
	}
}
