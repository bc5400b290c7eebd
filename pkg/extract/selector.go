package extract

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// Selector is a compiled element pattern.  The supported grammar is the small
// subset the webmail views require: whitespace means descendant, a compound
// part is `tag`, `.class`, `[attr]`, `[attr=value]` or `[attr*=value]` in any
// combination, e.g. "td.gH span[title]".
type Selector struct {
	raw   string
	parts []part
}

type part struct {
	tag     string
	classes []string
	attrs   []attrMatch
}

type attrMatch struct {
	key string
	op  byte // 0 = presence, '=' = equals, '*' = contains
	val string
}

// Compile parses a selector expression.
func Compile(expr string) (Selector, error) {
	fields := strings.Fields(expr)
	if len(fields) == 0 {
		return Selector{}, fmt.Errorf("empty selector")
	}
	sel := Selector{raw: expr}
	for _, f := range fields {
		p, err := compilePart(f)
		if err != nil {
			return Selector{}, fmt.Errorf("selector %q: %v", expr, err)
		}
		sel.parts = append(sel.parts, p)
	}
	return sel, nil
}

// MustCompile is Compile for package-level selector tables.
func MustCompile(expr string) Selector {
	sel, err := Compile(expr)
	if err != nil {
		panic(err)
	}
	return sel
}

func compilePart(src string) (part, error) {
	var p part
	i := 0
	// Leading tag name.
	for i < len(src) && src[i] != '.' && src[i] != '[' {
		i++
	}
	p.tag = strings.ToLower(src[:i])
	for i < len(src) {
		switch src[i] {
		case '.':
			j := i + 1
			for j < len(src) && src[j] != '.' && src[j] != '[' {
				j++
			}
			if j == i+1 {
				return p, fmt.Errorf("empty class in %q", src)
			}
			p.classes = append(p.classes, src[i+1:j])
			i = j
		case '[':
			j := strings.IndexByte(src[i:], ']')
			if j < 0 {
				return p, fmt.Errorf("unterminated attribute in %q", src)
			}
			am, err := compileAttr(src[i+1 : i+j])
			if err != nil {
				return p, err
			}
			p.attrs = append(p.attrs, am)
			i += j + 1
		default:
			return p, fmt.Errorf("unexpected %q in %q", src[i], src)
		}
	}
	return p, nil
}

func compileAttr(src string) (attrMatch, error) {
	if src == "" {
		return attrMatch{}, fmt.Errorf("empty attribute")
	}
	if k, v, found := strings.Cut(src, "*="); found {
		return attrMatch{key: strings.ToLower(k), op: '*', val: unquote(v)}, nil
	}
	if k, v, found := strings.Cut(src, "="); found {
		return attrMatch{key: strings.ToLower(k), op: '=', val: unquote(v)}, nil
	}
	return attrMatch{key: strings.ToLower(src)}, nil
}

func unquote(v string) string {
	if len(v) >= 2 && (v[0] == '"' || v[0] == '\'') && v[len(v)-1] == v[0] {
		return v[1 : len(v)-1]
	}
	return v
}

// Match reports whether n satisfies the selector, taking ancestors into
// account for descendant parts.
func (s Selector) Match(n *html.Node) bool {
	if len(s.parts) == 0 || !matchPart(s.parts[len(s.parts)-1], n) {
		return false
	}
	remaining := s.parts[:len(s.parts)-1]
	for a := n.Parent; a != nil && len(remaining) > 0; a = a.Parent {
		if matchPart(remaining[len(remaining)-1], a) {
			remaining = remaining[:len(remaining)-1]
		}
	}
	return len(remaining) == 0
}

// First returns the first node under root matching the selector, in document
// order, or nil.
func (s Selector) First(root *html.Node) *html.Node {
	var found *html.Node
	walk(root, func(n *html.Node) bool {
		if s.Match(n) {
			found = n
			return false
		}
		return true
	})
	return found
}

// All returns every node under root matching the selector, in document order.
func (s Selector) All(root *html.Node) []*html.Node {
	var out []*html.Node
	walk(root, func(n *html.Node) bool {
		if s.Match(n) {
			out = append(out, n)
		}
		return true
	})
	return out
}

// String returns the source expression.
func (s Selector) String() string { return s.raw }

// FirstMatch implements the ordered-fallback lookup policy: selectors are
// tried in priority order and the first one yielding a node wins.
func FirstMatch(root *html.Node, sels []Selector) *html.Node {
	for _, sel := range sels {
		if n := sel.First(root); n != nil {
			return n
		}
	}
	return nil
}

// AllMatching returns nodes under root matching any of the selectors, in
// document order, each node reported once.
func AllMatching(root *html.Node, sels ...Selector) []*html.Node {
	var out []*html.Node
	walk(root, func(n *html.Node) bool {
		for _, sel := range sels {
			if sel.Match(n) {
				out = append(out, n)
				break
			}
		}
		return true
	})
	return out
}

// Closest returns the nearest of n or its ancestors matching any selector.
func Closest(n *html.Node, sels ...Selector) *html.Node {
	for a := n; a != nil; a = a.Parent {
		if a.Type != html.ElementNode {
			continue
		}
		for _, sel := range sels {
			if sel.Match(a) {
				return a
			}
		}
	}
	return nil
}

func matchPart(p part, n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	if p.tag != "" && p.tag != n.Data {
		return false
	}
	if len(p.classes) > 0 {
		class, _ := attrVal(n, "class")
		have := strings.Fields(class)
		for _, want := range p.classes {
			found := false
			for _, c := range have {
				if c == want {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
	}
	for _, am := range p.attrs {
		val, ok := attrVal(n, am.key)
		if !ok {
			return false
		}
		switch am.op {
		case '=':
			if val != am.val {
				return false
			}
		case '*':
			if !strings.Contains(val, am.val) {
				return false
			}
		}
	}
	return true
}

// attrVal returns the named attribute of n.
func attrVal(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val, true
		}
	}
	return "", false
}

// walk visits nodes in document order until fn returns false.
func walk(n *html.Node, fn func(*html.Node) bool) bool {
	if !fn(n) {
		return false
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if !walk(c, fn) {
			return false
		}
	}
	return true
}
