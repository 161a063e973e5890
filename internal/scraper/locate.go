package scraper

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/pfrederiksen/pydocs-parser/internal/logger"
)

// Predicate filters candidate elements in Locate.
type Predicate struct {
	desc  string
	match func(*goquery.Selection) bool
}

func (p Predicate) String() string {
	return p.desc
}

// Attr matches elements whose attribute name equals value exactly.
func Attr(name, value string) Predicate {
	return Predicate{
		desc: fmt.Sprintf("%s=%q", name, value),
		match: func(s *goquery.Selection) bool {
			v, ok := s.Attr(name)
			return ok && v == value
		},
	}
}

// HasAttr matches elements carrying the attribute, whatever its value.
func HasAttr(name string) Predicate {
	return Predicate{
		desc: fmt.Sprintf("[%s]", name),
		match: func(s *goquery.Selection) bool {
			_, ok := s.Attr(name)
			return ok
		},
	}
}

// Class matches when value equals the whole class attribute (whitespace
// normalized) or any single class in it.
func Class(value string) Predicate {
	want := strings.Join(strings.Fields(value), " ")
	return Predicate{
		desc: fmt.Sprintf("class=%q", value),
		match: func(s *goquery.Selection) bool {
			v, ok := s.Attr("class")
			if !ok {
				return false
			}
			classes := strings.Fields(v)
			if strings.Join(classes, " ") == want {
				return true
			}
			for _, c := range classes {
				if c == want {
					return true
				}
			}
			return false
		},
	}
}

// AttrMatch matches elements whose attribute value matches re.
func AttrMatch(name string, re *regexp.Regexp) Predicate {
	return Predicate{
		desc: fmt.Sprintf("%s=~/%s/", name, re.String()),
		match: func(s *goquery.Selection) bool {
			v, ok := s.Attr(name)
			return ok && re.MatchString(v)
		},
	}
}

// Locate returns the first descendant of sel, in document order, named tag
// and satisfying every predicate. A miss is logged and returned as a
// *NotFoundError.
func Locate(sel *goquery.Selection, tag string, preds ...Predicate) (*goquery.Selection, error) {
	found := sel.Find(tag).FilterFunction(func(_ int, s *goquery.Selection) bool {
		for _, p := range preds {
			if !p.match(s) {
				return false
			}
		}
		return true
	}).First()

	if found.Length() > 0 {
		return found, nil
	}

	descs := make([]string, len(preds))
	for i, p := range preds {
		descs[i] = p.String()
	}
	err := &NotFoundError{Tag: tag}
	if len(descs) > 0 {
		err.Attrs = "[" + strings.Join(descs, " ") + "]"
	}
	logger.Error("Required tag not found", logger.Fields{"tag": tag, "attrs": err.Attrs}, err)
	return nil, err
}

// href returns the href of an anchor selection or a NotFoundError.
func href(a *goquery.Selection) (string, error) {
	v, ok := a.Attr("href")
	if !ok {
		return "", &NotFoundError{Tag: "a", Attrs: "[href]"}
	}
	return v, nil
}

// resolve makes ref absolute against base.
func resolve(base, ref string) (string, error) {
	b, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parsing base url %q: %w", base, err)
	}
	r, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return "", fmt.Errorf("parsing link %q: %w", ref, err)
	}
	return b.ResolveReference(r).String(), nil
}

// findTextNode returns the first text node under root whose data is exactly text.
func findTextNode(root *html.Node, text string) *html.Node {
	if root == nil {
		return nil
	}
	if root.Type == html.TextNode && root.Data == text {
		return root
	}
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if n := findTextNode(c, text); n != nil {
			return n
		}
	}
	return nil
}

// nextElementSibling skips text and comment siblings.
func nextElementSibling(n *html.Node) *html.Node {
	for s := n.NextSibling; s != nil; s = s.NextSibling {
		if s.Type == html.ElementNode {
			return s
		}
	}
	return nil
}

// nodeText concatenates all text beneath n.
func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}
