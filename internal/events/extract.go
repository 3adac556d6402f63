package events

import (
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// aliasMarkerClass tags anchors that point at a topic alias page. Items
// whose own links carry it are section cross-references, not events proper.
const aliasMarkerClass = "mw-redirect"

// sectionContext is the active category context threaded through the walk.
// It is passed and returned by value so the traversal is an explicit fold
// rather than mutation of shared state.
type sectionContext struct {
	main string
	sub  string
}

// Extract walks the direct children of the content container in document
// order and returns the typed event sequence. Heading nodes whose text
// matches dateLabel are section delimiters and are skipped. Relative links
// are resolved against base. A nil or empty container yields an empty
// sequence, which callers treat as "no data today".
func Extract(content *html.Node, dateLabel string, base *url.URL) []Event {
	if content == nil {
		return nil
	}

	var out []Event
	ctx := sectionContext{}

	for n := content.FirstChild; n != nil; n = n.NextSibling {
		if n.Type != html.ElementNode {
			continue
		}
		if headingLevel(n.Data) > 0 && normalizeText(textContent(n)) == normalizeText(dateLabel) {
			continue
		}
		if n.Data != "ul" {
			continue
		}
		// Direct list items only; nested lists are handled per item.
		for li := n.FirstChild; li != nil; li = li.NextSibling {
			if li.Type != html.ElementNode || li.Data != "li" {
				continue
			}
			ctx = extractItem(li, ctx, base, &out)
		}
	}

	return out
}

// extractItem emits the events for one top-level list item and returns the
// category context in effect after it.
func extractItem(li *html.Node, ctx sectionContext, base *url.URL, out *[]Event) sectionContext {
	// An emphasis child marks a category label.
	if b := directChild(li, "b"); b != nil {
		text := normalizeText(textContent(b))
		if text != "" {
			*out = append(*out, Event{
				Kind:  KindMainCategory,
				Text:  text,
				Links: ownLinks(li, base),
			})
			// A new main category clears the active subcategory.
			return sectionContext{main: text}
		}
	}

	text := normalizeText(ownText(li))
	links := ownLinks(li, base)

	if text != "" {
		if hasAliasLink(li) {
			*out = append(*out, Event{
				Kind:         KindSubCategory,
				Text:         text,
				MainCategory: ctx.main,
				Links:        links,
			})
			ctx.sub = text
		} else {
			*out = append(*out, Event{
				Kind:         KindItem,
				Text:         text,
				MainCategory: ctx.main,
				SubCategory:  ctx.sub,
				Links:        links,
			})
		}
	}

	// One level of nesting: each direct item of a nested list becomes a
	// nested-item event under the same context as its parent.
	if ul := directChild(li, "ul"); ul != nil {
		for c := ul.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode || c.Data != "li" {
				continue
			}
			nested := normalizeText(ownText(c))
			if nested == "" {
				continue
			}
			*out = append(*out, Event{
				Kind:         KindNestedItem,
				Text:         nested,
				MainCategory: ctx.main,
				SubCategory:  ctx.sub,
				Links:        ownLinks(c, base),
			})
		}
	}

	return ctx
}

func headingLevel(tag string) int {
	switch tag {
	case "h1":
		return 1
	case "h2":
		return 2
	case "h3":
		return 3
	case "h4":
		return 4
	case "h5":
		return 5
	case "h6":
		return 6
	}
	return 0
}

// directChild returns the first direct element child with the given tag.
func directChild(n *html.Node, tag string) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == tag {
			return c
		}
	}
	return nil
}

// textContent collects all text under n.
func textContent(n *html.Node) string {
	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return buf.String()
}

// ownText collects the text of n excluding any nested list subtrees, so an
// item's text does not swallow its children's.
func ownText(n *html.Node) string {
	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(c *html.Node) {
		for ; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				buf.WriteString(c.Data)
				continue
			}
			if c.Type == html.ElementNode && c.Data == "ul" {
				continue
			}
			walk(c.FirstChild)
		}
	}
	walk(n.FirstChild)
	return buf.String()
}

// ownLinks returns the absolute URLs of anchors under n, excluding nested
// list subtrees, in document order.
func ownLinks(n *html.Node, base *url.URL) []string {
	var links []string
	var walk func(*html.Node)
	walk = func(c *html.Node) {
		for ; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode {
				if c.Data == "ul" {
					continue
				}
				if c.Data == "a" {
					if u := resolveHref(attr(c, "href"), base); u != "" {
						links = append(links, u)
					}
				}
			}
			walk(c.FirstChild)
		}
	}
	walk(n.FirstChild)
	return links
}

// hasAliasLink reports whether any of the item's own anchors carries the
// alias marker class.
func hasAliasLink(n *html.Node) bool {
	found := false
	var walk func(*html.Node)
	walk = func(c *html.Node) {
		for ; c != nil && !found; c = c.NextSibling {
			if c.Type == html.ElementNode {
				if c.Data == "ul" {
					continue
				}
				if c.Data == "a" && hasClass(c, aliasMarkerClass) {
					found = true
					return
				}
			}
			walk(c.FirstChild)
		}
	}
	walk(n.FirstChild)
	return found
}

// hasClass reports whether the element's class list contains class as a
// whole token.
func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func resolveHref(href string, base *url.URL) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") {
		return ""
	}
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if base != nil {
		u = base.ResolveReference(u)
	}
	if !u.IsAbs() {
		return ""
	}
	return u.String()
}

// normalizeText trims and collapses all whitespace, including embedded
// newlines, to single spaces.
func normalizeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
