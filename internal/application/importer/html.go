package importer

import (
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"navhub/internal/application"
	"navhub/internal/domain"
)

// ParseBookmarkHTML reads a Netscape bookmark file (the format every
// browser exports) into a bookmark tree. Folders are <DT><H3> entries
// followed by a nested <DL>; links are <DT><A HREF>.
func ParseBookmarkHTML(r io.Reader) (domain.BookmarkNode, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return domain.BookmarkNode{}, &application.ParseError{Format: "bookmark html", Reason: err.Error()}
	}

	dl := findNodeByTag(doc, atom.Dl)
	if dl == nil {
		return domain.BookmarkNode{}, &application.ParseError{Format: "bookmark html", Reason: "no <DL> bookmark list found"}
	}

	root := domain.BookmarkNode{Children: walkDL(dl)}
	return root, nil
}

func findNodeByTag(n *html.Node, tag atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findNodeByTag(c, tag); found != nil {
			return found
		}
	}
	return nil
}

func walkDL(dl *html.Node) []domain.BookmarkNode {
	var out []domain.BookmarkNode
	var consumed *html.Node
	for c := dl.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || c == consumed {
			continue
		}
		switch c.DataAtom {
		case atom.Dt:
			node, list, ok := parseDT(c)
			if ok {
				out = append(out, node)
			}
			consumed = list
		case atom.P, atom.Dl:
			// some exporters leave entries wrapped in a stray <p> or <DL>
			out = append(out, walkDL(c)...)
		}
	}
	return out
}

// parseDT returns the entry of a <DT> and, for a folder whose list follows
// the <DT> instead of sitting inside it, that sibling list.
func parseDT(dt *html.Node) (domain.BookmarkNode, *html.Node, bool) {
	for c := dt.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.DataAtom {
		case atom.A:
			return domain.BookmarkNode{
				Title: textContent(c),
				URL:   attr(c, "href"),
				Icon:  attr(c, "icon"),
			}, nil, true
		case atom.H3:
			folder := domain.BookmarkNode{Title: textContent(c)}
			if dl := nextElement(c, atom.Dl); dl != nil {
				folder.Children = walkDL(dl)
				return folder, nil, true
			}
			dl := nextElement(dt, atom.Dl)
			if dl != nil {
				folder.Children = walkDL(dl)
			}
			return folder, dl, true
		}
	}
	return domain.BookmarkNode{}, nil, false
}

// nextElement returns the first following sibling element of n if it has tag
func nextElement(n *html.Node, tag atom.Atom) *html.Node {
	for s := n.NextSibling; s != nil; s = s.NextSibling {
		if s.Type != html.ElementNode {
			continue
		}
		if s.DataAtom == tag {
			return s
		}
		if s.DataAtom != atom.P && s.DataAtom != atom.Dd {
			return nil
		}
	}
	return nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return strings.TrimSpace(a.Val)
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(b.String()), " ")
}
