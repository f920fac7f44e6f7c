// Package importer converts external bookmark exports into NavDocuments
// and serializes NavDocuments for export.
package importer

import (
	"bytes"
	"encoding/json"
	"strings"

	"navhub/internal/application"
	"navhub/internal/domain"
)

// Kind identifies which shape Detect recognized
type Kind int

const (
	KindDocument Kind = iota + 1
	KindBookmarks
)

func (k Kind) String() string {
	switch k {
	case KindDocument:
		return "navhub document"
	case KindBookmarks:
		return "bookmark tree"
	default:
		return "unknown"
	}
}

// Parsed is the result of format detection: exactly one of Document or
// Tree is set, according to Kind.
type Parsed struct {
	Kind     Kind
	Document *domain.NavDocument
	Tree     *domain.BookmarkNode
}

// ToDocument returns the flat document for either kind
func (p Parsed) ToDocument() domain.NavDocument {
	switch p.Kind {
	case KindDocument:
		doc := p.Document.Clone()
		doc.Normalize()
		doc.BackfillIDs()
		return doc
	case KindBookmarks:
		return Transform(*p.Tree)
	default:
		return domain.NavDocument{Categories: []domain.Category{}}
	}
}

// Detect inspects the payload shape. NavDocument JSON is an object with a
// "categories" array. Anything else JSON must be a bookmark tree (an
// object with children or roots, or an array of nodes). HTML must be a
// Netscape bookmark file.
func Detect(data []byte) (Parsed, error) {
	trimmed := bytes.TrimSpace(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf")))
	if len(trimmed) == 0 {
		return Parsed{}, &application.ParseError{Reason: "empty input"}
	}

	switch trimmed[0] {
	case '{', '[':
		return detectJSON(trimmed)
	case '<':
		if !strings.Contains(strings.ToLower(string(trimmed)), "<dl") {
			return Parsed{}, &application.ParseError{Format: "bookmark html", Reason: "no <DL> bookmark list found"}
		}
		tree, err := ParseBookmarkHTML(bytes.NewReader(trimmed))
		if err != nil {
			return Parsed{}, err
		}
		return Parsed{Kind: KindBookmarks, Tree: &tree}, nil
	default:
		return Parsed{}, &application.ParseError{Reason: "expected JSON or bookmark HTML"}
	}
}

func detectJSON(data []byte) (Parsed, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return Parsed{}, &application.ParseError{Format: "json", Reason: err.Error()}
	}

	if obj, ok := raw.(map[string]any); ok {
		if cats, ok := obj["categories"]; ok {
			if _, isList := cats.([]any); !isList {
				return Parsed{}, &application.ParseError{Format: "navhub document", Reason: "categories must be an array"}
			}
			var doc domain.NavDocument
			if err := json.Unmarshal(data, &doc); err != nil {
				return Parsed{}, &application.ParseError{Format: "navhub document", Reason: err.Error()}
			}
			return Parsed{Kind: KindDocument, Document: &doc}, nil
		}
	}

	tree, ok := treeFromJSON(raw)
	if !ok {
		return Parsed{}, &application.ParseError{Format: "json", Reason: "neither a categories document nor a bookmark tree"}
	}
	return Parsed{Kind: KindBookmarks, Tree: &tree}, nil
}

// treeFromJSON accepts Chromium "roots" exports, Firefox backups and
// generic {name|title, url|uri|href, icon, children} node trees.
func treeFromJSON(raw any) (domain.BookmarkNode, bool) {
	switch v := raw.(type) {
	case []any:
		root := domain.BookmarkNode{}
		for _, item := range v {
			if child, ok := nodeFromJSON(item); ok {
				root.Children = append(root.Children, child)
			}
		}
		return root, true
	case map[string]any:
		if roots, ok := v["roots"].(map[string]any); ok {
			root := domain.BookmarkNode{}
			// stable order: the bar first, like the browser shows it
			for _, key := range []string{"bookmark_bar", "other", "synced"} {
				if child, ok := nodeFromJSON(roots[key]); ok {
					root.Children = append(root.Children, child)
				}
			}
			return root, true
		}
		if _, ok := v["children"]; ok {
			return nodeFromJSON(v)
		}
	}
	return domain.BookmarkNode{}, false
}

func nodeFromJSON(raw any) (domain.BookmarkNode, bool) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return domain.BookmarkNode{}, false
	}
	n := domain.BookmarkNode{
		Title: firstString(obj, "name", "title"),
		URL:   firstString(obj, "url", "uri", "href"),
		Icon:  firstString(obj, "icon", "iconUri", "favicon"),
	}
	if id, ok := obj["categoryId"].(string); ok {
		n.ID = id
	}
	if children, ok := obj["children"].([]any); ok {
		for _, c := range children {
			if child, ok := nodeFromJSON(c); ok {
				n.Children = append(n.Children, child)
			}
		}
	}
	return n, true
}

func firstString(obj map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := obj[k].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}
