package domain

// BookmarkNode is one node of an externally supplied bookmark tree.
// A node with a URL is a link; anything else is a folder.
type BookmarkNode struct {
	ID       string
	Title    string
	URL      string
	Icon     string
	Children []BookmarkNode
}

// IsLink reports whether the node is a leaf link
func (n BookmarkNode) IsLink() bool {
	return n.URL != ""
}

// CountLinks returns the number of links in the subtree rooted at n
func (n BookmarkNode) CountLinks() int {
	if n.IsLink() {
		return 1
	}
	total := 0
	for _, c := range n.Children {
		total += c.CountLinks()
	}
	return total
}
