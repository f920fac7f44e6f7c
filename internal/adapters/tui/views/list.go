package views

// ScrollList tracks a cursor over a list taller than the screen and the
// window of rows currently visible
type ScrollList struct {
	height int
	offset int
	cursor int
	total  int
}

// NewScrollList creates a list showing height rows at a time
func NewScrollList(height int) *ScrollList {
	l := &ScrollList{}
	l.SetHeight(height)
	return l
}

// SetHeight changes the number of visible rows
func (l *ScrollList) SetHeight(height int) {
	if height <= 0 {
		height = 10
	}
	l.height = height
	l.follow()
}

// SetTotal sets the number of rows, clamping the cursor
func (l *ScrollList) SetTotal(total int) {
	l.total = total
	l.SetCursor(l.cursor)
}

// Total returns the number of rows
func (l *ScrollList) Total() int {
	return l.total
}

// Cursor returns the absolute cursor position
func (l *ScrollList) Cursor() int {
	return l.cursor
}

// SetCursor moves the cursor, clamped to the list
func (l *ScrollList) SetCursor(pos int) {
	if pos >= l.total {
		pos = l.total - 1
	}
	if pos < 0 {
		pos = 0
	}
	l.cursor = pos
	l.follow()
}

// Move shifts the cursor by delta rows and reports whether it moved
func (l *ScrollList) Move(delta int) bool {
	before := l.cursor
	l.SetCursor(l.cursor + delta)
	return l.cursor != before
}

// Page moves the cursor by one screen
func (l *ScrollList) Page(direction int) bool {
	return l.Move(direction * l.height)
}

// Visible returns the half-open range of rows on screen
func (l *ScrollList) Visible() (start, end int) {
	return l.offset, min(l.offset+l.height, l.total)
}

// follow scrolls just enough to keep the cursor on screen
func (l *ScrollList) follow() {
	if l.cursor < l.offset {
		l.offset = l.cursor
	} else if l.cursor >= l.offset+l.height {
		l.offset = l.cursor - l.height + 1
	}
	if last := l.total - l.height; l.offset > last {
		l.offset = last
	}
	if l.offset < 0 {
		l.offset = 0
	}
}
