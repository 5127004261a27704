package report

import "maps"

// widthTracker keeps the widest display width seen per column.
type widthTracker struct {
	widths map[int]int
}

func newWidthTracker() *widthTracker {
	return &widthTracker{widths: make(map[int]int)}
}

func (t *widthTracker) record(col, width int) {
	if cur, ok := t.widths[col]; ok && cur >= width {
		return
	}
	t.widths[col] = width
}

func (t *widthTracker) finalize() map[int]int {
	return maps.Clone(t.widths)
}
