package common

import (
	"github.com/justchokingaround/anenyong/internal/tui/styles"
	"github.com/justchokingaround/anenyong/internal/view"
)

// Window returns the [start, end) range of a list of total items that fits in
// size rows while keeping cursor visible
func Window(total, cursor, size int) (int, int) {
	if size <= 0 || total <= size {
		return 0, total
	}
	start := cursor - size/2
	start = max(start, 0)
	start = min(start, total-size)
	return start, start + size
}

// Clamp keeps a cursor inside a list of n items
func Clamp(cursor, n int) int {
	if n == 0 {
		return 0
	}
	return min(max(cursor, 0), n-1)
}

// RenderItem renders a two line list entry: title, then muted metadata
func RenderItem(title, badge, meta string, selected bool, width int) string {
	textWidth := max(width-10, 20)

	line := styles.ItemTitleStyle.Render(view.Truncate(title, textWidth))
	if badge != "" {
		line += "  " + styles.BadgeStyle.Render(badge)
	}
	if meta != "" {
		line += "\n" + styles.MetadataStyle.Render(view.Truncate(meta, textWidth))
	}

	if selected {
		return styles.ItemSelectedStyle.Render(line)
	}
	return styles.ItemStyle.Render(line)
}
