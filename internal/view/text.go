package view

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mattn/go-runewidth"
)

// PlainText strips markup from an upstream HTML fragment such as a synopsis.
// Paragraph and line breaks become newlines, other whitespace is collapsed.
func PlainText(html string) string {
	if !strings.ContainsAny(html, "<&") {
		return collapse(html)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return collapse(html)
	}
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find("p").Each(func(i int, s *goquery.Selection) {
		s.AppendHtml("\n")
	})

	return collapse(doc.Text())
}

func collapse(text string) string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

// Truncate shortens text to fit within maxWidth terminal cells, accounting for
// wide characters. Truncated text ends with "...".
func Truncate(text string, maxWidth int) string {
	if runewidth.StringWidth(text) <= maxWidth {
		return text
	}
	if maxWidth <= 3 {
		return strings.Repeat(".", max(maxWidth, 0))
	}

	width := 0
	for i, r := range text {
		width += runewidth.RuneWidth(r)
		if width > maxWidth-3 {
			return text[:i] + "..."
		}
	}
	return text
}

// Wrap wraps text at word boundaries to fit within maxWidth.
func Wrap(text string, maxWidth int) []string {
	words := strings.Fields(text)

	var lines []string
	var line strings.Builder
	lineWidth := 0

	for _, word := range words {
		wordWidth := runewidth.StringWidth(word)
		switch {
		case lineWidth == 0:
			line.WriteString(word)
			lineWidth = wordWidth
		case lineWidth+1+wordWidth <= maxWidth:
			line.WriteString(" ")
			line.WriteString(word)
			lineWidth += 1 + wordWidth
		default:
			lines = append(lines, line.String())
			line.Reset()
			line.WriteString(word)
			lineWidth = wordWidth
		}
	}

	if line.Len() > 0 {
		lines = append(lines, line.String())
	}
	return lines
}

// TruncateToLines wraps text and keeps at most maxLines lines, marking the cut with "...".
func TruncateToLines(text string, maxLines, maxWidth int) string {
	lines := Wrap(text, maxWidth)
	if len(lines) <= maxLines {
		return strings.Join(lines, "\n")
	}
	if maxLines <= 0 {
		return ""
	}

	last := lines[maxLines-1]
	if runewidth.StringWidth(last) > maxWidth-3 {
		last = Truncate(last, maxWidth)
	} else {
		last += "..."
	}

	return strings.Join(append(lines[:maxLines-1:maxLines-1], last), "\n")
}
