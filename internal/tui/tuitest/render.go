// Package tuitest holds helpers for asserting on rendered views.
package tuitest

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
)

// Plain strips ANSI sequences from a rendered view
func Plain(output string) string {
	return ansi.Strip(output)
}

// AssertContains checks that the plain text of output contains every part
func AssertContains(t *testing.T, output string, parts ...string) {
	t.Helper()
	plain := Plain(output)
	for _, part := range parts {
		assert.Contains(t, plain, part)
	}
}

// AssertNotContains checks that the plain text of output contains none of parts
func AssertNotContains(t *testing.T, output string, parts ...string) {
	t.Helper()
	plain := Plain(output)
	for _, part := range parts {
		assert.NotContains(t, plain, part)
	}
}

// Key builds a key message the way bubbletea reports a keypress
func Key(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

// Type turns text into one key message per rune
func Type(text string) []tea.KeyMsg {
	msgs := make([]tea.KeyMsg, 0, len(text))
	for _, r := range text {
		msgs = append(msgs, Key(string(r)))
	}
	return msgs
}

// settle bounds how long Exec waits for a single command
const settle = 100 * time.Millisecond

// Exec runs cmd and returns the messages it produced, flattening batches.
// Commands still running after a short wait (ticks, cursor blinks) are dropped.
func Exec(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()

	var msg tea.Msg
	select {
	case msg = <-done:
	case <-time.After(settle):
		return nil
	}

	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, Exec(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

// Lines counts the rendered lines containing part
func Lines(output, part string) int {
	n := 0
	for _, line := range strings.Split(Plain(output), "\n") {
		if strings.Contains(line, part) {
			n++
		}
	}
	return n
}
