package tui

import (
	"io"

	"github.com/pkg/browser"

	"github.com/justchokingaround/anenyong/internal/clipboard"
)

// Desktop opens URLs and copies text on the user's machine
type Desktop interface {
	OpenURL(url string) error
	Copy(text string) error
}

type systemDesktop struct {
	clip *clipboard.Service
}

// NewDesktop uses the system browser and clipboard
func NewDesktop(clip *clipboard.Service) Desktop {
	return systemDesktop{clip: clip}
}

func (d systemDesktop) OpenURL(url string) error {
	// the launcher's output would draw over the TUI
	browser.Stdout = io.Discard
	browser.Stderr = io.Discard
	return browser.OpenURL(url)
}

func (d systemDesktop) Copy(text string) error {
	return d.clip.Write(text)
}
