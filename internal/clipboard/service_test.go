package clipboard

import (
	"errors"
	"io"
	"log/slog"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(command string, native error) *Service {
	s := NewService(command, slog.New(slog.NewTextHandler(io.Discard, nil)))
	s.native = func(string) error { return native }
	return s
}

func TestWrite(t *testing.T) {
	t.Run("native clipboard", func(t *testing.T) {
		var got string
		s := newTestService("", nil)
		s.native = func(text string) error {
			got = text
			return nil
		}

		require.NoError(t, s.Write("https://desustream.example/embed/abc"))
		assert.Equal(t, "https://desustream.example/embed/abc", got)
	})

	t.Run("falls back to the configured command", func(t *testing.T) {
		if _, err := exec.LookPath("cat"); err != nil {
			t.Skip("cat not available")
		}
		s := newTestService("cat", errors.New("no display"))
		assert.NoError(t, s.Write("hello"))
	})

	t.Run("failing command", func(t *testing.T) {
		if _, err := exec.LookPath("false"); err != nil {
			t.Skip("false not available")
		}
		s := newTestService("false", errors.New("no display"))
		err := s.Write("hello")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "clipboard command false")
	})

	t.Run("nothing available", func(t *testing.T) {
		s := newTestService("", errors.New("no display"))
		s.lookPath = func(string) (string, error) { return "", exec.ErrNotFound }

		err := s.Write("hello")
		assert.ErrorIs(t, err, ErrUnavailable)
	})
}

func TestParseCommand(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"wl-copy", []string{"wl-copy"}},
		{"xclip -selection clipboard", []string{"xclip", "-selection", "clipboard"}},
		{`sh -c "cat > /tmp/clip"`, []string{"sh", "-c", "cat > /tmp/clip"}},
		{`tool 'it"s'`, []string{"tool", `it"s`}},
		{"  spaced   out ", []string{"spaced", "out"}},
		{"", nil},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseCommand(tt.in))
		})
	}
}
