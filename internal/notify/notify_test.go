package notify

import (
	"bytes"
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
)

func TestTerminalNotify(t *testing.T) {
	var buf bytes.Buffer
	n := NewTerminal(&buf, 80)

	n.Notify("Bonjour")

	assert.Contains(t, buf.String(), "Bonjour")
}

func TestTruncate(t *testing.T) {
	long := strings.Repeat("翻", 100)

	out := Truncate(long, 40)
	assert.LessOrEqual(t, runewidth.StringWidth(out), 32)
	assert.True(t, strings.HasSuffix(out, "…"))

	assert.Equal(t, "short\nlines", Truncate("short\nlines", 40))
	assert.Equal(t, long, Truncate(long, 0))
}

func TestRecorder(t *testing.T) {
	r := &Recorder{}
	r.Notify("a")
	r.Notify("b")

	assert.Equal(t, []string{"a", "b"}, r.Messages())
}

func TestMemoryClipboard(t *testing.T) {
	c := &MemoryClipboard{}

	_, written := c.Content()
	assert.False(t, written)

	assert.NoError(t, c.WriteText("Salut"))
	content, written := c.Content()
	assert.True(t, written)
	assert.Equal(t, "Salut", content)
}
