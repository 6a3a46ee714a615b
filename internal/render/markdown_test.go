package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziadkadry99/cdp-assistant/internal/kb"
)

func TestMarkdownNumberedSteps(t *testing.T) {
	topic, ok := kb.Default().Lookup(kb.PlatformLytics, "collection")
	require.True(t, ok)

	out, err := Markdown(topic.Response)
	require.NoError(t, err)
	assert.Contains(t, out, "<p>To collect data in Lytics:</p>")
	assert.Contains(t, out, "<ol>")
	assert.Contains(t, out, "<li>Set up data streams</li>")
	assert.Contains(t, out, "<li>Validate incoming data</li>")
}

func TestMarkdownEscapesRawHTML(t *testing.T) {
	out, err := Markdown("hello <script>alert(1)</script>")
	require.NoError(t, err)
	assert.NotContains(t, out, "<script>")
}

func TestMarkdownHardWraps(t *testing.T) {
	out, err := Markdown("line one\nline two")
	require.NoError(t, err)
	assert.Contains(t, out, "<br>")
}
