package ui

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func renderToString(t *testing.T, c Component) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.RenderHTML(&buf))
	return buf.String()
}

func TestTextEscapes(t *testing.T) {
	html := renderToString(t, Text(`<b>&"bold"</b>`))
	assert.Contains(t, html, "&lt;b&gt;")
	assert.NotContains(t, html, "<b>")
}

func TestHTMLPassesThrough(t *testing.T) {
	html := renderToString(t, HTML(`<b>bold</b>`))
	assert.Equal(t, `<b>bold</b>`, html)
}

func TestColumnNesting(t *testing.T) {
	html := renderToString(t, Column(Text("a"), Row(Text("b"), Text("c"))))
	assert.Contains(t, html, `class="solara-column"`)
	assert.Contains(t, html, `class="solara-row"`)
	assert.Contains(t, html, ">a</span>")
	assert.Contains(t, html, ">c</span>")
}

func TestDetails(t *testing.T) {
	html := renderToString(t, Details("More <info>", Preformatted("body")))
	assert.Contains(t, html, "<details")
	assert.Contains(t, html, "<summary>More &lt;info&gt;</summary>")
	assert.Contains(t, html, `<pre class="solara-preformatted">body</pre>`)
}

func TestAlert(t *testing.T) {
	html := renderToString(t, Alert("boom"))
	assert.Contains(t, html, "solara-alert-error")
	assert.Contains(t, html, "boom")
}

func TestContainerForwardsActions(t *testing.T) {
	inner := &recordingComponent{}
	col := Column(Text("static"), inner)

	actor, ok := col.(Actor)
	require.True(t, ok)
	require.NoError(t, actor.HandleAction("tick", nil))
	require.NoError(t, actor.HandleAction("tick", nil))
	assert.Equal(t, 2, inner.actions)
}
