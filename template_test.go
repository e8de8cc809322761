package solara

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIdentityKeyStability(t *testing.T) {
	html := "<p>hello</p>"

	// Same inputs always share a key.
	assert.Equal(t,
		identityKey(html, true, []int{1, 2}),
		identityKey(html, true, []int{1, 2}))

	// Configuration is part of the identity.
	keyA := identityKey(html, true, []int{1, 2})
	keyB := identityKey(html, true, []int{1, 3})
	keyC := identityKey(html, false, []int{1, 2})
	assert.NotEqual(t, keyA, keyB)
	assert.NotEqual(t, keyA, keyC)
	assert.NotEqual(t, keyB, keyC)

	// So is the HTML itself.
	assert.NotEqual(t, keyA, identityKey("<p>other</p>", true, []int{1, 2}))
}

func TestIdentityKeyFormat(t *testing.T) {
	key := identityKey("<p>x</p>", false, nil)
	assert.Len(t, key, 64) // hex-encoded SHA-256
	assert.Equal(t, strings.ToLower(key), key)
}

func TestWrapTemplate(t *testing.T) {
	markup := wrapTemplate("<p>body</p>", "color: red;")

	assert.Contains(t, markup, `<p>body</p>`)
	assert.Contains(t, markup, `style="color: red;"`)
	assert.Contains(t, markup, `class="solara-markdown rendered-html"`)

	// Mount/update hooks for the hosting environment.
	assert.Contains(t, markup, "mounted()")
	assert.Contains(t, markup, "updated()")
	assert.Contains(t, markup, "mermaid.init()")
	assert.Contains(t, markup, "setupRouter")
}
