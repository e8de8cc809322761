package solara

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
)

// wrapTemplate embeds rendered HTML in the fixed presentation shell. The
// script block gives the hosting environment its mount/update hooks:
// re-initialize mermaid diagrams and re-bind same-document links on mount and
// again whenever the content updates.
func wrapTemplate(html, style string) string {
	return `<template>
    <div class="solara-markdown rendered-html" style="` + style + `">` + html + `</div>
</template>

<script>
module.exports = {
    mounted() {
        mermaid.init()
        this.$el.querySelectorAll("a").forEach(a => this.setupRouter(a))
    },
    methods: {
        setupRouter(a) {
            let href = a.attributes['href'].value;
            if (href.startsWith("./")) {
                href = location.pathname + href.substr(1);
                a.attributes['href'].href = href;
            }
            if (href.startsWith("./") || href.startsWith("/")) {
                a.onclick = e => {
                    solara.router.push(href);
                    e.preventDefault()
                }
            } else if (href.startsWith("#")) {
                // Anchors need the full path prefixed because the page sets <base>.
                href = location.pathname + href;
                a.attributes['href'].value = href;
            }
        }
    },
    updated() {
        mermaid.init()
    }
}
</script>
`
}

// identityKey hashes the rendered HTML together with the render
// configuration. The hosting layer uses it as a replacement key: equal keys
// mean the output can be reused as-is, differing keys force a full swap. The
// execution flag and highlight-line spec are part of the identity because
// they change meaning even when the HTML happens to match.
func identityKey(html string, unsafeExecute bool, highlightLines []int) string {
	h := sha256.New()
	_, _ = io.WriteString(h, html)
	_, _ = io.WriteString(h, strconv.FormatBool(unsafeExecute))
	_, _ = fmt.Fprintf(h, "%v", highlightLines)
	return hex.EncodeToString(h.Sum(nil))
}
