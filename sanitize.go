package solara

import (
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	sanitizeOnce sync.Once
	sanitizer    *bluemonday.Policy
)

// sanitizePolicy builds the shared sanitizer: a UGC policy extended to keep
// the markup this renderer itself emits, in particular live widget
// references, highlighted-code spans and mermaid containers.
func sanitizePolicy() *bluemonday.Policy {
	sanitizeOnce.Do(func() {
		p := bluemonday.UGCPolicy()
		p.AllowAttrs("class").OnElements("div", "span", "pre", "code", "details")
		p.AllowElements("details", "summary")
		p.AllowAttrs("id").OnElements("live-widget-ref")
		p.AllowElements("live-widget-ref")
		sanitizer = p
	})
	return sanitizer
}
