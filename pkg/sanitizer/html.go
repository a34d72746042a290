package sanitizer

import (
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strictPolicy *bluemonday.Policy
	safePolicy   *bluemonday.Policy
	initOnce     sync.Once
)

func initPolicies() {
	initOnce.Do(func() {
		strictPolicy = bluemonday.StrictPolicy()

		// Covers what the markdown renderer emits.
		safePolicy = bluemonday.NewPolicy()
		safePolicy.AllowStandardURLs()
		safePolicy.AllowElements(
			"p", "br", "hr",
			"strong", "b", "em", "i", "del",
			"ul", "ol", "li",
			"code", "pre", "blockquote",
			"h1", "h2", "h3", "h4", "h5", "h6",
			"table", "thead", "tbody", "tr", "th", "td",
		)
		safePolicy.AllowAttrs("id").OnElements("h1", "h2", "h3", "h4", "h5", "h6")
		safePolicy.AllowAttrs("href").OnElements("a")
		safePolicy.RequireNoFollowOnLinks(true)
	})
}

// Text strips every tag. Entities in s are kept escaped, so already-escaped
// text passes through unchanged.
func Text(s string) string {
	initPolicies()
	return strictPolicy.Sanitize(s)
}

// HTML keeps basic formatting and removes scripts, event handlers and
// javascript: URLs.
func HTML(s string) string {
	initPolicies()
	return safePolicy.Sanitize(s)
}
