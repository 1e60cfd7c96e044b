// Package sanitize cleans user-submitted rich text. Task content,
// lesson notes, and comment bodies arrive as HTML from the frontend
// editor; everything that could execute (scripts, event handlers,
// javascript: URLs) is stripped before the text reaches the database.
package sanitize

import (
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var richText = sync.OnceValue(func() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()

	// The editor tags code blocks and alignment with classes.
	p.AllowAttrs("class").Globally()

	// Lesson notes use tables for vocabulary grids.
	p.AllowElements("table", "thead", "tbody", "tr", "td", "th")
	p.AllowAttrs("colspan", "rowspan").OnElements("td", "th")

	return p
})

// HTML returns input with unsafe markup removed. Services call this on
// every rich-text field before persisting it, so stored content is safe
// to render via innerHTML.
func HTML(input string) string {
	if input == "" {
		return ""
	}
	return richText().Sanitize(input)
}
