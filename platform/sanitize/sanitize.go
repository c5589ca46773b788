// Package sanitize cleans user-provided free text before it is forwarded to
// backend services.
package sanitize

import (
	"regexp"
	"strings"
)

var (
	htmlTag    = regexp.MustCompile(`<[^>]*>`)
	whitespace = regexp.MustCompile(`[ \t]+`)

	entities = strings.NewReplacer("&lt;", "<", "&gt;", ">", "&amp;", "&", "&quot;", `"`, "&#39;", "'")
)

// Text strips HTML tags, decodes the common entities and collapses runs of
// spaces. Tags hidden behind entities are stripped as well.
func Text(s string) string {
	out := htmlTag.ReplaceAllString(s, "")
	out = entities.Replace(out)
	out = htmlTag.ReplaceAllString(out, "")
	out = whitespace.ReplaceAllString(out, " ")
	return strings.TrimSpace(out)
}
