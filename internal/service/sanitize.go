package service

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strictPolicy = bluemonday.StrictPolicy()

// maxSanitizePasses bounds how many layers of entity encoding are peeled off.
const maxSanitizePasses = 4

// plainText strips markup from user supplied text while keeping ordinary punctuation intact.
// Entity-encoded markup is decoded and stripped again until the text stops changing; input
// that is still changing after maxSanitizePasses is returned in its escaped form.
func plainText(input string) string {
	current := input
	for i := 0; i < maxSanitizePasses; i++ {
		sanitized := strictPolicy.Sanitize(current)
		decoded := html.UnescapeString(sanitized)
		if decoded == current {
			return strings.TrimSpace(decoded)
		}
		current = decoded
	}
	return strings.TrimSpace(strictPolicy.Sanitize(current))
}
