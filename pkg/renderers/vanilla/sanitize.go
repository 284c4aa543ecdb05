package vanilla

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	headingPolicyOnce sync.Once
	headingPolicy     *bluemonday.Policy
)

// SanitizeHeading strips everything from raw except inline text formatting,
// so configured heading markup cannot inject scripts or block elements.
func SanitizeHeading(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return strings.TrimSpace(headingSanitizer().Sanitize(trimmed))
}

func headingSanitizer() *bluemonday.Policy {
	headingPolicyOnce.Do(func() {
		policy := bluemonday.StrictPolicy()
		policy.AllowElements("b", "strong", "em", "i", "small", "span", "br")
		policy.AllowAttrs("class", "aria-hidden", "title").OnElements("span")
		headingPolicy = policy
	})
	return headingPolicy
}
