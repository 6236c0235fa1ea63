package scanner

import (
	"strings"

	"github.com/maxvaer/rake/internal/config"
)

// Substitute replaces every placeholder in template with payload. The
// payload is inserted literally, without escaping.
func Substitute(template, payload string) string {
	return strings.ReplaceAll(template, config.Placeholder, payload)
}
