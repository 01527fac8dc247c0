package utils

import (
	"regexp"
	"strings"
)

var nameAllowed = regexp.MustCompile(`[^a-zA-Z0-9_ ]`)

// CleanName strips every character outside letters, digits, underscore
// and space, then trims surrounding whitespace. Display names are used
// as identity, so everything entering the coordinator goes through here.
func CleanName(name string) string {
	name = nameAllowed.ReplaceAllString(name, "")
	return strings.TrimSpace(name)
}
