package amdm

import (
	"regexp"
	"strings"
)

var excessiveBreaksRegex = regexp.MustCompile(`\n{3,}`)

// finalCleanup collapses runs of blank lines and leaves exactly one
// trailing newline
func (p *Parser) finalCleanup(source string) string {
	source = excessiveBreaksRegex.ReplaceAllString(source, "\n\n")
	source = strings.TrimSpace(source)
	if source == "" {
		return ""
	}
	return source + "\n"
}
