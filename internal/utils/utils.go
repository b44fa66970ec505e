package utils

import (
	"os"
	"strings"
	"unicode/utf16"

	"github.com/joho/godotenv"
)

// LoadOptionalEnv loads .env (if present) and returns the variables that are
// set, leaving unset ones out of the returned map.
func LoadOptionalEnv(vars []string) map[string]string {
	_ = godotenv.Load()

	envVars := make(map[string]string)
	for _, key := range vars {
		if value := os.Getenv(key); value != "" {
			envVars[key] = value
		}
	}
	return envVars
}

// ChunkLines splits text into pieces of at most limit UTF-16 code units, the
// unit Telegram measures messages in. It breaks only between lines unless a
// single line is longer than limit.
func ChunkLines(text string, limit int) []string {
	if limit <= 0 || UTF16Len(text) <= limit {
		return []string{text}
	}

	var chunks []string
	var current strings.Builder
	size := 0

	flush := func() {
		if current.Len() > 0 {
			chunks = append(chunks, current.String())
			current.Reset()
			size = 0
		}
	}

	for _, line := range strings.SplitAfter(text, "\n") {
		n := UTF16Len(line)
		if size+n > limit {
			flush()
		}
		for n > limit {
			head, tail := cutUTF16(line, limit)
			chunks = append(chunks, head)
			line = tail
			n = UTF16Len(line)
		}
		current.WriteString(line)
		size += n
	}
	flush()

	return chunks
}

// UTF16Len returns the length of s in UTF-16 code units.
func UTF16Len(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}

// cutUTF16 splits s after at most limit UTF-16 code units without breaking a
// surrogate pair. At least one rune goes into head.
func cutUTF16(s string, limit int) (string, string) {
	size := 0
	for i, r := range s {
		w := utf16.RuneLen(r)
		if size+w > limit && i > 0 {
			return s[:i], s[i:]
		}
		size += w
	}
	return s, ""
}
