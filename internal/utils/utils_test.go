package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadOptionalEnv(t *testing.T) {
	t.Setenv("HIBIKI_TEST_PRESENT", "yes")

	env := LoadOptionalEnv([]string{"HIBIKI_TEST_PRESENT", "HIBIKI_TEST_MISSING"})
	assert.Equal(t, map[string]string{"HIBIKI_TEST_PRESENT": "yes"}, env)
}

func TestChunkLines(t *testing.T) {
	assert.Equal(t, []string{"short"}, ChunkLines("short", 100))
	assert.Equal(t, []string{"anything"}, ChunkLines("anything", 0))

	text := "aaaa\nbbbb\ncccc\n"
	assert.Equal(t, []string{"aaaa\nbbbb\n", "cccc\n"}, ChunkLines(text, 10))

	t.Run("long line is cut", func(t *testing.T) {
		chunks := ChunkLines("abcdefgh\nxy", 3)
		assert.Equal(t, "abcdefgh\nxy", strings.Join(chunks, ""))
		for _, chunk := range chunks {
			assert.LessOrEqual(t, UTF16Len(chunk), 3)
		}
	})

	t.Run("counts runes", func(t *testing.T) {
		chunks := ChunkLines("привет\nмир\n", 7)
		assert.Equal(t, []string{"привет\n", "мир\n"}, chunks)
	})

	t.Run("counts utf-16 units", func(t *testing.T) {
		// each guitar is two units, so three of them do not fit in five
		chunks := ChunkLines("🎸🎸\n🎸\n", 5)
		assert.Equal(t, []string{"🎸🎸\n", "🎸\n"}, chunks)

		chunks = ChunkLines("🎸🎸🎸", 3)
		assert.Equal(t, []string{"🎸", "🎸", "🎸"}, chunks)
	})
}

func TestUTF16Len(t *testing.T) {
	assert.Equal(t, 0, UTF16Len(""))
	assert.Equal(t, 3, UTF16Len("мир"))
	assert.Equal(t, 4, UTF16Len("Am🎸"))
}
