package embedding

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestChunkContent(t *testing.T) {
	content := strings.Repeat("word ", 100)

	chunks := chunkContent(content, 60)
	assert.Greater(t, len(chunks), 1)
	for _, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk), 60)
	}

	single := chunkContent("short text", 60)
	assert.Len(t, single, 1)
}

func TestChunkContent_UnbrokenLongToken(t *testing.T) {
	// a single token longer than the limit must be hard-split,
	// not flushed into an empty leading chunk
	content := strings.Repeat("x", 5000) + " tail words here"

	chunks := chunkContent(content, 4000)
	assert.Greater(t, len(chunks), 1)
	for _, chunk := range chunks {
		assert.NotEmpty(t, strings.TrimSpace(chunk))
	}

	first := firstChunk(content, 4000)
	assert.NotEmpty(t, strings.TrimSpace(first))
	assert.LessOrEqual(t, len(first), 4000)
}

func TestChunkContent_SpacelessMultibyte(t *testing.T) {
	content := strings.Repeat("日", 2000)

	chunks := chunkContent(content, 100)
	assert.Greater(t, len(chunks), 1)
	for _, chunk := range chunks {
		assert.NotEmpty(t, strings.TrimSpace(chunk))
		assert.True(t, utf8.ValidString(chunk))
		assert.LessOrEqual(t, len(chunk), 100)
	}
}

func TestFirstChunk_Truncates(t *testing.T) {
	content := strings.Repeat("word ", 100)
	chunk := firstChunk(content, 60)
	assert.LessOrEqual(t, len(chunk), 60)
	assert.True(t, strings.HasPrefix(strings.TrimSpace(chunk), "word"))
}
