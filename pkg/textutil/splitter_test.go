package textutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitTextShortInput(t *testing.T) {
	chunks := SplitText("ngắn gọn", 100, 10)
	require.Len(t, chunks, 1)
	assert.Equal(t, "ngắn gọn", chunks[0])
}

func TestSplitTextEmptyInput(t *testing.T) {
	assert.Empty(t, SplitText("", 100, 10))
	assert.Empty(t, SplitText("   \n\t  ", 100, 10))
}

func TestSplitTextChunksOverlap(t *testing.T) {
	text := strings.Repeat("a", 250)
	chunks := SplitText(text, 100, 20)
	require.True(t, len(chunks) >= 3)

	for _, chunk := range chunks {
		assert.LessOrEqual(t, len([]rune(chunk)), 100)
	}

	// Consecutive chunks share their boundary region.
	first := []rune(chunks[0])
	second := []rune(chunks[1])
	assert.Equal(t, string(first[len(first)-20:]), string(second[:20]))
}

func TestSplitTextIsRuneSafe(t *testing.T) {
	// Multibyte text must never be cut mid-rune.
	text := strings.Repeat("tiếng Việt có dấu ", 50)
	chunks := SplitText(text, 64, 8)
	require.NotEmpty(t, chunks)
	for _, chunk := range chunks {
		assert.True(t, strings.ToValidUTF8(chunk, "") == chunk, "chunk contains invalid UTF-8")
	}
}

func TestSplitTextCoversWholeInput(t *testing.T) {
	text := strings.Repeat("x", 500)
	chunks := SplitText(text, 120, 30)

	total := 0
	for _, chunk := range chunks {
		total += len([]rune(chunk))
	}
	// Overlap means the sum exceeds the input, never falls short.
	assert.GreaterOrEqual(t, total, 500)
}
