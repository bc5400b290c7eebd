package notion

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitTextEmpty(t *testing.T) {
	chunks := SplitText("", MaxTextLength)
	assert.Equal(t, []string{""}, chunks, "empty input yields one empty chunk")
}

func TestSplitTextLossless(t *testing.T) {
	testCases := []struct {
		name string
		text string
		max  int
		want int
	}{
		{"short", "hello", 2000, 1},
		{"exact boundary", strings.Repeat("a", 2000), 2000, 1},
		{"one over", strings.Repeat("a", 2001), 2000, 2},
		{"many chunks", strings.Repeat("x", 4500), 2000, 3},
		{"tiny max", "abcdef", 2, 3},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			chunks := SplitText(tc.text, tc.max)
			assert.Len(t, chunks, tc.want)
			for i, c := range chunks {
				assert.LessOrEqual(t, len([]rune(c)), tc.max, "chunk %d too long", i)
				if c == "" {
					t.Errorf("chunk %d is empty", i)
				}
			}
			assert.Equal(t, tc.text, strings.Join(chunks, ""), "concatenation must be lossless")
		})
	}
}

func TestSplitTextMultibyte(t *testing.T) {
	// 5 CJK runes, 15 UTF-8 bytes; a byte-based splitter would cut inside a
	// sequence.
	text := "帳單月份付款"
	chunks := SplitText(text, 4)
	assert.Equal(t, []string{"帳單月份", "付款"}, chunks)
	assert.Equal(t, text, strings.Join(chunks, ""))
}

func TestBatchBlocks(t *testing.T) {
	mkBlocks := func(n int) []Block {
		blocks := make([]Block, n)
		for i := range blocks {
			blocks[i] = Paragraph("x")
		}
		return blocks
	}

	testCases := []struct {
		name  string
		count int
		sizes []int
	}{
		{"empty", 0, nil},
		{"single", 1, []int{1}},
		{"full batch", 100, []int{100}},
		{"one over", 101, []int{100, 1}},
		{"two and a half", 250, []int{100, 100, 50}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			batches := BatchBlocks(mkBlocks(tc.count), MaxBlocksPerRequest)
			assert.Len(t, batches, len(tc.sizes))
			for i, want := range tc.sizes {
				assert.Len(t, batches[i], want, "batch %d", i)
			}
		})
	}
}
