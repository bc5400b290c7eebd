package notion

// Structural limits imposed by the remote API.
const (
	// MaxTextLength is the per-field text limit, in characters.
	MaxTextLength = 2000

	// MaxBlocksPerRequest is the batch size limit for appending content.
	MaxBlocksPerRequest = 100
)

// SplitText splits t into chunks of at most max characters.  Concatenating
// the chunks reproduces t exactly.  Empty input yields a single empty chunk,
// so callers always have at least one piece to work with.  Splitting is by
// rune, never inside a UTF-8 sequence.
func SplitText(t string, max int) []string {
	runes := []rune(t)
	if len(runes) == 0 {
		return []string{""}
	}
	var chunks []string
	for len(runes) > 0 {
		n := max
		if n > len(runes) {
			n = len(runes)
		}
		chunks = append(chunks, string(runes[:n]))
		runes = runes[n:]
	}
	return chunks
}

// BatchBlocks groups blocks into ordered batches of at most max entries,
// yielding ceil(len/max) batches.
func BatchBlocks(blocks []Block, max int) [][]Block {
	var batches [][]Block
	for len(blocks) > max {
		batches = append(batches, blocks[:max])
		blocks = blocks[max:]
	}
	if len(blocks) > 0 {
		batches = append(batches, blocks)
	}
	return batches
}
