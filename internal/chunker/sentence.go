package chunker

import (
	"regexp"
	"strings"
)

var sentenceSplitter = regexp.MustCompile(`(?m)(?U)[^.!?]+[.!?]+`)

// Sentences segments text into sentences on terminal punctuation. Trailing
// text without a terminator is kept as a final sentence.
func Sentences(text string) []string {
	var sentences []string
	last := 0
	for _, loc := range sentenceSplitter.FindAllStringIndex(text, -1) {
		if s := strings.TrimSpace(text[loc[0]:loc[1]]); s != "" {
			sentences = append(sentences, s)
		}
		last = loc[1]
	}
	if rest := strings.TrimSpace(text[last:]); rest != "" {
		sentences = append(sentences, rest)
	}
	return sentences
}

// TextChunker accumulates sentences into windows bounded by ChunkSize words.
// A window is emitted once it reaches the word budget; the next window is
// seeded with the last Overlap sentences of the emitted one to preserve
// context continuity. Overlap is measured in sentences, ChunkSize in words.
type TextChunker struct {
	ChunkSize int
	Overlap   int
}

// Split chunks text into overlapping windows. Sentences are never split
// across windows, with one exception: a single sentence longer than
// ChunkSize words is itself cut into fixed-size word windows with no
// overlap, after flushing any pending window.
func (c TextChunker) Split(text string) []Chunk {
	size := c.ChunkSize
	if size <= 0 {
		size = 200
	}
	overlap := c.Overlap
	if overlap < 0 {
		overlap = 0
	}

	var (
		chunks []Chunk
		window []string
		words  int
		fresh  int // sentences in window beyond the overlap seed
	)

	emit := func(text string) {
		chunks = append(chunks, Chunk{Text: text, Index: len(chunks)})
	}

	closeWindow := func() {
		emit(strings.Join(window, " "))
		if overlap < len(window) {
			window = append([]string(nil), window[len(window)-overlap:]...)
		}
		words = 0
		for _, s := range window {
			words += len(strings.Fields(s))
		}
		fresh = 0
	}

	for _, sentence := range Sentences(text) {
		sentenceWords := strings.Fields(sentence)

		if len(sentenceWords) > size {
			// Oversized sentence: flush whatever is pending, then fall back
			// to fixed word windows.
			if fresh > 0 {
				emit(strings.Join(window, " "))
			}
			window, words, fresh = nil, 0, 0
			for i := 0; i < len(sentenceWords); i += size {
				end := i + size
				if end > len(sentenceWords) {
					end = len(sentenceWords)
				}
				emit(strings.Join(sentenceWords[i:end], " "))
			}
			continue
		}

		window = append(window, sentence)
		words += len(sentenceWords)
		fresh++
		if words >= size {
			closeWindow()
		}
	}

	// The remainder is only a chunk if it carries sentences that have not
	// been emitted yet; a pure overlap tail would duplicate content.
	if fresh > 0 {
		emit(strings.Join(window, " "))
	}
	return chunks
}
