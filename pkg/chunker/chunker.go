package chunker

import (
	"strings"
	"unicode/utf8"
)

const (
	// DefaultChunkSize is the target chunk length in characters.
	DefaultChunkSize = 1000
	// DefaultOverlap is how many trailing characters carry over into
	// the next chunk.
	DefaultOverlap = 100

	// Chunks at or below this length after trimming are discarded as noise.
	minChunkLen = 20
)

var sentenceTerminators = map[rune]bool{'.': true, '?': true, '!': true}

// normalizeWhitespace collapses runs of whitespace into single spaces
// and trims the ends.
func normalizeWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// ChunkText splits raw text into overlapping retrieval-sized segments.
// Cut points prefer a sentence terminator, then a word boundary, and
// only land mid-word as a last resort. A boundary is accepted only when
// it lies past the midpoint of the window, so no tiny straggler chunks
// are produced. Offsets are in characters, not bytes, so multi-byte
// input is never cut mid-rune. The output is fully determined by
// (text, chunkSize, overlap).
func ChunkText(text string, chunkSize int, overlap int) []string {
	cleaned := []rune(normalizeWhitespace(text))
	if len(cleaned) == 0 {
		return nil
	}
	if len(cleaned) <= chunkSize {
		return []string{string(cleaned)}
	}

	chunks := make([]string, 0, len(cleaned)/chunkSize+1)
	start := 0
	for start < len(cleaned) {
		end := start + chunkSize
		if end >= len(cleaned) {
			end = len(cleaned)
		} else {
			end = findCutPoint(cleaned, start, end, chunkSize)
		}

		chunk := strings.TrimSpace(string(cleaned[start:end]))
		if utf8.RuneCountInString(chunk) > minChunkLen {
			chunks = append(chunks, chunk)
		}

		if end >= len(cleaned) {
			break
		}

		// Advance by at least one so the loop always terminates, even
		// when overlap is close to the chunk size.
		next := end - overlap
		if next <= start {
			next = start + 1
		}
		start = next
	}

	return chunks
}

// findCutPoint searches backward from the candidate end for the nearest
// sentence terminator and accepts it only if the resulting chunk spans
// at least half the window. Failing that it tries the nearest space
// under the same constraint, and finally falls back to the raw cut.
func findCutPoint(text []rune, start, end, chunkSize int) int {
	midpoint := start + chunkSize/2

	for i := end - 1; i > start; i-- {
		if sentenceTerminators[text[i]] {
			if i+1 >= midpoint {
				return i + 1
			}
			break
		}
	}

	for i := end - 1; i > start; i-- {
		if text[i] == ' ' {
			if i+1 >= midpoint {
				return i + 1
			}
			break
		}
	}

	return end
}
