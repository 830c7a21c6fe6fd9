// Package segmenter splits free-form text into sentences.
package segmenter

import (
	"iter"
	"regexp"
	"slices"
)

// A sentence is a run of non-terminal characters followed by one or more of . ! ?
var sentencePattern = regexp.MustCompile(`[^.!?]+[.!?]+`)

// Sentences yields the sentences of text in order, terminal punctuation included.
// When no terminated sentence exists the whole text is yielded once.
// The sequence is lazy and can be ranged over any number of times.
func Sentences(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		rest := text
		found := false
		for {
			loc := sentencePattern.FindStringIndex(rest)
			if loc == nil {
				break
			}
			found = true
			if !yield(rest[loc[0]:loc[1]]) {
				return
			}
			rest = rest[loc[1]:]
		}
		if !found {
			yield(text)
		}
	}
}

// Split collects Sentences into a slice.
func Split(text string) []string {
	return slices.Collect(Sentences(text))
}
