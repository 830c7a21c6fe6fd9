package extractor

import (
	"fmt"
	"sort"
	"strings"

	"mindgraph/internal/segmenter"
)

// Extractor turns free-form text into scored concepts, one per qualifying sentence.
type Extractor struct {
	opts Options
}

// NewExtractor creates an extractor with the given constants.
func NewExtractor(opts Options) *Extractor {
	return &Extractor{opts: opts}
}

// Extract runs the extractor over every sentence of text and drops concepts at or below
// the importance cutoff.
func (e *Extractor) Extract(text string) []Concept {
	freq := tokenFrequency(text)

	var concepts []Concept
	index := 0
	for sentence := range segmenter.Sentences(text) {
		if c, ok := e.ExtractSentence(sentence, index, freq); ok && c.Importance > e.opts.MinImportance {
			concepts = append(concepts, c)
		}
		index++
	}
	return concepts
}

// ExtractSentence builds the concept for one sentence. freq holds token counts of the
// whole input. ok is false when no meaningful token survives filtering.
func (e *Extractor) ExtractSentence(sentence string, index int, freq map[string]int) (Concept, bool) {
	tokens := e.MeaningfulTokens(sentence)
	if len(tokens) == 0 {
		return Concept{}, false
	}

	phrases := e.Phrases(sentence)
	phrases = append(phrases, collect(EntityMatchers, sentence)...)
	phrases = append(phrases, collect(TechnicalMatchers, sentence)...)

	return Concept{
		ID:          fmt.Sprintf("concept-%d", index),
		Text:        strings.TrimSpace(sentence),
		Phrases:     unique(phrases),
		Terms:       e.RankTerms(tokens, freq),
		Category:    DetectCategory(sentence),
		SourceIndex: index,
		Importance:  e.Importance(sentence, len(tokens)),
	}, true
}

// MeaningfulTokens lowercases the sentence, strips punctuation and keeps tokens that are
// neither too short, too long, purely numeric nor stopwords.
func (e *Extractor) MeaningfulTokens(sentence string) []string {
	clean := strings.ToLower(nonWordOrSpace.ReplaceAllString(sentence, " "))

	var out []string
	for _, tok := range tokenize(clean) {
		if len(tok) <= e.opts.MinTokenLen || len(tok) >= e.opts.MaxTokenLen {
			continue
		}
		if digitsOnly.MatchString(tok) || IsStopword(tok) {
			continue
		}
		out = append(out, tok)
	}
	return out
}

// Phrases returns the capped union of the phrase pattern families.
func (e *Extractor) Phrases(sentence string) []string {
	phrases := collect(PhraseMatchers, sentence)
	if len(phrases) > e.opts.MaxPhrases {
		phrases = phrases[:e.opts.MaxPhrases]
	}
	return phrases
}

// RankTerms orders tokens by whole-text frequency, boosting long tokens, and keeps the best.
// Ties keep sentence order.
func (e *Extractor) RankTerms(tokens []string, freq map[string]int) []string {
	type scored struct {
		token string
		score float64
	}
	items := make([]scored, len(tokens))
	for i, tok := range tokens {
		score := float64(freq[tok])
		if len(tok) > e.opts.LongTokenLen {
			score *= e.opts.LongTokenBoost
		}
		items[i] = scored{tok, score}
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].score > items[j].score })

	n := min(len(items), e.opts.MaxTerms)
	out := make([]string, n)
	for i := 0; i < n; i++ {
		out[i] = items[i].token
	}
	return out
}

func tokenize(s string) []string {
	var out []string
	for _, tok := range tokenSeparator.Split(s, -1) {
		if tok != "" {
			out = append(out, tok)
		}
	}
	return out
}

func tokenFrequency(text string) map[string]int {
	freq := make(map[string]int)
	for _, tok := range tokenize(strings.ToLower(text)) {
		freq[tok]++
	}
	return freq
}
