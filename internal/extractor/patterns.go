package extractor

import "regexp"

// Matcher is one independent pattern family. Families are data so they can be
// tested and changed one at a time.
type Matcher struct {
	Name    string
	Pattern *regexp.Regexp
}

// Find returns every match of the family in text, in order of appearance.
func (m Matcher) Find(text string) []string {
	return m.Pattern.FindAllString(text, -1)
}

// PhraseMatchers produce candidate phrases from the original-cased sentence.
var PhraseMatchers = []Matcher{
	{"capitalized", regexp.MustCompile(`\b[A-Z][a-z]+(?:\s+[A-Z][a-z]+)*\b`)},
	{"compound", regexp.MustCompile(`(?i)\b[a-z]+-[a-z]+\b`)},
	{"action", regexp.MustCompile(`(?i)\b(?:develop|create|implement|analyze|process|manage|design|build)\s+\w+`)},
	{"scientific", regexp.MustCompile(`(?i)\b\w+(?:ology|tion|sion|ment|ness|ity|ism|osis)\b`)},
	{"measurement", regexp.MustCompile(`(?i)\b\d+(?:\.\d+)?\s*(?:percent|%|kg|meters?|years?|times?|degrees?)\b`)},
}

// EntityMatchers recognise organisations, technology acronyms and dates.
var EntityMatchers = []Matcher{
	{"organization", regexp.MustCompile(`\b[A-Z][A-Za-z\s]+(?:Inc|Corp|Ltd|LLC|Company|Organization)\b`)},
	{"technology", regexp.MustCompile(`(?i)\b(?:HTTP|API|JSON|XML|SQL|HTML|CSS|JavaScript|Python|React|Node\.js|AI|ML)\b`)},
	{"date", regexp.MustCompile(`\b(?:January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{4}|\b\d{4}\b`)},
}

// TechnicalMatchers pick up domain vocabulary for the phrase pool.
var TechnicalMatchers = []Matcher{
	{"engineering", regexp.MustCompile(`(?i)\b(?:algorithm|database|framework|architecture|protocol|interface)\w*\b`)},
	{"research", regexp.MustCompile(`(?i)\b(?:analysis|research|methodology|hypothesis|correlation)\w*\b`)},
	{"performance", regexp.MustCompile(`(?i)\b(?:optimization|performance|efficiency|scalability)\w*\b`)},
	{"ml", regexp.MustCompile(`(?i)\b(?:machine learning|artificial intelligence|neural network|deep learning)\b`)},
}

var (
	// importanceTechnical is deliberately a different vocabulary from TechnicalMatchers.
	importanceTechnical = regexp.MustCompile(`(?i)\b(?:algorithm|system|process|method|analysis|research|development|implementation|technology|innovation)\b`)
	capitalizedWord     = regexp.MustCompile(`\b[A-Z][a-z]+`)
	nonWordOrSpace      = regexp.MustCompile(`[^\w\s]`)
	tokenSeparator      = regexp.MustCompile(`[^A-Za-z0-9_]+`)
	digitsOnly          = regexp.MustCompile(`^\d+$`)
)

// collect runs every matcher over text and returns the de-duplicated union in first-seen order.
func collect(matchers []Matcher, text string) []string {
	var out []string
	for _, m := range matchers {
		out = append(out, m.Find(text)...)
	}
	return unique(out)
}

func unique(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, it := range items {
		if _, ok := seen[it]; ok {
			continue
		}
		seen[it] = struct{}{}
		out = append(out, it)
	}
	return out
}
