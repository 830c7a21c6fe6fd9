package labeler

import (
	"regexp"
	"slices"
	"sort"
	"strings"

	"mindgraph/internal/cluster"
	"mindgraph/internal/extractor"
)

const (
	MaxLabelLen  = 20
	DefaultLabel = "Main Topic"
)

var (
	labelStrip = regexp.MustCompile(`[^\w\s-]`)
	wordStart  = regexp.MustCompile(`\b\w`)
)

// Strategy proposes a label for a cluster. An empty result defers to the next strategy.
type Strategy struct {
	Name    string
	Propose func(c *cluster.Cluster) string
}

// Strategies are tried in order; the first non-empty cleaned label wins.
var Strategies = []Strategy{
	{Name: "phrase", Propose: bestPhrase},
	{Name: "category-term", Propose: categoryTerm},
	{Name: "frequent-term", Propose: frequentTerm},
	{Name: "category-fallback", Propose: categoryFallback},
}

var fallbackLabels = map[extractor.Category]string{
	extractor.CategoryTechnology:  "Technology",
	extractor.CategoryScience:     "Research",
	extractor.CategoryBusiness:    "Business",
	extractor.CategoryEducation:   "Learning",
	extractor.CategoryHealth:      "Healthcare",
	extractor.CategoryEnvironment: "Environment",
	extractor.CategoryPsychology:  "Psychology",
	extractor.CategoryGeneral:     "Concepts",
}

var weakTerms = map[string]bool{
	"this": true, "that": true, "these": true, "those": true,
	"with": true, "from": true, "they": true,
}

// Label runs the strategy chain for one cluster.
func Label(c *cluster.Cluster) string {
	for _, s := range Strategies {
		if label := Clean(s.Propose(c)); label != "" {
			return label
		}
	}
	return DefaultLabel
}

// LabelAll sets Label on every cluster in place and returns the same slice.
func LabelAll(clusters []cluster.Cluster) []cluster.Cluster {
	for i := range clusters {
		clusters[i].Label = Label(&clusters[i])
	}
	return clusters
}

// Clean strips everything but word characters, hyphens and spaces, trims,
// truncates to MaxLabelLen and title-cases each word. A space left at the cut
// is kept so labels stay byte-compatible with maps generated earlier.
func Clean(label string) string {
	s := strings.TrimSpace(labelStrip.ReplaceAllString(label, ""))
	if len(s) > MaxLabelLen {
		s = s[:MaxLabelLen]
	}
	return titleCase(s)
}

func titleCase(s string) string {
	return wordStart.ReplaceAllStringFunc(s, strings.ToUpper)
}

func bestPhrase(c *cluster.Cluster) string {
	var candidates []string
	for _, p := range c.Main.Phrases {
		if len(p) > 3 && len(p) < 25 {
			candidates = append(candidates, p)
		}
	}
	if len(candidates) == 0 {
		return ""
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return len(candidates[i]) > len(candidates[j])
	})
	return candidates[0]
}

func categoryTerm(c *cluster.Cluster) string {
	keywords := extractor.KeywordsFor(c.Category)
	var terms []string
	for _, t := range pooledTerms(c) {
		if slices.Contains(keywords, strings.ToLower(t)) {
			terms = append(terms, t)
		}
	}
	return titleCase(mostFrequent(terms))
}

func frequentTerm(c *cluster.Cluster) string {
	var terms []string
	for _, t := range pooledTerms(c) {
		if len(t) > 4 && !weakTerms[t] {
			terms = append(terms, t)
		}
	}
	return titleCase(mostFrequent(terms))
}

func categoryFallback(c *cluster.Cluster) string {
	if l, ok := fallbackLabels[c.Category]; ok {
		return l
	}
	return DefaultLabel
}

func pooledTerms(c *cluster.Cluster) []string {
	var out []string
	for _, concept := range c.Concepts() {
		out = append(out, concept.Terms...)
	}
	return out
}

// mostFrequent returns the item that first reached the highest count.
func mostFrequent(items []string) string {
	counts := make(map[string]int, len(items))
	best, max := "", 0
	for _, it := range items {
		counts[it]++
		if counts[it] > max {
			max = counts[it]
			best = it
		}
	}
	return best
}
