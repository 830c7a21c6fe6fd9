package extractor

import "strings"

// CategoryRule pairs a domain with the keywords that vote for it.
type CategoryRule struct {
	Category Category
	Keywords []string
}

// CategoryRules is scanned in order; on a tie the earlier rule wins.
var CategoryRules = []CategoryRule{
	{CategoryTechnology, []string{"software", "computer", "digital", "tech", "system", "data", "algorithm", "network", "machine learning", "artificial intelligence"}},
	{CategoryScience, []string{"research", "study", "analysis", "experiment", "theory", "scientific", "method"}},
	{CategoryBusiness, []string{"market", "strategy", "customer", "revenue", "profit", "management", "company"}},
	{CategoryEducation, []string{"learning", "student", "knowledge", "skill", "teaching", "education", "training"}},
	{CategoryHealth, []string{"health", "medical", "treatment", "patient", "disease", "therapy", "care"}},
	{CategoryEnvironment, []string{"climate", "environment", "nature", "pollution", "sustainability", "green"}},
	{CategoryPsychology, []string{"behavior", "mind", "emotion", "cognitive", "mental", "psychology", "brain"}},
}

// KeywordsFor returns the keyword list of a category, or nil for general and unknown ones.
func KeywordsFor(c Category) []string {
	for _, rule := range CategoryRules {
		if rule.Category == c {
			return rule.Keywords
		}
	}
	return nil
}

// DetectCategory scores each rule by how many of its keywords occur as substrings of text.
func DetectCategory(text string) Category {
	lower := strings.ToLower(text)
	best := CategoryGeneral
	bestScore := 0

	for _, rule := range CategoryRules {
		score := 0
		for _, kw := range rule.Keywords {
			if strings.Contains(lower, kw) {
				score++
			}
		}
		if score > bestScore {
			bestScore = score
			best = rule.Category
		}
	}
	return best
}
