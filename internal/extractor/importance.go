package extractor

import "strings"

// Importance scores a sentence from its meaningful token count, capitalised words,
// technical vocabulary and definitional phrasing. The result is clamped to [0, 1].
func (e *Extractor) Importance(sentence string, tokenCount int) float64 {
	score := e.opts.BaseImportance
	score += min(float64(tokenCount)*e.opts.LengthStep, e.opts.LengthCap)
	score += float64(len(capitalizedWord.FindAllString(sentence, -1))) * e.opts.CapitalizedBonus
	score += float64(len(importanceTechnical.FindAllString(sentence, -1))) * e.opts.TechnicalBonus

	lower := strings.ToLower(sentence)
	if strings.Contains(sentence, "?") || strings.Contains(lower, "is ") || strings.Contains(lower, "are ") {
		score += e.opts.DefinitionBonus
	}

	return clamp(score, 0, 1)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
