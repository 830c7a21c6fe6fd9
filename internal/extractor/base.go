package extractor

// Category is the topical domain detected for a sentence.
type Category string

const (
	CategoryTechnology  Category = "technology"
	CategoryScience     Category = "science"
	CategoryBusiness    Category = "business"
	CategoryEducation   Category = "education"
	CategoryHealth      Category = "health"
	CategoryEnvironment Category = "environment"
	CategoryPsychology  Category = "psychology"
	CategoryGeneral     Category = "general"
)

// Concept is a scored, categorized unit of meaning extracted from one sentence.
// It is not modified after extraction.
type Concept struct {
	ID          string   `json:"id"`
	Text        string   `json:"text"`
	Phrases     []string `json:"phrases"`
	Terms       []string `json:"terms"` // ranked by corpus frequency, best first
	Category    Category `json:"category"`
	SourceIndex int      `json:"sourceIndex"`
	Importance  float64  `json:"importance"`
}

// Options holds the empirically chosen extraction constants.
type Options struct {
	// MinImportance is the survival cutoff; concepts must score strictly above it.
	MinImportance    float64
	BaseImportance   float64
	LengthStep       float64
	LengthCap        float64
	CapitalizedBonus float64
	TechnicalBonus   float64
	DefinitionBonus  float64

	MaxPhrases int
	MaxTerms   int
	// Tokens must be longer than MinTokenLen and shorter than MaxTokenLen.
	MinTokenLen int
	MaxTokenLen int
	// LongTokenLen and LongTokenBoost reward tokens longer than LongTokenLen when ranking terms.
	LongTokenLen   int
	LongTokenBoost float64
}

// DefaultOptions returns the constants the extractor was tuned with.
func DefaultOptions() Options {
	return Options{
		MinImportance:    0.3,
		BaseImportance:   0.5,
		LengthStep:       0.05,
		LengthCap:        0.3,
		CapitalizedBonus: 0.1,
		TechnicalBonus:   0.15,
		DefinitionBonus:  0.2,
		MaxPhrases:       12,
		MaxTerms:         8,
		MinTokenLen:      2,
		MaxTokenLen:      20,
		LongTokenLen:     6,
		LongTokenBoost:   1.5,
	}
}
