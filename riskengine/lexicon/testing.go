package lexicon

import "regexp"

// TestFixture returns a small hand-built lexicon for use in tests, so that
// test code never depends on the filesystem or the curated production table.
func TestFixture() *Lexicon {
	return &Lexicon{
		HateKeywords: map[Severity][]string{
			SeverityExtreme: {"exterminate", "subhuman"},
			SeverityHigh:    {"vermin", "parasites"},
			SeverityMedium:  {"go back", "invaders"},
		},
		ViolenceKeywords: map[Severity][]string{
			SeverityExtreme: {"kill them all", "shoot them"},
			SeverityHigh:    {"beat them", "burn it down"},
			SeverityMedium:  {"fight them", "punch"},
		},
		SlurPatterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)slurword\w*`),
		},
		Context: ContextIndicators{
			Discussion: []string{"article", "report", "study"},
			Quotation:  []string{"quote", "she said", "he said"},
			Negation:   []string{"not", "never", "don't"},
		},
		Source:  "test-fixture",
		Version: "0",
	}
}
