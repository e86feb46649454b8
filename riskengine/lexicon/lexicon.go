package lexicon

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"regexp"
)

// Severity tier for a keyword list. Each tier carries a fixed score weight.
type Severity int

const (
	SeverityMedium Severity = iota
	SeverityHigh
	SeverityExtreme
)

var severityNames = map[Severity]string{
	SeverityMedium:  "medium",
	SeverityHigh:    "high",
	SeverityExtreme: "extreme",
}

var severityWeights = map[Severity]float64{
	SeverityMedium:  10,
	SeverityHigh:    20,
	SeverityExtreme: 30,
}

func (s Severity) String() string {
	return severityNames[s]
}

// Weight returns the score contribution of a single keyword hit in this tier.
func (s Severity) Weight() float64 {
	return severityWeights[s]
}

func ParseSeverity(raw string) (Severity, error) {
	switch raw {
	case "medium":
		return SeverityMedium, nil
	case "high":
		return SeverityHigh, nil
	case "extreme":
		return SeverityExtreme, nil
	}
	return 0, fmt.Errorf("unknown severity tier: %q", raw)
}

// Severities lists all tiers in a fixed order, so that iteration over keyword
// maps is deterministic.
func Severities() []Severity {
	return []Severity{SeverityExtreme, SeverityHigh, SeverityMedium}
}

// Word lists which signal that risky terms appear in a non-endorsing frame.
type ContextIndicators struct {
	Discussion []string
	Quotation  []string
	Negation   []string
}

// Lexicon is the curated keyword/pattern table driving the scorer. It is
// loaded once at startup and shared read-only; the engine never mutates it.
type Lexicon struct {
	HateKeywords     map[Severity][]string
	ViolenceKeywords map[Severity][]string
	SlurPatterns     []*regexp.Regexp
	Context          ContextIndicators

	Source  string
	Version string
}

type fileSchema struct {
	HateKeywords      map[string][]string `json:"hate_keywords"`
	ViolenceKeywords  map[string][]string `json:"violence_keywords"`
	SlurPatterns      []string            `json:"slur_patterns"`
	ContextIndicators struct {
		Discussion []string `json:"discussion"`
		Quotation  []string `json:"quotation"`
		Negation   []string `json:"negation"`
	} `json:"context_indicators"`
	Source  string `json:"source"`
	Version string `json:"version"`
}

// LoadFromFileJSON reads and validates a lexicon file. Any missing file,
// malformed JSON, unknown severity tier, or uncompilable slur pattern is an
// error: the scorer cannot exist without a valid lexicon.
func LoadFromFileJSON(p string) (*Lexicon, error) {
	f, err := os.Open(p)
	if err != nil {
		return nil, fmt.Errorf("opening lexicon file: %w", err)
	}
	defer func() { _ = f.Close() }()

	raw, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("reading lexicon file: %w", err)
	}
	return ParseJSON(raw)
}

func ParseJSON(raw []byte) (*Lexicon, error) {
	var schema fileSchema
	if err := json.Unmarshal(raw, &schema); err != nil {
		return nil, fmt.Errorf("parsing lexicon JSON: %w", err)
	}

	lex := &Lexicon{
		HateKeywords:     make(map[Severity][]string),
		ViolenceKeywords: make(map[Severity][]string),
		Source:           schema.Source,
		Version:          schema.Version,
	}
	for tier, words := range schema.HateKeywords {
		sev, err := ParseSeverity(tier)
		if err != nil {
			return nil, fmt.Errorf("hate keywords: %w", err)
		}
		lex.HateKeywords[sev] = words
	}
	for tier, words := range schema.ViolenceKeywords {
		sev, err := ParseSeverity(tier)
		if err != nil {
			return nil, fmt.Errorf("violence keywords: %w", err)
		}
		lex.ViolenceKeywords[sev] = words
	}
	for _, pat := range schema.SlurPatterns {
		re, err := regexp.Compile("(?i)" + pat)
		if err != nil {
			return nil, fmt.Errorf("compiling slur pattern %q: %w", pat, err)
		}
		lex.SlurPatterns = append(lex.SlurPatterns, re)
	}
	lex.Context = ContextIndicators{
		Discussion: schema.ContextIndicators.Discussion,
		Quotation:  schema.ContextIndicators.Quotation,
		Negation:   schema.ContextIndicators.Negation,
	}
	return lex, nil
}

// KeywordCount returns the total number of keywords across all tiers of a
// keyword map. Used for startup logging.
func KeywordCount(m map[Severity][]string) int {
	total := 0
	for _, words := range m {
		total += len(words)
	}
	return total
}
