package scorer

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/agamordechai/active-fence-assignment/riskengine/lexicon"
)

// Score contribution of a single slur pattern hit. Slur hits are
// tier-independent and can stack per pattern.
const slurPatternWeight = 40

// Score contribution of each aggressive-tone heuristic.
const aggressiveToneWeight = 5

// RiskScore is the result of scoring one text blob. It is a derived value,
// recomputed from scratch on every call and never mutated in place.
type RiskScore struct {
	HateScore     float64   `json:"hate_score"`
	ViolenceScore float64   `json:"violence_score"`
	RiskScore     float64   `json:"risk_score"`
	RiskLevel     RiskLevel `json:"risk_level"`
	Flags         []string  `json:"flags"`
	Explanation   string    `json:"explanation"`
}

type keywordPattern struct {
	word     string
	severity lexicon.Severity
	re       *regexp.Regexp
}

// Scorer evaluates text against a lexicon. Construct once with NewScorer and
// share freely: scoring is a pure function over the immutable lexicon, so a
// single Scorer is safe for concurrent use.
type Scorer struct {
	lex      *lexicon.Lexicon
	hate     []keywordPattern
	violence []keywordPattern

	exclamation *regexp.Regexp
}

func NewScorer(lex *lexicon.Lexicon) *Scorer {
	return &Scorer{
		lex:         lex,
		hate:        compileKeywords(lex.HateKeywords),
		violence:    compileKeywords(lex.ViolenceKeywords),
		exclamation: regexp.MustCompile(`!{3,}`),
	}
}

// compile word-boundary patterns up front, instead of per scoring call
func compileKeywords(m map[lexicon.Severity][]string) []keywordPattern {
	var out []keywordPattern
	for _, sev := range lexicon.Severities() {
		for _, word := range m[sev] {
			out = append(out, keywordPattern{
				word:     word,
				severity: sev,
				re:       regexp.MustCompile(`\b` + regexp.QuoteMeta(strings.ToLower(word)) + `\b`),
			})
		}
	}
	return out
}

// Score evaluates a single text blob. Empty input short-circuits to a zero
// score with level "none"; malformed input is never an error.
func (s *Scorer) Score(text string) RiskScore {
	if text == "" {
		return RiskScore{
			RiskLevel:   LevelNone,
			Flags:       []string{},
			Explanation: "No content to analyze",
		}
	}

	lower := strings.ToLower(text)
	flags := []string{}
	var hateScore, violenceScore float64

	for _, kp := range s.hate {
		if kp.re.MatchString(lower) {
			hateScore += kp.severity.Weight()
			flags = append(flags, fmt.Sprintf("%s hate keyword: '%s'", titleCase(kp.severity.String()), kp.word))
		}
	}
	for _, kp := range s.violence {
		if kp.re.MatchString(lower) {
			violenceScore += kp.severity.Weight()
			flags = append(flags, fmt.Sprintf("%s violence keyword: '%s'", titleCase(kp.severity.String()), kp.word))
		}
	}

	for _, pat := range s.lex.SlurPatterns {
		if pat.MatchString(lower) {
			hateScore += slurPatternWeight
			flags = append(flags, "Slur or derogatory term detected")
		}
	}

	if s.exclamation.MatchString(text) {
		hateScore += aggressiveToneWeight
		flags = append(flags, "Aggressive tone (excessive exclamation)")
	}
	if utf8.RuneCountInString(text) > 20 && upperRatio(text) > 0.5 {
		hateScore += aggressiveToneWeight
		flags = append(flags, "Aggressive tone (excessive caps)")
	}

	// context indicators dampen the score. the reductions are additive across
	// the three lists, with no upper bound; the floor below catches overshoot.
	var reduction float64
	if containsAny(lower, s.lex.Context.Discussion) {
		reduction += 0.2
		flags = append(flags, "Discussion context detected")
	}
	if containsAny(lower, s.lex.Context.Quotation) {
		reduction += 0.2
		flags = append(flags, "Quotation context detected")
	}
	if containsAny(lower, s.lex.Context.Negation) {
		reduction += 0.1
		flags = append(flags, "Negation detected")
	}
	hateScore = math.Max(0, hateScore*(1-reduction))
	violenceScore = math.Max(0, violenceScore*(1-reduction))

	riskScore := math.Min(100, hateScore+violenceScore)

	return RiskScore{
		HateScore:     round2(hateScore),
		ViolenceScore: round2(violenceScore),
		RiskScore:     round2(riskScore),
		RiskLevel:     LevelForScore(riskScore),
		Flags:         flags,
		Explanation:   explain(round2(riskScore), flags),
	}
}

// ScorePost scores a post, combining title and body into one text blob.
func (s *Scorer) ScorePost(title, body string) RiskScore {
	parts := []string{}
	if title != "" {
		parts = append(parts, title)
	}
	if body != "" {
		parts = append(parts, body)
	}
	return s.Score(strings.Join(parts, " "))
}

// ScoreComment scores a comment body.
func (s *Scorer) ScoreComment(body string) RiskScore {
	return s.Score(body)
}

func explain(riskScore float64, flags []string) string {
	if riskScore == 0 {
		return "No concerning content detected."
	}
	level := LevelForScore(riskScore)
	out := fmt.Sprintf("Risk Level: %s (%.0f/100). ", strings.ToUpper(string(level)), riskScore)
	if len(flags) > 0 {
		shown := flags
		if len(shown) > 5 {
			shown = shown[:5]
		}
		out += "Detected: " + strings.Join(shown, ", ")
		if len(flags) > 5 {
			out += fmt.Sprintf(" and %d more indicators.", len(flags)-5)
		}
	}
	return out
}

func containsAny(lower string, words []string) bool {
	for _, w := range words {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

func upperRatio(text string) float64 {
	upper := 0
	for _, r := range text {
		if unicode.IsUpper(r) {
			upper++
		}
	}
	n := len([]rune(text))
	if n == 0 {
		return 0
	}
	return float64(upper) / float64(n)
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
