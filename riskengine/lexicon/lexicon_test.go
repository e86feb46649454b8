package lexicon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeverityWeights(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(float64(30), SeverityExtreme.Weight())
	assert.Equal(float64(20), SeverityHigh.Weight())
	assert.Equal(float64(10), SeverityMedium.Weight())
	assert.Equal("extreme", SeverityExtreme.String())
}

func TestParseSeverity(t *testing.T) {
	assert := assert.New(t)

	sev, err := ParseSeverity("extreme")
	assert.NoError(err)
	assert.Equal(SeverityExtreme, sev)

	_, err = ParseSeverity("apocalyptic")
	assert.Error(err)
}

func TestParseJSON(t *testing.T) {
	assert := assert.New(t)

	raw := []byte(`{
		"hate_keywords": {"extreme": ["alpha"], "medium": ["beta", "gamma"]},
		"violence_keywords": {"high": ["delta"]},
		"slur_patterns": ["badw\\w+"],
		"context_indicators": {
			"discussion": ["article"],
			"quotation": ["quote"],
			"negation": ["not"]
		},
		"source": "unit-test",
		"version": "3"
	}`)

	lex, err := ParseJSON(raw)
	require.NoError(t, err)

	assert.Equal([]string{"alpha"}, lex.HateKeywords[SeverityExtreme])
	assert.Equal([]string{"beta", "gamma"}, lex.HateKeywords[SeverityMedium])
	assert.Equal([]string{"delta"}, lex.ViolenceKeywords[SeverityHigh])
	assert.Len(lex.SlurPatterns, 1)
	assert.True(lex.SlurPatterns[0].MatchString("BADWORD"))
	assert.Equal([]string{"article"}, lex.Context.Discussion)
	assert.Equal("unit-test", lex.Source)
	assert.Equal(3, KeywordCount(lex.HateKeywords))
}

func TestParseJSONRejectsBadInput(t *testing.T) {
	assert := assert.New(t)

	_, err := ParseJSON([]byte(`{not json`))
	assert.Error(err)

	_, err = ParseJSON([]byte(`{"hate_keywords": {"apocalyptic": ["x"]}}`))
	assert.Error(err)

	_, err = ParseJSON([]byte(`{"slur_patterns": ["[unclosed"]}`))
	assert.Error(err)
}

func TestLoadFromFileJSONMissing(t *testing.T) {
	assert := assert.New(t)

	_, err := LoadFromFileJSON("testdata/does-not-exist.json")
	assert.Error(err)
}
