package sentiment

import (
	"math"
	"strings"

	"github.com/jonreiter/govader"
)

// VaderScorer scores headlines with VADER's compound polarity.
// An optional finance scorer covers headlines VADER finds neutral
// (earnings and ratings jargon the general lexicon lacks).
// ⭐ SSOT: 헤드라인 감성 점수는 여기서만
type VaderScorer struct {
	analyzer *govader.SentimentIntensityAnalyzer
	finance  Scorer
}

// NewVaderScorer creates a plain VADER scorer
func NewVaderScorer() *VaderScorer {
	return &VaderScorer{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

// WithFinanceLexicon sets the scorer consulted when VADER returns exactly 0
func (s *VaderScorer) WithFinanceLexicon(finance Scorer) *VaderScorer {
	s.finance = finance
	return s
}

// NewDefaultScorer is VADER plus the built-in finance lexicon
func NewDefaultScorer() *VaderScorer {
	return NewVaderScorer().WithFinanceLexicon(NewLexiconScorer(nil))
}

// Score returns the compound polarity of text in [-1, 1]
func (s *VaderScorer) Score(text string) float64 {
	if strings.TrimSpace(text) == "" {
		return 0
	}

	score := s.analyzer.PolarityScores(text).Compound
	if math.IsNaN(score) {
		score = 0
	}
	if score == 0 && s.finance != nil {
		return s.finance.Score(text)
	}
	return math.Max(-1, math.Min(1, score))
}
