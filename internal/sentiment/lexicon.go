package sentiment

import (
	"math"
	"strings"
	"unicode"
)

// normalizationAlpha approximates the max expected sum of valences
const normalizationAlpha = 15.0

const (
	boosterIncrement = 0.293
	negationScalar   = -0.74
)

// financeLexicon holds word valences on the [-4, 4] scale
var financeLexicon = map[string]float64{
	"beat": 1.6, "beats": 1.6, "surge": 2.0, "surges": 2.0, "soar": 2.3, "soars": 2.3,
	"rally": 1.9, "rallies": 1.9, "gain": 1.6, "gains": 1.6, "jump": 1.4, "jumps": 1.4,
	"record": 1.2, "growth": 1.7, "grow": 1.5, "grows": 1.5, "strong": 2.1, "stronger": 2.0,
	"upgrade": 1.9, "upgrades": 1.9, "outperform": 1.9, "bullish": 2.2, "profit": 1.9,
	"profits": 1.9, "positive": 2.2, "optimistic": 2.0, "boost": 1.7, "boosts": 1.7,
	"win": 2.8, "wins": 2.7, "success": 2.7, "successful": 2.8, "innovative": 2.0,
	"good": 1.9, "great": 3.1, "best": 3.2, "buy": 0.9, "rise": 1.2, "rises": 1.2,
	"climb": 1.1, "climbs": 1.1, "recover": 1.5, "recovery": 1.5, "exceeds": 1.5,
	"miss": -1.6, "misses": -1.6, "plunge": -2.3, "plunges": -2.3, "drop": -1.3,
	"drops": -1.3, "fall": -1.4, "falls": -1.4, "slump": -2.0, "slumps": -2.0,
	"loss": -2.1, "losses": -2.1, "weak": -1.9, "weaker": -1.9, "downgrade": -1.9,
	"downgrades": -1.9, "underperform": -1.9, "bearish": -2.2, "negative": -2.3,
	"lawsuit": -1.9, "subpoena": -1.2, "fraud": -2.8, "recall": -1.3, "crash": -2.7,
	"crashes": -2.7, "fear": -2.2, "fears": -2.2, "risk": -1.1, "risks": -1.1,
	"decline": -1.5, "declines": -1.5, "cut": -1.1, "cuts": -1.1, "sell": -0.8,
	"selloff": -2.0, "warning": -1.4, "warns": -1.4, "bad": -2.5, "worst": -3.1,
	"layoffs": -2.0, "bankruptcy": -3.0, "volatile": -0.9, "concern": -1.2,
	"concerns": -1.2, "shortage": -1.3, "tumble": -2.0, "tumbles": -2.0,
}

var boosters = map[string]float64{
	"very": boosterIncrement, "extremely": boosterIncrement, "sharply": boosterIncrement,
	"significantly": boosterIncrement, "huge": boosterIncrement, "massive": boosterIncrement,
	"slightly": -boosterIncrement, "marginally": -boosterIncrement, "somewhat": -boosterIncrement,
}

var negations = map[string]bool{
	"not": true, "no": true, "never": true, "none": true, "without": true,
	"isn't": true, "aren't": true, "won't": true, "didn't": true, "doesn't": true,
	"cannot": true, "can't": true, "fails": true, "failed": true,
}

// LexiconScorer is a finance-term scorer with VADER-style booster, negation and
// normalization rules. It extends VaderScorer for headlines VADER finds neutral.
type LexiconScorer struct {
	lexicon map[string]float64
}

// NewLexiconScorer creates a scorer over the built-in finance lexicon.
// extra entries override or extend it.
func NewLexiconScorer(extra map[string]float64) *LexiconScorer {
	lex := make(map[string]float64, len(financeLexicon)+len(extra))
	for w, v := range financeLexicon {
		lex[w] = v
	}
	for w, v := range extra {
		lex[strings.ToLower(w)] = v
	}
	return &LexiconScorer{lexicon: lex}
}

// Score returns the compound polarity of text in [-1, 1]
func (s *LexiconScorer) Score(text string) float64 {
	tokens := tokenize(text)

	var sum float64
	for i, tok := range tokens {
		valence, ok := s.lexicon[tok]
		if !ok {
			continue
		}

		// up to three preceding tokens may boost or negate
		for back := 1; back <= 3 && i-back >= 0; back++ {
			prev := tokens[i-back]
			if b, ok := boosters[prev]; ok {
				scale := b
				if back == 2 {
					scale *= 0.95
				} else if back == 3 {
					scale *= 0.9
				}
				if valence < 0 {
					scale = -scale
				}
				valence += scale
			}
			if negations[prev] {
				valence *= negationScalar
			}
		}

		sum += valence
	}

	if text != "" && strings.Count(text, "!") > 0 {
		sum += emphasis(sum, strings.Count(text, "!"))
	}

	return compound(sum)
}

func emphasis(sum float64, marks int) float64 {
	if marks > 4 {
		marks = 4
	}
	amp := float64(marks) * 0.292
	if sum > 0 {
		return amp
	}
	if sum < 0 {
		return -amp
	}
	return 0
}

func compound(sum float64) float64 {
	if sum == 0 {
		return 0
	}
	score := sum / math.Sqrt(sum*sum+normalizationAlpha)
	return math.Max(-1, math.Min(1, score))
}

func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '\'')
	})
	out := fields[:0]
	for _, f := range fields {
		f = strings.Trim(f, "'")
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}
