// Package sentiment scores the polarity of headline text. Scores are
// carried through the pipeline for display; clustering never consumes them.
package sentiment

import "strings"

// Analyzer performs rule-based sentiment analysis over a weighted lexicon.
type Analyzer struct {
	positive map[string]float64
	negative map[string]float64
}

// NewAnalyzer creates an analyzer with the built-in English lexicon.
func NewAnalyzer() *Analyzer {
	return &Analyzer{
		positive: map[string]float64{
			"excellent": 1.0, "amazing": 0.9, "outstanding": 0.9, "fantastic": 0.8,
			"breakthrough": 0.8, "great": 0.7, "success": 0.7, "successful": 0.7,
			"innovation": 0.7,
			"achievement": 0.7, "win": 0.6, "wins": 0.6, "good": 0.6, "positive": 0.6,
			"growth": 0.6, "boost": 0.6, "recovery": 0.6, "record": 0.5,
			"improvement": 0.5, "gain": 0.5, "gains": 0.5, "advantage": 0.5,
			"progress": 0.6, "surge": 0.5, "rally": 0.5, "approve": 0.5,
			"approved": 0.5, "peace": 0.6, "cure": 0.7, "rescue": 0.5,
			"rescued": 0.5, "agreement": 0.4, "deal": 0.3, "rise": 0.4,
			"rises": 0.4, "launch": 0.4, "hope": 0.4, "strong": 0.4,
		},
		negative: map[string]float64{
			"terrible": -1.0, "awful": -0.9, "horrible": -0.9, "catastrophe": -0.9,
			"disaster": -0.8, "crisis": -0.8, "war": -0.7, "failure": -0.7,
			"emergency": -0.7, "breach": -0.7, "hack": -0.7, "dead": -0.7,
			"deaths": -0.7, "killed": -0.7, "attack": -0.6, "threat": -0.6,
			"collapse": -0.7, "crash": -0.6, "recession": -0.6, "bad": -0.6,
			"poor": -0.6, "negative": -0.6, "loss": -0.6, "lose": -0.6,
			"decline": -0.6, "closure": -0.6, "outbreak": -0.6, "fraud": -0.6,
			"scandal": -0.6, "lawsuit": -0.4, "problem": -0.5, "risk": -0.5,
			"drop": -0.5, "falls": -0.4, "fall": -0.4, "fears": -0.5,
			"warning": -0.5, "concern": -0.4, "issue": -0.4, "shutdown": -0.5,
			"layoffs": -0.6, "strike": -0.4, "protest": -0.3, "injured": -0.5,
		},
	}
}

// negators flip the polarity of the word that follows them.
var negators = map[string]bool{
	"not": true, "no": true, "never": true, "without": true,
	"isn't": true, "aren't": true, "won't": true, "can't": true,
	"doesn't": true, "didn't": true,
}

// Analyze returns a polarity score in [-1, 1]. Text with no lexicon hits
// scores 0. Never errors, empty text scores 0.
func (a *Analyzer) Analyze(text string) float64 {
	words := strings.Fields(strings.ToLower(text))
	if len(words) == 0 {
		return 0
	}

	var total float64
	var hits int
	negated := false

	for _, word := range words {
		word = strings.Trim(word, ".,!?;:'\"()[]")
		if word == "" {
			continue
		}
		if negators[word] {
			negated = true
			continue
		}

		weight, ok := a.positive[word]
		if !ok {
			weight, ok = a.negative[word]
		}
		if ok {
			if negated {
				weight = -weight
			}
			total += weight
			hits++
		}
		negated = false
	}

	if hits == 0 {
		return 0
	}

	score := total / float64(hits)
	if score > 1 {
		score = 1
	}
	if score < -1 {
		score = -1
	}
	return score
}
