package intent

import (
	"strings"

	"github.com/sohayok/sohayok/internal/core"
)

// ActionThreshold is the minimum confidence at which parameters are
// extracted. Below it the best-guess kind is still reported, but with empty
// parameters, so ambiguous utterances never produce structured actions.
const ActionThreshold = 0.6

// Classifier scores utterances against the pattern catalog.
// It holds no mutable state and is safe for concurrent use.
type Classifier struct {
	catalog   *Catalog
	extractor *Extractor
}

// NewClassifier creates a classifier over the given catalog.
func NewClassifier(catalog *Catalog) *Classifier {
	return &Classifier{
		catalog:   catalog,
		extractor: NewExtractor(),
	}
}

// Classify determines the intent of an utterance. It always returns a value:
// when no pattern in any kind overlaps the text at all, the result is
// {Unknown, 0, no parameters}. Repeated calls with identical input yield an
// identical result.
func (c *Classifier) Classify(text string, lang core.Language) *core.Intent {
	normalized := normalize(text, lang)

	best := core.IntentUnknown
	bestConfidence := 0.0

	// Strict greater-than keeps the first kind in catalog order on ties.
	for _, kind := range core.IntentKinds {
		confidence := c.kindConfidence(normalized, lang, kind)
		if confidence > bestConfidence {
			bestConfidence = confidence
			best = kind
		}
	}

	params := map[string]string{}
	if bestConfidence >= ActionThreshold {
		params = c.extractor.Extract(normalized, best, lang)
	}

	return &core.Intent{
		Kind:       best,
		Confidence: bestConfidence,
		Parameters: params,
		Text:       normalized,
		Language:   lang,
	}
}

// kindConfidence is the maximum over the kind's patterns of either an exact
// regex match (1.0) or the fractional word overlap with the pattern.
func (c *Classifier) kindConfidence(text string, lang core.Language, kind core.IntentKind) float64 {
	max := 0.0
	for _, p := range c.catalog.kindPatterns(lang, kind) {
		confidence := 0.0
		if p.re.MatchString(text) {
			confidence = 1.0
		} else {
			confidence = overlapScore(text, p.words)
		}
		if confidence > max {
			max = confidence
		}
	}
	return max
}

// overlapScore counts input words that share a substring relationship with
// any pattern word (either direction) and divides by the pattern length.
func overlapScore(text string, patternWords []string) float64 {
	if len(patternWords) == 0 {
		return 0
	}
	matches := 0
	for _, word := range strings.Fields(text) {
		for _, pw := range patternWords {
			if strings.Contains(word, pw) || strings.Contains(pw, word) {
				matches++
				break
			}
		}
	}
	score := float64(matches) / float64(len(patternWords))
	// Repeated input words can overshoot a short pattern; confidence stays in [0,1].
	if score > 1 {
		score = 1
	}
	return score
}

// normalize trims the utterance and lowercases it for English. Bangla has no
// meaningful case folding and is left as written.
func normalize(text string, lang core.Language) string {
	text = strings.TrimSpace(text)
	if lang == core.LangBangla {
		return text
	}
	return strings.ToLower(text)
}
