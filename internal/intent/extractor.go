package intent

import (
	"strings"

	"github.com/sohayok/sohayok/internal/core"
)

// Extractor pulls kind-specific structured parameters out of an utterance.
// It is called only for classifications at or above the action threshold.
// Pure; safe for concurrent use.
type Extractor struct{}

// NewExtractor creates an extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// questionWords are the interrogative tokens stripped from a question to
// leave its topic.
var questionWords = map[core.Language][]string{
	core.LangEnglish: {"what", "why", "when", "where", "how", "who", "which"},
	core.LangBangla:  {"কি", "কী", "কেন", "কখন", "কোথায়", "কিভাবে", "কাদের", "কাদেরকে"},
}

// selfWords mark a camera request as a selfie.
var selfWords = map[core.Language][]string{
	core.LangEnglish: {"my", "me", "selfie"},
	core.LangBangla:  {"আমার", "আমাকে", "সেলফি"},
}

// directionRule maps trigger tokens to a canonical direction. Rules are
// checked in order; the first token found in the text wins.
type directionRule struct {
	tokens    []string
	direction string
}

var directionRules = map[core.Language][]directionRule{
	core.LangEnglish: {
		{[]string{"forward"}, "forward"},
		{[]string{"backward", "back"}, "backward"},
		{[]string{"left"}, "left"},
		{[]string{"right"}, "right"},
	},
	core.LangBangla: {
		{[]string{"এগিয়ে", "সামনে"}, "forward"},
		{[]string{"পিছনে"}, "backward"},
		{[]string{"ডানে"}, "right"},
		{[]string{"বামে"}, "left"},
	},
}

// searchPrefixes are checked in order; the first one present in the text is
// removed and the rest becomes the query.
var searchPrefixes = map[core.Language][]string{
	core.LangEnglish: {"search for", "look up", "find information about", "google"},
	core.LangBangla:  {"খুঁজে বের করো", "ইন্টারনেটে দেখো", "গুগলে দেখো", "অনলাইনে দেখো"},
}

// Extract returns the structured parameters for a classified utterance.
// Kinds with no parameter rules return an empty map, never nil.
func (e *Extractor) Extract(text string, kind core.IntentKind, lang core.Language) map[string]string {
	params := map[string]string{}

	switch kind {
	case core.IntentQuestion:
		params["topic"] = stripWords(text, questionWords[lang])

	case core.IntentCameraCapture:
		if containsAnyWord(text, selfWords[lang]) {
			params["target"] = "self"
		}

	case core.IntentMovement:
		for _, rule := range directionRules[lang] {
			if containsAnyToken(text, rule.tokens) {
				params["direction"] = rule.direction
				break
			}
		}

	case core.IntentSearch:
		for _, prefix := range searchPrefixes[lang] {
			if idx := strings.Index(text, prefix); idx >= 0 {
				query := text[:idx] + text[idx+len(prefix):]
				params["query"] = strings.TrimSpace(query)
				break
			}
		}
	}

	return params
}

// stripWords removes every occurrence of the given tokens as whole words and
// returns the remaining text.
func stripWords(text string, tokens []string) string {
	drop := make(map[string]bool, len(tokens))
	for _, t := range tokens {
		drop[t] = true
	}
	var kept []string
	for _, word := range strings.Fields(text) {
		if !drop[strings.Trim(word, ",?!.;:")] {
			kept = append(kept, word)
		}
	}
	return strings.Join(kept, " ")
}

// containsAnyWord reports whether any of the tokens appears as a whole word.
func containsAnyWord(text string, tokens []string) bool {
	words := strings.Fields(text)
	for _, word := range words {
		trimmed := strings.Trim(word, ",?!.;:")
		for _, t := range tokens {
			if trimmed == t {
				return true
			}
		}
	}
	return false
}

// containsAnyToken reports whether any token appears as a substring. Used
// for directional tokens, which inflect in Bangla (e.g. এগিয়ে যাও).
func containsAnyToken(text string, tokens []string) bool {
	for _, t := range tokens {
		if strings.Contains(text, t) {
			return true
		}
	}
	return false
}
