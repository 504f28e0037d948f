// Package intent implements bilingual intent classification and parameter
// extraction for user utterances.
package intent

import (
	"regexp"
	"strings"

	"github.com/sohayok/sohayok/internal/core"
)

// pattern is one compiled trigger: the regex form used for exact matches and
// the word list used for fractional overlap scoring.
type pattern struct {
	re    *regexp.Regexp
	words []string
}

// Catalog is the static, read-only bilingual table mapping
// {language, intent kind} to an ordered list of trigger patterns.
type Catalog struct {
	patterns map[core.Language]map[core.IntentKind][]pattern
}

// rawPatterns holds the trigger phrases as written. Entries are regular
// expressions matched against the normalized utterance; their word forms
// drive partial-overlap scoring. Kinds with no entry (command) are reserved
// and never produced by the classifier.
var rawPatterns = map[core.Language]map[core.IntentKind][]string{
	core.LangEnglish: {
		core.IntentGreeting: {
			`hello`,
			`hi`,
			`hey`,
			`good morning`,
			`good afternoon`,
			`good evening`,
			`how are you`,
			`how do you do`,
			`nice to meet you`,
		},
		core.IntentQuestion: {
			`what\s+`,
			`why\s+`,
			`when\s+`,
			`where\s+`,
			`how\s+`,
			`who\s+`,
			`which\s+`,
			`can you tell me`,
			`do you know`,
			`explain`,
			`describe`,
		},
		core.IntentEntertainment: {
			`tell me a joke`,
			`joke`,
			`funny`,
			`story`,
			`sing`,
			`entertainment`,
			`play`,
		},
		core.IntentCameraCapture: {
			`take a picture`,
			`take my photo`,
			`capture`,
			`camera`,
			`snapshot`,
			`photograph`,
		},
		core.IntentFaceRecognition: {
			`who am i`,
			`do you recognize me`,
			`do you know me`,
			`recognize my face`,
		},
		core.IntentMovement: {
			`move forward`,
			`move backward`,
			`turn left`,
			`turn right`,
			`wave hand`,
			`nod head`,
			`walk`,
		},
		core.IntentSearch: {
			`search for`,
			`look up`,
			`find information`,
			`google`,
			`internet search`,
		},
	},
	core.LangBangla: {
		core.IntentGreeting: {
			`আসসালামু আলাইকুম`,
			`নমস্কার`,
			`হ্যালো`,
			`কেমন আছেন`,
			`কেমন আছো`,
			`ভালো আছেন`,
			`ভালো আছো`,
		},
		core.IntentQuestion: {
			`কি\s+`,
			`কী\s+`,
			`কেন\s+`,
			`কখন\s+`,
			`কোথায়\s+`,
			`কিভাবে\s+`,
			`কাদের\s+`,
			`কাদেরকে\s+`,
			`জানতে চাই`,
			`বলুন`,
			`বলো`,
			`কি জানেন`,
			`কি জানো`,
		},
		core.IntentEntertainment: {
			`কৌতুক`,
			`জোক`,
			`গল্প`,
			`গান`,
			`মজার`,
			`হাসির`,
			`বিনোদন`,
		},
		core.IntentCameraCapture: {
			`ছবি তুলো`,
			`ফটো নাও`,
			`চিত্র ধারণ`,
			`ক্যামেরা`,
			`আমার ছবি`,
		},
		core.IntentFaceRecognition: {
			`আমি কে`,
			`আমাকে চেনো`,
			`আমাকে চিনতে পারো`,
		},
		core.IntentMovement: {
			`এগিয়ে যাও`,
			`পিছনে যাও`,
			`ডানে যাও`,
			`বামে যাও`,
			`ঘুরো`,
			`হাত নাড়াও`,
			`মাথা নাড়াও`,
		},
		core.IntentSearch: {
			`খুঁজে বের করো`,
			`ইন্টারনেটে দেখো`,
			`গুগলে দেখো`,
			`অনলাইনে দেখো`,
		},
	},
}

// NewCatalog compiles the built-in trigger patterns for both languages.
func NewCatalog() *Catalog {
	c := &Catalog{patterns: make(map[core.Language]map[core.IntentKind][]pattern)}
	for lang, kinds := range rawPatterns {
		byKind := make(map[core.IntentKind][]pattern, len(kinds))
		for kind, raws := range kinds {
			compiled := make([]pattern, 0, len(raws))
			for _, raw := range raws {
				compiled = append(compiled, pattern{
					re:    regexp.MustCompile(raw),
					words: patternWords(raw),
				})
			}
			byKind[kind] = compiled
		}
		c.patterns[lang] = byKind
	}
	return c
}

// Kinds returns the patterns for one (language, kind) pair. The returned
// slice must not be modified.
func (c *Catalog) kindPatterns(lang core.Language, kind core.IntentKind) []pattern {
	byKind, ok := c.patterns[lang]
	if !ok {
		return nil
	}
	return byKind[kind]
}

// patternWords turns a raw trigger expression into plain words for the
// overlap score, collapsing the \s+ separators used in regex phrases.
func patternWords(raw string) []string {
	cleaned := strings.ReplaceAll(raw, `\s+`, " ")
	return strings.Fields(cleaned)
}
