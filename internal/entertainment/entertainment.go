// Package entertainment serves jokes, stories, and riddles in Bangla and
// English for the assistant's entertainment requests.
package entertainment

import (
	"fmt"
	"math/rand"

	"github.com/sohayok/sohayok/internal/core"
)

type story struct {
	Title string
	Body  string
}

type riddle struct {
	QuestionBn string
	AnswerBn   string
	QuestionEn string
	AnswerEn   string
}

var banglaJokes = []string{
	"একজন লোক ডাক্তারের কাছে গিয়ে বলল, 'ডাক্তার, আমি ভুলে যাই সব কিছু।' ডাক্তার বললেন, 'কখন থেকে?' লোকটি বলল, 'কখন থেকে কি?'",
	"একজন শিক্ষক ছাত্রকে জিজ্ঞেস করলেন, 'পৃথিবীতে কতগুলো মহাদেশ আছে?' ছাত্র বলল, 'সাতটি।' শিক্ষক বললেন, 'ভুল।' ছাত্র বলল, 'তাহলে কতগুলো?' শিক্ষক বললেন, 'আমি জানি না, কিন্তু সাতটি নয়।'",
	"একজন লোক বাসে উঠে কন্ডাক্টরকে বলল, 'একটা টিকিট দিন।' কন্ডাক্টর বলল, 'কোথায় যাবেন?' লোকটি বলল, 'আমি জানি না।' কন্ডাক্টর বলল, 'তাহলে টিকিট দেবো কী করে?'",
	"একজন লোক রেস্তোরাঁয় গিয়ে বলল, 'একটা স্যান্ডউইচ দিন।' ওয়েটার বলল, 'কী ধরনের?' লোকটি বলল, 'খাবার ধরনের।'",
	"একজন লোক ফোনে বলল, 'হ্যালো, আমি কি সঠিক নম্বরে কথা বলছি?' অপর প্রান্ত থেকে উত্তর এল, 'না।' লোকটি বলল, 'তাহলে আমি ভুল নম্বরে কথা বলছি?' উত্তর এল, 'হ্যাঁ।'",
}

var englishJokes = []string{
	"Why don't scientists trust atoms? Because they make up everything!",
	"Why did the scarecrow win an award? Because he was outstanding in his field!",
	"Why don't eggs tell jokes? They'd crack each other up!",
	"What do you call a fake noodle? An impasta!",
	"Why did the math book look so sad? Because it had too many problems!",
	"What do you call a bear with no teeth? A gummy bear!",
	"Why don't skeletons fight each other? They don't have the guts!",
	"What do you call a fish wearing a bowtie? So-fish-ticated!",
}

var banglaStories = []story{
	{
		Title: "বুদ্ধিমান কাক",
		Body:  "একদিন একটি কাক খুব তৃষ্ণার্ত ছিল। সে একটি কলসিতে পানি দেখতে পেল কিন্তু পানি এত নিচে ছিল যে তার ঠোঁট পৌঁছাতে পারছিল না। তখন সে চারপাশে ছোট ছোট পাথর খুঁজে বের করল এবং কলসিতে ফেলতে লাগল। পাথর ফেলতে ফেলতে পানি উপরে উঠে এল এবং কাক তৃষ্ণা মেটাতে পারল।",
	},
	{
		Title: "সৎ কাঠুরে",
		Body:  "একজন গরিব কাঠুরে বনে গিয়ে কাঠ কাটছিল। হঠাৎ তার কুড়াল নদীতে পড়ে গেল। তিনি কাঁদতে লাগলেন। তখন একজন দেবতা এসে তাকে সোনার কুড়াল দিলেন। কাঠুরে বললেন, 'এটা আমার নয়।' দেবতা তাকে রুপার কুড়াল দিলেন। কাঠুরে আবার বললেন, 'এটাও আমার নয়।' শেষে দেবতা তার আসল কুড়াল দিলেন। কাঠুরে খুশি হয়ে বললেন, 'এটাই আমার কুড়াল।' দেবতা তার সততার জন্য তাকে তিনটি কুড়ালই দান করলেন।",
	},
}

var englishStories = []story{
	{
		Title: "The Wise Crow",
		Body:  "A thirsty crow found a pitcher with water, but the water was too low for his beak to reach. He looked around and found small stones. He started dropping stones into the pitcher one by one. As he dropped more stones, the water level rose until he could drink and quench his thirst.",
	},
	{
		Title: "The Honest Woodcutter",
		Body:  "A poor woodcutter was cutting wood in the forest when his axe fell into a river. He started crying. A god appeared and offered him a golden axe. The woodcutter said, 'That's not mine.' The god offered a silver axe. The woodcutter again said, 'That's not mine either.' Finally, the god gave him his original axe. The woodcutter happily said, 'That's my axe!' The god was pleased with his honesty and gave him all three axes.",
	},
}

var riddles = []riddle{
	{
		QuestionBn: "এমন কি জিনিস যা খেলে বাড়ে, না খেলে কমে?",
		AnswerBn:   "আগুন",
		QuestionEn: "What grows when you feed it but dies when you give it water?",
		AnswerEn:   "Fire",
	},
	{
		QuestionBn: "এমন কি জিনিস যা সবসময় আসে কিন্তু কখনো যায় না?",
		AnswerBn:   "আগামীকাল",
		QuestionEn: "What always comes but never arrives?",
		AnswerEn:   "Tomorrow",
	},
	{
		QuestionBn: "এমন কি জিনিস যা ভাঙলে বেশি কাজ করে?",
		AnswerBn:   "রেকর্ড",
		QuestionEn: "What works better when it's broken?",
		AnswerEn:   "Record",
	},
}

// Library picks entertainment content. The random source is injectable so
// tests can pin the selection.
type Library struct {
	rng *rand.Rand
}

// New creates a library with the given random source. A nil source gets a
// time-seeded one.
func New(rng *rand.Rand) *Library {
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	return &Library{rng: rng}
}

// General returns a random joke, story, or riddle.
func (l *Library) General(lang core.Language) string {
	switch l.rng.Intn(3) {
	case 0:
		return l.Joke(lang)
	case 1:
		return l.Story(lang)
	default:
		return l.Riddle(lang)
	}
}

// ForStudent returns student-appropriate content; stories become the
// educational one.
func (l *Library) ForStudent(lang core.Language) string {
	switch l.rng.Intn(3) {
	case 0:
		return l.Joke(lang)
	case 1:
		return l.EducationalStory(lang)
	default:
		return l.Riddle(lang)
	}
}

// ForProfessional returns content for teachers and the principal.
func (l *Library) ForProfessional(lang core.Language) string {
	if lang == core.LangBangla {
		return "আজকের দিনটি আপনার জন্য শুভ হোক! শিক্ষা হলো আলোর পথ। আপনি ছাত্রদের জীবনে আলো ছড়াচ্ছেন।"
	}
	return "Have a wonderful day! Education is the light of life. You are spreading light in your students' lives."
}

// Joke returns a random joke with its intro line.
func (l *Library) Joke(lang core.Language) string {
	if lang == core.LangBangla {
		if len(banglaJokes) == 0 {
			return fallbackJoke(lang)
		}
		return "একটা মজার কৌতুক শুনুন:\n\n" + banglaJokes[l.rng.Intn(len(banglaJokes))]
	}
	if len(englishJokes) == 0 {
		return fallbackJoke(lang)
	}
	return "Here's a funny joke:\n\n" + englishJokes[l.rng.Intn(len(englishJokes))]
}

// Story returns a random titled story.
func (l *Library) Story(lang core.Language) string {
	if lang == core.LangBangla {
		if len(banglaStories) == 0 {
			return fallbackStory(lang)
		}
		s := banglaStories[l.rng.Intn(len(banglaStories))]
		return fmt.Sprintf("একটা গল্প শুনুন:\n\n%s\n\n%s", s.Title, s.Body)
	}
	if len(englishStories) == 0 {
		return fallbackStory(lang)
	}
	s := englishStories[l.rng.Intn(len(englishStories))]
	return fmt.Sprintf("Here's a story for you:\n\n%s\n\n%s", s.Title, s.Body)
}

// Riddle returns a random riddle with its answer.
func (l *Library) Riddle(lang core.Language) string {
	if len(riddles) == 0 {
		return fallbackRiddle(lang)
	}
	r := riddles[l.rng.Intn(len(riddles))]
	if lang == core.LangBangla {
		return fmt.Sprintf("একটা ধাঁধা:\n\n%s\n\nউত্তর: %s", r.QuestionBn, r.AnswerBn)
	}
	return fmt.Sprintf("Here's a riddle for you:\n\n%s\n\nAnswer: %s", r.QuestionEn, r.AnswerEn)
}

// EducationalStory returns the study-habits story used for students.
func (l *Library) EducationalStory(lang core.Language) string {
	if lang == core.LangBangla {
		return "শিক্ষামূলক গল্প:\n\nএকজন ছাত্র প্রতিদিন একটু একটু করে পড়াশোনা করত। তার বন্ধুরা তাকে বলত, 'এত কম পড়লে কী হবে?' কিন্তু সে বলত, 'ধীরে ধীরে পড়লে ভালোভাবে মনে থাকে।' এক বছর পর সে সবচেয়ে ভালো ফলাফল করল। নৈতিকতা: ধৈর্য এবং নিয়মিত চেষ্টা সফলতার চাবিকাঠি।"
	}
	return "Educational Story:\n\nA student studied a little bit every day. His friends said, 'What's the point of studying so little?' But he replied, 'Studying slowly helps me remember better.' After one year, he achieved the best results. Moral: Patience and regular effort are the keys to success."
}

// Stats reports content counts per category.
func (l *Library) Stats() map[string]int {
	return map[string]int{
		"bangla_jokes":    len(banglaJokes),
		"english_jokes":   len(englishJokes),
		"bangla_stories":  len(banglaStories),
		"english_stories": len(englishStories),
		"riddles":         len(riddles),
	}
}

func fallbackJoke(lang core.Language) string {
	if lang == core.LangBangla {
		return "একটা মজার কথা: রোবটরা কখনো ক্লান্ত হয় না, কিন্তু তারা সবসময় চার্জ নেয়!"
	}
	return "Here's a funny fact: Robots never get tired, but they always need to recharge!"
}

func fallbackStory(lang core.Language) string {
	if lang == core.LangBangla {
		return "একটা ছোট গল্প: একদিন একটি রোবট মানুষের মতো কথা বলতে শিখল। সে বলল, 'আমি তোমাদের বন্ধু হতে চাই।'"
	}
	return "A short story: One day, a robot learned to speak like humans. It said, 'I want to be your friend.'"
}

func fallbackRiddle(lang core.Language) string {
	if lang == core.LangBangla {
		return "একটা ধাঁধা: এমন কি জিনিস যা সবসময় আসে কিন্তু কখনো যায় না? উত্তর: আগামীকাল।"
	}
	return "Here's a riddle: What always comes but never arrives? Answer: Tomorrow."
}
