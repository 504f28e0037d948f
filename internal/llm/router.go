package llm

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/sohayok/sohayok/internal/core"
)

// ChatClient is the subset of the Ollama client the router needs.
type ChatClient interface {
	ChatWithHistory(ctx context.Context, system string, messages []OllamaChatMessage) (string, error)
	IsConfigured() bool
}

const (
	maxHistoryLength = 10
	historyWindow    = 5 // exchanges fed back into the prompt
)

// System prompts per language and audience. School staff and students get the
// school-aware prompt; visitors get the general one.
var systemPrompts = map[string]string{
	"bn_general": "আপনি একটি বন্ধুত্বপূর্ণ রোবট সহকারী। আপনি বাংলা ভাষায় কথা বলুন এবং সহায়তা প্রদান করুন। আপনার উত্তর সংক্ষিপ্ত, স্পষ্ট এবং বন্ধুত্বপূর্ণ হওয়া উচিত।",
	"bn_school":  "আপনি একটি স্কুলের রোবট সহকারী। আপনি শিক্ষক, ছাত্র এবং প্রিন্সিপালের সাথে কথা বলুন। আপনি শিক্ষামূলক বিষয়ে সাহায্য করতে পারেন এবং স্কুলের নিয়ম-কানুন সম্পর্কে জানাতে পারেন।",
	"en_general": "You are a friendly robot assistant. Provide helpful, concise, and clear responses. Be polite and professional in your interactions.",
	"en_school":  "You are a school robot assistant. Help teachers, students, and the principal. You can assist with educational topics and provide information about school policies.",
}

var fallbackResponses = map[core.Language]string{
	core.LangBangla:  "দুঃখিত, আমি এখন উত্তর দিতে পারছি না। পরে আবার চেষ্টা করুন।",
	core.LangEnglish: "Sorry, I can't provide a response right now. Please try again later.",
}

// historyEntry is one completed model exchange kept for context.
type historyEntry struct {
	timestamp time.Time
	userInput string
	response  string
	language  core.Language
}

// Router selects the system prompt, carries bounded conversation context,
// and post-processes model output into a presentable reply.
type Router struct {
	client ChatClient

	mu      sync.Mutex
	history []historyEntry
}

// NewRouter creates a response router on top of a chat client.
func NewRouter(client ChatClient) *Router {
	return &Router{client: client}
}

// Respond generates a reply for the user input. It never returns an empty
// string without an error; when the model is unreachable it returns the
// localized fallback and core.ErrLLMUnavailable.
func (r *Router) Respond(ctx context.Context, input string, lang core.Language, profile *core.Person) (string, error) {
	system := r.selectPrompt(lang, profile)
	messages := r.contextMessages(input, lang)

	raw, err := r.client.ChatWithHistory(ctx, system, messages)
	if err != nil || strings.TrimSpace(raw) == "" {
		return Fallback(lang), core.ErrLLMUnavailable
	}

	response := postProcess(raw, lang)
	r.remember(input, response, lang)
	return response, nil
}

// Available reports whether the underlying model endpoint is reachable.
func (r *Router) Available() bool {
	return r.client.IsConfigured()
}

// ClearHistory drops the conversation context.
func (r *Router) ClearHistory() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.history = nil
}

// Fallback returns the canned reply used when no model answer is available.
func Fallback(lang core.Language) string {
	if s, ok := fallbackResponses[lang]; ok {
		return s
	}
	return fallbackResponses[core.LangEnglish]
}

func (r *Router) selectPrompt(lang core.Language, profile *core.Person) string {
	audience := "general"
	if profile != nil {
		switch profile.Role {
		case core.RoleTeacher, core.RolePrincipal, core.RoleStudent:
			audience = "school"
		}
	}

	key := string(lang) + "_" + audience
	if prompt, ok := systemPrompts[key]; ok {
		return prompt
	}
	return systemPrompts["en_general"]
}

// contextMessages builds the prompt from recent same-language exchanges plus
// the current input.
func (r *Router) contextMessages(input string, lang core.Language) []OllamaChatMessage {
	r.mu.Lock()
	defer r.mu.Unlock()

	start := len(r.history) - historyWindow
	if start < 0 {
		start = 0
	}

	var messages []OllamaChatMessage
	for _, entry := range r.history[start:] {
		if entry.language != lang {
			continue
		}
		messages = append(messages,
			OllamaChatMessage{Role: "user", Content: entry.userInput},
			OllamaChatMessage{Role: "assistant", Content: entry.response},
		)
	}

	return append(messages, OllamaChatMessage{Role: "user", Content: input})
}

func (r *Router) remember(input, response string, lang core.Language) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.history = append(r.history, historyEntry{
		timestamp: time.Now(),
		userInput: input,
		response:  response,
		language:  lang,
	})
	if len(r.history) > maxHistoryLength {
		r.history = r.history[len(r.history)-maxHistoryLength:]
	}
}

var responsePrefixes = []string{
	"Assistant:", "Robot:", "AI:", "রোবট:", "সহকারী:",
	"I am", "আমি", "As an AI", "As a robot",
}

// postProcess strips boilerplate prefixes the model sometimes emits and
// guarantees a terminal sentence mark for the language.
func postProcess(response string, lang core.Language) string {
	response = strings.TrimSpace(response)

	for _, prefix := range responsePrefixes {
		if strings.HasPrefix(response, prefix) {
			response = strings.TrimSpace(strings.TrimPrefix(response, prefix))
			break
		}
	}

	if lang == core.LangBangla {
		if !strings.HasSuffix(response, ".") && !strings.HasSuffix(response, "!") &&
			!strings.HasSuffix(response, "?") && !strings.HasSuffix(response, "।") {
			response += "।"
		}
	} else {
		if !strings.HasSuffix(response, ".") && !strings.HasSuffix(response, "!") &&
			!strings.HasSuffix(response, "?") {
			response += "."
		}
	}

	return response
}
