package handlers

import (
	"context"
	"fmt"

	"github.com/sohayok/sohayok/internal/core"
)

const summaryInputLimit = 500

// SearchHandler runs a web search and has the model summarize the results.
// When summarization fails the raw results still go back to the user.
type SearchHandler struct {
	searcher  Searcher
	responder Responder
}

func NewSearchHandler(searcher Searcher, responder Responder) *SearchHandler {
	return &SearchHandler{searcher: searcher, responder: responder}
}

func (h *SearchHandler) Respond(ctx context.Context, intent *core.Intent, _ string, profile *core.Person) (string, error) {
	query := intent.Param("query")
	if query == "" {
		if intent.Language == core.LangBangla {
			return "কি খুঁজতে চান? অনুগ্রহ করে স্পষ্ট করে বলুন।", nil
		}
		return "What would you like me to search for? Please be more specific.", nil
	}

	if h.searcher == nil || !h.searcher.IsAvailable() {
		return "", core.ErrSearchUnavailable
	}

	results, err := h.searcher.Search(ctx, query, intent.Language)
	if err != nil {
		if intent.Language == core.LangBangla {
			return fmt.Sprintf("'%s' সম্পর্কে কোনো তথ্য পাইনি। আবার চেষ্টা করুন।", query), nil
		}
		return fmt.Sprintf("Couldn't find information about '%s'. Please try again.", query), nil
	}

	if h.responder == nil {
		return results, nil
	}

	excerpt := results
	if r := []rune(excerpt); len(r) > summaryInputLimit {
		excerpt = string(r[:summaryInputLimit])
	}

	prompt := fmt.Sprintf("Summarize this search result in %s: %s", intent.Language, excerpt)
	summary, err := h.responder.Respond(ctx, prompt, intent.Language, profile)
	if err != nil {
		return results, nil
	}
	return summary, nil
}
