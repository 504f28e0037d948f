package handlers

import (
	"context"
	"fmt"

	"github.com/sohayok/sohayok/internal/core"
)

// QuestionHandler routes questions to the language model.
type QuestionHandler struct {
	responder Responder
}

func NewQuestionHandler(responder Responder) *QuestionHandler {
	return &QuestionHandler{responder: responder}
}

func (h *QuestionHandler) Respond(ctx context.Context, intent *core.Intent, _ string, profile *core.Person) (string, error) {
	topic := intent.Param("topic")
	if topic == "" {
		topic = intent.Text
	}

	prompt := topic
	if profile != nil {
		prompt = fmt.Sprintf("User role: %s. Question: %s", profile.Role, topic)
	}

	response, err := h.responder.Respond(ctx, prompt, intent.Language, profile)
	if err != nil {
		if intent.Language == core.LangBangla {
			return "দুঃখিত, আমি এখন এই প্রশ্নের উত্তর দিতে পারছি না। পরে আবার চেষ্টা করুন।", nil
		}
		return "Sorry, I can't answer that question right now. Please try again later.", nil
	}

	return response, nil
}
