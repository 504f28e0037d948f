package handlers

import (
	"context"
	"fmt"

	"github.com/sohayok/sohayok/internal/core"
)

// RecognitionHandler answers "who am I" through the vision recognizer.
type RecognitionHandler struct {
	recognizer Recognizer
}

func NewRecognitionHandler(recognizer Recognizer) *RecognitionHandler {
	return &RecognitionHandler{recognizer: recognizer}
}

func (h *RecognitionHandler) Respond(ctx context.Context, intent *core.Intent, _ string, _ *core.Person) (string, error) {
	if h.recognizer == nil {
		return "", core.ErrCameraUnavailable
	}

	name, err := h.recognizer.Recognize(ctx)
	if err != nil || name == "" {
		if intent.Language == core.LangBangla {
			return "দুঃখিত, আমি তোমাকে চিনতে পারছি না।", nil
		}
		return "Sorry, I don't recognize you.", nil
	}

	if intent.Language == core.LangBangla {
		return fmt.Sprintf("আমি তোমাকে চিনি! তুমি %s।", name), nil
	}
	return fmt.Sprintf("I recognize you! You are %s.", name), nil
}
