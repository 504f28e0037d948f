package handlers

import (
	"context"

	"github.com/sohayok/sohayok/internal/core"
)

// UnknownHandler asks the user to rephrase. It also backs the reserved
// command kind, which has no vocabulary yet.
type UnknownHandler struct{}

func NewUnknownHandler() *UnknownHandler {
	return &UnknownHandler{}
}

func (h *UnknownHandler) Respond(_ context.Context, intent *core.Intent, _ string, _ *core.Person) (string, error) {
	if intent.Language == core.LangBangla {
		return "দুঃখিত, আমি বুঝতে পারিনি। আপনি কি বলতে চেয়েছেন? আবার বলুন দয়া করে।", nil
	}
	return "Sorry, I didn't understand. What would you like me to do? Please try again.", nil
}
