package handlers

import (
	"context"
	"fmt"

	"github.com/sohayok/sohayok/internal/core"
)

// GreetingHandler greets by role. Known people are greeted in their stored
// language preference rather than the language of the utterance.
type GreetingHandler struct{}

func NewGreetingHandler() *GreetingHandler {
	return &GreetingHandler{}
}

func (h *GreetingHandler) Respond(_ context.Context, intent *core.Intent, _ string, profile *core.Person) (string, error) {
	if profile == nil {
		if intent.Language == core.LangBangla {
			return "আসসালামু আলাইকুম! আমি আপনার রোবট সহকারী। আমি আপনার সাথে কথা বলতে প্রস্তুত।", nil
		}
		return "Hello! I'm your robot assistant. I'm ready to help you.", nil
	}

	lang := profile.Language
	if !lang.Valid() {
		lang = intent.Language
	}

	if lang == core.LangBangla {
		switch profile.Role {
		case core.RolePrincipal:
			return "আসসালামু আলাইকুম, প্রিন্সিপাল স্যার! আপনার সাথে দেখা করে খুবই ভালো লাগছে।", nil
		case core.RoleTeacher:
			return "আসসালামু আলাইকুম, স্যার! কেমন আছেন?", nil
		case core.RoleStudent:
			return "হ্যালো! কেমন আছো? আজকে ক্লাস কেমন গেছে?", nil
		default:
			return fmt.Sprintf("আসসালামু আলাইকুম, %s! কেমন আছেন?", profile.Name), nil
		}
	}

	switch profile.Role {
	case core.RolePrincipal:
		return "Good day, Principal! It's wonderful to see you.", nil
	case core.RoleTeacher:
		return "Hello, Sir! How are you today?", nil
	case core.RoleStudent:
		return "Hi there! How was your class today?", nil
	default:
		return fmt.Sprintf("Hello, %s! Great to see you.", profile.Name), nil
	}
}
