package handlers

import (
	"context"

	"github.com/sohayok/sohayok/internal/core"
)

// EntertainmentHandler serves role-appropriate content: staff get the
// professional message, students the educational mix, visitors the general mix.
type EntertainmentHandler struct {
	library Entertainer
}

func NewEntertainmentHandler(library Entertainer) *EntertainmentHandler {
	return &EntertainmentHandler{library: library}
}

func (h *EntertainmentHandler) Respond(_ context.Context, intent *core.Intent, _ string, profile *core.Person) (string, error) {
	if profile != nil {
		switch profile.Role {
		case core.RoleTeacher, core.RolePrincipal:
			return h.library.ForProfessional(intent.Language), nil
		case core.RoleStudent:
			return h.library.ForStudent(intent.Language), nil
		}
	}
	return h.library.General(intent.Language), nil
}
