package handlers

import (
	"context"
	"fmt"

	"github.com/sohayok/sohayok/internal/core"
)

var banglaDirections = map[string]string{
	"forward":  "সামনে",
	"backward": "পিছনে",
	"left":     "বামে",
	"right":    "ডানে",
}

// MovementHandler drives the base. Authorization is checked upstream; by the
// time this runs the caller is allowed to move the robot.
type MovementHandler struct {
	motion Motion
}

func NewMovementHandler(motion Motion) *MovementHandler {
	return &MovementHandler{motion: motion}
}

func (h *MovementHandler) Respond(ctx context.Context, intent *core.Intent, _ string, _ *core.Person) (string, error) {
	if h.motion == nil {
		return "", core.ErrMotionUnavailable
	}

	direction := intent.Param("direction")
	if direction == "" {
		// No parseable direction; wave instead of guessing.
		if err := h.motion.Wave(ctx); err != nil {
			return "", err
		}
		if intent.Language == core.LangBangla {
			return "ঠিক আছে!", nil
		}
		return "Okay!", nil
	}

	if err := h.motion.Move(ctx, direction); err != nil {
		return "", err
	}

	if intent.Language == core.LangBangla {
		if bn, ok := banglaDirections[direction]; ok {
			direction = bn
		}
		return fmt.Sprintf("ঠিক আছে, আমি %s দিকে যাচ্ছি।", direction), nil
	}
	return fmt.Sprintf("Okay, moving %s.", direction), nil
}
