package handlers

import (
	"context"
	"fmt"

	"github.com/sohayok/sohayok/internal/core"
)

// CameraHandler takes a photo. The "self" target wording acknowledges the
// speaker asked for a photo of themselves.
type CameraHandler struct {
	camera Camera
}

func NewCameraHandler(camera Camera) *CameraHandler {
	return &CameraHandler{camera: camera}
}

func (h *CameraHandler) Respond(ctx context.Context, intent *core.Intent, _ string, _ *core.Person) (string, error) {
	if h.camera == nil {
		return "", core.ErrCameraUnavailable
	}

	target := intent.Param("target")
	path, err := h.camera.Capture(ctx, target)
	if err != nil {
		if intent.Language == core.LangBangla {
			return "দুঃখিত, ছবি তোলা যায়নি। আবার চেষ্টা করুন।", nil
		}
		return "Sorry, couldn't take the photo. Please try again.", nil
	}

	if target == "self" {
		if intent.Language == core.LangBangla {
			return fmt.Sprintf("আপনার ছবি তোলা হয়েছে! ছবিটি %s এ সংরক্ষিত হয়েছে।", path), nil
		}
		return fmt.Sprintf("Your photo has been taken! Saved to %s", path), nil
	}

	if intent.Language == core.LangBangla {
		return fmt.Sprintf("ছবি তোলা হয়েছে! %s এ সংরক্ষিত হয়েছে।", path), nil
	}
	return fmt.Sprintf("Photo taken! Saved to %s", path), nil
}
