package intent

import (
	"reflect"
	"testing"

	"github.com/sohayok/sohayok/internal/core"
)

func testClassifier() *Classifier {
	return NewClassifier(NewCatalog())
}

func TestClassify_ExactMatches(t *testing.T) {
	c := testClassifier()

	tests := []struct {
		name string
		text string
		lang core.Language
		kind core.IntentKind
	}{
		{"english greeting", "hello", core.LangEnglish, core.IntentGreeting},
		{"english greeting phrase", "good morning", core.LangEnglish, core.IntentGreeting},
		{"bangla greeting", "আসসালামু আলাইকুম", core.LangBangla, core.IntentGreeting},
		{"bangla camera", "ছবি তুলো", core.LangBangla, core.IntentCameraCapture},
		{"english movement", "move forward", core.LangEnglish, core.IntentMovement},
		{"bangla movement", "এগিয়ে যাও", core.LangBangla, core.IntentMovement},
		{"english search", "search for weather in Dhaka", core.LangEnglish, core.IntentSearch},
		{"english joke", "tell me a joke", core.LangEnglish, core.IntentEntertainment},
		{"face recognition", "who am i", core.LangEnglish, core.IntentFaceRecognition},
		{"bangla face recognition", "আমাকে চিনতে পারো", core.LangBangla, core.IntentFaceRecognition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.text, tt.lang)
			if got.Kind != tt.kind {
				t.Errorf("kind = %s, want %s", got.Kind, tt.kind)
			}
			if got.Confidence != 1.0 {
				t.Errorf("confidence = %f, want 1.0", got.Confidence)
			}
		})
	}
}

func TestClassify_NoOverlapIsUnknown(t *testing.T) {
	c := testClassifier()

	got := c.Classify("zzz qqq xyzzy", core.LangEnglish)
	if got.Kind != core.IntentUnknown {
		t.Errorf("kind = %s, want unknown", got.Kind)
	}
	if got.Confidence != 0 {
		t.Errorf("confidence = %f, want 0", got.Confidence)
	}
	if len(got.Parameters) != 0 {
		t.Errorf("expected empty parameters, got %v", got.Parameters)
	}
	if got.Parameters == nil {
		t.Error("parameters must be an empty map, not nil")
	}
}

func TestClassify_WeakMatchHasNoParameters(t *testing.T) {
	c := testClassifier()

	// Shares two of four words with "can you tell me" but matches no pattern
	// outright, so it lands between zero and the action threshold.
	got := c.Classify("tell me", core.LangEnglish)
	if got.Kind == core.IntentUnknown {
		t.Fatalf("expected a best-guess kind, got unknown")
	}
	if got.Confidence <= 0 || got.Confidence >= ActionThreshold {
		t.Fatalf("confidence = %f, want in (0, %f)", got.Confidence, ActionThreshold)
	}
	if len(got.Parameters) != 0 {
		t.Errorf("expected no parameters below threshold, got %v", got.Parameters)
	}
}

func TestClassify_SearchQueryExtracted(t *testing.T) {
	c := testClassifier()

	got := c.Classify("search for weather in Dhaka", core.LangEnglish)
	if got.Kind != core.IntentSearch {
		t.Fatalf("kind = %s, want search", got.Kind)
	}
	// English input is lowercased during normalization.
	if got.Parameters["query"] != "weather in dhaka" {
		t.Errorf("query = %q, want %q", got.Parameters["query"], "weather in dhaka")
	}
}

func TestClassify_EnglishLowercased(t *testing.T) {
	c := testClassifier()

	got := c.Classify("HELLO", core.LangEnglish)
	if got.Kind != core.IntentGreeting {
		t.Errorf("kind = %s, want greeting", got.Kind)
	}
	if got.Text != "hello" {
		t.Errorf("normalized text = %q, want %q", got.Text, "hello")
	}
}

func TestClassify_Deterministic(t *testing.T) {
	c := testClassifier()

	inputs := []struct {
		text string
		lang core.Language
	}{
		{"hello", core.LangEnglish},
		{"tell me", core.LangEnglish},
		{"ছবি তুলো", core.LangBangla},
		{"zzz", core.LangEnglish},
	}

	for _, in := range inputs {
		first := c.Classify(in.text, in.lang)
		for i := 0; i < 5; i++ {
			again := c.Classify(in.text, in.lang)
			if !reflect.DeepEqual(first, again) {
				t.Errorf("classification of %q not deterministic: %+v vs %+v", in.text, first, again)
			}
		}
	}
}

func TestClassify_ConfidenceBounded(t *testing.T) {
	c := testClassifier()

	// Repeated words overlapping a short pattern must not push the score
	// past one.
	got := c.Classify("jok jok jok jok", core.LangEnglish)
	if got.Confidence < 0 || got.Confidence > 1 {
		t.Errorf("confidence = %f, want within [0,1]", got.Confidence)
	}
}

func TestClassify_MovementDirection(t *testing.T) {
	c := testClassifier()

	tests := []struct {
		text      string
		lang      core.Language
		direction string
	}{
		{"move forward", core.LangEnglish, "forward"},
		{"move backward", core.LangEnglish, "backward"},
		{"turn left", core.LangEnglish, "left"},
		{"turn right", core.LangEnglish, "right"},
		{"এগিয়ে যাও", core.LangBangla, "forward"},
		{"পিছনে যাও", core.LangBangla, "backward"},
		{"ডানে যাও", core.LangBangla, "right"},
		{"বামে যাও", core.LangBangla, "left"},
	}

	for _, tt := range tests {
		got := c.Classify(tt.text, tt.lang)
		if got.Kind != core.IntentMovement {
			t.Errorf("%q: kind = %s, want movement", tt.text, got.Kind)
			continue
		}
		if got.Parameters["direction"] != tt.direction {
			t.Errorf("%q: direction = %q, want %q", tt.text, got.Parameters["direction"], tt.direction)
		}
	}
}
