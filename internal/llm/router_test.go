package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/sohayok/sohayok/internal/core"
)

type fakeChatClient struct {
	reply      string
	err        error
	configured bool

	lastSystem   string
	lastMessages []OllamaChatMessage
}

func (f *fakeChatClient) ChatWithHistory(_ context.Context, system string, messages []OllamaChatMessage) (string, error) {
	f.lastSystem = system
	f.lastMessages = messages
	return f.reply, f.err
}

func (f *fakeChatClient) IsConfigured() bool { return f.configured }

func TestRouter_Respond(t *testing.T) {
	client := &fakeChatClient{reply: "The sky looks blue because of scattering", configured: true}
	router := NewRouter(client)

	got, err := router.Respond(context.Background(), "why is the sky blue", core.LangEnglish, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "The sky looks blue because of scattering." {
		t.Errorf("unexpected response: %q", got)
	}
	if client.lastSystem != systemPrompts["en_general"] {
		t.Errorf("expected general prompt, got %q", client.lastSystem)
	}
}

func TestRouter_SchoolPromptForStaff(t *testing.T) {
	client := &fakeChatClient{reply: "ok."}
	router := NewRouter(client)

	profile := &core.Person{Name: "Rahim", Role: core.RoleTeacher}
	if _, err := router.Respond(context.Background(), "school hours?", core.LangEnglish, profile); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client.lastSystem != systemPrompts["en_school"] {
		t.Errorf("expected school prompt, got %q", client.lastSystem)
	}
}

func TestRouter_FallbackWhenUnavailable(t *testing.T) {
	client := &fakeChatClient{err: errors.New("connection refused")}
	router := NewRouter(client)

	got, err := router.Respond(context.Background(), "hello", core.LangBangla, nil)
	if !errors.Is(err, core.ErrLLMUnavailable) {
		t.Errorf("expected ErrLLMUnavailable, got %v", err)
	}
	if got != Fallback(core.LangBangla) {
		t.Errorf("expected Bangla fallback, got %q", got)
	}
}

func TestRouter_HistorySameLanguageOnly(t *testing.T) {
	client := &fakeChatClient{reply: "fine."}
	router := NewRouter(client)

	ctx := context.Background()
	if _, err := router.Respond(ctx, "hello there", core.LangEnglish, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := router.Respond(ctx, "কেমন আছো", core.LangBangla, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := router.Respond(ctx, "how are you", core.LangEnglish, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// First exchange replayed as user+assistant, Bangla turn filtered out,
	// plus the current input.
	if len(client.lastMessages) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(client.lastMessages))
	}
	if client.lastMessages[0].Content != "hello there" {
		t.Errorf("unexpected first history message: %q", client.lastMessages[0].Content)
	}
	if client.lastMessages[2].Content != "how are you" {
		t.Errorf("expected current input last, got %q", client.lastMessages[2].Content)
	}
}

func TestPostProcess(t *testing.T) {
	tests := []struct {
		name string
		in   string
		lang core.Language
		want string
	}{
		{"strips assistant prefix", "Assistant: Hello!", core.LangEnglish, "Hello!"},
		{"adds english period", "Hello there", core.LangEnglish, "Hello there."},
		{"adds dari", "ভালো আছি", core.LangBangla, "ভালো আছি।"},
		{"keeps existing dari", "ভালো আছি।", core.LangBangla, "ভালো আছি।"},
		{"keeps question mark", "How can I help?", core.LangEnglish, "How can I help?"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := postProcess(tt.in, tt.lang); got != tt.want {
				t.Errorf("postProcess(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
