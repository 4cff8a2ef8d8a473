package components

import (
	"testing"

	cohere "github.com/cohere-ai/cohere-go/v2"
	openai "github.com/sashabaranov/go-openai"

	"github.com/porterchild/self-prompting/schema"
)

func TestMessageToOpenAI(t *testing.T) {
	msg := NewMessage(UserRole, schema.NewString("Answer the question."))
	var dist openai.ChatCompletionMessage
	msg.ToOpenAI(&dist)
	if dist.Role != UserRole {
		t.Errorf("role = %q, want %q", dist.Role, UserRole)
	}
	if dist.Content != "Answer the question." {
		t.Errorf("content = %q", dist.Content)
	}
}

func TestMessageToCohereRoles(t *testing.T) {
	tests := []struct {
		role     MessageRole
		wantRole string
	}{
		{SystemRole, "SYSTEM"},
		{AssistantRole, "CHATBOT"},
		{UserRole, "USER"},
	}
	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			msg := NewMessage(tt.role, schema.NewString("hello"))
			var dist cohere.Message
			msg.ToCohere(&dist)
			if dist.Role != tt.wantRole {
				t.Errorf("role = %q, want %q", dist.Role, tt.wantRole)
			}
		})
	}
}

func TestNewTurnID(t *testing.T) {
	a, b := NewTurnID(), NewTurnID()
	if a == "" || a == b {
		t.Errorf("turn IDs must be unique and non-empty, got %q and %q", a, b)
	}
}
