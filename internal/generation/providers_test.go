package generation

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	brtypes "github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"github.com/google/generative-ai-go/genai"
)

type fakeConverse struct {
	input *bedrockruntime.ConverseInput
	out   *bedrockruntime.ConverseOutput
	err   error
}

func (f *fakeConverse) Converse(ctx context.Context, params *bedrockruntime.ConverseInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error) {
	f.input = params
	return f.out, f.err
}

func textOutput(text string) *bedrockruntime.ConverseOutput {
	return &bedrockruntime.ConverseOutput{
		Output: &brtypes.ConverseOutputMemberMessage{Value: brtypes.Message{
			Role:    brtypes.ConversationRoleAssistant,
			Content: []brtypes.ContentBlock{&brtypes.ContentBlockMemberText{Value: text}},
		}},
		StopReason: brtypes.StopReasonEndTurn,
		Usage: &brtypes.TokenUsage{
			InputTokens:  aws.Int32(12),
			OutputTokens: aws.Int32(5),
			TotalTokens:  aws.Int32(17),
		},
	}
}

func TestBedrockComplete(t *testing.T) {
	fake := &fakeConverse{out: textOutput(" Yes, we install heat pumps. ")}
	client := NewBedrockLLMClient(fake)

	resp, err := client.Complete(context.Background(), LLMRequest{
		Model:       "anthropic.claude-3-haiku",
		System:      []string{"be brief", ""},
		Temperature: 0.5,
		MaxTokens:   256,
		Messages: []ChatMessage{
			{Role: ChatRoleAssistant, Content: "Hi!"},
			{Role: ChatRoleUser, Content: "Heat pumps?"},
			{Role: ChatRoleAssistant, Content: "Yes."},
			{Role: ChatRoleUser, Content: "Rebates?"},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Text != "Yes, we install heat pumps." {
		t.Fatalf("unexpected text %q", resp.Text)
	}
	if resp.Usage.TotalTokens != 17 || resp.StopReason != "end_turn" {
		t.Fatalf("unexpected metadata %+v", resp)
	}

	in := fake.input
	if aws.ToString(in.ModelId) != "anthropic.claude-3-haiku" {
		t.Fatalf("unexpected model %q", aws.ToString(in.ModelId))
	}
	if len(in.System) != 1 {
		t.Fatalf("expected blank system blocks dropped, got %d", len(in.System))
	}
	if len(in.Messages) != 3 || in.Messages[0].Role != brtypes.ConversationRoleUser || in.Messages[1].Role != brtypes.ConversationRoleAssistant {
		t.Fatalf("unexpected messages %+v", in.Messages)
	}
	if aws.ToInt32(in.InferenceConfig.MaxTokens) != 256 || aws.ToFloat32(in.InferenceConfig.Temperature) != 0.5 {
		t.Fatalf("unexpected inference config")
	}
}

func TestBedrockCompleteErrors(t *testing.T) {
	tests := []struct {
		name      string
		fake      *fakeConverse
		req       LLMRequest
		wantEmpty bool
	}{
		{
			name: "missing model",
			fake: &fakeConverse{},
			req:  LLMRequest{Messages: []ChatMessage{{Role: ChatRoleUser, Content: "hi"}}},
		},
		{
			name: "api failure",
			fake: &fakeConverse{err: errors.New("throttled")},
			req:  LLMRequest{Model: "m", Messages: []ChatMessage{{Role: ChatRoleUser, Content: "hi"}}},
		},
		{
			name:      "no text blocks",
			fake:      &fakeConverse{out: textOutput("  ")},
			req:       LLMRequest{Model: "m", Messages: []ChatMessage{{Role: ChatRoleUser, Content: "hi"}}},
			wantEmpty: true,
		},
		{
			name: "unknown role",
			fake: &fakeConverse{},
			req:  LLMRequest{Model: "m", Messages: []ChatMessage{{Role: "tool", Content: "hi"}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewBedrockLLMClient(tt.fake).Complete(context.Background(), tt.req)
			if err == nil {
				t.Fatalf("expected error")
			}
			if got := errors.Is(err, ErrEmptyResponse); got != tt.wantEmpty {
				t.Fatalf("empty response = %v, want %v (%v)", got, tt.wantEmpty, err)
			}
		})
	}
}

func TestGeminiHistory(t *testing.T) {
	history, last, err := geminiHistory([]ChatMessage{
		{Role: ChatRoleSystem, Content: "ignored"},
		{Role: ChatRoleAssistant, Content: "Hi!"},
		{Role: ChatRoleUser, Content: " "},
		{Role: ChatRoleUser, Content: "Rebates?"},
		{Role: ChatRoleAssistant, Content: "Up to $10,500."},
		{Role: ChatRoleUser, Content: "And furnaces?"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(last) != "And furnaces?" {
		t.Fatalf("unexpected last message %q", last)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 history entries, got %d", len(history))
	}
	if history[0].Role != "user" || history[1].Role != "model" {
		t.Fatalf("unexpected roles %q %q", history[0].Role, history[1].Role)
	}

	if _, _, err := geminiHistory(nil); err == nil {
		t.Fatalf("expected error for empty messages")
	}
}

func TestGeminiResponse(t *testing.T) {
	resp, err := geminiResponse(&genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content:      &genai.Content{Parts: []genai.Part{genai.Text("We serve "), genai.Text("Toronto. ")}},
			FinishReason: genai.FinishReasonStop,
		}},
		UsageMetadata: &genai.UsageMetadata{PromptTokenCount: 10, CandidatesTokenCount: 4, TotalTokenCount: 14},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Text != "We serve Toronto." || resp.Usage.TotalTokens != 14 {
		t.Fatalf("unexpected response %+v", resp)
	}

	for _, empty := range []*genai.GenerateContentResponse{
		nil,
		{},
		{Candidates: []*genai.Candidate{{}}},
	} {
		if _, err := geminiResponse(empty); !errors.Is(err, ErrEmptyResponse) {
			t.Fatalf("expected empty response error, got %v", err)
		}
	}
}

func TestToGeminiSchema(t *testing.T) {
	got := toGeminiSchema(&Schema{
		Type:     TypeObject,
		Required: []string{"steps"},
		Properties: map[string]*Schema{
			"steps": {Type: TypeArray, Items: &Schema{Type: TypeString}},
			"score": {Type: TypeNumber},
		},
	})
	if got.Type != genai.TypeObject {
		t.Fatalf("unexpected root type %v", got.Type)
	}
	steps := got.Properties["steps"]
	if steps == nil || steps.Type != genai.TypeArray || steps.Items.Type != genai.TypeString {
		t.Fatalf("unexpected steps schema %+v", steps)
	}
	if got.Properties["score"].Type != genai.TypeNumber {
		t.Fatalf("unexpected score type")
	}
	if toGeminiSchema(nil) != nil {
		t.Fatalf("nil schema should map to nil")
	}
}
