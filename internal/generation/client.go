package generation

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/wolfman30/ohc-assist/internal/knowledge"
)

// Speaker identifies who produced a conversation turn.
type Speaker string

const (
	SpeakerUser      Speaker = "user"
	SpeakerAssistant Speaker = "assistant"
)

// Turn is one entry of a session's conversation log.
type Turn struct {
	Speaker Speaker `json:"speaker"`
	Text    string  `json:"text"`
}

// TextRequest asks for a free-text reply to Input given the prior History.
type TextRequest struct {
	History []Turn
	Input   string
}

// StructuredRequest asks for a JSON reply matching Schema.
type StructuredRequest struct {
	History []Turn
	Prompt  string
	Schema  *Schema
}

// Options tune every call made by a Client.
type Options struct {
	Model       string
	Temperature float32
	MaxTokens   int32
	Tracer      trace.Tracer
}

// Client grounds requests in the company facts and performs one provider call
// per invocation. It never retries; every failure is returned as *Error.
type Client struct {
	llm         LLMClient
	instruction string
	opts        Options
	tracer      trace.Tracer
}

// NewClient builds a client around a provider.
func NewClient(llm LLMClient, facts knowledge.CompanyFacts, opts Options) *Client {
	if llm == nil {
		panic("generation: llm client cannot be nil")
	}
	tracer := opts.Tracer
	if tracer == nil {
		tracer = otel.Tracer("ohc.internal.generation")
	}
	return &Client{
		llm:         llm,
		instruction: BuildInstruction(facts),
		opts:        opts,
		tracer:      tracer,
	}
}

// Instruction returns the grounding instruction sent as the system prompt.
func (c *Client) Instruction() string { return c.instruction }

// GenerateText returns the assistant's plain-text reply.
func (c *Client) GenerateText(ctx context.Context, req TextRequest) (string, error) {
	ctx, span := c.tracer.Start(ctx, "generation.text")
	defer span.End()

	input := strings.TrimSpace(req.Input)
	if input == "" {
		err := newError(KindEmptyResponse, errors.New("no user input to answer"))
		recordSpanError(span, err)
		return "", err
	}

	resp, err := c.complete(ctx, span, LLMRequest{
		System:   []string{c.instruction},
		Messages: append(toMessages(req.History), ChatMessage{Role: ChatRoleUser, Content: input}),
	})
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

// GenerateStructured decodes a schema-conforming reply into out.
func (c *Client) GenerateStructured(ctx context.Context, req StructuredRequest, out any) error {
	ctx, span := c.tracer.Start(ctx, "generation.structured")
	defer span.End()

	if req.Schema == nil {
		err := newError(KindSchemaMismatch, errors.New("no response schema declared"))
		recordSpanError(span, err)
		return err
	}

	resp, err := c.complete(ctx, span, LLMRequest{
		System:         []string{c.instruction, req.Schema.directive()},
		Messages:       append(toMessages(req.History), ChatMessage{Role: ChatRoleUser, Content: req.Prompt}),
		ResponseSchema: req.Schema,
	})
	if err != nil {
		return err
	}

	if err := decodeStructured(resp.Text, req.Schema, out); err != nil {
		genErr := newError(KindSchemaMismatch, err)
		recordSpanError(span, genErr)
		return genErr
	}
	return nil
}

func (c *Client) complete(ctx context.Context, span trace.Span, req LLMRequest) (LLMResponse, error) {
	req.Model = c.opts.Model
	req.Temperature = c.opts.Temperature
	req.MaxTokens = c.opts.MaxTokens

	start := time.Now()
	resp, err := c.llm.Complete(ctx, req)
	span.SetAttributes(
		attribute.String("ohc.model", c.opts.Model),
		attribute.Int("ohc.history_len", len(req.Messages)-1),
		attribute.Int64("ohc.llm_ms", time.Since(start).Milliseconds()),
	)
	if err != nil {
		genErr := classifyProviderError(err)
		recordSpanError(span, genErr)
		return LLMResponse{}, genErr
	}

	resp.Text = strings.TrimSpace(resp.Text)
	if resp.Text == "" {
		genErr := newError(KindEmptyResponse, ErrEmptyResponse)
		recordSpanError(span, genErr)
		return LLMResponse{}, genErr
	}
	span.SetAttributes(
		attribute.Int("ohc.tokens_in", int(resp.Usage.InputTokens)),
		attribute.Int("ohc.tokens_out", int(resp.Usage.OutputTokens)),
	)
	return resp, nil
}

func toMessages(history []Turn) []ChatMessage {
	msgs := make([]ChatMessage, 0, len(history)+1)
	for _, turn := range history {
		text := strings.TrimSpace(turn.Text)
		if text == "" {
			continue
		}
		role := ChatRoleUser
		if turn.Speaker == SpeakerAssistant {
			role = ChatRoleAssistant
		}
		msgs = append(msgs, ChatMessage{Role: role, Content: text})
	}
	return dropLeadingAssistant(msgs)
}

func recordSpanError(span trace.Span, err *Error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, string(err.Kind))
	span.SetAttributes(attribute.String("ohc.error_kind", string(err.Kind)))
}
