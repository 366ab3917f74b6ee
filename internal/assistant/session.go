package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/wolfman30/ohc-assist/internal/generation"
	"github.com/wolfman30/ohc-assist/internal/knowledge"
	"github.com/wolfman30/ohc-assist/internal/pipeline"
	"github.com/wolfman30/ohc-assist/internal/rebates"
)

var (
	ErrSessionBusy         = errors.New("assistant: a reply is still pending for this session")
	ErrSessionNotFound     = errors.New("assistant: session not found")
	ErrEmptyMessage        = errors.New("assistant: message is empty")
	ErrInvalidRebateParams = errors.New("assistant: invalid rebate parameters")
)

const (
	FlowChat           = "chat"
	FlowRebateEstimate = "rebate_estimate"
	FlowRebateCompare  = "rebate_compare"
)

// Generator produces replies from the generation backend. *generation.Client
// satisfies it.
type Generator interface {
	GenerateText(ctx context.Context, req generation.TextRequest) (string, error)
	GenerateStructured(ctx context.Context, req generation.StructuredRequest, out any) error
}

// sessionState is the append-only log and the single-flight guard shared by
// both session kinds.
type sessionState struct {
	mu         sync.Mutex
	turns      []generation.Turn
	pending    bool
	lastActive time.Time
}

// begin records input and claims the session. It returns the history that
// preceded input, trimmed to window turns when window > 0.
func (s *sessionState) begin(input string, window int, now time.Time) ([]generation.Turn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending {
		return nil, ErrSessionBusy
	}
	history := s.turns
	if window > 0 && len(history) > window {
		history = history[len(history)-window:]
	}
	history = append([]generation.Turn(nil), history...)

	s.turns = append(s.turns, generation.Turn{Speaker: generation.SpeakerUser, Text: input})
	s.pending = true
	s.lastActive = now
	return history, nil
}

func (s *sessionState) finish(reply string, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = append(s.turns, generation.Turn{Speaker: generation.SpeakerAssistant, Text: reply})
	s.pending = false
	s.lastActive = now
}

func (s *sessionState) transcript() []generation.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]generation.Turn(nil), s.turns...)
}

func (s *sessionState) idleSince() (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive, s.pending
}

// ChatSession is one visitor's conversation with the chat widget.
type ChatSession struct {
	id       string
	profile  Profile
	runner   *pipeline.Runner
	gen      Generator
	resolver *knowledge.Resolver
	now      func() time.Time
	state    sessionState
}

func (s *ChatSession) ID() string { return s.id }

func (s *ChatSession) Profile() Profile { return s.profile }

// Transcript returns a copy of the conversation, greeting first.
func (s *ChatSession) Transcript() []generation.Turn { return s.state.transcript() }

// Pending reports whether a reply is in flight.
func (s *ChatSession) Pending() bool {
	_, pending := s.state.idleSince()
	return pending
}

// Submit appends text, runs the pipeline and appends the reply. A second
// Submit while one is pending fails with ErrSessionBusy and changes nothing.
// observe, if non-nil, sees the run's state transitions.
func (s *ChatSession) Submit(ctx context.Context, text string, observe func(pipeline.State)) (pipeline.DisplayResult[string], error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return pipeline.DisplayResult[string]{}, ErrEmptyMessage
	}
	history, err := s.state.begin(text, s.profile.HistoryWindow, s.now())
	if err != nil {
		return pipeline.DisplayResult[string]{}, err
	}

	result := pipeline.NewRun[string](s.runner, FlowChat, observe).Execute(ctx,
		func(ctx context.Context) (string, error) {
			return s.gen.GenerateText(ctx, generation.TextRequest{History: history, Input: text})
		},
		func() string { return s.resolver.Resolve(text).Text },
	)

	s.state.finish(result.Payload, s.now())
	return result, nil
}

// RebateSession keeps the estimator's full exchange history so follow-up
// estimates are made in context.
type RebateSession struct {
	id     string
	runner *pipeline.Runner
	gen    Generator
	facts  knowledge.CompanyFacts
	now    func() time.Time
	state  sessionState
}

func (s *RebateSession) ID() string { return s.id }

func (s *RebateSession) Transcript() []generation.Turn { return s.state.transcript() }

// Estimate returns a rebate summary for one upgrade.
func (s *RebateSession) Estimate(ctx context.Context, params rebates.Params) (pipeline.DisplayResult[rebates.Summary], error) {
	params = params.Normalize()
	if err := params.Validate(true); err != nil {
		return pipeline.DisplayResult[rebates.Summary]{}, fmt.Errorf("%w: %w", ErrInvalidRebateParams, err)
	}
	prompt := rebates.EstimatePrompt(params)
	history, err := s.state.begin(prompt, 0, s.now())
	if err != nil {
		return pipeline.DisplayResult[rebates.Summary]{}, err
	}

	result := pipeline.Execute(ctx, s.runner, FlowRebateEstimate,
		func(ctx context.Context) (rebates.Summary, error) {
			var out rebates.Summary
			err := s.gen.GenerateStructured(ctx, generation.StructuredRequest{
				History: history,
				Prompt:  prompt,
				Schema:  rebates.SummarySchema(),
			}, &out)
			return out, err
		},
		func() rebates.Summary { return rebates.FallbackSummary(s.facts, params.Upgrade) },
	)

	s.state.finish(encodeTurn(result.Payload), s.now())
	return result, nil
}

// Compare returns a comparison of the upgrade paths. The upgrade type is
// ignored.
func (s *RebateSession) Compare(ctx context.Context, params rebates.Params) (pipeline.DisplayResult[rebates.Comparison], error) {
	params = params.Normalize()
	if err := params.Validate(false); err != nil {
		return pipeline.DisplayResult[rebates.Comparison]{}, fmt.Errorf("%w: %w", ErrInvalidRebateParams, err)
	}
	prompt := rebates.ComparePrompt(params)
	history, err := s.state.begin(prompt, 0, s.now())
	if err != nil {
		return pipeline.DisplayResult[rebates.Comparison]{}, err
	}

	result := pipeline.Execute(ctx, s.runner, FlowRebateCompare,
		func(ctx context.Context) (rebates.Comparison, error) {
			var out rebates.Comparison
			err := s.gen.GenerateStructured(ctx, generation.StructuredRequest{
				History: history,
				Prompt:  prompt,
				Schema:  rebates.ComparisonSchema(),
			}, &out)
			return out, err
		},
		func() rebates.Comparison { return rebates.FallbackComparison(s.facts) },
	)

	s.state.finish(encodeTurn(result.Payload), s.now())
	return result, nil
}

// encodeTurn stores a structured reply as the assistant's turn text.
func encodeTurn(v any) string {
	raw, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(raw)
}
