package assistant

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wolfman30/ohc-assist/internal/generation"
	"github.com/wolfman30/ohc-assist/internal/knowledge"
	"github.com/wolfman30/ohc-assist/internal/observability/metrics"
	"github.com/wolfman30/ohc-assist/internal/pipeline"
	"github.com/wolfman30/ohc-assist/internal/rebates"
	"github.com/wolfman30/ohc-assist/pkg/logging"
)

// Config tunes a Service.
type Config struct {
	Profile Profile
	// Timeout bounds each generation call.
	Timeout time.Duration
	// IdleTTL evicts sessions with no activity; zero keeps them forever.
	IdleTTL time.Duration
}

// Service is the caller-facing API used by the HTTP and websocket handlers.
// It owns an in-memory registry of chat and estimator sessions.
type Service struct {
	base         *knowledge.Base
	resolver     *knowledge.Resolver
	gen          Generator
	chatRunner   *pipeline.Runner
	rebateRunner *pipeline.Runner
	profile      Profile
	idleTTL      time.Duration
	logger       *logging.Logger
	now          func() time.Time

	mu         sync.Mutex
	chats      map[string]*ChatSession
	estimators map[string]*RebateSession
}

// NewService wires the pipeline around gen. A nil gen serves fallback content
// for every request.
func NewService(base *knowledge.Base, gen Generator, cfg Config, logger *logging.Logger, m *metrics.PipelineMetrics, opts ...pipeline.Option) *Service {
	if base == nil {
		base = knowledge.Default()
	}
	if logger == nil {
		logger = logging.Default()
	}
	if gen == nil {
		gen = offlineGenerator{}
	}
	profile := cfg.Profile.withDefaults(base)

	return &Service{
		base:     base,
		resolver: knowledge.NewResolver(base),
		gen:      gen,
		chatRunner: pipeline.NewRunner(pipeline.Config{
			SuccessFloor:  profile.SuccessFloor,
			FallbackFloor: profile.FallbackFloor,
			Timeout:       cfg.Timeout,
		}, logger, m, opts...),
		rebateRunner: pipeline.NewRunner(pipeline.Config{
			SuccessFloor:  pipeline.DefaultSuccessFloor,
			FallbackFloor: pipeline.DefaultFallbackFloor,
			Timeout:       cfg.Timeout,
		}, logger, m, opts...),
		profile:    profile,
		idleTTL:    cfg.IdleTTL,
		logger:     logger,
		now:        time.Now,
		chats:      make(map[string]*ChatSession),
		estimators: make(map[string]*RebateSession),
	}
}

// Knowledge exposes the immutable knowledge base.
func (s *Service) Knowledge() *knowledge.Base { return s.base }

func (s *Service) Profile() Profile { return s.profile }

// StartChat opens a session whose transcript starts with the greeting.
func (s *Service) StartChat() *ChatSession {
	session := &ChatSession{
		id:       uuid.New().String(),
		profile:  s.profile,
		runner:   s.chatRunner,
		gen:      s.gen,
		resolver: s.resolver,
		now:      s.now,
	}
	session.state.turns = []generation.Turn{{Speaker: generation.SpeakerAssistant, Text: s.profile.Greeting}}
	session.state.lastActive = s.now()

	s.mu.Lock()
	s.chats[session.id] = session
	s.mu.Unlock()

	s.logger.Debug("chat session started", "session_id", session.id)
	return session
}

// Chat looks up a chat session.
func (s *Service) Chat(id string) (*ChatSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.chats[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// SubmitChatMessage sends text on an existing chat session.
func (s *Service) SubmitChatMessage(ctx context.Context, sessionID, text string) (pipeline.DisplayResult[string], error) {
	session, err := s.Chat(sessionID)
	if err != nil {
		return pipeline.DisplayResult[string]{}, err
	}
	return session.Submit(ctx, text, nil)
}

// StartEstimator opens an estimator session.
func (s *Service) StartEstimator() *RebateSession {
	session := s.newEstimator()
	s.mu.Lock()
	s.estimators[session.id] = session
	s.mu.Unlock()
	return session
}

func (s *Service) newEstimator() *RebateSession {
	session := &RebateSession{
		id:     uuid.New().String(),
		runner: s.rebateRunner,
		gen:    s.gen,
		facts:  s.base.Facts(),
		now:    s.now,
	}
	session.state.lastActive = s.now()
	return session
}

// Estimator looks up an estimator session.
func (s *Service) Estimator(id string) (*RebateSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.estimators[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// estimatorFor returns the named session, or a throwaway one when id is empty.
func (s *Service) estimatorFor(id string) (*RebateSession, error) {
	if id == "" {
		return s.newEstimator(), nil
	}
	return s.Estimator(id)
}

// EstimateRebate estimates rebates for one upgrade. sessionID may be empty.
func (s *Service) EstimateRebate(ctx context.Context, sessionID string, params rebates.Params) (pipeline.DisplayResult[rebates.Summary], error) {
	session, err := s.estimatorFor(sessionID)
	if err != nil {
		return pipeline.DisplayResult[rebates.Summary]{}, err
	}
	return session.Estimate(ctx, params)
}

// CompareRebatePaths compares the heat pump, furnace and AC paths. sessionID
// may be empty.
func (s *Service) CompareRebatePaths(ctx context.Context, sessionID string, params rebates.Params) (pipeline.DisplayResult[rebates.Comparison], error) {
	session, err := s.estimatorFor(sessionID)
	if err != nil {
		return pipeline.DisplayResult[rebates.Comparison]{}, err
	}
	return session.Compare(ctx, params)
}

// Sweep evicts sessions idle longer than the TTL. Pending sessions are kept.
func (s *Service) Sweep() int {
	if s.idleTTL <= 0 {
		return 0
	}
	cutoff := s.now().Add(-s.idleTTL)

	s.mu.Lock()
	defer s.mu.Unlock()
	evicted := 0
	for id, session := range s.chats {
		if last, pending := session.state.idleSince(); !pending && last.Before(cutoff) {
			delete(s.chats, id)
			evicted++
		}
	}
	for id, session := range s.estimators {
		if last, pending := session.state.idleSince(); !pending && last.Before(cutoff) {
			delete(s.estimators, id)
			evicted++
		}
	}
	return evicted
}

// RunSweeper evicts idle sessions until ctx is done.
func (s *Service) RunSweeper(ctx context.Context, interval time.Duration) {
	if s.idleTTL <= 0 {
		return
	}
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				s.logger.Info("evicted idle sessions", "count", n)
			}
		}
	}
}

var errGenerationDisabled = errors.New("generation backend not configured")

// offlineGenerator fails every call so the pipeline serves fallback content.
type offlineGenerator struct{}

func (offlineGenerator) GenerateText(context.Context, generation.TextRequest) (string, error) {
	return "", &generation.Error{Kind: generation.KindTransport, Cause: errGenerationDisabled}
}

func (offlineGenerator) GenerateStructured(context.Context, generation.StructuredRequest, any) error {
	return &generation.Error{Kind: generation.KindTransport, Cause: errGenerationDisabled}
}
