package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/ohc-assist/internal/generation"
	"github.com/wolfman30/ohc-assist/internal/knowledge"
	"github.com/wolfman30/ohc-assist/internal/pipeline"
	"github.com/wolfman30/ohc-assist/internal/rebates"
)

type stubGenerator struct {
	mu         sync.Mutex
	text       string
	structured string
	err        error
	started    chan struct{}
	release    chan struct{}
	textReqs   []generation.TextRequest
	structReqs []generation.StructuredRequest
}

func (g *stubGenerator) wait() {
	if g.started != nil {
		g.started <- struct{}{}
	}
	if g.release != nil {
		<-g.release
	}
}

func (g *stubGenerator) GenerateText(ctx context.Context, req generation.TextRequest) (string, error) {
	g.mu.Lock()
	g.textReqs = append(g.textReqs, req)
	g.mu.Unlock()
	g.wait()
	if g.err != nil {
		return "", g.err
	}
	return g.text, nil
}

func (g *stubGenerator) GenerateStructured(ctx context.Context, req generation.StructuredRequest, out any) error {
	g.mu.Lock()
	g.structReqs = append(g.structReqs, req)
	g.mu.Unlock()
	g.wait()
	if g.err != nil {
		return g.err
	}
	return json.Unmarshal([]byte(g.structured), out)
}

// instantService skips the presentation floors so tests run quickly.
func instantService(gen Generator, cfg Config) *Service {
	noSleep := pipeline.WithClock(nil, func(time.Duration) {})
	return NewService(knowledge.Default(), gen, cfg, nil, nil, noSleep)
}

func TestStartChatSeedsGreeting(t *testing.T) {
	svc := instantService(&stubGenerator{}, Config{})
	session := svc.StartChat()

	transcript := session.Transcript()
	require.Len(t, transcript, 1)
	assert.Equal(t, generation.SpeakerAssistant, transcript[0].Speaker)
	assert.Equal(t, DefaultGreeting, transcript[0].Text)
	assert.Equal(t, knowledge.Default().Questions(), session.Profile().QuickQuestions)

	found, err := svc.Chat(session.ID())
	require.NoError(t, err)
	assert.Same(t, session, found)
}

func TestSubmitChatMessageGenerated(t *testing.T) {
	gen := &stubGenerator{text: "We install heat pumps across the GTA."}
	svc := instantService(gen, Config{})
	session := svc.StartChat()

	result, err := svc.SubmitChatMessage(context.Background(), session.ID(), "  Do you install heat pumps? ")
	require.NoError(t, err)
	assert.Equal(t, pipeline.OriginGenerated, result.Origin)
	assert.Equal(t, "We install heat pumps across the GTA.", result.Payload)

	transcript := session.Transcript()
	require.Len(t, transcript, 3)
	assert.Equal(t, "Do you install heat pumps?", transcript[1].Text)
	assert.Equal(t, generation.SpeakerAssistant, transcript[2].Speaker)

	require.Len(t, gen.textReqs, 1)
	assert.Equal(t, "Do you install heat pumps?", gen.textReqs[0].Input)
	require.Len(t, gen.textReqs[0].History, 1)
	assert.Equal(t, DefaultGreeting, gen.textReqs[0].History[0].Text)
}

func TestSubmitChatMessageHistoryWindow(t *testing.T) {
	gen := &stubGenerator{text: "ok"}
	svc := instantService(gen, Config{})
	session := svc.StartChat()

	for _, msg := range []string{"one", "two", "three"} {
		_, err := session.Submit(context.Background(), msg, nil)
		require.NoError(t, err)
	}

	last := gen.textReqs[len(gen.textReqs)-1]
	require.Len(t, last.History, DefaultHistoryWindow)
	assert.Equal(t, "one", last.History[0].Text)
	assert.Equal(t, "two", last.History[2].Text)
	assert.Equal(t, "three", last.Input)
	assert.Len(t, session.Transcript(), 7)
}

func TestSubmitChatMessageFallsBackToKnowledge(t *testing.T) {
	gen := &stubGenerator{err: &generation.Error{Kind: generation.KindTransport, Cause: errors.New("quota exceeded")}}
	svc := instantService(gen, Config{})
	session := svc.StartChat()

	result, err := session.Submit(context.Background(), "What are the rebates?", nil)
	require.NoError(t, err)
	assert.Equal(t, pipeline.OriginFallback, result.Origin)
	assert.Equal(t, knowledge.Default().Entries()[0].Answer, result.Payload)

	result, err = session.Submit(context.Background(), "banana", nil)
	require.NoError(t, err)
	assert.Contains(t, result.Payload, "+1 416-200-0905")
}

func TestSubmitChatMessageErrors(t *testing.T) {
	svc := instantService(&stubGenerator{text: "ok"}, Config{})

	_, err := svc.SubmitChatMessage(context.Background(), "missing", "hi")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	session := svc.StartChat()
	_, err = session.Submit(context.Background(), "   ", nil)
	assert.ErrorIs(t, err, ErrEmptyMessage)
	assert.Len(t, session.Transcript(), 1)
}

func TestSubmitWhilePendingIsRejected(t *testing.T) {
	gen := &stubGenerator{text: "first reply", started: make(chan struct{}), release: make(chan struct{})}
	svc := instantService(gen, Config{})
	session := svc.StartChat()

	done := make(chan pipeline.DisplayResult[string])
	go func() {
		result, err := session.Submit(context.Background(), "first", nil)
		if err != nil {
			t.Errorf("first submit: %v", err)
		}
		done <- result
	}()

	<-gen.started
	assert.True(t, session.Pending())

	_, err := session.Submit(context.Background(), "second", nil)
	assert.ErrorIs(t, err, ErrSessionBusy)
	assert.Len(t, session.Transcript(), 2)

	close(gen.release)
	result := <-done
	assert.Equal(t, "first reply", result.Payload)
	assert.False(t, session.Pending())

	transcript := session.Transcript()
	require.Len(t, transcript, 3)
	assert.Equal(t, "first", transcript[1].Text)
	assert.Equal(t, "first reply", transcript[2].Text)
}

func TestSubmitReportsPendingState(t *testing.T) {
	svc := instantService(&stubGenerator{text: "ok"}, Config{})
	session := svc.StartChat()

	var states []pipeline.State
	_, err := session.Submit(context.Background(), "hello", func(s pipeline.State) { states = append(states, s) })
	require.NoError(t, err)
	assert.Equal(t, []pipeline.State{pipeline.StatePending, pipeline.StateResolved}, states)
}

func TestEstimateRebateFallbackTiming(t *testing.T) {
	gen := &stubGenerator{err: errors.New("connection refused")}
	svc := NewService(knowledge.Default(), gen, Config{}, nil, nil)

	start := time.Now()
	result, err := svc.EstimateRebate(context.Background(), "", rebates.Params{
		PostalCode: "M9W 0B5",
		HomeSize:   2000,
		Upgrade:    rebates.UpgradeHeatPump,
	})
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.Equal(t, pipeline.OriginFallback, result.Origin)
	assert.Equal(t, "$8,500 - $10,500", result.Payload.TotalAmount)
	assert.GreaterOrEqual(t, elapsed, time.Second)
	assert.Less(t, elapsed, 1400*time.Millisecond)
}

func TestEstimateRebateGenerated(t *testing.T) {
	gen := &stubGenerator{structured: `{"totalAmount":"$10,500","breakdown":[{"source":"HER+","amount":"$10,000","description":"audit"}],"steps":["audit"],"tips":["act now"]}`}
	svc := instantService(gen, Config{})
	estimator := svc.StartEstimator()

	params := rebates.Params{PostalCode: "m1a1a1", HomeSize: 3500, Upgrade: "furnace"}
	result, err := svc.EstimateRebate(context.Background(), estimator.ID(), params)
	require.NoError(t, err)
	assert.Equal(t, pipeline.OriginGenerated, result.Origin)
	assert.Equal(t, "$10,500", result.Payload.TotalAmount)

	_, err = svc.EstimateRebate(context.Background(), estimator.ID(), params)
	require.NoError(t, err)

	require.Len(t, gen.structReqs, 2)
	assert.Empty(t, gen.structReqs[0].History)
	assert.Len(t, gen.structReqs[1].History, 2)
	assert.Contains(t, gen.structReqs[0].Prompt, "M1A 1A1")
	assert.Len(t, estimator.Transcript(), 4)
}

func TestEstimateRebateInvalidParams(t *testing.T) {
	gen := &stubGenerator{}
	svc := instantService(gen, Config{})

	_, err := svc.EstimateRebate(context.Background(), "", rebates.Params{PostalCode: "nope", HomeSize: 2000, Upgrade: rebates.UpgradeAC})
	assert.ErrorIs(t, err, ErrInvalidRebateParams)
	assert.ErrorIs(t, err, rebates.ErrInvalidParams)
	assert.Empty(t, gen.structReqs)

	_, err = svc.EstimateRebate(context.Background(), "unknown", rebates.Params{PostalCode: "M1A 1A1", HomeSize: 2000, Upgrade: rebates.UpgradeAC})
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestCompareRebatePathsRoundTrip(t *testing.T) {
	reply := `{"comparison":[
		{"type":"heat-pump","label":"Heat Pump","rebateAmount":"$10,500","program":"HER+","pros":["a","b"],"cons":["c"],"summary":"s","efficiencyRating":9},
		{"type":"furnace","label":"Furnace","rebateAmount":"$5,000","program":"HER+","pros":["a"],"cons":["b"],"summary":"s","efficiencyRating":7},
		{"type":"ac","label":"AC","rebateAmount":"$2,500","program":"HER+","pros":["a"],"cons":["b","c"],"summary":"s","efficiencyRating":6}
	],"overallRecommendation":"Heat pump","disclaimer":"Subject to audit"}`
	llm := &scriptedLLM{text: reply}
	client := generation.NewClient(llm, knowledge.Default().Facts(), generation.Options{})
	svc := instantService(client, Config{})

	result, err := svc.CompareRebatePaths(context.Background(), "", rebates.Params{PostalCode: "M9W 0B5", HomeSize: 1000})
	require.NoError(t, err)
	assert.Equal(t, pipeline.OriginGenerated, result.Origin)
	require.Len(t, result.Payload.Comparison, 3)
	assert.Equal(t, "ac", result.Payload.Comparison[2].Type)
	assert.Len(t, result.Payload.Comparison[2].Cons, 2)
	assert.Equal(t, "Subject to audit", result.Payload.Disclaimer)
}

func TestCompareRebatePathsSchemaMismatchFallsBack(t *testing.T) {
	llm := &scriptedLLM{text: `{"comparison": "not a list"}`}
	client := generation.NewClient(llm, knowledge.Default().Facts(), generation.Options{})
	svc := instantService(client, Config{})

	result, err := svc.CompareRebatePaths(context.Background(), "", rebates.Params{PostalCode: "M9W 0B5", HomeSize: 1000})
	require.NoError(t, err)
	assert.Equal(t, pipeline.OriginFallback, result.Origin)
	assert.Len(t, result.Payload.Comparison, 3)
}

func TestStructuredRepliesWithoutContentFallBack(t *testing.T) {
	params := rebates.Params{PostalCode: "M9W 0B5", HomeSize: 2000, Upgrade: rebates.UpgradeHeatPump}

	summaries := map[string]string{
		"empty total":     `{"totalAmount":"","breakdown":[{"source":"HER+","amount":"$1","description":"d"}],"steps":[],"tips":[]}`,
		"empty breakdown": `{"totalAmount":"$10,500","breakdown":[],"steps":[],"tips":[]}`,
		"all empty":       `{"totalAmount":"","breakdown":[],"steps":[],"tips":[]}`,
	}
	for name, reply := range summaries {
		t.Run("estimate "+name, func(t *testing.T) {
			client := generation.NewClient(&scriptedLLM{text: reply}, knowledge.Default().Facts(), generation.Options{})
			svc := instantService(client, Config{})

			result, err := svc.EstimateRebate(context.Background(), "", params)
			require.NoError(t, err)
			assert.Equal(t, pipeline.OriginFallback, result.Origin)
			assert.Equal(t, "$8,500 - $10,500", result.Payload.TotalAmount)
		})
	}

	t.Run("empty comparison", func(t *testing.T) {
		reply := `{"comparison":[],"overallRecommendation":"Heat pump","disclaimer":"Subject to audit"}`
		client := generation.NewClient(&scriptedLLM{text: reply}, knowledge.Default().Facts(), generation.Options{})
		svc := instantService(client, Config{})

		result, err := svc.CompareRebatePaths(context.Background(), "", params)
		require.NoError(t, err)
		assert.Equal(t, pipeline.OriginFallback, result.Origin)
		assert.Len(t, result.Payload.Comparison, 3)
	})
}

func TestNilGeneratorServesFallback(t *testing.T) {
	svc := instantService(nil, Config{})
	session := svc.StartChat()

	result, err := session.Submit(context.Background(), "Do you offer emergency services?", nil)
	require.NoError(t, err)
	assert.Equal(t, pipeline.OriginFallback, result.Origin)
	assert.Contains(t, result.Payload, "24/7")
}

func TestSweepEvictsIdleSessions(t *testing.T) {
	svc := instantService(&stubGenerator{text: "ok"}, Config{IdleTTL: time.Minute})
	clock := time.Now()
	svc.now = func() time.Time { return clock }

	stale := svc.StartChat()
	staleEstimator := svc.StartEstimator()
	clock = clock.Add(2 * time.Minute)
	fresh := svc.StartChat()

	assert.Equal(t, 2, svc.Sweep())

	_, err := svc.Chat(stale.ID())
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = svc.Estimator(staleEstimator.ID())
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = svc.Chat(fresh.ID())
	assert.NoError(t, err)
}

type scriptedLLM struct {
	text string
}

func (s *scriptedLLM) Complete(ctx context.Context, req generation.LLMRequest) (generation.LLMResponse, error) {
	return generation.LLMResponse{Text: s.text}, nil
}
