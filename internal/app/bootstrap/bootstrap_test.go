package bootstrap

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appconfig "github.com/wolfman30/ohc-assist/internal/config"
	"github.com/wolfman30/ohc-assist/internal/generation"
	httpmiddleware "github.com/wolfman30/ohc-assist/internal/http/middleware"
	"github.com/wolfman30/ohc-assist/internal/knowledge"
	"github.com/wolfman30/ohc-assist/internal/notify"
	"github.com/wolfman30/ohc-assist/pkg/logging"
)

func staticAWS(ctx context.Context) (aws.Config, error) {
	return aws.Config{Region: "ca-central-1"}, nil
}

func failingAWS(ctx context.Context) (aws.Config, error) {
	return aws.Config{}, errors.New("no credentials")
}

func TestBuildLLMClient(t *testing.T) {
	tests := []struct {
		name    string
		cfg     appconfig.Config
		loader  AWSLoader
		wantLLM bool
		wantErr bool
	}{
		{name: "disabled", cfg: appconfig.Config{GenerationProvider: "none"}},
		{name: "empty provider", cfg: appconfig.Config{}},
		{name: "gemini without key", cfg: appconfig.Config{GenerationProvider: "gemini"}},
		{name: "bedrock without model", cfg: appconfig.Config{GenerationProvider: "bedrock"}, loader: staticAWS},
		{name: "bedrock", cfg: appconfig.Config{GenerationProvider: "bedrock", BedrockModelID: "anthropic.claude-3-haiku"}, loader: staticAWS, wantLLM: true},
		{name: "bedrock without loader", cfg: appconfig.Config{GenerationProvider: "bedrock", BedrockModelID: "m"}, wantErr: true},
		{name: "bedrock aws failure", cfg: appconfig.Config{GenerationProvider: "bedrock", BedrockModelID: "m"}, loader: failingAWS, wantErr: true},
		{name: "unknown", cfg: appconfig.Config{GenerationProvider: "openai"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			llm, _, closeFn, err := BuildLLMClient(context.Background(), &tt.cfg, tt.loader, logging.New("error"))
			require.NotNil(t, closeFn)
			assert.NoError(t, closeFn())
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.wantLLM {
				assert.IsType(t, &generation.BedrockLLMClient{}, llm)
			} else {
				assert.Nil(t, llm)
			}
		})
	}
}

func TestBuildGeneratorDisabledReturnsNil(t *testing.T) {
	gen, closeFn, err := BuildGenerator(context.Background(), &appconfig.Config{GenerationProvider: "none"}, knowledge.Default().Facts(), nil, nil)
	require.NoError(t, err)
	assert.Nil(t, gen)
	assert.NoError(t, closeFn())
}

func TestBuildEmailSender(t *testing.T) {
	tests := []struct {
		name    string
		cfg     appconfig.Config
		loader  AWSLoader
		want    any
		wantErr bool
	}{
		{name: "stub", cfg: appconfig.Config{EmailProvider: "stub"}, want: &notify.StubEmailSender{}},
		{name: "sendgrid without key", cfg: appconfig.Config{EmailProvider: "sendgrid"}, want: &notify.StubEmailSender{}},
		{name: "sendgrid", cfg: appconfig.Config{EmailProvider: "sendgrid", SendGridAPIKey: "key", EmailFrom: "no-reply@hvacohc.ca"}, want: &notify.SendGridSender{}},
		{name: "ses", cfg: appconfig.Config{EmailProvider: "ses", EmailFrom: "no-reply@hvacohc.ca"}, loader: staticAWS, want: &notify.SESSender{}},
		{name: "ses aws failure", cfg: appconfig.Config{EmailProvider: "ses"}, loader: failingAWS, wantErr: true},
		{name: "unknown", cfg: appconfig.Config{EmailProvider: "pigeon"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sender, err := BuildEmailSender(context.Background(), &tt.cfg, tt.loader, logging.New("error"))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, sender)
		})
	}
}

func TestBuildRedisClient(t *testing.T) {
	assert.Nil(t, BuildRedisClient(context.Background(), &appconfig.Config{}, nil, true))

	mr := miniredis.RunT(t)
	client := BuildRedisClient(context.Background(), &appconfig.Config{RedisAddr: mr.Addr()}, logging.New("error"), true)
	require.NotNil(t, client)
	t.Cleanup(func() { _ = client.Close() })
	assert.NoError(t, client.Ping(context.Background()).Err())

	addr := mr.Addr()
	mr.Close()
	assert.Nil(t, BuildRedisClient(context.Background(), &appconfig.Config{RedisAddr: addr}, logging.New("error"), true))
}

func TestBuildLimiter(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	logger := logging.New("error")

	assert.Nil(t, BuildLimiter(ctx, &appconfig.Config{RateLimitRPS: 0}, nil, logger))

	cfg := &appconfig.Config{RateLimitRPS: 2, RateLimitBurst: 10}
	assert.IsType(t, &httpmiddleware.MemoryLimiter{}, BuildLimiter(ctx, cfg, nil, logger))

	mr := miniredis.RunT(t)
	rdb := BuildRedisClient(ctx, &appconfig.Config{RedisAddr: mr.Addr()}, logger, false)
	t.Cleanup(func() { _ = rdb.Close() })
	assert.IsType(t, &httpmiddleware.RedisLimiter{}, BuildLimiter(ctx, cfg, rdb, logger))
}

func TestBuildServesFallbackWithoutProvider(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := &appconfig.Config{
		GenerationProvider: "none",
		EmailProvider:      "stub",
		LeadsInbox:         "info@hvacohc.ca",
		ChatMinDelay:       time.Millisecond,
		ChatFallbackDelay:  time.Millisecond,
		ChatHistoryWindow:  4,
		SessionIdleTTL:     time.Hour,
		RateLimitRPS:       100,
		RateLimitBurst:     100,
	}
	app, err := Build(ctx, cfg, nil, logging.New("error"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	rec := httptest.NewRecorder()
	app.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/chat/sessions", nil))
	require.Equal(t, http.StatusCreated, rec.Code)
	var started struct {
		SessionID string `json:"session_id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &started))

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/chat/sessions/"+started.SessionID+"/messages", strings.NewReader(`{"text":"Do you offer emergency service?"}`))
	app.Handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"origin":"fallback"`)
	assert.Contains(t, rec.Body.String(), "24/7 emergency")
}

func TestBuildRejectsMissingKnowledgeFile(t *testing.T) {
	_, err := Build(context.Background(), &appconfig.Config{KnowledgeFile: "/does/not/exist.yaml"}, nil, nil)
	assert.Error(t, err)
}

func TestSweepInterval(t *testing.T) {
	assert.Equal(t, time.Minute, sweepInterval(time.Minute))
	assert.Equal(t, 5*time.Minute, sweepInterval(20*time.Minute))
}
