package aifix

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openkraft/jsonkraft/internal/domain"
)

func fakeAPI(t *testing.T, status int, reply string) (*httptest.Server, *string) {
	t.Helper()
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		got = string(body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = w.Write([]byte(`{"type":"error","error":{"type":"api_error","message":"boom"}}`))
			return
		}
		resp := map[string]any{
			"id":          "msg_1",
			"type":        "message",
			"role":        "assistant",
			"model":       string(DefaultModel),
			"content":     []map[string]any{{"type": "text", "text": reply}},
			"stop_reason": "end_turn",
			"usage":       map[string]any{"input_tokens": 10, "output_tokens": 5},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv, &got
}

func newTestRepairer(srv *httptest.Server) *Repairer {
	return New("test-key", domain.RepairConfig{MaxTokens: 256},
		option.WithBaseURL(srv.URL+"/"), option.WithMaxRetries(0))
}

func TestRepairer_ReturnsModelText(t *testing.T) {
	srv, body := fakeAPI(t, http.StatusOK, "```json\n{\"a\": 1}\n```")
	out, err := newTestRepairer(srv).Repair(context.Background(), "{a: 1")
	require.NoError(t, err)
	assert.Equal(t, `{"a": 1}`, out)
	assert.Contains(t, *body, "{a: 1")
	assert.Contains(t, *body, `"max_tokens":256`)
}

func TestRepairer_APIErrorIsCollaboratorFailure(t *testing.T) {
	srv, _ := fakeAPI(t, http.StatusInternalServerError, "")
	_, err := newTestRepairer(srv).Repair(context.Background(), "{a: 1")
	assert.ErrorIs(t, err, domain.ErrCollaboratorUnavailable)
}

func TestRepairer_EmptyReply(t *testing.T) {
	srv, _ := fakeAPI(t, http.StatusOK, "   ")
	_, err := newTestRepairer(srv).Repair(context.Background(), "{a: 1")
	assert.ErrorIs(t, err, domain.ErrCollaboratorUnavailable)
}

func TestRepairer_RejectsHugeInput(t *testing.T) {
	r := New("k", domain.RepairConfig{})
	_, err := r.Repair(context.Background(), string(make([]byte, maxInput+1)))
	assert.ErrorIs(t, err, domain.ErrCollaboratorUnavailable)
}

func TestFromEnv(t *testing.T) {
	t.Setenv(EnvAPIKey, "")
	_, ok := FromEnv(domain.RepairConfig{})
	assert.False(t, ok)

	t.Setenv(EnvAPIKey, "k")
	r, ok := FromEnv(domain.RepairConfig{Model: "claude-x"})
	require.True(t, ok)
	assert.Equal(t, "claude-x", string(r.model))
}

func TestStripFences(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripFences(`{"a":1}`))
	assert.Equal(t, `{"a":1}`, stripFences("```\n{\"a\":1}\n```"))
	assert.Equal(t, `[1]`, stripFences("  ```json\n[1]```  "))
}
