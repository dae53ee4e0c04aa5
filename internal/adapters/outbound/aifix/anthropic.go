// Package aifix is the AI repair collaborator: it asks a Claude model to
// turn text the local rules could not fix into valid JSON.
package aifix

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/openkraft/jsonkraft/internal/domain"
)

// EnvAPIKey is read by FromEnv.
const EnvAPIKey = "ANTHROPIC_API_KEY"

// DefaultModel is used when the config leaves repair.model empty.
const DefaultModel = anthropic.ModelClaude3_5Haiku20241022

const maxInput = 100_000

const prompt = `Repair the following malformed JSON so that it parses.
Keep every key and value that can be recovered, keep key order, and do not
invent data. Return ONLY the repaired JSON with no explanation and no code
fences.

%s`

// Repairer implements domain.AIRepairer on the Anthropic Messages API.
type Repairer struct {
	client    anthropic.Client
	model     anthropic.Model
	maxTokens int64
}

// New creates a Repairer. Extra request options are passed to the client.
func New(apiKey string, cfg domain.RepairConfig, opts ...option.RequestOption) *Repairer {
	model := anthropic.Model(cfg.Model)
	if model == "" {
		model = DefaultModel
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 4096
	}
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	return &Repairer{
		client:    anthropic.NewClient(opts...),
		model:     model,
		maxTokens: maxTokens,
	}
}

// FromEnv returns a Repairer when ANTHROPIC_API_KEY is set.
func FromEnv(cfg domain.RepairConfig) (*Repairer, bool) {
	key := os.Getenv(EnvAPIKey)
	if key == "" {
		return nil, false
	}
	return New(key, cfg), true
}

func (r *Repairer) Repair(ctx context.Context, text string) (string, error) {
	if len(text) > maxInput {
		return "", fmt.Errorf("%w: input of %d bytes exceeds %d", domain.ErrCollaboratorUnavailable, len(text), maxInput)
	}

	resp, err := r.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     r.model,
		MaxTokens: r.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(fmt.Sprintf(prompt, text))),
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: claude api: %v", domain.ErrCollaboratorUnavailable, err)
	}

	var b strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	out := stripFences(b.String())
	if out == "" {
		return "", fmt.Errorf("%w: empty response", domain.ErrCollaboratorUnavailable)
	}
	return out, nil
}

// stripFences removes a surrounding markdown code fence, if any.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
