// Package gemini provides an implementation of model.Model using the Google
// Gemini API via the google.golang.org/genai SDK.
package gemini

import (
	"context"
	"fmt"

	"github.com/hupe1980/sidekick/core"
	"github.com/hupe1980/sidekick/model"
	"google.golang.org/genai"
)

func init() {
	model.Register("gemini", func(cfg model.Config) (model.Model, error) {
		return NewModel(context.Background(), func(o *Options) {
			if cfg.Model != "" {
				o.Model = cfg.Model
			}
			if cfg.Temperature > 0 {
				o.Temperature = cfg.Temperature
			}
			if cfg.MaxTokens > 0 {
				o.MaxTokens = cfg.MaxTokens
			}
			o.APIKey = cfg.APIKey
		})
	})
}

// Options configures the Gemini model adapter.
type Options struct {
	Model       string
	Temperature float64
	MaxTokens   int64
	APIKey      string
}

// Model wraps the Gemini GenerateContent API behind the generic model.Model interface.
type Model struct {
	client *genai.Client
	opts   Options
}

// NewModel creates a new Gemini model. The context is only used for client
// construction, not pinned for later calls.
func NewModel(ctx context.Context, optFns ...func(o *Options)) (*Model, error) {
	opts := Options{
		Model:       "gemini-2.0-flash",
		Temperature: 0.7,
		MaxTokens:   4096,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: opts.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &Model{client: client, opts: opts}, nil
}

// Generate implements one-shot generation for a single prompt.
func (m *Model) Generate(ctx context.Context, prompt string, optFns ...func(o *model.Options)) (string, error) {
	return m.Chat(ctx, []core.Message{{Role: core.RoleUser, Content: prompt}}, optFns...)
}

// Chat implements multi-turn generation via GenerateContent.
func (m *Model) Chat(ctx context.Context, messages []core.Message, optFns ...func(o *model.Options)) (string, error) {
	opts := model.ApplyOptions(optFns...)

	resp, err := m.client.Models.GenerateContent(ctx, m.opts.Model, buildContents(messages), m.buildConfig(opts))
	if err != nil {
		return "", fmt.Errorf("gemini api error: %w", err)
	}
	return extractText(resp), nil
}

// GenerateStream implements streaming generation via GenerateContentStream.
func (m *Model) GenerateStream(ctx context.Context, prompt string, optFns ...func(o *model.Options)) (<-chan string, <-chan error) {
	out := make(chan string, 32)
	errCh := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errCh)

		opts := model.ApplyOptions(optFns...)
		contents := buildContents([]core.Message{{Role: core.RoleUser, Content: prompt}})

		for resp, err := range m.client.Models.GenerateContentStream(ctx, m.opts.Model, contents, m.buildConfig(opts)) {
			if err != nil {
				errCh <- fmt.Errorf("gemini streaming error: %w", err)
				return
			}
			chunk := extractText(resp)
			if chunk == "" {
				continue
			}
			select {
			case <-ctx.Done():
				errCh <- ctx.Err()
				return
			case out <- chunk:
			}
		}
	}()

	return out, errCh
}

// buildConfig folds construction defaults and per-call options into the
// GenerateContent configuration.
func (m *Model) buildConfig(opts model.Options) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(m.opts.Temperature)),
		MaxOutputTokens: int32(m.opts.MaxTokens),
	}
	if opts.Temperature >= 0 {
		cfg.Temperature = genai.Ptr(float32(opts.Temperature))
	}
	if opts.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(opts.MaxTokens)
	}
	if opts.SystemInstruction != "" {
		cfg.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: opts.SystemInstruction}},
		}
	}
	return cfg
}

// buildContents converts normalized messages to Gemini contents. Gemini
// names the assistant role "model"; system messages are folded into the
// user turn sequence since the config carries the system instruction.
func buildContents(messages []core.Message) []*genai.Content {
	var contents []*genai.Content
	for _, msg := range messages {
		if msg.Content == "" {
			continue
		}
		role := genai.RoleUser
		if msg.Role == core.RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: msg.Content}},
		})
	}
	return contents
}

// extractText concatenates the text parts of the first candidate.
func extractText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var text string
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil {
			text += part.Text
		}
	}
	return text
}

// Info returns metadata describing this Gemini model implementation.
func (m *Model) Info() model.Info {
	return model.Info{
		Name:              m.opts.Model,
		Provider:          "gemini",
		SupportsStreaming: true,
	}
}

// Close implements model.Model; the underlying HTTP client owns no resources
// requiring explicit release.
func (m *Model) Close() error { return nil }
