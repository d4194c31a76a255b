// Package openai provides an implementation of model.Model using the OpenAI
// Chat Completions API (including streaming). It adapts Sidekick's normalized
// message structures into the SDK's message format and back.
package openai

import (
	"context"
	"fmt"

	"github.com/hupe1980/sidekick/core"
	"github.com/hupe1980/sidekick/model"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

func init() {
	model.Register("openai", func(cfg model.Config) (model.Model, error) {
		var clientOpts []option.RequestOption
		if cfg.APIKey != "" {
			clientOpts = append(clientOpts, option.WithAPIKey(cfg.APIKey))
		}
		client := openai.NewClient(clientOpts...)
		return NewModelFromClient(&client, func(o *Options) {
			if cfg.Model != "" {
				o.Model = cfg.Model
			}
			if cfg.Temperature > 0 {
				o.Temperature = cfg.Temperature
			}
			if cfg.MaxTokens > 0 {
				o.MaxCompletionTokens = cfg.MaxTokens
			}
		}), nil
	})
}

// Options configure the OpenAI model adapter.
// Fields mirror a subset of Chat Completion parameters intentionally kept
// minimal; extend via functional options without breaking callers.
type Options struct {
	Model               string
	Temperature         float64
	MaxCompletionTokens int64
}

// Model wraps the OpenAI Chat Completions API behind the generic model.Model interface.
type Model struct {
	client *openai.Client
	opts   Options
}

// NewModel creates a new OpenAI model using the official client
func NewModel(optFns ...func(o *Options)) *Model {
	client := openai.NewClient()
	return NewModelFromClient(&client, optFns...)
}

// NewModelFromClient creates a new OpenAI model from an existing client
func NewModelFromClient(client *openai.Client, optFns ...func(o *Options)) *Model {
	opts := Options{
		Model:               openai.ChatModelGPT4oMini,
		Temperature:         0.7,
		MaxCompletionTokens: 4096,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Model{client: client, opts: opts}
}

// Generate implements one-shot generation for a single prompt.
func (m *Model) Generate(ctx context.Context, prompt string, optFns ...func(o *model.Options)) (string, error) {
	return m.Chat(ctx, []core.Message{{Role: core.RoleUser, Content: prompt}}, optFns...)
}

// Chat implements multi-turn generation via Chat Completions.
func (m *Model) Chat(ctx context.Context, messages []core.Message, optFns ...func(o *model.Options)) (string, error) {
	params := m.buildParams(messages, model.ApplyOptions(optFns...))

	resp, err := m.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("openai api error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

// GenerateStream implements streaming generation via the Chat Completions
// streaming API.
func (m *Model) GenerateStream(ctx context.Context, prompt string, optFns ...func(o *model.Options)) (<-chan string, <-chan error) {
	out := make(chan string, 32)
	errCh := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errCh)

		params := m.buildParams([]core.Message{{Role: core.RoleUser, Content: prompt}}, model.ApplyOptions(optFns...))

		stream := m.client.Chat.Completions.NewStreaming(ctx, params)
		for stream.Next() {
			chunk := stream.Current()
			for _, choice := range chunk.Choices {
				if choice.Delta.Content == "" {
					continue
				}
				select {
				case <-ctx.Done():
					errCh <- ctx.Err()
					return
				case out <- choice.Delta.Content:
				}
			}
		}
		if err := stream.Err(); err != nil {
			errCh <- fmt.Errorf("openai streaming error: %w", err)
		}
	}()

	return out, errCh
}

// buildParams assembles the Chat Completions request parameters.
func (m *Model) buildParams(messages []core.Message, opts model.Options) openai.ChatCompletionNewParams {
	var msgs []openai.ChatCompletionMessageParamUnion
	if opts.SystemInstruction != "" {
		msgs = append(msgs, openai.SystemMessage(opts.SystemInstruction))
	}
	for _, msg := range messages {
		if msg.Content == "" {
			continue
		}
		switch msg.Role {
		case core.RoleSystem:
			msgs = append(msgs, openai.SystemMessage(msg.Content))
		case core.RoleAssistant:
			msgs = append(msgs, openai.AssistantMessage(msg.Content))
		default:
			msgs = append(msgs, openai.UserMessage(msg.Content))
		}
	}

	params := openai.ChatCompletionNewParams{
		Messages:            msgs,
		Model:               m.opts.Model,
		Temperature:         openai.Float(m.opts.Temperature),
		MaxCompletionTokens: openai.Int(m.opts.MaxCompletionTokens),
	}
	if opts.Temperature >= 0 {
		params.Temperature = openai.Float(opts.Temperature)
	}
	if opts.MaxTokens > 0 {
		params.MaxCompletionTokens = openai.Int(opts.MaxTokens)
	}
	return params
}

// Info returns metadata describing this OpenAI model implementation.
func (m *Model) Info() model.Info {
	return model.Info{
		Name:              m.opts.Model,
		Provider:          "openai",
		SupportsStreaming: true,
	}
}

// Close implements model.Model; the underlying HTTP client owns no resources
// requiring explicit release.
func (m *Model) Close() error { return nil }
