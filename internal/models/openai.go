// Package models adapts external text-generation providers to the adk LLM
// interface consumed by the turn engine.
package models

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"sort"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"google.golang.org/adk/model"
	"google.golang.org/genai"
)

// openaiModel wraps an OpenAI-compatible chat completion client.
type openaiModel struct {
	client *openai.Client
	name   string
}

type toolCallBuilder struct {
	Index int64
	ID    string
	Name  string
	Args  strings.Builder
}

// NewOpenAIModel creates an adapter for any OpenAI-compatible endpoint. An
// empty baseURL targets the official API.
func NewOpenAIModel(modelName, apiKey, baseURL string) (model.LLM, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if modelName == "" {
		return nil, fmt.Errorf("model name cannot be empty")
	}

	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	client := openai.NewClient(opts...)

	return &openaiModel{name: modelName, client: &client}, nil
}

func (m *openaiModel) Name() string {
	return m.name
}

func (m *openaiModel) GenerateContent(ctx context.Context, req *model.LLMRequest, stream bool) iter.Seq2[*model.LLMResponse, error] {
	if stream {
		return m.generateStream(ctx, req)
	}
	return func(yield func(*model.LLMResponse, error) bool) {
		resp, err := m.generate(ctx, req)
		yield(resp, err)
	}
}

func (m *openaiModel) generate(ctx context.Context, req *model.LLMRequest) (*model.LLMResponse, error) {
	params := buildChatParams(req, m.name)

	resp, err := m.client.Chat.Completions.New(ctx, *params)
	if err != nil {
		slog.Error("failed to call chat completion API", "model", m.name, "error", err.Error())
		return nil, fmt.Errorf("failed to call chat completion API: %w", err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return &model.LLMResponse{}, nil
	}

	message := resp.Choices[0].Message
	content := &genai.Content{
		Role:  string(message.Role),
		Parts: []*genai.Part{},
	}
	if message.Content != "" {
		content.Parts = append(content.Parts, &genai.Part{Text: message.Content})
	}

	if len(message.ToolCalls) > 0 {
		builder := &toolCallBuilder{}
		for _, call := range message.ToolCalls {
			if call.Type != "function" {
				continue
			}
			if call.ID != "" {
				builder.ID = call.ID
			}
			if call.Function.Name != "" {
				builder.Name = call.Function.Name
			}
			if call.Function.Arguments != "" {
				builder.Args.WriteString(call.Function.Arguments)
			}
		}
		if builder.ID != "" && builder.Name != "" {
			content.Parts = append(content.Parts, &genai.Part{
				FunctionCall: &genai.FunctionCall{
					ID:   builder.ID,
					Name: builder.Name,
					Args: parseFunctionArgs(builder.Args.String()),
				},
			})
		}
	}

	return &model.LLMResponse{Content: content}, nil
}

func (m *openaiModel) generateStream(ctx context.Context, req *model.LLMRequest) iter.Seq2[*model.LLMResponse, error] {
	return func(yield func(*model.LLMResponse, error) bool) {
		params := buildChatParams(req, m.name)

		stream := m.client.Chat.Completions.NewStreaming(ctx, *params)
		defer func() {
			if err := stream.Close(); err != nil {
				slog.Error("failed to close completion stream", "error", err.Error())
			}
		}()

		pendingTools := make(map[int64]*toolCallBuilder)
		sentFinal := false
		for stream.Next() {
			chunk := stream.Current()
			if len(chunk.Choices) == 0 {
				continue
			}
			choice := chunk.Choices[0]
			isFinished := choice.FinishReason != ""

			if choice.Delta.Content != "" {
				resp := &model.LLMResponse{
					Content: &genai.Content{
						Role:  "model",
						Parts: []*genai.Part{{Text: choice.Delta.Content}},
					},
					Partial:      true,
					TurnComplete: isFinished && len(pendingTools) == 0,
				}
				if resp.TurnComplete {
					sentFinal = true
				}
				if !yield(resp, nil) {
					return
				}
			}

			for _, call := range choice.Delta.ToolCalls {
				builder, ok := pendingTools[call.Index]
				if !ok {
					builder = &toolCallBuilder{Index: call.Index}
					pendingTools[call.Index] = builder
				}
				if call.ID != "" {
					builder.ID = call.ID
				}
				if call.Function.Name != "" {
					builder.Name = call.Function.Name
				}
				if call.Function.Arguments != "" {
					builder.Args.WriteString(call.Function.Arguments)
				}
			}

			if isFinished && len(pendingTools) > 0 {
				if !yield(flushToolCalls(pendingTools), nil) {
					return
				}
				sentFinal = true
			}

			if isFinished && len(pendingTools) == 0 && !sentFinal {
				resp := &model.LLMResponse{
					Content:      &genai.Content{Role: "model"},
					TurnComplete: true,
				}
				sentFinal = true
				if !yield(resp, nil) {
					return
				}
			}
		}

		if err := stream.Err(); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				yield(nil, fmt.Errorf("context cancelled: %w", err))
				return
			}
			slog.Error("failed to stream chat completion", "error", err.Error())
			yield(nil, fmt.Errorf("stream error: %w", err))
		}
	}
}

func flushToolCalls(pending map[int64]*toolCallBuilder) *model.LLMResponse {
	indices := make([]int64, 0, len(pending))
	for idx := range pending {
		indices = append(indices, idx)
	}
	sort.Slice(indices, func(i, j int) bool { return indices[i] < indices[j] })

	var parts []*genai.Part
	for _, idx := range indices {
		builder := pending[idx]
		parts = append(parts, &genai.Part{
			FunctionCall: &genai.FunctionCall{
				ID:   builder.ID,
				Name: builder.Name,
				Args: parseFunctionArgs(builder.Args.String()),
			},
		})
	}
	return &model.LLMResponse{
		Content:      &genai.Content{Role: "model", Parts: parts},
		TurnComplete: true,
	}
}
