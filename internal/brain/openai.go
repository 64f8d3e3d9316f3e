package brain

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const defaultOpenAIModel = "gpt-4o-mini"

// OpenAIAdapter completes prompts through the OpenAI chat completions API
// and supports image description via data-URL content parts.
type OpenAIAdapter struct {
	apiKey string
	model  string
	client openai.Client
}

func NewOpenAIAdapter(apiKey, model string) *OpenAIAdapter {
	apiKey = strings.TrimSpace(apiKey)
	if strings.TrimSpace(model) == "" {
		model = defaultOpenAIModel
	}
	return &OpenAIAdapter{
		apiKey: apiKey,
		model:  model,
		client: openai.NewClient(option.WithAPIKey(apiKey)),
	}
}

func (a *OpenAIAdapter) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	if a.apiKey == "" {
		return "", newError(ReasonMissingCredential, "OPENAI_API_KEY is not set")
	}

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(a.model),
		Messages: toUnionMessages(req.Messages),
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(req.MaxTokens)
	}
	if req.Temperature > 0 {
		params.Temperature = openai.Float(req.Temperature)
	}

	completion, err := a.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", classifyOpenAI(err)
	}
	return extractChoice(completion)
}

func (a *OpenAIAdapter) DescribeImage(ctx context.Context, req VisionRequest) (string, error) {
	if a.apiKey == "" {
		return "", newError(ReasonMissingCredential, "OPENAI_API_KEY is not set")
	}

	dataURL := fmt.Sprintf("data:%s;base64,%s", req.ContentType, base64.StdEncoding.EncodeToString(req.Data))
	parts := []openai.ChatCompletionContentPartUnionParam{
		openai.TextContentPart(req.Goal),
		openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{URL: dataURL}),
	}

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, 2)
	if strings.TrimSpace(req.Persona) != "" {
		messages = append(messages, openai.SystemMessage(req.Persona))
	}
	messages = append(messages, openai.UserMessage(parts))

	completion, err := a.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(a.model),
		Messages: messages,
	})
	if err != nil {
		return "", classifyOpenAI(err)
	}
	return extractChoice(completion)
}

func toUnionMessages(messages []Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case RoleSystem:
			out = append(out, openai.SystemMessage(m.Content))
		case RoleAssistant:
			out = append(out, openai.AssistantMessage(m.Content))
		default:
			out = append(out, openai.UserMessage(m.Content))
		}
	}
	return out
}

func extractChoice(completion *openai.ChatCompletion) (string, error) {
	if completion == nil || len(completion.Choices) == 0 {
		return "", newError(ReasonMalformed, "completion has no choices")
	}
	text := strings.TrimSpace(completion.Choices[0].Message.Content)
	if text == "" {
		return "", newError(ReasonMalformed, "completion text is empty")
	}
	return text, nil
}

func classifyOpenAI(err error) *Error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return newError(ReasonUpstreamStatus, "status %d: %s", apiErr.StatusCode, apiErr.Message)
	}
	return classifyTransport(err)
}
