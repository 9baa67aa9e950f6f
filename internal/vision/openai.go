package vision

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

const defaultOpenAIModel = "gpt-4o"

// OpenAI implements Client using the official OpenAI SDK.
type OpenAI struct {
	client openai.Client
	model  string
}

// NewOpenAI creates an OpenAI vision client. An empty model selects the
// default.
func NewOpenAI(apiKey, model string) *OpenAI {
	if model == "" {
		model = defaultOpenAIModel
	}
	return &OpenAI{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}
}

func (o *OpenAI) Name() string { return "openai" }

// Analyze submits the image as a data URL content part alongside the prompt.
func (o *OpenAI) Analyze(ctx context.Context, imageBase64, mediaType, prompt string) (string, error) {
	dataURL := fmt.Sprintf("data:%s;base64,%s", mediaType, imageBase64)

	parts := []openai.ChatCompletionContentPartUnionParam{
		{
			OfImageURL: &openai.ChatCompletionContentPartImageParam{
				ImageURL: openai.ChatCompletionContentPartImageImageURLParam{URL: dataURL},
			},
		},
		{
			OfText: &openai.ChatCompletionContentPartTextParam{Text: prompt},
		},
	}

	completion, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:               shared.ChatModel(o.model),
		MaxCompletionTokens: openai.Int(maxCritiqueTokens),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(parts),
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai request failed: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("openai returned no choices")
	}
	return completion.Choices[0].Message.Content, nil
}
