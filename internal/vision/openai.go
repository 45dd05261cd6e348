package vision

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/JaimeStill/sweep/pkg/formatting"
)

const (
	defaultModel = "gpt-4o-mini"
	maxTokens    = 512
)

const systemPrompt = `You label photos submitted by people reporting litter.
Respond with a single JSON object of the form
{"tags":[{"name":"<label>","confidence":<0..1>}],"caption":"<short description>"}.
List at most ten tags, most relevant first. Use short lowercase nouns such as
"plastic bottle", "litter", "fly tipping", "rubbish bag". If the image shows no
litter, still describe what it shows.`

// OpenAIConfig configures an OpenAI-compatible vision endpoint.
type OpenAIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	// InlineImages sends image bytes as a data URI instead of the public URL.
	InlineImages bool
}

// OpenAI is an Analyzer backed by a vision-capable chat completion model.
type OpenAI struct {
	client *openai.Client
	model  string
	inline bool
}

// NewOpenAI creates an OpenAI analyzer.
func NewOpenAI(cfg OpenAIConfig) *OpenAI {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	model := cfg.Model
	if model == "" {
		model = defaultModel
	}

	return &OpenAI{
		client: openai.NewClientWithConfig(clientCfg),
		model:  model,
		inline: cfg.InlineImages,
	}
}

func (o *OpenAI) Analyze(ctx context.Context, img Image) (Analysis, error) {
	imageURL, err := o.imageURL(img)
	if err != nil {
		return Analysis{}, err
	}

	req := openai.ChatCompletionRequest{
		Model:     o.model,
		MaxTokens: maxTokens,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: "Label this photo."},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL:    imageURL,
							Detail: openai.ImageURLDetailLow,
						},
					},
				},
			},
		},
	}

	resp, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return Analysis{}, fmt.Errorf("create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Analysis{}, errors.New("chat completion returned no choices")
	}

	analysis, err := formatting.Parse[Analysis](resp.Choices[0].Message.Content)
	if err != nil {
		return Analysis{}, err
	}

	analysis.Caption = strings.TrimSpace(analysis.Caption)
	return analysis, nil
}

func (o *OpenAI) imageURL(img Image) (string, error) {
	if o.inline && len(img.Data) > 0 {
		contentType := img.ContentType
		if contentType == "" {
			contentType = "image/jpeg"
		}
		return fmt.Sprintf("data:%s;base64,%s", contentType, base64.StdEncoding.EncodeToString(img.Data)), nil
	}

	if img.URL == "" {
		return "", ErrNoImage
	}
	return img.URL, nil
}
