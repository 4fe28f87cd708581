// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cleanup

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"text/template"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/pdiddy/rulebook-engine/pkg/types"
)

const systemPrompt = "You are an expert at cleaning OCR text and formatting D&D content in Markdown."

var pagePromptTmpl = template.Must(template.New("page").Funcs(template.FuncMap{
	"join": func(s []string) string { return strings.Join(s, ", ") },
}).Parse(`You are helping to convert a D&D 5e SRD document from OCR text to clean Markdown.

Page {{.Number}} content:
{{.Text}}{{if .Headers}}

Detected headers on this page: {{join .Headers}}{{end}}

Please clean this text and apply proper Markdown formatting:

1. Fix OCR errors and typos
2. Apply proper header hierarchy (# ## ### etc.) based on content importance
3. Format spell/ability blocks with proper structure
4. Bold important keywords like "Casting Time:", "Range:", "Duration:", etc.
5. Create proper lists and tables where appropriate
6. Preserve D&D terminology exactly
7. Remove excessive whitespace but maintain paragraph structure
8. Ensure proper sentence flow and grammar

Return ONLY the cleaned Markdown text, no explanations.`))

// renderPrompt fills the page prompt template.
func renderPrompt(p Page) (string, error) {
	var buf bytes.Buffer
	if err := pagePromptTmpl.Execute(&buf, p); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// OpenAIBackend cleans pages with the OpenAI chat completions API.
type OpenAIBackend struct {
	client      *openai.Client
	model       openai.ChatModel
	maxTokens   int
	temperature float64
}

// NewOpenAIBackend builds a backend from cfg. Extra request options (base
// URL, HTTP client) are passed through to the client.
func NewOpenAIBackend(cfg types.AIConfig, opts ...option.RequestOption) (*OpenAIBackend, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("api key required")
	}
	model := openai.ChatModel(cfg.Model)
	if model == "" {
		model = openai.ChatModelGPT4oMini
	}
	cli := openai.NewClient(append([]option.RequestOption{option.WithAPIKey(cfg.APIKey), option.WithMaxRetries(0)}, opts...)...)
	return &OpenAIBackend{
		client:      &cli,
		model:       model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
	}, nil
}

// Model returns the chat model name.
func (b *OpenAIBackend) Model() string { return string(b.model) }

// CleanPage sends one page to the chat completions API.
func (b *OpenAIBackend) CleanPage(ctx context.Context, p Page) (string, error) {
	prompt, err := renderPrompt(p)
	if err != nil {
		return "", fmt.Errorf("rendering prompt: %w", err)
	}

	params := openai.ChatCompletionNewParams{
		Model:       b.model,
		Messages:    buildMessages(systemPrompt, prompt),
		Temperature: openai.Float(b.temperature),
	}
	if b.maxTokens > 0 {
		params.MaxCompletionTokens = openai.Int(int64(b.maxTokens))
	}

	resp, err := b.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("openai: no choices returned")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func buildMessages(system, user string) []openai.ChatCompletionMessageParamUnion {
	return []openai.ChatCompletionMessageParamUnion{
		{
			OfSystem: &openai.ChatCompletionSystemMessageParam{
				Content: openai.ChatCompletionSystemMessageParamContentUnion{
					OfString: openai.String(system),
				},
			},
		},
		{
			OfUser: &openai.ChatCompletionUserMessageParam{
				Content: openai.ChatCompletionUserMessageParamContentUnion{
					OfString: openai.String(user),
				},
			},
		},
	}
}
