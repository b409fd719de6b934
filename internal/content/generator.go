// Package content generates marketplace-ready listing copy (title,
// description, search tags) for a product using an LLM.
package content

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// ChatCompleter is the slice of the OpenAI client the generator needs.
// Tests substitute a canned implementation.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Request describes the product and the target marketplace.
type Request struct {
	ProductName string `json:"product_name"`
	Category    string `json:"category,omitempty"`
	Features    string `json:"features,omitempty"`
	Marketplace string `json:"marketplace"`
	Style       string `json:"style,omitempty"` // persuasivo, tecnico, casual
}

// Result is the generated listing copy.
type Result struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

// Generator builds prompts per marketplace and parses the model output.
type Generator struct {
	client ChatCompleter
	model  string
}

func NewGenerator(client ChatCompleter, model string) *Generator {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &Generator{client: client, model: model}
}

var marketplaceGuidance = map[string]string{
	"mercado_livre": "Title up to 60 characters, keyword-first, no promotional words like 'promoção' or 'frete grátis'. Description in plain text paragraphs, technical details first.",
	"shopee":        "Title up to 100 characters mixing keywords and benefits. Description short and scannable, emoji allowed, end with a call to action.",
}

func (g *Generator) Generate(ctx context.Context, req *Request) (*Result, error) {
	if req.ProductName == "" {
		return nil, fmt.Errorf("product name is required")
	}
	guidance, ok := marketplaceGuidance[req.Marketplace]
	if !ok {
		return nil, fmt.Errorf("unknown marketplace: %s", req.Marketplace)
	}

	style := req.Style
	if style == "" {
		style = "persuasivo"
	}

	system := fmt.Sprintf(`You write product listings for Brazilian e-commerce marketplaces, in Brazilian Portuguese.
Marketplace rules: %s
Writing style: %s.
Answer ONLY with a JSON object: {"title": string, "description": string, "tags": [string, ...]} with 5 to 10 tags.`, guidance, style)

	user := fmt.Sprintf("Product: %s", req.ProductName)
	if req.Category != "" {
		user += fmt.Sprintf("\nCategory: %s", req.Category)
	}
	if req.Features != "" {
		user += fmt.Sprintf("\nKey features: %s", req.Features)
	}

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("completion request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("completion returned no choices")
	}

	return parseResult(resp.Choices[0].Message.Content)
}

// parseResult tolerates models that wrap the JSON in a code fence.
func parseResult(raw string) (*Result, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")

	var result Result
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &result); err != nil {
		return nil, fmt.Errorf("failed to parse completion output: %w", err)
	}
	if result.Title == "" || result.Description == "" {
		return nil, fmt.Errorf("completion output missing title or description")
	}
	return &result, nil
}
