package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Client is a thin wrapper around the Gemini API for title cleanup and
// categorization. A nil client degrades gracefully: callers get empty
// results and no error.
type Client struct {
	model *genai.GenerativeModel
}

// Result is the structured output of one classification call.
type Result struct {
	CleanTitle   string `json:"clean_title"`
	CategorySlug string `json:"category_slug"`
}

// NewClient creates a Gemini client. An empty API key yields a nil
// client.
func NewClient(ctx context.Context, apiKey, modelID string) (*Client, error) {
	if apiKey == "" {
		return nil, nil
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	model := client.GenerativeModel(modelID)
	model.SetTemperature(0.1) // Low temperature for deterministic output
	model.ResponseMIMEType = "application/json"

	model.ResponseSchema = &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"clean_title": {
				Type:        genai.TypeString,
				Description: "A concise 5-15 word product title. Remove store names, prices, hype words and emoji.",
			},
			"category_slug": {
				Type:        genai.TypeString,
				Description: "One of: electronics, gaming, fashion, home-kitchen, beauty-health, grocery, books-media, toys-kids, sports-outdoors, automotive, other.",
			},
		},
		Required: []string{"clean_title", "category_slug"},
	}

	return &Client{model: model}, nil
}

// ClassifyTitle asks the model for a cleaned title and a category slug.
func (c *Client) ClassifyTitle(ctx context.Context, title, description string) (Result, error) {
	if c == nil || c.model == nil {
		return Result{}, nil
	}

	prompt := fmt.Sprintf(`
Analyze this deal:
Title: %q
Description: %q

Task:
1. Produce a clean, concise product title (5-15 words), without prices, store names or hype.
2. Assign exactly one category slug from the schema.

Output JSON adhering to the schema.
`, title, description)

	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return Result{}, fmt.Errorf("gemini generation failed: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return Result{}, fmt.Errorf("no response candidates from gemini")
	}

	for _, part := range resp.Candidates[0].Content.Parts {
		txt, ok := part.(genai.Text)
		if !ok {
			continue
		}

		// Clean up potential markdown fencing just in case
		jsonStr := strings.TrimSpace(string(txt))
		jsonStr = strings.TrimPrefix(jsonStr, "```json")
		jsonStr = strings.TrimPrefix(jsonStr, "```")
		jsonStr = strings.TrimSuffix(jsonStr, "```")

		var result Result
		if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
			return Result{}, fmt.Errorf("failed to parse gemini response: %w", err)
		}
		return result, nil
	}

	return Result{}, fmt.Errorf("no text part in response")
}
