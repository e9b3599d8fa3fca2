package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/gdugdh24/creatorsync-backend/internal/domain"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const DefaultModel = "gemini-1.5-pro"

var ErrMissingAPIKey = errors.New("gemini api key is not set")

type GeminiClient struct {
	client   *genai.Client
	generate func(ctx context.Context, prompt string) (string, error)
}

func NewGeminiClient(ctx context.Context, apiKey, modelName string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if modelName == "" {
		modelName = DefaultModel
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(0.7)

	return &GeminiClient{
		client: client,
		generate: func(ctx context.Context, prompt string) (string, error) {
			resp, err := model.GenerateContent(ctx, genai.Text(prompt))
			if err != nil {
				return "", err
			}
			return responseText(resp)
		},
	}, nil
}

func (c *GeminiClient) Close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("no content generated")
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	return strings.TrimSpace(sb.String()), nil
}

func describeCreator(c *domain.CreatorProfile) string {
	return fmt.Sprintf("streams %q, content type %s, wants an editor for %q, preferred styles %v",
		c.WhatStream, c.ContentType, c.WantEditor, c.PreferredStyles)
}

func describeEditor(e *domain.EditorProfile) string {
	return fmt.Sprintf("bio %q, availability %q, content types %v, styles %v",
		e.Bio, e.Availability, e.TagsOfType(domain.TagTypeContentType), e.TagsOfType(domain.TagTypeStyle))
}

// GenerateMatchExplanation falls back to a canned sentence when the model is
// unreachable, so a match always gets an explanation.
func (c *GeminiClient) GenerateMatchExplanation(ctx context.Context, creator *domain.CreatorProfile, editor *domain.EditorProfile) (string, error) {
	prompt := fmt.Sprintf(`
		A streamer and a video editor just matched on a collaboration platform.
		Streamer: %s
		Editor: %s

		Task: Write a short, engaging explanation (1-2 sentences) of why they fit.
		Focus on overlapping content types and editing styles.
		Language: English.
		Output: Just the explanation text.
	`, describeCreator(creator), describeEditor(editor))

	text, err := c.generate(ctx, prompt)
	if err != nil || text == "" {
		return fallbackExplanation(creator, editor), nil
	}
	return text, nil
}

func fallbackExplanation(creator *domain.CreatorProfile, editor *domain.EditorProfile) string {
	shared := make([]string, 0)
	for _, style := range editor.TagsOfType(domain.TagTypeStyle) {
		for _, want := range creator.PreferredStyles {
			if style == want {
				shared = append(shared, style)
			}
		}
	}
	if len(shared) > 0 {
		return fmt.Sprintf("%s edits %s content in the %s style you are looking for.",
			editor.AnonymousName, creator.ContentType, strings.Join(shared, " and "))
	}
	return fmt.Sprintf("%s already edits %s content, a solid base for your channel.",
		editor.AnonymousName, creator.ContentType)
}

func (c *GeminiClient) GenerateIcebreakers(ctx context.Context, creator *domain.CreatorProfile, editor *domain.EditorProfile) ([]string, error) {
	prompt := fmt.Sprintf(`
		Generate 3 opening messages for a streamer who just matched with a video editor.
		Streamer: %s
		Editor: %s

		Task: Create 3 distinct opening lines the streamer could send to the editor.
		Focus on the kind of clips they could make together.
		Language: English.
		Output: JSON array of strings. Example: ["Hi...", "Hello..."]
	`, describeCreator(creator), describeEditor(editor))

	text, err := c.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return parseIcebreakers(text)
}

// parseIcebreakers accepts a JSON array, optionally fenced as markdown, and
// falls back to one icebreaker per non-bracket line.
func parseIcebreakers(text string) ([]string, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var icebreakers []string
	err := json.Unmarshal([]byte(text), &icebreakers)
	if err == nil {
		return icebreakers, nil
	}

	icebreakers = nil
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" && !strings.HasPrefix(line, "[") && !strings.HasSuffix(line, "]") {
			icebreakers = append(icebreakers, line)
		}
	}
	if len(icebreakers) == 0 {
		return nil, fmt.Errorf("failed to parse icebreakers: %w", err)
	}
	return icebreakers, nil
}
