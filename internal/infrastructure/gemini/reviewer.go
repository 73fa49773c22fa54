// Package gemini asks a Gemini model to review a change list.
package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"google.golang.org/genai"

	domain "github.com/geritapp/gerit/internal/domain/review"
)

const DefaultModel = "gemini-2.5-pro"

var ErrEmptyResponse = errors.New("empty response from model")

type Reviewer struct {
	client *genai.Client
	model  string
}

func NewReviewer(ctx context.Context, apiKey, model string) (*Reviewer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &Reviewer{client: client, model: model}, nil
}

func (r *Reviewer) Review(ctx context.Context, change domain.ChangeList) (domain.AIReview, error) {
	resp, err := r.client.Models.GenerateContent(ctx, r.model, genai.Text(Prompt(change)), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   reviewSchema(),
	})
	if err != nil {
		return domain.AIReview{}, fmt.Errorf("generate content: %w", err)
	}
	return ParseReview(resp.Text())
}

// Prompt embeds the change subject, project and every file's content.
func Prompt(change domain.ChangeList) string {
	files := make([]string, 0, len(change.Files))
	for _, f := range change.Files {
		files = append(files, fmt.Sprintf("File: %s\nContent:\n%s", f.Path, f.Content))
	}

	var b strings.Builder
	b.WriteString("You are a world-class senior software architect. Analyze the following code change for:\n")
	b.WriteString("1. Overall summary of what the developer is trying to achieve.\n")
	b.WriteString("2. Potential bugs or edge cases.\n")
	b.WriteString("3. Security vulnerabilities.\n")
	b.WriteString("4. Code style or best practice improvements.\n\n")
	b.WriteString("Return the analysis strictly in JSON format matching the schema provided.\n\n")
	b.WriteString("Context:\n")
	fmt.Fprintf(&b, "Subject: %s\n", change.Subject)
	fmt.Fprintf(&b, "Project: %s\n", change.Project)
	b.WriteString("Files:\n")
	b.WriteString(strings.Join(files, "\n\n---\n\n"))
	return b.String()
}

type wireSuggestion struct {
	File     string   `json:"file"`
	Line     *float64 `json:"line"`
	Message  string   `json:"message"`
	Severity string   `json:"severity"`
}

type wireReview struct {
	Summary     string           `json:"summary"`
	Sentiment   string           `json:"overallSentiment"`
	Suggestions []wireSuggestion `json:"suggestions"`
}

// ParseReview decodes the model's JSON answer. Line numbers arrive as JSON
// numbers and are rounded to the nearest line.
func ParseReview(text string) (domain.AIReview, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.AIReview{}, ErrEmptyResponse
	}

	var w wireReview
	if err := json.Unmarshal([]byte(text), &w); err != nil {
		return domain.AIReview{}, fmt.Errorf("decode review: %w", err)
	}

	out := domain.AIReview{
		Summary:     w.Summary,
		Sentiment:   domain.Sentiment(w.Sentiment),
		Suggestions: make([]domain.Suggestion, 0, len(w.Suggestions)),
	}
	for _, s := range w.Suggestions {
		sg := domain.Suggestion{File: s.File, Message: s.Message, Severity: domain.Severity(s.Severity)}
		if s.Line != nil && *s.Line > 0 {
			line := int(math.Round(*s.Line))
			sg.Line = &line
		}
		out.Suggestions = append(out.Suggestions, sg)
	}
	return out.Normalize(), nil
}

func reviewSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"summary": {Type: genai.TypeString},
			"overallSentiment": {
				Type:        genai.TypeString,
				Description: "Must be POSITIVE, NEUTRAL, or NEGATIVE",
			},
			"suggestions": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"file":    {Type: genai.TypeString},
						"line":    {Type: genai.TypeNumber},
						"message": {Type: genai.TypeString},
						"severity": {
							Type:        genai.TypeString,
							Description: "LOW, MEDIUM, or HIGH",
						},
					},
					Required: []string{"file", "message", "severity"},
				},
			},
		},
		Required: []string{"summary", "overallSentiment", "suggestions"},
	}
}
