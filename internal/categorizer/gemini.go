package categorizer

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"fjacquet/ledger-csv/internal/models"
)

// GeminiClient is an AIClient backed by the Gemini API. The underlying
// client is created lazily on first use so that construction never needs
// network access.
type GeminiClient struct {
	apiKey    string
	modelName string

	mu     sync.Mutex
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGeminiClient creates a lazy Gemini-backed categorizer client.
func NewGeminiClient(apiKey, modelName string) *GeminiClient {
	return &GeminiClient{apiKey: apiKey, modelName: modelName}
}

func (g *GeminiClient) ensureClient(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.client != nil {
		return nil
	}
	if g.apiKey == "" {
		return fmt.Errorf("gemini API key not set")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(g.apiKey))
	if err != nil {
		return fmt.Errorf("creating gemini client: %w", err)
	}
	g.client = client
	g.model = client.GenerativeModel(g.modelName)
	return nil
}

// SuggestCategory asks Gemini for exactly one category from the closed set.
func (g *GeminiClient) SuggestCategory(ctx context.Context, description string) (string, error) {
	if err := g.ensureClient(ctx); err != nil {
		return "", err
	}

	prompt := fmt.Sprintf(`Categorize the following bank transaction description:
%s

Assign it to exactly one of the following categories:
%s

Respond in this format:
Category: [selected category]`,
		description,
		strings.Join(models.Categories, ", "))

	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini API error: %w", err)
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response from gemini API")
	}

	responseText := fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0])
	return extractCategory(responseText)
}

// Close releases the underlying API client.
func (g *GeminiClient) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.client == nil {
		return nil
	}
	err := g.client.Close()
	g.client = nil
	g.model = nil
	return err
}

// extractCategory parses the model response and clamps the answer to the
// closed category set.
func extractCategory(response string) (string, error) {
	var name string
	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "Category:") {
			name = strings.TrimSpace(strings.TrimPrefix(line, "Category:"))
			break
		}
	}
	if name == "" {
		// Fall back to scanning the whole response for a known category.
		lowered := strings.ToLower(response)
		for _, category := range models.Categories {
			if strings.Contains(lowered, category) {
				return category, nil
			}
		}
		return "", fmt.Errorf("no category in gemini response")
	}

	name = strings.ToLower(strings.Trim(name, "[]"))
	if !models.IsValidCategory(name) {
		return "", fmt.Errorf("gemini suggested unknown category %q", name)
	}
	return name, nil
}
