package categorizer

import (
	"context"
	"fmt"
	"strings"

	"spendlens/internal/logging"
	"spendlens/internal/models"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiClient implements AIClient against the Google Gemini API. The
// client is created lazily on first use so a categorizer can be built
// without network access when the AI stage never runs.
type GeminiClient struct {
	apiKey    string
	modelName string
	client    *genai.Client
	model     *genai.GenerativeModel
	logger    logging.Logger
}

// NewGeminiClient creates a Gemini-backed AI client. The model name
// defaults to gemini-2.0-flash when empty.
func NewGeminiClient(apiKey, modelName string, logger logging.Logger) *GeminiClient {
	if modelName == "" {
		modelName = "gemini-2.0-flash"
	}
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &GeminiClient{
		apiKey:    apiKey,
		modelName: modelName,
		logger:    logger,
	}
}

func (c *GeminiClient) ensureClient(ctx context.Context) error {
	if c.client != nil {
		return nil
	}
	if c.apiKey == "" {
		return fmt.Errorf("gemini api key not configured")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(c.apiKey))
	if err != nil {
		return fmt.Errorf("failed to create Gemini client: %w", err)
	}
	c.client = client
	c.model = client.GenerativeModel(c.modelName)
	return nil
}

// Categorize asks the model to pick one of the default category ids for
// the transaction.
func (c *GeminiClient) Categorize(ctx context.Context, txn models.Transaction) (string, error) {
	if err := c.ensureClient(ctx); err != nil {
		return "", err
	}

	ids := make([]string, 0)
	for _, cat := range models.DefaultCategories() {
		ids = append(ids, cat.ID)
	}

	prompt := fmt.Sprintf(
		"Classify this bank transaction into exactly one category id from the list.\n"+
			"Respond with only the category id.\n\n"+
			"Merchant: %s\nDescription: %s\nAmount: %s\n\nCategories: %s",
		txn.Merchant, txn.Description, txn.Amount.StringFixed(2), strings.Join(ids, ", "))

	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", nil
	}

	var answer strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			answer.WriteString(string(text))
		}
	}

	categoryID := strings.ToLower(strings.TrimSpace(answer.String()))
	for _, id := range ids {
		if categoryID == id {
			c.logger.WithFields(
				logging.Field{Key: logging.FieldMerchant, Value: txn.Merchant},
				logging.Field{Key: logging.FieldCategory, Value: categoryID},
			).Debug("Gemini categorized transaction")
			return categoryID, nil
		}
	}

	// Model answered outside the allowed set; treat as undecided.
	return "", nil
}

// Close releases the underlying API client.
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}
