package categorizer

import (
	"context"

	"spendlens/internal/models"
)

// AIClient defines the interface for AI-based categorization services.
// The abstraction keeps the pipeline testable without external API calls
// and leaves room for other providers.
type AIClient interface {
	// Categorize returns a category id for the transaction, or an error if
	// the service call fails. An empty id means the model could not decide.
	Categorize(ctx context.Context, txn models.Transaction) (string, error)
}
