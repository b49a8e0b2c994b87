// Package settings holds the user's persisted configuration: budgets,
// rules, learned patterns, category overrides and engine tuning. The whole
// thing round-trips as a single versioned JSON blob.
package settings

import (
	"spendlens/internal/models"

	"github.com/shopspring/decimal"
)

// CurrentVersion is the settings schema version this build writes.
const CurrentVersion = 3

// Settings is the complete persisted user state.
type Settings struct {
	Version           int                              `json:"version"`
	Budgets           map[string]decimal.Decimal       `json:"budgets"` // Category id -> monthly budget
	CustomRules       []models.CategorizationRule      `json:"customRules"`
	SplitRules        []models.SplitCategorizationRule `json:"splitRules"`
	LearnedPatterns   []models.LearnedPattern          `json:"learnedPatterns"`
	CustomCategories  []models.Category                `json:"customCategories"`
	CategoryOverrides []models.CategoryOverride        `json:"categoryOverrides"`
	Subscriptions     []models.Subscription            `json:"subscriptions"`
	Subscription      SubscriptionConfig               `json:"subscription"`
	Suggestion        SuggestionConfig                 `json:"suggestion"`
	Preferences       Preferences                      `json:"preferences"`
}

// SubscriptionConfig tunes the recurring-pattern analyzer.
type SubscriptionConfig struct {
	MinimumOccurrences int     `json:"minimumOccurrences"`
	MaxAmountCV        float64 `json:"maxAmountCv"`
	MinConfidence      float64 `json:"minConfidence"`
}

// SuggestionConfig bounds the suggestion engine's output.
type SuggestionConfig struct {
	MinConfidence float64 `json:"minConfidence"`
	MaxResults    int     `json:"maxResults"`
}

// Preferences holds display-oriented user options the engine carries but
// does not interpret.
type Preferences struct {
	Currency       string `json:"currency"`
	FirstDayOfWeek int    `json:"firstDayOfWeek"`
}

// Default returns factory settings at the current schema version.
func Default() Settings {
	return Settings{
		Version:         CurrentVersion,
		Budgets:         make(map[string]decimal.Decimal),
		CustomRules:     []models.CategorizationRule{},
		SplitRules:      []models.SplitCategorizationRule{},
		LearnedPatterns: []models.LearnedPattern{},
		Subscription: SubscriptionConfig{
			MinimumOccurrences: 3,
			MaxAmountCV:        0.3,
			MinConfidence:      0.5,
		},
		Suggestion: SuggestionConfig{
			MinConfidence: 0.3,
			MaxResults:    3,
		},
		Preferences: Preferences{
			Currency:       "USD",
			FirstDayOfWeek: 0,
		},
	}
}
