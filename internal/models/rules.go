package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MatchType selects how a categorization rule pattern is applied.
type MatchType string

const (
	// MatchContains matches when the pattern appears anywhere in the text.
	MatchContains MatchType = "contains"
	// MatchStartsWith matches on a text prefix.
	MatchStartsWith MatchType = "startsWith"
	// MatchEndsWith matches on a text suffix.
	MatchEndsWith MatchType = "endsWith"
	// MatchExact matches the whole text.
	MatchExact MatchType = "exact"
	// MatchFuzzy matches via fuzzy similarity above a fixed threshold.
	MatchFuzzy MatchType = "fuzzy"
)

// CategorizationRule is a user-defined rule mapping a pattern to a category.
// Rules are evaluated in descending priority; equal priorities are ordered by
// creation time, then id, so evaluation order survives a reload.
type CategorizationRule struct {
	ID              string           `json:"id" yaml:"id"`
	Pattern         string           `json:"pattern" yaml:"pattern"`
	IsRegex         bool             `json:"isRegex" yaml:"isRegex"`
	MatchType       MatchType        `json:"matchType" yaml:"matchType"`
	CaseSensitive   bool             `json:"caseSensitive" yaml:"caseSensitive"`
	MinAmount       *decimal.Decimal `json:"minAmount,omitempty" yaml:"minAmount,omitempty"`
	MaxAmount       *decimal.Decimal `json:"maxAmount,omitempty" yaml:"maxAmount,omitempty"`
	ExcludePatterns []string         `json:"excludePatterns,omitempty" yaml:"excludePatterns,omitempty"`
	Priority        int              `json:"priority" yaml:"priority"` // Higher wins
	CategoryID      string           `json:"categoryId" yaml:"categoryId"`
	CreatedAt       time.Time        `json:"createdAt" yaml:"createdAt"`
}

// ConditionField names the transaction attribute a split condition inspects.
type ConditionField string

const (
	// ConditionAmount compares the transaction amount.
	ConditionAmount ConditionField = "amount"
	// ConditionHourOfDay compares the purchase hour (0-23).
	ConditionHourOfDay ConditionField = "hourOfDay"
	// ConditionDayOfWeek compares the purchase weekday (0=Sunday).
	ConditionDayOfWeek ConditionField = "dayOfWeek"
	// ConditionDescription tests description substring containment.
	ConditionDescription ConditionField = "description"
)

// ConditionOperator is the comparison applied by a split condition.
type ConditionOperator string

const (
	// OpGreaterThan matches values strictly above the threshold.
	OpGreaterThan ConditionOperator = "gt"
	// OpLessThan matches values strictly below the threshold.
	OpLessThan ConditionOperator = "lt"
	// OpEquals matches values equal to the threshold.
	OpEquals ConditionOperator = "eq"
	// OpBetween matches values within [Value, ValueHigh].
	OpBetween ConditionOperator = "between"
	// OpContains matches substring containment (description field only).
	OpContains ConditionOperator = "contains"
)

// SplitCondition is one (condition, category) pair of a split rule.
type SplitCondition struct {
	Field      ConditionField    `json:"field" yaml:"field"`
	Operator   ConditionOperator `json:"operator" yaml:"operator"`
	Value      string            `json:"value" yaml:"value"`
	ValueHigh  string            `json:"valueHigh,omitempty" yaml:"valueHigh,omitempty"`
	CategoryID string            `json:"categoryId" yaml:"categoryId"`
}

// SplitCategorizationRule splits a single merchant into different categories
// based on transaction context. Conditions are evaluated in declared order;
// the first satisfied condition wins, otherwise DefaultCategoryID applies.
type SplitCategorizationRule struct {
	ID                string           `json:"id" yaml:"id"`
	MerchantPattern   string           `json:"merchantPattern" yaml:"merchantPattern"`
	IsRegex           bool             `json:"isRegex" yaml:"isRegex"`
	Conditions        []SplitCondition `json:"conditions" yaml:"conditions"`
	DefaultCategoryID string           `json:"defaultCategoryId" yaml:"defaultCategoryId"`
}

// LearnedPattern is created when the user manually recategorizes a
// transaction. Confidence grows with repeated confirmation and decays when
// the user contradicts an established pattern.
type LearnedPattern struct {
	MerchantPattern string    `json:"merchantPattern" yaml:"merchantPattern"`
	CategoryID      string    `json:"categoryId" yaml:"categoryId"`
	Confidence      float64   `json:"confidence" yaml:"confidence"` // 0.0-1.0
	Occurrences     int       `json:"occurrences" yaml:"occurrences"`
	LastUsed        time.Time `json:"lastUsed" yaml:"lastUsed"`
}
