// Package categorizer classifies transactions through an ordered pipeline:
// 1. Split rules (contextual per-merchant splits)
// 2. Learned patterns from user recategorizations
// 3. Custom user rules, highest priority first
// 4. Built-in regex rules for known merchant signatures
// 5. Optional AI fallback using the Gemini model
// Anything left over is "uncategorized". Categorization is a pure function
// of the transaction and the rule sets; no stage mutates state.
package categorizer

import (
	"context"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"spendlens/internal/fuzzy"
	"spendlens/internal/logging"
	"spendlens/internal/models"
	"spendlens/internal/parsererror"
	"spendlens/internal/textutils"

	"github.com/shopspring/decimal"
)

// Stage identifies which pipeline stage produced a classification.
type Stage string

const (
	// StageSplitRule matched a split categorization rule.
	StageSplitRule Stage = "split-rule"
	// StageLearned matched a learned user pattern.
	StageLearned Stage = "learned-pattern"
	// StageCustomRule matched a custom user rule.
	StageCustomRule Stage = "custom-rule"
	// StageBuiltin matched a built-in merchant signature.
	StageBuiltin Stage = "builtin-rule"
	// StageAI was classified by the AI fallback.
	StageAI Stage = "ai-fallback"
	// StageFallback is the terminal uncategorized default.
	StageFallback Stage = "fallback"
)

// Thresholds used by the pipeline stages.
const (
	learnedMinConfidence     = 0.7
	learnedFuzzyConfidence   = 0.8
	learnedFuzzyThreshold    = 0.85
	customRuleFuzzyThreshold = 0.75
)

// Result describes a classification decision.
type Result struct {
	CategoryID string
	Stage      Stage
	RuleID     string
	Confidence float64
}

// Categorizer applies the classification pipeline. Rule sets are fixed at
// construction; rebuild the categorizer when the user edits rules.
type Categorizer struct {
	splitRules  []models.SplitCategorizationRule
	learned     []models.LearnedPattern
	customRules []models.CategorizationRule
	builtin     []compiledBuiltinRule
	matcher     *fuzzy.Matcher
	aiClient    AIClient
	logger      logging.Logger
}

// New creates a Categorizer over the given rule sets. aiClient may be nil,
// in which case the AI stage is skipped. A nil logger uses the default.
func New(splitRules []models.SplitCategorizationRule, learned []models.LearnedPattern,
	customRules []models.CategorizationRule, aiClient AIClient, logger logging.Logger) *Categorizer {
	if logger == nil {
		logger = logging.GetLogger()
	}

	// Descending priority; equal priorities order by creation time then id
	// so evaluation order is stable across reloads.
	sorted := make([]models.CategorizationRule, len(customRules))
	copy(sorted, customRules)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Priority != sorted[j].Priority {
			return sorted[i].Priority > sorted[j].Priority
		}
		if !sorted[i].CreatedAt.Equal(sorted[j].CreatedAt) {
			return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
		}
		return sorted[i].ID < sorted[j].ID
	})

	return &Categorizer{
		splitRules:  splitRules,
		learned:     learned,
		customRules: sorted,
		builtin:     compileBuiltinRules(logger),
		matcher:     fuzzy.NewMatcher(fuzzy.DefaultLevenshteinWeight, fuzzy.DefaultJaccardWeight),
		aiClient:    aiClient,
		logger:      logger,
	}
}

// Categorize runs the transaction through the pipeline and returns the
// first matching stage's decision. Invalid rule patterns are skipped; the
// pipeline never errors out to the caller.
func (c *Categorizer) Categorize(ctx context.Context, txn models.Transaction) Result {
	if result, ok := c.applySplitRules(txn); ok {
		return result
	}
	if result, ok := c.applyLearnedPatterns(txn); ok {
		return result
	}
	if result, ok := c.applyCustomRules(txn); ok {
		return result
	}
	if result, ok := c.applyBuiltinRules(txn); ok {
		return result
	}
	if result, ok := c.applyAIFallback(ctx, txn); ok {
		return result
	}
	return Result{CategoryID: models.CategoryUncategorized, Stage: StageFallback}
}

// CategorizeAll classifies a batch, writing the category back onto each
// transaction.
func (c *Categorizer) CategorizeAll(ctx context.Context, txns []models.Transaction) []models.Transaction {
	out := make([]models.Transaction, len(txns))
	for i, txn := range txns {
		result := c.Categorize(ctx, txn)
		txn.Category = result.CategoryID
		out[i] = txn
	}
	return out
}

//------------------------------------------------------------------------------
// STAGE 1: SPLIT RULES
//------------------------------------------------------------------------------

func (c *Categorizer) applySplitRules(txn models.Transaction) (Result, bool) {
	for _, rule := range c.splitRules {
		if !c.merchantPatternMatches(rule.MerchantPattern, rule.IsRegex, rule.ID, txn) {
			continue
		}
		// First satisfied condition wins; otherwise the rule default.
		for _, cond := range rule.Conditions {
			if c.conditionSatisfied(cond, txn) {
				return Result{CategoryID: cond.CategoryID, Stage: StageSplitRule, RuleID: rule.ID, Confidence: 1.0}, true
			}
		}
		return Result{CategoryID: rule.DefaultCategoryID, Stage: StageSplitRule, RuleID: rule.ID, Confidence: 1.0}, true
	}
	return Result{}, false
}

func (c *Categorizer) merchantPatternMatches(pattern string, isRegex bool, ruleID string, txn models.Transaction) bool {
	if pattern == "" {
		return false
	}
	if isRegex {
		re, err := regexp.Compile("(?i)" + pattern)
		if err != nil {
			c.logger.WithError(&parsererror.RuleError{RuleID: ruleID, Pattern: pattern, Err: err}).
				Warn("Skipping split rule with invalid regex")
			return false
		}
		return re.MatchString(txn.Description) || re.MatchString(txn.Merchant)
	}
	needle := strings.ToLower(pattern)
	return strings.Contains(strings.ToLower(txn.Description), needle) ||
		strings.Contains(strings.ToLower(txn.Merchant), needle)
}

func (c *Categorizer) conditionSatisfied(cond models.SplitCondition, txn models.Transaction) bool {
	switch cond.Field {
	case models.ConditionAmount:
		return amountSatisfies(cond, txn.Amount)
	case models.ConditionHourOfDay:
		return intSatisfies(cond, txn.PurchaseDate.Hour())
	case models.ConditionDayOfWeek:
		// time.Weekday already numbers Sunday as 0.
		return intSatisfies(cond, int(txn.PurchaseDate.Weekday()))
	case models.ConditionDescription:
		if cond.Operator == models.OpContains {
			return strings.Contains(strings.ToLower(txn.Description), strings.ToLower(cond.Value))
		}
		return false
	default:
		return false
	}
}

func amountSatisfies(cond models.SplitCondition, amount decimal.Decimal) bool {
	value, err := decimal.NewFromString(cond.Value)
	if err != nil {
		return false
	}
	switch cond.Operator {
	case models.OpGreaterThan:
		return amount.GreaterThan(value)
	case models.OpLessThan:
		return amount.LessThan(value)
	case models.OpEquals:
		return amount.Equal(value)
	case models.OpBetween:
		high, err := decimal.NewFromString(cond.ValueHigh)
		if err != nil {
			return false
		}
		return amount.GreaterThanOrEqual(value) && amount.LessThanOrEqual(high)
	default:
		return false
	}
}

func intSatisfies(cond models.SplitCondition, actual int) bool {
	value, err := strconv.Atoi(cond.Value)
	if err != nil {
		return false
	}
	switch cond.Operator {
	case models.OpGreaterThan:
		return actual > value
	case models.OpLessThan:
		return actual < value
	case models.OpEquals:
		return actual == value
	case models.OpBetween:
		high, err := strconv.Atoi(cond.ValueHigh)
		if err != nil {
			return false
		}
		return actual >= value && actual <= high
	default:
		return false
	}
}

//------------------------------------------------------------------------------
// STAGE 2: LEARNED PATTERNS
//------------------------------------------------------------------------------

func (c *Categorizer) applyLearnedPatterns(txn models.Transaction) (Result, bool) {
	merchant := txn.Merchant
	description := textutils.NormalizeMerchant(txn.Description)

	for _, pattern := range c.learned {
		if pattern.Confidence < learnedMinConfidence {
			continue
		}
		normPattern := textutils.NormalizeMerchant(pattern.MerchantPattern)
		if normPattern == "" {
			continue
		}
		if strings.Contains(merchant, normPattern) || strings.Contains(description, normPattern) {
			return Result{CategoryID: pattern.CategoryID, Stage: StageLearned, Confidence: pattern.Confidence}, true
		}
		// Well-established patterns also qualify by fuzzy match.
		if pattern.Confidence >= learnedFuzzyConfidence {
			if c.matcher.Similarity(pattern.MerchantPattern, txn.Merchant) >= learnedFuzzyThreshold ||
				c.matcher.Similarity(pattern.MerchantPattern, txn.Description) >= learnedFuzzyThreshold {
				return Result{CategoryID: pattern.CategoryID, Stage: StageLearned, Confidence: pattern.Confidence}, true
			}
		}
	}
	return Result{}, false
}

//------------------------------------------------------------------------------
// STAGE 3: CUSTOM RULES
//------------------------------------------------------------------------------

func (c *Categorizer) applyCustomRules(txn models.Transaction) (Result, bool) {
	for _, rule := range c.customRules {
		if !c.ruleAmountInRange(rule, txn.Amount) {
			continue
		}
		if c.ruleExcluded(rule, txn) {
			continue
		}
		if c.ruleMatches(rule, txn) {
			return Result{CategoryID: rule.CategoryID, Stage: StageCustomRule, RuleID: rule.ID, Confidence: 0.9}, true
		}
	}
	return Result{}, false
}

func (c *Categorizer) ruleAmountInRange(rule models.CategorizationRule, amount decimal.Decimal) bool {
	if rule.MinAmount != nil && amount.LessThan(*rule.MinAmount) {
		return false
	}
	if rule.MaxAmount != nil && amount.GreaterThan(*rule.MaxAmount) {
		return false
	}
	return true
}

func (c *Categorizer) ruleExcluded(rule models.CategorizationRule, txn models.Transaction) bool {
	for _, exclude := range rule.ExcludePatterns {
		text := txn.Description
		pattern := exclude
		if !rule.CaseSensitive {
			text = strings.ToLower(text)
			pattern = strings.ToLower(pattern)
		}
		if strings.Contains(text, pattern) {
			return true
		}
	}
	return false
}

func (c *Categorizer) ruleMatches(rule models.CategorizationRule, txn models.Transaction) bool {
	if rule.IsRegex {
		pattern := rule.Pattern
		if !rule.CaseSensitive && !strings.HasPrefix(pattern, "(?i)") {
			pattern = "(?i)" + pattern
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			c.logger.WithError(&parsererror.RuleError{RuleID: rule.ID, Pattern: rule.Pattern, Err: err}).
				Warn("Skipping custom rule with invalid regex")
			return false
		}
		return re.MatchString(txn.Description) || re.MatchString(txn.Merchant)
	}

	text := txn.Description
	pattern := rule.Pattern
	if !rule.CaseSensitive {
		text = strings.ToLower(text)
		pattern = strings.ToLower(pattern)
	}

	switch rule.MatchType {
	case models.MatchContains:
		return strings.Contains(text, pattern)
	case models.MatchStartsWith:
		return strings.HasPrefix(text, pattern)
	case models.MatchEndsWith:
		return strings.HasSuffix(text, pattern)
	case models.MatchExact:
		return text == pattern
	case models.MatchFuzzy:
		return c.matcher.Similarity(rule.Pattern, txn.Description) >= customRuleFuzzyThreshold ||
			c.matcher.Similarity(rule.Pattern, txn.Merchant) >= customRuleFuzzyThreshold
	default:
		return strings.Contains(text, pattern)
	}
}

//------------------------------------------------------------------------------
// STAGE 4: BUILT-IN RULES
//------------------------------------------------------------------------------

func (c *Categorizer) applyBuiltinRules(txn models.Transaction) (Result, bool) {
	searchText := strings.ToUpper(txn.Description + " " + txn.Merchant)
	for _, rule := range c.builtin {
		if rule.regex.MatchString(searchText) {
			return Result{CategoryID: rule.CategoryID, Stage: StageBuiltin, RuleID: rule.Name, Confidence: 0.85}, true
		}
	}
	return Result{}, false
}

//------------------------------------------------------------------------------
// STAGE 5: AI FALLBACK
//------------------------------------------------------------------------------

func (c *Categorizer) applyAIFallback(ctx context.Context, txn models.Transaction) (Result, bool) {
	if c.aiClient == nil {
		return Result{}, false
	}
	categoryID, err := c.aiClient.Categorize(ctx, txn)
	if err != nil {
		c.logger.WithError(err).
			WithField(logging.FieldMerchant, txn.Merchant).
			Warn("AI categorization failed, falling through")
		return Result{}, false
	}
	if categoryID == "" || categoryID == models.CategoryUncategorized {
		return Result{}, false
	}
	return Result{CategoryID: categoryID, Stage: StageAI, Confidence: 0.6}, true
}
