package categorizer

import (
	"regexp"
	"sort"

	"spendlens/internal/logging"
	"spendlens/internal/models"
	"spendlens/internal/parsererror"
)

// BuiltinRule maps a known merchant signature to a category. The table is
// declarative data so the rule set stays independently testable; higher
// priority rules are checked first.
type BuiltinRule struct {
	Name       string
	Pattern    string // Case-insensitive regex applied to description + merchant
	CategoryID string
	Priority   int
}

type compiledBuiltinRule struct {
	regex *regexp.Regexp
	BuiltinRule
}

// builtinRules is the fixed signature table. Entries with more specific
// signatures carry higher priority than generic keyword entries.
var builtinRules = []BuiltinRule{
	// Streaming and entertainment
	{Name: "netflix", Pattern: `NETFLIX`, CategoryID: models.CategoryEntertainment, Priority: 100},
	{Name: "spotify", Pattern: `SPOTIFY`, CategoryID: models.CategoryEntertainment, Priority: 100},
	{Name: "hulu", Pattern: `HULU`, CategoryID: models.CategoryEntertainment, Priority: 100},
	{Name: "disney-plus", Pattern: `DISNEY\s*(PLUS|\+)`, CategoryID: models.CategoryEntertainment, Priority: 100},
	{Name: "hbo", Pattern: `HBO\s*MAX|MAX\.COM`, CategoryID: models.CategoryEntertainment, Priority: 100},
	{Name: "youtube-premium", Pattern: `YOUTUBE\s*(PREMIUM|TV)`, CategoryID: models.CategoryEntertainment, Priority: 100},
	{Name: "cinema", Pattern: `CINEMA|AMC\b|CINEPLEX|REGAL`, CategoryID: models.CategoryEntertainment, Priority: 60},

	// Software and cloud subscriptions
	{Name: "icloud", Pattern: `APPLE\.COM/BILL|ICLOUD`, CategoryID: models.CategorySubscriptions, Priority: 95},
	{Name: "google-storage", Pattern: `GOOGLE\s*(ONE|STORAGE)`, CategoryID: models.CategorySubscriptions, Priority: 95},
	{Name: "openai", Pattern: `OPENAI|CHATGPT`, CategoryID: models.CategorySubscriptions, Priority: 95},
	{Name: "anthropic", Pattern: `ANTHROPIC|CLAUDE\.AI`, CategoryID: models.CategorySubscriptions, Priority: 95},
	{Name: "adobe", Pattern: `ADOBE`, CategoryID: models.CategorySubscriptions, Priority: 90},
	{Name: "dropbox", Pattern: `DROPBOX`, CategoryID: models.CategorySubscriptions, Priority: 90},

	// Groceries
	{Name: "whole-foods", Pattern: `WHOLE\s*FOODS|WHOLEFDS`, CategoryID: models.CategoryGroceries, Priority: 85},
	{Name: "trader-joes", Pattern: `TRADER\s*JOE`, CategoryID: models.CategoryGroceries, Priority: 85},
	{Name: "safeway", Pattern: `SAFEWAY`, CategoryID: models.CategoryGroceries, Priority: 85},
	{Name: "kroger", Pattern: `KROGER`, CategoryID: models.CategoryGroceries, Priority: 85},
	{Name: "aldi", Pattern: `ALDI\b`, CategoryID: models.CategoryGroceries, Priority: 85},
	{Name: "grocery-generic", Pattern: `GROCERY|SUPERMARKET|MARKET\s*BASKET`, CategoryID: models.CategoryGroceries, Priority: 40},

	// Restaurants and coffee
	{Name: "starbucks", Pattern: `STARBUCKS`, CategoryID: models.CategoryRestaurants, Priority: 85},
	{Name: "mcdonalds", Pattern: `MCDONALD`, CategoryID: models.CategoryRestaurants, Priority: 85},
	{Name: "chipotle", Pattern: `CHIPOTLE`, CategoryID: models.CategoryRestaurants, Priority: 85},
	{Name: "doordash", Pattern: `DOORDASH|GRUBHUB|UBER\s*EATS`, CategoryID: models.CategoryRestaurants, Priority: 85},
	{Name: "restaurant-generic", Pattern: `RESTAURANT|PIZZERIA|CAFE\b|COFFEE|DINER|SUSHI|TAQUERIA`, CategoryID: models.CategoryRestaurants, Priority: 40},

	// Transport
	{Name: "uber", Pattern: `UBER(?:\s|\*|$)`, CategoryID: models.CategoryTransport, Priority: 80},
	{Name: "lyft", Pattern: `LYFT`, CategoryID: models.CategoryTransport, Priority: 80},
	{Name: "gas-stations", Pattern: `SHELL\b|CHEVRON|EXXON|MOBIL\b|ARCO\b|76\s`, CategoryID: models.CategoryTransport, Priority: 70},
	{Name: "transit", Pattern: `TRANSIT|METRO\b|PARKING|TOLL`, CategoryID: models.CategoryTransport, Priority: 40},

	// Utilities and telecom
	{Name: "telecom", Pattern: `VERIZON|T-?MOBILE|AT&T|COMCAST|XFINITY`, CategoryID: models.CategoryUtilities, Priority: 80},
	{Name: "utility-generic", Pattern: `ELECTRIC|WATER\s*(BILL|DEPT|UTILITY)|GAS\s*COMPANY|INTERNET`, CategoryID: models.CategoryUtilities, Priority: 40},

	// Health
	{Name: "pharmacy", Pattern: `CVS\b|WALGREENS|RITE\s*AID|PHARMACY`, CategoryID: models.CategoryHealth, Priority: 75},
	{Name: "medical", Pattern: `MEDICAL|CLINIC|DENTAL|HOSPITAL`, CategoryID: models.CategoryHealth, Priority: 50},
	{Name: "gym", Pattern: `GYM\b|FITNESS|PLANET\s*FIT|CROSSFIT`, CategoryID: models.CategoryHealth, Priority: 60},

	// Shopping
	{Name: "amazon", Pattern: `AMAZON|AMZN`, CategoryID: models.CategoryShopping, Priority: 75},
	{Name: "target", Pattern: `TARGET\b`, CategoryID: models.CategoryShopping, Priority: 75},
	{Name: "walmart", Pattern: `WAL-?MART`, CategoryID: models.CategoryShopping, Priority: 75},
	{Name: "costco", Pattern: `COSTCO`, CategoryID: models.CategoryGroceries, Priority: 75},

	// Travel
	{Name: "airlines", Pattern: `AIRLINE|DELTA\s*AIR|UNITED\s*AIR|SOUTHWES|ALASKA\s*AIR|AIRBNB`, CategoryID: models.CategoryTravel, Priority: 70},
	{Name: "hotels", Pattern: `HOTEL|MARRIOTT|HILTON|HYATT`, CategoryID: models.CategoryTravel, Priority: 60},

	// Income and fees
	{Name: "payroll", Pattern: `PAYROLL|DIRECT\s*DEP|SALARY`, CategoryID: models.CategoryIncome, Priority: 70},
	{Name: "bank-fees", Pattern: `OVERDRAFT|MONTHLY\s*FEE|SERVICE\s*CHARGE|ATM\s*FEE|INTEREST\s*CHARGE`, CategoryID: models.CategoryFees, Priority: 70},

	// Housing
	{Name: "rent", Pattern: `\bRENT\b|PROPERTY\s*MGMT|MORTGAGE`, CategoryID: models.CategoryHousing, Priority: 70},
}

// compileBuiltinRules compiles the signature table, highest priority first.
// An entry that fails to compile is dropped and logged, matching the
// skip-bad-rules policy of the rest of the pipeline.
func compileBuiltinRules(logger logging.Logger) []compiledBuiltinRule {
	compiled := make([]compiledBuiltinRule, 0, len(builtinRules))
	for _, rule := range builtinRules {
		re, err := regexp.Compile("(?i)" + rule.Pattern)
		if err != nil {
			logger.WithError(&parsererror.RuleError{RuleID: rule.Name, Pattern: rule.Pattern, Err: err}).
				Warn("Skipping built-in rule with invalid regex")
			continue
		}
		compiled = append(compiled, compiledBuiltinRule{regex: re, BuiltinRule: rule})
	}

	sort.SliceStable(compiled, func(i, j int) bool {
		return compiled[i].Priority > compiled[j].Priority
	})
	return compiled
}
