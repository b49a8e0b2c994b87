package settings

import "github.com/shopspring/decimal"

// A migration upgrades settings from version N to N+1. Steps are additive
// only: they introduce new fields with defaults and never discard user data.
type migration struct {
	from  int
	apply func(*Settings)
}

// migrations is the ordered chain applied on load. Keep entries strictly
// sequential by version.
var migrations = []migration{
	{
		// v1 -> v2: subscription analyzer tuning became configurable.
		from: 1,
		apply: func(s *Settings) {
			if s.Subscription.MinimumOccurrences == 0 {
				s.Subscription.MinimumOccurrences = 3
			}
			if s.Subscription.MaxAmountCV == 0 {
				s.Subscription.MaxAmountCV = 0.3
			}
			if s.Subscription.MinConfidence == 0 {
				s.Subscription.MinConfidence = 0.5
			}
		},
	},
	{
		// v2 -> v3: suggestion bounds and preferences were added.
		from: 2,
		apply: func(s *Settings) {
			if s.Suggestion.MaxResults == 0 {
				s.Suggestion.MaxResults = 3
			}
			if s.Suggestion.MinConfidence == 0 {
				s.Suggestion.MinConfidence = 0.3
			}
			if s.Preferences.Currency == "" {
				s.Preferences.Currency = "USD"
			}
		},
	},
}

// Migrate upgrades loaded settings to the current schema version by
// applying each step in sequence. Already-current settings pass through
// untouched.
func Migrate(s Settings) Settings {
	if s.Version <= 0 {
		s.Version = 1
	}
	for _, m := range migrations {
		if s.Version == m.from {
			m.apply(&s)
			s.Version = m.from + 1
		}
	}
	if s.Budgets == nil {
		s.Budgets = make(map[string]decimal.Decimal)
	}
	return s
}
