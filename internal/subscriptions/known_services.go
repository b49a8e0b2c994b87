// Package subscriptions detects recurring charges with two independent
// passes: a known-service pattern matcher and a statistical analyzer of
// charge intervals. Known-service results take precedence when merged.
package subscriptions

import (
	"regexp"

	"spendlens/internal/models"
)

// KnownService is a subscription provider with a hardcoded matching
// pattern and default billing assumptions.
type KnownService struct {
	ID         string                  `yaml:"id"`
	Name       string                  `yaml:"name"`
	Pattern    string                  `yaml:"pattern"` // Case-insensitive regex
	Frequency  models.BillingFrequency `yaml:"frequency"`
	CategoryID string                  `yaml:"categoryId"`
}

// knownServices is the built-in provider table. User-supplied services
// loaded from YAML are appended via the detector options.
var knownServices = []KnownService{
	{ID: "netflix", Name: "Netflix", Pattern: `NETFLIX`, Frequency: models.FrequencyMonthly, CategoryID: models.CategoryEntertainment},
	{ID: "spotify", Name: "Spotify", Pattern: `SPOTIFY`, Frequency: models.FrequencyMonthly, CategoryID: models.CategoryEntertainment},
	{ID: "hulu", Name: "Hulu", Pattern: `HULU`, Frequency: models.FrequencyMonthly, CategoryID: models.CategoryEntertainment},
	{ID: "disney-plus", Name: "Disney+", Pattern: `DISNEY\s*(PLUS|\+)`, Frequency: models.FrequencyMonthly, CategoryID: models.CategoryEntertainment},
	{ID: "hbo-max", Name: "Max", Pattern: `HBO\s*MAX|MAX\.COM`, Frequency: models.FrequencyMonthly, CategoryID: models.CategoryEntertainment},
	{ID: "youtube-premium", Name: "YouTube Premium", Pattern: `YOUTUBE\s*(PREMIUM|TV)`, Frequency: models.FrequencyMonthly, CategoryID: models.CategoryEntertainment},
	{ID: "amazon-prime", Name: "Amazon Prime", Pattern: `AMAZON\s*PRIME|AMZN\s*PRIME`, Frequency: models.FrequencyAnnual, CategoryID: models.CategorySubscriptions},
	{ID: "icloud", Name: "Apple iCloud", Pattern: `APPLE\.COM/BILL|ICLOUD`, Frequency: models.FrequencyMonthly, CategoryID: models.CategorySubscriptions},
	{ID: "google-one", Name: "Google One", Pattern: `GOOGLE\s*(ONE|STORAGE)`, Frequency: models.FrequencyMonthly, CategoryID: models.CategorySubscriptions},
	{ID: "openai", Name: "ChatGPT Plus", Pattern: `OPENAI|CHATGPT`, Frequency: models.FrequencyMonthly, CategoryID: models.CategorySubscriptions},
	{ID: "anthropic", Name: "Claude Pro", Pattern: `ANTHROPIC|CLAUDE\.AI`, Frequency: models.FrequencyMonthly, CategoryID: models.CategorySubscriptions},
	{ID: "adobe", Name: "Adobe Creative Cloud", Pattern: `ADOBE`, Frequency: models.FrequencyMonthly, CategoryID: models.CategorySubscriptions},
	{ID: "dropbox", Name: "Dropbox", Pattern: `DROPBOX`, Frequency: models.FrequencyMonthly, CategoryID: models.CategorySubscriptions},
	{ID: "audible", Name: "Audible", Pattern: `AUDIBLE`, Frequency: models.FrequencyMonthly, CategoryID: models.CategoryEntertainment},
	{ID: "nytimes", Name: "NYTimes", Pattern: `NYTIMES|NYT\b`, Frequency: models.FrequencyMonthly, CategoryID: models.CategorySubscriptions},
	{ID: "planet-fitness", Name: "Planet Fitness", Pattern: `PLANET\s*FIT`, Frequency: models.FrequencyMonthly, CategoryID: models.CategoryHealth},
}

type compiledService struct {
	regex *regexp.Regexp
	KnownService
}

var compiledServices = compileServices(knownServices)

func compileServices(services []KnownService) []compiledService {
	compiled := make([]compiledService, 0, len(services))
	for _, s := range services {
		re, err := regexp.Compile("(?i)" + s.Pattern)
		if err != nil {
			continue
		}
		compiled = append(compiled, compiledService{regex: re, KnownService: s})
	}
	return compiled
}

// MatchKnownService returns the service matching a transaction description,
// if any. Used by the detector and by duplicate detection to recognize
// legitimate same-day service recharges.
func MatchKnownService(description string) (KnownService, bool) {
	for _, s := range compiledServices {
		if s.regex.MatchString(description) {
			return s.KnownService, true
		}
	}
	return KnownService{}, false
}
