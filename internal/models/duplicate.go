package models

// MatchTier grades how certain a duplicate pairing is.
type MatchTier string

const (
	// TierExact is a same-day, same-amount, identical-description pair.
	TierExact MatchTier = "exact"
	// TierLikely is a same-day, same-amount pair with very similar descriptions.
	TierLikely MatchTier = "likely"
	// TierPossible is a close pair that needs user review.
	TierPossible MatchTier = "possible"
)

// DuplicateCandidate pairs a newly parsed transaction with an existing or
// sibling transaction. Computed per import, never persisted.
type DuplicateCandidate struct {
	New        Transaction
	Existing   Transaction
	Tier       MatchTier
	Confidence float64
	// Legitimate marks same-day sibling pairs that are expected for known
	// subscription services (e.g. split recharges) rather than errors.
	Legitimate bool
}
