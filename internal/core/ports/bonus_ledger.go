package ports

import "context"

// BonusLedger records once-per-day bonus grants per trigger source.
type BonusLedger interface {
	// Claim returns true when the bonus for source had not yet been granted
	// on day, and records the grant.
	Claim(ctx context.Context, source, day string) (bool, error)
	// Release undoes a claim whose bonus could not be applied.
	Release(ctx context.Context, source, day string) error
}
