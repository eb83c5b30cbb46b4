// Package ledger is the financial collaborator seam. Provisioning only
// credits; debits and transfers belong to the wider finance system.
package ledger

import "context"

// Ledger tracks balances keyed by handle, not by actor: each alias carries
// an independent balance.
type Ledger interface {
	// Credit adds a non-negative amount to a handle's balance.
	Credit(ctx context.Context, handleID string, amount int) error
	// Balance returns the current balance; unknown handles read as zero.
	Balance(ctx context.Context, handleID string) (int, error)
}
