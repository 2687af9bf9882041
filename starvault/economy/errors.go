package economy

import (
	"errors"
	"fmt"
	"time"

	"github.com/starvault/starvault/starvault/gacha"
	"github.com/starvault/starvault/starvault/ledger"
)

// Code classifies every failure a settlement can surface, for callers
// that map outcomes to user-facing messages or retry policies.
type Code string

const (
	CodeInsufficientFunds  Code = "insufficient_funds"
	CodePackNotFound       Code = "pack_not_found"
	CodeInsufficientPacks  Code = "insufficient_packs"
	CodeItemNotFound       Code = "item_not_found"
	CodeInvalidWeightTable Code = "invalid_weight_table"
	CodeNoEligibleCard     Code = "no_eligible_card"
	CodeGrantOnCooldown    Code = "grant_on_cooldown"
	CodeConflict           Code = "concurrent_modification_conflict"
	CodeStoreUnavailable   Code = "store_unavailable"
	CodeUnknown            Code = "unknown"
)

// PackNotFoundError reports a pack id with no available catalog entry.
type PackNotFoundError struct {
	PackID int64
}

func (e *PackNotFoundError) Error() string {
	return fmt.Sprintf("pack %d not found", e.PackID)
}

// InsufficientPacksError reports an open request exceeding the user's
// unopened instances of the pack type.
type InsufficientPacksError struct {
	UserID string
	PackID int64
	Have   int
	Want   int
}

func (e *InsufficientPacksError) Error() string {
	return fmt.Sprintf("insufficient packs: has %d unopened of pack %d, wants %d", e.Have, e.PackID, e.Want)
}

// GrantOnCooldownError reports a grant claimed before its cooldown ran
// out.
type GrantOnCooldownError struct {
	UserID string
	Kind   GrantKind
	Until  time.Time
}

func (e *GrantOnCooldownError) Error() string {
	return fmt.Sprintf("%s grant on cooldown until %s", e.Kind, e.Until.Format(time.RFC3339))
}

// CodeOf maps any settlement error onto its Code. Unrecognized errors
// classify as CodeUnknown.
func CodeOf(err error) Code {
	if err == nil {
		return ""
	}

	var (
		insufficientFunds *ledger.InsufficientFundsError
		notFound          *ledger.NotFoundError
		conflict          *ledger.ConflictError
		unavailable       *ledger.UnavailableError
		packNotFound      *PackNotFoundError
		insufficientPacks *InsufficientPacksError
		onCooldown        *GrantOnCooldownError
		invalidWeights    *gacha.InvalidWeightTableError
		noEligibleCard    *gacha.NoEligibleCardError
	)

	switch {
	case errors.As(err, &insufficientFunds):
		return CodeInsufficientFunds
	case errors.As(err, &packNotFound):
		return CodePackNotFound
	case errors.As(err, &insufficientPacks):
		return CodeInsufficientPacks
	case errors.As(err, &notFound):
		return CodeItemNotFound
	case errors.As(err, &onCooldown):
		return CodeGrantOnCooldown
	case errors.As(err, &invalidWeights):
		return CodeInvalidWeightTable
	case errors.As(err, &noEligibleCard):
		return CodeNoEligibleCard
	case errors.As(err, &conflict):
		return CodeConflict
	case errors.As(err, &unavailable):
		return CodeStoreUnavailable
	default:
		return CodeUnknown
	}
}
