package numbering

import (
	"context"
	"strconv"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/gestios/internal/clock"
)

// MaxAttempts bounds the collision retry loop. A configuration whose
// tokens never include the number parameter formats every sequence to the
// same string; the loop then burns all attempts and returns the colliding
// code, leaving the unique index on (org_id, code) as the final backstop.
const MaxAttempts = 1000

// Store is the read-only view of the proposal set the allocator needs.
type Store interface {
	// MaxSequence returns the highest internal sequence already assigned
	// for the organization, or 0 when none exists.
	MaxSequence(ctx context.Context, orgID snowflake.ID) (int64, error)
	// CodeExists reports whether a proposal with the code already exists
	// for the organization.
	CodeExists(ctx context.Context, orgID snowflake.ID, code string) (bool, error)
}

// Allocator produces the next (code, sequence) pair for an organization.
//
// Allocation is a pure read: nothing is reserved. The caller persists the
// sequence on the created proposal to make it visible to future calls, and
// two concurrent callers may therefore allocate the same pair; the unique
// index rejects the second insert and the caller surfaces a retryable
// conflict.
type Allocator struct {
	store Store
	clock clock.Clock
}

func NewAllocator(store Store, clk clock.Clock) *Allocator {
	return &Allocator{store: store, clock: clk}
}

// Allocate returns the next proposal code and its backing sequence.
//
// With no configuration the code is the bare sequence and no existence
// check is performed. Otherwise the formatted code is checked against the
// store and the sequence advanced until a free code is found or
// MaxAttempts is exhausted, in which case the last (still colliding) code
// is returned best-effort.
func (a *Allocator) Allocate(ctx context.Context, orgID snowflake.ID, cfg *Config) (string, int64, error) {
	last, err := a.store.MaxSequence(ctx, orgID)
	if err != nil {
		return "", 0, err
	}
	seq := last + 1

	if cfg == nil {
		return strconv.FormatInt(seq, 10), seq, nil
	}

	now := a.clock.Now()
	code := Format(seq, cfg.StartingValue, cfg.Tokens, now)

	for attempts := 0; attempts < MaxAttempts; attempts++ {
		exists, err := a.store.CodeExists(ctx, orgID, code)
		if err != nil {
			return "", 0, err
		}
		if !exists {
			break
		}
		seq++
		code = Format(seq, cfg.StartingValue, cfg.Tokens, now)
	}

	return code, seq, nil
}
