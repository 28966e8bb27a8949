package numbering

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/gestios/internal/clock"
	"github.com/stretchr/testify/assert"
)

type fakeStore struct {
	maxSeq int64
	codes  map[string]bool
	checks int
}

func (s *fakeStore) MaxSequence(ctx context.Context, orgID snowflake.ID) (int64, error) {
	return s.maxSeq, nil
}

func (s *fakeStore) CodeExists(ctx context.Context, orgID snowflake.ID, code string) (bool, error) {
	s.checks++
	return s.codes[code], nil
}

func newTestAllocator(store *fakeStore) *Allocator {
	return NewAllocator(store, clock.NewFakeClock(time.Date(2024, time.March, 7, 9, 5, 0, 0, time.UTC)))
}

func TestAllocate_FreshTenantStartsAtOne(t *testing.T) {
	store := &fakeStore{codes: map[string]bool{}}
	alloc := newTestAllocator(store)

	code, seq, err := alloc.Allocate(context.Background(), 1, &Config{
		StartingValue: 1,
		Tokens:        []Token{{Parameter: ParamNumber}},
	})

	assert.NoError(t, err)
	assert.Equal(t, int64(1), seq)
	assert.Equal(t, "1", code)
}

func TestAllocate_NilConfigSkipsExistenceChecks(t *testing.T) {
	store := &fakeStore{maxSeq: 6, codes: map[string]bool{"7": true}}
	alloc := newTestAllocator(store)

	code, seq, err := alloc.Allocate(context.Background(), 1, nil)

	assert.NoError(t, err)
	assert.Equal(t, int64(7), seq)
	assert.Equal(t, "7", code)
	assert.Zero(t, store.checks)
}

func TestAllocate_AdvancesPastCollisions(t *testing.T) {
	store := &fakeStore{
		maxSeq: 0,
		codes:  map[string]bool{"P-1": true, "P-2": true},
	}
	alloc := newTestAllocator(store)

	code, seq, err := alloc.Allocate(context.Background(), 1, &Config{
		StartingValue: 1,
		Tokens:        []Token{{Prefix: "P-", Parameter: ParamNumber}},
	})

	assert.NoError(t, err)
	assert.Equal(t, int64(3), seq)
	assert.Equal(t, "P-3", code)
}

func TestAllocate_StartingValueShiftsCodesNotSequence(t *testing.T) {
	store := &fakeStore{maxSeq: 2, codes: map[string]bool{}}
	alloc := newTestAllocator(store)

	code, seq, err := alloc.Allocate(context.Background(), 1, &Config{
		StartingValue: 500,
		Tokens:        []Token{{Parameter: ParamNumber}},
	})

	assert.NoError(t, err)
	assert.Equal(t, int64(3), seq)
	assert.Equal(t, "502", code)
}

// A static-only configuration formats every sequence to the same string,
// so the loop exhausts its attempts and hands back the colliding code.
// The unique index rejects the insert later.
func TestAllocate_StaticConfigExhaustsAttempts(t *testing.T) {
	store := &fakeStore{
		maxSeq: 0,
		codes:  map[string]bool{"FIXED": true},
	}
	alloc := newTestAllocator(store)

	code, _, err := alloc.Allocate(context.Background(), 1, &Config{
		StartingValue: 1,
		Tokens:        []Token{{Prefix: "FIXED"}},
	})

	assert.NoError(t, err)
	assert.Equal(t, "FIXED", code)
	assert.Equal(t, MaxAttempts, store.checks)
}
