package remix

import (
	"math/rand/v2"
)

// DefaultMaxProposals is how many windows a single draw may propose before it counts as failed
const DefaultMaxProposals = 32

// Rand is the randomness the selector needs. *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	Float64() float64
	Shuffle(n int, swap func(i, j int))
}

// NewSeededRand returns a reproducible random source
func NewSeededRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// NewRand returns a random source seeded from the process generator
func NewRand() *rand.Rand {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// Selector picks non-overlapping windows from randomly drawn assets
type Selector struct {
	rng          Rand
	maxProposals int
}

// SelectorOption is a functional option for configuring Selector
type SelectorOption func(*Selector)

// WithMaxProposals sets how many windows one draw may propose against an asset
func WithMaxProposals(n int) SelectorOption {
	return func(s *Selector) {
		if n > 0 {
			s.maxProposals = n
		}
	}
}

// NewSelector creates a selector. A nil rng uses an unseeded source.
func NewSelector(rng Rand, opts ...SelectorOption) *Selector {
	if rng == nil {
		rng = NewRand()
	}
	s := &Selector{
		rng:          rng,
		maxProposals: DefaultMaxProposals,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Select accumulates segments of exactly segmentLength seconds until targetTotal is
// reached or no asset can supply another window.
//
// Assets are drawn from a shuffled pool without replacement; an exhausted pool is
// refilled in a fresh order. A refill cycle with no acceptance ends the run and the
// partial plan is returned with Exhausted set. Saturated assets leave the pool early.
func (s *Selector) Select(assets []VideoAsset, segmentLength, targetTotal float64, ledger *Ledger) (*Plan, error) {
	if len(assets) == 0 {
		return nil, ErrNoAssets
	}
	if segmentLength <= 0 {
		return nil, ErrInvalidSegmentLength
	}
	if targetTotal <= 0 {
		return nil, ErrInvalidTargetDuration
	}
	if ledger == nil {
		return nil, ErrNilLedger
	}

	plan := &Plan{
		SegmentLength:  segmentLength,
		TargetDuration: targetTotal,
	}

	retired := make(map[string]bool)
	var pool []VideoAsset
	cycleAccepted := true

	for plan.AccumulatedDuration < targetTotal {
		if len(pool) == 0 {
			if !cycleAccepted {
				plan.Exhausted = true
				break
			}
			pool = s.refill(assets, retired)
			if len(pool) == 0 {
				plan.Exhausted = true
				break
			}
			cycleAccepted = false
		}

		asset := pool[len(pool)-1]
		pool = pool[:len(pool)-1]

		if !asset.CanHost(segmentLength) || !ledger.HasRoom(asset, segmentLength) {
			retired[asset.Path] = true
			continue
		}

		if s.draw(asset, plan, ledger) {
			cycleAccepted = true
		}
	}

	return plan, nil
}

// refill returns the assets still in play in a fresh random order
func (s *Selector) refill(assets []VideoAsset, retired map[string]bool) []VideoAsset {
	pool := make([]VideoAsset, 0, len(assets))
	for _, a := range assets {
		if !retired[a.Path] {
			pool = append(pool, a)
		}
	}
	s.rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	return pool
}

// draw proposes up to maxProposals uniform windows inside asset and accepts the first
// one that does not collide with the ledger.
func (s *Selector) draw(asset VideoAsset, plan *Plan, ledger *Ledger) bool {
	span := asset.Duration - plan.SegmentLength
	for attempt := 0; attempt < s.maxProposals; attempt++ {
		start := s.rng.Float64() * span
		end := start + plan.SegmentLength
		if end > asset.Duration {
			end = asset.Duration
			start = end - plan.SegmentLength
		}

		plan.Proposals++
		if ledger.Claimed(asset, start, end) {
			plan.Rejections++
			continue
		}
		if err := ledger.Commit(asset, start, end); err != nil {
			plan.Rejections++
			continue
		}

		plan.accept(Segment{Asset: asset, Start: start, End: end})
		return true
	}
	return false
}
