package evaluator

// Strategy tracks a search's current position on the tier ladder. A
// search starts at tier 0 and promotes to tier+1 when the evaluator's
// error at the current tier falls below that tier's ThresholdErr scaled
// by the number of tests in the battery.
type Strategy struct {
	tier int
}

// NewStrategy starts at tier 0.
func NewStrategy() *Strategy { return &Strategy{} }

// Tier returns the current rung.
func (s *Strategy) Tier() Tier { return Tiers[s.tier] }

// TierIndex returns the current rung's index, for logging/inspection.
func (s *Strategy) TierIndex() int { return s.tier }

// MaybePromote advances to the next tier if err clears the current
// tier's promotion threshold. It is a no-op at the final tier.
func (s *Strategy) MaybePromote(err float64, nTests int) bool {
	if s.tier >= len(Tiers)-1 {
		return false
	}
	if err < Tiers[s.tier].ThresholdErr*float64(nTests) {
		s.tier++
		return true
	}
	return false
}

// AtFinalTier reports whether the strategy has reached the last rung.
func (s *Strategy) AtFinalTier() bool { return s.tier == len(Tiers)-1 }

// SetTierAtLeast forces the strategy up to idx if it is currently below
// it, used by an annealing schedule waypoint that mandates a minimum
// tier regardless of measured error.
func (s *Strategy) SetTierAtLeast(idx int) {
	if idx >= len(Tiers) {
		idx = len(Tiers) - 1
	}
	if idx > s.tier {
		s.tier = idx
	}
}
