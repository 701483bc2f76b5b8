package pricing

import (
	billing "theater-billing/internal/billing/domain"
)

// BaseVolumeCreditThreshold is the audience size above which every seat earns one credit.
const BaseVolumeCreditThreshold = 30

// base carries the (performance, play) pair and the default credit rule.
// Genre calculators embed it and shadow VolumeCredits when their rule differs.
type base struct {
	perf billing.Performance
	play billing.Play
}

func (b base) audience() int { return b.perf.Audience() }

// VolumeCredits returns max(audience - BaseVolumeCreditThreshold, 0).
func (b base) VolumeCredits() int {
	return max(b.audience()-BaseVolumeCreditThreshold, 0)
}

// seatsOver returns how many seats exceed threshold, never negative.
func seatsOver(audience, threshold int) int {
	return max(audience-threshold, 0)
}
