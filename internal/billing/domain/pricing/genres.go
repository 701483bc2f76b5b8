package pricing

import (
	billing "theater-billing/internal/billing/domain"
)

// Amounts are in cents.
const (
	TragedyBaseAmount           = 40000
	TragedyAudienceThreshold    = 30
	TragedyOverThresholdPerSeat = 1000

	ComedyBaseAmount           = 30000
	ComedyAudienceThreshold    = 20
	ComedyOverThresholdAmount  = 10000
	ComedyOverThresholdPerSeat = 500
	ComedyAmountPerSeat        = 300
	ComedyExtraVolumeFactor    = 5

	HistoryBaseAmount            = 20000
	HistoryAudienceThreshold     = 20
	HistoryOverThresholdPerSeat  = 1000
	HistoryVolumeCreditThreshold = 20

	PastoralBaseAmount            = 40000
	PastoralAudienceThreshold     = 20
	PastoralOverThresholdPerSeat  = 2500
	PastoralVolumeCreditThreshold = 20
	PastoralExtraVolumeFactor     = 2
)

type tragedyCalculator struct{ base }

// NewTragedyCalculator prices a tragedy performance.
func NewTragedyCalculator(perf billing.Performance, play billing.Play) billing.PerformanceCalculator {
	return tragedyCalculator{base{perf: perf, play: play}}
}

func (c tragedyCalculator) Amount() int {
	return TragedyBaseAmount + TragedyOverThresholdPerSeat*seatsOver(c.audience(), TragedyAudienceThreshold)
}

type comedyCalculator struct{ base }

// NewComedyCalculator prices a comedy performance.
func NewComedyCalculator(perf billing.Performance, play billing.Play) billing.PerformanceCalculator {
	return comedyCalculator{base{perf: perf, play: play}}
}

func (c comedyCalculator) Amount() int {
	amount := ComedyBaseAmount + ComedyAmountPerSeat*c.audience()
	if c.audience() > ComedyAudienceThreshold {
		amount += ComedyOverThresholdAmount + ComedyOverThresholdPerSeat*seatsOver(c.audience(), ComedyAudienceThreshold)
	}
	return amount
}

// VolumeCredits adds one credit for every five comedy attendees.
func (c comedyCalculator) VolumeCredits() int {
	return c.base.VolumeCredits() + c.audience()/ComedyExtraVolumeFactor
}

type historyCalculator struct{ base }

// NewHistoryCalculator prices a history performance.
func NewHistoryCalculator(perf billing.Performance, play billing.Play) billing.PerformanceCalculator {
	return historyCalculator{base{perf: perf, play: play}}
}

func (c historyCalculator) Amount() int {
	return HistoryBaseAmount + HistoryOverThresholdPerSeat*seatsOver(c.audience(), HistoryAudienceThreshold)
}

func (c historyCalculator) VolumeCredits() int {
	return seatsOver(c.audience(), HistoryVolumeCreditThreshold)
}

type pastoralCalculator struct{ base }

// NewPastoralCalculator prices a pastoral performance.
func NewPastoralCalculator(perf billing.Performance, play billing.Play) billing.PerformanceCalculator {
	return pastoralCalculator{base{perf: perf, play: play}}
}

func (c pastoralCalculator) Amount() int {
	return PastoralBaseAmount + PastoralOverThresholdPerSeat*seatsOver(c.audience(), PastoralAudienceThreshold)
}

func (c pastoralCalculator) VolumeCredits() int {
	return seatsOver(c.audience(), PastoralVolumeCreditThreshold) + c.audience()/PastoralExtraVolumeFactor
}
