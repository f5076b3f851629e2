package domain

import (
	"errors"
	"sort"
	"time"
)

// EarningTier applies to order values at or above MinOrderValue up to the
// next tier's MinOrderValue.
type EarningTier struct {
	MinOrderValue  float64 `json:"min_order_value"`
	BaseFee        float64 `json:"base_fee"`
	CommissionRate float64 `json:"commission_rate"`
}

type EarningSchedule struct {
	tiers []EarningTier
}

var ErrInvalidEarningSchedule = errors.New("earning schedule must start at 0 with increasing tiers")

func NewEarningSchedule(tiers []EarningTier) (EarningSchedule, error) {
	if len(tiers) == 0 {
		return EarningSchedule{}, ErrInvalidEarningSchedule
	}

	sorted := make([]EarningTier, len(tiers))
	copy(sorted, tiers)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].MinOrderValue < sorted[j].MinOrderValue })

	if sorted[0].MinOrderValue != 0 {
		return EarningSchedule{}, ErrInvalidEarningSchedule
	}
	for i := 1; i < len(sorted); i++ {
		if sorted[i].MinOrderValue == sorted[i-1].MinOrderValue {
			return EarningSchedule{}, ErrInvalidEarningSchedule
		}
	}
	for _, t := range sorted {
		if t.BaseFee < 0 || t.CommissionRate < 0 {
			return EarningSchedule{}, ErrInvalidEarningSchedule
		}
	}

	return EarningSchedule{tiers: sorted}, nil
}

func (s EarningSchedule) Tiers() []EarningTier {
	out := make([]EarningTier, len(s.tiers))
	copy(out, s.tiers)
	return out
}

var ErrNegativeOrderValue = errors.New("order value cannot be negative")

// Tier returns the tier an order value falls in.
func (s EarningSchedule) Tier(orderValue float64) (EarningTier, error) {
	if orderValue < 0 {
		return EarningTier{}, ErrNegativeOrderValue
	}
	if len(s.tiers) == 0 {
		return EarningTier{}, ErrInvalidEarningSchedule
	}

	tier := s.tiers[0]
	for _, t := range s.tiers {
		if orderValue >= t.MinOrderValue {
			tier = t
		}
	}
	return tier, nil
}

// Earning returns the agent earning for an order of the given value.
func (s EarningSchedule) Earning(orderValue float64) (float64, error) {
	tier, err := s.Tier(orderValue)
	if err != nil {
		return 0, err
	}
	return RoundMoney(tier.BaseFee + orderValue*tier.CommissionRate), nil
}

type Assignment struct {
	OrderID      uint    `json:"order_id"`
	AgentID      uint    `json:"agent_id"`
	DeliveryFee  float64 `json:"delivery_fee"`
	AgentEarning float64 `json:"agent_earning"`
}

type AssignmentReport struct {
	Examined    int          `json:"examined"`
	Assigned    int          `json:"assigned"`
	Skipped     int          `json:"skipped"`
	Assignments []Assignment `json:"assignments"`
}

type DailyEarning struct {
	Date       string  `json:"date"`
	Deliveries int     `json:"deliveries"`
	Earnings   float64 `json:"earnings"`
}

type AgentEarnings struct {
	AgentID          uint           `json:"agent_id"`
	From             time.Time      `json:"from"`
	To               time.Time      `json:"to"`
	DeliveredCount   int            `json:"delivered_count"`
	PeriodEarnings   float64        `json:"period_earnings"`
	LifetimeEarnings float64        `json:"lifetime_earnings"`
	Daily            []DailyEarning `json:"daily"`
}
