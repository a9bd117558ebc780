package types

import (
	"time"

	"github.com/shopspring/decimal"
)

type PlanInterval string

const (
	PlanIntervalDay   PlanInterval = "day"
	PlanIntervalWeek  PlanInterval = "week"
	PlanIntervalMonth PlanInterval = "month"
	PlanIntervalYear  PlanInterval = "year"
)

// Plan is a billing unit from the configured catalog. The billing core reads
// plans and never mutates them.
type Plan struct {
	ID            string          `json:"id" mapstructure:"id"`
	Name          string          `json:"name" mapstructure:"name"`
	Price         decimal.Decimal `json:"price" mapstructure:"price"`
	Currency      string          `json:"currency" mapstructure:"currency"`
	Interval      PlanInterval    `json:"interval" mapstructure:"interval"`
	IntervalCount int             `json:"interval_count" mapstructure:"interval_count"`
}

func (p *Plan) IsFree() bool {
	return p.Price.IsZero()
}

// CompatibleWith reports whether a proration between the two plans exists.
// Policy: only plans sharing the same billing interval can be switched mid-cycle.
func (p *Plan) CompatibleWith(other *Plan) bool {
	return other != nil && p.Interval == other.Interval && p.IntervalCount == other.IntervalCount
}

// PeriodEnd returns the end of one billing period starting at from.
func (p *Plan) PeriodEnd(from time.Time) time.Time {
	switch p.Interval {
	case PlanIntervalDay:
		return from.AddDate(0, 0, p.IntervalCount)
	case PlanIntervalWeek:
		return from.AddDate(0, 0, 7*p.IntervalCount)
	case PlanIntervalMonth:
		return from.AddDate(0, p.IntervalCount, 0)
	case PlanIntervalYear:
		return from.AddDate(p.IntervalCount, 0, 0)
	}
	return from
}

// PeriodStart returns the start of the billing period that ends at end.
func (p *Plan) PeriodStart(end time.Time) time.Time {
	switch p.Interval {
	case PlanIntervalDay:
		return end.AddDate(0, 0, -p.IntervalCount)
	case PlanIntervalWeek:
		return end.AddDate(0, 0, -7*p.IntervalCount)
	case PlanIntervalMonth:
		return end.AddDate(0, -p.IntervalCount, 0)
	case PlanIntervalYear:
		return end.AddDate(-p.IntervalCount, 0, 0)
	}
	return end
}

// DailyRate is the plan price spread over the billing period starting at from.
// Calendar months vary in length, so the rate depends on the period anchor.
func (p *Plan) DailyRate(from time.Time) decimal.Decimal {
	days := decimal.NewFromFloat(p.PeriodEnd(from).Sub(from).Hours() / 24)
	if days.IsZero() {
		return decimal.Zero
	}
	return p.Price.Div(days)
}
