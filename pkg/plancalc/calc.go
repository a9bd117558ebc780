// Package plancalc computes proration for mid-cycle plan changes. It is a pure
// function of the subscription snapshot and the target plan so callers can quote
// a change speculatively before committing anything.
package plancalc

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fernpay/cashier/pkg/types"
)

// ErrIncompatiblePlan is returned when no valid proration exists between the
// current and the target plan (different billing intervals).
var ErrIncompatiblePlan = errors.New("plans have incompatible billing intervals")

// ChangePlanQuote is the outcome of a proration: the amount due now, the credit
// granted for the unused remainder of the current period, and the period end the
// subscription will have once the change settles.
type ChangePlanQuote struct {
	Amount decimal.Decimal `json:"amount"`
	Credit decimal.Decimal `json:"credit"`
	EndsAt time.Time       `json:"ends_at"`
}

// CalcChangePlan quotes switching a subscription from current to target at now.
// currentPeriodEndsAt is the end of the period already paid for.
//
// The unused fraction of the current period is credited against the target
// plan's price; the amount due is floored at zero. The new period end is derived
// from the target plan's daily rate: a partial payment buys a proportionally
// shorter period, surplus credit a proportionally longer one.
func CalcChangePlan(currentPeriodEndsAt time.Time, current, target *types.Plan, now time.Time) (*ChangePlanQuote, error) {
	if current == nil || target == nil {
		return nil, fmt.Errorf("nil plan")
	}
	if !current.CompatibleWith(target) {
		return nil, fmt.Errorf("%s to %s: %w", current.ID, target.ID, ErrIncompatiblePlan)
	}

	credit := remainingValue(currentPeriodEndsAt, current, now)
	amount := target.Price.Sub(credit)
	if amount.IsNegative() {
		amount = decimal.Zero
	}

	var endsAt time.Time
	switch {
	case target.IsFree():
		endsAt = target.PeriodEnd(now)
	case amount.GreaterThanOrEqual(target.Price):
		// no credit left, a plain full period
		amount = target.Price
		endsAt = target.PeriodEnd(now)
	case amount.IsZero():
		// surplus credit buys days at the target plan's rate
		endsAt = addDays(now, credit.Div(target.DailyRate(now)))
	default:
		endsAt = addDays(now, amount.Div(target.DailyRate(now)))
	}

	return &ChangePlanQuote{
		Amount: amount.Round(2),
		Credit: credit.Round(2),
		EndsAt: endsAt,
	}, nil
}

// remainingValue is the monetary value of the unused part of the current period.
func remainingValue(periodEndsAt time.Time, plan *types.Plan, now time.Time) decimal.Decimal {
	remaining := periodEndsAt.Sub(now)
	if remaining <= 0 {
		return decimal.Zero
	}
	full := periodEndsAt.Sub(plan.PeriodStart(periodEndsAt))
	if full <= 0 {
		return decimal.Zero
	}
	if remaining > full {
		remaining = full
	}
	fraction := decimal.NewFromFloat(remaining.Hours()).Div(decimal.NewFromFloat(full.Hours()))
	return plan.Price.Mul(fraction)
}

func addDays(t time.Time, days decimal.Decimal) time.Time {
	return t.Add(time.Duration(days.InexactFloat64() * float64(24*time.Hour)))
}
