package model

import (
	"time"

	"institute-backend/internal/domain"
)

// Well-known plan identifiers. The catalog is closed: every purchasable plan
// must be enumerated, either here or via configuration.
const (
	PlanDailyPass   = "Daily Pass"
	PlanWeeklyPass  = "Weekly Pass"
	PlanMonthlyPass = "Monthly Pass"
)

// Plan is a static catalog entry: a named pass with a fixed price and a
// duration rule. Plans are configuration, not database rows.
type Plan struct {
	ID        string
	PriceINR  int64 // major units (rupees)
	AddDays   int
	AddMonths int
}

// Catalog maps plan identifiers to price and duration rule. Unknown
// identifiers are rejected; there is no fallback duration.
type Catalog struct {
	plans map[string]Plan
}

func NewCatalog(plans []Plan) *Catalog {
	m := make(map[string]Plan, len(plans))
	for _, p := range plans {
		m[p.ID] = p
	}
	return &Catalog{plans: m}
}

// DefaultCatalog returns the institute's standard pass tiers.
func DefaultCatalog() *Catalog {
	return NewCatalog([]Plan{
		{ID: PlanDailyPass, PriceINR: 100, AddDays: 1},
		{ID: PlanWeeklyPass, PriceINR: 300, AddDays: 7},
		{ID: PlanMonthlyPass, PriceINR: 1000, AddMonths: 1},
	})
}

// PriceOf returns the plan price in rupees.
func (c *Catalog) PriceOf(planID string) (int64, error) {
	p, ok := c.plans[planID]
	if !ok {
		return 0, domain.ErrInvalidPlan
	}
	return p.PriceINR, nil
}

// ExpiryRuleOf returns the full catalog entry for a plan.
func (c *Catalog) ExpiryRuleOf(planID string) (Plan, error) {
	p, ok := c.plans[planID]
	if !ok {
		return Plan{}, domain.ErrInvalidPlan
	}
	return p, nil
}

// ComputeExpiry applies the plan's duration rule to start. Month arithmetic
// clamps the day to the target month's last day, so Jan 31 plus one month
// lands on Feb 28/29 instead of rolling into March.
func (c *Catalog) ComputeExpiry(planID string, start time.Time) (time.Time, error) {
	p, ok := c.plans[planID]
	if !ok {
		return time.Time{}, domain.ErrInvalidPlan
	}
	out := start
	if p.AddMonths != 0 {
		out = addMonthsClamped(out, p.AddMonths)
	}
	if p.AddDays != 0 {
		out = out.AddDate(0, 0, p.AddDays)
	}
	return out, nil
}

func addMonthsClamped(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	target := time.Date(y, m+time.Month(months), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	if last := daysIn(target.Year(), target.Month()); d > last {
		d = last
	}
	return time.Date(target.Year(), target.Month(), d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func daysIn(year int, m time.Month) int {
	// day 0 of the next month is the last day of m
	return time.Date(year, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
