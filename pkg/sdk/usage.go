package paperlens

import (
	"context"
	"time"

	domusage "github.com/kailas-cloud/paperlens/internal/domain/usage"
)

// UsagePeriod is the aggregation granularity for usage reports.
type UsagePeriod string

// UsagePeriod constants.
const (
	PeriodDay   UsagePeriod = "day"
	PeriodMonth UsagePeriod = "month"
	PeriodTotal UsagePeriod = "total"
)

// UsageReport contains completer usage for a period.
// PeriodStart, PeriodEnd and Budget.ResetsAt are zero for PeriodTotal.
type UsageReport struct {
	Period      UsagePeriod
	PeriodStart time.Time
	PeriodEnd   time.Time
	Requests    int64
	Tokens      int64
	Budget      BudgetStatus
}

// BudgetStatus tracks token quota state. TokensRemaining is -1 when unlimited.
type BudgetStatus struct {
	TokensLimit     int64
	TokensRemaining int64
	IsExhausted     bool
	ResetsAt        time.Time
}

// Usage returns a completer usage report for the given period.
// Observer always records success: the report is built in memory.
func (c *Client) Usage(ctx context.Context, period UsagePeriod) UsageReport {
	start := time.Now()
	defer func() { c.obs.observe("usage", start, nil) }()

	report := c.usageSvc.GetReport(ctx, domusage.Period(period))
	m := report.Metrics()
	b := report.Budget()

	return UsageReport{
		Period:      UsagePeriod(report.Period()),
		PeriodStart: millisToTime(report.PeriodStart()),
		PeriodEnd:   millisToTime(report.PeriodEnd()),
		Requests:    m.Requests,
		Tokens:      m.Tokens,
		Budget: BudgetStatus{
			TokensLimit:     b.TokensLimit,
			TokensRemaining: b.TokensRemaining,
			IsExhausted:     b.Exhausted,
			ResetsAt:        millisToTime(b.ResetsAt),
		},
	}
}

func millisToTime(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}
