// Package usage describes completion token usage reports.
package usage

// Period is the aggregation granularity.
type Period string

// Aggregation period constants.
const (
	PeriodDay   Period = "day"
	PeriodMonth Period = "month"
	PeriodTotal Period = "total"
)

// ParsePeriod maps a query value onto a Period. Empty selects PeriodMonth.
func ParsePeriod(s string) (Period, bool) {
	switch Period(s) {
	case "":
		return PeriodMonth, true
	case PeriodDay, PeriodMonth, PeriodTotal:
		return Period(s), true
	default:
		return "", false
	}
}

// Budget is a token budget snapshot.
type Budget struct {
	TokensLimit     int64 // 0 means unlimited
	TokensRemaining int64 // -1 means unlimited
	Exhausted       bool
	ResetsAt        int64 // unix millis, converted to ISO 8601 at transport layer
}

// Metrics is completion traffic for a period.
type Metrics struct {
	Requests int64
	Tokens   int64
}

// Report is a completion usage report for a time period.
type Report struct {
	period      Period
	periodStart int64
	periodEnd   int64
	metrics     Metrics
	budget      Budget
}

// NewReport creates a usage report.
func NewReport(period Period, start, end int64, m Metrics, b Budget) Report {
	return Report{period: period, periodStart: start, periodEnd: end, metrics: m, budget: b}
}

// Period returns the aggregation granularity.
func (r *Report) Period() Period { return r.period }

// PeriodStart returns the period start timestamp (unix millis, 0 for total).
func (r *Report) PeriodStart() int64 { return r.periodStart }

// PeriodEnd returns the period end timestamp (unix millis, 0 for total).
func (r *Report) PeriodEnd() int64 { return r.periodEnd }

// Metrics returns the usage metrics.
func (r *Report) Metrics() Metrics { return r.metrics }

// Budget returns the budget status.
func (r *Report) Budget() Budget { return r.budget }
