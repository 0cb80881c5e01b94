package chi

import (
	"time"

	"github.com/kailas-cloud/paperlens/internal/domain"
	dombatch "github.com/kailas-cloud/paperlens/internal/domain/batch"
	dompaper "github.com/kailas-cloud/paperlens/internal/domain/paper"
	domusage "github.com/kailas-cloud/paperlens/internal/domain/usage"
	"github.com/kailas-cloud/paperlens/internal/embedding"
	paperuc "github.com/kailas-cloud/paperlens/internal/usecase/paper"
)

// ErrorCode is a machine-readable error code.
type ErrorCode string

// Error codes returned by the API.
const (
	ErrorCodeBadRequest       ErrorCode = "bad_request"
	ErrorCodeUnauthorized     ErrorCode = "unauthorized"
	ErrorCodeValidationFailed ErrorCode = "validation_failed"
	ErrorCodePaperNotFound    ErrorCode = "paper_not_found"
	ErrorCodeNotFound         ErrorCode = "not_found"
	ErrorCodeRateLimited      ErrorCode = "rate_limited"
	ErrorCodeQuotaExceeded    ErrorCode = "completion_quota_exceeded"
	ErrorCodeCompletionFailed ErrorCode = "completion_provider_error"
	ErrorCodePayloadTooLarge  ErrorCode = "payload_too_large"
	ErrorCodeInternalError    ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// PaperRequest is the ingest body for POST and PUT.
type PaperRequest struct {
	Title       string `json:"title,omitempty"`
	Text        string `json:"text"`
	ContentType string `json:"content_type,omitempty"`
}

// BatchItem is one element of a batch ingest.
type BatchItem struct {
	ID          string `json:"id,omitempty"`
	Title       string `json:"title,omitempty"`
	Text        string `json:"text"`
	ContentType string `json:"content_type,omitempty"`
}

// BatchRequest is the batch ingest body.
type BatchRequest struct {
	Items []BatchItem `json:"items"`
}

// AnalyzeRequest is the body of POST /analyze.
type AnalyzeRequest struct {
	Text        string `json:"text"`
	ContentType string `json:"content_type,omitempty"`
}

// SummaryResponse is the pipeline output.
type SummaryResponse struct {
	Summary        string    `json:"summary"`
	Methodology    string    `json:"methodology"`
	Findings       string    `json:"findings"`
	Limitations    string    `json:"limitations"`
	Keywords       []string  `json:"keywords"`
	SuggestedTags  []string  `json:"suggested_tags"`
	Source         string    `json:"source"`
	FallbackReason string    `json:"fallback_reason,omitempty"`
	Model          string    `json:"model,omitempty"`
	GeneratedAt    time.Time `json:"generated_at"`
}

// PaperResponse is a stored paper.
type PaperResponse struct {
	ID          string          `json:"id"`
	Collection  string          `json:"collection"`
	Title       string          `json:"title,omitempty"`
	Text        string          `json:"text"`
	ContentType string          `json:"content_type"`
	Summary     SummaryResponse `json:"summary"`
	Dimensions  int             `json:"dimensions"`
	Vector      []float32       `json:"vector,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// PaperListResponse lists paper ids in a collection.
type PaperListResponse struct {
	Items []string `json:"items"`
	Count int      `json:"count"`
}

// BatchResultItem is one per-item batch outcome.
type BatchResultItem struct {
	Index  int            `json:"index"`
	ID     string         `json:"id,omitempty"`
	Status string         `json:"status"`
	Error  *ErrorResponse `json:"error,omitempty"`
}

// BatchResponse is the batch ingest result.
type BatchResponse struct {
	Items     []BatchResultItem `json:"items"`
	Succeeded int               `json:"succeeded"`
	Failed    int               `json:"failed"`
}

// SimilarResponse lists papers similar to a target.
type SimilarResponse struct {
	ID    string            `json:"id"`
	Items []embedding.Match `json:"items"`
}

// AnalyzeResponse is the stateless pipeline output.
type AnalyzeResponse struct {
	Summary SummaryResponse `json:"summary"`
	Vector  []float32       `json:"vector"`
}

// UsageResponse is the completion usage report.
type UsageResponse struct {
	Period        string       `json:"period"`
	PeriodStartAt *time.Time   `json:"period_start_at,omitempty"`
	PeriodEndAt   *time.Time   `json:"period_end_at,omitempty"`
	Usage         UsageMetrics `json:"usage"`
	Budget        BudgetStatus `json:"budget"`
}

// UsageMetrics is completion traffic for the period.
type UsageMetrics struct {
	Requests int64 `json:"requests"`
	Tokens   int64 `json:"tokens"`
}

// BudgetStatus is the token budget snapshot.
type BudgetStatus struct {
	TokensLimit     int64      `json:"tokens_limit"`
	TokensRemaining int64      `json:"tokens_remaining"`
	IsExhausted     bool       `json:"is_exhausted"`
	ResetsAt        *time.Time `json:"resets_at,omitempty"`
}

// HealthResponse is the health check body.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func summaryToResponse(s *domain.Summary) SummaryResponse {
	return SummaryResponse{
		Summary:        s.Short,
		Methodology:    s.Methodology,
		Findings:       s.Findings,
		Limitations:    s.Limitations,
		Keywords:       nonNil(s.Keywords),
		SuggestedTags:  nonNil(s.SuggestedTags),
		Source:         string(s.Source),
		FallbackReason: s.FallbackReason,
		Model:          s.Model,
		GeneratedAt:    time.UnixMilli(s.GeneratedAt).UTC(),
	}
}

func paperToResponse(collection string, p *dompaper.Paper, includeVector bool) PaperResponse {
	s := p.Summary()
	resp := PaperResponse{
		ID:          p.ID(),
		Collection:  collection,
		Title:       p.Title(),
		Text:        p.Content(),
		ContentType: p.ContentType(),
		Summary:     summaryToResponse(&s),
		Dimensions:  len(p.Vector()),
		CreatedAt:   time.UnixMilli(p.CreatedAt()).UTC(),
		UpdatedAt:   time.UnixMilli(p.UpdatedAt()).UTC(),
	}
	if includeVector {
		resp.Vector = p.Vector()
	}
	return resp
}

func batchItemsToInput(items []BatchItem) []paperuc.NewPaper {
	out := make([]paperuc.NewPaper, len(items))
	for i, it := range items {
		out[i] = paperuc.NewPaper{ID: it.ID, Title: it.Title, Text: it.Text, ContentType: it.ContentType}
	}
	return out
}

func batchResultsToResponse(results []dombatch.Result) BatchResponse {
	resp := BatchResponse{Items: make([]BatchResultItem, len(results))}
	for i, r := range results {
		item := BatchResultItem{Index: r.Index(), ID: r.ID(), Status: string(r.Status())}
		if r.OK() {
			resp.Succeeded++
		} else {
			resp.Failed++
			_, code, msg := classifyError(r.Err())
			item.Error = &ErrorResponse{Code: code, Message: msg}
		}
		resp.Items[i] = item
	}
	return resp
}

func usageToResponse(report *domusage.Report) UsageResponse {
	b := report.Budget()
	m := report.Metrics()
	resp := UsageResponse{
		Period: string(report.Period()),
		Usage:  UsageMetrics{Requests: m.Requests, Tokens: m.Tokens},
		Budget: BudgetStatus{
			TokensLimit:     b.TokensLimit,
			TokensRemaining: b.TokensRemaining,
			IsExhausted:     b.Exhausted,
		},
	}
	if report.PeriodStart() > 0 {
		start := time.UnixMilli(report.PeriodStart()).UTC()
		end := time.UnixMilli(report.PeriodEnd()).UTC()
		resp.PeriodStartAt = &start
		resp.PeriodEndAt = &end
	}
	if b.ResetsAt > 0 {
		resetsAt := time.UnixMilli(b.ResetsAt).UTC()
		resp.Budget.ResetsAt = &resetsAt
	}
	return resp
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
