package chi

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/kailas-cloud/paperlens/internal/domain"
)

// errorMapping maps a domain sentinel onto an HTTP response.
// expose=true returns the full error text (validation messages), otherwise the sentinel text.
type errorMapping struct {
	sentinel error
	status   int
	code     ErrorCode
	expose   bool
}

var errorMappings = []errorMapping{
	{domain.ErrInvalidInput, http.StatusBadRequest, ErrorCodeValidationFailed, true},
	{domain.ErrPaperNotFound, http.StatusNotFound, ErrorCodePaperNotFound, false},
	{domain.ErrNotFound, http.StatusNotFound, ErrorCodeNotFound, false},
	{domain.ErrRateLimited, http.StatusTooManyRequests, ErrorCodeRateLimited, false},
	{domain.ErrCompletionQuotaExceeded, http.StatusPaymentRequired, ErrorCodeQuotaExceeded, false},
	{domain.ErrCompletionFailed, http.StatusBadGateway, ErrorCodeCompletionFailed, false},
	{context.DeadlineExceeded, http.StatusGatewayTimeout, ErrorCodeInternalError, false},
}

// classifyError returns the status, code and client-safe message for err.
func classifyError(err error) (int, ErrorCode, string) {
	for _, m := range errorMappings {
		if !errors.Is(err, m.sentinel) {
			continue
		}
		if m.expose {
			return m.status, m.code, err.Error()
		}
		return m.status, m.code, m.sentinel.Error()
	}
	return http.StatusInternalServerError, ErrorCodeInternalError, "internal error"
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	status, code, msg := classifyError(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("internal error", zap.Error(err))
	} else {
		s.logger.Warn("domain error", zap.Error(err))
	}
	writeError(w, status, code, msg)
}
