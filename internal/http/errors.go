package http

import (
	"errors"
	"net/http"

	"github.com/vbncursed/vkr/delegation-service/internal/http/dto"
	dsvc "github.com/vbncursed/vkr/delegation-service/internal/service"
)

// MapError переводит доменные/DTO ошибки в HTTP статус и тело APIError
func MapError(err error) (int, APIError) {
	switch {
	// DTO validation
	case errors.Is(err, dto.ErrAgentRequired):
		return http.StatusBadRequest, APIError{Code: "invalid_request", Message: "agent_id required"}
	case errors.Is(err, dto.ErrNamespaceRequired):
		return http.StatusBadRequest, APIError{Code: "invalid_request", Message: "namespace required"}
	case errors.Is(err, dto.ErrScopeInvalid):
		return http.StatusBadRequest, APIError{Code: "invalid_request", Message: err.Error()}
	case errors.Is(err, dto.ErrAmountRequired):
		return http.StatusBadRequest, APIError{Code: "invalid_request", Message: "amount must be positive"}
	case errors.Is(err, dto.ErrPeriodRequired):
		return http.StatusBadRequest, APIError{Code: "invalid_request", Message: "period must be daily, weekly or monthly"}
	case errors.Is(err, dto.ErrReasonRequired):
		return http.StatusBadRequest, APIError{Code: "invalid_request", Message: "reason required"}

	// Service errors
	case errors.Is(err, dsvc.ErrValidation):
		return http.StatusBadRequest, APIError{Code: "invalid_request", Message: "validation failed"}
	case errors.Is(err, dsvc.ErrNotFound):
		return http.StatusNotFound, APIError{Code: "not_found", Message: "delegation not found"}
	case errors.Is(err, dsvc.ErrUnauthorized):
		return http.StatusBadGateway, APIError{Code: "custody_unauthorized", Message: "custody platform rejected credentials"}
	case errors.Is(err, dsvc.ErrPlatformRejected):
		return http.StatusBadGateway, APIError{Code: "custody_rejected", Message: "custody platform rejected request"}
	case errors.Is(err, dsvc.ErrPlatformUnavailable):
		return http.StatusServiceUnavailable, APIError{Code: "custody_unavailable", Message: "custody platform unavailable"}
	}
	return http.StatusInternalServerError, APIError{Code: "internal", Message: "internal error"}
}
