package http

import (
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/vbncursed/vkr/delegation-service/internal/http/dto"
	"github.com/vbncursed/vkr/delegation-service/internal/models"
	dsvc "github.com/vbncursed/vkr/delegation-service/internal/service"
	"github.com/vbncursed/vkr/delegation-service/internal/util"
)

// CreateDelegation — обработка запроса на делегирование
// @Summary     Запрос на делегирование подписи
// @Tags        delegations
// @Accept      json
// @Produce     json
// @Param       request body dto.CreateDelegationRequest true "Delegation request"
// @Success     201 {object} dto.CreateDelegationResponse
// @Success     200 {object} dto.CreateDelegationResponse "запрос отклонён с причиной"
// @Failure     400 {object} APIError
// @Router      /delegations [post]
func CreateDelegation(svc *dsvc.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req dto.CreateDelegationRequest
		if err := c.Bind(&req); err != nil {
			return writeJSON(c, http.StatusBadRequest, APIError{Code: "invalid_request", Message: "malformed"})
		}
		if err := req.Validate(); err != nil {
			status, body := MapError(err)
			return writeJSON(c, status, body)
		}

		res, err := svc.ProcessDelegationRequest(c.Request().Context(), req.ToCommand())
		if err != nil {
			status, body := MapError(err)
			return writeJSON(c, status, body)
		}

		log.Printf("delegation request %s: agent=%s status=%s", res.RequestID, util.AgentHint(req.AgentID), res.Status)
		status := http.StatusOK
		if res.Status == models.RequestApproved {
			status = http.StatusCreated
		}
		return writeJSON(c, status, dto.FromProcessResult(res))
	}
}

// RevokeDelegation — отзыв делегирования
// @Summary     Отзыв делегирования
// @Tags        delegations
// @Accept      json
// @Produce     json
// @Param       id      path string            true  "Delegation ID"
// @Param       request body dto.RevokeRequest false "Reason"
// @Success     200 {object} dto.RevokeResponse
// @Failure     404 {object} APIError
// @Router      /delegations/{id}/revoke [post]
func RevokeDelegation(svc *dsvc.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		id := strings.TrimSpace(c.Param("id"))
		if id == "" {
			return writeJSON(c, http.StatusBadRequest, APIError{Code: "invalid_request", Message: "id"})
		}
		// тело необязательно
		var req dto.RevokeRequest
		_ = c.Bind(&req)
		if req.Reason == "" {
			req.Reason = "manual revoke"
		}

		ok, err := svc.RevokeDelegation(c.Request().Context(), id, "", req.Reason)
		if err != nil {
			status, body := MapError(err)
			return writeJSON(c, status, body)
		}
		if !ok {
			return writeJSON(c, http.StatusNotFound, APIError{Code: "not_found", Message: "delegation not found"})
		}
		return writeJSON(c, http.StatusOK, dto.RevokeResponse{ID: id, Revoked: true})
	}
}

// EmergencyRevoke — аварийный отзыв всех делегирований
// @Summary     Аварийный отзыв всех делегирований
// @Tags        delegations
// @Accept      json
// @Produce     json
// @Param       request body dto.EmergencyRevokeRequest true "Reason"
// @Success     200 {object} dto.EmergencyRevokeResponse
// @Failure     400 {object} APIError
// @Router      /delegations/emergency-revoke [post]
func EmergencyRevoke(svc *dsvc.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req dto.EmergencyRevokeRequest
		if err := c.Bind(&req); err != nil {
			return writeJSON(c, http.StatusBadRequest, APIError{Code: "invalid_request", Message: "malformed"})
		}
		if err := req.Validate(); err != nil {
			status, body := MapError(err)
			return writeJSON(c, status, body)
		}

		sum, err := svc.EmergencyRevokeAll(c.Request().Context(), req.Namespace, req.UserID, req.Reason)
		if err != nil {
			status, body := MapError(err)
			return writeJSON(c, status, body)
		}
		return writeJSON(c, http.StatusOK, dto.FromRevokeSummary(sum))
	}
}

// UpdateQuota — учёт израсходованной квоты после подписанной транзакции
// @Summary     Прибавить расход к счётчику квоты
// @Tags        quota
// @Accept      json
// @Produce     json
// @Param       id      path string                 true "Delegation ID"
// @Param       request body dto.QuotaUpdateRequest true "Usage"
// @Success     200 {object} dto.QuotaUpdateResponse
// @Failure     404 {object} APIError
// @Router      /delegations/{id}/quota [post]
func UpdateQuota(svc *dsvc.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		id := strings.TrimSpace(c.Param("id"))
		if id == "" {
			return writeJSON(c, http.StatusBadRequest, APIError{Code: "invalid_request", Message: "id"})
		}
		var req dto.QuotaUpdateRequest
		if err := c.Bind(&req); err != nil {
			return writeJSON(c, http.StatusBadRequest, APIError{Code: "invalid_request", Message: "malformed"})
		}
		if err := req.Validate(); err != nil {
			status, body := MapError(err)
			return writeJSON(c, status, body)
		}

		ok, err := svc.UpdateQuotaUsage(c.Request().Context(), id, req.Amount, models.QuotaPeriod(req.Period))
		if err != nil {
			status, body := MapError(err)
			return writeJSON(c, status, body)
		}
		if !ok {
			return writeJSON(c, http.StatusNotFound, APIError{Code: "not_found", Message: "delegation not found"})
		}
		return writeJSON(c, http.StatusOK, dto.QuotaUpdateResponse{ID: id, Updated: true})
	}
}

// CheckQuota — проверка превышения квоты против лимитов из запроса
// @Summary     Проверка квоты
// @Tags        quota
// @Produce     json
// @Param       id      path  string true  "Delegation ID"
// @Param       daily   query int    true  "Daily limit"
// @Param       weekly  query int    true  "Weekly limit"
// @Param       monthly query int    false "Monthly limit"
// @Success     200 {object} dto.QuotaCheckResponse
// @Router      /delegations/{id}/quota [get]
func CheckQuota(svc *dsvc.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		id := strings.TrimSpace(c.Param("id"))
		if id == "" {
			return writeJSON(c, http.StatusBadRequest, APIError{Code: "invalid_request", Message: "id"})
		}
		limits := models.Limits{
			Daily:   queryUint(c, "daily"),
			Weekly:  queryUint(c, "weekly"),
			Monthly: queryUint(c, "monthly"),
		}

		exceeded := svc.IsQuotaExceeded(c.Request().Context(), id, limits)
		return writeJSON(c, http.StatusOK, dto.QuotaCheckResponse{ID: id, Exceeded: exceeded})
	}
}

// ListDelegations — активные делегирования
// @Summary     Список активных делегирований
// @Tags        delegations
// @Produce     json
// @Param       namespace query string false "Namespace filter"
// @Success     200 {object} dto.DelegationListResponse
// @Router      /delegations [get]
func ListDelegations(svc *dsvc.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		ds, err := svc.GetActiveDelegations(c.Request().Context(), c.QueryParam("namespace"))
		if err != nil {
			status, body := MapError(err)
			return writeJSON(c, status, body)
		}
		return writeJSON(c, http.StatusOK, dto.FromDelegations(ds))
	}
}

func queryUint(c echo.Context, name string) uint64 {
	v, err := strconv.ParseUint(c.QueryParam(name), 10, 64)
	if err != nil {
		return 0
	}
	return v
}
