package dto

import (
	"errors"
	"strings"
)

var (
	ErrAgentRequired     = errors.New("agent_id required")
	ErrNamespaceRequired = errors.New("namespace required")
	ErrScopeInvalid      = errors.New("scope invalid")
	ErrAmountRequired    = errors.New("amount must be positive")
	ErrPeriodRequired    = errors.New("period must be daily, weekly or monthly")
	ErrReasonRequired    = errors.New("reason required")
)

// Validate проверяет инварианты CreateDelegationRequest
func (r CreateDelegationRequest) Validate() error {
	if strings.TrimSpace(r.AgentID) == "" {
		return ErrAgentRequired
	}
	if strings.TrimSpace(r.Namespace) == "" {
		return ErrNamespaceRequired
	}
	if err := r.Scope.Validate(); err != nil {
		return errors.Join(ErrScopeInvalid, err)
	}
	return nil
}

// Validate проверяет инварианты QuotaUpdateRequest
func (r QuotaUpdateRequest) Validate() error {
	if r.Amount == 0 {
		return ErrAmountRequired
	}
	switch r.Period {
	case "daily", "weekly", "monthly":
		return nil
	}
	return ErrPeriodRequired
}

// Validate проверяет инварианты EmergencyRevokeRequest
func (r EmergencyRevokeRequest) Validate() error {
	if strings.TrimSpace(r.Reason) == "" {
		return ErrReasonRequired
	}
	return nil
}
