package dto

import (
	"github.com/vbncursed/vkr/delegation-service/internal/models"
	dsvc "github.com/vbncursed/vkr/delegation-service/internal/service"
)

// ToCommand преобразует CreateDelegationRequest в команду use case
func (r CreateDelegationRequest) ToCommand() dsvc.ProcessRequestCommand {
	return dsvc.ProcessRequestCommand{
		AgentID:        r.AgentID,
		UserID:         r.UserID,
		Namespace:      r.Namespace,
		Scope:          r.Scope,
		TradingAddress: r.TradingAddress,
		StorageAddress: r.StorageAddress,
	}
}

// FromProcessResult формирует ответ по решению use case
func FromProcessResult(res dsvc.ProcessRequestResult) CreateDelegationResponse {
	out := CreateDelegationResponse{
		RequestID: res.RequestID,
		Status:    string(res.Status),
		Reason:    res.Reason,
	}
	if res.Status == models.RequestApproved {
		out.DelegationID = res.DelegationID
		out.PolicyID = res.PolicyID
		out.SigningPublicKey = res.SigningPublicKey
		exp := res.ExpiresAt
		out.ExpiresAt = &exp
	}
	return out
}

// FromRevokeSummary — ответ аварийного отзыва
func FromRevokeSummary(sum dsvc.RevokeSummary) EmergencyRevokeResponse {
	return EmergencyRevokeResponse{Revoked: sum.Revoked, Failed: sum.Failed}
}

// FromDelegations — список активных делегирований
func FromDelegations(ds []models.Delegation) DelegationListResponse {
	if ds == nil {
		ds = []models.Delegation{}
	}
	return DelegationListResponse{Delegations: ds, Count: len(ds)}
}
