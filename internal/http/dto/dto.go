package dto

import (
	"time"

	"github.com/vbncursed/vkr/delegation-service/internal/models"
)

type CreateDelegationRequest struct {
	AgentID        string       `json:"agent_id"`
	UserID         string       `json:"user_id"`
	Namespace      string       `json:"namespace"`
	Scope          models.Scope `json:"scope"`
	TradingAddress string       `json:"trading_address,omitempty"`
	StorageAddress string       `json:"storage_address,omitempty"`
}

type CreateDelegationResponse struct {
	RequestID        string     `json:"request_id"`
	Status           string     `json:"status"`
	Reason           string     `json:"reason,omitempty"`
	DelegationID     string     `json:"delegation_id,omitempty"`
	PolicyID         string     `json:"policy_id,omitempty"`
	SigningPublicKey string     `json:"signing_public_key,omitempty"`
	ExpiresAt        *time.Time `json:"expires_at,omitempty"`
}

type RevokeRequest struct {
	Reason string `json:"reason"`
}

type RevokeResponse struct {
	ID      string `json:"id"`
	Revoked bool   `json:"revoked"`
}

type EmergencyRevokeRequest struct {
	Namespace string `json:"namespace,omitempty"`
	UserID    string `json:"user_id"`
	Reason    string `json:"reason"`
}

type EmergencyRevokeResponse struct {
	Revoked int `json:"revoked"`
	Failed  int `json:"failed"`
}

type QuotaUpdateRequest struct {
	Amount uint64 `json:"amount"`
	Period string `json:"period"`
}

type QuotaUpdateResponse struct {
	ID      string `json:"id"`
	Updated bool   `json:"updated"`
}

type QuotaCheckResponse struct {
	ID       string `json:"id"`
	Exceeded bool   `json:"exceeded"`
}

type DelegationListResponse struct {
	Delegations []models.Delegation `json:"delegations"`
	Count       int                 `json:"count"`
}
