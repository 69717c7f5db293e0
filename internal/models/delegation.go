package models

import "time"

// DelegationRequest — запрос агента на доступ; терминален после решения
type DelegationRequest struct {
	ID          string        `json:"id"`
	AgentID     string        `json:"agent_id"`
	Scope       Scope         `json:"scope"`
	Status      RequestStatus `json:"status"`
	RequestedAt time.Time     `json:"requested_at"`
	DecidedAt   *time.Time    `json:"decided_at,omitempty"`
	ExpiresAt   *time.Time    `json:"expires_at,omitempty"`
}

// QuotaUsage — счётчики использования по окнам.
// *Start — начало календарного окна (UTC), к которому относится счётчик.
type QuotaUsage struct {
	Daily        uint64    `json:"daily"`
	Weekly       uint64    `json:"weekly"`
	Monthly      uint64    `json:"monthly"`
	DailyStart   time.Time `json:"daily_start"`
	WeeklyStart  time.Time `json:"weekly_start"`
	MonthlyStart time.Time `json:"monthly_start"`
}

// Delegation — активный грант. Единственное изменяемое состояние ядра:
// создаётся при одобрении, меняются только квоты, удаляется при
// отзыве или истечении и никогда не восстанавливается.
type Delegation struct {
	ID               string       `json:"id"`
	PolicyID         string       `json:"policy_id"`
	CredentialID     string       `json:"credential_id"`
	AgentID          string       `json:"agent_id"`
	Namespace        string       `json:"namespace"`
	SigningPublicKey string       `json:"signing_public_key"`
	Permissions      []Permission `json:"permissions"`
	Limits           Limits       `json:"limits"`
	ExpiresAt        time.Time    `json:"expires_at"`
	CreatedAt        time.Time    `json:"created_at"`
	QuotaUsed        QuotaUsage   `json:"quota_used"`
}

// Expired сообщает, истёк ли грант на момент now
func (d Delegation) Expired(now time.Time) bool {
	return !now.Before(d.ExpiresAt)
}
